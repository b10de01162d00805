package utils

// Ptr returns a pointer to a copy of v. Handy for optional scalar fields.
func Ptr[T any](v T) *T {
	return &v
}
