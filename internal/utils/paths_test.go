package utils

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolvePath(t *testing.T) {
	assert.Equal(t, filepath.Clean("/abs/file.yaml"), filepath.Clean(ResolvePath("/abs/file.yaml", "/base")))
	assert.Equal(t, filepath.Clean("/base/estructura.yaml"), filepath.Clean(ResolvePath("estructura.yaml", "/base")))
	assert.Equal(t, filepath.Clean("/parent/file.yaml"), filepath.Clean(ResolvePath("../file.yaml", "/parent/sub")))
}

func TestResolvePaths(t *testing.T) {
	tests := []struct {
		name     string
		paths    []string
		baseDir  string
		expected []string
	}{
		{"empty list", []string{}, "/base", nil},
		{"nil list", nil, "/base", nil},
		{"absolute unchanged", []string{"/abs/a", "/abs/b"}, "/base", []string{"/abs/a", "/abs/b"}},
		{"relative resolved", []string{"rel1", "rel2/sub"}, "/base", []string{"/base/rel1", "/base/rel2/sub"}},
		{"mixed", []string{"/abs", "rel", "../parent"}, "/base/sub", []string{"/abs", "/base/sub/rel", "/base/parent"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := ResolvePaths(tt.paths, tt.baseDir)

			if tt.expected == nil {
				assert.Nil(t, result)
				return
			}
			cleanExpected := make([]string, len(tt.expected))
			for i, p := range tt.expected {
				cleanExpected[i] = filepath.Clean(p)
			}
			cleanResult := make([]string, len(result))
			for i, p := range result {
				cleanResult[i] = filepath.Clean(p)
			}
			assert.Equal(t, cleanExpected, cleanResult)
		})
	}
}
