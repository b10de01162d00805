// Package validation checks structure and scenario YAML files against their
// embedded JSON Schemas before anything downstream parses them into typed
// models.
package validation

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v6"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"gopkg.in/yaml.v3"

	"github.com/electoral-sim/bancas/schemas"
)

// defaultPrinter is used to format schema validation error messages.
var defaultPrinter = message.NewPrinter(language.English)

// structureSchema is the compiled JSON Schema for structure YAML files.
var structureSchema *jsonschema.Schema

// scenarioSchema is the compiled JSON Schema for scenario YAML files.
var scenarioSchema *jsonschema.Schema

func init() {
	structureSchema = mustCompileSchema(schemas.StructureSchemaJSON, "structure.schema.json")
	scenarioSchema = mustCompileSchema(schemas.ScenarioSchemaJSON, "scenario.schema.json")
}

func mustCompileSchema(raw string, name string) *jsonschema.Schema {
	var schemaDoc any
	if err := json.Unmarshal([]byte(raw), &schemaDoc); err != nil {
		panic(fmt.Sprintf("failed to parse embedded %s: %v", name, err))
	}

	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(name, schemaDoc); err != nil {
		panic(fmt.Sprintf("failed to add %s resource: %v", name, err))
	}

	sch, err := compiler.Compile(name)
	if err != nil {
		panic(fmt.Sprintf("failed to compile %s: %v", name, err))
	}
	return sch
}

// ValidateScenarioFile validates a scenario YAML file at the given path.
// Returns errors for the scenario itself AND the structure file it
// references (resolved relative to the scenario's directory), plus the
// structure's composition CSV when one is declared.
func ValidateScenarioFile(scenarioPath string) (scenarioErrs []string, refErrs map[string][]string, err error) {
	data, err := os.ReadFile(scenarioPath)
	if err != nil {
		return nil, nil, fmt.Errorf("reading scenario file: %w", err)
	}

	scenarioErrs = ValidateScenarioBytes(data)

	// Parse into a minimal struct to resolve the structure reference
	var spec struct {
		Structure string `yaml:"structure"`
	}
	if yamlErr := yaml.Unmarshal(data, &spec); yamlErr != nil {
		return scenarioErrs, nil, nil // can't resolve references, but scenario errors are still useful
	}
	if spec.Structure == "" {
		return scenarioErrs, nil, nil
	}

	baseDir := filepath.Dir(scenarioPath)
	refErrs = make(map[string][]string)

	structurePath := spec.Structure
	if !filepath.IsAbs(structurePath) {
		structurePath = filepath.Join(baseDir, structurePath)
	}
	structureData, readErr := os.ReadFile(structurePath)
	if readErr != nil {
		refErrs[spec.Structure] = []string{fmt.Sprintf("cannot read structure file: %v", readErr)}
		return scenarioErrs, refErrs, nil
	}
	if errs := ValidateStructureBytes(structureData); len(errs) > 0 {
		refErrs[spec.Structure] = errs
	}

	// Composition is optional, but a declared one must exist.
	var structureSpec struct {
		Composition string `yaml:"composition"`
	}
	if yaml.Unmarshal(structureData, &structureSpec) == nil && structureSpec.Composition != "" {
		compositionPath := structureSpec.Composition
		if !filepath.IsAbs(compositionPath) {
			compositionPath = filepath.Join(filepath.Dir(structurePath), compositionPath)
		}
		if _, statErr := os.Stat(compositionPath); statErr != nil {
			refErrs[structureSpec.Composition] = []string{fmt.Sprintf("cannot read composition file: %v", statErr)}
		}
	}

	return scenarioErrs, refErrs, nil
}

// ValidateStructureBytes validates raw YAML bytes against the structure schema.
func ValidateStructureBytes(data []byte) []string {
	return validateYAMLBytes(structureSchema, data)
}

// ValidateScenarioBytes validates raw YAML bytes against the scenario schema.
func ValidateScenarioBytes(data []byte) []string {
	return validateYAMLBytes(scenarioSchema, data)
}

func validateYAMLBytes(schema *jsonschema.Schema, data []byte) []string {
	// Parse YAML into generic any
	var yamlDoc any
	if err := yaml.Unmarshal(data, &yamlDoc); err != nil {
		return []string{fmt.Sprintf("YAML parse error: %v", err)}
	}

	// Convert to JSON-compatible types (yaml.v3 uses map[string]any which is fine)
	jsonCompatible := convertToJSONCompatible(yamlDoc)

	return validateAgainstSchema(schema, jsonCompatible)
}

func validateAgainstSchema(schema *jsonschema.Schema, instance any) []string {
	err := schema.Validate(instance)
	if err == nil {
		return nil
	}
	ve, ok := err.(*jsonschema.ValidationError)
	if !ok {
		return []string{fmt.Sprintf("schema: %v", err)}
	}
	var errs []string
	collectSchemaErrors(ve, &errs)
	return errs
}

func collectSchemaErrors(ve *jsonschema.ValidationError, errs *[]string) {
	if len(ve.Causes) == 0 {
		loc := "/"
		if len(ve.InstanceLocation) > 0 {
			loc = "/" + strings.Join(ve.InstanceLocation, "/")
		}
		*errs = append(*errs, fmt.Sprintf("%s: %s", loc, ve.ErrorKind.LocalizedString(defaultPrinter)))
		return
	}
	for _, c := range ve.Causes {
		collectSchemaErrors(c, errs)
	}
}

// convertToJSONCompatible converts YAML-decoded values to JSON-compatible types.
// yaml.v3 decodes to map[string]any which is fine, but integers need to stay as-is.
func convertToJSONCompatible(v any) any {
	switch val := v.(type) {
	case map[string]any:
		result := make(map[string]any, len(val))
		for k, v2 := range val {
			result[k] = convertToJSONCompatible(v2)
		}
		return result
	case []any:
		result := make([]any, len(val))
		for i, v2 := range val {
			result[i] = convertToJSONCompatible(v2)
		}
		return result
	default:
		return val
	}
}
