// Package schemas embeds the JSON Schemas for the YAML configuration files.
package schemas

import _ "embed"

// StructureSchemaJSON is the JSON Schema for structure YAML files.
//
//go:embed structure.schema.json
var StructureSchemaJSON string

// ScenarioSchemaJSON is the JSON Schema for scenario YAML files.
//
//go:embed scenario.schema.json
var ScenarioSchemaJSON string
