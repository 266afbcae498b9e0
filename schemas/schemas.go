// Package schemas holds the embedded JSON Schema documents used to validate
// external inputs.
package schemas

import _ "embed"

// CasesSchemaJSON is the JSON Schema for evaluation case-set files.
//
//go:embed cases.schema.json
var CasesSchemaJSON string
