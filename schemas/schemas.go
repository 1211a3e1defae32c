// Package schemas holds the embedded JSON Schemas that define this tool's
// machine-readable output contracts.
package schemas

import _ "embed"

// SummarySchemaJSON is the JSON Schema for summary.json documents.
//
//go:embed summary.schema.json
var SummarySchemaJSON string
