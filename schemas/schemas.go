// Package schemas embeds the JSON Schemas for the service's structured documents.
package schemas

import _ "embed"

// Resume is the schema for a structured résumé record.
//
//go:embed resume.schema.json
var Resume string
