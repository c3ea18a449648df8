// Package schemas embeds the JSON Schema documents used to validate session
// plan files.
package schemas

import _ "embed"

// SessionPlanSchemaJSON is the JSON Schema for session plan YAML files.
//
//go:embed session-plan.schema.json
var SessionPlanSchemaJSON string
