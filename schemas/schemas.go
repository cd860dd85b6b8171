// Package schemas embeds the JSON Schemas for the documents coach-report
// reads and writes.
package schemas

import _ "embed"

// Profile is the schema for client profile files.
//
//go:embed profile.schema.json
var Profile string

// Plan is the schema for the parser's JSON output.
//
//go:embed plan.schema.json
var Plan string
