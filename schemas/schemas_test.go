package schemas

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xeipuuv/gojsonschema"
)

func TestSchemas_ValidJSONSchema(t *testing.T) {
	tests := []struct {
		name   string
		schema string
	}{
		{"profile", Profile},
		{"plan", Plan},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var v map[string]any
			require.NoError(t, json.Unmarshal([]byte(tt.schema), &v), "schema should be valid JSON")
			assert.Equal(t, "http://json-schema.org/draft-07/schema#", v["$schema"])

			_, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(tt.schema))
			assert.NoError(t, err, "schema should compile")
		})
	}
}
