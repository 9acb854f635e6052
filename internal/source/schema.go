package source

import (
	"encoding/json"

	"github.com/huangsam/snapcal/schema"
	"github.com/invopop/jsonschema"
)

// JSONSchema returns the indented JSON Schema of the accepted source format:
// a list of weekly records.
func JSONSchema() ([]byte, error) {
	reflector := jsonschema.Reflector{
		AllowAdditionalProperties: true,
		DoNotReference:            true,
	}
	s := reflector.Reflect([]schema.SourceRecord{})
	s.Title = "snapcal source"
	s.Description = "Weekly snapshot records, one per member and week."
	return json.MarshalIndent(s, "", "  ")
}
