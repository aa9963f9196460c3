package parser

import (
	"encoding/json"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"babinium/internal/domain"
)

const msgMalformedRows = "AI response rows are not flat objects of scalar values"

// tableRowsSchema accepts an array of objects whose values are all scalars.
const tableRowsSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "array",
  "items": {
    "type": "object",
    "additionalProperties": {
      "type": ["string", "number", "boolean", "null"]
    }
  }
}`

var rowsSchema = jsonschema.MustCompileString("table_rows.json", tableRowsSchema)

func validateRows(data json.RawMessage) error {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return &domain.ParseError{Message: domain.MsgInvalidFormat, Err: err}
	}
	if err := rowsSchema.Validate(v); err != nil {
		return &domain.ValidationError{Message: msgMalformedRows, Err: err}
	}
	return nil
}
