package repository

import "encoding/json"

// marshalJSON encodes a value for a JSONB column. Empty and nil values
// encode as SQL NULL rather than the literal "null".
func marshalJSON(value any) (json.RawMessage, error) {
	if value == nil {
		return nil, nil
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return nil, err
	}
	if len(raw) == 0 || string(raw) == "null" || string(raw) == "{}" || string(raw) == "[]" {
		return nil, nil
	}
	return json.RawMessage(raw), nil
}

// unmarshalJSON decodes a JSONB column into target; a NULL column is left
// as the target's zero value.
func unmarshalJSON(data json.RawMessage, target any) error {
	if len(data) == 0 {
		return nil
	}
	return json.Unmarshal(data, target)
}
