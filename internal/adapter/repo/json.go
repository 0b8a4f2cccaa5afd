package repo

import "encoding/json"

// jsonb columns travel as raw bytes. Marshal errors at this layer are
// programming errors (all inputs are plain structs and slices), so they are
// surfaced rather than swallowed.
func marshalJSONB(v any) ([]byte, error) {
	if v == nil {
		return nil, nil
	}
	return json.Marshal(v)
}

// unmarshalJSONB tolerates empty and null payloads, leaving the target at
// its zero value.
func unmarshalJSONB(data []byte, v any) error {
	if len(data) == 0 || string(data) == "null" {
		return nil
	}
	return json.Unmarshal(data, v)
}
