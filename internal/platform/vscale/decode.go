package vscale

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// Object is an API object decoded twice: into the typed view T and into
// its raw field map, from which providers build an entity's Extra.
type Object[T any] struct {
	Value T
	Raw   map[string]any
}

// DecodeObject decodes a single JSON object response.
func DecodeObject[T any](r *Response) (Object[T], error) {
	return decodeObject[T](r.Body)
}

// DecodeList decodes a JSON array response.
func DecodeList[T any](r *Response) ([]Object[T], error) {
	var items []json.RawMessage
	if err := r.Decode(&items); err != nil {
		return nil, err
	}
	out := make([]Object[T], 0, len(items))
	for _, item := range items {
		obj, err := decodeObject[T](item)
		if err != nil {
			return nil, err
		}
		out = append(out, obj)
	}
	return out, nil
}

func decodeObject[T any](data []byte) (Object[T], error) {
	var obj Object[T]
	if err := json.Unmarshal(data, &obj.Value); err != nil {
		return obj, fmt.Errorf("vscale: failed to decode response: %w", err)
	}
	if err := json.Unmarshal(data, &obj.Raw); err != nil {
		return obj, fmt.Errorf("vscale: failed to decode response: %w", err)
	}
	return obj, nil
}

// ID is a vendor identifier that may arrive as a JSON number or string.
type ID string

// UnmarshalJSON accepts 68155, 68155.0 and "68155".
func (id *ID) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*id = ""
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*id = ID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("vscale: invalid id %s", data)
	}
	if i, err := n.Int64(); err == nil {
		*id = ID(strconv.FormatInt(i, 10))
		return nil
	}
	f, err := n.Float64()
	if err != nil {
		return fmt.Errorf("vscale: invalid id %s", data)
	}
	*id = ID(strconv.FormatFloat(f, 'f', -1, 64))
	return nil
}

func (id ID) String() string { return string(id) }
