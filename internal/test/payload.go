package test

import (
	"fmt"

	"github.com/fxamacker/cbor/v2"
)

// SwapFields returns a ModifyPayload.Modify that exchanges the fields a and b of the struct found at path.
func SwapFields(path []string, a, b string) func([]byte) ([]byte, error) {
	return func(payload []byte) ([]byte, error) {
		return mapFields(payload, path, func(m map[string]cbor.RawMessage) error {
			va, okA := m[a]
			vb, okB := m[b]
			if !okA || !okB {
				return fmt.Errorf("missing field %s or %s", a, b)
			}
			m[a], m[b] = vb, va
			return nil
		})
	}
}

// SetField returns a ModifyPayload.Modify that replaces the field name of the struct found at path with v.
func SetField(path []string, name string, v any) func([]byte) ([]byte, error) {
	return func(payload []byte) ([]byte, error) {
		return mapFields(payload, path, func(m map[string]cbor.RawMessage) error {
			if _, ok := m[name]; !ok {
				return fmt.Errorf("missing field %s", name)
			}
			data, err := cbor.Marshal(v)
			if err != nil {
				return err
			}
			m[name] = data
			return nil
		})
	}
}

func mapFields(data []byte, path []string, f func(map[string]cbor.RawMessage) error) ([]byte, error) {
	var m map[string]cbor.RawMessage
	if err := cbor.Unmarshal(data, &m); err != nil {
		return nil, err
	}
	if len(path) == 0 {
		if err := f(m); err != nil {
			return nil, err
		}
		return cbor.Marshal(m)
	}
	inner, ok := m[path[0]]
	if !ok {
		return nil, fmt.Errorf("missing field %s", path[0])
	}
	out, err := mapFields(inner, path[1:], f)
	if err != nil {
		return nil, err
	}
	m[path[0]] = out
	return cbor.Marshal(m)
}
