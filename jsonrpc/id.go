package jsonrpc

import (
	"encoding/json"
	"fmt"
)

// ID represents a JSON-RPC ID, which must be either a string or a number.
type ID struct {
	value interface{}
}

// NewID creates a JSON-RPC ID from a string or number.
func NewID(id interface{}) (ID, error) {
	switch v := id.(type) {
	case ID:
		return v, nil
	case string:
		return ID{value: v}, nil
	case int, int32, int64, float32, float64:
		return ID{value: v}, nil
	case nil:
		return ID{}, fmt.Errorf("id cannot be null")
	default:
		return ID{}, fmt.Errorf("id must be string or number, got %T", id)
	}
}

// Value returns the underlying string or number.
func (id ID) Value() interface{} {
	return id.value
}

// IsNil reports whether the ID is unset.
func (id ID) IsNil() bool {
	return id.value == nil
}

// Equal compares the ID against another ID or raw value.
func (id ID) Equal(other interface{}) bool {
	switch v := other.(type) {
	case string, int, int32, int64, float32, float64:
		return id.value == v
	case ID:
		return id.value == v.value
	default:
		return false
	}
}

var _ json.Marshaler = ID{}

func (id ID) MarshalJSON() ([]byte, error) {
	switch id.value {
	case nil:
		return json.Marshal(0)
	default:
		return json.Marshal(id.value)
	}
}

var _ json.Unmarshaler = &ID{}

func (id *ID) UnmarshalJSON(data []byte) error {
	var raw interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	switch v := raw.(type) {
	case string:
		id.value = v
		return nil
	case float64: // JSON numbers decode as float64
		id.value = int(v)
		return nil
	case nil:
		return fmt.Errorf("id cannot be null")
	default:
		return fmt.Errorf("id must be string or number, got %T", raw)
	}
}
