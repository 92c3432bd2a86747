package dbtypes

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// BoolMap stores a jsonb object of named boolean flags, e.g. notification
// preferences.
type BoolMap map[string]bool

func (m *BoolMap) Scan(src any) error {
	if src == nil {
		*m = BoolMap{}
		return nil
	}

	switch v := src.(type) {
	case []byte:
		return m.parseFromBytes(v)
	case string:
		return m.parseFromBytes([]byte(v))
	default:
		return fmt.Errorf("BoolMap: unsupported Scan type %T", src)
	}
}

func (m BoolMap) Value() (driver.Value, error) {
	if m == nil {
		return "{}", nil
	}
	data, err := json.Marshal(map[string]bool(m))
	if err != nil {
		return nil, fmt.Errorf("BoolMap: marshal: %w", err)
	}
	return string(data), nil
}

// Enabled reports whether the named flag is explicitly set to true. A missing
// key counts as disabled.
func (m BoolMap) Enabled(flag string) bool {
	if m == nil {
		return false
	}
	return m[flag]
}

func (m *BoolMap) parseFromBytes(data []byte) error {
	if len(data) == 0 {
		*m = BoolMap{}
		return nil
	}
	parsed := map[string]bool{}
	if err := json.Unmarshal(data, &parsed); err != nil {
		return fmt.Errorf("BoolMap: unmarshal: %w", err)
	}
	*m = parsed
	return nil
}
