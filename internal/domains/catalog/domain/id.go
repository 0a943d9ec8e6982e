package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// ID is a server-assigned identifier. The API encodes ids either as JSON
// strings or numbers; both decode to the same textual form.
type ID string

// String returns the textual form of the identifier.
func (id ID) String() string { return string(id) }

// IsZero reports whether the identifier is empty.
func (id ID) IsZero() bool { return strings.TrimSpace(string(id)) == "" }

// Equal compares identifiers by their trimmed textual form.
func (id ID) Equal(other ID) bool {
	return strings.TrimSpace(string(id)) == strings.TrimSpace(string(other))
}

// UnmarshalJSON accepts string, number, and null encodings.
func (id *ID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = ID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("id must be a string or number: %w", err)
	}
	*id = ID(n.String())
	return nil
}

// ContainsID reports whether ids holds target.
func ContainsID(ids []ID, target ID) bool {
	for _, id := range ids {
		if id.Equal(target) {
			return true
		}
	}
	return false
}
