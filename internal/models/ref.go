package models

import (
	"bytes"
	"encoding/json"
)

// Ref is a reference to another record. The backend sends either the bare
// id or the populated document; both decode into a Ref.
type Ref struct {
	ID   string `json:"_id"`
	Name string `json:"name,omitempty"`
}

// UnmarshalJSON accepts "id", null or {"_id": ..., "<x>Name": ...}.
func (r *Ref) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*r = Ref{}
		return nil
	}
	if data[0] == '"' {
		var id string
		if err := json.Unmarshal(data, &id); err != nil {
			return err
		}
		*r = Ref{ID: id}
		return nil
	}
	var doc map[string]interface{}
	if err := json.Unmarshal(data, &doc); err != nil {
		return err
	}
	ref := Ref{}
	if id, ok := doc["_id"].(string); ok {
		ref.ID = id
	}
	for _, key := range []string{"name", "departmentName", "className", "courseName"} {
		if name, ok := doc[key].(string); ok && name != "" {
			ref.Name = name
			break
		}
	}
	*r = ref
	return nil
}

// IDs collapses references into their ids, skipping empty ones.
func IDs(refs []Ref) []string {
	out := make([]string, 0, len(refs))
	for _, ref := range refs {
		if ref.ID != "" {
			out = append(out, ref.ID)
		}
	}
	return out
}
