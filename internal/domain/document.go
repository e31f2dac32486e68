package domain

import (
	"bytes"
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"
)

// Document is the persisted user configuration.
//
// It always carries both fields after a load: a missing name is "" and
// missing aliases are an empty table.
type Document struct {
	// Name is the default display name appended to room URLs.
	Name string `json:"name" yaml:"name"`

	// Aliases maps alias -> room id, in insertion order.
	Aliases Aliases `json:"aliases" yaml:"aliases"`
}

// Clone returns a deep copy.
func (d Document) Clone() Document {
	return Document{Name: d.Name, Aliases: d.Aliases.Clone()}
}

// Alias is a single alias table entry.
type Alias struct {
	Name   string `json:"alias"`
	RoomID string `json:"room_id"`
}

// Aliases is an insertion-ordered alias -> room id table.
// The zero value is an empty table ready to use.
type Aliases struct {
	keys []string
	m    map[string]string
}

// Get returns the room id for alias.
func (a *Aliases) Get(alias string) (string, bool) {
	id, ok := a.m[alias]
	return id, ok
}

// Set adds or overwrites alias. An overwritten alias keeps its position.
func (a *Aliases) Set(alias, roomID string) {
	if a.m == nil {
		a.m = make(map[string]string)
	}
	if _, ok := a.m[alias]; !ok {
		a.keys = append(a.keys, alias)
	}
	a.m[alias] = roomID
}

// Delete removes alias and reports whether it was present.
func (a *Aliases) Delete(alias string) bool {
	if _, ok := a.m[alias]; !ok {
		return false
	}
	delete(a.m, alias)
	for i, k := range a.keys {
		if k == alias {
			a.keys = append(a.keys[:i], a.keys[i+1:]...)
			break
		}
	}
	return true
}

// Len returns the number of aliases.
func (a *Aliases) Len() int { return len(a.keys) }

// Entries returns the table in stored order.
func (a *Aliases) Entries() []Alias {
	out := make([]Alias, 0, len(a.keys))
	for _, k := range a.keys {
		out = append(out, Alias{Name: k, RoomID: a.m[k]})
	}
	return out
}

// Map returns an unordered copy of the table.
func (a *Aliases) Map() map[string]string {
	out := make(map[string]string, len(a.keys))
	for k, v := range a.m {
		out[k] = v
	}
	return out
}

// Clone returns a deep copy.
func (a Aliases) Clone() Aliases {
	var c Aliases
	for _, k := range a.keys {
		c.Set(k, a.m[k])
	}
	return c
}

// MarshalJSON writes the table as a JSON object in stored order.
func (a Aliases) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range a.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(a.m[k])
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON reads a JSON object keeping key order. null yields an empty table.
func (a *Aliases) UnmarshalJSON(data []byte) error {
	*a = Aliases{}
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		return nil
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("aliases: expected object, got %v", tok)
	}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := tok.(string)
		if !ok {
			return fmt.Errorf("aliases: expected string key, got %v", tok)
		}
		var roomID string
		if err := dec.Decode(&roomID); err != nil {
			return fmt.Errorf("aliases: room id of %q: %w", key, err)
		}
		a.Set(key, roomID)
	}
	_, err = dec.Token()
	return err
}

// MarshalYAML writes the table as a mapping in stored order.
func (a Aliases) MarshalYAML() (interface{}, error) {
	node := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	for _, k := range a.keys {
		node.Content = append(node.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: k},
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: a.m[k]},
		)
	}
	return node, nil
}

// UnmarshalYAML reads a mapping keeping key order.
func (a *Aliases) UnmarshalYAML(node *yaml.Node) error {
	*a = Aliases{}
	if node.Tag == "!!null" {
		return nil
	}
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("aliases: expected mapping at line %d", node.Line)
	}
	for i := 0; i+1 < len(node.Content); i += 2 {
		var key, roomID string
		if err := node.Content[i].Decode(&key); err != nil {
			return err
		}
		if err := node.Content[i+1].Decode(&roomID); err != nil {
			return fmt.Errorf("aliases: room id of %q: %w", key, err)
		}
		a.Set(key, roomID)
	}
	return nil
}
