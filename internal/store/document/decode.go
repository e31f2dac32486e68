package document

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"

	"github.com/vladlyt/mj/internal/domain"
)

var errEmpty = errors.New("empty document")

// decode parses data according to the extension of path.
// .yaml/.yml and .toml are recognised; anything else is JSON, where comments
// and trailing commas are tolerated.
//
// For JSON, a field of the wrong type only drops that field; the dropped
// field paths are returned so the caller can report them.
func decode(path string, data []byte) (domain.Document, []string, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return domain.Document{}, nil, errEmpty
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		doc, err := decodeYAML(data)
		return doc, nil, err
	case ".toml":
		doc, err := decodeTOML(data)
		return doc, nil, err
	default:
		return decodeJSON(data)
	}
}

// rawDocument defers decoding of each field so one bad value does not
// discard the others.
type rawDocument struct {
	Name    json.RawMessage `json:"name"`
	Aliases json.RawMessage `json:"aliases"`
}

func decodeJSON(data []byte) (domain.Document, []string, error) {
	var raw rawDocument
	if err := json.Unmarshal(jsonc.ToJSON(data), &raw); err != nil {
		return domain.Document{}, nil, fmt.Errorf("failed to parse json config: %w", err)
	}

	var (
		doc     domain.Document
		dropped []string
	)
	if len(raw.Name) > 0 && !isNull(raw.Name) {
		if err := json.Unmarshal(raw.Name, &doc.Name); err != nil {
			dropped = append(dropped, "name")
		}
	}
	if len(raw.Aliases) > 0 && !isNull(raw.Aliases) {
		bad, err := decodeAliases(raw.Aliases, &doc.Aliases)
		if err != nil {
			doc.Aliases = domain.Aliases{}
			dropped = append(dropped, "aliases")
		}
		dropped = append(dropped, bad...)
	}
	return doc, dropped, nil
}

// decodeAliases reads a JSON object in key order. Entries whose room id is
// not a string are skipped and reported as "aliases.<key>".
func decodeAliases(data []byte, out *domain.Aliases) ([]string, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, fmt.Errorf("aliases: expected object, got %v", tok)
	}

	var dropped []string
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, _ := tok.(string)

		var value json.RawMessage
		if err := dec.Decode(&value); err != nil {
			return nil, err
		}
		var roomID string
		if err := json.Unmarshal(value, &roomID); err != nil {
			dropped = append(dropped, "aliases."+key)
			continue
		}
		out.Set(key, roomID)
	}
	return dropped, nil
}

func isNull(raw json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}

func decodeYAML(data []byte) (domain.Document, error) {
	var doc domain.Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return domain.Document{}, fmt.Errorf("failed to parse yaml config: %w", err)
	}
	return doc, nil
}

// tomlDocument mirrors domain.Document; TOML tables decode into Go maps, so
// the alias order is recovered from the key metadata.
type tomlDocument struct {
	Name    string            `toml:"name"`
	Aliases map[string]string `toml:"aliases"`
}

func decodeTOML(data []byte) (domain.Document, error) {
	var td tomlDocument
	md, err := toml.Decode(string(data), &td)
	if err != nil {
		return domain.Document{}, fmt.Errorf("failed to parse toml config: %w", err)
	}

	doc := domain.Document{Name: td.Name}
	for _, key := range md.Keys() {
		if len(key) != 2 || key[0] != "aliases" {
			continue
		}
		if roomID, ok := td.Aliases[key[1]]; ok {
			doc.Aliases.Set(key[1], roomID)
		}
	}
	return doc, nil
}
