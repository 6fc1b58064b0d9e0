package config

import (
	"bytes"
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"
)

// Repositories is the ordered repository mapping. It serializes as an
// object keyed by repository name; the order of keys is the order of the
// slice in both directions.
type Repositories []Repository

// Get returns the repository with the given name.
func (rs Repositories) Get(name string) (Repository, bool) {
	for _, r := range rs {
		if r.Name == name {
			return r, true
		}
	}
	return Repository{}, false
}

// Names returns repository names in order.
func (rs Repositories) Names() []string {
	names := make([]string, len(rs))
	for i, r := range rs {
		names[i] = r.Name
	}
	return names
}

func (rs Repositories) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, r := range rs {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(r.Name)
		if err != nil {
			return nil, err
		}
		value, err := json.Marshal(r)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func (rs *Repositories) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))

	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if tok == nil {
		*rs = nil
		return nil
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("repositories: expected object, got %v", tok)
	}

	out := make(Repositories, 0)
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		name, ok := tok.(string)
		if !ok {
			return fmt.Errorf("repositories: expected key, got %v", tok)
		}

		var r Repository
		if err := dec.Decode(&r); err != nil {
			return fmt.Errorf("repositories.%s: %w", name, err)
		}
		r.Name = name
		out = append(out, r)
	}

	if _, err := dec.Token(); err != nil {
		return err
	}

	*rs = out
	return nil
}

func (rs Repositories) MarshalYAML() (any, error) {
	node := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	for _, r := range rs {
		var value yaml.Node
		if err := value.Encode(r); err != nil {
			return nil, err
		}
		node.Content = append(node.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: r.Name},
			&value,
		)
	}
	return node, nil
}

func (rs *Repositories) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("repositories: expected mapping at line %d", node.Line)
	}

	out := make(Repositories, 0, len(node.Content)/2)
	for i := 0; i+1 < len(node.Content); i += 2 {
		key, value := node.Content[i], node.Content[i+1]

		var r Repository
		if err := value.Decode(&r); err != nil {
			return fmt.Errorf("repositories.%s: %w", key.Value, err)
		}
		r.Name = key.Value
		out = append(out, r)
	}

	*rs = out
	return nil
}
