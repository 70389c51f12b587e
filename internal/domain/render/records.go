package render

import (
	"fmt"

	"certificate-service-go/internal/domain/certificate"

	"gopkg.in/yaml.v3"
)

// ParseRecords разбирает файл с данными студентов в YAML или JSON.
// Файл содержит одну запись (объект) или список записей.
// Значения берутся в том виде, в каком записаны в файле: 2024-05-01 остается строкой даты.
func ParseRecords(raw []byte) ([]certificate.PlaceholderData, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("invalid records file: %w", err)
	}
	if doc.Kind == 0 || len(doc.Content) == 0 {
		return nil, nil
	}

	root := resolve(doc.Content[0])
	switch root.Kind {
	case yaml.MappingNode:
		data, err := recordData(root)
		if err != nil {
			return nil, err
		}
		return []certificate.PlaceholderData{data}, nil
	case yaml.SequenceNode:
		out := make([]certificate.PlaceholderData, 0, len(root.Content))
		for i, item := range root.Content {
			item = resolve(item)
			if item.Kind != yaml.MappingNode {
				return nil, fmt.Errorf("invalid records file: record %d is not an object", i)
			}
			data, err := recordData(item)
			if err != nil {
				return nil, fmt.Errorf("record %d: %w", i, err)
			}
			out = append(out, data)
		}
		return out, nil
	case yaml.ScalarNode:
		if root.Tag == "!!null" {
			return nil, nil
		}
	}
	return nil, fmt.Errorf("invalid records file: expected an object or a list, got %s", root.Tag)
}

func resolve(n *yaml.Node) *yaml.Node {
	for n.Kind == yaml.AliasNode && n.Alias != nil {
		n = n.Alias
	}
	return n
}

// recordData пары ключ-значение записи. null считается отсутствующим ключом.
func recordData(m *yaml.Node) (certificate.PlaceholderData, error) {
	values := make(map[string]string, len(m.Content)/2)
	for i := 0; i+1 < len(m.Content); i += 2 {
		key, val := m.Content[i].Value, resolve(m.Content[i+1])
		if val.Kind != yaml.ScalarNode {
			return nil, fmt.Errorf("field %s must be a scalar", key)
		}
		if val.Tag == "!!null" {
			continue
		}
		values[key] = val.Value
	}
	return PlaceholderDataFromMap(values), nil
}
