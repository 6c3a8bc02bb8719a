// Copyright 2024 The Carvel Authors.
// SPDX-License-Identifier: Apache-2.0

package collection

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"carvel.dev/tplcombine/pkg/record"
	"github.com/hashicorp/go-version"
	"gopkg.in/yaml.v3"
)

const DefaultVersion = "2"

var minVersion = version.Must(version.NewVersion(DefaultVersion))

// Decode splits a source document into raw template documents.
// Elements that are not mappings are still returned (with nil Fields) so
// that normalization reports them as unusable instead of dropping them.
func Decode(data []byte, source string) ([]record.Raw, error) {
	docs, err := parseDocuments(data)
	if err != nil {
		return nil, fmt.Errorf("Parsing %s: %s", source, err)
	}

	var result []record.Raw

	for i, doc := range docs {
		raws, err := extract(doc, source)
		if err != nil {
			if len(docs) > 1 {
				return nil, fmt.Errorf("Extracting templates from %s (document %d): %s", source, i+1, err)
			}
			return nil, fmt.Errorf("Extracting templates from %s: %s", source, err)
		}
		result = append(result, raws...)
	}

	return result, nil
}

func parseDocuments(data []byte) ([]interface{}, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, nil
	}

	if trimmed[0] == '{' || trimmed[0] == '[' {
		var doc interface{}
		err := json.Unmarshal(trimmed, &doc)
		if err == nil {
			return []interface{}{doc}, nil
		}
		// flow-style YAML also starts with a bracket
		if _, isSyntaxErr := err.(*json.SyntaxError); !isSyntaxErr {
			return nil, err
		}
	}

	var docs []interface{}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	for {
		var doc interface{}
		err := dec.Decode(&doc)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		if doc != nil {
			docs = append(docs, doc)
		}
	}

	return docs, nil
}

func extract(doc interface{}, source string) ([]record.Raw, error) {
	if m, ok := asMap(doc); ok {
		switch {
		case has(m, "templates") && has(m, "version"):
			if err := checkVersion(m["version"]); err != nil {
				return nil, err
			}
			items, ok := m["templates"].([]interface{})
			if !ok {
				if m["templates"] == nil {
					return nil, nil
				}
				return nil, fmt.Errorf("Expected 'templates' to be a list, but was %T", m["templates"])
			}
			return rawsFrom(items, source), nil

		case has(m, "title") || has(m, "image"):
			return []record.Raw{{Fields: m, Source: source}}, nil

		case has(m, "displayName") && has(m, "name"):
			return nil, fmt.Errorf("Expected Portainer-style templates, but found a QNAP Container Station template (convert it first)")

		case has(m, "services"):
			return nil, fmt.Errorf("Expected Portainer-style templates, but found a Compose document (convert it first)")

		default:
			return nil, fmt.Errorf("Unsupported template format: expected 'templates' and 'version', or 'title' or 'image' keys")
		}
	}

	if items, ok := doc.([]interface{}); ok {
		if len(items) > 0 {
			if first, ok := asMap(items[0]); ok && has(first, "displayName") && has(first, "name") {
				return nil, fmt.Errorf("Expected Portainer-style templates, but found QNAP Container Station templates (convert them first)")
			}
		}
		return rawsFrom(items, source), nil
	}

	return nil, fmt.Errorf("Unsupported template format: expected mapping or list, but was %T", doc)
}

func checkVersion(val interface{}) error {
	str := fmt.Sprint(val)
	ver, err := version.NewVersion(str)
	if err != nil {
		return fmt.Errorf("Parsing collection version '%s': %s", str, err)
	}
	if ver.LessThan(minVersion) {
		return fmt.Errorf("Expected collection version to be >= %s, but was %s", minVersion, str)
	}
	return nil
}

func rawsFrom(items []interface{}, source string) []record.Raw {
	result := make([]record.Raw, 0, len(items))
	for _, item := range items {
		m, _ := asMap(item)
		result = append(result, record.Raw{Fields: m, Source: source})
	}
	return result
}

func has(m map[string]interface{}, key string) bool {
	_, found := m[key]
	return found
}

func asMap(val interface{}) (map[string]interface{}, bool) {
	switch typed := val.(type) {
	case map[string]interface{}:
		return typed, true
	case map[interface{}]interface{}:
		result := make(map[string]interface{}, len(typed))
		for k, v := range typed {
			result[fmt.Sprint(k)] = v
		}
		return result, true
	default:
		return nil, false
	}
}
