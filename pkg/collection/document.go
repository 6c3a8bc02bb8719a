// Copyright 2024 The Carvel Authors.
// SPDX-License-Identifier: Apache-2.0

package collection

import (
	"bytes"
	"encoding/json"
	"sort"

	"carvel.dev/tplcombine/pkg/orderedmap"
	"carvel.dev/tplcombine/pkg/record"
	"gopkg.in/yaml.v3"
)

var (
	// templateFieldOrder is the order fields are written in; anything not
	// listed here is never written.
	templateFieldOrder = []string{
		"title", "description", "note", "categories", "platform", "logo",
		"image", "restart_policy", "type", "administrator_only",
		"ports", "volumes", "env", "compose",
	}
	envFieldOrder    = []string{"name", "label", "default"}
	volumeFieldOrder = []string{"container", "bind", "readonly"}
)

// Document is an output collection.
type Document struct {
	Version   string
	Templates []record.Record
}

func New(records []record.Record) Document {
	return Document{Version: DefaultVersion, Templates: records}
}

func (d Document) AsJSON() ([]byte, error) {
	bs, err := json.MarshalIndent(d.ordered(), "", "  ")
	if err != nil {
		return nil, err
	}
	return append(bs, '\n'), nil
}

func (d Document) AsYAML() ([]byte, error) {
	var buf bytes.Buffer

	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)

	if err := enc.Encode(d.ordered()); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

func (d Document) ordered() *orderedmap.Map {
	templates := make([]interface{}, 0, len(d.Templates))
	for _, rec := range d.Templates {
		templates = append(templates, Template(rec))
	}

	result := orderedmap.NewMap()
	result.Set("version", d.Version)
	result.Set("templates", templates)
	return result
}

// Template renders one record with fields in canonical order. Empty
// optional fields are omitted; title is always present.
func Template(rec record.Record) *orderedmap.Map {
	fields := rec.Fields()
	result := orderedmap.NewMap()

	for _, key := range templateFieldOrder {
		val := fields[key]
		if key != "title" && isEmpty(val) {
			continue
		}
		switch key {
		case "env":
			val = orderItems(val.([]interface{}), envFieldOrder)
		case "volumes":
			val = orderItems(val.([]interface{}), volumeFieldOrder)
		default:
			val = orderedmap.Conversion{Object: val}.FromUnorderedMaps()
		}
		result.Set(key, val)
	}

	return result
}

func orderItems(items []interface{}, order []string) []interface{} {
	result := make([]interface{}, 0, len(items))
	for _, item := range items {
		m, ok := item.(map[string]interface{})
		if !ok {
			result = append(result, item)
			continue
		}
		result = append(result, orderKeys(m, order))
	}
	return result
}

// orderKeys places known keys first, in order, then any others sorted.
func orderKeys(m map[string]interface{}, order []string) *orderedmap.Map {
	result := orderedmap.NewMap()
	seen := map[string]struct{}{}

	for _, key := range order {
		if val, found := m[key]; found {
			result.Set(key, val)
			seen[key] = struct{}{}
		}
	}

	var rest []string
	for key := range m {
		if _, found := seen[key]; !found {
			rest = append(rest, key)
		}
	}
	sort.Strings(rest)
	for _, key := range rest {
		result.Set(key, m[key])
	}

	return result
}

func isEmpty(val interface{}) bool {
	switch typed := val.(type) {
	case nil:
		return true
	case string:
		return typed == ""
	case []interface{}:
		return len(typed) == 0
	case bool:
		return !typed
	case int:
		return typed == 0
	default:
		return false
	}
}
