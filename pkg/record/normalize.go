// Copyright 2024 The Carvel Authors.
// SPDX-License-Identifier: Apache-2.0

package record

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Normalize coerces a raw source document into a Record.
//
// All array fields of the result are non-nil, all text fields are trimmed,
// duplicate categories and env names are collapsed keeping the first
// occurrence, and unknown keys are dropped. A document whose title and
// image are both empty yields *UnusableError.
func Normalize(raw Raw) (Record, error) {
	if raw.Fields == nil {
		return Record{}, &UnusableError{Source: raw.Source, Reason: "Expected template to be a mapping"}
	}

	n := normalizer{fields: raw.Fields}

	rec := Record{
		Title:             n.text("title"),
		Image:             n.text("image"),
		Description:       n.text("description"),
		Platform:          strings.ToLower(n.text("platform")),
		Logo:              n.text("logo"),
		Note:              n.text("note"),
		RestartPolicy:     n.text("restart_policy"),
		Type:              n.integer("type"),
		AdministratorOnly: n.boolean("administrator_only"),
		Categories:        n.categories(),
		Env:               n.env(),
		Ports:             n.ports(),
		Volumes:           n.volumes(),
		Compose:           n.compose(),
		Source:            strings.TrimSpace(raw.Source),
	}

	if rec.Title == "" && rec.Image == "" {
		return Record{}, &UnusableError{Source: raw.Source, Reason: "Expected non-empty title or image"}
	}
	if rec.Title == "" {
		rec.Title = ParseImage(rec.Image).Name()
	}

	rec.Degraded = n.degradedSignals()

	return rec, nil
}

type normalizer struct {
	fields   map[string]interface{}
	degraded map[Signal]struct{}
}

func (n *normalizer) degrade(sig Signal) {
	if n.degraded == nil {
		n.degraded = map[Signal]struct{}{}
	}
	n.degraded[sig] = struct{}{}
}

func (n *normalizer) degradedSignals() []Signal {
	result := []Signal{}
	for sig := range n.degraded {
		result = append(result, sig)
	}
	sort.Slice(result, func(i, j int) bool { return result[i] < result[j] })
	return result
}

func (n *normalizer) text(key string) string {
	str, _ := scalarText(n.fields[key])
	return str
}

func (n *normalizer) integer(key string) int {
	switch typed := n.fields[key].(type) {
	case int:
		return typed
	case int64:
		return int(typed)
	case float64:
		return int(typed)
	case string:
		i, err := strconv.Atoi(strings.TrimSpace(typed))
		if err == nil {
			return i
		}
	}
	return 0
}

func (n *normalizer) boolean(key string) bool {
	switch typed := n.fields[key].(type) {
	case bool:
		return typed
	case string:
		b, err := strconv.ParseBool(strings.TrimSpace(typed))
		return err == nil && b
	}
	return false
}

func (n *normalizer) compose() string {
	if val, found := n.fields["compose"]; found && val != nil {
		str, ok := scalarText(val)
		if !ok {
			n.degrade(SignalCompose)
		}
		if str != "" || !ok {
			return str
		}
	}

	repo, ok := asMap(n.fields["repository"])
	if !ok {
		return ""
	}
	val, found := repo["stackfile"]
	if !found || val == nil {
		return ""
	}
	str, ok := scalarText(val)
	if !ok {
		n.degrade(SignalCompose)
	}
	return str
}

func (n *normalizer) categories() []string {
	result := []string{}
	seen := map[string]struct{}{}

	add := func(val interface{}) {
		str, _ := scalarText(val)
		str = strings.ToLower(str)
		if str == "" {
			return
		}
		if _, found := seen[str]; found {
			return
		}
		seen[str] = struct{}{}
		result = append(result, str)
	}

	switch typed := n.fields["categories"].(type) {
	case []interface{}:
		for _, item := range typed {
			add(item)
		}
	case []string:
		for _, item := range typed {
			add(item)
		}
	default:
		add(typed)
	}
	return result
}

func (n *normalizer) env() []EnvVar {
	result := []EnvVar{}
	seen := map[string]struct{}{}

	items, ok := asList(n.fields["env"])
	if !ok {
		if n.fields["env"] != nil {
			n.degrade(SignalEnv)
		}
		return result
	}

	for _, item := range items {
		var ev EnvVar

		switch typed := item.(type) {
		case string:
			name, value, _ := strings.Cut(typed, "=")
			ev = EnvVar{Name: clean(name), Default: clean(value)}
		default:
			m, ok := asMap(item)
			if !ok {
				n.degrade(SignalEnv)
				continue
			}
			name, ok := scalarText(m["name"])
			if !ok {
				n.degrade(SignalEnv)
				continue
			}
			ev.Name = name
			ev.Label, _ = scalarText(m["label"])
			ev.Default, _ = scalarText(m["default"])
			if ev.Default == "" {
				ev.Default, _ = scalarText(m["value"])
			}
		}

		if ev.Name == "" {
			n.degrade(SignalEnv)
			continue
		}
		key := strings.ToUpper(ev.Name)
		if _, found := seen[key]; found {
			continue
		}
		seen[key] = struct{}{}
		result = append(result, ev)
	}
	return result
}

func (n *normalizer) ports() []Port {
	result := []Port{}

	items, _ := asList(n.fields["ports"])
	for _, item := range items {
		if str, ok := item.(string); ok {
			if str = clean(str); str != "" {
				result = append(result, Port{Value: str})
			}
			continue
		}

		m, ok := asMap(item)
		if !ok {
			if str, ok := scalarText(item); ok && str != "" {
				result = append(result, Port{Value: str})
			}
			continue
		}
		// Multi-key mappings have no inherent order; keep output stable.
		for _, label := range sortedKeys(m) {
			value, _ := scalarText(m[label])
			label = clean(label)
			if value == "" && label == "" {
				continue
			}
			result = append(result, Port{Label: label, Value: value})
		}
	}
	return result
}

func (n *normalizer) volumes() []Volume {
	result := []Volume{}

	items, _ := asList(n.fields["volumes"])
	for _, item := range items {
		m, ok := asMap(item)
		if !ok {
			continue
		}
		container, _ := scalarText(m["container"])
		if container == "" {
			continue
		}
		bind, _ := scalarText(m["bind"])
		readOnly, _ := m["readonly"].(bool)
		result = append(result, Volume{Container: container, Bind: bind, ReadOnly: readOnly})
	}
	return result
}

func clean(str string) string {
	return strings.TrimSpace(norm.NFKC.String(str))
}

// scalarText renders scalar values as trimmed text. It reports false for
// values that cannot be represented as text (maps, lists).
func scalarText(val interface{}) (string, bool) {
	switch typed := val.(type) {
	case nil:
		return "", true
	case string:
		return clean(typed), true
	case bool:
		return strconv.FormatBool(typed), true
	case int:
		return strconv.Itoa(typed), true
	case int64:
		return strconv.FormatInt(typed, 10), true
	case uint64:
		return strconv.FormatUint(typed, 10), true
	case float64:
		return strconv.FormatFloat(typed, 'f', -1, 64), true
	case fmt.Stringer:
		return clean(typed.String()), true
	default:
		return "", false
	}
}

func asList(val interface{}) ([]interface{}, bool) {
	switch typed := val.(type) {
	case []interface{}:
		return typed, true
	case []map[string]interface{}:
		result := make([]interface{}, 0, len(typed))
		for _, item := range typed {
			result = append(result, item)
		}
		return result, true
	default:
		return nil, false
	}
}

// asMap accepts both string-keyed maps (JSON) and interface-keyed maps
// (YAML documents with non-string keys).
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

func sortedKeys(m map[string]interface{}) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
