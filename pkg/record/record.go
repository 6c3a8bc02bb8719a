// Copyright 2024 The Carvel Authors.
// SPDX-License-Identifier: Apache-2.0

package record

// Signal names a comparison signal of a record.
type Signal string

const (
	SignalTitle       Signal = "title"
	SignalImage       Signal = "image"
	SignalDescription Signal = "description"
	SignalCompose     Signal = "compose"
	SignalEnv         Signal = "env"
)

type EnvVar struct {
	Name    string
	Label   string
	Default string
}

// Port maps an optional label to a port specification such as "8080:80/tcp".
type Port struct {
	Label string
	Value string
}

type Volume struct {
	Container string
	Bind      string
	ReadOnly  bool
}

// Record is a template normalized to the canonical field set.
// Array fields are never nil after Normalize.
type Record struct {
	Title             string
	Image             string
	Description       string
	Platform          string
	Logo              string
	Note              string
	RestartPolicy     string
	Type              int
	AdministratorOnly bool

	Categories []string
	Env        []EnvVar
	Ports      []Port
	Volumes    []Volume

	Compose string

	// Source is the provenance tag of the adapter that produced the record.
	// It is carried through but never scored.
	Source string

	// Degraded lists signals whose source value could not be used
	// (e.g. a non-text compose payload).
	Degraded []Signal
}

// Raw is an already-fetched source document before normalization.
// Fields may contain arbitrary extra keys and nil values.
type Raw struct {
	Fields map[string]interface{}
	Source string
}

func (r Record) IsDegraded(sig Signal) bool {
	for _, d := range r.Degraded {
		if d == sig {
			return true
		}
	}
	return false
}

// WithTitle returns a copy of the record with a different display title.
func (r Record) WithTitle(title string) Record {
	out := r.clone()
	out.Title = title
	return out
}

func (r Record) clone() Record {
	out := r
	out.Categories = append([]string{}, r.Categories...)
	out.Env = append([]EnvVar{}, r.Env...)
	out.Ports = append([]Port{}, r.Ports...)
	out.Volumes = append([]Volume{}, r.Volumes...)
	out.Degraded = append([]Signal{}, r.Degraded...)
	return out
}

// Fields renders the record back into a raw field map accepted by Normalize.
func (r Record) Fields() map[string]interface{} {
	fields := map[string]interface{}{
		"title":       r.Title,
		"image":       r.Image,
		"description": r.Description,
		"platform":    r.Platform,
		"logo":        r.Logo,
		"note":        r.Note,
		"compose":     r.Compose,
	}
	if r.RestartPolicy != "" {
		fields["restart_policy"] = r.RestartPolicy
	}
	if r.Type != 0 {
		fields["type"] = r.Type
	}
	if r.AdministratorOnly {
		fields["administrator_only"] = true
	}

	categories := make([]interface{}, 0, len(r.Categories))
	for _, c := range r.Categories {
		categories = append(categories, c)
	}
	fields["categories"] = categories

	env := make([]interface{}, 0, len(r.Env))
	for _, e := range r.Env {
		item := map[string]interface{}{"name": e.Name}
		if e.Label != "" {
			item["label"] = e.Label
		}
		if e.Default != "" {
			item["default"] = e.Default
		}
		env = append(env, item)
	}
	fields["env"] = env

	ports := make([]interface{}, 0, len(r.Ports))
	for _, p := range r.Ports {
		if p.Label == "" {
			ports = append(ports, p.Value)
		} else {
			ports = append(ports, map[string]interface{}{p.Label: p.Value})
		}
	}
	fields["ports"] = ports

	volumes := make([]interface{}, 0, len(r.Volumes))
	for _, v := range r.Volumes {
		item := map[string]interface{}{"container": v.Container}
		if v.Bind != "" {
			item["bind"] = v.Bind
		}
		if v.ReadOnly {
			item["readonly"] = true
		}
		volumes = append(volumes, item)
	}
	fields["volumes"] = volumes

	return fields
}
