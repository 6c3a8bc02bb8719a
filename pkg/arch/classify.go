// Copyright 2024 The Carvel Authors.
// SPDX-License-Identifier: Apache-2.0

package arch

import (
	"strings"

	"carvel.dev/tplcombine/pkg/record"
)

// Canonical architecture tags.
const (
	ARM64 = "arm64"
	AMD64 = "amd64"
	ARM   = "arm"
	I386  = "386"
	Linux = "linux"

	// Default is assigned when no architecture signal is found.
	Default = Linux
)

// cpuAliases maps recognised CPU architecture tokens to canonical tags.
var cpuAliases = map[string]string{
	"arm64":   ARM64,
	"aarch64": ARM64,
	"arm64v8": ARM64,
	"amd64":   AMD64,
	"x86_64":  AMD64,
	"x86-64":  AMD64,
	"arm":     ARM,
	"armv6":   ARM,
	"armv7":   ARM,
	"armv7l":  ARM,
	"armhf":   ARM,
	"armel":   ARM,
	"arm32v6": ARM,
	"arm32v7": ARM,
	"386":     I386,
	"i386":    I386,
	"i686":    I386,
	"x86":     I386,
}

// composeIgnored are aliases that collide with ordinary compose content
// (port numbers, comments) and are therefore not trusted there.
var composeIgnored = map[string]struct{}{
	"386": {},
	"x86": {},
}

// namespaces are Docker Hub's per-architecture official image namespaces.
var namespaces = map[string]string{
	"arm64v8": ARM64,
	"arm32v7": ARM,
	"arm32v6": ARM,
	"arm32v5": ARM,
	"amd64":   AMD64,
	"i386":    I386,
}

// Classify infers a single architecture tag for a record. Resolution order,
// first match wins: explicit platform, image tag suffix, compose content,
// then Default. An explicit declaration always overrides inference.
func Classify(rec record.Record) string {
	if a, ok := FromPlatform(rec.Platform); ok {
		return a
	}
	if a, ok := FromImage(rec.Image); ok {
		return a
	}
	if a, ok := FromCompose(rec.Compose); ok {
		return a
	}
	return Default
}

// Canonical resolves a single token (e.g. "aarch64") to its canonical CPU
// architecture tag.
func Canonical(token string) (string, bool) {
	a, ok := cpuAliases[strings.ToLower(strings.TrimSpace(token))]
	return a, ok
}

// FromPlatform recognises "arm64", "linux", "linux/arm64/v8" and similar.
func FromPlatform(platform string) (string, bool) {
	platform = strings.ToLower(strings.TrimSpace(platform))
	if platform == "" {
		return "", false
	}

	parts := strings.Split(platform, "/")
	for i := len(parts) - 1; i >= 0; i-- {
		if a, ok := Canonical(parts[i]); ok {
			return a, true
		}
	}
	for _, part := range parts {
		if part == Linux {
			return Linux, true
		}
	}
	return "", false
}

// FromImage looks for an architecture suffix in the image tag
// (e.g. "1.25-arm64", "latest_amd64") or an architecture namespace
// (e.g. "arm64v8/nginx").
func FromImage(image string) (string, bool) {
	ref := record.ParseImage(image)
	if ref.Repository == "" {
		return "", false
	}

	tokens := tagTokens(ref.Tag)
	for i := len(tokens) - 1; i >= 0; i-- {
		if tokens[i].sep {
			continue
		}
		if a, ok := Canonical(tokens[i].text); ok {
			return a, true
		}
	}

	if ns, _, found := strings.Cut(ref.Repository, "/"); found {
		if a, ok := namespaces[ns]; ok {
			return a, true
		}
	}
	return "", false
}

// FromCompose returns the first CPU architecture token occurring in compose
// text (e.g. "platform: linux/arm64").
func FromCompose(compose string) (string, bool) {
	if compose == "" {
		return "", false
	}

	for _, token := range composeTokens(compose) {
		if _, ignored := composeIgnored[token]; ignored {
			continue
		}
		if a, ok := cpuAliases[token]; ok {
			return a, true
		}
	}
	return "", false
}

func composeTokens(compose string) []string {
	return strings.FieldsFunc(strings.ToLower(compose), func(r rune) bool {
		isWord := (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '_'
		return !isWord
	})
}
