// Copyright 2024 The Carvel Authors.
// SPDX-License-Identifier: Apache-2.0

package record

import (
	"strings"
)

const DefaultImageTag = "latest"

// ImageRef is a parsed image reference. Registry host and Docker Hub's
// implicit "library/" namespace are not part of Repository.
type ImageRef struct {
	Registry   string
	Repository string
	Tag        string
}

// ParseImage splits an image reference like "ghcr.io/org/app:1.2@sha256:..."
// into its parts. Repository and Tag are lower-cased; Tag defaults to "latest".
func ParseImage(image string) ImageRef {
	image = strings.ToLower(strings.TrimSpace(image))
	if image == "" {
		return ImageRef{}
	}

	if idx := strings.Index(image, "@"); idx >= 0 {
		image = image[:idx]
	}

	var ref ImageRef

	parts := strings.Split(image, "/")
	if len(parts) > 1 && isRegistryHost(parts[0]) {
		ref.Registry = parts[0]
		parts = parts[1:]
	}

	last := parts[len(parts)-1]
	if idx := strings.LastIndex(last, ":"); idx >= 0 {
		ref.Tag = last[idx+1:]
		parts[len(parts)-1] = last[:idx]
	}
	if ref.Tag == "" {
		ref.Tag = DefaultImageTag
	}

	if len(parts) > 1 && parts[0] == "library" {
		parts = parts[1:]
	}
	ref.Repository = strings.Join(parts, "/")

	return ref
}

// Name is the last path segment of the repository (e.g. "nginx" for "bitnami/nginx").
func (r ImageRef) Name() string {
	if idx := strings.LastIndex(r.Repository, "/"); idx >= 0 {
		return r.Repository[idx+1:]
	}
	return r.Repository
}

func isRegistryHost(part string) bool {
	if part == "localhost" {
		return true
	}
	return strings.ContainsAny(part, ".:")
}
