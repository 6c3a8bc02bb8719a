// Copyright 2024 The Carvel Authors.
// SPDX-License-Identifier: Apache-2.0

package record_test

import (
	"testing"

	"carvel.dev/tplcombine/pkg/record"
	"github.com/stretchr/testify/assert"
)

func TestParseImage(t *testing.T) {
	cases := []struct {
		image string
		ref   record.ImageRef
		name  string
	}{
		{"nginx", record.ImageRef{Repository: "nginx", Tag: "latest"}, "nginx"},
		{"Nginx:1.25-Alpine", record.ImageRef{Repository: "nginx", Tag: "1.25-alpine"}, "nginx"},
		{"library/nginx:1.25", record.ImageRef{Repository: "nginx", Tag: "1.25"}, "nginx"},
		{"docker.io/library/nginx", record.ImageRef{Registry: "docker.io", Repository: "nginx", Tag: "latest"}, "nginx"},
		{"ghcr.io/linuxserver/plex:latest", record.ImageRef{Registry: "ghcr.io", Repository: "linuxserver/plex", Tag: "latest"}, "plex"},
		{"localhost:5000/app:dev", record.ImageRef{Registry: "localhost:5000", Repository: "app", Tag: "dev"}, "app"},
		{"localhost/app", record.ImageRef{Registry: "localhost", Repository: "app", Tag: "latest"}, "app"},
		{"arm64v8/nginx", record.ImageRef{Repository: "arm64v8/nginx", Tag: "latest"}, "nginx"},
		{"nginx@sha256:abc", record.ImageRef{Repository: "nginx", Tag: "latest"}, "nginx"},
		{"  ", record.ImageRef{}, ""},
	}

	for _, tc := range cases {
		t.Run(tc.image, func(t *testing.T) {
			ref := record.ParseImage(tc.image)
			assert.Equal(t, tc.ref, ref)
			assert.Equal(t, tc.name, ref.Name())
		})
	}
}
