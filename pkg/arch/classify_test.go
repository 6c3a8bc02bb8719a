// Copyright 2024 The Carvel Authors.
// SPDX-License-Identifier: Apache-2.0

package arch_test

import (
	"testing"

	"carvel.dev/tplcombine/pkg/arch"
	"carvel.dev/tplcombine/pkg/record"
	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	cases := []struct {
		desc     string
		rec      record.Record
		expected string
	}{
		{"default", record.Record{Image: "nginx:latest"}, arch.Linux},
		{"explicit platform", record.Record{Platform: "arm64", Image: "nginx:latest"}, arch.ARM64},
		{"platform with os and variant", record.Record{Platform: "linux/arm/v7"}, arch.ARM},
		{"platform linux", record.Record{Platform: "linux", Image: "nginx:1.25-arm64"}, arch.Linux},
		{"platform overrides image", record.Record{Platform: "amd64", Image: "nginx:1.25-arm64"}, arch.AMD64},
		{"unknown platform falls through", record.Record{Platform: "windows", Image: "nginx:arm64"}, arch.ARM64},
		{"image tag suffix", record.Record{Image: "nginx:1.25-aarch64"}, arch.ARM64},
		{"image tag x86_64", record.Record{Image: "app:2.0_x86_64"}, arch.AMD64},
		{"image tag armv7", record.Record{Image: "app:armv7"}, arch.ARM},
		{"image namespace", record.Record{Image: "arm32v7/nginx"}, arch.ARM},
		{"image namespace with registry", record.Record{Image: "docker.io/arm64v8/nginx:1.25"}, arch.ARM64},
		{"image tag wins over compose", record.Record{Image: "nginx:amd64", Compose: "platform: linux/arm64"}, arch.AMD64},
		{"compose", record.Record{Image: "nginx", Compose: "services:\n  web:\n    platform: linux/arm64\n"}, arch.ARM64},
		{"compose ignores 386 port numbers", record.Record{Compose: "ports:\n  - 386:386\n"}, arch.Linux},
		{"version numbers are not architectures", record.Record{Image: "app:1.386"}, arch.Linux},
	}

	for _, tc := range cases {
		t.Run(tc.desc, func(t *testing.T) {
			assert.Equal(t, tc.expected, arch.Classify(tc.rec))
		})
	}
}

func TestCanonical(t *testing.T) {
	for token, expected := range map[string]string{
		"AArch64": arch.ARM64,
		"x86_64":  arch.AMD64,
		"i686":    arch.I386,
		"armhf":   arch.ARM,
	} {
		a, ok := arch.Canonical(token)
		assert.True(t, ok, token)
		assert.Equal(t, expected, a, token)
	}

	_, ok := arch.Canonical("linux")
	assert.False(t, ok)
}

func TestStripTagSuffix(t *testing.T) {
	cases := map[string]string{
		"1.25-arm64":     "1.25",
		"arm64":          "",
		"latest":         "latest",
		"1.25-alpine":    "1.25-alpine",
		"arm64-1.25":     "1.25",
		"2.0_x86_64":     "2.0",
		"1.2-armv7-slim": "1.2-slim",
	}
	for tag, expected := range cases {
		assert.Equal(t, expected, arch.StripTagSuffix(tag), tag)
	}
}

func TestStripNamespace(t *testing.T) {
	assert.Equal(t, "nginx", arch.StripNamespace("arm64v8/nginx"))
	assert.Equal(t, "bitnami/nginx", arch.StripNamespace("bitnami/nginx"))
	assert.Equal(t, "nginx", arch.StripNamespace("nginx"))
}

func TestTitleSuffix(t *testing.T) {
	assert.Equal(t, " (arm64)", arch.TitleSuffix(arch.ARM64))
	assert.True(t, arch.HasTitleSuffix("Nginx (ARM64)", arch.ARM64))
	assert.False(t, arch.HasTitleSuffix("Nginx (arm)", arch.ARM64))

	assert.Equal(t, "Nginx", arch.TrimTitleSuffix("Nginx (arm64)"))
	assert.Equal(t, "Nginx", arch.TrimTitleSuffix("Nginx (Linux) "))
	assert.Equal(t, "Nginx (beta)", arch.TrimTitleSuffix("Nginx (beta)"))
	assert.Equal(t, "Nginx", arch.TrimTitleSuffix("Nginx"))
}
