package digest

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTextIsDeterministic(t *testing.T) {
	samples := []string{
		"",
		"Visa info.",
		"Виза и документы",
		"multi\nline\nbody",
	}

	for _, s := range samples {
		assert.Equal(t, Text(s), Text(s), "same input must always produce the same digest")
	}
}

func TestTextDistinguishesSamples(t *testing.T) {
	samples := []string{
		"Europe",
		"europe",
		"Europe ",
		"France",
		"Visa info.",
		"Visa info",
	}

	seen := make(map[string]string)
	for _, s := range samples {
		dg := Text(s)
		prev, dup := seen[dg]
		assert.False(t, dup, "digest collision between %q and %q", s, prev)
		seen[dg] = s
	}
}

func TestTextShape(t *testing.T) {
	dg := Text("anything")
	assert.Len(t, dg, 64)

	// Known SHA-256 vector
	assert.Equal(t,
		"e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855",
		Text(""),
	)
}
