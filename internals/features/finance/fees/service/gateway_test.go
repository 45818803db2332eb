package service

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func TestVerifySignature(t *testing.T) {
	sig := Signature("FEE-1", "200", "150000.00", "server-key")

	cases := []struct {
		name      string
		key       string
		signature string
		want      bool
	}{
		{"match", "server-key", sig, true},
		{"upper case and padding", "server-key", "  " + strings.ToUpper(sig) + " ", true},
		{"wrong key", "other-key", sig, false},
		{"truncated", "server-key", sig[:len(sig)-2], false},
		{"empty signature", "server-key", "", false},
		{"no key configured", "", sig, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, VerifySignature("FEE-1", "200", "150000.00", tc.key, tc.signature))
		})
	}
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 50))
	assert.Equal(t, "abc", truncate("abcdef", 3))

	name := "SPP Juli 2025 – Kelas 5 – Ayu Lestari Ümmü Çağlayan Ñandú"
	got := truncate(name, 20)
	assert.True(t, utf8.ValidString(got))
	assert.Equal(t, 20, utf8.RuneCountInString(got))
	assert.True(t, strings.HasPrefix(name, got))

	assert.Equal(t, "Ümmü", truncate("Ümmü Çağlayan", 4))
}
