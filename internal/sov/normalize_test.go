package sov

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"https with www and path", "https://www.Example.com/apply", "example.com"},
		{"plain http", "http://example.com", "example.com"},
		{"subdomain stripped", "https://careers.acme.co.uk/jobs/123", "acme.co.uk"},
		{"ats subdomain", "https://jobs.lever.co/acme", "lever.co"},
		{"schemeless", "example.com/apply?id=1", "example.com"},
		{"trailing dot", "https://example.com./", "example.com"},
		{"uppercase host", "HTTPS://WWW.EXAMPLE.COM", "example.com"},
		{"bare label fallback", "http://localhost:8080/x", "localhost"},
		{"empty", "", ""},
		{"whitespace only", "   ", ""},
		{"garbage", "http://not a url", ""},
		{"ip has no domain", "http://192.168.1.10/apply", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Normalize(tt.raw))
		})
	}
}

func TestNormalizeEquivalence(t *testing.T) {
	// The canonical form identifies the organization regardless of
	// scheme, case, subdomain, or path.
	a := Normalize("https://www.Example.com/apply")
	b := Normalize("http://example.com")
	assert.Equal(t, "example.com", a)
	assert.Equal(t, a, b)
}
