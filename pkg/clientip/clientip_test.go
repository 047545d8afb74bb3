package clientip

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRealClientIP(t *testing.T) {
	cases := map[string]string{
		"203.0.113.7:5123": "203.0.113.7",
		"[2001:db8::1]:80": "2001:db8::1",
		"198.51.100.2":     "198.51.100.2",
		"":                 Unknown,
	}
	for remote, want := range cases {
		r := httptest.NewRequest("GET", "/", nil)
		r.RemoteAddr = remote
		assert.Equal(t, want, RealClientIP(r), remote)
	}
}
