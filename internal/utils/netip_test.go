package utils

import (
	"net/http/httptest"
	"testing"
)

func TestParseHostNoPort(t *testing.T) {
	tests := map[string]string{
		"":                "",
		"1.2.3.4":         "1.2.3.4",
		"1.2.3.4:80":      "1.2.3.4",
		"[2001:db8::1]:8": "2001:db8::1",
		"[2001:db8::1]":   "2001:db8::1",
		"host.lan:8080":   "host.lan",
	}
	for in, want := range tests {
		if got := ParseHostNoPort(in); got != want {
			t.Errorf("ParseHostNoPort(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestClientIP(t *testing.T) {
	req := httptest.NewRequest("GET", "/", nil)
	req.RemoteAddr = "127.0.0.1:4000"
	req.Header.Set("X-Forwarded-For", " 198.51.100.7 , 10.0.0.1")

	if got := ClientIP(req, false); got != "127.0.0.1" {
		t.Errorf("untrusted: got %q", got)
	}
	if got := ClientIP(req, true); got != "198.51.100.7" {
		t.Errorf("trusted: got %q", got)
	}

	req.Header.Set("CF-Connecting-IP", "203.0.113.5")
	if got := ClientIP(req, true); got != "203.0.113.5" {
		t.Errorf("cloudflare: got %q", got)
	}
}

func TestIPMatcher(t *testing.T) {
	m := NewIPMatcher([]string{" 10.0.0.0/8 ", "192.0.2.1", "2001:db8::/32", "garbage", ""})
	if m.IsEmpty() {
		t.Fatal("matcher should not be empty")
	}

	tests := map[string]bool{
		"10.20.30.40":     true,
		"192.0.2.1":       true,
		"192.0.2.2":       false,
		"::ffff:10.0.0.1": true,
		"2001:db8:1::1":   true,
		"2001:db9::1":     false,
		"not-an-ip":       false,
	}
	for ip, want := range tests {
		if got := m.Allow(ip); got != want {
			t.Errorf("Allow(%q) = %v, want %v", ip, got, want)
		}
	}

	if !NewIPMatcher(nil).IsEmpty() {
		t.Error("nil list should be empty")
	}
}
