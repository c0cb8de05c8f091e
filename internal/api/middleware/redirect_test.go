package middleware

import "testing"

func TestRedirect_RoundTrip(t *testing.T) {
	cases := []string{
		"/",
		"/dashboard",
		"/dashboard?tab=offers",
		"/jobs/123?from=search&sort=desc",
		"/path with spaces?q=a b",
		"/weird?chars=~!@#$%^&*()_+-=[]{}|;':\",./<>?",
	}
	for _, s := range cases {
		encoded := EncodeRedirect(s, "")
		decoded, ok := DecodeRedirect(encoded)
		if !ok {
			t.Fatalf("decode failed for %q", s)
		}
		if decoded != s {
			t.Fatalf("round trip broke: %q -> %q", s, decoded)
		}
	}
}

func TestEncodeRedirect_JoinsQuery(t *testing.T) {
	encoded := EncodeRedirect("/jobs", "page=2")
	decoded, ok := DecodeRedirect(encoded)
	if !ok || decoded != "/jobs?page=2" {
		t.Fatalf("expected /jobs?page=2, got %q (%v)", decoded, ok)
	}
}

func TestDecodeRedirect_FailsSoft(t *testing.T) {
	for _, malformed := range []string{"", "not-base64!!!", "%%%", "a"} {
		if dest, ok := DecodeRedirect(malformed); ok {
			t.Fatalf("expected soft failure for %q, got %q", malformed, dest)
		}
	}
}
