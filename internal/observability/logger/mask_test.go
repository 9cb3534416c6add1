package logger

import "testing"

func TestMaskAuthorization(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"Bearer abcdef1234", "Bearer ****1234"},
		{"bearer abcdef1234", "Bearer ****1234"},
		{"abcdef1234", "****1234"},
		{"abc", "****abc"},
		{"  ", ""},
	}
	for _, c := range cases {
		if got := MaskAuthorization(c.in); got != c.want {
			t.Fatalf("MaskAuthorization(%q): expected %q, got %q", c.in, c.want, got)
		}
	}
}

func TestMaskAPIKey(t *testing.T) {
	if got := MaskAPIKey("re_live_12345678"); got != "****5678" {
		t.Fatalf("expected ****5678, got %q", got)
	}
	if got := MaskAPIKey(""); got != "" {
		t.Fatalf("expected empty, got %q", got)
	}
}
