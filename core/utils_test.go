package core

import "testing"

func TestCleanString(t *testing.T) {
	tests := []struct {
		in    string
		lower bool
		want  string
	}{
		{"  Emma Doe\n", false, "Emma Doe"},
		{" Parent@Example.com ", true, "parent@example.com"},
		{"\t", true, ""},
	}
	for _, tt := range tests {
		if got := CleanString(tt.in, tt.lower); got != tt.want {
			t.Errorf("CleanString(%q, %v) = %q; want %q", tt.in, tt.lower, got, tt.want)
		}
	}
}

func TestIsDate(t *testing.T) {
	for s, want := range map[string]bool{
		"2023-06-05": true,
		"2023-02-30": false,
		"06/05/2023": false,
		"":           false,
	} {
		if got := IsDate(s); got != want {
			t.Errorf("IsDate(%q) = %v; want %v", s, got, want)
		}
	}
	if !IsDate(Today()) {
		t.Errorf("Today() = %q", Today())
	}
}
