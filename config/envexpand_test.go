package config

import "testing"

func TestExpandEnv(t *testing.T) {
	t.Setenv("FL_SET", "value")
	t.Setenv("FL_EMPTY", "")

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"set variable", "x: ${FL_SET}", "x: value"},
		{"unset without default", "x: ${FL_UNSET_XYZ}", "x: "},
		{"unset with default", "x: ${FL_UNSET_XYZ:-fallback}", "x: fallback"},
		{"empty with default", "x: ${FL_EMPTY:-fallback}", "x: fallback"},
		{"set ignores default", "x: ${FL_SET:-fallback}", "x: value"},
		{"multiple", "${FL_SET}/${FL_UNSET_XYZ:-d}", "value/d"},
		{"no pattern untouched", "plain $FL_SET text", "plain $FL_SET text"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExpandEnv(tt.input); got != tt.want {
				t.Errorf("ExpandEnv(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}
