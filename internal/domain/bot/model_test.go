package bot

import "testing"

func TestMaskToken(t *testing.T) {
	tests := []struct {
		name  string
		token string
		want  string
	}{
		{"long token keeps prefix only", "123456789:AAFakeTokenBody", "123456789:..."},
		{"short token unchanged", "short", "short"},
		{"boundary length unchanged", "0123456789", "0123456789"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := MaskToken(tt.token); got != tt.want {
				t.Errorf("MaskToken(%q) = %q, want %q", tt.token, got, tt.want)
			}
		})
	}
}
