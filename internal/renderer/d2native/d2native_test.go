package d2native

import "testing"

func TestThemeID(t *testing.T) {
	cases := []struct {
		theme string
		want  int64
	}{
		{"default", 0},
		{"neutral", 0},
		{"null", 0},
		{"base", 1},
		{"forest", 101},
		{"dark", 200},
		{"made-up", 0},
		{"", 0},
	}
	for _, tc := range cases {
		if got := ThemeID(tc.theme); got != tc.want {
			t.Errorf("ThemeID(%q) = %d, want %d", tc.theme, got, tc.want)
		}
	}
}
