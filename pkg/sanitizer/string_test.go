package sanitizer

import "testing"

func TestTrimAndNormalize(t *testing.T) {
	cases := []struct {
		name  string
		input string
		want  string
	}{
		{"empty", "", ""},
		{"whitespace only", "   \t\n  ", ""},
		{"already clean", "GPU Cluster", "GPU Cluster"},
		{"leading and trailing", "  GPU Cluster  ", "GPU Cluster"},
		{"internal runs", "GPU    Cluster", "GPU Cluster"},
		{"tabs and newlines", "GPU\t\nCluster", "GPU Cluster"},
		{"unicode preserved", "Salle de réunion  A", "Salle de réunion A"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := TrimAndNormalize(tc.input); got != tc.want {
				t.Errorf("TrimAndNormalize(%q) = %q, want %q", tc.input, got, tc.want)
			}
		})
	}
}

func TestNormalizeUserID(t *testing.T) {
	if got := NormalizeUserID("  alice  "); got != "alice" {
		t.Errorf("expected trimmed id, got %q", got)
	}
	// Internal whitespace is the caller's problem, not silently rewritten.
	if got := NormalizeUserID("team alpha"); got != "team alpha" {
		t.Errorf("expected internal whitespace preserved, got %q", got)
	}
}
