package replies

import "testing"

func TestReplyDisplayToneTrimsWhitespace(t *testing.T) {
	cases := map[string]string{
		" Happy ":        "Happy",
		" Appreciative.": "Appreciative.",
		"\tWitty\n":      "Witty",
		"Direct":         "Direct",
		"   ":            "",
	}
	for raw, want := range cases {
		if got := (Reply{Tone: raw}).DisplayTone(); got != want {
			t.Fatalf("expected tone %q for %q, got %q", want, raw, got)
		}
	}
}
