package readme

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitizeComment(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "plain", in: "Mean magnitude", want: "Mean magnitude"},
		{name: "question mark", in: "? Magnitude in Johnson V", want: "Magnitude in Johnson V"},
		{name: "annotation", in: "[H] Catalogue (H=Hipparcos)", want: "Catalogue (H=Hipparcos)"},
		{name: "full marker", in: "*[1,3]? Coarse variability flag (H6)", want: "Coarse variability flag (H6)"},
		{name: "star only", in: "*Proper motion flag", want: "Proper motion flag"},
		{name: "whitespace runs", in: "Right   ascension\t in  degrees ", want: "Right ascension in degrees"},
		{name: "marker inside text kept", in: "Flag [see note] here?", want: "Flag [see note] here?"},
		{name: "quotes untouched", in: "Tycho's identifier", want: "Tycho's identifier"},
		{name: "empty", in: "", want: ""},
		{name: "marker only", in: "*[x]?", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SanitizeComment(tt.in))
		})
	}
}

func TestSanitizeComment_Idempotent(t *testing.T) {
	inputs := []string{
		"Mean magnitude",
		"? [1] stacked markers",
		"[a] [b] twice annotated",
		"*[1,3]?   Coarse   variability flag",
		"  ** leading stars",
		"??",
		"Tycho's   'quoted' text",
	}

	for _, in := range inputs {
		once := SanitizeComment(in)
		assert.Equal(t, once, SanitizeComment(once), "input %q", in)
	}
}

func TestEscapeQuotes(t *testing.T) {
	assert.Equal(t, "Tycho''s", EscapeQuotes("Tycho's"))
	assert.Equal(t, "''''", EscapeQuotes("''"))
	assert.Equal(t, "none", EscapeQuotes("none"))
}
