package readme

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseField(t *testing.T) {
	f, ok, err := ParseField("12- 14  F6.2  mag  Vmag  Mean magnitude")
	require.NoError(t, err)
	require.True(t, ok)

	assert.Equal(t, "Vmag", f.Name)
	assert.Equal(t, ByteRange{Start: 12, End: 14, Width: 3}, f.Range)
	assert.Equal(t, "decimal(6,2)", f.SQLType)
	assert.Equal(t, "mag", f.Units)
	assert.Equal(t, "Mean magnitude", f.Comment)
	assert.Equal(t, "12- 14  F6.2  mag  Vmag  Mean magnitude", f.RawLine)
	assert.Equal(t, "Mean magnitude, mag", f.Description())
}

func TestParseField_Shapes(t *testing.T) {
	tests := []struct {
		name     string
		line     string
		wantOK   bool
		wantErr  error
		wantName string
		wantUnit string
	}{
		{name: "no units", line: "   9- 14  I6    ---     HIP       Identifier", wantOK: true, wantName: "HIP"},
		{name: "single byte", line: "      16  A1    ---     Proxy     [HT] Proximity flag", wantOK: true, wantName: "Proxy"},
		{name: "label punctuation stripped", line: " 218-222  F5.2  mag     B-V       ? colour", wantOK: true, wantName: "BV", wantUnit: "mag"},
		{name: "parenthesised label", line: "  1- 10  F10.6 deg     RA(ICRS)  Right ascension", wantOK: true, wantName: "RAICRS", wantUnit: "deg"},
		{name: "no explanation", line: "  1-  6  I6    ---     HIP", wantOK: true, wantName: "HIP"},
		{name: "placeholder label", line: " 150-150  A1    ---     ---       Repeated", wantOK: false},
		{name: "prose", line: "Note (H6): trailing notes are not columns.", wantOK: false},
		{name: "indented numeric prose", line: "      1 = < 0.06mag ; 2 = 0.06-0.6mag", wantOK: false},
		{name: "blank", line: "", wantOK: false},
		{name: "unknown class", line: "  1-  9  E9.3  ---     Flux      flux", wantErr: ErrUnknownTypeClass},
		{name: "bad qualifier", line: "  1-  9  F9    ---     Flux      flux", wantErr: ErrMalformedQualifier},
		{name: "reversed range", line: " 14-  9  I6    ---     HIP       Identifier", wantErr: ErrMalformedRange},
		{name: "label strips to nothing", line: "  1-  2  I2    ---     ()        empty", wantErr: ErrEmptyName},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, ok, err := ParseField(tt.line)
			if tt.wantErr != nil {
				require.Error(t, err)
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantOK, ok)
			if ok {
				assert.Equal(t, tt.wantName, f.Name)
				assert.Equal(t, tt.wantUnit, f.Units)
			}
		})
	}
}

func TestField_DescriptionWithoutUnits(t *testing.T) {
	f := Field{Comment: "Identifier"}
	assert.False(t, f.HasUnits())
	assert.Equal(t, "Identifier", f.Description())
}
