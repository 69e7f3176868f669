package readme

import (
	"regexp"
	"strings"
)

// Placeholder is the ReadMe token for "no units" and for repeated-record
// columns that carry no data.
const Placeholder = "---"

// columnLine matches "<range> <format> <units> <label> <explanation...>".
// The range may contain blanks around the dash ("  1-  6"); the format must
// look like a format code (letter then digits) so that indented prose such
// as "2 = double star" is not taken for a column.
var columnLine = regexp.MustCompile(`^\s*(\d+(?:\s*-\s*\d+)?)\s+([A-Za-z][0-9.]*)\s+(\S+)\s+(\S+)(?:\s+(.*))?$`)

// IsColumnLine reports whether line has the shape of a column definition.
func IsColumnLine(line string) bool {
	return columnLine.MatchString(line)
}

var nameStrip = strings.NewReplacer("-", "", ":", "", "(", "", ")", "")

// Field describes one column of a fixed-width catalogue record.
type Field struct {
	Name    string     `json:"name" yaml:"name"`
	Range   ByteRange  `json:"range" yaml:"range"`
	Type    SourceType `json:"type" yaml:"type"`
	SQLType string     `json:"sql_type" yaml:"sql_type"`
	Units   string     `json:"units,omitempty" yaml:"units,omitempty"`
	Comment string     `json:"comment" yaml:"comment"`
	RawLine string     `json:"-" yaml:"-"`
}

// HasUnits reports whether the documentation gave units for the field.
func (f Field) HasUnits() bool {
	return f.Units != ""
}

// Description is the column comment: the explanation followed by the
// units when present.
func (f Field) Description() string {
	if f.HasUnits() {
		return f.Comment + ", " + f.Units
	}
	return f.Comment
}

// SanitizeName removes the characters -:() from a ReadMe label.
func SanitizeName(label string) string {
	return nameStrip.Replace(label)
}

// ParseField parses one column-definition line. ok is false when the line
// does not have the shape of a column definition (prose, blank lines) or
// describes a placeholder column; err is set when the line has the shape
// but one of its tokens is invalid.
func ParseField(line string) (f Field, ok bool, err error) {
	m := columnLine.FindStringSubmatch(line)
	if m == nil {
		return Field{}, false, nil
	}

	rangeTok, typeTok, units, label, comment := m[1], m[2], m[3], m[4], m[5]
	if label == Placeholder {
		return Field{}, false, nil
	}

	r, err := ParseRange(rangeTok)
	if err != nil {
		return Field{}, false, err
	}
	st, err := ParseType(typeTok)
	if err != nil {
		return Field{}, false, err
	}

	name := SanitizeName(label)
	if name == "" {
		return Field{}, false, ErrEmptyName
	}
	if units == Placeholder {
		units = ""
	}

	return Field{
		Name:    name,
		Range:   r,
		Type:    st,
		SQLType: st.SQLType(),
		Units:   units,
		Comment: SanitizeComment(comment),
		RawLine: line,
	}, true, nil
}
