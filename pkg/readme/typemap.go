package readme

import (
	"fmt"
	"strconv"
	"strings"
)

// TypeClass is the leading letter of a ReadMe format token.
type TypeClass byte

// Supported format classes.
const (
	ClassCharacter  TypeClass = 'A'
	ClassInteger    TypeClass = 'I'
	ClassFixedPoint TypeClass = 'F'
)

// SourceType is a parsed format token such as A12, I6 or F6.2.
type SourceType struct {
	Token     string    `json:"token" yaml:"token"`
	Class     TypeClass `json:"-" yaml:"-"`
	Width     int       `json:"width,omitempty" yaml:"width,omitempty"`
	Precision int       `json:"precision,omitempty" yaml:"precision,omitempty"`
	Scale     int       `json:"scale,omitempty" yaml:"scale,omitempty"`
}

// ParseType parses a format token. Character tokens need a width and
// fixed-point tokens need exactly one precision.scale pair; any integer
// qualifier is accepted and ignored.
func ParseType(token string) (SourceType, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return SourceType{}, &TypeError{Token: token, Err: ErrUnknownTypeClass}
	}

	st := SourceType{Token: token, Class: TypeClass(token[0])}
	qualifier := token[1:]

	switch st.Class {
	case ClassCharacter:
		w, err := strconv.Atoi(qualifier)
		if err != nil || w < 1 {
			return SourceType{}, &TypeError{Token: token, Err: ErrMalformedQualifier}
		}
		st.Width = w
	case ClassInteger:
		if w, err := strconv.Atoi(qualifier); err == nil {
			st.Width = w
		}
	case ClassFixedPoint:
		parts := strings.Split(qualifier, ".")
		if len(parts) != 2 {
			return SourceType{}, &TypeError{Token: token, Err: ErrMalformedQualifier}
		}
		p, perr := strconv.Atoi(parts[0])
		s, serr := strconv.Atoi(parts[1])
		if perr != nil || serr != nil || p < 1 || s < 0 {
			return SourceType{}, &TypeError{Token: token, Err: ErrMalformedQualifier}
		}
		st.Precision, st.Scale = p, s
	default:
		return SourceType{}, &TypeError{Token: token, Err: ErrUnknownTypeClass}
	}

	return st, nil
}

// SQLType returns the target column type.
func (t SourceType) SQLType() string {
	switch t.Class {
	case ClassCharacter:
		return fmt.Sprintf("varchar(%d)", t.Width)
	case ClassInteger:
		return "int"
	case ClassFixedPoint:
		return fmt.Sprintf("decimal(%d,%d)", t.Precision, t.Scale)
	}
	return ""
}

// MapType maps a format token straight to its SQL column type.
func MapType(token string) (string, error) {
	st, err := ParseType(token)
	if err != nil {
		return "", err
	}
	return st.SQLType(), nil
}
