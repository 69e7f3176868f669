package readme

import (
	"regexp"
	"strconv"
)

var rangePattern = regexp.MustCompile(`^\s*(\d+)\s*(?:-\s*(\d+)\s*)?$`)

// ByteRange is a 1-based inclusive slice of a fixed-width record.
type ByteRange struct {
	Start int `json:"start" yaml:"start"`
	End   int `json:"end" yaml:"end"`
	Width int `json:"width" yaml:"width"`
}

// ParseRange parses "12-34", "12- 34" or a single position "7".
func ParseRange(token string) (ByteRange, error) {
	m := rangePattern.FindStringSubmatch(token)
	if m == nil {
		return ByteRange{}, &RangeError{Token: token, Reason: "expected <start>-<end> or <position>"}
	}

	start, err := strconv.Atoi(m[1])
	if err != nil {
		return ByteRange{}, &RangeError{Token: token, Reason: err.Error()}
	}
	end := start
	if m[2] != "" {
		if end, err = strconv.Atoi(m[2]); err != nil {
			return ByteRange{}, &RangeError{Token: token, Reason: err.Error()}
		}
	}

	if start < 1 {
		return ByteRange{}, &RangeError{Token: token, Reason: "positions are 1-based"}
	}
	if end < start {
		return ByteRange{}, &RangeError{Token: token, Reason: "end precedes start"}
	}

	return ByteRange{Start: start, End: end, Width: end - start + 1}, nil
}

// String renders the range the way ReadMe tables do.
func (r ByteRange) String() string {
	if r.Start == r.End {
		return strconv.Itoa(r.Start)
	}
	return strconv.Itoa(r.Start) + "-" + strconv.Itoa(r.End)
}
