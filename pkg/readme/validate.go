package readme

// ValidateCount fails with a *FieldCountError unless exactly expected
// fields were parsed. An empty table never validates.
func ValidateCount(fields []Field, expected int) error {
	if len(fields) == 0 || len(fields) != expected {
		return &FieldCountError{Actual: len(fields), Expected: expected}
	}
	return nil
}
