package value

import "strconv"

// Parse interprets command-line text as a host value: a boolean, then an
// integer (with base prefix), then a float, and otherwise the text itself.
// The digits 0 and 1 are integers, not booleans.
func Parse(s string) any {
	if s != "0" && s != "1" {
		if b, err := strconv.ParseBool(s); err == nil {
			return b
		}
	}

	if i, err := strconv.ParseInt(s, 0, 64); err == nil {
		return i
	}

	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return f
	}

	return s
}
