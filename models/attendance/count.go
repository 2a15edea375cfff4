package attendance

import (
	"bytes"
	"encoding/json"
	"errors"
	"strconv"
	"strings"
)

// Count is a headcount as submitted by a client. It accepts a JSON number or
// a numeric string and is only turned into an int by Parse, so malformed
// input surfaces as a validation failure instead of becoming zero.
type Count struct {
	raw string
	set bool
}

func NewCount(n int) Count {
	return Count{raw: strconv.Itoa(n), set: true}
}

// RawCount wraps an unparsed value, e.g. a form field.
func RawCount(s string) Count {
	return Count{raw: s, set: true}
}

func (c Count) IsSet() bool {
	return c.set
}

func (c Count) String() string {
	return c.raw
}

// Parse returns the count as a non-negative int.
func (c Count) Parse() (int, error) {
	if !c.set {
		return 0, errMissing
	}
	s := strings.TrimSpace(c.raw)
	if s == "" {
		return 0, errMissing
	}
	n, err := strconv.Atoi(s)
	if errors.Is(err, strconv.ErrRange) {
		return 0, errTooLarge
	}
	if err != nil {
		return 0, errNotWhole
	}
	if n < 0 {
		return 0, errNegative
	}
	return n, nil
}

func (c *Count) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*c = Count{}
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*c = Count{raw: s, set: true}
		return nil
	}
	*c = Count{raw: string(b), set: true}
	return nil
}

func (c Count) MarshalJSON() ([]byte, error) {
	if !c.set {
		return []byte("null"), nil
	}
	if n, err := c.Parse(); err == nil {
		return []byte(strconv.Itoa(n)), nil
	}
	return json.Marshal(c.raw)
}

type countError string

func (e countError) Error() string { return string(e) }

const (
	errMissing  countError = "is required"
	errNotWhole countError = "must be a whole number"
	errNegative countError = "must not be negative"
	errTooLarge countError = "is too large"
)
