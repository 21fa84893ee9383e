package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Number accepts a JSON number or a numeric string, as sent by HTML form
// inputs. The zero value means "not provided".
type Number string

// UnmarshalJSON implements json.Unmarshaler
func (n *Number) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*n = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*n = Number(strings.TrimSpace(s))
		return nil
	}
	var num json.Number
	if err := json.Unmarshal(data, &num); err != nil {
		return fmt.Errorf("expected a number, got %s", data)
	}
	*n = Number(num.String())
	return nil
}

// IsSet reports whether a value was provided
func (n Number) IsSet() bool {
	return n != ""
}

// Float parses the value
func (n Number) Float() (float64, error) {
	f, err := strconv.ParseFloat(string(n), 64)
	if err != nil {
		return 0, fmt.Errorf("%q is not a number", string(n))
	}
	return f, nil
}

// Int parses the value as an integer
func (n Number) Int() (int, error) {
	i, err := strconv.Atoi(string(n))
	if err != nil {
		return 0, fmt.Errorf("%q is not an integer", string(n))
	}
	return i, nil
}
