package domain

import (
	"bytes"
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
)

// Salary is a monthly amount in CLP.
type Salary float64

var salaryNoise = regexp.MustCompile(`[^0-9.\-]`)

// ParseSalary normalizes free-form input such as "$ 650000" into a Salary.
// Everything except digits, '.' and '-' is discarded before parsing.
func ParseSalary(raw string) (Salary, error) {
	cleaned := salaryNoise.ReplaceAllString(raw, "")
	if cleaned == "" {
		return 0, NewValidationError("salary", "must contain a numeric amount")
	}
	v, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0, NewValidationError("salary", fmt.Sprintf("%q is not a valid amount", raw))
	}
	if v < 0 {
		return 0, NewValidationError("salary", "must not be negative")
	}
	return Salary(v), nil
}

// UnmarshalJSON accepts either a JSON number or a string.
func (s *Salary) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		return nil
	}
	var raw string
	if len(data) > 0 && data[0] == '"' {
		if err := json.Unmarshal(data, &raw); err != nil {
			return NewValidationError("salary", "must be a number or a string")
		}
	} else {
		raw = string(data)
	}
	parsed, err := ParseSalary(raw)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// Scan implements sql.Scanner for NUMERIC columns.
func (s *Salary) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*s = 0
	case float64:
		*s = Salary(v)
	case int64:
		*s = Salary(v)
	case []byte:
		return s.scanString(string(v))
	case string:
		return s.scanString(v)
	default:
		return fmt.Errorf("scan salary: unsupported type %T", src)
	}
	return nil
}

func (s *Salary) scanString(v string) error {
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return fmt.Errorf("scan salary %q: %w", v, err)
	}
	*s = Salary(f)
	return nil
}

// Value implements driver.Valuer.
func (s Salary) Value() (driver.Value, error) {
	return float64(s), nil
}
