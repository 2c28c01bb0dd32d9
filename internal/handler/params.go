package handler

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/sumire/jobboard/internal/domain"
)

// pathID parses a positive integer path parameter.
func pathID(c echo.Context, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, domain.NewValidationError(name, "must be a positive integer")
	}
	return id, nil
}

// idRef is an id sent either as a JSON number or a numeric string.
type idRef int64

func (u *idRef) UnmarshalJSON(data []byte) error {
	raw := strings.Trim(string(data), `"`)
	if raw == "" || raw == "null" {
		*u = 0
		return nil
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return fmt.Errorf("%w: id %q must be an integer", domain.ErrInvalidInput, raw)
	}
	*u = idRef(id)
	return nil
}

// scoreValue is a score sent as a JSON number or a numeric string. Any other
// value decodes to NaN, which the score range check rejects.
type scoreValue float64

func (s *scoreValue) UnmarshalJSON(data []byte) error {
	raw := strings.Trim(string(data), `"`)
	if raw == "" || raw == "null" {
		*s = 0
		return nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		v = math.NaN()
	}
	*s = scoreValue(v)
	return nil
}

// dateLayouts are accepted for calendar dates in requests and queries.
var dateLayouts = []string{domain.DateLayout, time.DateOnly}

// parseDate accepts dd/mm/yyyy or yyyy-mm-dd. Empty input yields nil.
func parseDate(field, raw string) (*time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return &t, nil
		}
	}
	return nil, domain.NewValidationError(field, "must be a date formatted as dd/mm/yyyy or yyyy-mm-dd")
}

// parseClock accepts HH:MM. Empty input yields "".
func parseClock(field, raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", nil
	}
	if _, err := time.Parse(domain.ClockLayout, raw); err != nil {
		return "", domain.NewValidationError(field, "must be formatted as HH:MM")
	}
	return raw, nil
}

// parseSalary parses an optional salary bound. Empty input yields nil.
func parseSalary(field, raw string) (*domain.Salary, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}
	s, err := domain.ParseSalary(raw)
	if err != nil {
		return nil, domain.NewValidationError(field, "must be a non-negative number")
	}
	return &s, nil
}

func optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}
