package dbtypes

import (
	"database/sql/driver"
	"fmt"
	"strconv"
	"strings"
)

// Vector maps onto the pgvector column type. The wire format is the
// pgvector text literal: "[0.1,0.2,...]".
type Vector []float64

func (v *Vector) Scan(src any) error {
	if src == nil {
		*v = Vector{}
		return nil
	}

	switch raw := src.(type) {
	case string:
		return v.parseFromString(raw)
	case []byte:
		return v.parseFromString(string(raw))
	default:
		return fmt.Errorf("Vector: unsupported Scan type %T", src)
	}
}

func (v Vector) Value() (driver.Value, error) {
	if len(v) == 0 {
		return "[]", nil
	}
	parts := make([]string, 0, len(v))
	for _, f := range v {
		parts = append(parts, strconv.FormatFloat(f, 'f', -1, 64))
	}
	return "[" + strings.Join(parts, ",") + "]", nil
}

func (v *Vector) parseFromString(s string) error {
	s = strings.TrimSpace(s)
	if s == "" || s == "[]" {
		*v = Vector{}
		return nil
	}
	if !strings.HasPrefix(s, "[") || !strings.HasSuffix(s, "]") {
		return fmt.Errorf("Vector: malformed literal %q", s)
	}
	s = strings.TrimPrefix(s, "[")
	s = strings.TrimSuffix(s, "]")
	if strings.TrimSpace(s) == "" {
		*v = Vector{}
		return nil
	}

	raw := strings.Split(s, ",")
	out := make([]float64, 0, len(raw))
	for _, r := range raw {
		f, err := strconv.ParseFloat(strings.TrimSpace(r), 64)
		if err != nil {
			return fmt.Errorf("Vector: parse %q: %w", r, err)
		}
		out = append(out, f)
	}
	*v = Vector(out)
	return nil
}
