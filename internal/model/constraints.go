package model

import (
	"fmt"
	"strconv"
	"strings"
)

// Constraints is the single source of truth for value restrictions attached
// to a type. The type target renders them as documentation and the validator
// target renders them as checks; both read this struct, so the two outputs
// cannot disagree on which constraints exist.
type Constraints struct {
	Pattern   string
	MinLength *int64
	MaxLength *int64
	Minimum   *float64
	Maximum   *float64
	MinItems  *int64
	MaxItems  *int64
}

func (c Constraints) Empty() bool {
	return c.Pattern == "" &&
		c.MinLength == nil && c.MaxLength == nil &&
		c.Minimum == nil && c.Maximum == nil &&
		c.MinItems == nil && c.MaxItems == nil
}

// Describe renders each constraint as one human-readable line, in a fixed
// order so generated documentation is byte-stable.
func (c Constraints) Describe() []string {
	var lines []string
	if c.Pattern != "" {
		lines = append(lines, "Pattern: "+c.Pattern)
	}
	if c.MinLength != nil {
		lines = append(lines, "Minimum length: "+strconv.FormatInt(*c.MinLength, 10))
	}
	if c.MaxLength != nil {
		lines = append(lines, "Maximum length: "+strconv.FormatInt(*c.MaxLength, 10))
	}
	if c.Minimum != nil {
		lines = append(lines, "Minimum: "+formatNumber(*c.Minimum))
	}
	if c.Maximum != nil {
		lines = append(lines, "Maximum: "+formatNumber(*c.Maximum))
	}
	if c.MinItems != nil {
		lines = append(lines, "Minimum items: "+strconv.FormatInt(*c.MinItems, 10))
	}
	if c.MaxItems != nil {
		lines = append(lines, "Maximum items: "+strconv.FormatInt(*c.MaxItems, 10))
	}
	return lines
}

func (c Constraints) fingerprint() string {
	if c.Empty() {
		return ""
	}
	return strings.Join(c.Describe(), ",")
}

func formatNumber(f float64) string {
	if f == float64(int64(f)) {
		return strconv.FormatInt(int64(f), 10)
	}
	return fmt.Sprintf("%g", f)
}
