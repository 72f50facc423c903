package persistence

import (
	"fmt"
	"math"

	"FocusTimer/internal/models"
)

// SchemaError 记录第一个未通过校验的字段
type SchemaError struct {
	Record string
	Field  string
	Reason string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("%s.%s: %s", e.Record, e.Field, e.Reason)
}

type checker struct {
	record string
	raw    map[string]any
	err    error
}

func (c *checker) fail(field, reason string) {
	if c.err == nil {
		c.err = &SchemaError{Record: c.record, Field: field, Reason: reason}
	}
}

func (c *checker) number(field string, required bool) (float64, bool) {
	v, ok := c.raw[field]
	if !ok || v == nil {
		if required {
			c.fail(field, "missing")
		}
		return 0, false
	}
	n, ok := v.(float64)
	if !ok {
		c.fail(field, fmt.Sprintf("want number, got %T", v))
		return 0, false
	}
	return n, true
}

func (c *checker) integer(field string, min, max float64) {
	n, ok := c.number(field, true)
	if !ok {
		return
	}
	if n != math.Trunc(n) {
		c.fail(field, "not an integer")
		return
	}
	if n < min || n > max {
		c.fail(field, fmt.Sprintf("%v out of range [%v,%v]", n, min, max))
	}
}

func (c *checker) boolean(field string) (bool, bool) {
	v, ok := c.raw[field]
	if !ok {
		c.fail(field, "missing")
		return false, false
	}
	b, ok := v.(bool)
	if !ok {
		c.fail(field, fmt.Sprintf("want bool, got %T", v))
		return false, false
	}
	return b, true
}

func (c *checker) str(field string, required bool) (string, bool) {
	v, ok := c.raw[field]
	if !ok || v == nil {
		if required {
			c.fail(field, "missing")
		}
		return "", false
	}
	s, ok := v.(string)
	if !ok {
		c.fail(field, fmt.Sprintf("want string, got %T", v))
		return "", false
	}
	return s, true
}

// ValidateSettings checks a decoded settings object field by field.
func ValidateSettings(raw map[string]any) error {
	if raw == nil {
		return &SchemaError{Record: "settings", Field: "", Reason: "not an object"}
	}
	c := &checker{record: "settings", raw: raw}

	c.integer("durationHours", 0, models.MaxHours)
	c.integer("durationMinutes", 0, models.MaxMinutes)
	c.integer("durationSeconds", 0, models.MaxSeconds)
	c.boolean("soundEnabled")
	if s, ok := c.str("soundType", true); ok && !models.SoundType(s).Valid() {
		c.fail("soundType", fmt.Sprintf("unknown sound %q", s))
	}
	if v, ok := c.number("volume", true); ok && (v < 0 || v > 1) {
		c.fail("volume", fmt.Sprintf("%v out of range [0,1]", v))
	}
	c.boolean("darkMode")

	return c.err
}

// ValidateSession checks a decoded session object field by field.
func ValidateSession(raw map[string]any) error {
	if raw == nil {
		return &SchemaError{Record: "session", Field: "", Reason: "not an object"}
	}
	c := &checker{record: "session", raw: raw}

	c.integer("remainingSeconds", 0, math.MaxInt32)
	c.integer("totalSeconds", 0, math.MaxInt32)
	running, rok := c.boolean("running")
	paused, pok := c.boolean("paused")
	if rok && pok && running && paused {
		c.fail("paused", "running and paused are exclusive")
	}
	c.number("targetEndTime", true)
	c.number("pausedAtTime", false)
	c.str("runId", false)

	return c.err
}
