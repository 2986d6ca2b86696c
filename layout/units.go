package layout

import (
	"strconv"
	"strings"
)

// This file defines unit-safe types and helpers for page lengths.

// Unit represents the original unit of a length value as written in a definition.
type Unit int

const (
	UnitNone Unit = iota // unit-less numbers, interpreted with a per-field default
	UnitMM               // millimeters
	UnitCM               // centimeters
	UnitIN               // inches
	UnitPT               // points
)

// Conversion constants between pt, mm and in.
const (
	PtToMm = 0.352777
	MmToPt = 1.0 / PtToMm
	InToPt = 72.0
)

// UnitToString returns a short string for a Unit value.
func UnitToString(u Unit) string {
	switch u {
	case UnitMM:
		return "mm"
	case UnitCM:
		return "cm"
	case UnitIN:
		return "in"
	case UnitPT:
		return "pt"
	default:
		return ""
	}
}

// Length preserves a numeric value with its unit.
type Length struct {
	Value float64 `json:"value"`
	Unit  Unit    `json:"unit"`
}

func (l Length) IsZero() bool { return l.Value == 0 }

// WithDefault returns l with UnitNone replaced by def.
func (l Length) WithDefault(def Unit) Length {
	if l.Unit == UnitNone {
		l.Unit = def
	}
	return l
}

// ToPT converts this length to points. Unit-less values are returned as-is.
func (l Length) ToPT() float64 {
	switch l.Unit {
	case UnitMM:
		return l.Value * MmToPt
	case UnitCM:
		return l.Value * 10 * MmToPt
	case UnitIN:
		return l.Value * InToPt
	default:
		return l.Value
	}
}

// ToMM converts this length to millimeters.
func (l Length) ToMM() float64 {
	if l.Unit == UnitMM {
		return l.Value
	}
	return l.ToPT() * PtToMm
}

// ParseRawLengthStr parses a length string preserving its unit.
// The boolean result is false when the numeric part is not a number.
func ParseRawLengthStr(value string) (Length, bool) {
	lower := strings.ToLower(strings.TrimSpace(value))
	if lower == "" {
		return Length{}, false
	}
	unit := UnitNone
	num := lower
	for _, suf := range []struct {
		s string
		u Unit
	}{{"mm", UnitMM}, {"cm", UnitCM}, {"in", UnitIN}, {"pt", UnitPT}} {
		if strings.HasSuffix(lower, suf.s) {
			unit = suf.u
			num = strings.TrimSpace(strings.TrimSuffix(lower, suf.s))
			break
		}
	}
	f, err := strconv.ParseFloat(num, 64)
	if err != nil {
		return Length{}, false
	}
	return Length{Value: f, Unit: unit}, true
}
