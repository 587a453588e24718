package dataset

import (
	"strconv"
	"time"
)

// Kind identifies the type of a cell value.
type Kind int

const (
	KindMissing Kind = iota
	KindFloat
	KindString
	KindTime
)

// Value is a single cell in a Dataset. The zero value is the missing-value
// sentinel, which is distinct from a legitimate zero or empty string.
type Value struct {
	kind Kind
	f    float64
	s    string
	t    time.Time
}

// Missing returns the missing-value sentinel.
func Missing() Value {
	return Value{kind: KindMissing}
}

// Float returns a numeric cell value.
func Float(f float64) Value {
	return Value{kind: KindFloat, f: f}
}

// Str returns a text cell value.
func Str(s string) Value {
	return Value{kind: KindString, s: s}
}

// Time returns a temporal cell value.
func Time(t time.Time) Value {
	return Value{kind: KindTime, t: t}
}

// Kind returns the cell's type tag.
func (v Value) Kind() Kind {
	return v.kind
}

// IsMissing reports whether the cell holds the missing-value sentinel.
func (v Value) IsMissing() bool {
	return v.kind == KindMissing
}

// Float64 returns the numeric value and whether the cell is numeric.
func (v Value) Float64() (float64, bool) {
	return v.f, v.kind == KindFloat
}

// Text returns the string value and whether the cell is textual.
func (v Value) Text() (string, bool) {
	return v.s, v.kind == KindString
}

// Date returns the temporal value and whether the cell is temporal.
func (v Value) Date() (time.Time, bool) {
	return v.t, v.kind == KindTime
}

// String renders the cell for display and grouping keys.
func (v Value) String() string {
	switch v.kind {
	case KindFloat:
		return strconv.FormatFloat(v.f, 'g', -1, 64)
	case KindString:
		return v.s
	case KindTime:
		return v.t.Format("2006-01-02")
	default:
		return ""
	}
}
