package report

import (
	"encoding/json"
	"errors"
	"math"
	"strconv"
	"strings"
)

// Kind is the type tag of a Value
type Kind uint8

const (
	Null Kind = iota
	Int
	Float
	Text
)

// Value is a normalized report cell: null, an integer, a float or text.
// The zero Value is null.
type Value struct {
	kind Kind
	i    int64
	f    float64
	s    string
}

func IntValue(n int64) Value     { return Value{kind: Int, i: n} }
func FloatValue(f float64) Value { return Value{kind: Float, f: f} }
func TextValue(s string) Value   { return Value{kind: Text, s: s} }

func (v Value) Kind() Kind     { return v.kind }
func (v Value) IsNull() bool   { return v.kind == Null }
func (v Value) IsNumber() bool { return v.kind == Int || v.kind == Float }

// Float64 coerces the value to a float. Numbers always convert; text converts
// only when it parses as a float; null never does.
func (v Value) Float64() (float64, bool) {
	switch v.kind {
	case Int:
		return float64(v.i), true
	case Float:
		return v.f, true
	case Text:
		f, err := parseFloat(v.s)
		if err != nil {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}

// Int64 returns the value of an Int.
func (v Value) Int64() (int64, bool) {
	return v.i, v.kind == Int
}

func (v Value) String() string {
	switch v.kind {
	case Int:
		return strconv.FormatInt(v.i, 10)
	case Float:
		return strconv.FormatFloat(v.f, 'f', -1, 64)
	case Text:
		return v.s
	default:
		return ""
	}
}

func (v Value) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case Int:
		return json.Marshal(v.i)
	case Float:
		if math.IsNaN(v.f) || math.IsInf(v.f, 0) {
			return json.Marshal(v.String())
		}
		return json.Marshal(v.f)
	case Text:
		return json.Marshal(v.s)
	default:
		return []byte("null"), nil
	}
}

var unitMultipliers = []struct {
	suffix string
	factor float64
}{
	{"K", 1024},
	{"M", 1024 * 1024},
	{"G", 1024 * 1024 * 1024},
	{"T", 1024 * 1024 * 1024 * 1024},
}

// Normalize converts a raw cell into a typed Value. It never fails: anything
// that is not recognisably numeric is returned as trimmed text.
//
// Rules, first match wins: blank is null; the comma-stripped string as an
// integer (or a float when it contains a dot); a trailing percent sign is
// dropped and the rest parsed as a float; a trailing K, M, G or T multiplies
// the prefix by the matching power of 1024.
func Normalize(raw string) Value {
	s := strings.TrimSpace(raw)
	if s == "" {
		return Value{}
	}

	clean := strings.ReplaceAll(s, ",", "")
	if strings.Contains(clean, ".") {
		if f, err := parseFloat(clean); err == nil {
			return FloatValue(f)
		}
	} else if n, err := strconv.ParseInt(clean, 10, 64); err == nil {
		return IntValue(n)
	} else if errors.Is(err, strconv.ErrRange) {
		// too wide for int64, keep the magnitude
		if f, err := parseFloat(clean); err == nil {
			return FloatValue(f)
		}
	}

	if rest, ok := strings.CutSuffix(s, "%"); ok {
		if f, err := parseFloat(strings.ReplaceAll(rest, ",", "")); err == nil {
			return FloatValue(f)
		}
	}

	for _, u := range unitMultipliers {
		if rest, ok := strings.CutSuffix(clean, u.suffix); ok {
			if f, err := parseFloat(rest); err == nil {
				return FloatValue(f * u.factor)
			}
		}
	}

	return TextValue(s)
}

// parseFloat accepts decimal notation only; overflow yields ±Inf rather than an error.
func parseFloat(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if strings.ContainsAny(s, "xX_") {
		return 0, strconv.ErrSyntax
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		return 0, err
	}
	return f, nil
}
