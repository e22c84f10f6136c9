package report

import (
	"encoding/json"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want Value
	}{
		{"empty", "", Value{}},
		{"whitespace", "  \t ", Value{}},
		{"nbsp only", "\u00a0", Value{}},
		{"integer", "42", IntValue(42)},
		{"thousands separators", "1,234,567", IntValue(1234567)},
		{"negative", "-17", IntValue(-17)},
		{"float", "3.25", FloatValue(3.25)},
		{"float with separators", "12,345.5", FloatValue(12345.5)},
		{"percent", "12.5%", FloatValue(12.5)},
		{"integer percent", "99%", FloatValue(99)},
		{"percent with separators", "1,000%", FloatValue(1000)},
		{"kilo", "4K", FloatValue(4 * 1024)},
		{"mega", "2M", FloatValue(2 * 1048576.0)},
		{"giga", "1.5G", FloatValue(1.5 * 1024 * 1024 * 1024)},
		{"tera", "1T", FloatValue(1024 * 1024 * 1024 * 1024)},
		{"surrounding spaces", "  7  ", IntValue(7)},
		{"text", "db file sequential read", TextValue("db file sequential read")},
		{"lower-case suffix is text", "2m", TextValue("2m")},
		{"unit word is text", "12 ms", TextValue("12 ms")},
		{"sql id", "7ztv2z24kw0s0", TextValue("7ztv2z24kw0s0")},
		{"hex is text", "0x1.8p1", TextValue("0x1.8p1")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Normalize(tt.in))
		})
	}
}

func TestNormalizeThousandsRoundTrip(t *testing.T) {
	for _, n := range []int64{0, 7, 999, 1000, 65536, 1234567, 9876543210, 1 << 53} {
		s := withSeparators(n)
		got := Normalize(s)
		require.Equal(t, Int, got.Kind(), s)
		f, ok := got.Float64()
		require.True(t, ok)
		assert.Equal(t, float64(n), f, s)
		assert.Equal(t, strconv.FormatInt(n, 10), got.String())
	}
}

func TestNormalizeWideInteger(t *testing.T) {
	got := Normalize("99,999,999,999,999,999,999")
	require.Equal(t, Float, got.Kind())
	f, _ := got.Float64()
	assert.InDelta(t, 1e20, f, 1e6)
}

func TestValueFloat64(t *testing.T) {
	f, ok := TextValue("1e3").Float64()
	assert.True(t, ok)
	assert.Equal(t, 1000.0, f)

	_, ok = TextValue("CPU").Float64()
	assert.False(t, ok)

	_, ok = Value{}.Float64()
	assert.False(t, ok)
}

func TestValueJSON(t *testing.T) {
	row := Row{"a": IntValue(3), "b": FloatValue(1.5), "c": TextValue("x"), "d": Value{}}
	data, err := json.Marshal(row)
	require.NoError(t, err)
	assert.JSONEq(t, `{"a":3,"b":1.5,"c":"x","d":null}`, string(data))
}

func withSeparators(n int64) string {
	s := strconv.FormatInt(n, 10)
	var b strings.Builder
	for i, r := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	return b.String()
}
