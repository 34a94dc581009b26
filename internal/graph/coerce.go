package graph

import (
	"encoding/json"
	"math"
	"regexp"
	"strconv"
	"strings"
)

// text renders a parsed value the way identifiers are compared: numbers in
// their shortest decimal form, literals by name, lists joined with commas.
func (v value) text() string {
	switch v.kind {
	case kindString:
		return v.str
	case kindNumber:
		return formatNumber(v.num)
	case kindBool:
		return strconv.FormatBool(v.boolean)
	case kindList:
		parts := make([]string, len(v.list))
		for i, item := range v.list {
			if item.kind != kindNull {
				parts[i] = item.text()
			}
		}
		return strings.Join(parts, ",")
	case kindMap:
		return v.compact()
	default:
		return "null"
	}
}

// compact renders a mapping as single-line JSON, keys in document order.
func (v value) compact() string {
	switch v.kind {
	case kindString:
		b, _ := json.Marshal(v.str)
		return string(b)
	case kindNumber:
		if math.IsNaN(v.num) || math.IsInf(v.num, 0) {
			return "null"
		}
		return formatNumber(v.num)
	case kindBool:
		return strconv.FormatBool(v.boolean)
	case kindList:
		parts := make([]string, len(v.list))
		for i, item := range v.list {
			parts[i] = item.compact()
		}
		return "[" + strings.Join(parts, ",") + "]"
	case kindMap:
		parts := make([]string, len(v.members))
		for i, m := range v.members {
			k, _ := json.Marshal(m.key)
			parts[i] = string(k) + ":" + m.val.compact()
		}
		return "{" + strings.Join(parts, ",") + "}"
	default:
		return "null"
	}
}

// formatNumber prints f in shortest round-trip form, switching to exponent
// notation outside [1e-6, 1e21).
func formatNumber(f float64) string {
	switch {
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, 1):
		return "Infinity"
	case math.IsInf(f, -1):
		return "-Infinity"
	case f == 0:
		return "0"
	}
	abs := math.Abs(f)
	if abs >= 1e-6 && abs < 1e21 {
		return strconv.FormatFloat(f, 'f', -1, 64)
	}
	s := strconv.FormatFloat(f, 'e', -1, 64)
	mant, exp, _ := strings.Cut(s, "e")
	sign := exp[:1]
	digits := strings.TrimLeft(exp[1:], "0")
	return mant + "e" + sign + digits
}

var floatPrefix = regexp.MustCompile(`^[+-]?(Infinity|[0-9]+\.?[0-9]*(?:[eE][+-]?[0-9]+)?|\.[0-9]+(?:[eE][+-]?[0-9]+)?)`)

// weightOf reads the longest numeric prefix of v's text form. Anything
// without one yields NaN rather than an error.
func weightOf(v value) float64 {
	if v.kind == kindNumber {
		return v.num
	}
	if v.kind == kindNull || v.kind == kindBool || v.kind == kindMap {
		return math.NaN()
	}
	s := strings.TrimLeft(v.text(), " \t\n\r\v\f\u00a0\ufeff")
	m := floatPrefix.FindString(s)
	if m == "" {
		return math.NaN()
	}
	switch strings.TrimLeft(m, "+-") {
	case "Infinity":
		if strings.HasPrefix(m, "-") {
			return math.Inf(-1)
		}
		return math.Inf(1)
	}
	f, err := strconv.ParseFloat(m, 64)
	if err != nil {
		if ne, ok := err.(*strconv.NumError); ok && ne.Err == strconv.ErrRange {
			return f
		}
		return math.NaN()
	}
	return f
}
