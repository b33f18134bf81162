package docstore

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// Float reads a numeric field. Strings are parsed like a browser parseFloat:
// the longest numeric prefix wins and anything unparseable is 0.
func Float(v any) float64 {
	switch n := v.(type) {
	case nil:
		return 0
	case float64:
		return n
	case float32:
		return float64(n)
	case int:
		return float64(n)
	case int64:
		return float64(n)
	case int32:
		return float64(n)
	case json.Number:
		f, err := n.Float64()
		if err != nil {
			return parseNumericPrefix(n.String())
		}
		return f
	case string:
		return parseNumericPrefix(n)
	case bool:
		if n {
			return 1
		}
		return 0
	default:
		return 0
	}
}

// Int reads an integer field, truncating fractions like parseInt. Values
// outside the int range read as 0.
func Int(v any) int {
	f := math.Trunc(Float(v))
	if math.IsNaN(f) || f >= float64(math.MaxInt) || f < float64(math.MinInt) {
		return 0
	}
	return int(f)
}

// String reads a text field. Numbers are formatted, other types yield "".
func String(v any) string {
	switch s := v.(type) {
	case nil:
		return ""
	case string:
		return s
	case json.Number:
		return s.String()
	case float64:
		return strconv.FormatFloat(s, 'f', -1, 64)
	case int, int64:
		return fmt.Sprint(s)
	case bool:
		return strconv.FormatBool(s)
	default:
		return ""
	}
}

// Time reads a timestamp field: RFC 3339 strings, unix milliseconds, or a
// {seconds, nanoseconds} object as written by Firestore exports. It returns
// nil when the value is absent or unusable.
func Time(v any) *time.Time {
	var t time.Time
	switch ts := v.(type) {
	case nil:
		return nil
	case time.Time:
		t = ts
	case *time.Time:
		if ts == nil {
			return nil
		}
		t = *ts
	case string:
		parsed, err := time.Parse(time.RFC3339Nano, strings.TrimSpace(ts))
		if err != nil {
			return nil
		}
		t = parsed
	case float64, int, int64, json.Number:
		ms := Float(ts)
		if ms <= 0 || math.IsInf(ms, 0) || math.IsNaN(ms) {
			return nil
		}
		t = time.UnixMilli(int64(ms)).UTC()
	case map[string]any:
		sec, ok := firstPresent(ts, "seconds", "_seconds")
		if !ok {
			return nil
		}
		nsec, _ := firstPresent(ts, "nanoseconds", "_nanoseconds", "nanos")
		t = time.Unix(int64(Float(sec)), int64(Float(nsec))).UTC()
	default:
		return nil
	}
	if t.IsZero() {
		return nil
	}
	return &t
}

func firstPresent(m map[string]any, keys ...string) (any, bool) {
	for _, k := range keys {
		if v, ok := m[k]; ok {
			return v, true
		}
	}
	return nil, false
}

func parseNumericPrefix(s string) float64 {
	s = strings.TrimSpace(s)
	end := 0
	seenDigit, seenDot, seenExp := false, false, false
scan:
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c >= '0' && c <= '9':
			seenDigit = true
			end = i + 1
		case (c == '+' || c == '-') && (i == 0 || s[i-1] == 'e' || s[i-1] == 'E'):
		case c == '.' && !seenDot && !seenExp:
			seenDot = true
		case (c == 'e' || c == 'E') && seenDigit && !seenExp:
			seenExp = true
		default:
			break scan
		}
	}
	if !seenDigit {
		return 0
	}
	f, err := strconv.ParseFloat(s[:end], 64)
	if err != nil {
		return 0
	}
	return f
}
