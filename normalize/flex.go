package normalize

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// FlexString accepts a JSON string, number or boolean; null and absent leave it empty.
type FlexString string

// UnmarshalJSON implements json.Unmarshaler
func (s *FlexString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*s = ""
		return nil
	}
	if data[0] == '"' {
		var v string
		if err := json.Unmarshal(data, &v); err != nil {
			return err
		}
		*s = FlexString(strings.TrimSpace(v))
		return nil
	}
	if data[0] == '{' || data[0] == '[' {
		// Objects and arrays are not scalar tokens; treat as absent
		*s = ""
		return nil
	}
	*s = FlexString(string(data))
	return nil
}

// String returns the token
func (s FlexString) String() string { return string(s) }

// FlexFloat accepts a JSON number or a numeric string ("1500", "1.500,75", "12,5").
// Valid is false when the field is absent, null, or not numeric.
type FlexFloat struct {
	Value float64
	Text  string // canonical decimal text, used for exact money arithmetic
	Valid bool
}

// UnmarshalJSON implements json.Unmarshaler
func (f *FlexFloat) UnmarshalJSON(data []byte) error {
	*f = FlexFloat{}
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil
	}
	text := string(data)
	if data[0] == '"' {
		var v string
		if err := json.Unmarshal(data, &v); err != nil {
			return nil
		}
		text = normalizeNumberText(v)
	}
	v, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return nil
	}
	f.Value, f.Text, f.Valid = v, text, true
	return nil
}

// Decimal returns the exact decimal value, falling back to the float when the text does not parse
func (f FlexFloat) Decimal() decimal.Decimal {
	if !f.Valid {
		return decimal.Zero
	}
	if d, err := decimal.NewFromString(f.Text); err == nil {
		return d
	}
	return decimal.NewFromFloat(f.Value)
}

// normalizeNumberText turns locale-formatted numbers into Go float syntax.
// "1.500,75" -> "1500.75", "12,5" -> "12.5", "1,500.75" -> "1500.75", "₺ 300" -> "300".
func normalizeNumberText(s string) string {
	s = strings.TrimSpace(s)
	s = strings.Map(func(r rune) rune {
		switch {
		case r >= '0' && r <= '9', r == '.', r == ',', r == '-', r == '+', r == 'e', r == 'E':
			return r
		default:
			return -1
		}
	}, s)
	lastDot := strings.LastIndex(s, ".")
	lastComma := strings.LastIndex(s, ",")
	switch {
	case lastComma > lastDot:
		// comma is the decimal separator
		s = strings.ReplaceAll(s, ".", "")
		s = strings.Replace(s, ",", ".", 1)
	case lastDot > lastComma && lastComma >= 0:
		s = strings.ReplaceAll(s, ",", "")
	}
	return s
}

// FlexBool accepts true/false, 1/0 and common yes/no tokens
type FlexBool struct {
	Value bool
	Valid bool
}

// UnmarshalJSON implements json.Unmarshaler
func (b *FlexBool) UnmarshalJSON(data []byte) error {
	*b = FlexBool{}
	var token string
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil
	}
	if data[0] == '"' {
		if err := json.Unmarshal(data, &token); err != nil {
			return nil
		}
	} else {
		token = string(data)
	}
	switch strings.ToLower(strings.TrimSpace(token)) {
	case "true", "1", "yes", "evet", "y":
		b.Value, b.Valid = true, true
	case "false", "0", "no", "hayır", "hayir", "n":
		b.Value, b.Valid = false, true
	}
	return nil
}

// FlexTime accepts RFC 3339, date-only, Turkish dd.mm.yyyy dates, and unix milliseconds.
type FlexTime struct {
	Time  time.Time
	Valid bool
}

var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
	"02.01.2006 15:04",
	"02.01.2006",
	"02/01/2006",
}

// UnmarshalJSON implements json.Unmarshaler
func (t *FlexTime) UnmarshalJSON(data []byte) error {
	*t = FlexTime{}
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil
	}
	if data[0] != '"' {
		ms, err := strconv.ParseInt(string(data), 10, 64)
		if err != nil || ms <= 0 {
			return nil
		}
		t.Time, t.Valid = time.UnixMilli(ms).UTC(), true
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return nil
	}
	if parsed, ok := ParseTime(s); ok {
		t.Time, t.Valid = parsed, true
	}
	return nil
}

// ParseTime parses s against the accepted layouts; results are normalized to UTC
func ParseTime(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range timeLayouts {
		if parsed, err := time.Parse(layout, s); err == nil {
			return parsed.UTC(), true
		}
	}
	return time.Time{}, false
}

// firstString returns the first non-empty token
func firstString(values ...FlexString) string {
	for _, v := range values {
		if v != "" {
			return string(v)
		}
	}
	return ""
}

// firstTime returns the first valid time
func firstTime(values ...FlexTime) (time.Time, bool) {
	for _, v := range values {
		if v.Valid {
			return v.Time, true
		}
	}
	return time.Time{}, false
}
