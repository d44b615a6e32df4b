package importer

import (
	"strconv"
	"strings"
	"time"
)

// Day offset between the Excel epoch (1899-12-30) and the Unix epoch.
const excelEpochOffsetDays = 25569

const (
	ongoingSentinel     = "heute"
	placeholderSentinel = "platzhalter"
	booleanTrueLiteral  = "Ja"
)

var dateLayouts = []string{
	"02.01.2006",
	"2.1.2006",
	"2006-01-02",
	"01/02/2006",
}

// DecodeDate normalizes the three date encodings found in the sheets: Excel
// serial numbers, date strings, and the "heute" ongoing sentinel. Unparseable
// input yields nil, never an error.
func DecodeDate(raw string) *time.Time {
	raw = strings.TrimSpace(raw)
	if raw == "" || strings.EqualFold(raw, ongoingSentinel) {
		return nil
	}

	if serial, err := strconv.ParseFloat(raw, 64); err == nil {
		secs := (serial - excelEpochOffsetDays) * 86400
		t := time.Unix(int64(secs), 0).UTC()
		return &t
	}

	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			t = t.UTC()
			return &t
		}
	}
	return nil
}

// DecodeBool accepts the literal "Ja" and the raw encodings of a native TRUE
// cell; anything else is false.
func DecodeBool(raw string) bool {
	raw = strings.TrimSpace(raw)
	return raw == booleanTrueLiteral || raw == "1" || strings.EqualFold(raw, "true")
}

// DecodeInt coerces best-effort; unparseable values default to 0.
func DecodeInt(raw string) int {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0
	}
	if n, err := strconv.Atoi(raw); err == nil {
		return n
	}
	if f, err := strconv.ParseFloat(raw, 64); err == nil {
		return int(f)
	}
	return 0
}

// IsPlaceholderRow reports whether the record is template filler: every value
// is either the placeholder token or a bare number (the row ordinal), with at
// least one placeholder present.
func IsPlaceholderRow(rec Record) bool {
	seen := false
	for _, v := range rec {
		if strings.EqualFold(strings.TrimSpace(v), placeholderSentinel) {
			seen = true
			continue
		}
		if _, err := strconv.ParseFloat(strings.TrimSpace(v), 64); err == nil {
			continue
		}
		return false
	}
	return seen
}

// MapRecord maps source labels to canonical names and applies the per-field
// transform, producing the canonical typed record. Absent and empty values
// never appear in the result.
func MapRecord(raw Record, fields map[string]FieldSpec) map[string]any {
	out := make(map[string]any, len(raw))
	for label, value := range raw {
		spec, ok := fields[label]
		if !ok {
			continue
		}
		value = strings.TrimSpace(value)
		if value == "" {
			continue
		}
		switch spec.Type {
		case FieldDate:
			if t := DecodeDate(value); t != nil {
				out[spec.Name] = *t
			}
		case FieldBool:
			out[spec.Name] = DecodeBool(value)
		case FieldInt:
			out[spec.Name] = DecodeInt(value)
		default:
			out[spec.Name] = value
		}
	}
	return out
}

func getString(rec map[string]any, key string) string {
	if v, ok := rec[key].(string); ok {
		return v
	}
	return ""
}

func getDate(rec map[string]any, key string) *time.Time {
	if v, ok := rec[key].(time.Time); ok {
		return &v
	}
	return nil
}

func getBool(rec map[string]any, key string) bool {
	if v, ok := rec[key].(bool); ok {
		return v
	}
	return false
}
