package policy

import (
	"log/slog"
	"regexp"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Normalizers are pure and total: invalid input degrades to absence,
// never to an error, and re-normalizing canonical output returns it
// unchanged.

var nonDigit = regexp.MustCompile(`\D`)

// NormalizePhone reduces a phone value to the 9-digit national form,
// dropping the Czech country prefix. Anything else is invalid.
func NormalizePhone(raw string) (string, bool) {
	digits := nonDigit.ReplaceAllString(raw, "")
	switch {
	case strings.HasPrefix(digits, "00420"):
		digits = digits[5:]
	case strings.HasPrefix(digits, "420"):
		digits = digits[3:]
	}
	if len(digits) != 9 {
		return "", false
	}
	return digits, true
}

var dateLayouts = []string{
	"2.1.2006",
	"2/1/2006",
	"2-1-2006",
	"2006-1-2",
	"2006/1/2",
}

// NormalizeDate converts the day/month/year spellings found in the
// documents to ISO 2006-01-02.
func NormalizeDate(raw string) (string, bool) {
	s := strings.NewReplacer(" ", "", "\u00A0", "").Replace(raw)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format("2006-01-02"), true
		}
	}
	return "", false
}

var boolSynonyms = map[string]string{
	"ano":   "ANO",
	"yes":   "ANO",
	"true":  "ANO",
	"ne":    "NE",
	"no":    "NE",
	"false": "NE",
}

// NormalizeBool maps the closed synonym set to canonical ANO/NE.
func NormalizeBool(raw string) (string, bool) {
	v, ok := boolSynonyms[strings.ToLower(strings.TrimSpace(raw))]
	return v, ok
}

var currencyMark = regexp.MustCompile(`(?i)(kč|czk|eur|€|\$)`)

// NormalizeMoney strips currency marks and thousands separators and
// parses the rest as a fixed-precision decimal. The comma decimal
// separator common in Czech documents is accepted.
func NormalizeMoney(raw string) (string, bool) {
	s := currencyMark.ReplaceAllString(raw, "")
	s = strings.NewReplacer(" ", "", "\u00A0", "", "\u202F", "").Replace(s)
	s = strings.ReplaceAll(s, ",", ".")
	if s == "" {
		return "", false
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return "", false
	}
	return d.String(), true
}

// NormalizeIdentity trims surrounding whitespace and passes the value
// through.
func NormalizeIdentity(raw string) (string, bool) {
	s := strings.TrimSpace(raw)
	return s, s != ""
}

// ApplyNorm dispatches to the named normalizer family.
func ApplyNorm(n Norm, raw string) (string, bool) {
	switch n {
	case NormPhone:
		return NormalizePhone(raw)
	case NormDate:
		return NormalizeDate(raw)
	case NormBool:
		return NormalizeBool(raw)
	case NormMoney:
		return NormalizeMoney(raw)
	default:
		return NormalizeIdentity(raw)
	}
}

// NormalizeRecord runs every captured raw value through its rule's
// normalizer. Unparsable values are dropped with a warning tagged with
// the source file and field; the rest of the record is unaffected.
func NormalizeRecord(rules []FieldRule, rec Extracted, filename string) Extracted {
	out := make(Extracted, len(rec))
	for _, rule := range rules {
		raw, ok := rec[rule.Field]
		if !ok {
			continue
		}
		v, ok := ApplyNorm(rule.Norm, raw)
		if !ok {
			slog.Warn("field value unparsable",
				"file", filename, "field", rule.Field, "value", raw)
			continue
		}
		out[rule.Field] = v
	}
	return out
}
