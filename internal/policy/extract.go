package policy

import (
	"log/slog"
	"regexp"
	"sort"
	"strings"
)

// Document is the working view of one file's text: the raw text plus
// precomputed line and lowercase projections the capture strategies
// share.
type Document struct {
	Text      string
	lower     string
	collapsed string // lowercased with whitespace runs collapsed to single spaces
	lines     []string
}

var wsRun = regexp.MustCompile(`\s+`)

// NewDocument prepares a document for extraction.
func NewDocument(text string) *Document {
	lower := strings.ToLower(text)
	return &Document{
		Text:      text,
		lower:     lower,
		collapsed: wsRun.ReplaceAllString(lower, " "),
		lines:     strings.Split(text, "\n"),
	}
}

// Capture locates one field's raw value in a document. It reports false
// when the value cannot be found; that leaves the field absent and
// never stops extraction of the remaining fields. The already captured
// values are passed in so derived fields can read their source field.
type Capture func(d *Document, rec Extracted) (string, bool)

// Norm names the normalizer family a field's raw value runs through.
type Norm int

const (
	NormIdentity Norm = iota
	NormPhone
	NormDate
	NormBool
	NormMoney
)

// FieldRule declares how one schema field is located within a
// template's text and which normalizer family applies to it.
type FieldRule struct {
	Field    string
	Capture  Capture
	Required bool
	Norm     Norm
}

// Rules holds the ordered rule table of every supported template.
type Rules map[Company][]FieldRule

// Extract runs a template's rule table over a document and returns the
// raw captured values. Fields whose capture fails stay absent.
func Extract(rules []FieldRule, d *Document, filename string) Extracted {
	rec := make(Extracted, len(rules))
	for _, rule := range rules {
		value, ok := rule.Capture(d, rec)
		if !ok || strings.TrimSpace(value) == "" {
			if rule.Required {
				slog.Warn("required field not found", "file", filename, "field", rule.Field)
			}
			continue
		}
		rec[rule.Field] = strings.TrimSpace(value)
	}
	return rec
}

// --- capture strategies ---

// pattern captures a regex group from the whole text.
func pattern(expr string, group int) Capture {
	re := regexp.MustCompile(expr)
	return func(d *Document, _ Extracted) (string, bool) {
		m := re.FindStringSubmatch(d.Text)
		if m == nil || group >= len(m) {
			return "", false
		}
		return m[group], true
	}
}

// firstOf tries captures in order and keeps the first hit.
func firstOf(caps ...Capture) Capture {
	return func(d *Document, rec Extracted) (string, bool) {
		for _, c := range caps {
			if v, ok := c(d, rec); ok && strings.TrimSpace(v) != "" {
				return v, true
			}
		}
		return "", false
	}
}

// lineBefore captures the nearest non-empty line above the first line
// containing anchor. Used for layouts where a value sits right above
// its label row.
func lineBefore(anchor string) Capture {
	return func(d *Document, _ Extracted) (string, bool) {
		for i, line := range d.lines {
			if strings.Contains(line, anchor) && i > 0 {
				prev := strings.TrimSpace(d.lines[i-1])
				return prev, prev != ""
			}
		}
		return "", false
	}
}

// lineAfter captures the line at a fixed offset below the first line
// containing anchor (case-insensitive).
func lineAfter(anchor string, offset int) Capture {
	lowerAnchor := strings.ToLower(anchor)
	return func(d *Document, _ Extracted) (string, bool) {
		for i, line := range d.lines {
			if strings.Contains(strings.ToLower(line), lowerAnchor) {
				if i+offset < len(d.lines) {
					return strings.TrimSpace(d.lines[i+offset]), true
				}
				return "", false
			}
		}
		return "", false
	}
}

// firstNonEmptyWithin captures the first non-empty line among the
// maxAhead lines below the anchor line.
func firstNonEmptyWithin(anchor string, maxAhead int) Capture {
	lowerAnchor := strings.ToLower(anchor)
	return func(d *Document, _ Extracted) (string, bool) {
		for i, line := range d.lines {
			if !strings.Contains(strings.ToLower(line), lowerAnchor) {
				continue
			}
			for j := i + 1; j <= i+maxAhead && j < len(d.lines); j++ {
				if v := strings.TrimSpace(d.lines[j]); v != "" {
					return v, true
				}
			}
			return "", false
		}
		return "", false
	}
}

// regexNearLine searches the window of lines below the anchor line for
// a regex match.
func regexNearLine(anchor, expr string, window int) Capture {
	lowerAnchor := strings.ToLower(anchor)
	re := regexp.MustCompile(expr)
	return func(d *Document, _ Extracted) (string, bool) {
		for i, line := range d.lines {
			if !strings.Contains(strings.ToLower(line), lowerAnchor) {
				continue
			}
			for j := i + 1; j <= i+window && j < len(d.lines); j++ {
				if m := re.FindStringSubmatch(d.lines[j]); m != nil {
					return m[len(m)-1], true
				}
			}
			return "", false
		}
		return "", false
	}
}

// joinGroups captures two regex groups joined with sep, e.g. the
// "bodily harm / property damage" liability limit pair.
func joinGroups(expr, sep string) Capture {
	re := regexp.MustCompile(expr)
	return func(d *Document, _ Extracted) (string, bool) {
		m := re.FindStringSubmatch(d.Text)
		if m == nil || len(m) < 3 {
			return "", false
		}
		return strings.TrimSpace(m[1]) + sep + strings.TrimSpace(m[2]), true
	}
}

// firstTwoMatches joins group 1 of the first two occurrences of expr.
func firstTwoMatches(expr, sep string) Capture {
	re := regexp.MustCompile(expr)
	return func(d *Document, _ Extracted) (string, bool) {
		ms := re.FindAllStringSubmatch(d.Text, -1)
		if len(ms) < 2 {
			return "", false
		}
		return ms[0][1] + sep + ms[1][1], true
	}
}

// presence maps a case-insensitive substring test to ANO/NE. It always
// produces a value.
func presence(substr string) Capture {
	lowerSub := strings.ToLower(substr)
	return func(d *Document, _ Extracted) (string, bool) {
		if strings.Contains(d.lower, lowerSub) {
			return "ANO", true
		}
		return "NE", true
	}
}

// presenceRe maps a regex test to ANO/NE.
func presenceRe(expr string) Capture {
	re := regexp.MustCompile(expr)
	return func(d *Document, _ Extracted) (string, bool) {
		if re.MatchString(d.Text) {
			return "ANO", true
		}
		return "NE", true
	}
}

// presenceOnly is presenceRe without the NE branch: the field stays
// absent when the marker is missing.
func presenceOnly(expr string) Capture {
	re := regexp.MustCompile(expr)
	return func(d *Document, _ Extracted) (string, bool) {
		if re.MatchString(d.Text) {
			return "ANO", true
		}
		return "", false
	}
}

// anySuffixed reports ANO when any keyword followed by suffix occurs in
// the collapsed lowercase text.
func anySuffixed(keywords []string, suffix string) Capture {
	return func(d *Document, _ Extracted) (string, bool) {
		for _, kw := range keywords {
			if strings.Contains(d.collapsed, kw+suffix) {
				return "ANO", true
			}
		}
		return "NE", true
	}
}

// anyPresent reports ANO when any keyword occurs in the lowercase text.
func anyPresent(keywords []string) Capture {
	return func(d *Document, _ Extracted) (string, bool) {
		for _, kw := range keywords {
			if strings.Contains(d.lower, kw) {
				return "ANO", true
			}
		}
		return "NE", true
	}
}

// Bundle names a coverage package and the keywords that imply it.
type Bundle struct {
	Name     string
	Keywords []string
}

// bundleSelect picks the first bundle with any keyword present in the
// collapsed lowercase text.
func bundleSelect(bundles []Bundle) Capture {
	return func(d *Document, _ Extracted) (string, bool) {
		for _, b := range bundles {
			for _, kw := range b.Keywords {
				if strings.Contains(d.collapsed, kw) {
					return b.Name, true
				}
			}
		}
		return "", false
	}
}

// blockField captures `label: value` from inside the first match of a
// block regex. Used for section-structured templates where the same
// label appears in several sections.
func blockField(blockExpr, label string) Capture {
	blockRe := regexp.MustCompile(blockExpr)
	fieldRe := regexp.MustCompile(regexp.QuoteMeta(label) + `\s*:\s*(.+)`)
	return func(d *Document, _ Extracted) (string, bool) {
		bm := blockRe.FindStringSubmatch(d.Text)
		if bm == nil {
			return "", false
		}
		m := fieldRe.FindStringSubmatch(bm[1])
		if m == nil {
			return "", false
		}
		return m[1], true
	}
}

// blockPresent reports whether a block regex matches at all; used to
// pin constant fields to a section's existence.
func blockPresent(blockExpr, value string) Capture {
	re := regexp.MustCompile(blockExpr)
	return func(d *Document, _ Extracted) (string, bool) {
		if re.MatchString(d.Text) {
			return value, true
		}
		return "", false
	}
}

// blockLines captures the block matched by expr, keeps the lines
// containing mustContain (case-insensitive), deduplicates and joins
// them sorted.
func blockLines(blockExpr, mustContain, sep string) Capture {
	blockRe := regexp.MustCompile(blockExpr)
	lowerMust := strings.ToLower(mustContain)
	return func(d *Document, _ Extracted) (string, bool) {
		bm := blockRe.FindStringSubmatch(d.Text)
		if bm == nil {
			return "", false
		}
		seen := make(map[string]struct{})
		var items []string
		for _, line := range strings.Split(bm[1], "\n") {
			line = strings.TrimSpace(line)
			if line == "" || !strings.Contains(strings.ToLower(line), lowerMust) {
				continue
			}
			if _, dup := seen[line]; dup {
				continue
			}
			seen[line] = struct{}{}
			items = append(items, line)
		}
		if len(items) == 0 {
			return "", false
		}
		sort.Strings(items)
		return strings.Join(items, sep), true
	}
}

// constant always captures a fixed value.
func constant(v string) Capture {
	return func(_ *Document, _ Extracted) (string, bool) {
		return v, true
	}
}

// fromField derives a value from an earlier captured field. The source
// rule must precede this one in the template's rule order.
func fromField(field string, derive func(string) (string, bool)) Capture {
	return func(_ *Document, rec Extracted) (string, bool) {
		raw, ok := rec[field]
		if !ok {
			return "", false
		}
		return derive(raw)
	}
}
