package dataset

import (
	"math"
	"strconv"
	"strings"
	"time"
)

// nullTokens are the cell values treated as missing.
var nullTokens = map[string]struct{}{
	"": {}, "#N/A": {}, "#N/A N/A": {}, "#NA": {}, "-1.#IND": {}, "-1.#QNAN": {},
	"-NaN": {}, "-nan": {}, "1.#IND": {}, "1.#QNAN": {}, "<NA>": {}, "N/A": {},
	"NA": {}, "NULL": {}, "NaN": {}, "None": {}, "n/a": {}, "nan": {}, "null": {},
}

// IsNull reports whether a raw cell is a null token.
func IsNull(s string) bool {
	_, ok := nullTokens[strings.TrimSpace(s)]
	return ok
}

func inferColumn(name string, cells []string, opt Options) *Column {
	c := &Column{Name: name, Cells: cells, Missing: make([]bool, len(cells))}

	var nonNull, ints, floats, bools, temporals int
	nums := make([]float64, len(cells))
	for i, raw := range cells {
		if IsNull(raw) {
			c.Missing[i] = true
			nums[i] = math.NaN()
			continue
		}
		nonNull++
		v := strings.TrimSpace(raw)
		if x, ok := parseNumeric(v, opt); ok {
			floats++
			nums[i] = x
			if isInteger(v, opt) {
				ints++
			}
			continue
		}
		nums[i] = math.NaN()
		if isBool(v) {
			bools++
			continue
		}
		if _, ok := parseTimeMaybe(v); ok {
			temporals++
		}
	}

	missing := len(cells) - nonNull
	switch {
	case len(cells) == 0:
		// no rows: nothing to infer from
		c.Kind = KindText
	case nonNull == 0:
		// all-NA columns are float columns with nothing in them
		c.Kind = KindFloat
	case ints == nonNull && missing == 0:
		c.Kind = KindInt
	case floats == nonNull:
		c.Kind = KindFloat
	case bools == nonNull && missing == 0:
		c.Kind = KindBool
	case temporals == nonNull:
		c.Kind = KindTemporal
	default:
		c.Kind = KindText
	}
	if c.Kind.Numeric() {
		c.Numbers = nums
	}
	return c
}

func isBool(s string) bool {
	return strings.EqualFold(s, "true") || strings.EqualFold(s, "false")
}

func isInteger(s string, opt Options) bool {
	raw := normalizeNumber(s, opt)
	_, err := strconv.ParseInt(raw, 10, 64)
	return err == nil
}

func parseNumeric(s string, opt Options) (float64, bool) {
	raw := normalizeNumber(s, opt)
	if raw == "" {
		return 0, false
	}
	// ParseFloat accepts hex and underscores only with prefixes; reject those forms.
	if strings.ContainsAny(raw, "xX_") {
		return 0, false
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

func normalizeNumber(s string, opt Options) string {
	raw := strings.TrimSpace(s)
	if opt.ThousandsSeparator != 0 && opt.ThousandsSeparator != opt.DecimalSeparator {
		raw = strings.ReplaceAll(raw, string(opt.ThousandsSeparator), "")
	}
	if opt.DecimalSeparator != 0 && opt.DecimalSeparator != '.' {
		if strings.Contains(raw, ".") {
			// a '.' is not a valid decimal mark under a non-dot locale
			return ""
		}
		raw = strings.ReplaceAll(raw, string(opt.DecimalSeparator), ".")
	}
	return raw
}

func parseTimeMaybe(s string) (time.Time, bool) {
	layouts := []string{
		time.RFC3339, "2006-01-02", "2006/01/02", "02/01/2006", "01/02/2006",
		"2006-01-02 15:04", "2006-01-02 15:04:05", "1/2/2006 15:04", "1/2/2006 15:04:05",
		"2-Jan-06", "2 Jan 2006", "Jan 2, 2006",
	}
	for _, l := range layouts {
		if t, err := time.Parse(l, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
