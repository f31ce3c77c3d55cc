package core

// convert.go turns form input into typed field values and back.
//
// Form values are messy: dates arrive in several layouts, amounts may carry
// currency symbols, thousands separators or accounting parentheses. Every
// Parse* function accepts the empty string as "no value" and reports any
// other unparseable input as an error that MapError recognises.

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// numericRegex validates a decimal number after cleanup.
var numericRegex = regexp.MustCompile(`^[+-]?(\d+(\.\d*)?|\.\d+)$`)

// TwoDigitYearPivot defines how 2-digit years are interpreted.
// Years that would land more than this many years in the future are
// assumed to be in the previous century.
var TwoDigitYearPivot = 20

var (
	twoDigitYearLayouts = []string{
		"1/2/06", "01/02/06", "1-2-06", "1.2.06", "01.02.06",
	}
	fourDigitYearLayouts = []string{
		"2006-01-02", "2006/01/02", "2006.01.02",
		"1/2/2006", "01/02/2006", "1-2-2006", "01-02-2006", "1.2.2006", "01.02.2006",
		"Jan 2, 2006", "2 Jan 2006",
		"20060102",
	}
)

// ParseDate parses a calendar date. Four-digit-year layouts are tried first
// since they are unambiguous.
func ParseDate(s string) (Date, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Date{}, nil
	}

	for _, layout := range fourDigitYearLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return DateOf(t), nil
		}
	}

	pivotYear := time.Now().Year() + TwoDigitYearPivot
	for _, layout := range twoDigitYearLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			if t.Year() > pivotYear {
				t = t.AddDate(-100, 0, 0)
			}
			return DateOf(t), nil
		}
	}

	return Date{}, fmt.Errorf("invalid date %q", s)
}

// cleanNumber strips currency symbols and separators and converts the
// accounting format "(123.45)" into "-123.45".
func cleanNumber(s string) string {
	s = strings.TrimSpace(s)

	negative := false
	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		negative = true
		s = strings.TrimSpace(s[1 : len(s)-1])
	}

	s = strings.NewReplacer("$", "", "€", "", "£", "", ",", "", " ", "").Replace(s)
	if negative {
		s = "-" + s
	}
	return s
}

// ParseMoney parses an amount into integer cents, rounding half away from
// zero at the third decimal.
func ParseMoney(s string) (int64, error) {
	raw := s
	s = cleanNumber(s)
	if s == "" {
		return 0, nil
	}
	if !numericRegex.MatchString(s) {
		return 0, fmt.Errorf("invalid number %q", raw)
	}

	whole, frac, _ := strings.Cut(s, ".")
	negative := strings.HasPrefix(whole, "-")
	whole = strings.TrimLeft(whole, "+-")
	if whole == "" {
		whole = "0"
	}

	units, err := strconv.ParseInt(whole, 10, 64)
	if err != nil || units > math.MaxInt64/100-1 {
		return 0, fmt.Errorf("invalid number %q", raw)
	}

	frac += "000"
	cents, _ := strconv.ParseInt(frac[:2], 10, 64)
	if frac[2] >= '5' {
		cents++
	}

	total := units*100 + cents
	if negative {
		total = -total
	}
	return total, nil
}

// FormatMoney renders cents as a plain decimal with two places.
func FormatMoney(cents int64) string {
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	return fmt.Sprintf("%s%d.%02d", sign, cents/100, cents%100)
}

// ParseHours parses a non-negative quantity of hours.
func ParseHours(s string) (float64, error) {
	raw := s
	s = cleanNumber(s)
	if s == "" {
		return 0, nil
	}
	if !numericRegex.MatchString(s) {
		return 0, fmt.Errorf("invalid number %q", raw)
	}
	h, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid number %q", raw)
	}
	return h, nil
}

// FormatHours renders hours without trailing zeros.
func FormatHours(h float64) string {
	if h == 0 {
		return ""
	}
	return strconv.FormatFloat(h, 'f', -1, 64)
}

// ParseID parses a positive store id. Empty input yields 0.
func ParseID(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id < 0 {
		return 0, fmt.Errorf("invalid id %q", s)
	}
	return id, nil
}
