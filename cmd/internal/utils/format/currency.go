package format

import (
	"errors"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const zeroCurrency = "0,00"

var (
	ErrEmptyAmount = errors.New("empty amount")

	printer = message.NewPrinter(language.BrazilianPortuguese)
)

// ParseCurrency reads amounts such as "R$ 1.234,56", "1234,56", "1234.56" or
// "1,234.56". The right-most separator is taken as the decimal mark when both
// appear. A lone comma is decimal. Dots alone are thousand separators when they
// repeat or when a single dot is followed by exactly three digits ("R$ 5.000").
func ParseCurrency(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "R$")
	s = strings.Map(func(r rune) rune {
		switch {
		case r >= '0' && r <= '9', r == ',', r == '.', r == '-':
			return r
		default:
			return -1
		}
	}, s)
	if s == "" {
		return decimal.Zero, ErrEmptyAmount
	}

	lastComma := strings.LastIndex(s, ",")
	lastDot := strings.LastIndex(s, ".")
	switch {
	case lastComma >= 0 && lastDot >= 0:
		if lastComma > lastDot {
			s = strings.ReplaceAll(s, ".", "")
			s = strings.Replace(s, ",", ".", 1)
		} else {
			s = strings.ReplaceAll(s, ",", "")
		}
	case lastComma >= 0:
		s = strings.ReplaceAll(s, ".", "")
		if strings.Count(s, ",") > 1 {
			s = strings.ReplaceAll(s, ",", "")
		} else {
			s = strings.Replace(s, ",", ".", 1)
		}
	case strings.Count(s, ".") > 1, lastDot >= 0 && len(s)-lastDot-1 == 3:
		s = strings.ReplaceAll(s, ".", "")
	}

	return decimal.NewFromString(s)
}

// Currency formats a number or a currency string as a pt-BR grouped amount with
// two decimals, e.g. 1234.5 -> "1.234,50". Unparseable input yields "0,00".
func Currency(v any) string {
	var d decimal.Decimal
	switch x := v.(type) {
	case decimal.Decimal:
		d = x
	case float64:
		d = decimal.NewFromFloat(x)
	case float32:
		d = decimal.NewFromFloat32(x)
	case int:
		d = decimal.NewFromInt(int64(x))
	case int64:
		d = decimal.NewFromInt(x)
	case string:
		parsed, err := ParseCurrency(x)
		if err != nil {
			return zeroCurrency
		}
		d = parsed
	default:
		return zeroCurrency
	}

	f, _ := d.Round(2).Float64()
	return printer.Sprintf("%.2f", f)
}
