// Package format holds display helpers shared by the HTTP page and the CLI.
// Every function is total: malformed input yields a safe default instead of an error.
package format

import (
	"strings"
	"time"

	"consultacnpj/cmd/internal/domain/cnpj"
)

const (
	displayDate     = "02/01/2006"
	displayDateTime = "02/01/2006 15:04"
)

var saoPaulo = loadLocation("America/Sao_Paulo")

func loadLocation(name string) *time.Location {
	loc, err := time.LoadLocation(name)
	if err != nil {
		// UTC-3 has been fixed since daylight saving was abolished in 2019
		return time.FixedZone("BRT", -3*60*60)
	}
	return loc
}

// CEP renders a postal code as NNNNN-NNN.
func CEP(s string) string {
	d := cnpj.Clean(s)
	if len(d) != 8 {
		return s
	}
	return d[:5] + "-" + d[5:]
}

// Phone renders 11, 10 or 8 digit numbers; other lengths are returned untouched.
func Phone(s string) string {
	d := cnpj.Clean(s)
	switch len(d) {
	case 11:
		return "(" + d[:2] + ") " + d[2:7] + "-" + d[7:]
	case 10:
		return "(" + d[:2] + ") " + d[2:6] + "-" + d[6:]
	case 8:
		return d[:4] + "-" + d[4:]
	default:
		return s
	}
}

// Date renders YYYY-MM-DD or RFC3339 input as DD/MM/YYYY.
func Date(s string) string {
	s = strings.TrimSpace(s)
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t.Format(displayDate)
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.In(saoPaulo).Format(displayDate)
	}
	return ""
}

// DateTime renders an RFC3339 timestamp as DD/MM/YYYY HH:MM in Brasília time.
func DateTime(s string) string {
	t, err := time.Parse(time.RFC3339, strings.TrimSpace(s))
	if err != nil {
		return ""
	}
	return t.In(saoPaulo).Format(displayDateTime)
}

// Time is the time.Time flavor of DateTime.
func Time(t *time.Time) string {
	if t == nil || t.IsZero() {
		return ""
	}
	return t.In(saoPaulo).Format(displayDateTime)
}
