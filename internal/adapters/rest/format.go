package rest

import (
	"strings"
	"time"
	"unicode"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const postedDateLayout = "01/02/2006"

// FormatPrice - цена в долларах с разделителями разрядов: 1250 -> "$1,250.00"
func FormatPrice(v float64) string {
	p := message.NewPrinter(language.AmericanEnglish)
	return p.Sprintf("$%.2f", v)
}

// FormatPostedDate - дата публикации в виде MM/DD/YYYY
func FormatPostedDate(t time.Time) string {
	return t.Format(postedDateLayout)
}

// FormatPhone приводит десятизначный номер США к виду "(555) 123-4567".
// Номера другой длины возвращаются как есть.
func FormatPhone(raw string) string {
	var digits strings.Builder
	for _, r := range raw {
		if unicode.IsDigit(r) {
			digits.WriteRune(r)
		}
	}

	d := digits.String()
	if len(d) == 11 && d[0] == '1' {
		d = d[1:]
	}
	if len(d) != 10 {
		return strings.TrimSpace(raw)
	}
	return "(" + d[:3] + ") " + d[3:6] + "-" + d[6:]
}
