package render

import (
	"fmt"
	"strings"
	"unicode"

	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/abelbrown/shopper/internal/model"
)

type moneyFormatter struct {
	printer  *message.Printer
	fallback string
}

func newMoneyFormatter(opts Options) moneyFormatter {
	tag, err := language.Parse(opts.Locale)
	if err != nil || opts.Locale == "" {
		tag = language.AmericanEnglish
	}
	fallback := strings.TrimSpace(opts.Currency)
	if fallback == "" {
		fallback = "USD"
	}
	return moneyFormatter{printer: message.NewPrinter(tag), fallback: fallback}
}

// FormatPrice formats one price for display using the given options.
func FormatPrice(p model.Price, code string, opts Options) string {
	return newMoneyFormatter(opts).format(p, code)
}

func (m moneyFormatter) format(p model.Price, code string) string {
	if !p.Present {
		return ""
	}
	if !p.Numeric {
		return cleanLine(p.Text)
	}

	code = strings.TrimSpace(code)
	if code == "" {
		code = m.fallback
	}
	unit, err := currency.ParseISO(code)
	if err != nil || unit == (currency.Unit{}) {
		return fmt.Sprintf("$%.2f", p.Amount)
	}

	sym := m.printer.Sprint(currency.Symbol(unit))
	out := m.printer.Sprint(currency.Symbol(unit.Amount(p.Amount)))
	// glue symbols like "$" to the amount; "CHF 12.50" keeps its space
	if !hasLetter(sym) {
		out = strings.Replace(out, sym+" ", sym, 1)
	}
	return out
}

func hasLetter(s string) bool {
	for _, r := range s {
		if unicode.IsLetter(r) {
			return true
		}
	}
	return false
}
