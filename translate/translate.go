// Package translate routes user visible messages of the assembler and the
// machine model through a locale aware printer.
package translate

import (
	"log"

	"github.com/jeandeaual/go-locale"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Fallback is the language used when the host reports no locale.
var Fallback = language.AmericanEnglish

var printer *message.Printer

func init() {
	locales, err := locale.GetLocales()
	if err != nil {
		log.Printf("hackasm: locale: %v", err)
	}

	if len(locales) == 0 {
		locales = []string{Fallback.String()}
	}

	printer = message.NewPrinter(message.MatchLanguage(locales...))
}

// From an en-US Sprintf() format, translate to string.
func From(key message.Reference, args ...any) string {
	return printer.Sprintf(key, args...)
}

// Number formats an integer with the digit grouping of the active locale.
func Number(value int) string {
	return printer.Sprint(value)
}
