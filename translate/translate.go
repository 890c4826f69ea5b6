// Package translate formats user-visible messages for the current locale.
package translate

import (
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/jeandeaual/go-locale"

	"golang.org/x/text/message"
)

const LANG_ENV = "HOKSTER_LANG" // Colon separated locales, overriding the system locales.

var printer *message.Printer

func init() {
	SetLanguage(locales()...)
}

// locales returns the preferred locales, most preferred first.
func locales() (tags []string) {
	if lang := os.Getenv(LANG_ENV); len(lang) != 0 {
		tags = strings.Split(lang, ":")
		return
	}

	tags, err := locale.GetLocales()
	if err != nil {
		log.Printf("hokster: locale: %v", err)
	}

	return
}

// SetLanguage selects the message printer for the first supported locale.
func SetLanguage(tags ...string) {
	if len(tags) == 0 {
		tags = []string{"en-US"}
	}

	printer = message.NewPrinter(message.MatchLanguage(tags...))
}

// From an en-US Sprintf() format, translate to string.
func From(key message.Reference, args ...any) string {
	return printer.Sprintf(key, args...)
}

// Log writes the translated message to the standard logger.
func Log(key message.Reference, args ...any) {
	log.Print(printer.Sprintf(key, args...))
}

// Fprintln writes the translated message, and a newline.
func Fprintln(w io.Writer, key message.Reference, args ...any) (n int, err error) {
	return fmt.Fprintln(w, printer.Sprintf(key, args...))
}
