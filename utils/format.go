package utils

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var countPrinter = message.NewPrinter(language.English)

// FormatCount renders n with thousands separators, 97656 -> "97,656"
func FormatCount(n int) string {
	return countPrinter.Sprintf("%d", n)
}
