// Package numfmt formats odometer and distance figures for display and
// reads them back from user input.
package numfmt

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printer = message.NewPrinter(language.English)

// FormatThousands keeps the digits of value and groups them by thousands,
// e.g. "15000" -> "15,000". Anything that is not a digit is dropped, so
// re-formatting already formatted text is a no-op.
func FormatThousands(value string) string {
	digits := keepDigits(value)
	if digits == "" {
		return ""
	}
	n, err := strconv.ParseUint(digits, 10, 64)
	if err != nil {
		// Beyond uint64; group the significant digits by hand.
		return group(strings.TrimLeft(digits, "0"))
	}
	return printer.Sprintf("%d", n)
}

// FormatInt groups a signed integer by thousands.
func FormatInt(n int) string {
	return printer.Sprintf("%d", n)
}

// StripSeparators removes thousands separators and whitespace.
func StripSeparators(formatted string) string {
	return strings.Map(func(r rune) rune {
		if r == ',' || unicode.IsSpace(r) {
			return -1
		}
		return r
	}, formatted)
}

// ParseMileage reads a non-negative whole number of kilometers, accepting
// thousands separators.
func ParseMileage(s string) (int, error) {
	raw := StripSeparators(s)
	if raw == "" {
		return 0, fmt.Errorf("mileage is empty")
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid mileage %q: %w", s, err)
	}
	if n < 0 {
		return 0, fmt.Errorf("mileage must not be negative: %d", n)
	}
	return n, nil
}

func keepDigits(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func group(digits string) string {
	if len(digits) <= 3 {
		return digits
	}
	var b strings.Builder
	head := len(digits) % 3
	if head > 0 {
		b.WriteString(digits[:head])
	}
	for i := head; i < len(digits); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(digits[i : i+3])
	}
	return b.String()
}
