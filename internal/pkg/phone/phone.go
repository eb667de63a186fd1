package phone

import (
	"strings"

	"github.com/ttacon/libphonenumber"
)

// Normalize formats a raw member phone number to E.164 for the gateway's
// customer block. The default region applies when the member omitted the
// country prefix.
func Normalize(raw, defaultRegion string) (string, error) {
	num, err := libphonenumber.Parse(strings.TrimSpace(raw), strings.ToUpper(defaultRegion))
	if err != nil {
		return "", err
	}
	return libphonenumber.Format(num, libphonenumber.E164), nil
}

// NormalizeOrKeep returns the E.164 form when the number parses, otherwise
// the trimmed input. The gateway validates the number again on its side.
func NormalizeOrKeep(raw, defaultRegion string) string {
	if formatted, err := Normalize(raw, defaultRegion); err == nil {
		return formatted
	}
	return strings.TrimSpace(raw)
}
