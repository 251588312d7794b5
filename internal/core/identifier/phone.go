package identifier

import (
	"strings"

	perr "github.com/bhattashubham/scamnepal-csr-sub000/internal/platform/errors"
)

// callingCodes maps ISO 3166-1 alpha-2 codes onto E.164 country calling
// codes. Not exhaustive; the set covers the corridors the registry sees
// reports from. Unknown countries fall back to digits-only canonical form
var callingCodes = map[string]string{
	"NP": "977", // Nepal
	"IN": "91",
	"BD": "880",
	"LK": "94",
	"PK": "92",
	"CN": "86",
	"US": "1",
	"CA": "1",
	"GB": "44",
	"AU": "61",
	"AE": "971",
	"QA": "974",
	"SA": "966",
	"KW": "965",
	"MY": "60",
	"SG": "65",
	"JP": "81",
	"KR": "82",
	"NG": "234",
	"PH": "63",
	"DE": "49",
	"FR": "33",
}

// CallingCode resolves an ISO country code to its calling code, "" if unknown
func CallingCode(iso string) string {
	return callingCodes[strings.ToUpper(strings.TrimSpace(iso))]
}

// normalizePhone strips decorative punctuation and resolves the number to an
// E.164-like +<digits> form when the country is carried by the value itself
// (+ or 00 prefix), supplied, or already baked into the digits. Without any
// country signal the canonical form is digits only
func normalizePhone(raw, countryCode string) (string, error) {
	s := strings.TrimSpace(raw)

	plus := false
	var b strings.Builder
	b.Grow(len(s))
	for i, r := range s {
		switch {
		case r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '+':
			if i != 0 {
				return "", perr.InvalidIdentifierf("phone number has a misplaced +")
			}
			plus = true
		case r == ' ' || r == '-' || r == '.' || r == '(' || r == ')':
			// decoration, dropped
		default:
			return "", perr.InvalidIdentifierf("phone number contains non-numeric character %q", r)
		}
	}
	digits := b.String()
	if len(digits) < 5 || len(digits) > 15 {
		return "", perr.InvalidIdentifierf("phone number must have 5 to 15 digits")
	}

	// international prefix 00 is equivalent to +
	if !plus && strings.HasPrefix(digits, "00") && len(digits) > 7 {
		plus = true
		digits = digits[2:]
	}
	if plus {
		return "+" + digits, nil
	}

	cc := CallingCode(countryCode)
	if cc == "" {
		return digits, nil
	}

	// already carries the country calling code with a full-length remainder
	if strings.HasPrefix(digits, cc) && len(digits) >= len(cc)+8 {
		return "+" + digits, nil
	}

	// national significant number: drop one trunk zero, prepend the country
	nsn := strings.TrimPrefix(digits, "0")
	if len(nsn) < 5 {
		return "", perr.InvalidIdentifierf("phone number too short for country %s", countryCode)
	}
	return "+" + cc + nsn, nil
}
