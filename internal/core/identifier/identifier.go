// Package identifier canonicalizes the contact surfaces scams are reported
// against. Normalization is pure, deterministic, and idempotent:
// Normalize(Normalize(x)) == Normalize(x) for every value it accepts, so two
// reports naming the same surface always resolve to the same entity key.
//
// Pipeline per type
//   - email, handle: unicode fold (NFKC, case fold, strip marks and format
//     chars, width fold), trim, shape check
//   - url: scheme/host extraction, strip port and www, reduce to the
//     registrable domain
//   - phone: strip decoration, resolve to an E.164-like +<digits> form when a
//     country is known, digits-only otherwise
package identifier

import (
	"strings"
	"sync"
	"unicode"

	perr "github.com/bhattashubham/scamnepal-csr-sub000/internal/platform/errors"

	"golang.org/x/text/cases"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
	"golang.org/x/text/width"
)

// Type is the closed set of identifier kinds the registry accepts
type Type string

// Identifier kinds
const (
	TypePhone  Type = "phone"
	TypeEmail  Type = "email"
	TypeHandle Type = "handle"
	TypeURL    Type = "url"
	TypeOther  Type = "other"
)

// Valid reports whether t is a known kind
func (t Type) Valid() bool {
	switch t {
	case TypePhone, TypeEmail, TypeHandle, TypeURL, TypeOther:
		return true
	}
	return false
}

// ParseType maps a wire string onto a Type or fails with a validation error
func ParseType(s string) (Type, error) {
	t := Type(strings.ToLower(strings.TrimSpace(s)))
	if !t.Valid() {
		return "", perr.Validationf("unknown identifier type %q", s)
	}
	return t, nil
}

// pool of fresh transformer chains, same shape for every caller so the fold
// is deterministic regardless of concurrency
var chainPool = sync.Pool{
	New: func() any {
		return transform.Chain(
			norm.NFKC,
			cases.Fold(),                       // unicode case folding
			runes.Remove(runes.In(unicode.Mn)), // strip combining marks
			runes.Remove(runes.In(unicode.Cf)), // strip format chars ZWJ ZWNJ FEFF etc
			width.Fold,                         // map fullwidth forms to ASCII
		)
	},
}

// fold lowercases and flattens unicode decorations, then trims
func fold(s string) string {
	s = strings.ToValidUTF8(s, "")
	tr := chainPool.Get().(transform.Transformer)
	ns, _, _ := transform.String(tr, s)
	tr.Reset()
	chainPool.Put(tr)
	return strings.TrimSpace(ns)
}

// Normalize canonicalizes raw for its declared type. countryCode is an ISO
// 3166-1 alpha-2 hint used only for phone numbers; pass "" when unknown.
// Fails with an invalid-identifier error when raw cannot parse as typ
func Normalize(typ Type, raw string, countryCode string) (string, error) {
	if strings.TrimSpace(raw) == "" {
		return "", perr.InvalidIdentifierf("empty %s identifier", typ)
	}
	switch typ {
	case TypeEmail:
		return normalizeEmail(raw)
	case TypeHandle:
		return normalizeHandle(raw)
	case TypeURL:
		return normalizeURL(raw)
	case TypePhone:
		return normalizePhone(raw, countryCode)
	case TypeOther:
		return fold(raw), nil
	default:
		return "", perr.Validationf("unknown identifier type %q", typ)
	}
}

func normalizeEmail(raw string) (string, error) {
	s := fold(raw)
	at := strings.IndexByte(s, '@')
	if at <= 0 || at != strings.LastIndexByte(s, '@') {
		return "", perr.InvalidIdentifierf("malformed email address")
	}
	local, domain := s[:at], s[at+1:]
	if local == "" || domain == "" || !strings.Contains(domain, ".") {
		return "", perr.InvalidIdentifierf("malformed email address")
	}
	if strings.ContainsAny(s, " \t") {
		return "", perr.InvalidIdentifierf("malformed email address")
	}
	return s, nil
}

func normalizeHandle(raw string) (string, error) {
	s := fold(raw)
	s = strings.TrimPrefix(s, "@")
	if s == "" {
		return "", perr.InvalidIdentifierf("empty handle")
	}
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z':
		case r >= '0' && r <= '9':
		case r == '.' || r == '_' || r == '-':
		default:
			return "", perr.InvalidIdentifierf("handle contains unsupported character %q", r)
		}
	}
	return s, nil
}

// Infer sniffs the most plausible Type for a free-form value. Best effort
// for search and autocomplete surfaces; ingestion always declares its type
func Infer(raw string) Type {
	s := strings.TrimSpace(raw)
	switch {
	case s == "":
		return TypeOther
	case strings.HasPrefix(s, "@"):
		return TypeHandle
	case strings.Count(s, "@") == 1 && !strings.HasPrefix(s, "@"):
		return TypeEmail
	case strings.Contains(s, "://") || strings.HasPrefix(strings.ToLower(s), "www."):
		return TypeURL
	case looksNumeric(s):
		return TypePhone
	case strings.Contains(s, "."):
		return TypeURL
	default:
		return TypeHandle
	}
}

func looksNumeric(s string) bool {
	digits := 0
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9':
			digits++
		case r == '+' || r == '-' || r == ' ' || r == '(' || r == ')' || r == '.':
		default:
			return false
		}
	}
	return digits >= 5
}
