//go:build property

package identifier

import (
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

// Normalization must be idempotent over arbitrary input: whenever a value
// normalizes at all, renormalizing its output yields the same string
func TestNormalize_IdempotentProperty(t *testing.T) {
	params := gopter.DefaultTestParameters()
	params.MinSuccessfulTests = 500

	properties := gopter.NewProperties(params)

	types := gen.OneConstOf(TypePhone, TypeEmail, TypeHandle, TypeURL, TypeOther)
	countries := gen.OneConstOf("", "NP", "IN", "US", "GB", "ZZ")

	properties.Property("normalize(normalize(x)) == normalize(x)", prop.ForAll(
		func(typ Type, raw string, cc string) bool {
			once, err := Normalize(typ, raw, cc)
			if err != nil {
				return true // rejected input is out of scope for idempotence
			}
			twice, err := Normalize(typ, once, cc)
			if err != nil {
				return false // canonical output must stay accepted
			}
			return once == twice
		},
		types,
		gen.AnyString(),
		countries,
	))

	properties.Property("phone canonical form is + and digits or digits only", prop.ForAll(
		func(raw string, cc string) bool {
			out, err := Normalize(TypePhone, raw, cc)
			if err != nil {
				return true
			}
			body := out
			if len(out) > 0 && out[0] == '+' {
				body = out[1:]
			}
			if body == "" {
				return false
			}
			for _, r := range body {
				if r < '0' || r > '9' {
					return false
				}
			}
			return true
		},
		gen.AnyString(),
		countries,
	))

	properties.TestingRun(t)
}
