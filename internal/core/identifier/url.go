package identifier

import (
	"net/url"
	"strings"

	perr "github.com/bhattashubham/scamnepal-csr-sub000/internal/platform/errors"

	"golang.org/x/net/publicsuffix"
)

// normalizeURL reduces a site reference to its registrable domain, the unit
// scam infrastructure is provisioned at. Subdomains, paths, ports, and the
// scheme all collapse so lure pages on one domain share one entity
func normalizeURL(raw string) (string, error) {
	s := fold(raw)
	if !strings.Contains(s, "://") {
		s = "https://" + s
	}
	u, err := url.Parse(s)
	if err != nil {
		return "", perr.InvalidIdentifierf("malformed url")
	}
	host := strings.ToLower(u.Hostname())
	host = strings.TrimSuffix(host, ".")
	host = strings.TrimPrefix(host, "www.")
	if host == "" {
		return "", perr.InvalidIdentifierf("url has no host")
	}

	// eTLD+1 when the host sits under a known public suffix; bare hosts
	// (localhost, raw IPs, internal names) pass through unchanged
	if dom, err := publicsuffix.EffectiveTLDPlusOne(host); err == nil {
		return dom, nil
	}
	return host, nil
}
