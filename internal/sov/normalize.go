package sov

import (
	"net/url"
	"strings"

	"golang.org/x/net/publicsuffix"
)

// Normalize canonicalizes a raw apply-option URL into a comparable
// registrable domain ("example.com"): lower-cased eTLD+1 with any
// subdomain (including www) stripped. Returns "" when no domain can be
// extracted; callers skip empty domains instead of recording them.
func Normalize(raw string) string {
	host := hostOf(raw)
	if host == "" {
		return ""
	}

	etld1, err := publicsuffix.EffectiveTLDPlusOne(host)
	if err != nil {
		// Suffix could not be determined (bare label, or the host *is*
		// a public suffix). Fall back to the bare domain label.
		if i := strings.LastIndex(host, "."); i >= 0 {
			return host[i+1:]
		}
		return host
	}
	return etld1
}

func hostOf(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}

	u, err := url.Parse(raw)
	if err != nil {
		return ""
	}
	host := u.Hostname()
	if host == "" {
		// Schemeless input like "example.com/apply" parses as a path.
		u, err = url.Parse("https://" + raw)
		if err != nil {
			return ""
		}
		host = u.Hostname()
	}

	host = strings.ToLower(strings.Trim(host, "."))
	host = strings.TrimPrefix(host, "www.")
	if host == "" || !strings.ContainsAny(host, "abcdefghijklmnopqrstuvwxyz") {
		// Pure numeric hosts (IPs) carry no registrable domain.
		return ""
	}
	return host
}
