// Package cookie holds the cookie records read from the browser and the
// serialized forms written for the pipeline.
package cookie

import (
	"fmt"
	"net/url"
	"sort"
	"strings"
	"time"

	"golang.org/x/net/publicsuffix"
)

// SameSite is the cookie SameSite attribute.
type SameSite string

const (
	SameSiteNone   SameSite = "None"
	SameSiteLax    SameSite = "Lax"
	SameSiteStrict SameSite = "Strict"
)

// Cookie is a browser cookie record.
type Cookie struct {
	Name     string
	Value    string
	Domain   string
	Path     string
	Secure   bool
	HTTPOnly bool
	SameSite SameSite

	// Expires is nil for session cookies.
	Expires *time.Time
}

// Pair returns the cookie in name=value form.
func (c Cookie) Pair() string {
	return c.Name + "=" + c.Value
}

// Expired reports whether the cookie expired before now.
func (c Cookie) Expired(now time.Time) bool {
	return c.Expires != nil && c.Expires.Before(now)
}

// Find returns the first cookie with the given name.
func Find(cookies []Cookie, name string) (Cookie, bool) {
	for _, c := range cookies {
		if c.Name == name {
			return c, true
		}
	}
	return Cookie{}, false
}

// Names lists cookie names in the order they were read.
func Names(cookies []Cookie) []string {
	names := make([]string, 0, len(cookies))
	for _, c := range cookies {
		names = append(names, c.Name)
	}
	return names
}

// Header joins cookies into a Cookie header value ("a=1; b=2").
func Header(cookies []Cookie) string {
	pairs := make([]string, 0, len(cookies))
	for _, c := range cookies {
		pairs = append(pairs, c.Pair())
	}
	return strings.Join(pairs, "; ")
}

// FirstParty keeps the unexpired cookies that belong to the same registrable
// domain as siteURL, deduplicated by (name, domain, path). The session cookie
// named primary, if present, is moved to the front.
func FirstParty(cookies []Cookie, siteURL, primary string, now time.Time) ([]Cookie, error) {
	u, err := url.Parse(siteURL)
	if err != nil {
		return nil, fmt.Errorf("invalid site url: %w", err)
	}
	site, err := registrableDomain(u.Hostname())
	if err != nil {
		return nil, err
	}

	seen := make(map[string]struct{}, len(cookies))
	out := make([]Cookie, 0, len(cookies))
	for _, c := range cookies {
		if c.Name == "" || c.Expired(now) {
			continue
		}
		domain, err := registrableDomain(c.Domain)
		if err != nil || domain != site {
			continue
		}
		key := c.Name + "\x00" + normalizeHost(c.Domain) + "\x00" + c.Path
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, c)
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Name == primary && out[j].Name != primary
	})
	return out, nil
}

func registrableDomain(host string) (string, error) {
	host = normalizeHost(host)
	if host == "" {
		return "", fmt.Errorf("empty host")
	}
	domain, err := publicsuffix.EffectiveTLDPlusOne(host)
	if err != nil {
		// localhost, bare IPs and similar have no public suffix
		return host, nil
	}
	return domain, nil
}

func normalizeHost(host string) string {
	host = strings.TrimSpace(host)
	host = strings.TrimPrefix(host, ".")
	return strings.ToLower(host)
}
