package domain

import "strings"

// GlobalMetaAPI is the account-level Xano meta API root. It serves the
// endpoints that exist outside any single instance (auth/me and friends);
// everything else goes through an instance's own MetaAPI URL.
const GlobalMetaAPI = "https://app.xano.com/api:meta"

// instanceDomainSuffix is appended to an instance name to form its host.
const instanceDomainSuffix = ".n7c.xano.io"

// Instance describes one Xano deployment and the API endpoints derived
// from its name. The JSON field names match what the platform itself
// returns from instance listings.
type Instance struct {
	Name        string `json:"name"`
	Display     string `json:"display"`
	Domain      string `json:"xano_domain"`
	RateLimit   bool   `json:"rate_limit"`
	MetaAPI     string `json:"meta_api"`
	MetaSwagger string `json:"meta_swagger"`
}

// NewInstance derives an Instance purely from its name, without a network
// call. The display label is the first dash-separated segment, uppercased.
func NewInstance(name string) Instance {
	host := name + instanceDomainSuffix
	return Instance{
		Name:        name,
		Display:     strings.ToUpper(strings.SplitN(name, "-", 2)[0]),
		Domain:      host,
		RateLimit:   false,
		MetaAPI:     "https://" + host + "/api:meta",
		MetaSwagger: "https://" + host + "/apispec:meta?type=json",
	}
}

// NormalizeID strips surrounding double quotes from an identifier before it
// is interpolated into a URL path. Upstream callers sometimes hand IDs over
// still wrapped in their JSON quoting.
func NormalizeID(id string) string {
	return strings.Trim(id, `"`)
}
