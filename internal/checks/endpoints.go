package checks

import "strings"

const (
	placeholder      = "{}"
	fallbackEndpoint = "https://rdap.org/domain/{}"
)

var registryEndpoints = map[string]string{
	"com": "https://rdap.verisign.com/com/v1/domain/{}",
	"net": "https://rdap.verisign.com/net/v1/domain/{}",
	"ai":  "https://rdap.identitydigital.services/rdap/domain/{}",
	"dev": "https://rdap.googleapis.com/rdap/v1/domain/{}",
	"app": "https://rdap.googleapis.com/rdap/v1/domain/{}",
}

// ResolveEndpoint returns the endpoint template for suffix. A configured
// endpoint always wins; unknown suffixes go through the rdap.org redirector.
func ResolveEndpoint(suffix, configured string) string {
	if configured = strings.TrimSpace(configured); configured != "" {
		return configured
	}
	if tmpl, ok := registryEndpoints[strings.ToLower(suffix)]; ok {
		return tmpl
	}
	return fallbackEndpoint
}

// endpointURL fills tmpl with fqdn. Templates without a placeholder are
// treated as a base URL and get "/<fqdn>" appended.
func endpointURL(tmpl, fqdn string) string {
	if strings.Contains(tmpl, placeholder) {
		return strings.ReplaceAll(tmpl, placeholder, fqdn)
	}
	return strings.TrimRight(tmpl, "/") + "/" + fqdn
}
