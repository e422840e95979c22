package spmeta

// Default processing paths advertised in generated metadata when no explicit
// route configuration is supplied. These values are a deployment contract
// shared with the runtime SAML endpoints and must stay stable across
// versions.
const (
	DefaultSSOPath        = "/saml/SSO"
	DefaultHoKSSOPath     = "/saml/HoKSSO"
	DefaultEntryPointPath = "/saml/login"
	DefaultDiscoveryPath  = "/saml/discovery"
	DefaultLogoutPath     = "/saml/SingleLogout"
)

// DiscoveryResponseParameter is the query parameter that marks a request to
// the entry point as an identity provider discovery response.
const DiscoveryResponseParameter = "disco"

// RouteConfig carries the URL paths the runtime SAML processing endpoints
// are mounted on. Zero-value fields fall back to the default paths, so the
// zero RouteConfig describes a standard deployment.
type RouteConfig struct {
	// SSOPath is where the ordinary web SSO processing endpoint listens.
	SSOPath string

	// HoKSSOPath is where the holder-of-key SSO processing endpoint listens.
	HoKSSOPath string

	// EntryPointPath is where authentication is initiated and where identity
	// provider discovery responses return to.
	EntryPointPath string

	// DiscoveryPath is where the identity provider discovery endpoint
	// listens.
	DiscoveryPath string

	// LogoutPath is where the single logout processing endpoint listens.
	LogoutPath string
}

func (r RouteConfig) ssoPath() string {
	if r.SSOPath != "" {
		return r.SSOPath
	}
	return DefaultSSOPath
}

func (r RouteConfig) hokSSOPath() string {
	if r.HoKSSOPath != "" {
		return r.HoKSSOPath
	}
	return DefaultHoKSSOPath
}

func (r RouteConfig) entryPointPath() string {
	if r.EntryPointPath != "" {
		return r.EntryPointPath
	}
	return DefaultEntryPointPath
}

func (r RouteConfig) discoveryPath() string {
	if r.DiscoveryPath != "" {
		return r.DiscoveryPath
	}
	return DefaultDiscoveryPath
}

func (r RouteConfig) logoutPath() string {
	if r.LogoutPath != "" {
		return r.LogoutPath
	}
	return DefaultLogoutPath
}
