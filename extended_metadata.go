package spmeta

// ExtendedMetadata carries deployment-local settings consumed by the runtime
// SSO and discovery endpoints. It accompanies the generated XML document but
// never becomes part of it.
//
// When an ExtendedMetadata is supplied as a template on the generator
// config, its alias, key alias and key info generator fields take precedence
// over the corresponding config fields during generation.
type ExtendedMetadata struct {
	// Local is true for metadata describing this deployment itself, as
	// opposed to metadata imported for a remote entity. The generator always
	// forces it to true on derived records.
	Local bool

	// Alias is the entity alias appended to generated endpoint URLs.
	Alias string

	// IDPDiscoveryEnabled turns on the identity provider discovery profile
	// for this entity.
	IDPDiscoveryEnabled bool

	// IDPDiscoveryURL is where discovery requests are sent. Empty means the
	// generator computes the default discovery endpoint.
	IDPDiscoveryURL string

	// IDPDiscoveryResponseURL is where the discovery service sends its
	// responses. Empty means the generator computes the default entry point
	// URL with the discovery response parameter set.
	IDPDiscoveryResponseURL string

	// SigningKeyAlias, EncryptionKeyAlias and TLSKeyAlias name the key store
	// credentials advertised in the generated metadata.
	SigningKeyAlias    string
	EncryptionKeyAlias string
	TLSKeyAlias        string

	// KeyInfoGeneratorName selects a registered key info generator. Empty
	// selects the default X.509 generator.
	KeyInfoGeneratorName string

	// RequireLogoutRequestSigned and RequireLogoutResponseSigned are
	// consumed by the runtime logout endpoint. The generator passes them
	// through untouched.
	RequireLogoutRequestSigned  bool
	RequireLogoutResponseSigned bool
}

// extendedOverrides is the generator-owned subset of ExtendedMetadata fields.
type extendedOverrides struct {
	idpDiscoveryURL         string
	idpDiscoveryResponseURL string
}

// deriveExtendedMetadata builds a new record from the template's fields,
// overriding exactly the generator-owned subset. Every other field passes
// through untouched; a nil template derives from the zero record.
func deriveExtendedMetadata(template *ExtendedMetadata, overrides extendedOverrides) *ExtendedMetadata {
	derived := ExtendedMetadata{}
	if template != nil {
		derived = *template
	}

	derived.IDPDiscoveryURL = overrides.idpDiscoveryURL
	derived.IDPDiscoveryResponseURL = overrides.idpDiscoveryResponseURL
	derived.Local = true

	return &derived
}
