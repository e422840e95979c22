// Package spmeta generates SAML 2.0 service provider metadata: the XML
// document that tells an identity provider how to reach and trust this
// deployment, plus the extended metadata record consumed by the runtime SSO
// and discovery endpoints.
package spmeta

import (
	"fmt"
	"net/url"
	"time"

	"github.com/hashicorp/go-hclog"
	"github.com/jonboulle/clockwork"

	"github.com/samlkit/spmeta/models/core"
	"github.com/samlkit/spmeta/models/metadata"
)

// canonicalNameIDOrder fixes the order NameID formats appear in generated
// metadata, independent of config order.
var canonicalNameIDOrder = []core.NameIDFormat{
	core.NameIDFormatEmail,
	core.NameIDFormatTransient,
	core.NameIDFormatPersistent,
	core.NameIDFormatUnspecified,
	core.NameIDFormatX509SubjectName,
}

// Generator produces service provider metadata for one deployment. A
// Generator is immutable after construction and safe for concurrent use;
// each generation call builds a fresh document owned by the caller.
type Generator struct {
	cfg      *Config
	keyStore KeyStore

	logger            hclog.Logger
	clock             clockwork.Clock
	validity          time.Duration
	cacheDuration     time.Duration
	keyInfoGenerators map[string]KeyInfoGenerator
	organization      *metadata.Organization
	contactPersons    []metadata.ContactPerson
}

// NewGenerator creates a metadata generator for the given config and key
// store.
//
// Options:
// - WithLogger
// - WithClock
// - WithValidity
// - WithCacheDuration
// - WithKeyInfoGenerator
// - WithOrganization
// - WithContactPerson
func NewGenerator(cfg *Config, keyStore KeyStore, opt ...Option) (*Generator, error) {
	const op = "spmeta.NewGenerator"

	if cfg == nil {
		return nil, fmt.Errorf("%s: no generator config provided: %w", op, ErrInvalidParameter)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: insufficient generator config: %w", op, err)
	}
	if isNil(keyStore) {
		return nil, fmt.Errorf("%s: no key store provided: %w", op, ErrInvalidParameter)
	}

	opts := getGeneratorOpts(opt...)

	return &Generator{
		cfg:               cfg,
		keyStore:          keyStore,
		logger:            opts.logger,
		clock:             opts.clock,
		validity:          opts.validity,
		cacheDuration:     opts.cacheDuration,
		keyInfoGenerators: opts.keyInfoGenerators,
		organization:      opts.organization,
		contactPersons:    opts.contactPersons,
	}, nil
}

// Config returns the generator config.
func (g *Generator) Config() *Config {
	return g.cfg
}

// GenerateMetadata builds the entity descriptor describing this service
// provider. The returned tree is created fresh per call and owned
// exclusively by the caller; serialization and signing of the document
// happen elsewhere.
func (g *Generator) GenerateMetadata() (*metadata.EntityDescriptor, error) {
	const op = "spmeta.Generator.GenerateMetadata"

	if err := g.cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	documentID := g.cfg.DocumentID
	if documentID == "" {
		// Use the entity ID cleaned as NCName in case no explicit ID is
		// provided.
		documentID = SanitizeNCName(g.cfg.EntityID)
	}

	spDescriptor, err := g.buildSPSSODescriptor()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	descriptor := &metadata.EntityDescriptor{
		EntityID: g.cfg.EntityID,
	}
	descriptor.ID = documentID

	if g.validity > 0 {
		validUntil := g.clock.Now().UTC().Add(g.validity)
		descriptor.ValidUntil = &validUntil
	}
	if g.cacheDuration > 0 {
		cacheDuration := metadata.Duration(g.cacheDuration)
		descriptor.CacheDuration = &cacheDuration
	}

	descriptor.SPSSODescriptor = []*metadata.SPSSODescriptor{spDescriptor}
	descriptor.Organization = g.organization
	descriptor.ContactPerson = g.contactPersons

	return descriptor, nil
}

// GenerateExtendedMetadata derives the extended metadata record from the
// configured template. The discovery URLs are overwritten based on whether
// discovery is enabled, Local is forced to true, and every other template
// field passes through untouched.
func (g *Generator) GenerateExtendedMetadata() (*ExtendedMetadata, error) {
	const op = "spmeta.Generator.GenerateExtendedMetadata"

	if err := g.cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	var overrides extendedOverrides

	if g.discoveryEnabled() {
		alias := g.entityAlias()

		discoveryURL, err := g.discoveryURL(alias)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		responseURL, err := g.discoveryResponseURL(alias)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}

		overrides.idpDiscoveryURL = discoveryURL
		overrides.idpDiscoveryResponseURL = responseURL
	}

	return deriveExtendedMetadata(g.cfg.ExtendedMetadata, overrides), nil
}

func (g *Generator) buildSPSSODescriptor() (*metadata.SPSSODescriptor, error) {
	const op = "spmeta.Generator.buildSPSSODescriptor"

	cfg := g.cfg
	alias := g.entityAlias()

	spDescriptor := &metadata.SPSSODescriptor{
		AuthnRequestsSigned:        cfg.RequestSigned,
		WantAssertionsSigned:       cfg.WantAssertionSigned,
		ProtocolSupportEnumeration: metadata.ProtocolSupportEnumerationProtocol,
	}

	spDescriptor.NameIDFormat = g.nameIDFormats()

	ssoBindings := resolveAliases(g.logger, cfg.ssoBindingsOrDefault())
	hokBindings := resolveAliases(g.logger, cfg.HoKSSOBindings)
	sloBindings := resolveAliases(g.logger, cfg.sloBindingsOrDefault())

	ssoLocation, err := BuildEndpointURL(cfg.EntityBaseURL, alias, cfg.Routes.ssoPath(), nil)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	hokLocation, err := BuildEndpointURL(cfg.EntityBaseURL, alias, cfg.Routes.hokSSOPath(), nil)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	logoutLocation, err := BuildEndpointURL(cfg.EntityBaseURL, alias, cfg.Routes.logoutPath(), nil)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	// Assertion consumption MUST NOT use HTTP-Redirect (Profiles 4.1.2);
	// the same restriction applies to the holder-of-key profile. The index
	// counter is shared across the ordinary and holder-of-key loops.
	index := 0

	for _, binding := range ssoBindings {
		switch sb := core.ServiceBinding(binding); sb {
		case core.ServiceBindingHTTPArtifact,
			core.ServiceBindingHTTPPost,
			core.ServiceBindingPAOS:
			spDescriptor.AssertionConsumerService = append(
				spDescriptor.AssertionConsumerService,
				metadata.IndexedEndpoint{
					Endpoint: metadata.Endpoint{
						Binding:  sb,
						Location: ssoLocation,
					},
					Index:     index,
					IsDefault: index == cfg.AssertionConsumerIndex,
				},
			)
			index++
		}
	}

	for _, binding := range hokBindings {
		switch sb := core.ServiceBinding(binding); sb {
		case core.ServiceBindingHTTPArtifact,
			core.ServiceBindingHTTPPost:
			spDescriptor.AssertionConsumerService = append(
				spDescriptor.AssertionConsumerService,
				metadata.IndexedEndpoint{
					Endpoint: metadata.Endpoint{
						Binding:  core.HoKProfileURI,
						Location: hokLocation,
					},
					Index:              index,
					IsDefault:          index == cfg.AssertionConsumerIndex,
					HoKNamespace:       core.HoKProfileURI,
					HoKProtocolBinding: sb,
				},
			)
			index++
		}
	}

	// Logout endpoints are never indexed and never marked default.
	for _, binding := range sloBindings {
		switch sb := core.ServiceBinding(binding); sb {
		case core.ServiceBindingHTTPPost,
			core.ServiceBindingHTTPRedirect,
			core.ServiceBindingSOAP:
			spDescriptor.SingleLogoutService = append(
				spDescriptor.SingleLogoutService,
				metadata.Endpoint{
					Binding:  sb,
					Location: logoutLocation,
				},
			)
		}
	}

	extensions, err := g.buildExtensions(alias)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	spDescriptor.Extensions = extensions

	if err := g.appendKeyDescriptors(spDescriptor); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return spDescriptor, nil
}

func (g *Generator) nameIDFormats() []core.NameIDFormat {
	resolved := resolveAliases(g.logger, g.cfg.nameIDFormatsOrDefault())

	included := make(map[string]struct{}, len(resolved))
	for _, value := range resolved {
		included[value] = struct{}{}
	}

	var formats []core.NameIDFormat
	for _, format := range canonicalNameIDOrder {
		if _, ok := included[string(format)]; ok {
			formats = append(formats, format)
		}
	}

	return formats
}

// buildExtensions returns the extensions block, or nil when there is nothing
// to put in it. An empty extensions container is never emitted.
func (g *Generator) buildExtensions(alias string) (*metadata.Extensions, error) {
	if !g.discoveryEnabled() {
		return nil, nil
	}

	location, err := g.discoveryResponseURL(alias)
	if err != nil {
		return nil, err
	}

	return &metadata.Extensions{
		DiscoveryResponse: []metadata.DiscoveryResponse{
			{
				Binding:  core.IDPDiscoveryProtocolURI,
				Location: location,
			},
		},
	}, nil
}

func (g *Generator) appendKeyDescriptors(spDescriptor *metadata.SPSSODescriptor) error {
	signingAlias := g.signingKeyAlias()
	encryptionAlias := g.encryptionKeyAlias()
	tlsAlias := g.tlsKeyAlias()

	if signingAlias != "" {
		keyInfo, err := g.serverKeyInfo(signingAlias)
		if err != nil {
			return err
		}
		spDescriptor.KeyDescriptor = append(spDescriptor.KeyDescriptor, metadata.KeyDescriptor{
			Use:     metadata.KeyTypeSigning,
			KeyInfo: *keyInfo,
		})
	} else {
		g.logger.Info("generating metadata without signing key descriptor; no alias configured and key store has no default credential")
	}

	if encryptionAlias != "" {
		keyInfo, err := g.serverKeyInfo(encryptionAlias)
		if err != nil {
			return err
		}
		spDescriptor.KeyDescriptor = append(spDescriptor.KeyDescriptor, metadata.KeyDescriptor{
			Use:     metadata.KeyTypeEncryption,
			KeyInfo: *keyInfo,
		})
	} else {
		g.logger.Info("generating metadata without encryption key descriptor; no alias configured and key store has no default credential")
	}

	// The TLS key is included with unspecified usage when it differs from
	// both the signing and the encryption key. Deduplication is by alias,
	// not by key content.
	if tlsAlias != "" && tlsAlias != signingAlias && tlsAlias != encryptionAlias {
		keyInfo, err := g.serverKeyInfo(tlsAlias)
		if err != nil {
			return err
		}
		spDescriptor.KeyDescriptor = append(spDescriptor.KeyDescriptor, metadata.KeyDescriptor{
			Use:     metadata.KeyTypeUnspecified,
			KeyInfo: *keyInfo,
		})
	}

	return nil
}

// serverKeyInfo resolves an alias the generated metadata is about to
// advertise. A store that does not know the alias, or knows it without a
// usable private key, is a fatal configuration error: metadata without an
// advertised key must be intentional, never a silently broken reference.
func (g *Generator) serverKeyInfo(alias string) (*metadata.KeyInfo, error) {
	const op = "spmeta.Generator.serverKeyInfo"

	cred, ok := g.keyStore.Credential(alias)
	if !ok {
		return nil, fmt.Errorf("%s: key for alias %q: %w", op, alias, ErrKeyNotFound)
	}
	if !cred.HasPrivateKey() {
		return nil, fmt.Errorf("%s: key with alias %q: %w", op, alias, ErrNoPrivateKey)
	}

	generate, err := g.keyInfoGenerator()
	if err != nil {
		return nil, err
	}

	keyInfo, err := generate(cred)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to generate key info for alias %q: %w", op, alias, err)
	}

	return keyInfo, nil
}

func (g *Generator) keyInfoGenerator() (KeyInfoGenerator, error) {
	const op = "spmeta.Generator.keyInfoGenerator"

	name := ""
	if t := g.cfg.ExtendedMetadata; t != nil {
		name = t.KeyInfoGeneratorName
	}

	generate, ok := g.keyInfoGenerators[name]
	if !ok {
		return nil, fmt.Errorf("%s: no key info generator registered under %q: %w", op, name, ErrInvalidParameter)
	}

	return generate, nil
}

// discoveryEnabled reports whether identity provider discovery applies to
// this deployment, either through the config flag or through the extended
// metadata template. One predicate drives both the extensions block and the
// extended metadata URLs.
func (g *Generator) discoveryEnabled() bool {
	if g.cfg.IncludeDiscoveryExtension {
		return true
	}
	return g.cfg.ExtendedMetadata != nil && g.cfg.ExtendedMetadata.IDPDiscoveryEnabled
}

// discoveryURL returns the template's discovery URL when set, or the
// generated default discovery endpoint.
func (g *Generator) discoveryURL(alias string) (string, error) {
	if t := g.cfg.ExtendedMetadata; t != nil && t.IDPDiscoveryURL != "" {
		return t.IDPDiscoveryURL, nil
	}
	return BuildEndpointURL(g.cfg.EntityBaseURL, alias, g.cfg.Routes.discoveryPath(), nil)
}

// discoveryResponseURL returns the template's discovery response URL when
// set, or the generated entry point URL with the discovery response
// parameter.
func (g *Generator) discoveryResponseURL(alias string) (string, error) {
	if t := g.cfg.ExtendedMetadata; t != nil && t.IDPDiscoveryResponseURL != "" {
		return t.IDPDiscoveryResponseURL, nil
	}
	return BuildEndpointURL(
		g.cfg.EntityBaseURL,
		alias,
		g.cfg.Routes.entryPointPath(),
		url.Values{DiscoveryResponseParameter: []string{"true"}},
	)
}

// entityAlias returns the alias from the extended metadata template when
// set, or the config's entity alias.
func (g *Generator) entityAlias() string {
	if t := g.cfg.ExtendedMetadata; t != nil && t.Alias != "" {
		return t.Alias
	}
	return g.cfg.EntityAlias
}

// signingKeyAlias resolves template, then config, then the key store's
// default credential. An empty result means no signing key is advertised.
func (g *Generator) signingKeyAlias() string {
	if t := g.cfg.ExtendedMetadata; t != nil && t.SigningKeyAlias != "" {
		return t.SigningKeyAlias
	}
	if g.cfg.SigningKeyAlias != "" {
		return g.cfg.SigningKeyAlias
	}
	return g.keyStore.DefaultCredentialAlias()
}

// encryptionKeyAlias resolves template, then config, then the key store's
// default credential. An empty result means no encryption key is advertised.
func (g *Generator) encryptionKeyAlias() string {
	if t := g.cfg.ExtendedMetadata; t != nil && t.EncryptionKeyAlias != "" {
		return t.EncryptionKeyAlias
	}
	if g.cfg.EncryptionKeyAlias != "" {
		return g.cfg.EncryptionKeyAlias
	}
	return g.keyStore.DefaultCredentialAlias()
}

// tlsKeyAlias resolves template, then config. Unlike the signing and
// encryption aliases, the TLS alias never falls back to the store default:
// a client TLS key descriptor is opt-in.
func (g *Generator) tlsKeyAlias() string {
	if t := g.cfg.ExtendedMetadata; t != nil && t.TLSKeyAlias != "" {
		return t.TLSKeyAlias
	}
	return g.cfg.TLSKeyAlias
}
