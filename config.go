package spmeta

import (
	"fmt"
	"net/url"

	"github.com/hashicorp/go-multierror"
	"github.com/hashicorp/go-uuid"

	"github.com/samlkit/spmeta/models/core"
)

// DefaultNameIDFormats is the set of NameID formats included in generated
// metadata when the config does not name any, in the canonical output order.
var DefaultNameIDFormats = []string{
	string(core.NameIDFormatEmail),
	string(core.NameIDFormatTransient),
	string(core.NameIDFormatPersistent),
	string(core.NameIDFormatUnspecified),
	string(core.NameIDFormatX509SubjectName),
}

// DefaultSSOBindings is the set of web SSO bindings included in generated
// metadata when the config does not name any.
var DefaultSSOBindings = []string{"artifact", "post"}

// DefaultSLOBindings is the set of single logout bindings included in
// generated metadata when the config does not name any.
var DefaultSLOBindings = []string{"post", "redirect"}

// Config describes the deployment whose metadata is generated. Construct it
// with NewConfig to pick up the documented defaults; a Config built as a
// literal starts with everything disabled.
//
// The generator never mutates the config. Binding and NameID fields accept
// both short tokens ("post") and canonical URIs; unrecognized values are
// dropped with a warning during generation.
type Config struct {
	// EntityID is the globally unique identifier of the service provider.
	// (required)
	EntityID string

	// EntityBaseURL is the scheme://host[:port] prefix of every generated
	// endpoint URL. (required)
	EntityBaseURL string

	// DocumentID is the XML ID of the generated document. When empty it is
	// derived deterministically from EntityID via SanitizeNCName.
	DocumentID string

	// EntityAlias is an optional path discriminator letting one base URL
	// host several distinct entities. An alias set on the ExtendedMetadata
	// template takes precedence.
	EntityAlias string

	// RequestSigned declares that this provider signs its authentication
	// requests.
	RequestSigned bool

	// WantAssertionSigned declares that this provider requires signed
	// assertions.
	WantAssertionSigned bool

	// NameIDFormats lists the NameID formats to advertise. nil means
	// DefaultNameIDFormats; an empty non-nil slice advertises none.
	NameIDFormats []string

	// SSOBindings lists the web SSO bindings to advertise, in the order
	// endpoint indexes are assigned. nil means DefaultSSOBindings.
	// Supported values resolve to HTTP-Artifact, HTTP-POST and PAOS.
	SSOBindings []string

	// HoKSSOBindings lists the holder-of-key SSO bindings to advertise.
	// Supported values resolve to HTTP-Artifact and HTTP-POST. Empty by
	// default.
	HoKSSOBindings []string

	// SLOBindings lists the single logout bindings to advertise. nil means
	// DefaultSLOBindings. Supported values resolve to HTTP-POST,
	// HTTP-Redirect and SOAP.
	SLOBindings []string

	// AssertionConsumerIndex selects which generated assertion consumer
	// endpoint is marked as default, counted in construction order across
	// the ordinary and holder-of-key endpoints combined. A negative value
	// marks none.
	AssertionConsumerIndex int

	// IncludeDiscoveryExtension adds the identity provider discovery
	// response extension to the generated role descriptor.
	IncludeDiscoveryExtension bool

	// SigningKeyAlias, EncryptionKeyAlias and TLSKeyAlias name the key store
	// credentials to advertise. Aliases on the ExtendedMetadata template
	// take precedence; signing and encryption fall back to the key store's
	// default credential when both are empty.
	SigningKeyAlias    string
	EncryptionKeyAlias string
	TLSKeyAlias        string

	// Routes carries the paths the runtime processing endpoints listen on.
	// The zero value describes a standard deployment.
	Routes RouteConfig

	// ExtendedMetadata is the optional template the generated extended
	// metadata record derives from.
	ExtendedMetadata *ExtendedMetadata
}

// NewConfig creates a generator config with the documented defaults applied.
func NewConfig(entityID, entityBaseURL string) (*Config, error) {
	const op = "spmeta.NewConfig"

	cfg := &Config{
		EntityID:            entityID,
		EntityBaseURL:       entityBaseURL,
		RequestSigned:       true,
		WantAssertionSigned: true,
		NameIDFormats:       append([]string(nil), DefaultNameIDFormats...),
		SSOBindings:         append([]string(nil), DefaultSSOBindings...),
		SLOBindings:         append([]string(nil), DefaultSLOBindings...),
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: invalid generator config: %w", op, err)
	}

	return cfg, nil
}

// Validate checks the required top-level attributes. It never repairs the
// config; callers must fix reported problems before generating.
func (c *Config) Validate() error {
	const op = "spmeta.Config.Validate"

	var retErr *multierror.Error

	if c.EntityID == "" {
		retErr = multierror.Append(
			retErr,
			fmt.Errorf("%s: entity ID not set: %w", op, ErrInvalidParameter),
		)
	}

	switch {
	case c.EntityBaseURL == "":
		retErr = multierror.Append(
			retErr,
			fmt.Errorf("%s: entity base URL not set: %w", op, ErrInvalidParameter),
		)
	default:
		if u, err := url.Parse(c.EntityBaseURL); err != nil || u.Scheme == "" || u.Host == "" {
			retErr = multierror.Append(
				retErr,
				fmt.Errorf(
					"%s: entity base URL %q is not an absolute URL: %w",
					op, c.EntityBaseURL, ErrInvalidParameter,
				),
			)
		}
	}

	return retErr.ErrorOrNil()
}

func (c *Config) nameIDFormatsOrDefault() []string {
	if c.NameIDFormats == nil {
		return DefaultNameIDFormats
	}
	return c.NameIDFormats
}

func (c *Config) ssoBindingsOrDefault() []string {
	if c.SSOBindings == nil {
		return DefaultSSOBindings
	}
	return c.SSOBindings
}

func (c *Config) sloBindingsOrDefault() []string {
	if c.SLOBindings == nil {
		return DefaultSLOBindings
	}
	return c.SLOBindings
}

// GenerateDocumentID produces a random xsd:ID conform document identifier, a
// UUID prefixed with an underscore. Deployments that sign each generated
// document typically set it as Config.DocumentID instead of relying on the
// entity-ID-derived default.
func GenerateDocumentID() (string, error) {
	newID, err := uuid.GenerateUUID()
	if err != nil {
		return "", err
	}

	// Document IDs have to be xsd:ID, which means they need to start with an
	// underscore or letter, which is not always given for UUIDs.
	return fmt.Sprintf("_%s", newID), nil
}
