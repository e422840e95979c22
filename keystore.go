package spmeta

import (
	"crypto"
	"crypto/x509"
	"encoding/base64"
	"fmt"

	dsig "github.com/russellhaering/goxmldsig/types"

	"github.com/samlkit/spmeta/models/metadata"
)

// Credential is the key material a KeyStore holds under an alias.
type Credential struct {
	// Alias names the credential within its key store.
	Alias string

	// Certificate is the X.509 certificate advertised for the key.
	Certificate *x509.Certificate

	// PrivateKey is the private half of the key pair. It is nil when the
	// store only holds public material, which makes the credential unusable
	// for metadata generation.
	PrivateKey crypto.Signer
}

// HasPrivateKey reports whether the credential can actually be used by the
// deployment, not merely advertised.
func (c *Credential) HasPrivateKey() bool {
	return c != nil && !isNil(c.PrivateKey)
}

// KeyStore provides lookup of credentials by alias. Implementations must be
// safe for concurrent readers.
type KeyStore interface {
	// Credential returns the credential stored under alias. The second
	// return value is false when the alias is unknown to the store.
	Credential(alias string) (*Credential, bool)

	// DefaultCredentialAlias names the credential used when no alias is
	// configured. It returns the empty string when the store has no default.
	DefaultCredentialAlias() string
}

// X509KeyStore is an immutable in-memory KeyStore backed by X.509
// credentials.
type X509KeyStore struct {
	credentials  map[string]*Credential
	defaultAlias string
}

// NewX509KeyStore creates a key store holding the given credentials.
// defaultAlias may be empty when the store should have no default
// credential; otherwise it must name one of the supplied credentials.
func NewX509KeyStore(defaultAlias string, credentials ...*Credential) (*X509KeyStore, error) {
	const op = "spmeta.NewX509KeyStore"

	ks := &X509KeyStore{
		credentials:  make(map[string]*Credential, len(credentials)),
		defaultAlias: defaultAlias,
	}

	for _, cred := range credentials {
		if cred == nil || cred.Alias == "" {
			return nil, fmt.Errorf("%s: credential without alias: %w", op, ErrInvalidParameter)
		}
		ks.credentials[cred.Alias] = cred
	}

	if defaultAlias != "" {
		if _, ok := ks.credentials[defaultAlias]; !ok {
			return nil, fmt.Errorf(
				"%s: default alias %q does not name a stored credential: %w",
				op, defaultAlias, ErrInvalidParameter,
			)
		}
	}

	return ks, nil
}

// Credential returns the credential stored under alias.
func (ks *X509KeyStore) Credential(alias string) (*Credential, bool) {
	cred, ok := ks.credentials[alias]
	return cred, ok
}

// DefaultCredentialAlias returns the alias of the store's default
// credential, or the empty string when none is set.
func (ks *X509KeyStore) DefaultCredentialAlias() string {
	return ks.defaultAlias
}

// KeyInfoGenerator derives the serializable key info block advertised for a
// credential in a KeyDescriptor.
type KeyInfoGenerator func(cred *Credential) (*metadata.KeyInfo, error)

// X509KeyInfoGenerator is the default KeyInfoGenerator. It emits the
// credential certificate as ds:X509Data with the alias as the key name.
func X509KeyInfoGenerator(cred *Credential) (*metadata.KeyInfo, error) {
	const op = "spmeta.X509KeyInfoGenerator"

	if cred == nil || cred.Certificate == nil {
		return nil, fmt.Errorf("%s: credential has no certificate: %w", op, ErrInvalidParameter)
	}

	encoded := base64.StdEncoding.EncodeToString(cred.Certificate.Raw)

	return &metadata.KeyInfo{
		KeyInfo: dsig.KeyInfo{
			X509Data: dsig.X509Data{
				X509Certificates: []dsig.X509Certificate{
					{Data: encoded},
				},
			},
		},
		KeyName: cred.Alias,
	}, nil
}
