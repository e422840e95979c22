// Package testkeystore provides self-signed credentials and in-memory key
// stores for tests and demos.
package testkeystore

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"crypto/x509/pkix"
	"math/big"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/samlkit/spmeta"
)

// NewCredential creates a credential with a fresh RSA key and a self-signed
// certificate under the given alias.
func NewCredential(t *testing.T, alias string) *spmeta.Credential {
	t.Helper()
	r := require.New(t)

	cred, err := GenerateCredential(alias)
	r.NoError(err)

	return cred
}

// NewCertOnlyCredential creates a credential whose store holds only the
// certificate, simulating a key store entry without a usable private key.
func NewCertOnlyCredential(t *testing.T, alias string) *spmeta.Credential {
	t.Helper()

	cred := NewCredential(t, alias)
	cred.PrivateKey = nil

	return cred
}

// NewKeyStore builds an in-memory key store from the given credentials.
// defaultAlias may be empty for a store without a default credential.
func NewKeyStore(t *testing.T, defaultAlias string, credentials ...*spmeta.Credential) *spmeta.X509KeyStore {
	t.Helper()
	r := require.New(t)

	ks, err := spmeta.NewX509KeyStore(defaultAlias, credentials...)
	r.NoError(err)

	return ks
}

// GenerateCredential creates a self-signed credential outside of a test
// context, for demos and examples.
func GenerateCredential(alias string) (*spmeta.Credential, error) {
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		return nil, err
	}

	template := &x509.Certificate{
		SerialNumber: big.NewInt(1),
		Subject:      pkix.Name{CommonName: alias},
		NotBefore:    time.Now().Add(-time.Hour),
		NotAfter:     time.Now().Add(365 * 24 * time.Hour),
		KeyUsage:     x509.KeyUsageDigitalSignature | x509.KeyUsageKeyEncipherment,
	}

	der, err := x509.CreateCertificate(rand.Reader, template, template, &key.PublicKey, key)
	if err != nil {
		return nil, err
	}

	cert, err := x509.ParseCertificate(der)
	if err != nil {
		return nil, err
	}

	return &spmeta.Credential{
		Alias:       alias,
		Certificate: cert,
		PrivateKey:  key,
	}, nil
}
