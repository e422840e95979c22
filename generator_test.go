package spmeta_test

import (
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/require"

	"github.com/samlkit/spmeta"
	"github.com/samlkit/spmeta/models/core"
	"github.com/samlkit/spmeta/models/metadata"
	testkeystore "github.com/samlkit/spmeta/test"
)

const (
	testEntityID = "https://sp.example.org/sp"
	testBaseURL  = "https://sp.example.org"
)

func testConfig(t *testing.T) *spmeta.Config {
	t.Helper()
	r := require.New(t)

	cfg, err := spmeta.NewConfig(testEntityID, testBaseURL)
	r.NoError(err)

	return cfg
}

func testGenerator(t *testing.T, cfg *spmeta.Config, opt ...spmeta.Option) *spmeta.Generator {
	t.Helper()
	r := require.New(t)

	ks := testkeystore.NewKeyStore(t, "default", testkeystore.NewCredential(t, "default"))

	g, err := spmeta.NewGenerator(cfg, ks, opt...)
	r.NoError(err)

	return g
}

func Test_NewGenerator(t *testing.T) {
	t.Run("nil config", func(t *testing.T) {
		r := require.New(t)

		ks := testkeystore.NewKeyStore(t, "", testkeystore.NewCredential(t, "a"))

		_, err := spmeta.NewGenerator(nil, ks)
		r.Error(err)
		r.ErrorIs(err, spmeta.ErrInvalidParameter)
	})

	t.Run("invalid config", func(t *testing.T) {
		r := require.New(t)

		ks := testkeystore.NewKeyStore(t, "", testkeystore.NewCredential(t, "a"))

		_, err := spmeta.NewGenerator(&spmeta.Config{}, ks)
		r.Error(err)
		r.ErrorIs(err, spmeta.ErrInvalidParameter)
	})

	t.Run("nil key store", func(t *testing.T) {
		r := require.New(t)

		_, err := spmeta.NewGenerator(testConfig(t), nil)
		r.Error(err)
		r.ErrorIs(err, spmeta.ErrInvalidParameter)
	})
}

func Test_Generator_GenerateMetadata(t *testing.T) {
	r := require.New(t)

	g := testGenerator(t, testConfig(t))

	ed, err := g.GenerateMetadata()
	r.NoError(err)

	r.Equal(testEntityID, ed.EntityID)
	r.Equal("https___sp.example.org_sp", ed.ID)
	r.Nil(ed.ValidUntil)
	r.Nil(ed.CacheDuration)

	r.Len(ed.SPSSODescriptor, 1)
	spSSO := ed.SPSSODescriptor[0]

	r.True(spSSO.AuthnRequestsSigned)
	r.True(spSSO.WantAssertionsSigned)
	r.Equal(metadata.ProtocolSupportEnumerationProtocol, spSSO.ProtocolSupportEnumeration)

	// Default bindings: artifact then POST, indexed in order, the first one
	// marked default.
	acs := spSSO.AssertionConsumerService
	r.Len(acs, 2)

	r.Equal(core.ServiceBindingHTTPArtifact, acs[0].Binding)
	r.Equal("https://sp.example.org/saml/SSO", acs[0].Location)
	r.Equal(0, acs[0].Index)
	r.True(acs[0].IsDefault)

	r.Equal(core.ServiceBindingHTTPPost, acs[1].Binding)
	r.Equal("https://sp.example.org/saml/SSO", acs[1].Location)
	r.Equal(1, acs[1].Index)
	r.False(acs[1].IsDefault)

	slo := spSSO.SingleLogoutService
	r.Len(slo, 2)
	r.Equal(core.ServiceBindingHTTPPost, slo[0].Binding)
	r.Equal("https://sp.example.org/saml/SingleLogout", slo[0].Location)
	r.Equal(core.ServiceBindingHTTPRedirect, slo[1].Binding)

	r.Equal([]core.NameIDFormat{
		core.NameIDFormatEmail,
		core.NameIDFormatTransient,
		core.NameIDFormatPersistent,
		core.NameIDFormatUnspecified,
		core.NameIDFormatX509SubjectName,
	}, spSSO.NameIDFormat)

	// The store's default credential backs both the signing and the
	// encryption descriptor.
	r.Len(spSSO.KeyDescriptor, 2)
	r.Equal(metadata.KeyTypeSigning, spSSO.KeyDescriptor[0].Use)
	r.Equal("default", spSSO.KeyDescriptor[0].KeyInfo.KeyName)
	r.Equal(metadata.KeyTypeEncryption, spSSO.KeyDescriptor[1].Use)
	r.Equal("default", spSSO.KeyDescriptor[1].KeyInfo.KeyName)

	r.Nil(spSSO.Extensions)
}

func Test_Generator_GenerateMetadata_Deterministic(t *testing.T) {
	r := require.New(t)

	cfg := testConfig(t)
	cfg.IncludeDiscoveryExtension = true

	g := testGenerator(t, cfg)

	first, err := g.GenerateMetadata()
	r.NoError(err)
	second, err := g.GenerateMetadata()
	r.NoError(err)

	r.Equal(first, second)
	r.NotSame(first, second)
}

func Test_Generator_GenerateMetadata_HoKEndpoints(t *testing.T) {
	r := require.New(t)

	cfg := testConfig(t)
	cfg.SSOBindings = []string{"post"}
	cfg.HoKSSOBindings = []string{"artifact", "post"}
	cfg.AssertionConsumerIndex = 2

	g := testGenerator(t, cfg)

	ed, err := g.GenerateMetadata()
	r.NoError(err)

	acs := ed.SPSSODescriptor[0].AssertionConsumerService
	r.Len(acs, 3)

	// The index counter continues from the ordinary endpoints into the
	// holder-of-key endpoints.
	r.Equal(core.ServiceBindingHTTPPost, acs[0].Binding)
	r.Equal(0, acs[0].Index)
	r.False(acs[0].IsDefault)
	r.Empty(acs[0].HoKProtocolBinding)

	r.Equal(core.ServiceBinding(core.HoKProfileURI), acs[1].Binding)
	r.Equal("https://sp.example.org/saml/HoKSSO", acs[1].Location)
	r.Equal(1, acs[1].Index)
	r.False(acs[1].IsDefault)
	r.Equal(core.ServiceBindingHTTPArtifact, acs[1].HoKProtocolBinding)
	r.Equal(core.HoKProfileURI, acs[1].HoKNamespace)

	r.Equal(core.ServiceBinding(core.HoKProfileURI), acs[2].Binding)
	r.Equal(2, acs[2].Index)
	r.True(acs[2].IsDefault)
	r.Equal(core.ServiceBindingHTTPPost, acs[2].HoKProtocolBinding)
}

func Test_Generator_GenerateMetadata_NoDefaultEndpoint(t *testing.T) {
	r := require.New(t)

	cfg := testConfig(t)
	cfg.AssertionConsumerIndex = -1

	g := testGenerator(t, cfg)

	ed, err := g.GenerateMetadata()
	r.NoError(err)

	for _, acs := range ed.SPSSODescriptor[0].AssertionConsumerService {
		r.False(acs.IsDefault)
	}
}

func Test_Generator_GenerateMetadata_BindingResolution(t *testing.T) {
	r := require.New(t)

	cfg := testConfig(t)
	// Unknown tokens are dropped, duplicates collapse, and HTTP-Redirect is
	// never a valid assertion consumer binding.
	cfg.SSOBindings = []string{"POST", "post", "carrier-pigeon", "redirect", "paos"}
	cfg.SLOBindings = []string{"soap", "SOAP"}

	g := testGenerator(t, cfg)

	ed, err := g.GenerateMetadata()
	r.NoError(err)

	acs := ed.SPSSODescriptor[0].AssertionConsumerService
	r.Len(acs, 2)
	r.Equal(core.ServiceBindingHTTPPost, acs[0].Binding)
	r.Equal(core.ServiceBindingPAOS, acs[1].Binding)

	slo := ed.SPSSODescriptor[0].SingleLogoutService
	r.Len(slo, 1)
	r.Equal(core.ServiceBindingSOAP, slo[0].Binding)
}

func Test_Generator_GenerateMetadata_NameIDFormats(t *testing.T) {
	t.Run("canonical order regardless of config order", func(t *testing.T) {
		r := require.New(t)

		cfg := testConfig(t)
		cfg.NameIDFormats = []string{"x509_subject", "email", "unknown-format"}

		g := testGenerator(t, cfg)

		ed, err := g.GenerateMetadata()
		r.NoError(err)

		r.Equal([]core.NameIDFormat{
			core.NameIDFormatEmail,
			core.NameIDFormatX509SubjectName,
		}, ed.SPSSODescriptor[0].NameIDFormat)
	})

	t.Run("empty non-nil list advertises none", func(t *testing.T) {
		r := require.New(t)

		cfg := testConfig(t)
		cfg.NameIDFormats = []string{}

		g := testGenerator(t, cfg)

		ed, err := g.GenerateMetadata()
		r.NoError(err)

		r.Empty(ed.SPSSODescriptor[0].NameIDFormat)
	})
}

func Test_Generator_GenerateMetadata_EntityAlias(t *testing.T) {
	r := require.New(t)

	cfg := testConfig(t)
	cfg.EntityAlias = "tenant1"

	g := testGenerator(t, cfg)

	ed, err := g.GenerateMetadata()
	r.NoError(err)

	spSSO := ed.SPSSODescriptor[0]
	r.Equal("https://sp.example.org/saml/SSO/alias/tenant1", spSSO.AssertionConsumerService[0].Location)
	r.Equal("https://sp.example.org/saml/SingleLogout/alias/tenant1", spSSO.SingleLogoutService[0].Location)
}

func Test_Generator_GenerateMetadata_DocumentID(t *testing.T) {
	r := require.New(t)

	cfg := testConfig(t)
	cfg.DocumentID = "_custom-id"

	g := testGenerator(t, cfg)

	ed, err := g.GenerateMetadata()
	r.NoError(err)

	r.Equal("_custom-id", ed.ID)
}

func Test_Generator_GenerateMetadata_ValidUntil(t *testing.T) {
	r := require.New(t)

	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	clock := clockwork.NewFakeClockAt(now)

	g := testGenerator(
		t, testConfig(t),
		spmeta.WithClock(clock),
		spmeta.WithValidity(48*time.Hour),
		spmeta.WithCacheDuration(2*time.Hour),
	)

	ed, err := g.GenerateMetadata()
	r.NoError(err)

	r.NotNil(ed.ValidUntil)
	r.Equal(now.Add(48*time.Hour), *ed.ValidUntil)

	r.NotNil(ed.CacheDuration)
	r.Equal(metadata.Duration(2*time.Hour), *ed.CacheDuration)
}

func Test_Generator_GenerateMetadata_Discovery(t *testing.T) {
	t.Run("enabled via config flag", func(t *testing.T) {
		r := require.New(t)

		cfg := testConfig(t)
		cfg.IncludeDiscoveryExtension = true

		g := testGenerator(t, cfg)

		ed, err := g.GenerateMetadata()
		r.NoError(err)

		ext := ed.SPSSODescriptor[0].Extensions
		r.NotNil(ext)
		r.Len(ext.DiscoveryResponse, 1)

		dr := ext.DiscoveryResponse[0]
		r.Equal(0, dr.Index)
		r.Equal(string(core.IDPDiscoveryProtocolURI), dr.Binding)
		r.Equal("https://sp.example.org/saml/login?disco=true", dr.Location)
	})

	t.Run("enabled via extended metadata template", func(t *testing.T) {
		r := require.New(t)

		cfg := testConfig(t)
		cfg.ExtendedMetadata = &spmeta.ExtendedMetadata{IDPDiscoveryEnabled: true}

		g := testGenerator(t, cfg)

		ed, err := g.GenerateMetadata()
		r.NoError(err)

		r.NotNil(ed.SPSSODescriptor[0].Extensions)
	})

	t.Run("template URL overrides the computed one", func(t *testing.T) {
		r := require.New(t)

		cfg := testConfig(t)
		cfg.IncludeDiscoveryExtension = true
		cfg.ExtendedMetadata = &spmeta.ExtendedMetadata{
			IDPDiscoveryResponseURL: "https://disco.example.org/response",
		}

		g := testGenerator(t, cfg)

		ed, err := g.GenerateMetadata()
		r.NoError(err)

		ext := ed.SPSSODescriptor[0].Extensions
		r.NotNil(ext)
		r.Equal("https://disco.example.org/response", ext.DiscoveryResponse[0].Location)
	})

	t.Run("disabled", func(t *testing.T) {
		r := require.New(t)

		g := testGenerator(t, testConfig(t))

		ed, err := g.GenerateMetadata()
		r.NoError(err)

		r.Nil(ed.SPSSODescriptor[0].Extensions)
	})
}

func Test_Generator_GenerateMetadata_KeyDescriptors(t *testing.T) {
	signing := func(t *testing.T) *spmeta.Credential { return testkeystore.NewCredential(t, "signing") }
	encryption := func(t *testing.T) *spmeta.Credential { return testkeystore.NewCredential(t, "encryption") }
	tls := func(t *testing.T) *spmeta.Credential { return testkeystore.NewCredential(t, "tls") }

	t.Run("distinct TLS key gets unspecified use", func(t *testing.T) {
		r := require.New(t)

		cfg := testConfig(t)
		cfg.SigningKeyAlias = "signing"
		cfg.EncryptionKeyAlias = "encryption"
		cfg.TLSKeyAlias = "tls"

		ks := testkeystore.NewKeyStore(t, "", signing(t), encryption(t), tls(t))

		g, err := spmeta.NewGenerator(cfg, ks)
		r.NoError(err)

		ed, err := g.GenerateMetadata()
		r.NoError(err)

		kd := ed.SPSSODescriptor[0].KeyDescriptor
		r.Len(kd, 3)
		r.Equal(metadata.KeyTypeSigning, kd[0].Use)
		r.Equal("signing", kd[0].KeyInfo.KeyName)
		r.Equal(metadata.KeyTypeEncryption, kd[1].Use)
		r.Equal("encryption", kd[1].KeyInfo.KeyName)
		r.Equal(metadata.KeyTypeUnspecified, kd[2].Use)
		r.Equal("tls", kd[2].KeyInfo.KeyName)
	})

	t.Run("TLS key matching the signing alias is not repeated", func(t *testing.T) {
		r := require.New(t)

		cfg := testConfig(t)
		cfg.SigningKeyAlias = "signing"
		cfg.EncryptionKeyAlias = "encryption"
		cfg.TLSKeyAlias = "signing"

		ks := testkeystore.NewKeyStore(t, "", signing(t), encryption(t))

		g, err := spmeta.NewGenerator(cfg, ks)
		r.NoError(err)

		ed, err := g.GenerateMetadata()
		r.NoError(err)

		r.Len(ed.SPSSODescriptor[0].KeyDescriptor, 2)
	})

	t.Run("no aliases and no store default omits all descriptors", func(t *testing.T) {
		r := require.New(t)

		ks := testkeystore.NewKeyStore(t, "", signing(t))

		g, err := spmeta.NewGenerator(testConfig(t), ks)
		r.NoError(err)

		ed, err := g.GenerateMetadata()
		r.NoError(err)

		r.Empty(ed.SPSSODescriptor[0].KeyDescriptor)
	})

	t.Run("template aliases take precedence", func(t *testing.T) {
		r := require.New(t)

		cfg := testConfig(t)
		cfg.SigningKeyAlias = "signing"
		cfg.EncryptionKeyAlias = "signing"
		cfg.ExtendedMetadata = &spmeta.ExtendedMetadata{
			SigningKeyAlias:    "encryption",
			EncryptionKeyAlias: "encryption",
		}

		ks := testkeystore.NewKeyStore(t, "", signing(t), encryption(t))

		g, err := spmeta.NewGenerator(cfg, ks)
		r.NoError(err)

		ed, err := g.GenerateMetadata()
		r.NoError(err)

		kd := ed.SPSSODescriptor[0].KeyDescriptor
		r.Len(kd, 2)
		r.Equal("encryption", kd[0].KeyInfo.KeyName)
		r.Equal("encryption", kd[1].KeyInfo.KeyName)
	})

	t.Run("unknown alias is fatal", func(t *testing.T) {
		r := require.New(t)

		cfg := testConfig(t)
		cfg.SigningKeyAlias = "missing"

		ks := testkeystore.NewKeyStore(t, "", signing(t))

		g, err := spmeta.NewGenerator(cfg, ks)
		r.NoError(err)

		_, err = g.GenerateMetadata()
		r.Error(err)
		r.ErrorIs(err, spmeta.ErrKeyNotFound)
	})

	t.Run("credential without private key is fatal", func(t *testing.T) {
		r := require.New(t)

		certOnly := testkeystore.NewCertOnlyCredential(t, "cert-only")
		ks := testkeystore.NewKeyStore(t, "cert-only", certOnly)

		g, err := spmeta.NewGenerator(testConfig(t), ks)
		r.NoError(err)

		_, err = g.GenerateMetadata()
		r.Error(err)
		r.ErrorIs(err, spmeta.ErrNoPrivateKey)
	})
}

func Test_Generator_KeyInfoGenerators(t *testing.T) {
	t.Run("named generator selected via template", func(t *testing.T) {
		r := require.New(t)

		cfg := testConfig(t)
		cfg.ExtendedMetadata = &spmeta.ExtendedMetadata{KeyInfoGeneratorName: "key-name-only"}

		keyNameOnly := func(cred *spmeta.Credential) (*metadata.KeyInfo, error) {
			return &metadata.KeyInfo{KeyName: cred.Alias}, nil
		}

		g := testGenerator(t, cfg, spmeta.WithKeyInfoGenerator("key-name-only", keyNameOnly))

		ed, err := g.GenerateMetadata()
		r.NoError(err)

		kd := ed.SPSSODescriptor[0].KeyDescriptor
		r.Len(kd, 2)
		r.Equal("default", kd[0].KeyInfo.KeyName)
		r.Empty(kd[0].KeyInfo.X509Data.X509Certificates)
	})

	t.Run("generator failure aborts and names the credential", func(t *testing.T) {
		r := require.New(t)

		cfg := testConfig(t)
		cfg.ExtendedMetadata = &spmeta.ExtendedMetadata{KeyInfoGeneratorName: "failing"}

		failing := func(cred *spmeta.Credential) (*metadata.KeyInfo, error) {
			return nil, spmeta.ErrInternal
		}

		g := testGenerator(t, cfg, spmeta.WithKeyInfoGenerator("failing", failing))

		_, err := g.GenerateMetadata()
		r.Error(err)
		r.ErrorIs(err, spmeta.ErrInternal)
		r.Contains(err.Error(), `"default"`)
	})

	t.Run("unregistered generator name is fatal", func(t *testing.T) {
		r := require.New(t)

		cfg := testConfig(t)
		cfg.ExtendedMetadata = &spmeta.ExtendedMetadata{KeyInfoGeneratorName: "no-such-generator"}

		g := testGenerator(t, cfg)

		_, err := g.GenerateMetadata()
		r.Error(err)
		r.ErrorIs(err, spmeta.ErrInvalidParameter)
	})
}

func Test_Generator_GenerateMetadata_OrganizationAndContact(t *testing.T) {
	r := require.New(t)

	org := &metadata.Organization{
		OrganizationName: []metadata.Localized{{Lang: "en", Value: "Example Org"}},
	}
	contact := metadata.ContactPerson{
		ContactType: metadata.ContactTypeTechnical,
		GivenName:   "Jordan",
	}

	g := testGenerator(
		t, testConfig(t),
		spmeta.WithOrganization(org),
		spmeta.WithContactPerson(contact),
	)

	ed, err := g.GenerateMetadata()
	r.NoError(err)

	r.Equal(org, ed.Organization)
	r.Len(ed.ContactPerson, 1)
	r.Equal(contact, ed.ContactPerson[0])
}

func Test_Generator_GenerateMetadata_InvalidConfig(t *testing.T) {
	r := require.New(t)

	cfg := testConfig(t)
	g := testGenerator(t, cfg)

	// Generation re-validates, catching configs broken after construction.
	cfg.EntityID = ""

	_, err := g.GenerateMetadata()
	r.Error(err)
	r.ErrorIs(err, spmeta.ErrInvalidParameter)
}

func Test_Generator_GenerateExtendedMetadata(t *testing.T) {
	t.Run("discovery disabled leaves URLs empty", func(t *testing.T) {
		r := require.New(t)

		cfg := testConfig(t)
		cfg.ExtendedMetadata = &spmeta.ExtendedMetadata{
			Alias: "tenant1",
			// Stale URLs on the template must not leak through when
			// discovery is off.
			IDPDiscoveryURL:         "https://stale.example.org/discovery",
			IDPDiscoveryResponseURL: "https://stale.example.org/response",
		}

		g := testGenerator(t, cfg)

		em, err := g.GenerateExtendedMetadata()
		r.NoError(err)

		r.True(em.Local)
		r.Equal("tenant1", em.Alias)
		r.Empty(em.IDPDiscoveryURL)
		r.Empty(em.IDPDiscoveryResponseURL)
	})

	t.Run("discovery enabled computes default URLs", func(t *testing.T) {
		r := require.New(t)

		cfg := testConfig(t)
		cfg.IncludeDiscoveryExtension = true

		g := testGenerator(t, cfg)

		em, err := g.GenerateExtendedMetadata()
		r.NoError(err)

		r.True(em.Local)
		r.Equal("https://sp.example.org/saml/discovery", em.IDPDiscoveryURL)
		r.Equal("https://sp.example.org/saml/login?disco=true", em.IDPDiscoveryResponseURL)
	})

	t.Run("template URLs pass through when discovery enabled", func(t *testing.T) {
		r := require.New(t)

		cfg := testConfig(t)
		cfg.ExtendedMetadata = &spmeta.ExtendedMetadata{
			IDPDiscoveryEnabled:     true,
			IDPDiscoveryURL:         "https://disco.example.org/discovery",
			IDPDiscoveryResponseURL: "https://disco.example.org/response",
		}

		g := testGenerator(t, cfg)

		em, err := g.GenerateExtendedMetadata()
		r.NoError(err)

		r.Equal("https://disco.example.org/discovery", em.IDPDiscoveryURL)
		r.Equal("https://disco.example.org/response", em.IDPDiscoveryResponseURL)
	})

	t.Run("template fields pass through, Local is forced", func(t *testing.T) {
		r := require.New(t)

		cfg := testConfig(t)
		cfg.ExtendedMetadata = &spmeta.ExtendedMetadata{
			Local:                       false,
			Alias:                       "tenant1",
			SigningKeyAlias:             "signing",
			RequireLogoutRequestSigned:  true,
			RequireLogoutResponseSigned: true,
		}

		ks := testkeystore.NewKeyStore(t, "",
			testkeystore.NewCredential(t, "signing"),
		)

		g, err := spmeta.NewGenerator(cfg, ks)
		r.NoError(err)

		em, err := g.GenerateExtendedMetadata()
		r.NoError(err)

		r.True(em.Local)
		r.Equal("tenant1", em.Alias)
		r.Equal("signing", em.SigningKeyAlias)
		r.True(em.RequireLogoutRequestSigned)
		r.True(em.RequireLogoutResponseSigned)

		// The derived record is a copy; the template is never mutated.
		r.False(cfg.ExtendedMetadata.Local)
	})

	t.Run("nil template derives the zero record", func(t *testing.T) {
		r := require.New(t)

		g := testGenerator(t, testConfig(t))

		em, err := g.GenerateExtendedMetadata()
		r.NoError(err)

		r.True(em.Local)
		r.Empty(em.Alias)
		r.Empty(em.IDPDiscoveryURL)
	})

	t.Run("alias applied to computed discovery URLs", func(t *testing.T) {
		r := require.New(t)

		cfg := testConfig(t)
		cfg.IncludeDiscoveryExtension = true
		cfg.ExtendedMetadata = &spmeta.ExtendedMetadata{Alias: "tenant1"}

		g := testGenerator(t, cfg)

		em, err := g.GenerateExtendedMetadata()
		r.NoError(err)

		r.Equal("https://sp.example.org/saml/discovery/alias/tenant1", em.IDPDiscoveryURL)
		r.Equal("https://sp.example.org/saml/login/alias/tenant1?disco=true", em.IDPDiscoveryResponseURL)
	})
}
