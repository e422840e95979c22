package core

const (
	SAMLVersion2 = "2.0"
)

// ServiceBinding is a URI reference identifying a SAML protocol binding.
// See 3 http://docs.oasis-open.org/security/saml/v2.0/saml-bindings-2.0-os.pdf
type ServiceBinding string

const (
	ServiceBindingHTTPPost     ServiceBinding = "urn:oasis:names:tc:SAML:2.0:bindings:HTTP-POST"
	ServiceBindingHTTPRedirect ServiceBinding = "urn:oasis:names:tc:SAML:2.0:bindings:HTTP-Redirect"
	ServiceBindingHTTPArtifact ServiceBinding = "urn:oasis:names:tc:SAML:2.0:bindings:HTTP-Artifact"
	ServiceBindingSOAP         ServiceBinding = "urn:oasis:names:tc:SAML:2.0:bindings:SOAP"
	ServiceBindingPAOS         ServiceBinding = "urn:oasis:names:tc:SAML:2.0:bindings:PAOS"
)

// HoKProfileURI identifies the holder-of-key web browser SSO profile. It is
// used both as the Binding of holder-of-key assertion consumer endpoints and
// as the namespace of their hoksso:ProtocolBinding attribute.
// See http://docs.oasis-open.org/security/saml/SpecDrafts-Post2.0/sstc-saml-holder-of-key-browser-sso.pdf
const HoKProfileURI = "urn:oasis:names:tc:SAML:2.0:profiles:holder-of-key:SSO:browser"

// IDPDiscoveryProtocolURI identifies the identity provider discovery service
// protocol and profile.
const IDPDiscoveryProtocolURI = "urn:oasis:names:tc:SAML:profile:SSO:idp-discovery-protocol"

// See 8.3 http://docs.oasis-open.org/security/saml/v2.0/saml-core-2.0-os.pdf
type NameIDFormat string

const (
	// See 8.3.1 - 8.3.8 http://docs.oasis-open.org/security/saml/v2.0/saml-core-2.0-os.pdf
	NameIDFormatUnspecified                NameIDFormat = "urn:oasis:names:tc:SAML:1.1:nameid-format:unspecified"
	NameIDFormatEmail                      NameIDFormat = "urn:oasis:names:tc:SAML:1.1:nameid-format:emailAddress"
	NameIDFormatX509SubjectName            NameIDFormat = "urn:oasis:names:tc:SAML:1.1:nameid-format:X509SubjectName"
	NameIDFormatWindowsDomainQualifiedName NameIDFormat = "urn:oasis:names:tc:SAML:1.1:nameid-format:WindowsDomainQualifiedName"
	NameIDFormatKerberos                   NameIDFormat = "urn:oasis:names:tc:SAML:2.0:nameid-format:kerberos"
	NameIDFormatEntity                     NameIDFormat = "urn:oasis:names:tc:SAML:2.0:nameid-format:entity"
	NameIDFormatPersistent                 NameIDFormat = "urn:oasis:names:tc:SAML:2.0:nameid-format:persistent"
	NameIDFormatTransient                  NameIDFormat = "urn:oasis:names:tc:SAML:2.0:nameid-format:transient"
)
