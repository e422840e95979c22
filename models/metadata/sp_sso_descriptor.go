package metadata

import (
	"encoding/xml"

	"github.com/samlkit/spmeta/models/core"
)

// SPSSODescriptor contains profiles specific to service providers.
// Fields appear in schema sequence so the marshalled element validates.
// See 2.4.4 http://docs.oasis-open.org/security/saml/v2.0/saml-metadata-2.0-os.pdf
type SPSSODescriptor struct {
	XMLName xml.Name `xml:"urn:oasis:names:tc:SAML:2.0:metadata SPSSODescriptor"`

	DescriptorCommon

	AuthnRequestsSigned        bool                       `xml:",attr"`
	WantAssertionsSigned       bool                       `xml:",attr"`
	ProtocolSupportEnumeration ProtocolSupportEnumeration `xml:"protocolSupportEnumeration,attr,omitempty"`
	ErrorURL                   string                     `xml:"errorURL,attr,omitempty"`

	Extensions                *Extensions
	KeyDescriptor             []KeyDescriptor
	Organization              *Organization
	ContactPerson             []ContactPerson
	ArtifactResolutionService []IndexedEndpoint
	SingleLogoutService       []Endpoint
	ManageNameIDService       []Endpoint
	NameIDFormat              []core.NameIDFormat
	AssertionConsumerService  []IndexedEndpoint
	AttributeConsumingService []*AttributeConsumingService
}

// Extensions is the metadata extension point of a role descriptor. The
// generator only ever populates it with identity provider discovery entries
// and omits the element entirely when there are none.
type Extensions struct {
	XMLName xml.Name `xml:"urn:oasis:names:tc:SAML:2.0:metadata Extensions"`

	DiscoveryResponse []DiscoveryResponse
}

// DiscoveryResponse is the idpdisco extension endpoint at which the service
// provider accepts responses from an identity provider discovery service.
// See the Identity Provider Discovery Service Protocol and Profile.
type DiscoveryResponse struct {
	XMLName xml.Name `xml:"urn:oasis:names:tc:SAML:profile:SSO:idp-discovery-protocol DiscoveryResponse"`

	Index    int    `xml:"index,attr"`
	Binding  string `xml:"Binding,attr"`
	Location string `xml:"Location,attr"`
}

// AttributeConsumingService describes a service offered by the service
// provider that requires particular SAML attributes.
// See 2.4.4.1 http://docs.oasis-open.org/security/saml/v2.0/saml-metadata-2.0-os.pdf
type AttributeConsumingService struct {
	Index              int  `xml:"index,attr"`
	IsDefault          bool `xml:"isDefault,attr,omitempty"`
	ServiceName        []Localized
	ServiceDescription []Localized
	RequestedAttribute []RequestedAttribute
}

// RequestedAttribute specifies a service provider's interest in a specific
// SAML attribute, including specific values.
// See 2.4.4.2 http://docs.oasis-open.org/security/saml/v2.0/saml-metadata-2.0-os.pdf
type RequestedAttribute struct {
	FriendlyName   string `xml:",attr,omitempty"`
	Name           string `xml:",attr"`
	NameFormat     string `xml:",attr,omitempty"`
	IsRequired     bool   `xml:"isRequired,attr,omitempty"`
	AttributeValue []string
}
