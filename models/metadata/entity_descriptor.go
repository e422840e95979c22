package metadata

import (
	"encoding/xml"
	"time"

	"github.com/beevik/etree"
	dsig "github.com/russellhaering/goxmldsig/types"
)

type ContactType string

const (
	ContactTypeTechnical      ContactType = "technical"
	ContactTypeSupport        ContactType = "support"
	ContactTypeAdministrative ContactType = "administrative"
	ContactTypeBilling        ContactType = "billing"
	ContactTypeOther          ContactType = "other"
)

type ProtocolSupportEnumeration string

const (
	ProtocolSupportEnumerationProtocol ProtocolSupportEnumeration = "urn:oasis:names:tc:SAML:2.0:protocol"
)

// KeyType defines what a described key is used for. A key carrying
// KeyTypeUnspecified omits the use attribute, meaning the key is usable for
// any purpose.
// See 2.4.1.1 http://docs.oasis-open.org/security/saml/v2.0/saml-metadata-2.0-os.pdf
type KeyType string

const (
	KeyTypeEncryption  KeyType = "encryption"
	KeyTypeSigning     KeyType = "signing"
	KeyTypeUnspecified KeyType = ""
)

// DescriptorCommon defines common fields shared by descriptor elements.
type DescriptorCommon struct {
	ID            string     `xml:",attr,omitempty"`
	ValidUntil    *time.Time `xml:"validUntil,attr,omitempty"`
	CacheDuration *Duration  `xml:"cacheDuration,attr,omitempty"`
	Signature     *dsig.Signature
}

// EntityDescriptor represents a system entity in metadata. Only the service
// provider role is modelled; the generated document carries exactly one
// SPSSODescriptor.
// See 2.3.2 in http://docs.oasis-open.org/security/saml/v2.0/saml-metadata-2.0-os.pdf
type EntityDescriptor struct {
	XMLName xml.Name `xml:"urn:oasis:names:tc:SAML:2.0:metadata EntityDescriptor"`

	DescriptorCommon

	EntityID string `xml:"entityID,attr"`

	SPSSODescriptor []*SPSSODescriptor
	Organization    *Organization
	ContactPerson   []ContactPerson
}

// CreateXMLDocument marshals the descriptor into its XML document form.
// An indent greater than zero pretty-prints the document with that many
// spaces per nesting level.
func (ed *EntityDescriptor) CreateXMLDocument(indent int) ([]byte, error) {
	raw, err := xml.Marshal(ed)
	if err != nil {
		return nil, err
	}

	if indent <= 0 {
		return raw, nil
	}

	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(raw); err != nil {
		return nil, err
	}
	doc.Indent(indent)

	return doc.WriteToBytes()
}

// Organization specifies basic information about an organization responsible for a SAML
// entity or role.
// See 2.3.2.1 http://docs.oasis-open.org/security/saml/v2.0/saml-metadata-2.0-os.pdf
type Organization struct {
	Extensions              []*etree.Element
	OrganizationName        []Localized
	OrganizationDisplayName []Localized
	OrganizationURL         []Localized
}

// ContactPerson specifies basic contact information about a person responsible in some
// capacity for a SAML entity or role.
// See 2.3.2.2 http://docs.oasis-open.org/security/saml/v2.0/saml-metadata-2.0-os.pdf
type ContactPerson struct {
	ContactType     ContactType `xml:"contactType,attr"`
	Company         string
	GivenName       string
	SurName         string
	EmailAddress    []string
	TelephoneNumber []string
}

// KeyDescriptor provides information about the cryptographic key(s) that an entity uses
// to sign data or receive encrypted keys, along with additional cryptographic details.
// See 2.4.1.1 http://docs.oasis-open.org/security/saml/v2.0/saml-metadata-2.0-os.pdf
type KeyDescriptor struct {
	Use              KeyType `xml:"use,attr,omitempty"`
	KeyInfo          KeyInfo
	EncryptionMethod []EncryptionMethod
}

// KeyInfo directly or indirectly identifies a key. It defines the usage of the
// XML Signature <ds:KeyInfo> element.
// See https://www.w3.org/TR/xmldsig-core1/#sec-KeyInfo
type KeyInfo struct {
	dsig.KeyInfo
	KeyName string `xml:"KeyName,omitempty"`
}

// EncryptionMethod describes the encryption algorithm applied to the cipher data.
// See https://www.w3.org/TR/2002/REC-xmlenc-core-20021210/Overview.html#sec-EncryptionMethod
type EncryptionMethod struct {
	Algorithm string `xml:"Algorithm,attr"`
}
