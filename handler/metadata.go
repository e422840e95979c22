package handler

import (
	"encoding/xml"
	"fmt"
	"net/http"

	"github.com/samlkit/spmeta"
)

// ContentTypeSAMLMetadata is the registered media type for SAML metadata
// documents.
const ContentTypeSAMLMetadata = "application/samlmetadata+xml"

// MetadataHandlerFunc creates a handler function that serves the generated
// service provider metadata document.
func MetadataHandlerFunc(g *spmeta.Generator) (http.HandlerFunc, error) {
	const op = "handler.MetadataHandlerFunc"
	switch {
	case g == nil:
		return nil, fmt.Errorf("%s: missing metadata generator", op)
	}
	return func(w http.ResponseWriter, _ *http.Request) {
		descriptor, err := g.GenerateMetadata()
		if err != nil {
			http.Error(w, "failed to generate metadata", http.StatusInternalServerError)
			return
		}

		document, err := descriptor.CreateXMLDocument(2)
		if err != nil {
			http.Error(w, "failed to serialize metadata", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", ContentTypeSAMLMetadata)
		fmt.Fprint(w, xml.Header)
		w.Write(document)
	}, nil
}
