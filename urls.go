package spmeta

import (
	"fmt"
	"net/url"
	"strings"
)

// BuildEndpointURL creates the absolute URL at which the local server accepts
// incoming SAML messages: the entity base URL joined with the processing path
// by exactly one slash, followed by "alias/<entityAlias>" when an entity
// alias is set, followed by the query parameters when any are given.
func BuildEndpointURL(entityBaseURL, entityAlias, processingPath string, params url.Values) (string, error) {
	const op = "spmeta.BuildEndpointURL"

	var b strings.Builder
	b.WriteString(strings.TrimSuffix(entityBaseURL, "/"))
	if !strings.HasPrefix(processingPath, "/") {
		b.WriteString("/")
	}
	b.WriteString(processingPath)

	if entityAlias != "" {
		if !strings.HasSuffix(processingPath, "/") {
			b.WriteString("/")
		}
		b.WriteString("alias/")
		b.WriteString(entityAlias)
	}

	if len(params) == 0 {
		return b.String(), nil
	}

	endpoint, err := url.Parse(b.String())
	if err != nil {
		return "", fmt.Errorf("%s: failed to parse endpoint URL %q: %w", op, b.String(), err)
	}

	query := endpoint.Query()
	for key, values := range params {
		for _, value := range values {
			query.Add(key, value)
		}
	}
	endpoint.RawQuery = query.Encode()

	return endpoint.String(), nil
}
