package spmeta

import (
	"strings"

	"github.com/hashicorp/go-hclog"

	"github.com/samlkit/spmeta/models/core"
)

// canonicalAliases maps case-insensitive tokens to canonical protocol URIs.
// Both short names ("post", "http-post") and the canonical URIs themselves
// resolve, so deployers may configure either form. Built once at package
// initialization and never mutated, so concurrent readers need no locking.
var canonicalAliases = buildAliasTable()

func buildAliasTable() map[string]string {
	table := make(map[string]string)

	add := func(canonical string, tokens ...string) {
		table[strings.ToLower(canonical)] = canonical
		for _, t := range tokens {
			table[strings.ToLower(t)] = canonical
		}
	}

	add(string(core.ServiceBindingHTTPPost), "post", "http-post")
	add(string(core.ServiceBindingPAOS), "paos")
	add(string(core.ServiceBindingHTTPArtifact), "artifact", "http-artifact")
	add(string(core.ServiceBindingHTTPRedirect), "redirect", "http-redirect")
	add(string(core.ServiceBindingSOAP), "soap")

	add(string(core.NameIDFormatEmail), "email")
	add(string(core.NameIDFormatTransient), "transient")
	add(string(core.NameIDFormatPersistent), "persistent")
	add(string(core.NameIDFormatUnspecified), "unspecified")
	add(string(core.NameIDFormatX509SubjectName), "x509_subject")

	return table
}

// resolveAliases maps each value to its canonical URI. Unknown values are
// dropped with a warning rather than failing generation. The result preserves
// input order with duplicates removed, since binding order controls endpoint
// index assignment downstream.
func resolveAliases(logger hclog.Logger, values []string) []string {
	seen := make(map[string]struct{}, len(values))
	result := make([]string, 0, len(values))

	for _, value := range values {
		canonical, ok := canonicalAliases[strings.ToLower(value)]
		if !ok {
			logger.Warn("unsupported binding or name ID value", "value", value)
			continue
		}
		if _, dup := seen[canonical]; dup {
			continue
		}
		seen[canonical] = struct{}{}
		result = append(result, canonical)
	}

	return result
}
