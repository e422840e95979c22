package main

import (
	"fmt"
	"net/http"
	"os"

	"github.com/samlkit/spmeta"
	"github.com/samlkit/spmeta/handler"
	testkeystore "github.com/samlkit/spmeta/test"
)

func main() {
	entityID := envOr("SPMETA_ENTITY_ID", "https://sp.example.org/sp")
	baseURL := envOr("SPMETA_BASE_URL", "http://localhost:8000")

	cfg, err := spmeta.NewConfig(entityID, baseURL)
	exitOnError(err)
	cfg.IncludeDiscoveryExtension = true

	cred, err := testkeystore.GenerateCredential("demo")
	exitOnError(err)

	ks, err := spmeta.NewX509KeyStore("demo", cred)
	exitOnError(err)

	generator, err := spmeta.NewGenerator(cfg, ks)
	exitOnError(err)

	metadataHandler, err := handler.MetadataHandlerFunc(generator)
	exitOnError(err)

	http.HandleFunc("/saml/metadata", metadataHandler)

	fmt.Println("Visit http://localhost:8000/saml/metadata")

	err = http.ListenAndServe(":8000", nil)
	exitOnError(err)
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func exitOnError(err error) {
	if err != nil {
		fmt.Printf("failed to run demo: %s", err.Error())
		os.Exit(1)
	}
}
