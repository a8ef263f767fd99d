//go:build ignore

// Generates an operator token for the bridge admin endpoints.
// Run with: go run scripts/generate-jwt.go -config config.yaml -sub ops -ttl 1h
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/chainsafe/cascoin-bridge/pkg/auth"
	"github.com/chainsafe/cascoin-bridge/pkg/config"
)

func main() {
	cfgPath := flag.String("config", "config.yaml", "Path to API server configuration file")
	subject := flag.String("sub", "operator", "Token subject")
	ttl := flag.Duration("ttl", time.Hour, "Token lifetime")
	flag.Parse()

	cfg, err := config.LoadAPIServer(*cfgPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	token, err := auth.NewJWTValidator(cfg.Admin.JWTSecret, cfg.Admin.JWTIssuer).Issue(*subject, *ttl)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to issue token: %v\n", err)
		os.Exit(1)
	}

	fmt.Fprintf(os.Stderr, "Issuer:  %s\nSubject: %s\nExpires: in %s\n\n", cfg.Admin.JWTIssuer, *subject, *ttl)
	fmt.Println(token)
}
