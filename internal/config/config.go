// Package config reads the remediation run's configuration from the
// environment. Required values fail hard at startup, before any tree
// access.
package config

import (
	"fmt"
	"os"
	"strings"
)

// Environment variable names.
const (
	EnvToken             = "RESTYLE_TOKEN"
	EnvBranch            = "RESTYLE_BRANCH"
	EnvTargetTypes       = "RESTYLE_TARGET_TYPES"
	EnvExcludeNamespaces = "RESTYLE_EXCLUDE_NAMESPACES"
)

// DefaultTargetTypes is the built-in element-type allowlist used when
// RESTYLE_TARGET_TYPES is unset.
var DefaultTargetTypes = []string{
	"DivContainer",
	"LayoutGrid",
	"ListView",
	"DataView",
	"ActionButton",
	"Text",
	"Image",
}

// DefaultContainerTypes are the whole-document container types the target
// profile does not allow to carry design properties.
var DefaultContainerTypes = []string{"Page"}

// Config is the process-wide configuration, constructed once at startup
// and passed by reference into every component.
type Config struct {
	// Token is the credential for the persistence backend.
	Token string
	// Branch is the working-copy branch the run commits to.
	Branch string
	// TargetTypes is the element-type allowlist the processor honors.
	TargetTypes []string
	// ExcludeNamespaces are namespaces the walker never enters.
	ExcludeNamespaces []string
}

// FromEnv builds the configuration, collecting every missing required
// variable into a single error so the operator sees the full list at once.
func FromEnv() (*Config, error) {
	cfg := &Config{
		Token:             os.Getenv(EnvToken),
		Branch:            os.Getenv(EnvBranch),
		TargetTypes:       splitList(os.Getenv(EnvTargetTypes)),
		ExcludeNamespaces: splitList(os.Getenv(EnvExcludeNamespaces)),
	}
	if len(cfg.TargetTypes) == 0 {
		cfg.TargetTypes = DefaultTargetTypes
	}

	var missing []string
	if cfg.Token == "" {
		missing = append(missing, EnvToken)
	}
	if cfg.Branch == "" {
		missing = append(missing, EnvBranch)
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("missing required environment variables: %s", strings.Join(missing, ", "))
	}
	return cfg, nil
}

func splitList(raw string) []string {
	if raw == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
