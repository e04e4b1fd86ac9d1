package config

import (
	"fmt"
	"strings"
)

// SeedConfig controls whether the service loads demo data at startup.
type SeedConfig struct {
	Enabled bool `koanf:"enabled"`
}

// String returns a string representation of the seed configuration.
func (c *SeedConfig) String() string {
	var b strings.Builder
	b.WriteString("\n--- Seed ---\n")
	b.WriteString(fmt.Sprintf("  enabled: %t\n", c.Enabled))
	return b.String()
}

func (c *SeedConfig) Validate() error {
	return nil
}
