package config

import (
	"fmt"
	"strings"
	"time"
)

// HTTPClientConfig holds the address and timeout for a downstream service client.
// The timeout bounds the whole request so a slow peer cannot block the caller.
type HTTPClientConfig struct {
	URL     string        `koanf:"url"`
	Timeout time.Duration `koanf:"timeout"`
}

// String returns a string representation of the HTTP client configuration.
func (c *HTTPClientConfig) String() string {
	var b strings.Builder
	b.WriteString("\n--- HTTP Client ---\n")
	b.WriteString(fmt.Sprintf("  url: %s\n", c.URL))
	b.WriteString(fmt.Sprintf("  timeout: %s\n", c.Timeout))
	return b.String()
}

func (c *HTTPClientConfig) Validate() error {
	if c.URL == "" {
		return fmt.Errorf("HTTP client URL is not configured")
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("HTTP client timeout is not configured")
	}
	return nil
}
