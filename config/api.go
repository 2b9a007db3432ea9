package config

import (
	"strings"
	"time"
)

const defaultAPIBaseURL = "http://localhost:8000/api/v1"

// APIConfig describes how to reach the records API that owns job roles and posts.
//
// Credentials are optional. When Token is set it is sent as a static bearer token.
// Otherwise, when TokenURL, Username and Password are all set, a token is obtained
// with the OAuth2 resource owner password grant and refreshed as needed.
type APIConfig struct {
	BaseURL  string        `env:"API_BASE_URL"  envDefault:"http://localhost:8000/api/v1"`
	Token    string        `env:"API_TOKEN"`
	TokenURL string        `env:"API_TOKEN_URL"`
	ClientID string        `env:"API_CLIENT_ID"`
	Username string        `env:"API_USERNAME"`
	Password string        `env:"API_PASSWORD"`
	Timeout  time.Duration `env:"API_TIMEOUT"   envDefault:"30s"`

	// StrictResponses validates list and create responses against JSON schemas.
	StrictResponses bool `env:"API_STRICT_RESPONSES" envDefault:"true"`
}

// Sanitize normalises URLs and credentials and enforces a positive timeout.
func (c *APIConfig) Sanitize() {
	c.BaseURL = strings.TrimRight(strings.TrimSpace(c.BaseURL), "/")
	if c.BaseURL == "" {
		c.BaseURL = defaultAPIBaseURL
	}
	c.Token = strings.TrimSpace(c.Token)
	c.TokenURL = strings.TrimSpace(c.TokenURL)
	c.ClientID = strings.TrimSpace(c.ClientID)
	c.Username = strings.TrimSpace(c.Username)
	if c.Timeout <= 0 {
		c.Timeout = 30 * time.Second
	}
}

// UsesPasswordGrant reports whether the password grant credentials are complete
// and no static token overrides them.
func (c *APIConfig) UsesPasswordGrant() bool {
	return c.Token == "" && c.TokenURL != "" && c.Username != "" && c.Password != ""
}
