package twitter

import (
	"context"
	"net/http"
	"time"

	"github.com/dghubble/oauth1"
)

// Credentials are the four OAuth 1.0a secrets of a developer app
type Credentials struct {
	ConsumerKey    string
	ConsumerSecret string
	AccessToken    string
	AccessSecret   string
}

// Valid reports whether all four secrets are set
func (c Credentials) Valid() bool {
	return c.ConsumerKey != "" && c.ConsumerSecret != "" && c.AccessToken != "" && c.AccessSecret != ""
}

// NewHTTPClient returns an http.Client that signs every request with creds
func NewHTTPClient(creds Credentials, timeout time.Duration) *http.Client {
	cfg := oauth1.NewConfig(creds.ConsumerKey, creds.ConsumerSecret)
	token := oauth1.NewToken(creds.AccessToken, creds.AccessSecret)

	httpClient := cfg.Client(context.Background(), token)
	httpClient.Timeout = timeout
	return httpClient
}
