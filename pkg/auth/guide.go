package auth

import (
	"fmt"
	"io"
	"strings"
)

// WriteKeyGuide prints how to obtain the four secrets the harvester needs
func WriteKeyGuide(w io.Writer) {
	rule := strings.Repeat("=", 72)
	fmt.Fprintln(w, rule)
	fmt.Fprintln(w, "TWITTER API KEYS")
	fmt.Fprintln(w, rule)
	fmt.Fprintln(w)
	fmt.Fprintln(w, "tlharvest signs requests with OAuth 1.0a user context and needs four")
	fmt.Fprintln(w, "values from a developer app with access to the v1.1 REST API:")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "  1. Open the developer portal and select (or create) your app.")
	fmt.Fprintln(w, "  2. Under 'Keys and tokens' copy the API Key and API Key Secret")
	fmt.Fprintln(w, "     (consumer key and consumer secret).")
	fmt.Fprintln(w, "  3. Generate an Access Token and Access Token Secret for your user.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Then either store them:")
	fmt.Fprintln(w, "  tlharvest auth login --name default")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "or export them for a single run:")
	for _, env := range []string{EnvConsumerKey, EnvConsumerSecret, EnvAccessToken, EnvAccessSecret} {
		fmt.Fprintf(w, "  export %s=...\n", env)
	}
	fmt.Fprintln(w, rule)
}
