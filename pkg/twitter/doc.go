// Package twitter is a minimal client for the v1.1 user timeline endpoint.
//
// Page performs exactly one signed GET per call and never retries; backoff
// belongs to the caller. Items are kept as raw JSON so every field of a
// post reaches the output untouched.
//
//	httpClient := twitter.NewHTTPClient(creds, 30*time.Second)
//	client := twitter.NewClient(httpClient, twitter.BaseURL, log)
//	items, err := client.Page(ctx, 25073877, 0)
package twitter
