// Package auth stores the OAuth 1.0a secrets used to sign timeline requests.
//
// A Manager tries, in order, the system keychain, an AES-GCM encrypted file
// under the user config directory, and the TLHARVEST_* environment
// variables. Account.Credentials feeds twitter.NewHTTPClient.
package auth
