// Package unologin verifies unolog·in app login tokens.
//
// A Client checks tokens locally against the app-login-token public key, which
// it fetches from the API and caches for the key's lifetime. Tokens whose
// refresh time has passed are exchanged for a new token and login cookie via
// the API. Errors are *APIError (see IsAuthError), *ConfigError for a broken
// setup, *GatewayError for unrecognized API responses, or transport errors.
//
// The package never logs; HTTP-facing behavior lives in pkg/middleware/auth.
package unologin
