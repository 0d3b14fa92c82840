// Package auth verifies bearer tokens and loads the admin allow-list.
//
// Two verifiers implement filekeep.TokenVerifier:
//
//   - JWKSVerifier validates RS256 tokens issued by an external identity
//     provider, fetching and refreshing signing keys from a JWKS endpoint.
//   - HMACVerifier validates HS256 tokens signed with a shared secret. It can
//     also mint tokens, which is how local deployments and tests obtain them.
//
// Both map the "sub" claim to Principal.ID and the "email" claim to
// Principal.Email. A token without a subject is rejected.
//
// Every verification failure wraps filekeep.ErrUnauthorized.
//
// # Admins
//
// Admin emails come from inline configuration and an optional JSON file
// containing an array of strings:
//
//	["admin@example.com", "ops@example.com"]
//
// Use LoadAdmins to merge both sources before building a filekeep.AccessPolicy.
package auth
