// Package auth provides authentication and authorization for opsdesk.
//
// # Request Admission Pipeline
//
// A protected request passes through two independent gates:
//
//  1. Transport gate (RequireClientCert): rejects with 403 any request whose
//     connection did not present a client certificate. Presence-only; chain
//     validation is delegated to the listener's TLS configuration.
//  2. Bearer-token middleware (Middleware): extracts the Authorization
//     header, verifies the JWT, resolves the subject against the user store,
//     and attaches an Identity to the request context. Any failure produces
//     a uniform 401 before the handler runs.
//
// A request may be transport-authenticated and still required to carry a
// valid bearer token for a specific route.
//
// # Tokens
//
// Tokens are HS256 JWTs signed with the configured jwt_secret (32 bytes
// minimum, enforced at construction). Claims carry the subject username,
// issued-at, and an absolute expiry. Validity is entirely self-contained:
// nothing is persisted server-side, and a token becomes unusable purely by
// time passage or a signing-key rotation.
//
// Verification failures are classified (ErrMalformedToken, ErrBadSignature,
// ErrExpiredToken, ErrMissingSubject) but every class maps to the same
// external 401 response; the classification is retained for logging only.
//
// # Credentials
//
// Passwords are stored as bcrypt hashes and verified with a constant-time
// comparison. Login failures (unknown user, wrong password, disabled user)
// are likewise classified internally and collapsed at the API boundary.
package auth
