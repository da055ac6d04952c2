// Package api implements the opsdesk HTTP API.
//
// # Endpoints
//
//	POST /login               exchange username/password for a bearer token
//	GET  /health              liveness probe (no auth)
//	GET  /health/ready        readiness probe (no auth)
//
// Protected endpoints (bearer token required):
//
//	GET/POST       /items             list, create
//	GET/PUT/DELETE /items/{id}        read, update, delete
//	GET/POST       /employees
//	GET/PUT/DELETE /employees/{id}
//	GET/POST       /users
//	GET/PUT/DELETE /users/{username}
//
// # Request Pipeline
//
// When server.require_client_cert is enabled, the transport identity gate
// wraps the entire mux and rejects certificate-less connections with 403
// before route dispatch. Protected routes are additionally wrapped by the
// bearer-token middleware which resolves an auth.Identity into the request
// context before the handler body runs.
//
// # Responses
//
// Handlers exchange JSON. Login failures and token failures are collapsed
// into generic 401 messages; missing records produce 404; unexpected store
// failures produce 500 with a non-descriptive body and a logged cause.
package api
