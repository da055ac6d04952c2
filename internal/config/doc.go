// Package config handles configuration loading for opsdesk.
//
// # Overview
//
// Configuration is loaded from YAML files with environment variable expansion.
// The package provides validation and sensible defaults.
//
// # Environment Variable Expansion
//
// Configuration values can reference environment variables:
//
//	auth:
//	  jwt_secret: "${OPSDESK_JWT_SECRET}"
//
// Syntax: ${VAR_NAME}
//
// # Configuration Sections
//
// Server settings:
//
//	server:
//	  http_addr: "0.0.0.0:8080"
//	  cert_file: ""              # enable TLS when set (with key_file)
//	  key_file: ""
//	  client_ca_file: ""         # CA bundle for verifying client certificates
//	  require_client_cert: false # reject requests without a client certificate
//
// Database:
//
//	database:
//	  path: "/var/lib/opsdesk/opsdesk.db"
//
// Authentication:
//
//	auth:
//	  jwt_secret: "${OPSDESK_JWT_SECRET}"  # required, 32 bytes minimum
//	  token_ttl: "30m"
//	  admin_password: "admin"              # bootstrap credential for the seeded admin
//
// Logging:
//
//	logging:
//	  level: "info"   # debug, info, warn, error
//	  format: "text"  # text, json
//
// # Validation
//
// Load() validates:
//
//   - JWT secret presence and minimum length (32 bytes)
//   - HTTP address and database path presence
//   - TLS cert/key pairing, and that the client-certificate gate is only
//     enabled on a TLS listener
//   - Duration format validity
package config
