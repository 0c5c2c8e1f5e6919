package common

// AuthorizationHeaderName carries the bearer token on inbound requests.
const AuthorizationHeaderName = "Authorization"

// RoleAdmin is the role required for gated write operations.
const RoleAdmin = "Admin"
