package constants

// Environment variable names.
const (
	DATABASE_URL         = "DATABASE_URL"
	PORT                 = "PORT"
	JWT_SECRET           = "JWT_SECRET"
	TOKEN_TTL            = "TOKEN_TTL"
	CORS_ALLOWED_ORIGINS = "CORS_ALLOWED_ORIGINS"
	LOGIN_RATE_LIMIT     = "LOGIN_RATE_LIMIT"
	LOG_LEVEL            = "LOG_LEVEL"
	DB_MAX_CONNS         = "DB_MAX_CONNS"
	TRUST_PROXY_HEADERS  = "TRUST_PROXY_HEADERS"
)

// Defaults used when the matching variable is unset.
const (
	DEFAULT_PORT             = "8000"
	DEFAULT_TOKEN_TTL        = "12h"
	DEFAULT_LOGIN_RATE_LIMIT = 10 // attempts per minute per IP
	DEFAULT_DB_MAX_CONNS     = 10
)

// DATE_LAYOUT is the wire format of attendance dates.
const DATE_LAYOUT = "2006-01-02"
