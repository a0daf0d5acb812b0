package auth

// Config holds bearer token settings.
type Config struct {
	// Secret signs and verifies HS256 tokens.
	Secret string `mapstructure:"secret" default:"change-me"`
	// TokenTTLMinutes is how long an issued token stays valid.
	TokenTTLMinutes int `mapstructure:"token_ttl_minutes" default:"60"`
	// Admins lists emails that receive the admin role on registration (comma separated in env).
	Admins []string `mapstructure:"admins" default:""`
	// BcryptCost is the work factor for stored password hashes.
	BcryptCost int `mapstructure:"bcrypt_cost" default:"10"`
}
