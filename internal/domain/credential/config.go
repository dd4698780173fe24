package credential

import "time"

// DefaultURLExpiry is how long an issued upload URL stays valid.
const DefaultURLExpiry = 15 * time.Minute

// DefaultAllowedApps returns the namespaces accepted when none are configured.
func DefaultAllowedApps() []string {
	return []string{"question", "user", "document"}
}

// Config holds credential domain configuration.
type Config struct {
	// AllowedApps lists the application namespaces uploads may target.
	AllowedApps []string

	// URLExpiry is the validity of each presigned URL.
	URLExpiry time.Duration

	// PublicBaseURL prefixes object keys to form the public file URL.
	// When empty the storage URL of the object is used.
	PublicBaseURL string
}

// DefaultConfig returns default credential configuration.
func DefaultConfig() *Config {
	return &Config{
		AllowedApps: DefaultAllowedApps(),
		URLExpiry:   DefaultURLExpiry,
	}
}
