package upload

// DefaultConcurrency is the cohort size used by UploadAll.
const DefaultConcurrency = 3

// Namespace scopes uploads on the broker side.
type Namespace struct {
	// AppName selects the target container, e.g. "question".
	AppName string

	// Folder is an optional sub-path inside the container.
	Folder string
}

// Config holds upload domain configuration.
type Config struct {
	// Policy is applied when a call does not supply its own.
	Policy Policy

	// Namespace is used when a call does not supply its own.
	Namespace Namespace

	// Concurrency is the default cohort size for batch uploads.
	Concurrency int
}

// DefaultConfig returns a default configuration.
func DefaultConfig() *Config {
	return &Config{
		Policy:      DefaultPolicy(),
		Namespace:   Namespace{AppName: "question"},
		Concurrency: DefaultConcurrency,
	}
}

// applyDefaults fills zero values with defaults.
func (c *Config) applyDefaults() {
	c.Policy = c.Policy.normalized()
	if c.Namespace.AppName == "" {
		c.Namespace.AppName = "question"
	}
	if c.Concurrency < 1 {
		c.Concurrency = DefaultConcurrency
	}
}
