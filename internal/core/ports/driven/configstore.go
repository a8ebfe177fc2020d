package driven

// ConfigStore provides persistent key-value configuration.
// Values are re-read by callers every cycle so changes take effect
// without a restart.
type ConfigStore interface {
	// Get retrieves a raw configuration value by key.
	Get(key string) (any, bool)

	// GetString retrieves a string value, "" if unset or wrong type.
	GetString(key string) string

	// GetInt retrieves an integer value, 0 if unset or wrong type.
	GetInt(key string) int

	// GetStringSlice retrieves a string slice value, nil if unset.
	GetStringSlice(key string) []string

	// Set stores a value and persists it immediately.
	Set(key string, value any) error
}
