package output

// ConfigPort reads raw configuration values by key.
type ConfigPort interface {
	Get(key string) string
}
