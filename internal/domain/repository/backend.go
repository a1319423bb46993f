package repository

// ActivityBackend selects where view events are recorded.
type ActivityBackend string

const (
	BackendNone       ActivityBackend = "none"
	BackendKafka      ActivityBackend = "kafka"
	BackendClickHouse ActivityBackend = "clickhouse"
)

// IsValidBackend returns true if b is a supported backend.
func IsValidBackend(b ActivityBackend) bool {
	switch b {
	case BackendNone, BackendKafka, BackendClickHouse:
		return true
	default:
		return false
	}
}

// NormalizeBackend converts a raw string to a valid backend (or none).
func NormalizeBackend(s string) ActivityBackend {
	b := ActivityBackend(s)
	if IsValidBackend(b) {
		return b
	}
	return BackendNone
}
