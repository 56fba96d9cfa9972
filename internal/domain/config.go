package domain

// KeyPrefix namespaces every Redis key owned by the service.
// Overridden at startup from storage config.
var KeyPrefix = "tripdex:"

// VectorConfig holds internal vectorization settings, not exposed to clients.
type VectorConfig struct {
	Model             string
	Dimensions        int
	DistanceMetric    string
	Algorithm         string
	QueryInstruction  string
	MaxFragmentSizeKB int
}

// DefaultVectorConfig returns the default configuration tuned for
// text-embedding-3-small.
func DefaultVectorConfig() VectorConfig {
	return VectorConfig{
		Model:             "text-embedding-3-small",
		Dimensions:        1536,
		DistanceMetric:    "cosine",
		Algorithm:         "hnsw",
		QueryInstruction:  "",
		MaxFragmentSizeKB: 64,
	}
}
