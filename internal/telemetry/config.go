package telemetry

// Config configures OTLP trace export.
type Config struct {
	Enabled        bool
	ServiceName    string
	ServiceVersion string

	// Endpoint is the collector's OTLP gRPC address, host:port.
	Endpoint string
	Insecure bool

	// SampleRate is the fraction of root spans kept, in [0, 1]. A scan
	// starts a span per block, so runs over large media want it well
	// below 1.
	SampleRate float64
}

// DefaultConfig has tracing off and, once enabled, samples everything sent
// to a local plaintext collector.
func DefaultConfig() Config {
	return Config{
		ServiceName:    "helocheck",
		ServiceVersion: "dev",
		Endpoint:       "localhost:4317",
		Insecure:       true,
		SampleRate:     1.0,
	}
}
