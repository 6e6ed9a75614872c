package telemetry

import (
	"fmt"
	"maps"
	"runtime"
	"slices"
	"sync/atomic"

	"github.com/grafana/pyroscope-go"
)

// ProfilingConfig configures Pyroscope continuous profiling. It pays off on
// multi-hour runs over large media, where it shows whether time goes to the
// device or to checking blocks.
type ProfilingConfig struct {
	Enabled        bool
	ServiceName    string
	ServiceVersion string

	// Endpoint is the Pyroscope server URL, e.g. "http://localhost:4040".
	Endpoint string

	// Tags label every profile, typically with the device under test so
	// profiles of different media can be compared.
	Tags map[string]string

	// ProfileTypes names the profiles to collect; see profileTypes for the
	// accepted names.
	ProfileTypes []string
}

// DefaultProfilingConfig collects CPU and allocation profiles when enabled.
func DefaultProfilingConfig() ProfilingConfig {
	return ProfilingConfig{
		ServiceName:  "helocheck",
		Endpoint:     "http://localhost:4040",
		ProfileTypes: []string{"cpu", "alloc_objects", "alloc_space"},
	}
}

var profileTypes = map[string]pyroscope.ProfileType{
	"cpu":            pyroscope.ProfileCPU,
	"alloc_objects":  pyroscope.ProfileAllocObjects,
	"alloc_space":    pyroscope.ProfileAllocSpace,
	"inuse_objects":  pyroscope.ProfileInuseObjects,
	"inuse_space":    pyroscope.ProfileInuseSpace,
	"goroutines":     pyroscope.ProfileGoroutines,
	"mutex_count":    pyroscope.ProfileMutexCount,
	"mutex_duration": pyroscope.ProfileMutexDuration,
	"block_count":    pyroscope.ProfileBlockCount,
	"block_duration": pyroscope.ProfileBlockDuration,
}

var profiling atomic.Bool

// InitProfiling starts the profiler described by cfg and returns its stop
// function. A disabled config yields a no-op stop.
func InitProfiling(cfg ProfilingConfig) (stop func() error, err error) {
	if !cfg.Enabled {
		profiling.Store(false)
		return func() error { return nil }, nil
	}

	types, err := resolveProfileTypes(cfg.ProfileTypes)
	if err != nil {
		return nil, err
	}

	profiler, err := pyroscope.Start(pyroscope.Config{
		ApplicationName: cfg.ServiceName,
		ServerAddress:   cfg.Endpoint,
		Tags:            profileTags(cfg),
		ProfileTypes:    types,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to start Pyroscope profiler: %w", err)
	}

	profiling.Store(true)
	return func() error {
		profiling.Store(false)
		return profiler.Stop()
	}, nil
}

// resolveProfileTypes maps names to pyroscope types, turning on the runtime
// sampling that mutex and block profiles need.
func resolveProfileTypes(names []string) ([]pyroscope.ProfileType, error) {
	types := make([]pyroscope.ProfileType, 0, len(names))
	for _, name := range names {
		pt, ok := profileTypes[name]
		if !ok {
			return nil, fmt.Errorf("invalid profile type %q (valid: %v)", name, slices.Sorted(maps.Keys(profileTypes)))
		}
		switch pt {
		case pyroscope.ProfileMutexCount, pyroscope.ProfileMutexDuration:
			runtime.SetMutexProfileFraction(5)
		case pyroscope.ProfileBlockCount, pyroscope.ProfileBlockDuration:
			runtime.SetBlockProfileRate(5)
		}
		types = append(types, pt)
	}
	return types, nil
}

func IsProfilingEnabled() bool {
	return profiling.Load()
}

// profileTags adds the binary version to the configured tags.
func profileTags(cfg ProfilingConfig) map[string]string {
	tags := maps.Clone(cfg.Tags)
	if tags == nil {
		tags = make(map[string]string, 1)
	}
	tags["version"] = cfg.ServiceVersion
	return tags
}
