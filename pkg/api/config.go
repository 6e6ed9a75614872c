package api

import "time"

const (
	DefaultPort         = 9090
	DefaultReadTimeout  = 10 * time.Second
	DefaultWriteTimeout = 10 * time.Second
	DefaultIdleTimeout  = time.Minute
)

// Config configures the HTTP server exposing metrics, device health and scan
// progress, so a long verification run can be watched from Prometheus or
// curl. With Enabled false no server starts and no metrics are collected.
type Config struct {
	Enabled bool `mapstructure:"enabled" yaml:"enabled"`
	Port    int  `mapstructure:"port" validate:"omitempty,min=1,max=65535" yaml:"port"`

	// Timeouts map onto the http.Server fields of the same name.
	ReadTimeout  time.Duration `mapstructure:"read_timeout" yaml:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout" yaml:"write_timeout"`
	IdleTimeout  time.Duration `mapstructure:"idle_timeout" yaml:"idle_timeout"`
}

// ApplyDefaults replaces unset fields with the Default* values.
func (c *Config) ApplyDefaults() {
	if c.Port <= 0 {
		c.Port = DefaultPort
	}
	for _, f := range []struct {
		d   *time.Duration
		def time.Duration
	}{
		{&c.ReadTimeout, DefaultReadTimeout},
		{&c.WriteTimeout, DefaultWriteTimeout},
		{&c.IdleTimeout, DefaultIdleTimeout},
	} {
		if *f.d <= 0 {
			*f.d = f.def
		}
	}
}
