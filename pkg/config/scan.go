package config

import (
	"fmt"
	"math"

	"github.com/marmos91/helocheck/internal/bytesize"
	"github.com/marmos91/helocheck/pkg/device"
	"github.com/marmos91/helocheck/pkg/scan"
)

// ScanConfig configures which blocks are written and verified.
type ScanConfig struct {
	// Start is the first block index
	Start uint32 `mapstructure:"start" yaml:"start"`

	// Count is the number of blocks. Zero scans to the end of the device.
	Count uint32 `mapstructure:"count" yaml:"count"`

	// Size is an alternative to Count expressed in bytes (e.g. "8GiB").
	// Must be a multiple of 512. Count and Size are mutually exclusive.
	Size bytesize.ByteSize `mapstructure:"size" yaml:"size"`

	// Order is the visiting order
	// Valid values: sequential, reverse, random
	Order string `mapstructure:"order" validate:"required,oneof=sequential reverse random" yaml:"order"`

	// Seed selects the permutation of the random order.
	// Write and verify must use the same seed only to reproduce the same
	// access pattern; block contents never depend on it.
	Seed int64 `mapstructure:"seed" yaml:"seed"`

	// Workers bounds concurrent block operations
	// Default: 4
	Workers int `mapstructure:"workers" validate:"gte=0,lte=1024" yaml:"workers"`

	// FailFast stops at the first block that is not good
	FailFast bool `mapstructure:"fail_fast" yaml:"fail_fast"`

	// MaxFailures bounds the failures listed in the summary.
	// Negative lists none. Default: 100
	MaxFailures int `mapstructure:"max_failures" yaml:"max_failures"`
}

// Plan returns the scan plan described by c. A zero count is left for
// scan.Plan.Resolve to fill in from the device capacity.
func (c ScanConfig) Plan() (scan.Plan, error) {
	order, err := scan.ParseOrder(c.Order)
	if err != nil {
		return scan.Plan{}, err
	}

	count := c.Count
	if c.Size > 0 {
		blocks, err := c.Size.Blocks(device.BlockSize)
		if err != nil {
			return scan.Plan{}, fmt.Errorf("scan size: %w", err)
		}
		if blocks > math.MaxUint32 {
			return scan.Plan{}, fmt.Errorf("%w: size %s exceeds %d blocks", scan.ErrInvalidPlan, c.Size, uint32(math.MaxUint32))
		}
		count = uint32(blocks)
	}

	return scan.Plan{
		Start: c.Start,
		Count: count,
		Order: order,
		Seed:  c.Seed,
	}, nil
}

// Options returns the runner options described by c.
func (c ScanConfig) Options() scan.Options {
	return scan.Options{
		Workers:     c.Workers,
		FailFast:    c.FailFast,
		MaxFailures: c.MaxFailures,
	}
}
