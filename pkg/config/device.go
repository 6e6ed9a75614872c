package config

import (
	"context"
	"fmt"
	"os"

	"github.com/marmos91/helocheck/internal/bytesize"
	"github.com/marmos91/helocheck/pkg/device"
	badgerdev "github.com/marmos91/helocheck/pkg/device/badger"
	filedev "github.com/marmos91/helocheck/pkg/device/file"
	memorydev "github.com/marmos91/helocheck/pkg/device/memory"
	s3dev "github.com/marmos91/helocheck/pkg/device/s3"
)

// Device types.
const (
	DeviceMemory = "memory"
	DeviceFile   = "file"
	DeviceS3     = "s3"
	DeviceBadger = "badger"
)

// DeviceTypes lists every supported device type.
var DeviceTypes = []string{DeviceMemory, DeviceFile, DeviceS3, DeviceBadger}

// DeviceConfig selects and configures the medium under test.
type DeviceConfig struct {
	// Type specifies which device implementation to use
	// Valid values: memory, file, s3, badger
	Type string `mapstructure:"type" validate:"required,oneof=memory file s3 badger" yaml:"type"`

	// Capacity bounds the addressable size of devices without a natural
	// size (memory, s3, badger). Zero means unbounded, in which case scans
	// need an explicit count. Must be a multiple of 512.
	Capacity bytesize.ByteSize `mapstructure:"capacity" yaml:"capacity"`

	// File configures the file device
	File FileDeviceConfig `mapstructure:"file" yaml:"file"`

	// S3 configures the s3 device
	S3 S3DeviceConfig `mapstructure:"s3" yaml:"s3"`

	// Badger configures the badger device
	Badger BadgerDeviceConfig `mapstructure:"badger" yaml:"badger"`
}

// FileDeviceConfig configures an image file or raw device node.
type FileDeviceConfig struct {
	// Path is the image file or device node (e.g. /dev/mmcblk0)
	Path string `mapstructure:"path" yaml:"path"`

	// Create creates the image file if it does not exist
	Create bool `mapstructure:"create" yaml:"create"`

	// Size preallocates the image file and fixes its capacity.
	// Ignored for device nodes. Must be a multiple of 512.
	Size bytesize.ByteSize `mapstructure:"size" yaml:"size"`

	// SyncWrites opens the file with O_SYNC
	SyncWrites bool `mapstructure:"sync_writes" yaml:"sync_writes"`

	// ReadOnly opens the medium for verification only
	ReadOnly bool `mapstructure:"read_only" yaml:"read_only"`

	// FileMode is the permission mode of created image files
	// Default: 0644
	FileMode uint32 `mapstructure:"file_mode" yaml:"file_mode"`

	// DropCache evicts the medium from the page cache after writing so
	// verification reads the medium rather than memory (Linux only)
	DropCache bool `mapstructure:"drop_cache" yaml:"drop_cache"`
}

// S3DeviceConfig configures the S3 device.
type S3DeviceConfig struct {
	Bucket   string `mapstructure:"bucket" yaml:"bucket"`
	Region   string `mapstructure:"region" yaml:"region"`
	Endpoint string `mapstructure:"endpoint" yaml:"endpoint"`

	// KeyPrefix is prepended to every block key (e.g. "sd0/")
	KeyPrefix string `mapstructure:"key_prefix" yaml:"key_prefix"`

	// Static credentials. When empty the AWS default credential chain is used.
	AccessKeyID     string `mapstructure:"access_key_id" yaml:"access_key_id"`
	SecretAccessKey string `mapstructure:"secret_access_key" yaml:"secret_access_key"`

	// ForcePathStyle is required for MinIO and Localstack
	ForcePathStyle bool `mapstructure:"force_path_style" yaml:"force_path_style"`
}

// BadgerDeviceConfig configures the BadgerDB device.
type BadgerDeviceConfig struct {
	// Path is the database directory, typically on the medium under test
	Path string `mapstructure:"path" yaml:"path"`

	// InMemory keeps the database in memory
	InMemory bool `mapstructure:"in_memory" yaml:"in_memory"`

	KeyPrefix  string `mapstructure:"key_prefix" yaml:"key_prefix"`
	SyncWrites bool   `mapstructure:"sync_writes" yaml:"sync_writes"`
}

// Describe returns a short description of the device for logs and reports,
// e.g. "file:/dev/sdb" or "s3:media/sd0/".
func (c DeviceConfig) Describe() string {
	switch c.Type {
	case DeviceFile:
		return c.Type + ":" + c.File.Path
	case DeviceS3:
		return c.Type + ":" + c.S3.Bucket + "/" + c.S3.KeyPrefix
	case DeviceBadger:
		if c.Badger.InMemory {
			return c.Type + ":memory"
		}
		return c.Type + ":" + c.Badger.Path
	default:
		return c.Type
	}
}

// CreateDevice creates the device described by cfg.
//
// The device is wrapped by device.Instrument so that every operation is
// traced and, when observer is non-nil, recorded.
func CreateDevice(ctx context.Context, cfg DeviceConfig, observer device.Observer) (*device.Instrumented, error) {
	capacity, err := cfg.Capacity.Blocks(device.BlockSize)
	if err != nil {
		return nil, fmt.Errorf("device capacity: %w", err)
	}

	var dev device.Device
	switch cfg.Type {
	case DeviceMemory:
		dev = memorydev.NewWithCapacity(capacity)

	case DeviceFile:
		dev, err = createFileDevice(cfg.File)

	case DeviceS3:
		dev, err = createS3Device(ctx, cfg.S3, capacity)

	case DeviceBadger:
		dev, err = badgerdev.New(badgerdev.Config{
			Path:       cfg.Badger.Path,
			InMemory:   cfg.Badger.InMemory,
			KeyPrefix:  cfg.Badger.KeyPrefix,
			SyncWrites: cfg.Badger.SyncWrites,
			Capacity:   capacity,
		})

	default:
		return nil, fmt.Errorf("unknown device type: %q", cfg.Type)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create %s device: %w", cfg.Type, err)
	}

	return device.Instrument(dev, cfg.Type, observer), nil
}

// createFileDevice opens an image file or device node.
func createFileDevice(cfg FileDeviceConfig) (device.Device, error) {
	mode := os.FileMode(cfg.FileMode)
	if mode == 0 {
		mode = DefaultFileMode
	}

	return filedev.New(filedev.Config{
		Path:       cfg.Path,
		Create:     cfg.Create,
		Size:       cfg.Size.Int64(),
		SyncWrites: cfg.SyncWrites,
		ReadOnly:   cfg.ReadOnly,
		FileMode:   mode,
		DropCache:  cfg.DropCache,
	})
}

// createS3Device creates an S3 device, building the client from cfg.
func createS3Device(ctx context.Context, cfg S3DeviceConfig, capacity uint64) (device.Device, error) {
	return s3dev.NewFromConfig(ctx, s3dev.Config{
		Bucket:          cfg.Bucket,
		Region:          cfg.Region,
		Endpoint:        cfg.Endpoint,
		KeyPrefix:       cfg.KeyPrefix,
		AccessKeyID:     cfg.AccessKeyID,
		SecretAccessKey: cfg.SecretAccessKey,
		ForcePathStyle:  cfg.ForcePathStyle,
		Capacity:        capacity,
	})
}
