package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

const configHeader = `# helocheck configuration
#
# Every key can be overridden by an environment variable, e.g.
#   HELOCHECK_DEVICE_FILE_PATH=/dev/mmcblk0
#   HELOCHECK_SCAN_ORDER=random
#
# Device types: memory, file, s3, badger
# Scan orders:  sequential, reverse, random

`

// InitConfig writes the default configuration to the default location and
// returns its path. An existing file is only replaced when force is set.
func InitConfig(force bool) (string, error) {
	path := GetDefaultConfigPath()
	return path, InitConfigToPath(path, force)
}

// InitConfigToPath writes the default configuration to path.
func InitConfigToPath(path string, force bool) error {
	if !force {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("configuration file already exists: %s (use --force to overwrite)", path)
		}
	}

	data, err := yaml.Marshal(GetDefaultConfig())
	if err != nil {
		return fmt.Errorf("failed to marshal default config: %w", err)
	}

	return writeConfigFile(path, append([]byte(configHeader), data...))
}
