package config

import (
	"errors"
	"fmt"
	"strings"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateDrive(); err != nil {
		return err
	}
	if err := c.validateCopy(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateDrive() error {
	if !strings.HasPrefix(c.Drive.Device, "/dev/") {
		return fmt.Errorf("drive.device %q must be a device node under /dev", c.Drive.Device)
	}
	if c.Drive.WaitTimeout <= 0 {
		return errors.New("drive.wait_timeout must be positive (seconds)")
	}
	return nil
}

func (c *Config) validateCopy() error {
	if c.Copy.ChunkBlocks <= 0 {
		return errors.New("copy.chunk_blocks must be positive")
	}
	switch c.Copy.Dedup {
	case "auto", "hardlink", "copy":
	default:
		return fmt.Errorf("copy.dedup %q must be one of auto, hardlink, copy", c.Copy.Dedup)
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level %q must be one of debug, info, warn, error", c.Logging.Level)
	}
	return nil
}
