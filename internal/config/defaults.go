package config

const (
	defaultArchiveDir  = "~/dvd-archive"
	defaultLogDir      = "~/.local/share/discrescue/logs"
	defaultHistoryPath = "~/.local/share/discrescue/history.db"
	defaultDevice      = "/dev/sr0"
	defaultWaitTimeout = 300
	defaultChunkBlocks = 128
	defaultDedup       = "auto"
	defaultLogFormat   = "console"
	defaultLogLevel    = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			ArchiveDir: defaultArchiveDir,
			LogDir:     defaultLogDir,
		},
		Drive: Drive{
			Device:      defaultDevice,
			WaitTimeout: defaultWaitTimeout,
		},
		Copy: Copy{
			ChunkBlocks: defaultChunkBlocks,
			Dedup:       defaultDedup,
		},
		History: History{
			Enabled: true,
			Path:    defaultHistoryPath,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
