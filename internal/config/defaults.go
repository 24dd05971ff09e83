package config

const (
	defaultConfigPath     = "~/.config/rppreview/config.toml"
	defaultInputDir       = "."
	defaultOutputDir      = "./previews"
	defaultFormat         = "mp3"
	defaultStart          = 0.0
	defaultDuration       = 30.0
	defaultTimeout        = 300
	defaultStaleTempHours = 24
	defaultHistoryEnabled = true
	defaultHistoryPath    = "~/.local/share/rppreview/history.db"
	defaultLogFormat      = "console"
	defaultLogLevel       = "info"

	// EngineEnvVar names the environment fallback for engine.binary.
	EngineEnvVar = "REAPER_BIN"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			InputDir:  defaultInputDir,
			OutputDir: defaultOutputDir,
		},
		Render: Render{
			Format:         defaultFormat,
			Start:          defaultStart,
			Duration:       defaultDuration,
			Timeout:        defaultTimeout,
			StaleTempHours: defaultStaleTempHours,
		},
		History: History{
			Enabled: defaultHistoryEnabled,
			Path:    defaultHistoryPath,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
