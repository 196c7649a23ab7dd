package logger

// Console configures logging to stdout/stderr.
type Console struct {
	Enabled bool `mapstructure:"enabled"`
	// UseConsoleWriter switches from JSON lines to zerolog's human readable output.
	UseConsoleWriter bool `mapstructure:"useConsoleWriter"`
}

// RollingFile configures one lumberjack rotated log file.
type RollingFile struct {
	Name       string `mapstructure:"name"`
	MaxSize    int    `mapstructure:"maxSize"` // megabytes
	MaxBackups int    `mapstructure:"maxBackups"`
	MaxAge     int    `mapstructure:"maxAge"` // days
}

// LogFile configures file based logging, split by level.
type LogFile struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path"`

	Error RollingFile `mapstructure:"error"` // error, fatal and panic
	Info  RollingFile `mapstructure:"info"`  // debug and info
	Trace RollingFile `mapstructure:"trace"`
	Warn  RollingFile `mapstructure:"warn"`
}

// Log implements the logger config.
type Log struct {
	LogLevel     string `mapstructure:"logLevel"` // trace, debug, info, warn, error.
	ReportCaller bool   `mapstructure:"reportCaller"`

	AppName     string `mapstructure:"appName"`
	ServiceName string `mapstructure:"serviceName"`

	Console Console `mapstructure:"console"`
	File    LogFile `mapstructure:"file"`
}
