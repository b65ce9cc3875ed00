package logger

// Console implements a console based logger.
type Console struct {
	Enabled          bool `mapstructure:"enabled" json:"enabled"`
	UseConsoleWriter bool `mapstructure:"useConsoleWriter" json:"useConsoleWriter"`
}

// Rotation holds the lumberjack limits of one log file.
type Rotation struct {
	MaxSize    int `mapstructure:"maxSize" json:"maxSize"`       // megabytes
	MaxBackups int `mapstructure:"maxBackups" json:"maxBackups"` // rotated files kept
	MaxAge     int `mapstructure:"maxAge" json:"maxAge"`         // days
}

// LogFile implements a file based logger, one rolling file per level group.
type LogFile struct {
	Enabled bool   `mapstructure:"enabled" json:"enabled"`
	Path    string `mapstructure:"path" json:"path"`

	AccessLog string   `mapstructure:"access" json:"access"`
	Access    Rotation `mapstructure:"accessRotation" json:"accessRotation"`

	ErrorLog string   `mapstructure:"error" json:"error"`
	Error    Rotation `mapstructure:"errorRotation" json:"errorRotation"`

	InfoLog string   `mapstructure:"info" json:"info"`
	Info    Rotation `mapstructure:"infoRotation" json:"infoRotation"`

	TraceLog string   `mapstructure:"trace" json:"trace"`
	Trace    Rotation `mapstructure:"traceRotation" json:"traceRotation"`

	WarnLog string   `mapstructure:"warn" json:"warn"`
	Warn    Rotation `mapstructure:"warnRotation" json:"warnRotation"`
}

// Log implements the logger config.
type Log struct {
	LogLevel string `mapstructure:"logLevel" json:"logLevel"` // trace, debug, info, warn, error.
	LogEnv   string `mapstructure:"logEnv" json:"logEnv"`

	// EnableAccessLogToConsole writes the http access log to the console.
	// Does not overrule Console.Enabled.
	EnableAccessLogToConsole bool `mapstructure:"enableAccessLogToConsole" json:"enableAccessLogToConsole"`
	ReportCaller             bool `mapstructure:"reportCaller" json:"reportCaller"`
	DisableCheckAlive        bool `mapstructure:"disableCheckAlive" json:"disableCheckAlive"` // do not log /checkalive calls

	// SQLLevel is the level gorm statements are logged at; empty silences them.
	SQLLevel string `mapstructure:"sqlLevel" json:"sqlLevel"`

	AppName     string `mapstructure:"appName" json:"appName"`
	ServiceName string `mapstructure:"serviceName" json:"serviceName"`

	Console Console `mapstructure:"console" json:"console"`
	File    LogFile `mapstructure:"file" json:"file"`
}
