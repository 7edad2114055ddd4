package config

import "time"

// Storage backends
const (
	StorageMemory   = "memory"
	StoragePostgres = "postgres"
)

// Broker backends
const (
	BrokerMemory = "memory"
	BrokerNATS   = "nats"
)

// Authority modes
const (
	AuthorityLocal  = "local"
	AuthorityRemote = "remote"
)

// Config contains all application settings
type Config struct {
	BindPort      int    `mapstructure:"PORT" yaml:"port"`
	BindHost      string `mapstructure:"HOST" yaml:"host"`
	DatabaseURL   string `mapstructure:"DATABASE_URL" yaml:"database_url"`
	Storage       string `mapstructure:"STORAGE" yaml:"storage"`
	NATSServerURL string `mapstructure:"NATS_URL" yaml:"nats_url"`
	Broker        string `mapstructure:"BROKER" yaml:"broker"`
	AuthorityMode string `mapstructure:"AUTHORITY_MODE" yaml:"authority_mode"`
	JWTSecret     string `mapstructure:"JWT_SECRET" yaml:"jwt_secret"`

	CompanionStartURL      string        `mapstructure:"COMPANION_START_URL" yaml:"companion_start_url"`
	CompanionStopURL       string        `mapstructure:"COMPANION_STOP_URL" yaml:"companion_stop_url"`
	CompanionPauseURL      string        `mapstructure:"COMPANION_PAUSE_URL" yaml:"companion_pause_url"`
	CompanionResumeURL     string        `mapstructure:"COMPANION_RESUME_URL" yaml:"companion_resume_url"`
	CompanionRecordingsURL string        `mapstructure:"COMPANION_RECORDINGS_URL" yaml:"companion_recordings_url"`
	CompanionTimeout       time.Duration `mapstructure:"COMPANION_TIMEOUT" yaml:"companion_timeout"`

	CalendarAPIURL       string `mapstructure:"CALENDAR_API_URL" yaml:"calendar_api_url"`
	CalendarTokenURL     string `mapstructure:"CALENDAR_TOKEN_URL" yaml:"calendar_token_url"`
	CalendarClientID     string `mapstructure:"CALENDAR_CLIENT_ID" yaml:"calendar_client_id"`
	CalendarClientSecret string `mapstructure:"CALENDAR_CLIENT_SECRET" yaml:"calendar_client_secret"`

	WatchInterval time.Duration `mapstructure:"WATCH_INTERVAL" yaml:"watch_interval"`

	LogLevel string `mapstructure:"LOG_LEVEL" yaml:"log_level"`
	LogFile  string `mapstructure:"LOG_FILE" yaml:"log_file"`

	// Version
	BuildVersion string `yaml:"-"`
	BuildHash    string `yaml:"-"`
	BuildTime    string `yaml:"-"`
}
