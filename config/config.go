package config

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/angas/essentwatch-go/logging"
	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

type AppConfigApi struct {
	Address string
	Port    int16
	// If assigned, the server serves static files from this directory
	// instead of the embedded ones. Useful for development.
	WwwDir *string `mapstructure:"www_dir"`
}

type AppConfigDatabase struct {
	Path string
	// How many days tariff data is kept before it gets purged
	DataRetentionDays *int `mapstructure:"data_retention_days"`
	// How many days daily backup files are kept before they get deleted
	BackupRetentionDays *int `mapstructure:"backup_retention_days"`
}

func (d AppConfigDatabase) GetDataRetentionDays() int {
	if d.DataRetentionDays == nil {
		return 90
	}
	return *d.DataRetentionDays
}

func (d AppConfigDatabase) GetBackupRetentionDays() int {
	if d.BackupRetentionDays == nil {
		return 90
	}
	return *d.BackupRetentionDays
}

type AppConfigEssent struct {
	// Override for the production tariff endpoint, mainly for testing
	BaseUrl *string `mapstructure:"base_url"`
	// Per-fetch timeout in seconds, default: 10
	TimeoutSeconds *int `mapstructure:"timeout_seconds"`
	// Cron spec for the price fetch, default: a few minutes past every hour
	RunAt *string `mapstructure:"run_at"`
}

func (e AppConfigEssent) GetBaseUrl() string {
	if e.BaseUrl == nil {
		return ""
	}
	return *e.BaseUrl
}

func (e AppConfigEssent) GetTimeout() time.Duration {
	if e.TimeoutSeconds == nil {
		return 10 * time.Second
	}
	return time.Duration(*e.TimeoutSeconds) * time.Second
}

func (e AppConfigEssent) GetRunAt() string {
	if e.RunAt == nil {
		return "5 * * * *"
	}
	return *e.RunAt
}

type AppConfigMqtt struct {
	Host     string // Leave empty to disable MQTT publishing
	Port     int16
	Username string
	Password string
	// Prefix for the per-commodity price topics, default: "essentwatch/prices"
	TopicPrefix *string `mapstructure:"topic_prefix"`
}

func (m AppConfigMqtt) Enabled() bool {
	return m.Host != ""
}

func (m AppConfigMqtt) GetTopicPrefix() string {
	if m.TopicPrefix == nil {
		return "essentwatch/prices"
	}
	return *m.TopicPrefix
}

type AppConfigLogging struct {
	// Min log level for database : "DEBUG", "INFO", "WARN", "ERROR", default: "INFO"
	DbLevel *string `mapstructure:"db_level"`
	// Log attributes format: "TEXT", "JSON", default: "JSON"
	DbAttrsFormat *string `mapstructure:"db_attrs_format"`
	// Maximum number of log entries in the database, default: 10000
	DbMaxEntries *int `mapstructure:"db_max_entries"`
	// Min log level for console: "DEBUG", "INFO", "WARN", "ERROR", default: "INFO"
	ConsoleLevel *string `mapstructure:"console_level"`
}

func (l AppConfigLogging) GetDbLevel() slog.Level {
	return logging.LevelFromString(l.DbLevel)
}

func (l AppConfigLogging) GetDbAttrsFormat() logging.LogAttrFormat {
	if l.DbAttrsFormat == nil {
		return "JSON"
	}
	if strings.EqualFold(*l.DbAttrsFormat, "text") {
		return "TEXT"
	}
	return "JSON"
}

func (l AppConfigLogging) GetDbMaxEntries() int {
	if l.DbMaxEntries == nil {
		return 10000
	}
	return *l.DbMaxEntries
}

func (l AppConfigLogging) GetConsoleLevel() slog.Level {
	return logging.LevelFromString(l.ConsoleLevel)
}

type AppConfig struct {
	Api      AppConfigApi
	Database AppConfigDatabase
	Essent   AppConfigEssent
	Mqtt     AppConfigMqtt
	Logging  AppConfigLogging
}

func Load(path string) (*AppConfig, error) {
	if path != "" {
		viper.SetConfigFile(path)
	} else {
		viper.AddConfigPath("config")
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
	}
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	var c AppConfig

	if err := viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("unable to read config file: %w", err)
	}

	if err := viper.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unable to unmarshal config file: %w", err)
	}

	return &c, nil
}

// Watch reloads the config file on change and hands the fresh config to
// onChange. Only settings read per-task (retention, cron specs are picked
// up on next restart) take effect without a restart.
func Watch(logger *slog.Logger, onChange func(*AppConfig)) {
	viper.OnConfigChange(func(e fsnotify.Event) {
		logger.Info("config file changed", slog.String("file", e.Name))
		var c AppConfig
		if err := viper.Unmarshal(&c); err != nil {
			logger.Error("unable to unmarshal changed config", slog.Any("error", err))
			return
		}
		onChange(&c)
	})
	viper.WatchConfig()
}
