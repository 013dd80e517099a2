package config

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"snapmirror/acquisition"
	"snapmirror/constants/lipgloss"
)

// Config represents the structure of the configuration file.
type Config struct {
	Version     string             `mapstructure:"version"`
	Cache       *CacheConfig       `mapstructure:"cache"`
	Acquisition *AcquisitionConfig `mapstructure:"acquisition"`
	Logging     *LoggingConfig     `mapstructure:"logging"`
}

// CacheConfig covers the snapshot cache and its persistence.
type CacheConfig struct {
	MaxAge      time.Duration `mapstructure:"max_age"`
	IdleRefresh bool          `mapstructure:"idle_refresh"`
	Persist     bool          `mapstructure:"persist"`
	Dir         string        `mapstructure:"dir"`
}

// AcquisitionConfig holds the tunable acquisition timing constants.
type AcquisitionConfig struct {
	MenuSettleDelay     time.Duration `mapstructure:"menu_settle_delay"`
	RetryBackoff        time.Duration `mapstructure:"retry_backoff"`
	SubmenuRescanLimit  int           `mapstructure:"submenu_rescan_limit"`
	ActionRetryAttempts int           `mapstructure:"action_retry_attempts"`
	SessionTimeout      time.Duration `mapstructure:"session_timeout"`
}

// Timings converts the configuration into the engine's timing set.
func (a *AcquisitionConfig) Timings() acquisition.Timings {
	return acquisition.Timings{
		MenuSettleDelay:     a.MenuSettleDelay,
		RetryBackoff:        a.RetryBackoff,
		SubmenuRescanLimit:  a.SubmenuRescanLimit,
		ActionRetryAttempts: a.ActionRetryAttempts,
		SessionTimeout:      a.SessionTimeout,
	}
}

// LoggingConfig controls the logrus setup.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Output string `mapstructure:"output"`
}

// DefaultConfig values.
var DefaultConfig = Config{
	Version: "0.3.0",
	Cache: &CacheConfig{
		MaxAge:      5 * time.Minute,
		IdleRefresh: true,
		Persist:     true,
		Dir:         "",
	},
	Acquisition: &AcquisitionConfig{
		MenuSettleDelay:     200 * time.Millisecond,
		RetryBackoff:        200 * time.Millisecond,
		SubmenuRescanLimit:  3,
		ActionRetryAttempts: 5,
		SessionTimeout:      10 * time.Second,
	},
	Logging: &LoggingConfig{
		Level:  "info",
		Format: "text",
		Output: "stderr",
	},
}

// cfgFile holds the path to the configuration file (set via CLI).
var cfgFile string

// LoadConfigs initializes the configuration from file, flags, and environment
// variables, and returns the final config.
func LoadConfigs(rootCmd *cobra.Command, cwd string) *Config {
	var config *Config

	setDefaults()

	viper.AutomaticEnv()
	bindEnv()

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
		if err := viper.ReadInConfig(); err != nil {
			fmt.Println(lipgloss.Red.Render(fmt.Sprintf("Error reading config file: %v", err)))
			os.Exit(1)
		}
	} else {
		viper.SetConfigName("snapmirror-config")
		viper.AddConfigPath(cwd)

		viper.SetConfigType("yaml")
		if err := viper.ReadInConfig(); err != nil {
			viper.SetConfigType("json")
			if err := viper.ReadInConfig(); err != nil {
				fmt.Println(lipgloss.Yellow.Render("No configuration file found, using defaults"))
			}
		}
	}

	bindFlags(rootCmd)

	if err := viper.Unmarshal(&config); err != nil {
		fmt.Println(lipgloss.Red.Render(fmt.Sprintf("Unable to decode into struct: %v", err)))
		os.Exit(1)
	}

	return config
}

// setDefaults sets all default configuration values.
func setDefaults() {
	viper.SetDefault("version", DefaultConfig.Version)
	viper.SetDefault("cache.max_age", DefaultConfig.Cache.MaxAge)
	viper.SetDefault("cache.idle_refresh", DefaultConfig.Cache.IdleRefresh)
	viper.SetDefault("cache.persist", DefaultConfig.Cache.Persist)
	viper.SetDefault("cache.dir", DefaultConfig.Cache.Dir)
	viper.SetDefault("acquisition.menu_settle_delay", DefaultConfig.Acquisition.MenuSettleDelay)
	viper.SetDefault("acquisition.retry_backoff", DefaultConfig.Acquisition.RetryBackoff)
	viper.SetDefault("acquisition.submenu_rescan_limit", DefaultConfig.Acquisition.SubmenuRescanLimit)
	viper.SetDefault("acquisition.action_retry_attempts", DefaultConfig.Acquisition.ActionRetryAttempts)
	viper.SetDefault("acquisition.session_timeout", DefaultConfig.Acquisition.SessionTimeout)
	viper.SetDefault("logging.level", DefaultConfig.Logging.Level)
	viper.SetDefault("logging.format", DefaultConfig.Logging.Format)
	viper.SetDefault("logging.output", DefaultConfig.Logging.Output)
}

// bindEnv explicitly binds environment variables to configuration keys.
func bindEnv() {
	_ = viper.BindEnv("cache.max_age", "SNAPMIRROR_CACHE_MAX_AGE")
	_ = viper.BindEnv("cache.idle_refresh", "SNAPMIRROR_CACHE_IDLE_REFRESH")
	_ = viper.BindEnv("cache.persist", "SNAPMIRROR_CACHE_PERSIST")
	_ = viper.BindEnv("cache.dir", "SNAPMIRROR_CACHE_DIR")
	_ = viper.BindEnv("acquisition.session_timeout", "SNAPMIRROR_SESSION_TIMEOUT")
	_ = viper.BindEnv("logging.level", "SNAPMIRROR_LOG_LEVEL")
	_ = viper.BindEnv("logging.format", "SNAPMIRROR_LOG_FORMAT")
	_ = viper.BindEnv("logging.output", "SNAPMIRROR_LOG_OUTPUT")
}

// bindFlags binds the CLI flags to configuration values.
func bindFlags(rootCmd *cobra.Command) {
	_ = viper.BindPFlag("cache.max_age", rootCmd.PersistentFlags().Lookup("cache_max_age"))
	_ = viper.BindPFlag("cache.idle_refresh", rootCmd.PersistentFlags().Lookup("idle_refresh"))
	_ = viper.BindPFlag("cache.persist", rootCmd.PersistentFlags().Lookup("persist_cache"))
	_ = viper.BindPFlag("cache.dir", rootCmd.PersistentFlags().Lookup("cache_dir"))
	_ = viper.BindPFlag("acquisition.session_timeout", rootCmd.PersistentFlags().Lookup("session_timeout"))
	_ = viper.BindPFlag("logging.level", rootCmd.PersistentFlags().Lookup("log_level"))
}

// InitFlags initializes the flags for the root command.
func InitFlags(rootCmd *cobra.Command) {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "Specifies the path to a configuration file (JSON or YAML) that contains all the settings for the application.")

	rootCmd.PersistentFlags().Duration("cache_max_age", DefaultConfig.Cache.MaxAge, "Time a cached project snapshot stays fresh before a refetch is needed.")
	rootCmd.PersistentFlags().Bool("idle_refresh", DefaultConfig.Cache.IdleRefresh, "Enable background refresh of stale snapshots during idle periods.")
	rootCmd.PersistentFlags().Bool("persist_cache", DefaultConfig.Cache.Persist, "Persist snapshots to disk so a restart resumes with warm caches.")
	rootCmd.PersistentFlags().String("cache_dir", DefaultConfig.Cache.Dir, "Directory for the persisted snapshot store (default '.snapmirror-cache' in the working directory).")
	rootCmd.PersistentFlags().Duration("session_timeout", DefaultConfig.Acquisition.SessionTimeout, "Overall timeout for one snapshot acquisition session.")
	rootCmd.PersistentFlags().String("log_level", DefaultConfig.Logging.Level, "Log level (e.g., 'debug', 'info', 'warn', 'error').")

	rootCmd.Flags().BoolP("version", "v", false, "Specifies the version of the application.")
}
