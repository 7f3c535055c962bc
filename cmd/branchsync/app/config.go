package app

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/dakkemarket/branchsync/pkg/branches"
	"github.com/dakkemarket/branchsync/pkg/constants"
	"github.com/dakkemarket/branchsync/pkg/errors"
)

// Config holds the application configuration loaded from the branches config
// file, environment variables, and .env files.
type Config struct {
	// Global flags
	Verbose bool
	Quiet   bool
	Output  string

	// Config file
	ConfigFile string

	// Settings from the [settings] table
	APIKey         string
	TimeoutSeconds int
	RetryCount     int
	FetchLimit     int
	Workers        int

	// Configured branches, in file order
	Branches []BranchConfig

	// Logging configuration
	LogLevel  string
	LogFormat string
	LogOutput string
}

// BranchConfig is one [[branches]] entry from the config file.
type BranchConfig struct {
	Name      string `mapstructure:"name"`
	Address   string `mapstructure:"address"`
	Port      int    `mapstructure:"port"`
	Database  string `mapstructure:"database"`
	User      string `mapstructure:"user"`
	Password  string `mapstructure:"password"`
	Reference bool   `mapstructure:"reference"`
	Disabled  bool   `mapstructure:"disabled"`
}

// Timeout returns the per-request timeout as a duration.
func (c *Config) Timeout() time.Duration {
	if c.TimeoutSeconds <= 0 {
		return constants.DefaultHTTPTimeout
	}
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// BranchList converts the configured branches into registry entities. The
// first branch becomes the reference unless the file marks another one.
func (c *Config) BranchList() []*branches.Branch {
	list := make([]*branches.Branch, 0, len(c.Branches))
	for _, bc := range c.Branches {
		port := bc.Port
		if port == 0 {
			port = constants.DefaultPort
		}
		list = append(list, &branches.Branch{
			Name:        bc.Name,
			Address:     bc.Address,
			Port:        port,
			Database:    bc.Database,
			User:        bc.User,
			Password:    bc.Password,
			Enabled:     !bc.Disabled,
			IsReference: bc.Reference,
		})
	}
	return list
}

// LoadConfig loads configuration from all sources in order of precedence:
//  1. Command-line flags (handled by cobra)
//  2. Environment variables
//  3. .env files
//  4. Config file (branches.toml)
//  5. Defaults
func LoadConfig() (*Config, error) {
	// Load .env files first (before Viper env binding)
	loadEnvFiles()

	viper.AutomaticEnv()
	viper.SetEnvPrefix("BRANCHSYNC")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))

	viper.SetDefault("settings.timeout_seconds", int(constants.DefaultHTTPTimeout/time.Second))
	viper.SetDefault("settings.retry_count", constants.DefaultRetryCount)
	viper.SetDefault("settings.fetch_limit", constants.DefaultFetchLimit)
	viper.SetDefault("settings.workers", constants.DefaultWorkers)

	configFile := viper.GetString("config")
	if configFile != "" {
		viper.SetConfigFile(configFile)
	} else {
		viper.SetConfigName("branches")
		viper.SetConfigType("toml")
		viper.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			viper.AddConfigPath(filepath.Join(home, ".branchsync"))
		}
	}

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, errors.NewConfigError("config", "reading config file", err)
		}
	}

	config := &Config{
		Verbose: viper.GetBool("verbose"),
		Quiet:   viper.GetBool("quiet"),
		Output:  viper.GetString("output"),

		ConfigFile: viper.ConfigFileUsed(),

		APIKey:         viper.GetString("settings.api_key"),
		TimeoutSeconds: viper.GetInt("settings.timeout_seconds"),
		RetryCount:     viper.GetInt("settings.retry_count"),
		FetchLimit:     viper.GetInt("settings.fetch_limit"),
		Workers:        viper.GetInt("settings.workers"),

		LogLevel:  viper.GetString("log_level"),
		LogFormat: viper.GetString("log_format"),
		LogOutput: viper.GetString("log_output"),
	}

	if err := viper.UnmarshalKey("branches", &config.Branches); err != nil {
		return nil, errors.NewConfigError("branches", "parsing branch entries", err)
	}

	// The API key can come from the environment rather than the file, so it
	// stays out of world-readable configs.
	if config.APIKey == "" {
		config.APIKey = os.Getenv("BRANCHSYNC_API_KEY")
	}

	return config, nil
}

// Validate checks that the configuration can actually drive a sync.
func (c *Config) Validate() error {
	if len(c.Branches) == 0 {
		return errors.NewConfigError("branches", "no branches configured", nil)
	}
	seen := make(map[string]bool, len(c.Branches))
	for _, b := range c.Branches {
		if b.Name == "" {
			return errors.NewConfigError("branches", "branch with empty name", nil)
		}
		if seen[b.Name] {
			return errors.NewConfigError("branches", "duplicate branch name "+b.Name, nil)
		}
		seen[b.Name] = true
		if b.Address == "" {
			return errors.NewConfigError("branches", "branch "+b.Name+" has no address", nil)
		}
	}
	return nil
}

// loadEnvFiles loads .env files from the working directory if present.
func loadEnvFiles() {
	for _, file := range []string{".env.local", ".env"} {
		if _, err := os.Stat(file); err == nil {
			_ = godotenv.Load(file)
		}
	}
}
