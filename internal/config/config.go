package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	StorageMongoDB = "mongodb"
	StorageBadger  = "badger"
	StorageSQLite  = "sqlite"

	OracleLocal = "local"
	OracleHTTP  = "http"

	PayoutLedger = "ledger"
	PayoutHTTP   = "http"
)

// Config holds all configuration for the application
type Config struct {
	Server    ServerConfig
	Storage   StorageConfig
	MongoDB   MongoDBConfig
	JWT       JWTConfig
	Admin     AdminConfig
	Oracle    OracleConfig
	Payout    PayoutConfig
	Scheduler SchedulerConfig
	LogLevel  string
}

// ServerConfig holds server-specific configuration
type ServerConfig struct {
	Port         string
	AllowedHosts []string
}

// StorageConfig selects the persistence engine
type StorageConfig struct {
	Type    string
	DataDir string // empty keeps badger in memory
}

// MongoDBConfig holds MongoDB-specific configuration
type MongoDBConfig struct {
	URI      string
	Database string
}

// JWTConfig holds JWT-specific configuration
type JWTConfig struct {
	Secret    string
	ExpiresIn int // seconds
}

// AdminConfig lists the addresses allowed to create rounds and change the fee recipient
type AdminConfig struct {
	Addresses []string
}

// OracleConfig holds randomness oracle configuration
type OracleConfig struct {
	Type    string
	Address string // identity the oracle fulfils as
	Delay   time.Duration
	BaseURL string
	APIKey  string
	// CallbackKeyHash is the bcrypt hash of the key the remote oracle
	// presents when delivering randomness
	CallbackKeyHash string
}

// PayoutConfig holds funds transport configuration
type PayoutConfig struct {
	Type    string
	BaseURL string
	APIKey  string
}

// SchedulerConfig controls the automatic draw keeper
type SchedulerConfig struct {
	AutoDraw bool
}

// LoadConfig loads a .env file from path when present, then configuration
// from environment variables and an optional config.yaml
func LoadConfig(path string) (*Config, error) {
	if err := loadEnvFile(path); err != nil {
		return nil, err
	}

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(path)
	v.AddConfigPath("./config")
	v.SetEnvPrefix("LOTTERY")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		// It's okay if config file is not found, we'll use environment variables
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, err
	}
	// lists given through the environment arrive as one comma separated value
	config.Admin.Addresses = splitList(v.GetStringSlice("Admin.Addresses"))
	config.Server.AllowedHosts = splitList(v.GetStringSlice("Server.AllowedHosts"))

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &config, nil
}

// Validate rejects unsupported engine selections and missing secrets
func (c *Config) Validate() error {
	switch c.Storage.Type {
	case StorageMongoDB, StorageBadger, StorageSQLite:
	default:
		return fmt.Errorf("unsupported storage type %q", c.Storage.Type)
	}
	switch c.Oracle.Type {
	case OracleLocal:
	case OracleHTTP:
		if c.Oracle.BaseURL == "" {
			return errors.New("oracle base url is required for the http oracle")
		}
		if c.Oracle.CallbackKeyHash == "" {
			return errors.New("oracle callback key hash is required for the http oracle")
		}
	default:
		return fmt.Errorf("unsupported oracle type %q", c.Oracle.Type)
	}
	switch c.Payout.Type {
	case PayoutLedger:
	case PayoutHTTP:
		if c.Payout.BaseURL == "" {
			return errors.New("payout base url is required for the http transport")
		}
	default:
		return fmt.Errorf("unsupported payout type %q", c.Payout.Type)
	}
	if c.JWT.Secret == "" {
		return errors.New("jwt secret is required")
	}
	if c.Oracle.Address == "" {
		return errors.New("oracle address is required")
	}
	return nil
}

// setDefaults sets default values for configuration
func setDefaults(v *viper.Viper) {
	v.SetDefault("Server.Port", "4000")
	v.SetDefault("Server.AllowedHosts", []string{"localhost:3000"})
	v.SetDefault("Storage.Type", StorageBadger)
	v.SetDefault("Storage.DataDir", "")
	v.SetDefault("MongoDB.URI", "mongodb://localhost:27017")
	v.SetDefault("MongoDB.Database", "lottery")
	// every key needs a default so AutomaticEnv values reach Unmarshal
	v.SetDefault("JWT.Secret", "")
	v.SetDefault("JWT.ExpiresIn", 24*60*60) // 24 hours
	v.SetDefault("Admin.Addresses", []string{})
	v.SetDefault("Oracle.Type", OracleLocal)
	v.SetDefault("Oracle.Address", "oracle")
	v.SetDefault("Oracle.Delay", 2*time.Second)
	v.SetDefault("Oracle.BaseURL", "")
	v.SetDefault("Oracle.APIKey", "")
	v.SetDefault("Oracle.CallbackKeyHash", "")
	v.SetDefault("Payout.Type", PayoutLedger)
	v.SetDefault("Payout.BaseURL", "")
	v.SetDefault("Payout.APIKey", "")
	v.SetDefault("Scheduler.AutoDraw", true)
	v.SetDefault("LogLevel", "info")
}

func splitList(values []string) []string {
	result := make([]string, 0, len(values))
	for _, v := range values {
		for _, part := range strings.Split(v, ",") {
			if part = strings.TrimSpace(part); part != "" {
				result = append(result, part)
			}
		}
	}
	return result
}
