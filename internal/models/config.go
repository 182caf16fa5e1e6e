package models

import (
	"fmt"
	"time"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
)

type CloudStorageConfig struct {
	Provider   string `mapstructure:"provider"`
	Region     string `mapstructure:"region"`
	BucketName string `mapstructure:"bucket_name"`
}

type Config struct {
	Seed               int           `mapstructure:"seed"`
	StartDate          time.Time     `mapstructure:"start_date"`
	EndDate            time.Time     `mapstructure:"end_date"`
	SessionCount       int           `mapstructure:"session_count"`
	InitialRestaurants int           `mapstructure:"initial_restaurants"`
	InitialDiners      int           `mapstructure:"initial_diners"`
	MinMenuItems       int           `mapstructure:"min_menu_items"`
	MaxMenuItems       int           `mapstructure:"max_menu_items"`
	TickInterval       time.Duration `mapstructure:"tick_interval"` // re-projection cadence
	BrowseProbability  float64       `mapstructure:"browse_probability"`
	AddToCartRate      float64       `mapstructure:"add_to_cart_rate"`

	KafkaEnabled      bool               `mapstructure:"kafka_enabled"`
	KafkaBrokerList   string             `mapstructure:"kafka_broker_list"`
	OutputFormat      string             `mapstructure:"output_format"` // console, json, parquet
	OutputPath        string             `mapstructure:"output_path"`
	OutputFolder      string             `mapstructure:"output_folder"`
	OutputDestination string             `mapstructure:"output_destination"` // local or cloud
	CloudStorage      CloudStorageConfig `mapstructure:"cloud_storage"`

	DatabaseURL     string `mapstructure:"database_url"`
	PostgresEnabled bool   `mapstructure:"postgres_enabled"`
}

// LoadConfig initializes and reads the configuration using Viper
func LoadConfig(cfgFile string) (*Config, error) {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		// Default config location
		viper.AddConfigPath("examples")
		viper.SetConfigName("config")
		viper.SetConfigType("json")
	}

	viper.AutomaticEnv() // Read in environment variables that match

	viper.SetDefault("seed", 42)
	viper.SetDefault("session_count", 10)
	viper.SetDefault("initial_restaurants", 20)
	viper.SetDefault("initial_diners", 50)
	viper.SetDefault("min_menu_items", 8)
	viper.SetDefault("max_menu_items", 24)
	viper.SetDefault("tick_interval", "60s")
	viper.SetDefault("browse_probability", 0.7)
	viper.SetDefault("add_to_cart_rate", 0.3)
	viper.SetDefault("output_format", "console")
	viper.SetDefault("output_destination", "local")
	viper.SetDefault("start_date", time.Now().Format(time.RFC3339))

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	decoderConfigOption := viper.DecoderConfigOption(func(config *mapstructure.DecoderConfig) {
		config.DecodeHook = mapstructure.ComposeDecodeHookFunc(
			config.DecodeHook,
			mapstructure.StringToTimeHookFunc(time.RFC3339),
			mapstructure.StringToTimeDurationHookFunc(),
		)
	})
	if err := viper.Unmarshal(&config, decoderConfigOption); err != nil {
		return nil, fmt.Errorf("unable to decode into struct, %w", err)
	}

	if err := config.validate(); err != nil {
		return nil, err
	}
	return &config, nil
}

func (cfg *Config) validate() error {
	if cfg.TickInterval <= 0 {
		return fmt.Errorf("tick_interval must be positive, got %s", cfg.TickInterval)
	}
	if cfg.SessionCount < 0 {
		return fmt.Errorf("session_count must not be negative, got %d", cfg.SessionCount)
	}
	switch cfg.OutputFormat {
	case "console", "json", "csv", "parquet":
	default:
		return fmt.Errorf("unsupported output format: %s", cfg.OutputFormat)
	}
	if cfg.EndDate.IsZero() {
		cfg.EndDate = cfg.StartDate.Add(2 * time.Hour)
	}
	return nil
}
