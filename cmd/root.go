package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/dishcovery/dishcovery/internal/models"
	"github.com/dishcovery/dishcovery/internal/simulation"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "dishcovery",
	Short: "Replays personalized menu browsing sessions with dynamic pricing",
	Long: `dishcovery simulates diners browsing restaurant menus: each session filters
and ranks a generated catalog against the diner's dietary, spice and category
preferences, re-prices every item on a fixed cadence as the clock moves through
peak and off-peak hours, and streams projection and cart events to the
configured output.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := models.LoadConfig(cfgFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
			os.Exit(1)
		}

		sim := simulation.NewSimulator(cfg)
		if err := sim.Run(); err != nil {
			fmt.Fprintf(os.Stderr, "Simulation failed: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.dishcovery.yaml)")

	rootCmd.Flags().Int("seed", 42, "Random seed for data generation")
	rootCmd.Flags().String("start-date", time.Now().Format(time.RFC3339), "Start of the browsing window")
	rootCmd.Flags().String("end-date", time.Now().Add(13*time.Hour).Format(time.RFC3339), "End of the browsing window")
	rootCmd.Flags().Int("session-count", 10, "Number of browsing sessions to replay")
	rootCmd.Flags().Int("initial-restaurants", 20, "Number of restaurants to generate")
	rootCmd.Flags().Int("initial-diners", 50, "Number of diners to generate")
	rootCmd.Flags().Duration("tick-interval", 60*time.Second, "Re-projection cadence")
	rootCmd.Flags().Float64("add-to-cart-rate", 0.3, "Per-minute probability a diner adds an item")
	rootCmd.Flags().Bool("kafka-enabled", false, "Enable Kafka output")
	rootCmd.Flags().String("kafka-broker-list", "localhost:9092", "Kafka broker list")
	rootCmd.Flags().String("output-format", "console", "Output format (console, json, csv, parquet)")
	rootCmd.Flags().String("output-path", "", "Output base path (if not using Kafka)")
	rootCmd.Flags().String("output-folder", "events", "Folder under the output path")
	rootCmd.Flags().Bool("postgres-enabled", false, "Seed and load catalogs through Postgres")
	rootCmd.Flags().String("database-url", "", "Postgres connection string")

	// flag names use dashes, config keys use underscores
	flagKeys := map[string]string{
		"seed":                "seed",
		"start-date":          "start_date",
		"end-date":            "end_date",
		"session-count":       "session_count",
		"initial-restaurants": "initial_restaurants",
		"initial-diners":      "initial_diners",
		"tick-interval":       "tick_interval",
		"add-to-cart-rate":    "add_to_cart_rate",
		"kafka-enabled":       "kafka_enabled",
		"kafka-broker-list":   "kafka_broker_list",
		"output-format":       "output_format",
		"output-path":         "output_path",
		"output-folder":       "output_folder",
		"postgres-enabled":    "postgres_enabled",
		"database-url":        "database_url",
	}
	for flag, key := range flagKeys {
		viper.BindPFlag(key, rootCmd.Flags().Lookup(flag))
	}
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		cobra.CheckErr(err)

		viper.AddConfigPath(home)
		viper.SetConfigType("yaml")
		viper.SetConfigName(".dishcovery")
	}

	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
