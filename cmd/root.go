// File: /cmd/root.go
package cmd

import (
	"fitcrew-api/config"
	"fitcrew-api/logger"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	flagLogLevel string

	cfg *config.Config
	log *logrus.Logger
)

var rootCmd = &cobra.Command{
	Use:   "fitcrew",
	Short: "FitCrew API server and maintenance commands",
	Long: `FitCrew is a social fitness-tracking backend.

Commands:
  fitcrew serve      Run the HTTP API
  fitcrew migrate    Create or update the database schema
  fitcrew seed       Insert demo users, friendships and workouts
  fitcrew streaks    Recompute workout streaks once`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load()
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		if flagLogLevel != "" {
			cfg.LogLevel = flagLogLevel
		}
		log = logger.New(cfg.LogLevel, cfg.Environment)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "Override LOG_LEVEL (debug, info, warn, error)")
}

// Execute runs the root command.
func Execute() error {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return err
	}
	return nil
}
