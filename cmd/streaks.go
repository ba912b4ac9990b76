// File: /cmd/streaks.go
package cmd

import (
	"fitcrew-api/jobs"

	"github.com/spf13/cobra"
)

var streaksCmd = &cobra.Command{
	Use:   "streaks",
	Short: "Recompute every active user's workout streaks once",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.close()

		job, err := jobs.NewStreakJob(a.stats, cfg.StreakCron, log)
		if err != nil {
			return err
		}
		job.Run(cmd.Context())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(streaksCmd)
}
