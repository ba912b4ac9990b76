// File: /cmd/seed.go
package cmd

import (
	"fitcrew-api/database"

	"github.com/spf13/cobra"
)

var flagSeedUsers int

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Insert demo users, friendships, a group and workouts",
	Long: `Seed fills an empty database with generated demo data.
Every seeded account uses the password "` + database.SeedPassword + `".`,
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openDatabase()
		if err != nil {
			return err
		}
		if sqlDB, err := db.DB(); err == nil {
			defer sqlDB.Close()
		}
		if err := database.Migrate(db, log); err != nil {
			return err
		}
		return database.SeedData(db, flagSeedUsers, log)
	},
}

func init() {
	seedCmd.Flags().IntVar(&flagSeedUsers, "users", 8, "Number of demo users to create")
	rootCmd.AddCommand(seedCmd)
}
