// File: /cmd/serve.go
package cmd

import (
	"context"
	"errors"
	"fitcrew-api/database"
	"fitcrew-api/jobs"
	"fitcrew-api/routes"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
)

var (
	flagAutoMigrate bool
	flagNoCron      bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		a, err := newApp(ctx)
		if err != nil {
			return err
		}
		defer a.close()

		if flagAutoMigrate {
			if err := database.Migrate(a.db, log); err != nil {
				return err
			}
		}

		a.mailer.Start()
		defer a.mailer.Stop()
		if !a.mailer.Enabled() {
			log.Warn("SMTP_HOST not set, emails will be skipped")
		}

		if !flagNoCron {
			streakJob, err := jobs.NewStreakJob(a.stats, cfg.StreakCron, log)
			if err != nil {
				return err
			}
			streakJob.Start()
			defer streakJob.Stop()
		}

		if cfg.IsProduction() {
			gin.SetMode(gin.ReleaseMode)
		}
		router := routes.NewRouter(a.svc, log)

		srv := &http.Server{
			Addr:              ":" + cfg.Port,
			Handler:           router,
			ReadHeaderTimeout: 10 * time.Second,
		}

		errCh := make(chan error, 1)
		go func() {
			log.WithField("port", cfg.Port).Info("Starting FitCrew API server")
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errCh <- err
			}
			close(errCh)
		}()

		select {
		case err := <-errCh:
			return err
		case <-ctx.Done():
		}

		log.Info("Shutting down server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		log.Info("Server stopped")
		return nil
	},
}

func init() {
	serveCmd.Flags().BoolVar(&flagAutoMigrate, "migrate", true, "Run migrations before serving")
	serveCmd.Flags().BoolVar(&flagNoCron, "no-cron", false, "Disable the scheduled streak job")
	rootCmd.AddCommand(serveCmd)
}
