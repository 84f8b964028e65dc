package cmd

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/LMSAIH/LangaraScraper/internal/server"
	"github.com/LMSAIH/LangaraScraper/pkg/config"

	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve scraped course data over HTTP",
	Long: `Start the JSON API. The current term is scraped on startup and
refreshed every hour unless --no-refresh is given.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}

		port, _ := cmd.Flags().GetString("port")
		if env := os.Getenv("PORT"); env != "" && !cmd.Flags().Changed("port") {
			port = env
		}
		noRefresh, _ := cmd.Flags().GetBool("no-refresh")

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		srv := server.New(newClient(cfg).WithoutCache())

		if !noRefresh {
			sched, err := server.NewScheduler(srv)
			if err != nil {
				return err
			}
			if err := sched.Start(); err != nil {
				return err
			}
			defer sched.Stop()

			go func() {
				snap, err := srv.Refresh(ctx)
				if err != nil && ctx.Err() == nil {
					log.Printf("Initial refresh failed: %v", err)
					return
				}
				if err == nil {
					log.Printf("Initial refresh stored %d courses for %s", len(snap.Courses), snap.Term)
				}
			}()
		}

		if err := srv.ListenAndServe(ctx, ":"+port); err != nil && err != context.Canceled {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringP("port", "p", "8080", "Port to listen on (PORT env var also honoured)")
	serveCmd.Flags().Bool("no-refresh", false, "Disable the startup scrape and hourly refresh")
}
