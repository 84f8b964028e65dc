package cmd

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/LMSAIH/LangaraScraper/pkg/config"
	"github.com/LMSAIH/LangaraScraper/pkg/scraper"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "langara",
	Short: "A CLI and TUI for Langara College course registration data",
	Long: `langara scrapes the Langara College registration site for subjects and
course sections, exports timetables to .ics files and can serve the
scraped data over a small HTTP API.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		log.SetPrefix("[langara] ")
		return config.LoadEnv()
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

// newClient builds a scraper client against the configured registration host
func newClient(cfg *config.AppConfig) *scraper.Client {
	return scraper.NewClient(cfg.ResolveBaseURL())
}

// resolveTerm picks the term from flags, falling back to the saved default or the current term
func resolveTerm(cmd *cobra.Command, cfg *config.AppConfig) scraper.Term {
	term := cfg.Term(time.Now())
	if cmd.Flags().Changed("year") {
		term.Year, _ = cmd.Flags().GetInt("year")
	}
	if cmd.Flags().Changed("term") {
		term.Code, _ = cmd.Flags().GetInt("term")
	}
	return term
}

func addTermFlags(cmd *cobra.Command) {
	cmd.Flags().IntP("year", "y", 0, "Academic year (e.g. 2025)")
	cmd.Flags().IntP("term", "t", 0, "Term code: 10 (Spring), 20 (Summer), 30 (Fall)")
}
