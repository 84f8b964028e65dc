package cmd

import (
	"fmt"

	"github.com/LMSAIH/LangaraScraper/pkg/config"
	"github.com/LMSAIH/LangaraScraper/pkg/scraper"
	"github.com/LMSAIH/LangaraScraper/pkg/tui"

	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage langara configuration",
	Long:  "View or edit your local configuration settings (registration host, default term, theme).",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}

		baseURL, _ := cmd.Flags().GetString("base-url")
		termStr, _ := cmd.Flags().GetString("term")

		if baseURL == "" && termStr == "" {
			return tui.RunConfigTUI()
		}

		if baseURL != "" {
			cfg.BaseURL = scraper.NewClient(baseURL).BaseURL()
		}
		if termStr != "" {
			term, err := scraper.ParseTerm(termStr)
			if err != nil {
				return err
			}
			cfg.DefaultYear, cfg.DefaultTerm = term.Year, term.Code
		}

		if err := config.Save(cfg); err != nil {
			return err
		}

		fmt.Println("✅ Configuration saved to ~/.langara.json")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.Flags().String("base-url", "", "Registration host to scrape (default https://swing.langara.bc.ca)")
	configCmd.Flags().String("term", "", "Default term in <year><code> form, e.g. 202530")
}
