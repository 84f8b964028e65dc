package cmd

import (
	"fmt"
	"strings"

	"github.com/LMSAIH/LangaraScraper/pkg/config"
	"github.com/LMSAIH/LangaraScraper/pkg/scraper"

	"github.com/charmbracelet/huh/spinner"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
)

var attributesCmd = &cobra.Command{
	Use:   "attributes",
	Short: "Show transfer and breadth attributes of courses",
	Long:  `Fetch the course attribute table (2AR, 2SC, HUM, LSC, SCI, SOC, UT) and print it, optionally for one subject only.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		subject, _ := cmd.Flags().GetString("subject")
		subject = strings.ToUpper(strings.TrimSpace(subject))

		client := newClient(cfg)
		var attrs []scraper.CourseAttributes

		_ = spinner.New().
			Title("Fetching course attributes...").
			Action(func() {
				attrs, err = client.FetchAttributes(cmd.Context())
			}).
			Run()

		if err != nil {
			return fmt.Errorf("failed to fetch course attributes: %w", err)
		}

		codeStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("99")).Bold(true)
		shown := 0
		for _, a := range attrs {
			if subject != "" && !strings.HasPrefix(a.Code, subject+" ") {
				continue
			}
			fmt.Printf("%s  %s\n", codeStyle.Render(a.Code), strings.Join(a.Attributes, " "))
			shown++
		}

		if shown == 0 {
			fmt.Println("No courses matched.")
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(attributesCmd)
	attributesCmd.Flags().StringP("subject", "s", "", "Only show courses of this subject (e.g. CPSC)")
}
