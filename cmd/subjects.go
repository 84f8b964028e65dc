package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/LMSAIH/LangaraScraper/pkg/config"
	"github.com/LMSAIH/LangaraScraper/pkg/scraper"

	"github.com/charmbracelet/huh/spinner"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
)

var subjectsCmd = &cobra.Command{
	Use:   "subjects",
	Short: "List the subject codes offered in a term",
	Long:  `Fetch the subject codes (CPSC, MATH, ENGL...) offered by Langara College in the given term.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		term := resolveTerm(cmd, cfg)
		asJSON, _ := cmd.Flags().GetBool("json")

		client := newClient(cfg)
		var subjects []string

		_ = spinner.New().
			Title(fmt.Sprintf("Fetching subjects for %s %d...", term.Season(), term.Year)).
			Action(func() {
				subjects, err = client.FetchSubjects(cmd.Context(), term.Year, term.Code)
			}).
			Run()

		if err != nil {
			if errors.Is(err, scraper.ErrNoSubjectsFound) {
				return fmt.Errorf("no subjects found for term %s: %w", term, err)
			}
			return fmt.Errorf("failed to fetch subjects: %w", err)
		}

		if asJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(subjects)
		}

		titleStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("99")).Bold(true).Padding(1, 0)
		fmt.Println(titleStyle.Render(fmt.Sprintf("%d subjects offered in %s %d", len(subjects), term.Season(), term.Year)))
		for _, subject := range subjects {
			fmt.Println(subject)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(subjectsCmd)

	addTermFlags(subjectsCmd)
	subjectsCmd.Flags().Bool("json", false, "Print the subject codes as a JSON array")
}
