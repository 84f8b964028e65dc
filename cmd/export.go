package cmd

import (
	"fmt"
	"strings"

	"github.com/LMSAIH/LangaraScraper/pkg/config"
	"github.com/LMSAIH/LangaraScraper/pkg/exporter"
	"github.com/LMSAIH/LangaraScraper/pkg/scraper"

	"github.com/charmbracelet/huh/spinner"
	"github.com/spf13/cobra"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Directly export a timetable to an ICS file",
	Long:  `Export the chosen sections (by CRN) to an ICS file without using the interactive TUI.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		term := resolveTerm(cmd, cfg)

		subjects, _ := cmd.Flags().GetStringSlice("subjects")
		crns, _ := cmd.Flags().GetStringSlice("crn")
		output, _ := cmd.Flags().GetString("output")

		if len(crns) == 0 {
			return fmt.Errorf("no CRNs given; pass --crn with the sections to export")
		}
		if !strings.HasSuffix(output, ".ics") {
			output += ".ics"
		}
		for i, s := range subjects {
			subjects[i] = strings.ToUpper(strings.TrimSpace(s))
		}

		client := newClient(cfg)
		var courses []scraper.Course

		_ = spinner.New().
			Title(fmt.Sprintf("Exporting %d section(s) from %s to %s...", len(crns), term, output)).
			Action(func() {
				courses, err = client.FetchCourses(cmd.Context(), term, subjects)
			}).
			Run()

		if err != nil {
			return fmt.Errorf("failed to fetch courses: %w", err)
		}

		sections := scraper.FilterSections(courses, crns)
		if len(sections) == 0 {
			return fmt.Errorf("none of the CRNs %s were found in %s", strings.Join(crns, ", "), term)
		}

		if err := exporter.WriteICSFile(output, term, sections); err != nil {
			return fmt.Errorf("failed to generate ICS: %w", err)
		}

		fmt.Printf("Successfully exported %d sections to %s\n", len(sections), output)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(exportCmd)

	addTermFlags(exportCmd)
	exportCmd.Flags().StringSliceP("subjects", "s", nil, "Subjects the sections belong to (e.g. CPSC,MATH)")
	exportCmd.Flags().StringSlice("crn", nil, "CRNs of the sections to export")
	exportCmd.Flags().StringP("output", "o", "timetable.ics", "Output file path")
	exportCmd.MarkFlagRequired("subjects")
	exportCmd.MarkFlagRequired("crn")
}
