package cmd

import (
	"fmt"
	"strings"

	"github.com/LMSAIH/LangaraScraper/pkg/config"
	"github.com/LMSAIH/LangaraScraper/pkg/scraper"

	"github.com/charmbracelet/huh/spinner"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var coursesCmd = &cobra.Command{
	Use:   "courses",
	Short: "Show the sections offered for one or more subjects",
	Long:  `Search the course catalogue of a term and print every section with its seats, schedule and instructor.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		term := resolveTerm(cmd, cfg)

		subjects, _ := cmd.Flags().GetStringSlice("subjects")
		if len(subjects) == 0 {
			subjects = cfg.SavedSubjects
		}
		if len(subjects) == 0 {
			return fmt.Errorf("no subjects given; pass --subjects or save some with the interactive TUI")
		}
		for i, s := range subjects {
			subjects[i] = strings.ToUpper(strings.TrimSpace(s))
		}

		if refresh, _ := cmd.Flags().GetBool("refresh"); refresh {
			if err := scraper.ClearCache(); err != nil {
				return err
			}
		}

		client := newClient(cfg)
		var courses []scraper.Course

		_ = spinner.New().
			Title(fmt.Sprintf("Searching %s for %s...", term, strings.Join(subjects, ", "))).
			Action(func() {
				courses, err = client.FetchCourses(cmd.Context(), term, subjects)
			}).
			Run()

		if err != nil {
			return fmt.Errorf("failed to fetch courses: %w", err)
		}

		if len(courses) == 0 {
			fmt.Println("No sections found for the selected subjects.")
			return nil
		}

		printCourses(courses)
		return nil
	},
}

func printCourses(courses []scraper.Course) {
	titleStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("99")).Bold(true).Padding(1, 0, 0, 0)
	crnStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	dimStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	warnStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("196"))

	caser := cases.Title(language.English)

	for _, course := range courses {
		title := ""
		if len(course.Sections) > 0 {
			title = caser.String(strings.ToLower(course.Sections[0].Title))
		}
		fmt.Println(titleStyle.Render(fmt.Sprintf("%s  %s", course.Code, title)))

		for _, s := range course.Sections {
			seats := s.SeatsAvailable
			switch s.Status() {
			case scraper.StatusCancelled:
				seats = warnStyle.Render("Cancelled")
			case scraper.StatusOnlineTBA:
				seats += dimStyle.Render(" (online/TBA)")
			}
			fmt.Printf("  %s  sec %s  seats %s  waitlist %s\n", crnStyle.Render(s.CRN), s.Section, seats, s.Waitlist)

			for _, m := range s.Meetings {
				fmt.Printf("    %-8s %-14s %-13s %-10s %s\n",
					m.Type, scraper.FormatDays(m.Days), scraper.FormatTime(m.Time), m.Room, m.Instructor)
			}
			if s.Notes != "" {
				fmt.Println(dimStyle.Render("    " + s.Notes))
			}
		}
	}
}

func init() {
	rootCmd.AddCommand(coursesCmd)

	addTermFlags(coursesCmd)
	coursesCmd.Flags().StringSliceP("subjects", "s", nil, "Subject codes to search (e.g. CPSC,MATH)")
	coursesCmd.Flags().Bool("refresh", false, "Clear the local course cache before searching")
}
