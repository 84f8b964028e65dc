package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/LMSAIH/LangaraScraper/pkg/config"
	"github.com/LMSAIH/LangaraScraper/pkg/exporter"
	"github.com/LMSAIH/LangaraScraper/pkg/scraper"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/huh/spinner"
)

// RunScheduleTUI runs the interactive flow for picking sections and exporting a timetable
func RunScheduleTUI() error {
	fmt.Println(accentStyle.Render("Welcome to the Langara Timetable Exporter!"))

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	term, err := promptTerm(cfg)
	if err != nil {
		return err
	}

	client := scraper.NewClient(cfg.ResolveBaseURL())

	subjects, err := fetchSubjectsWithSpinner(client, term)
	if err != nil {
		return fmt.Errorf("failed to fetch subjects: %w", err)
	}

	savedSubjects := make(map[string]bool)
	for _, s := range cfg.SavedSubjects {
		savedSubjects[s] = true
	}

	var subjectOptions []huh.Option[string]
	for _, s := range subjects {
		opt := huh.NewOption(s, s)
		if savedSubjects[s] {
			opt = opt.Selected(true)
		}
		subjectOptions = append(subjectOptions, opt)
	}

	var selectedSubjects []string
	subjectForm := huh.NewForm(
		huh.NewGroup(
			huh.NewMultiSelect[string]().
				Title("Select your subject(s)").
				Description("Space = toggle, Enter = confirm. Start typing to filter.").
				Options(subjectOptions...).
				Value(&selectedSubjects).
				Filterable(true).
				Height(12),
		),
	).WithTheme(GetTheme())

	if err := subjectForm.Run(); err != nil {
		return err
	}

	if len(selectedSubjects) == 0 {
		fmt.Println(errorStyle.Render("No subjects selected!"))
		return nil
	}

	var courses []scraper.Course
	var fetchErr error

	_ = spinner.New().
		Title(fmt.Sprintf("Searching sections for %s...", strings.Join(selectedSubjects, ", "))).
		Action(func() {
			courses, fetchErr = client.FetchCourses(context.Background(), term, selectedSubjects)
		}).
		Run()

	if fetchErr != nil {
		return fmt.Errorf("failed to fetch courses: %w", fetchErr)
	}

	savedCRNs := make(map[string]bool)
	for _, crn := range cfg.SavedCRNs {
		savedCRNs[crn] = true
	}

	var sectionOptions []huh.Option[string]
	for _, c := range courses {
		for _, s := range c.Sections {
			if s.Status() == scraper.StatusCancelled {
				continue
			}
			label := fmt.Sprintf("%s %s  %s  %s", s.CRN, c.Code, s.Section, s.Title)
			opt := huh.NewOption(label, s.CRN)
			if savedCRNs[s.CRN] {
				opt = opt.Selected(true)
			}
			sectionOptions = append(sectionOptions, opt)
		}
	}

	if len(sectionOptions) == 0 {
		fmt.Println(errorStyle.Render("No open sections found for the selected subjects!"))
		return nil
	}

	var selectedCRNs []string
	outputFile := "timetable.ics"

	sectionForm := huh.NewForm(
		huh.NewGroup(
			huh.NewMultiSelect[string]().
				Title("Select sections to export").
				Description("Space = toggle, Enter = confirm").
				Options(sectionOptions...).
				Value(&selectedCRNs).
				Filterable(true).
				Height(12),

			huh.NewInput().
				Title("Output file name").
				Value(&outputFile).
				Validate(func(s string) error {
					if s == "" {
						return fmt.Errorf("file name cannot be empty")
					}
					return nil
				}),
		),
	).WithTheme(GetTheme())

	if err := sectionForm.Run(); err != nil {
		return err
	}

	sections := chosenSections(courses, selectedCRNs)
	if len(sections) == 0 {
		fmt.Println(errorStyle.Render("No sections selected!"))
		return nil
	}

	if !strings.HasSuffix(outputFile, ".ics") {
		outputFile += ".ics"
	}

	if err := exporter.WriteICSFile(outputFile, term, sections); err != nil {
		return fmt.Errorf("failed to generate ICS: %w", err)
	}

	// Remember the picks for next time
	cfg.SavedSubjects = selectedSubjects
	cfg.SavedCRNs = selectedCRNs
	if err := config.Save(cfg); err != nil {
		return err
	}

	fmt.Println(accentStyle.Render(fmt.Sprintf("\nSuccess! Exported %d sections to %s", len(sections), outputFile)))
	return nil
}

// chosenSections returns the picked sections. Unlike FilterSections, an empty
// pick means nothing rather than everything.
func chosenSections(courses []scraper.Course, crns []string) []scraper.Section {
	if len(crns) == 0 {
		return nil
	}
	return scraper.FilterSections(courses, crns)
}
