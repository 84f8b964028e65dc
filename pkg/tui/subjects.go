package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/LMSAIH/LangaraScraper/pkg/config"
	"github.com/LMSAIH/LangaraScraper/pkg/scraper"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/huh/spinner"
)

// promptTerm asks for a term, prefilled with the saved default or the current term
func promptTerm(cfg *config.AppConfig) (scraper.Term, error) {
	termStr := cfg.Term(time.Now()).String()

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Which term?").
				Description("<year><code>, where code is 10 (Spring), 20 (Summer) or 30 (Fall)").
				Value(&termStr).
				Validate(func(s string) error {
					_, err := scraper.ParseTerm(s)
					return err
				}),
		),
	).WithTheme(GetTheme())

	if err := form.Run(); err != nil {
		return scraper.Term{}, err
	}
	return scraper.ParseTerm(termStr)
}

// fetchSubjectsWithSpinner loads the subject list behind a spinner
func fetchSubjectsWithSpinner(client *scraper.Client, term scraper.Term) ([]string, error) {
	var subjects []string
	var err error

	_ = spinner.New().
		Title(fmt.Sprintf("Fetching subjects for %s %d from Langara...", term.Season(), term.Year)).
		Action(func() {
			subjects, err = client.FetchSubjects(context.Background(), term.Year, term.Code)
		}).
		Run()

	return subjects, err
}

// RunSubjectsTUI shows the subjects offered in a term
func RunSubjectsTUI() error {
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

	fmt.Println(accentStyle.Render(fmt.Sprintf("\n%d subjects offered in %s %d:\n", len(subjects), term.Season(), term.Year)))
	fmt.Println(strings.Join(subjects, "  "))
	fmt.Println()
	return nil
}
