package tui

import (
	"fmt"
	"strings"

	"github.com/LMSAIH/LangaraScraper/pkg/config"
	"github.com/LMSAIH/LangaraScraper/pkg/scraper"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
)

// RunConfigTUI launches the interactive experience for managing configuration
func RunConfigTUI() error {
	for {
		cfg, err := config.Load()
		if err != nil {
			return err
		}

		var action string

		initialForm := huh.NewForm(
			huh.NewGroup(
				huh.NewSelect[string]().
					Title("Configuration Settings").
					Options(
						huh.NewOption("Set Accent Color (Theme)", "theme"),
						huh.NewOption("Set Default Term", "term"),
						huh.NewOption("Set Registration Host", "host"),
						huh.NewOption("Clear Saved Selections", "clear"),
						huh.NewOption("View Current Config", "view"),
						huh.NewOption("Back to Main Menu", "back"),
					).
					Value(&action),
			),
		).WithTheme(GetTheme())

		if err := initialForm.Run(); err != nil {
			return err
		}

		switch action {
		case "back":
			return nil
		case "theme":
			err = runSetThemeTUI(cfg)
		case "term":
			err = runSetTermTUI(cfg)
		case "host":
			err = runSetHostTUI(cfg)
		case "clear":
			cfg.SavedSubjects, cfg.SavedCRNs = nil, nil
			err = config.Save(cfg)
			if err == nil {
				fmt.Println(accentStyle.Render("\n✅ Saved subjects and sections cleared.\n"))
			}
		case "view":
			fmt.Println(accentStyle.Render("\n--- Current Configuration (~/.langara.json) ---"))
			fmt.Printf("Registration Host: %s\n", cfg.ResolveBaseURL())
			if cfg.DefaultYear == 0 {
				fmt.Println("Default Term: current term")
			} else {
				fmt.Printf("Default Term: %d%d\n", cfg.DefaultYear, cfg.DefaultTerm)
			}
			fmt.Printf("Saved Subjects: %d\n", len(cfg.SavedSubjects))
			fmt.Printf("Saved Sections: %d\n", len(cfg.SavedCRNs))
			fmt.Printf("Accent Color: %s\n", cfg.AccentColor)
			fmt.Println()
		}

		if err != nil {
			return err
		}
	}
}

func runSetTermTUI(cfg *config.AppConfig) error {
	var yearStr string
	var code int

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Year").
				Placeholder("2025").
				Value(&yearStr).
				Validate(func(s string) error {
					_, err := scraper.ParseTerm(s + "10")
					return err
				}),
			huh.NewSelect[int]().
				Title("Semester").
				Options(
					huh.NewOption("Spring", scraper.Spring),
					huh.NewOption("Summer", scraper.Summer),
					huh.NewOption("Fall", scraper.Fall),
				).
				Value(&code),
		),
	).WithTheme(GetTheme())

	if err := form.Run(); err != nil {
		return err
	}

	term, err := scraper.ParseTerm(fmt.Sprintf("%s%d", yearStr, code))
	if err != nil {
		return err
	}

	cfg.DefaultYear, cfg.DefaultTerm = term.Year, term.Code
	if err := config.Save(cfg); err != nil {
		return err
	}

	fmt.Println(accentStyle.Render(fmt.Sprintf("\n✅ Default term set to %s %d\n", term.Season(), term.Year)))
	return nil
}

func runSetHostTUI(cfg *config.AppConfig) error {
	input := cfg.BaseURL

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Registration host").
				Description(fmt.Sprintf("Leave empty for %s. %s overrides this setting.", scraper.DefaultBaseURL, config.BaseURLEnv)).
				Placeholder(scraper.DefaultBaseURL).
				Value(&input).
				Validate(func(s string) error {
					if s != "" && !strings.HasPrefix(s, "http://") && !strings.HasPrefix(s, "https://") {
						return fmt.Errorf("must start with http:// or https://")
					}
					return nil
				}),
		),
	).WithTheme(GetTheme())

	if err := form.Run(); err != nil {
		return err
	}

	cfg.BaseURL = strings.TrimRight(input, "/")
	if err := config.Save(cfg); err != nil {
		return err
	}

	fmt.Println(accentStyle.Render(fmt.Sprintf("\n✅ Scraping %s\n", cfg.ResolveBaseURL())))
	return nil
}

func colorBlock(color string) string {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(color)).Render("██")
}

func runSetThemeTUI(cfg *config.AppConfig) error {
	var input string

	inputForm := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Choose an Accent Color").
				Description("Select a preset or choose Custom to enter your own Hex.").
				Options(
					huh.NewOption(fmt.Sprintf("%s Langara Orange", colorBlock(DefaultAccent)), DefaultAccent),
					huh.NewOption(fmt.Sprintf("%s Falcon Blue", colorBlock("33")), "33"),
					huh.NewOption(fmt.Sprintf("%s Cedar Green", colorBlock("42")), "42"),
					huh.NewOption(fmt.Sprintf("%s Plum", colorBlock("99")), "99"),
					huh.NewOption("✨ Custom Hex Code", "custom"),
				).
				Value(&input),
		),
	).WithTheme(GetTheme())

	if err := inputForm.Run(); err != nil {
		return err
	}

	if input == "custom" {
		var hexInput string
		hexForm := huh.NewForm(
			huh.NewGroup(
				huh.NewInput().
					Title("Enter a Hex Color Code").
					Description("Include the `#` symbol. Example: #F58025").
					Placeholder("#").
					Value(&hexInput).
					Validate(func(str string) error {
						if len(str) != 7 || !strings.HasPrefix(str, "#") {
							return fmt.Errorf("must be a valid 6-character hex code starting with #")
						}
						return nil
					}),
			),
		).WithTheme(GetCustomTheme(DefaultAccent))

		if err := hexForm.Run(); err != nil {
			return err
		}
		cfg.AccentColor = hexInput
	} else {
		cfg.AccentColor = input
	}

	if err := config.Save(cfg); err != nil {
		return err
	}

	fmt.Println(lipgloss.NewStyle().Foreground(lipgloss.Color(cfg.AccentColor)).Render("\n✅ Theme color saved.\n"))
	return nil
}
