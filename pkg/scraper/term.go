package scraper

import (
	"fmt"
	"strconv"
	"time"
)

// Term codes used by Langara
const (
	Spring = 10
	Summer = 20
	Fall   = 30
)

// Term identifies an academic term by year and institution term code
type Term struct {
	Year int `json:"year"`
	Code int `json:"semester"`
}

// String returns the year and code concatenated with no separator, e.g. "202530".
// This is the form the registration site expects in its term parameters.
func (t Term) String() string {
	return fmt.Sprintf("%d%d", t.Year, t.Code)
}

// Season returns a readable name for the term code
func (t Term) Season() string {
	switch t.Code {
	case Spring:
		return "Spring"
	case Summer:
		return "Summer"
	case Fall:
		return "Fall"
	default:
		return fmt.Sprintf("Term %d", t.Code)
	}
}

// ParseTerm reads a term in its concatenated form ("202530")
func ParseTerm(s string) (Term, error) {
	if len(s) < 5 {
		return Term{}, fmt.Errorf("invalid term %q: expected <year><code>, e.g. 202530", s)
	}

	year, err := strconv.Atoi(s[:4])
	if err != nil {
		return Term{}, fmt.Errorf("invalid term year in %q: %w", s, err)
	}
	code, err := strconv.Atoi(s[4:])
	if err != nil {
		return Term{}, fmt.Errorf("invalid term code in %q: %w", s, err)
	}

	return Term{Year: year, Code: code}, nil
}

// CurrentTerm returns the term in session at the given time
func CurrentTerm(now time.Time) Term {
	code := Fall
	switch m := now.Month(); {
	case m <= time.April:
		code = Spring
	case m <= time.August:
		code = Summer
	}
	return Term{Year: now.Year(), Code: code}
}
