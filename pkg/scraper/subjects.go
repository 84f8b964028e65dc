package scraper

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// FetchSubjects retrieves the subject codes offered in the given term from the
// course search page. The year and term code are concatenated as-is into the
// request, so (2025, 30) asks for term 202530.
func (c *Client) FetchSubjects(ctx context.Context, year, term int) ([]string, error) {
	url := fmt.Sprintf("%s?term=%s", c.endpoint(subjectSearchPath), Term{Year: year, Code: term})

	resp, err := c.post(ctx, url, "", nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	// The status code is not checked: error pages lack the subject list and
	// end up as ErrNoSubjectsFound below.
	return ParseSubjects(resp.Body)
}

// ParseSubjects extracts the subject codes from a course search page.
func ParseSubjects(r io.Reader) ([]string, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, &ParseError{Err: err}
	}

	seen := make(map[string]bool)
	var subjects []string

	// The subjects are stored as <option> tags inside a <select id="subj_id">,
	// possibly grouped in <optgroup>s
	doc.Find("select#subj_id").First().Find("option").Each(func(i int, sel *goquery.Selection) {
		code := strings.TrimSpace(sel.AttrOr("value", ""))
		if code == "" || seen[code] {
			return
		}
		seen[code] = true
		subjects = append(subjects, code)
	})

	if len(subjects) == 0 {
		return nil, ErrNoSubjectsFound
	}

	return subjects, nil
}
