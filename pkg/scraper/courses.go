package scraper

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

var (
	courseHeaderPattern = regexp.MustCompile(`^[A-Z]{2,4}\s\d{4}$`)
	crnPattern          = regexp.MustCompile(`^\d+$`)
)

// minSectionCells is the width of a section row in the results table
const minSectionCells = 19

// buildSearchForm returns the course search form Banner expects. Every
// multi-select starts with a "dummy" entry; real subjects follow.
func buildSearchForm(term Term, subjects []string) url.Values {
	form := url.Values{}
	form.Add("term_in", term.String())
	for _, field := range []string{"sel_subj", "sel_day", "sel_schd", "sel_insm", "sel_camp", "sel_levl", "sel_sess", "sel_instr", "sel_ptrm", "sel_attr", "sel_dept"} {
		form.Add(field, "dummy")
	}
	form.Add("sel_crse", "")
	form.Add("sel_title", "%")
	form.Add("sel_dept", "%")
	form.Add("begin_hh", "0")
	form.Add("begin_mi", "0")
	form.Add("begin_ap", "a")
	form.Add("end_hh", "0")
	form.Add("end_mi", "0")
	form.Add("end_ap", "a")
	form.Add("sel_incl_restr", "Y")
	form.Add("sel_incl_preq", "Y")
	form.Add("SUB_BTN", "Get Courses")

	for _, s := range subjects {
		form.Add("sel_subj", s)
	}
	return form
}

// FetchCourses searches the term for all sections of the given subjects.
// Results are cached on disk for a few hours per term and subject set.
func (c *Client) FetchCourses(ctx context.Context, term Term, subjects []string) ([]Course, error) {
	key := cacheKey(term, subjects)
	if !c.noCache {
		if cached, ok := readCache(key); ok {
			return cached, nil
		}
	}

	endpoint := c.endpoint(courseSearchPath)
	form := buildSearchForm(term, subjects)

	resp, err := c.post(ctx, endpoint, "application/x-www-form-urlencoded", strings.NewReader(form.Encode()))
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &StatusError{URL: endpoint, StatusCode: resp.StatusCode}
	}

	courses, err := ParseCourses(resp.Body)
	if err != nil {
		return nil, err
	}

	if !c.noCache {
		writeCache(key, courses)
	}
	return courses, nil
}

// ParseCourses parses the course search results table into courses and sections.
func ParseCourses(r io.Reader) ([]Course, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, &ParseError{Err: err}
	}

	var courses []Course
	var current *Course

	flush := func() {
		if current != nil && len(current.Sections) > 0 {
			courses = append(courses, *current)
		}
	}

	doc.Find("table.dataentrytable tr").Each(func(i int, row *goquery.Selection) {
		// Course header rows look like "ABST 1100"
		header := row.Find(`td[colspan="19"].dedefault b`)
		if header.Length() > 0 {
			code := strings.TrimSpace(header.Text())
			if courseHeaderPattern.MatchString(code) {
				flush()
				current = &Course{
					Code:    code,
					Subject: strings.Fields(code)[0],
				}
			}
			return
		}

		cells := row.Find("td")
		if cells.Length() >= minSectionCells && current != nil {
			cell := func(n int) string {
				return strings.TrimSpace(cells.Eq(n).Text())
			}

			meeting := Meeting{
				Type:       cell(12),
				Days:       cell(13),
				Time:       cell(14),
				Room:       cell(17),
				Instructor: cell(18),
			}

			crn := cell(4)
			if crn != "" && crnPattern.MatchString(crn) {
				current.Sections = append(current.Sections, Section{
					CRN:            crn,
					Subject:        cell(5),
					Number:         cell(6),
					Section:        cell(7),
					Credits:        cell(8),
					Title:          cell(9),
					SeatsAvailable: cell(1),
					Waitlist:       cell(2),
					AdditionalFees: cell(10),
					RepeatLimit:    cell(11),
					Meetings:       []Meeting{meeting},
				})
			} else if crn == "" && len(current.Sections) > 0 {
				// Continuation rows carry extra meetings of the previous section
				if meeting.Type != "" && (meeting.Days != "" || meeting.Time != "" || meeting.Room != "") {
					last := &current.Sections[len(current.Sections)-1]
					last.Meetings = append(last.Meetings, meeting)
				}
			}
		}

		notes := row.Find(`td[colspan="6"] em`)
		if notes.Length() > 0 && current != nil && len(current.Sections) > 0 {
			current.Sections[len(current.Sections)-1].Notes = strings.TrimSpace(notes.Text())
		}
	})

	flush()
	return courses, nil
}

// FilterSections returns the sections whose CRN is in crns, or all sections when crns is empty
func FilterSections(courses []Course, crns []string) []Section {
	wanted := make(map[string]bool)
	for _, crn := range crns {
		wanted[strings.TrimSpace(crn)] = true
	}

	var sections []Section
	for _, c := range courses {
		for _, s := range c.Sections {
			if len(wanted) == 0 || wanted[s.CRN] {
				sections = append(sections, s)
			}
		}
	}
	return sections
}
