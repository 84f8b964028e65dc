package server

import (
	"sort"
	"strconv"
	"strings"

	"github.com/LMSAIH/LangaraScraper/pkg/scraper"
)

const (
	defaultPageSize = 50
	maxPageSize     = 500
)

// sectionFilter narrows the sections of a snapshot. Empty fields match everything.
type sectionFilter struct {
	Subject       string
	CourseCode    string
	CRN           string
	AvailableOnly bool
}

func (f sectionFilter) match(course scraper.Course, s scraper.Section) bool {
	switch {
	case f.Subject != "" && course.Subject != f.Subject:
		return false
	case f.CourseCode != "" && course.Code != f.CourseCode:
		return false
	case f.CRN != "" && s.CRN != f.CRN:
		return false
	case f.AvailableOnly && !hasOpenSeats(s):
		return false
	}
	return true
}

// hasOpenSeats reports whether a section lists a positive seat count
func hasOpenSeats(s scraper.Section) bool {
	if s.Status() == scraper.StatusCancelled {
		return false
	}
	n, err := strconv.Atoi(strings.TrimSpace(s.SeatsAvailable))
	return err == nil && n > 0
}

// filterSections returns matching sections in snapshot order
func filterSections(courses []scraper.Course, f sectionFilter) []scraper.Section {
	sections := []scraper.Section{}
	for _, c := range courses {
		for _, s := range c.Sections {
			if f.match(c, s) {
				sections = append(sections, s)
			}
		}
	}
	return sections
}

// findCourse looks a course up by its "SUBJ NUM" code
func findCourse(courses []scraper.Course, code string) (scraper.Course, bool) {
	for _, c := range courses {
		if c.Code == code {
			return c, true
		}
	}
	return scraper.Course{}, false
}

// findSection looks a section up by CRN
func findSection(courses []scraper.Course, crn string) (scraper.Section, bool) {
	for _, c := range courses {
		for _, s := range c.Sections {
			if s.CRN == crn {
				return s, true
			}
		}
	}
	return scraper.Section{}, false
}

// distinctSubjects lists the subjects present, sorted
func distinctSubjects(courses []scraper.Course) []string {
	seen := make(map[string]bool)
	subjects := []string{}
	for _, c := range courses {
		if !seen[c.Subject] {
			seen[c.Subject] = true
			subjects = append(subjects, c.Subject)
		}
	}
	sort.Strings(subjects)
	return subjects
}

// distinctInstructors lists every named instructor, sorted
func distinctInstructors(courses []scraper.Course) []string {
	seen := make(map[string]bool)
	instructors := []string{}
	for _, c := range courses {
		for _, s := range c.Sections {
			for _, m := range s.Meetings {
				name := strings.TrimSpace(m.Instructor)
				if name == "" || strings.EqualFold(name, "TBA") || seen[name] {
					continue
				}
				seen[name] = true
				instructors = append(instructors, name)
			}
		}
	}
	sort.Strings(instructors)
	return instructors
}

// pageBounds parses page/limit query values into slice bounds over total items
func pageBounds(pageStr, limitStr string, total int) (page, limit, start, end int) {
	page, err := strconv.Atoi(pageStr)
	if err != nil || page < 1 {
		page = 1
	}
	limit, err = strconv.Atoi(limitStr)
	if err != nil || limit < 1 {
		limit = defaultPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}

	start = (page - 1) * limit
	if start > total {
		start = total
	}
	end = start + limit
	if end > total {
		end = total
	}
	return page, limit, start, end
}
