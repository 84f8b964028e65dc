package scraper

import "strings"

// Course groups every section listed under one course header (e.g. "CPSC 1150")
type Course struct {
	Code     string    `json:"courseCode"`
	Subject  string    `json:"subject"`
	Sections []Section `json:"sections"`
}

// Section represents a single CRN in the course search results
type Section struct {
	CRN            string    `json:"crn"`
	Subject        string    `json:"subject"`
	Number         string    `json:"course"`
	Section        string    `json:"section"`
	Credits        string    `json:"credits"`
	Title          string    `json:"title"`
	SeatsAvailable string    `json:"seatsAvailable"` // Number, "Cancel" or "Full"
	Waitlist       string    `json:"waitlist"`
	AdditionalFees string    `json:"additionalFees"`
	RepeatLimit    string    `json:"repeatLimit"`
	Notes          string    `json:"notes,omitempty"`
	Meetings       []Meeting `json:"meetings"`
}

// Meeting is one scheduled block of a section (lecture, lab, exam...)
type Meeting struct {
	Type       string `json:"sectionType"` // "Lecture", "Lab", "WWW"
	Days       string `json:"days"`        // Positional "M-W----"
	Time       string `json:"time"`        // "1030-1220" or "-"
	Room       string `json:"room"`
	Instructor string `json:"instructor"`
}

// CourseCode returns "SUBJ NUM" for the section
func (s Section) CourseCode() string {
	return s.Subject + " " + s.Number
}

// SectionStatus summarizes whether a section runs normally
type SectionStatus string

const (
	StatusNormal    SectionStatus = "normal"
	StatusOnlineTBA SectionStatus = "online-tba"
	StatusCancelled SectionStatus = "cancelled"
)

// Status classifies the section from its seats, notes and meetings
func (s Section) Status() SectionStatus {
	if s.SeatsAvailable == "Cancel" || s.Notes == "**Cancelled**" {
		return StatusCancelled
	}

	for _, m := range s.Meetings {
		if m.Type == "WWW" || m.Room == "WWW" || m.Days == "-------" || m.Time == "-" {
			return StatusOnlineTBA
		}
		if strings.Contains(m.Instructor, "TBA") {
			return StatusOnlineTBA
		}
	}

	return StatusNormal
}

// weekdayLetters are the positional day markers used in the Days column
var weekdayLetters = []rune{'M', 'T', 'W', 'R', 'F', 'S', 'U'}

// FormatDays turns the positional "M-W----" form into "MW"
func FormatDays(days string) string {
	var b strings.Builder
	for i, ch := range days {
		if i >= len(weekdayLetters) {
			break
		}
		if ch != '-' && ch != ' ' {
			b.WriteRune(weekdayLetters[i])
		}
	}
	return b.String()
}

// FormatTime turns "10301220" or "1030-1220" into "10:30 - 12:20"
func FormatTime(t string) string {
	if t == "-" || t == "" {
		return "Online/TBA"
	}
	digits := strings.ReplaceAll(t, "-", "")
	if len(digits) == 8 {
		return digits[0:2] + ":" + digits[2:4] + " - " + digits[4:6] + ":" + digits[6:8]
	}
	return t
}
