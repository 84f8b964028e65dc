package exporter

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/LMSAIH/LangaraScraper/pkg/scraper"

	ics "github.com/arran4/golang-ical"
)

// ErrNothingToExport is returned when none of the sections has a schedulable meeting
var ErrNothingToExport = errors.New("no valid course times found to export")

const campusTimezone = "America/Vancouver"

// localTimestamp is the floating DATE-TIME form used together with a TZID parameter
const localTimestamp = "20060102T150405"

var (
	compactTimePattern = regexp.MustCompile(`(\d{3,4})-(\d{3,4})`)
	colonTimePattern   = regexp.MustCompile(`(?i)(\d{1,2}):(\d{2})\s*-\s*(\d{1,2}):(\d{2})\s*(am|pm)?`)
)

var dayCodes = map[rune]string{
	'M': "MO",
	'T': "TU",
	'W': "WE",
	'R': "TH",
	'F': "FR",
	'S': "SA",
	'U': "SU",
}

var icsWeekdays = map[string]time.Weekday{
	"SU": time.Sunday, "MO": time.Monday, "TU": time.Tuesday, "WE": time.Wednesday,
	"TH": time.Thursday, "FR": time.Friday, "SA": time.Saturday,
}

// clock is a time of day in minutes past midnight
type clock int

// GenerateICS creates an ICS file with one weekly recurring event per meeting
// and writes it to the provided writer. Cancelled sections and meetings without
// days or times (online, TBA) are skipped.
func GenerateICS(term scraper.Term, sections []scraper.Section, w io.Writer) error {
	loc, err := time.LoadLocation(campusTimezone)
	if err != nil {
		return fmt.Errorf("could not load timezone: %w", err)
	}

	windowStart, windowEnd := termWindow(term, loc)
	until := windowEnd.UTC().Format("20060102T150405Z")

	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetXWRCalName(fmt.Sprintf("Langara %s %d", term.Season(), term.Year))
	cal.SetXWRTimezone(campusTimezone)
	addCampusTimezone(cal)

	// Weekdays in BYDAY are read in the zone of DTSTART, so starts and ends
	// stay in campus time instead of UTC
	tzid := &ics.KeyValues{Key: string(ics.ParameterTzid), Value: []string{campusTimezone}}

	events := 0
	for _, s := range sections {
		if s.Status() == scraper.StatusCancelled {
			continue
		}

		for i, m := range s.Meetings {
			start, end, ok := parseMeetingTime(m.Time)
			if !ok {
				continue
			}
			days := parseDays(m.Days)
			if len(days) == 0 {
				continue
			}

			first := firstOccurrence(windowStart, days)
			startAt := first.Add(time.Duration(start) * time.Minute)
			endAt := first.Add(time.Duration(end) * time.Minute)

			now := time.Now()
			event := cal.AddEvent(fmt.Sprintf("langara-%s-%d@langarascraper", s.CRN, i))
			event.SetCreatedTime(now)
			event.SetDtStampTime(now)
			event.SetModifiedAt(now)
			event.SetProperty(ics.ComponentPropertyDtStart, startAt.Format(localTimestamp), tzid)
			event.SetProperty(ics.ComponentPropertyDtEnd, endAt.Format(localTimestamp), tzid)
			event.SetSummary(fmt.Sprintf("%s - %s", s.CourseCode(), s.Title))
			event.SetLocation(orTBA(m.Room))
			event.SetProperty(ics.ComponentPropertyRrule, fmt.Sprintf("FREQ=WEEKLY;BYDAY=%s;UNTIL=%s", strings.Join(days, ","), until))

			description := fmt.Sprintf("Course: %s\nCRN: %s\nSection: %s\nType: %s\nInstructor: %s\nCredits: %s",
				s.CourseCode(), s.CRN, s.Section, m.Type, orTBA(m.Instructor), s.Credits)
			event.SetDescription(description)
			events++
		}
	}

	if events == 0 {
		return ErrNothingToExport
	}

	return cal.SerializeTo(w)
}

// WriteICSFile generates the calendar in memory and only creates path once
// generation succeeded, so failed exports leave no empty file behind.
func WriteICSFile(path string, term scraper.Term, sections []scraper.Section) error {
	var buf bytes.Buffer
	if err := GenerateICS(term, sections, &buf); err != nil {
		return err
	}
	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}
	return nil
}

// addCampusTimezone describes America/Vancouver with the current North
// American DST rules (second Sunday of March to first Sunday of November).
func addCampusTimezone(cal *ics.Calendar) {
	tz := cal.AddTimezone(campusTimezone)

	standard := &ics.Standard{}
	standard.SetProperty(ics.ComponentPropertyDtStart, "19701101T020000")
	standard.SetProperty(ics.ComponentProperty(ics.PropertyTzoffsetfrom), "-0700")
	standard.SetProperty(ics.ComponentProperty(ics.PropertyTzoffsetto), "-0800")
	standard.SetProperty(ics.ComponentProperty(ics.PropertyTzname), "PST")
	standard.SetProperty(ics.ComponentPropertyRrule, "FREQ=YEARLY;BYMONTH=11;BYDAY=1SU")

	daylight := &ics.Daylight{}
	daylight.SetProperty(ics.ComponentPropertyDtStart, "19700308T020000")
	daylight.SetProperty(ics.ComponentProperty(ics.PropertyTzoffsetfrom), "-0800")
	daylight.SetProperty(ics.ComponentProperty(ics.PropertyTzoffsetto), "-0700")
	daylight.SetProperty(ics.ComponentProperty(ics.PropertyTzname), "PDT")
	daylight.SetProperty(ics.ComponentPropertyRrule, "FREQ=YEARLY;BYMONTH=3;BYDAY=2SU")

	tz.Components = append(tz.Components, standard, daylight)
}

// termWindow approximates when classes run for a term. The end is the last
// second of the final day.
func termWindow(term scraper.Term, loc *time.Location) (time.Time, time.Time) {
	date := func(m time.Month, d int) time.Time {
		return time.Date(term.Year, m, d, 0, 0, 0, 0, loc)
	}

	var start, last time.Time
	switch term.Code {
	case scraper.Spring:
		start, last = date(time.January, 15), date(time.April, 30)
	case scraper.Summer:
		start, last = date(time.May, 1), date(time.August, 31)
	case scraper.Fall:
		start, last = date(time.September, 1), date(time.December, 20)
	default:
		start, last = date(time.January, 1), date(time.December, 31)
	}

	return start, last.AddDate(0, 0, 1).Add(-time.Second)
}

// firstOccurrence returns midnight of the earliest meeting day on or after from
func firstOccurrence(from time.Time, days []string) time.Time {
	best := 7
	for _, d := range days {
		diff := (int(icsWeekdays[d]) - int(from.Weekday()) + 7) % 7
		if diff < best {
			best = diff
		}
	}
	return from.AddDate(0, 0, best)
}

// parseDays maps "M-W----" style day strings to ICS weekday codes
func parseDays(days string) []string {
	if strings.Contains(strings.ToLower(days), "tba") {
		return nil
	}

	var out []string
	for _, ch := range days {
		if code, ok := dayCodes[ch]; ok {
			out = append(out, code)
		}
	}
	return out
}

// parseMeetingTime understands "1030-1220" and "2:00-3:50 pm". A single
// trailing period always applies to the end and to the start only when the
// range stays in order ("11:30-12:20 pm" is 11:30 to 12:20).
func parseMeetingTime(s string) (clock, clock, bool) {
	lower := strings.ToLower(s)
	if s == "" || s == "-" || strings.Contains(lower, "tba") || strings.Contains(lower, "online") {
		return 0, 0, false
	}

	if m := compactTimePattern.FindStringSubmatch(s); m != nil {
		start, _ := strconv.Atoi(m[1])
		end, _ := strconv.Atoi(m[2])
		return clock(start/100*60 + start%100), clock(end/100*60 + end%100), true
	}

	if m := colonTimePattern.FindStringSubmatch(s); m != nil {
		sh, _ := strconv.Atoi(m[1])
		sm, _ := strconv.Atoi(m[2])
		eh, _ := strconv.Atoi(m[3])
		em, _ := strconv.Atoi(m[4])

		if period := strings.ToLower(m[5]); period != "" {
			eh = to24h(eh, period)
			if h := to24h(sh, period); h*60+sm <= eh*60+em {
				sh = h
			}
		}
		return clock(sh*60 + sm), clock(eh*60 + em), true
	}

	return 0, 0, false
}

func to24h(hour int, period string) int {
	switch {
	case period == "pm" && hour != 12:
		return hour + 12
	case period == "am" && hour == 12:
		return 0
	}
	return hour
}

func orTBA(s string) string {
	if strings.TrimSpace(s) == "" {
		return "TBA"
	}
	return s
}
