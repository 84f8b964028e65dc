package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/LMSAIH/LangaraScraper/pkg/scraper"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeFetcher struct {
	subjects    []string
	subjectsErr error
	courses     []scraper.Course
	coursesErr  error
	attributes  []scraper.CourseAttributes
	attrsErr    error
	attrCalls   int

	gotTerm     scraper.Term
	gotSubjects []string
}

func (f *fakeFetcher) FetchSubjects(ctx context.Context, year, term int) ([]string, error) {
	f.gotTerm = scraper.Term{Year: year, Code: term}
	return f.subjects, f.subjectsErr
}

func (f *fakeFetcher) FetchCourses(ctx context.Context, term scraper.Term, subjects []string) ([]scraper.Course, error) {
	f.gotTerm = term
	f.gotSubjects = subjects
	return f.courses, f.coursesErr
}

func (f *fakeFetcher) FetchAttributes(ctx context.Context) ([]scraper.CourseAttributes, error) {
	f.attrCalls++
	return f.attributes, f.attrsErr
}

func sampleCourses() []scraper.Course {
	return []scraper.Course{
		{Code: "CPSC 1150", Subject: "CPSC", Sections: []scraper.Section{{CRN: "30123"}, {CRN: "30124"}}},
		{Code: "MATH 1171", Subject: "MATH", Sections: []scraper.Section{{CRN: "30200"}}},
	}
}

func newTestServer(f *fakeFetcher) (*Server, http.Handler) {
	gin.SetMode(gin.TestMode)
	s := New(f)
	s.now = func() time.Time { return time.Date(2025, time.October, 1, 9, 0, 0, 0, time.UTC) }
	return s, s.RegisterRoutes()
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestGetSubjects(t *testing.T) {
	f := &fakeFetcher{subjects: []string{"CPSC", "MATH", "ENGL"}}
	_, h := newTestServer(f)

	rec := do(t, h, http.MethodGet, "/api/v1/subjects?year=2025&semester=30", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Subjects []string `json:"subjects"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, []string{"CPSC", "MATH", "ENGL"}, body.Subjects)
	assert.Equal(t, scraper.Term{Year: 2025, Code: 30}, f.gotTerm)
}

func TestGetSubjects_BadRequest(t *testing.T) {
	_, h := newTestServer(&fakeFetcher{})

	assert.Equal(t, http.StatusBadRequest, do(t, h, http.MethodGet, "/api/v1/subjects?year=2025", "").Code)
	assert.Equal(t, http.StatusBadRequest, do(t, h, http.MethodGet, "/api/v1/subjects?year=abc&semester=30", "").Code)
}

func TestGetSubjects_ErrorMapping(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected int
	}{
		{"no subjects", scraper.ErrNoSubjectsFound, http.StatusNotFound},
		{"network", &scraper.NetworkError{URL: "http://x", Err: errors.New("connection refused")}, http.StatusBadGateway},
		{"parse", &scraper.ParseError{Err: errors.New("bad html")}, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, h := newTestServer(&fakeFetcher{subjectsErr: tt.err})
			rec := do(t, h, http.MethodGet, "/api/v1/subjects?year=2025&semester=30", "")
			assert.Equal(t, tt.expected, rec.Code)
		})
	}
}

func TestScrapeCourses_SavesAndServes(t *testing.T) {
	f := &fakeFetcher{subjects: []string{"CPSC", "MATH"}, courses: sampleCourses()}
	_, h := newTestServer(f)

	rec := do(t, h, http.MethodPost, "/api/v1/courses", `{"year": 2025, "semester": 30, "saveToDb": true}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Success bool `json:"success"`
		Scraped struct {
			TotalCourses  int `json:"totalCourses"`
			TotalSections int `json:"totalSections"`
		} `json:"scraped"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.True(t, body.Success)
	assert.Equal(t, 2, body.Scraped.TotalCourses)
	assert.Equal(t, 3, body.Scraped.TotalSections)
	assert.Equal(t, []string{"CPSC", "MATH"}, f.gotSubjects)

	rec = do(t, h, http.MethodGet, "/api/v1/courses/202530", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"count":2`)

	rec = do(t, h, http.MethodGet, "/api/v1/courses/202530/subject/m(a)th", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"subject":"MATH"`)
	assert.Contains(t, rec.Body.String(), `"count":1`)

	rec = do(t, h, http.MethodGet, "/api/v1/courses", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"202530"`)
}

func TestScrapeCourses_WithoutSave(t *testing.T) {
	f := &fakeFetcher{subjects: []string{"CPSC"}, courses: sampleCourses()}
	_, h := newTestServer(f)

	rec := do(t, h, http.MethodPost, "/api/v1/courses", `{"year": 2025, "semester": 30}`)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = do(t, h, http.MethodGet, "/api/v1/courses/202530", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestScrapeCourses_BadRequest(t *testing.T) {
	_, h := newTestServer(&fakeFetcher{})

	rec := do(t, h, http.MethodPost, "/api/v1/courses", `{"year": 2025}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "example")
}

func TestScrapeCourses_SubjectFailure(t *testing.T) {
	f := &fakeFetcher{subjectsErr: scraper.ErrNoSubjectsFound}
	_, h := newTestServer(f)

	rec := do(t, h, http.MethodPost, "/api/v1/courses", `{"year": 2025, "semester": 30}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Nil(t, f.gotSubjects, "courses must not be fetched without subjects")
}

func TestRefresh_StoresCurrentTerm(t *testing.T) {
	f := &fakeFetcher{subjects: []string{"CPSC"}, courses: sampleCourses()}
	s, _ := newTestServer(f)

	snap, err := s.Refresh(context.Background())
	require.NoError(t, err)
	assert.Equal(t, scraper.Term{Year: 2025, Code: scraper.Fall}, snap.Term)
	assert.Len(t, snap.Courses, 2)

	stored, ok := s.store.Get("202530")
	require.True(t, ok)
	assert.Equal(t, snap, stored)
}

func TestSanitizeSubject(t *testing.T) {
	assert.Equal(t, "CPSC", sanitizeSubject(" cp$sc "))
	assert.Equal(t, "MATH", sanitizeSubject("{ma}[th]*"))
	assert.Equal(t, "", sanitizeSubject("$()"))
}

func TestHealth(t *testing.T) {
	_, h := newTestServer(&fakeFetcher{})
	rec := do(t, h, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"ok"`)
}

func TestScheduler_StartStop(t *testing.T) {
	s, _ := newTestServer(&fakeFetcher{})
	sc, err := NewScheduler(s)
	require.NoError(t, err)
	require.NoError(t, sc.Start())
	assert.Len(t, sc.cron.Entries(), 1)
	sc.Stop()
}

func detailedCourses() []scraper.Course {
	return []scraper.Course{
		{Code: "CPSC 1150", Subject: "CPSC", Sections: []scraper.Section{
			{CRN: "30123", Subject: "CPSC", Number: "1150", SeatsAvailable: "12", Meetings: []scraper.Meeting{
				{Type: "Lecture", Days: "M-W----", Time: "1030-1220", Instructor: "Jane Doe"},
				{Type: "Lab", Days: "----F--", Time: "1430-1620", Instructor: "Bob Ray"},
			}},
			{CRN: "30124", Subject: "CPSC", Number: "1150", SeatsAvailable: "Full", Meetings: []scraper.Meeting{
				{Type: "Lecture", Days: "-T-R---", Time: "0830-1020", Instructor: "Jane Doe"},
			}},
		}},
		{Code: "MATH 1171", Subject: "MATH", Sections: []scraper.Section{
			{CRN: "30200", Subject: "MATH", Number: "1171", SeatsAvailable: "Cancel", Meetings: []scraper.Meeting{
				{Type: "Lecture", Days: "M-W----", Time: "1230-1420", Instructor: "TBA"},
			}},
			{CRN: "30201", Subject: "MATH", Number: "1171", SeatsAvailable: "3", Meetings: []scraper.Meeting{
				{Type: "Lecture", Days: "M-W----", Time: "1730-2020", Instructor: "Ann Lee"},
			}},
		}},
	}
}

func storedTestServer(t *testing.T) (*fakeFetcher, http.Handler) {
	t.Helper()
	f := &fakeFetcher{}
	s, h := newTestServer(f)
	s.store.Put(scraper.Term{Year: 2025, Code: scraper.Fall}, detailedCourses(), s.now())
	return f, h
}

func TestGetCourseByCode(t *testing.T) {
	_, h := storedTestServer(t)

	for _, code := range []string{"CPSC-1150", "cpsc_1150", "CPSC%201150"} {
		rec := do(t, h, http.MethodGet, "/api/v1/courses/202530/course/"+code, "")
		require.Equal(t, http.StatusOK, rec.Code, code)

		var course scraper.Course
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &course))
		assert.Equal(t, "CPSC 1150", course.Code)
		assert.Len(t, course.Sections, 2)
	}

	rec := do(t, h, http.MethodGet, "/api/v1/courses/202530/course/ENGL-1127", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(t, h, http.MethodGet, "/api/v1/courses/202410/course/CPSC-1150", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

type sectionsResponse struct {
	Sections   []scraper.Section `json:"sections"`
	Pagination struct {
		Page       int `json:"page"`
		Limit      int `json:"limit"`
		Total      int `json:"total"`
		TotalPages int `json:"totalPages"`
	} `json:"pagination"`
}

func getSectionsJSON(t *testing.T, h http.Handler, query string) sectionsResponse {
	t.Helper()
	rec := do(t, h, http.MethodGet, "/api/v1/courses/202530/sections"+query, "")
	require.Equal(t, http.StatusOK, rec.Code)

	var body sectionsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func crnsOf(sections []scraper.Section) []string {
	crns := []string{}
	for _, s := range sections {
		crns = append(crns, s.CRN)
	}
	return crns
}

func TestGetSections_Filters(t *testing.T) {
	_, h := storedTestServer(t)

	tests := []struct {
		query    string
		expected []string
	}{
		{"", []string{"30123", "30124", "30200", "30201"}},
		{"?subject=math", []string{"30200", "30201"}},
		{"?courseCode=CPSC-1150", []string{"30123", "30124"}},
		{"?crn=30201", []string{"30201"}},
		{"?available=true", []string{"30123", "30201"}},
		{"?subject=CPSC&available=true", []string{"30123"}},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			body := getSectionsJSON(t, h, tt.query)
			assert.Equal(t, tt.expected, crnsOf(body.Sections))
			assert.Equal(t, len(tt.expected), body.Pagination.Total)
		})
	}
}

func TestGetSections_Pagination(t *testing.T) {
	_, h := storedTestServer(t)

	body := getSectionsJSON(t, h, "?page=2&limit=3")
	assert.Equal(t, []string{"30201"}, crnsOf(body.Sections))
	assert.Equal(t, 2, body.Pagination.Page)
	assert.Equal(t, 3, body.Pagination.Limit)
	assert.Equal(t, 4, body.Pagination.Total)
	assert.Equal(t, 2, body.Pagination.TotalPages)

	body = getSectionsJSON(t, h, "?page=9&limit=3")
	assert.Empty(t, body.Sections)

	body = getSectionsJSON(t, h, "?page=-1&limit=abc")
	assert.Equal(t, 1, body.Pagination.Page)
	assert.Equal(t, defaultPageSize, body.Pagination.Limit)
}

func TestGetSectionMeetings(t *testing.T) {
	_, h := storedTestServer(t)

	rec := do(t, h, http.MethodGet, "/api/v1/courses/202530/sections/30123/meetings", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		CRN      string            `json:"crn"`
		Meetings []scraper.Meeting `json:"meetings"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "30123", body.CRN)
	require.Len(t, body.Meetings, 2)
	assert.Equal(t, "Lab", body.Meetings[1].Type)

	rec = do(t, h, http.MethodGet, "/api/v1/courses/202530/sections/99999/meetings", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGetMeta(t *testing.T) {
	_, h := storedTestServer(t)

	rec := do(t, h, http.MethodGet, "/api/v1/courses/202530/meta/subjects", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var subjects struct {
		Subjects []string `json:"subjects"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &subjects))
	assert.Equal(t, []string{"CPSC", "MATH"}, subjects.Subjects)

	rec = do(t, h, http.MethodGet, "/api/v1/courses/202530/meta/instructors", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var instructors struct {
		Instructors []string `json:"instructors"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &instructors))
	assert.Equal(t, []string{"Ann Lee", "Bob Ray", "Jane Doe"}, instructors.Instructors)

	rec = do(t, h, http.MethodGet, "/api/v1/meta/terms", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"202530"`)
}

func TestGetAttributes(t *testing.T) {
	f := &fakeFetcher{attributes: []scraper.CourseAttributes{
		{Code: "CPSC 1150", Attributes: []string{"2SC", "SCI", "UT"}},
		{Code: "ENGL 1127", Attributes: []string{"2AR", "HUM", "UT"}},
	}}
	_, h := newTestServer(f)

	rec := do(t, h, http.MethodGet, "/api/v1/attributes", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"count":2`)

	rec = do(t, h, http.MethodGet, "/api/v1/attributes/engl-1127", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var attrs scraper.CourseAttributes
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &attrs))
	assert.Equal(t, []string{"2AR", "HUM", "UT"}, attrs.Attributes)

	rec = do(t, h, http.MethodGet, "/api/v1/attributes/MATH-1171", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	assert.Equal(t, 1, f.attrCalls, "attributes should be scraped once and then served from the store")
}

func TestGetAttributes_Failure(t *testing.T) {
	f := &fakeFetcher{attrsErr: &scraper.StatusError{URL: "http://x", StatusCode: http.StatusServiceUnavailable}}
	_, h := newTestServer(f)

	rec := do(t, h, http.MethodGet, "/api/v1/attributes", "")
	assert.Equal(t, http.StatusBadGateway, rec.Code)
}

func TestStore_TermsIgnoresAttributes(t *testing.T) {
	store := NewStore()
	store.Put(scraper.Term{Year: 2025, Code: scraper.Fall}, sampleCourses(), time.Now())
	store.PutAttributes([]scraper.CourseAttributes{{Code: "CPSC 1150"}})

	assert.Equal(t, []string{"202530"}, store.Terms())
}

func TestNormalizeCourseCode(t *testing.T) {
	assert.Equal(t, "CPSC 1150", normalizeCourseCode("cpsc-1150"))
	assert.Equal(t, "CPSC 1150", normalizeCourseCode(" CPSC_1150 "))
	assert.Equal(t, "CPSC 1150", normalizeCourseCode("CPSC  1150"))
	assert.Equal(t, "", normalizeCourseCode(""))
}
