package server

import (
	"net/http"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/LMSAIH/LangaraScraper/pkg/scraper"

	"github.com/gin-gonic/gin"
)

func (s *Server) RegisterRoutes() http.Handler {
	router := gin.Default()

	router.GET("/health", s.healthCheck)

	v1 := router.Group("/api/v1")
	{
		v1.GET("/subjects", s.getSubjects)
		v1.GET("/meta/terms", s.listStoredTerms)
		v1.GET("/attributes", s.getAttributes)
		v1.GET("/attributes/:courseCode", s.getAttributesByCourse)

		courses := v1.Group("/courses")
		{
			courses.POST("", s.scrapeCourses)
			courses.GET("", s.listStoredTerms)
			courses.GET("/:term", s.getCoursesByTerm)
			courses.GET("/:term/subject/:subject", s.getCoursesBySubject)
			courses.GET("/:term/course/:courseCode", s.getCourseByCode)
			courses.GET("/:term/sections", s.getSections)
			courses.GET("/:term/sections/:crn/meetings", s.getSectionMeetings)
			courses.GET("/:term/meta/subjects", s.getMetaSubjects)
			courses.GET("/:term/meta/instructors", s.getMetaInstructors)
		}
	}

	return router
}

func (s *Server) healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "ok",
		"timestamp": s.now().UTC().Format(time.RFC3339),
	})
}

// getSubjects lists the subject codes of a term: /api/v1/subjects?year=2025&semester=30
func (s *Server) getSubjects(c *gin.Context) {
	yearStr, semesterStr := c.Query("year"), c.Query("semester")
	if yearStr == "" || semesterStr == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Year and semester are required"})
		return
	}

	year, errYear := strconv.Atoi(yearStr)
	semester, errSemester := strconv.Atoi(semesterStr)
	if errYear != nil || errSemester != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Year and semester must be numbers"})
		return
	}

	subjects, err := s.fetcher.FetchSubjects(c.Request.Context(), year, semester)
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"subjects": subjects})
}

type scrapeRequest struct {
	Year     int  `json:"year"`
	Semester int  `json:"semester"`
	Save     bool `json:"saveToDb"`
}

// scrapeCourses scrapes a full term and optionally stores it for the GET routes
func (s *Server) scrapeCourses(c *gin.Context) {
	var req scrapeRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Year == 0 || req.Semester == 0 {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Year and semester are required",
			"example": scrapeRequest{Year: 2025, Semester: 30, Save: true},
		})
		return
	}

	term := scraper.Term{Year: req.Year, Code: req.Semester}
	courses, err := s.Scrape(c.Request.Context(), term)
	if err != nil {
		c.JSON(statusFor(err), gin.H{
			"error":   http.StatusText(statusFor(err)),
			"message": err.Error(),
		})
		return
	}

	now := s.now()
	if req.Save {
		s.store.Put(term, courses, now)
	}

	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"year":     req.Year,
		"semester": req.Semester,
		"scraped": gin.H{
			"totalCourses":  len(courses),
			"totalSections": countSections(courses),
			"courses":       courses,
		},
		"timestamp": now.UTC().Format(time.RFC3339),
	})
}

func (s *Server) listStoredTerms(c *gin.Context) {
	terms := s.store.Terms()
	sort.Strings(terms)
	c.JSON(http.StatusOK, gin.H{
		"count": len(terms),
		"terms": terms,
	})
}

func (s *Server) getCoursesByTerm(c *gin.Context) {
	snap, ok := s.store.Get(c.Param("term"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "No stored courses for this term"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"term":      snap.Term,
		"count":     len(snap.Courses),
		"courses":   snap.Courses,
		"scrapedAt": snap.ScrapedAt.UTC().Format(time.RFC3339),
	})
}

func (s *Server) getCoursesBySubject(c *gin.Context) {
	snap, ok := s.store.Get(c.Param("term"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "No stored courses for this term"})
		return
	}

	subject := sanitizeSubject(c.Param("subject"))
	if subject == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Subject is required"})
		return
	}

	courses := []scraper.Course{}
	for _, course := range snap.Courses {
		if course.Subject == subject {
			courses = append(courses, course)
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"term":    snap.Term,
		"subject": subject,
		"count":   len(courses),
		"courses": courses,
	})
}

// storedSnapshot loads the :term snapshot or writes a 404
func (s *Server) storedSnapshot(c *gin.Context) (Snapshot, bool) {
	snap, ok := s.store.Get(c.Param("term"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "No stored courses for this term"})
	}
	return snap, ok
}

func (s *Server) getCourseByCode(c *gin.Context) {
	snap, ok := s.storedSnapshot(c)
	if !ok {
		return
	}

	course, ok := findCourse(snap.Courses, normalizeCourseCode(c.Param("courseCode")))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Course not found"})
		return
	}
	c.JSON(http.StatusOK, course)
}

// getSections filters and pages sections:
// /api/v1/courses/202530/sections?subject=CPSC&available=true&page=2&limit=20
func (s *Server) getSections(c *gin.Context) {
	snap, ok := s.storedSnapshot(c)
	if !ok {
		return
	}

	available, _ := strconv.ParseBool(c.DefaultQuery("available", "false"))
	filter := sectionFilter{
		Subject:       sanitizeSubject(c.Query("subject")),
		CourseCode:    normalizeCourseCode(c.Query("courseCode")),
		CRN:           strings.TrimSpace(c.Query("crn")),
		AvailableOnly: available,
	}

	sections := filterSections(snap.Courses, filter)
	page, limit, start, end := pageBounds(c.Query("page"), c.Query("limit"), len(sections))

	c.JSON(http.StatusOK, gin.H{
		"sections": sections[start:end],
		"pagination": gin.H{
			"page":       page,
			"limit":      limit,
			"total":      len(sections),
			"totalPages": (len(sections) + limit - 1) / limit,
		},
	})
}

func (s *Server) getSectionMeetings(c *gin.Context) {
	snap, ok := s.storedSnapshot(c)
	if !ok {
		return
	}

	section, ok := findSection(snap.Courses, strings.TrimSpace(c.Param("crn")))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Section not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"crn":      section.CRN,
		"count":    len(section.Meetings),
		"meetings": section.Meetings,
	})
}

func (s *Server) getMetaSubjects(c *gin.Context) {
	snap, ok := s.storedSnapshot(c)
	if !ok {
		return
	}
	subjects := distinctSubjects(snap.Courses)
	c.JSON(http.StatusOK, gin.H{"count": len(subjects), "subjects": subjects})
}

func (s *Server) getMetaInstructors(c *gin.Context) {
	snap, ok := s.storedSnapshot(c)
	if !ok {
		return
	}
	instructors := distinctInstructors(snap.Courses)
	c.JSON(http.StatusOK, gin.H{"count": len(instructors), "instructors": instructors})
}

func (s *Server) getAttributes(c *gin.Context) {
	attrs, err := s.Attributes(c.Request.Context())
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": len(attrs), "attributes": attrs})
}

func (s *Server) getAttributesByCourse(c *gin.Context) {
	attrs, err := s.Attributes(c.Request.Context())
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}

	code := normalizeCourseCode(c.Param("courseCode"))
	for _, a := range attrs {
		if a.Code == code {
			c.JSON(http.StatusOK, a)
			return
		}
	}
	c.JSON(http.StatusNotFound, gin.H{"error": "No attributes for this course"})
}

func countSections(courses []scraper.Course) int {
	total := 0
	for _, c := range courses {
		total += len(c.Sections)
	}
	return total
}
