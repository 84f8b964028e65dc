package server

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/LMSAIH/LangaraScraper/pkg/scraper"
)

// Fetcher is the part of the scraper client the API depends on
type Fetcher interface {
	FetchSubjects(ctx context.Context, year, term int) ([]string, error)
	FetchCourses(ctx context.Context, term scraper.Term, subjects []string) ([]scraper.Course, error)
	FetchAttributes(ctx context.Context) ([]scraper.CourseAttributes, error)
}

// Server exposes scraped registration data over HTTP
type Server struct {
	fetcher Fetcher
	store   *Store
	now     func() time.Time
}

func New(fetcher Fetcher) *Server {
	return &Server{
		fetcher: fetcher,
		store:   NewStore(),
		now:     time.Now,
	}
}

// Scrape fetches every section of every subject offered in the term
func (s *Server) Scrape(ctx context.Context, term scraper.Term) ([]scraper.Course, error) {
	subjects, err := s.fetcher.FetchSubjects(ctx, term.Year, term.Code)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch subjects for %s: %w", term, err)
	}

	courses, err := s.fetcher.FetchCourses(ctx, term, subjects)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch courses for %s: %w", term, err)
	}
	return courses, nil
}

// Attributes returns the course attribute table, scraping it when the store has none
func (s *Server) Attributes(ctx context.Context) ([]scraper.CourseAttributes, error) {
	if attrs, ok := s.store.Attributes(); ok {
		return attrs, nil
	}

	attrs, err := s.fetcher.FetchAttributes(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch course attributes: %w", err)
	}
	s.store.PutAttributes(attrs)
	return attrs, nil
}

// Refresh scrapes the current term and stores the result
func (s *Server) Refresh(ctx context.Context) (Snapshot, error) {
	now := s.now()
	term := scraper.CurrentTerm(now)

	courses, err := s.Scrape(ctx, term)
	if err != nil {
		return Snapshot{}, err
	}

	s.store.Put(term, courses, now)
	snap, _ := s.store.Get(term.String())
	return snap, nil
}

// ListenAndServe runs the API until ctx is cancelled
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:         addr,
		Handler:      s.RegisterRoutes(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 5 * time.Minute, // full-term scrapes are slow
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("Starting HTTP server on http://localhost%s", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		log.Println("Shutting down HTTP server...")
		return srv.Shutdown(shutdownCtx)
	}
}

// statusFor maps scraper errors to HTTP status codes
func statusFor(err error) int {
	var netErr *scraper.NetworkError
	var statusErr *scraper.StatusError
	switch {
	case errors.Is(err, scraper.ErrNoSubjectsFound):
		return http.StatusNotFound
	case errors.As(err, &netErr), errors.As(err, &statusErr):
		return http.StatusBadGateway
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}
