package server

import (
	"time"

	"github.com/LMSAIH/LangaraScraper/pkg/scraper"

	"github.com/patrickmn/go-cache"
)

const attributesKey = "attributes"

const (
	storeTTL             = 24 * time.Hour
	storeCleanupInterval = 30 * time.Minute
)

// Snapshot is one stored scrape of a term
type Snapshot struct {
	Term      scraper.Term     `json:"term"`
	Courses   []scraper.Course `json:"courses"`
	ScrapedAt time.Time        `json:"scrapedAt"`
}

// Store keeps the latest scrape per term in memory
type Store struct {
	cache *cache.Cache
}

func NewStore() *Store {
	return &Store{cache: cache.New(storeTTL, storeCleanupInterval)}
}

// Put replaces the stored courses for a term
func (s *Store) Put(term scraper.Term, courses []scraper.Course, at time.Time) {
	s.cache.Set(term.String(), Snapshot{Term: term, Courses: courses, ScrapedAt: at}, cache.DefaultExpiration)
}

// Get returns the stored snapshot for a term key such as "202530"
func (s *Store) Get(term string) (Snapshot, bool) {
	v, ok := s.cache.Get(term)
	if !ok {
		return Snapshot{}, false
	}
	snap, ok := v.(Snapshot)
	return snap, ok
}

// Terms lists the term keys currently held
func (s *Store) Terms() []string {
	items := s.cache.Items()
	terms := make([]string, 0, len(items))
	for k, item := range items {
		if _, ok := item.Object.(Snapshot); ok {
			terms = append(terms, k)
		}
	}
	return terms
}

// PutAttributes stores the course attribute table
func (s *Store) PutAttributes(attrs []scraper.CourseAttributes) {
	s.cache.Set(attributesKey, attrs, cache.DefaultExpiration)
}

// Attributes returns the stored course attribute table
func (s *Store) Attributes() ([]scraper.CourseAttributes, bool) {
	v, ok := s.cache.Get(attributesKey)
	if !ok {
		return nil, false
	}
	attrs, ok := v.([]scraper.CourseAttributes)
	return attrs, ok
}
