package server

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/robfig/cron/v3"
)

// RefreshSchedule runs at the top of every hour
const RefreshSchedule = "0 * * * *"

const refreshTimeout = 5 * time.Minute

// Scheduler periodically scrapes the current term into the store
type Scheduler struct {
	server *Server
	cron   *cron.Cron
}

// NewScheduler creates a scheduler on campus time
func NewScheduler(s *Server) (*Scheduler, error) {
	loc, err := time.LoadLocation("America/Vancouver")
	if err != nil {
		return nil, fmt.Errorf("could not load timezone: %w", err)
	}
	return &Scheduler{
		server: s,
		cron:   cron.New(cron.WithLocation(loc)),
	}, nil
}

// Start registers the refresh job and starts the cron loop
func (sc *Scheduler) Start() error {
	if _, err := sc.cron.AddFunc(RefreshSchedule, sc.runOnce); err != nil {
		return fmt.Errorf("failed to schedule refresh: %w", err)
	}
	sc.cron.Start()
	log.Printf("Course refresh scheduled (%s, America/Vancouver)", RefreshSchedule)
	return nil
}

// Stop halts the cron loop and waits for a running refresh to finish
func (sc *Scheduler) Stop() {
	<-sc.cron.Stop().Done()
	log.Println("Course refresh stopped")
}

func (sc *Scheduler) runOnce() {
	ctx, cancel := context.WithTimeout(context.Background(), refreshTimeout)
	defer cancel()

	snap, err := sc.server.Refresh(ctx)
	if err != nil {
		log.Printf("Scheduled refresh failed: %v", err)
		return
	}
	log.Printf("Scheduled refresh stored %d courses for %s", len(snap.Courses), snap.Term)
}
