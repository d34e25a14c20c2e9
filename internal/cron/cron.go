package cron

import (
	"context"
	"log"

	"github.com/robfig/cron/v3"

	"github.com/teamflow-app/teamflow-backend/internal/repository"
)

// Scheduler runs periodic maintenance jobs. Expired invitations are
// already invisible to every read path; the sweep just keeps the table
// from accumulating dead rows.
type Scheduler struct {
	cron    *cron.Cron
	invRepo repository.InvitationRepository
}

func NewScheduler(invRepo repository.InvitationRepository) *Scheduler {
	return &Scheduler{
		cron:    cron.New(),
		invRepo: invRepo,
	}
}

func (s *Scheduler) Start() {
	// Run every day at 3 AM - purge expired pending invitations
	s.cron.AddFunc("0 3 * * *", func() {
		log.Println("[Cron] Running expired invitation sweep...")
		s.sweepExpiredInvitations()
	})

	s.cron.Start()
	log.Println("[Cron] Scheduler started")
}

func (s *Scheduler) Stop() {
	s.cron.Stop()
	log.Println("[Cron] Scheduler stopped")
}

func (s *Scheduler) sweepExpiredInvitations() {
	ctx := context.Background()

	deleted, err := s.invRepo.DeleteExpired(ctx)
	if err != nil {
		log.Printf("[Cron] Error deleting expired invitations: %v", err)
		return
	}
	if deleted > 0 {
		log.Printf("[Cron] Deleted %d expired invitations", deleted)
	}
}

// ManualTrigger runs a named job immediately (for testing).
func (s *Scheduler) ManualTrigger(checkType string) {
	switch checkType {
	case "invitations", "all":
		s.sweepExpiredInvitations()
	}
}
