package services

import (
	"context"
	"log"
	"time"

	"deepnap-crm/internal/adapters/persistence/models"
	"deepnap-crm/internal/adapters/persistence/repositories"

	"github.com/robfig/cron/v3"
)

// ReminderService emails admins about leads due for follow-up. The daily
// sweep only reads and notifies; account and subscription state is never
// touched outside the request path.
type ReminderService struct {
	leadRepo  repositories.LeadRepository
	adminRepo repositories.AdminRepository
	emailSvc  *EmailService
	cron      *cron.Cron
}

// NewReminderService creates a new reminder service
func NewReminderService(
	leadRepo repositories.LeadRepository,
	adminRepo repositories.AdminRepository,
	emailSvc *EmailService,
) *ReminderService {
	return &ReminderService{
		leadRepo:  leadRepo,
		adminRepo: adminRepo,
		emailSvc:  emailSvc,
		cron:      cron.New(),
	}
}

// Start schedules the daily sweep at 08:00 server time
func (s *ReminderService) Start() error {
	if _, err := s.cron.AddFunc("0 8 * * *", s.sweep); err != nil {
		return err
	}
	s.cron.Start()
	log.Println("🚀 Follow-up reminder scheduler started")
	return nil
}

// Stop halts the scheduler and waits for a running sweep to finish
func (s *ReminderService) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	log.Println("🛑 Follow-up reminder scheduler stopped")
}

// sweep collects today's due follow-ups across all tenants and sends one
// summary email per responsible admin.
func (s *ReminderService) sweep() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	now := time.Now()
	endOfDay := time.Date(now.Year(), now.Month(), now.Day(), 23, 59, 59, 0, now.Location())

	leads, err := s.leadRepo.DueFollowupsForAll(ctx, endOfDay)
	if err != nil {
		log.Printf("❌ Follow-up sweep failed: %v", err)
		return
	}
	if len(leads) == 0 {
		return
	}

	// Assigned admin owns the follow-up; creator owns unassigned leads.
	perAdmin := make(map[uint]int)
	for _, lead := range leads {
		owner := lead.CreatorID
		if lead.AssignedID != nil {
			owner = *lead.AssignedID
		}
		perAdmin[owner]++
	}

	sent := 0
	for adminID, count := range perAdmin {
		admin, err := s.adminRepo.GetByID(ctx, adminID)
		if err != nil {
			continue
		}
		if err := s.notify(admin, count); err != nil {
			log.Printf("❌ Reminder email to %s failed: %v", admin.Email, err)
			continue
		}
		sent++
	}

	log.Printf("✅ Follow-up sweep done: %d lead(s), %d reminder(s) sent", len(leads), sent)
}

func (s *ReminderService) notify(admin *models.Admin, count int) error {
	return s.emailSvc.SendFollowupReminder(admin.Email, admin.Name, count)
}
