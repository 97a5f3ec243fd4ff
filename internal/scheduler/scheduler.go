package scheduler

import (
	"log"
	"time"

	"github.com/go-co-op/gocron"

	"github.com/JustLearn2025/JustLearnBot/internal/database"
	"github.com/JustLearn2025/JustLearnBot/pkg/models"
)

// Scheduler manages scheduled tasks for the application
type Scheduler struct {
	scheduler *gocron.Scheduler
	notifier  Notifier
}

// Notifier delivers practice reminders to users. Delivery itself (chat
// message, email, ...) is owned by the presentation layer.
type Notifier interface {
	SendReminder(userID string, weakTopics []string) error
}

// New creates a new scheduler instance
func New(notifier Notifier) *Scheduler {
	s := gocron.NewScheduler(time.UTC)
	return &Scheduler{
		scheduler: s,
		notifier:  notifier,
	}
}

// Start begins running all scheduled tasks
func (s *Scheduler) Start() {
	// Hourly sweep for users whose reminder hour just came up
	s.scheduler.Every(1).Hour().Do(s.checkAndSendReminders)

	// Start the scheduler in a non-blocking manner
	s.scheduler.StartAsync()
}

// Stop terminates all scheduled tasks
func (s *Scheduler) Stop() {
	s.scheduler.Stop()
}

// checkAndSendReminders finds users whose local reminder hour matches the
// current time and sends them their weak-topic reminder
func (s *Scheduler) checkAndSendReminders() {
	reminderRepo := database.NewReminderRepository()
	masteryRepo := database.NewMasteryRepository()

	enabled, err := reminderRepo.ListEnabled()
	if err != nil {
		log.Printf("Error listing reminder settings: %v", err)
		return
	}

	now := time.Now()
	for _, settings := range enabled {
		location, err := time.LoadLocation(settings.Timezone)
		if err != nil {
			log.Printf("Invalid timezone %q for user %s, using UTC", settings.Timezone, settings.UserID)
			location = time.UTC
		}

		if now.In(location).Hour() != settings.Hour {
			continue
		}

		weakTopics, err := masteryRepo.List(settings.UserID, models.WeakTopics)
		if err != nil {
			log.Printf("Error getting weak topics for user %s: %v", settings.UserID, err)
			continue
		}

		// Nothing to practice, nothing to send
		if len(weakTopics) == 0 {
			continue
		}

		if err := s.notifier.SendReminder(settings.UserID, weakTopics); err != nil {
			log.Printf("Error sending reminder to user %s: %v", settings.UserID, err)
		}
	}
}

// RunManualCheck forces a reminder check for a specific user
func (s *Scheduler) RunManualCheck(userID string) error {
	masteryRepo := database.NewMasteryRepository()

	weakTopics, err := masteryRepo.List(userID, models.WeakTopics)
	if err != nil {
		return err
	}

	if len(weakTopics) > 0 {
		return s.notifier.SendReminder(userID, weakTopics)
	}
	return nil
}
