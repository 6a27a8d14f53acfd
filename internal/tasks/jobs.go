package tasks

import (
	"context"
	"time"

	"smartlib.id/backend/internal/repository"
	"smartlib.id/backend/internal/service"
)

// OverdueJob flags borrowed books past their due date.
type OverdueJob struct {
	Reservations service.ReservationService
}

func (j *OverdueJob) Name() string     { return "mark_overdue" }
func (j *OverdueJob) Schedule() string { return "0 * * * *" }

func (j *OverdueJob) Run(ctx context.Context) (int, error) {
	return j.Reservations.MarkOverdue(ctx, time.Now())
}

// NoShowJob flags seat bookings whose date passed without a check-in.
type NoShowJob struct {
	Bookings service.BookingService
}

func (j *NoShowJob) Name() string     { return "mark_no_shows" }
func (j *NoShowJob) Schedule() string { return "15 0 * * *" }

func (j *NoShowJob) Run(ctx context.Context) (int, error) {
	// Bookings dated before today had their whole day to check in.
	today := time.Now().Truncate(24 * time.Hour)
	return j.Bookings.MarkNoShows(ctx, today)
}

// ReminderJob notifies registrants of events starting within a day.
type ReminderJob struct {
	Events service.EventService
}

func (j *ReminderJob) Name() string     { return "event_reminders" }
func (j *ReminderJob) Schedule() string { return "*/30 * * * *" }

func (j *ReminderJob) Run(ctx context.Context) (int, error) {
	return j.Events.SendReminders(ctx, 24*time.Hour)
}

// RetentionJob prunes read notifications older than the retention window.
// Unread notifications are kept indefinitely.
type RetentionJob struct {
	Notifications repository.NotificationRepository
	Retention     time.Duration
}

func (j *RetentionJob) Name() string     { return "notification_retention" }
func (j *RetentionJob) Schedule() string { return "45 3 * * *" }

func (j *RetentionJob) Run(ctx context.Context) (int, error) {
	retention := j.Retention
	if retention <= 0 {
		retention = 90 * 24 * time.Hour
	}

	deleted, err := j.Notifications.DeleteReadOlderThan(ctx, time.Now().Add(-retention))
	return int(deleted), err
}
