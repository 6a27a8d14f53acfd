package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"smartlib.id/backend/internal/metrics"
	"smartlib.id/backend/internal/model"
)

// Metadata payloads carried by dispatched notifications. One variant per
// source entity so clients can deep-link without a second query; they all
// serialize to the same open JSON shape.

type BookingRef struct {
	BookingID uuid.UUID `json:"booking_id"`
	SeatID    uuid.UUID `json:"seat_id"`
	Status    string    `json:"status"`
}

type ReservationRef struct {
	ReservationID uuid.UUID `json:"reservation_id"`
	BookID        uuid.UUID `json:"book_id"`
	Status        string    `json:"status"`
}

type RegistrationRef struct {
	RegistrationID uuid.UUID `json:"registration_id"`
	EventID        uuid.UUID `json:"event_id"`
	Status         string    `json:"status"`
}

type AccessGrantRef struct {
	RequestID uuid.UUID `json:"request_id"`
	LibraryID uuid.UUID `json:"library_id"`
	Status    string    `json:"status"`
}

// NotificationDispatcher synthesizes notifications from domain state
// transitions. Domain services call it explicitly after each save, passing
// the saved record plus a created flag, so the trigger conditions and their
// ordering stay auditable. Each method walks a priority-ordered predicate
// chain; the first matching condition wins and a save matching no condition
// produces nothing. Creation failures are logged and swallowed so the
// triggering mutation always succeeds.
type NotificationDispatcher struct {
	notifications NotificationService
	logger        *zap.Logger
}

func NewNotificationDispatcher(notifications NotificationService, logger *zap.Logger) *NotificationDispatcher {
	return &NotificationDispatcher{
		notifications: notifications,
		logger:        logger,
	}
}

// SeatBookingSaved inspects a just-saved seat booking and emits at most one
// notification for the observed transition.
func (d *NotificationDispatcher) SeatBookingSaved(ctx context.Context, booking *model.SeatBooking, created bool) {
	var (
		notifType model.NotificationType
		title     string
		message   string
	)

	switch {
	case created:
		notifType = model.NotificationSuccess
		title = "Seat Booking Confirmed"
		message = fmt.Sprintf("Your seat booking for %s (%s) is confirmed.",
			booking.BookingDate.Format("2006-01-02"), booking.TimeSlot)
	case booking.Status == model.BookingStatusCheckedIn && booking.CheckInTime != nil:
		notifType = model.NotificationSuccess
		title = "Seat Check-in Successful"
		message = fmt.Sprintf("You checked in at %s. Enjoy your study session.",
			booking.CheckInTime.Format("15:04"))
	case booking.Status == model.BookingStatusCompleted && booking.CheckOutTime != nil:
		notifType = model.NotificationInfo
		title = "Seat Check-out Completed"
		message = fmt.Sprintf("You checked out at %s. Thank you for visiting.",
			booking.CheckOutTime.Format("15:04"))
	case booking.Status == model.BookingStatusCancelled:
		notifType = model.NotificationInfo
		title = "Seat Booking Cancelled"
		message = "Your seat booking has been cancelled."
	case booking.Status == model.BookingStatusNoShow:
		notifType = model.NotificationWarning
		title = "Booking Marked as No-Show"
		message = "You did not check in for your seat booking. Repeated no-shows may restrict future bookings."
	default:
		return
	}

	actionURL := fmt.Sprintf("/bookings/%s", booking.ID)
	d.create(ctx, "seat_booking", CreateNotificationInput{
		UserID:    booking.UserID,
		Title:     title,
		Message:   message,
		Type:      notifType,
		ActionURL: &actionURL,
		Metadata: BookingRef{
			BookingID: booking.ID,
			SeatID:    booking.SeatID,
			Status:    string(booking.Status),
		},
	})
}

// ReservationSaved inspects a just-saved book reservation. Transitions are
// checked in order: created, ready for pickup, overdue, returned.
func (d *NotificationDispatcher) ReservationSaved(ctx context.Context, reservation *model.BookReservation, created bool) {
	bookTitle := "your reserved book"
	if reservation.Book != nil {
		bookTitle = fmt.Sprintf("%q", reservation.Book.Title)
	}

	var (
		notifType model.NotificationType
		title     string
		message   string
	)

	switch {
	case created:
		notifType = model.NotificationSuccess
		title = "Book Reservation Confirmed"
		message = fmt.Sprintf("Your reservation for %s has been placed.", bookTitle)
	case reservation.Status == model.ReservationStatusReady:
		notifType = model.NotificationInfo
		title = "Book Ready for Pickup"
		message = fmt.Sprintf("%s is ready for pickup at the front desk.", bookTitle)
	case reservation.Status == model.ReservationStatusOverdue:
		notifType = model.NotificationWarning
		title = "Book Overdue"
		message = fmt.Sprintf("%s is overdue. Please return it as soon as possible.", bookTitle)
	case reservation.Status == model.ReservationStatusReturned:
		notifType = model.NotificationSuccess
		title = "Book Returned"
		message = fmt.Sprintf("Thank you for returning %s.", bookTitle)
	default:
		return
	}

	actionURL := fmt.Sprintf("/reservations/%s", reservation.ID)
	d.create(ctx, "book_reservation", CreateNotificationInput{
		UserID:    reservation.UserID,
		Title:     title,
		Message:   message,
		Type:      notifType,
		ActionURL: &actionURL,
		Metadata: ReservationRef{
			ReservationID: reservation.ID,
			BookID:        reservation.BookID,
			Status:        string(reservation.Status),
		},
	})
}

// RegistrationSaved inspects a just-saved event registration. Transitions
// are checked in order: created, attended, cancelled, certificate issued.
func (d *NotificationDispatcher) RegistrationSaved(ctx context.Context, registration *model.EventRegistration, created bool) {
	eventTitle := "the event"
	if registration.Event != nil {
		eventTitle = fmt.Sprintf("%q", registration.Event.Title)
	}

	var (
		notifType model.NotificationType
		title     string
		message   string
	)

	switch {
	case created:
		notifType = model.NotificationSuccess
		title = "Event Registration Confirmed"
		message = fmt.Sprintf("You are registered for %s.", eventTitle)
	case registration.Status == model.RegistrationStatusAttended:
		notifType = model.NotificationSuccess
		title = "Event Attendance Recorded"
		message = fmt.Sprintf("Your attendance at %s has been recorded.", eventTitle)
	case registration.Status == model.RegistrationStatusCancelled:
		notifType = model.NotificationInfo
		title = "Event Registration Cancelled"
		message = fmt.Sprintf("Your registration for %s has been cancelled.", eventTitle)
	case registration.CertificateIssued && registration.CertificateURL != nil:
		notifType = model.NotificationInfo
		title = "Event Certificate Issued"
		message = fmt.Sprintf("Your attendance certificate for %s is available.", eventTitle)
	default:
		return
	}

	actionURL := fmt.Sprintf("/registrations/%s", registration.ID)
	if registration.CertificateIssued && registration.CertificateURL != nil {
		actionURL = *registration.CertificateURL
	}
	d.create(ctx, "event_registration", CreateNotificationInput{
		UserID:    registration.UserID,
		Title:     title,
		Message:   message,
		Type:      notifType,
		ActionURL: &actionURL,
		Metadata: RegistrationRef{
			RegistrationID: registration.ID,
			EventID:        registration.EventID,
			Status:         string(registration.Status),
		},
	})
}

// AccessReviewed emits the approval or rejection notification for a
// reviewed access request. Unlike the save hooks it returns the factory
// error: the bulk review loop wants to count skipped deliveries itself.
func (d *NotificationDispatcher) AccessReviewed(ctx context.Context, request *model.AccessRequest, library *model.Library, approved bool) error {
	status := "REJECTED"
	notifType := model.NotificationWarning
	title := "Library Access Rejected"
	message := fmt.Sprintf("Your access request for %q was rejected. See the request notes for details.", library.Name)

	if approved {
		status = "APPROVED"
		notifType = model.NotificationSuccess
		title = "Library Access Approved"
		message = fmt.Sprintf("Your access to %q has been approved. Welcome!", library.Name)
	}

	actionURL := fmt.Sprintf("/access-requests/%s", request.ID)
	_, err := d.notifications.Create(ctx, CreateNotificationInput{
		UserID:    request.UserID,
		Title:     title,
		Message:   message,
		Type:      notifType,
		ActionURL: &actionURL,
		Metadata: AccessGrantRef{
			RequestID: request.ID,
			LibraryID: request.LibraryID,
			Status:    status,
		},
	})
	return err
}

func (d *NotificationDispatcher) create(ctx context.Context, source string, input CreateNotificationInput) {
	if _, err := d.notifications.Create(ctx, input); err != nil {
		metrics.NotificationsSkipped.WithLabelValues(source).Inc()
		d.logger.Error("failed to dispatch notification",
			zap.String("source", source),
			zap.String("title", input.Title),
			zap.String("user_id", input.UserID.String()),
			zap.Error(err))
	}
}
