package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"smartlib.id/backend/internal/dto"
	"smartlib.id/backend/internal/model"
)

// recordingNotificationService captures factory calls so tests can assert
// on what the dispatcher decided to emit.
type recordingNotificationService struct {
	created   []CreateNotificationInput
	createErr error
}

func (r *recordingNotificationService) Create(_ context.Context, input CreateNotificationInput) (*model.Notification, error) {
	if r.createErr != nil {
		return nil, r.createErr
	}
	r.created = append(r.created, input)
	return &model.Notification{ID: uuid.New(), UserID: input.UserID, Title: input.Title}, nil
}

func (r *recordingNotificationService) List(context.Context, uuid.UUID, dto.NotificationFilter) ([]model.Notification, error) {
	return nil, nil
}
func (r *recordingNotificationService) GetByID(context.Context, uuid.UUID, uuid.UUID) (*model.Notification, error) {
	return nil, nil
}
func (r *recordingNotificationService) Update(context.Context, uuid.UUID, uuid.UUID, dto.UpdateNotificationRequest) (*model.Notification, error) {
	return nil, nil
}
func (r *recordingNotificationService) Delete(context.Context, uuid.UUID, uuid.UUID) error {
	return nil
}
func (r *recordingNotificationService) MarkAsRead(context.Context, uuid.UUID, uuid.UUID) (*model.Notification, error) {
	return nil, nil
}
func (r *recordingNotificationService) MarkAllAsRead(context.Context, uuid.UUID) (int64, error) {
	return 0, nil
}
func (r *recordingNotificationService) UnreadCount(context.Context, uuid.UUID) (int64, error) {
	return 0, nil
}

func newTestDispatcher() (*NotificationDispatcher, *recordingNotificationService) {
	rec := &recordingNotificationService{}
	return NewNotificationDispatcher(rec, zap.NewNop()), rec
}

func TestSeatBookingSavedCreated(t *testing.T) {
	d, rec := newTestDispatcher()

	booking := &model.SeatBooking{
		ID:          uuid.New(),
		SeatID:      uuid.New(),
		UserID:      uuid.New(),
		BookingDate: time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC),
		TimeSlot:    "09:00-12:00",
		Status:      model.BookingStatusBooked,
	}
	d.SeatBookingSaved(context.Background(), booking, true)

	require.Len(t, rec.created, 1)
	got := rec.created[0]
	assert.Equal(t, booking.UserID, got.UserID)
	assert.Equal(t, model.NotificationSuccess, got.Type)
	assert.Equal(t, "Seat Booking Confirmed", got.Title)
	require.NotNil(t, got.ActionURL)
	assert.Equal(t, "/bookings/"+booking.ID.String(), *got.ActionURL)

	ref, ok := got.Metadata.(BookingRef)
	require.True(t, ok)
	assert.Equal(t, booking.ID, ref.BookingID)
	assert.Equal(t, booking.SeatID, ref.SeatID)
	assert.Equal(t, "BOOKED", ref.Status)
}

func TestSeatBookingSavedTransitions(t *testing.T) {
	now := time.Now()

	cases := []struct {
		name      string
		booking   model.SeatBooking
		wantTitle string
		wantType  model.NotificationType
	}{
		{
			name:      "check-in",
			booking:   model.SeatBooking{Status: model.BookingStatusCheckedIn, CheckInTime: &now},
			wantTitle: "Seat Check-in Successful",
			wantType:  model.NotificationSuccess,
		},
		{
			name:      "check-out",
			booking:   model.SeatBooking{Status: model.BookingStatusCompleted, CheckOutTime: &now},
			wantTitle: "Seat Check-out Completed",
			wantType:  model.NotificationInfo,
		},
		{
			name:      "cancelled",
			booking:   model.SeatBooking{Status: model.BookingStatusCancelled},
			wantTitle: "Seat Booking Cancelled",
			wantType:  model.NotificationInfo,
		},
		{
			name:      "no-show",
			booking:   model.SeatBooking{Status: model.BookingStatusNoShow},
			wantTitle: "Booking Marked as No-Show",
			wantType:  model.NotificationWarning,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			d, rec := newTestDispatcher()
			tc.booking.ID = uuid.New()
			tc.booking.UserID = uuid.New()

			d.SeatBookingSaved(context.Background(), &tc.booking, false)

			require.Len(t, rec.created, 1)
			assert.Equal(t, tc.wantTitle, rec.created[0].Title)
			assert.Equal(t, tc.wantType, rec.created[0].Type)
		})
	}
}

func TestSeatBookingSavedNoMatchEmitsNothing(t *testing.T) {
	d, rec := newTestDispatcher()

	// A BOOKED save that is not a creation matches no condition.
	d.SeatBookingSaved(context.Background(), &model.SeatBooking{
		ID:     uuid.New(),
		UserID: uuid.New(),
		Status: model.BookingStatusBooked,
	}, false)

	// CHECKED_IN without a check-in time also matches nothing.
	d.SeatBookingSaved(context.Background(), &model.SeatBooking{
		ID:     uuid.New(),
		UserID: uuid.New(),
		Status: model.BookingStatusCheckedIn,
	}, false)

	assert.Empty(t, rec.created)
}

func TestReservationSavedTransitions(t *testing.T) {
	book := &model.Book{ID: uuid.New(), Title: "The Go Programming Language"}

	cases := []struct {
		name      string
		status    model.ReservationStatus
		created   bool
		wantTitle string
		wantType  model.NotificationType
	}{
		{"created", model.ReservationStatusPending, true, "Book Reservation Confirmed", model.NotificationSuccess},
		{"ready", model.ReservationStatusReady, false, "Book Ready for Pickup", model.NotificationInfo},
		{"overdue", model.ReservationStatusOverdue, false, "Book Overdue", model.NotificationWarning},
		{"returned", model.ReservationStatusReturned, false, "Book Returned", model.NotificationSuccess},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			d, rec := newTestDispatcher()
			reservation := &model.BookReservation{
				ID:     uuid.New(),
				BookID: book.ID,
				UserID: uuid.New(),
				Status: tc.status,
				Book:   book,
			}

			d.ReservationSaved(context.Background(), reservation, tc.created)

			require.Len(t, rec.created, 1)
			assert.Equal(t, tc.wantTitle, rec.created[0].Title)
			assert.Equal(t, tc.wantType, rec.created[0].Type)
			assert.Contains(t, rec.created[0].Message, `"The Go Programming Language"`)
		})
	}
}

func TestReservationSavedSilentTransitions(t *testing.T) {
	d, rec := newTestDispatcher()

	for _, status := range []model.ReservationStatus{
		model.ReservationStatusBorrowed,
		model.ReservationStatusCancelled,
	} {
		d.ReservationSaved(context.Background(), &model.BookReservation{
			ID:     uuid.New(),
			UserID: uuid.New(),
			Status: status,
		}, false)
	}

	assert.Empty(t, rec.created)
}

func TestRegistrationSavedCertificateIssued(t *testing.T) {
	d, rec := newTestDispatcher()

	certURL := "https://res.cloudinary.com/demo/certificates/abc.pdf"
	registration := &model.EventRegistration{
		ID:                uuid.New(),
		EventID:           uuid.New(),
		UserID:            uuid.New(),
		Status:            model.RegistrationStatusAttended,
		CertificateIssued: true,
		CertificateURL:    &certURL,
		Event:             &model.Event{ID: uuid.New(), Title: "Gophers Night"},
	}

	d.RegistrationSaved(context.Background(), registration, false)

	// ATTENDED outranks the certificate branch; first match wins.
	require.Len(t, rec.created, 1)
	assert.Equal(t, "Event Attendance Recorded", rec.created[0].Title)

	// A registration whose only signal is the certificate gets the
	// certificate notification with the document as the action URL.
	rec.created = nil
	registration.Status = model.RegistrationStatusRegistered
	d.RegistrationSaved(context.Background(), registration, false)

	require.Len(t, rec.created, 1)
	assert.Equal(t, "Event Certificate Issued", rec.created[0].Title)
	require.NotNil(t, rec.created[0].ActionURL)
	assert.Equal(t, certURL, *rec.created[0].ActionURL)
}

func TestAccessReviewed(t *testing.T) {
	d, rec := newTestDispatcher()

	request := &model.AccessRequest{ID: uuid.New(), UserID: uuid.New(), LibraryID: uuid.New()}
	library := &model.Library{ID: request.LibraryID, Name: "Main Library"}

	require.NoError(t, d.AccessReviewed(context.Background(), request, library, true))
	require.NoError(t, d.AccessReviewed(context.Background(), request, library, false))

	require.Len(t, rec.created, 2)
	assert.Equal(t, "Library Access Approved", rec.created[0].Title)
	assert.Equal(t, model.NotificationSuccess, rec.created[0].Type)
	assert.Equal(t, "Library Access Rejected", rec.created[1].Title)
	assert.Equal(t, model.NotificationWarning, rec.created[1].Type)

	approvedRef := rec.created[0].Metadata.(AccessGrantRef)
	assert.Equal(t, "APPROVED", approvedRef.Status)
	rejectedRef := rec.created[1].Metadata.(AccessGrantRef)
	assert.Equal(t, "REJECTED", rejectedRef.Status)
}

func TestAccessReviewedPropagatesError(t *testing.T) {
	rec := &recordingNotificationService{createErr: errors.New("store down")}
	d := NewNotificationDispatcher(rec, zap.NewNop())

	err := d.AccessReviewed(context.Background(),
		&model.AccessRequest{ID: uuid.New(), UserID: uuid.New()},
		&model.Library{Name: "Main Library"}, true)
	assert.Error(t, err)
}

func TestBookingLifecycleEmitsPerTransition(t *testing.T) {
	d, rec := newTestDispatcher()

	booking := &model.SeatBooking{
		ID:     uuid.New(),
		SeatID: uuid.New(),
		UserID: uuid.New(),
		Status: model.BookingStatusBooked,
	}

	d.SeatBookingSaved(context.Background(), booking, true)
	booking.Status = model.BookingStatusCancelled
	d.SeatBookingSaved(context.Background(), booking, false)

	require.Len(t, rec.created, 2)
	assert.Equal(t, "Seat Booking Confirmed", rec.created[0].Title)
	assert.Equal(t, "Seat Booking Cancelled", rec.created[1].Title)
}
