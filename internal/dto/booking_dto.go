package dto

import "github.com/google/uuid"

type CreateBookingRequest struct {
	SeatID      uuid.UUID `json:"seat_id" binding:"required"`
	BookingDate string    `json:"booking_date" binding:"required"` // "2006-01-02"
	TimeSlot    string    `json:"time_slot" binding:"required,max=20"`
}

type CreateSeatRequest struct {
	Code  string `json:"code" binding:"required,max=20"`
	Floor int    `json:"floor" binding:"required"`
	Zone  string `json:"zone" binding:"omitempty,oneof=quiet group computer"`
}
