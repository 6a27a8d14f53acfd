package dto

import "time"

type CreateEventRequest struct {
	Title       string    `json:"title" binding:"required,max=255"`
	Description string    `json:"description"`
	Location    string    `json:"location" binding:"omitempty,max=255"`
	StartsAt    time.Time `json:"starts_at" binding:"required"`
	EndsAt      time.Time `json:"ends_at" binding:"required,gtfield=StartsAt"`
	Capacity    int       `json:"capacity" binding:"min=0"`
}
