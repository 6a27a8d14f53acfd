package dto

// NotificationFilter carries the optional list filters. Both are
// independently combinable; unknown type values simply match nothing.
type NotificationFilter struct {
	IsRead *bool  `form:"is_read"`
	Type   string `form:"type"`
}

// UpdateNotificationRequest only exposes the read flag; title, message and
// type are immutable after creation.
type UpdateNotificationRequest struct {
	IsRead *bool `json:"is_read" binding:"required"`
}

type UnreadCountResponse struct {
	Count int64 `json:"count"`
}

type MarkAllReadResponse struct {
	Updated int64 `json:"updated"`
}
