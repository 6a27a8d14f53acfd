package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"smartlib.id/backend/internal/dto"
	"smartlib.id/backend/internal/model"
	"smartlib.id/backend/internal/service"
	"smartlib.id/backend/pkg/apperror"
)

// stubNotificationService returns canned values so handler tests can focus
// on routing, auth context and response shapes.
type stubNotificationService struct {
	notifications []model.Notification
	notification  *model.Notification
	unread        int64
	updated       int64
	err           error
}

func (s *stubNotificationService) Create(context.Context, service.CreateNotificationInput) (*model.Notification, error) {
	return s.notification, s.err
}
func (s *stubNotificationService) List(context.Context, uuid.UUID, dto.NotificationFilter) ([]model.Notification, error) {
	return s.notifications, s.err
}
func (s *stubNotificationService) GetByID(context.Context, uuid.UUID, uuid.UUID) (*model.Notification, error) {
	return s.notification, s.err
}
func (s *stubNotificationService) Update(context.Context, uuid.UUID, uuid.UUID, dto.UpdateNotificationRequest) (*model.Notification, error) {
	return s.notification, s.err
}
func (s *stubNotificationService) Delete(context.Context, uuid.UUID, uuid.UUID) error {
	return s.err
}
func (s *stubNotificationService) MarkAsRead(context.Context, uuid.UUID, uuid.UUID) (*model.Notification, error) {
	return s.notification, s.err
}
func (s *stubNotificationService) MarkAllAsRead(context.Context, uuid.UUID) (int64, error) {
	return s.updated, s.err
}
func (s *stubNotificationService) UnreadCount(context.Context, uuid.UUID) (int64, error) {
	return s.unread, s.err
}

func setupNotificationRouter(svc service.NotificationService, userID string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()

	if userID != "" {
		router.Use(func(c *gin.Context) {
			c.Set("user_id", userID)
			c.Next()
		})
	}

	h := NewNotificationHandler(svc, nil, zap.NewNop())
	router.GET("/notifications", h.List)
	router.GET("/notifications/unread-count", h.UnreadCount)
	router.POST("/notifications/mark-all-read", h.MarkAllAsRead)
	router.GET("/notifications/:id", h.Get)
	router.PATCH("/notifications/:id", h.Update)
	router.DELETE("/notifications/:id", h.Delete)
	router.POST("/notifications/:id/read", h.MarkAsRead)
	return router
}

func TestListNotificationsUnauthorized(t *testing.T) {
	router := setupNotificationRouter(&stubNotificationService{}, "")

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/notifications", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestListNotifications(t *testing.T) {
	userID := uuid.New()
	svc := &stubNotificationService{
		notifications: []model.Notification{
			{ID: uuid.New(), UserID: userID, Title: "A", Message: "a", Type: model.NotificationInfo},
			{ID: uuid.New(), UserID: userID, Title: "B", Message: "b", Type: model.NotificationWarning},
		},
	}
	router := setupNotificationRouter(svc, userID.String())

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/notifications?is_read=false", nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var response struct {
		Data []model.Notification `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Len(t, response.Data, 2)
}

func TestGetNotificationNotOwned(t *testing.T) {
	svc := &stubNotificationService{err: apperror.ErrNotFound}
	router := setupNotificationRouter(svc, uuid.New().String())

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/notifications/"+uuid.New().String(), nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)

	var response map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	// The message must not reveal whether the record exists for someone else.
	assert.Equal(t, "resource not found", response["error"])
}

func TestGetNotificationInvalidID(t *testing.T) {
	router := setupNotificationRouter(&stubNotificationService{}, uuid.New().String())

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/notifications/not-a-uuid", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUnreadCount(t *testing.T) {
	svc := &stubNotificationService{unread: 7}
	router := setupNotificationRouter(svc, uuid.New().String())

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/notifications/unread-count", nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"count": 7}`, w.Body.String())
}

func TestMarkAllAsRead(t *testing.T) {
	svc := &stubNotificationService{updated: 3}
	router := setupNotificationRouter(svc, uuid.New().String())

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodPost, "/notifications/mark-all-read", nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"updated": 3}`, w.Body.String())
}

func TestMarkAsRead(t *testing.T) {
	id := uuid.New()
	svc := &stubNotificationService{
		notification: &model.Notification{ID: id, Title: "Seen", IsRead: true},
	}
	router := setupNotificationRouter(svc, uuid.New().String())

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodPost, "/notifications/"+id.String()+"/read", nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var response struct {
		Data model.Notification `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.True(t, response.Data.IsRead)
}

func TestUpdateNotificationRequiresBody(t *testing.T) {
	router := setupNotificationRouter(&stubNotificationService{}, uuid.New().String())

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodPatch, "/notifications/"+uuid.New().String(),
		strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestDeleteNotification(t *testing.T) {
	router := setupNotificationRouter(&stubNotificationService{}, uuid.New().String())

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodDelete, "/notifications/"+uuid.New().String(), nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
}
