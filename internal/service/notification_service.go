package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"lecturenotes-be/internal/model"
	"lecturenotes-be/internal/pkg/logger"
	"lecturenotes-be/internal/repository"
	"lecturenotes-be/pkg/events"
	pkgNats "lecturenotes-be/pkg/nats"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// NotificationDelivery pushes real-time updates to connected clients.
// Implemented by the websocket hub.
type NotificationDelivery interface {
	Send(userID uuid.UUID, notification model.Notification)
}

type NotificationService struct {
	repo       repository.NotificationRepository
	subscriber *pkgNats.Subscriber
	delivery   NotificationDelivery
	logger     logger.ILogger
}

func NewNotificationService(repo repository.NotificationRepository, sub *pkgNats.Subscriber, delivery NotificationDelivery, log logger.ILogger) *NotificationService {
	return &NotificationService{
		repo:       repo,
		subscriber: sub,
		delivery:   delivery,
		logger:     log,
	}
}

// Start begins listening to the note event bus.
func (s *NotificationService) Start() {
	if err := s.subscriber.Subscribe("notes.>", "notification-worker", s.handleEvent); err != nil {
		s.logger.Error("notification", "Failed to start notification subscriber", map[string]interface{}{"error": err.Error()})
		return
	}
	s.logger.Info("notification", "Notification service listening on notes.>", nil)
}

func (s *NotificationService) handleEvent(ctx context.Context, event events.Event) error {
	notif, ok := s.buildNotification(event)
	if !ok {
		// Unknown or self-targeted events are acked, not retried.
		return nil
	}

	if err := s.repo.CreateNotification(ctx, &notif); err != nil {
		s.logger.Error("notification", "Failed to persist notification", map[string]interface{}{
			"type":  event.EventType(),
			"error": err.Error(),
		})
		return err
	}

	if s.delivery != nil {
		s.delivery.Send(notif.UserID, notif)
	}
	return nil
}

// buildNotification renders a persisted notification from an event. The second
// return value is false when the event does not produce one.
func (s *NotificationService) buildNotification(event events.Event) (model.Notification, bool) {
	payload := event.Payload()

	ownerID, ok := parsePayloadUUID(payload, "ownerId")
	if !ok {
		s.logger.Warn("notification", "Event missing ownerId", map[string]interface{}{"type": event.EventType()})
		return model.Notification{}, false
	}

	noteID, _ := parsePayloadUUID(payload, "noteId")
	actorName, _ := payload["actorName"].(string)
	if actorName == "" {
		actorName = "Someone"
	}

	var title, message string
	switch event.EventType() {
	case events.TypeNoteLiked:
		title = "New like"
		message = fmt.Sprintf("%s liked your note", actorName)
	case events.TypeNoteCommented:
		title = "New comment"
		preview, _ := payload["preview"].(string)
		if preview != "" {
			message = fmt.Sprintf("%s commented: %s", actorName, preview)
		} else {
			message = fmt.Sprintf("%s commented on your note", actorName)
		}
	case events.TypeNoteCreated:
		noteTitle, _ := payload["title"].(string)
		title = "Note ready"
		message = fmt.Sprintf("Your note %q has been generated", noteTitle)
	default:
		return model.Notification{}, false
	}

	var actorID *uuid.UUID
	if aid, ok := parsePayloadUUID(payload, "actorId"); ok {
		actorID = &aid
	}
	var notePtr *uuid.UUID
	if noteID != uuid.Nil {
		notePtr = &noteID
	}

	metaJSON, _ := json.Marshal(payload)

	return model.Notification{
		ID:        uuid.New(),
		UserID:    ownerID,
		ActorID:   actorID,
		TypeCode:  event.EventType(),
		NoteID:    notePtr,
		Title:     title,
		Message:   message,
		Metadata:  datatypes.JSON(metaJSON),
		IsRead:    false,
		CreatedAt: time.Now(),
	}, true
}

func parsePayloadUUID(payload map[string]interface{}, key string) (uuid.UUID, bool) {
	str, ok := payload[key].(string)
	if !ok {
		return uuid.Nil, false
	}
	id, err := uuid.Parse(str)
	if err != nil {
		return uuid.Nil, false
	}
	return id, true
}

// GetNotifications fetches a page of notifications for a user.
func (s *NotificationService) GetNotifications(ctx context.Context, userID uuid.UUID, limit, offset int) ([]model.Notification, int64, error) {
	return s.repo.GetNotificationsByUserID(ctx, userID, limit, offset)
}

// GetUnreadCount fetches the unread count.
func (s *NotificationService) GetUnreadCount(ctx context.Context, userID uuid.UUID) (int64, error) {
	return s.repo.GetUnreadCount(ctx, userID)
}

// MarkAsRead marks a single notification as read.
func (s *NotificationService) MarkAsRead(ctx context.Context, id uuid.UUID) error {
	return s.repo.MarkAsRead(ctx, id)
}

// MarkAllAsRead marks everything in the user's inbox as read.
func (s *NotificationService) MarkAllAsRead(ctx context.Context, userID uuid.UUID) error {
	return s.repo.MarkAllAsRead(ctx, userID)
}
