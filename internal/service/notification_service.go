package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/ignatzorin/gigwork-backend/internal/goroutine"
	"github.com/ignatzorin/gigwork-backend/internal/logger"
	"github.com/ignatzorin/gigwork-backend/internal/models"
)

// Notifier уведомляет пользователя о событии. Реализация обязана быть
// fire-and-forget: сбой доставки не должен влиять на основную операцию.
type Notifier interface {
	Notify(userID uuid.UUID, event string, payload interface{})
}

// NotificationRepository описывает зависимости от слоя хранилища.
type NotificationRepository interface {
	Create(ctx context.Context, n *models.Notification) error
	ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]models.Notification, error)
	CountUnread(ctx context.Context, userID uuid.UUID) (int, error)
	MarkRead(ctx context.Context, id, userID uuid.UUID) error
	MarkAllRead(ctx context.Context, userID uuid.UUID) (int64, error)
}

// NotificationService сохраняет уведомления и рассылает их по WebSocket.
type NotificationService struct {
	repo   NotificationRepository
	pusher Notifier
}

// NewNotificationService создаёт сервис уведомлений.
func NewNotificationService(repo NotificationRepository, pusher Notifier) *NotificationService {
	return &NotificationService{repo: repo, pusher: pusher}
}

// Send сохраняет уведомление и отправляет его получателю в фоне.
// Ошибки здесь только логируются: уведомления не должны откатывать
// бизнес-операцию, которая их породила.
func (s *NotificationService) Send(ctx context.Context, userID uuid.UUID, ntype, title, body string, entityID *uuid.UUID) {
	n := &models.Notification{
		UserID:   userID,
		Type:     ntype,
		Title:    title,
		Body:     body,
		EntityID: entityID,
	}

	goroutine.SafeGo(func() {
		if err := s.repo.Create(context.Background(), n); err != nil {
			logger.Log.WithError(err).WithField("user_id", userID).Warn("не удалось сохранить уведомление")
			return
		}
		if s.pusher != nil {
			s.pusher.Notify(userID, ntype, n)
		}
	})
}

// List возвращает уведомления пользователя.
func (s *NotificationService) List(ctx context.Context, userID uuid.UUID, limit, offset int) ([]models.Notification, error) {
	return s.repo.ListByUser(ctx, userID, limit, offset)
}

// UnreadCount возвращает число непрочитанных уведомлений.
func (s *NotificationService) UnreadCount(ctx context.Context, userID uuid.UUID) (int, error) {
	return s.repo.CountUnread(ctx, userID)
}

// MarkRead помечает уведомление прочитанным.
func (s *NotificationService) MarkRead(ctx context.Context, id, userID uuid.UUID) error {
	return s.repo.MarkRead(ctx, id, userID)
}

// MarkAllRead помечает все уведомления пользователя прочитанными.
func (s *NotificationService) MarkAllRead(ctx context.Context, userID uuid.UUID) (int64, error) {
	return s.repo.MarkAllRead(ctx, userID)
}
