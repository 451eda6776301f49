package services

import (
	"context"
	"time"

	"MediCareHMS/models"

	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type NotificationService struct {
	Notifications NotificationStore
	Users         UserStore
	Mailer        Mailer
	Now           func() time.Time
}

/*
* Store the notification for the user
* Mail it as well when a mailer is configured, a mail failure is only logged
 */
func (s *NotificationService) Notify(ctx context.Context, user primitive.ObjectID, kind, title, message string) error {
	n := &models.Notification{
		User:      user,
		Title:     title,
		Message:   message,
		Type:      kind,
		CreatedAt: now(s.Now),
	}
	if err := s.Notifications.Create(ctx, n); err != nil {
		log.Error().Err(err).Msg("Error creating notification")
		return err
	}
	if s.Mailer == nil || s.Users == nil {
		return nil
	}
	u, err := s.Users.FindByID(ctx, user)
	if err != nil {
		log.Warn().Err(err).Msg("Error loading user for notification mail")
		return nil
	}
	if err := s.Mailer.Send(u.Email, title, message); err != nil {
		log.Warn().Err(err).Str("to", u.Email).Msg("Error mailing notification")
	}
	return nil
}

func (s *NotificationService) List(ctx context.Context, actor Actor) ([]models.Notification, error) {
	list, err := s.Notifications.ListForUser(ctx, actor.UserID)
	if err != nil {
		log.Error().Err(err).Msg("Error listing notifications")
	}
	return list, err
}

func (s *NotificationService) MarkRead(ctx context.Context, actor Actor, id primitive.ObjectID) error {
	return s.Notifications.MarkRead(ctx, actor.UserID, id)
}

func (s *NotificationService) MarkAllRead(ctx context.Context, actor Actor) (int64, error) {
	return s.Notifications.MarkAllRead(ctx, actor.UserID)
}

func (s *NotificationService) Delete(ctx context.Context, actor Actor, id primitive.ObjectID) error {
	return s.Notifications.Delete(ctx, actor.UserID, id)
}
