package notification

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/jhoicas/swarna-khata-api/internal/application/dto"
	"github.com/jhoicas/swarna-khata-api/internal/application/ports"
	"github.com/jhoicas/swarna-khata-api/internal/domain"
	"github.com/jhoicas/swarna-khata-api/internal/domain/entity"
	"github.com/jhoicas/swarna-khata-api/internal/domain/repository"
)

var _ ports.Notifier = (*Service)(nil)

// Service persiste los avisos de la tienda y los envía por push a sus dispositivos.
type Service struct {
	repo   repository.NotificationRepository
	tokens repository.DeviceTokenRepository
	push   ports.PushSender
	log    zerolog.Logger
	now    func() time.Time
}

// NewService construye el servicio.
func NewService(repo repository.NotificationRepository, tokens repository.DeviceTokenRepository, push ports.PushSender, log zerolog.Logger) *Service {
	return &Service{repo: repo, tokens: tokens, push: push, log: log, now: time.Now}
}

// Notify guarda el aviso y lo difunde. Los fallos solo se registran.
func (s *Service) Notify(ctx context.Context, n *entity.Notification) {
	if n.ID == "" {
		n.ID = uuid.New().String()
	}
	if n.CreatedAt.IsZero() {
		n.CreatedAt = s.now()
	}
	if err := s.repo.Create(ctx, n); err != nil {
		s.log.Error().Err(err).Str("shop_id", n.ShopID).Str("type", n.Type).Msg("guardar notificación")
		return
	}
	if s.push == nil {
		return
	}
	tokens, err := s.tokens.ListByShop(ctx, n.ShopID)
	if err != nil {
		s.log.Error().Err(err).Str("shop_id", n.ShopID).Msg("listar dispositivos")
		return
	}
	msg := pushMessage(n)
	for _, t := range tokens {
		msg.Token = t.Token
		err := s.push.Send(ctx, msg)
		switch {
		case errors.Is(err, ports.ErrTokenUnregistered):
			if err := s.tokens.Delete(ctx, t.Token); err != nil {
				s.log.Error().Err(err).Str("shop_id", n.ShopID).Msg("dar de baja token push")
				continue
			}
			s.log.Info().Str("shop_id", n.ShopID).Msg("token push dado de baja")
		case err != nil:
			s.log.Warn().Err(err).Str("shop_id", n.ShopID).Str("type", n.Type).Msg("envío push")
		}
	}
}

func pushMessage(n *entity.Notification) ports.PushMessage {
	data := map[string]string{
		"type":    n.Type,
		"title":   n.Title,
		"message": n.Message,
		"shopId":  n.ShopID,
	}
	if n.InvoiceID != "" {
		data["invoiceId"] = n.InvoiceID
	}
	if n.CustomerID != "" {
		data["customerId"] = n.CustomerID
	}
	if n.ItemID != "" {
		data["itemId"] = n.ItemID
	}
	if n.Amount != nil {
		data["amount"] = n.Amount.StringFixed(2)
	}
	return ports.PushMessage{Title: n.Title, Body: n.Message, Data: data}
}

// List avisos de la tienda, más recientes primero.
func (s *Service) List(ctx context.Context, shopID string, unreadOnly bool, page dto.PageRequest) ([]dto.NotificationResponse, error) {
	page.DefaultPage()
	list, err := s.repo.List(ctx, shopID, unreadOnly, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	out := make([]dto.NotificationResponse, 0, len(list))
	for _, n := range list {
		out = append(out, dto.NotificationResponse{
			ID: n.ID, Type: n.Type, Title: n.Title, Message: n.Message,
			InvoiceID: n.InvoiceID, CustomerID: n.CustomerID, ItemID: n.ItemID,
			Amount: n.Amount, Read: n.Read, CreatedAt: n.CreatedAt,
		})
	}
	return out, nil
}

func (s *Service) MarkRead(ctx context.Context, shopID, id string) error {
	return s.repo.MarkRead(ctx, shopID, id)
}

func (s *Service) MarkAllRead(ctx context.Context, shopID string) (int, error) {
	return s.repo.MarkAllRead(ctx, shopID)
}

func (s *Service) UnreadCount(ctx context.Context, shopID string) (int, error) {
	return s.repo.CountUnread(ctx, shopID)
}

// RegisterDevice guarda (o reasigna) el token FCM del dispositivo.
func (s *Service) RegisterDevice(ctx context.Context, shopID, userID string, in dto.DeviceTokenRequest) error {
	token := strings.TrimSpace(in.Token)
	if token == "" {
		return domain.ErrInvalidInput
	}
	platform := in.Platform
	if platform == "" {
		platform = "android"
	}
	return s.tokens.Save(ctx, &entity.DeviceToken{
		Token: token, ShopID: shopID, UserID: userID, Platform: platform, CreatedAt: s.now(),
	})
}

// UnregisterDevice elimina el token (logout del dispositivo).
func (s *Service) UnregisterDevice(ctx context.Context, token string) error {
	return s.tokens.Delete(ctx, token)
}
