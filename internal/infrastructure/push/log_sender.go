package push

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/jhoicas/swarna-khata-api/internal/application/ports"
)

var (
	_ ports.PushSender = (*LogSender)(nil)
	_ ports.OTPSender  = (*LogOTPSender)(nil)
)

// LogSender registra los push en el log en lugar de enviarlos (desarrollo).
type LogSender struct {
	log zerolog.Logger
}

func NewLogSender(log zerolog.Logger) *LogSender {
	return &LogSender{log: log}
}

func (s *LogSender) Send(_ context.Context, msg ports.PushMessage) error {
	s.log.Info().Str("type", msg.Data["type"]).Str("shop_id", msg.Data["shopId"]).Str("title", msg.Title).Msg("push (log)")
	return nil
}

// LogOTPSender escribe el código OTP en el log. Solo para desarrollo: no usar en producción.
type LogOTPSender struct {
	log zerolog.Logger
}

func NewLogOTPSender(log zerolog.Logger) *LogOTPSender {
	return &LogOTPSender{log: log}
}

func (s *LogOTPSender) SendOTP(_ context.Context, phone, code string) error {
	s.log.Warn().Str("phone", phone).Str("code", code).Msg("otp (log)")
	return nil
}
