package repository

import (
	"context"

	"github.com/jhoicas/swarna-khata-api/internal/domain/entity"
)

// UserRepository puerto de persistencia para usuarios.
type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	GetByPhone(ctx context.Context, phone string) (*entity.User, error)
	Update(ctx context.Context, user *entity.User) error
}

// OTPRepository guarda el desafío OTP vigente por teléfono (uno por teléfono).
type OTPRepository interface {
	Save(ctx context.Context, challenge *entity.OTPChallenge) error
	Get(ctx context.Context, phone string) (*entity.OTPChallenge, error)
	Delete(ctx context.Context, phone string) error
}
