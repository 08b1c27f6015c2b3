package repository

import (
	"context"
	"time"

	"github.com/jhoicas/swarna-khata-api/internal/domain/entity"
)

// RecycleBinRepository lápidas de registros eliminados.
type RecycleBinRepository interface {
	Create(ctx context.Context, entry *entity.RecycledEntry) error
	GetByID(ctx context.Context, shopID, id string) (*entity.RecycledEntry, error)
	List(ctx context.Context, shopID, itemType string) ([]*entity.RecycledEntry, error)
	Delete(ctx context.Context, shopID, id string) error
	// DeleteExpired borra las lápidas con ExpiresAt <= before y devuelve cuántas.
	DeleteExpired(ctx context.Context, before time.Time) (int, error)
}
