package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/swarna-khata-api/internal/domain"
	"github.com/jhoicas/swarna-khata-api/internal/domain/entity"
	"github.com/jhoicas/swarna-khata-api/internal/domain/repository"
)

var (
	_ repository.UserRepository = (*UserRepo)(nil)
	_ repository.OTPRepository  = (*OTPRepo)(nil)
)

// UserRepo usuarios identificados por teléfono.
type UserRepo struct {
	q Querier
}

// NewUserRepository construye el adaptador. Pasar pool o tx (Querier).
func NewUserRepository(q Querier) *UserRepo {
	return &UserRepo{q: q}
}

const userColumns = `id, COALESCE(shop_id, ''), phone, name, role, status, created_at, updated_at`

func scanUser(row pgx.Row) (*entity.User, error) {
	var u entity.User
	if err := row.Scan(&u.ID, &u.ShopID, &u.Phone, &u.Name, &u.Role, &u.Status, &u.CreatedAt, &u.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &u, nil
}

// nullShop el usuario recién registrado no tiene tienda: shop_id NULL (la FK no admite '').
func nullShop(shopID string) *string {
	if shopID == "" {
		return nil
	}
	return &shopID
}

// Create persiste un nuevo usuario.
func (r *UserRepo) Create(ctx context.Context, u *entity.User) error {
	query := `
		INSERT INTO users (id, shop_id, phone, name, role, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.q.Exec(ctx, query, u.ID, nullShop(u.ShopID), u.Phone, u.Name, u.Role, u.Status, u.CreatedAt, u.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

// GetByID obtiene un usuario por ID.
func (r *UserRepo) GetByID(ctx context.Context, id string) (*entity.User, error) {
	u, err := scanUser(r.q.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id))
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	return u, nil
}

// GetByPhone obtiene un usuario por teléfono E.164.
func (r *UserRepo) GetByPhone(ctx context.Context, phone string) (*entity.User, error) {
	u, err := scanUser(r.q.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE phone = $1`, phone))
	if err != nil {
		return nil, fmt.Errorf("get user by phone: %w", err)
	}
	return u, nil
}

// Update actualiza tienda, nombre, rol y estado.
func (r *UserRepo) Update(ctx context.Context, u *entity.User) error {
	query := `UPDATE users SET shop_id = $2, name = $3, role = $4, status = $5, updated_at = $6 WHERE id = $1`
	tag, err := r.q.Exec(ctx, query, u.ID, nullShop(u.ShopID), u.Name, u.Role, u.Status, u.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update user: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// OTPRepo desafío OTP vigente por teléfono.
type OTPRepo struct {
	q Querier
}

// NewOTPRepository construye el adaptador.
func NewOTPRepository(q Querier) *OTPRepo {
	return &OTPRepo{q: q}
}

// Save reemplaza el desafío del teléfono.
func (r *OTPRepo) Save(ctx context.Context, c *entity.OTPChallenge) error {
	query := `
		INSERT INTO otp_challenges (phone, code_hash, attempts, expires_at, created_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (phone) DO UPDATE SET
			code_hash = EXCLUDED.code_hash, attempts = EXCLUDED.attempts,
			expires_at = EXCLUDED.expires_at, created_at = EXCLUDED.created_at`
	if _, err := r.q.Exec(ctx, query, c.Phone, c.CodeHash, c.Attempts, c.ExpiresAt, c.CreatedAt); err != nil {
		return fmt.Errorf("upsert otp: %w", err)
	}
	return nil
}

// Get nil, nil si no hay desafío pendiente.
func (r *OTPRepo) Get(ctx context.Context, phone string) (*entity.OTPChallenge, error) {
	var c entity.OTPChallenge
	err := r.q.QueryRow(ctx,
		`SELECT phone, code_hash, attempts, expires_at, created_at FROM otp_challenges WHERE phone = $1`, phone,
	).Scan(&c.Phone, &c.CodeHash, &c.Attempts, &c.ExpiresAt, &c.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get otp: %w", err)
	}
	return &c, nil
}

// Delete consume el desafío.
func (r *OTPRepo) Delete(ctx context.Context, phone string) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM otp_challenges WHERE phone = $1`, phone); err != nil {
		return fmt.Errorf("delete otp: %w", err)
	}
	return nil
}
