package auth

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"
	"time"
	"unicode"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/swarna-khata-api/internal/application/dto"
	"github.com/jhoicas/swarna-khata-api/internal/application/ports"
	"github.com/jhoicas/swarna-khata-api/internal/domain"
	"github.com/jhoicas/swarna-khata-api/internal/domain/entity"
	"github.com/jhoicas/swarna-khata-api/internal/domain/repository"
	"github.com/jhoicas/swarna-khata-api/pkg/jwt"
)

const (
	otpDigits      = 6
	resendCooldown = 30 * time.Second
	defaultCountry = "+91"
)

// JWTConfig configuración para generación de tokens.
type JWTConfig struct {
	Secret     string
	ExpMinutes int
	Issuer     string
}

// OTPConfig vigencia e intentos del código.
type OTPConfig struct {
	TTL         time.Duration
	MaxAttempts int
}

// AuthUseCase login por teléfono con OTP y emisión de JWT.
type AuthUseCase struct {
	userRepo repository.UserRepository
	otpRepo  repository.OTPRepository
	sender   ports.OTPSender
	jwtCfg   JWTConfig
	otpCfg   OTPConfig
	now      func() time.Time
}

// NewAuthUseCase construye el caso de uso de auth.
func NewAuthUseCase(userRepo repository.UserRepository, otpRepo repository.OTPRepository, sender ports.OTPSender, jwtCfg JWTConfig, otpCfg OTPConfig) *AuthUseCase {
	if otpCfg.TTL <= 0 {
		otpCfg.TTL = 5 * time.Minute
	}
	if otpCfg.MaxAttempts <= 0 {
		otpCfg.MaxAttempts = 5
	}
	return &AuthUseCase{userRepo: userRepo, otpRepo: otpRepo, sender: sender, jwtCfg: jwtCfg, otpCfg: otpCfg, now: time.Now}
}

// NormalizePhone deja el teléfono en formato E.164. Diez dígitos sin prefijo se asumen de India.
func NormalizePhone(raw string) (string, error) {
	var b strings.Builder
	for i, r := range strings.TrimSpace(raw) {
		switch {
		case unicode.IsDigit(r):
			b.WriteRune(r)
		case r == '+' && i == 0:
			b.WriteRune(r)
		case r == ' ' || r == '-' || r == '(' || r == ')':
		default:
			return "", domain.ErrInvalidInput
		}
	}
	phone := b.String()
	if !strings.HasPrefix(phone, "+") {
		if len(phone) != 10 {
			return "", domain.ErrInvalidInput
		}
		phone = defaultCountry + phone
	}
	if n := len(phone) - 1; n < 8 || n > 15 {
		return "", domain.ErrInvalidInput
	}
	return phone, nil
}

func generateCode() (string, error) {
	limit := big.NewInt(1_000_000)
	n, err := rand.Int(rand.Reader, limit)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%0*d", otpDigits, n.Int64()), nil
}

// RequestOTP genera un código, guarda su hash y lo envía. Reenvíos dentro de 30 s devuelven ErrConflict.
func (uc *AuthUseCase) RequestOTP(ctx context.Context, in dto.RequestOTPRequest) (*dto.RequestOTPResponse, error) {
	phone, err := NormalizePhone(in.Phone)
	if err != nil {
		return nil, err
	}
	now := uc.now()
	if prev, err := uc.otpRepo.Get(ctx, phone); err != nil {
		return nil, err
	} else if prev != nil && now.Sub(prev.CreatedAt) < resendCooldown {
		return nil, domain.ErrConflict
	}

	code, err := generateCode()
	if err != nil {
		return nil, fmt.Errorf("generar otp: %w", err)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(code), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	challenge := &entity.OTPChallenge{
		Phone:     phone,
		CodeHash:  string(hash),
		ExpiresAt: now.Add(uc.otpCfg.TTL),
		CreatedAt: now,
	}
	if err := uc.otpRepo.Save(ctx, challenge); err != nil {
		return nil, err
	}
	if err := uc.sender.SendOTP(ctx, phone, code); err != nil {
		return nil, fmt.Errorf("enviar otp: %w", err)
	}
	return &dto.RequestOTPResponse{Phone: phone, ExpiresAt: challenge.ExpiresAt}, nil
}

// VerifyOTP valida el código, crea el usuario en el primer ingreso y devuelve el token.
func (uc *AuthUseCase) VerifyOTP(ctx context.Context, in dto.VerifyOTPRequest) (*dto.LoginResponse, error) {
	phone, err := NormalizePhone(in.Phone)
	if err != nil {
		return nil, err
	}
	challenge, err := uc.otpRepo.Get(ctx, phone)
	if err != nil {
		return nil, err
	}
	now := uc.now()
	if challenge == nil {
		return nil, domain.ErrOTPInvalid
	}
	if !now.Before(challenge.ExpiresAt) || challenge.Attempts >= uc.otpCfg.MaxAttempts {
		_ = uc.otpRepo.Delete(ctx, phone)
		return nil, domain.ErrOTPInvalid
	}
	if bcrypt.CompareHashAndPassword([]byte(challenge.CodeHash), []byte(strings.TrimSpace(in.Code))) != nil {
		challenge.Attempts++
		if err := uc.otpRepo.Save(ctx, challenge); err != nil {
			return nil, err
		}
		return nil, domain.ErrOTPInvalid
	}
	if err := uc.otpRepo.Delete(ctx, phone); err != nil {
		return nil, err
	}

	user, err := uc.userRepo.GetByPhone(ctx, phone)
	if err != nil {
		return nil, err
	}
	isNew := false
	if user == nil {
		isNew = true
		name := strings.TrimSpace(in.Name)
		if name == "" {
			name = phone
		}
		user = &entity.User{
			ID:        uuid.New().String(),
			Phone:     phone,
			Name:      name,
			Role:      entity.RoleAdmin,
			Status:    "active",
			CreatedAt: now,
			UpdatedAt: now,
		}
		if err := uc.userRepo.Create(ctx, user); err != nil {
			return nil, err
		}
	}
	if user.Status != "active" {
		return nil, domain.ErrForbidden
	}
	token, err := uc.issue(user)
	if err != nil {
		return nil, err
	}
	return &dto.LoginResponse{Token: token, User: *ToUserResponse(user), IsNewUser: isNew}, nil
}

// RefreshForShop reemite el token con el shop_id y rol actuales del usuario.
func (uc *AuthUseCase) RefreshForShop(ctx context.Context, userID string) (string, error) {
	user, err := uc.userRepo.GetByID(ctx, userID)
	if err != nil {
		return "", err
	}
	if user == nil {
		return "", domain.ErrUserNotFound
	}
	return uc.issue(user)
}

// Me devuelve el usuario del token.
func (uc *AuthUseCase) Me(ctx context.Context, userID string) (*dto.UserResponse, error) {
	user, err := uc.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUserNotFound
	}
	return ToUserResponse(user), nil
}

func (uc *AuthUseCase) issue(user *entity.User) (string, error) {
	return jwt.Generate(uc.jwtCfg.Secret, user.ID, user.ShopID, user.Role, uc.jwtCfg.Issuer, uc.jwtCfg.ExpMinutes)
}

// ToUserResponse convierte la entidad a DTO.
func ToUserResponse(u *entity.User) *dto.UserResponse {
	if u == nil {
		return nil
	}
	return &dto.UserResponse{
		ID:        u.ID,
		ShopID:    u.ShopID,
		Phone:     u.Phone,
		Name:      u.Name,
		Role:      u.Role,
		Status:    u.Status,
		CreatedAt: u.CreatedAt,
	}
}
