package usecase

import (
	"context"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/swarna-khata-api/internal/application/dto"
	"github.com/jhoicas/swarna-khata-api/internal/domain"
	"github.com/jhoicas/swarna-khata-api/internal/domain/entity"
	"github.com/jhoicas/swarna-khata-api/internal/domain/repository"
)

const defaultLowStockThreshold = 1

var hexColor = regexp.MustCompile(`^#[0-9A-Fa-f]{6}$`)

// ShopUseCase alta y perfil de la tienda, y configuración del PDF.
type ShopUseCase struct {
	repo     repository.ShopRepository
	userRepo repository.UserRepository
	now      func() time.Time
}

// NewShopUseCase construye el caso de uso.
func NewShopUseCase(repo repository.ShopRepository, userRepo repository.UserRepository) *ShopUseCase {
	return &ShopUseCase{repo: repo, userRepo: userRepo, now: time.Now}
}

func validateShop(in dto.ShopRequest) error {
	if strings.TrimSpace(in.Name) == "" {
		return domain.ErrInvalidInput
	}
	switch in.BusinessType {
	case "", entity.BusinessRetailer, entity.BusinessWholesaler:
	default:
		return domain.ErrInvalidInput
	}
	if in.LowStockThreshold != nil && *in.LowStockThreshold < 0 {
		return domain.ErrInvalidInput
	}
	return nil
}

// Create crea la tienda del usuario y lo deja como admin. Un usuario con tienda recibe ErrConflict.
func (uc *ShopUseCase) Create(ctx context.Context, userID string, in dto.ShopRequest) (*dto.ShopResponse, error) {
	if err := validateShop(in); err != nil {
		return nil, err
	}
	user, err := uc.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUserNotFound
	}
	if user.ShopID != "" {
		return nil, domain.ErrConflict
	}
	now := uc.now()
	shop := &entity.Shop{
		ID:                uuid.New().String(),
		OwnerUserID:       userID,
		BusinessType:      entity.BusinessRetailer,
		LowStockThreshold: defaultLowStockThreshold,
		CreatedAt:         now,
	}
	applyShop(shop, in)
	if shop.Phone == "" {
		shop.Phone = user.Phone
	}
	shop.UpdatedAt = now
	if err := uc.repo.Create(ctx, shop); err != nil {
		return nil, err
	}
	user.ShopID = shop.ID
	user.Role = entity.RoleAdmin
	user.UpdatedAt = now
	if err := uc.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	return toShopResponse(shop), nil
}

func applyShop(shop *entity.Shop, in dto.ShopRequest) {
	shop.Name = strings.TrimSpace(in.Name)
	shop.OwnerName = in.OwnerName
	shop.Phone = in.Phone
	shop.Email = in.Email
	shop.Address = in.Address
	shop.GSTIN = strings.ToUpper(strings.TrimSpace(in.GSTIN))
	if in.BusinessType != "" {
		shop.BusinessType = in.BusinessType
	}
	if in.LowStockThreshold != nil {
		shop.LowStockThreshold = *in.LowStockThreshold
	}
}

// Get devuelve la tienda.
func (uc *ShopUseCase) Get(ctx context.Context, shopID string) (*dto.ShopResponse, error) {
	shop, err := uc.repo.GetByID(ctx, shopID)
	if err != nil {
		return nil, err
	}
	if shop == nil {
		return nil, domain.ErrNotFound
	}
	return toShopResponse(shop), nil
}

// Update reemplaza el perfil de la tienda.
func (uc *ShopUseCase) Update(ctx context.Context, shopID string, in dto.ShopRequest) (*dto.ShopResponse, error) {
	if err := validateShop(in); err != nil {
		return nil, err
	}
	shop, err := uc.repo.GetByID(ctx, shopID)
	if err != nil {
		return nil, err
	}
	if shop == nil {
		return nil, domain.ErrNotFound
	}
	applyShop(shop, in)
	shop.UpdatedAt = uc.now()
	if err := uc.repo.Update(ctx, shop); err != nil {
		return nil, err
	}
	return toShopResponse(shop), nil
}

// GetPDFSettings devuelve la configuración guardada o la de fábrica.
func (uc *ShopUseCase) GetPDFSettings(ctx context.Context, shopID string) (*dto.PDFSettingsDTO, error) {
	s, err := uc.repo.GetPDFSettings(ctx, shopID)
	if err != nil {
		return nil, err
	}
	if s == nil {
		s = entity.DefaultPDFSettings(shopID)
	}
	return toPDFSettingsDTO(s), nil
}

// UpdatePDFSettings guarda la configuración del PDF.
func (uc *ShopUseCase) UpdatePDFSettings(ctx context.Context, shopID string, in dto.PDFSettingsDTO) (*dto.PDFSettingsDTO, error) {
	if in.AccentColor != "" && !hexColor.MatchString(in.AccentColor) {
		return nil, domain.ErrInvalidInput
	}
	s := &entity.PDFSettings{
		ShopID:             shopID,
		ShowItemWeights:    in.ShowItemWeights,
		ShowExtraCharges:   in.ShowExtraCharges,
		ShowTaxBreakdown:   in.ShowTaxBreakdown,
		ShowPaymentHistory: in.ShowPaymentHistory,
		TermsAndConditions: in.TermsAndConditions,
		FooterNote:         in.FooterNote,
		AccentColor:        in.AccentColor,
		UpdatedAt:          uc.now(),
	}
	if s.AccentColor == "" {
		s.AccentColor = entity.DefaultPDFSettings(shopID).AccentColor
	}
	if err := uc.repo.SavePDFSettings(ctx, s); err != nil {
		return nil, err
	}
	return toPDFSettingsDTO(s), nil
}

func toShopResponse(s *entity.Shop) *dto.ShopResponse {
	return &dto.ShopResponse{
		ID:                s.ID,
		Name:              s.Name,
		OwnerName:         s.OwnerName,
		Phone:             s.Phone,
		Email:             s.Email,
		Address:           s.Address,
		GSTIN:             s.GSTIN,
		BusinessType:      s.BusinessType,
		LowStockThreshold: s.LowStockThreshold,
		CreatedAt:         s.CreatedAt,
		UpdatedAt:         s.UpdatedAt,
	}
}

func toPDFSettingsDTO(s *entity.PDFSettings) *dto.PDFSettingsDTO {
	return &dto.PDFSettingsDTO{
		ShowItemWeights:    s.ShowItemWeights,
		ShowExtraCharges:   s.ShowExtraCharges,
		ShowTaxBreakdown:   s.ShowTaxBreakdown,
		ShowPaymentHistory: s.ShowPaymentHistory,
		TermsAndConditions: s.TermsAndConditions,
		FooterNote:         s.FooterNote,
		AccentColor:        s.AccentColor,
	}
}
