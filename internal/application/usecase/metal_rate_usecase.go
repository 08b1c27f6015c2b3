package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/jhoicas/swarna-khata-api/internal/application/dto"
	"github.com/jhoicas/swarna-khata-api/internal/application/ports"
	"github.com/jhoicas/swarna-khata-api/internal/domain"
	"github.com/jhoicas/swarna-khata-api/internal/domain/entity"
	"github.com/jhoicas/swarna-khata-api/internal/domain/repository"
)

// MetalRateUseCase tarifas por gramo de oro y plata. Las lecturas pasan por la caché.
type MetalRateUseCase struct {
	repo  repository.MetalRateRepository
	cache ports.RateCache
	log   zerolog.Logger
	now   func() time.Time
}

// NewMetalRateUseCase construye el caso de uso.
func NewMetalRateUseCase(repo repository.MetalRateRepository, cache ports.RateCache, log zerolog.Logger) *MetalRateUseCase {
	return &MetalRateUseCase{repo: repo, cache: cache, log: log, now: time.Now}
}

// Set fija la tarifa vigente de un metal y pureza.
func (uc *MetalRateUseCase) Set(ctx context.Context, shopID string, in dto.MetalRateRequest) (*dto.MetalRateResponse, error) {
	metal := strings.ToLower(strings.TrimSpace(in.Metal))
	purity := strings.ToUpper(strings.TrimSpace(in.Purity))
	if (metal != entity.MetalGold && metal != entity.MetalSilver) || purity == "" || !in.RatePerGram.IsPositive() {
		return nil, domain.ErrInvalidInput
	}
	rate := &entity.MetalRate{ShopID: shopID, Metal: metal, Purity: purity, RatePerGram: in.RatePerGram, UpdatedAt: uc.now()}
	if err := uc.repo.Upsert(ctx, rate); err != nil {
		return nil, err
	}
	if err := uc.cache.Invalidate(ctx, shopID); err != nil {
		uc.log.Warn().Err(err).Str("shop_id", shopID).Msg("invalidar caché de tarifas")
	}
	return toRateResponse(rate), nil
}

// Rates devuelve las tarifas de la tienda.
func (uc *MetalRateUseCase) Rates(ctx context.Context, shopID string) ([]*entity.MetalRate, error) {
	if cached, ok, err := uc.cache.GetRates(ctx, shopID); err != nil {
		uc.log.Warn().Err(err).Str("shop_id", shopID).Msg("leer caché de tarifas")
	} else if ok {
		return cached, nil
	}
	rates, err := uc.repo.List(ctx, shopID)
	if err != nil {
		return nil, err
	}
	if err := uc.cache.SetRates(ctx, shopID, rates); err != nil {
		uc.log.Warn().Err(err).Str("shop_id", shopID).Msg("guardar caché de tarifas")
	}
	return rates, nil
}

// List tarifas en formato de respuesta.
func (uc *MetalRateUseCase) List(ctx context.Context, shopID string) ([]*dto.MetalRateResponse, error) {
	rates, err := uc.Rates(ctx, shopID)
	if err != nil {
		return nil, err
	}
	out := make([]*dto.MetalRateResponse, 0, len(rates))
	for _, r := range rates {
		out = append(out, toRateResponse(r))
	}
	return out, nil
}

// Lookup busca la tarifa de un metal. Con pureza vacía devuelve la única tarifa del metal
// o ErrNotFound si hay varias o ninguna.
func (uc *MetalRateUseCase) Lookup(ctx context.Context, shopID, metal, purity string) (*entity.MetalRate, error) {
	rates, err := uc.Rates(ctx, shopID)
	if err != nil {
		return nil, err
	}
	purity = strings.ToUpper(strings.TrimSpace(purity))
	var found *entity.MetalRate
	for _, r := range rates {
		if r.Metal != metal {
			continue
		}
		if purity != "" && r.Purity == purity {
			return r, nil
		}
		if purity == "" {
			if found != nil {
				return nil, domain.ErrNotFound
			}
			found = r
		}
	}
	if found == nil {
		return nil, domain.ErrNotFound
	}
	return found, nil
}

func toRateResponse(r *entity.MetalRate) *dto.MetalRateResponse {
	return &dto.MetalRateResponse{Metal: r.Metal, Purity: r.Purity, RatePerGram: r.RatePerGram, UpdatedAt: r.UpdatedAt}
}
