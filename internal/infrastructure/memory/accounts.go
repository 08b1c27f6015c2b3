package memory

import (
	"context"

	"github.com/jhoicas/swarna-khata-api/internal/domain"
	"github.com/jhoicas/swarna-khata-api/internal/domain/entity"
	"github.com/jhoicas/swarna-khata-api/internal/domain/repository"
)

var (
	_ repository.ShopRepository = (*ShopRepo)(nil)
	_ repository.UserRepository = (*UserRepo)(nil)
	_ repository.OTPRepository  = (*OTPRepo)(nil)
)

// ShopRepo tiendas en memoria.
type ShopRepo struct{ base }

func (r *ShopRepo) Create(_ context.Context, shop *entity.Shop) error {
	return r.do(func(d *data) error {
		if _, ok := d.shops[shop.ID]; ok {
			return domain.ErrDuplicate
		}
		d.shops[shop.ID] = *shop
		return nil
	})
}

func (r *ShopRepo) GetByID(_ context.Context, id string) (*entity.Shop, error) {
	var out *entity.Shop
	err := r.do(func(d *data) error {
		if s, ok := d.shops[id]; ok {
			out = &s
		}
		return nil
	})
	return out, err
}

func (r *ShopRepo) Update(_ context.Context, shop *entity.Shop) error {
	return r.do(func(d *data) error {
		if _, ok := d.shops[shop.ID]; !ok {
			return domain.ErrNotFound
		}
		d.shops[shop.ID] = *shop
		return nil
	})
}

func (r *ShopRepo) GetPDFSettings(_ context.Context, shopID string) (*entity.PDFSettings, error) {
	var out *entity.PDFSettings
	err := r.do(func(d *data) error {
		if s, ok := d.pdfSettings[shopID]; ok {
			out = &s
		}
		return nil
	})
	return out, err
}

func (r *ShopRepo) SavePDFSettings(_ context.Context, settings *entity.PDFSettings) error {
	return r.do(func(d *data) error {
		d.pdfSettings[settings.ShopID] = *settings
		return nil
	})
}

// UserRepo usuarios en memoria.
type UserRepo struct{ base }

func (r *UserRepo) Create(_ context.Context, user *entity.User) error {
	return r.do(func(d *data) error {
		for _, u := range d.users {
			if u.Phone == user.Phone {
				return domain.ErrDuplicate
			}
		}
		d.users[user.ID] = *user
		return nil
	})
}

func (r *UserRepo) GetByID(_ context.Context, id string) (*entity.User, error) {
	var out *entity.User
	err := r.do(func(d *data) error {
		if u, ok := d.users[id]; ok {
			out = &u
		}
		return nil
	})
	return out, err
}

func (r *UserRepo) GetByPhone(_ context.Context, phone string) (*entity.User, error) {
	var out *entity.User
	err := r.do(func(d *data) error {
		for _, u := range d.users {
			if u.Phone == phone {
				u := u
				out = &u
				return nil
			}
		}
		return nil
	})
	return out, err
}

func (r *UserRepo) Update(_ context.Context, user *entity.User) error {
	return r.do(func(d *data) error {
		if _, ok := d.users[user.ID]; !ok {
			return domain.ErrUserNotFound
		}
		d.users[user.ID] = *user
		return nil
	})
}

// OTPRepo desafíos OTP en memoria.
type OTPRepo struct{ base }

func (r *OTPRepo) Save(_ context.Context, c *entity.OTPChallenge) error {
	return r.do(func(d *data) error {
		d.otps[c.Phone] = *c
		return nil
	})
}

func (r *OTPRepo) Get(_ context.Context, phone string) (*entity.OTPChallenge, error) {
	var out *entity.OTPChallenge
	err := r.do(func(d *data) error {
		if c, ok := d.otps[phone]; ok {
			out = &c
		}
		return nil
	})
	return out, err
}

func (r *OTPRepo) Delete(_ context.Context, phone string) error {
	return r.do(func(d *data) error {
		delete(d.otps, phone)
		return nil
	})
}
