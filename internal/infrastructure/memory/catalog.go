package memory

import (
	"context"
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/swarna-khata-api/internal/domain"
	"github.com/jhoicas/swarna-khata-api/internal/domain/entity"
	"github.com/jhoicas/swarna-khata-api/internal/domain/repository"
)

var (
	_ repository.CustomerRepository  = (*CustomerRepo)(nil)
	_ repository.ItemRepository      = (*ItemRepo)(nil)
	_ repository.MetalRateRepository = (*MetalRateRepo)(nil)
)

// CustomerRepo clientes en memoria.
type CustomerRepo struct{ base }

func (r *CustomerRepo) Create(_ context.Context, c *entity.Customer) error {
	return r.do(func(d *data) error {
		if _, ok := d.customers[c.ID]; ok {
			return domain.ErrDuplicate
		}
		for _, other := range d.customers {
			if other.ShopID == c.ShopID && c.Phone != "" && other.Phone == c.Phone {
				return domain.ErrDuplicate
			}
		}
		d.customers[c.ID] = *c
		return nil
	})
}

func (r *CustomerRepo) GetByID(_ context.Context, shopID, id string) (*entity.Customer, error) {
	var out *entity.Customer
	err := r.do(func(d *data) error {
		if c, ok := d.customers[id]; ok && c.ShopID == shopID {
			out = &c
		}
		return nil
	})
	return out, err
}

func (r *CustomerRepo) GetByPhone(_ context.Context, shopID, phone string) (*entity.Customer, error) {
	var out *entity.Customer
	err := r.do(func(d *data) error {
		for _, c := range d.customers {
			if c.ShopID == shopID && c.Phone == phone {
				c := c
				out = &c
				return nil
			}
		}
		return nil
	})
	return out, err
}

func (r *CustomerRepo) List(_ context.Context, shopID string, f repository.CustomerFilter) ([]*entity.Customer, int, error) {
	var list []*entity.Customer
	search := strings.ToLower(strings.TrimSpace(f.Search))
	err := r.do(func(d *data) error {
		for _, c := range d.customers {
			if c.ShopID != shopID {
				continue
			}
			if search != "" && !strings.Contains(strings.ToLower(c.Name), search) && !strings.Contains(c.Phone, search) {
				continue
			}
			c := c
			list = append(list, &c)
		}
		return nil
	})
	sort.Slice(list, func(i, j int) bool { return strings.ToLower(list[i].Name) < strings.ToLower(list[j].Name) })
	start, end := page(len(list), f.Limit, f.Offset)
	return list[start:end], len(list), err
}

func (r *CustomerRepo) Update(_ context.Context, c *entity.Customer) error {
	return r.do(func(d *data) error {
		old, ok := d.customers[c.ID]
		if !ok || old.ShopID != c.ShopID {
			return domain.ErrNotFound
		}
		d.customers[c.ID] = *c
		return nil
	})
}

func (r *CustomerRepo) AdjustBalance(_ context.Context, shopID, id string, delta decimal.Decimal) error {
	return r.do(func(d *data) error {
		c, ok := d.customers[id]
		if !ok || c.ShopID != shopID {
			return domain.ErrNotFound
		}
		c.CurrentBalance = c.CurrentBalance.Add(delta)
		d.customers[id] = c
		return nil
	})
}

func (r *CustomerRepo) Delete(_ context.Context, shopID, id string) error {
	return r.do(func(d *data) error {
		c, ok := d.customers[id]
		if !ok || c.ShopID != shopID {
			return domain.ErrNotFound
		}
		delete(d.customers, id)
		return nil
	})
}

// ItemRepo catálogo en memoria.
type ItemRepo struct{ base }

func (r *ItemRepo) Create(_ context.Context, item *entity.JewelleryItem) error {
	return r.do(func(d *data) error {
		if _, ok := d.items[item.ID]; ok {
			return domain.ErrDuplicate
		}
		for _, other := range d.items {
			if other.ShopID == item.ShopID && item.JewelryCode != "" && other.JewelryCode == item.JewelryCode {
				return domain.ErrDuplicate
			}
		}
		d.items[item.ID] = cloneItem(*item)
		return nil
	})
}

func (r *ItemRepo) GetByID(_ context.Context, shopID, id string) (*entity.JewelleryItem, error) {
	var out *entity.JewelleryItem
	err := r.do(func(d *data) error {
		if it, ok := d.items[id]; ok && it.ShopID == shopID {
			it = cloneItem(it)
			out = &it
		}
		return nil
	})
	return out, err
}

func (r *ItemRepo) List(_ context.Context, shopID string, f repository.ItemFilter) ([]*entity.JewelleryItem, int, error) {
	var list []*entity.JewelleryItem
	search := strings.ToLower(strings.TrimSpace(f.Search))
	err := r.do(func(d *data) error {
		for _, it := range d.items {
			if it.ShopID != shopID {
				continue
			}
			if f.ItemType != "" && !strings.EqualFold(it.ItemType, f.ItemType) {
				continue
			}
			if f.Category != "" && !strings.EqualFold(it.Category, f.Category) {
				continue
			}
			if search != "" && !strings.Contains(strings.ToLower(it.DisplayName), search) &&
				!strings.Contains(strings.ToLower(it.JewelryCode), search) {
				continue
			}
			it = cloneItem(it)
			list = append(list, &it)
		}
		return nil
	})
	sort.Slice(list, func(i, j int) bool { return list[i].DisplayName < list[j].DisplayName })
	start, end := page(len(list), f.Limit, f.Offset)
	return list[start:end], len(list), err
}

func (r *ItemRepo) Update(_ context.Context, item *entity.JewelleryItem) error {
	return r.do(func(d *data) error {
		old, ok := d.items[item.ID]
		if !ok || old.ShopID != item.ShopID {
			return domain.ErrNotFound
		}
		d.items[item.ID] = cloneItem(*item)
		return nil
	})
}

func (r *ItemRepo) AdjustStock(_ context.Context, shopID, id string, delta decimal.Decimal) (decimal.Decimal, error) {
	var stock decimal.Decimal
	err := r.do(func(d *data) error {
		it, ok := d.items[id]
		if !ok || it.ShopID != shopID {
			return domain.ErrNotFound
		}
		next := it.Stock.Add(delta)
		if next.IsNegative() {
			return domain.ErrInsufficientStock
		}
		it.Stock = next
		d.items[id] = it
		stock = next
		return nil
	})
	return stock, err
}

func (r *ItemRepo) Delete(_ context.Context, shopID, id string) error {
	return r.do(func(d *data) error {
		it, ok := d.items[id]
		if !ok || it.ShopID != shopID {
			return domain.ErrNotFound
		}
		delete(d.items, id)
		return nil
	})
}

// MetalRateRepo tarifas en memoria.
type MetalRateRepo struct{ base }

func rateKey(shopID, metal, purity string) string {
	return shopID + "|" + strings.ToLower(metal) + "|" + strings.ToUpper(purity)
}

func (r *MetalRateRepo) Upsert(_ context.Context, rate *entity.MetalRate) error {
	return r.do(func(d *data) error {
		d.rates[rateKey(rate.ShopID, rate.Metal, rate.Purity)] = *rate
		return nil
	})
}

func (r *MetalRateRepo) Get(_ context.Context, shopID, metal, purity string) (*entity.MetalRate, error) {
	var out *entity.MetalRate
	err := r.do(func(d *data) error {
		if rt, ok := d.rates[rateKey(shopID, metal, purity)]; ok {
			out = &rt
		}
		return nil
	})
	return out, err
}

func (r *MetalRateRepo) List(_ context.Context, shopID string) ([]*entity.MetalRate, error) {
	var list []*entity.MetalRate
	err := r.do(func(d *data) error {
		for _, rt := range d.rates {
			if rt.ShopID == shopID {
				rt := rt
				list = append(list, &rt)
			}
		}
		return nil
	})
	sort.Slice(list, func(i, j int) bool {
		if list[i].Metal != list[j].Metal {
			return list[i].Metal < list[j].Metal
		}
		return list[i].Purity < list[j].Purity
	})
	return list, err
}
