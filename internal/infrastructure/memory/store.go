// Package memory implementa los repositorios en memoria. Se usa en desarrollo cuando no hay
// PostgreSQL configurado y en los tests de casos de uso.
package memory

import (
	"context"
	"sync"

	"github.com/jhoicas/swarna-khata-api/internal/domain/entity"
	"github.com/jhoicas/swarna-khata-api/internal/domain/repository"
)

type data struct {
	shops         map[string]entity.Shop
	pdfSettings   map[string]entity.PDFSettings
	users         map[string]entity.User
	otps          map[string]entity.OTPChallenge
	customers     map[string]entity.Customer
	items         map[string]entity.JewelleryItem
	invoices      map[string]*entity.Invoice
	rates         map[string]entity.MetalRate
	notifications []entity.Notification
	tokens        map[string]entity.DeviceToken
	recycle       map[string]entity.RecycledEntry
	subscriptions []entity.Subscription
}

func newData() *data {
	return &data{
		shops:       map[string]entity.Shop{},
		pdfSettings: map[string]entity.PDFSettings{},
		users:       map[string]entity.User{},
		otps:        map[string]entity.OTPChallenge{},
		customers:   map[string]entity.Customer{},
		items:       map[string]entity.JewelleryItem{},
		invoices:    map[string]*entity.Invoice{},
		rates:       map[string]entity.MetalRate{},
		tokens:      map[string]entity.DeviceToken{},
		recycle:     map[string]entity.RecycledEntry{},
	}
}

// clone copia profunda de las tablas que participan en transacciones.
func (d *data) clone() *data {
	c := *d
	c.customers = make(map[string]entity.Customer, len(d.customers))
	for k, v := range d.customers {
		c.customers[k] = v
	}
	c.items = make(map[string]entity.JewelleryItem, len(d.items))
	for k, v := range d.items {
		c.items[k] = cloneItem(v)
	}
	c.invoices = make(map[string]*entity.Invoice, len(d.invoices))
	for k, v := range d.invoices {
		c.invoices[k] = v.Clone()
	}
	c.recycle = make(map[string]entity.RecycledEntry, len(d.recycle))
	for k, v := range d.recycle {
		c.recycle[k] = cloneEntry(v)
	}
	return &c
}

// Store almacén en memoria con un único mutex. Las transacciones trabajan sobre una copia y
// la publican solo si fn termina sin error.
type Store struct {
	mu sync.Mutex
	d  *data
}

// New construye un almacén vacío.
func New() *Store {
	return &Store{d: newData()}
}

// base comparte el acceso a datos entre repos: fuera de tx bloquea el store; dentro usa la copia.
type base struct {
	s  *Store
	tx *data
}

func (b base) do(fn func(d *data) error) error {
	if b.tx != nil {
		return fn(b.tx)
	}
	b.s.mu.Lock()
	defer b.s.mu.Unlock()
	return fn(b.s.d)
}

var _ repository.TxRunner = (*Store)(nil)

// Run ejecuta fn sobre una copia de los datos y la confirma si no hay error.
func (s *Store) Run(ctx context.Context, fn func(tx repository.TxRepos) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	work := s.d.clone()
	b := base{s: s, tx: work}
	err := fn(repository.TxRepos{
		Customers: &CustomerRepo{b},
		Items:     &ItemRepo{b},
		Invoices:  &InvoiceRepo{b},
		Recycle:   &RecycleBinRepo{b},
	})
	if err != nil {
		return err
	}
	s.d = work
	return nil
}

// Repositorios fuera de transacción.

func (s *Store) Shops() *ShopRepo                 { return &ShopRepo{base{s: s}} }
func (s *Store) Users() *UserRepo                 { return &UserRepo{base{s: s}} }
func (s *Store) OTPs() *OTPRepo                   { return &OTPRepo{base{s: s}} }
func (s *Store) Customers() *CustomerRepo         { return &CustomerRepo{base{s: s}} }
func (s *Store) Items() *ItemRepo                 { return &ItemRepo{base{s: s}} }
func (s *Store) Invoices() *InvoiceRepo           { return &InvoiceRepo{base{s: s}} }
func (s *Store) MetalRates() *MetalRateRepo       { return &MetalRateRepo{base{s: s}} }
func (s *Store) Notifications() *NotificationRepo { return &NotificationRepo{base{s: s}} }
func (s *Store) DeviceTokens() *DeviceTokenRepo   { return &DeviceTokenRepo{base{s: s}} }
func (s *Store) RecycleBin() *RecycleBinRepo      { return &RecycleBinRepo{base{s: s}} }
func (s *Store) Subscriptions() *SubscriptionRepo { return &SubscriptionRepo{base{s: s}} }

func cloneItem(j entity.JewelleryItem) entity.JewelleryItem {
	j.ListOfExtraCharges = append([]entity.ExtraCharge(nil), j.ListOfExtraCharges...)
	return j
}

func cloneEntry(e entity.RecycledEntry) entity.RecycledEntry {
	e.Payload = append([]byte(nil), e.Payload...)
	return e
}

// page aplica offset/limit sobre n elementos; limit <= 0 = todos.
func page(n, limit, offset int) (int, int) {
	if offset < 0 {
		offset = 0
	}
	if offset > n {
		offset = n
	}
	end := n
	if limit > 0 && offset+limit < n {
		end = offset + limit
	}
	return offset, end
}
