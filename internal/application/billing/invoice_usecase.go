package billing

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/swarna-khata-api/internal/application/dto"
	"github.com/jhoicas/swarna-khata-api/internal/application/ports"
	"github.com/jhoicas/swarna-khata-api/internal/domain"
	billingcore "github.com/jhoicas/swarna-khata-api/internal/domain/billing"
	"github.com/jhoicas/swarna-khata-api/internal/domain/entity"
	"github.com/jhoicas/swarna-khata-api/internal/domain/repository"
)

const dateLayout = "2006-01-02"

// InvoiceUseCase ciclo de vida de la factura de joyería. Cada operación que toca líneas o pagos
// recalcula los totales una sola vez y ajusta stock y saldo del cliente en la misma transacción.
type InvoiceUseCase struct {
	txRunner  repository.TxRunner
	invoices  repository.InvoiceRepository
	items     repository.ItemRepository
	customers repository.CustomerRepository
	shops     repository.ShopRepository
	rates     RateLookup
	features  FeatureChecker
	notifier  ports.Notifier
	log       zerolog.Logger
	now       func() time.Time
}

// NewInvoiceUseCase construye el caso de uso.
func NewInvoiceUseCase(
	txRunner repository.TxRunner,
	invoices repository.InvoiceRepository,
	items repository.ItemRepository,
	customers repository.CustomerRepository,
	shops repository.ShopRepository,
	rates RateLookup,
	features FeatureChecker,
	notifier ports.Notifier,
	log zerolog.Logger,
) *InvoiceUseCase {
	return &InvoiceUseCase{
		txRunner:  txRunner,
		invoices:  invoices,
		items:     items,
		customers: customers,
		shops:     shops,
		rates:     rates,
		features:  features,
		notifier:  notifier,
		log:       log,
		now:       time.Now,
	}
}

func (uc *InvoiceUseCase) shop(ctx context.Context, shopID string) (*entity.Shop, error) {
	shop, err := uc.shops.GetByID(ctx, shopID)
	if err != nil {
		return nil, fmt.Errorf("factura: obtener tienda: %w", err)
	}
	if shop == nil {
		return nil, domain.ErrNotFound
	}
	return shop, nil
}

func (uc *InvoiceUseCase) flush(ctx context.Context, fx *effects) {
	for _, n := range fx.notifications {
		uc.notifier.Notify(ctx, n)
	}
}

func toPayment(in dto.PaymentRequest) entity.Payment {
	p := entity.Payment{
		Amount:    in.Amount,
		Method:    in.Method,
		Reference: in.Reference,
		Notes:     in.Notes,
	}
	if in.Date != nil {
		p.Date = *in.Date
	}
	return p
}

func validLines(lines []dto.InvoiceLineRequest) error {
	if len(lines) == 0 {
		return domain.ErrInvalidInput
	}
	for _, l := range lines {
		if l.ItemID == "" || !l.Quantity.IsPositive() || l.UsedWeight.IsNegative() {
			return domain.ErrInvalidInput
		}
		if l.Price != nil && l.Price.IsNegative() {
			return domain.ErrInvalidInput
		}
	}
	return nil
}

// newLine arma la línea con el snapshot del catálogo. Precio nulo = precio sugerido.
func newLine(ctx context.Context, items repository.ItemRepository, shopID string, l dto.InvoiceLineRequest) (entity.InvoiceItem, error) {
	item, err := items.GetByID(ctx, shopID, l.ItemID)
	if err != nil {
		return entity.InvoiceItem{}, fmt.Errorf("factura: obtener artículo: %w", err)
	}
	if item == nil {
		return entity.InvoiceItem{}, fmt.Errorf("artículo %s: %w", l.ItemID, domain.ErrNotFound)
	}
	price := billingcore.SuggestedPrice(*item)
	if l.Price != nil {
		price = *l.Price
	}
	return billingcore.NewLine(uuid.New().String(), *item, l.Quantity, price, l.UsedWeight), nil
}

// build arma la factura en memoria (líneas, pagos y totales) sin persistirla.
func (uc *InvoiceUseCase) build(ctx context.Context, items repository.ItemRepository, customers repository.CustomerRepository, shopID string, in dto.CreateInvoiceRequest, now time.Time) (*entity.Invoice, error) {
	if err := validLines(in.Items); err != nil {
		return nil, err
	}
	inv := &entity.Invoice{
		ID:              uuid.New().String(),
		ShopID:          shopID,
		CustomerID:      in.CustomerID,
		CustomerName:    in.CustomerName,
		CustomerPhone:   in.CustomerPhone,
		CustomerAddress: in.CustomerAddress,
		InvoiceDate:     now,
		DueDate:         in.DueDate,
		Notes:           in.Notes,
		PaymentStatus:   entity.PaymentStatusUnpaid,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if in.InvoiceDate != nil {
		inv.InvoiceDate = *in.InvoiceDate
	}
	inv.InvoiceNumber = billingcore.NewInvoiceNumber(inv.InvoiceDate)

	if in.CustomerID != "" {
		c, err := customers.GetByID(ctx, shopID, in.CustomerID)
		if err != nil {
			return nil, fmt.Errorf("factura: obtener cliente: %w", err)
		}
		if c == nil {
			return nil, domain.ErrNotFound
		}
		if inv.CustomerName == "" {
			inv.CustomerName = c.Name
		}
		if inv.CustomerPhone == "" {
			inv.CustomerPhone = c.Phone
		}
		if inv.CustomerAddress == "" {
			inv.CustomerAddress = c.Address
		}
	}

	for _, l := range in.Items {
		line, err := newLine(ctx, items, shopID, l)
		if err != nil {
			return nil, err
		}
		if _, err := billingcore.AddItem(inv, line); err != nil {
			return nil, err
		}
	}
	for _, p := range in.Payments {
		if _, err := billingcore.AddPayment(inv, toPayment(p), now); err != nil {
			return nil, err
		}
	}
	billingcore.Refresh(inv)
	inv.Keywords = billingcore.Keywords(inv)
	return inv, nil
}

// Create crea la factura, descuenta stock y suma el saldo pendiente al cliente en una sola transacción.
func (uc *InvoiceUseCase) Create(ctx context.Context, shopID string, in dto.CreateInvoiceRequest) (*dto.InvoiceResponse, error) {
	if err := validLines(in.Items); err != nil {
		return nil, err
	}
	shop, err := uc.shop(ctx, shopID)
	if err != nil {
		return nil, err
	}
	now := uc.now()
	fx := &effects{}
	var inv *entity.Invoice
	err = uc.txRunner.Run(ctx, func(tx repository.TxRepos) error {
		var err error
		inv, err = uc.build(ctx, tx.Items, tx.Customers, shopID, in, now)
		if err != nil {
			return err
		}
		if err := applyStock(ctx, tx, shop, billingcore.StockDelta(nil, inv.Items), fx); err != nil {
			return err
		}
		due := billingcore.BalanceDue(inv.TotalAmount, inv.PaidAmount)
		if err := applyBalance(ctx, tx, shopID, inv.CustomerID, due, fx); err != nil {
			return err
		}
		return tx.Invoices.Create(ctx, inv)
	})
	if err != nil {
		return nil, err
	}

	total := inv.TotalAmount
	created := &entity.Notification{
		ShopID:     shopID,
		Type:       entity.NotificationInvoiceCreated,
		Title:      "Factura creada",
		Message:    fmt.Sprintf("%s para %s por %s", inv.InvoiceNumber, nonEmpty(inv.CustomerName, "cliente de mostrador"), total.StringFixed(2)),
		InvoiceID:  inv.ID,
		CustomerID: inv.CustomerID,
		Amount:     &total,
	}
	fx.notifications = append([]*entity.Notification{created}, fx.notifications...)
	uc.flush(ctx, fx)
	uc.log.Info().Str("shop_id", shopID).Str("invoice", inv.InvoiceNumber).Str("total", total.String()).Msg("factura creada")
	return toInvoiceResponse(inv, shop), nil
}

// Preview calcula los totales de una factura sin guardarla ni tocar stock.
// Simular un cambio de metal exige la misma función del plan que aplicarlo.
func (uc *InvoiceUseCase) Preview(ctx context.Context, shopID string, in dto.TotalsPreviewRequest) (*dto.InvoiceResponse, error) {
	shop, err := uc.shop(ctx, shopID)
	if err != nil {
		return nil, err
	}
	if in.MetalExchange != nil {
		ok, err := uc.features.HasFeature(ctx, shopID, entity.FeatureMetalExchange)
		if err != nil {
			return nil, fmt.Errorf("factura: verificar plan: %w", err)
		}
		if !ok {
			return nil, domain.ErrFeatureLocked
		}
	}
	inv, err := uc.build(ctx, uc.items, uc.customers, shopID, in.CreateInvoiceRequest, uc.now())
	if err != nil {
		return nil, err
	}
	if in.MetalExchange != nil {
		ex, err := uc.exchange(ctx, shopID, *in.MetalExchange)
		if err != nil {
			return nil, err
		}
		if _, err := billingcore.ApplyMetalExchange(inv, ex); err != nil {
			return nil, err
		}
	}
	return toInvoiceResponse(inv, shop), nil
}

// Get devuelve la factura de la tienda.
func (uc *InvoiceUseCase) Get(ctx context.Context, shopID, id string) (*dto.InvoiceResponse, error) {
	shop, err := uc.shop(ctx, shopID)
	if err != nil {
		return nil, err
	}
	inv, err := uc.invoices.GetByID(ctx, shopID, id)
	if err != nil {
		return nil, err
	}
	if inv == nil {
		return nil, domain.ErrNotFound
	}
	return toInvoiceResponse(inv, shop), nil
}

// Filter convierte la consulta HTTP en filtro de repositorio. To es inclusivo (día completo).
func Filter(q dto.InvoiceListQuery) (repository.InvoiceFilter, error) {
	f := repository.InvoiceFilter{
		Status:     q.Status,
		CustomerID: q.CustomerID,
		Keyword:    q.Keyword,
		Limit:      q.Limit,
		Offset:     q.Offset,
	}
	switch q.Status {
	case "", entity.PaymentStatusUnpaid, entity.PaymentStatusPartial, entity.PaymentStatusPaid:
	default:
		return f, domain.ErrInvalidInput
	}
	if q.From != "" {
		t, err := time.ParseInLocation(dateLayout, q.From, time.Local)
		if err != nil {
			return f, fmt.Errorf("%w: from", domain.ErrInvalidInput)
		}
		f.From = &t
	}
	if q.To != "" {
		t, err := time.ParseInLocation(dateLayout, q.To, time.Local)
		if err != nil {
			return f, fmt.Errorf("%w: to", domain.ErrInvalidInput)
		}
		t = t.AddDate(0, 0, 1)
		f.To = &t
	}
	if f.From != nil && f.To != nil && !f.From.Before(*f.To) {
		return f, domain.ErrInvalidInput
	}
	return f, nil
}

// List lista facturas paginadas y filtradas, la más reciente primero.
func (uc *InvoiceUseCase) List(ctx context.Context, shopID string, q dto.InvoiceListQuery) (*dto.InvoiceListResponse, error) {
	page := dto.PageRequest{Limit: q.Limit, Offset: q.Offset}
	page.DefaultPage()
	q.Limit, q.Offset = page.Limit, page.Offset
	f, err := Filter(q)
	if err != nil {
		return nil, err
	}
	shop, err := uc.shop(ctx, shopID)
	if err != nil {
		return nil, err
	}
	list, total, err := uc.invoices.List(ctx, shopID, f)
	if err != nil {
		return nil, err
	}
	out := make([]dto.InvoiceSummary, 0, len(list))
	for _, inv := range list {
		out = append(out, toInvoiceSummary(inv, shop))
	}
	return &dto.InvoiceListResponse{
		Items: out,
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset, Total: total},
	}, nil
}

// mutate carga la factura dentro de la transacción, aplica fn y reconcilia stock, saldo del
// cliente e índice de búsqueda con la versión anterior.
func (uc *InvoiceUseCase) mutate(ctx context.Context, shopID, id string, fn func(inv *entity.Invoice, tx repository.TxRepos, fx *effects) error) (*dto.InvoiceResponse, error) {
	shop, err := uc.shop(ctx, shopID)
	if err != nil {
		return nil, err
	}
	fx := &effects{}
	var out *entity.Invoice
	err = uc.txRunner.Run(ctx, func(tx repository.TxRepos) error {
		inv, err := tx.Invoices.GetByID(ctx, shopID, id)
		if err != nil {
			return err
		}
		if inv == nil {
			return domain.ErrNotFound
		}
		before := inv.Clone()
		if err := fn(inv, tx, fx); err != nil {
			return err
		}
		inv.Keywords = billingcore.Keywords(inv)
		inv.UpdatedAt = uc.now()
		if err := applyStock(ctx, tx, shop, billingcore.StockDelta(before.Items, inv.Items), fx); err != nil {
			return err
		}
		delta := billingcore.BalanceDue(inv.TotalAmount, inv.PaidAmount).
			Sub(billingcore.BalanceDue(before.TotalAmount, before.PaidAmount))
		if err := applyBalance(ctx, tx, shopID, inv.CustomerID, delta, fx); err != nil {
			return err
		}
		if err := tx.Invoices.Update(ctx, inv); err != nil {
			return err
		}
		out = inv
		return nil
	})
	if err != nil {
		return nil, err
	}
	uc.flush(ctx, fx)
	return toInvoiceResponse(out, shop), nil
}

// AddItem agrega una línea nueva (aunque el artículo ya esté en la factura).
func (uc *InvoiceUseCase) AddItem(ctx context.Context, shopID, invoiceID string, in dto.InvoiceLineRequest) (*dto.InvoiceResponse, error) {
	if err := validLines([]dto.InvoiceLineRequest{in}); err != nil {
		return nil, err
	}
	return uc.mutate(ctx, shopID, invoiceID, func(inv *entity.Invoice, tx repository.TxRepos, _ *effects) error {
		line, err := newLine(ctx, tx.Items, shopID, in)
		if err != nil {
			return err
		}
		_, err = billingcore.AddItem(inv, line)
		return err
	})
}

// UpdateItemQuantity cambia la cantidad de una línea; cantidad ≤ 0 la elimina.
func (uc *InvoiceUseCase) UpdateItemQuantity(ctx context.Context, shopID, invoiceID, lineID string, quantity decimal.Decimal) (*dto.InvoiceResponse, error) {
	return uc.mutate(ctx, shopID, invoiceID, func(inv *entity.Invoice, _ repository.TxRepos, _ *effects) error {
		_, _, err := billingcore.UpdateItemQuantity(inv, lineID, quantity)
		return err
	})
}

// EditItem reemplaza snapshot, precio y cantidad de la línea conservando su id.
func (uc *InvoiceUseCase) EditItem(ctx context.Context, shopID, invoiceID, lineID string, in dto.EditItemRequest) (*dto.InvoiceResponse, error) {
	return uc.mutate(ctx, shopID, invoiceID, func(inv *entity.Invoice, _ repository.TxRepos, _ *effects) error {
		idx := inv.FindItem(lineID)
		if idx < 0 {
			return domain.ErrNotFound
		}
		current := inv.Items[idx]
		details := current.ItemDetails
		if in.ItemDetails != nil {
			details = *in.ItemDetails
			details.ShopID = current.ItemDetails.ShopID
			if details.ID == "" {
				details.ID = current.ItemID
			}
		}
		_, _, err := billingcore.EditItem(inv, lineID, details, in.Price, in.Quantity, in.UsedWeight)
		return err
	})
}

// RemoveItem elimina la línea y devuelve su cantidad al stock.
func (uc *InvoiceUseCase) RemoveItem(ctx context.Context, shopID, invoiceID, lineID string) (*dto.InvoiceResponse, error) {
	return uc.mutate(ctx, shopID, invoiceID, func(inv *entity.Invoice, _ repository.TxRepos, _ *effects) error {
		_, err := billingcore.RemoveItem(inv, lineID)
		return err
	})
}

// AddPayment registra un pago; falla con ErrAlreadyPaid si no hay saldo pendiente.
func (uc *InvoiceUseCase) AddPayment(ctx context.Context, shopID, invoiceID string, in dto.PaymentRequest) (*dto.InvoiceResponse, error) {
	return uc.mutate(ctx, shopID, invoiceID, func(inv *entity.Invoice, _ repository.TxRepos, fx *effects) error {
		if _, err := billingcore.AddPayment(inv, toPayment(in), uc.now()); err != nil {
			return err
		}
		amount := in.Amount
		fx.add(&entity.Notification{
			ShopID:     shopID,
			Type:       entity.NotificationPaymentReceived,
			Title:      "Pago recibido",
			Message:    fmt.Sprintf("%s recibido en %s (%s)", amount.StringFixed(2), inv.InvoiceNumber, in.Method),
			InvoiceID:  inv.ID,
			CustomerID: inv.CustomerID,
			Amount:     &amount,
		})
		return nil
	})
}

// EditPayment modifica monto, método, fecha, referencia o notas del pago.
func (uc *InvoiceUseCase) EditPayment(ctx context.Context, shopID, invoiceID, paymentID string, in dto.PaymentRequest) (*dto.InvoiceResponse, error) {
	return uc.mutate(ctx, shopID, invoiceID, func(inv *entity.Invoice, _ repository.TxRepos, _ *effects) error {
		p := toPayment(in)
		p.ID = paymentID
		_, err := billingcore.EditPayment(inv, p)
		return err
	})
}

// RemovePayment elimina un pago.
func (uc *InvoiceUseCase) RemovePayment(ctx context.Context, shopID, invoiceID, paymentID string) (*dto.InvoiceResponse, error) {
	return uc.mutate(ctx, shopID, invoiceID, func(inv *entity.Invoice, _ repository.TxRepos, _ *effects) error {
		_, err := billingcore.RemovePayment(inv, paymentID)
		return err
	})
}

// exchange resuelve las tarifas faltantes con las tarifas vigentes de la tienda.
func (uc *InvoiceUseCase) exchange(ctx context.Context, shopID string, in dto.MetalExchangeRequest) (billingcore.MetalExchange, error) {
	ex := billingcore.MetalExchange{FineGold: in.FineGold, FineSilver: in.FineSilver}
	rate := func(given *decimal.Decimal, grams decimal.Decimal, metal, purity string) (decimal.Decimal, error) {
		if given != nil {
			return *given, nil
		}
		if !grams.IsPositive() {
			return decimal.Zero, nil
		}
		r, err := uc.rates.Lookup(ctx, shopID, metal, purity)
		if err != nil {
			return decimal.Zero, fmt.Errorf("tarifa de %s: %w", metal, err)
		}
		return r.RatePerGram, nil
	}
	var err error
	if ex.GoldRate, err = rate(in.GoldRate, in.FineGold, entity.MetalGold, in.GoldPurity); err != nil {
		return ex, err
	}
	if ex.SilverRate, err = rate(in.SilverRate, in.FineSilver, entity.MetalSilver, in.SilverPurity); err != nil {
		return ex, err
	}
	return ex, nil
}

// ApplyMetalExchange descuenta el metal fino entregado por el cliente. Se aplica una sola vez.
func (uc *InvoiceUseCase) ApplyMetalExchange(ctx context.Context, shopID, invoiceID string, in dto.MetalExchangeRequest) (*dto.InvoiceResponse, error) {
	ex, err := uc.exchange(ctx, shopID, in)
	if err != nil {
		return nil, err
	}
	return uc.mutate(ctx, shopID, invoiceID, func(inv *entity.Invoice, _ repository.TxRepos, _ *effects) error {
		_, err := billingcore.ApplyMetalExchange(inv, ex)
		return err
	})
}

// Delete envía la factura a la papelera: devuelve stock, descuenta su saldo del cliente y guarda la lápida.
func (uc *InvoiceUseCase) Delete(ctx context.Context, shopID, id string) error {
	shop, err := uc.shop(ctx, shopID)
	if err != nil {
		return err
	}
	fx := &effects{}
	var deleted *entity.Invoice
	err = uc.txRunner.Run(ctx, func(tx repository.TxRepos) error {
		inv, err := tx.Invoices.GetByID(ctx, shopID, id)
		if err != nil {
			return err
		}
		if inv == nil {
			return domain.ErrNotFound
		}
		if err := applyStock(ctx, tx, shop, billingcore.StockDelta(inv.Items, nil), fx); err != nil {
			return err
		}
		due := billingcore.BalanceDue(inv.TotalAmount, inv.PaidAmount)
		if err := applyBalance(ctx, tx, shopID, inv.CustomerID, due.Neg(), fx); err != nil {
			return err
		}
		entry, err := entity.NewRecycledEntry(uuid.New().String(), shopID, entity.RecycledInvoice, inv.ID, inv.InvoiceNumber, inv, uc.now())
		if err != nil {
			return err
		}
		if err := tx.Recycle.Create(ctx, entry); err != nil {
			return err
		}
		deleted = inv
		return tx.Invoices.Delete(ctx, shopID, id)
	})
	if err != nil {
		return err
	}
	total := deleted.TotalAmount
	fx.add(&entity.Notification{
		ShopID:     shopID,
		Type:       entity.NotificationInvoiceDeleted,
		Title:      "Factura eliminada",
		Message:    fmt.Sprintf("%s se movió a la papelera", deleted.InvoiceNumber),
		InvoiceID:  deleted.ID,
		CustomerID: deleted.CustomerID,
		Amount:     &total,
	})
	uc.flush(ctx, fx)
	return nil
}

func toAudit(inv *entity.Invoice) dto.AuditResponse {
	issues := billingcore.Audit(inv)
	if issues == nil {
		issues = []billingcore.Issue{}
	}
	return dto.AuditResponse{
		InvoiceID:     inv.ID,
		InvoiceNumber: inv.InvoiceNumber,
		Consistent:    len(issues) == 0,
		Issues:        issues,
	}
}

// Audit verifica la integridad de una factura guardada.
func (uc *InvoiceUseCase) Audit(ctx context.Context, shopID, id string) (*dto.AuditResponse, error) {
	inv, err := uc.invoices.GetByID(ctx, shopID, id)
	if err != nil {
		return nil, err
	}
	if inv == nil {
		return nil, domain.ErrNotFound
	}
	out := toAudit(inv)
	return &out, nil
}

// AuditAll audita todas las facturas de la tienda y devuelve solo las inconsistentes.
func (uc *InvoiceUseCase) AuditAll(ctx context.Context, shopID string) ([]dto.AuditResponse, int, error) {
	list, total, err := uc.invoices.List(ctx, shopID, repository.InvoiceFilter{})
	if err != nil {
		return nil, 0, err
	}
	var bad []dto.AuditResponse
	for _, inv := range list {
		if a := toAudit(inv); !a.Consistent {
			uc.log.Warn().Str("shop_id", shopID).Str("invoice", inv.InvoiceNumber).Int("issues", len(a.Issues)).Msg("factura inconsistente")
			bad = append(bad, a)
		}
	}
	return bad, total, nil
}

func nonEmpty(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}
