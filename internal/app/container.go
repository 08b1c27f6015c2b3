// Package app arma los repositorios y casos de uso a partir de la configuración.
// Lo comparten la API y khatactl.
package app

import (
	"context"
	"fmt"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/jhoicas/swarna-khata-api/internal/application/analytics"
	"github.com/jhoicas/swarna-khata-api/internal/application/auth"
	"github.com/jhoicas/swarna-khata-api/internal/application/billing"
	"github.com/jhoicas/swarna-khata-api/internal/application/inventory"
	"github.com/jhoicas/swarna-khata-api/internal/application/notification"
	"github.com/jhoicas/swarna-khata-api/internal/application/ports"
	"github.com/jhoicas/swarna-khata-api/internal/application/usecase"
	"github.com/jhoicas/swarna-khata-api/internal/domain/repository"
	"github.com/jhoicas/swarna-khata-api/internal/infrastructure/cache"
	"github.com/jhoicas/swarna-khata-api/internal/infrastructure/memory"
	"github.com/jhoicas/swarna-khata-api/internal/infrastructure/pdf"
	"github.com/jhoicas/swarna-khata-api/internal/infrastructure/postgres"
	"github.com/jhoicas/swarna-khata-api/internal/infrastructure/push"
	"github.com/jhoicas/swarna-khata-api/internal/infrastructure/tally"
	httpRouter "github.com/jhoicas/swarna-khata-api/internal/interfaces/http"
	"github.com/jhoicas/swarna-khata-api/pkg/config"
)

// Repos conjunto de repositorios de un backend (Postgres o memoria).
type Repos struct {
	Tx            repository.TxRunner
	Shops         repository.ShopRepository
	Users         repository.UserRepository
	OTPs          repository.OTPRepository
	Customers     repository.CustomerRepository
	Items         repository.ItemRepository
	Invoices      repository.InvoiceRepository
	MetalRates    repository.MetalRateRepository
	Notifications repository.NotificationRepository
	DeviceTokens  repository.DeviceTokenRepository
	RecycleBin    repository.RecycleBinRepository
	Subscriptions repository.SubscriptionRepository
}

// PostgresRepos repositorios sobre el pool.
func PostgresRepos(pool *pgxpool.Pool) Repos {
	return Repos{
		Tx:            postgres.NewTxRunner(pool),
		Shops:         postgres.NewShopRepository(pool),
		Users:         postgres.NewUserRepository(pool),
		OTPs:          postgres.NewOTPRepository(pool),
		Customers:     postgres.NewCustomerRepository(pool),
		Items:         postgres.NewItemRepository(pool),
		Invoices:      postgres.NewInvoiceRepository(pool),
		MetalRates:    postgres.NewMetalRateRepository(pool),
		Notifications: postgres.NewNotificationRepository(pool),
		DeviceTokens:  postgres.NewDeviceTokenRepository(pool),
		RecycleBin:    postgres.NewRecycleBinRepository(pool),
		Subscriptions: postgres.NewSubscriptionRepository(pool),
	}
}

// MemoryRepos repositorios en memoria; los datos se pierden al reiniciar.
func MemoryRepos(store *memory.Store) Repos {
	return Repos{
		Tx:            store,
		Shops:         store.Shops(),
		Users:         store.Users(),
		OTPs:          store.OTPs(),
		Customers:     store.Customers(),
		Items:         store.Items(),
		Invoices:      store.Invoices(),
		MetalRates:    store.MetalRates(),
		Notifications: store.Notifications(),
		DeviceTokens:  store.DeviceTokens(),
		RecycleBin:    store.RecycleBin(),
		Subscriptions: store.Subscriptions(),
	}
}

// Container casos de uso listos para la API o la CLI.
type Container struct {
	Repos         Repos
	Auth          *auth.AuthUseCase
	Shops         *usecase.ShopUseCase
	MetalRates    *usecase.MetalRateUseCase
	Subscriptions *usecase.SubscriptionService
	Customers     *billing.CustomerUseCase
	Items         *inventory.ItemUseCase
	Invoices      *billing.InvoiceUseCase
	Documents     *billing.DocumentUseCase
	RecycleBin    *billing.RecycleBinUseCase
	Notifications *notification.Service
	Reports       *analytics.ReportsUseCase

	closers []func()
}

// Open conecta el almacenamiento (Postgres si DB está configurada, memoria si no), aplica
// migraciones pendientes, conecta Redis si hay dirección y construye los casos de uso.
func Open(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*Container, error) {
	c := &Container{}
	if cfg.DB.Enabled() {
		pool, err := postgres.NewPool(ctx, cfg.DB)
		if err != nil {
			return nil, fmt.Errorf("conexión a PostgreSQL: %w", err)
		}
		c.closers = append(c.closers, pool.Close)
		applied, err := postgres.Migrate(ctx, pool)
		if err != nil {
			c.Close()
			return nil, fmt.Errorf("migraciones: %w", err)
		}
		if len(applied) > 0 {
			log.Info().Strs("migrations", applied).Msg("migraciones aplicadas")
		}
		c.Repos = PostgresRepos(pool)
	} else {
		log.Warn().Msg("sin base de datos configurada: usando almacén en memoria")
		c.Repos = MemoryRepos(memory.New())
	}

	var rateCache ports.RateCache = cache.NoopRateCache{}
	if cfg.Redis.Addr != "" {
		rc := cache.NewRedisRateCache(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, cfg.Redis.TTL)
		if err := rc.Ping(ctx); err != nil {
			log.Warn().Err(err).Str("addr", cfg.Redis.Addr).Msg("redis no disponible: tarifas sin caché")
			_ = rc.Close()
		} else {
			rateCache = rc
			c.closers = append(c.closers, func() { _ = rc.Close() })
		}
	}

	var pushSender ports.PushSender = push.NewLogSender(log)
	if cfg.Push.FCMCredentialsFile != "" {
		raw, err := os.ReadFile(cfg.Push.FCMCredentialsFile)
		if err != nil {
			c.Close()
			return nil, fmt.Errorf("leer credenciales FCM: %w", err)
		}
		// El cliente renueva tokens durante toda la vida del proceso, no solo durante Open.
		fcm, err := push.NewFCMSenderFromCredentials(context.Background(), cfg.Push.FCMProjectID, cfg.Push.FCMEndpoint, raw)
		if err != nil {
			c.Close()
			return nil, err
		}
		pushSender = fcm
	}

	c.build(cfg, log, rateCache, pushSender, push.NewLogOTPSender(log))
	return c, nil
}

// NewInMemory contenedor sobre el almacén en memoria, sin Redis y con push en log.
// otpSender recibe los códigos de ingreso.
func NewInMemory(cfg *config.Config, log zerolog.Logger, otpSender ports.OTPSender) *Container {
	c := &Container{Repos: MemoryRepos(memory.New())}
	c.build(cfg, log, cache.NoopRateCache{}, push.NewLogSender(log), otpSender)
	return c
}

func (c *Container) build(cfg *config.Config, log zerolog.Logger, rateCache ports.RateCache, pushSender ports.PushSender, otpSender ports.OTPSender) {
	r := c.Repos
	c.Notifications = notification.NewService(r.Notifications, r.DeviceTokens, pushSender, log.With().Str("component", "notifications").Logger())
	c.Auth = auth.NewAuthUseCase(r.Users, r.OTPs, otpSender,
		auth.JWTConfig{Secret: cfg.JWT.Secret, ExpMinutes: cfg.JWT.Expiration, Issuer: cfg.JWT.Issuer},
		auth.OTPConfig{TTL: cfg.OTP.TTL, MaxAttempts: cfg.OTP.MaxAttempts},
	)
	c.Shops = usecase.NewShopUseCase(r.Shops, r.Users)
	c.MetalRates = usecase.NewMetalRateUseCase(r.MetalRates, rateCache, log.With().Str("component", "metal_rates").Logger())
	c.Subscriptions = usecase.NewSubscriptionService(r.Subscriptions, c.Notifications)
	c.Customers = billing.NewCustomerUseCase(r.Tx, r.Customers, r.Invoices)
	billingLog := log.With().Str("component", "billing").Logger()
	c.Items = inventory.NewItemUseCase(r.Tx, r.Items, r.Shops, c.Notifications, log.With().Str("component", "inventory").Logger())
	c.Invoices = billing.NewInvoiceUseCase(r.Tx, r.Invoices, r.Items, r.Customers, r.Shops, c.MetalRates, c.Subscriptions, c.Notifications, billingLog)
	c.Documents = billing.NewDocumentUseCase(r.Invoices, r.Shops, pdf.NewMarotoPDFGenerator(), tally.NewExporter())
	c.RecycleBin = billing.NewRecycleBinUseCase(r.Tx, r.RecycleBin, r.Shops, c.Notifications, billingLog)
	c.Reports = analytics.NewReportsUseCase(r.Invoices, r.Customers)
}

// RouterDeps dependencias del router HTTP.
func (c *Container) RouterDeps(jwtSecret string) httpRouter.RouterDeps {
	return httpRouter.RouterDeps{
		AuthUC:          c.Auth,
		ShopUC:          c.Shops,
		MetalRateUC:     c.MetalRates,
		SubscriptionSvc: c.Subscriptions,
		CustomerUC:      c.Customers,
		ItemUC:          c.Items,
		InvoiceUC:       c.Invoices,
		DocumentUC:      c.Documents,
		RecycleBinUC:    c.RecycleBin,
		NotificationSvc: c.Notifications,
		ReportsUC:       c.Reports,
		JWTSecret:       jwtSecret,
	}
}

// Close libera conexiones en orden inverso.
func (c *Container) Close() {
	for i := len(c.closers) - 1; i >= 0; i-- {
		c.closers[i]()
	}
	c.closers = nil
}
