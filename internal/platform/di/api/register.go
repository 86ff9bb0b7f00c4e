// internal/platform/di/api/register.go
package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/google/uuid"

	"voltmart/internal/adapters/in/http/handler"
	"voltmart/internal/adapters/in/http/middleware"
	"voltmart/internal/adapters/out/cache"
	"voltmart/internal/adapters/out/db"
	fsadapter "voltmart/internal/adapters/out/firestore"
	"voltmart/internal/adapters/out/mail"
	"voltmart/internal/application/usecase"
	settingsdom "voltmart/internal/domain/settings"
	"voltmart/internal/platform/di/shared"
)

// Container wires repositories, usecases, handlers and middleware into a
// single http.Handler. Infra ownership stays with shared.Infra; Close goes
// through it.
type Container struct {
	Infra   *shared.Infra
	Handler http.Handler

	Carts    *usecase.CartUsecase
	Products *usecase.ProductUsecase
	Orders   *usecase.OrderUsecase
	Wishlist *usecase.WishlistUsecase
	Auth     *usecase.AuthUsecase
	Settings *usecase.SettingsUsecase
}

// NewContainer wires the application on top of an already-initialized
// shared.Infra. Infra lifetime stays with the caller.
func NewContainer(inf *shared.Infra) (*Container, error) {
	return build(inf)
}

func build(inf *shared.Infra) (*Container, error) {
	cfg := inf.Config

	// out-adapters
	cartRepo := db.NewCartRepositoryPG(inf.DB.Client)
	productRepo := db.NewProductRepositoryPG(inf.DB.Client)
	orderRepo := db.NewOrderRepositoryPG(inf.DB.Client)
	wishlistRepo := db.NewWishlistRepositoryPG(inf.DB.Client)
	userRepo := db.NewUserRepositoryPG(inf.DB.Client)

	var settingsRepo settingsdom.Repository = unconfiguredSettingsRepo{}
	if inf.Firestore != nil {
		settingsRepo = fsadapter.NewSettingsRepositoryFS(inf.Firestore)
	}

	var catalogCache usecase.CatalogCache
	if inf.Redis != nil {
		catalogCache = cache.NewCatalogCacheRedis(inf.Redis)
	}

	var mailer usecase.OrderMailer
	if inf.SendGridAPIKey != "" {
		mailer = mail.NewOrderMailer(mail.NewSendGridClient(inf.SendGridAPIKey), inf.MailFrom)
	}

	// usecases
	carts := usecase.NewCartUsecase(cartRepo, productRepo)
	products := usecase.NewProductUsecase(productRepo, catalogCache)
	orders := usecase.NewOrderUsecase(orderRepo, cartRepo, productRepo, mailer)
	wishlists := usecase.NewWishlistUsecase(wishlistRepo, productRepo)
	auth := usecase.NewAuthUsecase(userRepo, carts)
	settings := usecase.NewSettingsUsecase(settingsRepo)

	// in-adapters
	cartHandler := handler.NewCartHandler(carts, cfg.GuestCookieName)
	productHandler := handler.NewProductHandler(products)
	orderHandler := handler.NewOrderHandler(orders)
	wishlistHandler := handler.NewWishlistHandler(wishlists)
	authHandler := handler.NewAuthHandler(auth, cfg.GuestCookieName)
	businessHandler := handler.NewBusinessHandler(settings)
	adminHandler := handler.NewAdminHandler(products, orders, settings)

	identity := &middleware.IdentityMiddleware{
		Users:        auth,
		CookieName:   cfg.GuestCookieName,
		CookieMaxAge: cfg.GuestCookieMaxAge,
		NewSessionID: uuid.NewString,
	}
	if inf.FirebaseAuth != nil {
		identity.Verifier = inf.FirebaseAuth
	}

	maintenance := middleware.Maintenance(settings)

	mux := http.NewServeMux()
	mux.Handle("/api/cart", cartHandler)
	mux.Handle("/api/cart/", cartHandler)
	mux.Handle("/api/products", productHandler)
	mux.Handle("/api/products/", productHandler)
	mux.Handle("/api/orders", orderHandler)
	mux.Handle("/api/orders/", orderHandler)
	mux.Handle("/api/checkout", orderHandler)
	mux.Handle("/api/wishlist", wishlistHandler)
	mux.Handle("/api/wishlist/", wishlistHandler)
	mux.Handle("/api/auth/", authHandler)
	mux.Handle("/api/business", businessHandler)
	mux.Handle("/api/admin/", middleware.RequireAdmin(adminHandler))

	// outermost first: recover -> identity -> maintenance -> mux
	// (CORS wraps the whole server in cmd/api.)
	var h http.Handler = mux
	h = maintenance(h)
	h = identity.Handler(h)
	h = middleware.Recover(h)

	return &Container{
		Infra:    inf,
		Handler:  h,
		Carts:    carts,
		Products: products,
		Orders:   orders,
		Wishlist: wishlists,
		Auth:     auth,
		Settings: settings,
	}, nil
}

// unconfiguredSettingsRepo stands in when Firestore is unavailable; the
// settings usecase turns ErrNotConfigured into safe defaults.
type unconfiguredSettingsRepo struct{}

func (unconfiguredSettingsRepo) Get(ctx context.Context) (*settingsdom.Business, error) {
	return nil, settingsdom.ErrNotConfigured
}

func (unconfiguredSettingsRepo) Put(ctx context.Context, b *settingsdom.Business) error {
	return errors.New("settings: no settings backend configured")
}
