// internal/application/usecase/product_usecase.go
package usecase

import (
	"context"
	"errors"
	"log"
	"strings"

	"github.com/google/uuid"

	productdom "voltmart/internal/domain/product"
)

var (
	ErrProductInvalidArgument = errors.New("product_usecase: invalid argument")
)

// CatalogCache is an optional read cache over catalog list pages.
// Implementations must be best-effort: a miss or failure returns ok=false.
type CatalogCache interface {
	GetPage(ctx context.Context, filter productdom.Filter, sort productdom.Sort, page productdom.Page) (*productdom.PageResult, bool)
	SetPage(ctx context.Context, filter productdom.Filter, sort productdom.Sort, page productdom.Page, res *productdom.PageResult)
	Invalidate(ctx context.Context)
}

// ProductUsecase serves the public catalog and the admin product CRUD.
type ProductUsecase struct {
	repo  productdom.Repository
	cache CatalogCache // nil disables caching
	clock Clock
	newID func() string
}

func NewProductUsecase(repo productdom.Repository, cache CatalogCache) *ProductUsecase {
	return &ProductUsecase{
		repo:  repo,
		cache: cache,
		clock: systemClock{},
		newID: uuid.NewString,
	}
}

func NewProductUsecaseWithClock(repo productdom.Repository, cache CatalogCache, clock Clock, newID func() string) *ProductUsecase {
	if clock == nil {
		clock = systemClock{}
	}
	if newID == nil {
		newID = uuid.NewString
	}
	return &ProductUsecase{repo: repo, cache: cache, clock: clock, newID: newID}
}

// List serves catalog pages, via the cache when one is configured.
func (uc *ProductUsecase) List(ctx context.Context, filter productdom.Filter, sort productdom.Sort, page productdom.Page) (productdom.PageResult, error) {
	if uc.cache != nil {
		if res, ok := uc.cache.GetPage(ctx, filter, sort, page); ok {
			return *res, nil
		}
	}

	res, err := uc.repo.List(ctx, filter, sort, page)
	if err != nil {
		return productdom.PageResult{}, err
	}

	if uc.cache != nil {
		uc.cache.SetPage(ctx, filter, sort, page, &res)
	}
	return res, nil
}

func (uc *ProductUsecase) Get(ctx context.Context, id string) (*productdom.Product, error) {
	pid := strings.TrimSpace(id)
	if pid == "" {
		return nil, ErrProductInvalidArgument
	}
	return uc.repo.GetByID(ctx, pid)
}

// CreateProductInput is the admin-side create payload.
type CreateProductInput struct {
	SKU         string
	Name        string
	Brand       string
	Category    string
	Description string
	PriceCents  int64
	Stock       int
	Attributes  map[string]string
	ImageURL    string
	Active      bool
}

func (uc *ProductUsecase) Create(ctx context.Context, in CreateProductInput) (*productdom.Product, error) {
	now := uc.clock.Now()
	p := &productdom.Product{
		ID:          uc.newID(),
		SKU:         strings.TrimSpace(in.SKU),
		Name:        strings.TrimSpace(in.Name),
		Brand:       strings.TrimSpace(in.Brand),
		Category:    strings.TrimSpace(in.Category),
		Description: in.Description,
		PriceCents:  in.PriceCents,
		Stock:       in.Stock,
		Attributes:  in.Attributes,
		ImageURL:    strings.TrimSpace(in.ImageURL),
		Active:      in.Active,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	if err := uc.repo.Create(ctx, p); err != nil {
		return nil, err
	}

	uc.invalidateCache(ctx)
	return p, nil
}

func (uc *ProductUsecase) Update(ctx context.Context, id string, patch productdom.Patch) (*productdom.Product, error) {
	pid := strings.TrimSpace(id)
	if pid == "" {
		return nil, ErrProductInvalidArgument
	}
	if patch.PriceCents != nil && *patch.PriceCents < 0 {
		return nil, ErrProductInvalidArgument
	}
	if patch.Stock != nil && *patch.Stock < 0 {
		return nil, ErrProductInvalidArgument
	}

	p, err := uc.repo.Update(ctx, pid, patch)
	if err != nil {
		return nil, err
	}

	uc.invalidateCache(ctx)
	return p, nil
}

// Deactivate soft-deletes a product (active=false) so existing order and
// cart snapshots keep a resolvable product id.
func (uc *ProductUsecase) Deactivate(ctx context.Context, id string) (*productdom.Product, error) {
	inactive := false
	return uc.Update(ctx, id, productdom.Patch{Active: &inactive})
}

func (uc *ProductUsecase) invalidateCache(ctx context.Context) {
	if uc.cache == nil {
		return
	}
	uc.cache.Invalidate(ctx)
	log.Printf("[product_uc] catalog cache invalidated")
}
