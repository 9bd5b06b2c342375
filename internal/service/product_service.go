package service

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/storefront-service/internal/domain"
	"github.com/spec-kit/storefront-service/internal/events"
	"github.com/spec-kit/storefront-service/internal/repository"
)

const categoryCacheTTL = 5 * time.Minute

// Cache abstracts the read-through cache for category listings.
type Cache interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
}

// ProductCreateInput carries fields for a new catalog item.
type ProductCreateInput struct {
	Name     string
	Price    float64
	Category string
}

// ProductService coordinates catalog operations.
type ProductService struct {
	products   repository.ProductRepository
	cache      Cache
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// ProductDependencies encapsulates collaborator requirements.
type ProductDependencies struct {
	ProductRepo repository.ProductRepository
	Cache       Cache
	Dispatcher  events.Dispatcher
	Logger      *zap.Logger
}

// NewProductService builds the service.
func NewProductService(deps ProductDependencies) *ProductService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ProductService{
		products:   deps.ProductRepo,
		cache:      deps.Cache,
		dispatcher: deps.Dispatcher,
		logger:     logger,
	}
}

// List returns all catalog items.
func (s *ProductService) List(ctx context.Context) ([]domain.Product, error) {
	return s.products.List(ctx)
}

// Get returns a single item by id.
func (s *ProductService) Get(ctx context.Context, id string) (*domain.Product, error) {
	return s.products.GetByID(ctx, id)
}

// Create persists a new item and invalidates its category listing.
func (s *ProductService) Create(ctx context.Context, input ProductCreateInput) (*domain.Product, error) {
	product := &domain.Product{
		Name:     strings.TrimSpace(input.Name),
		Price:    input.Price,
		Category: strings.TrimSpace(input.Category),
	}
	if err := s.products.Create(ctx, product); err != nil {
		return nil, err
	}

	s.invalidateCategory(ctx, product.Category)
	publishEvent(ctx, s.dispatcher, events.Event{
		Type:     events.EventProductCreated,
		EntityID: product.ID,
		Payload:  productPayload(product),
	})
	return product, nil
}

// Update replaces an item's fields. Both the previous and the new category
// listings are invalidated when the category moved.
func (s *ProductService) Update(ctx context.Context, id string, input ProductCreateInput) (*domain.Product, error) {
	existing, err := s.products.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	product := &domain.Product{
		ID:       id,
		Name:     strings.TrimSpace(input.Name),
		Price:    input.Price,
		Category: strings.TrimSpace(input.Category),
	}
	if err := s.products.Update(ctx, product); err != nil {
		return nil, err
	}

	s.invalidateCategory(ctx, existing.Category)
	if product.Category != existing.Category {
		s.invalidateCategory(ctx, product.Category)
	}
	publishEvent(ctx, s.dispatcher, events.Event{
		Type:     events.EventProductUpdated,
		EntityID: product.ID,
		Payload:  productPayload(product),
	})
	return product, nil
}

// Delete removes an item and returns the deleted record.
func (s *ProductService) Delete(ctx context.Context, id string) (*domain.Product, error) {
	product, err := s.products.Delete(ctx, id)
	if err != nil {
		return nil, err
	}

	s.invalidateCategory(ctx, product.Category)
	publishEvent(ctx, s.dispatcher, events.Event{
		Type:     events.EventProductDeleted,
		EntityID: product.ID,
		Payload:  productPayload(product),
	})
	return product, nil
}

// ListByCategory returns items in a category, serving from cache when warm.
// Cache failures are never surfaced; the store remains the source of truth.
func (s *ProductService) ListByCategory(ctx context.Context, category string) ([]domain.Product, error) {
	key := categoryKey(category)

	if s.cache != nil {
		if cached, err := s.cache.Get(ctx, key); err == nil {
			var products []domain.Product
			if err := json.Unmarshal([]byte(cached), &products); err == nil {
				return products, nil
			}
		}
	}

	products, err := s.products.ListByCategory(ctx, category)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if encoded, err := json.Marshal(products); err == nil {
			if err := s.cache.Set(ctx, key, string(encoded), categoryCacheTTL); err != nil {
				s.logger.Debug("category cache set failed", zap.String("category", category), zap.Error(err))
			}
		}
	}
	return products, nil
}

func (s *ProductService) invalidateCategory(ctx context.Context, category string) {
	if s.cache == nil || category == "" {
		return
	}
	if err := s.cache.Del(ctx, categoryKey(category)); err != nil {
		s.logger.Debug("category cache invalidation failed", zap.String("category", category), zap.Error(err))
	}
}

func categoryKey(category string) string {
	return "products:category:" + category
}

func productPayload(p *domain.Product) events.ProductPayload {
	return events.ProductPayload{Name: p.Name, Price: p.Price, Category: p.Category}
}
