package catalog

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/retailpos/backend/internal/domain/catalog"
	"github.com/retailpos/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// ProductService manages the stock ledger outside the sale path: product
// registration, detail changes, restocks and counted adjustments. Sale-time
// deductions never go through here; they belong to the sale coordinator and
// its row-locked transaction.
type ProductService struct {
	productRepo catalog.ProductRepository
	publisher   shared.EventPublisher
	logger      *zap.Logger
}

// NewProductService creates a new ProductService
func NewProductService(productRepo catalog.ProductRepository, logger *zap.Logger) *ProductService {
	return &ProductService{
		productRepo: productRepo,
		logger:      logger,
	}
}

// SetEventPublisher sets the event publisher for stock alerts
func (s *ProductService) SetEventPublisher(publisher shared.EventPublisher) {
	s.publisher = publisher
}

// CreateProduct registers a new product on the ledger
func (s *ProductService) CreateProduct(ctx context.Context, req CreateProductRequest) (*ProductResponse, error) {
	if existing, err := s.productRepo.FindBySKU(ctx, req.SKU); err == nil && existing != nil {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "A product with this SKU already exists")
	} else if err != nil && !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}

	product, err := catalog.NewProduct(req.Name, req.SKU, req.Category, req.Quantity,
		req.CostPrice, req.SellingPrice, req.LowStockThreshold)
	if err != nil {
		return nil, err
	}
	if err := s.productRepo.Create(ctx, product); err != nil {
		return nil, err
	}

	s.logger.Info("product registered",
		zap.String("product_id", product.ID.String()),
		zap.String("sku", product.SKU),
		zap.Int64("quantity", product.Quantity))

	resp := ToProductResponse(product)
	return &resp, nil
}

// UpdateProduct changes a product's details. The on-hand quantity is not
// touched here.
func (s *ProductService) UpdateProduct(ctx context.Context, req UpdateProductRequest) (*ProductResponse, error) {
	product, err := s.productRepo.FindByID(ctx, req.ProductID)
	if err != nil {
		return nil, err
	}

	if req.CostPrice.IsNegative() || req.SellingPrice.IsNegative() {
		return nil, shared.NewDomainError("INVALID_INPUT", "Product prices cannot be negative")
	}

	product.Name = req.Name
	product.Category = req.Category
	product.CostPrice = req.CostPrice
	product.SellingPrice = req.SellingPrice
	product.LowStockThreshold = req.LowStockThreshold
	product.UpdatedAt = time.Now()

	if err := s.productRepo.Update(ctx, product); err != nil {
		return nil, err
	}

	resp := ToProductResponse(product)
	return &resp, nil
}

// Restock adds received stock to a product
func (s *ProductService) Restock(ctx context.Context, req RestockRequest) (*ProductResponse, error) {
	product, err := s.productRepo.FindByID(ctx, req.ProductID)
	if err != nil {
		return nil, err
	}
	if err := product.Restore(req.Quantity); err != nil {
		return nil, err
	}
	if err := s.productRepo.Update(ctx, product); err != nil {
		return nil, err
	}

	s.logger.Info("product restocked",
		zap.String("product_id", product.ID.String()),
		zap.Int64("added", req.Quantity),
		zap.Int64("quantity", product.Quantity))

	s.publishEvents(ctx, product)
	resp := ToProductResponse(product)
	return &resp, nil
}

// AdjustStock sets the on-hand quantity to a counted value with a reason
func (s *ProductService) AdjustStock(ctx context.Context, req AdjustStockRequest) (*ProductResponse, error) {
	product, err := s.productRepo.FindByID(ctx, req.ProductID)
	if err != nil {
		return nil, err
	}
	if err := product.AdjustQuantity(req.ActualQuantity, req.Reason); err != nil {
		return nil, err
	}
	if err := s.productRepo.Update(ctx, product); err != nil {
		return nil, err
	}

	s.logger.Info("stock adjusted",
		zap.String("product_id", product.ID.String()),
		zap.Int64("quantity", product.Quantity),
		zap.String("reason", req.Reason))

	s.publishEvents(ctx, product)
	resp := ToProductResponse(product)
	return &resp, nil
}

// GetProduct retrieves a product by ID
func (s *ProductService) GetProduct(ctx context.Context, id uuid.UUID) (*ProductResponse, error) {
	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToProductResponse(product)
	return &resp, nil
}

// GetProductBySKU retrieves a product by SKU
func (s *ProductService) GetProductBySKU(ctx context.Context, sku string) (*ProductResponse, error) {
	product, err := s.productRepo.FindBySKU(ctx, sku)
	if err != nil {
		return nil, err
	}
	resp := ToProductResponse(product)
	return &resp, nil
}

// ListProducts retrieves products matching the filter
func (s *ProductService) ListProducts(ctx context.Context, filter shared.Filter) (shared.Paginated[ProductResponse], error) {
	page, err := s.productRepo.List(ctx, filter)
	if err != nil {
		return shared.Paginated[ProductResponse]{}, err
	}
	items := make([]ProductResponse, 0, len(page.Items))
	for _, product := range page.Items {
		items = append(items, ToProductResponse(product))
	}
	return shared.NewPaginated(items, page.Total, page.Page, page.PageSize), nil
}

// LowStockReport lists products at or below their alert threshold
func (s *ProductService) LowStockReport(ctx context.Context) ([]ProductResponse, error) {
	products, err := s.productRepo.FindBelowThreshold(ctx)
	if err != nil {
		return nil, err
	}
	items := make([]ProductResponse, 0, len(products))
	for _, product := range products {
		items = append(items, ToProductResponse(product))
	}
	return items, nil
}

// DeleteProduct removes a product from the ledger
func (s *ProductService) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	if err := s.productRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("product deleted", zap.String("product_id", id.String()))
	return nil
}

// publishEvents fires any stock events the operation raised
func (s *ProductService) publishEvents(ctx context.Context, product *catalog.Product) {
	if s.publisher == nil {
		return
	}
	events := product.GetDomainEvents()
	product.ClearDomainEvents()
	if len(events) == 0 {
		return
	}
	if err := s.publisher.Publish(ctx, events...); err != nil {
		s.logger.Warn("failed to publish stock events", zap.Error(err))
	}
}
