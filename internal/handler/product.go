package handler

import (
	"context"
	"log"
	"math"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/marketplace-api/internal/model"
	"github.com/iliyamo/marketplace-api/internal/queue"
	"github.com/iliyamo/marketplace-api/internal/repository"
)

// CategoryStore is the slice of the category repository the product
// handlers need.
type CategoryStore interface {
	GetByID(ctx context.Context, id uint64) (model.Category, error)
}

// ProductStore is the slice of the product repository the product handlers
// need.
type ProductStore interface {
	ListAndCount(ctx context.Context, q repository.ProductPage) ([]repository.ProductWithCategory, int64, error)
	Create(ctx context.Context, p *model.Product) error
}

// ProductHandler bundles dependencies for catalog endpoints.  Publish is
// optional; when set it receives a product.created event after every
// successful insert.
type ProductHandler struct {
	Products   ProductStore
	Categories CategoryStore
	Publish    func(ctx context.Context, ev queue.ProductCreatedEvent) error
}

func NewProductHandler(p ProductStore, cat CategoryStore) *ProductHandler {
	return &ProductHandler{Products: p, Categories: cat}
}

type createProductReq struct {
	Name       string   `json:"name"`
	Price      *float64 `json:"price"`
	Stock      *int64   `json:"stock"`
	CategoryID *int64   `json:"categoryId"`
	Type       string   `json:"type"`
}

// productResp is the shape returned by the create endpoint.
type productResp struct {
	ID         uint64        `json:"id"`
	Name       string        `json:"name"`
	Type       string        `json:"type"`
	Price      float64       `json:"price"`
	Stock      uint32        `json:"stock"`
	CategoryID uint64        `json:"categoryId"`
	CreatedAt  time.Time     `json:"createdAt"`
	Category   *categoryResp `json:"category,omitempty"`
}

type categoryResp struct {
	ID          uint64 `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// List handles GET /products: a filtered, sorted, paginated and optionally
// projected listing.  The count and page queries share one predicate and
// run concurrently.  The envelope is always complete, even for an empty
// page past the end.
func (h *ProductHandler) List(c echo.Context) error {
	q, err := parseListQuery(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": err.Error()})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	rows, total, err := h.Products.ListAndCount(ctx, q.Query)
	if err != nil {
		log.Printf("products: list: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Internal server error"})
	}

	totalPages := int(math.Ceil(float64(total) / float64(q.Limit)))
	if totalPages < 1 {
		totalPages = 1
	}

	items := make([]echo.Map, 0, len(rows))
	for _, row := range rows {
		items = append(items, shapeItem(row, q))
	}
	return c.JSON(http.StatusOK, echo.Map{
		"page":       q.Page,
		"limit":      q.Limit,
		"total":      total,
		"totalPages": totalPages,
		"items":      items,
	})
}

// Create handles POST /products.  All validation happens before any store
// write; a missing category is 404 and inserts nothing.
func (h *ProductHandler) Create(c echo.Context) error {
	var req createProductReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid body"})
	}
	if strings.TrimSpace(req.Name) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "name is required"})
	}
	if req.Price == nil || *req.Price < 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "price must be a positive number"})
	}
	if req.Stock == nil || *req.Stock < 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "stock must be a positive integer"})
	}
	if req.CategoryID == nil || *req.CategoryID <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "categoryId must be a positive integer"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	cat, err := h.Categories.GetByID(ctx, uint64(*req.CategoryID))
	if err != nil {
		if err == repository.ErrCategoryNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"message": "Category not found"})
		}
		log.Printf("products: load category: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Internal server error"})
	}

	typ := strings.TrimSpace(req.Type)
	if typ == "" {
		typ = "STANDARD"
	}
	p := model.Product{
		Name:       req.Name,
		Type:       typ,
		Price:      *req.Price,
		Stock:      uint32(*req.Stock),
		CategoryID: cat.ID,
	}
	if err := h.Products.Create(ctx, &p); err != nil {
		log.Printf("products: create: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Internal server error"})
	}

	if h.Publish != nil {
		ev := queue.ProductCreatedEvent{
			ProductID:    p.ID,
			Name:         p.Name,
			Type:         p.Type,
			Price:        p.Price,
			Stock:        p.Stock,
			CategoryID:   cat.ID,
			CategoryName: cat.Name,
			CreatedAt:    p.CreatedAt.UTC().Format(time.RFC3339),
		}
		// Best effort: event delivery must not fail the request.
		go func() { _ = h.Publish(context.Background(), ev) }()
	}

	return c.JSON(http.StatusCreated, productResp{
		ID:         p.ID,
		Name:       p.Name,
		Type:       p.Type,
		Price:      p.Price,
		Stock:      p.Stock,
		CategoryID: p.CategoryID,
		CreatedAt:  p.CreatedAt,
		Category: &categoryResp{
			ID:          cat.ID,
			Name:        cat.Name,
			Description: cat.Description,
		},
	})
}
