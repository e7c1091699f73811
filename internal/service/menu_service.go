package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"jabatata-pos/internal/model"
	"jabatata-pos/internal/store"
	"jabatata-pos/internal/ws"
	"jabatata-pos/pkg/validator"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	ErrAdminRequired  = errors.New("admin unlock required")
	ErrInvalidProduct = errors.New("product name and price are required")
)

type adminContextKey struct{}

// WithAdmin marks the context as carrying an unlocked admin session.
func WithAdmin(ctx context.Context) context.Context {
	return context.WithValue(ctx, adminContextKey{}, true)
}

func IsAdmin(ctx context.Context) bool {
	admin, _ := ctx.Value(adminContextKey{}).(bool)
	return admin
}

type AddProductRequest struct {
	Name  string  `json:"name" validate:"required"`
	Price float64 `json:"price" validate:"gte=0"`
}

// MenuService manages the custom half of the catalog. Built-in entries are
// read-only; mutations need an unlocked admin session.
type MenuService interface {
	Catalog() []model.Product
	CustomProducts() []model.Product
	AddProduct(ctx context.Context, req *AddProductRequest) (*model.Product, error)
	RemoveProduct(ctx context.Context, id string) error
}

type menuService struct {
	store  *store.Store
	hub    *ws.Hub
	logger *zap.Logger
}

func NewMenuService(st *store.Store, hub *ws.Hub, logger *zap.Logger) MenuService {
	return &menuService{store: st, hub: hub, logger: logger}
}

func (s *menuService) Catalog() []model.Product {
	return s.store.Catalog()
}

func (s *menuService) CustomProducts() []model.Product {
	return s.store.CustomProducts()
}

func (s *menuService) AddProduct(ctx context.Context, req *AddProductRequest) (*model.Product, error) {
	if !IsAdmin(ctx) {
		return nil, ErrAdminRequired
	}
	if errs := validator.ValidateStruct(req); len(errs) > 0 {
		return nil, ErrInvalidProduct
	}

	name := strings.ToUpper(strings.TrimSpace(req.Name))
	if name == "" {
		return nil, ErrInvalidProduct
	}

	product := model.Product{
		ID:    uuid.NewString(),
		Name:  name,
		Price: req.Price,
	}
	if err := s.store.PutProduct(product); err != nil {
		s.logger.Error("failed to persist product", zap.String("product_id", product.ID), zap.Error(err))
		return nil, err
	}

	s.logger.Info("menu product added", zap.String("product_id", product.ID), zap.String("name", product.Name))
	s.hub.Publish(ws.Event{
		Type:    ws.EventMenuChanged,
		Message: fmt.Sprintf("%s adicionado ao cardápio por %s", product.Name, model.FormatBRL(product.Price)),
		Data:    product,
	})
	return &product, nil
}

func (s *menuService) RemoveProduct(ctx context.Context, id string) error {
	if !IsAdmin(ctx) {
		return ErrAdminRequired
	}
	if err := s.store.RemoveProduct(id); err != nil {
		s.logger.Error("failed to remove product", zap.String("product_id", id), zap.Error(err))
		return err
	}

	s.logger.Info("menu product removed", zap.String("product_id", id))
	s.hub.Publish(ws.Event{
		Type:    ws.EventMenuChanged,
		Message: "Item removido do cardápio",
		Data:    map[string]string{"id": id},
	})
	return nil
}
