package service

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"jabatata-pos/internal/model"
	"jabatata-pos/internal/store"
	"jabatata-pos/internal/ws"
	"jabatata-pos/pkg/validator"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// SaleDraft is the cart as submitted by the front-end. Date carries only the
// calendar day; the time-of-day is taken from the wall clock at save time.
type SaleDraft struct {
	CustomerName    string                `json:"customerName"`
	Date            string                `json:"date" validate:"required,datetime=2006-01-02"`
	ConsumptionType model.ConsumptionType `json:"consumptionType" validate:"required,oneof=ON_SITE TAKEAWAY DELIVERY"`
	PaymentMethod   model.PaymentMethod   `json:"paymentMethod" validate:"required,oneof=CASH DEBIT CREDIT PIX"`
	Items           []model.SaleItem      `json:"items"`
}

type SaleService interface {
	// RecordSale validates and stores a sale built from the draft. An empty
	// cart is silently ignored and returns (nil, nil). When editingID is set
	// the existing record with that id is replaced in place.
	RecordSale(draft *SaleDraft, editingID string) (*model.Sale, error)
	ListSales() []model.Sale
}

type saleService struct {
	store  *store.Store
	hub    *ws.Hub
	logger *zap.Logger
	now    func() time.Time
}

func NewSaleService(st *store.Store, hub *ws.Hub, logger *zap.Logger) SaleService {
	return &saleService{
		store:  st,
		hub:    hub,
		logger: logger,
		now:    time.Now,
	}
}

func (s *saleService) RecordSale(draft *SaleDraft, editingID string) (*model.Sale, error) {
	if errs := validator.ValidateStruct(draft); len(errs) > 0 {
		first := errs[0]
		return nil, fmt.Errorf("validation failed: field '%s' failed on tag '%s'", first.FailedField, first.Tag)
	}

	items := normalizeItems(draft.Items)
	if len(items) == 0 {
		// Empty submissions never produce a record; not an error.
		return nil, nil
	}
	for _, item := range items {
		if item.ProductID == "" {
			return nil, errors.New("sale item is missing a product reference")
		}
		if item.UnitPrice < 0 {
			return nil, errors.New("sale item has a negative unit price")
		}
	}

	day, err := time.ParseInLocation("2006-01-02", draft.Date, time.Local)
	if err != nil {
		return nil, fmt.Errorf("invalid sale date: %w", err)
	}
	now := s.now()
	timestamp := time.Date(day.Year(), day.Month(), day.Day(),
		now.Hour(), now.Minute(), now.Second(), 0, time.Local)

	customer := strings.TrimSpace(draft.CustomerName)
	if customer == "" {
		customer = model.WalkInCustomer
	}

	id := editingID
	if id == "" {
		id = uuid.NewString()
	}

	sale := model.Sale{
		ID:              id,
		CustomerName:    customer,
		Date:            timestamp,
		ConsumptionType: draft.ConsumptionType,
		PaymentMethod:   draft.PaymentMethod,
		Items:           items,
		TotalValue:      model.ItemsTotal(items),
	}

	if err := s.store.UpsertSale(sale); err != nil {
		s.logger.Error("failed to persist sale", zap.String("sale_id", sale.ID), zap.Error(err))
		return nil, err
	}

	s.logger.Info("sale recorded",
		zap.String("sale_id", sale.ID),
		zap.String("customer", sale.CustomerName),
		zap.Float64("total", sale.TotalValue),
		zap.Bool("edit", editingID != ""),
	)
	s.hub.Publish(ws.Event{
		Type:    ws.EventSaleRecorded,
		Message: fmt.Sprintf("Venda de %s registrada para %s", model.FormatBRL(sale.TotalValue), sale.CustomerName),
		Data:    sale,
	})

	return &sale, nil
}

func (s *saleService) ListSales() []model.Sale {
	return s.store.Sales()
}

// normalizeItems applies the cart rules to a raw draft: duplicate product
// lines are merged, quantities clamp at zero and zero lines are dropped.
func normalizeItems(items []model.SaleItem) []model.SaleItem {
	merged := make([]model.SaleItem, 0, len(items))
	for _, item := range items {
		if item.Quantity < 0 {
			item.Quantity = 0
		}
		found := false
		for i, existing := range merged {
			if existing.ProductID == item.ProductID {
				merged[i].Quantity += item.Quantity
				found = true
				break
			}
		}
		if !found {
			merged = append(merged, item)
		}
	}
	out := merged[:0]
	for _, item := range merged {
		if item.Quantity > 0 {
			out = append(out, item)
		}
	}
	return out
}
