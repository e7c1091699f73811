package service

import (
	"errors"
	"fmt"

	"jabatata-pos/internal/model"
	"jabatata-pos/internal/store"
	"jabatata-pos/internal/ws"
	"jabatata-pos/pkg/validator"

	"go.uber.org/zap"
)

var ErrInvalidBackup = errors.New("invalid backup document")

// BackupService serializes the full state to one document and restores it.
// Import validates every record up front and applies nothing on failure:
// a malformed backup must fail loudly, not corrupt the live state.
type BackupService interface {
	Export() *model.BackupDocument
	Import(doc *model.BackupDocument) error
}

type backupService struct {
	store  *store.Store
	hub    *ws.Hub
	logger *zap.Logger
}

func NewBackupService(st *store.Store, hub *ws.Hub, logger *zap.Logger) BackupService {
	return &backupService{store: st, hub: hub, logger: logger}
}

func (s *backupService) Export() *model.BackupDocument {
	sales := s.store.Sales()
	products := s.store.CustomProducts()
	goal := s.store.Goal()
	return &model.BackupDocument{
		Sales:    &sales,
		Products: &products,
		Meta:     &goal,
	}
}

func (s *backupService) Import(doc *model.BackupDocument) error {
	var sales []model.Sale
	if doc.Sales != nil {
		sales = *doc.Sales
		for i := range sales {
			if errs := validator.ValidateStruct(&sales[i]); len(errs) > 0 {
				first := errs[0]
				return fmt.Errorf("%w: sale %d: field '%s' failed on tag '%s'",
					ErrInvalidBackup, i, first.FailedField, first.Tag)
			}
			// Totals are derived state; a restored record obeys the same
			// invariant as a freshly saved one.
			sales[i].TotalValue = model.ItemsTotal(sales[i].Items)
		}
	}

	var products []model.Product
	if doc.Products != nil {
		products = *doc.Products
		for i := range products {
			if errs := validator.ValidateStruct(&products[i]); len(errs) > 0 {
				first := errs[0]
				return fmt.Errorf("%w: product %d: field '%s' failed on tag '%s'",
					ErrInvalidBackup, i, first.FailedField, first.Tag)
			}
		}
	}

	if err := s.store.Replace(sales, products, doc.Meta); err != nil {
		s.logger.Error("failed to persist restored state", zap.Error(err))
		return err
	}

	s.logger.Info("backup restored",
		zap.Bool("sales", doc.Sales != nil),
		zap.Bool("products", doc.Products != nil),
		zap.Bool("meta", doc.Meta != nil),
	)
	s.hub.Publish(ws.Event{
		Type:    ws.EventBackupRestored,
		Message: "Backup restaurado",
	})
	return nil
}
