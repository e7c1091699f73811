package service

import (
	"testing"
	"time"

	"jabatata-pos/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newBackupService(t *testing.T) *backupService {
	t.Helper()
	return &backupService{
		store:  newTestStore(t),
		hub:    newTestHub(t),
		logger: newTestLogger(t),
	}
}

func TestBackupRoundTrip(t *testing.T) {
	src := newBackupService(t)

	sale := saleOn(time.Date(2026, 8, 30, 12, 15, 30, 0, time.Local), 34.00,
		model.SaleItem{ProductID: "1", Quantity: 2, UnitPrice: 17.00})
	require.NoError(t, src.store.UpsertSale(sale))
	require.NoError(t, src.store.PutProduct(model.Product{ID: "c1", Name: "COXINHA", Price: 8.00}))
	require.NoError(t, src.store.SetGoal(45000.00))

	doc := src.Export()

	dst := newBackupService(t)
	require.NoError(t, dst.Import(doc))

	assert.Equal(t, src.store.Sales(), dst.store.Sales())
	assert.Equal(t, src.store.CustomProducts(), dst.store.CustomProducts())
	assert.Equal(t, 45000.00, dst.store.Goal())
}

func TestImportPartialDocumentLeavesRestUntouched(t *testing.T) {
	svc := newBackupService(t)

	sale := saleOn(time.Date(2026, 8, 30, 12, 0, 0, 0, time.Local), 17.00,
		model.SaleItem{ProductID: "1", Quantity: 1, UnitPrice: 17.00})
	require.NoError(t, svc.store.UpsertSale(sale))
	require.NoError(t, svc.store.SetGoal(45000.00))

	products := []model.Product{{ID: "c1", Name: "COXINHA", Price: 8.00}}
	require.NoError(t, svc.Import(&model.BackupDocument{Products: &products}))

	assert.Equal(t, 1, svc.store.SaleCount())
	assert.Equal(t, 45000.00, svc.store.Goal())
	assert.Equal(t, products, svc.store.CustomProducts())
}

func TestImportRecomputesSaleTotals(t *testing.T) {
	svc := newBackupService(t)

	tampered := saleOn(time.Date(2026, 8, 30, 12, 0, 0, 0, time.Local), 999.00,
		model.SaleItem{ProductID: "1", Quantity: 2, UnitPrice: 17.00})
	sales := []model.Sale{tampered}
	require.NoError(t, svc.Import(&model.BackupDocument{Sales: &sales}))

	restored, ok := svc.store.Sale(tampered.ID)
	require.True(t, ok)
	assert.Equal(t, 34.00, restored.TotalValue)
}

func TestImportMalformedSaleFailsWithoutApplying(t *testing.T) {
	svc := newBackupService(t)

	existing := saleOn(time.Date(2026, 8, 30, 12, 0, 0, 0, time.Local), 17.00,
		model.SaleItem{ProductID: "1", Quantity: 1, UnitPrice: 17.00})
	require.NoError(t, svc.store.UpsertSale(existing))

	broken := saleOn(time.Date(2026, 8, 31, 12, 0, 0, 0, time.Local), 10.00,
		model.SaleItem{ProductID: "1", Quantity: 0, UnitPrice: 10.00})
	sales := []model.Sale{broken}

	err := svc.Import(&model.BackupDocument{Sales: &sales})
	assert.ErrorIs(t, err, ErrInvalidBackup)

	assert.Equal(t, 1, svc.store.SaleCount())
	_, ok := svc.store.Sale(existing.ID)
	assert.True(t, ok)
}

func TestImportMalformedProductFailsWithoutApplying(t *testing.T) {
	svc := newBackupService(t)

	products := []model.Product{{ID: "c1", Name: "", Price: 8.00}}
	err := svc.Import(&model.BackupDocument{Products: &products})
	assert.ErrorIs(t, err, ErrInvalidBackup)
	assert.Empty(t, svc.store.CustomProducts())
}

func TestImportEmptyDocumentIsNoop(t *testing.T) {
	svc := newBackupService(t)
	require.NoError(t, svc.store.SetGoal(45000.00))

	require.NoError(t, svc.Import(&model.BackupDocument{}))
	assert.Equal(t, 45000.00, svc.store.Goal())
}
