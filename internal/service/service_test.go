package service

import (
	"fmt"
	"sync/atomic"
	"testing"

	"jabatata-pos/internal/repository"
	"jabatata-pos/internal/store"
	"jabatata-pos/internal/ws"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"
	"gorm.io/gorm"
)

func newTestLogger(t *testing.T) *zap.Logger {
	return zaptest.NewLogger(t)
}

var dbSeq atomic.Int64

// newTestStore builds a store over a unique in-memory database.
func newTestStore(t *testing.T) *store.Store {
	t.Helper()
	dsn := fmt.Sprintf("file:%s-%d?mode=memory&cache=shared", t.Name(), dbSeq.Add(1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&repository.Snapshot{}))

	s := store.New(repository.NewSnapshotRepo(db), zaptest.NewLogger(t))
	s.Load()
	return s
}

func newTestHub(t *testing.T) *ws.Hub {
	t.Helper()
	hub := ws.NewHub(zaptest.NewLogger(t))
	go hub.Run()
	return hub
}
