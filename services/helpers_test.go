package services

import (
	"context"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/yeremiapane/restaurant-api/database"
	"github.com/yeremiapane/restaurant-api/kds"
	"github.com/yeremiapane/restaurant-api/models"
	"github.com/yeremiapane/restaurant-api/repository"
	"github.com/yeremiapane/restaurant-api/utils"
)

type recordingPublisher struct {
	mu       sync.Mutex
	messages []kds.Message
}

func (p *recordingPublisher) Publish(_ context.Context, msg kds.Message) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.messages = append(p.messages, msg)
}

func (p *recordingPublisher) events() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.messages))
	for _, m := range p.messages {
		out = append(out, m.Event)
	}
	return out
}

type testEnv struct {
	repo      *repository.Repository
	publisher *recordingPublisher
	orders    *OrderService
	tables    *TableService
	catalog   *CatalogService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db, err := database.OpenInMemory()
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})

	repo := repository.New(db)
	pub := &recordingPublisher{}
	log := utils.NewTestLogger()
	return &testEnv{
		repo:      repo,
		publisher: pub,
		orders:    NewOrderService(repo, pub, log),
		tables:    NewTableService(repo, pub, log),
		catalog:   NewCatalogService(repo, NewDiskImageStore(t.TempDir(), "http://localhost:8080"), pub, log),
	}
}

func (e *testEnv) dish(t *testing.T, name, price string) *models.Dish {
	t.Helper()
	d, err := e.catalog.CreateDish(context.Background(), DishInput{
		Name:             name,
		Price:            decimal.RequireFromString(price),
		NumberOfServings: 1,
		Category:         models.CategoryMainCourse,
	})
	require.NoError(t, err)
	return d
}

func (e *testEnv) table(t *testing.T) *models.Table {
	t.Helper()
	tbl, err := e.tables.CreateTable(context.Background(), TableInput{Capacity: 4, Description: "Window table"})
	require.NoError(t, err)
	return tbl
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}
