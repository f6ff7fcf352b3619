package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/yeremiapane/restaurant-api/database"
	"github.com/yeremiapane/restaurant-api/models"
)

func newTestRepo(t *testing.T) *Repository {
	t.Helper()
	db, err := database.OpenInMemory()
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return New(db)
}

func createDish(t *testing.T, r *Repository, name, price string) *models.Dish {
	t.Helper()
	dish := &models.Dish{
		Name:             name,
		Price:            decimal.RequireFromString(price),
		NumberOfServings: 1,
		Category:         models.CategoryMainCourse,
	}
	require.NoError(t, r.CreateDish(context.Background(), dish))
	return dish
}

func TestUniqueIDs(t *testing.T) {
	assert.Equal(t, []uint{3, 1, 2}, uniqueIDs([]uint{3, 1, 3, 0, 2, 1}))
	assert.Empty(t, uniqueIDs(nil))
}

func TestUsers(t *testing.T) {
	ctx := context.Background()
	r := newTestRepo(t)

	user := &models.User{Email: "waiter@example.com", Password: "hash", Role: models.RoleWaiter}
	require.NoError(t, r.CreateUser(ctx, user))

	found, err := r.FindUserByEmail(ctx, "waiter@example.com")
	require.NoError(t, err)
	assert.Equal(t, user.ID, found.ID)

	exists, err := r.EmailExists(ctx, "waiter@example.com")
	require.NoError(t, err)
	assert.True(t, exists)

	_, err = r.FindUserByEmail(ctx, "nobody@example.com")
	assert.ErrorIs(t, err, ErrNotFound)

	dup := &models.User{Email: "waiter@example.com", Password: "hash", Role: models.RoleAdmin}
	assert.ErrorIs(t, r.CreateUser(ctx, dup), ErrDuplicate)
}

func TestDishIngredients(t *testing.T) {
	ctx := context.Background()
	r := newTestRepo(t)

	tomato := &models.Ingredient{Name: "Tomato"}
	basil := &models.Ingredient{Name: "Basil leaves"}
	require.NoError(t, r.CreateIngredient(ctx, tomato))
	require.NoError(t, r.CreateIngredient(ctx, basil))

	dish := createDish(t, r, "Bruschetta", "7.50")
	require.NoError(t, r.ReplaceDishIngredients(ctx, dish.ID, []uint{tomato.ID, tomato.ID, basil.ID}))

	got, err := r.GetDish(ctx, dish.ID)
	require.NoError(t, err)
	require.Len(t, got.Ingredients, 2)
	assert.Equal(t, "Tomato", got.Ingredients[0].Name)

	// Adding an existing link is a no-op.
	require.NoError(t, r.AddDishIngredients(ctx, dish.ID, []uint{basil.ID}))
	require.NoError(t, r.RemoveDishIngredients(ctx, dish.ID, []uint{tomato.ID}))

	got, err = r.GetDish(ctx, dish.ID)
	require.NoError(t, err)
	require.Len(t, got.Ingredients, 1)
	assert.Equal(t, basil.ID, got.Ingredients[0].ID)

	plain := createDish(t, r, "Plain rice", "2")
	dishes, err := r.ListDishes(ctx)
	require.NoError(t, err)
	require.Len(t, dishes, 2)
	assert.Equal(t, plain.ID, dishes[1].ID)
	assert.NotNil(t, dishes[1].Ingredients)
	assert.Empty(t, dishes[1].Ingredients)
}

func TestFindDishesByIDs_DropsUnknownAndRepeated(t *testing.T) {
	ctx := context.Background()
	r := newTestRepo(t)
	a := createDish(t, r, "Soup of the day", "10")
	b := createDish(t, r, "Lemonade", "5")

	dishes, err := r.FindDishesByIDs(ctx, []uint{a.ID, a.ID, b.ID, 999})
	require.NoError(t, err)
	require.Len(t, dishes, 2)
	assert.True(t, models.SumPrices(dishes).Equal(decimal.NewFromInt(15)))
}

func TestOrders(t *testing.T) {
	ctx := context.Background()
	r := newTestRepo(t)

	table := &models.Table{Capacity: 4, Description: "Window table", Status: models.TableAvailable}
	require.NoError(t, r.CreateTable(ctx, table))
	soup := createDish(t, r, "Soup of the day", "10")
	tea := createDish(t, r, "Green tea", "3.25")

	order := &models.Order{TableID: table.ID, Status: models.OrderInProgress}
	require.NoError(t, r.CreateOrder(ctx, order))
	require.NoError(t, r.ReplaceOrderDishes(ctx, order.ID, []uint{soup.ID, tea.ID, soup.ID}))
	require.NoError(t, r.UpdateOrderSubtotal(ctx, order.ID, decimal.RequireFromString("13.25")))

	got, err := r.GetOrder(ctx, order.ID)
	require.NoError(t, err)
	assert.Len(t, got.Dishes, 2)
	assert.True(t, got.Subtotal.Equal(decimal.RequireFromString("13.25")), got.Subtotal.String())

	ids, err := r.OrderIDsWithDish(ctx, tea.ID)
	require.NoError(t, err)
	assert.Equal(t, []uint{order.ID}, ids)

	byTable, err := r.ListOrdersByTable(ctx, table.ID, models.OrderInProgress)
	require.NoError(t, err)
	assert.Len(t, byTable, 1)

	completed, err := r.ListOrdersByTable(ctx, table.ID, models.OrderCompleted)
	require.NoError(t, err)
	assert.Empty(t, completed)

	require.NoError(t, r.DeleteOrder(ctx, order.ID))
	_, err = r.GetOrder(ctx, order.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, r.DeleteOrder(ctx, order.ID), ErrNotFound)
	assert.ErrorIs(t, r.UpdateOrderSubtotal(ctx, order.ID, decimal.Zero), ErrNotFound)

	ids, err = r.OrderIDsWithDish(ctx, tea.ID)
	require.NoError(t, err)
	assert.Empty(t, ids)
}

func TestTransaction_RollsBack(t *testing.T) {
	ctx := context.Background()
	r := newTestRepo(t)
	boom := errors.New("boom")

	err := r.Transaction(ctx, func(tx *Repository) error {
		require.NoError(t, tx.CreateTable(ctx, &models.Table{Capacity: 2, Description: "Bar stool", Status: models.TableAvailable}))
		return boom
	})
	assert.ErrorIs(t, err, boom)

	tables, err := r.ListTables(ctx)
	require.NoError(t, err)
	assert.Empty(t, tables)
}

func TestLockOrder(t *testing.T) {
	ctx := context.Background()
	r := newTestRepo(t)

	order := &models.Order{TableID: 1, Status: models.OrderInProgress}
	require.NoError(t, r.CreateOrder(ctx, order))

	err := r.Transaction(ctx, func(tx *Repository) error {
		return tx.LockOrder(ctx, order.ID)
	})
	require.NoError(t, err)

	err = r.Transaction(ctx, func(tx *Repository) error {
		return tx.LockOrder(ctx, order.ID+100)
	})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestForUpdate_RendersRowLock(t *testing.T) {
	db, err := gorm.Open(postgres.Open("host=localhost user=restaurant dbname=restaurant sslmode=disable"), &gorm.Config{
		DryRun:               true,
		DisableAutomaticPing: true,
	})
	require.NoError(t, err)

	sql := db.ToSQL(func(tx *gorm.DB) *gorm.DB {
		return forUpdate(tx, &models.Order{}, 7)
	})
	assert.Contains(t, sql, `FROM "orders"`)
	assert.Contains(t, sql, "FOR UPDATE")
}
