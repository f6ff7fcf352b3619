package repository

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/yeremiapane/restaurant-api/models"
)

func (r *Repository) CreateOrder(ctx context.Context, order *models.Order) error {
	return translate(r.conn(ctx).Create(order).Error)
}

// LockOrder takes a row lock on the order so concurrent changes to its dish set run one after another.
// It must run inside a transaction.
func (r *Repository) LockOrder(ctx context.Context, id uint) error {
	return translate(forUpdate(r.conn(ctx), &models.Order{}, id).Error)
}

// GetOrder loads an order with its current dishes.
func (r *Repository) GetOrder(ctx context.Context, id uint) (*models.Order, error) {
	var order models.Order
	if err := r.conn(ctx).First(&order, id).Error; err != nil {
		return nil, translate(err)
	}
	orders := []models.Order{order}
	if err := r.attachDishes(ctx, orders); err != nil {
		return nil, err
	}
	return &orders[0], nil
}

func (r *Repository) ListOrders(ctx context.Context) ([]models.Order, error) {
	orders := make([]models.Order, 0)
	if err := r.conn(ctx).Order("id ASC").Find(&orders).Error; err != nil {
		return nil, err
	}
	if err := r.attachDishes(ctx, orders); err != nil {
		return nil, err
	}
	return orders, nil
}

func (r *Repository) ListOrdersByTable(ctx context.Context, tableID uint, status models.OrderStatus) ([]models.Order, error) {
	orders := make([]models.Order, 0)
	err := r.conn(ctx).
		Where("table_id = ? AND status = ?", tableID, status).
		Order("id ASC").
		Find(&orders).Error
	if err != nil {
		return nil, err
	}
	if err := r.attachDishes(ctx, orders); err != nil {
		return nil, err
	}
	return orders, nil
}

// ReplaceOrderDishes removes every dish link of the order and links dishIDs instead.
func (r *Repository) ReplaceOrderDishes(ctx context.Context, orderID uint, dishIDs []uint) error {
	if err := r.conn(ctx).Where("order_id = ?", orderID).Delete(&models.DishOrder{}).Error; err != nil {
		return err
	}
	dishIDs = uniqueIDs(dishIDs)
	if len(dishIDs) == 0 {
		return nil
	}
	links := make([]models.DishOrder, 0, len(dishIDs))
	for _, id := range dishIDs {
		links = append(links, models.DishOrder{OrderID: orderID, DishID: id})
	}
	return r.conn(ctx).Create(&links).Error
}

func (r *Repository) UpdateOrderSubtotal(ctx context.Context, orderID uint, subtotal decimal.Decimal) error {
	res := r.conn(ctx).Model(&models.Order{}).Where("id = ?", orderID).Update("subtotal", subtotal)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteOrder removes the order's dish links, then the order row.
func (r *Repository) DeleteOrder(ctx context.Context, orderID uint) error {
	if err := r.conn(ctx).Where("order_id = ?", orderID).Delete(&models.DishOrder{}).Error; err != nil {
		return err
	}
	res := r.conn(ctx).Delete(&models.Order{}, orderID)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// OrderIDsWithDish lists the orders currently linked to a dish.
func (r *Repository) OrderIDsWithDish(ctx context.Context, dishID uint) ([]uint, error) {
	var ids []uint
	err := r.conn(ctx).
		Model(&models.DishOrder{}).
		Where("dish_id = ?", dishID).
		Order("order_id ASC").
		Pluck("order_id", &ids).Error
	return ids, err
}

// OrderDishes returns the dishes currently linked to an order.
func (r *Repository) OrderDishes(ctx context.Context, orderID uint) ([]models.Dish, error) {
	orders := []models.Order{{ID: orderID}}
	if err := r.attachDishes(ctx, orders); err != nil {
		return nil, err
	}
	return orders[0].Dishes, nil
}

type dishLink struct {
	OrderID uint
	models.Dish
}

func (r *Repository) attachDishes(ctx context.Context, orders []models.Order) error {
	if len(orders) == 0 {
		return nil
	}
	orderIDs := make([]uint, 0, len(orders))
	for _, o := range orders {
		orderIDs = append(orderIDs, o.ID)
	}

	var rows []dishLink
	err := r.conn(ctx).
		Table("dishes").
		Select("dish_orders.order_id AS order_id, dishes.*").
		Joins("JOIN dish_orders ON dish_orders.dish_id = dishes.id").
		Where("dish_orders.order_id IN ?", orderIDs).
		Order("dishes.id ASC").
		Scan(&rows).Error
	if err != nil {
		return err
	}

	byOrder := make(map[uint][]models.Dish, len(orders))
	for _, row := range rows {
		byOrder[row.OrderID] = append(byOrder[row.OrderID], row.Dish)
	}
	for i := range orders {
		orders[i].Dishes = byOrder[orders[i].ID]
		if orders[i].Dishes == nil {
			orders[i].Dishes = []models.Dish{}
		}
	}
	return nil
}
