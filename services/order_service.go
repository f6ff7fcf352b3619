package services

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/yeremiapane/restaurant-api/kds"
	"github.com/yeremiapane/restaurant-api/models"
	"github.com/yeremiapane/restaurant-api/repository"
	"github.com/yeremiapane/restaurant-api/utils"
)

const msgOrderNotFound = "Order was not found."

// ParseDishIDs validates the raw "dishes" value of an order request. Any element that is
// not an integer makes the whole list invalid; non-positive ids are dropped like unknown ones.
func ParseDishIDs(raw interface{}) ([]uint, error) {
	items, ok := raw.([]interface{})
	if !ok {
		return nil, dishesError("Dishes must be an array", raw)
	}
	if len(items) == 0 {
		return nil, dishesError("Dishes array must contain at least one element", raw)
	}

	ids := make([]uint, 0, len(items))
	var invalid []string
	for _, item := range items {
		n, ok := item.(float64)
		if !ok || n != math.Trunc(n) || math.IsInf(n, 0) {
			invalid = append(invalid, formatDishValue(item))
			continue
		}
		if n > 0 && n <= math.MaxUint32 {
			ids = append(ids, uint(n))
		}
	}
	if len(invalid) > 0 {
		return nil, dishesError(fmt.Sprintf("Invalid dish IDs: %s", strings.Join(invalid, ",")), raw)
	}
	return ids, nil
}

func dishesError(msg string, value interface{}) error {
	return utils.ValidationFailed(utils.FieldError{Field: "dishes", Message: msg, Value: value})
}

func formatDishValue(v interface{}) string {
	switch v := v.(type) {
	case nil:
		return "null"
	case string:
		return v
	default:
		return fmt.Sprint(v)
	}
}

// OrderService owns the order workflow: dish association and the derived subtotal.
type OrderService struct {
	repo      *repository.Repository
	publisher kds.Publisher
	log       logrus.FieldLogger
}

func NewOrderService(repo *repository.Repository, publisher kds.Publisher, log logrus.FieldLogger) *OrderService {
	return &OrderService{repo: repo, publisher: publisher, log: log}
}

// CreateOrder opens an in-progress order for a table. Unknown and repeated dish ids are ignored.
func (s *OrderService) CreateOrder(ctx context.Context, tableID uint, dishIDs []uint) (*models.Order, error) {
	var order *models.Order
	err := s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		if _, err := tx.GetTable(ctx, tableID); err != nil {
			return notFoundOr(err, msgTableNotFound)
		}

		created := &models.Order{TableID: tableID, Status: models.OrderInProgress}
		if err := tx.CreateOrder(ctx, created); err != nil {
			return err
		}

		var err error
		order, err = syncOrderDishes(ctx, tx, created.ID, dishIDs)
		return err
	})
	if err != nil {
		return nil, serviceError(err)
	}

	s.log.WithFields(logrus.Fields{
		"order_id": order.ID,
		"table_id": order.TableID,
		"subtotal": utils.FormatMoney(order.Subtotal),
	}).Info("order created")
	s.publisher.Publish(ctx, kds.Message{Event: kds.EventOrderCreated, Data: order})
	return order, nil
}

// UpdateOrder replaces the dish set of an order and recomputes its subtotal.
func (s *OrderService) UpdateOrder(ctx context.Context, orderID uint, dishIDs []uint) (*models.Order, error) {
	var order *models.Order
	err := s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		if err := tx.LockOrder(ctx, orderID); err != nil {
			return notFoundOr(err, msgOrderNotFound)
		}
		var err error
		order, err = syncOrderDishes(ctx, tx, orderID, dishIDs)
		return err
	})
	if err != nil {
		return nil, serviceError(err)
	}

	s.log.WithFields(logrus.Fields{"order_id": order.ID, "subtotal": utils.FormatMoney(order.Subtotal)}).Info("order updated")
	s.publisher.Publish(ctx, kds.Message{Event: kds.EventOrderUpdated, Data: order})
	return order, nil
}

func (s *OrderService) DeleteOrder(ctx context.Context, orderID uint) error {
	err := s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		if err := tx.DeleteOrder(ctx, orderID); err != nil {
			return notFoundOr(err, msgOrderNotFound)
		}
		return nil
	})
	if err != nil {
		return serviceError(err)
	}

	s.log.WithField("order_id", orderID).Info("order deleted")
	s.publisher.Publish(ctx, kds.Message{Event: kds.EventOrderDeleted, Data: map[string]uint{"id": orderID}})
	return nil
}

func (s *OrderService) GetOrder(ctx context.Context, orderID uint) (*models.Order, error) {
	order, err := s.repo.GetOrder(ctx, orderID)
	if err != nil {
		return nil, notFoundOr(err, msgOrderNotFound)
	}
	return order, nil
}

func (s *OrderService) ListOrders(ctx context.Context) ([]models.Order, error) {
	orders, err := s.repo.ListOrders(ctx)
	if err != nil {
		return nil, utils.Internal(err)
	}
	return orders, nil
}

// syncOrderDishes links the resolvable dishes to the order and stores their price sum.
// It must run inside a transaction.
func syncOrderDishes(ctx context.Context, tx *repository.Repository, orderID uint, dishIDs []uint) (*models.Order, error) {
	dishes, err := tx.FindDishesByIDs(ctx, dishIDs)
	if err != nil {
		return nil, err
	}

	resolved := make([]uint, 0, len(dishes))
	for _, d := range dishes {
		resolved = append(resolved, d.ID)
	}
	if err := tx.ReplaceOrderDishes(ctx, orderID, resolved); err != nil {
		return nil, err
	}
	if err := tx.UpdateOrderSubtotal(ctx, orderID, models.SumPrices(dishes)); err != nil {
		return nil, err
	}
	return tx.GetOrder(ctx, orderID)
}

// recomputeSubtotals refreshes the stored subtotal of every given order from current dish prices.
// orderIDs must be ascending; each order is locked before its dishes are read.
func recomputeSubtotals(ctx context.Context, tx *repository.Repository, orderIDs []uint) error {
	for _, id := range orderIDs {
		if err := tx.LockOrder(ctx, id); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				continue
			}
			return err
		}
		dishes, err := tx.OrderDishes(ctx, id)
		if err != nil {
			return err
		}
		if err := tx.UpdateOrderSubtotal(ctx, id, models.SumPrices(dishes)); err != nil {
			return err
		}
	}
	return nil
}

// serviceError passes AppErrors through and wraps everything else as Internal.
func serviceError(err error) error {
	var appErr *utils.AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return utils.Internal(err)
}
