package services

import (
	"context"
	"errors"

	"github.com/sirupsen/logrus"

	"github.com/yeremiapane/restaurant-api/kds"
	"github.com/yeremiapane/restaurant-api/models"
	"github.com/yeremiapane/restaurant-api/repository"
	"github.com/yeremiapane/restaurant-api/utils"
)

const (
	msgTableNotFound  = "Table was not found."
	msgStatusNotFound = "Status was not found."
	msgNoTableOrders  = "No orders has been placed for this table."
)

type TableInput struct {
	Capacity    int
	Description string
}

type TableService struct {
	repo      *repository.Repository
	publisher kds.Publisher
	log       logrus.FieldLogger
}

func NewTableService(repo *repository.Repository, publisher kds.Publisher, log logrus.FieldLogger) *TableService {
	return &TableService{repo: repo, publisher: publisher, log: log}
}

// CreateTable adds a table; new tables are always available.
func (s *TableService) CreateTable(ctx context.Context, in TableInput) (*models.Table, error) {
	table := &models.Table{
		Capacity:    in.Capacity,
		Description: in.Description,
		Status:      models.TableAvailable,
	}
	if err := s.repo.CreateTable(ctx, table); err != nil {
		return nil, utils.Internal(err)
	}
	s.log.WithField("table_id", table.ID).Info("table created")
	return table, nil
}

// UpdateTable replaces capacity and description; status only moves through ChangeStatus.
func (s *TableService) UpdateTable(ctx context.Context, id uint, in TableInput) (*models.Table, error) {
	table, err := s.GetTable(ctx, id)
	if err != nil {
		return nil, err
	}
	table.Capacity = in.Capacity
	table.Description = in.Description
	if err := s.repo.SaveTable(ctx, table); err != nil {
		return nil, utils.Internal(err)
	}
	return table, nil
}

func (s *TableService) ListTables(ctx context.Context) ([]models.Table, error) {
	tables, err := s.repo.ListTables(ctx)
	if err != nil {
		return nil, utils.Internal(err)
	}
	return tables, nil
}

func (s *TableService) GetTable(ctx context.Context, id uint) (*models.Table, error) {
	table, err := s.repo.GetTable(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, msgTableNotFound)
	}
	return table, nil
}

// ChangeStatus moves a table to status after checking it against the known states.
func (s *TableService) ChangeStatus(ctx context.Context, id uint, status string) (*models.Table, error) {
	table, err := s.GetTable(ctx, id)
	if err != nil {
		return nil, err
	}

	next, ok := models.ParseTableStatus(status)
	if !ok {
		return nil, utils.NotFound(msgStatusNotFound)
	}

	table.Status = next
	if err := s.repo.SaveTable(ctx, table); err != nil {
		return nil, utils.Internal(err)
	}

	s.log.WithFields(logrus.Fields{"table_id": table.ID, "status": table.Status}).Info("table status changed")
	s.publisher.Publish(ctx, kds.Message{Event: kds.EventTableStatusChanged, Data: table})
	return table, nil
}

// GetTableOrders lists the in-progress orders of a table.
func (s *TableService) GetTableOrders(ctx context.Context, id uint) ([]models.Order, error) {
	if _, err := s.GetTable(ctx, id); err != nil {
		return nil, err
	}

	orders, err := s.repo.ListOrdersByTable(ctx, id, models.OrderInProgress)
	if err != nil {
		return nil, utils.Internal(err)
	}
	if len(orders) == 0 {
		return nil, utils.NotFound(msgNoTableOrders)
	}
	return orders, nil
}

// notFoundOr maps repository.ErrNotFound to a 404 with msg and anything else to Internal.
func notFoundOr(err error, msg string) error {
	if errors.Is(err, repository.ErrNotFound) {
		return utils.NotFound(msg)
	}
	return utils.Internal(err)
}
