package repository

import (
	"context"

	"github.com/yeremiapane/restaurant-api/models"
)

func (r *Repository) CreateTable(ctx context.Context, table *models.Table) error {
	return translate(r.conn(ctx).Create(table).Error)
}

func (r *Repository) GetTable(ctx context.Context, id uint) (*models.Table, error) {
	var table models.Table
	if err := r.conn(ctx).First(&table, id).Error; err != nil {
		return nil, translate(err)
	}
	return &table, nil
}

func (r *Repository) ListTables(ctx context.Context) ([]models.Table, error) {
	tables := make([]models.Table, 0)
	if err := r.conn(ctx).Order("id ASC").Find(&tables).Error; err != nil {
		return nil, err
	}
	return tables, nil
}

func (r *Repository) SaveTable(ctx context.Context, table *models.Table) error {
	return translate(r.conn(ctx).Save(table).Error)
}
