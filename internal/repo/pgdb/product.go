package pgdb

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"

	"auction-management-api/internal/entity"
	"auction-management-api/internal/repo/repo_errors"
	"auction-management-api/pkg/postgres"
)

type ProductRepo struct {
	*postgres.Postgres
}

func NewProductRepo(pgdb *postgres.Postgres) *ProductRepo {
	return &ProductRepo{pgdb}
}

func (r *ProductRepo) GetProductById(ctx context.Context, id string) (*entity.Product, error) {
	uuidForm, err := uuid.Parse(id)
	if err != nil {
		return nil, err
	}

	getProductReq, args, _ := r.SqlBuilder.
		Select("id, farmer_id, name, category, stock, organic").
		From("product").
		Where("id = ?", uuidForm).
		ToSql()

	var product entity.Product
	row := r.Database.QueryRowContext(ctx, getProductReq, args...)
	err = row.Scan(&product.Id, &product.FarmerId, &product.Name, &product.Category, &product.Stock, &product.Organic)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repo_errors.ErrNotFound
		}

		return nil, err
	}

	return &product, nil
}
