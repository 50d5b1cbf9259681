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

type UserRepo struct {
	*postgres.Postgres
}

func NewUserRepo(pgdb *postgres.Postgres) *UserRepo {
	return &UserRepo{pgdb}
}

func (r *UserRepo) GetUserById(ctx context.Context, id string) (*entity.User, error) {
	uuidForm, err := uuid.Parse(id)
	if err != nil {
		return nil, err
	}

	getUserReq, args, _ := r.SqlBuilder.
		Select("id, username, role").
		From("users").
		Where("id = ?", uuidForm).
		ToSql()

	var user entity.User
	row := r.Database.QueryRowContext(ctx, getUserReq, args...)
	err = row.Scan(&user.Id, &user.Username, &user.Role)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repo_errors.ErrNotFound
		}

		return nil, err
	}

	return &user, nil
}
