package repository

import (
	"context"
	"database/sql"

	"github.com/Masterminds/squirrel"
	"github.com/pkg/errors"

	"github.com/vfg2006/venue-analytics-api/infrastructure/database/postgres"
	"github.com/vfg2006/venue-analytics-api/internal/domain"
)

const usersTable = "users"

var userColumns = []string{
	"id", "name", "lastname", "email", "password_hash", "active",
	"role_id", "owner_id", "parent_owner_id", "created_at", "updated_at",
}

type UserRepository interface {
	GetUserByEmail(ctx context.Context, email string) (*domain.User, error)
	GetUserByID(ctx context.Context, userID int) (*domain.User, error)
}

type userRepository struct {
	conn postgres.Queryer
}

func NewUserRepository(conn postgres.Queryer) UserRepository {
	return &userRepository{
		conn: conn,
	}
}

func userByQuery(where squirrel.Eq) squirrel.SelectBuilder {
	return squirrel.
		Select(userColumns...).
		From(usersTable).
		Where(where).
		Limit(1).
		PlaceholderFormat(squirrel.Dollar)
}

func (r *userRepository) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.getUser(ctx, userByQuery(squirrel.Eq{"email": email}))
}

func (r *userRepository) GetUserByID(ctx context.Context, userID int) (*domain.User, error) {
	return r.getUser(ctx, userByQuery(squirrel.Eq{"id": userID}))
}

// getUser retorna nil, nil quando o usuário não existe
func (r *userRepository) getUser(ctx context.Context, builder squirrel.SelectBuilder) (*domain.User, error) {
	query, args, err := builder.ToSql()
	if err != nil {
		return nil, errors.Wrap(err, "build user query")
	}

	var (
		user          domain.User
		ownerID       sql.NullString
		parentOwnerID sql.NullString
	)

	err = r.conn.QueryRowContext(ctx, query, args...).Scan(
		&user.ID,
		&user.Name,
		&user.Lastname,
		&user.Email,
		&user.PasswordHash,
		&user.Active,
		&user.RoleID,
		&ownerID,
		&parentOwnerID,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, errors.Wrap(err, "query user")
	}

	user.OwnerID = nullableString(ownerID)
	user.ParentOwnerID = nullableString(parentOwnerID)

	return &user, nil
}
