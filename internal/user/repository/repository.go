package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgconn"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v4/pgxpool"

	"github.com/coursedesk/course-api/internal/common/db"
	"github.com/coursedesk/course-api/internal/user/domain"
)

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrEmailAlreadyExists = errors.New("email address already exists")
)

type Repository interface {
	Create(ctx context.Context, user domain.User) (int64, error)
	FindByEmail(ctx context.Context, email string) (domain.User, error)
}

type PgRepository struct {
	pool *pgxpool.Pool
}

func NewPgRepository(pool *pgxpool.Pool) *PgRepository {
	return &PgRepository{pool: pool}
}

func (r *PgRepository) Create(ctx context.Context, user domain.User) (int64, error) {
	start := time.Now()

	var id int64
	err := r.pool.QueryRow(
		ctx,
		`INSERT INTO users (first_name, last_name, email_address, password_hash)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id`,
		user.FirstName,
		user.LastName,
		user.EmailAddress,
		user.PasswordHash,
	).Scan(&id)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return 0, ErrEmailAlreadyExists
		}
		return 0, db.HandleExecError(err, "create user", start)
	}

	db.MeasureQueryDuration("create user", start)
	return id, nil
}

func (r *PgRepository) FindByEmail(ctx context.Context, email string) (domain.User, error) {
	start := time.Now()

	row := r.pool.QueryRow(
		ctx,
		`SELECT id, first_name, last_name, email_address, password_hash
		 FROM users
		 WHERE email_address = $1`,
		email,
	)

	var user domain.User
	err := row.Scan(&user.ID, &user.FirstName, &user.LastName, &user.EmailAddress, &user.PasswordHash)
	if err != nil {
		return domain.User{}, db.HandleQueryError(err, ErrUserNotFound, "find user by email", start)
	}

	db.MeasureQueryDuration("find user by email", start)
	return user, nil
}
