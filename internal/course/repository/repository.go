package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"

	"github.com/coursedesk/course-api/internal/common/db"
	"github.com/coursedesk/course-api/internal/course/domain"
)

var ErrCourseNotFound = errors.New("course not found")

type Repository interface {
	List(ctx context.Context) ([]domain.CourseWithOwner, error)
	FindByID(ctx context.Context, id int64) (domain.CourseWithOwner, error)
	Create(ctx context.Context, course domain.Course) (int64, error)
	Update(ctx context.Context, course domain.Course) error
	Delete(ctx context.Context, id int64) error
}

type PgRepository struct {
	pool *pgxpool.Pool
}

func NewPgRepository(pool *pgxpool.Pool) *PgRepository {
	return &PgRepository{pool: pool}
}

const courseWithOwnerColumns = `c.id, c.title, c.description, c.estimated_time, c.materials_needed, c.user_id,
	 u.first_name, u.last_name, u.email_address`

func (r *PgRepository) List(ctx context.Context) ([]domain.CourseWithOwner, error) {
	start := time.Now()

	rows, err := r.pool.Query(
		ctx,
		`SELECT `+courseWithOwnerColumns+`
		 FROM courses c
		 JOIN users u ON u.id = c.user_id
		 ORDER BY c.id`,
	)
	if err != nil {
		return nil, db.HandleQueryError(err, nil, "list courses", start)
	}
	defer rows.Close()

	courses := make([]domain.CourseWithOwner, 0)
	for rows.Next() {
		course, err := scanCourseWithOwner(rows.Scan)
		if err != nil {
			return nil, db.HandleQueryError(err, nil, "list courses", start)
		}
		courses = append(courses, course)
	}
	if err := rows.Err(); err != nil {
		return nil, db.HandleQueryError(err, nil, "list courses", start)
	}

	db.MeasureQueryDuration("list courses", start)
	return courses, nil
}

func (r *PgRepository) FindByID(ctx context.Context, id int64) (domain.CourseWithOwner, error) {
	start := time.Now()

	row := r.pool.QueryRow(
		ctx,
		`SELECT `+courseWithOwnerColumns+`
		 FROM courses c
		 JOIN users u ON u.id = c.user_id
		 WHERE c.id = $1`,
		id,
	)

	course, err := scanCourseWithOwner(row.Scan)
	if err != nil {
		return domain.CourseWithOwner{}, db.HandleQueryError(err, ErrCourseNotFound, "find course by id", start)
	}

	db.MeasureQueryDuration("find course by id", start)
	return course, nil
}

func (r *PgRepository) Create(ctx context.Context, course domain.Course) (int64, error) {
	start := time.Now()

	var id int64
	err := r.pool.QueryRow(
		ctx,
		`INSERT INTO courses (title, description, estimated_time, materials_needed, user_id)
		 VALUES ($1, $2, NULLIF($3, ''), NULLIF($4, ''), $5)
		 RETURNING id`,
		course.Title,
		course.Description,
		course.EstimatedTime,
		course.MaterialsNeeded,
		course.UserID,
	).Scan(&id)
	if err != nil {
		return 0, db.HandleExecError(err, "create course", start)
	}

	db.MeasureQueryDuration("create course", start)
	return id, nil
}

func (r *PgRepository) Update(ctx context.Context, course domain.Course) error {
	start := time.Now()

	// user_id is deliberately absent: ownership never changes on update.
	tag, err := r.pool.Exec(
		ctx,
		`UPDATE courses
		 SET title = $1, description = $2, estimated_time = NULLIF($3, ''), materials_needed = NULLIF($4, '')
		 WHERE id = $5`,
		course.Title,
		course.Description,
		course.EstimatedTime,
		course.MaterialsNeeded,
		course.ID,
	)
	if err != nil {
		return db.HandleExecError(err, "update course", start)
	}
	if tag.RowsAffected() == 0 {
		return ErrCourseNotFound
	}

	db.MeasureQueryDuration("update course", start)
	return nil
}

func (r *PgRepository) Delete(ctx context.Context, id int64) error {
	start := time.Now()

	tag, err := r.pool.Exec(ctx, `DELETE FROM courses WHERE id = $1`, id)
	if err != nil {
		return db.HandleExecError(err, "delete course", start)
	}
	if tag.RowsAffected() == 0 {
		return ErrCourseNotFound
	}

	db.MeasureQueryDuration("delete course", start)
	return nil
}

func scanCourseWithOwner(scan func(dest ...any) error) (domain.CourseWithOwner, error) {
	var (
		course          domain.CourseWithOwner
		estimatedTime   sql.NullString
		materialsNeeded sql.NullString
	)

	err := scan(
		&course.Course.ID,
		&course.Course.Title,
		&course.Course.Description,
		&estimatedTime,
		&materialsNeeded,
		&course.Course.UserID,
		&course.Owner.FirstName,
		&course.Owner.LastName,
		&course.Owner.EmailAddress,
	)
	if err != nil {
		return domain.CourseWithOwner{}, err
	}

	course.Course.EstimatedTime = estimatedTime.String
	course.Course.MaterialsNeeded = materialsNeeded.String
	return course, nil
}
