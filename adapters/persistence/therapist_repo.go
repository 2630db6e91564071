package persistence

import (
	"context"
	"database/sql"
	"errors"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/mindcare/therapist-api/internal/domain/therapist"
	"github.com/mindcare/therapist-api/pkg/apperror"
	"github.com/mindcare/therapist-api/pkg/logger"
)

type postgresTherapistRepo struct {
	db     *pgxpool.Pool
	logger logger.Logger
}

func NewPostgresTherapistRepo(db *pgxpool.Pool, logger logger.Logger) therapist.Repository {
	return &postgresTherapistRepo{db: db, logger: logger}
}

var psqlTherapist = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

const therapistColumns = `id, full_name, phone, email, address, nic_number, work_start_year,
	image_path, thumbnail_path, image_status, created_at, updated_at`

func scanTherapist(row pgx.Row) (*therapist.Therapist, error) {
	t := &therapist.Therapist{}
	var imagePath, thumbnailPath sql.NullString

	err := row.Scan(
		&t.ID, &t.FullName, &t.Phone, &t.Email, &t.Address,
		&t.NICNumber, &t.WorkStartYear, &imagePath, &thumbnailPath,
		&t.ImageStatus, &t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperror.NewNotFound("therapist", "")
		}
		return nil, apperror.NewInternal("failed to scan therapist row", err)
	}

	if imagePath.Valid {
		t.ImagePath = &imagePath.String
	}
	if thumbnailPath.Valid {
		t.ThumbnailPath = &thumbnailPath.String
	}
	return t, nil
}

func (r *postgresTherapistRepo) FindByID(ctx context.Context, id uuid.UUID) (*therapist.Therapist, error) {
	query := `
		SELECT ` + therapistColumns + `
		FROM therapists
		WHERE id = $1
	`
	t, err := scanTherapist(r.db.QueryRow(ctx, query, id))
	if err != nil {
		var appErr *apperror.AppError
		if errors.As(err, &appErr) && errors.Is(appErr, apperror.ErrNotFound) {
			return nil, apperror.NewNotFound("therapist", id.String())
		}
		return nil, err
	}
	return t, nil
}

func (r *postgresTherapistRepo) Save(ctx context.Context, t *therapist.Therapist) error {
	query := `
		INSERT INTO therapists (` + therapistColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`
	_, err := r.db.Exec(ctx, query,
		t.ID, t.FullName, t.Phone, t.Email, t.Address,
		t.NICNumber, t.WorkStartYear, t.ImagePath, t.ThumbnailPath,
		t.ImageStatus, t.CreatedAt, t.UpdatedAt,
	)
	if err != nil {
		return apperror.NewInternal("failed to insert therapist", err)
	}
	return nil
}

// ApplyPatch builds the UPDATE from the presence map, so only fields the
// caller actually set are written and an empty value clears the column.
func (r *postgresTherapistRepo) ApplyPatch(ctx context.Context, id uuid.UUID, patch *therapist.Patch) (*therapist.Therapist, error) {
	if patch == nil || patch.IsEmpty() {
		return r.FindByID(ctx, id)
	}

	builder := psqlTherapist.Update("therapists")
	for _, field := range patch.Fields() {
		value, _ := patch.Get(field)
		builder = builder.Set(field, value)
	}
	builder = builder.
		Set("updated_at", sq.Expr("NOW()")).
		Where(sq.Eq{"id": id}).
		Suffix("RETURNING " + therapistColumns)

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, apperror.NewInternal("failed to build therapist update query", err)
	}

	t, err := scanTherapist(r.db.QueryRow(ctx, query, args...))
	if err != nil {
		var appErr *apperror.AppError
		if errors.As(err, &appErr) && errors.Is(appErr, apperror.ErrNotFound) {
			return nil, apperror.NewNotFound("therapist", id.String())
		}
		return nil, err
	}
	return t, nil
}

func (r *postgresTherapistRepo) UpdateImage(ctx context.Context, id uuid.UUID, imagePath, thumbnailPath string, status therapist.ImageStatus) error {
	query := `
		UPDATE therapists SET
			image_path = $2, thumbnail_path = $3, image_status = $4, updated_at = NOW()
		WHERE id = $1
	`
	cmdTag, err := r.db.Exec(ctx, query, id, imagePath, nullableString(thumbnailPath), status)
	if err != nil {
		return apperror.NewInternal("failed to update therapist image", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperror.NewNotFound("therapist", id.String())
	}
	return nil
}

func nullableString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
