package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Temutjin2k/bus-tracker/internal/domain/models"
	"github.com/Temutjin2k/bus-tracker/internal/domain/types"
	wrap "github.com/Temutjin2k/bus-tracker/pkg/logger/wrapper"
	"github.com/Temutjin2k/bus-tracker/pkg/metrics"
	pg "github.com/Temutjin2k/bus-tracker/pkg/postgres"
)

// LocationRepo is the append-only position store.
type LocationRepo struct {
	db *pgxpool.Pool
}

func NewLocationRepo(db *pgxpool.Pool) *LocationRepo {
	return &LocationRepo{
		db: db,
	}
}

// Create appends a report and fills its id and created_at.
func (r *LocationRepo) Create(ctx context.Context, report *models.PositionReport) (err error) {
	const op = "LocationRepo.Create"
	defer func(start time.Time) { metrics.RecordDatabaseQuery(op, err, time.Since(start)) }(time.Now())

	query := `
		INSERT INTO bus_locations (bus_id, latitude, longitude, speed, heading, accuracy, reported_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at`

	if err = TxorDB(ctx, r.db).QueryRow(ctx, query,
		report.BusID,
		report.Latitude,
		report.Longitude,
		report.Speed,
		report.Heading,
		report.Accuracy,
		report.Timestamp,
	).Scan(&report.ID, &report.CreatedAt); err != nil {
		if pg.IsForeignKeyViolation(err) {
			return types.ErrBusNotFound
		}
		ctx = wrap.WithAction(ctx, types.ActionDatabaseTransactionFailed)
		return wrap.Error(ctx, fmt.Errorf("%s: %w: %w", op, types.ErrStorage, err))
	}

	return nil
}

const locationColumns = `id, bus_id, latitude, longitude, speed, heading, accuracy, reported_at, created_at`

// List returns reports newest first.
func (r *LocationRepo) List(ctx context.Context, filter models.LocationFilter) ([]models.PositionReport, error) {
	const op = "LocationRepo.List"
	query := `
		SELECT ` + locationColumns + `
		FROM bus_locations
		WHERE ($1::BIGINT IS NULL OR bus_id = $1)
			AND reported_at >= $2
		ORDER BY reported_at DESC, id DESC
		LIMIT NULLIF($3::INT, 0)`

	return r.query(ctx, op, query, filter.BusID, filter.Since, filter.Limit)
}

// Recent returns the last limit reports of a bus, newest first.
func (r *LocationRepo) Recent(ctx context.Context, busID int64, limit int) ([]models.PositionReport, error) {
	const op = "LocationRepo.Recent"
	query := `
		SELECT ` + locationColumns + `
		FROM bus_locations
		WHERE bus_id = $1
		ORDER BY reported_at DESC, id DESC
		LIMIT $2`

	return r.query(ctx, op, query, busID, limit)
}

func (r *LocationRepo) query(ctx context.Context, op, query string, args ...any) ([]models.PositionReport, error) {
	rows, err := TxorDB(ctx, r.db).Query(ctx, query, args...)
	if err != nil {
		ctx = wrap.WithAction(ctx, types.ActionDatabaseTransactionFailed)
		return nil, wrap.Error(ctx, fmt.Errorf("%s: %w: %w", op, types.ErrStorage, err))
	}
	defer rows.Close()

	out := make([]models.PositionReport, 0)
	for rows.Next() {
		var p models.PositionReport
		if err := rows.Scan(
			&p.ID,
			&p.BusID,
			&p.Latitude,
			&p.Longitude,
			&p.Speed,
			&p.Heading,
			&p.Accuracy,
			&p.Timestamp,
			&p.CreatedAt,
		); err != nil {
			return nil, wrap.Error(ctx, fmt.Errorf("%s: scan: %w: %w", op, types.ErrStorage, err))
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, wrap.Error(ctx, fmt.Errorf("%s: %w: %w", op, types.ErrStorage, err))
	}

	return out, nil
}

// DeleteOlderThan prunes reports recorded before cutoff, keeping each bus's current report.
func (r *LocationRepo) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	const op = "LocationRepo.DeleteOlderThan"
	query := `
		DELETE FROM bus_locations l
		WHERE l.reported_at < $1
			AND l.id <> (
				SELECT c.id FROM bus_locations c
				WHERE c.bus_id = l.bus_id
				ORDER BY c.reported_at DESC, c.id DESC
				LIMIT 1
			)`

	tag, err := TxorDB(ctx, r.db).Exec(ctx, query, cutoff)
	if err != nil {
		ctx = wrap.WithAction(ctx, types.ActionDatabaseTransactionFailed)
		return 0, wrap.Error(ctx, fmt.Errorf("%s: %w: %w", op, types.ErrStorage, err))
	}

	return tag.RowsAffected(), nil
}
