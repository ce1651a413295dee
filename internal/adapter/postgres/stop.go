package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Temutjin2k/bus-tracker/internal/domain/models"
	"github.com/Temutjin2k/bus-tracker/internal/domain/types"
	wrap "github.com/Temutjin2k/bus-tracker/pkg/logger/wrapper"
)

type StopRepo struct {
	db *pgxpool.Pool
}

func NewStopRepo(db *pgxpool.Pool) *StopRepo {
	return &StopRepo{
		db: db,
	}
}

// List returns active stops in route order. A nil routeID lists stops of every route.
func (r *StopRepo) List(ctx context.Context, routeID *int64) ([]models.RouteStop, error) {
	const op = "StopRepo.List"
	query := `
		SELECT id, route_id, stop_name, latitude, longitude, stop_order, estimated_time, is_active
		FROM route_stops
		WHERE is_active AND ($1::BIGINT IS NULL OR route_id = $1)
		ORDER BY route_id, stop_order`

	rows, err := TxorDB(ctx, r.db).Query(ctx, query, routeID)
	if err != nil {
		ctx = wrap.WithAction(ctx, types.ActionDatabaseTransactionFailed)
		return nil, wrap.Error(ctx, fmt.Errorf("%s: %w: %w", op, types.ErrStorage, err))
	}
	defer rows.Close()

	stops := make([]models.RouteStop, 0)
	for rows.Next() {
		var s models.RouteStop
		if err := rows.Scan(
			&s.ID,
			&s.RouteID,
			&s.StopName,
			&s.Latitude,
			&s.Longitude,
			&s.StopOrder,
			&s.EstimatedTime,
			&s.IsActive,
		); err != nil {
			return nil, wrap.Error(ctx, fmt.Errorf("%s: scan: %w: %w", op, types.ErrStorage, err))
		}
		stops = append(stops, s)
	}
	if err := rows.Err(); err != nil {
		return nil, wrap.Error(ctx, fmt.Errorf("%s: %w: %w", op, types.ErrStorage, err))
	}

	return stops, nil
}

// Upsert creates the stop or refreshes it by (route, order).
func (r *StopRepo) Upsert(ctx context.Context, stop *models.RouteStop) error {
	const op = "StopRepo.Upsert"
	query := `
		INSERT INTO route_stops (route_id, stop_name, latitude, longitude, stop_order, estimated_time, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (route_id, stop_order) DO UPDATE
		SET stop_name = EXCLUDED.stop_name,
			latitude = EXCLUDED.latitude,
			longitude = EXCLUDED.longitude,
			estimated_time = EXCLUDED.estimated_time,
			is_active = EXCLUDED.is_active
		RETURNING id`

	if err := TxorDB(ctx, r.db).QueryRow(ctx, query,
		stop.RouteID,
		stop.StopName,
		stop.Latitude,
		stop.Longitude,
		stop.StopOrder,
		stop.EstimatedTime,
		stop.IsActive,
	).Scan(&stop.ID); err != nil {
		ctx = wrap.WithAction(ctx, types.ActionDatabaseTransactionFailed)
		return wrap.Error(ctx, fmt.Errorf("%s: %w: %w", op, types.ErrStorage, err))
	}

	return nil
}
