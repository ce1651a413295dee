package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Temutjin2k/bus-tracker/internal/domain/models"
	"github.com/Temutjin2k/bus-tracker/internal/domain/types"
	wrap "github.com/Temutjin2k/bus-tracker/pkg/logger/wrapper"
	"github.com/Temutjin2k/bus-tracker/pkg/metrics"
	pg "github.com/Temutjin2k/bus-tracker/pkg/postgres"
)

type BusRepo struct {
	db *pgxpool.Pool
}

func NewBusRepo(db *pgxpool.Pool) *BusRepo {
	return &BusRepo{
		db: db,
	}
}

const busSelect = `
	SELECT b.id, b.bus_number, b.license_plate, b.route_id, b.driver_name, b.capacity, b.is_active,
		b.created_at, b.updated_at,
		r.route_number, r.name, r.description, r.color, r.is_active, r.created_at, r.updated_at,
		` + currentLocationColumns + `
	FROM buses b
	LEFT JOIN routes r ON r.id = b.route_id` + currentLocationJoin

func scanBus(row pgx.Row) (*models.Bus, error) {
	var (
		bus   models.Bus
		route struct {
			number, name, description, color *string
			active                           *bool
			created, updated                 *time.Time
		}
		loc nullableReport
	)

	dest := []any{
		&bus.ID, &bus.BusNumber, &bus.LicensePlate, &bus.RouteID, &bus.DriverName, &bus.Capacity, &bus.IsActive,
		&bus.CreatedAt, &bus.UpdatedAt,
		&route.number, &route.name, &route.description, &route.color, &route.active, &route.created, &route.updated,
	}
	if err := row.Scan(append(dest, loc.dest()...)...); err != nil {
		return nil, err
	}

	if bus.RouteID != nil && route.number != nil {
		bus.Route = &models.Route{
			ID:          *bus.RouteID,
			RouteNumber: *route.number,
			Name:        *route.name,
			Description: *route.description,
			Color:       *route.color,
			IsActive:    *route.active,
			CreatedAt:   *route.created,
			UpdatedAt:   *route.updated,
		}
	}
	bus.CurrentLocation = loc.report(bus.ID)

	return &bus, nil
}

// Get returns the bus with its route and current location.
func (r *BusRepo) Get(ctx context.Context, id int64) (bus *models.Bus, err error) {
	const op = "BusRepo.Get"
	defer func(start time.Time) { metrics.RecordDatabaseQuery(op, err, time.Since(start)) }(time.Now())

	query := busSelect + `
		WHERE b.id = $1`

	bus, err = scanBus(TxorDB(ctx, r.db).QueryRow(ctx, query, id))
	if err != nil {
		if pg.IsNoRows(err) {
			return nil, types.ErrBusNotFound
		}
		ctx = wrap.WithAction(ctx, types.ActionDatabaseTransactionFailed)
		return nil, wrap.Error(ctx, fmt.Errorf("%s: %w: %w", op, types.ErrStorage, err))
	}

	return bus, nil
}

// List returns buses ordered by bus number.
func (r *BusRepo) List(ctx context.Context, filter models.BusFilter) ([]models.Bus, error) {
	const op = "BusRepo.List"
	query := busSelect + `
		WHERE ($1::BIGINT IS NULL OR b.route_id = $1)
			AND ($2::BOOLEAN OR b.is_active)
		ORDER BY b.bus_number, b.id`

	rows, err := TxorDB(ctx, r.db).Query(ctx, query, filter.RouteID, filter.IncludeInactive)
	if err != nil {
		ctx = wrap.WithAction(ctx, types.ActionDatabaseTransactionFailed)
		return nil, wrap.Error(ctx, fmt.Errorf("%s: %w: %w", op, types.ErrStorage, err))
	}
	defer rows.Close()

	buses := make([]models.Bus, 0)
	for rows.Next() {
		bus, err := scanBus(rows)
		if err != nil {
			return nil, wrap.Error(ctx, fmt.Errorf("%s: scan: %w: %w", op, types.ErrStorage, err))
		}
		buses = append(buses, *bus)
	}
	if err := rows.Err(); err != nil {
		return nil, wrap.Error(ctx, fmt.Errorf("%s: %w: %w", op, types.ErrStorage, err))
	}

	return buses, nil
}

// Tracking returns the compact snapshot rows of active buses, optionally of one route,
// ordered by bus number then id so repeated reads are identical.
func (r *BusRepo) Tracking(ctx context.Context, routeID *int64) (out []models.BusTracking, err error) {
	const op = "BusRepo.Tracking"
	defer func(start time.Time) { metrics.RecordDatabaseQuery(op, err, time.Since(start)) }(time.Now())

	query := `
	SELECT b.id, b.bus_number, r.route_number, r.color,
		` + currentLocationColumns + `
	FROM buses b
	LEFT JOIN routes r ON r.id = b.route_id` + currentLocationJoin + `
	WHERE b.is_active AND ($1::BIGINT IS NULL OR b.route_id = $1)
	ORDER BY b.bus_number, b.id`

	rows, err := TxorDB(ctx, r.db).Query(ctx, query, routeID)
	if err != nil {
		ctx = wrap.WithAction(ctx, types.ActionDatabaseTransactionFailed)
		return nil, wrap.Error(ctx, fmt.Errorf("%s: %w: %w", op, types.ErrStorage, err))
	}
	defer rows.Close()

	out = make([]models.BusTracking, 0)
	for rows.Next() {
		var (
			t   models.BusTracking
			loc nullableReport
		)
		dest := append([]any{&t.ID, &t.BusNumber, &t.RouteNumber, &t.RouteColor}, loc.dest()...)
		if err := rows.Scan(dest...); err != nil {
			return nil, wrap.Error(ctx, fmt.Errorf("%s: scan: %w: %w", op, types.ErrStorage, err))
		}
		t.CurrentLocation = loc.report(t.ID)
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, wrap.Error(ctx, fmt.Errorf("%s: %w: %w", op, types.ErrStorage, err))
	}

	return out, nil
}

// Upsert creates the bus or refreshes it by bus number.
func (r *BusRepo) Upsert(ctx context.Context, bus *models.Bus) error {
	const op = "BusRepo.Upsert"
	query := `
		INSERT INTO buses (bus_number, license_plate, route_id, driver_name, capacity, is_active)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (bus_number) DO UPDATE
		SET license_plate = EXCLUDED.license_plate,
			route_id = EXCLUDED.route_id,
			driver_name = EXCLUDED.driver_name,
			capacity = EXCLUDED.capacity,
			is_active = EXCLUDED.is_active,
			updated_at = now()
		RETURNING id, created_at, updated_at`

	if bus.Capacity == 0 {
		bus.Capacity = models.DefaultBusCapacity
	}

	if err := TxorDB(ctx, r.db).QueryRow(ctx, query,
		bus.BusNumber,
		bus.LicensePlate,
		bus.RouteID,
		bus.DriverName,
		bus.Capacity,
		bus.IsActive,
	).Scan(&bus.ID, &bus.CreatedAt, &bus.UpdatedAt); err != nil {
		if pg.IsForeignKeyViolation(err) {
			return types.ErrRouteNotFound
		}
		ctx = wrap.WithAction(ctx, types.ActionDatabaseTransactionFailed)
		return wrap.Error(ctx, fmt.Errorf("%s: %w: %w", op, types.ErrStorage, err))
	}

	return nil
}
