package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Temutjin2k/bus-tracker/internal/domain/models"
	"github.com/Temutjin2k/bus-tracker/internal/domain/types"
	wrap "github.com/Temutjin2k/bus-tracker/pkg/logger/wrapper"
	pg "github.com/Temutjin2k/bus-tracker/pkg/postgres"
)

type RouteRepo struct {
	db *pgxpool.Pool
}

func NewRouteRepo(db *pgxpool.Pool) *RouteRepo {
	return &RouteRepo{
		db: db,
	}
}

const routeSelect = `
	SELECT r.id, r.route_number, r.name, r.description, r.color, r.is_active, r.created_at, r.updated_at,
		(SELECT count(*) FROM buses b WHERE b.route_id = r.id AND b.is_active) AS buses_count
	FROM routes r`

func scanRoute(row pgx.Row) (*models.Route, error) {
	var route models.Route
	err := row.Scan(
		&route.ID,
		&route.RouteNumber,
		&route.Name,
		&route.Description,
		&route.Color,
		&route.IsActive,
		&route.CreatedAt,
		&route.UpdatedAt,
		&route.BusesCount,
	)
	return &route, err
}

// List returns routes ordered by route number.
func (r *RouteRepo) List(ctx context.Context, activeOnly bool) ([]models.Route, error) {
	const op = "RouteRepo.List"
	query := routeSelect + `
		WHERE (NOT $1::BOOLEAN OR r.is_active)
		ORDER BY r.route_number`

	rows, err := TxorDB(ctx, r.db).Query(ctx, query, activeOnly)
	if err != nil {
		ctx = wrap.WithAction(ctx, types.ActionDatabaseTransactionFailed)
		return nil, wrap.Error(ctx, fmt.Errorf("%s: %w: %w", op, types.ErrStorage, err))
	}
	defer rows.Close()

	routes := make([]models.Route, 0)
	for rows.Next() {
		route, err := scanRoute(rows)
		if err != nil {
			return nil, wrap.Error(ctx, fmt.Errorf("%s: scan: %w: %w", op, types.ErrStorage, err))
		}
		routes = append(routes, *route)
	}
	if err := rows.Err(); err != nil {
		return nil, wrap.Error(ctx, fmt.Errorf("%s: %w: %w", op, types.ErrStorage, err))
	}

	return routes, nil
}

func (r *RouteRepo) Get(ctx context.Context, id int64) (*models.Route, error) {
	const op = "RouteRepo.Get"
	query := routeSelect + `
		WHERE r.id = $1`

	route, err := scanRoute(TxorDB(ctx, r.db).QueryRow(ctx, query, id))
	if err != nil {
		if pg.IsNoRows(err) {
			return nil, types.ErrRouteNotFound
		}
		ctx = wrap.WithAction(ctx, types.ActionDatabaseTransactionFailed)
		return nil, wrap.Error(ctx, fmt.Errorf("%s: %w: %w", op, types.ErrStorage, err))
	}

	return route, nil
}

// Upsert creates the route or refreshes it by route number.
func (r *RouteRepo) Upsert(ctx context.Context, route *models.Route) error {
	const op = "RouteRepo.Upsert"
	query := `
		INSERT INTO routes (route_number, name, description, color, is_active)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (route_number) DO UPDATE
		SET name = EXCLUDED.name,
			description = EXCLUDED.description,
			color = EXCLUDED.color,
			is_active = EXCLUDED.is_active,
			updated_at = now()
		RETURNING id, created_at, updated_at`

	if route.Color == "" {
		route.Color = models.DefaultRouteColor
	}

	if err := TxorDB(ctx, r.db).QueryRow(ctx, query,
		route.RouteNumber,
		route.Name,
		route.Description,
		route.Color,
		route.IsActive,
	).Scan(&route.ID, &route.CreatedAt, &route.UpdatedAt); err != nil {
		ctx = wrap.WithAction(ctx, types.ActionDatabaseTransactionFailed)
		return wrap.Error(ctx, fmt.Errorf("%s: %w: %w", op, types.ErrStorage, err))
	}

	return nil
}
