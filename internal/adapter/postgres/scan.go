package postgres

import (
	"time"

	"github.com/Temutjin2k/bus-tracker/internal/domain/models"
)

// nullableReport scans the columns of a LEFT JOINed location row.
type nullableReport struct {
	ID         *int64
	Latitude   *float64
	Longitude  *float64
	Speed      *float64
	Heading    *float64
	Accuracy   *float64
	ReportedAt *time.Time
	CreatedAt  *time.Time
}

func (n *nullableReport) dest() []any {
	return []any{&n.ID, &n.Latitude, &n.Longitude, &n.Speed, &n.Heading, &n.Accuracy, &n.ReportedAt, &n.CreatedAt}
}

func (n *nullableReport) report(busID int64) *models.PositionReport {
	if n.ID == nil {
		return nil
	}
	r := &models.PositionReport{
		ID:        *n.ID,
		BusID:     busID,
		Latitude:  *n.Latitude,
		Longitude: *n.Longitude,
		Heading:   n.Heading,
		Accuracy:  n.Accuracy,
		Timestamp: *n.ReportedAt,
		CreatedAt: *n.CreatedAt,
	}
	if n.Speed != nil {
		r.Speed = *n.Speed
	}
	return r
}

// currentLocationJoin picks the latest report per bus: max reported_at, then max id.
const currentLocationJoin = `
	LEFT JOIN LATERAL (
		SELECT l.id, l.latitude, l.longitude, l.speed, l.heading, l.accuracy, l.reported_at, l.created_at
		FROM bus_locations l
		WHERE l.bus_id = b.id
		ORDER BY l.reported_at DESC, l.id DESC
		LIMIT 1
	) cl ON TRUE`

const currentLocationColumns = `cl.id, cl.latitude, cl.longitude, cl.speed, cl.heading, cl.accuracy, cl.reported_at, cl.created_at`
