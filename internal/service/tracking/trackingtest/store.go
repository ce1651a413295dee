// Package trackingtest provides an in-memory position store for tests.
package trackingtest

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/Temutjin2k/bus-tracker/internal/domain/models"
	"github.com/Temutjin2k/bus-tracker/internal/domain/types"
)

// Store keeps routes, buses and reports in memory with the same ordering rules as the
// postgres repositories.
type Store struct {
	mu      sync.Mutex
	routes  map[int64]models.Route
	buses   map[int64]models.Bus
	reports []models.PositionReport
	nextID  int64

	// CreateErr, when set, is returned by Create.
	CreateErr error
}

func NewStore() *Store {
	return &Store{
		routes: make(map[int64]models.Route),
		buses:  make(map[int64]models.Bus),
	}
}

// Sample returns a store with routes 101 (id 1) and 202 (id 2) and buses
// B101A (id 1, route 1), B101B (id 2, route 1), B202A (id 3, route 2), B999X (id 4, no route).
func Sample() *Store {
	s := NewStore()
	s.AddRoute(models.Route{ID: 1, RouteNumber: "101", Name: "Downtown Loop", Color: "#FF6B35", IsActive: true})
	s.AddRoute(models.Route{ID: 2, RouteNumber: "202", Name: "University Express", Color: "#004E89", IsActive: true})
	s.AddBus(models.Bus{ID: 1, BusNumber: "B101A", RouteID: ptr(int64(1)), IsActive: true})
	s.AddBus(models.Bus{ID: 2, BusNumber: "B101B", RouteID: ptr(int64(1)), IsActive: true})
	s.AddBus(models.Bus{ID: 3, BusNumber: "B202A", RouteID: ptr(int64(2)), IsActive: true})
	s.AddBus(models.Bus{ID: 4, BusNumber: "B999X", IsActive: true})
	return s
}

func ptr[T any](v T) *T { return &v }

func (s *Store) AddRoute(r models.Route) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.routes[r.ID] = r
}

func (s *Store) AddBus(b models.Bus) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.buses[b.ID] = b
}

// AssignRoute moves a bus to another route, or off any route when routeID is nil.
func (s *Store) AssignRoute(busID int64, routeID *int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b := s.buses[busID]
	b.RouteID = routeID
	s.buses[busID] = b
}

// Reports returns every stored report in insertion order.
func (s *Store) Reports() []models.PositionReport {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.PositionReport(nil), s.reports...)
}

// current expects s.mu to be held.
func (s *Store) current(busID int64) *models.PositionReport {
	var cur *models.PositionReport
	for i := range s.reports {
		r := s.reports[i]
		if r.BusID != busID {
			continue
		}
		if cur == nil || r.Timestamp.After(cur.Timestamp) || (r.Timestamp.Equal(cur.Timestamp) && r.ID > cur.ID) {
			cp := r
			cur = &cp
		}
	}
	return cur
}

// bus expects s.mu to be held.
func (s *Store) bus(id int64) (*models.Bus, bool) {
	b, ok := s.buses[id]
	if !ok {
		return nil, false
	}
	if b.RouteID != nil {
		if r, ok := s.routes[*b.RouteID]; ok {
			b.Route = &r
		}
	}
	b.CurrentLocation = s.current(id)
	return &b, true
}

func (s *Store) Create(_ context.Context, report *models.PositionReport) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.CreateErr != nil {
		return s.CreateErr
	}
	if _, ok := s.buses[report.BusID]; !ok {
		return types.ErrBusNotFound
	}

	s.nextID++
	report.ID = s.nextID
	report.CreatedAt = time.Now().UTC()
	s.reports = append(s.reports, *report)
	return nil
}

// Buses exposes the store as a tracking.BusRepository.
func (s *Store) Buses() *BusView { return &BusView{s: s} }

// Routes exposes the store as a tracking.RouteRepository.
func (s *Store) Routes() *RouteView { return &RouteView{s: s} }

type BusView struct{ s *Store }

func (v *BusView) Get(_ context.Context, id int64) (*models.Bus, error) {
	v.s.mu.Lock()
	defer v.s.mu.Unlock()

	b, ok := v.s.bus(id)
	if !ok {
		return nil, types.ErrBusNotFound
	}
	return b, nil
}

func (v *BusView) Tracking(_ context.Context, routeID *int64) ([]models.BusTracking, error) {
	v.s.mu.Lock()
	defer v.s.mu.Unlock()

	out := make([]models.BusTracking, 0)
	for id := range v.s.buses {
		b, _ := v.s.bus(id)
		if !b.IsActive {
			continue
		}
		if routeID != nil && (b.RouteID == nil || *b.RouteID != *routeID) {
			continue
		}
		t := models.BusTracking{ID: b.ID, BusNumber: b.BusNumber, CurrentLocation: b.CurrentLocation}
		if b.Route != nil {
			t.RouteNumber = ptr(b.Route.RouteNumber)
			t.RouteColor = ptr(b.Route.Color)
		}
		out = append(out, t)
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].BusNumber != out[j].BusNumber {
			return out[i].BusNumber < out[j].BusNumber
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

type RouteView struct{ s *Store }

func (v *RouteView) Get(_ context.Context, id int64) (*models.Route, error) {
	v.s.mu.Lock()
	defer v.s.mu.Unlock()

	r, ok := v.s.routes[id]
	if !ok {
		return nil, types.ErrRouteNotFound
	}
	return &r, nil
}

// TxManager runs fn directly.
type TxManager struct{}

func (TxManager) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func (TxManager) DoReadOnly(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}
