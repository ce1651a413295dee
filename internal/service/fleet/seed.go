package fleet

import (
	"context"
	"fmt"

	"github.com/Temutjin2k/bus-tracker/internal/domain/models"
	"github.com/Temutjin2k/bus-tracker/internal/domain/types"
	wrap "github.com/Temutjin2k/bus-tracker/pkg/logger/wrapper"
)

type seedStop struct {
	name     string
	lat, lon float64
}

type seedRoute struct {
	route models.Route
	stops []seedStop
}

type seedBus struct {
	number, plate, route, driver string
}

var sampleRoutes = []seedRoute{
	{
		route: models.Route{RouteNumber: "101", Name: "Downtown Loop", Description: "Connects downtown area with main attractions", Color: "#FF6B35", IsActive: true},
		stops: []seedStop{
			{"Central Station", 40.7589, -73.9851},
			{"City Hall", 40.7614, -73.9776},
			{"Museum District", 40.7505, -73.9934},
			{"Shopping Center", 40.7549, -73.9840},
			{"Park Avenue", 40.7505, -73.9800},
		},
	},
	{
		route: models.Route{RouteNumber: "202", Name: "University Express", Description: "Express route to university campus", Color: "#004E89", IsActive: true},
		stops: []seedStop{
			{"University Gate", 40.8075, -73.9626},
			{"Student Center", 40.8100, -73.9580},
			{"Library", 40.8050, -73.9550},
			{"Sports Complex", 40.8000, -73.9500},
		},
	},
	{
		route: models.Route{RouteNumber: "303", Name: "Airport Shuttle", Description: "Direct service to airport", Color: "#009639", IsActive: true},
	},
}

var sampleBuses = []seedBus{
	{"B101A", "NYC-1001", "101", "John Smith"},
	{"B101B", "NYC-1002", "101", "Mary Johnson"},
	{"B202A", "NYC-2001", "202", "David Wilson"},
	{"B303A", "NYC-3001", "303", "Sarah Brown"},
}

// SeedResult counts what Seed wrote.
type SeedResult struct {
	Routes int
	Stops  int
	Buses  int
}

// Seed loads the sample fleet in one transaction. Running it again refreshes the same rows.
// Buses start without location reports.
func (s *Service) Seed(ctx context.Context) (SeedResult, error) {
	ctx = wrap.WithAction(ctx, types.ActionSeed)

	var res SeedResult
	err := s.trm.Do(ctx, func(ctx context.Context) error {
		res = SeedResult{}
		routeIDs := make(map[string]int64, len(sampleRoutes))

		for _, sr := range sampleRoutes {
			route := sr.route
			if err := s.routes.Upsert(ctx, &route); err != nil {
				return err
			}
			routeIDs[route.RouteNumber] = route.ID
			res.Routes++

			for i, st := range sr.stops {
				stop := models.RouteStop{
					RouteID:   route.ID,
					StopName:  st.name,
					Latitude:  st.lat,
					Longitude: st.lon,
					StopOrder: i + 1,
					IsActive:  true,
				}
				if err := s.stops.Upsert(ctx, &stop); err != nil {
					return err
				}
				res.Stops++
			}
		}

		for _, sb := range sampleBuses {
			routeID, ok := routeIDs[sb.route]
			if !ok {
				return fmt.Errorf("seed: bus %s references unknown route %s", sb.number, sb.route)
			}
			bus := models.Bus{
				BusNumber:    sb.number,
				LicensePlate: sb.plate,
				RouteID:      &routeID,
				DriverName:   sb.driver,
				Capacity:     models.DefaultBusCapacity,
				IsActive:     true,
			}
			if err := s.buses.Upsert(ctx, &bus); err != nil {
				return err
			}
			res.Buses++
		}
		return nil
	})
	if err != nil {
		return SeedResult{}, wrap.Error(ctx, err)
	}

	s.l.Info(ctx, "sample fleet loaded", "routes", res.Routes, "stops", res.Stops, "buses", res.Buses)
	return res, nil
}
