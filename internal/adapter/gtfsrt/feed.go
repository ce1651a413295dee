// Package gtfsrt renders bus tracking state as a GTFS-Realtime VehiclePositions feed.
package gtfsrt

import (
	"fmt"
	"strconv"
	"time"

	gtfs "github.com/MobilityData/gtfs-realtime-bindings/golang/gtfs"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/proto"

	"github.com/Temutjin2k/bus-tracker/internal/domain/models"
)

const (
	Version = "2.0"

	ContentTypeProtobuf = "application/x-protobuf"
	ContentTypeJSON     = "application/json"

	kmhToMs = 1 / 3.6
)

// Build returns a full-dataset feed with one entity per bus that has a current location.
func Build(buses []models.BusTracking, now time.Time) *gtfs.FeedMessage {
	feed := &gtfs.FeedMessage{
		Header: &gtfs.FeedHeader{
			GtfsRealtimeVersion: proto.String(Version),
			Incrementality:      gtfs.FeedHeader_FULL_DATASET.Enum(),
			Timestamp:           proto.Uint64(uint64(now.Unix())),
		},
		Entity: make([]*gtfs.FeedEntity, 0, len(buses)),
	}

	for _, b := range buses {
		if b.CurrentLocation == nil {
			continue
		}
		feed.Entity = append(feed.Entity, &gtfs.FeedEntity{
			Id:      proto.String(strconv.FormatInt(b.ID, 10)),
			Vehicle: vehiclePosition(b),
		})
	}
	return feed
}

func vehiclePosition(b models.BusTracking) *gtfs.VehiclePosition {
	loc := b.CurrentLocation

	vp := &gtfs.VehiclePosition{
		Vehicle: &gtfs.VehicleDescriptor{
			Id:    proto.String(strconv.FormatInt(b.ID, 10)),
			Label: proto.String(b.BusNumber),
		},
		Position: &gtfs.Position{
			Latitude:  proto.Float32(float32(loc.Latitude)),
			Longitude: proto.Float32(float32(loc.Longitude)),
			Speed:     proto.Float32(float32(loc.Speed * kmhToMs)),
		},
		Timestamp: proto.Uint64(uint64(loc.Timestamp.Unix())),
	}
	if loc.Heading != nil {
		vp.Position.Bearing = proto.Float32(float32(*loc.Heading))
	}
	if b.RouteNumber != nil {
		vp.Trip = &gtfs.TripDescriptor{RouteId: proto.String(*b.RouteNumber)}
	}
	return vp
}

// Encode marshals the feed as protobuf, or as protojson when asJSON is set.
func Encode(feed *gtfs.FeedMessage, asJSON bool) ([]byte, string, error) {
	if asJSON {
		data, err := protojson.Marshal(feed)
		if err != nil {
			return nil, "", fmt.Errorf("gtfsrt: marshal json: %w", err)
		}
		return data, ContentTypeJSON, nil
	}

	data, err := proto.Marshal(feed)
	if err != nil {
		return nil, "", fmt.Errorf("gtfsrt: marshal protobuf: %w", err)
	}
	return data, ContentTypeProtobuf, nil
}
