package realtime

import (
	"context"

	"github.com/theoremus-urban-solutions/transit-ingest/domain"
	"github.com/theoremus-urban-solutions/transit-ingest/utils"
)

// GetPositions fetches the vehicle feed and maps each vehicle entity to a
// Position. Entities still reporting the zero-coordinate sentinel are
// dropped; individually malformed entities are skipped.
func (c *Client) GetPositions(ctx context.Context) ([]domain.Position, error) {
	entities, err := c.GetFeed(ctx, ResourceVehiclePositions)
	if err != nil {
		return nil, err
	}

	positions := make([]domain.Position, 0, len(entities))
	dropped := 0
	for _, e := range entities {
		if e.Vehicle == nil {
			continue
		}
		v := e.Vehicle
		if v.Vehicle == nil || v.Vehicle.Id == nil || v.Trip == nil {
			c.log.Warn().Str("entity", e.GetId()).Msg("vehicle entity missing descriptor, skipped")
			dropped++
			continue
		}
		serviceDate, err := utils.ServiceDateFromCompact(v.Trip.GetStartDate())
		if err != nil {
			c.log.Warn().Str("entity", e.GetId()).Err(err).Msg("vehicle entity skipped")
			dropped++
			continue
		}
		p := domain.Position{
			VehicleID:   v.Vehicle.GetId(),
			TripID:      v.Trip.GetTripId(),
			RouteID:     v.Trip.GetRouteId(),
			Direction:   int(v.Trip.GetDirectionId()),
			NextStop:    int(v.GetCurrentStopSequence()),
			Longitude:   float64(v.GetPosition().GetLongitude()),
			Latitude:    float64(v.GetPosition().GetLatitude()),
			Timestamp:   int64(v.GetTimestamp()),
			ServiceDate: serviceDate,
		}
		if p.Unlocated() {
			dropped++
			continue
		}
		positions = append(positions, p)
	}
	c.metrics.Normalized("position", len(positions))
	c.metrics.Dropped("position", dropped)
	return positions, nil
}
