package realtime

import (
	"context"
	"strconv"
	"strings"

	gtfsrtpb "github.com/MobilityData/gtfs-realtime-bindings/golang/gtfs"

	"github.com/theoremus-urban-solutions/transit-ingest/domain"
)

// GetAlerts fetches the alerts feed and normalizes entities whose informed
// entities include at least one bus-type member. Affected id lists are
// deduplicated with zero and non-numeric ids excluded; an alert with no
// observed end is considered still active and assigned the current time as a
// provisional end.
func (c *Client) GetAlerts(ctx context.Context) ([]domain.Alert, error) {
	entities, err := c.GetFeed(ctx, ResourceAlerts)
	if err != nil {
		return nil, err
	}

	alerts := make([]domain.Alert, 0, len(entities))
	dropped := 0
	for _, e := range entities {
		if e.Alert == nil {
			continue
		}
		a := e.Alert
		if !informsBus(a.InformedEntity) {
			dropped++
			continue
		}
		id, err := strconv.ParseInt(e.GetId(), 10, 64)
		if err != nil {
			c.log.Warn().Str("entity", e.GetId()).Msg("alert entity with non-numeric id, skipped")
			dropped++
			continue
		}

		alert := domain.Alert{
			ID:   id,
			Text: strings.TrimSpace(englishText(a.HeaderText) + " " + englishText(a.DescriptionText)),
		}
		if len(a.ActivePeriod) > 0 {
			ap := a.ActivePeriod[0]
			if ap.Start != nil {
				alert.Start = int64(*ap.Start)
			}
			if ap.End != nil {
				alert.End = int64(*ap.End)
			}
		}
		if alert.End == 0 {
			alert.End = c.now().Unix()
		}
		if a.Cause != nil {
			alert.Cause = a.Cause.String()
		}
		if a.Effect != nil {
			alert.Effect = a.Effect.String()
		}
		if a.SeverityLevel != nil {
			alert.Severity = a.SeverityLevel.String()
		}

		routes, trips, stops := domain.IDSet{}, domain.IDSet{}, domain.IDSet{}
		for _, ie := range a.InformedEntity {
			if ie.RouteId != nil {
				routes.Add(*ie.RouteId)
			}
			if ie.Trip != nil && ie.Trip.TripId != nil {
				trips.Add(*ie.Trip.TripId)
			}
			if ie.StopId != nil {
				stops.Add(*ie.StopId)
			}
		}
		alert.Routes = routes.Sorted()
		alert.Trips = trips.Sorted()
		alert.Stops = stops.Sorted()

		alerts = append(alerts, alert)
	}
	c.metrics.Normalized("alert", len(alerts))
	c.metrics.Dropped("alert", dropped)
	return alerts, nil
}

// informsBus reports whether any informed entity is tagged with the bus
// route type. The id lists themselves are not filtered by type.
func informsBus(informed []*gtfsrtpb.EntitySelector) bool {
	for _, ie := range informed {
		if ie.RouteType != nil && int(*ie.RouteType) == domain.BusRouteType {
			return true
		}
	}
	return false
}

// englishText extracts the English translation from a text block, falling
// back to an untagged translation, then to the first one.
func englishText(ts *gtfsrtpb.TranslatedString) string {
	if ts == nil || len(ts.Translation) == 0 {
		return ""
	}
	var untagged, first string
	for i, t := range ts.Translation {
		text := t.GetText()
		if i == 0 {
			first = text
		}
		switch {
		case strings.HasPrefix(t.GetLanguage(), "en"):
			return text
		case t.Language == nil && untagged == "":
			untagged = text
		}
	}
	if untagged != "" {
		return untagged
	}
	return first
}
