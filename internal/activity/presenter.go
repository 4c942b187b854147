package activity

import (
	"fmt"
	"html"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const (
	DefaultZoom      = 12
	UnnamedPlace     = "Unnamed place"
	defaultImageBase = "/images"
)

// Presenter turns a finished search into map mutations.
type Presenter struct {
	zoom      int
	imageBase string
}

// NewPresenter creates a Presenter recentering at the given zoom level.
// A zoom <= 0 falls back to DefaultZoom.
func NewPresenter(zoom int) *Presenter {
	if zoom <= 0 {
		zoom = DefaultZoom
	}
	return &Presenter{
		zoom:      zoom,
		imageBase: defaultImageBase,
	}
}

// Render recenters the view, replaces its marker group with the session's
// venues and updates the forecast panel. When the view supports batching the
// whole update is applied at once.
func (p *Presenter) Render(view MapView, session SearchSession) {
	apply := func() {
		view.SetView(session.Coordinate, p.zoom)
		view.ClearMarkers()
		for _, v := range session.Venues {
			view.AddMarker(NewMarker(v))
		}
		view.SetForecast(p.Panel(session.Forecast))
	}

	if b, ok := view.(batcher); ok {
		b.Batch(apply)
		return
	}
	apply()
}

// Panel builds the forecast text and image for a summary.
func (p *Presenter) Panel(summary ForecastSummary) ForecastPanel {
	category := CategorizeForecast(summary)
	// cases.Caser is stateful, so one per call.
	title := cases.Title(language.English)
	return ForecastPanel{
		Text:     fmt.Sprintf("Current forecast: %s", title.String(string(summary))),
		Category: category,
		Image:    fmt.Sprintf("%s/%s.png", p.imageBase, category),
	}
}

// NewMarker builds the marker and popup for a venue.
func NewMarker(v Venue) Marker {
	name := UnnamedPlace
	if v.Name != nil && *v.Name != "" {
		name = *v.Name
	}
	link := MapLink(Coordinate{Latitude: v.Latitude, Longitude: v.Longitude})

	return Marker{
		Latitude:  v.Latitude,
		Longitude: v.Longitude,
		Name:      name,
		Type:      v.Type,
		Popup: fmt.Sprintf(`<b>%s</b><br>Type: %s<br><a href="%s" target="_blank" rel="noopener">Open in map</a>`,
			html.EscapeString(name), html.EscapeString(v.Type), html.EscapeString(link)),
		Link: link,
	}
}

// MapLink returns an OpenStreetMap URL pointing at c.
func MapLink(c Coordinate) string {
	return fmt.Sprintf("https://www.openstreetmap.org/?mlat=%.6f&mlon=%.6f#map=18/%.6f/%.6f",
		c.Latitude, c.Longitude, c.Latitude, c.Longitude)
}
