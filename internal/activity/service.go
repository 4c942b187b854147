package activity

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// State is a step of the search pipeline.
type State string

const (
	StateIdle           State = "idle"
	StateGeocoding      State = "geocoding"
	StateForecasting    State = "forecasting"
	StateClassifying    State = "classifying"
	StateQueryingVenues State = "querying_venues"
	StateRendering      State = "rendering"
	StateAborted        State = "aborted"
)

// User-visible notices.
const (
	NoticeNotFound       = "No place found"
	NoticeGeocodeFailed  = "Error fetching geolocation data."
	NoticeWeatherFailed  = "Error fetching weather data."
	NoticeVenuesFailed   = "Error fetching activities."
	NoticeInvalidRadius  = "Please enter a search radius greater than zero."
	NoticeRenderCanceled = "Search cancelled."
)

// SearchResult is what one run of the pipeline ends with. A completed run is
// back in StateIdle with a Session; an aborted run carries the stage it
// stopped at, the notice shown to the user and the underlying error.
type SearchResult struct {
	State   State          `json:"state"`
	Stage   State          `json:"stage,omitempty"`
	Notice  string         `json:"notice,omitempty"`
	Session *SearchSession `json:"session,omitempty"`
	Err     error          `json:"-"`
}

// Service wires geocoder, forecaster, classifier, venue finder and presenter
// together. Searches on different maps run independently; a new search on a
// map cancels the one still running there.
type Service struct {
	geocoder   Geocoder
	forecaster Forecaster
	venues     VenueFinder
	presenter  *Presenter
	logger     *zap.Logger

	mu       sync.Mutex
	inflight map[string]*run

	renderMu sync.Mutex
}

type run struct {
	id     string
	cancel context.CancelCauseFunc
}

// NewService creates a new Service.
func NewService(geocoder Geocoder, forecaster Forecaster, venues VenueFinder, presenter *Presenter, logger *zap.Logger) *Service {
	if presenter == nil {
		presenter = NewPresenter(DefaultZoom)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		geocoder:   geocoder,
		forecaster: forecaster,
		venues:     venues,
		presenter:  presenter,
		logger:     logger,
		inflight:   make(map[string]*run),
	}
}

// FindActivities runs one search for req and renders the result onto view.
// It never returns an error directly: failures end the run in StateAborted
// with a notice already pushed to the view.
func (s *Service) FindActivities(ctx context.Context, view MapView, req SearchRequest) SearchResult {
	runID := uuid.NewString()
	ctx, cancel := context.WithCancelCause(ctx)
	defer cancel(nil)

	s.begin(view.ID(), runID, cancel)
	defer s.end(view.ID(), runID)

	log := s.logger.With(
		zap.String("map", view.ID()),
		zap.String("search", runID),
		zap.String("place", req.Place),
		zap.Float64("radiusKm", req.RadiusKm),
	)
	enter := func(st State) {
		log.Debug("search state", zap.String("state", string(st)))
	}

	if req.RadiusKm <= 0 {
		return s.abort(ctx, view, log, StateIdle, ErrInvalidRadius)
	}

	enter(StateGeocoding)
	coord, err := s.geocoder.Resolve(ctx, req.Place)
	if err != nil {
		return s.abort(ctx, view, log, StateGeocoding, err)
	}
	log.Debug("geocoded", zap.Float64("lat", coord.Latitude), zap.Float64("lon", coord.Longitude))

	enter(StateForecasting)
	if superseded(ctx) {
		return s.abort(ctx, view, log, StateForecasting, ErrSuperseded)
	}
	forecast, err := s.forecaster.Resolve(ctx, coord)
	if err != nil {
		return s.abort(ctx, view, log, StateForecasting, err)
	}

	enter(StateClassifying)
	tags := Classify(forecast)
	log.Debug("classified forecast", zap.String("forecast", string(forecast)), zap.String("kind", string(tags.Kind)))

	enter(StateQueryingVenues)
	if superseded(ctx) {
		return s.abort(ctx, view, log, StateQueryingVenues, ErrSuperseded)
	}
	venues, err := s.venues.Find(ctx, coord, req.RadiusKm, tags)
	if err != nil {
		return s.abort(ctx, view, log, StateQueryingVenues, err)
	}
	if len(venues) == 0 {
		log.Info("no venues found")
	}

	session := SearchSession{
		ID:         runID,
		Place:      req.Place,
		RadiusKm:   req.RadiusKm,
		Coordinate: coord,
		Forecast:   forecast,
		Activities: tags,
		Venues:     venues,
	}

	enter(StateRendering)
	s.renderMu.Lock()
	if superseded(ctx) {
		s.renderMu.Unlock()
		return s.abort(ctx, view, log, StateRendering, ErrSuperseded)
	}
	s.presenter.Render(view, session)
	s.renderMu.Unlock()

	log.Info("search completed", zap.String("kind", string(tags.Kind)), zap.Int("venues", len(venues)))
	enter(StateIdle)
	return SearchResult{State: StateIdle, Session: &session}
}

// Cancel stops the search running on the given map, if any.
func (s *Service) Cancel(viewID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if r, ok := s.inflight[viewID]; ok {
		r.cancel(context.Canceled)
		delete(s.inflight, viewID)
	}
}

func (s *Service) begin(viewID, runID string, cancel context.CancelCauseFunc) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if prev, ok := s.inflight[viewID]; ok {
		prev.cancel(ErrSuperseded)
	}
	s.inflight[viewID] = &run{id: runID, cancel: cancel}
}

func (s *Service) end(viewID, runID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if cur, ok := s.inflight[viewID]; ok && cur.id == runID {
		delete(s.inflight, viewID)
	}
}

func (s *Service) abort(ctx context.Context, view MapView, log *zap.Logger, stage State, err error) SearchResult {
	if superseded(ctx) {
		log.Info("search superseded", zap.String("stage", string(stage)))
		return SearchResult{State: StateAborted, Stage: stage, Err: ErrSuperseded}
	}

	notice := noticeFor(stage, err)
	if errors.Is(err, ErrNotFound) || errors.Is(err, ErrInvalidRadius) {
		log.Info("search aborted", zap.String("stage", string(stage)), zap.Error(err))
	} else {
		log.Warn("search aborted", zap.String("stage", string(stage)), zap.Error(err))
	}
	view.Notify(notice)
	return SearchResult{State: StateAborted, Stage: stage, Notice: notice, Err: err}
}

func noticeFor(stage State, err error) string {
	switch {
	case errors.Is(err, ErrNotFound):
		return NoticeNotFound
	case errors.Is(err, ErrInvalidRadius):
		return NoticeInvalidRadius
	}
	switch stage {
	case StateGeocoding:
		return NoticeGeocodeFailed
	case StateForecasting:
		return NoticeWeatherFailed
	case StateQueryingVenues:
		return NoticeVenuesFailed
	default:
		return NoticeRenderCanceled
	}
}

func superseded(ctx context.Context) bool {
	return errors.Is(context.Cause(ctx), ErrSuperseded)
}
