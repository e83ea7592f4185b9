package weather

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// FetchRecorder receives the outcome of every provider call.
type FetchRecorder interface {
	RecordFetch(city string, d time.Duration, err error)
}

// Service fetches cities one at a time, stores each record and hands it to
// the listeners.
type Service struct {
	provider  Provider
	store     Store
	listeners []Listener
	logger    *zap.Logger
	tracer    trace.Tracer
	recorder  FetchRecorder
}

// NewService creates a new Service.
func NewService(provider Provider, store Store, logger *zap.Logger, recorder FetchRecorder) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		provider: provider,
		store:    store,
		logger:   logger,
		tracer:   otel.Tracer("weather-globe/weather"),
		recorder: recorder,
	}
}

// Subscribe registers a listener for stored records.
func (s *Service) Subscribe(l Listener) {
	s.listeners = append(s.listeners, l)
}

// UpdateResult lists what one update pass did.
type UpdateResult struct {
	Updated []CityRecord
	Failed  map[string]error
}

// Update fetches every location in order, waiting for each request before
// starting the next. A failing city is logged and skipped; it never stops the
// pass. Only a cancelled context ends the pass early.
func (s *Service) Update(ctx context.Context, locs []Location) (UpdateResult, error) {
	ctx, span := s.tracer.Start(ctx, "weather.update",
		trace.WithAttributes(attribute.Int("cities", len(locs))))
	defer span.End()

	res := UpdateResult{Failed: make(map[string]error)}
	if s.provider == nil {
		return res, fmt.Errorf("no weather provider configured")
	}

	for _, loc := range locs {
		if err := ctx.Err(); err != nil {
			return res, err
		}

		rec, err := s.fetch(ctx, loc)
		if err != nil {
			s.logger.Warn("weather fetch failed",
				zap.String("city", loc.Key()),
				zap.String("provider", s.provider.Name()),
				zap.Error(err))
			res.Failed[loc.Key()] = err
			continue
		}

		s.store.Save(rec)
		res.Updated = append(res.Updated, rec)

		for _, l := range s.listeners {
			if err := l.OnRecord(ctx, rec); err != nil {
				s.logger.Warn("record listener failed", zap.String("city", loc.Key()), zap.Error(err))
			}
		}
	}

	span.SetAttributes(
		attribute.Int("updated", len(res.Updated)),
		attribute.Int("failed", len(res.Failed)),
	)
	s.logger.Info("weather update finished",
		zap.Int("updated", len(res.Updated)),
		zap.Int("failed", len(res.Failed)))

	return res, nil
}

func (s *Service) fetch(ctx context.Context, loc Location) (CityRecord, error) {
	ctx, span := s.tracer.Start(ctx, "weather.fetch",
		trace.WithAttributes(
			attribute.String("city", loc.Key()),
			attribute.String("provider", s.provider.Name()),
		))
	defer span.End()

	start := time.Now()
	rec, err := s.provider.Fetch(ctx, loc)
	if s.recorder != nil {
		s.recorder.RecordFetch(loc.Key(), time.Since(start), err)
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return CityRecord{}, err
	}

	span.SetAttributes(attribute.Float64("temperature_c", rec.TemperatureC))
	return rec, nil
}

// Latest delegates to the underlying store.
func (s *Service) Latest(loc Location) (CityRecord, error) {
	return s.store.Latest(loc)
}

// All delegates to the underlying store.
func (s *Service) All() []CityRecord {
	return s.store.All()
}
