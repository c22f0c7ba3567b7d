package generator

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"call-data-gen/internal/cdr"
	"call-data-gen/internal/kpi"
	"call-data-gen/internal/pipeline"
	"call-data-gen/internal/schedule"
)

// Sink delivers one record to the downstream pipeline.
type Sink interface {
	Deliver(ctx context.Context, kind pipeline.Kind, recordID string, record any) pipeline.Outcome
}

// Clock abstracts "today" so tests can pin the generation window.
type Clock interface {
	Now() time.Time
}

// SystemClock is the production clock.
type SystemClock struct{}

// Now returns the current UTC time.
func (SystemClock) Now() time.Time { return time.Now().UTC() }

// Service walks the day's interval boundaries and, for each one, fans the
// per-unit record synthesis and delivery out concurrently. Intervals are
// processed strictly in order: the next interval starts only after every
// delivery of the previous one has settled. Per-unit failures are logged
// and counted in the batch outcome, never escalated.
type Service struct {
	sink   Sink
	window schedule.Window
	clock  Clock
	logger *zap.Logger
}

// NewService constructs the generation service.
func NewService(sink Sink, window schedule.Window, clock Clock, logger *zap.Logger) (*Service, error) {
	if sink == nil {
		return nil, errors.New("generator: nil sink")
	}
	if clock == nil {
		clock = SystemClock{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if window.Step <= 0 {
		window = schedule.DefaultWindow()
	}
	return &Service{sink: sink, window: window, clock: clock, logger: logger}, nil
}

// GenerateKPIs validates the asset list once, then produces and delivers
// one KPI record per asset per interval. A validation failure aborts before
// any delivery; delivery failures never do.
func (s *Service) GenerateKPIs(ctx context.Context, assets []kpi.AssetDescriptor) (pipeline.BatchOutcome, error) {
	if err := kpi.ValidateAssets(assets); err != nil {
		return pipeline.BatchOutcome{}, err
	}

	var (
		batch pipeline.BatchOutcome
		mu    sync.Mutex
	)
	for _, interval := range schedule.DayIntervals(s.clock.Now(), s.window) {
		s.logger.Debug("processing interval", zap.Time("boundary", time.UnixMilli(interval).UTC()))

		var wg sync.WaitGroup
		for _, asset := range assets {
			wg.Add(1)
			go func(asset kpi.AssetDescriptor) {
				defer wg.Done()
				record := kpi.SynthesizeAsset(asset, interval)
				recordID := fmt.Sprintf("%s@%d", record.SBCName, record.CycleTimestamp)
				out := s.sink.Deliver(ctx, pipeline.KindKPI, recordID, record)
				mu.Lock()
				batch.Observe(out)
				mu.Unlock()
			}(asset)
		}
		wg.Wait()
	}
	return batch, nil
}

// GenerateCDRs validates the topology once, then produces and delivers
// NoCallsPerInterval call records per interval.
func (s *Service) GenerateCDRs(ctx context.Context, topology cdr.TopologyDescriptor) (pipeline.BatchOutcome, error) {
	if err := cdr.ValidateTopology(topology); err != nil {
		return pipeline.BatchOutcome{}, err
	}

	var (
		batch pipeline.BatchOutcome
		mu    sync.Mutex
	)
	for _, interval := range schedule.DayIntervals(s.clock.Now(), s.window) {
		s.logger.Debug("processing interval", zap.Time("boundary", time.UnixMilli(interval).UTC()))

		var wg sync.WaitGroup
		for i := 0; i < topology.NoCallsPerInterval; i++ {
			wg.Add(1)
			go func(callIndex int) {
				defer wg.Done()
				record, err := cdr.SynthesizeCall(topology, interval)
				if err != nil {
					s.logger.Error("call record synthesis failed",
						zap.Int64("interval", interval),
						zap.Int("call", callIndex),
						zap.Error(err),
					)
					mu.Lock()
					batch.AddFailure(pipeline.KindSBCCdr, fmt.Sprintf("call-%d@%d", callIndex, interval), err.Error())
					mu.Unlock()
					return
				}
				out := s.sink.Deliver(ctx, pipeline.KindSBCCdr, record.GlobalSessionID, record)
				mu.Lock()
				batch.Observe(out)
				mu.Unlock()
			}(i)
		}
		wg.Wait()
	}
	return batch, nil
}
