package generator

import (
	"context"
	"errors"
	"strconv"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"

	"call-data-gen/internal/cdr"
	"call-data-gen/internal/kpi"
	"call-data-gen/internal/pipeline"
	"call-data-gen/internal/schedule"
	"call-data-gen/internal/validate"
)

type fixedClock struct{ now time.Time }

func (c fixedClock) Now() time.Time { return c.now }

// fakeSink records every delivery and fails the record ids listed in fail.
type fakeSink struct {
	mu    sync.Mutex
	calls []pipeline.Kind
	fail  map[string]bool
}

func (s *fakeSink) Deliver(_ context.Context, kind pipeline.Kind, recordID string, _ any) pipeline.Outcome {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, kind)
	if s.fail[recordID] {
		return pipeline.Outcome{Kind: kind, RecordID: recordID, StatusCode: 500, Body: "sink unavailable"}
	}
	return pipeline.Outcome{Kind: kind, RecordID: recordID, Delivered: true}
}

func (s *fakeSink) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.calls)
}

var testWindow = schedule.Window{StartHour: 9, EndHour: 10, Step: 15 * time.Minute} // 5 intervals

func newTestService(t *testing.T, sink Sink) *Service {
	t.Helper()
	svc, err := NewService(sink, testWindow, fixedClock{time.Date(2025, time.June, 18, 12, 0, 0, 0, time.UTC)}, zap.NewNop())
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	return svc
}

func testAssets() []kpi.AssetDescriptor {
	return []kpi.AssetDescriptor{
		{SBCName: "sbc-1", AssetType: kpi.AssetTypeDedicated, IPGroupNames: []string{"ipg"}, Quality: kpi.QualityGood},
		{SBCName: "sbc-2", AssetType: kpi.AssetTypeMultitenant, ServiceType: "Teams", IPGroupNames: []string{"a", "b"}, Quality: kpi.QualityPoor},
	}
}

func testTopology() cdr.TopologyDescriptor {
	return cdr.TopologyDescriptor{
		NoCallsPerInterval: 3,
		Status:             cdr.StatusSuccess,
		SBCNames:           []string{"sbc-1"},
		Services:           []cdr.Endpoint{{IPGroup: "TeamsIPG", NumberRangeFrom: 441000000, NumberRangeTo: 441000999}},
		PSTN:               cdr.Endpoint{IPGroup: "PstnIPG", NumberRangeFrom: 491000000, NumberRangeTo: 491000999},
	}
}

func TestGenerateKPIsDeliversPerAssetPerInterval(t *testing.T) {
	sink := &fakeSink{}
	svc := newTestService(t, sink)

	batch, err := svc.GenerateKPIs(context.Background(), testAssets())
	if err != nil {
		t.Fatalf("GenerateKPIs: %v", err)
	}
	// 5 intervals x 2 assets.
	if got := sink.callCount(); got != 10 {
		t.Fatalf("sink calls = %d, want 10", got)
	}
	if batch.Delivered != 10 || batch.Failed != 0 {
		t.Fatalf("batch = %+v, want 10 delivered", batch)
	}
}

func TestGenerateKPIsValidationAbortsBeforeDelivery(t *testing.T) {
	sink := &fakeSink{}
	svc := newTestService(t, sink)

	asset := kpi.AssetDescriptor{SBCName: "sbc-1", AssetType: kpi.AssetTypeMultitenant, IPGroupNames: []string{"ipg"}, Quality: kpi.QualityGood}
	_, err := svc.GenerateKPIs(context.Background(), []kpi.AssetDescriptor{asset})

	var verr *validate.Error
	if !errors.As(err, &verr) {
		t.Fatalf("err = %v, want *validate.Error", err)
	}
	if got := sink.callCount(); got != 0 {
		t.Fatalf("sink calls = %d, want 0 before validation passes", got)
	}
}

func TestGenerateKPIsIsolatesDeliveryFailures(t *testing.T) {
	// Fail every delivery of sbc-1; sbc-2 must still be attempted.
	fail := map[string]bool{}
	for _, interval := range schedule.DayIntervals(time.Date(2025, time.June, 18, 12, 0, 0, 0, time.UTC), testWindow) {
		fail["sbc-1@"+itoa(interval)] = true
	}
	sink := &fakeSink{fail: fail}
	svc := newTestService(t, sink)

	batch, err := svc.GenerateKPIs(context.Background(), testAssets())
	if err != nil {
		t.Fatalf("GenerateKPIs must not raise on delivery failures: %v", err)
	}
	if got := sink.callCount(); got != 10 {
		t.Fatalf("sink calls = %d, want 10 (failures must not stop the batch)", got)
	}
	if batch.Delivered != 5 || batch.Failed != 5 {
		t.Fatalf("batch = %+v, want 5 delivered / 5 failed", batch)
	}
	if len(batch.Failures) != 5 || batch.Failures[0].Reason == "" {
		t.Fatalf("failures = %+v, want 5 reasons", batch.Failures)
	}
}

func TestGenerateCDRsDeliversPerCallPerInterval(t *testing.T) {
	sink := &fakeSink{}
	svc := newTestService(t, sink)

	batch, err := svc.GenerateCDRs(context.Background(), testTopology())
	if err != nil {
		t.Fatalf("GenerateCDRs: %v", err)
	}
	// 5 intervals x 3 calls.
	if got := sink.callCount(); got != 15 {
		t.Fatalf("sink calls = %d, want 15", got)
	}
	if batch.Delivered != 15 {
		t.Fatalf("batch = %+v, want 15 delivered", batch)
	}
	for _, kind := range sink.calls {
		if kind != pipeline.KindSBCCdr {
			t.Fatalf("sink kind = %q, want sbcCdr", kind)
		}
	}
}

func TestGenerateCDRsValidationAbortsBeforeDelivery(t *testing.T) {
	sink := &fakeSink{}
	svc := newTestService(t, sink)

	topology := testTopology()
	topology.Services = nil
	if _, err := svc.GenerateCDRs(context.Background(), topology); err == nil {
		t.Fatal("expected validation error")
	}
	if got := sink.callCount(); got != 0 {
		t.Fatalf("sink calls = %d, want 0", got)
	}
}

func TestNewServiceRequiresSink(t *testing.T) {
	if _, err := NewService(nil, testWindow, nil, nil); err == nil {
		t.Fatal("expected error for nil sink")
	}
}

func itoa(v int64) string {
	return strconv.FormatInt(v, 10)
}
