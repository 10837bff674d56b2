package otel

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"

	goSSO "github.com/MrEthical07/goSSO"
)

type fakeSource struct {
	mu       sync.RWMutex
	snapshot goSSO.MetricsSnapshot
}

func (f *fakeSource) MetricsSnapshot() goSSO.MetricsSnapshot {
	f.mu.RLock()
	defer f.mu.RUnlock()
	out := goSSO.MetricsSnapshot{
		Counters:   make(map[goSSO.MetricID]uint64, len(f.snapshot.Counters)),
		Histograms: make(map[goSSO.MetricID][]uint64, len(f.snapshot.Histograms)),
	}
	for k, v := range f.snapshot.Counters {
		out.Counters[k] = v
	}
	for k, buckets := range f.snapshot.Histograms {
		out.Histograms[k] = append([]uint64(nil), buckets...)
	}
	return out
}

func newReader() (*sdkmetric.ManualReader, *sdkmetric.MeterProvider) {
	reader := sdkmetric.NewManualReader()
	return reader, sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
}

func collect(t *testing.T, reader *sdkmetric.ManualReader) map[string]int64 {
	t.Helper()
	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))

	out := map[string]int64{}
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			switch data := m.Data.(type) {
			case metricdata.Sum[int64]:
				for _, dp := range data.DataPoints {
					out[m.Name] = dp.Value
				}
			case metricdata.Gauge[int64]:
				for _, dp := range data.DataPoints {
					out[m.Name] = dp.Value
				}
			}
		}
	}
	return out
}

func TestExporterRegistersAndCollects(t *testing.T) {
	reader, provider := newReader()

	src := &fakeSource{snapshot: goSSO.MetricsSnapshot{
		Counters: map[goSSO.MetricID]uint64{
			goSSO.MetricLoginSuccess: 3,
		},
		Histograms: map[goSSO.MetricID][]uint64{
			goSSO.MetricLoginLatency: {1, 1, 1, 1, 1, 1, 1, 1},
		},
	}}

	exp, err := NewExporter(provider.Meter("gosso-test"), src)
	require.NoError(t, err)
	defer func() { require.NoError(t, exp.Close()) }()

	got := collect(t, reader)
	assert.Equal(t, int64(3), got["gosso_login_success_total"])
	assert.Equal(t, int64(0), got["gosso_claim_success_total"])
	assert.Equal(t, int64(1), got["gosso_login_latency_seconds_bucket_le_0_005"])
	assert.Equal(t, int64(8), got["gosso_login_latency_seconds_bucket_le_inf"])
	assert.Equal(t, int64(8), got["gosso_login_latency_seconds_count"])
}

func TestExporterRejectsNilArguments(t *testing.T) {
	_, provider := newReader()

	_, err := NewExporter(provider.Meter("gosso-test"), nil)
	assert.ErrorIs(t, err, ErrNilSource)

	_, err = NewExporter(nil, &fakeSource{})
	assert.ErrorIs(t, err, ErrNilMeter)
}

func TestExporterConcurrentCollectNoPanic(t *testing.T) {
	reader, provider := newReader()

	src := &fakeSource{snapshot: goSSO.MetricsSnapshot{
		Counters: map[goSSO.MetricID]uint64{
			goSSO.MetricLoginSuccess: 1,
		},
		Histograms: map[goSSO.MetricID][]uint64{},
	}}

	exp, err := NewExporter(provider.Meter("gosso-test"), src)
	require.NoError(t, err)
	defer func() { require.NoError(t, exp.Close()) }()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(v uint64) {
			defer wg.Done()
			src.mu.Lock()
			src.snapshot.Counters[goSSO.MetricLoginSuccess] = v
			src.mu.Unlock()

			var rm metricdata.ResourceMetrics
			_ = reader.Collect(context.Background(), &rm)
		}(uint64(i + 1))
	}
	wg.Wait()
}
