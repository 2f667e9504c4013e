package telemetry

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestSetupDisabled(t *testing.T) {
	tel, err := Setup(context.Background(), "test:telemetry", Config{})
	require.NoError(t, err)
	require.Nil(t, tel.TracerProvider)
	require.Nil(t, tel.MeterProvider)
	require.NoError(t, tel.Shutdown(context.Background()))
}

func TestSetupForTestingOnce(t *testing.T) {
	cleanup := SetupForTesting("test:telemetry-once")
	defer cleanup()

	require.True(t, slog.Default().Enabled(context.Background(), slog.LevelDebug))

	again := SetupForTesting("test:telemetry-once")
	again()
}

func TestSamplePerfStats(t *testing.T) {
	stats, err := SamplePerfStats()
	if err != nil {
		// cpu usage isn't readable in every sandbox
		t.Log(err)
	}
	require.Positive(t, stats.Goroutines)
	require.GreaterOrEqual(t, stats.CPUPercent, 0.0)
}

func TestInstrumentPerfStatsStops(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	InstrumentPerfStats(ctx, time.Millisecond)
	time.Sleep(5 * time.Millisecond)
	cancel()
}

func TestOtlpConnConfig(t *testing.T) {
	both := OtlpConnConfig{GrpcEndpoint: "http://localhost:4317", HttpEndpoint: "http://localhost:4318"}
	require.True(t, both.enabled())
	require.Equal(t, "grpc", both.transport())
	require.Equal(t, "http://localhost:4317", both.endpoint())

	httpOnly := OtlpConnConfig{HttpEndpoint: "http://localhost:4318"}
	require.Equal(t, "http", httpOnly.transport())
	require.Equal(t, "http://localhost:4318", httpOnly.endpoint())

	require.False(t, OtlpConnConfig{}.enabled())
}

func TestMetricInterval(t *testing.T) {
	cases := []struct {
		value    string
		expected time.Duration
		fails    bool
	}{
		{value: "", expected: defaultMetricInterval},
		{value: "30s", expected: 30 * time.Second},
		{value: "soon", fails: true},
		{value: "-1s", fails: true},
	}
	for _, test := range cases {
		interval, err := Config{MetricInterval: test.value}.metricInterval()
		if test.fails {
			require.Error(t, err, test.value)
			continue
		}
		require.NoError(t, err, test.value)
		require.Equal(t, test.expected, interval, test.value)
	}
}

func TestSampler(t *testing.T) {
	require.Equal(t, "AlwaysOnSampler", Config{}.sampler().Description())
	require.Equal(t, "AlwaysOnSampler", Config{SampleRatio: 1}.sampler().Description())
	require.Contains(t, Config{SampleRatio: 0.25}.sampler().Description(), "TraceIDRatioBased{0.25}")
}
