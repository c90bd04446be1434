package scheduler

import (
	"bytes"
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hearth/internal/service"
)

type fakeSweeper struct {
	calls  atomic.Int32
	result service.SweepResult
	err    error
	batch  int
}

func (f *fakeSweeper) Sweep(_ context.Context, batch int) (service.SweepResult, error) {
	f.calls.Add(1)
	f.batch = batch
	return f.result, f.err
}

func TestNewRejectsBadSpec(t *testing.T) {
	_, err := New("every now and then", &fakeSweeper{}, zerolog.Nop(), Options{})
	assert.Error(t, err)
}

func TestRunOnce(t *testing.T) {
	tests := []struct {
		name       string
		sweeper    *fakeSweeper
		wantLabel  string
		wantLogged string
	}{
		{
			name:       "released",
			sweeper:    &fakeSweeper{result: service.SweepResult{Recipients: 2, Released: 3}},
			wantLabel:  "ok",
			wantLogged: `"released":3`,
		},
		{
			name:       "partial",
			sweeper:    &fakeSweeper{result: service.SweepResult{Recipients: 2, Released: 1, Failed: 1}},
			wantLabel:  "partial",
			wantLogged: `"failed":1`,
		},
		{
			name:       "error",
			sweeper:    &fakeSweeper{err: errors.New("db down")},
			wantLabel:  "error",
			wantLogged: `"event":"sweep_failed"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			reg := prometheus.NewRegistry()
			s, err := New("@every 1m", tt.sweeper, zerolog.New(&buf), Options{Batch: 25, Registry: reg})
			require.NoError(t, err)

			s.RunOnce(context.Background())

			assert.Equal(t, int32(1), tt.sweeper.calls.Load())
			assert.Equal(t, 25, tt.sweeper.batch)
			assert.Equal(t, float64(1), testutil.ToFloat64(s.runs.WithLabelValues(tt.wantLabel)))
			assert.Contains(t, buf.String(), tt.wantLogged)
		})
	}
}

func TestStartStop(t *testing.T) {
	sw := &fakeSweeper{}
	s, err := New("@every 1s", sw, zerolog.Nop(), Options{})
	require.NoError(t, err)

	s.Start()
	require.Eventually(t, func() bool { return sw.calls.Load() > 0 }, 3*time.Second, 50*time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, s.Stop(ctx))
}

func TestDuplicateRegistration(t *testing.T) {
	reg := prometheus.NewRegistry()
	_, err := New("@every 1m", &fakeSweeper{}, zerolog.Nop(), Options{Registry: reg})
	require.NoError(t, err)
	_, err = New("@every 1m", &fakeSweeper{}, zerolog.Nop(), Options{Registry: reg})
	assert.Error(t, err)
}
