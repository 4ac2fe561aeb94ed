package health

import (
	"context"
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/status"

	"github.com/and161185/goalplay-inventory/internal/metrics"
)

var checkInfo = &grpc.UnaryServerInfo{FullMethod: "/grpc.health.v1.Health/Check"}

func answer(st healthpb.HealthCheckResponse_ServingStatus) grpc.UnaryHandler {
	return func(context.Context, any) (any, error) {
		return &healthpb.HealthCheckResponse{Status: st}, nil
	}
}

func TestLogChecks_LevelFollowsAnswer(t *testing.T) {
	t.Parallel()
	core, logs := observer.New(zapcore.DebugLevel)
	s := New(zap.New(core))
	ic := s.logChecks()

	req := &healthpb.HealthCheckRequest{Service: "log-level-test"}
	serving := metrics.HealthChecksTotal.WithLabelValues("log-level-test", "SERVING")
	before := testutil.ToFloat64(serving)

	_, err := ic(context.Background(), req, checkInfo, answer(healthpb.HealthCheckResponse_SERVING))
	require.NoError(t, err)
	_, err = ic(context.Background(), req, checkInfo, answer(healthpb.HealthCheckResponse_NOT_SERVING))
	require.NoError(t, err)

	entries := logs.FilterMessage("health check").AllUntimed()
	require.Len(t, entries, 2)
	require.Equal(t, zapcore.DebugLevel, entries[0].Level)
	require.Equal(t, zapcore.WarnLevel, entries[1].Level)
	require.Equal(t, "log-level-test", entries[1].ContextMap()["service"])
	require.Equal(t, "NOT_SERVING", entries[1].ContextMap()["result"])
	require.Equal(t, before+1, testutil.ToFloat64(serving))
}

func TestLogChecks_ErrorPassesThrough(t *testing.T) {
	t.Parallel()
	core, logs := observer.New(zapcore.DebugLevel)
	ic := New(zap.New(core)).logChecks()

	wantErr := status.Error(codes.NotFound, "unknown service")
	_, err := ic(context.Background(), &healthpb.HealthCheckRequest{Service: "nope"}, checkInfo,
		func(context.Context, any) (any, error) { return nil, wantErr })
	require.ErrorIs(t, err, wantErr)

	entries := logs.FilterMessage("health check").AllUntimed()
	require.Len(t, entries, 1)
	require.Equal(t, zapcore.WarnLevel, entries[0].Level)
	require.Equal(t, codes.NotFound.String(), entries[0].ContextMap()["result"])
}

func TestRecoverChecks_PanicMarksNotServing(t *testing.T) {
	t.Parallel()
	s := New(zap.NewNop())
	s.Check(context.Background(), fakePinger{})

	_, err := s.recoverChecks()(context.Background(), &healthpb.HealthCheckRequest{Service: Service}, checkInfo,
		func(context.Context, any) (any, error) { panic(errors.New("oh no")) })
	st, ok := status.FromError(err)
	require.True(t, ok)
	require.Equal(t, codes.Internal, st.Code())

	resp, err := s.status.Check(context.Background(), &healthpb.HealthCheckRequest{Service: Service})
	require.NoError(t, err)
	require.Equal(t, healthpb.HealthCheckResponse_NOT_SERVING, resp.GetStatus())

	// overall status is untouched
	resp, err = s.status.Check(context.Background(), &healthpb.HealthCheckRequest{})
	require.NoError(t, err)
	require.Equal(t, healthpb.HealthCheckResponse_SERVING, resp.GetStatus())
}
