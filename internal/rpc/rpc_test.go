package rpc

import (
	"context"
	"fmt"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
	"google.golang.org/protobuf/types/known/emptypb"

	"github.com/danielpatrickdp/fatafat-forecast/internal/history"
	"github.com/danielpatrickdp/fatafat-forecast/internal/predictor"
	"github.com/danielpatrickdp/fatafat-forecast/internal/scoring"
)

// #region helpers

var fixedNow = time.Date(2025, 3, 14, 8, 40, 0, 0, time.UTC)

func newPredictor(t *testing.T, digits ...int) *predictor.Predictor {
	t.Helper()
	obs := make([]history.Observation, len(digits))
	for i, d := range digits {
		obs[i] = history.Observation{
			Date:      "2025-03-13",
			SlotTime:  fmt.Sprintf("%d:30", 10+i%8),
			SlotIndex: 1 + i%8,
			Digit:     d,
			DayLabel:  "Thursday",
		}
	}
	h, err := history.New(obs...)
	require.NoError(t, err)
	cfg := predictor.DefaultConfig()
	cfg.Location = time.FixedZone("IST", 5*3600+1800)
	p, err := predictor.New(h, nil, cfg, nil)
	require.NoError(t, err)
	return p
}

// dial starts an in-memory server over p and returns a connection to it.
func dial(t *testing.T, p *predictor.Predictor) *grpc.ClientConn {
	t.Helper()
	lis := bufconn.Listen(1 << 20)
	gs := grpc.NewServer(grpc.UnaryInterceptor(LoggingInterceptor(zap.NewNop())))
	Register(gs, NewServer(p, func() time.Time { return fixedNow }))
	go gs.Serve(lis)

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	require.NoError(t, err)
	t.Cleanup(func() {
		conn.Close()
		gs.Stop()
	})
	return conn
}

// #endregion helpers

// #region client-tests

func TestClient_Current(t *testing.T) {
	conn := dial(t, newPredictor(t, 7, 7, 7, 7, 7, 7))
	c := NewClientWithConn(conn)

	pred, err := c.Current(context.Background())
	require.NoError(t, err)
	require.Equal(t, 7, pred.PredictedNumber)
	require.Equal(t, scoring.MethodHotNumber, pred.Method)
	require.Equal(t, "15:00", pred.TargetTime)
	require.Equal(t, 4, pred.DrawNumber)
	require.NotEmpty(t, pred.RunID)
	require.InDelta(t, pred.NumberWise.TopScore, pred.Confidence, 1e-9)
}

func TestClient_NumberWise(t *testing.T) {
	conn := dial(t, newPredictor(t, 1, 2, 1, 2, 1, 2, 1, 3, 1))
	c := NewClientWithConn(conn)

	reply, err := c.NumberWise(context.Background())
	require.NoError(t, err)

	var sum float64
	for _, s := range reply.NumberWise.Scores {
		sum += s
	}
	require.InDelta(t, 100.0, sum, 1e-6)
	require.Len(t, reply.NumberWise.Ranked, 10)
	require.Equal(t, []int{3, 1}, reply.NumberWise.SequenceAnalysis.LastPair)
	require.Equal(t, 8, reply.RoundInfo.TotalDrawsToday)
}

func TestClient_StatisticsAndRefresh(t *testing.T) {
	p := newPredictor(t, 5, 2, 5, 9)
	conn := dial(t, p)
	c := NewClientWithConn(conn)

	st, err := c.Statistics(context.Background())
	require.NoError(t, err)
	require.Equal(t, 4, st.TotalDrawsAnalyzed)
	require.Equal(t, 5, st.MostFrequentNumber)
	require.Equal(t, 9, st.LeastFrequentNumber)
	require.Equal(t, map[int]int{2: 1, 5: 2, 9: 1}, st.FrequencyDistribution)

	reply, err := c.Refresh(context.Background())
	require.NoError(t, err)
	require.True(t, reply.Success)
	require.Equal(t, uint64(1), p.CacheStats().Generation)
}

func TestClient_Close(t *testing.T) {
	require.NoError(t, NewClientWithConn(nil).Close())
}

// #endregion client-tests

// #region server-tests

func TestHealth(t *testing.T) {
	conn := dial(t, newPredictor(t))

	resp, err := healthpb.NewHealthClient(conn).Check(context.Background(),
		&healthpb.HealthCheckRequest{Service: ServiceName})
	require.NoError(t, err)
	require.Equal(t, healthpb.HealthCheckResponse_SERVING, resp.Status)
}

func TestUnknownMethod(t *testing.T) {
	conn := dial(t, newPredictor(t))

	err := conn.Invoke(context.Background(), FullMethod("Predict"), &emptypb.Empty{}, &emptypb.Empty{})
	require.Equal(t, codes.Unimplemented, status.Code(err))
}

func TestServe_StopsOnCancel(t *testing.T) {
	srv := NewServer(newPredictor(t), nil)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- Serve(ctx, "127.0.0.1:0", srv, zap.NewNop())
	}()

	time.Sleep(50 * time.Millisecond)
	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Serve did not return after cancel")
	}
}

// #endregion server-tests
