package rpc

import (
	"context"
	"encoding/json"
	"fmt"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/danielpatrickdp/fatafat-forecast/internal/predictor"
	"github.com/danielpatrickdp/fatafat-forecast/internal/schedule"
)

// #region types

// NumberWiseReply is the decoded NumberWise response.
type NumberWiseReply struct {
	NumberWise predictor.NumberWise `json:"number_wise_predictions"`
	RoundInfo  schedule.RoundInfo   `json:"round_info"`
}

// RefreshReply is the decoded Refresh response.
type RefreshReply struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// #endregion types

// #region client-struct
// Client wraps a connection to a Forecast server.
type Client struct {
	conn *grpc.ClientConn
	cc   grpc.ClientConnInterface
}
// #endregion client-struct

// #region constructor
// NewClient connects to the Forecast server at addr.
func NewClient(addr string) (*Client, error) {
	conn, err := grpc.NewClient(addr, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return nil, fmt.Errorf("grpc dial %s: %w", addr, err)
	}
	return &Client{conn: conn, cc: conn}, nil
}

// NewClientWithConn creates a Client over an existing connection, which the
// caller keeps ownership of.
func NewClientWithConn(cc grpc.ClientConnInterface) *Client {
	return &Client{cc: cc}
}
// #endregion constructor

// #region close
// Close shuts down a connection opened by NewClient.
func (c *Client) Close() error {
	if c.conn == nil {
		return nil
	}
	return c.conn.Close()
}
// #endregion close

// #region calls
// Current fetches the round prediction.
func (c *Client) Current(ctx context.Context) (predictor.Prediction, error) {
	var out predictor.Prediction
	err := c.call(ctx, MethodCurrent, &out)
	return out, err
}

// NumberWise fetches the full distribution.
func (c *Client) NumberWise(ctx context.Context) (NumberWiseReply, error) {
	var out NumberWiseReply
	err := c.call(ctx, MethodNumberWise, &out)
	return out, err
}

// Statistics fetches the sequence summary.
func (c *Client) Statistics(ctx context.Context) (predictor.Statistics, error) {
	var out predictor.Statistics
	err := c.call(ctx, MethodStatistics, &out)
	return out, err
}

// Refresh asks the server to invalidate its analysis cache.
func (c *Client) Refresh(ctx context.Context) (RefreshReply, error) {
	var out RefreshReply
	err := c.call(ctx, MethodRefresh, &out)
	return out, err
}

func (c *Client) call(ctx context.Context, method string, out any) error {
	resp := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, FullMethod(method), &emptypb.Empty{}, resp); err != nil {
		return fmt.Errorf("%s rpc: %w", method, err)
	}
	data, err := json.Marshal(resp.AsMap())
	if err != nil {
		return fmt.Errorf("%s reply: %w", method, err)
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("%s reply: %w", method, err)
	}
	return nil
}
// #endregion calls
