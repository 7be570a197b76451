package rpc

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
)

// ServiceName is the fully qualified gRPC service name.
const ServiceName = "fatafat.v1.Forecast"

// Method names, usable with FullMethod.
const (
	MethodCurrent    = "Current"
	MethodNumberWise = "NumberWise"
	MethodStatistics = "Statistics"
	MethodRefresh    = "Refresh"
)

// FullMethod returns "/fatafat.v1.Forecast/<method>".
func FullMethod(method string) string {
	return "/" + ServiceName + "/" + method
}

// ForecastServer is the server API of the Forecast service. Every method
// takes an empty request; responses are JSON-shaped structs.
type ForecastServer interface {
	Current(context.Context, *emptypb.Empty) (*structpb.Struct, error)
	NumberWise(context.Context, *emptypb.Empty) (*structpb.Struct, error)
	Statistics(context.Context, *emptypb.Empty) (*structpb.Struct, error)
	Refresh(context.Context, *emptypb.Empty) (*structpb.Struct, error)
}

type unaryCall func(ForecastServer, context.Context, *emptypb.Empty) (*structpb.Struct, error)

func unaryHandler(method string, call unaryCall) grpc.MethodHandler {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(emptypb.Empty)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(ForecastServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: FullMethod(method)}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(srv.(ForecastServer), ctx, req.(*emptypb.Empty))
		}
		return interceptor(ctx, in, info, handler)
	}
}

// ServiceDesc describes the Forecast service for grpc.Server.RegisterService.
var ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*ForecastServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: MethodCurrent, Handler: unaryHandler(MethodCurrent, ForecastServer.Current)},
		{MethodName: MethodNumberWise, Handler: unaryHandler(MethodNumberWise, ForecastServer.NumberWise)},
		{MethodName: MethodStatistics, Handler: unaryHandler(MethodStatistics, ForecastServer.Statistics)},
		{MethodName: MethodRefresh, Handler: unaryHandler(MethodRefresh, ForecastServer.Refresh)},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "fatafat/v1/forecast.proto",
}
