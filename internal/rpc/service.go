package rpc

import (
	"context"

	"google.golang.org/grpc"
)

// AnalysisServiceServer is the service interface a hand-rolled
// grpc.ServiceDesc dispatches to, hand-written in the same shape
// protoc-gen-go-grpc would generate from a .proto file -- this pack
// carries no such file for this service (see types.go's doc comment),
// so the interface and the dispatch glue below are written directly.
type AnalysisServiceServer interface {
	AnalyzePosition(context.Context, *PositionAnalysisRequest) (*PositionAnalysis, error)
	AnalyzePositionStream(*PositionAnalysisRequest, AnalysisService_AnalyzePositionStreamServer) error
	AnalyzeGame(context.Context, *GameAnalysisRequest) (*GameAnalysis, error)
	AnalyzeGameStream(*GameAnalysisRequest, AnalysisService_AnalyzeGameStreamServer) error
	GetBestMoves(context.Context, *GetBestMovesRequest) (*BestMovesResponse, error)
	HealthCheck(context.Context, *HealthCheckRequest) (*HealthCheckResponse, error)
}

// UnimplementedAnalysisServiceServer gives every method a default
// failing implementation, embeddable by Server so adding a new RPC to
// the interface doesn't break existing implementations -- mirroring
// protoc-gen-go-grpc's forward-compatibility convention.
type UnimplementedAnalysisServiceServer struct{}

func (UnimplementedAnalysisServiceServer) AnalyzePosition(context.Context, *PositionAnalysisRequest) (*PositionAnalysis, error) {
	return nil, errUnimplemented("AnalyzePosition")
}
func (UnimplementedAnalysisServiceServer) AnalyzePositionStream(*PositionAnalysisRequest, AnalysisService_AnalyzePositionStreamServer) error {
	return errUnimplemented("AnalyzePositionStream")
}
func (UnimplementedAnalysisServiceServer) AnalyzeGame(context.Context, *GameAnalysisRequest) (*GameAnalysis, error) {
	return nil, errUnimplemented("AnalyzeGame")
}
func (UnimplementedAnalysisServiceServer) AnalyzeGameStream(*GameAnalysisRequest, AnalysisService_AnalyzeGameStreamServer) error {
	return errUnimplemented("AnalyzeGameStream")
}
func (UnimplementedAnalysisServiceServer) GetBestMoves(context.Context, *GetBestMovesRequest) (*BestMovesResponse, error) {
	return nil, errUnimplemented("GetBestMoves")
}
func (UnimplementedAnalysisServiceServer) HealthCheck(context.Context, *HealthCheckRequest) (*HealthCheckResponse, error) {
	return nil, errUnimplemented("HealthCheck")
}

// AnalysisService_AnalyzePositionStreamServer is the server-side
// streaming handle AnalyzePositionStream sends progressively deeper
// PositionAnalysis messages over.
type AnalysisService_AnalyzePositionStreamServer interface {
	Send(*PositionAnalysis) error
	grpc.ServerStream
}

type analysisServiceAnalyzePositionStreamServer struct{ grpc.ServerStream }

func (x *analysisServiceAnalyzePositionStreamServer) Send(m *PositionAnalysis) error {
	return x.ServerStream.SendMsg(m)
}

// AnalysisService_AnalyzeGameStreamServer is the server-side streaming
// handle AnalyzeGameStream sends per-move GameAnalysisProgress messages
// over.
type AnalysisService_AnalyzeGameStreamServer interface {
	Send(*GameAnalysisProgress) error
	grpc.ServerStream
}

type analysisServiceAnalyzeGameStreamServer struct{ grpc.ServerStream }

func (x *analysisServiceAnalyzeGameStreamServer) Send(m *GameAnalysisProgress) error {
	return x.ServerStream.SendMsg(m)
}

func _AnalysisService_AnalyzePosition_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(PositionAnalysisRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(AnalysisServiceServer).AnalyzePosition(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/analysis.AnalysisService/AnalyzePosition"}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(AnalysisServiceServer).AnalyzePosition(ctx, req.(*PositionAnalysisRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func _AnalysisService_AnalyzePositionStream_Handler(srv interface{}, stream grpc.ServerStream) error {
	m := new(PositionAnalysisRequest)
	if err := stream.RecvMsg(m); err != nil {
		return err
	}
	return srv.(AnalysisServiceServer).AnalyzePositionStream(m, &analysisServiceAnalyzePositionStreamServer{stream})
}

func _AnalysisService_AnalyzeGame_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(GameAnalysisRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(AnalysisServiceServer).AnalyzeGame(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/analysis.AnalysisService/AnalyzeGame"}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(AnalysisServiceServer).AnalyzeGame(ctx, req.(*GameAnalysisRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func _AnalysisService_AnalyzeGameStream_Handler(srv interface{}, stream grpc.ServerStream) error {
	m := new(GameAnalysisRequest)
	if err := stream.RecvMsg(m); err != nil {
		return err
	}
	return srv.(AnalysisServiceServer).AnalyzeGameStream(m, &analysisServiceAnalyzeGameStreamServer{stream})
}

func _AnalysisService_GetBestMoves_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(GetBestMovesRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(AnalysisServiceServer).GetBestMoves(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/analysis.AnalysisService/GetBestMoves"}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(AnalysisServiceServer).GetBestMoves(ctx, req.(*GetBestMovesRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func _AnalysisService_HealthCheck_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(HealthCheckRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(AnalysisServiceServer).HealthCheck(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/analysis.AnalysisService/HealthCheck"}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(AnalysisServiceServer).HealthCheck(ctx, req.(*HealthCheckRequest))
	}
	return interceptor(ctx, in, info, handler)
}

// AnalysisService_ServiceDesc is the hand-built grpc.ServiceDesc a
// protoc-generated RegisterAnalysisServiceServer would normally pass to
// grpc.Server.RegisterService; this package exposes it directly instead.
var AnalysisService_ServiceDesc = grpc.ServiceDesc{
	ServiceName: "analysis.AnalysisService",
	HandlerType: (*AnalysisServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "AnalyzePosition", Handler: _AnalysisService_AnalyzePosition_Handler},
		{MethodName: "AnalyzeGame", Handler: _AnalysisService_AnalyzeGame_Handler},
		{MethodName: "GetBestMoves", Handler: _AnalysisService_GetBestMoves_Handler},
		{MethodName: "HealthCheck", Handler: _AnalysisService_HealthCheck_Handler},
	},
	Streams: []grpc.StreamDesc{
		{StreamName: "AnalyzePositionStream", Handler: _AnalysisService_AnalyzePositionStream_Handler, ServerStreams: true},
		{StreamName: "AnalyzeGameStream", Handler: _AnalysisService_AnalyzeGameStream_Handler, ServerStreams: true},
	},
	Metadata: "internal/rpc/service.go",
}

// RegisterAnalysisServiceServer registers srv against s, mirroring the
// generated Register*Server helper's signature.
func RegisterAnalysisServiceServer(s grpc.ServiceRegistrar, srv AnalysisServiceServer) {
	s.RegisterService(&AnalysisService_ServiceDesc, srv)
}
