package grpc

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

// ServiceName is the fully qualified gRPC service name
const ServiceName = "fundsflow.v1.TransferService"

// Full method names
const (
	StartTransferMethod = "/" + ServiceName + "/StartTransfer"
	GetStateMethod      = "/" + ServiceName + "/GetState"
	WatchStateMethod    = "/" + ServiceName + "/WatchState"
	ListAttemptsMethod  = "/" + ServiceName + "/ListAttempts"
	GetOverviewMethod   = "/" + ServiceName + "/GetOverview"
)

// TransferServiceServer is the server API of the transfer service.
// Messages are protobuf well-known types so no generated code is needed.
type TransferServiceServer interface {
	StartTransfer(ctx context.Context, req *wrapperspb.StringValue) (*structpb.Struct, error)
	GetState(ctx context.Context, req *emptypb.Empty) (*structpb.Struct, error)
	WatchState(req *emptypb.Empty, stream WatchStateServer) error
	ListAttempts(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
	GetOverview(ctx context.Context, req *emptypb.Empty) (*structpb.Struct, error)
}

// WatchStateServer is the server side of the WatchState stream
type WatchStateServer interface {
	Send(snapshot *structpb.Struct) error
	grpc.ServerStream
}

type watchStateServer struct {
	grpc.ServerStream
}

func (s *watchStateServer) Send(snapshot *structpb.Struct) error {
	return s.ServerStream.SendMsg(snapshot)
}

// TransferServiceDesc describes the transfer service to grpc.Server
var TransferServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*TransferServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "StartTransfer", Handler: startTransferHandler},
		{MethodName: "GetState", Handler: getStateHandler},
		{MethodName: "ListAttempts", Handler: listAttemptsHandler},
		{MethodName: "GetOverview", Handler: getOverviewHandler},
	},
	Streams: []grpc.StreamDesc{
		{StreamName: "WatchState", Handler: watchStateHandler, ServerStreams: true},
	},
}

// RegisterTransferServiceServer registers srv on the given registrar
func RegisterTransferServiceServer(s grpc.ServiceRegistrar, srv TransferServiceServer) {
	s.RegisterService(&TransferServiceDesc, srv)
}

func startTransferHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(wrapperspb.StringValue)
	if err := dec(in); err != nil {
		return nil, err
	}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(TransferServiceServer).StartTransfer(ctx, req.(*wrapperspb.StringValue))
	}
	return invoke(ctx, in, srv, StartTransferMethod, handler, interceptor)
}

func getStateHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(emptypb.Empty)
	if err := dec(in); err != nil {
		return nil, err
	}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(TransferServiceServer).GetState(ctx, req.(*emptypb.Empty))
	}
	return invoke(ctx, in, srv, GetStateMethod, handler, interceptor)
}

func listAttemptsHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(structpb.Struct)
	if err := dec(in); err != nil {
		return nil, err
	}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(TransferServiceServer).ListAttempts(ctx, req.(*structpb.Struct))
	}
	return invoke(ctx, in, srv, ListAttemptsMethod, handler, interceptor)
}

func getOverviewHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(emptypb.Empty)
	if err := dec(in); err != nil {
		return nil, err
	}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(TransferServiceServer).GetOverview(ctx, req.(*emptypb.Empty))
	}
	return invoke(ctx, in, srv, GetOverviewMethod, handler, interceptor)
}

func watchStateHandler(srv interface{}, stream grpc.ServerStream) error {
	in := new(emptypb.Empty)
	if err := stream.RecvMsg(in); err != nil {
		return err
	}
	return srv.(TransferServiceServer).WatchState(in, &watchStateServer{ServerStream: stream})
}

// invoke runs handler through the interceptor chain, if any
func invoke(ctx context.Context, req, srv interface{}, method string, handler grpc.UnaryHandler, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	if interceptor == nil {
		return handler(ctx, req)
	}
	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: method,
	}
	return interceptor(ctx, req, info, handler)
}
