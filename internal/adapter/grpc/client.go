package grpc

import (
	"context"
	"errors"
	"io"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

// TransferClient calls the transfer service over a client connection
type TransferClient struct {
	cc grpc.ClientConnInterface
}

// NewTransferClient creates a new TransferClient
func NewTransferClient(cc grpc.ClientConnInterface) *TransferClient {
	return &TransferClient{cc: cc}
}

// StartTransfer starts a transfer for the raw amount and waits for it to settle
func (c *TransferClient) StartTransfer(ctx context.Context, rawAmount string, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, StartTransferMethod, wrapperspb.String(rawAmount), out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

// GetState returns the current snapshot
func (c *TransferClient) GetState(ctx context.Context, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, GetStateMethod, &emptypb.Empty{}, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

// ListAttempts returns a page of the attempt history
func (c *TransferClient) ListAttempts(ctx context.Context, limit, offset int, opts ...grpc.CallOption) (*structpb.Struct, error) {
	in, err := structpb.NewStruct(map[string]interface{}{
		"limit":  limit,
		"offset": offset,
	})
	if err != nil {
		return nil, err
	}

	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, ListAttemptsMethod, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

// GetOverview returns the account overview
func (c *TransferClient) GetOverview(ctx context.Context, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, GetOverviewMethod, &emptypb.Empty{}, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

// StateStream receives snapshots from WatchState
type StateStream struct {
	grpc.ClientStream
}

// Recv blocks until the next snapshot arrives
func (s *StateStream) Recv() (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := s.ClientStream.RecvMsg(out); err != nil {
		return nil, err
	}
	return out, nil
}

// WatchState opens a stream of snapshots, starting with the current one
func (c *TransferClient) WatchState(ctx context.Context, opts ...grpc.CallOption) (*StateStream, error) {
	stream, err := c.cc.NewStream(ctx, &TransferServiceDesc.Streams[0], WatchStateMethod, opts...)
	if err != nil {
		return nil, err
	}
	// io.EOF means the server already ended the stream; Recv reports why
	if err := stream.SendMsg(&emptypb.Empty{}); err != nil && !errors.Is(err, io.EOF) {
		return nil, err
	}
	if err := stream.CloseSend(); err != nil {
		return nil, err
	}
	return &StateStream{ClientStream: stream}, nil
}
