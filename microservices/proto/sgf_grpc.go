package proto

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

// The service only exchanges well-known types, so the descriptor is declared
// here instead of being generated from sgf.proto.

const (
	SgfService_ServiceName              = "sgf.v1.SgfService"
	SgfService_Parse_FullMethodName     = "/sgf.v1.SgfService/Parse"
	SgfService_Normalize_FullMethodName = "/sgf.v1.SgfService/Normalize"
	SgfService_Info_FullMethodName      = "/sgf.v1.SgfService/Info"
)

type SgfServiceClient interface {
	Parse(ctx context.Context, in *wrapperspb.StringValue, opts ...grpc.CallOption) (*structpb.Value, error)
	Normalize(ctx context.Context, in *wrapperspb.StringValue, opts ...grpc.CallOption) (*wrapperspb.StringValue, error)
	Info(ctx context.Context, in *wrapperspb.StringValue, opts ...grpc.CallOption) (*structpb.Struct, error)
}

type sgfServiceClient struct {
	cc grpc.ClientConnInterface
}

func NewSgfServiceClient(cc grpc.ClientConnInterface) SgfServiceClient {
	return &sgfServiceClient{cc}
}

func (c *sgfServiceClient) Parse(ctx context.Context, in *wrapperspb.StringValue, opts ...grpc.CallOption) (*structpb.Value, error) {
	out := new(structpb.Value)
	if err := c.cc.Invoke(ctx, SgfService_Parse_FullMethodName, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *sgfServiceClient) Normalize(ctx context.Context, in *wrapperspb.StringValue, opts ...grpc.CallOption) (*wrapperspb.StringValue, error) {
	out := new(wrapperspb.StringValue)
	if err := c.cc.Invoke(ctx, SgfService_Normalize_FullMethodName, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *sgfServiceClient) Info(ctx context.Context, in *wrapperspb.StringValue, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, SgfService_Info_FullMethodName, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

// SgfServiceServer must embed UnimplementedSgfServiceServer.
type SgfServiceServer interface {
	Parse(context.Context, *wrapperspb.StringValue) (*structpb.Value, error)
	Normalize(context.Context, *wrapperspb.StringValue) (*wrapperspb.StringValue, error)
	Info(context.Context, *wrapperspb.StringValue) (*structpb.Struct, error)
	mustEmbedUnimplementedSgfServiceServer()
}

type UnimplementedSgfServiceServer struct{}

func (UnimplementedSgfServiceServer) Parse(context.Context, *wrapperspb.StringValue) (*structpb.Value, error) {
	return nil, status.Errorf(codes.Unimplemented, "method Parse not implemented")
}

func (UnimplementedSgfServiceServer) Normalize(context.Context, *wrapperspb.StringValue) (*wrapperspb.StringValue, error) {
	return nil, status.Errorf(codes.Unimplemented, "method Normalize not implemented")
}

func (UnimplementedSgfServiceServer) Info(context.Context, *wrapperspb.StringValue) (*structpb.Struct, error) {
	return nil, status.Errorf(codes.Unimplemented, "method Info not implemented")
}

func (UnimplementedSgfServiceServer) mustEmbedUnimplementedSgfServiceServer() {}

func RegisterSgfServiceServer(s grpc.ServiceRegistrar, srv SgfServiceServer) {
	s.RegisterService(&SgfService_ServiceDesc, srv)
}

func _SgfService_Parse_Handler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(wrapperspb.StringValue)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(SgfServiceServer).Parse(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: SgfService_Parse_FullMethodName}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(SgfServiceServer).Parse(ctx, req.(*wrapperspb.StringValue))
	}
	return interceptor(ctx, in, info, handler)
}

func _SgfService_Normalize_Handler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(wrapperspb.StringValue)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(SgfServiceServer).Normalize(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: SgfService_Normalize_FullMethodName}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(SgfServiceServer).Normalize(ctx, req.(*wrapperspb.StringValue))
	}
	return interceptor(ctx, in, info, handler)
}

func _SgfService_Info_Handler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(wrapperspb.StringValue)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(SgfServiceServer).Info(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: SgfService_Info_FullMethodName}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(SgfServiceServer).Info(ctx, req.(*wrapperspb.StringValue))
	}
	return interceptor(ctx, in, info, handler)
}

var SgfService_ServiceDesc = grpc.ServiceDesc{
	ServiceName: SgfService_ServiceName,
	HandlerType: (*SgfServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Parse", Handler: _SgfService_Parse_Handler},
		{MethodName: "Normalize", Handler: _SgfService_Normalize_Handler},
		{MethodName: "Info", Handler: _SgfService_Info_Handler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "sgf.proto",
}
