package server

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

const (
	ServiceName = "docgeo.v1.Resolver"

	// FilenameMetadataKey carries the original upload name on ResolveDocument.
	FilenameMetadataKey = "x-filename"
)

// ResolverServer is the docgeo.v1.Resolver contract. Messages are protobuf
// well-known types so no generated code is needed on either side.
type ResolverServer interface {
	ResolveDocument(context.Context, *wrapperspb.BytesValue) (*structpb.ListValue, error)
	ListResults(context.Context, *structpb.Struct) (*structpb.ListValue, error)
	GetResult(context.Context, *wrapperspb.StringValue) (*structpb.Struct, error)
	DeleteResult(context.Context, *wrapperspb.StringValue) (*emptypb.Empty, error)
	ExportResults(context.Context, *structpb.Struct) (*wrapperspb.BytesValue, error)
	IngestDirectory(context.Context, *wrapperspb.StringValue) (*structpb.Struct, error)
}

var ResolverServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*ResolverServer)(nil),
	Methods: []grpc.MethodDesc{
		unary("ResolveDocument", ResolverServer.ResolveDocument),
		unary("ListResults", ResolverServer.ListResults),
		unary("GetResult", ResolverServer.GetResult),
		unary("DeleteResult", ResolverServer.DeleteResult),
		unary("ExportResults", ResolverServer.ExportResults),
		unary("IngestDirectory", ResolverServer.IngestDirectory),
	},
	Streams: []grpc.StreamDesc{},
}

func RegisterResolverServer(s grpc.ServiceRegistrar, srv ResolverServer) {
	s.RegisterService(&ResolverServiceDesc, srv)
}

func unary[Req any, Resp any](method string, call func(ResolverServer, context.Context, *Req) (*Resp, error)) grpc.MethodDesc {
	fullMethod := "/" + ServiceName + "/" + method
	return grpc.MethodDesc{
		MethodName: method,
		Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
			in := new(Req)
			if err := dec(in); err != nil {
				return nil, err
			}
			if interceptor == nil {
				return call(srv.(ResolverServer), ctx, in)
			}
			info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
			handler := func(ctx context.Context, req any) (any, error) {
				return call(srv.(ResolverServer), ctx, req.(*Req))
			}
			return interceptor(ctx, in, info, handler)
		},
	}
}

// ResolverClient calls docgeo.v1.Resolver over an existing connection.
type ResolverClient struct {
	cc grpc.ClientConnInterface
}

func NewResolverClient(cc grpc.ClientConnInterface) *ResolverClient {
	return &ResolverClient{cc: cc}
}

func invoke[Resp any](ctx context.Context, cc grpc.ClientConnInterface, method string, in any, opts ...grpc.CallOption) (*Resp, error) {
	out := new(Resp)
	if err := cc.Invoke(ctx, "/"+ServiceName+"/"+method, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *ResolverClient) ResolveDocument(ctx context.Context, in *wrapperspb.BytesValue, opts ...grpc.CallOption) (*structpb.ListValue, error) {
	return invoke[structpb.ListValue](ctx, c.cc, "ResolveDocument", in, opts...)
}

func (c *ResolverClient) ListResults(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.ListValue, error) {
	return invoke[structpb.ListValue](ctx, c.cc, "ListResults", in, opts...)
}

func (c *ResolverClient) GetResult(ctx context.Context, in *wrapperspb.StringValue, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return invoke[structpb.Struct](ctx, c.cc, "GetResult", in, opts...)
}

func (c *ResolverClient) DeleteResult(ctx context.Context, in *wrapperspb.StringValue, opts ...grpc.CallOption) (*emptypb.Empty, error) {
	return invoke[emptypb.Empty](ctx, c.cc, "DeleteResult", in, opts...)
}

func (c *ResolverClient) ExportResults(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*wrapperspb.BytesValue, error) {
	return invoke[wrapperspb.BytesValue](ctx, c.cc, "ExportResults", in, opts...)
}

func (c *ResolverClient) IngestDirectory(ctx context.Context, in *wrapperspb.StringValue, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return invoke[structpb.Struct](ctx, c.cc, "IngestDirectory", in, opts...)
}
