package admin

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

// ServiceName 管理服務在 gRPC 上的完整名稱。
// 訊息全部使用 well-known types，不需要 .proto 產生的程式碼。
const ServiceName = "pong.admin.v1.Admin"

const (
	Admin_GetStats_FullMethodName    = "/" + ServiceName + "/GetStats"
	Admin_ListRooms_FullMethodName   = "/" + ServiceName + "/ListRooms"
	Admin_CloseRoom_FullMethodName   = "/" + ServiceName + "/CloseRoom"
	Admin_KickSession_FullMethodName = "/" + ServiceName + "/KickSession"
	Admin_ListMatches_FullMethodName = "/" + ServiceName + "/ListMatches"
)

// AdminServer 管理服務的 server 端介面
type AdminServer interface {
	GetStats(context.Context, *emptypb.Empty) (*structpb.Struct, error)
	ListRooms(context.Context, *emptypb.Empty) (*structpb.Struct, error)
	CloseRoom(context.Context, *wrapperspb.StringValue) (*emptypb.Empty, error)
	KickSession(context.Context, *wrapperspb.StringValue) (*wrapperspb.BoolValue, error)
	ListMatches(context.Context, *wrapperspb.StringValue) (*structpb.Struct, error)
}

// UnimplementedAdminServer 可嵌入以保持向前相容
type UnimplementedAdminServer struct{}

func (UnimplementedAdminServer) GetStats(context.Context, *emptypb.Empty) (*structpb.Struct, error) {
	return nil, status.Error(codes.Unimplemented, "method GetStats not implemented")
}
func (UnimplementedAdminServer) ListRooms(context.Context, *emptypb.Empty) (*structpb.Struct, error) {
	return nil, status.Error(codes.Unimplemented, "method ListRooms not implemented")
}
func (UnimplementedAdminServer) CloseRoom(context.Context, *wrapperspb.StringValue) (*emptypb.Empty, error) {
	return nil, status.Error(codes.Unimplemented, "method CloseRoom not implemented")
}
func (UnimplementedAdminServer) KickSession(context.Context, *wrapperspb.StringValue) (*wrapperspb.BoolValue, error) {
	return nil, status.Error(codes.Unimplemented, "method KickSession not implemented")
}
func (UnimplementedAdminServer) ListMatches(context.Context, *wrapperspb.StringValue) (*structpb.Struct, error) {
	return nil, status.Error(codes.Unimplemented, "method ListMatches not implemented")
}

// RegisterAdminServer 註冊管理服務
func RegisterAdminServer(s grpc.ServiceRegistrar, srv AdminServer) {
	s.RegisterService(&Admin_ServiceDesc, srv)
}

func _Admin_GetStats_Handler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(emptypb.Empty)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(AdminServer).GetStats(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: Admin_GetStats_FullMethodName}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(AdminServer).GetStats(ctx, req.(*emptypb.Empty))
	}
	return interceptor(ctx, in, info, handler)
}

func _Admin_ListRooms_Handler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(emptypb.Empty)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(AdminServer).ListRooms(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: Admin_ListRooms_FullMethodName}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(AdminServer).ListRooms(ctx, req.(*emptypb.Empty))
	}
	return interceptor(ctx, in, info, handler)
}

func _Admin_CloseRoom_Handler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(wrapperspb.StringValue)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(AdminServer).CloseRoom(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: Admin_CloseRoom_FullMethodName}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(AdminServer).CloseRoom(ctx, req.(*wrapperspb.StringValue))
	}
	return interceptor(ctx, in, info, handler)
}

func _Admin_KickSession_Handler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(wrapperspb.StringValue)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(AdminServer).KickSession(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: Admin_KickSession_FullMethodName}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(AdminServer).KickSession(ctx, req.(*wrapperspb.StringValue))
	}
	return interceptor(ctx, in, info, handler)
}

func _Admin_ListMatches_Handler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(wrapperspb.StringValue)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(AdminServer).ListMatches(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: Admin_ListMatches_FullMethodName}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(AdminServer).ListMatches(ctx, req.(*wrapperspb.StringValue))
	}
	return interceptor(ctx, in, info, handler)
}

// Admin_ServiceDesc 管理服務的 grpc.ServiceDesc
var Admin_ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*AdminServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "GetStats", Handler: _Admin_GetStats_Handler},
		{MethodName: "ListRooms", Handler: _Admin_ListRooms_Handler},
		{MethodName: "CloseRoom", Handler: _Admin_CloseRoom_Handler},
		{MethodName: "KickSession", Handler: _Admin_KickSession_Handler},
		{MethodName: "ListMatches", Handler: _Admin_ListMatches_Handler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "pong/admin/v1/admin.proto",
}

// AdminClient 管理服務的 client 端
type AdminClient struct {
	cc grpc.ClientConnInterface
}

func NewAdminClient(cc grpc.ClientConnInterface) *AdminClient {
	return &AdminClient{cc: cc}
}

func (c *AdminClient) GetStats(ctx context.Context, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, Admin_GetStats_FullMethodName, &emptypb.Empty{}, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *AdminClient) ListRooms(ctx context.Context, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, Admin_ListRooms_FullMethodName, &emptypb.Empty{}, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *AdminClient) CloseRoom(ctx context.Context, roomID string, opts ...grpc.CallOption) error {
	return c.cc.Invoke(ctx, Admin_CloseRoom_FullMethodName, wrapperspb.String(roomID), new(emptypb.Empty), opts...)
}

func (c *AdminClient) KickSession(ctx context.Context, sessionID string, opts ...grpc.CallOption) (bool, error) {
	out := new(wrapperspb.BoolValue)
	if err := c.cc.Invoke(ctx, Admin_KickSession_FullMethodName, wrapperspb.String(sessionID), out, opts...); err != nil {
		return false, err
	}
	return out.GetValue(), nil
}

func (c *AdminClient) ListMatches(ctx context.Context, userID string, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, Admin_ListMatches_FullMethodName, wrapperspb.String(userID), out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}
