package igrpc

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

const (
	ServiceName = "social.internal.Friendships"

	AreFriendsMethod = "/" + ServiceName + "/AreFriends"
	GetUserMethod    = "/" + ServiceName + "/GetUser"
)

// FriendshipsServer is the internal API sibling services call.
// Messages are well-known protobuf types, so no generated stubs exist.
type FriendshipsServer interface {
	AreFriends(context.Context, *structpb.Struct) (*wrapperspb.BoolValue, error)
	GetUser(context.Context, *wrapperspb.Int64Value) (*structpb.Struct, error)
}

func RegisterFriendshipsServer(s grpc.ServiceRegistrar, srv FriendshipsServer) {
	s.RegisterService(&friendshipsServiceDesc, srv)
}

var friendshipsServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*FriendshipsServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "AreFriends", Handler: areFriendsHandler},
		{MethodName: "GetUser", Handler: getUserHandler},
	},
	Streams: []grpc.StreamDesc{},
}

func areFriendsHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(structpb.Struct)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(FriendshipsServer).AreFriends(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: AreFriendsMethod}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(FriendshipsServer).AreFriends(ctx, req.(*structpb.Struct))
	}
	return interceptor(ctx, in, info, handler)
}

func getUserHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(wrapperspb.Int64Value)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(FriendshipsServer).GetUser(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: GetUserMethod}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(FriendshipsServer).GetUser(ctx, req.(*wrapperspb.Int64Value))
	}
	return interceptor(ctx, in, info, handler)
}
