package igrpc

import (
	"context"
	"errors"
	"net"

	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"

	"social-service/internal/apperrors"
	"social-service/internal/models"
)

type FriendChecker interface {
	AreFriends(ctx context.Context, a, b int64) (bool, error)
}

type UserLookup interface {
	GetUserByID(ctx context.Context, id int64) (*models.UserSummary, error)
}

type FriendshipsGRPCServer struct {
	friendships FriendChecker
	users       UserLookup
}

func NewFriendshipsGRPCServer(friendships FriendChecker, users UserLookup) *FriendshipsGRPCServer {
	return &FriendshipsGRPCServer{friendships: friendships, users: users}
}

func StartGRPCServer(ctx context.Context, addr string, friendships FriendChecker, users UserLookup, log *zap.Logger) (*grpc.Server, error) {
	lis, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, err
	}

	srv := grpc.NewServer()
	RegisterFriendshipsServer(srv, NewFriendshipsGRPCServer(friendships, users))

	go func() {
		<-ctx.Done()
		srv.GracefulStop()
	}()

	go func() {
		if err := srv.Serve(lis); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
			log.Error("gRPC server error", zap.Error(err))
		}
	}()

	log.Info("gRPC server listening", zap.String("addr", lis.Addr().String()))
	return srv, nil
}

func (s *FriendshipsGRPCServer) AreFriends(ctx context.Context, req *structpb.Struct) (*wrapperspb.BoolValue, error) {
	userID, ok := int64Field(req, "user_id")
	if !ok {
		return nil, status.Error(codes.InvalidArgument, "user_id is required")
	}
	friendID, ok := int64Field(req, "friend_id")
	if !ok {
		return nil, status.Error(codes.InvalidArgument, "friend_id is required")
	}

	friends, err := s.friendships.AreFriends(ctx, userID, friendID)
	if err != nil {
		return nil, status.Errorf(codes.Internal, "failed to check friendship: %v", err)
	}
	return wrapperspb.Bool(friends), nil
}

func (s *FriendshipsGRPCServer) GetUser(ctx context.Context, req *wrapperspb.Int64Value) (*structpb.Struct, error) {
	if req.GetValue() <= 0 {
		return nil, status.Error(codes.InvalidArgument, "user id is required")
	}

	user, err := s.users.GetUserByID(ctx, req.GetValue())
	if err != nil {
		if errors.Is(err, apperrors.ErrUserNotFound) {
			return nil, status.Error(codes.NotFound, "user not found")
		}
		return nil, status.Errorf(codes.Internal, "failed to fetch user: %v", err)
	}

	fields := map[string]any{
		"id":             user.ID,
		"username":       user.Username,
		"profilePicture": nil,
	}
	if user.ProfilePicture != nil {
		fields["profilePicture"] = *user.ProfilePicture
	}
	return structpb.NewStruct(fields)
}

func int64Field(s *structpb.Struct, key string) (int64, bool) {
	v, ok := s.GetFields()[key]
	if !ok {
		return 0, false
	}
	n, ok := v.GetKind().(*structpb.Value_NumberValue)
	if !ok || n.NumberValue <= 0 {
		return 0, false
	}
	return int64(n.NumberValue), true
}
