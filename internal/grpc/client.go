package igrpc

import (
	"context"
	"fmt"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"

	"social-service/internal/models"
)

// FriendshipsClient is for sibling services (chat delivery, notifications)
// that need to ask this service whether two users are friends or look up a user.
type FriendshipsClient struct {
	conn *grpc.ClientConn
}

func NewFriendshipsClient(addr string, opts ...grpc.DialOption) (*FriendshipsClient, error) {
	if addr == "" {
		return nil, fmt.Errorf("friendships gRPC address is required")
	}

	opts = append([]grpc.DialOption{grpc.WithTransportCredentials(insecure.NewCredentials())}, opts...)
	conn, err := grpc.NewClient(addr, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to dial friendships gRPC: %w", err)
	}
	return &FriendshipsClient{conn: conn}, nil
}

func (c *FriendshipsClient) Close() error {
	if c.conn == nil {
		return nil
	}
	return c.conn.Close()
}

func (c *FriendshipsClient) AreFriends(ctx context.Context, userID, friendID int64) (bool, error) {
	req, err := structpb.NewStruct(map[string]any{"user_id": userID, "friend_id": friendID})
	if err != nil {
		return false, err
	}
	out := new(wrapperspb.BoolValue)
	if err := c.conn.Invoke(ctx, AreFriendsMethod, req, out); err != nil {
		return false, err
	}
	return out.GetValue(), nil
}

func (c *FriendshipsClient) GetUser(ctx context.Context, userID int64) (*models.UserSummary, error) {
	out := new(structpb.Struct)
	if err := c.conn.Invoke(ctx, GetUserMethod, wrapperspb.Int64(userID), out); err != nil {
		return nil, err
	}

	fields := out.GetFields()
	user := &models.UserSummary{
		ID:       int64(fields["id"].GetNumberValue()),
		Username: fields["username"].GetStringValue(),
	}
	if pic, ok := fields["profilePicture"].GetKind().(*structpb.Value_StringValue); ok {
		user.ProfilePicture = &pic.StringValue
	}
	return user, nil
}
