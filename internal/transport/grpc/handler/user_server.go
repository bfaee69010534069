package handler

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"user-directory/internal/core/metrics"
	"user-directory/internal/domain"
	"user-directory/internal/stream"
	"user-directory/internal/transport/grpc/userpb"
)

// UserServer gRPC 适配层。不存在的 id 返回 codes.NotFound；删除不存在的 id 是 success=false
type UserServer struct {
	store    domain.UserStore
	streamer *stream.Streamer
	log      *zap.Logger
}

var _ userpb.UserServiceServer = (*UserServer)(nil)

func NewUserServer(store domain.UserStore, streamer *stream.Streamer, l *zap.Logger) *UserServer {
	return &UserServer{store: store, streamer: streamer, log: l}
}

// ToProto 创建时间降为秒级 epoch
func ToProto(u domain.User) *userpb.User {
	return &userpb.User{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Role:      u.Role,
		CreatedAt: u.CreatedAt.Unix(),
	}
}

func notFound(id int64) error {
	return status.Errorf(codes.NotFound, "user not found with id: %d", id)
}

func (s *UserServer) GetUser(_ context.Context, req *userpb.GetUserRequest) (*userpb.User, error) {
	u, ok := s.store.Get(req.GetID())
	if !ok {
		return nil, notFound(req.GetID())
	}
	return ToProto(u), nil
}

func (s *UserServer) GetAllUsers(_ context.Context, _ *userpb.GetAllUsersRequest) (*userpb.GetAllUsersResponse, error) {
	users := s.store.List()
	out := &userpb.GetAllUsersResponse{
		Users:      make([]*userpb.User, 0, len(users)),
		TotalCount: int32(len(users)),
	}
	for _, u := range users {
		out.Users = append(out.Users, ToProto(u))
	}
	return out, nil
}

func (s *UserServer) CreateUser(_ context.Context, req *userpb.CreateUserRequest) (*userpb.User, error) {
	u := s.store.Create(req.Name, req.Email, req.Role)
	s.log.Debug("user created", zap.Int64("id", u.ID))
	return ToProto(u), nil
}

func (s *UserServer) UpdateUser(_ context.Context, req *userpb.UpdateUserRequest) (*userpb.User, error) {
	u, ok := s.store.Update(req.GetID(), req.Name, req.Email, req.Role)
	if !ok {
		return nil, notFound(req.GetID())
	}
	return ToProto(u), nil
}

func (s *UserServer) DeleteUser(_ context.Context, req *userpb.DeleteUserRequest) (*userpb.DeleteUserResponse, error) {
	if s.store.Delete(req.GetID()) {
		return &userpb.DeleteUserResponse{Success: true, Message: "User deleted successfully"}, nil
	}
	return &userpb.DeleteUserResponse{Success: false, Message: "User not found"}, nil
}

// StreamUsers 快照分批推送；批次间等待时客户端取消/超时则以对应状态码失败
func (s *UserServer) StreamUsers(req *userpb.StreamUsersRequest, srv userpb.UserService_StreamUsersServer) error {
	sent := 0
	err := s.streamer.StreamAll(srv.Context(), int(req.GetBatchSize()), func(u domain.User) error {
		if err := srv.Send(ToProto(u)); err != nil {
			return err
		}
		sent++
		metrics.StreamedUsers.WithLabelValues("grpc").Inc()
		return nil
	})
	switch {
	case err == nil:
		metrics.StreamsTotal.WithLabelValues("grpc", "completed").Inc()
		return nil
	case errors.Is(err, stream.ErrStreamCancelled):
		metrics.StreamsTotal.WithLabelValues("grpc", "cancelled").Inc()
		s.log.Info("user stream cancelled", zap.Int("sent", sent), zap.Error(err))
		return status.FromContextError(err).Err()
	default:
		metrics.StreamsTotal.WithLabelValues("grpc", "failed").Inc()
		s.log.Warn("user stream failed", zap.Int("sent", sent), zap.Error(err))
		return status.Convert(err).Err()
	}
}
