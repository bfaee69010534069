package userpb

import (
	"context"

	"google.golang.org/grpc"
)

const ServiceName = "userdirectory.v1.UserService"

const (
	GetUserFullMethod     = "/" + ServiceName + "/GetUser"
	GetAllUsersFullMethod = "/" + ServiceName + "/GetAllUsers"
	CreateUserFullMethod  = "/" + ServiceName + "/CreateUser"
	UpdateUserFullMethod  = "/" + ServiceName + "/UpdateUser"
	DeleteUserFullMethod  = "/" + ServiceName + "/DeleteUser"
	StreamUsersFullMethod = "/" + ServiceName + "/StreamUsers"
)

type UserService_StreamUsersServer = grpc.ServerStreamingServer[User]

type UserServiceServer interface {
	GetUser(context.Context, *GetUserRequest) (*User, error)
	GetAllUsers(context.Context, *GetAllUsersRequest) (*GetAllUsersResponse, error)
	CreateUser(context.Context, *CreateUserRequest) (*User, error)
	UpdateUser(context.Context, *UpdateUserRequest) (*User, error)
	DeleteUser(context.Context, *DeleteUserRequest) (*DeleteUserResponse, error)
	StreamUsers(*StreamUsersRequest, UserService_StreamUsersServer) error
}

func RegisterUserServiceServer(s grpc.ServiceRegistrar, srv UserServiceServer) {
	s.RegisterService(&UserService_ServiceDesc, srv)
}

// unary 生成 MethodDesc：解码请求、走拦截器链、调用实现
func unary[Req, Resp any](name string, call func(UserServiceServer, context.Context, *Req) (*Resp, error)) grpc.MethodDesc {
	fullMethod := "/" + ServiceName + "/" + name
	return grpc.MethodDesc{
		MethodName: name,
		Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
			in := new(Req)
			if err := dec(in); err != nil {
				return nil, err
			}
			if interceptor == nil {
				return call(srv.(UserServiceServer), ctx, in)
			}
			info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
			handler := func(ctx context.Context, req any) (any, error) {
				return call(srv.(UserServiceServer), ctx, req.(*Req))
			}
			return interceptor(ctx, in, info, handler)
		},
	}
}

func streamUsersHandler(srv any, stream grpc.ServerStream) error {
	m := new(StreamUsersRequest)
	if err := stream.RecvMsg(m); err != nil {
		return err
	}
	return srv.(UserServiceServer).StreamUsers(m, &grpc.GenericServerStream[StreamUsersRequest, User]{ServerStream: stream})
}

var UserService_ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*UserServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		unary("GetUser", UserServiceServer.GetUser),
		unary("GetAllUsers", UserServiceServer.GetAllUsers),
		unary("CreateUser", UserServiceServer.CreateUser),
		unary("UpdateUser", UserServiceServer.UpdateUser),
		unary("DeleteUser", UserServiceServer.DeleteUser),
	},
	Streams: []grpc.StreamDesc{
		{
			StreamName:    "StreamUsers",
			Handler:       streamUsersHandler,
			ServerStreams: true,
		},
	},
	Metadata: "userdirectory/v1/user_service.proto",
}
