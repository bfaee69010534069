package userpb

// 消息结构与 api/userdirectory/v1/user_service.proto 一一对应

type User struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Role      string `json:"role"`
	CreatedAt int64  `json:"createdAt"` // epoch 秒
}

func (x *User) GetID() int64 {
	if x == nil {
		return 0
	}
	return x.ID
}

type GetUserRequest struct {
	ID int64 `json:"id"`
}

func (x *GetUserRequest) GetID() int64 {
	if x == nil {
		return 0
	}
	return x.ID
}

type GetAllUsersRequest struct{}

type GetAllUsersResponse struct {
	Users      []*User `json:"users"`
	TotalCount int32   `json:"totalCount"`
}

type CreateUserRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

type UpdateUserRequest struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

func (x *UpdateUserRequest) GetID() int64 {
	if x == nil {
		return 0
	}
	return x.ID
}

type DeleteUserRequest struct {
	ID int64 `json:"id"`
}

func (x *DeleteUserRequest) GetID() int64 {
	if x == nil {
		return 0
	}
	return x.ID
}

type DeleteUserResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

type StreamUsersRequest struct {
	BatchSize int32 `json:"batchSize"`
}

func (x *StreamUsersRequest) GetBatchSize() int32 {
	if x == nil {
		return 0
	}
	return x.BatchSize
}
