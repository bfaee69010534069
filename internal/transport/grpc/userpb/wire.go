package userpb

import (
	"google.golang.org/protobuf/encoding/protowire"
)

// wireMessage proto3 二进制编解码，字段号与 user_service.proto 一致。
// 默认值不写出；解码时未知字段与类型不符的字段直接跳过。
type wireMessage interface {
	appendWire(b []byte) []byte
	consumeWire(b []byte) error
}

var (
	_ wireMessage = (*User)(nil)
	_ wireMessage = (*GetUserRequest)(nil)
	_ wireMessage = (*GetAllUsersRequest)(nil)
	_ wireMessage = (*GetAllUsersResponse)(nil)
	_ wireMessage = (*CreateUserRequest)(nil)
	_ wireMessage = (*UpdateUserRequest)(nil)
	_ wireMessage = (*DeleteUserRequest)(nil)
	_ wireMessage = (*DeleteUserResponse)(nil)
	_ wireMessage = (*StreamUsersRequest)(nil)
)

// ---- encode ----

func appendVarint(b []byte, num protowire.Number, v uint64) []byte {
	if v == 0 {
		return b
	}
	b = protowire.AppendTag(b, num, protowire.VarintType)
	return protowire.AppendVarint(b, v)
}

func appendInt64(b []byte, num protowire.Number, v int64) []byte {
	return appendVarint(b, num, uint64(v))
}

// int32 负数按 proto 规则符号扩展为 10 字节 varint
func appendInt32(b []byte, num protowire.Number, v int32) []byte {
	return appendVarint(b, num, uint64(int64(v)))
}

func appendBool(b []byte, num protowire.Number, v bool) []byte {
	return appendVarint(b, num, protowire.EncodeBool(v))
}

func appendString(b []byte, num protowire.Number, s string) []byte {
	if s == "" {
		return b
	}
	b = protowire.AppendTag(b, num, protowire.BytesType)
	return protowire.AppendString(b, s)
}

// ---- decode ----

// consumeFields 逐字段回调；field 返回 0 表示不认识该字段，按未知字段跳过
func consumeFields(b []byte, field func(num protowire.Number, typ protowire.Type, b []byte) int) error {
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return protowire.ParseError(n)
		}
		b = b[n:]

		m := field(num, typ, b)
		if m == 0 {
			m = protowire.ConsumeFieldValue(num, typ, b)
		}
		if m < 0 {
			return protowire.ParseError(m)
		}
		b = b[m:]
	}
	return nil
}

func consumeVarint(typ protowire.Type, b []byte, set func(uint64)) int {
	if typ != protowire.VarintType {
		return 0
	}
	v, n := protowire.ConsumeVarint(b)
	if n > 0 {
		set(v)
	}
	return n
}

func consumeInt64(typ protowire.Type, b []byte, dst *int64) int {
	return consumeVarint(typ, b, func(v uint64) { *dst = int64(v) })
}

func consumeInt32(typ protowire.Type, b []byte, dst *int32) int {
	return consumeVarint(typ, b, func(v uint64) { *dst = int32(v) })
}

func consumeBool(typ protowire.Type, b []byte, dst *bool) int {
	return consumeVarint(typ, b, func(v uint64) { *dst = protowire.DecodeBool(v) })
}

func consumeString(typ protowire.Type, b []byte, dst *string) int {
	if typ != protowire.BytesType {
		return 0
	}
	v, n := protowire.ConsumeString(b)
	if n > 0 {
		*dst = v
	}
	return n
}

// ---- messages ----

func (x *User) appendWire(b []byte) []byte {
	b = appendInt64(b, 1, x.ID)
	b = appendString(b, 2, x.Name)
	b = appendString(b, 3, x.Email)
	b = appendString(b, 4, x.Role)
	return appendInt64(b, 5, x.CreatedAt)
}

func (x *User) consumeWire(b []byte) error {
	*x = User{}
	return consumeFields(b, func(num protowire.Number, typ protowire.Type, b []byte) int {
		switch num {
		case 1:
			return consumeInt64(typ, b, &x.ID)
		case 2:
			return consumeString(typ, b, &x.Name)
		case 3:
			return consumeString(typ, b, &x.Email)
		case 4:
			return consumeString(typ, b, &x.Role)
		case 5:
			return consumeInt64(typ, b, &x.CreatedAt)
		}
		return 0
	})
}

func (x *GetUserRequest) appendWire(b []byte) []byte { return appendInt64(b, 1, x.ID) }

func (x *GetUserRequest) consumeWire(b []byte) error {
	*x = GetUserRequest{}
	return consumeFields(b, func(num protowire.Number, typ protowire.Type, b []byte) int {
		if num == 1 {
			return consumeInt64(typ, b, &x.ID)
		}
		return 0
	})
}

func (x *GetAllUsersRequest) appendWire(b []byte) []byte { return b }

func (x *GetAllUsersRequest) consumeWire(b []byte) error {
	return consumeFields(b, func(protowire.Number, protowire.Type, []byte) int { return 0 })
}

func (x *GetAllUsersResponse) appendWire(b []byte) []byte {
	for _, u := range x.Users {
		b = protowire.AppendTag(b, 1, protowire.BytesType)
		b = protowire.AppendBytes(b, u.appendWire(nil))
	}
	return appendInt32(b, 2, x.TotalCount)
}

func (x *GetAllUsersResponse) consumeWire(b []byte) error {
	*x = GetAllUsersResponse{}
	var inner error
	err := consumeFields(b, func(num protowire.Number, typ protowire.Type, b []byte) int {
		switch num {
		case 1:
			if typ != protowire.BytesType {
				return 0
			}
			v, n := protowire.ConsumeBytes(b)
			if n < 0 {
				return n
			}
			u := new(User)
			if err := u.consumeWire(v); err != nil {
				inner = err
				return -1
			}
			x.Users = append(x.Users, u)
			return n
		case 2:
			return consumeInt32(typ, b, &x.TotalCount)
		}
		return 0
	})
	if inner != nil {
		return inner
	}
	return err
}

func (x *CreateUserRequest) appendWire(b []byte) []byte {
	b = appendString(b, 1, x.Name)
	b = appendString(b, 2, x.Email)
	return appendString(b, 3, x.Role)
}

func (x *CreateUserRequest) consumeWire(b []byte) error {
	*x = CreateUserRequest{}
	return consumeFields(b, func(num protowire.Number, typ protowire.Type, b []byte) int {
		switch num {
		case 1:
			return consumeString(typ, b, &x.Name)
		case 2:
			return consumeString(typ, b, &x.Email)
		case 3:
			return consumeString(typ, b, &x.Role)
		}
		return 0
	})
}

func (x *UpdateUserRequest) appendWire(b []byte) []byte {
	b = appendInt64(b, 1, x.ID)
	b = appendString(b, 2, x.Name)
	b = appendString(b, 3, x.Email)
	return appendString(b, 4, x.Role)
}

func (x *UpdateUserRequest) consumeWire(b []byte) error {
	*x = UpdateUserRequest{}
	return consumeFields(b, func(num protowire.Number, typ protowire.Type, b []byte) int {
		switch num {
		case 1:
			return consumeInt64(typ, b, &x.ID)
		case 2:
			return consumeString(typ, b, &x.Name)
		case 3:
			return consumeString(typ, b, &x.Email)
		case 4:
			return consumeString(typ, b, &x.Role)
		}
		return 0
	})
}

func (x *DeleteUserRequest) appendWire(b []byte) []byte { return appendInt64(b, 1, x.ID) }

func (x *DeleteUserRequest) consumeWire(b []byte) error {
	*x = DeleteUserRequest{}
	return consumeFields(b, func(num protowire.Number, typ protowire.Type, b []byte) int {
		if num == 1 {
			return consumeInt64(typ, b, &x.ID)
		}
		return 0
	})
}

func (x *DeleteUserResponse) appendWire(b []byte) []byte {
	b = appendBool(b, 1, x.Success)
	return appendString(b, 2, x.Message)
}

func (x *DeleteUserResponse) consumeWire(b []byte) error {
	*x = DeleteUserResponse{}
	return consumeFields(b, func(num protowire.Number, typ protowire.Type, b []byte) int {
		switch num {
		case 1:
			return consumeBool(typ, b, &x.Success)
		case 2:
			return consumeString(typ, b, &x.Message)
		}
		return 0
	})
}

func (x *StreamUsersRequest) appendWire(b []byte) []byte { return appendInt32(b, 1, x.BatchSize) }

func (x *StreamUsersRequest) consumeWire(b []byte) error {
	*x = StreamUsersRequest{}
	return consumeFields(b, func(num protowire.Number, typ protowire.Type, b []byte) int {
		if num == 1 {
			return consumeInt32(typ, b, &x.BatchSize)
		}
		return 0
	})
}
