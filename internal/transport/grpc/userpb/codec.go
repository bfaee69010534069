package userpb

import (
	"encoding/json"
	"fmt"

	"google.golang.org/grpc/encoding"
	grpcproto "google.golang.org/grpc/encoding/proto"
	"google.golang.org/grpc/mem"
)

// CodecName 可选的 JSON 编码（content-type application/grpc+json），调试用
const CodecName = "json"

func init() {
	// 覆盖默认 proto codec：本包消息走手写 wire 编码，其余（health 等）交回原 codec
	encoding.RegisterCodecV2(protoCodec{base: encoding.GetCodecV2(grpcproto.Name)})
	encoding.RegisterCodecV2(jsonCodec{})
}

type protoCodec struct{ base encoding.CodecV2 }

func (protoCodec) Name() string { return grpcproto.Name }

func (c protoCodec) Marshal(v any) (mem.BufferSlice, error) {
	if m, ok := v.(wireMessage); ok {
		return mem.BufferSlice{mem.SliceBuffer(m.appendWire(nil))}, nil
	}
	return c.base.Marshal(v)
}

func (c protoCodec) Unmarshal(data mem.BufferSlice, v any) error {
	if m, ok := v.(wireMessage); ok {
		if err := m.consumeWire(data.Materialize()); err != nil {
			return fmt.Errorf("proto codec unmarshal %T: %w", v, err)
		}
		return nil
	}
	return c.base.Unmarshal(data, v)
}

type jsonCodec struct{}

func (jsonCodec) Name() string { return CodecName }

func (jsonCodec) Marshal(v any) (mem.BufferSlice, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("json codec marshal %T: %w", v, err)
	}
	return mem.BufferSlice{mem.SliceBuffer(b)}, nil
}

func (jsonCodec) Unmarshal(data mem.BufferSlice, v any) error {
	if err := json.Unmarshal(data.Materialize(), v); err != nil {
		return fmt.Errorf("json codec unmarshal %T: %w", v, err)
	}
	return nil
}
