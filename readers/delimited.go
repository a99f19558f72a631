package readers

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"google.golang.org/protobuf/encoding/protowire"
	"google.golang.org/protobuf/proto"

	"github.com/usherasnick/resumable-input/resumable"
)

const (
	__DefaultMaxMessageSize = 4 * 1024 * 1024
)

// ErrMessageTooLarge 消息长度超过上限.
var ErrMessageTooLarge = errors.New("readers: delimited message too large")

// DelimitedMessages 返回依次读取varint长度前缀的protobuf消息的读取算法.
// newMsg为每条消息创建一个空的消息实例.
func DelimitedMessages(newMsg func() proto.Message) resumable.ReadFunc {
	return func(r io.ReadCloser) (interface{}, error) {
		size, err := binary.ReadUvarint(byteReader{r})
		if err != nil {
			return nil, err
		}
		if size > __DefaultMaxMessageSize {
			return nil, fmt.Errorf("%w: %d bytes", ErrMessageTooLarge, size)
		}

		buf := make([]byte, size)
		if _, err = io.ReadFull(r, buf); err != nil {
			if err == io.EOF {
				err = io.ErrUnexpectedEOF
			}
			return nil, err
		}

		m := newMsg()
		if err = proto.Unmarshal(buf, m); err != nil {
			return nil, err
		}
		return m, nil
	}
}

// AppendDelimited 将m编码为带varint长度前缀的字节, 追加到b后面.
func AppendDelimited(b []byte, m proto.Message) ([]byte, error) {
	body, err := proto.Marshal(m)
	if err != nil {
		return nil, err
	}
	b = protowire.AppendVarint(b, uint64(len(body)))
	return append(b, body...), nil
}
