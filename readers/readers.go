// Package readers 一组阻塞式读取算法, 可以直接交给resumable.Handle执行.
//
// 读取算法每次被调用时读取一个单元 (字节、行、JSON值、消息), 流结束时返回io.EOF.
// 需要预读的算法 (JSONValues, HTTPRequests等) 会把缓冲区绑定在流上, 跨读取周期保留.
package readers

import (
	"io"
)

// readByte 读取一个字节, 不预读.
func readByte(r io.Reader) (byte, error) {
	var b [1]byte
	for {
		n, err := r.Read(b[:])
		if n == 1 {
			return b[0], nil
		}
		if err != nil {
			return 0, err
		}
	}
}

// byteReader 将io.Reader适配为io.ByteReader, 每次只读一个字节.
type byteReader struct {
	io.Reader
}

func (br byteReader) ReadByte() (byte, error) {
	return readByte(br.Reader)
}

// Byte 读取一个字节.
func Byte(r io.ReadCloser) (interface{}, error) {
	return readByte(r)
}

// Line 读取一行, 不包括行尾的"\n"或"\r\n".
// 流结束时如果还有未结束的行, 返回该行; 否则返回io.EOF.
func Line(r io.ReadCloser) (interface{}, error) {
	var line []byte
	for {
		b, err := readByte(r)
		if err == io.EOF {
			if len(line) == 0 {
				return nil, io.EOF
			}
			return string(line), nil
		}
		if err != nil {
			return nil, err
		}
		if b == '\n' {
			if n := len(line); n > 0 && line[n-1] == '\r' {
				line = line[:n-1]
			}
			return string(line), nil
		}
		line = append(line, b)
	}
}
