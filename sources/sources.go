package sources

import (
	"bytes"
	"io"
	"strings"
)

// Bytes 返回读取b的数据源.
func Bytes(b []byte) io.Reader {
	return bytes.NewReader(b)
}

// String 返回读取s的数据源.
func String(s string) io.Reader {
	return strings.NewReader(s)
}

// Chunked 将b按照size切分成多个数据源, size<=0时只返回一个数据源.
func Chunked(b []byte, size int) []io.Reader {
	if size <= 0 || size >= len(b) {
		return []io.Reader{Bytes(b)}
	}
	chunks := make([]io.Reader, 0, (len(b)+size-1)/size)
	for len(b) > 0 {
		n := size
		if n > len(b) {
			n = len(b)
		}
		chunks = append(chunks, Bytes(b[:n]))
		b = b[n:]
	}
	return chunks
}

type failing struct {
	err error
}

func (f *failing) Read(p []byte) (int, error) {
	return 0, f.err
}

// Failing 返回总是读取失败的数据源.
func Failing(err error) io.Reader {
	return &failing{err: err}
}
