package resumable

import (
	"io"

	sourcequeue "github.com/usherasnick/resumable-input/source-queue"
)

// stream 提供给读取算法的虚拟字节流, 只在worker内被读取.
type stream struct {
	h *Handle
}

func (s *stream) Read(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}
	for {
		head, ok := s.h.sources.PeekFront()
		if !ok {
			s.h.suspend()
			continue
		}
		if sourcequeue.IsEndMarker(head) {
			return 0, io.EOF
		}

		n, err := head.(io.Reader).Read(p)
		if err == io.EOF {
			s.h.sources.DropFront()
			if n > 0 {
				return n, nil
			}
			continue
		}
		return n, err
	}
}

// Close 立即结束流 (hard close), 之后的每次读取都返回io.EOF.
func (s *stream) Close() error {
	s.h.sources.PrependEndMarker()
	return nil
}
