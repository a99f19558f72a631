package resumable

import (
	"io"

	"github.com/rs/zerolog/log"
)

// Sink 处理每次读取的结果.
type Sink func(v interface{}) error

// Driver 在同一个Handle上反复执行同一个读取算法, 并把结果交给sink.
// 输入不足时挂起, 等待下一次Drive.
type Driver struct {
	h       *Handle
	fn      ReadFunc
	sink    Sink
	pending *SuspendedRead
	done    bool
}

// NewDriver 返回Driver实例.
func NewDriver(h *Handle, fn ReadFunc, sink Sink) *Driver {
	return &Driver{
		h:    h,
		fn:   fn,
		sink: sink,
	}
}

// Handle 返回Driver使用的句柄.
func (d *Driver) Handle() *Handle {
	return d.h
}

// Done 读取算法已经返回io.EOF.
func (d *Driver) Done() bool {
	return d.done
}

// Pending 是否有挂起的读取.
func (d *Driver) Pending() bool {
	return d.pending != nil
}

// Drive 尽可能多地读取结果, 直到输入不足、流结束或者出错.
func (d *Driver) Drive() error {
	for !d.done {
		var (
			v   interface{}
			sr  *SuspendedRead
			err error
		)
		if d.pending != nil {
			v, sr, err = d.pending.Resume()
			d.pending = nil
		} else {
			v, sr, err = d.h.Read(d.fn)
		}

		if err == io.EOF {
			log.Debug().Msgf("[%s] driver reached end of stream", d.h.name)
			d.done = true
			return nil
		}
		if err != nil {
			return err
		}
		if sr != nil {
			d.pending = sr
			return nil
		}
		if err = d.sink(v); err != nil {
			return err
		}
	}
	return nil
}
