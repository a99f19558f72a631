package resumable

import (
	"fmt"

	"github.com/petermattis/goid"
	"github.com/rs/zerolog/log"
)

type messageKind int

const (
	msgFinished messageKind = iota
	msgSuspended
	msgContinue
)

// message 在控制端与worker之间传递的消息.
type message struct {
	kind  messageKind
	value interface{}
	err   error
}

// worker 一次读取周期对应的worker.
type worker struct {
	generation uint64
	gid        int64  // 由worker自己写入, 控制端只在收到消息后读取
	pauses     uint64 // 只由控制端修改
}

// SuspendedRead 挂起的读取, 只能继续一次.
type SuspendedRead struct {
	h     *Handle
	w     *worker
	pause uint64
}

// Resume 继续挂起的读取, 等价于h.Resume(sr).
func (sr *SuspendedRead) Resume() (interface{}, *SuspendedRead, error) {
	if sr == nil {
		return nil, nil, ErrStaleRead
	}
	return sr.h.Resume(sr)
}

func (h *Handle) spawn(fn ReadFunc) *worker {
	h.generation++
	w := &worker{generation: h.generation}
	h.active = w
	log.Debug().Msgf("[%s] spawn worker-%d", h.name, w.generation)
	go h.run(w, fn)
	return w
}

func (h *Handle) run(w *worker, fn ReadFunc) {
	w.gid = goid.Get()

	msg := message{kind: msgFinished}
	func() {
		defer func() {
			if r := recover(); r != nil {
				msg.value = nil
				msg.err = fmt.Errorf("%w: %v", ErrReaderPanic, r)
			}
		}()
		msg.value, msg.err = fn(h.stream)
	}()
	h.ch <- msg
}

// suspend 在worker内调用, 通知控制端并等待Continue.
func (h *Handle) suspend() {
	h.ch <- message{kind: msgSuspended}
	if msg := <-h.ch; msg.kind != msgContinue {
		panic(fmt.Sprintf("resumable: worker got unexpected message %d while suspended", msg.kind))
	}
}

// wait 控制端等待worker的下一条消息.
func (h *Handle) wait(w *worker) (interface{}, *SuspendedRead, error) {
	msg := <-h.ch
	h.waiting = false
	switch msg.kind {
	case msgFinished:
		h.active = nil
		log.Debug().Err(msg.err).Msgf("[%s] worker-%d finished", h.name, w.generation)
		return msg.value, nil, msg.err
	case msgSuspended:
		w.pauses++
		ev := log.Debug()
		if h.verbose {
			ev = log.Info()
		}
		ev.Msgf("[%s] worker-%d (goroutine %d) suspended, pause %d", h.name, w.generation, w.gid, w.pauses)
		return nil, &SuspendedRead{h: h, w: w, pause: w.pauses}, nil
	default:
		panic(fmt.Sprintf("resumable: controller got unexpected message %d", msg.kind))
	}
}
