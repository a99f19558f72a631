package resumable

import (
	"io"

	"github.com/petermattis/goid"
	"github.com/rs/zerolog/log"

	sourcequeue "github.com/usherasnick/resumable-input/source-queue"
)

const (
	__DefaultHandleName = "handle"
)

// ReadFunc 阻塞式读取算法, 从r中读取数据并返回结果.
// 读到流末尾时应返回io.EOF.
type ReadFunc func(r io.ReadCloser) (interface{}, error)

// HandleCfg Handle配置
type HandleCfg struct {
	Name    string `json:"name"`    // 用于日志
	Verbose bool   `json:"verbose"` // 以Info级别记录挂起事件
}

// Handle 增量输入句柄.
// 同一时刻只允许一个读取, 非线程安全.
type Handle struct {
	name    string
	verbose bool

	sources *sourcequeue.Queue
	ch      chan message
	stream  *stream

	generation uint64
	active     *worker
	waiting    bool // 控制端正在等待worker, 此时worker正在运行
}

// New 返回预先装载了sources的Handle实例.
func New(sources ...io.Reader) *Handle {
	return NewHandle(nil, sources...)
}

// NewHandle 按照cfg返回Handle实例.
func NewHandle(cfg *HandleCfg, sources ...io.Reader) *Handle {
	if cfg == nil {
		cfg = &HandleCfg{}
	}
	if cfg.Name == "" {
		cfg.Name = __DefaultHandleName
	}

	h := &Handle{
		name:    cfg.Name,
		verbose: cfg.Verbose,
		sources: sourcequeue.NewQueue(),
		ch:      make(chan message),
	}
	h.stream = &stream{h: h}
	h.Extend(sources...)
	return h
}

// Name 返回句柄名称.
func (h *Handle) Name() string {
	return h.name
}

// Active 是否有读取正在进行 (包括挂起中的读取).
func (h *Handle) Active() bool {
	return h.active != nil
}

// Extend 将数据源添加到队尾.
func (h *Handle) Extend(sources ...io.Reader) {
	for _, src := range sources {
		if src == nil {
			continue
		}
		h.sources.Append(src)
	}
}

// SoftClose 在队尾添加结束标记, 已经添加的数据源仍会被读完.
func (h *Handle) SoftClose() {
	h.sources.AppendEndMarker()
}

// HardClose 在队头插入结束标记, 立即并永久结束输入.
func (h *Handle) HardClose() {
	h.sources.PrependEndMarker()
}

// Read 启动一次读取.
// 读取完成时返回fn的结果; 输入不足时返回挂起的读取, 之后通过Resume继续.
func (h *Handle) Read(fn ReadFunc) (interface{}, *SuspendedRead, error) {
	if h.active != nil {
		log.Warn().Msgf("[%s] read requested while worker-%d is active", h.name, h.active.generation)
		return nil, nil, ErrReadInProgress
	}
	h.waiting = true
	w := h.spawn(fn)
	return h.wait(w)
}

// Resume 继续挂起的读取, 返回值与Read相同.
func (h *Handle) Resume(sr *SuspendedRead) (interface{}, *SuspendedRead, error) {
	if sr == nil || sr.h != h || sr.w != h.active || sr.pause != sr.w.pauses {
		log.Warn().Msgf("[%s] stale resume rejected", h.name)
		return nil, nil, ErrStaleRead
	}
	if h.waiting {
		if goid.Get() == sr.w.gid {
			return nil, nil, ErrResumeFromWorker
		}
		log.Warn().Msgf("[%s] resume requested while worker-%d is running", h.name, sr.w.generation)
		return nil, nil, ErrReadInProgress
	}

	log.Debug().Msgf("[%s] resume worker-%d (goroutine %d)", h.name, sr.w.generation, sr.w.gid)
	h.waiting = true
	h.ch <- message{kind: msgContinue}
	return h.wait(sr.w)
}
