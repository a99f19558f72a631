package sourcequeue

import (
	"io"

	"github.com/gammazero/deque"
)

// endMarker 队列中的结束标记, 不是真正的数据源.
type endMarker struct{}

// EndMarker 队列中唯一的结束标记值.
var EndMarker interface{} = endMarker{}

// IsEndMarker 判断队列元素是否为结束标记.
func IsEndMarker(v interface{}) bool {
	_, ok := v.(endMarker)
	return ok
}

// Queue 数据源队列 (FIFO), 元素为io.Reader或者结束标记.
// 非线程安全, 由调用方保证同一时刻只有一个goroutine访问.
type Queue struct {
	q deque.Deque
}

// NewQueue 返回预先装载了sources的Queue实例.
func NewQueue(sources ...io.Reader) *Queue {
	q := &Queue{}
	for _, src := range sources {
		q.Append(src)
	}
	return q
}

// Append 将数据源添加到队尾.
func (q *Queue) Append(src io.Reader) {
	q.q.PushBack(src)
}

// AppendEndMarker 将结束标记添加到队尾 (soft close).
// 队列中已有的数据源全部读完之后, 才会看到结束标记.
func (q *Queue) AppendEndMarker() {
	q.q.PushBack(EndMarker)
}

// PrependEndMarker 将结束标记插入到队头 (hard close).
// 结束标记立即生效, 并且永远不会被移除.
func (q *Queue) PrependEndMarker() {
	if q.q.Len() > 0 && IsEndMarker(q.q.Front()) {
		return
	}
	q.q.PushFront(EndMarker)
}

// PeekFront 返回队头元素但不移除, 队列为空时ok为false.
func (q *Queue) PeekFront() (v interface{}, ok bool) {
	if q.q.Len() == 0 {
		return nil, false
	}
	return q.q.Front(), true
}

// DropFront 移除队头元素.
func (q *Queue) DropFront() {
	if q.q.Len() == 0 {
		return
	}
	q.q.PopFront()
}

// Len 返回队列中元素的个数 (包括结束标记).
func (q *Queue) Len() int {
	return q.q.Len()
}
