package resumable

import (
	"errors"
	"fmt"
)

var (
	// ErrProtocolMisuse 违反单次读取协议的错误, 以下错误均包装了此错误.
	ErrProtocolMisuse = errors.New("resumable: protocol misuse")
	// ErrReadInProgress 已有读取正在进行 (包括挂起中的读取).
	ErrReadInProgress = fmt.Errorf("%w: read already in progress", ErrProtocolMisuse)
	// ErrStaleRead 试图继续已经完成或者已被取代的读取.
	ErrStaleRead = fmt.Errorf("%w: cannot continue a completed or superseded read", ErrProtocolMisuse)
	// ErrResumeFromWorker 在读取算法内部继续自身的读取, 会导致死锁.
	ErrResumeFromWorker = fmt.Errorf("%w: cannot resume a read from its own worker", ErrProtocolMisuse)

	// ErrReaderPanic 读取算法发生panic.
	ErrReaderPanic = errors.New("resumable: reader panicked")
)
