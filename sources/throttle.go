package sources

import (
	"io"
	"time"

	"github.com/juju/ratelimit"
)

const (
	__DefaultBytesPerSecond = 64 * 1024
)

// ThrottleCfg 限速配置
type ThrottleCfg struct {
	BytesPerSecond int `json:"bytes_per_second"`
	Burst          int `json:"burst"` // 令牌桶容量, 默认等于BytesPerSecond
}

// Throttled 返回限速读取r的数据源.
// 令牌不足时读取会阻塞, 而不是挂起.
func Throttled(r io.Reader, cfg *ThrottleCfg) io.Reader {
	if cfg == nil {
		cfg = &ThrottleCfg{}
	}
	if cfg.BytesPerSecond <= 0 {
		cfg.BytesPerSecond = __DefaultBytesPerSecond
	}
	if cfg.Burst <= 0 {
		cfg.Burst = cfg.BytesPerSecond
	}

	interval := time.Second / time.Duration(cfg.BytesPerSecond)
	if interval <= 0 {
		interval = time.Nanosecond
	}
	bucket := ratelimit.NewBucket(interval, int64(cfg.Burst))
	return ratelimit.Reader(r, bucket)
}
