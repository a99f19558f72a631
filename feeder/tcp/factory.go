package tcpfeed

import (
	"bytes"
	"io"
	"sync"

	"github.com/google/gopacket"
	"github.com/google/gopacket/layers"
	"github.com/google/gopacket/reassembly"
	"github.com/rs/zerolog/log"

	"github.com/usherasnick/resumable-input/resumable"
)

// Sink 处理某条连接某个方向上的读取结果.
type Sink func(key string, dir reassembly.TCPFlowDirection, v interface{}) error

// Cfg tcp输入配置
type Cfg struct {
	// NewClientReader 为每条连接的client->server方向创建读取算法
	NewClientReader func() resumable.ReadFunc
	// NewServerReader 为每条连接的server->client方向创建读取算法
	NewServerReader func() resumable.ReadFunc
	Sink            Sink
}

// StreamFactory 创建新的tcpStream, 每个方向的数据交给各自的读取算法.
type StreamFactory struct {
	mu      sync.Mutex
	cfg     *Cfg
	streams map[string]*tcpStream
}

// NewStreamFactory 返回StreamFactory实例.
func NewStreamFactory(cfg *Cfg) *StreamFactory {
	return &StreamFactory{
		cfg:     cfg,
		streams: make(map[string]*tcpStream),
	}
}

func (f *StreamFactory) New(netFlow, tcpFlow gopacket.Flow, tcp *layers.TCP, ac reassembly.AssemblerContext) reassembly.Stream {
	key := streamKey(netFlow, tcpFlow)
	s := &tcpStream{
		factory: f,
		key:     key,
		c2s:     newDirection(key+" c2s", f.cfg.NewClientReader(), f.sink(key, reassembly.TCPDirClientToServer)),
		s2c:     newDirection(key+" s2c", f.cfg.NewServerReader(), f.sink(key, reassembly.TCPDirServerToClient)),
	}

	f.mu.Lock()
	f.streams[key] = s
	f.mu.Unlock()

	log.Debug().Msgf("new tcp stream %s", key)
	return s
}

// Active 返回尚未结束的连接数.
func (f *StreamFactory) Active() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.streams)
}

func (f *StreamFactory) done(s *tcpStream) {
	f.mu.Lock()
	delete(f.streams, s.key)
	f.mu.Unlock()

	if err := s.Err(); err != nil {
		log.Warn().Err(err).Msgf("tcp stream %s completed with error", s.key)
		return
	}
	log.Debug().Msgf("tcp stream %s completed", s.key)
}

func (f *StreamFactory) sink(key string, dir reassembly.TCPFlowDirection) resumable.Sink {
	return func(v interface{}) error {
		return f.cfg.Sink(key, dir, v)
	}
}

// bytesSource 重组数据可能引用内部缓冲区, 复制后再入队.
func bytesSource(data []byte) io.Reader {
	return bytes.NewReader(append([]byte(nil), data...))
}
