package tcpfeed

import (
	"fmt"

	"github.com/google/gopacket"
	"github.com/google/gopacket/layers"
	"github.com/google/gopacket/reassembly"
	"github.com/rs/zerolog/log"

	"github.com/usherasnick/resumable-input/resumable"
)

// direction 一个方向上的句柄与驱动.
type direction struct {
	driver *resumable.Driver
	err    error // 读取出错后不再驱动
}

func newDirection(name string, fn resumable.ReadFunc, sink resumable.Sink) *direction {
	h := resumable.NewHandle(&resumable.HandleCfg{Name: name})
	return &direction{driver: resumable.NewDriver(h, fn, sink)}
}

func (d *direction) feed(data []byte) {
	if d.err != nil || d.driver.Done() {
		return
	}
	d.driver.Handle().Extend(bytesSource(data))
	d.drive()
}

func (d *direction) finish() {
	if d.err != nil || d.driver.Done() {
		return
	}
	d.driver.Handle().SoftClose()
	d.drive()
}

func (d *direction) drive() {
	if d.err = d.driver.Drive(); d.err != nil {
		log.Warn().Err(d.err).Msgf("[%s] stop reading", d.driver.Handle().Name())
	}
}

// tcpStream 每条TCP连接的两个方向各自拥有一个句柄, 在重组回调中同步驱动读取算法.
type tcpStream struct {
	factory *StreamFactory
	key     string
	c2s     *direction
	s2c     *direction
}

func (s *tcpStream) Accept(tcp *layers.TCP, ci gopacket.CaptureInfo, dir reassembly.TCPFlowDirection, nextSeq reassembly.Sequence, start *bool, ac reassembly.AssemblerContext) bool {
	return true
}

func (s *tcpStream) ReassembledSG(sg reassembly.ScatterGather, ac reassembly.AssemblerContext) {
	dir, _, _, _ := sg.Info()
	l, _ := sg.Lengths()
	if l == 0 {
		return
	}
	data := sg.Fetch(l)
	if dir == reassembly.TCPDirClientToServer {
		s.c2s.feed(data)
	} else {
		s.s2c.feed(data)
	}
}

// ReassemblyComplete will be called when stream receive two endpoint FIN packet.
func (s *tcpStream) ReassemblyComplete(ac reassembly.AssemblerContext) bool {
	s.c2s.finish()
	s.s2c.finish()
	s.factory.done(s)
	return true
}

// Err 返回两个方向上第一个读取错误.
func (s *tcpStream) Err() error {
	if s.c2s.err != nil {
		return s.c2s.err
	}
	return s.s2c.err
}

func streamKey(netFlow, tcpFlow gopacket.Flow) string {
	return fmt.Sprintf("%s:%s", netFlow, tcpFlow)
}
