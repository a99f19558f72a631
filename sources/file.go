package sources

import (
	"io"
	"os"

	"github.com/rs/zerolog/log"
)

// lazyFile 第一次读取时才打开文件, 读完或者读取出错后自动关闭.
// 出错后每次读取都返回同一个错误.
type lazyFile struct {
	path string
	f    *os.File
	err  error
	done bool
}

// File 返回读取path的数据源.
func File(path string) io.Reader {
	return &lazyFile{path: path}
}

func (lf *lazyFile) Read(p []byte) (int, error) {
	if lf.done {
		return 0, io.EOF
	}
	if lf.err != nil {
		return 0, lf.err
	}
	if lf.f == nil {
		if lf.f, lf.err = os.Open(lf.path); lf.err != nil {
			return 0, lf.err
		}
	}

	n, err := lf.f.Read(p)
	switch {
	case err == io.EOF:
		lf.done = true
		lf.close()
	case err != nil:
		lf.err = err
		lf.close()
	}
	return n, err
}

func (lf *lazyFile) close() {
	if cerr := lf.f.Close(); cerr != nil {
		log.Warn().Err(cerr).Msgf("failed to close %s", lf.path)
	}
	lf.f = nil
}
