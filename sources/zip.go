package sources

import (
	"archive/zip"
	"io"
)

// zipEntry 第一次读取时才打开压缩包内的文件, 读完或者读取出错后自动关闭.
type zipEntry struct {
	file *zip.File
	rc   io.ReadCloser
	err  error
	done bool
}

func (e *zipEntry) Read(p []byte) (int, error) {
	if e.done {
		return 0, io.EOF
	}
	if e.err != nil {
		return 0, e.err
	}
	if e.rc == nil {
		if e.rc, e.err = e.file.Open(); e.err != nil {
			return 0, e.err
		}
	}

	n, err := e.rc.Read(p)
	switch {
	case err == io.EOF:
		e.done = true
	case err != nil:
		e.err = err
	default:
		return n, nil
	}
	e.rc.Close() // nolint
	e.rc = nil
	return n, err
}

// ZipEntries 按照压缩包内的顺序, 将每个普通文件作为一个数据源返回.
// 全部读完之后需要调用closer关闭压缩包.
func ZipEntries(src string) ([]io.Reader, io.Closer, error) {
	zr, err := zip.OpenReader(src)
	if err != nil {
		return nil, nil, err
	}

	var entries []io.Reader
	for _, f := range zr.File {
		if f.FileInfo().IsDir() {
			continue
		}
		entries = append(entries, &zipEntry{file: f})
	}
	return entries, zr, nil
}
