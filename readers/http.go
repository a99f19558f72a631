package readers

import (
	"bufio"
	"bytes"
	"io"
	"io/ioutil"
	"net/http"

	"github.com/usherasnick/resumable-input/resumable"
)

// bufferedReadFunc 把bufio.Reader绑定在流上, 跨读取周期保留预读的数据.
// 消息开始之前流就结束时返回io.EOF.
func bufferedReadFunc(read func(br *bufio.Reader) (interface{}, error)) resumable.ReadFunc {
	var (
		bound io.Reader
		br    *bufio.Reader
	)
	return func(r io.ReadCloser) (interface{}, error) {
		if br == nil || bound != r {
			bound = r
			br = bufio.NewReader(r)
		}
		// http.ReadResponse reports a bare EOF as io.ErrUnexpectedEOF
		if _, err := br.Peek(1); err != nil {
			return nil, err
		}
		return read(br)
	}
}

// HTTPRequests 返回依次读取HTTP请求的读取算法, 请求体会被完整读出.
func HTTPRequests() resumable.ReadFunc {
	return bufferedReadFunc(func(br *bufio.Reader) (interface{}, error) {
		req, err := http.ReadRequest(br)
		if err != nil {
			return nil, err
		}
		body, err := ioutil.ReadAll(req.Body)
		req.Body.Close() // nolint
		if err != nil {
			return nil, err
		}
		req.Body = ioutil.NopCloser(bytes.NewReader(body))
		return req, nil
	})
}

// HTTPResponses 返回依次读取HTTP响应的读取算法, 响应体会被完整读出.
func HTTPResponses() resumable.ReadFunc {
	return bufferedReadFunc(func(br *bufio.Reader) (interface{}, error) {
		resp, err := http.ReadResponse(br, nil)
		if err != nil {
			return nil, err
		}
		body, err := ioutil.ReadAll(resp.Body)
		resp.Body.Close() // nolint
		if err != nil {
			return nil, err
		}
		resp.Body = ioutil.NopCloser(bytes.NewReader(body))
		return resp, nil
	})
}
