package readers

import (
	"encoding/json"
	"io"

	"github.com/usherasnick/resumable-input/resumable"
)

// JSONValues 返回依次解码JSON值的读取算法.
// 解码器在第一次调用时创建并与流绑定, 解码器预读的数据在下一次调用时继续使用,
// 因此一个返回值只能用于一个Handle.
func JSONValues() resumable.ReadFunc {
	var (
		bound io.Reader
		dec   *json.Decoder
	)
	return func(r io.ReadCloser) (interface{}, error) {
		if dec == nil || bound != r {
			bound = r
			dec = json.NewDecoder(r)
			dec.UseNumber()
		}
		var v interface{}
		if err := dec.Decode(&v); err != nil {
			return nil, err
		}
		return v, nil
	}
}
