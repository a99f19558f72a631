package sources

import (
	"archive/zip"
	"bytes"
	"errors"
	"io"
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/usherasnick/resumable-input/resumable"
)

func readAll(r io.ReadCloser) (interface{}, error) {
	b, err := ioutil.ReadAll(r)
	return string(b), err
}

func TestChunked(t *testing.T) {
	chunks := Chunked([]byte("abcdefg"), 3)
	assert.Len(t, chunks, 3)

	var got []string
	for _, c := range chunks {
		b, err := ioutil.ReadAll(c)
		assert.Empty(t, err)
		got = append(got, string(b))
	}
	assert.Equal(t, []string{"abc", "def", "g"}, got)

	assert.Len(t, Chunked([]byte("abc"), 0), 1)
	assert.Len(t, Chunked([]byte("abc"), 10), 1)
}

func TestChunkedThroughHandle(t *testing.T) {
	h := resumable.New(Chunked([]byte("hello world"), 2)...)
	h.SoftClose()

	v, sr, err := h.Read(readAll)
	assert.Empty(t, err)
	assert.Nil(t, sr)
	assert.Equal(t, "hello world", v)
}

func TestFailing(t *testing.T) {
	boom := errors.New("boom")
	h := resumable.New(String("ok"), Failing(boom))

	v, _, err := h.Read(readAll)
	assert.Equal(t, boom, err)
	assert.Equal(t, "ok", v)
}

func TestFile(t *testing.T) {
	dir, err := ioutil.TempDir("", "sources")
	assert.Empty(t, err)
	defer os.RemoveAll(dir)

	fn := filepath.Join(dir, "a.txt")
	assert.Empty(t, ioutil.WriteFile(fn, []byte("from file"), 0644))

	h := resumable.New(File(fn), String("!"))
	h.SoftClose()
	v, _, err := h.Read(readAll)
	assert.Empty(t, err)
	assert.Equal(t, "from file!", v)

	_, _, err = resumable.New(File(filepath.Join(dir, "missing"))).Read(readAll)
	assert.True(t, os.IsNotExist(err))
}

func TestZipEntries(t *testing.T) {
	dir, err := ioutil.TempDir("", "sources")
	assert.Empty(t, err)
	defer os.RemoveAll(dir)

	fn := filepath.Join(dir, "a.zip")
	f, err := os.Create(fn)
	assert.Empty(t, err)
	zw := zip.NewWriter(f)
	_, err = zw.Create("dir/")
	assert.Empty(t, err)
	for _, e := range []struct{ name, body string }{
		{"dir/1.txt", "one\n"},
		{"2.txt", "two\n"},
	} {
		w, err := zw.Create(e.name)
		assert.Empty(t, err)
		_, err = w.Write([]byte(e.body))
		assert.Empty(t, err)
	}
	assert.Empty(t, zw.Close())
	assert.Empty(t, f.Close())

	entries, closer, err := ZipEntries(fn)
	assert.Empty(t, err)
	defer closer.Close()
	assert.Len(t, entries, 2)

	h := resumable.New(entries...)
	h.SoftClose()
	v, _, err := h.Read(readAll)
	assert.Empty(t, err)
	assert.Equal(t, "one\ntwo\n", v)

	_, _, err = ZipEntries(filepath.Join(dir, "missing.zip"))
	assert.NotEmpty(t, err)
}

func TestThrottled(t *testing.T) {
	r := Throttled(String("throttled"), &ThrottleCfg{BytesPerSecond: 1024 * 1024})
	b, err := ioutil.ReadAll(r)
	assert.Empty(t, err)
	assert.Equal(t, "throttled", string(b))

	cfg := &ThrottleCfg{}
	Throttled(String(""), cfg)
	assert.Equal(t, __DefaultBytesPerSecond, cfg.BytesPerSecond)
	assert.Equal(t, __DefaultBytesPerSecond, cfg.Burst)
}

func TestFileClosedOnReadError(t *testing.T) {
	dir, err := ioutil.TempDir("", "sources")
	assert.Empty(t, err)
	defer os.RemoveAll(dir)

	// reading a directory fails after a successful open
	lf := File(dir).(*lazyFile)
	_, err = lf.Read(make([]byte, 8))
	assert.NotEmpty(t, err)
	assert.Nil(t, lf.f)

	_, again := lf.Read(make([]byte, 8))
	assert.Equal(t, err, again)
	assert.Nil(t, lf.f)
}

func TestZipEntryClosedOnReadError(t *testing.T) {
	dir, err := ioutil.TempDir("", "sources")
	assert.Empty(t, err)
	defer os.RemoveAll(dir)

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.CreateHeader(&zip.FileHeader{Name: "p.txt", Method: zip.Store})
	assert.Empty(t, err)
	_, err = w.Write([]byte("payload-data"))
	assert.Empty(t, err)
	assert.Empty(t, zw.Close())

	// corrupt the stored body so the checksum no longer matches
	corrupted := bytes.Replace(buf.Bytes(), []byte("payload-data"), []byte("pAyload-data"), 1)
	fn := filepath.Join(dir, "bad.zip")
	assert.Empty(t, ioutil.WriteFile(fn, corrupted, 0644))

	entries, closer, err := ZipEntries(fn)
	assert.Empty(t, err)
	defer closer.Close()
	assert.Len(t, entries, 1)

	e := entries[0].(*zipEntry)
	_, err = ioutil.ReadAll(e)
	assert.Equal(t, zip.ErrChecksum, err)
	assert.Nil(t, e.rc)

	_, err = e.Read(make([]byte, 4))
	assert.Equal(t, zip.ErrChecksum, err)
}
