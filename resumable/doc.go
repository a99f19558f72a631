// Package resumable drives a blocking, synchronous reading algorithm over input
// that arrives in chunks.
//
// The reading algorithm runs in its own worker goroutine against a virtual
// io.ReadCloser. When that stream runs out of queued sources the worker parks
// on an unbuffered channel and the caller gets back a *SuspendedRead. After
// more sources are queued (or the handle is closed) the caller resumes the
// read and the worker continues from exactly where it stopped.
//
//	h := resumable.New(strings.NewReader("aa\nb"))
//	line, _, _ := h.Read(readers.Line)       // "aa"
//	_, sr, _ := h.Read(readers.Line)         // suspended, "b" has no terminator yet
//	h.Extend(strings.NewReader("b\n"))
//	line, _, _ = sr.Resume()                 // "bb"
//
/* Reading Rules

The virtual stream follows the io.Reader contract:

1. A Read() call reads up to len(p) bytes from the source at the head of the queue.
2. n may be less than len(p); sources are never merged into one Read() call.
3. A source that returns io.EOF is dropped and the next one is used; the
   reading algorithm never sees the boundary between two sources.
4. Any other source error is returned as is, the failing source stays queued.
5. Once an end marker reaches the head, every Read() returns n=0, err=io.EOF.

*/
package resumable
