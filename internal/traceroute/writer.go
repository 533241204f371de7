// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

package traceroute

import (
	"bytes"
	"io"
	"strings"
)

var _ io.Writer = (*lineWriter)(nil)

// lineWriter receives the output of one stream of the traceroute tool in
// arbitrarily sized chunks and hands every complete line to onLine.
// A trailing fragment is held back until a newline completes it or Flush is called.
type lineWriter struct {
	buf    []byte
	onLine func(line string)
}

func newLineWriter(onLine func(line string)) *lineWriter {
	return &lineWriter{onLine: onLine}
}

// Write buffers p and emits all lines it completes.
func (w *lineWriter) Write(p []byte) (int, error) {
	w.buf = append(w.buf, p...)

	start := 0
	for {
		i := bytes.IndexByte(w.buf[start:], '\n')
		if i < 0 {
			break
		}
		w.emit(w.buf[start : start+i])
		start += i + 1
	}
	w.buf = append(w.buf[:0], w.buf[start:]...)

	return len(p), nil
}

// Flush emits the buffered fragment, if any. It is called once the stream has ended.
func (w *lineWriter) Flush() {
	if len(w.buf) == 0 {
		return
	}
	line := w.buf
	w.buf = nil
	w.emit(line)
}

func (w *lineWriter) emit(line []byte) {
	w.onLine(strings.TrimRight(string(line), "\r"))
}
