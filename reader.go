// Copyright © 2026, SAS Institute Inc., Cary, NC, USA.  All Rights Reserved.
// SPDX-License-Identifier: BSD-3-Clause

package pdfgraph

import (
	"io"

	"golang.org/x/text/encoding/charmap"
)

// SequentialReader is the cursor-based byte source the Tokenizer reads
// from. Implementations are free to be memory-backed or chunk-buffered
// over a file; the core never assumes a threading model.
type SequentialReader interface {
	Length() int64
	Offset() int64
	EOF() bool

	// ReadByte returns the byte at the cursor. If consume is true the
	// cursor advances past it. Returns -1 at end of input.
	ReadByte(consume bool) int

	// ReadArray returns up to n bytes from the cursor. If consume is
	// true the cursor advances past what was read.
	ReadArray(n int, consume bool) []byte

	// Consume advances the cursor by n bytes without returning them.
	Consume(n int)
}

// OffsetReader is the random-access byte source used by the stream-decode
// phase. It has no cursor and is idempotent: the same (start, end)
// always yields the same bytes.
type OffsetReader interface {
	ReadArray(start, end int64) []byte
}

// ReadChar reads one byte from r as a rune, consuming it. Returns -1 at
// EOF. Defined as a free function (not a method) so both SequentialReader
// implementations share it without duplicating the Latin-1 view logic.
func ReadChar(r SequentialReader) rune {
	b := r.ReadByte(true)
	if b < 0 {
		return -1
	}
	return latin1Rune(byte(b))
}

// latin1Rune decodes one byte as Latin-1 (ISO-8859-1), the view the
// tokenizer uses for all ASCII-range syntax.
func latin1Rune(b byte) rune {
	r, _ := charmap.ISO8859_1.NewDecoder().Bytes([]byte{b})
	if len(r) == 0 {
		return rune(b)
	}
	return []rune(string(r))[0]
}

// ReadString reads n bytes from r as a Latin-1 string.
func ReadString(r SequentialReader, n int, consume bool) string {
	b := r.ReadArray(n, consume)
	runes := make([]rune, len(b))
	for i, c := range b {
		runes[i] = rune(c)
	}
	return string(runes)
}

// ReadStringWhile consumes and returns the run of bytes at the cursor
// that belong to set.
func ReadStringWhile(r SequentialReader, set byteSet) string {
	return string(ReadArrayWhile(r, set))
}

// ReadArrayWhile consumes and returns the run of bytes at the cursor that
// belong to set.
func ReadArrayWhile(r SequentialReader, set byteSet) []byte {
	var out []byte
	for {
		b := r.ReadByte(false)
		if b < 0 || !set.has(byte(b)) {
			return out
		}
		out = append(out, byte(b))
		r.Consume(1)
	}
}

// ReadStringUntil consumes bytes up to (and optionally including) the
// first byte in set, returning what was consumed before the terminator.
func ReadStringUntil(r SequentialReader, set byteSet, consumeTerminator bool) (string, bool) {
	b, found := ReadArrayUntil(r, set, consumeTerminator)
	return string(b), found
}

// ReadArrayUntil is the byte-slice form of ReadStringUntil. found is
// false if EOF was reached before any byte in set.
func ReadArrayUntil(r SequentialReader, set byteSet, consumeTerminator bool) ([]byte, bool) {
	var out []byte
	for {
		b := r.ReadByte(false)
		if b < 0 {
			return out, false
		}
		if set.has(byte(b)) {
			if consumeTerminator {
				r.Consume(1)
			}
			return out, true
		}
		out = append(out, byte(b))
		r.Consume(1)
	}
}

// MemoryReader is a SequentialReader and OffsetReader over an in-memory
// byte slice.
type MemoryReader struct {
	data []byte
	pos  int64
}

// NewMemoryReader wraps data for both sequential and random-access reads.
func NewMemoryReader(data []byte) *MemoryReader {
	return &MemoryReader{data: data}
}

func (m *MemoryReader) Length() int64 { return int64(len(m.data)) }
func (m *MemoryReader) Offset() int64 { return m.pos }
func (m *MemoryReader) EOF() bool     { return m.pos >= int64(len(m.data)) }

func (m *MemoryReader) ReadByte(consume bool) int {
	if m.pos >= int64(len(m.data)) {
		return -1
	}
	b := m.data[m.pos]
	if consume {
		m.pos++
	}
	return int(b)
}

func (m *MemoryReader) ReadArray(n int, consume bool) []byte {
	if n <= 0 {
		return nil
	}
	end := m.pos + int64(n)
	if end > int64(len(m.data)) {
		end = int64(len(m.data))
	}
	out := append([]byte(nil), m.data[m.pos:end]...)
	if consume {
		m.pos = end
	}
	return out
}

func (m *MemoryReader) Consume(n int) {
	m.pos += int64(n)
	if m.pos > int64(len(m.data)) {
		m.pos = int64(len(m.data))
	}
}

// Seek repositions the cursor, used by the parser orchestrator to rewind
// to offset 0 after peeking at the header.
func (m *MemoryReader) Seek(offset int64) { m.pos = offset }

func (m *MemoryReader) ReadArrayAt(start, end int64) []byte {
	if start < 0 {
		start = 0
	}
	if end > int64(len(m.data)) {
		end = int64(len(m.data))
	}
	if end < start {
		return nil
	}
	return append([]byte(nil), m.data[start:end]...)
}

// memoryOffsetReader adapts MemoryReader to OffsetReader without exposing
// Seek on the interface.
type memoryOffsetReader struct{ m *MemoryReader }

func (o memoryOffsetReader) ReadArray(start, end int64) []byte { return o.m.ReadArrayAt(start, end) }

// AsOffsetReader returns an OffsetReader view of m.
func (m *MemoryReader) AsOffsetReader() OffsetReader { return memoryOffsetReader{m} }

// defaultWindowSize is the rolling buffer window for FileReader; the
// rollback margin keeps lookahead safe behind the cursor.
const (
	defaultWindowSize = 128 << 20
	minRollback       = 1 << 10
)

// FileReader is a chunk-buffered SequentialReader over an io.ReaderAt,
// keeping a rolling window with a rollback margin so lookahead never
// fails as long as the cursor stays within the current window.
type FileReader struct {
	src        io.ReaderAt
	length     int64
	windowSize int64

	winStart int64
	buf      []byte
	pos      int64 // absolute offset
}

// NewFileReader wraps src (total length bytes) with the default window
// size.
func NewFileReader(src io.ReaderAt, length int64) *FileReader {
	return NewFileReaderWindow(src, length, defaultWindowSize)
}

// NewFileReaderWindow wraps src with an explicit window size for callers
// that want to bound the rolling buffer.
func NewFileReaderWindow(src io.ReaderAt, length, windowSize int64) *FileReader {
	if windowSize < minRollback*2 {
		windowSize = minRollback * 2
	}
	return &FileReader{src: src, length: length, windowSize: windowSize}
}

func (f *FileReader) Length() int64 { return f.length }
func (f *FileReader) Offset() int64 { return f.pos }
func (f *FileReader) EOF() bool     { return f.pos >= f.length }

func (f *FileReader) ensureLoaded(n int) bool {
	if f.pos >= f.length {
		return false
	}
	if f.buf != nil && f.pos >= f.winStart && f.pos+int64(n) <= f.winStart+int64(len(f.buf)) {
		return true
	}
	// Re-center the window on pos, keeping a rollback margin behind it.
	start := f.pos - minRollback
	if start < 0 {
		start = 0
	}
	size := f.windowSize
	if start+size > f.length {
		size = f.length - start
	}
	buf := make([]byte, size)
	got, _ := f.src.ReadAt(buf, start)
	f.buf = buf[:got]
	f.winStart = start
	return f.pos < f.winStart+int64(len(f.buf))
}

func (f *FileReader) byteAt(offset int64) (byte, bool) {
	if offset < 0 || offset >= f.length {
		return 0, false
	}
	if f.buf == nil || offset < f.winStart || offset >= f.winStart+int64(len(f.buf)) {
		save := f.pos
		f.pos = offset
		if !f.ensureLoaded(1) {
			f.pos = save
			return 0, false
		}
		f.pos = save
	}
	rel := offset - f.winStart
	if rel < 0 || rel >= int64(len(f.buf)) {
		return 0, false
	}
	return f.buf[rel], true
}

func (f *FileReader) ReadByte(consume bool) int {
	b, ok := f.byteAt(f.pos)
	if !ok {
		return -1
	}
	if consume {
		f.pos++
	}
	return int(b)
}

func (f *FileReader) ReadArray(n int, consume bool) []byte {
	if n <= 0 {
		return nil
	}
	out := make([]byte, 0, n)
	p := f.pos
	for i := 0; i < n; i++ {
		b, ok := f.byteAt(p)
		if !ok {
			break
		}
		out = append(out, b)
		p++
	}
	if consume {
		f.pos = p
	}
	return out
}

func (f *FileReader) Consume(n int) {
	f.pos += int64(n)
	if f.pos > f.length {
		f.pos = f.length
	}
}

// Seek repositions the cursor, discarding nothing — the window reloads
// lazily around the new position.
func (f *FileReader) Seek(offset int64) { f.pos = offset }

// FileOffsetReader is the OffsetReader counterpart used serially by the
// stream-decode phase.
type FileOffsetReader struct {
	src io.ReaderAt
}

// NewFileOffsetReader wraps src for random-access reads.
func NewFileOffsetReader(src io.ReaderAt) *FileOffsetReader {
	return &FileOffsetReader{src: src}
}

func (o *FileOffsetReader) ReadArray(start, end int64) []byte {
	if end < start {
		return nil
	}
	buf := make([]byte, end-start)
	n, _ := o.src.ReadAt(buf, start)
	return buf[:n]
}
