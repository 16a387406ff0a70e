// Package session implements the open/read/seek-read/close facade (C8,
// spec.md §4.8): it owns the container index, the interface registry,
// and the two demultiplexer cursors for one open BLF file.
package session

import (
	"fmt"
	"io"
	"os"

	"github.com/go-autobus/blf/container"
	"github.com/go-autobus/blf/errs"
	"github.com/go-autobus/blf/iface"
	"github.com/go-autobus/blf/internal/options"
	"github.com/go-autobus/blf/object"
	"github.com/go-autobus/blf/section"
)

// Session is one open BLF file. It is not safe for concurrent use from
// multiple goroutines (spec.md §5: single-threaded cooperative).
type Session struct {
	file   *os.File
	reader *container.Reader
	index  *container.Index
	demux  *object.Demux

	Header section.FileHeader
}

// Open validates and opens path, building the container index and
// priming the session's read cursor at the start of the virtual address
// space (spec.md §4.8 "open").
//
// Returns errs.ErrNotMine if the file is shorter than the file header or
// its magic does not match "LOGG".
func Open(path string, publisher iface.Publisher, opts ...Option) (*Session, error) {
	cfg := defaultConfig()
	if err := options.Apply(cfg, opts...); err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("blf: opening %s: %w", path, err)
	}

	s, err := open(f, publisher, cfg)
	if err != nil {
		f.Close()
		return nil, err
	}
	return s, nil
}

func open(f *os.File, publisher iface.Publisher, cfg *config) (*Session, error) {
	magicBuf := make([]byte, 4)
	n, err := f.ReadAt(magicBuf, 0)
	if n < 4 || string(magicBuf) != section.FileHeaderMagic {
		if err != nil && err != io.EOF {
			return nil, fmt.Errorf("blf: reading file header: %w", err)
		}
		return nil, errs.ErrNotMine
	}

	rest := make([]byte, section.FileHeaderSize-4)
	if n, err := f.ReadAt(rest, 4); n < len(rest) {
		if err != nil && err != io.EOF {
			return nil, fmt.Errorf("blf: reading file header: %w", err)
		}
		return nil, errs.ErrNotMine
	}

	var header section.FileHeader
	if err := header.Parse(rest); err != nil {
		return nil, err
	}

	idx, err := container.BuildIndex(f, int64(header.HeaderLength), cfg.log)
	if err != nil {
		return nil, err
	}

	reader := container.NewReader(idx, f)
	if cfg.maxCachedContainers > 0 {
		reader.SetMaxCachedContainers(cfg.maxCachedContainers)
	}
	registry := iface.New(publisher)

	ctx := &object.Context{
		Reader:        reader,
		Registry:      registry,
		StartOffsetNs: header.StartOffsetNanos(),
		Log:           cfg.log,
		UsePool:       cfg.bufferPoolOn,
	}

	return &Session{
		file:   f,
		reader: reader,
		index:  idx,
		demux:  object.NewDemux(ctx, 0),
		Header: header,
	}, nil
}

// SequentialRead decodes and returns the next record from current_virt,
// advancing it past the object just read (spec.md §4.8). Returns io.EOF
// once the virtual address space is exhausted.
func (s *Session) SequentialRead() (*object.Packet, error) {
	return s.demux.Next()
}

// RandomRead decodes the single record starting at virtOff without
// disturbing current_virt (spec.md §4.8). virtOff is typically a value
// previously returned as a Packet's StartOfObject.
func (s *Session) RandomRead(virtOff int64) (*object.Packet, error) {
	saved := s.demux.CurrentVirt()
	s.demux.Seek(virtOff)
	defer s.demux.Seek(saved)

	return s.demux.Next()
}

// CurrentVirt returns the session's current sequential-read cursor.
func (s *Session) CurrentVirt() int64 { return s.demux.CurrentVirt() }

// StartOfLastObj returns the virtual offset of the most recently emitted
// record, usable as a RandomRead locator (spec.md §4.6).
func (s *Session) StartOfLastObj() int64 { return s.demux.StartOfLastObj() }

// TotalVirtLength returns the size of the file's virtual address space.
func (s *Session) TotalVirtLength() int64 { return s.reader.TotalLength() }

// Close releases the underlying file handle. The container index,
// interface registry, and any cached inflated containers become
// unreachable garbage; there is nothing else to explicitly free
// (spec.md §4.8: "frees index entries, cache buffers, registry
// entries").
func (s *Session) Close() error {
	return s.file.Close()
}
