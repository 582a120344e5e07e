// Package store implements the shared sentence store: a ring of bytes where
// producers deposit variable length payloads and consumers read them back by
// reference.
package store

import (
	"errors"
	"fmt"
	"sync"
)

// DefaultCapacity is the ring size used by the tracker.
const DefaultCapacity = 1024

// Terminator closes every stored sentence, after its line feed.
const Terminator byte = 0

var (
	ErrTooLarge    = errors.New("store: payload larger than capacity")
	ErrEmpty       = errors.New("store: empty payload")
	ErrOverwritten = errors.New("store: region overwritten")
	ErrInvalidRef  = errors.New("store: invalid reference")
)

// Ref is a stable reference to a deposited payload. Pos is the absolute
// position of the first byte since the store was created.
type Ref struct {
	Pos uint64
	Len int
}

// Store is safe for concurrent use.
type Store struct {
	mux  sync.Mutex
	buf  []byte
	head uint64
}

func New(capacity int) *Store {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Store{buf: make([]byte, capacity)}
}

func (s *Store) Cap() int {
	return len(s.buf)
}

// Deposit copies b into a contiguous region of the ring. When the tail of the
// ring cannot hold b the write restarts at the ring start.
func (s *Store) Deposit(b []byte) (Ref, error) {
	if len(b) == 0 {
		return Ref{}, ErrEmpty
	}
	size := uint64(len(s.buf))
	if uint64(len(b)) > size {
		return Ref{}, fmt.Errorf("%w: %d > %d", ErrTooLarge, len(b), size)
	}
	s.mux.Lock()
	defer s.mux.Unlock()

	pos := s.head
	if off := pos % size; off+uint64(len(b)) > size {
		pos += size - off
	}
	off := pos % size
	copy(s.buf[off:off+uint64(len(b))], b)
	s.head = pos + uint64(len(b))
	return Ref{Pos: pos, Len: len(b)}, nil
}

// Read returns a copy of the payload referenced by ref.
func (s *Store) Read(ref Ref) ([]byte, error) {
	if ref.Len <= 0 {
		return nil, ErrInvalidRef
	}
	size := uint64(len(s.buf))
	s.mux.Lock()
	defer s.mux.Unlock()

	end := ref.Pos + uint64(ref.Len)
	if end > s.head || ref.Len > len(s.buf) || ref.Pos%size+uint64(ref.Len) > size {
		return nil, ErrInvalidRef
	}
	if s.head-ref.Pos > size {
		return nil, ErrOverwritten
	}
	off := ref.Pos % size
	data := make([]byte, ref.Len)
	copy(data, s.buf[off:off+uint64(ref.Len)])
	return data, nil
}
