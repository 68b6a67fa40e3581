package board

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/cespare/xxhash"
)

// SnapshotSize is the packed size of a board: 2 bits per cell, 4 cells per
// byte, rounded up to 64 bytes.
const SnapshotSize = 64

var ErrBadSnapshot = errors.New("bad board snapshot")

// Snapshot is the compact serialized board. Cell i (i = x*Height+y) lives in
// byte i/4 at bit offset (i%4)*2.
type Snapshot [SnapshotSize]byte

func Deflate(b *Board) Snapshot {
	var s Snapshot
	for x := 0; x < Width; x++ {
		for y := 0; y < Height; y++ {
			i := x*Height + y
			s[i/4] |= byte(b[x][y]&3) << ((i % 4) * 2)
		}
	}
	return s
}

// Inflate unpacks a snapshot. It fails on the unused cell value 3.
func Inflate(s Snapshot) (Board, error) {
	var b Board
	for x := 0; x < Width; x++ {
		for y := 0; y < Height; y++ {
			i := x*Height + y
			c := Cell(s[i/4] >> ((i % 4) * 2) & 3)
			if c > White {
				return Board{}, fmt.Errorf("%w: cell %d has value %d", ErrBadSnapshot, i, c)
			}
			b[x][y] = c
		}
	}
	return b, nil
}

// MarshalBinary returns the packed cells followed by a little-endian xxhash
// of them.
func (s Snapshot) MarshalBinary() ([]byte, error) {
	out := make([]byte, SnapshotSize+8)
	copy(out, s[:])
	binary.LittleEndian.PutUint64(out[SnapshotSize:], xxhash.Sum64(s[:]))
	return out, nil
}

func (s *Snapshot) UnmarshalBinary(data []byte) error {
	if len(data) != SnapshotSize+8 {
		return fmt.Errorf("%w: expected %d bytes, got %d", ErrBadSnapshot, SnapshotSize+8, len(data))
	}
	sum := binary.LittleEndian.Uint64(data[SnapshotSize:])
	if sum != xxhash.Sum64(data[:SnapshotSize]) {
		return fmt.Errorf("%w: checksum mismatch", ErrBadSnapshot)
	}
	copy(s[:], data[:SnapshotSize])
	return nil
}
