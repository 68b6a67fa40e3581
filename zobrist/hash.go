package zobrist

import (
	"lukechampine.com/frand"

	"github.com/domino14/gomoku/board"
)

// generate a zobrist hash for a gomoku position.
// https://en.wikipedia.org/wiki/Zobrist_hashing
// The side to move is not hashed; callers key on the move count instead.
type Zobrist struct {
	posTable [board.NumCells][board.NumRoles]uint64
}

func (z *Zobrist) Initialize() {
	src := frand.NewSource()
	for i := 0; i < board.NumCells; i++ {
		for j := 0; j < board.NumRoles; j++ {
			// keys use all 64 bits: the top byte picks a table bin.
			for z.posTable[i][j] == 0 {
				z.posTable[i][j] = src.Uint64()
			}
		}
	}
}

// New returns an initialized Zobrist table.
func New() *Zobrist {
	z := &Zobrist{}
	z.Initialize()
	return z
}

func (z *Zobrist) Hash(b *board.Board) uint64 {
	key := uint64(0)
	for x := 0; x < board.Width; x++ {
		for y := 0; y < board.Height; y++ {
			role, ok := board.RoleOf(b[x][y])
			if !ok {
				continue
			}
			key ^= z.posTable[x*board.Height+y][role]
		}
	}
	return key
}

// Toggle adds or removes a stone of the given role at p. It is its own
// inverse: Toggle(Toggle(k, p, r), p, r) == k.
func (z *Zobrist) Toggle(key uint64, p board.Pos, role board.Role) uint64 {
	return key ^ z.posTable[p.Index()][role]
}
