package eval

// Tables bundles the pawn and material caches. Each search worker owns
// one; entries are probe-or-recompute with no locking, so a Tables value
// must never be shared between concurrent evaluations.
type Tables struct {
	pawns    [pawnTableSize]PawnEntry
	material [materialTableSize]MaterialEntry
}

const (
	pawnTableSize     = 1 << 14
	materialTableSize = 1 << 12
)

// NewTables allocates empty caches.
func NewTables() *Tables {
	return &Tables{}
}

func pawnIndex(key uint64) uint64 {
	return (key * 0x9e3779b97f4a7c15) >> 50 % pawnTableSize
}

func materialIndex(key uint64) uint64 {
	return (key * 0x9e3779b97f4a7c15) >> 52 % materialTableSize
}
