package board

// Zobrist key material. One global table sized for the largest supported
// geometry serves every variant, so equal positions hash equally across
// variant values sharing a rule set.

type zobristTables struct {
	psq      [2][PieceTypeNB][MaxFiles * MaxRanks]uint64
	hand     [2][PieceTypeNB][64]uint64
	castling [16]uint64
	ep       [MaxFiles]uint64
	checks   [2][8]uint64
	side     uint64
}

var zobrist zobristTables

// splitmix64 is the usual seed-stream generator; a fixed seed keeps keys
// stable across runs and builds.
func splitmix64(state *uint64) uint64 {
	*state += 0x9e3779b97f4a7c15
	z := *state
	z = (z ^ (z >> 30)) * 0xbf58476d1ce4e5b9
	z = (z ^ (z >> 27)) * 0x94d049bb133111eb
	return z ^ (z >> 31)
}

func init() {
	seed := uint64(0x1070372a2b7c5f29)
	for c := 0; c < 2; c++ {
		for pt := 0; pt < int(PieceTypeNB); pt++ {
			for s := range zobrist.psq[c][pt] {
				zobrist.psq[c][pt][s] = splitmix64(&seed)
			}
			for i := range zobrist.hand[c][pt] {
				zobrist.hand[c][pt][i] = splitmix64(&seed)
			}
		}
		for i := range zobrist.checks[c] {
			zobrist.checks[c][i] = splitmix64(&seed)
		}
	}
	for i := range zobrist.castling {
		zobrist.castling[i] = splitmix64(&seed)
	}
	for i := range zobrist.ep {
		zobrist.ep[i] = splitmix64(&seed)
	}
	zobrist.side = splitmix64(&seed)
}
