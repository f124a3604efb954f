package game

// Encode returns the canonical board encoding used as network input: each
// cell's value multiplied by the player to move, so the encoding is always
// from the perspective of the side whose turn it is.
func (s *State) Encode() []float64 {
	out := make([]float64, len(s.Cells))
	for i, c := range s.Cells {
		out[i] = float64(c) * float64(s.ToMove)
	}
	return out
}

// SymmetryPair is one geometrically transformed (board, policy) pair.
type SymmetryPair struct {
	Board  []float64
	Policy []float64
}

// Symmetries enumerates the square board's symmetry group: the four quarter
// rotations, each with and without a horizontal flip. Board and policy are
// flat row-major grids of n*n entries and are transformed consistently, so
// each policy entry stays aligned with the same physical cell.
func Symmetries(n int, board, policy []float64) []SymmetryPair {
	out := make([]SymmetryPair, 0, 8)
	b, p := board, policy
	for i := 0; i < 4; i++ {
		b = rotate90(n, b)
		p = rotate90(n, p)
		out = append(out, SymmetryPair{Board: b, Policy: p})
		out = append(out, SymmetryPair{Board: flipLR(n, b), Policy: flipLR(n, p)})
	}
	return out
}

// rotate90 rotates a flat n*n grid a quarter turn counter-clockwise.
func rotate90(n int, grid []float64) []float64 {
	out := make([]float64, len(grid))
	for r := 0; r < n; r++ {
		for c := 0; c < n; c++ {
			out[r*n+c] = grid[c*n+(n-1-r)]
		}
	}
	return out
}

// rotate270 is the inverse of rotate90.
func rotate270(n int, grid []float64) []float64 {
	out := make([]float64, len(grid))
	for r := 0; r < n; r++ {
		for c := 0; c < n; c++ {
			out[c*n+(n-1-r)] = grid[r*n+c]
		}
	}
	return out
}

// flipLR mirrors a flat n*n grid horizontally. It is its own inverse.
func flipLR(n int, grid []float64) []float64 {
	out := make([]float64, len(grid))
	for r := 0; r < n; r++ {
		for c := 0; c < n; c++ {
			out[r*n+c] = grid[r*n+(n-1-c)]
		}
	}
	return out
}
