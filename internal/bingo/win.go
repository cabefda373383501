// Package bingo tracks a guest's marked cells on a 5x5 board and detects
// completed lines.
package bingo

import "sort"

const (
	// Size is the edge length of the board.
	Size = 5
	// Cells is the number of cells on the board, indexed row-major.
	Cells = Size * Size
	// FreeSpace is the center cell. It can never be toggled.
	FreeSpace = 12
	// MinItems is the smallest card that can be played.
	MinItems = 16
)

// CheckWin reports whether completed covers a full row, column or diagonal.
//
// With centerFree false the free space counts only if it is in completed,
// which it never is after Normalize, so lines through the center cannot be
// won. With centerFree true the free space always counts as marked.
func CheckWin(completed []int, centerFree bool) bool {
	var marked [Cells]bool
	for _, i := range completed {
		if i >= 0 && i < Cells {
			marked[i] = true
		}
	}
	if centerFree {
		marked[FreeSpace] = true
	}

	line := func(cell func(k int) int) bool {
		for k := 0; k < Size; k++ {
			if !marked[cell(k)] {
				return false
			}
		}
		return true
	}

	for r := 0; r < Size; r++ {
		if line(func(c int) int { return r*Size + c }) {
			return true
		}
	}
	for c := 0; c < Size; c++ {
		if line(func(r int) int { return r*Size + c }) {
			return true
		}
	}
	if line(func(i int) int { return i*Size + i }) {
		return true
	}
	return line(func(i int) int { return i*Size + (Size - 1 - i) })
}

// Normalize returns the sorted, de-duplicated cells of completed that are on
// the board, without the free space.
func Normalize(completed []int) []int {
	seen := make(map[int]struct{}, len(completed))
	out := make([]int, 0, len(completed))
	for _, i := range completed {
		if i < 0 || i >= Cells || i == FreeSpace {
			continue
		}
		if _, dup := seen[i]; dup {
			continue
		}
		seen[i] = struct{}{}
		out = append(out, i)
	}
	sort.Ints(out)
	return out
}

// Toggle adds index to completed when absent and removes it when present.
// The result is normalized.
func Toggle(completed []int, index int) []int {
	out := make([]int, 0, len(completed)+1)
	found := false
	for _, i := range completed {
		if i == index {
			found = true
			continue
		}
		out = append(out, i)
	}
	if !found {
		out = append(out, index)
	}
	return Normalize(out)
}

// Contains reports whether index is marked in completed.
func Contains(completed []int, index int) bool {
	for _, i := range completed {
		if i == index {
			return true
		}
	}
	return false
}
