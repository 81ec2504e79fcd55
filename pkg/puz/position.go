package puz

import (
	"fmt"
	"slices"
)

// Position is a (row, col) grid coordinate, zero-based.
type Position struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// String returns "(row, col)".
func (p Position) String() string {
	return fmt.Sprintf("(%d, %d)", p.Row, p.Col)
}

// Zone is the ordered list of cells an answer occupies.
//
// Two zones with the same cells in a different order are not equal; use
// [Zone.Covers] for order-insensitive containment.
type Zone []Position

// Index returns the index of pos in the zone, or -1.
func (z Zone) Index(pos Position) int {
	return slices.Index(z, pos)
}

// Contains reports whether pos is part of the zone.
func (z Zone) Contains(pos Position) bool {
	return z.Index(pos) >= 0
}

// Equal reports whether both zones list the same positions in the same order.
func (z Zone) Equal(other Zone) bool {
	return slices.Equal(z, other)
}

// Covers reports whether every position of other appears somewhere in z.
func (z Zone) Covers(other Zone) bool {
	set := make(map[Position]struct{}, len(z))
	for _, pos := range z {
		set[pos] = struct{}{}
	}
	for _, pos := range other {
		if _, ok := set[pos]; !ok {
			return false
		}
	}
	return true
}

// Clone returns a copy that shares no memory with z.
func (z Zone) Clone() Zone {
	if z == nil {
		return nil
	}
	return slices.Clone(z)
}
