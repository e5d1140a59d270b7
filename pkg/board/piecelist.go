package board

// PieceList is the packed piece list: a 128-bit value, one 4-bit Piece nibble per occupied
// square, ordered by ascending square index and stored as a two-word (lo, hi) pair since Go
// has no native 128-bit integer (spec §9). Nibble k corresponds to the k-th set bit of the
// Board's occupancy bitmap.
type PieceList struct {
	Lo, Hi uint64
}

// nibble returns the 4-bit value at nibble index i (0..31).
func (p PieceList) nibble(i int) Piece {
	if i < 16 {
		return Piece((p.Lo >> uint(4*i)) & 0xF)
	}
	return Piece((p.Hi >> uint(4*(i-16))) & 0xF)
}

// withNibble returns p with nibble index i overwritten in place (no shifting).
func (p PieceList) withNibble(i int, v Piece) PieceList {
	if i < 16 {
		shift := uint(4 * i)
		p.Lo = (p.Lo &^ (uint64(0xF) << shift)) | (uint64(v&0xF) << shift)
		return p
	}
	shift := uint(4 * (i - 16))
	p.Hi = (p.Hi &^ (uint64(0xF) << shift)) | (uint64(v&0xF) << shift)
	return p
}

// shl4 shifts the full 128-bit pair left by one nibble (4 bits), carrying across the word
// boundary.
func shl4(lo, hi uint64) (uint64, uint64) {
	return lo << 4, (hi << 4) | (lo >> 60)
}

// shr4 shifts the full 128-bit pair right by one nibble (4 bits), carrying across the word
// boundary.
func shr4(lo, hi uint64) (uint64, uint64) {
	return (lo >> 4) | (hi << 60), hi >> 4
}

// maskBelow128 returns a 128-bit mask selecting bits [0, 4*idx), i.e. the nibbles strictly
// below nibble index idx.
func maskBelow128(idx int) (lo, hi uint64) {
	bits := uint(4 * idx)
	switch {
	case bits == 0:
		return 0, 0
	case bits >= 128:
		return ^uint64(0), ^uint64(0)
	case bits < 64:
		return (uint64(1) << bits) - 1, 0
	default:
		return ^uint64(0), (uint64(1) << (bits - 64)) - 1
	}
}

func and128(lo1, hi1, lo2, hi2 uint64) (uint64, uint64) {
	return lo1 & lo2, hi1 & hi2
}

func andNot128(lo1, hi1, lo2, hi2 uint64) (uint64, uint64) {
	return lo1 &^ lo2, hi1 &^ hi2
}

func or128(lo1, hi1, lo2, hi2 uint64) (uint64, uint64) {
	return lo1 | lo2, hi1 | hi2
}

// insertAt makes room for a new nibble at index idx by shifting every nibble at index >= idx
// up by one slot, then writes pc into the vacated slot at idx. Mirrors spec §4.1 Insert on
// an unoccupied square: "shift the upper (128 − 4·idx) bits of the piece list up by 4 bits,
// zero the target nibble, write pc."
func (p PieceList) insertAt(idx int, pc Piece) PieceList {
	belowLo, belowHi := maskBelow128(idx)
	keepLo, keepHi := and128(p.Lo, p.Hi, belowLo, belowHi)
	restLo, restHi := andNot128(p.Lo, p.Hi, belowLo, belowHi)
	shiftedLo, shiftedHi := shl4(restLo, restHi)
	mergedLo, mergedHi := or128(keepLo, keepHi, shiftedLo, shiftedHi)

	out := PieceList{Lo: mergedLo, Hi: mergedHi}
	return out.withNibble(idx, pc)
}

// removeAt closes the gap at nibble index idx by shifting every nibble at index > idx down
// by one slot.
func (p PieceList) removeAt(idx int) PieceList {
	belowLo, belowHi := maskBelow128(idx)
	aboveLo, aboveHi := maskBelow128(idx + 1)
	keepLo, keepHi := and128(p.Lo, p.Hi, belowLo, belowHi)
	restLo, restHi := andNot128(p.Lo, p.Hi, aboveLo, aboveHi)
	shiftedLo, shiftedHi := shr4(restLo, restHi)
	mergedLo, mergedHi := or128(keepLo, keepHi, shiftedLo, shiftedHi)

	return PieceList{Lo: mergedLo, Hi: mergedHi}
}
