package entity

import (
	"encoding/binary"
	"fmt"

	"github.com/rocketscienceinc/tictactoe-solver/internal/apperror"
)

// Outcome is the game-theoretic result of a position, seen from the first mark's side.
type Outcome int8

const (
	SecondWins Outcome = -1
	Draw       Outcome = 0
	FirstWins  Outcome = 1
)

func (o Outcome) String() string {
	switch o {
	case FirstWins:
		return "first_wins"
	case SecondWins:
		return "second_wins"
	case Draw:
		return "draw"
	default:
		return fmt.Sprintf("outcome(%d)", int8(o))
	}
}

// Better - reports whether o is strictly preferable to other for the given side.
func (o Outcome) Better(other Outcome, forFirst bool) bool {
	if forFirst {
		return o > other
	}
	return o < other
}

// WinFor - returns the outcome in which the side owning mark wins.
func WinFor(mark, first Mark) Outcome {
	if mark == first {
		return FirstWins
	}
	return SecondWins
}

// LossFor - returns the outcome in which the side owning mark loses.
func LossFor(mark, first Mark) Outcome {
	if mark == first {
		return SecondWins
	}
	return FirstWins
}

type Variant string

const (
	VariantPlain  Variant = "plain"
	VariantPruned Variant = "pruned"
)

func ParseVariant(s string) (Variant, error) {
	switch Variant(s) {
	case VariantPlain:
		return VariantPlain, nil
	case VariantPruned:
		return VariantPruned, nil
	default:
		return "", fmt.Errorf("%w: %q", apperror.ErrUnknownVariant, s)
	}
}

// Mode tells how the root of a search is explored. Visit counts differ between modes.
type Mode string

const (
	ModeSequential Mode = "sequential"
	ModeParallel   Mode = "parallel"
)

func ModeFor(parallel bool) Mode {
	if parallel {
		return ModeParallel
	}
	return ModeSequential
}

// Result is what one top-level search reports.
type Result struct {
	Outcome Outcome `json:"outcome"`
	Visited uint32  `json:"visited"`
	Variant Variant `json:"variant"`
}

// EncodeVisitCount - serializes a visit count as two bytes, high byte first.
// Counts above 65535 keep only their low 16 bits.
func EncodeVisitCount(visited uint32) [2]byte {
	var buf [2]byte
	binary.BigEndian.PutUint16(buf[:], uint16(visited)) //nolint: gosec // truncation is the wire format
	return buf
}

func DecodeVisitCount(buf [2]byte) uint16 {
	return binary.BigEndian.Uint16(buf[:])
}
