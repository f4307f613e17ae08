package board

import (
	"time"

	"github.com/thinety/te328/pkg/button"
)

// ButtonSample is one pin-change report from the board: the levels of
// all three button lines at the time any of them changed. The board
// cannot tell which line triggered the report, so consumers must
// compare every line against its previous state.
type ButtonSample struct {
	Timestamp time.Time
	Levels    button.Levels
}

// Board is the hardware boundary of the clock: button line changes in,
// seven segment digit patterns out.
type Board interface {
	Connect() error
	Close() error
	Buttons() <-chan ButtonSample
	SetDigits(ones, tens byte) error
	IsConnected() bool
}

// Ensure Serial implements Board.
var _ Board = (*Serial)(nil)

// Ensure Mock implements Board.
var _ Board = (*Mock)(nil)

// Ensure GPIO implements Board.
var _ Board = (*GPIO)(nil)
