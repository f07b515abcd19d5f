// Package book implements the opening-book oracle spec.md §6 describes
// as an external collaborator: `is_book_move(board_before, move)` and
// `get_opening_info(fen)`. Grounded on
// original_source/app/services/book_move_service.py's two-phase
// contract (ECO position lookup, then Polyglot move lookup); the ECO
// phase is implemented for real against
// github.com/corentings/chess/v2/opening's bundled ECO database, while
// the Polyglot phase is out of scope (no opening-book dataset ships
// with this module) and is left to a future Oracle implementation.
package book

import (
	chess "github.com/corentings/chess/v2"
	"github.com/corentings/chess/v2/opening"
)

// Oracle is the opening-book collaborator C4 consults once per
// half-move. Implementations must be safe for concurrent use by
// multiple analyzer goroutines.
type Oracle interface {
	// IsBookMove reports whether playing move against the position
	// described by moves (the mainline played so far, including move)
	// is still within known opening theory.
	IsBookMove(movesSoFar []*chess.Move) bool
	// OpeningInfo resolves the ECO code and opening name for a sequence
	// of mainline moves, or ("", "", false) if no match is found.
	OpeningInfo(movesSoFar []*chess.Move) (eco, name string, found bool)
}

// ECOOracle answers both queries from the bundled ECO database only;
// it never consults a Polyglot book.
type ECOOracle struct {
	db *opening.BookECO
}

// NewECOOracle constructs an Oracle backed by the library's built-in ECO
// database.
func NewECOOracle() *ECOOracle {
	return &ECOOracle{db: opening.NewBookECO()}
}

func (o *ECOOracle) IsBookMove(movesSoFar []*chess.Move) bool {
	_, _, found := o.OpeningInfo(movesSoFar)
	return found
}

func (o *ECOOracle) OpeningInfo(movesSoFar []*chess.Move) (string, string, bool) {
	found := o.db.Find(movesSoFar)
	if found == nil {
		return "", "", false
	}
	return found.Code(), found.Title(), true
}

// NullOracle never recognises a book move; used when opening detection
// is disabled, or in tests that must not depend on the ECO database.
type NullOracle struct{}

func (NullOracle) IsBookMove(_ []*chess.Move) bool { return false }

func (NullOracle) OpeningInfo(_ []*chess.Move) (string, string, bool) { return "", "", false }
