// Package board wraps a real chess-move-application library so the
// analyzer (C4) and result assembly (C6) never parse FEN/SAN or count
// material by hand. PGN *text* parsing stays an external concern (per
// spec.md §1's Non-goals); this package only replays an already-extracted
// ordered list of SAN moves against a board to recover the FEN/SAN/
// material/capture facts C4 and C6 need.
package board

import (
	"fmt"

	chess "github.com/corentings/chess/v2"
)

// PieceLetter is the standard capture-letter set used by result rows;
// the empty string means "no capture".
type PieceLetter string

const (
	Pawn   PieceLetter = "P"
	Knight PieceLetter = "N"
	Bishop PieceLetter = "B"
	Rook   PieceLetter = "R"
	Queen  PieceLetter = "Q"
	none   PieceLetter = ""
)

// Piece values in centipawns, per spec.md §4.3. The king is
// non-captureable and carries no material value.
const (
	PawnValue   = 100
	KnightValue = 300
	BishopValue = 300
	RookValue   = 500
	QueenValue  = 900
)

func pieceValue(t chess.PieceType) int {
	switch t {
	case chess.Pawn:
		return PawnValue
	case chess.Knight:
		return KnightValue
	case chess.Bishop:
		return BishopValue
	case chess.Rook:
		return RookValue
	case chess.Queen:
		return QueenValue
	default:
		return 0
	}
}

func pieceLetter(t chess.PieceType) PieceLetter {
	switch t {
	case chess.Pawn:
		return Pawn
	case chess.Knight:
		return Knight
	case chess.Bishop:
		return Bishop
	case chess.Rook:
		return Rook
	case chess.Queen:
		return Queen
	default:
		return none
	}
}

// HalfMove is the Move info record of spec.md §3: one ply, with the
// position before/after and the facts derived from the real board that
// C3/C6 need (capture letter, material).
type HalfMove struct {
	MoveNumber    int
	WhiteToMove   bool
	SAN           string
	UCI           string
	FENBefore     string
	FENAfter      string
	IsCapture     bool
	IsCheckmate   bool
	CapturedPiece PieceLetter
	MaterialWhite int
	MaterialBlack int
}

// Ply returns the 1-based half-move index: white move at move N is ply
// 2N-1, black move is ply 2N, per spec.md §3.
func (h HalfMove) Ply() int {
	if h.WhiteToMove {
		return 2*h.MoveNumber - 1
	}
	return 2 * h.MoveNumber
}

// Game is a replayed mainline: the result of applying an ordered list of
// SAN moves to a starting position.
type Game struct {
	moves    []HalfMove
	rawMoves []*chess.Move
}

// NewGame replays sanMoves against startFEN (the standard starting
// position when startFEN is empty), producing one HalfMove per ply. It
// stops at the first illegal or undecodable move and returns an error.
// The analyzer reports any such error, at whatever ply, as NoMoves.
func NewGame(startFEN string, sanMoves []string) (*Game, error) {
	g, err := newChessGame(startFEN)
	if err != nil {
		return nil, err
	}

	out := make([]HalfMove, 0, len(sanMoves))
	rawMoves := make([]*chess.Move, 0, len(sanMoves))
	for i, san := range sanMoves {
		posBefore := g.Position()
		fenBefore := posBefore.String()

		move, err := chess.AlgebraicNotation{}.Decode(posBefore, san)
		if err != nil {
			return nil, fmt.Errorf("ply %d (%q): decode SAN: %w", i+1, san, err)
		}

		isCapture := move.HasTag(chess.Capture)
		var captured PieceLetter
		if isCapture {
			captured = capturedPieceAt(posBefore, move.S2())
		}
		uci := chess.UCINotation{}.Encode(posBefore, move)

		if err := g.PushMove(san, &chess.PushMoveOptions{ForceMainline: true}); err != nil {
			return nil, fmt.Errorf("ply %d (%q): apply move: %w", i+1, san, err)
		}
		rawMoves = append(rawMoves, move)

		posAfter := g.Position()
		wMat, bMat := Material(posAfter)

		out = append(out, HalfMove{
			MoveNumber:    i/2 + 1,
			WhiteToMove:   i%2 == 0,
			SAN:           san,
			UCI:           uci,
			FENBefore:     fenBefore,
			FENAfter:      posAfter.String(),
			IsCapture:     isCapture,
			IsCheckmate:   g.Method() == chess.Checkmate && g.Outcome() != chess.NoOutcome,
			CapturedPiece: captured,
			MaterialWhite: wMat,
			MaterialBlack: bMat,
		})
	}

	return &Game{moves: out, rawMoves: rawMoves}, nil
}

// HalfMoves returns the replayed mainline, one entry per ply.
func (g *Game) HalfMoves() []HalfMove { return g.moves }

// MovesThrough returns the raw library move objects for plies [0, n),
// for use with book.Oracle's move-sequence lookups.
func (g *Game) MovesThrough(n int) []*chess.Move {
	if n > len(g.rawMoves) {
		n = len(g.rawMoves)
	}
	return g.rawMoves[:n]
}

func newChessGame(startFEN string) (*chess.Game, error) {
	if startFEN == "" {
		return chess.NewGame(), nil
	}
	opt, err := chess.FEN(startFEN)
	if err != nil {
		return nil, fmt.Errorf("parse starting FEN: %w", err)
	}
	return chess.NewGame(opt), nil
}

func capturedPieceAt(pos *chess.Position, sq chess.Square) PieceLetter {
	p := pos.Board().Piece(sq)
	if p == chess.NoPiece {
		return none
	}
	return pieceLetter(p.Type())
}

// Material sums the piece-value table (spec.md §4.3) over all pieces of
// each colour currently on the board.
func Material(pos *chess.Position) (white, black int) {
	for _, p := range pos.Board().SquareMap() {
		if p == chess.NoPiece {
			continue
		}
		v := pieceValue(p.Type())
		if p.Color() == chess.White {
			white += v
		} else {
			black += v
		}
	}
	return white, black
}

// MaterialBalance is white material minus black material, per spec.md
// §4.3. Non-capturing moves conserve it by construction, since no piece
// leaves the board.
func MaterialBalance(pos *chess.Position) int {
	w, b := Material(pos)
	return w - b
}

// MaterialAtFEN computes the same per-side material totals directly
// from a FEN string, for callers (the brilliant-move sacrifice
// lookahead) that only have a FEN and not a live *chess.Position.
func MaterialAtFEN(fen string) (white, black int, err error) {
	opt, err := chess.FEN(fen)
	if err != nil {
		return 0, 0, err
	}
	g := chess.NewGame(opt)
	w, b := Material(g.Position())
	return w, b, nil
}

// ApplyUCI applies a single UCI long-algebraic move to a FEN position
// and returns the resulting FEN, without mutating any shared state. Used
// by the brilliant-move material-sacrifice lookahead (C3) to look one or
// more plies past the played move.
func ApplyUCI(fen, uciMove string) (string, error) {
	opt, err := chess.FEN(fen)
	if err != nil {
		return "", fmt.Errorf("parse FEN: %w", err)
	}
	g := chess.NewGame(opt)
	if err := g.PushNotationMove(uciMove, chess.UCINotation{}, nil); err != nil {
		return "", fmt.Errorf("apply %q: %w", uciMove, err)
	}
	return g.Position().String(), nil
}

// SANToUCI converts a SAN move played against fen into UCI long
// algebraic, and UCIToSAN the reverse -- both used when converting
// engine PV moves (UCI) into the SAN the result rows store.
func SANToUCI(fen, san string) (string, error) {
	opt, err := chess.FEN(fen)
	if err != nil {
		return "", err
	}
	g := chess.NewGame(opt)
	move, err := chess.AlgebraicNotation{}.Decode(g.Position(), san)
	if err != nil {
		return "", err
	}
	return chess.UCINotation{}.Encode(g.Position(), move), nil
}

func UCIToSAN(fen, uciMove string) (string, error) {
	opt, err := chess.FEN(fen)
	if err != nil {
		return "", err
	}
	g := chess.NewGame(opt)
	move, err := chess.UCINotation{}.Decode(g.Position(), uciMove)
	if err != nil {
		return "", err
	}
	return chess.AlgebraicNotation{}.Encode(g.Position(), move), nil
}

// SideToMoveWhite reports whether it is White's turn in fen.
func SideToMoveWhite(fen string) (bool, error) {
	opt, err := chess.FEN(fen)
	if err != nil {
		return false, err
	}
	g := chess.NewGame(opt)
	return g.Position().Turn() == chess.White, nil
}

// IsCaptureOrMate reports whether the SAN move san, played against fen,
// is a capture or delivers checkmate -- used by the Miss rule (C3) on the
// engine's best move, to tell whether that move was tactical.
func IsCaptureOrMate(fen, san string) (capture, mate bool, err error) {
	opt, err := chess.FEN(fen)
	if err != nil {
		return false, false, err
	}
	g := chess.NewGame(opt)
	pos := g.Position()
	move, err := chess.AlgebraicNotation{}.Decode(pos, san)
	if err != nil {
		return false, false, err
	}
	capture = move.HasTag(chess.Capture)
	if err := g.PushMove(san, &chess.PushMoveOptions{ForceMainline: true}); err != nil {
		return capture, false, err
	}
	mate = g.Method() == chess.Checkmate && g.Outcome() != chess.NoOutcome
	return capture, mate, nil
}
