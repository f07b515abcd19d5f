package engine

import (
	"strconv"
	"strings"

	"github.com/eloinsight/analysis-service/internal/classify"
)

// Info is one parsed `info` line: depth/seldepth/multipv/score/nps/pv,
// per spec.md §4.1. Score is the raw UCI `score`, relative to the side
// to move; normalization needs to know whose turn it was, which this
// parser does not, so callers apply NormalizeToWhite themselves.
type Info struct {
	Depth    int
	SelDepth int
	MultiPV  int
	Score    classify.Score
	NPS      int64
	Nodes    int64
	TimeMs   int64
	PV       []string
	HasScore bool
}

// ParseInfoLine parses a single `info ...` line. Lines without a score
// (e.g. `info string ...`) have HasScore=false and should be ignored by
// callers. The returned Score is relative to the side to move, exactly
// as UCI reports it; NormalizeToWhite converts it to the White-relative
// convention the rest of the system uses.
func ParseInfoLine(line string) Info {
	var info Info
	fields := strings.Fields(line)

	for i := 0; i < len(fields); i++ {
		switch fields[i] {
		case "depth":
			if i+1 < len(fields) {
				info.Depth, _ = strconv.Atoi(fields[i+1])
			}
		case "seldepth":
			if i+1 < len(fields) {
				info.SelDepth, _ = strconv.Atoi(fields[i+1])
			}
		case "multipv":
			if i+1 < len(fields) {
				info.MultiPV, _ = strconv.Atoi(fields[i+1])
			}
		case "score":
			if i+2 < len(fields) {
				switch fields[i+1] {
				case "cp":
					cp, _ := strconv.Atoi(fields[i+2])
					info.Score = classify.CpScore(cp)
					info.HasScore = true
				case "mate":
					plies, _ := strconv.Atoi(fields[i+2])
					info.Score = classify.MateScore(plies)
					info.HasScore = true
				}
			}
		case "nodes":
			if i+1 < len(fields) {
				info.Nodes, _ = strconv.ParseInt(fields[i+1], 10, 64)
			}
		case "nps":
			if i+1 < len(fields) {
				info.NPS, _ = strconv.ParseInt(fields[i+1], 10, 64)
			}
		case "time":
			if i+1 < len(fields) {
				info.TimeMs, _ = strconv.ParseInt(fields[i+1], 10, 64)
			}
		case "pv":
			info.PV = append([]string(nil), fields[i+1:]...)
			return info // pv is always the final token group
		}
	}
	return info
}

// NormalizeToWhite converts a side-to-move-relative score (UCI's
// convention) to the White-relative convention classify.Score uses
// throughout the rest of the system.
func NormalizeToWhite(s classify.Score, whiteToMove bool) classify.Score {
	if whiteToMove {
		return s
	}
	if s.IsMate {
		return classify.MateScore(-s.MatePlies)
	}
	return classify.CpScore(-s.Cp)
}

// BestMoveLine is a parsed `bestmove <uci> [ponder <uci>]` line.
type BestMoveLine struct {
	BestMove   string
	PonderMove string
	None       bool // true for "bestmove (none)", the delivered-mate/no-legal-move case
}

// ParseBestMove parses a terminal `bestmove` line. Per Design Notes §9's
// open-question decision, "(none)" is reported as None=true rather than
// fabricating a move; the worker treats it as a terminal state, sets
// its MateZero flag and, when no score was reported, fills PV slot 1
// with a fabricated mate-0 score.
func ParseBestMove(line string) (BestMoveLine, bool) {
	fields := strings.Fields(line)
	if len(fields) < 2 || fields[0] != "bestmove" {
		return BestMoveLine{}, false
	}
	out := BestMoveLine{BestMove: fields[1]}
	if fields[1] == "(none)" {
		out.None = true
	}
	if len(fields) >= 4 && fields[2] == "ponder" {
		out.PonderMove = fields[3]
	}
	return out, true
}
