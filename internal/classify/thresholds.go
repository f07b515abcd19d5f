package classify

// Label is one of the qualitative move classifications spec.md §1/§4.3
// names. BookMove and BestMove short-circuit all further classification;
// Miss is checked before the generic CPL buckets; Brilliant is applied by
// a separate refinement pass over an already-labelled row.
type Label string

const (
	BookMove   Label = "Book Move"
	BestMove   Label = "Best Move"
	GoodMove   Label = "Good Move"
	Inaccuracy Label = "Inaccuracy"
	Mistake    Label = "Mistake"
	Blunder    Label = "Blunder"
	Miss       Label = "Miss"
	Brilliant  Label = "Brilliant"
)

// Thresholds holds the configurable classification parameters of
// spec.md §3. Defaults are spec.md's stated numeric defaults (§4.3,
// scenario 5 of §8), which are authoritative over the original Python
// source's defaults where the two disagree -- see DESIGN.md.
type Thresholds struct {
	GoodMoveMaxCPL       int
	InaccuracyMaxCPL     int
	MistakeMaxCPL        int
	MinEvalSwing         int
	MinMaterialSacrifice int
	MaxEvalBefore        int
	ExcludeAlreadyWinning bool
	// MaterialSacrificeLookaheadPlies is applied per-pass: 1 for the
	// inline classification pass, 3 for the brilliancy refinement pass
	// (spec.md §4.3 "Brilliant").
	InlineLookaheadPlies     int
	RefinementLookaheadPlies int
	// RepeatIndicator is the sentinel substituted for an opening tag
	// unchanged from the previous row (spec.md §4.4 step 6, §9).
	RepeatIndicator string
}

// DefaultThresholds returns spec.md's stated defaults.
func DefaultThresholds() Thresholds {
	return Thresholds{
		GoodMoveMaxCPL:           50,
		InaccuracyMaxCPL:         100,
		MistakeMaxCPL:            200,
		MinEvalSwing:             50,
		MinMaterialSacrifice:     300,
		MaxEvalBefore:            500,
		ExcludeAlreadyWinning:    true,
		InlineLookaheadPlies:     1,
		RefinementLookaheadPlies: 3,
		RepeatIndicator:          "*",
	}
}
