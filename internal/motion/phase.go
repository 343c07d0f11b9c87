package motion

// Phase is the active stage of a morph sequence.
type Phase int

const (
	Morphing Phase = iota
	Holding
	FinalFade
	Stopped
)

func (p Phase) String() string {
	switch p {
	case Morphing:
		return "morphing"
	case Holding:
		return "holding"
	case FinalFade:
		return "final-fade"
	case Stopped:
		return "stopped"
	}
	return "unknown"
}

// MarshalText lets phases travel as names in JSON frames.
func (p Phase) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// Change is emitted whenever the phase or the cursor moves.
type Change struct {
	From   Phase `json:"from"`
	To     Phase `json:"to"`
	Cursor int   `json:"cursor"`
}
