// Package parsing turns coach-authored plan text into structured meal and training plans.
package parsing

// State is the parser's position in the document.
type State int

const (
	// StateSeekingHeader means no section is open.
	StateSeekingHeader State = iota
	// StateInSection means a meal or training block is open and no capture is active.
	StateInSection
	// StateInObservations means continuation lines are appended to the open section's observations.
	StateInObservations
	// StateInSubstitutions means bullet lines accumulate as substitution options for one food.
	StateInSubstitutions
)

func (s State) String() string {
	switch s {
	case StateSeekingHeader:
		return "SEEKING_HEADER"
	case StateInSection:
		return "IN_SECTION"
	case StateInObservations:
		return "IN_OBSERVATIONS"
	case StateInSubstitutions:
		return "IN_SUBSTITUTIONS"
	default:
		return "UNKNOWN"
	}
}

// LineKind is the classification of one trimmed, non-blank line.
type LineKind int

const (
	KindSummary LineKind = iota
	KindSectionHeader
	KindShoppingHeader
	KindObservations
	KindSubstitutionHeader
	KindExercise
	KindBullet
	KindText
)

func (k LineKind) String() string {
	switch k {
	case KindSummary:
		return "summary"
	case KindSectionHeader:
		return "section-header"
	case KindShoppingHeader:
		return "shopping-header"
	case KindObservations:
		return "observations"
	case KindSubstitutionHeader:
		return "substitution-header"
	case KindExercise:
		return "exercise"
	case KindBullet:
		return "bullet"
	case KindText:
		return "text"
	default:
		return "unknown"
	}
}

// transitions is the complete state table. Every (state, kind) pair has an entry.
var transitions = map[State]map[LineKind]State{
	StateSeekingHeader: {
		KindSummary:            StateSeekingHeader,
		KindSectionHeader:      StateInSection,
		KindShoppingHeader:     StateSeekingHeader,
		KindObservations:       StateSeekingHeader,
		KindSubstitutionHeader: StateSeekingHeader,
		KindExercise:           StateSeekingHeader,
		KindBullet:             StateSeekingHeader,
		KindText:               StateSeekingHeader,
	},
	StateInSection: {
		KindSummary:            StateInSection,
		KindSectionHeader:      StateInSection,
		KindShoppingHeader:     StateSeekingHeader,
		KindObservations:       StateInObservations,
		KindSubstitutionHeader: StateInSubstitutions,
		KindExercise:           StateInSection,
		KindBullet:             StateInSection,
		KindText:               StateInSection,
	},
	StateInObservations: {
		KindSummary:            StateInSection,
		KindSectionHeader:      StateInSection,
		KindShoppingHeader:     StateSeekingHeader,
		KindObservations:       StateInObservations,
		KindSubstitutionHeader: StateInSubstitutions,
		KindExercise:           StateInSection,
		KindBullet:             StateInObservations,
		KindText:               StateInObservations,
	},
	StateInSubstitutions: {
		KindSummary:            StateInSection,
		KindSectionHeader:      StateInSection,
		KindShoppingHeader:     StateSeekingHeader,
		KindObservations:       StateInObservations,
		KindSubstitutionHeader: StateInSubstitutions,
		KindExercise:           StateInSection,
		KindBullet:             StateInSubstitutions,
		KindText:               StateInSection,
	},
}

// Transition returns the state that follows s on a line of kind k.
func Transition(s State, k LineKind) State {
	if row, ok := transitions[s]; ok {
		if next, ok := row[k]; ok {
			return next
		}
	}
	return s
}
