package contract

import "strings"

var transitions = map[Status][]Status{
	StatusDraft:   {StatusPending},
	StatusPending: {StatusSigned, StatusCompleted},
	StatusSigned:  {StatusCompleted},
}

// CanTransition reports whether a contract may move forward from one status
// to another. Staying in place is not a transition.
func CanTransition(from, to Status) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

func checkTransition(from, to Status) error {
	if !CanTransition(from, to) {
		return &TransitionError{From: from, To: to}
	}
	return nil
}

func ParseStatus(raw string) (Status, bool) {
	normalized := Status(strings.ToLower(strings.TrimSpace(raw)))
	for _, value := range statusValues {
		if string(normalized) == value {
			return normalized, true
		}
	}
	return "", false
}

func ParseParty(raw string) (Party, bool) {
	normalized := Party(strings.ToLower(strings.TrimSpace(raw)))
	for _, value := range partyValues {
		if string(normalized) == value {
			return normalized, true
		}
	}
	return "", false
}
