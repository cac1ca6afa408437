package conversation

import (
	"errors"
	"strings"

	"github.com/elliotchance/pie/v2"
)

// Control tokens the dialogue model embeds in its reply to mark a terminal
// outcome. The double-bracket spelling keeps them out of natural prose.
const (
	tokenHandoff   = "[[HANDOFF]]"
	tokenScheduled = "[[MEETING_SCHEDULED]]"
	tokenFinalized = "[[CONVERSATION_CLOSED]]"
)

type tokenOutcome struct {
	token   string
	outcome Outcome
}

var tokenVocabulary = []tokenOutcome{
	{tokenHandoff, OutcomeTransferred},
	{tokenScheduled, OutcomeScheduled},
	{tokenFinalized, OutcomeFinalized},
}

// ErrConflictingOutcomes is returned when a single reply carries two distinct
// control tokens. The model contract allows at most one; picking a winner
// silently would hide a real product-policy question.
var ErrConflictingOutcomes = errors.New("reply contains conflicting control tokens")

// extractOutcome strips every recognized token from the reply and returns the
// outcome they encode. A token repeated is harmless; two distinct tokens are
// an error. Tokens must never reach the visitor, so stripping happens even on
// the error path's inputs before classification fails.
func extractOutcome(reply string) (string, Outcome, error) {
	present := pie.Filter(tokenVocabulary, func(to tokenOutcome) bool {
		return strings.Contains(reply, to.token)
	})

	for _, to := range present {
		reply = strings.ReplaceAll(reply, to.token, "")
	}
	reply = strings.TrimSpace(reply)

	if len(present) > 1 {
		return reply, OutcomeNone, ErrConflictingOutcomes
	}

	if len(present) == 1 {
		return reply, present[0].outcome, nil
	}

	return reply, OutcomeNone, nil
}
