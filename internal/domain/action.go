package domain

import "strings"

// PostAction is what the user chose to do with a generated message.
type PostAction string

const (
	ActionCommit  PostAction = "commit"
	ActionAddInfo PostAction = "add-info"
	ActionNothing PostAction = "nothing"
	// ActionInvalid marks unrecognised input. It ends the flow like ActionNothing.
	ActionInvalid PostAction = "invalid"
)

// ParseAction maps user input to an action. Matching is case-insensitive and
// accepts the single-letter or full-word form.
func ParseAction(input string) (PostAction, bool) {
	switch strings.ToLower(strings.TrimSpace(input)) {
	case "c", "commit":
		return ActionCommit, true
	case "a", "add-info":
		return ActionAddInfo, true
	case "n", "nothing":
		return ActionNothing, true
	default:
		return ActionInvalid, false
	}
}

// ActionChoices is shown next to the prompt and in the invalid-action message.
const ActionChoices = "c (commit), a (add-info), n (nothing)"
