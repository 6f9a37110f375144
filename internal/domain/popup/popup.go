// Package popup models the modal dialog state machine.
//
// At most one dialog is active at a time: opening a dialog replaces
// whatever was open before (no stacking), and closing always returns to
// KindNone and drops any carried payload, so reopening a different
// dialog can never observe another dialog's leftover selection.
package popup

import (
	"fmt"

	"github.com/placefeed/placefeed/internal/domain/card"
)

// Kind identifies which dialog is active.
type Kind int

const (
	// KindNone means no dialog is open.
	KindNone Kind = iota
	// KindEditAvatar is the avatar edit form.
	KindEditAvatar
	// KindEditProfile is the name/about edit form.
	KindEditProfile
	// KindAddPlace is the new card form.
	KindAddPlace
	// KindViewPhoto shows a card's photo full size. Carries the card.
	KindViewPhoto
	// KindConfirmDelete asks for confirmation before deleting. Carries the card.
	KindConfirmDelete
	// KindInfoResult reports a registration outcome. Carries success/failure.
	KindInfoResult
)

// String returns the dialog name for logs.
func (k Kind) String() string {
	switch k {
	case KindNone:
		return "none"
	case KindEditAvatar:
		return "editAvatar"
	case KindEditProfile:
		return "editProfile"
	case KindAddPlace:
		return "addPlace"
	case KindViewPhoto:
		return "viewPhoto"
	case KindConfirmDelete:
		return "confirmDelete"
	case KindInfoResult:
		return "infoResult"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// carriesCard reports whether the kind requires a card payload.
func (k Kind) carriesCard() bool {
	return k == KindViewPhoto || k == KindConfirmDelete
}

// State is the active dialog plus its payload. Card is non-nil exactly
// when Kind carries a card; Success is meaningful only for KindInfoResult.
type State struct {
	Kind    Kind
	Card    *card.Card
	Success bool
}

// Orchestrator holds the single active dialog state.
// It is not safe for concurrent use; there is one logical actor.
type Orchestrator struct {
	state State
}

// NewOrchestrator returns an orchestrator with no dialog open.
func NewOrchestrator() *Orchestrator {
	return &Orchestrator{}
}

// Open activates a payload-less dialog, replacing any open dialog.
// Opening does not trigger any I/O. Panics if the kind requires a card
// payload: that is a caller contract violation, not a runtime failure.
func (o *Orchestrator) Open(k Kind) {
	if k.carriesCard() {
		panic(fmt.Sprintf("popup: %s requires a card payload", k))
	}
	o.state = State{Kind: k}
}

// OpenWithCard activates a card-carrying dialog (viewPhoto or
// confirmDelete), replacing any open dialog. Panics on a nil card or a
// kind that takes no card.
func (o *Orchestrator) OpenWithCard(k Kind, c *card.Card) {
	if !k.carriesCard() {
		panic(fmt.Sprintf("popup: %s takes no card payload", k))
	}
	if c == nil {
		panic(fmt.Sprintf("popup: %s opened without a card", k))
	}
	o.state = State{Kind: k, Card: c}
}

// OpenInfo activates the registration info dialog with the given outcome.
func (o *Orchestrator) OpenInfo(success bool) {
	o.state = State{Kind: KindInfoResult, Success: success}
}

// CloseAll resets to no dialog and clears any carried payload.
func (o *Orchestrator) CloseAll() {
	o.state = State{}
}

// Active returns the current dialog state.
func (o *Orchestrator) Active() State {
	return o.state
}

// IsOpen reports whether the given dialog is the active one.
func (o *Orchestrator) IsOpen(k Kind) bool {
	return o.state.Kind == k
}
