package service

import "notafiscal-server/internal/domain"

// CloseDecision is the guard's answer to a close attempt.
type CloseDecision int

const (
	CloseAllowed CloseDecision = iota
	CloseVetoed
)

// Guard is the unsaved-changes state machine around the draft editor.
//
// Idle -> ConfirmingExit on a close attempt with a dirty draft; back to Idle on
// ConfirmExit or CancelExit. Idle -> ConfirmingSaveWithoutWarranty when a save
// has no warranty; back to Idle on ResolveSaveConfirmation. skipNext lets one
// programmatic close through regardless of dirtiness.
type Guard struct {
	state    domain.GuardState
	skipNext bool
}

func NewGuard() *Guard {
	return &Guard{state: domain.GuardIdle}
}

func (g *Guard) State() domain.GuardState { return g.state }

// RequestClose decides whether the editor may close. While any prompt is active
// every close is vetoed.
func (g *Guard) RequestClose(dirty bool) CloseDecision {
	if g.state != domain.GuardIdle {
		return CloseVetoed
	}
	if g.skipNext {
		g.skipNext = false
		return CloseAllowed
	}
	if !dirty {
		return CloseAllowed
	}
	g.state = domain.GuardConfirmingExit
	return CloseVetoed
}

// ConfirmExit accepts the pending exit prompt. The caller discards the draft.
func (g *Guard) ConfirmExit() error {
	if g.state != domain.GuardConfirmingExit {
		return domain.ErrNoConfirmation
	}
	g.state = domain.GuardIdle
	return nil
}

// CancelExit dismisses the pending exit prompt; the editor stays open.
func (g *Guard) CancelExit() error {
	if g.state != domain.GuardConfirmingExit {
		return domain.ErrNoConfirmation
	}
	g.state = domain.GuardIdle
	return nil
}

// SkipNextClose lets the next close attempt through without a prompt.
func (g *Guard) SkipNextClose() {
	g.skipNext = true
}

// BeginSaveConfirmation enters the save-without-warranty prompt. It returns
// false when another prompt is already active.
func (g *Guard) BeginSaveConfirmation() bool {
	if g.state != domain.GuardIdle {
		return false
	}
	g.state = domain.GuardConfirmingSaveWithoutWarranty
	return true
}

// ResolveSaveConfirmation leaves the save-without-warranty prompt, whether it
// was confirmed or cancelled.
func (g *Guard) ResolveSaveConfirmation() error {
	if g.state != domain.GuardConfirmingSaveWithoutWarranty {
		return domain.ErrNoConfirmation
	}
	g.state = domain.GuardIdle
	return nil
}

// Reset returns to Idle and forgets any pending skip.
func (g *Guard) Reset() {
	g.state = domain.GuardIdle
	g.skipNext = false
}
