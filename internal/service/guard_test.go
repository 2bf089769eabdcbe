package service

import (
	"errors"
	"testing"

	"notafiscal-server/internal/domain"
)

func TestGuard_CleanCloseIsAllowed(t *testing.T) {
	g := NewGuard()
	if g.RequestClose(false) != CloseAllowed {
		t.Fatalf("expected clean close to be allowed")
	}
	if g.State() != domain.GuardIdle {
		t.Errorf("expected idle, got %s", g.State())
	}
}

func TestGuard_DirtyCloseRoundTrip(t *testing.T) {
	g := NewGuard()

	if g.RequestClose(true) != CloseVetoed {
		t.Fatalf("expected dirty close to be vetoed")
	}
	if g.State() != domain.GuardConfirmingExit {
		t.Fatalf("expected confirming exit, got %s", g.State())
	}
	if g.RequestClose(false) != CloseVetoed {
		t.Errorf("expected close to be vetoed while a prompt is active")
	}

	if err := g.CancelExit(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if g.State() != domain.GuardIdle {
		t.Errorf("expected idle after cancel, got %s", g.State())
	}

	g.RequestClose(true)
	if err := g.ConfirmExit(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if g.State() != domain.GuardIdle {
		t.Errorf("expected idle after confirm, got %s", g.State())
	}
}

func TestGuard_ConfirmWithoutPrompt(t *testing.T) {
	g := NewGuard()
	if err := g.ConfirmExit(); !errors.Is(err, domain.ErrNoConfirmation) {
		t.Errorf("expected ErrNoConfirmation, got %v", err)
	}
	if err := g.CancelExit(); !errors.Is(err, domain.ErrNoConfirmation) {
		t.Errorf("expected ErrNoConfirmation, got %v", err)
	}
	if err := g.ResolveSaveConfirmation(); !errors.Is(err, domain.ErrNoConfirmation) {
		t.Errorf("expected ErrNoConfirmation, got %v", err)
	}
}

func TestGuard_SkipNextCloseIsOneShot(t *testing.T) {
	g := NewGuard()
	g.SkipNextClose()

	if g.RequestClose(true) != CloseAllowed {
		t.Fatalf("expected skipped close to be allowed")
	}
	if g.RequestClose(true) != CloseVetoed {
		t.Fatalf("expected the skip to be consumed")
	}
}

func TestGuard_SaveConfirmation(t *testing.T) {
	g := NewGuard()

	if !g.BeginSaveConfirmation() {
		t.Fatalf("expected save confirmation to start")
	}
	if g.State() != domain.GuardConfirmingSaveWithoutWarranty {
		t.Fatalf("unexpected state %s", g.State())
	}
	if g.BeginSaveConfirmation() {
		t.Errorf("expected a second prompt to be refused")
	}
	if err := g.ConfirmExit(); !errors.Is(err, domain.ErrNoConfirmation) {
		t.Errorf("expected exit confirmation to be refused during save prompt, got %v", err)
	}
	if err := g.ResolveSaveConfirmation(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if g.State() != domain.GuardIdle {
		t.Errorf("expected idle, got %s", g.State())
	}
}

func TestGuard_Reset(t *testing.T) {
	g := NewGuard()
	g.RequestClose(true)
	g.SkipNextClose()

	g.Reset()
	if g.State() != domain.GuardIdle {
		t.Fatalf("expected idle after reset")
	}
	if g.RequestClose(true) != CloseVetoed {
		t.Errorf("expected reset to drop the pending skip")
	}
}
