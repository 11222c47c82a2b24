// Package register implements the registration workflow: an optional
// invite-token verification that pre-fills and locks the invited email,
// local validation, and submission through the session controller.
package register

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/mzaikin/caseport/internal/client/api"
	"github.com/mzaikin/caseport/internal/client/models"
)

// Phase is the flow's state machine position.
type Phase int

const (
	Editing Phase = iota
	Submitting
	Succeeded
	Failed
)

func (p Phase) String() string {
	switch p {
	case Editing:
		return "EDITING"
	case Submitting:
		return "SUBMITTING"
	case Succeeded:
		return "SUCCEEDED"
	case Failed:
		return "FAILED"
	default:
		return "UNKNOWN"
	}
}

// User-facing failure reasons, matching the platform's UI copy.
const (
	MsgFillAllFields    = "Please fill in all fields"
	MsgPasswordMismatch = "Passwords do not match"
	MsgPasswordTooShort = "Password must be at least 6 characters"
	MsgInviteInvalid    = "Invalid or expired invite token"
	MsgRegisterFailed   = "Registration failed"
)

// ErrSubmitInFlight rejects a second submission while one is outstanding
// (the double-click case). The triggering control should be disabled for the
// duration of the Submitting phase.
var ErrSubmitInFlight = errors.New("submission already in progress")

// ErrEmailLocked rejects edits to an email pre-filled from a verified
// invite.
var ErrEmailLocked = errors.New("email is locked to the invited address")

// ValidationError is a locally-detected draft problem. It never reaches the
// network.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// Draft is the transient form state, discarded when the flow ends.
type Draft struct {
	FullName        string
	Email           string
	Password        string
	ConfirmPassword string
}

// Registrar is the slice of the session controller the flow needs.
type Registrar interface {
	Register(ctx context.Context, email, password, fullName string) (*models.User, error)
}

// Verifier resolves invite tokens.
type Verifier interface {
	VerifyInvite(ctx context.Context, inviteToken string) (*models.Invite, error)
}

// Flow drives one registration attempt through
// Editing → Submitting → Succeeded/Failed. After a failure the draft stays
// editable and may be resubmitted; there is no attempt limit.
type Flow struct {
	registrar Registrar
	verifier  Verifier

	mu          sync.Mutex
	phase       Phase
	draft       Draft
	invite      *models.Invite
	emailLocked bool
	reason      string
}

func NewFlow(registrar Registrar, verifier Verifier) *Flow {
	return &Flow{registrar: registrar, verifier: verifier, phase: Editing}
}

// LoadInvite verifies an invite token found in the entry URL. On success the
// email field is pre-filled and locked and the pre-assigned role is surfaced
// via Invite(). On failure the form stays fully editable; the error is
// reported to the user but does not block registration.
func (f *Flow) LoadInvite(ctx context.Context, inviteToken string) error {
	invite, err := f.verifier.VerifyInvite(ctx, inviteToken)

	f.mu.Lock()
	defer f.mu.Unlock()
	if err != nil {
		f.reason = MsgInviteInvalid
		return fmt.Errorf("%s: %w", MsgInviteInvalid, err)
	}
	f.invite = invite
	f.draft.Email = invite.Email
	f.emailLocked = true
	return nil
}

// SetFullName updates the draft and returns the flow to Editing.
func (f *Flow) SetFullName(v string) {
	f.edit(func() { f.draft.FullName = v })
}

// SetEmail updates the draft email unless it is locked to an invited
// address.
func (f *Flow) SetEmail(v string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.emailLocked {
		return ErrEmailLocked
	}
	f.draft.Email = v
	f.backToEditingLocked()
	return nil
}

// SetPassword updates the draft and returns the flow to Editing.
func (f *Flow) SetPassword(v string) {
	f.edit(func() { f.draft.Password = v })
}

// SetConfirmPassword updates the draft and returns the flow to Editing.
func (f *Flow) SetConfirmPassword(v string) {
	f.edit(func() { f.draft.ConfirmPassword = v })
}

func (f *Flow) edit(apply func()) {
	f.mu.Lock()
	defer f.mu.Unlock()
	apply()
	f.backToEditingLocked()
}

func (f *Flow) backToEditingLocked() {
	if f.phase == Failed || f.phase == Succeeded {
		f.phase = Editing
		f.reason = ""
	}
}

// Submit validates the draft and, if it passes, registers the account.
//
// Validation runs in fixed order with first-failure-wins semantics: all
// fields present, then password confirmation, then minimum length. A
// validation failure moves the flow to Failed without any remote call.
// A server rejection surfaces the server's reason when present.
func (f *Flow) Submit(ctx context.Context) error {
	f.mu.Lock()
	if f.phase == Submitting {
		f.mu.Unlock()
		return ErrSubmitInFlight
	}
	draft := f.draft
	if verr := validate(draft); verr != nil {
		f.phase = Failed
		f.reason = verr.Message
		f.mu.Unlock()
		return verr
	}
	f.phase = Submitting
	f.reason = ""
	f.mu.Unlock()

	_, err := f.registrar.Register(ctx, draft.Email, draft.Password, draft.FullName)

	f.mu.Lock()
	defer f.mu.Unlock()
	if err != nil {
		f.phase = Failed
		if reason := api.Reason(err); reason != "" {
			f.reason = reason
		} else {
			f.reason = MsgRegisterFailed
		}
		return err
	}
	f.phase = Succeeded
	return nil
}

func validate(d Draft) *ValidationError {
	if d.FullName == "" || d.Email == "" || d.Password == "" || d.ConfirmPassword == "" {
		return &ValidationError{Message: MsgFillAllFields}
	}
	if d.Password != d.ConfirmPassword {
		return &ValidationError{Message: MsgPasswordMismatch}
	}
	if len(d.Password) < 6 {
		return &ValidationError{Message: MsgPasswordTooShort}
	}
	return nil
}

// Phase reports the flow's current state.
func (f *Flow) Phase() Phase {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.phase
}

// Reason reports the user-facing failure reason, if any.
func (f *Flow) Reason() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.reason
}

// Draft returns a copy of the current form values.
func (f *Flow) Draft() Draft {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.draft
}

// Invite returns the verified invite record, or nil without one.
func (f *Flow) Invite() *models.Invite {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.invite == nil {
		return nil
	}
	inv := *f.invite
	return &inv
}

// EmailLocked reports whether the email field is fixed to an invited
// address.
func (f *Flow) EmailLocked() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.emailLocked
}
