package register

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/mzaikin/caseport/internal/client/api"
	"github.com/mzaikin/caseport/internal/client/models"
)

// ---- fakes ----

type fakeRegistrar struct {
	mu       sync.Mutex
	calls    int
	err      error
	release  chan struct{} // when set, Register blocks until closed
	lastArgs [3]string
}

func (f *fakeRegistrar) Register(ctx context.Context, email, password, fullName string) (*models.User, error) {
	f.mu.Lock()
	f.calls++
	f.lastArgs = [3]string{email, password, fullName}
	release := f.release
	f.mu.Unlock()

	if release != nil {
		<-release
	}
	if f.err != nil {
		return nil, f.err
	}
	return &models.User{ID: "u1", Email: email, FullName: fullName, Role: models.RoleClient}, nil
}

func (f *fakeRegistrar) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

type fakeVerifier struct {
	invite *models.Invite
	err    error
	calls  int
}

func (f *fakeVerifier) VerifyInvite(ctx context.Context, inviteToken string) (*models.Invite, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.invite, nil
}

func validDraft(f *Flow) {
	f.SetFullName("Ada Lovelace")
	_ = f.SetEmail("ada@example.com")
	f.SetPassword("abcdef")
	f.SetConfirmPassword("abcdef")
}

// ---- validation order ----

func TestSubmit_ValidationOrder(t *testing.T) {
	tests := []struct {
		name  string
		draft Draft
		want  string
	}{
		{
			"empty full name",
			Draft{FullName: "", Email: "a@b.com", Password: "x", ConfirmPassword: "x"},
			MsgFillAllFields,
		},
		{
			"mismatch",
			Draft{FullName: "A", Email: "a@b.com", Password: "abcdef", ConfirmPassword: "abcdex"},
			MsgPasswordMismatch,
		},
		{
			"too short",
			Draft{FullName: "A", Email: "a@b.com", Password: "abc", ConfirmPassword: "abc"},
			MsgPasswordTooShort,
		},
		{
			// Missing fields win over every later rule.
			"empty fields before mismatch",
			Draft{FullName: "", Email: "", Password: "abcdef", ConfirmPassword: "nope"},
			MsgFillAllFields,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reg := &fakeRegistrar{}
			f := NewFlow(reg, &fakeVerifier{})
			f.SetFullName(tt.draft.FullName)
			_ = f.SetEmail(tt.draft.Email)
			f.SetPassword(tt.draft.Password)
			f.SetConfirmPassword(tt.draft.ConfirmPassword)

			err := f.Submit(context.Background())

			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			require.Equal(t, tt.want, verr.Message)
			require.Equal(t, Failed, f.Phase())
			require.Equal(t, tt.want, f.Reason())
			require.Zero(t, reg.callCount(), "validation failures must not reach the API")
		})
	}
}

func TestSubmit_Success(t *testing.T) {
	reg := &fakeRegistrar{}
	f := NewFlow(reg, &fakeVerifier{})
	validDraft(f)

	require.NoError(t, f.Submit(context.Background()))
	require.Equal(t, Succeeded, f.Phase())
	require.Equal(t, 1, reg.callCount())
	require.Equal(t, [3]string{"ada@example.com", "abcdef", "Ada Lovelace"}, reg.lastArgs)
}

func TestSubmit_ServerRejectionSurfacesReason(t *testing.T) {
	reg := &fakeRegistrar{err: &api.APIError{Status: 400, Reason: "Email already registered"}}
	f := NewFlow(reg, &fakeVerifier{})
	validDraft(f)

	err := f.Submit(context.Background())
	require.Error(t, err)
	require.Equal(t, Failed, f.Phase())
	require.Equal(t, "Email already registered", f.Reason())
}

func TestSubmit_TransportFailureGenericReason(t *testing.T) {
	reg := &fakeRegistrar{err: api.ErrUnavailable}
	f := NewFlow(reg, &fakeVerifier{})
	validDraft(f)

	err := f.Submit(context.Background())
	require.ErrorIs(t, err, api.ErrUnavailable)
	require.Equal(t, Failed, f.Phase())
	require.Equal(t, MsgRegisterFailed, f.Reason())
}

func TestSubmit_EditAfterFailureAllowsResubmit(t *testing.T) {
	reg := &fakeRegistrar{err: &api.APIError{Status: 400, Reason: "Email already registered"}}
	f := NewFlow(reg, &fakeVerifier{})
	validDraft(f)

	require.Error(t, f.Submit(context.Background()))
	require.Equal(t, Failed, f.Phase())

	_ = f.SetEmail("other@example.com")
	require.Equal(t, Editing, f.Phase())
	require.Empty(t, f.Reason())

	reg.err = nil
	require.NoError(t, f.Submit(context.Background()))
	require.Equal(t, Succeeded, f.Phase())
	require.Equal(t, 2, reg.callCount())
}

func TestSubmit_RejectsOverlappingSubmission(t *testing.T) {
	release := make(chan struct{})
	reg := &fakeRegistrar{release: release}
	f := NewFlow(reg, &fakeVerifier{})
	validDraft(f)

	done := make(chan error, 1)
	go func() { done <- f.Submit(context.Background()) }()

	// Wait until the first submission is in flight.
	require.Eventually(t, func() bool { return f.Phase() == Submitting }, time.Second, time.Millisecond)

	err := f.Submit(context.Background())
	require.ErrorIs(t, err, ErrSubmitInFlight)
	require.Equal(t, 1, reg.callCount())

	close(release)
	require.NoError(t, <-done)
	require.Equal(t, Succeeded, f.Phase())
}

// ---- invite prefill ----

func TestLoadInvite_PrefillsAndLocksEmail(t *testing.T) {
	v := &fakeVerifier{invite: &models.Invite{Email: "x@y.com", Role: models.RoleFeeEarner}}
	f := NewFlow(&fakeRegistrar{}, v)

	require.NoError(t, f.LoadInvite(context.Background(), "good-token"))

	require.Equal(t, "x@y.com", f.Draft().Email)
	require.True(t, f.EmailLocked())
	require.ErrorIs(t, f.SetEmail("evil@other.com"), ErrEmailLocked)
	require.Equal(t, "x@y.com", f.Draft().Email)

	inv := f.Invite()
	require.NotNil(t, inv)
	require.Equal(t, models.RoleFeeEarner, inv.Role)
	require.Equal(t, 1, v.calls)
}

func TestLoadInvite_InvalidTokenLeavesFormEditable(t *testing.T) {
	v := &fakeVerifier{err: api.ErrInviteInvalid}
	f := NewFlow(&fakeRegistrar{}, v)

	err := f.LoadInvite(context.Background(), "bad-token")
	require.ErrorIs(t, err, api.ErrInviteInvalid)
	require.Equal(t, MsgInviteInvalid, f.Reason())

	// No prefill, no lock, registration still possible.
	require.False(t, f.EmailLocked())
	require.Nil(t, f.Invite())
	require.NoError(t, f.SetEmail("ada@example.com"))
	f.SetFullName("Ada Lovelace")
	f.SetPassword("abcdef")
	f.SetConfirmPassword("abcdef")
	require.NoError(t, f.Submit(context.Background()))
	require.Equal(t, Succeeded, f.Phase())
}

func TestSubmit_SucceededThenEditReturnsToEditing(t *testing.T) {
	f := NewFlow(&fakeRegistrar{}, &fakeVerifier{})
	validDraft(f)
	require.NoError(t, f.Submit(context.Background()))
	require.Equal(t, Succeeded, f.Phase())

	f.SetPassword("another1")
	require.Equal(t, Editing, f.Phase())
}

func TestLoadInvite_AnyVerifierFailureReportsInviteInvalid(t *testing.T) {
	v := &fakeVerifier{err: errors.New("boom")}
	f := NewFlow(&fakeRegistrar{}, v)
	require.Error(t, f.LoadInvite(context.Background(), "t"))
	require.Equal(t, MsgInviteInvalid, f.Reason())
	require.Equal(t, Editing, f.Phase())
}
