package access

import (
	"context"
	"errors"

	"github.com/trezcool/edusurvey/core"
	"github.com/trezcool/edusurvey/core/school"
	"github.com/trezcool/edusurvey/core/secret"
)

type State string

const (
	StateIdle             State = "idle"
	StateIdentityChecking State = "identityChecking"
	StateIdentityRejected State = "identityRejected"
	StateIdentityAccepted State = "identityAccepted"
	StateSecretChecking   State = "secretChecking"
	StateSecretRejected   State = "secretRejected"
	StateSecretAccepted   State = "secretAccepted"
	StateEntered          State = "entered"
)

// Step tells what the secret prompt expects.
type Step string

const (
	StepEstablish Step = "establish" // first manager of the school chooses the secret
	StepSupply    Step = "supply"
)

type Reason string

const (
	ReasonIncomplete      Reason = "incomplete"
	ReasonBadFormat       Reason = Reason(school.ReasonBadFormat)
	ReasonNotFound        Reason = Reason(school.ReasonNotFound)
	ReasonNameMismatch    Reason = Reason(school.ReasonNameMismatch)
	ReasonAwaitingManager Reason = "awaitingManager"
	ReasonSecretFormat    Reason = "secretFormat"
	ReasonConfirmMismatch Reason = "confirmMismatch"
	ReasonAlreadySet      Reason = "alreadySet"
	ReasonWrongSecret     Reason = "wrongSecret"
)

var ErrInvalidTransition = errors.New("invalid access flow transition")

type (
	IdentityVerifier interface {
		Verify(ctx context.Context, claimedName, claimedCode string) (school.Verification, error)
	}

	SecretGateway interface {
		HasSecret(ctx context.Context, schoolCode string) (bool, error)
		SetSecret(ctx context.Context, schoolCode, pin string, role core.Role) error
		VerifySecret(ctx context.Context, schoolCode, pin string) (bool, error)
	}

	// Flow decides whether a staff member may enter a school workspace.
	Flow struct {
		verifier IdentityVerifier
		secrets  SecretGateway
	}

	// Entry is the outcome of a successful flow.
	Entry struct {
		SchoolCode string    `json:"school_code"`
		SchoolName string    `json:"school_name"`
		Role       core.Role `json:"role"`
	}
)

func NewFlow(verifier IdentityVerifier, secrets SecretGateway) *Flow {
	return &Flow{verifier: verifier, secrets: secrets}
}

// Attempt is the transient state of one staff member going through the flow.
// It holds no secret material.
type Attempt struct {
	flow   *Flow
	State  State
	Step   Step
	Reason Reason
	Role   core.Role
	Code   string        // normalized claimed code; keys the school secret
	Record school.Record // set once the directory answered
	Entry  *Entry        // set once Entered
}

// Begin verifies the claimed identity and, when accepted, prepares the secret prompt.
// Store and directory failures reset the attempt to idle and are returned.
func (f *Flow) Begin(ctx context.Context, role core.Role, claimedName, claimedCode string) (*Attempt, error) {
	a := &Attempt{flow: f, State: StateIdle, Role: role}
	if !role.Valid() || core.CleanString(claimedName) == "" || core.CleanString(claimedCode) == "" {
		a.Reason = ReasonIncomplete
		return a, nil
	}

	a.State = StateIdentityChecking
	v, err := f.verifier.Verify(ctx, claimedName, claimedCode)
	if err != nil {
		a.reset()
		return a, err
	}
	if !v.Accepted {
		a.State = StateIdentityRejected
		a.Reason = Reason(v.Reason)
		a.Record = v.Record
		return a, nil
	}

	a.State = StateIdentityAccepted
	a.Record = v.Record
	a.Code, _ = core.NormalizeSchoolCode(claimedCode)
	return a, a.prompt(ctx)
}

// prompt chooses the secret step from whether the school already has a secret.
func (a *Attempt) prompt(ctx context.Context) error {
	exists, err := a.flow.secrets.HasSecret(ctx, a.schoolCode())
	if err != nil {
		a.reset()
		return err
	}
	switch {
	case exists:
		a.State, a.Step = StateSecretChecking, StepSupply
	case a.Role.IsManager():
		a.State, a.Step = StateSecretChecking, StepEstablish
	default:
		// a teacher cannot enter before the manager set the secret
		a.State, a.Step = StateSecretRejected, ""
		a.Reason = ReasonAwaitingManager
	}
	return nil
}

// Establish sets the first secret of the school. If another manager set it meanwhile,
// the attempt falls back to supplying the existing secret.
func (a *Attempt) Establish(ctx context.Context, pin, confirm string) error {
	if a.State != StateSecretChecking || a.Step != StepEstablish {
		return ErrInvalidTransition
	}
	a.Reason = ""
	if pin != confirm {
		a.Reason = ReasonConfirmMismatch
		return nil
	}
	if !core.IsPin(pin) {
		a.Reason = ReasonSecretFormat
		return nil
	}

	err := a.flow.secrets.SetSecret(ctx, a.schoolCode(), pin, a.Role)
	switch {
	case err == nil:
		a.enter()
		return nil
	case errors.Is(err, secret.ErrAlreadySet):
		if err = a.prompt(ctx); err != nil {
			return err
		}
		a.Reason = ReasonAlreadySet
		return nil
	case errors.Is(err, secret.ErrBadFormat):
		a.Reason = ReasonSecretFormat
		return nil
	default:
		a.reset()
		return err
	}
}

// Supply checks the school secret. A wrong secret can be retried without limit.
func (a *Attempt) Supply(ctx context.Context, pin string) error {
	if (a.State != StateSecretChecking && a.State != StateSecretRejected) || a.Step != StepSupply {
		return ErrInvalidTransition
	}
	a.Reason = ""
	if !core.IsPin(pin) {
		a.State = StateSecretRejected
		a.Reason = ReasonSecretFormat
		return nil
	}

	ok, err := a.flow.secrets.VerifySecret(ctx, a.schoolCode(), pin)
	if err != nil {
		a.reset()
		return err
	}
	if !ok {
		a.State = StateSecretRejected
		a.Reason = ReasonWrongSecret
		return nil
	}
	a.enter()
	return nil
}

// Cancel abandons the attempt without touching the store.
func (a *Attempt) Cancel() {
	a.reset()
}

func (a *Attempt) enter() {
	a.Entry = &Entry{
		SchoolCode: a.schoolCode(),
		SchoolName: a.Record.Name,
		Role:       a.Role,
	}
	a.State = StateEntered
}

func (a *Attempt) reset() {
	a.State = StateIdle
	a.Step = ""
	a.Reason = ""
	a.Code = ""
	a.Record = school.Record{}
	a.Entry = nil
}

// schoolCode keys the secret the same way the school-password endpoints do:
// the claimed code, trimmed and uppercased.
func (a *Attempt) schoolCode() string {
	return a.Code
}
