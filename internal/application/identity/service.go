package identity

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/studyagent/server/internal/domain"
	"github.com/studyagent/server/internal/pkg/otp"
)

// DynamoDB attribute names used in partial update maps.
const (
	fieldCurrentOTP     = "current_otp"
	fieldCredential     = "credential"
	fieldIntroCompleted = "intro_completed"
)

// AccountInfo is the lookup result for either lifecycle state.
type AccountInfo struct {
	Status  string                `json:"status"`
	Account *domain.Account       `json:"account,omitempty"`
	Pending *domain.PendingSignup `json:"pending,omitempty"`
}

type Service interface {
	// Signup starts (or retries) a signup. resent reports whether an existing
	// pending signup had its code regenerated instead of a new record created.
	Signup(ctx context.Context, email string) (resent bool, err error)
	// Verify checks a supplied code against either lifecycle state. created
	// reports whether a pending signup was promoted to a verified account.
	Verify(ctx context.Context, req domain.VerifyRequest) (created bool, err error)
	Authenticate(ctx context.Context, email, credential string) error
	ResendOTP(ctx context.Context, email string) error
	Get(ctx context.Context, email string) (*AccountInfo, error)
	Update(ctx context.Context, email string, req domain.UpdateAccountRequest) error
}

type accountStore interface {
	Get(ctx context.Context, email string) (*domain.Account, error)
	Put(ctx context.Context, a *domain.Account) error
	Update(ctx context.Context, email string, updates map[string]interface{}) error
}

type pendingStore interface {
	Get(ctx context.Context, email string) (*domain.PendingSignup, error)
	Create(ctx context.Context, p *domain.PendingSignup) error
	UpdateOTP(ctx context.Context, email, code string) error
	Delete(ctx context.Context, email string) error
}

type codeMailer interface {
	SendVerificationCode(ctx context.Context, to, code string) error
}

type service struct {
	accounts    accountStore
	pending     pendingStore
	mailer      codeMailer
	pendingTTL  time.Duration
	mailTimeout time.Duration
}

type ServiceDeps struct {
	Accounts    accountStore
	Pending     pendingStore
	Mailer      codeMailer
	PendingTTL  time.Duration
	MailTimeout time.Duration
}

func NewService(deps ServiceDeps) Service {
	s := &service{
		accounts:    deps.Accounts,
		pending:     deps.Pending,
		mailer:      deps.Mailer,
		pendingTTL:  deps.PendingTTL,
		mailTimeout: deps.MailTimeout,
	}
	if s.pendingTTL <= 0 {
		s.pendingTTL = 15 * time.Minute
	}
	if s.mailTimeout <= 0 {
		s.mailTimeout = 15 * time.Second
	}
	return s
}

func (s *service) Signup(ctx context.Context, email string) (bool, error) {
	// A store fault here must not pass for "no verified account", or an
	// outage would let signup race a real record.
	if _, err := s.accounts.Get(ctx, email); err == nil {
		return false, fmt.Errorf("email already exists: %w", domain.ErrConflict)
	} else if !errors.Is(err, domain.ErrNotFound) {
		return false, fmt.Errorf("account lookup failed: %w", domain.ErrStore)
	}

	code, err := otp.Issue()
	if err != nil {
		return false, err
	}

	// Retry path: an abandoned signup gets its code regenerated, never a
	// second pending record.
	if _, err := s.pending.Get(ctx, email); err == nil {
		if err := s.pending.UpdateOTP(ctx, email, code); err != nil {
			return false, err
		}
		return true, s.dispatch(ctx, email, code)
	} else if !errors.Is(err, domain.ErrNotFound) {
		return false, fmt.Errorf("pending signup lookup failed: %w", domain.ErrStore)
	}

	now := time.Now().UTC()
	p := &domain.PendingSignup{
		Email:      email,
		CurrentOTP: code,
		CreatedAt:  now,
		ExpiresAt:  now.Add(s.pendingTTL).Unix(),
	}
	if err := s.pending.Create(ctx, p); err != nil {
		// A concurrent signup won the conditional put; fall back to the
		// resend path so the caller still gets a working code.
		if errors.Is(err, domain.ErrConflict) {
			if uerr := s.pending.UpdateOTP(ctx, email, code); uerr != nil {
				return false, uerr
			}
			return true, s.dispatch(ctx, email, code)
		}
		return false, err
	}
	return false, s.dispatch(ctx, email, code)
}

func (s *service) Verify(ctx context.Context, req domain.VerifyRequest) (bool, error) {
	// Verified accounts first: a matching code here confirms a sensitive
	// action (password-reset style), changing nothing but the rotated code.
	if a, err := s.accounts.Get(ctx, req.Email); err == nil {
		if !otp.Matches(a.CurrentOTP, req.OTP) {
			return false, fmt.Errorf("OTP codes don't match: %w", domain.ErrMismatch)
		}
		if err := s.rotate(ctx, req.Email); err != nil {
			return false, err
		}
		return false, nil
	} else if !errors.Is(err, domain.ErrNotFound) {
		return false, fmt.Errorf("account lookup failed: %w", domain.ErrStore)
	}

	p, err := s.pending.Get(ctx, req.Email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return false, fmt.Errorf("no email found, please restart the signup process: %w", domain.ErrNotFound)
		}
		return false, fmt.Errorf("pending signup lookup failed: %w", domain.ErrStore)
	}
	if !otp.Matches(p.CurrentOTP, req.OTP) {
		return false, fmt.Errorf("OTP codes don't match: %w", domain.ErrMismatch)
	}

	// Promotion. The verified record is inserted in one put carrying an
	// already-rotated code, so the code that proved the signup never
	// validates again and no half-initialized account is ever visible.
	fresh, err := otp.Issue()
	if err != nil {
		return false, err
	}
	now := time.Now().UTC()
	a := &domain.Account{
		Email:      req.Email,
		Name:       req.Name,
		Credential: req.Credential,
		CurrentOTP: fresh,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := s.accounts.Put(ctx, a); err != nil {
		return false, err
	}
	if err := s.pending.Delete(ctx, req.Email); err != nil {
		// The TTL sweeps the leftover record; the promotion already stands.
		slog.Warn("failed to delete pending signup after promotion", "email", req.Email, "err", err)
	}
	return true, nil
}

func (s *service) Authenticate(ctx context.Context, email, credential string) error {
	a, err := s.accounts.Get(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return fmt.Errorf("email does not exist: %w", domain.ErrNotFound)
		}
		return fmt.Errorf("account lookup failed: %w", domain.ErrStore)
	}
	if a.Credential != credential {
		return fmt.Errorf("incorrect password provided: %w", domain.ErrMismatch)
	}
	return nil
}

func (s *service) ResendOTP(ctx context.Context, email string) error {
	code, err := otp.Issue()
	if err != nil {
		return err
	}
	if err := s.accounts.Update(ctx, email, map[string]interface{}{fieldCurrentOTP: code}); err == nil {
		return s.dispatch(ctx, email, code)
	} else if !errors.Is(err, domain.ErrNotFound) {
		return err
	}
	if err := s.pending.UpdateOTP(ctx, email, code); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return fmt.Errorf("email doesn't exist, please sign up: %w", domain.ErrNotFound)
		}
		return err
	}
	return s.dispatch(ctx, email, code)
}

func (s *service) Get(ctx context.Context, email string) (*AccountInfo, error) {
	if a, err := s.accounts.Get(ctx, email); err == nil {
		return &AccountInfo{Status: domain.StateVerified, Account: a}, nil
	} else if !errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("account lookup failed: %w", domain.ErrStore)
	}
	if p, err := s.pending.Get(ctx, email); err == nil {
		return &AccountInfo{Status: domain.StatePending, Pending: p}, nil
	} else if !errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("pending signup lookup failed: %w", domain.ErrStore)
	}
	return nil, fmt.Errorf("user not found: %w", domain.ErrNotFound)
}

func (s *service) Update(ctx context.Context, email string, req domain.UpdateAccountRequest) error {
	updates := map[string]interface{}{}
	if req.Credential != nil {
		updates[fieldCredential] = *req.Credential
	}
	if req.IntroCompleted != nil {
		updates[fieldIntroCompleted] = *req.IntroCompleted
	}
	if len(updates) == 0 {
		return fmt.Errorf("no data provided for changes: %w", domain.ErrNoChanges)
	}
	return s.accounts.Update(ctx, email, updates)
}

// rotate replaces the stored code after a successful match: one code, one use.
func (s *service) rotate(ctx context.Context, email string) error {
	code, err := otp.Issue()
	if err != nil {
		return err
	}
	return s.accounts.Update(ctx, email, map[string]interface{}{fieldCurrentOTP: code})
}

// dispatch sends the code after it is already durable. A send failure is
// surfaced as an upstream error but never rolls back the stored code.
func (s *service) dispatch(ctx context.Context, email, code string) error {
	ctx, cancel := context.WithTimeout(ctx, s.mailTimeout)
	defer cancel()
	if err := s.mailer.SendVerificationCode(ctx, email, code); err != nil {
		slog.Warn("failed to send verification code", "email", email, "err", err)
		return fmt.Errorf("error sending email: %w", domain.ErrUpstream)
	}
	return nil
}
