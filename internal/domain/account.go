package domain

import "time"

// Practice domain names. Each verified account carries one Progress block per
// practice domain.
const (
	PracticeGrammar = "grammar"
	PracticeWriting = "writing"
)

// Account is a verified user record. The email is the primary identifier and
// is compared case-sensitively, exactly as supplied at signup. Per-practice
// progress lives in flat prefixed attributes rather than nested maps:
// DynamoDB allows the ADD and DELETE update actions only on top-level
// attributes, and the tracker relies on both for streaks and answer sets.
type Account struct {
	Email          string `json:"email" dynamodbav:"email"`
	Name           string `json:"name" dynamodbav:"name"`
	Credential     string `json:"-" dynamodbav:"credential"`
	CurrentOTP     string `json:"-" dynamodbav:"current_otp"`
	IntroCompleted bool   `json:"intro_completed" dynamodbav:"intro_completed"`

	GrammarIntroCompleted      bool     `json:"grammar_intro_completed" dynamodbav:"grammar_intro_completed"`
	GrammarStreak              int      `json:"grammar_streak" dynamodbav:"grammar_streak"`
	GrammarCorrectlyAnswered   []string `json:"grammar_correctly_answered" dynamodbav:"grammar_correctly_answered,stringset,omitempty"`
	GrammarIncorrectlyAnswered []string `json:"grammar_incorrectly_answered" dynamodbav:"grammar_incorrectly_answered,stringset,omitempty"`
	GrammarUnitsCompleted      []string `json:"grammar_units_completed" dynamodbav:"grammar_units_completed,stringset,omitempty"`
	GrammarCompletedToday      bool     `json:"grammar_completed_today" dynamodbav:"grammar_completed_today"`

	WritingIntroCompleted      bool     `json:"writing_intro_completed" dynamodbav:"writing_intro_completed"`
	WritingStreak              int      `json:"writing_streak" dynamodbav:"writing_streak"`
	WritingCorrectlyAnswered   []string `json:"writing_correctly_answered" dynamodbav:"writing_correctly_answered,stringset,omitempty"`
	WritingIncorrectlyAnswered []string `json:"writing_incorrectly_answered" dynamodbav:"writing_incorrectly_answered,stringset,omitempty"`
	WritingUnitsCompleted      []string `json:"writing_units_completed" dynamodbav:"writing_units_completed,stringset,omitempty"`
	WritingCompletedToday      bool     `json:"writing_completed_today" dynamodbav:"writing_completed_today"`

	CreatedAt time.Time `json:"created" dynamodbav:"created_at"`
	UpdatedAt time.Time `json:"updated" dynamodbav:"updated_at"`
}

// Progress is a read view over one practice domain's attributes.
// CorrectlyAnswered and IncorrectlyAnswered hold item identifiers;
// UnitsCompleted holds unit identifiers (grammar days, writing modules).
type Progress struct {
	IntroCompleted      bool
	Streak              int
	CorrectlyAnswered   []string
	IncorrectlyAnswered []string
	UnitsCompleted      []string
	CompletedToday      bool
}

// ProgressFor assembles the view for the named practice domain.
func (a *Account) ProgressFor(practice string) Progress {
	if practice == PracticeWriting {
		return Progress{
			IntroCompleted:      a.WritingIntroCompleted,
			Streak:              a.WritingStreak,
			CorrectlyAnswered:   a.WritingCorrectlyAnswered,
			IncorrectlyAnswered: a.WritingIncorrectlyAnswered,
			UnitsCompleted:      a.WritingUnitsCompleted,
			CompletedToday:      a.WritingCompletedToday,
		}
	}
	return Progress{
		IntroCompleted:      a.GrammarIntroCompleted,
		Streak:              a.GrammarStreak,
		CorrectlyAnswered:   a.GrammarCorrectlyAnswered,
		IncorrectlyAnswered: a.GrammarIncorrectlyAnswered,
		UnitsCompleted:      a.GrammarUnitsCompleted,
		CompletedToday:      a.GrammarCompletedToday,
	}
}

// PendingSignup is an unverified signup awaiting OTP confirmation.
// ExpiresAt is a Unix timestamp used as DynamoDB TTL; records are swept by
// the store 900 seconds after creation if never promoted.
type PendingSignup struct {
	Email      string    `json:"email" dynamodbav:"email"`
	CurrentOTP string    `json:"-" dynamodbav:"current_otp"`
	CreatedAt  time.Time `json:"created" dynamodbav:"created_at"`
	ExpiresAt  int64     `json:"-" dynamodbav:"expires_at"`
}

// Account lifecycle states reported by lookups.
const (
	StateVerified = "verified"
	StatePending  = "pending"
)

type SignupRequest struct {
	Email string `json:"user_email" validate:"required,email"`
}

type VerifyRequest struct {
	Email      string `json:"user_email" validate:"required,email"`
	OTP        string `json:"input_otp" validate:"required,otp"`
	Name       string `json:"user_name"`
	Credential string `json:"user_password"`
}

type AuthenticateRequest struct {
	Email      string `json:"user_email" validate:"required,email"`
	Credential string `json:"user_password" validate:"required"`
}

// UpdateAccountRequest carries optional account-level field updates.
// Nil means "leave unchanged"; only supplied fields reach the store.
type UpdateAccountRequest struct {
	Credential     *string `json:"password"`
	IntroCompleted *bool   `json:"intro_completed"`
}

// ProgressUpdateRequest carries optional progress updates for one practice
// domain. IntroCompleted is a replace; the three identifier fields are
// add-to-set appends. A correct answer already recorded as incorrect is
// removed from the incorrect set before the append.
type ProgressUpdateRequest struct {
	IntroCompleted      *bool   `json:"intro_completed"`
	CorrectlyAnswered   *string `json:"correctly_answered"`
	IncorrectlyAnswered *string `json:"incorrectly_answered"`
	UnitCompleted       *string `json:"unit_completed"`
}
