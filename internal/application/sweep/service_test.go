package sweep

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/studyagent/server/internal/domain"
)

// fakeAccountStore records mutations keyed by email. The sweep runs accounts
// through a worker pool, so recording has to be safe under concurrency.
type fakeAccountStore struct {
	mu        sync.Mutex
	accounts  []domain.Account
	mutations map[string]domain.Mutation
	failFor   map[string]bool
}

func newFakeStore(accounts ...domain.Account) *fakeAccountStore {
	return &fakeAccountStore{
		accounts:  accounts,
		mutations: make(map[string]domain.Mutation),
		failFor:   make(map[string]bool),
	}
}

func (f *fakeAccountStore) ScanPage(ctx context.Context, limit int32, cursor string) ([]domain.Account, string, error) {
	// Single page is enough for these scenarios.
	return f.accounts, "", nil
}

func (f *fakeAccountStore) Mutate(ctx context.Context, email string, m domain.Mutation) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failFor[email] {
		return errors.New("dynamo error")
	}
	f.mutations[email] = m
	return nil
}

func completed(streak int) domain.Progress {
	return domain.Progress{Streak: streak, CompletedToday: true}
}

func missed(streak int) domain.Progress {
	return domain.Progress{
		Streak:            streak,
		CompletedToday:    false,
		CorrectlyAnswered: []string{"q1", "q2"},
	}
}

// account spreads the per-practice views over the flat stored attributes.
func account(email string, grammar, writing domain.Progress) domain.Account {
	return domain.Account{
		Email:                    email,
		GrammarStreak:            grammar.Streak,
		GrammarCompletedToday:    grammar.CompletedToday,
		GrammarCorrectlyAnswered: grammar.CorrectlyAnswered,
		WritingStreak:            writing.Streak,
		WritingCompletedToday:    writing.CompletedToday,
		WritingCorrectlyAnswered: writing.CorrectlyAnswered,
	}
}

func TestRun_CompletedDay_RearmsFlagOnly(t *testing.T) {
	store := newFakeStore(account("a@example.com", completed(5), completed(3)))

	report, err := NewService(store).Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, report.UsersProcessed)
	assert.Equal(t, 0, report.UsersFailed)

	mut := store.mutations["a@example.com"]
	assert.Equal(t, false, mut.Set["grammar_completed_today"])
	assert.Equal(t, false, mut.Set["writing_completed_today"])
	// The streak and answer sets stay untouched.
	assert.NotContains(t, mut.Set, "grammar_streak")
	assert.Empty(t, mut.Remove)
}

func TestRun_MissedDay_ZeroesStreakAndWipesAnswers(t *testing.T) {
	store := newFakeStore(account("b@example.com", missed(5), completed(2)))

	report, err := NewService(store).Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, report.UsersProcessed)

	mut := store.mutations["b@example.com"]
	assert.Equal(t, 0, mut.Set["grammar_streak"])
	assert.Contains(t, mut.Remove, "grammar_correctly_answered")
	assert.Contains(t, mut.Remove, "grammar_incorrectly_answered")
	// The completed writing block only gets its flag rearmed.
	assert.Equal(t, false, mut.Set["writing_completed_today"])
	assert.NotContains(t, mut.Set, "writing_streak")
}

func TestRun_OneBadAccount_DoesNotAbortTheRest(t *testing.T) {
	store := newFakeStore(
		account("ok1@example.com", completed(1), completed(1)),
		account("bad@example.com", missed(4), completed(1)),
		account("ok2@example.com", missed(2), completed(1)),
	)
	store.failFor["bad@example.com"] = true

	report, err := NewService(store).Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, report.UsersProcessed)
	assert.Equal(t, 1, report.UsersFailed)
	assert.Contains(t, store.mutations, "ok1@example.com")
	assert.Contains(t, store.mutations, "ok2@example.com")
}

func TestRun_ManyAccounts_TalliesEveryOne(t *testing.T) {
	var accounts []domain.Account
	for i := 0; i < 50; i++ {
		accounts = append(accounts, account(
			string(rune('a'+i%26))+"@example.com",
			completed(i),
			completed(i),
		))
	}
	store := newFakeStore(accounts...)

	report, err := NewService(store).Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 50, report.UsersProcessed+report.UsersFailed)
	assert.Equal(t, 0, report.UsersFailed)
}
