package progress

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/studyagent/server/internal/domain"
)

// --- mocks ---

type mockAccountStore struct{ mock.Mock }

func (m *mockAccountStore) Get(ctx context.Context, email string) (*domain.Account, error) {
	args := m.Called(ctx, email)
	if a, _ := args.Get(0).(*domain.Account); a != nil {
		return a, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *mockAccountStore) Mutate(ctx context.Context, email string, mut domain.Mutation) error {
	return m.Called(ctx, email, mut).Error(0)
}

type mockCatalogStore struct{ mock.Mock }

func (m *mockCatalogStore) ListUnits(ctx context.Context, practice string) ([]domain.Unit, error) {
	args := m.Called(ctx, practice)
	units, _ := args.Get(0).([]domain.Unit)
	return units, args.Error(1)
}
func (m *mockCatalogStore) ListItems(ctx context.Context, unitID string) ([]domain.Item, error) {
	args := m.Called(ctx, unitID)
	items, _ := args.Get(0).([]domain.Item)
	return items, args.Error(1)
}
func (m *mockCatalogStore) GetDemoUnit(ctx context.Context, practice string) (*domain.Unit, error) {
	args := m.Called(ctx, practice)
	if u, _ := args.Get(0).(*domain.Unit); u != nil {
		return u, args.Error(1)
	}
	return nil, args.Error(1)
}

// --- helpers ---

const email = "alice@example.com"

func ptr[T any](v T) *T { return &v }

func grammarUnits(ids ...string) []domain.Unit {
	units := make([]domain.Unit, len(ids))
	for i, id := range ids {
		units[i] = domain.Unit{Practice: domain.PracticeGrammar, UnitID: id}
	}
	return units
}

func accountWith(p domain.Progress) *domain.Account {
	return &domain.Account{
		Email:                    email,
		GrammarStreak:            p.Streak,
		GrammarCorrectlyAnswered: p.CorrectlyAnswered,
		GrammarUnitsCompleted:    p.UnitsCompleted,
		GrammarCompletedToday:    p.CompletedToday,
	}
}

// --- PickUnit tests ---

func TestPickUnit_NeverReturnsCompletedUnit(t *testing.T) {
	as := &mockAccountStore{}
	cs := &mockCatalogStore{}
	as.On("Get", mock.Anything, email).Return(accountWith(domain.Progress{
		UnitsCompleted: []string{"day1", "day2"},
	}), nil)
	cs.On("ListUnits", mock.Anything, domain.PracticeGrammar).Return(grammarUnits("day1", "day2", "day3"), nil)

	svc := NewService(domain.PracticeGrammar, as, cs)
	for i := 0; i < 20; i++ {
		pick, err := svc.PickUnit(context.Background(), email)
		require.NoError(t, err)
		require.NotNil(t, pick.Unit)
		assert.Equal(t, "day3", pick.Unit.UnitID)
		assert.Equal(t, 1, pick.Remaining)
		assert.False(t, pick.Reset)
	}
}

func TestPickUnit_AllCompleted_ClearsLedgerAndReportsReset(t *testing.T) {
	as := &mockAccountStore{}
	cs := &mockCatalogStore{}
	as.On("Get", mock.Anything, email).Return(accountWith(domain.Progress{
		UnitsCompleted: []string{"day1", "day2"},
	}), nil)
	cs.On("ListUnits", mock.Anything, domain.PracticeGrammar).Return(grammarUnits("day1", "day2"), nil)
	as.On("Mutate", mock.Anything, email, mock.Anything).Return(nil)

	svc := NewService(domain.PracticeGrammar, as, cs)
	pick, err := svc.PickUnit(context.Background(), email)

	require.NoError(t, err)
	assert.True(t, pick.Reset)
	assert.Nil(t, pick.Unit)

	mut := as.Calls[1].Arguments.Get(2).(domain.Mutation)
	assert.Equal(t, []string{"grammar_units_completed"}, mut.Remove)
	assert.Empty(t, mut.Increment)
}

func TestPickUnit_SkipsDemoUnits(t *testing.T) {
	as := &mockAccountStore{}
	cs := &mockCatalogStore{}
	as.On("Get", mock.Anything, email).Return(accountWith(domain.Progress{}), nil)
	units := []domain.Unit{
		{Practice: domain.PracticeWriting, UnitID: "demo", Demo: true},
		{Practice: domain.PracticeWriting, UnitID: "mod1"},
	}
	cs.On("ListUnits", mock.Anything, domain.PracticeWriting).Return(units, nil)

	svc := NewService(domain.PracticeWriting, as, cs)
	pick, err := svc.PickUnit(context.Background(), email)

	require.NoError(t, err)
	require.NotNil(t, pick.Unit)
	assert.Equal(t, "mod1", pick.Unit.UnitID)
}

func TestPickUnit_CatalogFailure(t *testing.T) {
	as := &mockAccountStore{}
	cs := &mockCatalogStore{}
	as.On("Get", mock.Anything, email).Return(accountWith(domain.Progress{}), nil)
	cs.On("ListUnits", mock.Anything, domain.PracticeGrammar).Return(nil, errors.New("dynamo error"))

	svc := NewService(domain.PracticeGrammar, as, cs)
	_, err := svc.PickUnit(context.Background(), email)

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrUpstream))
}

// --- PickItem tests ---

func TestPickItem_SkipsCorrectlyAnswered(t *testing.T) {
	as := &mockAccountStore{}
	cs := &mockCatalogStore{}
	as.On("Get", mock.Anything, email).Return(accountWith(domain.Progress{
		CorrectlyAnswered: []string{"q1", "q2"},
	}), nil)
	cs.On("ListItems", mock.Anything, "day1").Return([]domain.Item{
		{ItemID: "q1"}, {ItemID: "q2"}, {ItemID: "q3"},
	}, nil)

	svc := NewService(domain.PracticeGrammar, as, cs)
	pick, err := svc.PickItem(context.Background(), email, "day1")

	require.NoError(t, err)
	require.NotNil(t, pick.Item)
	assert.Equal(t, "q3", pick.Item.ItemID)
	assert.False(t, pick.Exhausted)
}

func TestPickItem_AllAnswered_ReportsExhausted(t *testing.T) {
	as := &mockAccountStore{}
	cs := &mockCatalogStore{}
	as.On("Get", mock.Anything, email).Return(accountWith(domain.Progress{
		CorrectlyAnswered: []string{"q1"},
	}), nil)
	cs.On("ListItems", mock.Anything, "day1").Return([]domain.Item{{ItemID: "q1"}}, nil)

	svc := NewService(domain.PracticeGrammar, as, cs)
	pick, err := svc.PickItem(context.Background(), email, "day1")

	require.NoError(t, err)
	assert.True(t, pick.Exhausted)
	assert.Nil(t, pick.Item)
}

// --- RecordUpdates tests ---

func TestRecordUpdates_CorrectAnswerRetiresIncorrect(t *testing.T) {
	as := &mockAccountStore{}
	as.On("Mutate", mock.Anything, email, mock.Anything).Return(nil).Twice()

	svc := NewService(domain.PracticeGrammar, as, &mockCatalogStore{})
	err := svc.RecordUpdates(context.Background(), email, domain.ProgressUpdateRequest{
		CorrectlyAnswered: ptr("q1"),
	})
	require.NoError(t, err)

	pull := as.Calls[0].Arguments.Get(2).(domain.Mutation)
	assert.Equal(t, map[string][]string{"grammar_incorrectly_answered": {"q1"}}, pull.DeleteFromSet)

	add := as.Calls[1].Arguments.Get(2).(domain.Mutation)
	assert.Equal(t, map[string][]string{"grammar_correctly_answered": {"q1"}}, add.Add)
	as.AssertExpectations(t)
}

func TestRecordUpdates_OnlySuppliedFields(t *testing.T) {
	as := &mockAccountStore{}
	as.On("Mutate", mock.Anything, email, mock.Anything).Return(nil)

	svc := NewService(domain.PracticeWriting, as, &mockCatalogStore{})
	err := svc.RecordUpdates(context.Background(), email, domain.ProgressUpdateRequest{
		IntroCompleted: ptr(true),
		UnitCompleted:  ptr("mod1"),
	})
	require.NoError(t, err)

	mut := as.Calls[0].Arguments.Get(2).(domain.Mutation)
	assert.Equal(t, map[string]interface{}{"writing_intro_completed": true}, mut.Set)
	assert.Equal(t, map[string][]string{"writing_units_completed": {"mod1"}}, mut.Add)
	assert.Empty(t, mut.DeleteFromSet)
}

func TestRecordUpdates_NothingSupplied(t *testing.T) {
	as := &mockAccountStore{}
	svc := NewService(domain.PracticeGrammar, as, &mockCatalogStore{})

	err := svc.RecordUpdates(context.Background(), email, domain.ProgressUpdateRequest{})

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrNoChanges))
	as.AssertNotCalled(t, "Mutate", mock.Anything, mock.Anything, mock.Anything)
}

// --- Complete tests ---

func TestComplete_IncrementsStreakAndClearsPool(t *testing.T) {
	as := &mockAccountStore{}
	as.On("Mutate", mock.Anything, email, mock.Anything).Return(nil)

	svc := NewService(domain.PracticeGrammar, as, &mockCatalogStore{})
	require.NoError(t, svc.Complete(context.Background(), email))

	mut := as.Calls[0].Arguments.Get(2).(domain.Mutation)
	assert.Equal(t, map[string]int{"grammar_streak": 1}, mut.Increment)
	assert.Equal(t, map[string]interface{}{"grammar_completed_today": true}, mut.Set)
	assert.Equal(t, []string{"grammar_correctly_answered"}, mut.Remove)
}

// --- DemoUnit tests ---

func TestDemoUnit(t *testing.T) {
	cs := &mockCatalogStore{}
	cs.On("GetDemoUnit", mock.Anything, domain.PracticeWriting).Return(&domain.Unit{UnitID: "demo", Demo: true}, nil)

	svc := NewService(domain.PracticeWriting, &mockAccountStore{}, cs)
	u, err := svc.DemoUnit(context.Background())

	require.NoError(t, err)
	assert.Equal(t, "demo", u.UnitID)
}
