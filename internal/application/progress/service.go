package progress

import (
	"context"
	"fmt"
	"math/rand"

	"github.com/studyagent/server/internal/domain"
)

// Progress attribute name suffixes. Stored attributes are flat and prefixed
// with the practice domain ("grammar_streak"): the store's ADD and DELETE
// update actions only work on top-level attributes.
const (
	fieldIntroCompleted      = "intro_completed"
	fieldStreak              = "streak"
	fieldCorrectlyAnswered   = "correctly_answered"
	fieldIncorrectlyAnswered = "incorrectly_answered"
	fieldUnitsCompleted      = "units_completed"
	fieldCompletedToday      = "completed_today"
)

// UnitPick is the result of selecting a practice unit. When the user has
// exhausted every unit, Reset is true, no unit is selected, and the
// completed-units ledger has been cleared so the next pick starts over.
type UnitPick struct {
	Unit      *domain.Unit `json:"unit,omitempty"`
	Remaining int          `json:"remaining_count"`
	Reset     bool         `json:"reset"`
}

// ItemPick is the result of selecting an item inside a unit. Exhausted means
// every item in the unit has already been answered correctly.
type ItemPick struct {
	Item      *domain.Item `json:"item,omitempty"`
	Exhausted bool         `json:"exhausted"`
}

type Service interface {
	PickUnit(ctx context.Context, email string) (*UnitPick, error)
	PickItem(ctx context.Context, email, unitID string) (*ItemPick, error)
	RecordUpdates(ctx context.Context, email string, req domain.ProgressUpdateRequest) error
	Complete(ctx context.Context, email string) error
	DemoUnit(ctx context.Context) (*domain.Unit, error)
}

type accountStore interface {
	Get(ctx context.Context, email string) (*domain.Account, error)
	Mutate(ctx context.Context, email string, m domain.Mutation) error
}

type catalogStore interface {
	ListUnits(ctx context.Context, practice string) ([]domain.Unit, error)
	ListItems(ctx context.Context, unitID string) ([]domain.Item, error)
	GetDemoUnit(ctx context.Context, practice string) (*domain.Unit, error)
}

// service tracks one practice domain. Grammar and writing get their own
// instance; the only difference between them is the unit granularity the
// catalog hands back.
type service struct {
	practice string
	accounts accountStore
	catalog  catalogStore
}

func NewService(practice string, accounts accountStore, catalog catalogStore) Service {
	return &service{practice: practice, accounts: accounts, catalog: catalog}
}

func (s *service) PickUnit(ctx context.Context, email string) (*UnitPick, error) {
	a, err := s.accounts.Get(ctx, email)
	if err != nil {
		return nil, err
	}
	units, err := s.catalog.ListUnits(ctx, s.practice)
	if err != nil {
		return nil, fmt.Errorf("catalog unavailable: %w", domain.ErrUpstream)
	}

	completed := toSet(a.ProgressFor(s.practice).UnitsCompleted)
	var remaining []domain.Unit
	for _, u := range units {
		if u.Demo {
			continue
		}
		if _, done := completed[u.UnitID]; !done {
			remaining = append(remaining, u)
		}
	}

	// Every unit done: clear the ledger so the cycle restarts. The streak is
	// untouched; only unit bookkeeping resets.
	if len(remaining) == 0 {
		err := s.accounts.Mutate(ctx, email, domain.Mutation{
			Remove: []string{s.field(fieldUnitsCompleted)},
		})
		if err != nil {
			return nil, err
		}
		return &UnitPick{Reset: true}, nil
	}

	chosen := remaining[rand.Intn(len(remaining))]
	return &UnitPick{Unit: &chosen, Remaining: len(remaining)}, nil
}

func (s *service) PickItem(ctx context.Context, email, unitID string) (*ItemPick, error) {
	a, err := s.accounts.Get(ctx, email)
	if err != nil {
		return nil, err
	}
	items, err := s.catalog.ListItems(ctx, unitID)
	if err != nil {
		return nil, fmt.Errorf("catalog unavailable: %w", domain.ErrUpstream)
	}

	answered := toSet(a.ProgressFor(s.practice).CorrectlyAnswered)
	var remaining []domain.Item
	for _, it := range items {
		if _, done := answered[it.ItemID]; !done {
			remaining = append(remaining, it)
		}
	}
	if len(remaining) == 0 {
		return &ItemPick{Exhausted: true}, nil
	}

	chosen := remaining[rand.Intn(len(remaining))]
	return &ItemPick{Item: &chosen}, nil
}

// RecordUpdates applies whichever updates the caller supplied as one atomic
// mutation. Absent fields are left unchanged; an empty request is rejected
// rather than written.
func (s *service) RecordUpdates(ctx context.Context, email string, req domain.ProgressUpdateRequest) error {
	// A correct answer retires any earlier incorrect record of the same item.
	// Deleting an absent member is a no-op, so no read is needed. This runs
	// as its own update because DynamoDB rejects an expression touching
	// incorrectly_answered in both the DELETE and ADD clauses.
	if req.CorrectlyAnswered != nil {
		err := s.accounts.Mutate(ctx, email, domain.Mutation{
			DeleteFromSet: map[string][]string{
				s.field(fieldIncorrectlyAnswered): {*req.CorrectlyAnswered},
			},
		})
		if err != nil {
			return err
		}
	}

	m := domain.Mutation{}
	if req.IntroCompleted != nil {
		m.Set = map[string]interface{}{s.field(fieldIntroCompleted): *req.IntroCompleted}
	}

	add := map[string][]string{}
	if req.CorrectlyAnswered != nil {
		add[s.field(fieldCorrectlyAnswered)] = []string{*req.CorrectlyAnswered}
	}
	if req.IncorrectlyAnswered != nil {
		add[s.field(fieldIncorrectlyAnswered)] = []string{*req.IncorrectlyAnswered}
	}
	if req.UnitCompleted != nil {
		add[s.field(fieldUnitsCompleted)] = []string{*req.UnitCompleted}
	}
	if len(add) > 0 {
		m.Add = add
	}

	if m.Empty() {
		return fmt.Errorf("no updates to be made: %w", domain.ErrNoChanges)
	}
	return s.accounts.Mutate(ctx, email, m)
}

// Complete marks the daily practice done: streak +1, completed flag on, and
// the correctly-answered pool cleared so a future cycle reconsiders every
// item. The unit ledger persists separately.
func (s *service) Complete(ctx context.Context, email string) error {
	return s.accounts.Mutate(ctx, email, domain.Mutation{
		Increment: map[string]int{s.field(fieldStreak): 1},
		Set:       map[string]interface{}{s.field(fieldCompletedToday): true},
		Remove:    []string{s.field(fieldCorrectlyAnswered)},
	})
}

func (s *service) DemoUnit(ctx context.Context) (*domain.Unit, error) {
	return s.catalog.GetDemoUnit(ctx, s.practice)
}

func (s *service) field(name string) string {
	return s.practice + "_" + name
}

func toSet(ids []string) map[string]struct{} {
	set := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}
