package sweep

import (
	"context"
	"log/slog"
	"sync/atomic"

	"github.com/studyagent/server/internal/domain"
	"golang.org/x/sync/errgroup"
)

// Report is the structured outcome handed back to the scheduled trigger.
type Report struct {
	UsersProcessed int `json:"users_processed"`
	UsersFailed    int `json:"users_failed"`
}

type Service interface {
	// Run walks every account once and applies the daily rule to each
	// practice block. Per-account failures are tallied, never fatal.
	Run(ctx context.Context) (*Report, error)
}

type accountStore interface {
	ScanPage(ctx context.Context, limit int32, cursor string) ([]domain.Account, string, error)
	Mutate(ctx context.Context, email string, m domain.Mutation) error
}

type service struct {
	accounts accountStore
	pageSize int32
	workers  int
}

func NewService(accounts accountStore) Service {
	return &service{accounts: accounts, pageSize: 100, workers: 8}
}

func (s *service) Run(ctx context.Context) (*Report, error) {
	var processed, failed atomic.Int64

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers)

	cursor := ""
	for {
		accounts, next, err := s.accounts.ScanPage(ctx, s.pageSize, cursor)
		if err != nil {
			// Drain in-flight workers before reporting the scan failure.
			_ = g.Wait()
			return nil, err
		}
		for i := range accounts {
			a := accounts[i]
			g.Go(func() error {
				if err := s.resetAccount(ctx, &a); err != nil {
					slog.Warn("daily reset failed for account", "email", a.Email, "err", err)
					failed.Add(1)
				} else {
					processed.Add(1)
				}
				return nil
			})
		}
		if next == "" {
			break
		}
		cursor = next
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &Report{
		UsersProcessed: int(processed.Load()),
		UsersFailed:    int(failed.Load()),
	}, nil
}

// resetAccount applies the daily rule to both practice blocks with one
// atomic update per account. A missed day (flag still false) zeroes the
// streak and wipes question-level progress; a completed day just rearms the
// flag for tomorrow.
func (s *service) resetAccount(ctx context.Context, a *domain.Account) error {
	m := domain.Mutation{Set: map[string]interface{}{}}
	for _, practice := range []string{domain.PracticeGrammar, domain.PracticeWriting} {
		if a.ProgressFor(practice).CompletedToday {
			m.Set[practice+"_completed_today"] = false
		} else {
			m.Set[practice+"_streak"] = 0
			m.Remove = append(m.Remove,
				practice+"_correctly_answered",
				practice+"_incorrectly_answered",
			)
		}
	}
	return s.accounts.Mutate(ctx, a.Email, m)
}
