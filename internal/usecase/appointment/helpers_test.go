package appointment

import (
	"context"
	"testing"
	"time"

	"gorm.io/gorm"

	domain "github.com/BruksfildServices01/seucuidado/internal/domain/appointment"
	"github.com/BruksfildServices01/seucuidado/internal/infra/repository"
	"github.com/BruksfildServices01/seucuidado/internal/models"
	"github.com/BruksfildServices01/seucuidado/internal/testutil"
	"github.com/BruksfildServices01/seucuidado/internal/timezone"
)

var brt = time.FixedZone("BRT", -3*60*60)

// Monday, 09:00 local.
var testNow = time.Date(2030, 5, 6, 9, 0, 0, 0, brt)

type fixture struct {
	db       *gorm.DB
	repo     domain.Repository
	settings Settings
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := testutil.NewDB(t)
	return &fixture{
		db:   db,
		repo: repository.NewAppointmentGormRepository(db),
		settings: Settings{
			Location:   brt,
			MinAdvance: 30 * time.Minute,
			Now:        timezone.FixedClock(testNow),
		},
	}
}

func (f *fixture) at(clock timezone.Clock) Settings {
	s := f.settings
	s.Now = clock
	return s
}

// racingRepo lets another writer change the row right before the
// compare-and-swap runs.
type racingRepo struct {
	domain.Repository
	before func()
}

func (r *racingRepo) CompareAndSwapStatus(ctx context.Context, t domain.Transition) error {
	if r.before != nil {
		r.before()
		r.before = nil
	}
	return r.Repository.CompareAndSwapStatus(ctx, t)
}

// interleavingRepo runs another booking after the checks of Execute and
// right before its insert.
type interleavingRepo struct {
	domain.Repository
	before func()
}

func (r *interleavingRepo) CreateWithoutConflict(ctx context.Context, ap *models.Appointment) error {
	if r.before != nil {
		r.before()
		r.before = nil
	}
	return r.Repository.CreateWithoutConflict(ctx, ap)
}

type domainSlot struct{ start, end string }

func toPairs(slots []domain.TimeSlot) []domainSlot {
	out := []domainSlot{}
	for _, s := range slots {
		out = append(out, domainSlot{s.Start, s.End})
	}
	return out
}
