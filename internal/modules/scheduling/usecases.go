package scheduling

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/yungbote/memo-backend/internal/data/repos"
	"github.com/yungbote/memo-backend/internal/events/bus"
	"github.com/yungbote/memo-backend/internal/platform/logger"
)

type UsecasesDeps struct {
	DB  *gorm.DB
	Log *logger.Logger

	Competencies  repos.CompetencyRepo
	Relationships repos.RelationshipRepo
	Votes         repos.VoteRepo

	// Bus is optional; events are dropped when nil.
	Bus bus.Bus
	// Rand is optional; a source seeded from Config.Seed is used when nil.
	Rand Rand

	Config Config
}

type Usecases struct {
	deps UsecasesDeps
	cfg  Config
	rng  Rand
	log  *logger.Logger
}

func New(deps UsecasesDeps) Usecases {
	rng := deps.Rand
	if rng == nil {
		rng = NewRand(deps.Config.Seed)
	}
	log := deps.Log
	if log == nil {
		log = logger.Nop()
	}
	return Usecases{
		deps: deps,
		cfg:  deps.Config,
		rng:  rng,
		log:  log.With("module", "scheduling"),
	}
}

// outbox holds events raised inside a transaction until it commits.
type outbox struct {
	events []bus.Event
}

func (o *outbox) add(ev bus.Event) {
	if ev.At.IsZero() {
		ev.At = time.Now().UTC()
	}
	o.events = append(o.events, ev)
}

func (u Usecases) flush(ctx context.Context, ob *outbox) {
	if u.deps.Bus == nil || ob == nil {
		return
	}
	for _, ev := range ob.events {
		if err := u.deps.Bus.Publish(ctx, ev); err != nil {
			u.log.Warn("event publish failed", "kind", ev.Kind, "relationship_id", ev.RelationshipID, "error", err)
		}
	}
}
