package scheduler

import (
	"context"
	"errors"
	"time"

	"github.com/ArowuTest/lottery-rounds/internal/models"
	"github.com/ArowuTest/lottery-rounds/internal/services"
	"github.com/go-co-op/gocron"
	log "github.com/sirupsen/logrus"
)

// minDelay keeps jobs for rounds that already closed from firing in the past
const minDelay = time.Second

// DrawTrigger is the part of the lottery the keeper drives
type DrawTrigger interface {
	TriggerDraw(ctx context.Context, roundID uint64) (string, error)
	ListRounds(ctx context.Context) ([]*models.RoundView, error)
}

// Keeper triggers the draw of every round once its entry window closes
type Keeper struct {
	scheduler *gocron.Scheduler
	lottery   DrawTrigger
	clock     services.Clock
	logger    *log.Entry
}

func NewKeeper(lottery DrawTrigger, clock services.Clock) *Keeper {
	if clock == nil {
		clock = services.SystemClock
	}
	return &Keeper{
		scheduler: gocron.NewScheduler(time.UTC),
		lottery:   lottery,
		clock:     clock,
		logger:    log.WithField("component", "keeper"),
	}
}

// Start schedules the rounds still waiting for a draw, then follows
// RoundCreated events until the channel is closed
func (k *Keeper) Start(ctx context.Context, events <-chan *models.Event) error {
	k.scheduler.StartAsync()

	rounds, err := k.lottery.ListRounds(ctx)
	if err != nil {
		return err
	}
	for _, round := range rounds {
		if round.Status == models.RoundStatusOpen || round.Status == models.RoundStatusClosed {
			k.schedule(round.ID, round.ClosesAt)
		}
	}

	go func() {
		for event := range events {
			if event.Type == models.EventRoundCreated {
				k.schedule(event.RoundID, event.ClosesAt)
			}
		}
	}()
	return nil
}

func (k *Keeper) Stop() {
	k.scheduler.Stop()
}

func (k *Keeper) schedule(roundID uint64, at time.Time) {
	delay := at.Sub(k.clock.Now())
	if delay < minDelay {
		delay = minDelay
	}

	_, err := k.scheduler.Every(delay).WaitForSchedule().LimitRunsTo(1).Do(k.draw, roundID)
	if err != nil {
		k.logger.WithError(err).WithField("round", roundID).Error("failed to schedule draw")
		return
	}
	k.logger.WithFields(log.Fields{"round": roundID, "in": delay}).Debug("draw scheduled")
}

func (k *Keeper) draw(roundID uint64) {
	fields := log.Fields{"round": roundID}

	requestID, err := k.lottery.TriggerDraw(context.Background(), roundID)
	switch {
	case err == nil:
		k.logger.WithFields(fields).WithField("request", requestID).Info("draw triggered")
	case errors.Is(err, services.ErrWinnerAlreadyDrawn):
		// someone else triggered it first
		k.logger.WithFields(fields).Debug("draw already requested")
	case errors.Is(err, services.ErrRoundStillOpen):
		k.schedule(roundID, k.clock.Now().Add(minDelay))
	default:
		k.logger.WithFields(fields).WithError(err).Error("failed to trigger draw")
	}
}
