package monitoring

import (
	"time"

	"github.com/linkup-social/linkup-be/internal/services"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"
)

// StorySweeper periodically purges expired stories.
type StorySweeper struct {
	storySvc services.StoryServiceProvider
	schedule cron.Schedule
	nextRun  time.Time
	ticker   *time.Ticker
	done     chan bool
}

// NewStorySweeper creates a sweeper driven by a standard cron spec.
func NewStorySweeper(storySvc services.StoryServiceProvider, cronSpec string) (*StorySweeper, error) {
	schedule, err := cron.ParseStandard(cronSpec)
	if err != nil {
		return nil, err
	}
	return &StorySweeper{
		storySvc: storySvc,
		schedule: schedule,
		nextRun:  schedule.Next(time.Now()),
		done:     make(chan bool),
	}, nil
}

// Run starts the sweeper's ticking loop.
func (s *StorySweeper) Run() {
	log.Info().Time("next_run", s.nextRun).Msg("Starting story sweeper...")
	s.ticker = time.NewTicker(1 * time.Minute)
	defer s.ticker.Stop()

	// Run once immediately on start
	s.sweep()

	for {
		select {
		case <-s.done:
			log.Info().Msg("Stopping story sweeper.")
			return
		case now := <-s.ticker.C:
			if now.After(s.nextRun) {
				s.sweep()
				s.nextRun = s.schedule.Next(now)
			}
		}
	}
}

// Stop halts the sweeper.
func (s *StorySweeper) Stop() {
	s.done <- true
}

func (s *StorySweeper) sweep() {
	removed, err := s.storySvc.DeleteExpired()
	if err != nil {
		log.Error().Err(err).Msg("StorySweeper: Failed to purge expired stories")
		return
	}
	if removed > 0 {
		log.Info().Int64("removed", removed).Msg("StorySweeper: Purged expired stories")
	}
}
