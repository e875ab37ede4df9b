package monitoring

import (
	"runtime"
	"time"

	ws "github.com/linkup-social/linkup-be/internal/websocket"
	"github.com/rs/zerolog/log"
	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"
)

// StatsBroadcaster periodically pushes host and process stats to connected
// admin clients.
type StatsBroadcaster struct {
	hub    *ws.Hub
	ticker *time.Ticker
	done   chan bool
}

// AdminStats is the payload pushed over the websocket to admins.
type AdminStats struct {
	CPUPercent  float64   `json:"cpuPercent"`
	Memory      float64   `json:"memoryPercent"`
	Goroutines  int       `json:"goroutines"`
	CollectedAt time.Time `json:"collectedAt"`
}

// NewStatsBroadcaster creates a new StatsBroadcaster.
func NewStatsBroadcaster(hub *ws.Hub) *StatsBroadcaster {
	return &StatsBroadcaster{
		hub:  hub,
		done: make(chan bool),
	}
}

// Run starts the periodic updates.
func (sb *StatsBroadcaster) Run() {
	log.Info().Msg("Starting admin stats broadcaster...")
	sb.ticker = time.NewTicker(15 * time.Second)
	defer sb.ticker.Stop()

	for {
		select {
		case <-sb.done:
			log.Info().Msg("Stopping admin stats broadcaster.")
			return
		case <-sb.ticker.C:
			sb.broadcast()
		}
	}
}

// Stop halts the periodic updates.
func (sb *StatsBroadcaster) Stop() {
	sb.done <- true
}

func (sb *StatsBroadcaster) broadcast() {
	stats := AdminStats{
		Goroutines:  runtime.NumGoroutine(),
		CollectedAt: time.Now().UTC(),
	}

	if percents, err := cpu.Percent(0, false); err != nil {
		log.Warn().Err(err).Msg("StatsBroadcaster: Could not read CPU usage")
	} else if len(percents) > 0 {
		stats.CPUPercent = percents[0]
	}

	if vm, err := mem.VirtualMemory(); err != nil {
		log.Warn().Err(err).Msg("StatsBroadcaster: Could not read memory usage")
	} else {
		stats.Memory = vm.UsedPercent
	}

	if payload := ws.Encode(ws.TypeAdminStats, stats); payload != nil {
		sb.hub.SendToAdmins(payload)
	}
}
