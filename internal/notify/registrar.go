package notify

import (
	"os/exec"
	"sync"
	"time"

	"go.uber.org/zap"

	"agenda/internal/logger"
)

// DefaultCommand is the desktop notifier invoked when a reminder
// fires. Overridable from the config file for other platforms.
const DefaultCommand = "notify-send"

// TimerRegistrar keeps reminders as in-process timers. Registering an
// identifier that already has a timer stops and replaces it. Timers do
// not outlive the process; callers re-arm pending reminders on launch.
type TimerRegistrar struct {
	mu      sync.Mutex
	timers  map[string]*time.Timer
	command string
	deliver func(Request)
	log     *zap.Logger
}

func NewTimerRegistrar(command string) *TimerRegistrar {
	if command == "" {
		command = DefaultCommand
	}
	r := &TimerRegistrar{
		timers:  make(map[string]*time.Timer),
		command: command,
		log:     logger.Named("notify"),
	}
	r.deliver = r.run
	return r
}

func (r *TimerRegistrar) Register(req Request) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if prev, ok := r.timers[req.ID]; ok {
		prev.Stop()
	}
	d := time.Until(req.At)
	if d < 0 {
		d = 0
	}
	r.timers[req.ID] = time.AfterFunc(d, func() {
		r.mu.Lock()
		delete(r.timers, req.ID)
		r.mu.Unlock()
		r.deliver(req)
	})
	return nil
}

func (r *TimerRegistrar) run(req Request) {
	cmd := exec.Command(r.command, req.Summary, req.Body)
	if err := cmd.Run(); err != nil {
		r.log.Warn("reminder delivery failed",
			zap.String("task_id", req.ID),
			zap.String("command", r.command),
			zap.Error(err))
	}
}

// Close stops every pending timer.
func (r *TimerRegistrar) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, t := range r.timers {
		t.Stop()
		delete(r.timers, id)
	}
}
