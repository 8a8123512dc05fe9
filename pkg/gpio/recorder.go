package gpio

import (
	"errors"
	"sync"
	"time"

	"github.com/golang/glog"

	fx "github.com/robotalks/solenoid.go/pkg/framework"
)

// ErrNotOutput indicates writing a pin not configured as output.
var ErrNotOutput = errors.New("pin not configured as output")

// Write is one recorded pin write.
type Write struct {
	Pin   Pin
	Level Level
	At    time.Time
}

// Recorder is an in-memory Driver. It keeps the level of every
// configured pin, and the history of writes when Record is set.
// It's used for dry runs and tests.
type Recorder struct {
	// Clock timestamps the writes, optional.
	Clock fx.TimeSource
	// Record keeps every write until Writes is called.
	Record bool
	// Verbose logs every write.
	Verbose bool

	levels map[Pin]Level
	writes []Write
	lock   sync.Mutex
}

// NewRecorder creates a Recorder.
func NewRecorder() *Recorder {
	return &Recorder{levels: make(map[Pin]Level)}
}

// ConfigureOutput implements Driver.
func (r *Recorder) ConfigureOutput(pin Pin) error {
	r.lock.Lock()
	defer r.lock.Unlock()
	if r.levels == nil {
		r.levels = make(map[Pin]Level)
	}
	r.levels[pin] = Low
	return nil
}

// Write implements Driver.
func (r *Recorder) Write(pin Pin, level Level) error {
	r.lock.Lock()
	defer r.lock.Unlock()
	if _, ok := r.levels[pin]; !ok {
		return &PinError{Pin: pin, Op: "write", Err: ErrNotOutput}
	}
	r.levels[pin] = level
	if r.Record {
		w := Write{Pin: pin, Level: level}
		if r.Clock != nil {
			w.At = r.Clock.Time()
		}
		r.writes = append(r.writes, w)
	}
	if r.Verbose {
		glog.Infof("GPIO%d -> %s", pin, level)
	}
	return nil
}

// Level returns the current level of a pin and whether it's configured.
func (r *Recorder) Level(pin Pin) (Level, bool) {
	r.lock.Lock()
	defer r.lock.Unlock()
	level, ok := r.levels[pin]
	return level, ok
}

// Writes returns and clears the recorded writes.
func (r *Recorder) Writes() []Write {
	r.lock.Lock()
	defer r.lock.Unlock()
	writes := r.writes
	r.writes = nil
	return writes
}
