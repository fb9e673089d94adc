package pilot

import (
	"time"

	"github.com/roverswarm/rover/internal/config"
	"github.com/roverswarm/rover/internal/core"
	"github.com/roverswarm/rover/internal/device"
	"github.com/roverswarm/rover/internal/log"
	"github.com/roverswarm/rover/internal/notify"
	"github.com/roverswarm/rover/internal/vision"
)

// NotifyFunc delivers an external image notification.
type NotifyFunc func(message, imagePath string, conf *config.Config) error

// MonitorPerson watches the detection stream for people. While a person
// remains in view the rover voices a warning every tick; image
// notifications are rate-limited by a minimum inter-notification
// interval evaluated on every detection.
type MonitorPerson struct {
	lastDetected int64 // unix millis of the last notification
	notified     bool  // at least one notification has been sent

	// injected for tests
	now    func() time.Time
	notify NotifyFunc
}

// NewMonitorPerson creates the pilot. State persists across ticks.
func NewMonitorPerson() *MonitorPerson {
	return &MonitorPerson{
		now:    time.Now,
		notify: notify.Send,
	}
}

// Handle implements the Handler contract. The safety gate has already
// run; only behavior logic lives here.
func (p *MonitorPerson) Handle(st *core.RoverState, dev device.Controller,
	detections []vision.Detection, _ chan<- vision.Command, conf *config.Config) {
	logger := log.GetLogger().WithField("pilot", "monitor_person")

	persons := vision.FilterClass(detections, vision.ClassPerson)
	if len(persons) == 0 {
		return
	}

	logger.Warn("person detected")
	dev.Speak("person_detecting_warn")

	// Minimum-interval gate, strict: the tick at exactly lastDetected +
	// interval does not notify. The first detection always notifies.
	nowMillis := p.now().UnixMilli()
	if !p.notified || p.lastDetected+conf.Monitor.NotifyIntervalMS < nowMillis {
		p.notified = true
		p.lastDetected = nowMillis
		if err := p.notify("Person detected.", conf.Vision.LastImage, conf); err != nil {
			// Notification failures never reach control flow.
			logger.WithError(err).Error("person notification failed")
		}
	}
}
