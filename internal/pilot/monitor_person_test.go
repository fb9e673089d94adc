package pilot

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roverswarm/rover/internal/config"
	"github.com/roverswarm/rover/internal/core"
	"github.com/roverswarm/rover/internal/vision"
)

// manualClock provides deterministic time for throttle tests.
type manualClock struct {
	now time.Time
}

func (c *manualClock) Now() time.Time     { return c.now }
func (c *manualClock) SetMillis(ms int64) { c.now = time.UnixMilli(ms) }

type notifyRecorder struct {
	calls    int
	messages []string
	err      error
}

func (r *notifyRecorder) send(message, imagePath string, conf *config.Config) error {
	r.calls++
	r.messages = append(r.messages, message)
	return r.err
}

func monitorUnderTest() (*MonitorPerson, *manualClock, *notifyRecorder) {
	clock := &manualClock{now: time.UnixMilli(0)}
	rec := &notifyRecorder{}
	p := NewMonitorPerson()
	p.now = clock.Now
	p.notify = rec.send
	return p, clock, rec
}

func personDetections() []vision.Detection {
	return []vision.Detection{
		{Class: vision.ClassAnimal, Confidence: 0.9},
		{Class: vision.ClassPerson, Confidence: 0.8},
	}
}

func TestMonitorPersonNoDetections(t *testing.T) {
	p, _, rec := monitorUnderTest()
	dev := &fakeDevice{}

	p.Handle(enabledState(core.ModeMonitorPerson, 40.0), dev, nil, nil, config.Default())
	p.Handle(enabledState(core.ModeMonitorPerson, 40.0), dev,
		[]vision.Detection{{Class: vision.ClassAnimal}}, nil, config.Default())

	assert.Empty(t, dev.spoken)
	assert.Equal(t, 0, rec.calls)
}

func TestMonitorPersonWarnsEveryTick(t *testing.T) {
	p, clock, _ := monitorUnderTest()
	dev := &fakeDevice{}
	conf := config.Default()

	for i := 0; i < 3; i++ {
		clock.SetMillis(int64(i) * 100)
		p.Handle(enabledState(core.ModeMonitorPerson, 40.0), dev, personDetections(), nil, conf)
	}

	// The voice warning repeats every tick a person remains present.
	assert.Equal(t, []string{"person_detecting_warn", "person_detecting_warn", "person_detecting_warn"}, dev.spoken)
}

func TestMonitorPersonNotificationThrottle(t *testing.T) {
	p, clock, rec := monitorUnderTest()
	dev := &fakeDevice{}
	conf := config.Default()
	tick := func(ms int64) {
		clock.SetMillis(ms)
		p.Handle(enabledState(core.ModeMonitorPerson, 40.0), dev, personDetections(), nil, conf)
	}

	// Literal boundary behavior of the minimum-interval gate.
	tick(0)
	require.Equal(t, 1, rec.calls, "first detection notifies")
	assert.Equal(t, int64(0), p.lastDetected)

	tick(59999)
	assert.Equal(t, 1, rec.calls, "inside interval: suppressed")

	tick(60000)
	assert.Equal(t, 1, rec.calls, "exact interval: 0+60000 < 60000 is false, suppressed")

	tick(60001)
	require.Equal(t, 2, rec.calls, "past interval: notifies")
	assert.Equal(t, int64(60001), p.lastDetected)
}

func TestMonitorPersonNotifyFailureDoesNotPropagate(t *testing.T) {
	p, clock, rec := monitorUnderTest()
	rec.err = errors.New("endpoint unreachable")
	dev := &fakeDevice{}
	conf := config.Default()

	clock.SetMillis(0)
	p.Handle(enabledState(core.ModeMonitorPerson, 40.0), dev, personDetections(), nil, conf)

	// Failure is logged only; the warning still fired and the next
	// interval still opens as scheduled.
	assert.Equal(t, 1, rec.calls)
	assert.Equal(t, []string{"person_detecting_warn"}, dev.spoken)

	clock.SetMillis(60001)
	p.Handle(enabledState(core.ModeMonitorPerson, 40.0), dev, personDetections(), nil, conf)
	assert.Equal(t, 2, rec.calls)
}

func TestMonitorPersonGatedByDispatch(t *testing.T) {
	p, _, rec := monitorUnderTest()
	Register(core.ModeMonitorPerson, p)
	dev := &fakeDevice{}

	st := &core.RoverState{Enabled: false, Mode: core.ModeMonitorPerson}
	require.NoError(t, Dispatch(st, dev, personDetections(), nil, config.Default()))

	// Even with a person present, a tripped gate means stop only.
	assert.Equal(t, 1, dev.stops)
	assert.Empty(t, dev.spoken)
	assert.Equal(t, 0, rec.calls)
}
