// Command press-controller runs a single industrial press: it debounces
// the operator buttons, drives the indicator LEDs, publishes status over
// MQTT, and reports events to the AlphaBase backend.
package main

import (
	"context"
	"flag"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/atouliatos/press-controller/internal/alphabase"
	"github.com/atouliatos/press-controller/internal/debounce"
	"github.com/atouliatos/press-controller/internal/gpio"
	"github.com/atouliatos/press-controller/internal/led"
	"github.com/atouliatos/press-controller/internal/log"
	"github.com/atouliatos/press-controller/internal/mqtt"
	"github.com/atouliatos/press-controller/internal/press"
	"github.com/atouliatos/press-controller/internal/status"
	"github.com/atouliatos/press-controller/internal/web"
)

// config holds everything the control loop needs, resolved from flags.
type config struct {
	poll      time.Duration
	debounce  time.Duration
	blink     time.Duration
	heartbeat time.Duration
	refresh   time.Duration

	broker      string
	backendURL  string
	backendUser string
	backendPass string
	deviceID    string
	httpAddr    string
	alertEmail  string

	pins gpio.Pins
}

func main() {
	cfg := config{}
	flag.DurationVar(&cfg.poll, "poll", 20*time.Millisecond, "Input polling interval")
	flag.DurationVar(&cfg.debounce, "debounce", 50*time.Millisecond, "Button debounce window")
	flag.DurationVar(&cfg.blink, "blink", 500*time.Millisecond, "LED blink interval")
	flag.DurationVar(&cfg.heartbeat, "heartbeat", 5*time.Second, "Status heartbeat interval")
	flag.DurationVar(&cfg.refresh, "token-refresh", 10*time.Minute, "Periodic backend token refresh interval (0 to disable)")
	flag.StringVar(&cfg.broker, "broker", "tcp://192.168.0.52:1883", "MQTT broker address")
	flag.StringVar(&cfg.backendURL, "backend", "http://192.168.0.52:8000", "AlphaBase backend URL")
	flag.StringVar(&cfg.backendUser, "backend-user", os.Getenv("ALPHABASE_USERNAME"), "AlphaBase username")
	flag.StringVar(&cfg.backendPass, "backend-pass", os.Getenv("ALPHABASE_PASSWORD"), "AlphaBase password")
	flag.StringVar(&cfg.deviceID, "device-id", "Press-Simulator-01", "Device identifier")
	flag.StringVar(&cfg.httpAddr, "http", ":8080", "Diagnostic HTTP address (empty to disable)")
	flag.StringVar(&cfg.alertEmail, "alert-email", "press-alerts@example.com", "Recipient for stop email alerts")
	flag.IntVar(&cfg.pins.StartStop, "pin-start-stop", gpio.DefaultPins.StartStop, "GPIO line for the Start/Stop button")
	flag.IntVar(&cfg.pins.Maintenance, "pin-maintenance", gpio.DefaultPins.Maintenance, "GPIO line for the Maintenance button")
	flag.IntVar(&cfg.pins.Quality, "pin-quality", gpio.DefaultPins.Quality, "GPIO line for the Quality button")
	flag.IntVar(&cfg.pins.Material, "pin-material", gpio.DefaultPins.Material, "GPIO line for the Material button")
	flag.IntVar(&cfg.pins.ToolChange, "pin-tool-change", gpio.DefaultPins.ToolChange, "GPIO line for the Tool Change button")
	flag.IntVar(&cfg.pins.RedLED, "pin-red", gpio.DefaultPins.RedLED, "GPIO line for the red LED")
	flag.IntVar(&cfg.pins.GreenLED, "pin-green", gpio.DefaultPins.GreenLED, "GPIO line for the green LED")
	logLevel := flag.String("log-level", "", "Log level (debug, info, warn, error)")
	flag.Parse()

	log.Configure(log.Config{Level: *logLevel})

	if err := run(cfg); err != nil {
		logger := log.Base()
		logger.Fatal().Err(err).Msg("fatal")
	}
}

func run(cfg config) error {
	logger := log.WithComponent("main")

	dev, err := gpio.NewRealDevice(cfg.pins)
	if err != nil {
		return fmt.Errorf("init gpio: %w", err)
	}
	defer dev.Close()

	client, err := mqtt.NewRealClient(cfg.broker, cfg.deviceID)
	if err != nil {
		return fmt.Errorf("init mqtt: %w", err)
	}
	defer client.Close()

	backend := alphabase.New(cfg.backendURL, cfg.backendUser, cfg.backendPass, cfg.deviceID, cfg.alertEmail)
	if err := backend.Login(); err != nil {
		// Non-fatal: the event-log cascade recovers on first use.
		logger.Warn().Err(err).Msg("initial backend login failed")
	}

	tracker := status.NewTracker(time.Now(), status.Config{
		PollMs:      cfg.poll.Milliseconds(),
		DebounceMs:  cfg.debounce.Milliseconds(),
		BlinkMs:     cfg.blink.Milliseconds(),
		HeartbeatMs: cfg.heartbeat.Milliseconds(),
		RefreshMs:   cfg.refresh.Milliseconds(),
		Broker:      cfg.broker,
		BackendURL:  cfg.backendURL,
		HTTPAddr:    cfg.httpAddr,
		DeviceID:    cfg.deviceID,
	})
	ip := localIP()
	tracker.SetIP(ip)
	tracker.SetAuthenticated(backend.HasCredential())

	if cfg.httpAddr != "" {
		srv := web.New(cfg.httpAddr, tracker)
		go func() {
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				logger.Error().Err(err).Msg("http server error")
			}
		}()
		defer srv.Shutdown(context.Background())
		logger.Info().Str("addr", cfg.httpAddr).Msg("diagnostic http server listening")
	}

	ticker := time.NewTicker(cfg.poll)
	defer ticker.Stop()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	ctl := newController(dev, client, client, client.Commands(), backend, tracker, cfg, ip, time.Now)

	// Announce current state so the monitoring side sees the device
	// immediately instead of waiting for the first heartbeat.
	ctl.publishStatus(time.Now())

	logger.Info().
		Dur("poll", cfg.poll).
		Dur("debounce", cfg.debounce).
		Str("broker", cfg.broker).
		Str("backend", cfg.backendURL).
		Msg("started")

	return ctl.run(ticker.C, sigCh)
}

// controller is the single owner of all mutable press state. One polling
// cycle services remote commands, samples every input, drives the state
// machine and LEDs, and performs time-gated periodic work. Backend calls
// are synchronous and block the cycle for their duration; that is the
// accepted tradeoff of this design.
type controller struct {
	dev      gpio.Device
	pub      mqtt.Publisher
	conn     mqtt.ConnectionStatus
	commands <-chan []byte
	backend  *alphabase.Client
	tracker  *status.Tracker

	machine    *press.Machine
	debouncers [gpio.NumButtons]*debounce.Debouncer

	cfg    config
	ip     string
	now    func() time.Time
	logger zerolog.Logger

	start       time.Time
	phase       bool
	lastBlink   time.Time
	lastStatus  time.Time
	lastRefresh time.Time
}

func newController(dev gpio.Device, pub mqtt.Publisher, conn mqtt.ConnectionStatus, commands <-chan []byte, backend *alphabase.Client, tracker *status.Tracker, cfg config, ip string, now func() time.Time) *controller {
	c := &controller{
		dev:      dev,
		pub:      pub,
		conn:     conn,
		commands: commands,
		backend:  backend,
		tracker:  tracker,
		machine:  press.NewMachine(),
		cfg:      cfg,
		ip:       ip,
		now:      now,
		logger:   log.WithComponent("controller"),
	}
	for i := range c.debouncers {
		c.debouncers[i] = debounce.New(cfg.debounce)
	}
	c.start = now()
	c.lastBlink = c.start
	c.lastStatus = c.start
	c.lastRefresh = c.start
	return c
}

func (c *controller) run(tick <-chan time.Time, sig <-chan os.Signal) error {
	for {
		select {
		case s := <-sig:
			c.logger.Info().Str("signal", s.String()).Msg("shutting down")
			c.publishStatus(c.now())
			return nil

		case <-tick:
			c.step(c.now())
		}
	}
}

// step runs one polling cycle. Order is fixed: commands, input sampling,
// state machine, LEDs, periodic work.
func (c *controller) step(t time.Time) {
	c.drainCommands(t)

	levels, err := c.dev.Read()
	if err != nil {
		c.logger.Error().Err(err).Msg("gpio read error")
	} else if ev := c.scan(levels, t); ev != nil {
		c.emit(ev, t)
	}

	c.updateLEDs(t)

	if t.Sub(c.lastStatus) >= c.cfg.heartbeat {
		c.lastStatus = t
		c.publishStatus(t)
	}

	if c.cfg.refresh > 0 && t.Sub(c.lastRefresh) >= c.cfg.refresh {
		c.lastRefresh = t
		if err := c.backend.Refresh(); err != nil {
			c.logger.Warn().Err(err).Msg("periodic token refresh failed")
		}
		c.tracker.SetAuthenticated(c.backend.HasCredential())
	}
}

// drainCommands acts on every queued remote command without blocking.
func (c *controller) drainCommands(t time.Time) {
	for {
		select {
		case raw := <-c.commands:
			c.handleCommand(raw, t)
		default:
			return
		}
	}
}

func (c *controller) handleCommand(raw []byte, t time.Time) {
	cmd, err := mqtt.ParseCommand(raw)
	if err != nil {
		c.logger.Error().Err(err).Msg("malformed command payload, dropping")
		return
	}
	if cmd.Command != mqtt.CommandSelectReason {
		c.logger.Warn().Str("command", cmd.Command).Msg("unknown command, ignoring")
		return
	}
	reason, ok := press.ParseReason(cmd.Reason)
	if !ok {
		c.logger.Warn().Str("reason", cmd.Reason).Msg("unknown reason, ignoring")
		return
	}
	if c.machine.State() != press.StateWaitingForReason {
		c.logger.Warn().Str("state", string(c.machine.State())).Msg("not waiting for a reason, ignoring command")
		return
	}
	if ev := c.machine.SelectReason(reason, t); ev != nil {
		c.logger.Info().Str("reason", string(reason)).Msg("reason selected remotely")
		c.emit(ev, t)
	}
}

// scan feeds every button sample through its debouncer and offers the
// first press edge (in scan order) that produces a transition to the state
// machine. Later edges in the same cycle still commit their stable levels
// but trigger nothing: there is no queueing.
func (c *controller) scan(levels gpio.Levels, t time.Time) *press.Event {
	var ev *press.Event
	for b := gpio.Button(0); b < gpio.NumButtons; b++ {
		tr := c.debouncers[b].Sample(levels[b], t)
		if tr == nil || !tr.Pressed() || ev != nil {
			continue
		}

		c.logger.Info().Str("button", b.String()).Msg("button pressed")
		if b == gpio.ButtonStartStop {
			ev = c.machine.PressStartStop(t)
		} else {
			ev = c.machine.SelectReason(reasonForButton(b), t)
		}
		if ev == nil {
			c.logger.Debug().Str("button", b.String()).Str("state", string(c.machine.State())).Msg("press ignored in current state")
		}
	}
	return ev
}

// emit performs the side effects of a committed transition. Side-effect
// order follows the transition table: started/stopped publish status first
// and then log the event; reason selection dispatches notifications, logs
// the event, and publishes status last.
func (c *controller) emit(ev *press.Event, t time.Time) {
	c.tracker.SetState(ev.State)
	c.logger.Info().
		Str("event", string(ev.Type)).
		Str("state", string(ev.State)).
		Msg("transition")

	ts := c.millis(t)
	switch ev.Type {
	case press.EventStarted:
		c.publishStatus(t)
		c.logBackend(alphabase.Event{Type: ev.Type, Timestamp: ts})

	case press.EventStopped:
		c.publishStatus(t)
		c.logBackend(alphabase.Event{
			Type:       ev.Type,
			Timestamp:  ts,
			Runtime:    ev.Runtime,
			HasRuntime: ev.HasRuntime,
		})

	case press.EventReasonSelected:
		c.backend.SendStopNotifications(ev.Reason, ev.Runtime)
		c.logBackend(alphabase.Event{Type: ev.Type, Reason: ev.Reason, Timestamp: ts})
		c.publishStatus(t)
	}
	c.tracker.SetAuthenticated(c.backend.HasCredential())
}

func (c *controller) logBackend(ev alphabase.Event) {
	if err := c.backend.LogEvent(ev); err != nil {
		c.logger.Error().Err(err).Str("event", string(ev.Type)).Msg("backend event log failed, event dropped")
	}
}

func (c *controller) publishStatus(t time.Time) {
	s := mqtt.Status{
		DeviceID:  c.cfg.deviceID,
		State:     c.machine.State(),
		Timestamp: c.millis(t),
		IP:        c.ip,
	}
	if err := c.pub.PublishStatus(s); err != nil {
		c.logger.Error().Err(err).Msg("status publish failed")
	}
	if c.conn != nil {
		c.tracker.SetMQTTConnected(c.conn.IsConnected())
	}
}

func (c *controller) updateLEDs(t time.Time) {
	if t.Sub(c.lastBlink) >= c.cfg.blink {
		c.lastBlink = t
		c.phase = !c.phase
	}
	p := led.ForState(c.machine.State(), c.phase)
	if err := c.dev.SetLEDs(p.Red, p.Green); err != nil {
		c.logger.Error().Err(err).Msg("led update failed")
	}
}

// millis is the device-local clock: milliseconds since process start.
func (c *controller) millis(t time.Time) int64 {
	return t.Sub(c.start).Milliseconds()
}

func reasonForButton(b gpio.Button) press.Reason {
	switch b {
	case gpio.ButtonMaintenance:
		return press.ReasonMaintenance
	case gpio.ButtonQuality:
		return press.ReasonQuality
	case gpio.ButtonMaterial:
		return press.ReasonMaterial
	default:
		return press.ReasonToolChange
	}
}

// localIP returns the first non-loopback IPv4 address, for the status
// payload's ip field.
func localIP() string {
	addrs, err := net.InterfaceAddrs()
	if err != nil {
		return ""
	}
	for _, a := range addrs {
		if ipn, ok := a.(*net.IPNet); ok && !ipn.IP.IsLoopback() {
			if v4 := ipn.IP.To4(); v4 != nil {
				return v4.String()
			}
		}
	}
	return ""
}
