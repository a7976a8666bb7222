// Command line-counter counts items passing a production line sensor and
// drives the operator display, with power-loss recovery of in-progress
// sessions.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sweeney/line-counter/internal/clock"
	"github.com/sweeney/line-counter/internal/config"
	"github.com/sweeney/line-counter/internal/display"
	"github.com/sweeney/line-counter/internal/event"
	"github.com/sweeney/line-counter/internal/fsm"
	"github.com/sweeney/line-counter/internal/gpio"
	"github.com/sweeney/line-counter/internal/recovery"
	"github.com/sweeney/line-counter/internal/session"
	"github.com/sweeney/line-counter/internal/status"
	"github.com/sweeney/line-counter/internal/storage"
	"github.com/sweeney/line-counter/internal/watchdog"
	"github.com/sweeney/line-counter/internal/web"
)

func main() {
	configPath := flag.String("config", "", "YAML config file (empty for defaults)")
	broker := flag.String("broker", "", "MQTT broker address (overrides config)")
	httpAddr := flag.String("http", "", "HTTP status address (overrides config)")
	dataDir := flag.String("data-dir", "", "Data directory (overrides config)")
	watchdogDev := flag.String("watchdog", "", "Watchdog device (overrides config)")
	printState := flag.Bool("print-state", false, "Print latch state and exit")

	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("fatal: %v", err)
	}
	if *broker != "" {
		cfg.Broker = *broker
	}
	if *httpAddr != "" {
		cfg.HTTPAddr = *httpAddr
	}
	if *dataDir != "" {
		cfg.DataDir = *dataDir
	}
	if *watchdogDev != "" {
		cfg.WatchdogDevice = *watchdogDev
	}

	if err := run(cfg, *printState); err != nil {
		log.Fatalf("fatal: %v", err)
	}
}

// systemDisplay is a Display that also carries lifecycle events. Both the
// MQTT publisher and the test fake satisfy it.
type systemDisplay interface {
	display.Display
	PublishSystem(display.SystemEvent) error
}

func run(cfg config.Config, printState bool) error {
	store, err := storage.NewFileStore(cfg.DataDir)
	if err != nil {
		// Counting continues in memory; persistence and recovery are off.
		log.Printf("storage degraded: %v", err)
	}

	clk := clock.System{}

	disp, err := display.NewPublisher(cfg.Broker)
	if err != nil {
		return fmt.Errorf("init display: %w", err)
	}
	defer disp.Close()

	var dog watchdog.Watchdog = watchdog.Noop{}
	if cfg.WatchdogDevice != "" {
		dev, err := watchdog.Open(cfg.WatchdogDevice)
		if err != nil {
			log.Printf("watchdog disabled: %v", err)
		} else {
			dog = dev
			defer dev.Close()
		}
	}

	sessions := session.New(store, clk, cfg.MaxCount)
	sessions.LoadTotals()

	recovered := recovery.New(store, sessions).Run()

	// The bring-up closures report into the machine's own queue, so the
	// variable must exist before the steps are built.
	var machine *fsm.Machine
	machine = fsm.New(fsm.Deps{
		Sessions:       sessions,
		Clock:          clk,
		Display:        disp,
		Watchdog:       dog,
		SaveInterval:   cfg.SaveInterval(),
		StatusDuration: cfg.StatusDuration(),
		BringUp: []fsm.BringUpStep{
			{Name: "storage", Run: func() bool {
				return probeAvailability(machine, store.Available(),
					event.StorageAvailable, event.StorageUnavailable)
			}},
			{Name: "clock", Run: func() bool {
				return probeAvailability(machine, clk.Available(),
					event.ClockAvailable, event.ClockUnavailable)
			}},
			{Name: "display", Run: func() bool {
				return probeAvailability(machine, disp.Ready(),
					event.DisplayAvailable, event.DisplayUnavailable)
			}},
		},
	})

	handler := buildEdgeHandler(machine, cfg)
	watcher, err := gpio.NewRealWatcher(gpio.Pins{
		Counter:    cfg.PinCounter,
		Latch:      cfg.PinLatch,
		Diagnostic: cfg.PinDiagnostic,
	}, handler)
	if err != nil {
		return fmt.Errorf("init gpio: %w", err)
	}
	defer watcher.Close()

	if printState {
		pressed, err := watcher.LatchPressed()
		if err != nil {
			return fmt.Errorf("read latch: %w", err)
		}
		if pressed {
			fmt.Println("latch: engaged")
		} else {
			fmt.Println("latch: released")
		}
		return nil
	}

	tracker := status.NewTracker(time.Now(), status.Config{
		PollMs:     int64(cfg.PollMs),
		SaveMs:     int64(cfg.SaveIntervalMs),
		MaxCount:   cfg.MaxCount,
		Broker:     cfg.Broker,
		HTTPAddr:   cfg.HTTPAddr,
		DataDir:    cfg.DataDir,
		PinCounter: cfg.PinCounter,
		PinLatch:   cfg.PinLatch,
		PinDiag:    cfg.PinDiagnostic,
	})

	if cfg.HTTPAddr != "" {
		srv := web.New(cfg.HTTPAddr, tracker)
		go func() {
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				log.Printf("http server error: %v", err)
			}
		}()
		defer srv.Shutdown(context.Background())
		log.Printf("http status server listening on %s", cfg.HTTPAddr)
	}

	startEvent := "STARTUP"
	if recovered {
		startEvent = "RECOVERED"
	}
	if err := disp.PublishSystem(display.SystemEvent{Timestamp: time.Now(), Event: startEvent}); err != nil {
		log.Printf("failed to publish %s event: %v", startEvent, err)
	}

	log.Printf("started: poll=%v save=%v broker=%s data=%s max=%d",
		cfg.PollInterval(), cfg.SaveInterval(), cfg.Broker, cfg.DataDir, cfg.MaxCount)

	ticker := time.NewTicker(cfg.PollInterval())
	defer ticker.Stop()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	return runLoop(machine, sessions, disp, tracker, watcher.LatchPressed, ticker.C, sigCh, time.Now)
}

// probeAvailability reports a collaborator's availability into the queue.
// None of the probes is a required bring-up step: the daemon runs degraded
// rather than not at all.
func probeAvailability(machine *fsm.Machine, ok bool, up, down event.Type) bool {
	if ok {
		machine.Enqueue(up)
	} else {
		machine.Enqueue(down)
	}
	return ok
}

// buildEdgeHandler wires raw GPIO edges to debouncers and the event queue.
// It runs on the GPIO event goroutine: no I/O, no blocking.
func buildEdgeHandler(machine *fsm.Machine, cfg config.Config) gpio.Handler {
	counterDeb := event.NewDebouncer(cfg.CounterDebounce())
	latchDeb := event.NewDebouncer(cfg.LatchDebounce())
	diagDeb := event.NewDebouncer(cfg.DiagnosticDebounce())

	return func(e gpio.Edge) {
		switch e.Line {
		case gpio.LineCounter:
			// Pulled up: a press is a falling edge.
			if !e.Rising && counterDeb.Accept(e.Time) {
				machine.Enqueue(event.CounterPressed)
			}
		case gpio.LineLatch:
			if !latchDeb.Accept(e.Time) {
				return
			}
			if e.Rising {
				machine.Enqueue(event.ProductionStop)
			} else {
				machine.Enqueue(event.ProductionStart)
			}
		case gpio.LineDiagnostic:
			if !e.Rising && diagDeb.Accept(e.Time) {
				machine.Enqueue(event.DiagnosticRequested)
			}
		}
	}
}

func runLoop(machine *fsm.Machine, sessions *session.Manager, disp systemDisplay,
	tracker *status.Tracker, latchPressed func() (bool, error),
	tick <-chan time.Time, sig <-chan os.Signal, now func() time.Time) error {

	_, _, lastDisplay := machine.Availability()
	latchSeeded := false

	for {
		select {
		case s := <-sig:
			log.Printf("received %v, shutting down", s)
			signalName := "UNKNOWN"
			if s == syscall.SIGINT {
				signalName = "SIGINT"
			} else if s == syscall.SIGTERM {
				signalName = "SIGTERM"
			}

			// An active session survives the restart via its snapshot.
			if sessions.Active() {
				sessions.PersistProgress()
				log.Printf("active session persisted for recovery on next boot")
			}

			ev := display.SystemEvent{Timestamp: now(), Event: "SHUTDOWN", Reason: signalName}
			if err := disp.PublishSystem(ev); err != nil {
				log.Printf("failed to publish shutdown event: %v", err)
			}
			return nil

		case <-tick:
			// Edge availability changes become queue events so the machine
			// sees them in order with everything else.
			if ok := disp.Ready(); ok != lastDisplay {
				lastDisplay = ok
				if ok {
					machine.Enqueue(event.DisplayAvailable)
				} else {
					machine.Enqueue(event.DisplayUnavailable)
				}
			}
			machine.Step()

			// The latch is a physical switch: its level when the machine
			// first reaches Ready decides whether the line is producing.
			// A session recovered with the latch released is closed out.
			if !latchSeeded && machine.Current() == fsm.Ready {
				latchSeeded = true
				if pressed, err := latchPressed(); err == nil {
					if pressed {
						log.Printf("latch engaged at startup, starting production")
						machine.Enqueue(event.ProductionStart)
					} else if sessions.Active() {
						log.Printf("recovered session with latch released, closing it out")
						machine.Enqueue(event.ProductionStart)
						machine.Enqueue(event.ProductionStop)
					}
				}
			}

			st, ck, dp := machine.Availability()
			tracker.Update(machine.Current(), machine.ProductionState(), machine.TimeState(),
				status.Counts{
					Session:    sessions.SessionCount(),
					Total:      sessions.TotalCount(),
					Hourly:     sessions.HourlyCount(),
					Cumulative: sessions.CumulativeCount(),
				},
				status.Availability{Storage: st, Clock: ck, Display: dp},
				machine.DroppedEvents(), machine.EventCount(), machine.TransitionCount())
		}
	}
}
