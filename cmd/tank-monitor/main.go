// Command tank-monitor polls GPIO tank level sensors and publishes level
// changes to MQTT.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/sweeney/tank-monitor/internal/config"
	"github.com/sweeney/tank-monitor/internal/gpio"
	"github.com/sweeney/tank-monitor/internal/logic"
	"github.com/sweeney/tank-monitor/internal/metrics"
	"github.com/sweeney/tank-monitor/internal/mqtt"
	"github.com/sweeney/tank-monitor/internal/status"
	"github.com/sweeney/tank-monitor/internal/web"
)

func main() {
	cfgPath := flag.String("config", "/etc/tank-monitor.yaml", "Configuration file path")
	broker := flag.String("broker", "", "MQTT broker address (overrides config)")
	poll := flag.Duration("poll", 0, "Polling interval (overrides config)")
	debounce := flag.Duration("debounce", 0, "Debounce duration (overrides config)")
	heartbeat := flag.Duration("heartbeat", -1, "Heartbeat interval, 0 disables (overrides config)")
	httpAddr := flag.String("http", "", "HTTP status address (overrides config)")
	chip := flag.String("chip", "", "GPIO chip name (overrides config)")
	printState := flag.Bool("print-state", false, "Print current tank levels and exit")

	flag.Parse()

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		log.Fatalf("fatal: %v", err)
	}

	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "broker":
			cfg.Broker = *broker
		case "poll":
			cfg.Poll = config.Duration(*poll)
		case "debounce":
			cfg.Debounce = config.Duration(*debounce)
		case "heartbeat":
			cfg.Heartbeat = config.Duration(*heartbeat)
		case "http":
			cfg.HTTPAddr = *httpAddr
		case "chip":
			cfg.Chip = *chip
		}
	})

	if err := run(cfg, *printState); err != nil {
		log.Fatalf("fatal: %v", err)
	}
}

func run(cfg *config.Config, printState bool) error {
	// Initialize GPIO
	chip, err := gpio.Open(cfg.Chip)
	if err != nil {
		return fmt.Errorf("init gpio: %w", err)
	}
	defer chip.Close()

	// Build every tank before starting anything: a single invalid tank
	// fails the whole startup rather than running with fewer tanks than
	// configured.
	var tanks []*logic.Tank
	for _, tc := range cfg.Tanks {
		var sources []logic.Source
		for _, pin := range tc.Pins {
			line, err := chip.RequestLine(pin, cfg.ActiveHigh)
			if err != nil {
				return fmt.Errorf("tank %q: %w", tc.Name, err)
			}
			sources = append(sources, line)
		}

		tank, err := logic.NewTank(logic.TankConfig{
			Name:       tc.Name,
			Labels:     tc.Labels,
			ActiveHigh: cfg.ActiveHigh,
			Debounce:   cfg.Debounce.Std(),
		}, sources, time.Now)
		if err != nil {
			return err
		}
		tanks = append(tanks, tank)
	}

	// Print state mode
	if printState {
		for _, tank := range tanks {
			levels := tank.ReadLevels()
			fmt.Println(formatLevels(tank.Name(), levels, tank.FillPercentage(levels)))
		}
		return nil
	}

	// Initialize MQTT
	publisher := mqtt.NewRealPublisher(cfg.Broker)
	defer publisher.Close()

	// Status tracker and metrics
	names := make([]string, 0, len(tanks))
	for _, tank := range tanks {
		names = append(names, tank.Name())
	}
	tracker := status.NewTracker(time.Now(), status.Config{
		PollMs:      cfg.Poll.Std().Milliseconds(),
		DebounceMs:  cfg.Debounce.Std().Milliseconds(),
		HeartbeatMs: cfg.Heartbeat.Std().Milliseconds(),
		Broker:      cfg.Broker,
		HTTPAddr:    cfg.HTTPAddr,
		Chip:        cfg.Chip,
		ActiveHigh:  cfg.ActiveHigh,
	}, names)

	reg := prometheus.NewRegistry()
	mets := metrics.New(reg)

	// Publish startup event with full status snapshot
	snap := tracker.Snapshot()
	startupEvent := mqtt.SystemEvent{
		Timestamp:  snap.Now,
		Event:      "STARTUP",
		Retained:   true,
		RawPayload: status.FormatStatusEvent(snap, "STARTUP", ""),
	}
	if err := publisher.PublishSystem(startupEvent); err != nil {
		log.Printf("failed to publish startup event: %v", err)
	} else {
		log.Printf("published startup event")
	}

	// Start HTTP status server
	if cfg.HTTPAddr != "" {
		srv := web.New(cfg.HTTPAddr, tracker, promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
		go func() {
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				log.Printf("http server error: %v", err)
			}
		}()
		defer srv.Shutdown(context.Background())
		log.Printf("http status server listening on %s", cfg.HTTPAddr)
	}

	log.Printf("started: tanks=%d poll=%v debounce=%v broker=%s heartbeat=%v",
		len(tanks), cfg.Poll.Std(), cfg.Debounce.Std(), cfg.Broker, cfg.Heartbeat.Std())

	ticker := time.NewTicker(cfg.Poll.Std())
	defer ticker.Stop()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	return runLoop(tanks, publisher, publisher, tracker, mets, cfg.Heartbeat.Std(), time.Now, ticker.C, sigCh)
}

func runLoop(tanks []*logic.Tank, publisher mqtt.Publisher, mqttStatus mqtt.ConnectionStatus, tracker *status.Tracker, mets *metrics.Metrics, heartbeat time.Duration, now func() time.Time, tick <-chan time.Time, sig <-chan os.Signal) error {
	lastHeartbeat := now()

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
			event := mqtt.SystemEvent{
				Timestamp: now(),
				Event:     "SHUTDOWN",
				Reason:    signalName,
				Retained:  true,
			}
			if tracker != nil {
				if mqttStatus != nil {
					tracker.SetMQTTConnected(mqttStatus.IsConnected())
				}
				event.RawPayload = status.FormatStatusEvent(tracker.Snapshot(), "SHUTDOWN", signalName)
			}
			if err := publisher.PublishSystem(event); err != nil {
				log.Printf("failed to publish shutdown event: %v", err)
			} else {
				log.Printf("published shutdown event")
			}
			return nil

		case <-tick:
			t := now()

			for _, tank := range tanks {
				levels := tank.ReadLevels()
				percentage := tank.FillPercentage(levels)

				if tank.HasChanged(levels) {
					log.Printf("change: %s", formatLevels(tank.Name(), levels, percentage))
					snap := logic.Snapshot{
						Tank:       tank.Name(),
						Levels:     levels,
						Percentage: percentage,
						Time:       t,
					}
					if err := publisher.Publish(snap); err != nil {
						log.Printf("publish error: %v", err)
						// Don't crash on publish failure
					}
					tank.Remember(levels)
					if tracker != nil {
						tracker.IncReports(tank.Name())
					}
					if mets != nil {
						mets.CountReport(tank.Name())
					}
				}

				if tracker != nil {
					tracker.UpdateTank(tank.Name(), levels, percentage)
				}
				if mets != nil {
					mets.ObserveLevels(tank.Name(), levels, percentage)
				}
			}

			connected := false
			if mqttStatus != nil {
				connected = mqttStatus.IsConnected()
			}
			if tracker != nil {
				tracker.SetMQTTConnected(connected)
			}
			if mets != nil {
				mets.SetMQTTConnected(connected)
			}

			if heartbeat > 0 && t.Sub(lastHeartbeat) >= heartbeat {
				lastHeartbeat = t
				hbEvent := mqtt.SystemEvent{
					Timestamp: t,
					Event:     "HEARTBEAT",
				}
				if tracker != nil {
					hbEvent.RawPayload = status.FormatStatusEvent(tracker.Snapshot(), "HEARTBEAT", "")
				}
				if err := publisher.PublishSystem(hbEvent); err != nil {
					log.Printf("heartbeat publish error: %v", err)
				}
			}
		}
	}
}

// formatLevels renders one tank's state as a single log line, e.g.
// "[fresh] empty=ON, one_third=off, two_thirds=off, full=off, fill=33%".
func formatLevels(tank string, levels logic.Levels, percentage int) string {
	parts := make([]string, 0, len(levels)+1)
	for _, r := range levels {
		state := "off"
		if r.Active {
			state = "ON"
		}
		parts = append(parts, fmt.Sprintf("%s=%s", r.Label, state))
	}
	parts = append(parts, fmt.Sprintf("fill=%d%%", percentage))
	return fmt.Sprintf("[%s] %s", tank, strings.Join(parts, ", "))
}
