package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/rs/zerolog"

	"github.com/charlyptai/adaptive-interface/go-engine/internal/audit"
	"github.com/charlyptai/adaptive-interface/go-engine/internal/compose"
	"github.com/charlyptai/adaptive-interface/go-engine/internal/engine"
	"github.com/charlyptai/adaptive-interface/go-engine/internal/events"
	"github.com/charlyptai/adaptive-interface/go-engine/internal/fuse"
	"github.com/charlyptai/adaptive-interface/go-engine/internal/persist"
	"github.com/charlyptai/adaptive-interface/go-engine/internal/predict"
	"github.com/charlyptai/adaptive-interface/go-engine/internal/signals"
	"github.com/charlyptai/adaptive-interface/go-engine/internal/store"
)

// #region config

type appConfig struct {
	DBPath       string        `env:"ADAPTIVE_DB" envDefault:"adaptive_ui.db"`
	EmotionTick  time.Duration `env:"EMOTION_TICK" envDefault:"30s"`
	SaveInterval time.Duration `env:"SAVE_INTERVAL" envDefault:"1m"`
	ScoreWindow  time.Duration `env:"SCORE_WINDOW" envDefault:"5m"`
	Debug        bool          `env:"DEBUG"`
}

// #endregion config

// #region renderer

// consoleRenderer prints each adaptation so a session is observable live.
type consoleRenderer struct{}

func (consoleRenderer) Render(snap fuse.ContextSnapshot, comp compose.Composition, pred predict.Prediction) {
	fmt.Printf("\n[%s] %s/%s/%s confidence=%d\n",
		snap.Timestamp.Format("15:04:05"), snap.Context, snap.Intent, snap.Emotion, snap.ConfidenceLevel)
	fmt.Printf("  layout=%s density=%s depth=%s tone=%s\n",
		comp.Layout, comp.Density, comp.Depth, comp.Tone)
	fmt.Printf("  primary: %s\n", strings.Join(comp.Primary, ", "))
	fmt.Printf("  next=%s (%.2f, %s)\n", pred.NextState, pred.Confidence, pred.Urgency)
}

// #endregion renderer

// #region fetcher

// demoFetcher simulates the slice data source: completions re-enter the
// pipeline through Dispatch after a short delay, never blocking it.
type demoFetcher struct {
	eng *engine.Engine
}

func (f *demoFetcher) Fetch(ctx signals.ContextLabel, generation int) {
	go func() {
		time.Sleep(50 * time.Millisecond)
		f.eng.Dispatch(store.SliceDataLoaded{
			Context:    ctx,
			Generation: generation,
			Fields:     map[string]string{"loaded_at": time.Now().UTC().Format(time.RFC3339)},
		})
	}()
}

// #endregion fetcher

// #region main

func main() {
	var cfg appConfig
	if err := env.Parse(&cfg); err != nil {
		fmt.Fprintf(os.Stderr, "parse config: %v\n", err)
		os.Exit(2)
	}

	level := zerolog.InfoLevel
	if cfg.Debug {
		level = zerolog.DebugLevel
	}
	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
		Level(level).With().Timestamp().Logger()

	port, err := persist.NewSQLiteStore(cfg.DBPath)
	if err != nil {
		log.Fatal().Err(err).Msg("open persistence store")
	}
	defer port.Close()

	auditLog, err := audit.NewLog(port.DB())
	if err != nil {
		log.Fatal().Err(err).Msg("open audit log")
	}
	predictStore, err := predict.NewStore(port.DB())
	if err != nil {
		log.Fatal().Err(err).Msg("open predictor store")
	}

	fetcher := &demoFetcher{}
	eng := engine.NewEngine(engine.Config{
		ScoreWindow:  cfg.ScoreWindow,
		EmotionTick:  cfg.EmotionTick,
		SaveInterval: cfg.SaveInterval,
		QueueSize:    256,
	}, engine.Options{
		Renderer:  consoleRenderer{},
		Telemetry: auditLog,
		Fetcher:   fetcher,
		Port:      port,
		Predictor: predict.NewPredictor(predict.DefaultConfig(), predictStore, log),
		Log:       log,
	})
	fetcher.eng = eng

	ctx, cancel := context.WithCancel(context.Background())
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigs
		cancel()
	}()

	done := make(chan struct{})
	go func() {
		defer close(done)
		eng.Run(ctx)
	}()

	fmt.Println("Adaptive interface engine ready.")
	fmt.Printf("  DB: %s | tick: %s\n", cfg.DBPath, cfg.EmotionTick)
	fmt.Println("Enter events as: <category> [page] [duration] (or 'quit'):")

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			break
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if line == "quit" || line == "exit" {
			break
		}
		ev, err := parseEvent(line)
		if err != nil {
			fmt.Fprintf(os.Stderr, "  %v\n", err)
			continue
		}
		eng.Submit(ev)
	}

	cancel()
	<-done
	log.Info().Msg("engine stopped")
}

// #endregion main

// #region parse

// parseEvent turns "error", "search results-page", or "open_document detail 45s"
// into a behavior event.
func parseEvent(line string) (events.BehaviorEvent, error) {
	parts := strings.Fields(line)
	ev := events.BehaviorEvent{
		Category:  events.Category(parts[0]),
		Timestamp: time.Now().UTC(),
	}
	if len(parts) > 1 {
		ev.Page = parts[1]
	}
	if len(parts) > 2 {
		d, err := time.ParseDuration(parts[2])
		if err != nil {
			secs, serr := strconv.Atoi(parts[2])
			if serr != nil {
				return ev, fmt.Errorf("bad duration %q", parts[2])
			}
			d = time.Duration(secs) * time.Second
		}
		ev.Duration = d
	}
	return ev, nil
}

// #endregion parse
