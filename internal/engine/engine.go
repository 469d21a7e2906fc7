// Package engine wires the session lifecycle to the tick pipeline: it
// runs the subsystems in order, validates and applies their combined
// delta, and persists every tick.
package engine

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/talgya/geosim/internal/config"
	"github.com/talgya/geosim/internal/delta"
	"github.com/talgya/geosim/internal/domain"
	"github.com/talgya/geosim/internal/metrics"
	"github.com/talgya/geosim/internal/persistence"
	"github.com/talgya/geosim/internal/rng"
	"github.com/talgya/geosim/internal/scenario"
	"github.com/talgya/geosim/internal/systems"
)

var (
	// ErrNoSession is returned when an operation needs a session first.
	ErrNoSession = errors.New("engine: no session, call CreateSession or LoadSession")
	// ErrNoWorld is returned when Step runs before InitializeWorld.
	ErrNoWorld = errors.New("engine: world not initialized")
	// ErrAlreadyInitialized is returned on a second InitializeWorld.
	ErrAlreadyInitialized = errors.New("engine: world already initialized")
)

// Engine owns the sole mutable world of one session and advances it
// tick by tick. It is not safe for concurrent use; run one engine per
// session.
type Engine struct {
	cfg     *config.Config
	store   *persistence.Store
	applier *delta.Applier
	systems []systems.System

	sessionID   string
	seed        int64
	currentTick int64
	world       *domain.World
}

// New creates an engine over a store with the given rule configuration.
func New(store *persistence.Store, cfg *config.Config) *Engine {
	if cfg == nil {
		cfg = config.Defaults()
	}
	return &Engine{
		cfg:     cfg,
		store:   store,
		applier: delta.NewApplier(cfg),
		systems: systems.Pipeline(),
	}
}

// SessionID returns the current session id, empty if none.
func (e *Engine) SessionID() string { return e.sessionID }

// CurrentTick returns the last completed tick number.
func (e *Engine) CurrentTick() int64 { return e.currentTick }

// World returns the live world state. Callers must treat it as
// read-only; all mutation goes through Step.
func (e *Engine) World() *domain.World { return e.world }

// Config returns the rule configuration of the current session.
func (e *Engine) Config() *config.Config { return e.cfg }

// Store returns the backing persistence store.
func (e *Engine) Store() *persistence.Store { return e.store }

// CreateSession starts a fresh session with the given seed. The seed is
// persisted so the run can be deterministically resumed.
func (e *Engine) CreateSession(name string, seed int64) (string, error) {
	id, err := e.store.CreateSession(name, seed, e.cfg)
	if err != nil {
		return "", fmt.Errorf("create session: %w", err)
	}

	e.sessionID = id
	e.seed = seed
	e.currentTick = 0
	e.world = nil

	slog.Info("session created", "session", id, "name", name, "seed", seed)
	return id, nil
}

// InitializeWorld installs the starting world and writes the tick-0
// snapshot. It must be the first call after CreateSession.
func (e *Engine) InitializeWorld(w *domain.World) error {
	if e.sessionID == "" {
		return ErrNoSession
	}
	if e.world != nil {
		return ErrAlreadyInitialized
	}

	snapshot, err := scenario.ToJSON(w)
	if err != nil {
		return fmt.Errorf("serialize initial world: %w", err)
	}
	if err := e.store.SaveStep(e.sessionID, 0, nil, snapshot); err != nil {
		return fmt.Errorf("persist initial snapshot: %w", err)
	}

	e.world = w
	e.currentTick = 0
	slog.Info("world initialized",
		"session", e.sessionID,
		"factions", len(w.Factions),
		"regions", len(w.Regions),
	)
	return nil
}

// Step advances the simulation n ticks and returns the emitted events,
// each prefixed with its tick number. A failed tick (subsystem panic or
// persistence error) stops the run at the last completed tick; nothing
// partial is persisted and the in-memory world stays consistent with
// the last persisted tick.
func (e *Engine) Step(n int) ([]string, error) {
	if e.sessionID == "" {
		return nil, ErrNoSession
	}
	if e.world == nil {
		return nil, ErrNoWorld
	}

	var allEvents []string
	for i := 0; i < n; i++ {
		events, err := e.stepOnce()
		if err != nil {
			return allEvents, err
		}
		allEvents = append(allEvents, events...)
	}
	return allEvents, nil
}

func (e *Engine) stepOnce() ([]string, error) {
	tick := e.currentTick + 1

	d, err := e.computeDelta(tick)
	if err != nil {
		return nil, err
	}

	result := e.applier.Apply(d, e.world)
	for _, verr := range result.Errors {
		switch verr.Severity {
		case delta.SeverityError:
			slog.Error("validation error", "tick", tick, "entity", verr.EntityID, "field", verr.Field, "message", verr.Message)
		default:
			slog.Warn("validation warning", "tick", tick, "entity", verr.EntityID, "field", verr.Field, "message", verr.Message)
		}
	}

	deltaJSON, err := json.Marshal(d)
	if err != nil {
		return nil, fmt.Errorf("serialize delta: %w", err)
	}

	var snapshotJSON []byte
	if interval := e.cfg.Simulation.SnapshotInterval; interval > 0 && tick%interval == 0 {
		snapshotJSON, err = scenario.ToJSON(result.World)
		if err != nil {
			return nil, fmt.Errorf("serialize snapshot: %w", err)
		}
	}

	if err := e.store.SaveStep(e.sessionID, tick, deltaJSON, snapshotJSON); err != nil {
		return nil, fmt.Errorf("persist tick %d: %w", tick, err)
	}

	e.world = result.World
	e.currentTick = tick

	events := make([]string, 0, len(d.Events))
	for _, ev := range d.Events {
		events = append(events, fmt.Sprintf("[Tick %d] %s", tick, ev))
	}
	return events, nil
}

// computeDelta runs the subsystem pipeline for one tick. A panicking
// subsystem is contained here so the tick never half-applies.
func (e *Engine) computeDelta(tick int64) (d *delta.WorldDelta, err error) {
	defer func() {
		if r := recover(); r != nil {
			d = nil
			err = fmt.Errorf("subsystem panic at tick %d: %v", tick, r)
		}
	}()

	ctx := &systems.Context{
		Cfg:  e.cfg,
		Rand: rng.ForTick(e.seed, tick),
	}
	builder := delta.NewBuilder()
	for _, sys := range e.systems {
		sys.ComputeDelta(ctx, e.world, builder)
	}
	return builder.Build(), nil
}

// LoadSession restores a session at the given tick, or at its latest
// tick when target is nil: the nearest snapshot at or before the target
// is deserialized and the remaining deltas are replayed through the
// applier.
func (e *Engine) LoadSession(sessionID string, target *int64) error {
	meta, err := e.store.GetSession(sessionID)
	if err != nil {
		return err
	}
	cfg, err := meta.Config()
	if err != nil {
		return err
	}

	targetTick := int64(0)
	if target != nil {
		targetTick = *target
	} else {
		targetTick, err = e.store.GetLatestTick(sessionID)
		if err != nil {
			return err
		}
	}

	snapTick, snapJSON, err := e.store.GetSnapshotAtOrBefore(sessionID, targetTick)
	if err != nil {
		return err
	}
	world, err := scenario.FromJSON(snapJSON)
	if err != nil {
		return fmt.Errorf("decode snapshot: %w", err)
	}

	applier := delta.NewApplier(cfg)
	if snapTick < targetTick {
		rows, err := e.store.GetDeltas(sessionID, snapTick+1, targetTick)
		if err != nil {
			return err
		}
		for _, row := range rows {
			var d delta.WorldDelta
			if err := json.Unmarshal([]byte(row.DeltaJSON), &d); err != nil {
				return fmt.Errorf("decode delta at tick %d: %w", row.Tick, err)
			}
			// A delta that failed validation live fails it again here,
			// leaving the world unchanged, exactly like the live tick.
			world = applier.Apply(&d, world).World
		}
	}

	e.cfg = cfg
	e.applier = applier
	e.sessionID = sessionID
	e.seed = meta.Seed
	e.currentTick = targetTick
	e.world = world

	slog.Info("session loaded", "session", sessionID, "tick", targetTick, "snapshot_tick", snapTick)
	return nil
}

// Metrics computes the derived index report for the current world.
func (e *Engine) Metrics() (metrics.Report, error) {
	if e.world == nil {
		return metrics.Report{}, ErrNoWorld
	}
	return metrics.Calculate(e.world), nil
}
