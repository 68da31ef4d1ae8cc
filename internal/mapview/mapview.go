// Package mapview owns the view state of the map screen and orchestrates the
// search, directions and look-around flows against the location services.
//
// Every mutation is applied by a single owner goroutine started with Run.
// Operations return a channel that yields exactly one Outcome. Requests that
// call a provider return at once; plain edits return once the owner accepted them.
// For each kind of request only the most recently submitted one may change the
// state; older results that complete later are discarded as superseded.
package mapview

import (
	"context"
	"log/slog"
	"slices"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/UnknownOlympus/compass/internal/geocoding"
	"github.com/UnknownOlympus/compass/internal/location"
	"github.com/UnknownOlympus/compass/internal/metrics"
	"github.com/UnknownOlympus/compass/internal/models"
	"github.com/UnknownOlympus/compass/internal/routing"
	"github.com/UnknownOlympus/compass/internal/scene"
)

// concern groups requests that replace each other's results.
type concern int

const (
	concernNone concern = iota
	concernSearch
	concernRoute
	concernScene
	concernCount
)

// mutation carries a finished request to the owner goroutine.
type mutation struct {
	concern    concern
	generation uint64
	outcome    Outcome
	apply      func(st *State) // nil when the state stays unchanged
	done       chan<- Outcome
}

// Dependencies are the collaborators of a MapView.
type Dependencies struct {
	Geocoder geocoding.Provider
	Router   routing.Provider
	Scenes   scene.Provider
	Locator  location.Provider
	Metrics  *metrics.Metrics
	Logger   *slog.Logger
}

// MapView holds the view state and serializes its mutations.
type MapView struct {
	geocoder geocoding.Provider
	router   routing.Provider
	scenes   scene.Provider
	locator  location.Provider
	metrics  *metrics.Metrics
	log      *slog.Logger
	now      func() time.Time

	mu    sync.RWMutex
	state State

	latest    [concernCount]atomic.Uint64
	mutations chan mutation
	started   chan Outcome
	stopped   chan struct{}
	running   atomic.Bool
}

// New creates a map view centered on models.Home. Nothing happens until Run is called.
func New(deps Dependencies) *MapView {
	return &MapView{
		geocoder:  deps.Geocoder,
		router:    deps.Router,
		scenes:    deps.Scenes,
		locator:   deps.Locator,
		metrics:   deps.Metrics,
		log:       deps.Logger,
		now:       time.Now,
		state:     initialState(),
		mutations: make(chan mutation),
		started:   make(chan Outcome, 1),
		stopped:   make(chan struct{}),
	}
}

// Run applies mutations until ctx is done. On start it reads the current
// location once and centers the camera on it. Run must be called exactly once;
// operations submitted before it starts wait for it.
func (mv *MapView) Run(ctx context.Context) {
	if !mv.running.CompareAndSwap(false, true) {
		mv.log.ErrorContext(ctx, "Map view is already running")
		return
	}
	defer close(mv.stopped)

	mv.log.InfoContext(ctx, "Map view started")
	go mv.startup(ctx)
	go mv.follow(ctx)

	for {
		select {
		case <-ctx.Done():
			mv.log.InfoContext(ctx, "Map view stopped")
			return
		case m := <-mv.mutations:
			mv.apply(ctx, m)
		}
	}
}

// Startup yields the outcome of the initial location read. It can be received once.
func (mv *MapView) Startup() <-chan Outcome {
	return mv.started
}

// Done is closed when Run has returned.
func (mv *MapView) Done() <-chan struct{} {
	return mv.stopped
}

// Snapshot returns a copy of the current view state.
func (mv *MapView) Snapshot() State {
	mv.mu.RLock()
	defer mv.mu.RUnlock()

	st := mv.state
	st.Annotations = slices.Clone(st.Annotations)

	return st
}

// SetSearchText replaces the edited search text. The edit is handed to the
// owner goroutine before SetSearchText returns, so edits apply in call order.
func (mv *MapView) SetSearchText(ctx context.Context, text string) <-chan Outcome {
	done := make(chan Outcome, 1)
	mv.commit(ctx, mutation{
		outcome: newOutcome(OperationSetSearchText),
		apply:   func(st *State) { st.SearchText = text },
		done:    done,
	})

	return done
}

// DismissScene hides the street-level viewer. A look-around still in flight is
// superseded; one requested after DismissScene returns is not affected.
func (mv *MapView) DismissScene(ctx context.Context) <-chan Outcome {
	done := make(chan Outcome, 1)
	mv.latest[concernScene].Add(1)
	mv.commit(ctx, mutation{
		outcome: newOutcome(OperationDismissScene),
		apply: func(st *State) {
			st.Scene = nil
			st.SceneVisible = false
		},
		done: done,
	})

	return done
}

// SubmitSearch resolves text to a placemark. On success the placemark is stored
// and, when it has a coordinate, the camera is centered on it. When nothing is
// found the state is left unchanged.
func (mv *MapView) SubmitSearch(ctx context.Context, text string) <-chan Outcome {
	done := make(chan Outcome, 1)
	m := mutation{
		concern:    concernSearch,
		generation: mv.latest[concernSearch].Add(1),
		outcome:    newOutcome(OperationSearch),
		done:       done,
	}

	go func() {
		query := strings.TrimSpace(text)
		if query == "" {
			m.outcome.Kind, m.outcome.Err = KindNotFound, ErrEmptyQuery
			mv.commit(ctx, m)
			return
		}

		placemark, err := observe(ctx, mv, "geocoding", func(ctx context.Context) (*models.Placemark, error) {
			return mv.geocoder.Geocode(ctx, query)
		})
		if err == nil && placemark == nil {
			err = geocoding.ErrNotFound
		}

		switch {
		case err != nil:
			mv.fail(ctx, &m, KindNotFound, err)
		default:
			m.apply = func(st *State) {
				st.Placemark = placemark
				if placemark.Location != nil {
					st.Region = models.NewRegion(*placemark.Location)
				}
			}
		}
		mv.commit(ctx, m)
	}()

	return done
}

// RequestDirections computes a driving route from the current location to destination.
// An unknown current location leaves the previous route in place; a routing
// failure clears it.
func (mv *MapView) RequestDirections(ctx context.Context, destination models.Coordinates) <-chan Outcome {
	done := make(chan Outcome, 1)
	m := mutation{
		concern:    concernRoute,
		generation: mv.latest[concernRoute].Add(1),
		outcome:    newOutcome(OperationDirections),
		done:       done,
	}

	go func() {
		origin, err := observe(ctx, mv, "location", func(ctx context.Context) (models.Coordinates, error) {
			return location.CurrentLocation(ctx, mv.locator)
		})
		if err != nil {
			mv.fail(ctx, &m, KindUnknown, err)
			mv.commit(ctx, m)
			return
		}

		route, err := observe(ctx, mv, "routing", func(ctx context.Context) (*models.Route, error) {
			return mv.router.Route(ctx, origin, destination)
		})
		if err == nil && route == nil {
			err = routing.ErrNoRoute
		}

		switch {
		case err != nil:
			if mv.fail(ctx, &m, KindUnroutable, err) {
				m.apply = func(st *State) { st.Route = nil }
			}
		default:
			m.apply = func(st *State) { st.Route = route }
		}
		mv.commit(ctx, m)
	}()

	return done
}

// RequestLookAround fetches the street-level scene at a coordinate and shows the
// viewer. Without coverage the scene is cleared and the viewer hidden.
func (mv *MapView) RequestLookAround(ctx context.Context, at models.Coordinates) <-chan Outcome {
	done := make(chan Outcome, 1)
	m := mutation{
		concern:    concernScene,
		generation: mv.latest[concernScene].Add(1),
		outcome:    newOutcome(OperationLookAround),
		done:       done,
	}

	go func() {
		found, err := observe(ctx, mv, "scene", func(ctx context.Context) (*models.Scene, error) {
			return mv.scenes.LookupScene(ctx, at)
		})
		if err == nil && found == nil {
			err = scene.ErrNoCoverage
		}

		switch {
		case err != nil:
			if mv.fail(ctx, &m, KindUnavailable, err) {
				m.apply = func(st *State) {
					st.Scene = nil
					st.SceneVisible = false
				}
			}
		default:
			m.apply = func(st *State) {
				st.Scene = found
				st.SceneVisible = true
			}
		}
		mv.commit(ctx, m)
	}()

	return done
}

// startup centers the camera on the first known location. It does not retry.
// A search that moved the camera in the meantime wins over the startup fix.
func (mv *MapView) startup(ctx context.Context) {
	m := mutation{outcome: newOutcome(OperationStartup), done: mv.started}

	at, err := observe(ctx, mv, "location", func(ctx context.Context) (models.Coordinates, error) {
		return location.CurrentLocation(ctx, mv.locator)
	})
	if err != nil {
		mv.fail(ctx, &m, KindUnknown, err)
		mv.commit(ctx, m)
		return
	}

	home := models.NewRegion(models.Home)
	m.apply = func(st *State) {
		if st.Region == home {
			st.Region = models.NewRegion(at)
		}
	}
	mv.commit(ctx, m)
}

// follow mirrors live location updates into State.UserLocation until ctx is done.
// Failed updates keep the last known position.
func (mv *MapView) follow(ctx context.Context) {
	for update := range mv.locator.Updates(ctx) {
		if update.Err != nil {
			mv.log.DebugContext(ctx, "Live location update failed", "error", update.Err)
			continue
		}
		if update.Location == nil {
			continue
		}

		at := *update.Location
		mv.commit(ctx, mutation{
			outcome: newOutcome(OperationLocationUpdate),
			apply:   func(st *State) { st.UserLocation = &at },
			done:    make(chan Outcome, 1),
		})
	}
}

// fail records a failure of kind on m. It reports false when the failure was
// caused by the caller giving up, in which case the state must not change.
func (mv *MapView) fail(ctx context.Context, m *mutation, kind Kind, err error) bool {
	if ctx.Err() != nil {
		m.outcome.Kind, m.outcome.Err = KindCanceled, err
		return false
	}
	m.outcome.Kind, m.outcome.Err = kind, err

	return true
}

// commit hands m to the owner goroutine. If that is impossible the outcome is
// delivered directly as canceled.
func (mv *MapView) commit(ctx context.Context, m mutation) {
	select {
	case mv.mutations <- m:
	case <-ctx.Done():
		m.outcome.Kind, m.outcome.Err = KindCanceled, ctx.Err()
		mv.finish(ctx, m.outcome)
		m.done <- m.outcome
	case <-mv.stopped:
		m.outcome.Kind, m.outcome.Err = KindCanceled, ErrStopped
		mv.finish(ctx, m.outcome)
		m.done <- m.outcome
	}
}

// apply runs on the owner goroutine only.
func (mv *MapView) apply(ctx context.Context, m mutation) {
	if m.concern != concernNone && m.generation != mv.latest[m.concern].Load() {
		m.outcome.Kind, m.outcome.Err = KindSuperseded, ErrSuperseded
		m.apply = nil
	}

	if m.apply != nil || m.outcome.failed() {
		mv.mu.Lock()
		if m.apply != nil {
			m.apply(&mv.state)
		}
		if m.outcome.failed() {
			mv.state.LastError = &OperationError{
				Operation: m.outcome.Operation,
				Kind:      m.outcome.Kind,
				Message:   m.outcome.Err.Error(),
				At:        mv.now(),
			}
		}
		mv.mu.Unlock()
	}

	mv.finish(ctx, m.outcome)
	m.done <- m.outcome
}

func (mv *MapView) finish(ctx context.Context, outcome Outcome) {
	mv.metrics.OperationsTotal.WithLabelValues(string(outcome.Operation), string(outcome.Kind)).Inc()

	attrs := []any{"operation", outcome.Operation, "id", outcome.ID.String(), "kind", outcome.Kind}
	switch {
	case outcome.Kind == KindOK:
		mv.log.DebugContext(ctx, "Operation completed", attrs...)
	case outcome.failed():
		mv.log.WarnContext(ctx, "Operation failed", append(attrs, "error", outcome.Err)...)
	default:
		mv.log.InfoContext(ctx, "Operation discarded", append(attrs, "reason", outcome.Err)...)
	}
}

// observe calls fn while tracking it in the provider metrics.
func observe[T any](ctx context.Context, mv *MapView, label string, fn func(context.Context) (T, error)) (T, error) {
	mv.metrics.InFlight.Inc()
	defer mv.metrics.InFlight.Dec()

	start := time.Now()
	result, err := fn(ctx)
	mv.metrics.RequestSeconds.WithLabelValues(label).Observe(time.Since(start).Seconds())

	if err != nil {
		mv.metrics.ProviderErrors.WithLabelValues(label).Inc()
		mv.log.DebugContext(ctx, "Provider call failed", "provider", label, "error", err)
	}

	return result, err
}
