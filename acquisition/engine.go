package acquisition

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"snapmirror/acquisition/contracts"
)

// SessionState is one phase of an acquisition session.
type SessionState string

const (
	StateIdle            SessionState = "IDLE"
	StateLocatingTrigger SessionState = "LOCATING_TRIGGER"
	StateMenuOpen        SessionState = "MENU_OPEN"
	StateLocatingAction  SessionState = "LOCATING_ACTION"
	StateIntercepting    SessionState = "INTERCEPTING"
	StateResolved        SessionState = "RESOLVED"
	StateFailed          SessionState = "FAILED"
)

// Timings holds the acquisition timing constants. The menu and action phases
// keep separate retry caps on purpose; they were tuned independently against
// the host application and no unifying formula is intended.
type Timings struct {
	MenuSettleDelay     time.Duration
	RetryBackoff        time.Duration
	SubmenuRescanLimit  int
	ActionRetryAttempts int
	SessionTimeout      time.Duration
}

// DefaultTimings returns the tuned defaults.
func DefaultTimings() Timings {
	return Timings{
		MenuSettleDelay:     200 * time.Millisecond,
		RetryBackoff:        200 * time.Millisecond,
		SubmenuRescanLimit:  3,
		ActionRetryAttempts: 5,
		SessionTimeout:      10 * time.Second,
	}
}

// session tracks one in-flight acquisition attempt. Exactly one may exist at
// a time; overlapping callers wait on the same session.
type session struct {
	done    chan struct{}
	payload []byte
	err     error

	mu    sync.Mutex
	state SessionState
}

func (s *session) transition(to SessionState) {
	s.mu.Lock()
	from := s.state
	s.state = to
	s.mu.Unlock()
	logrus.WithField("from", from).WithField("to", to).Debug("acquisition state transition")
}

func (s *session) currentState() SessionState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Engine automates the host page's export flow to obtain one archive per
// call: locate the export trigger, open its menu, find the download action,
// and intercept the resulting binary payload before the host's default
// handling consumes it.
type Engine struct {
	doc        contracts.IDocument
	fetcher    contracts.IBinaryFetcher
	timings    Timings
	strategies []LocatorStrategy

	mu       sync.Mutex
	inflight *session
}

var _ contracts.IAcquisitionEngine = (*Engine)(nil)

// NewEngine builds an engine against the given host document and fetcher,
// using the default locator strategies.
func NewEngine(doc contracts.IDocument, fetcher contracts.IBinaryFetcher, timings Timings) *Engine {
	return &Engine{
		doc:        doc,
		fetcher:    fetcher,
		timings:    timings,
		strategies: DefaultTriggerStrategies(),
	}
}

// SetStrategies replaces the ordered trigger locator strategies.
func (e *Engine) SetStrategies(strategies []LocatorStrategy) {
	e.strategies = strategies
}

// AcquireSnapshotArchive returns the bytes of a freshly exported project
// archive. If an acquisition is already in flight, the call joins it and
// receives the same result; no parallel UI interaction is ever triggered.
//
// The caller's context only detaches that caller: the session itself runs to
// its own timeout so other waiters still get a result.
func (e *Engine) AcquireSnapshotArchive(ctx context.Context) ([]byte, error) {
	e.mu.Lock()
	if s := e.inflight; s != nil {
		e.mu.Unlock()
		select {
		case <-s.done:
			return s.payload, s.err
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	s := &session{done: make(chan struct{}), state: StateIdle}
	e.inflight = s
	e.mu.Unlock()

	go e.run(s)

	select {
	case <-s.done:
		return s.payload, s.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// run drives one session to a terminal state and clears the in-flight marker
// so the next call starts fresh.
func (e *Engine) run(s *session) {
	ctx, cancel := context.WithTimeout(context.Background(), e.timings.SessionTimeout)
	defer cancel()

	payload, err := e.acquire(ctx, s)
	if err != nil && errors.Is(err, context.DeadlineExceeded) {
		err = &AcquisitionTimeoutError{Timeout: e.timings.SessionTimeout, State: s.currentState()}
	}

	s.payload = payload
	s.err = err
	if err != nil {
		s.transition(StateFailed)
		logrus.WithError(err).Warn("snapshot acquisition failed")
	} else {
		s.transition(StateResolved)
		logrus.WithField("bytes", len(payload)).Debug("snapshot acquisition resolved")
	}

	e.mu.Lock()
	e.inflight = nil
	e.mu.Unlock()

	close(s.done)
}

// acquire walks the session state machine. The interceptor installed for the
// INTERCEPTING phase is released on every exit path.
func (e *Engine) acquire(ctx context.Context, s *session) ([]byte, error) {
	s.transition(StateLocatingTrigger)
	trigger := e.locateTrigger()
	if trigger == nil {
		return nil, &TriggerNotFoundError{Strategies: len(e.strategies)}
	}

	activate(trigger)
	if err := sleepCtx(ctx, e.timings.MenuSettleDelay); err != nil {
		return nil, err
	}
	s.transition(StateMenuOpen)

	s.transition(StateLocatingAction)
	action, err := e.locateAction(ctx)
	if err != nil {
		return nil, err
	}

	s.transition(StateIntercepting)
	interceptor := installInterceptor(e.doc)
	defer interceptor.Release()

	activate(action)

	var ref string
	select {
	case ref = <-interceptor.refs:
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	e.dismissMenu()

	payload, err := e.fetcher.Fetch(ctx, ref)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, err
		}
		return nil, &InterceptionError{Cause: err}
	}
	return payload, nil
}

// locateTrigger tries each strategy in order and takes the first match.
func (e *Engine) locateTrigger() contracts.IElement {
	for _, strategy := range e.strategies {
		if el := strategy.Locate(e.doc); el != nil {
			logrus.WithField("strategy", strategy.Name).Debug("export trigger located")
			return el
		}
	}
	return nil
}

// locateAction searches the live menu for the download action, retrying with
// linearly increasing waits because menus can render lazily or be replaced.
// A nested submenu is entered by hover before the next rescan.
func (e *Engine) locateAction(ctx context.Context) (contracts.IElement, error) {
	hovered := 0
	for attempt := 1; attempt <= e.timings.ActionRetryAttempts; attempt++ {
		if el := locateDownloadAction(e.doc); el != nil {
			return el, nil
		}
		if parent := locateSubmenuParent(e.doc); parent != nil && hovered < e.timings.SubmenuRescanLimit {
			hovered++
			parent.Dispatch(contracts.EventMouseEnter)
			if err := sleepCtx(ctx, e.timings.MenuSettleDelay); err != nil {
				return nil, err
			}
			continue
		}
		if err := sleepCtx(ctx, time.Duration(attempt)*e.timings.RetryBackoff); err != nil {
			return nil, err
		}
	}
	return nil, &ActionNotFoundError{Attempts: e.timings.ActionRetryAttempts}
}

// dismissMenu closes the menu left open by the export flow: an escape signal
// first, then a click outside the menu area. Purely a courtesy; the payload
// is already captured, so failures are logged and swallowed.
func (e *Engine) dismissMenu() {
	defer func() {
		if r := recover(); r != nil {
			logrus.WithField("panic", r).Debug("menu dismissal failed")
		}
	}()
	body := e.doc.Body()
	if body == nil {
		return
	}
	body.Dispatch(contracts.EventKeyEscape)
	body.Dispatch(contracts.EventClick)
}

// activate simulates the full user-interaction sequence a real click
// produces, plus the keyboard activation some host widgets require.
func activate(el contracts.IElement) {
	el.Dispatch(contracts.EventPointerDown)
	el.Dispatch(contracts.EventMouseDown)
	el.Dispatch(contracts.EventPointerUp)
	el.Dispatch(contracts.EventMouseUp)
	el.Dispatch(contracts.EventClick)
	el.Dispatch(contracts.EventKeyEnter)
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
