package wizard

import (
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/quvondiq/pricebot/internal/alert"
	"github.com/quvondiq/pricebot/internal/domain"
	"github.com/shopspring/decimal"
)

var (
	ErrNoSession          = errors.New("no active alert session")
	ErrWrongPhase         = errors.New("input does not match session phase")
	ErrUnknownAsset       = errors.New("unknown asset")
	ErrInvalidPriceFormat = errors.New("invalid price format")
)

type Phase int

const (
	SelectingAsset Phase = iota
	SelectingDirection
	AwaitingPrice
)

// Session is the state collected so far for one owner's alert-creation
// conversation.
type Session struct {
	Phase     Phase
	Symbol    string
	Direction domain.Direction
}

// Wizard runs the asset -> direction -> target price conversation and
// commits the finished condition to the registry. It never talks to the
// transport itself; callers drive replies from the returned state.
type Wizard struct {
	registry *alert.Registry

	mu       sync.Mutex
	sessions map[int64]*Session
}

func New(registry *alert.Registry) *Wizard {
	return &Wizard{registry: registry, sessions: make(map[int64]*Session)}
}

// Begin starts a fresh session for the owner, replacing any session in
// progress.
func (w *Wizard) Begin(ownerID int64) Session {
	w.mu.Lock()
	defer w.mu.Unlock()

	session := &Session{Phase: SelectingAsset}
	w.sessions[ownerID] = session
	return *session
}

// Session returns a copy of the owner's session state, if any.
func (w *Wizard) Session(ownerID int64) (Session, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()

	session, ok := w.sessions[ownerID]
	if !ok {
		return Session{}, false
	}
	return *session, true
}

func (w *Wizard) OnAssetChosen(ownerID int64, symbol string) (Session, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	session, ok := w.sessions[ownerID]
	if !ok {
		return Session{}, ErrNoSession
	}
	if session.Phase != SelectingAsset {
		return *session, ErrWrongPhase
	}
	if _, ok := domain.AssetBySymbol(symbol); !ok {
		return *session, ErrUnknownAsset
	}

	session.Symbol = symbol
	session.Phase = SelectingDirection
	return *session, nil
}

func (w *Wizard) OnDirectionChosen(ownerID int64, direction domain.Direction) (Session, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	session, ok := w.sessions[ownerID]
	if !ok {
		return Session{}, ErrNoSession
	}
	if session.Phase != SelectingDirection {
		return *session, ErrWrongPhase
	}

	session.Direction = direction
	session.Phase = AwaitingPrice
	return *session, nil
}

// OnPriceText finishes the conversation: on a valid positive decimal
// the condition is committed to the registry and the session cleared.
// Malformed input leaves the session in AwaitingPrice untouched.
func (w *Wizard) OnPriceText(ownerID int64, text string) (domain.Condition, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	session, ok := w.sessions[ownerID]
	if !ok {
		return domain.Condition{}, ErrNoSession
	}
	if session.Phase != AwaitingPrice {
		return domain.Condition{}, ErrWrongPhase
	}

	target, err := parseTargetPrice(text)
	if err != nil {
		return domain.Condition{}, ErrInvalidPriceFormat
	}

	cond := domain.Condition{
		OwnerID:     ownerID,
		Symbol:      session.Symbol,
		TargetPrice: target,
		Direction:   session.Direction,
		CreatedAt:   time.Now(),
	}
	w.registry.Add(cond)
	delete(w.sessions, ownerID)
	return cond, nil
}

// OnCancel clears the owner's session from any phase, committing
// nothing. It reports whether a session existed.
func (w *Wizard) OnCancel(ownerID int64) bool {
	w.mu.Lock()
	defer w.mu.Unlock()

	_, ok := w.sessions[ownerID]
	delete(w.sessions, ownerID)
	return ok
}

func parseTargetPrice(text string) (decimal.Decimal, error) {
	cleaned := strings.ReplaceAll(strings.TrimSpace(text), ",", "")
	value, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Decimal{}, err
	}
	if !value.IsPositive() {
		return decimal.Decimal{}, errors.New("target price must be positive")
	}
	return value, nil
}
