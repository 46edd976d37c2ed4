package wizard

import (
	"testing"

	"github.com/quvondiq/pricebot/internal/alert"
	"github.com/quvondiq/pricebot/internal/domain"
	"github.com/stretchr/testify/require"
)

func TestWizardFullFlow(t *testing.T) {
	t.Parallel()

	registry := alert.NewRegistry()
	w := New(registry)

	session := w.Begin(42)
	require.Equal(t, SelectingAsset, session.Phase)

	session, err := w.OnAssetChosen(42, "BTC")
	require.NoError(t, err)
	require.Equal(t, SelectingDirection, session.Phase)
	require.Equal(t, "BTC", session.Symbol)

	session, err = w.OnDirectionChosen(42, domain.Above)
	require.NoError(t, err)
	require.Equal(t, AwaitingPrice, session.Phase)

	// Malformed input is rejected without a state transition.
	_, err = w.OnPriceText(42, "abc")
	require.ErrorIs(t, err, ErrInvalidPriceFormat)
	session, ok := w.Session(42)
	require.True(t, ok)
	require.Equal(t, AwaitingPrice, session.Phase)

	cond, err := w.OnPriceText(42, "50000")
	require.NoError(t, err)
	require.Equal(t, int64(42), cond.OwnerID)
	require.Equal(t, "BTC", cond.Symbol)
	require.Equal(t, domain.Above, cond.Direction)
	require.Equal(t, "50000", cond.TargetPrice.String())

	// Committed to the registry, session cleared.
	require.Len(t, registry.ListFor(42), 1)
	_, ok = w.Session(42)
	require.False(t, ok)
}

func TestWizardRejectsOutOfPhaseInput(t *testing.T) {
	t.Parallel()

	w := New(alert.NewRegistry())

	_, err := w.OnAssetChosen(1, "BTC")
	require.ErrorIs(t, err, ErrNoSession)
	_, err = w.OnDirectionChosen(1, domain.Above)
	require.ErrorIs(t, err, ErrNoSession)
	_, err = w.OnPriceText(1, "100")
	require.ErrorIs(t, err, ErrNoSession)

	w.Begin(1)
	_, err = w.OnDirectionChosen(1, domain.Above)
	require.ErrorIs(t, err, ErrWrongPhase)
	_, err = w.OnPriceText(1, "100")
	require.ErrorIs(t, err, ErrWrongPhase)

	session, ok := w.Session(1)
	require.True(t, ok)
	require.Equal(t, SelectingAsset, session.Phase)
}

func TestWizardRejectsUnknownAsset(t *testing.T) {
	t.Parallel()

	w := New(alert.NewRegistry())
	w.Begin(1)

	_, err := w.OnAssetChosen(1, "DOGE")
	require.ErrorIs(t, err, ErrUnknownAsset)

	session, _ := w.Session(1)
	require.Equal(t, SelectingAsset, session.Phase)
}

func TestWizardPriceValidation(t *testing.T) {
	t.Parallel()

	registry := alert.NewRegistry()
	w := New(registry)

	setup := func(ownerID int64) {
		w.Begin(ownerID)
		_, err := w.OnAssetChosen(ownerID, "ETH")
		require.NoError(t, err)
		_, err = w.OnDirectionChosen(ownerID, domain.Below)
		require.NoError(t, err)
	}

	setup(1)
	for _, input := range []string{"", "abc", "-5", "0", "1e", "..5"} {
		_, err := w.OnPriceText(1, input)
		require.ErrorIsf(t, err, ErrInvalidPriceFormat, "input %q", input)
	}
	require.Empty(t, registry.ListFor(1))

	// Thousands separators are tolerated.
	cond, err := w.OnPriceText(1, "3,500.50")
	require.NoError(t, err)
	require.Equal(t, "3500.5", cond.TargetPrice.String())
}

func TestWizardCancelClearsSession(t *testing.T) {
	t.Parallel()

	registry := alert.NewRegistry()
	w := New(registry)

	require.False(t, w.OnCancel(9))

	w.Begin(9)
	_, err := w.OnAssetChosen(9, "TON")
	require.NoError(t, err)

	require.True(t, w.OnCancel(9))
	_, ok := w.Session(9)
	require.False(t, ok)
	require.Empty(t, registry.ListFor(9))
}

func TestWizardBeginReplacesSession(t *testing.T) {
	t.Parallel()

	w := New(alert.NewRegistry())

	w.Begin(5)
	_, err := w.OnAssetChosen(5, "BTC")
	require.NoError(t, err)

	session := w.Begin(5)
	require.Equal(t, SelectingAsset, session.Phase)
	require.Empty(t, session.Symbol)
}
