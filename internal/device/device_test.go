package device

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/safewatch/safewatch/internal/config"
)

func TestFormatCoords(t *testing.T) {
	assert.Equal(t, "40.712800, -74.006000", FormatCoords(40.7128, -74.006))
	assert.Equal(t, "0.000000, 0.000000", Position{}.String())
}

func TestConfigLocator(t *testing.T) {
	loc := NewConfigLocator(config.LocationConfig{Enabled: true, Latitude: 1.5, Longitude: 2.25, TimeoutMS: 1000})
	p, err := loc.CurrentPosition(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1.5, p.Latitude)
	assert.Equal(t, 2.25, p.Longitude)

	_, err = NewConfigLocator(config.LocationConfig{}).CurrentPosition(context.Background())
	assert.ErrorIs(t, err, ErrPositionUnavailable)
}

func TestLocatorTimeout(t *testing.T) {
	slow := func(ctx context.Context, _ bool) (Position, error) {
		<-ctx.Done()
		return Position{}, ctx.Err()
	}
	loc := NewLocator(slow, LocatorOptions{Timeout: 10 * time.Millisecond})
	_, err := loc.CurrentPosition(context.Background())
	assert.ErrorIs(t, err, ErrLocationTimeout)
}

func TestLocatorReusesRecentFix(t *testing.T) {
	calls := 0
	src := func(context.Context, bool) (Position, error) {
		calls++
		return Position{Latitude: float64(calls)}, nil
	}
	now := time.Now()
	loc := NewLocator(src, LocatorOptions{MaximumAge: 10 * time.Second})
	loc.now = func() time.Time { return now }

	p, err := loc.CurrentPosition(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1.0, p.Latitude)

	now = now.Add(5 * time.Second)
	p, _ = loc.CurrentPosition(context.Background())
	assert.Equal(t, 1.0, p.Latitude)

	now = now.Add(6 * time.Second)
	p, _ = loc.CurrentPosition(context.Background())
	assert.Equal(t, 2.0, p.Latitude)
	assert.Equal(t, 2, calls)
}

func TestLocatorPassesHighAccuracy(t *testing.T) {
	var got bool
	loc := NewLocator(func(_ context.Context, high bool) (Position, error) {
		got = high
		return Position{}, nil
	}, LocatorOptions{HighAccuracy: true})
	_, err := loc.CurrentPosition(context.Background())
	require.NoError(t, err)
	assert.True(t, got)
}

func TestStaticPrompter(t *testing.T) {
	assert.Equal(t, PermissionGranted, StaticPrompter{Granted: true}.RequestLocation(context.Background()))
	assert.Equal(t, PermissionDenied, StaticPrompter{}.RequestLocation(context.Background()))
}

func TestTelURI(t *testing.T) {
	cases := map[string]string{
		"+1 (555) 010-0199": "tel:+15550100199",
		"555.0188":          "tel:5550188",
		" 911 ":             "tel:911",
	}
	for in, want := range cases {
		got, err := TelURI(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
	for _, bad := range []string{"", "+", "call me"} {
		_, err := TelURI(bad)
		assert.ErrorIs(t, err, ErrInvalidPhone, bad)
	}
}

func TestDialerCall(t *testing.T) {
	var gotName string
	var gotArgs []string
	d := &Dialer{opener: "xdg-open", run: func(_ context.Context, name string, args ...string) error {
		gotName, gotArgs = name, args
		return nil
	}}
	uri, err := d.Call(context.Background(), "+1-555-0101")
	require.NoError(t, err)
	assert.Equal(t, "tel:+15550101", uri)
	assert.Equal(t, "xdg-open", gotName)
	assert.Equal(t, []string{"tel:+15550101"}, gotArgs)

	d.run = func(context.Context, string, ...string) error { return errors.New("no handler") }
	_, err = d.Call(context.Background(), "911")
	assert.Error(t, err)
}

func TestPlatformOpener(t *testing.T) {
	assert.Equal(t, "open", platformOpener("darwin"))
	assert.Equal(t, "xdg-open", platformOpener("linux"))
	assert.Equal(t, "explorer", platformOpener("windows"))
}
