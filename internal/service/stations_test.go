package service

import (
	"io"
	"log/slog"
	"testing"

	"github.com/mmcdole/iradio/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func nullLogger() *slog.Logger { return slog.New(slog.NewTextHandler(io.Discard, nil)) }

var abc = []domain.Station{
	{Name: "A", Token: "a"},
	{Name: "B", Token: "b"},
	{Name: "C", Token: "c"},
}

func names(stations []domain.Station) []string {
	out := make([]string, len(stations))
	for i, s := range stations {
		out[i] = s.Name
	}
	return out
}

func TestStationRegistry_ToggleScenario(t *testing.T) {
	r, err := NewStationRegistry(abc, []string{"B"}, nullLogger())
	require.NoError(t, err)
	assert.Equal(t, []string{"B"}, names(r.Active()))

	station, active, err := r.Toggle(1)
	require.NoError(t, err)
	assert.Equal(t, "A", station.Name)
	assert.True(t, active)
	assert.Equal(t, []string{"B", "A"}, names(r.Active()), "activation appends")

	station, active, err = r.Toggle(2)
	require.NoError(t, err)
	assert.Equal(t, "B", station.Name)
	assert.False(t, active)
	assert.Equal(t, []string{"A"}, names(r.Active()))
}

func TestStationRegistry_DoubleToggleRestores(t *testing.T) {
	for idx := 1; idx <= len(abc); idx++ {
		r, err := NewStationRegistry(abc, []string{"B", "C"}, nullLogger())
		require.NoError(t, err)
		before := map[string]bool{}
		for _, s := range r.Active() {
			before[s.Name] = true
		}

		_, _, err = r.Toggle(idx)
		require.NoError(t, err)
		_, _, err = r.Toggle(idx)
		require.NoError(t, err)

		after := map[string]bool{}
		for _, s := range r.Active() {
			after[s.Name] = true
		}
		assert.Equal(t, before, after, "index %d", idx)
	}
}

func TestStationRegistry_ToggleOutOfRange(t *testing.T) {
	r, err := NewStationRegistry(abc, nil, nullLogger())
	require.NoError(t, err)

	for _, idx := range []int{0, 4, 99, -1} {
		_, _, err := r.Toggle(idx)
		require.ErrorIs(t, err, domain.ErrIndexOutOfRange)

		var oor *domain.IndexOutOfRangeError
		require.ErrorAs(t, err, &oor)
		assert.Equal(t, 3, oor.Max)
	}
	assert.Empty(t, r.Active())
}

func TestStationRegistry_DuplicateName(t *testing.T) {
	_, err := NewStationRegistry([]domain.Station{{Name: "A"}, {Name: "A"}}, nil, nullLogger())
	assert.ErrorIs(t, err, domain.ErrDuplicateStation)
}

func TestStationRegistry_LookupFuzzy(t *testing.T) {
	catalog := []domain.Station{
		{Name: "ČRo Radiožurnál"},
		{Name: "ČRo Dvojka"},
		{Name: "Plzeň"},
	}
	r, err := NewStationRegistry(catalog, []string{"dvojka", "plzen", "nowhere"}, nullLogger())
	require.NoError(t, err)

	assert.Equal(t, []string{"ČRo Dvojka", "Plzeň"}, names(r.Active()), "unknown defaults are skipped")

	pos, err := r.Lookup("ČRo Radiožurnál")
	require.NoError(t, err)
	assert.Equal(t, 0, pos)

	pos, err = r.Lookup("radiozurnal")
	require.NoError(t, err)
	assert.Equal(t, 0, pos)

	_, err = r.Lookup("Vltava")
	assert.ErrorIs(t, err, domain.ErrUnknownStation)

	assert.True(t, r.IsActive(2))
	assert.False(t, r.IsActive(1))
	assert.False(t, r.IsActive(0))
}

func TestStationRegistry_EmptyActiveSetIsLegal(t *testing.T) {
	r, err := NewStationRegistry(abc, []string{"A"}, nullLogger())
	require.NoError(t, err)

	_, _, err = r.Toggle(1)
	require.NoError(t, err)
	assert.Empty(t, r.Active())
	assert.Equal(t, 3, r.Len())
}
