package mode

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTransitions(t *testing.T) {
	cases := []struct {
		from State
		ev   Event
		to   State
		ok   bool
	}{
		{Idle, Request, Loading, true},
		{Idle, Pause, Idle, false},
		{Loading, Installed, Active, true},
		{Loading, Failed, Error, true},
		{Loading, Request, Loading, false},
		{Loading, Pause, Loading, false},
		{Active, Pause, Paused, true},
		{Active, Request, Loading, true},
		{Active, Resume, Active, false},
		{Paused, Resume, Active, true},
		{Paused, Request, Loading, true},
		{Error, Request, Loading, true},
		{Error, Resume, Error, false},
		{Loading, Reset, Idle, true},
		{Paused, Reset, Idle, true},
		{Idle, Reset, Idle, true},
	}
	for _, tc := range cases {
		m := &Machine{state: tc.from}
		err := m.Fire(tc.ev)
		if tc.ok {
			require.NoError(t, err, "%s --%s-->", tc.from, tc.ev)
		} else {
			require.ErrorIs(t, err, ErrIllegalTransition, "%s --%s-->", tc.from, tc.ev)
		}
		require.Equal(t, tc.to, m.State(), "%s --%s-->", tc.from, tc.ev)
	}
}

func TestOnChangeSeesEveryTransition(t *testing.T) {
	m := New()
	var seen []string
	m.OnChange(func(from, to State, ev Event) {
		seen = append(seen, from.String()+">"+to.String())
	})
	require.NoError(t, m.Fire(Request))
	require.NoError(t, m.Fire(Installed))
	require.Error(t, m.Fire(Installed))
	require.NoError(t, m.Fire(Pause))
	require.Equal(t, []string{"IDLE>LOADING", "LOADING>ACTIVE", "ACTIVE>PAUSED"}, seen)
}
