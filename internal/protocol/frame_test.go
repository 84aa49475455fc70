package protocol

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/RogueClaris/Hub-OS/internal/input"
)

func TestInputFrameEqual(t *testing.T) {
	cases := []struct {
		name string
		a, b InputFrame
		want bool
	}{
		{
			name: "both empty",
			want: true,
		},
		{
			name: "nil vs empty slices",
			a:    InputFrame{Pressed: []input.Input{}, Signals: []NetplaySignal{}},
			want: true,
		},
		{
			name: "same order",
			a:    InputFrame{Pressed: []input.Input{input.Up, input.Shoot}},
			b:    InputFrame{Pressed: []input.Input{input.Up, input.Shoot}},
			want: true,
		},
		{
			name: "different order",
			a:    InputFrame{Pressed: []input.Input{input.Up, input.Shoot}},
			b:    InputFrame{Pressed: []input.Input{input.Shoot, input.Up}},
			want: true,
		},
		{
			name: "different inputs",
			a:    InputFrame{Pressed: []input.Input{input.Up}},
			b:    InputFrame{Pressed: []input.Input{input.Down}},
			want: false,
		},
		{
			name: "multiset counts differ",
			a:    InputFrame{Pressed: []input.Input{input.Up, input.Up, input.Down}},
			b:    InputFrame{Pressed: []input.Input{input.Up, input.Down, input.Down}},
			want: false,
		},
		{
			name: "signals out of order",
			a:    InputFrame{Signals: []NetplaySignal{SignalAttemptingFlee, SignalCompletedFlee}},
			b:    InputFrame{Signals: []NetplaySignal{SignalCompletedFlee, SignalAttemptingFlee}},
			want: true,
		},
		{
			name: "signal sets differ",
			a:    InputFrame{Signals: []NetplaySignal{SignalDisconnect}},
			b:    InputFrame{Signals: []NetplaySignal{SignalAttemptingFlee}},
			want: false,
		},
		{
			name: "inputs match, signals do not",
			a:    InputFrame{Pressed: []input.Input{input.Up}, Signals: []NetplaySignal{SignalDisconnect}},
			b:    InputFrame{Pressed: []input.Input{input.Up}},
			want: false,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.a.Equal(tc.b))
			assert.Equal(t, tc.want, tc.b.Equal(tc.a), "Equal must be symmetric")
		})
	}
}

func TestInputFrameHasSignal(t *testing.T) {
	f := InputFrame{Signals: []NetplaySignal{SignalAttemptingFlee, SignalDisconnect}}

	assert.True(t, f.HasSignal(SignalDisconnect))
	assert.True(t, f.HasSignal(SignalAttemptingFlee))
	assert.False(t, f.HasSignal(SignalCompletedFlee))
	assert.False(t, InputFrame{}.HasSignal(SignalDisconnect))
}

func TestInputFrameClone(t *testing.T) {
	f := InputFrame{
		Pressed: []input.Input{input.Up},
		Signals: []NetplaySignal{SignalAttemptingFlee},
	}

	c := f.Clone()
	c.Pressed[0] = input.Down
	c.Signals[0] = SignalDisconnect

	assert.Equal(t, input.Up, f.Pressed[0])
	assert.Equal(t, SignalAttemptingFlee, f.Signals[0])
}

func TestNewDisconnectSignal(t *testing.T) {
	pkt := NewDisconnectSignal(2)

	assert.Equal(t, 2, pkt.Index)
	data, ok := pkt.Data.(Buffer)
	if assert.True(t, ok) {
		assert.Empty(t, data.Data.Pressed)
		assert.Equal(t, []NetplaySignal{SignalDisconnect}, data.Data.Signals)
		assert.Empty(t, data.Lead)
	}
}
