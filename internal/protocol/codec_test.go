package protocol

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RogueClaris/Hub-OS/internal/input"
)

func TestEncodeDecodeRoundTrip(t *testing.T) {
	regular := 1
	testCases := []struct {
		name string
		pkt  Packet
	}{
		{
			name: "Heartbeat",
			pkt:  Packet{Index: 0, Data: Heartbeat{}},
		},
		{
			name: "Hello carries version",
			pkt:  Packet{Index: 1, Data: Hello{Version: VersionIteration}},
		},
		{
			name: "PlayerSetup with full loadout",
			pkt: Packet{
				Index: 1,
				Data: PlayerSetup{
					PlayerPackage: "dev.konstinople.player.guts",
					ScriptEnabled: true,
					Cards: []Card{
						{Package: "dev.konstinople.card.cannon", Code: "A"},
						{Package: "dev.konstinople.card.sword", Code: "*"},
					},
					RegularCard: &regular,
					Recipes:     []PackageID{"dev.konstinople.card.zeta_cannon"},
					Blocks: []InstalledBlock{
						{Package: "dev.konstinople.augment.tank", Rotation: 1, X: 2, Y: 3, Color: 1},
					},
					Drives: []InstalledSwitchDrive{
						{Package: "dev.konstinople.drive.jet", Slot: 0},
					},
				},
			},
		},
		{
			name: "PackageList",
			pkt: Packet{
				Index: 0,
				Data: PackageList{Packages: []PackageEntry{
					{Category: CategoryPlayer, ID: "dev.konstinople.player.guts", Hash: "a1b2c3"},
					{Category: CategoryCard, ID: "dev.konstinople.card.cannon", Hash: "d4e5f6"},
				}},
			},
		},
		{
			name: "MissingPackages addressed to a participant",
			pkt: Packet{
				Index: 1,
				Data:  MissingPackages{RecipientIndex: 0, List: []FileHash{"a1b2c3"}},
			},
		},
		{
			name: "PackageZip with raw bytes",
			pkt:  Packet{Index: 0, Data: PackageZip{Data: []byte{0x50, 0x4b, 0x03, 0x04, 0xff}}},
		},
		{
			name: "Buffer with inputs, signals and lead",
			pkt: Packet{
				Index: 1,
				Data: Buffer{
					Data: InputFrame{
						Pressed: []input.Input{input.Left, input.Shoot},
						Signals: []NetplaySignal{SignalAttemptingFlee},
					},
					Lead: []int16{0, -2},
				},
			},
		},
		{
			name: "disconnect convenience packet",
			pkt:  NewDisconnectSignal(3),
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			wire, err := Encode(tc.pkt)
			require.NoError(t, err)
			require.GreaterOrEqual(t, len(wire), HeaderSize)

			got, err := Decode(wire)
			require.NoError(t, err)

			assert.Equal(t, tc.pkt.Index, got.Index)
			assert.Equal(t, tc.pkt.Data.Kind(), got.Data.Kind())
			assert.Equal(t, tc.pkt.Data, got.Data)
		})
	}
}

func TestDecodeErrors(t *testing.T) {
	t.Run("too short", func(t *testing.T) {
		_, err := Decode([]byte{byte(KindHello)})
		assert.ErrorIs(t, err, ErrPacketTooShort)
	})

	t.Run("empty", func(t *testing.T) {
		_, err := Decode(nil)
		assert.ErrorIs(t, err, ErrPacketTooShort)
	})

	t.Run("unknown kind", func(t *testing.T) {
		_, err := Decode([]byte{0xff, 0x00, 0x01})
		assert.ErrorIs(t, err, ErrUnknownKind)
	})
}

func TestDecodeEmptyPayloadDefaults(t *testing.T) {
	// A header-only Buffer packet decodes to the default frame: absent
	// fields take their zero values instead of failing.
	got, err := Decode([]byte{byte(KindBuffer), 0x00, 0x02})
	require.NoError(t, err)

	assert.Equal(t, 2, got.Index)
	data, ok := got.Data.(Buffer)
	require.True(t, ok)
	assert.True(t, data.Data.Equal(InputFrame{}))
	assert.Empty(t, data.Lead)
}
