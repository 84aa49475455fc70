// Netplay — loopback demonstration of the rollback-style netplay core.
//
// Two in-process sessions are linked by direct packet delivery and driven
// through the full connection lifecycle: handshake, player setup, package
// sync, and a run of steady-state input exchange ending in an orderly
// disconnect. No sockets are involved — the transport layer is whatever
// delivers encoded packets, and here that is a function call.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"

	"github.com/pterm/pterm"

	"github.com/RogueClaris/Hub-OS/internal/config"
	"github.com/RogueClaris/Hub-OS/internal/input"
	"github.com/RogueClaris/Hub-OS/internal/protocol"
	"github.com/RogueClaris/Hub-OS/internal/session"
	"github.com/RogueClaris/Hub-OS/internal/util"
)

var version = "dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	configPath := flag.String("config", "", "Path to a netplay YAML config file")
	frames := flag.Int("frames", 300, "Number of steady-state frames to simulate")
	delay := flag.Int("delay", -1, "Input delay override in frames (-1 = from config)")
	debugMode := flag.Bool("debug", false, "Enable debug logging")
	flag.Parse()

	if *debugMode {
		util.EnableDebug()
	}

	pterm.Info.Println(fmt.Sprintf("Netplay core demo — v%s", version))
	pterm.Println()

	cfg, err := loadConfig(*configPath)
	if err != nil {
		util.LogError("%v", err)
		os.Exit(1)
	}
	if *delay >= 0 {
		cfg.Delay = *delay
	}
	if cfg.Debug {
		util.EnableDebug()
	}

	util.StartStatsReporter(ctx, cfg.StatsInterval)

	if err := run(cfg, *frames); err != nil {
		util.LogError("session failed: %v", err)
		os.Exit(1)
	}

	util.LogInfo("session finished cleanly")
}

// loadConfig reads the given file, or falls back to built-in defaults.
func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		return config.Default(), nil
	}
	return config.Load(path)
}

// ---------------------------------------------------------------------------
// Demo session
// ---------------------------------------------------------------------------

// run drives two linked sessions through a complete netplay lifecycle.
func run(cfg *config.Config, frames int) error {
	alice := newParticipant(cfg, 0, []int{1}, "dev.demo.player.alpha", []byte("alpha package archive"))
	bob := newParticipant(cfg, 1, []int{0}, "dev.demo.player.beta", []byte("beta package archive"))

	bob.OnPackage(func(hash protocol.FileHash, data []byte) {
		util.LogInfo("bob received package %s (%d bytes)", hash, len(data))
	})
	alice.OnPackage(func(hash protocol.FileHash, data []byte) {
		util.LogInfo("alice received package %s (%d bytes)", hash, len(data))
	})

	// Handshake, setup, package sync.
	if err := pump(alice, bob, alice.Start(), bob.Start()); err != nil {
		return err
	}

	readyA, err := alice.LocalReady()
	if err != nil {
		return err
	}
	readyB, err := bob.LocalReady()
	if err != nil {
		return err
	}
	if err := pump(alice, bob, []protocol.Packet{readyA}, []protocol.Packet{readyB}); err != nil {
		return err
	}

	util.LogInfo("connection established: alice=%s bob=%s (delay %d frames)",
		alice.State(), bob.State(), cfg.Delay)

	// Steady state: exchange input frames. Alice holds Left for long spans
	// so the run-length compression path is the common case.
	for frame := 0; frame < frames; frame++ {
		aliceFrame := protocol.InputFrame{}
		if frame%100 < 80 {
			aliceFrame.Pressed = []input.Input{input.Left}
		}
		bobFrame := protocol.InputFrame{}
		if frame%60 == 0 {
			bobFrame.Pressed = []input.Input{input.Shoot}
		}

		pktA, err := alice.QueueLocalFrame(aliceFrame, nil)
		if err != nil {
			return err
		}
		pktB, err := bob.QueueLocalFrame(bobFrame, nil)
		if err != nil {
			return err
		}
		if err := pump(alice, bob, []protocol.Packet{pktA}, []protocol.Packet{pktB}); err != nil {
			return err
		}

		// Each side consumes the oldest frame of every participant.
		alice.PopFrame(0)
		alice.PopFrame(1)
		bob.PopFrame(0)
		bob.PopFrame(1)

		alice.ApplyLead()
		bob.ApplyLead()
	}

	// Orderly departure: alice's disconnect rides the input stream.
	if err := deliver(bob, alice.Close()); err != nil {
		return err
	}

	util.LogInfo("simulated %d frames: alice=%s bob=%s", frames, alice.State(), bob.State())
	return nil
}

// newParticipant builds a session holding a single demo package.
func newParticipant(cfg *config.Config, index int, remotes []int,
	player protocol.PackageID, archive []byte) *session.Session {

	hash := util.ContentHash(archive)
	setup := protocol.PlayerSetup{
		PlayerPackage: player,
		Cards: []protocol.Card{
			{Package: "dev.demo.card.cannon", Code: "A"},
		},
	}
	installed := []protocol.PackageEntry{
		{Category: protocol.CategoryPlayer, ID: player, Hash: hash},
	}
	payloads := map[protocol.FileHash][]byte{hash: archive}

	return session.New(cfg, index, remotes, setup, installed, payloads)
}

// pump exchanges packets between the two sessions until both go quiet.
func pump(a, b *session.Session, toB, toA []protocol.Packet) error {
	for len(toB) > 0 || len(toA) > 0 {
		var nextToA, nextToB []protocol.Packet

		for _, pkt := range toB {
			replies, err := handleEncoded(b, pkt)
			if err != nil {
				return err
			}
			nextToA = append(nextToA, replies...)
		}
		for _, pkt := range toA {
			replies, err := handleEncoded(a, pkt)
			if err != nil {
				return err
			}
			nextToB = append(nextToB, replies...)
		}

		toB, toA = nextToB, nextToA
	}
	return nil
}

// deliver sends a single packet to one session, discarding replies.
func deliver(to *session.Session, pkt protocol.Packet) error {
	_, err := handleEncoded(to, pkt)
	return err
}

// handleEncoded round-trips a packet through the wire codec so the demo
// exercises exactly what a real transport would carry.
func handleEncoded(s *session.Session, pkt protocol.Packet) ([]protocol.Packet, error) {
	wire, err := protocol.Encode(pkt)
	if err != nil {
		return nil, err
	}
	util.Stats.AddSent(len(wire))
	return s.HandleRaw(wire)
}
