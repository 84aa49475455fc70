package protocol

// NetplaySignal is an out-of-band session control signal that rides alongside
// the pressed inputs of a frame. Signals are delivered in-order relative to
// input frames — session intent never overtakes the inputs it follows.
type NetplaySignal uint8

const (
	SignalAttemptingFlee NetplaySignal = iota
	SignalCompletedFlee
	SignalDisconnect
)

var signalNames = [...]string{
	SignalAttemptingFlee: "AttemptingFlee",
	SignalCompletedFlee:  "CompletedFlee",
	SignalDisconnect:     "Disconnect",
}

func (s NetplaySignal) String() string {
	if int(s) < len(signalNames) {
		return signalNames[s]
	}
	return "Unknown"
}
