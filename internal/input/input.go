// Package input defines the control alphabet carried in netplay frames.
// The rest of the codebase treats Input as an opaque, comparable token —
// only the owning game systems assign meaning to individual values.
package input

// Input identifies one concurrently-held control: a button, or an axis
// crossing its activation threshold.
type Input uint8

const (
	Up Input = iota
	Down
	Left
	Right
	Shoot
	UseCard
	Special
	ShoulderL
	ShoulderR
	Confirm
	Cancel
	Pause
)

var names = [...]string{
	Up:        "Up",
	Down:      "Down",
	Left:      "Left",
	Right:     "Right",
	Shoot:     "Shoot",
	UseCard:   "UseCard",
	Special:   "Special",
	ShoulderL: "ShoulderL",
	ShoulderR: "ShoulderR",
	Confirm:   "Confirm",
	Cancel:    "Cancel",
	Pause:     "Pause",
}

func (i Input) String() string {
	if int(i) < len(names) {
		return names[i]
	}
	return "Unknown"
}
