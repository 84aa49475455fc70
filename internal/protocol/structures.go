package protocol

// Identifier types owned by the package-management layer. The protocol only
// moves them around; it never inspects their contents.

// PackageID uniquely names an installable package (player, card, augment, …).
type PackageID string

// FileHash identifies a package's content. It is used for set-difference
// during package sync — integrity verification of received archives belongs
// to the package manager, not the protocol.
type FileHash string

// PackageCategory partitions the package namespace.
type PackageCategory uint8

const (
	CategoryAugment PackageCategory = iota
	CategoryCard
	CategoryEncounter
	CategoryLibrary
	CategoryPlayer
	CategoryResource
	CategoryStatus
	CategoryTileState
)

var categoryNames = [...]string{
	CategoryAugment:   "Augment",
	CategoryCard:      "Card",
	CategoryEncounter: "Encounter",
	CategoryLibrary:   "Library",
	CategoryPlayer:    "Player",
	CategoryResource:  "Resource",
	CategoryStatus:    "Status",
	CategoryTileState: "TileState",
}

func (c PackageCategory) String() string {
	if int(c) < len(categoryNames) {
		return categoryNames[c]
	}
	return "Unknown"
}

// Card pairs a card package with its print code, used for determinism and
// variant selection during setup.
type Card struct {
	Package PackageID `codec:"package"`
	Code    string    `codec:"code"`
}

// PackageEntry is one row of a PackageList advertisement.
type PackageEntry struct {
	Category PackageCategory `codec:"category"`
	ID       PackageID       `codec:"id"`
	Hash     FileHash        `codec:"hash"`
}

// InstalledBlock is one augment block placed on a player's customization grid.
type InstalledBlock struct {
	Package  PackageID `codec:"package"`
	Rotation uint8     `codec:"rotation"`
	X        int8      `codec:"x"`
	Y        int8      `codec:"y"`
	Color    uint8     `codec:"color"`
}

// InstalledSwitchDrive is one drive part equipped in a named slot.
type InstalledSwitchDrive struct {
	Package PackageID `codec:"package"`
	Slot    uint8     `codec:"slot"`
}
