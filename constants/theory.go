package constants

// Modes is indexed by the legacy 1-based mode number minus one.
var Modes = [7]string{
	"major",
	"dorian",
	"phrygian",
	"lydian",
	"mixolydian",
	"minor",
	"locrian",
}

// BorrowedScales maps a borrowed-scale offset (relative to major) to its mode.
var BorrowedScales = map[int]string{
	1:  "lydian",
	0:  "major",
	-1: "mixolydian",
	-2: "dorian",
	-3: "minor",
	-4: "phrygian",
	-5: "locrian",
}

const (
	MinBorrowed = -5
	MaxBorrowed = 1

	// legacy documents mark a flat borrowed chord with a bare "b"
	FlatBorrowedMarker = "b"
	FlatBorrowedValue  = -3

	RestSentinel = "rest"
	RestFlag     = "1"

	SyncMode = "youtube-sync-mode-test"
)

// ModeIntervals holds the semitone offsets of each scale degree from the tonic.
var ModeIntervals = map[string][7]int{
	"major":      {0, 2, 4, 5, 7, 9, 11},
	"dorian":     {0, 2, 3, 5, 7, 9, 10},
	"phrygian":   {0, 1, 3, 5, 7, 8, 10},
	"lydian":     {0, 2, 4, 6, 7, 9, 11},
	"mixolydian": {0, 2, 4, 5, 7, 9, 10},
	"minor":      {0, 2, 3, 5, 7, 8, 10},
	"locrian":    {0, 1, 3, 5, 6, 8, 10},
}
