package chord

import (
	"strconv"
	"strings"

	"github.com/jsphweid/theorytab/constants"
	"github.com/jsphweid/theorytab/model"
	"github.com/jsphweid/theorytab/util"
	"github.com/pkg/errors"
)

const (
	TriadType   = 5
	SeventhType = 7
)

var triadFiguredBass = map[string]bool{"6": true, "64": true}
var seventhFiguredBass = map[string]bool{"7": true, "65": true, "43": true, "42": true}

var addTones = map[string]int{"add9": 9, "add11": 11, "add13": 13}
var omitTones = map[string]int{"no3": 3, "no5": 5}

var suspensions = map[string][]int{
	"sus2":  {2},
	"sus4":  {4},
	"sus24": {2, 4},
}

// IsRestFlag reports whether a legacy isRest field marks a rest. Only the
// exact text "1" does.
func IsRestFlag(flag *string) bool {
	return flag != nil && *flag == constants.RestFlag
}

// Root returns the chord root scale degree. Rests always have root 1.
func Root(c model.LegacyChord) (int, error) {
	if IsRestFlag(c.IsRest) || (c.SD != nil && *c.SD == constants.RestSentinel) {
		return 1, nil
	}
	root, err := util.ParseInt("sd", c.SD)
	if err != nil {
		return 0, err
	}
	if root < 1 {
		return 0, errors.Wrapf(model.ErrInvalidChordEncoding, "sd %d is not a scale degree", root)
	}
	return root, nil
}

// Type collapses the figured bass code into a chord quality. Inversion
// figures of a triad are type 5, of a seventh chord type 7, and no figure at
// all is a plain triad.
func Type(fb *string) (int, error) {
	if fb == nil || triadFiguredBass[*fb] {
		return TriadType, nil
	}
	if seventhFiguredBass[*fb] {
		return SeventhType, nil
	}
	return util.ParseInt("fb", fb)
}

// Embellishments splits emb codes into added and omitted tones. Unknown codes
// are dropped.
func Embellishments(emb []string) ([]int, []int) {
	adds := []int{}
	omits := []int{}
	for _, e := range emb {
		if tone, ok := addTones[e]; ok {
			adds = append(adds, tone)
		} else if tone, ok := omitTones[e]; ok {
			omits = append(omits, tone)
		}
	}
	return adds, omits
}

func Suspensions(sus *string) []int {
	if sus == nil {
		return []int{}
	}
	tones, ok := suspensions[*sus]
	if !ok {
		return []int{}
	}
	return append([]int{}, tones...)
}

// BorrowedOffset parses a borrowed-scale code into its offset from major,
// clamped into the seven modes.
// NOTE: the clamp hides corrupt codes (a typo like 37 becomes lydian).
// Upstream data relies on it, so keep it.
func BorrowedOffset(code string) (int, error) {
	code = strings.TrimSpace(code)
	offset, err := strconv.Atoi(code)
	// out of range integers saturate and still clamp
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		if code != constants.FlatBorrowedMarker {
			return 0, errors.Wrapf(model.ErrInvalidChordEncoding, "borrowed %q", code)
		}
		offset = constants.FlatBorrowedValue
	}
	return util.Clamp(offset, constants.MinBorrowed, constants.MaxBorrowed), nil
}

// Borrowed returns the mode a chord is borrowed from, or "" when it is not.
func Borrowed(code *string) (string, error) {
	if code == nil {
		return "", nil
	}
	offset, err := BorrowedOffset(*code)
	if err != nil {
		return "", err
	}
	return constants.BorrowedScales[offset], nil
}

// Map converts a legacy chord event into the canonical schema.
func Map(c model.LegacyChord) (model.Chord, error) {
	var res model.Chord
	var err error

	if res.Root, err = Root(c); err != nil {
		return res, err
	}
	// NOTE: no positivity check, bad upstream timing passes through
	if res.Beat, err = util.ParseFloat("start_beat_abs", c.StartBeatAbs); err != nil {
		return res, err
	}
	if res.Duration, err = util.ParseFloat("chord_duration", c.ChordDuration); err != nil {
		return res, err
	}
	if res.Type, err = Type(c.FB); err != nil {
		return res, err
	}

	// legacy documents can't express these
	res.Inversion = 0
	res.Applied = 0

	res.Adds, res.Omits = Embellishments(c.Emb)
	res.Alterations = append([]string{}, c.Alternate...)
	res.Suspensions = Suspensions(c.Sus)

	if c.Pedal != nil {
		pedal := *c.Pedal
		res.Pedal = &pedal
	}

	if res.Borrowed, err = Borrowed(c.Borrowed); err != nil {
		return res, err
	}
	res.IsRest = IsRestFlag(c.IsRest)

	return res, nil
}

// MapAll maps chord events in order. The result is never nil.
func MapAll(chords []model.LegacyChord) ([]model.Chord, error) {
	res := make([]model.Chord, 0, len(chords))
	for i, c := range chords {
		mapped, err := Map(c)
		if err != nil {
			return nil, errors.WithMessagef(err, "chord %d", i)
		}
		res = append(res, mapped)
	}
	return res, nil
}
