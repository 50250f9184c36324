package midi

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/jsphweid/theorytab/constants"
)

const middleC = 60

var pitchClasses = map[byte]int{'C': 0, 'D': 2, 'E': 4, 'F': 5, 'G': 7, 'A': 9, 'B': 11}

func accidental(c byte) int {
	switch c {
	case '#':
		return 1
	case 'b':
		return -1
	}
	return 0
}

// TonicPitchClass parses a key tonic like "C", "F#" or "Bb".
func TonicPitchClass(tonic string) (int, error) {
	tonic = strings.TrimSpace(tonic)
	if tonic == "" {
		return 0, fmt.Errorf("empty tonic")
	}
	pc, ok := pitchClasses[strings.ToUpper(tonic[:1])[0]]
	if !ok {
		return 0, fmt.Errorf("unknown tonic %q", tonic)
	}
	for i := 1; i < len(tonic); i++ {
		a := accidental(tonic[i])
		if a == 0 {
			return 0, fmt.Errorf("unknown tonic %q", tonic)
		}
		pc += a
	}
	return ((pc % 12) + 12) % 12, nil
}

// ParseDegree splits a scale degree like "b7" or "#4" into its 1-based
// degree and a semitone offset.
func ParseDegree(sd string) (int, int, error) {
	sd = strings.TrimSpace(sd)
	offset := 0
	for len(sd) > 0 && accidental(sd[0]) != 0 {
		offset += accidental(sd[0])
		sd = sd[1:]
	}
	degree, err := strconv.Atoi(sd)
	if err != nil || degree < 1 {
		return 0, 0, fmt.Errorf("unknown scale degree %q", sd)
	}
	return degree, offset, nil
}

// DegreeSemitones is the distance above the tonic of a degree in scale.
// Degrees past 7 continue into the next octave.
func DegreeSemitones(scale string, degree int) (int, error) {
	intervals, ok := constants.ModeIntervals[scale]
	if !ok {
		return 0, fmt.Errorf("unknown scale %q", scale)
	}
	if degree < 1 {
		return 0, fmt.Errorf("unknown scale degree %d", degree)
	}
	idx := degree - 1
	return intervals[idx%7] + 12*(idx/7), nil
}
