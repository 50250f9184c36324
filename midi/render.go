package midi

import (
	"fmt"
	"io"
	"math"
	"sort"

	"github.com/jsphweid/theorytab/constants"
	"github.com/jsphweid/theorytab/model"
	"github.com/jsphweid/theorytab/util"
	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"
)

const (
	melodyChannel = 0
	chordChannel  = 1
	velocity      = 90
	// chords sound an octave below the melody
	chordOctave = -1
	// a thirteenth chord stacks seven thirds
	maxChordTones = 7
)

type timedEvent struct {
	tick  uint32
	off   bool
	key   uint8
	order int
}

func beatToTicks(beat float64) uint32 {
	ticks := math.Round((beat - 1) * constants.TicksPerBeat)
	return uint32(util.Max(ticks, 0))
}

func durationToTicks(duration float64) uint32 {
	return uint32(util.Max(math.Round(duration*constants.TicksPerBeat), 1))
}

func toKey(semitones int) uint8 {
	return uint8(util.Clamp(middleC+semitones, 0, 127))
}

type renderer struct {
	tonic int
	scale string
}

func (r renderer) noteKey(n model.Note) (uint8, error) {
	degree, offset, err := ParseDegree(util.StringOr(n.SD, ""))
	if err != nil {
		return 0, err
	}
	semis, err := DegreeSemitones(r.scale, degree)
	if err != nil {
		return 0, err
	}
	return toKey(r.tonic + semis + offset + 12*n.Octave), nil
}

// chordDegrees spells a chord as scale degrees above its root, stacking
// thirds, then applying suspensions, omits and adds.
func chordDegrees(c model.Chord) []int {
	size := 3
	if c.Type > 5 && c.Type%2 == 1 {
		size = util.Min((c.Type+1)/2, maxChordTones)
	}
	omitted := map[int]bool{}
	for _, o := range c.Omits {
		omitted[o] = true
	}
	if len(c.Suspensions) > 0 {
		omitted[3] = true
	}

	var res []int
	for i := 0; i < size; i++ {
		interval := 2*i + 1
		if !omitted[interval] {
			res = append(res, c.Root+interval-1)
		}
	}
	for _, s := range c.Suspensions {
		res = append(res, c.Root+s-1)
	}
	for _, a := range c.Adds {
		res = append(res, c.Root+a-1)
	}
	return res
}

func (r renderer) chordKeys(c model.Chord) ([]uint8, error) {
	scale := r.scale
	if c.Borrowed != "" {
		scale = c.Borrowed
	}
	var res []uint8
	for _, degree := range chordDegrees(c) {
		semis, err := DegreeSemitones(scale, degree)
		if err != nil {
			return nil, err
		}
		res = append(res, toKey(r.tonic+semis+12*chordOctave))
	}
	return res, nil
}

func toTrack(name string, channel uint8, events []timedEvent) smf.Track {
	// note offs first so repeated keys retrigger
	sort.SliceStable(events, func(i, j int) bool {
		if events[i].tick != events[j].tick {
			return events[i].tick < events[j].tick
		}
		if events[i].off != events[j].off {
			return events[i].off
		}
		return events[i].order < events[j].order
	})

	track := smf.Track{}
	track = append(track, smf.Event{Delta: 0, Message: smf.Message(smf.MetaTrackSequenceName(name))})
	var last uint32
	for _, evt := range events {
		msg := smf.Message(midi.NoteOn(channel, evt.key, velocity))
		if evt.off {
			msg = smf.Message(midi.NoteOff(channel, evt.key))
		}
		track = append(track, smf.Event{Delta: evt.tick - last, Message: msg})
		last = evt.tick
	}
	return append(track, smf.Event{Delta: 0, Message: smf.EOT})
}

func conductorTrack(section *model.Section) smf.Track {
	bpm := 120.0
	if len(section.Tempos) > 0 && section.Tempos[0].BPM > 0 {
		bpm = float64(section.Tempos[0].BPM)
	}
	numBeats := uint8(4)
	if len(section.Meters) > 0 && section.Meters[0].NumBeats > 0 {
		numBeats = uint8(util.Min(section.Meters[0].NumBeats, 255))
	}

	track := smf.Track{}
	track = append(track, smf.Event{Delta: 0, Message: smf.Message(smf.MetaTempo(bpm))})
	// legacy sections carry no beat unit, assume quarters
	track = append(track, smf.Event{Delta: 0, Message: smf.Message(smf.MetaTimeSig(numBeats, 4, 24, 8))})
	return append(track, smf.Event{Delta: 0, Message: smf.EOT})
}

// Render builds a multi track midi file from a canonical section: a
// conductor track, the melody and the chords. Rests sound nothing.
func Render(section *model.Section) (*smf.SMF, error) {
	if len(section.Keys) == 0 {
		return nil, fmt.Errorf("section has no key")
	}
	tonic, err := TonicPitchClass(section.Keys[0].Tonic)
	if err != nil {
		return nil, err
	}
	r := renderer{tonic: tonic, scale: section.Keys[0].Scale}

	var melody []timedEvent
	for i, n := range section.Notes {
		if n.IsRest {
			continue
		}
		key, err := r.noteKey(n)
		if err != nil {
			return nil, fmt.Errorf("note %d: %w", i, err)
		}
		start := beatToTicks(n.Beat)
		melody = append(melody,
			timedEvent{tick: start, key: key, order: i},
			timedEvent{tick: start + durationToTicks(n.Duration), off: true, key: key, order: i})
	}

	var chords []timedEvent
	for i, c := range section.Chords {
		if c.IsRest {
			continue
		}
		keys, err := r.chordKeys(c)
		if err != nil {
			return nil, fmt.Errorf("chord %d: %w", i, err)
		}
		start := beatToTicks(c.Beat)
		for _, key := range keys {
			chords = append(chords,
				timedEvent{tick: start, key: key, order: i},
				timedEvent{tick: start + durationToTicks(c.Duration), off: true, key: key, order: i})
		}
	}

	s := smf.NewSMF1()
	s.TimeFormat = smf.MetricTicks(constants.TicksPerBeat)
	for _, track := range []smf.Track{
		conductorTrack(section),
		toTrack("melody", melodyChannel, melody),
		toTrack("chords", chordChannel, chords),
	} {
		if err := s.Add(track); err != nil {
			return nil, err
		}
	}
	return s, nil
}

func Write(w io.Writer, section *model.Section) error {
	s, err := Render(section)
	if err != nil {
		return err
	}
	_, err = s.WriteTo(w)
	return err
}
