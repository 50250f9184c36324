package midi

import (
	"bytes"
	"errors"
	"fmt"
	"os"

	"gitlab.com/gomidi/midi/v2/smf"
)

func ReadMidiFile(filepath string) (s *smf.SMF, e error) {
	// smf can panic on broken files
	defer func() {
		if r := recover(); r != nil {
			s = nil
			e = fmt.Errorf("error parsing midi file... %v", r)
		}
	}()

	dat, err := os.ReadFile(filepath)
	if err != nil {
		return nil, fmt.Errorf("error reading midi file... %w", err)
	}
	return ReadMidi(dat)
}

func ReadMidi(dat []byte) (*smf.SMF, error) {
	res, err := smf.ReadFrom(bytes.NewReader(dat))
	if err != nil {
		return nil, errors.New("error parsing midi file... " + err.Error())
	}
	return res, nil
}

type TrackSummary struct {
	Name  string
	Notes int
}

// Summarize lists each track with its name and number of note ons.
func Summarize(s *smf.SMF) []TrackSummary {
	var res []TrackSummary
	for _, track := range s.Tracks {
		var summary TrackSummary
		for _, evt := range track {
			var ch, key, vel uint8
			var name string
			switch {
			case evt.Message.GetMetaTrackName(&name):
				summary.Name = name
			case evt.Message.GetNoteOn(&ch, &key, &vel) && vel > 0:
				summary.Notes++
			}
		}
		res = append(res, summary)
	}
	return res
}
