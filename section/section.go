package section

import (
	"io"
	"strings"

	"github.com/jsphweid/theorytab/chord"
	"github.com/jsphweid/theorytab/constants"
	"github.com/jsphweid/theorytab/document"
	"github.com/jsphweid/theorytab/model"
	"github.com/jsphweid/theorytab/util"
	"github.com/pkg/errors"
)

// Legacy documents carry a single key, tempo and meter, all anchored here.
const anchorBeat = 1

func MapNote(n model.LegacyNote) (model.Note, error) {
	var res model.Note
	var err error

	// kept as text, degrees like "b7" are valid
	res.SD = n.ScaleDegree
	if res.Octave, err = util.ParseInt("octave", n.Octave); err != nil {
		return res, err
	}
	if res.Beat, err = util.ParseFloat("start_beat_abs", n.StartBeatAbs); err != nil {
		return res, err
	}
	if res.Duration, err = util.ParseFloat("note_length", n.NoteLength); err != nil {
		return res, err
	}
	res.IsRest = chord.IsRestFlag(n.IsRest)
	return res, nil
}

// MapNotes maps note events in order. The result is never nil.
func MapNotes(notes []model.LegacyNote) ([]model.Note, error) {
	res := make([]model.Note, 0, len(notes))
	for i, n := range notes {
		mapped, err := MapNote(n)
		if err != nil {
			return nil, errors.WithMessagef(err, "note %d", i)
		}
		res = append(res, mapped)
	}
	return res, nil
}

// Scale looks up the name of a 1-based legacy mode number.
func Scale(mode *string) (string, error) {
	idx, err := util.ParseInt("mode", mode)
	if err != nil {
		return "", err
	}
	if idx < 1 || idx > len(constants.Modes) {
		return "", errors.Wrapf(model.ErrInvalidChordEncoding, "mode %d is outside 1-%d", idx, len(constants.Modes))
	}
	return constants.Modes[idx-1], nil
}

func mapKey(meta model.LegacyMeta) (model.Key, error) {
	scale, err := Scale(meta.Mode)
	if err != nil {
		return model.Key{}, err
	}
	return model.Key{
		Beat:  anchorBeat,
		Scale: scale,
		Tonic: util.StringOr(meta.Key, ""),
	}, nil
}

func mapTempo(meta model.LegacyMeta) (model.Tempo, error) {
	bpm, err := util.ParseInt("BPM", meta.BPM)
	if err != nil {
		return model.Tempo{}, err
	}
	return model.Tempo{Beat: anchorBeat, BPM: bpm}, nil
}

func mapMeter(meta model.LegacyMeta) (model.Meter, error) {
	numBeats, err := util.ParseInt("beats_in_measure", meta.BeatsInMeasure)
	if err != nil {
		return model.Meter{}, err
	}
	return model.Meter{Beat: anchorBeat, NumBeats: numBeats}, nil
}

func mapYouTube(meta model.LegacyMeta) (model.YouTube, error) {
	res := model.YouTube{
		ID:       util.StringOr(meta.YouTubeID, ""),
		SyncMode: constants.SyncMode,
	}
	var err error
	if res.SyncStart, err = util.ParseFloat("active_start", meta.ActiveStart); err != nil {
		return res, err
	}
	if res.SyncEnd, err = util.ParseFloat("active_stop", meta.ActiveStop); err != nil {
		return res, err
	}
	return res, nil
}

// Normalize converts a decoded legacy document into a canonical section. It
// reads nothing but doc and keeps no state between calls.
func Normalize(doc *model.LegacyDocument) (*model.Section, error) {
	if doc == nil {
		return nil, errors.Wrap(model.ErrMalformedDocument, "nil document")
	}

	chords, err := chord.MapAll(doc.Segment.Chords)
	if err != nil {
		return nil, err
	}
	notes, err := MapNotes(doc.Segment.Notes)
	if err != nil {
		return nil, err
	}
	key, err := mapKey(doc.Meta)
	if err != nil {
		return nil, err
	}
	tempo, err := mapTempo(doc.Meta)
	if err != nil {
		return nil, err
	}
	meter, err := mapMeter(doc.Meta)
	if err != nil {
		return nil, err
	}
	youtube, err := mapYouTube(doc.Meta)
	if err != nil {
		return nil, err
	}

	return &model.Section{
		Version: doc.Version,
		Chords:  chords,
		Notes:   notes,
		Keys:    []model.Key{key},
		Tempos:  []model.Tempo{tempo},
		Meters:  []model.Meter{meter},
		YouTube: youtube,
	}, nil
}

// FromXML runs a raw legacy document through the parser and Normalize.
func FromXML(r io.Reader) (*model.Section, error) {
	doc, err := document.ParseDocument(r)
	if err != nil {
		return nil, err
	}
	return Normalize(doc)
}

func FromXMLString(s string) (*model.Section, error) {
	return FromXML(strings.NewReader(s))
}
