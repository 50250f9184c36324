package document

import (
	"io"

	"github.com/jsphweid/theorytab/model"
	"github.com/pkg/errors"
)

const RootElement = "theorytab"

// Decode maps a parsed tree onto the typed legacy records. When the segment
// element repeats, the copies are identical and only the first is read.
func Decode(root *Node) (*model.LegacyDocument, error) {
	if root == nil || root.Name != RootElement {
		return nil, errors.Wrapf(model.ErrMalformedDocument, "root element is not <%s>", RootElement)
	}

	segment := root.Path("data", "segment")
	if segment == nil {
		return nil, errors.Wrap(model.ErrMalformedDocument, "missing data.segment")
	}

	var doc model.LegacyDocument
	if v := root.Value("version"); v != nil {
		doc.Version = *v
	}

	doc.Segment.Chords = decodeChords(segment.First("harmony"))
	// NOTE: additional voices are ignored
	doc.Segment.Notes = decodeNotes(segment.Path("melody", "voice", "notes"))

	meta := root.First("meta")
	if meta == nil {
		meta = segment.First("meta")
	}
	doc.Meta = decodeMeta(meta)

	return &doc, nil
}

// ParseDocument is Parse followed by Decode.
func ParseDocument(r io.Reader) (*model.LegacyDocument, error) {
	root, err := Parse(r)
	if err != nil {
		return nil, err
	}
	return Decode(root)
}

func decodeChords(harmony *Node) []model.LegacyChord {
	var res []model.LegacyChord
	for _, c := range harmony.All("chord") {
		res = append(res, model.LegacyChord{
			SD:            c.Value("sd"),
			FB:            c.Value("fb"),
			Sec:           c.Value("sec"),
			Sus:           c.Value("sus"),
			Pedal:         c.Value("pedal"),
			Borrowed:      c.Value("borrowed"),
			StartBeatAbs:  c.Value("start_beat_abs"),
			ChordDuration: c.Value("chord_duration"),
			IsRest:        c.Value("isRest"),
			Alternate:     c.Values("alternate"),
			Emb:           c.Values("emb"),
		})
	}
	return res
}

func decodeNotes(notes *Node) []model.LegacyNote {
	var res []model.LegacyNote
	for _, n := range notes.All("note") {
		res = append(res, model.LegacyNote{
			ScaleDegree:  n.Value("scale_degree"),
			Octave:       n.Value("octave"),
			StartBeatAbs: n.Value("start_beat_abs"),
			NoteLength:   n.Value("note_length"),
			IsRest:       n.Value("isRest"),
		})
	}
	return res
}

func decodeMeta(meta *Node) model.LegacyMeta {
	return model.LegacyMeta{
		Key:            meta.Value("key"),
		Mode:           meta.Value("mode"),
		BPM:            meta.Value("BPM"),
		BeatsInMeasure: meta.Value("beats_in_measure"),
		YouTubeID:      meta.Value("YouTubeID"),
		ActiveStart:    meta.Value("active_start"),
		ActiveStop:     meta.Value("active_stop"),
	}
}
