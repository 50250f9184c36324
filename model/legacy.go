package model

// The legacy xml format keeps every value as text. A nil pointer means the
// element was absent (or empty), which is not the same as a zero value.

type LegacyChord struct {
	SD            *string
	FB            *string
	Sec           *string
	Sus           *string
	Pedal         *string
	Borrowed      *string
	StartBeatAbs  *string
	ChordDuration *string
	IsRest        *string
	Alternate     []string
	Emb           []string
}

type LegacyNote struct {
	ScaleDegree  *string
	Octave       *string
	StartBeatAbs *string
	NoteLength   *string
	IsRest       *string
}

type LegacyMeta struct {
	Key            *string
	Mode           *string
	BPM            *string
	BeatsInMeasure *string
	YouTubeID      *string
	ActiveStart    *string
	ActiveStop     *string
}

type LegacySegment struct {
	Chords []LegacyChord
	// only the first voice of the melody
	Notes []LegacyNote
}

type LegacyDocument struct {
	Version string
	Segment LegacySegment
	Meta    LegacyMeta
}
