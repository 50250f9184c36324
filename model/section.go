package model

type Key struct {
	Beat  float64 `json:"beat"`
	Scale string  `json:"scale"`
	Tonic string  `json:"tonic"`
}

type Tempo struct {
	Beat        float64 `json:"beat"`
	BPM         int     `json:"bpm"`
	SwingFactor float64 `json:"swingFactor"`
	SwingBeat   float64 `json:"swingBeat"`
}

type Meter struct {
	Beat     float64 `json:"beat"`
	NumBeats int     `json:"numBeats"`
	BeatUnit int     `json:"beatUnit"`
}

type YouTube struct {
	ID        string  `json:"id"`
	SyncStart float64 `json:"syncStart"`
	SyncEnd   float64 `json:"syncEnd"`
	SyncMode  string  `json:"syncMode"`
}

// Section is one song section in the canonical schema, whichever format it
// was published in.
type Section struct {
	Version string  `json:"version"`
	Chords  []Chord `json:"chords"`
	Notes   []Note  `json:"notes"`
	Keys    []Key   `json:"keys"`
	Tempos  []Tempo `json:"tempos"`
	Meters  []Meter `json:"meters"`
	YouTube YouTube `json:"youtube"`
}
