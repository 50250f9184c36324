package model

// Chord is a chord event in the canonical (json) schema.
type Chord struct {
	Root        int      `json:"root"`
	Beat        float64  `json:"beat"`
	Duration    float64  `json:"duration"`
	Type        int      `json:"type"`
	Inversion   int      `json:"inversion"`
	Applied     int      `json:"applied"`
	Adds        []int    `json:"adds"`
	Omits       []int    `json:"omits"`
	Alterations []string `json:"alterations"`
	Suspensions []int    `json:"suspensions"`
	Pedal       *string  `json:"pedal"`
	// NOTE: only the json format ever sets these two
	Alternate        *string  `json:"alternate"`
	Borrowed         string   `json:"borrowed"`
	IsRest           bool     `json:"isRest"`
	RecordingEndBeat *float64 `json:"recordingEndBeat"`
}

type Note struct {
	SD               *string  `json:"sd"`
	Octave           int      `json:"octave"`
	Beat             float64  `json:"beat"`
	Duration         float64  `json:"duration"`
	IsRest           bool     `json:"isRest"`
	RecordingEndBeat *float64 `json:"recordingEndBeat"`
}
