package model

import "encoding/json"

// APIPayload is the per-section response of the public songs api. jsonData
// is kept raw: the api sends it as an encoded string, null for legacy songs.
type APIPayload struct {
	ID       json.Number     `json:"ID"`
	Song     string          `json:"song"`
	XMLData  *string         `json:"xmlData"`
	JSONData json.RawMessage `json:"jsonData"`
}

type Genre struct {
	ID     json.Number `json:"id,omitempty"`
	Name   string      `json:"name"`
	Active bool        `json:"active"`
}

type SectionRecord struct {
	SongID    string          `json:"songId"`
	SongIDNum json.Number     `json:"songIdNum"`
	JSONData  json.RawMessage `json:"jsonData"`
}

// SongRecord is what gets written to song_info.json.
type SongRecord struct {
	URL      string                   `json:"url"`
	Name     string                   `json:"name"`
	Sections map[string]SectionRecord `json:"sections"`
	Genres   []Genre                  `json:"genres"`
}
