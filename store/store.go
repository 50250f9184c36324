package store

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/jsphweid/theorytab/constants"
	"github.com/jsphweid/theorytab/model"
	"github.com/spf13/afero"
)

// LegacySink records songs that are still published in the legacy format.
type LegacySink interface {
	RecordLegacyFormat(songID string) error
}

// Publisher hands finished song records to something downstream.
type Publisher interface {
	Publish(ctx context.Context, record *model.SongRecord) error
}

type Writer struct {
	fs afero.Fs
}

func NewWriter(fs afero.Fs) *Writer {
	return &Writer{fs: fs}
}

// WriteSong writes record as song_info.json inside dir and returns the path.
func (w *Writer) WriteSong(dir string, record *model.SongRecord) (string, error) {
	if err := w.fs.MkdirAll(dir, 0777); err != nil {
		return "", fmt.Errorf("could not create song dir %s: %w", dir, err)
	}
	data, err := MarshalIndent(record)
	if err != nil {
		return "", err
	}
	path := filepath.Join(dir, constants.SongInfoFilename)
	if err := afero.WriteFile(w.fs, path, data, 0666); err != nil {
		return "", fmt.Errorf("could not write %s: %w", path, err)
	}
	return path, nil
}

// WriteJSON writes any value as indented json at path.
func (w *Writer) WriteJSON(path string, v any) error {
	if err := w.fs.MkdirAll(filepath.Dir(path), 0777); err != nil {
		return err
	}
	data, err := MarshalIndent(v)
	if err != nil {
		return err
	}
	return afero.WriteFile(w.fs, path, data, 0666)
}

func (w *Writer) ReadSong(dir string) (*model.SongRecord, error) {
	data, err := afero.ReadFile(w.fs, filepath.Join(dir, constants.SongInfoFilename))
	if err != nil {
		return nil, err
	}
	var record model.SongRecord
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, err
	}
	return &record, nil
}

// MarshalIndent matches the 4 space layout of the existing dataset files and
// keeps characters like & and < unescaped.
func MarshalIndent(v any) ([]byte, error) {
	buf := new(bytes.Buffer)
	enc := json.NewEncoder(buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "    ")
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// FileSink appends one song id per line to a shared log file.
type FileSink struct {
	fs   afero.Fs
	path string
	mu   sync.Mutex
}

func NewFileSink(fs afero.Fs, path string) *FileSink {
	return &FileSink{fs: fs, path: path}
}

func (s *FileSink) RecordLegacyFormat(songID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.fs.MkdirAll(filepath.Dir(s.path), 0777); err != nil {
		return err
	}
	f, err := s.fs.OpenFile(s.path, os.O_APPEND|os.O_WRONLY|os.O_CREATE, 0666)
	if err != nil {
		return fmt.Errorf("could not open legacy log: %w", err)
	}
	defer f.Close()

	if _, err := f.WriteString(songID + "\n"); err != nil {
		return fmt.Errorf("could not write legacy log: %w", err)
	}
	return nil
}

type NopSink struct{}

func (NopSink) RecordLegacyFormat(string) error {
	return nil
}
