package store

import (
	"context"
	"encoding/json"
	"sync"
	"testing"

	"github.com/jsphweid/theorytab/model"
	"github.com/segmentio/kafka-go"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleRecord() *model.SongRecord {
	return &model.SongRecord{
		URL:  "https://www.hooktheory.com/theorytab/view/chumbawamba/amnesia",
		Name: "Amnesia",
		Sections: map[string]model.SectionRecord{
			"chorus": {SongID: "abc", SongIDNum: "12", JSONData: json.RawMessage(`{"chords":[]}`)},
		},
		Genres: []model.Genre{},
	}
}

func TestWriteSongRoundTrip(t *testing.T) {
	fs := afero.NewMemMapFs()
	w := NewWriter(fs)

	path, err := w.WriteSong("/data/c/chumbawamba/amnesia", sampleRecord())
	require.NoError(t, err)
	assert.Equal(t, "/data/c/chumbawamba/amnesia/song_info.json", path)

	raw, err := afero.ReadFile(fs, path)
	require.NoError(t, err)
	assert.Contains(t, string(raw), "\n    \"url\"")

	got, err := w.ReadSong("/data/c/chumbawamba/amnesia")
	require.NoError(t, err)
	assert.Equal(t, "Amnesia", got.Name)
	assert.JSONEq(t, `{"chords":[]}`, string(got.Sections["chorus"].JSONData))
}

func TestFileSinkAppends(t *testing.T) {
	fs := afero.NewMemMapFs()
	sink := NewFileSink(fs, "/data/old_xml_format.txt")

	var wg sync.WaitGroup
	for _, id := range []string{"/a", "/b", "/c"} {
		wg.Add(1)
		go func(id string) {
			defer wg.Done()
			assert.NoError(t, sink.RecordLegacyFormat(id))
		}(id)
	}
	wg.Wait()

	raw, err := afero.ReadFile(fs, "/data/old_xml_format.txt")
	require.NoError(t, err)
	assert.Len(t, string(raw), len("/a\n/b\n/c\n"))
	for _, id := range []string{"/a\n", "/b\n", "/c\n"} {
		assert.Contains(t, string(raw), id)
	}
}

type fakeWriter struct {
	msgs []kafka.Message
}

func (f *fakeWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	f.msgs = append(f.msgs, msgs...)
	return nil
}

func (f *fakeWriter) Close() error {
	return nil
}

func TestKafkaPublisherKeysByURL(t *testing.T) {
	fw := &fakeWriter{}
	p := &KafkaPublisher{w: fw}

	require.NoError(t, p.Publish(context.Background(), sampleRecord()))
	require.Len(t, fw.msgs, 1)
	assert.Equal(t, sampleRecord().URL, string(fw.msgs[0].Key))

	var got model.SongRecord
	require.NoError(t, json.Unmarshal(fw.msgs[0].Value, &got))
	assert.Equal(t, "Amnesia", got.Name)

	record := sampleRecord()
	record.URL = ""
	require.NoError(t, p.Publish(context.Background(), record))
	assert.Len(t, fw.msgs[1].Key, 36)
}
