package cmd

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/jsphweid/theorytab/harvest"
	"github.com/jsphweid/theorytab/midi"
	"github.com/jsphweid/theorytab/model"
	"github.com/jsphweid/theorytab/store"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
)

func fixtureFs(t *testing.T) afero.Fs {
	xml, err := os.ReadFile("../document/testdata/amnesia.xml")
	require.NoError(t, err)
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/in/amnesia.xml", xml, 0644))
	require.NoError(t, afero.WriteFile(fs, "/in/nested/broken.xml", []byte("<theorytab>"), 0644))
	return fs
}

func TestNormalizeWritesJSON(t *testing.T) {
	fs := fixtureFs(t)

	failed, err := Normalize(fs, io.Discard, []string{"/in"}, "/out", 0)
	require.NoError(t, err)
	assert.Equal(t, 1, failed)

	data, err := afero.ReadFile(fs, "/out/amnesia.json")
	require.NoError(t, err)
	assert.Equal(t, "minor", gjson.GetBytes(data, "keys.0.scale").String())
	assert.Equal(t, int64(3), gjson.GetBytes(data, "chords.#").Int())
}

type brokenWriter struct{}

func (brokenWriter) Write([]byte) (int, error) {
	return 0, io.ErrClosedPipe
}

func TestNormalizePrints(t *testing.T) {
	fs := fixtureFs(t)

	var buf bytes.Buffer
	failed, err := Normalize(fs, &buf, []string{"/in/amnesia.xml"}, "", 0)
	require.NoError(t, err)
	assert.Equal(t, 0, failed)
	assert.Equal(t, "minor", gjson.GetBytes(buf.Bytes(), "keys.0.scale").String())

	_, err = Normalize(fs, brokenWriter{}, []string{"/in/amnesia.xml"}, "", 0)
	assert.ErrorIs(t, err, io.ErrClosedPipe)
}

func TestNormalizeSibling(t *testing.T) {
	fs := fixtureFs(t)

	target, err := NormalizeSibling(fs, "/in/amnesia.xml")
	require.NoError(t, err)
	assert.Equal(t, "/in/amnesia.json", target)

	_, err = NormalizeSibling(fs, "/in/nested/broken.xml")
	assert.ErrorIs(t, err, model.ErrMalformedDocument)
}

func TestDebouncerKeepsOnePerPath(t *testing.T) {
	d := &debouncer{delay: 0, funcs: make(map[string]func(f func()))}
	d.trigger("a.xml", func() {})
	d.trigger("a.xml", func() {})
	d.trigger("b.xml", func() {})
	assert.Len(t, d.funcs, 2)
}

func TestRenderCommand(t *testing.T) {
	fs := fixtureFs(t)
	require.NoError(t, Render(fs, "/in/amnesia.xml", "/out.mid"))

	data, err := afero.ReadFile(fs, "/out.mid")
	require.NoError(t, err)
	s, err := midi.ReadMidi(data)
	require.NoError(t, err)
	assert.Len(t, s.Tracks, 3)
}

func TestSongRequestFromArgs(t *testing.T) {
	t.Setenv("OUTPUT_DIR", "/data")
	t.Setenv("SITE_URL", "https://example.com/")

	req := SongRequestFromArgs("/theorytab/view/chumbawamba/amnesia", "Amnesia", []string{"verse=abc", "def"})
	assert.Equal(t, "https://example.com/theorytab/view/chumbawamba/amnesia", req.URL)
	assert.Equal(t, []harvest.SectionRequest{{Label: "verse", SongID: "abc"}, {Label: "", SongID: "def"}}, req.Sections)
	assert.Equal(t, filepath.Join("/data", "xml", "c", "chumbawamba", "amnesia"), req.Dir)

	req = SongRequestFromArgs("", "", []string{"xyz"})
	assert.Equal(t, filepath.Join("/data", "xml", "xyz"), req.Dir)
	// sections come from the song page later
	req = SongRequestFromArgs("/theorytab/view/chumbawamba/amnesia", "", nil)
	assert.Empty(t, req.Sections)
	assert.Equal(t, filepath.Join("/data", "xml", "c", "chumbawamba", "amnesia"), req.Dir)
}

func TestReadBatch(t *testing.T) {
	t.Setenv("OUTPUT_DIR", "/data")
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/batch.json", []byte(`[
		{"url": "https://www.hooktheory.com/theorytab/view/abba/sos", "sections": [{"label": "chorus", "songId": "q1"}]},
		{"url": "", "dir": "/custom", "sections": [{"songId": "q2"}]}
	]`), 0644))

	reqs, err := readBatch(fs, "/batch.json")
	require.NoError(t, err)
	require.Len(t, reqs, 2)
	assert.Equal(t, filepath.Join("/data", "xml", "a", "abba", "sos"), reqs[0].Dir)
	assert.Equal(t, "/custom", reqs[1].Dir)

	require.NoError(t, afero.WriteFile(fs, "/bad.json", []byte(`{`), 0644))
	_, err = readBatch(fs, "/bad.json")
	assert.Error(t, err)
}

func TestNewLegacySink(t *testing.T) {
	fs := afero.NewMemMapFs()

	t.Setenv("LEGACY_SINK", "file")
	sink, err := newLegacySink(fs)
	require.NoError(t, err)
	assert.IsType(t, &store.FileSink{}, sink)

	t.Setenv("LEGACY_SINK", "none")
	sink, err = newLegacySink(fs)
	require.NoError(t, err)
	assert.Equal(t, store.NopSink{}, sink)

	t.Setenv("LEGACY_SINK", "carrier-pigeon")
	_, err = newLegacySink(fs)
	assert.Error(t, err)
}

func TestReport(t *testing.T) {
	fs := fixtureFs(t)
	res, err := normalizeFile(fs, "/in/amnesia.xml")
	require.NoError(t, err)
	data, err := store.MarshalIndent(res)
	require.NoError(t, err)

	_, err = store.NewWriter(fs).WriteSong("/data/xml/c/chumbawamba/amnesia", &model.SongRecord{
		URL:      "/theorytab/view/chumbawamba/amnesia",
		Name:     "Amnesia",
		Sections: map[string]model.SectionRecord{"verse": {SongID: "a", JSONData: data}},
	})
	require.NoError(t, err)
	require.NoError(t, store.NewFileSink(fs, "/data/old_xml_format.txt").RecordLegacyFormat("/theorytab/view/chumbawamba/amnesia"))

	r, err := Report(fs, "/data", "/data/old_xml_format.txt")
	require.NoError(t, err)
	assert.Equal(t, DatasetReport{
		NumSongs:    1,
		NumSections: 1,
		NumChords:   3,
		NumNotes:    3,
		NumLegacy:   1,
		Scales:      map[string]int{"minor": 1},
	}, r)
}
