package cmd

import (
	"encoding/json"
	"path"
	"path/filepath"
	"strings"

	"github.com/jsphweid/theorytab/api"
	"github.com/jsphweid/theorytab/constants"
	"github.com/jsphweid/theorytab/harvest"
	"github.com/jsphweid/theorytab/logger"
	"github.com/jsphweid/theorytab/store"
	"github.com/pkg/errors"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

func init() {
	fetchCmd.Flags().String("url", "", "song page path, e.g. /theorytab/view/chumbawamba/amnesia")
	fetchCmd.Flags().String("name", "", "song name, used when the api sends none")
	fetchCmd.Flags().String("batch", "", "json file with a list of song requests")
	fetchCmd.Flags().Int("workers", 4, "songs fetched in parallel for --batch")
	rootCmd.AddCommand(fetchCmd)
}

var fetchCmd = &cobra.Command{
	Use:   "fetch [label=]songID...",
	Short: "Fetches and normalizes song sections",
	Long: `Fetches each section of a song from the api, normalizes sections still in the
legacy xml format and writes song_info.json under OUTPUT_DIR. With only --url
the sections and genres are read from the song page.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		sink, err := newLegacySink(appFs)
		if err != nil {
			return err
		}
		var publisher store.Publisher
		if p := newPublisher(); p != nil {
			defer p.Close()
			publisher = p
		}
		h := harvest.New(api.NewClient(constants.GetAPIURL()), store.NewWriter(appFs), sink, publisher)
		h.SetPageFetcher(api.NewSiteClient(constants.GetSiteURL()))

		batch, _ := cmd.Flags().GetString("batch")
		if batch != "" {
			reqs, err := readBatch(appFs, batch)
			if err != nil {
				return err
			}
			workers, _ := cmd.Flags().GetInt("workers")
			records, failed := h.Songs(commandContext(cmd), reqs, workers)
			logger.GetDefault().Info("fetched songs", "ok", len(records), "failed", failed)
			if failed > 0 {
				return errors.Errorf("%d songs failed", failed)
			}
			return nil
		}

		url, _ := cmd.Flags().GetString("url")
		if len(args) == 0 && url == "" {
			return errors.New("need --url, at least one song id or --batch")
		}
		name, _ := cmd.Flags().GetString("name")
		_, err = h.Song(commandContext(cmd), SongRequestFromArgs(url, name, args))
		return err
	},
}

// SongDir lays songs out as <OUTPUT_DIR>/xml/<first letter>/<artist>/<song>
// when the url allows it.
func SongDir(songURL string, fallback string) string {
	parts := strings.Split(strings.Trim(path.Clean(songURL), "/"), "/")
	if len(parts) >= 2 && parts[len(parts)-2] != "" {
		artist, song := parts[len(parts)-2], parts[len(parts)-1]
		return filepath.Join(constants.GetOutputDir(), "xml", strings.ToLower(artist[:1]), artist, song)
	}
	return filepath.Join(constants.GetOutputDir(), "xml", fallback)
}

func SongRequestFromArgs(url, name string, args []string) harvest.SongRequest {
	req := harvest.SongRequest{Name: name}
	if url != "" {
		req.URL = constants.GetSiteURL() + "/" + strings.TrimPrefix(url, "/")
	}
	for _, arg := range args {
		label, id, ok := strings.Cut(arg, "=")
		if !ok {
			label, id = "", arg
		}
		req.Sections = append(req.Sections, harvest.SectionRequest{Label: label, SongID: id})
	}
	fallback := ""
	if len(req.Sections) > 0 {
		fallback = req.Sections[0].SongID
	}
	req.Dir = SongDir(url, fallback)
	return req
}

func readBatch(fs afero.Fs, batchPath string) ([]harvest.SongRequest, error) {
	data, err := afero.ReadFile(fs, batchPath)
	if err != nil {
		return nil, err
	}
	var reqs []harvest.SongRequest
	if err := json.Unmarshal(data, &reqs); err != nil {
		return nil, errors.Wrapf(err, "could not read batch %s", batchPath)
	}
	for i := range reqs {
		if reqs[i].Dir == "" {
			fallback := ""
			if len(reqs[i].Sections) > 0 {
				fallback = reqs[i].Sections[0].SongID
			}
			reqs[i].Dir = SongDir(reqs[i].URL, fallback)
		}
	}
	return reqs, nil
}
