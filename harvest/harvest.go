package harvest

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"

	"github.com/jsphweid/theorytab/api"
	"github.com/jsphweid/theorytab/logger"
	"github.com/jsphweid/theorytab/model"
	"github.com/jsphweid/theorytab/section"
	"github.com/jsphweid/theorytab/store"
	"golang.org/x/sync/errgroup"
)

type Fetcher interface {
	FetchSection(ctx context.Context, songID string) (*api.Section, error)
}

// PageFetcher looks up the sections and genres of a song from its page.
type PageFetcher interface {
	FetchSongPage(ctx context.Context, songPath string) (*api.SongPage, error)
}

type SectionRequest struct {
	Label  string `json:"label"`
	SongID string `json:"songId"`
}

// SongRequest names everything needed to harvest one song. A request with a
// url but no sections is filled in from the song page.
type SongRequest struct {
	URL      string           `json:"url"`
	Name     string           `json:"name"`
	Dir      string           `json:"dir"`
	Sections []SectionRequest `json:"sections"`
	Genres   []model.Genre    `json:"genres"`
}

type Harvester struct {
	fetcher   Fetcher
	writer    *store.Writer
	sink      store.LegacySink
	publisher store.Publisher
	pages     PageFetcher
}

// New builds a Harvester. publisher may be nil.
func New(fetcher Fetcher, writer *store.Writer, sink store.LegacySink, publisher store.Publisher) *Harvester {
	if sink == nil {
		sink = store.NopSink{}
	}
	return &Harvester{fetcher: fetcher, writer: writer, sink: sink, publisher: publisher}
}

func (h *Harvester) SetPageFetcher(p PageFetcher) {
	h.pages = p
}

func (h *Harvester) resolve(ctx context.Context, req *SongRequest) error {
	if h.pages == nil || req.URL == "" {
		return fmt.Errorf("song %q names no sections", req.URL)
	}
	u, err := url.Parse(req.URL)
	if err != nil {
		return fmt.Errorf("could not parse song url %q: %w", req.URL, err)
	}
	page, err := h.pages.FetchSongPage(ctx, u.Path)
	if err != nil {
		return err
	}
	for _, s := range page.Sections {
		req.Sections = append(req.Sections, SectionRequest{Label: s.Label, SongID: s.SongID})
	}
	if req.Genres == nil {
		req.Genres = page.Genres
	}
	return nil
}

// ToCanonical returns the canonical json of a fetched section, normalizing
// it first when it is still in the legacy format.
func ToCanonical(s *api.Section) (json.RawMessage, error) {
	switch s.Format {
	case api.FormatNative:
		return s.NativeJSON()
	case api.FormatLegacy:
		res, err := section.FromXMLString(s.XML())
		if err != nil {
			return nil, err
		}
		return json.Marshal(res)
	default:
		return nil, fmt.Errorf("song %s has neither jsonData nor xmlData", s.Payload.ID)
	}
}

// Song harvests every section of one song and persists the result.
func (h *Harvester) Song(ctx context.Context, req SongRequest) (*model.SongRecord, error) {
	log := logger.FromContext(ctx).With("url", req.URL)
	if len(req.Sections) == 0 {
		if err := h.resolve(ctx, &req); err != nil {
			return nil, err
		}
		log.Debug("resolved song page", "sections", len(req.Sections), "genres", len(req.Genres))
	}

	record := &model.SongRecord{
		URL:      req.URL,
		Name:     req.Name,
		Sections: make(map[string]model.SectionRecord, len(req.Sections)),
		Genres:   req.Genres,
	}
	if record.Genres == nil {
		record.Genres = []model.Genre{}
	}

	isLegacy := false
	for _, sr := range req.Sections {
		label := sr.Label
		if label == "" {
			label = sr.SongID
		}

		s, err := h.fetcher.FetchSection(ctx, sr.SongID)
		if err != nil {
			return nil, fmt.Errorf("section %s: %w", label, err)
		}
		data, err := ToCanonical(s)
		if err != nil {
			return nil, fmt.Errorf("section %s: %w", label, err)
		}
		if s.Format == api.FormatLegacy {
			isLegacy = true
		}
		if s.Payload.Song != "" {
			record.Name = s.Payload.Song
		}

		record.Sections[label] = model.SectionRecord{
			SongID:    sr.SongID,
			SongIDNum: s.Payload.ID,
			JSONData:  data,
		}
		log.Debug("harvested section", "section", label, "format", s.Format)
	}

	if _, err := h.writer.WriteSong(req.Dir, record); err != nil {
		return nil, err
	}
	if isLegacy {
		id := req.URL
		if id == "" && len(req.Sections) > 0 {
			id = req.Sections[0].SongID
		}
		if err := h.sink.RecordLegacyFormat(id); err != nil {
			return nil, err
		}
	}
	if h.publisher != nil {
		if err := h.publisher.Publish(ctx, record); err != nil {
			return nil, fmt.Errorf("could not publish %s: %w", req.URL, err)
		}
	}

	log.Info("harvested song", "sections", len(record.Sections), "legacy", isLegacy)
	return record, nil
}

// Songs harvests songs with up to workers in flight. A failed song is
// logged and skipped; the number of failures is returned.
func (h *Harvester) Songs(ctx context.Context, reqs []SongRequest, workers int) ([]*model.SongRecord, int) {
	log := logger.FromContext(ctx)
	if workers < 1 {
		workers = 1
	}

	results := make([]*model.SongRecord, len(reqs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, req := range reqs {
		i, req := i, req
		g.Go(func() error {
			record, err := h.Song(gctx, req)
			if err != nil {
				log.Error("could not harvest song", "url", req.URL, "error", err)
				return nil
			}
			results[i] = record
			return nil
		})
	}
	g.Wait()

	var res []*model.SongRecord
	for _, r := range results {
		if r != nil {
			res = append(res, r)
		}
	}
	return res, len(reqs) - len(res)
}
