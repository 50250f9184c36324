package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"regexp"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/jsphweid/theorytab/model"
	"github.com/pkg/errors"
	"github.com/sethvargo/go-retry"
	"github.com/tidwall/gjson"
	"golang.org/x/net/html"
)

var songIDPattern = regexp.MustCompile(`idOfSong=(.+)&enable`)

// SectionRef pairs a section label from the song page with its song id.
type SectionRef struct {
	Label  string
	SongID string
}

// SongPage is what the song page says about a song: its sections in page
// order and its active genres.
type SongPage struct {
	Sections []SectionRef
	Genres   []model.Genre
}

type pageLinks struct {
	labels      []string
	songIDs     []string
	genreWikiID string
}

// ParseSongPage reads the section labels and song ids linked from a song
// page. Labels and ids are paired in page order and must match up.
func ParseSongPage(r io.Reader, songPath string) ([]SectionRef, string, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, "", errors.Wrap(err, "could not parse song page")
	}

	links := &pageLinks{}
	if err := links.walk(doc, songPath+"#"); err != nil {
		return nil, "", err
	}
	if len(links.labels) != len(links.songIDs) {
		return nil, "", fmt.Errorf("song page %s has %d sections but %d song ids", songPath, len(links.labels), len(links.songIDs))
	}

	res := make([]SectionRef, 0, len(links.labels))
	for i, label := range links.labels {
		res = append(res, SectionRef{Label: label, SongID: links.songIDs[i]})
	}
	return res, links.genreWikiID, nil
}

func attr(n *html.Node, key string) (string, bool) {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}

func fragment(href string) string {
	return href[strings.LastIndex(href, "#")+1:]
}

func (l *pageLinks) walk(n *html.Node, sectionPrefix string) error {
	if n.Type == html.ElementNode {
		switch n.Data {
		case "a":
			href, _ := attr(n, "href")
			if strings.Contains(href, sectionPrefix) {
				l.labels = append(l.labels, fragment(href))
			}
			if strings.Contains(href, "idOfSong=") {
				m := songIDPattern.FindStringSubmatch(fragment(href))
				if m == nil {
					return fmt.Errorf("song id link %q has no id", href)
				}
				l.songIDs = append(l.songIDs, m[1])
			}
		case "multiselect":
			if items, _ := attr(n, "items"); items == "genres" && l.genreWikiID == "" {
				l.genreWikiID, _ = attr(n, "wikiid")
			}
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if err := l.walk(c, sectionPrefix); err != nil {
			return err
		}
	}
	return nil
}

// ActiveGenres keeps the active entries of a genre list.
func ActiveGenres(body []byte) ([]model.Genre, error) {
	if !gjson.ValidBytes(body) {
		return nil, errors.New("genre list is not valid json")
	}
	res := []model.Genre{}
	var err error
	gjson.ParseBytes(body).ForEach(func(_, g gjson.Result) bool {
		if !g.Get("active").Bool() {
			return true
		}
		var genre model.Genre
		if err = json.Unmarshal([]byte(g.Raw), &genre); err != nil {
			err = errors.Wrapf(err, "could not decode genre %s", g.Raw)
			return false
		}
		res = append(res, genre)
		return true
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

// SiteClient reads song pages and genre lists from the website.
type SiteClient struct {
	client  *resty.Client
	backoff func() retry.Backoff
}

func NewSiteClient(baseURL string) *SiteClient {
	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(30 * time.Second)

	return &SiteClient{
		client: client,
		backoff: func() retry.Backoff {
			return retry.WithMaxRetries(3, retry.NewExponential(1*time.Second))
		},
	}
}

// FetchSongPage finds the sections of the song at songPath and its active
// genres. A page without a genre list has no genres.
func (c *SiteClient) FetchSongPage(ctx context.Context, songPath string) (*SongPage, error) {
	body, err := getWithRetry(ctx, c.backoff(), "page "+songPath, func(ctx context.Context) (*resty.Response, error) {
		return c.client.R().SetContext(ctx).SetHeader("Accept", "text/html").Get(songPath)
	})
	if err != nil {
		return nil, err
	}

	sections, wikiID, err := ParseSongPage(bytes.NewReader(body), songPath)
	if err != nil {
		return nil, err
	}
	res := &SongPage{Sections: sections, Genres: []model.Genre{}}
	if wikiID == "" {
		return res, nil
	}

	body, err = getWithRetry(ctx, c.backoff(), "genres of "+songPath, func(ctx context.Context) (*resty.Response, error) {
		return c.client.R().
			SetContext(ctx).
			SetHeader("Accept", "application/json").
			SetPathParam("wikiID", wikiID).
			Get("/wiki/{wikiID}/genres")
	})
	if err != nil {
		return nil, err
	}
	if res.Genres, err = ActiveGenres(body); err != nil {
		return nil, err
	}
	return res, nil
}
