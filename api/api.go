package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/jsphweid/theorytab/model"
	"github.com/pkg/errors"
	"github.com/sethvargo/go-retry"
	"github.com/tidwall/gjson"
)

const sectionFields = "ID,xmlData,song,jsonData"

type Format int

const (
	FormatUnknown Format = iota
	// jsonData is present, the section is already canonical
	FormatNative
	// only xmlData is present
	FormatLegacy
)

func (f Format) String() string {
	switch f {
	case FormatNative:
		return "json"
	case FormatLegacy:
		return "xml"
	default:
		return "unknown"
	}
}

// Route decides from the shape of a raw payload which format it carries.
func Route(body []byte) Format {
	if r := gjson.GetBytes(body, "jsonData"); r.Exists() && r.Type != gjson.Null {
		return FormatNative
	}
	if r := gjson.GetBytes(body, "xmlData"); r.Type == gjson.String && strings.TrimSpace(r.String()) != "" {
		return FormatLegacy
	}
	return FormatUnknown
}

// Section is one fetched section payload.
type Section struct {
	Raw     []byte
	Payload model.APIPayload
	Format  Format
}

// NativeJSON unwraps jsonData, which the api double encodes as a string.
func (s *Section) NativeJSON() (json.RawMessage, error) {
	r := gjson.GetBytes(s.Raw, "jsonData")
	switch r.Type {
	case gjson.String:
		if !gjson.Valid(r.String()) {
			return nil, fmt.Errorf("jsonData of song %s is not valid json", s.Payload.ID)
		}
		return json.RawMessage(r.String()), nil
	case gjson.JSON:
		return json.RawMessage(r.Raw), nil
	default:
		return nil, fmt.Errorf("song %s has no jsonData", s.Payload.ID)
	}
}

// XML returns the legacy document text.
func (s *Section) XML() string {
	if s.Payload.XMLData == nil {
		return ""
	}
	return *s.Payload.XMLData
}

type Client struct {
	client  *resty.Client
	backoff func() retry.Backoff
}

func NewClient(baseURL string) *Client {
	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(30*time.Second).
		SetHeader("Accept", "application/json")

	return &Client{
		client: client,
		backoff: func() retry.Backoff {
			return retry.WithMaxRetries(3, retry.NewExponential(1*time.Second))
		},
	}
}

// getWithRetry runs do until it succeeds, retrying transport errors and 5xx
// responses. A 404 is ErrSongNotFound.
func getWithRetry(ctx context.Context, backoff retry.Backoff, what string, do func(ctx context.Context) (*resty.Response, error)) ([]byte, error) {
	var body []byte
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		resp, err := do(ctx)
		if err != nil {
			return retry.RetryableError(err)
		}
		switch code := resp.StatusCode(); {
		case code == http.StatusNotFound:
			return errors.Wrapf(model.ErrSongNotFound, "%s", what)
		case code >= http.StatusInternalServerError:
			return retry.RetryableError(fmt.Errorf("returned %d for %s", code, what))
		case resp.IsError():
			return fmt.Errorf("returned %d for %s", code, what)
		}
		body = resp.Body()
		return nil
	})
	return body, err
}

// FetchSection downloads one section payload by song id.
func (c *Client) FetchSection(ctx context.Context, songID string) (*Section, error) {
	body, err := getWithRetry(ctx, c.backoff(), "song "+songID, func(ctx context.Context) (*resty.Response, error) {
		return c.client.R().
			SetContext(ctx).
			SetPathParam("songID", songID).
			SetQueryParam("fields", sectionFields).
			Get("/{songID}")
	})
	if err != nil {
		return nil, err
	}

	res := &Section{Raw: body, Format: Route(body)}
	if err := json.Unmarshal(body, &res.Payload); err != nil {
		return nil, fmt.Errorf("could not decode payload of song %s: %w", songID, err)
	}
	return res, nil
}
