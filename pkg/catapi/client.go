package catapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/samvad-hq/samvad-breed-browser/internal/domain"
	"github.com/samvad-hq/samvad-breed-browser/internal/logger"
	"github.com/samvad-hq/samvad-breed-browser/pkg/httpclient"
)

// ImageLimit is the fixed page size of an image search.
const ImageLimit = 5

const (
	breedsPath     = "/breeds"
	searchPath     = "/images/search"
	favouritesPath = "/favourites"
	favouritePath  = "/favourites/{imageId}"
)

// Client talks to the breed/image/favourites REST API.
type Client struct {
	http  httpclient.Client
	subID string
	log   logger.Logger
}

// Option customizes a Client.
type Option func(*Client)

// WithSubID attaches a sub_id to created favourites.
func WithSubID(subID string) Option {
	return func(c *Client) { c.subID = strings.TrimSpace(subID) }
}

// WithLogger sets the logger used for request outcomes.
func WithLogger(log logger.Logger) Option {
	return func(c *Client) { c.log = logger.Ensure(log) }
}

// New constructs a Client on top of an already configured HTTP client.
func New(client httpclient.Client, opts ...Option) *Client {
	c := &Client{http: client, log: logger.NopLogger{}}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ListBreeds fetches the full breed catalog. An empty catalog is ErrEmptyPayload.
func (c *Client) ListBreeds(ctx context.Context) ([]domain.Breed, error) {
	const op = "list breeds"

	resp, err := c.http.Get(ctx, breedsPath)
	if err != nil {
		return nil, c.transportError(op, err)
	}
	body, err := c.checkResponse(op, resp)
	if err != nil {
		return nil, err
	}

	var breeds []domain.Breed
	if err := json.Unmarshal(body, &breeds); err != nil {
		return nil, &domain.FetchError{Op: op, StatusCode: resp.StatusCode(), Err: fmt.Errorf("decode breeds: %w", err)}
	}
	if len(breeds) == 0 {
		return nil, fmt.Errorf("%s: %w", op, domain.ErrEmptyPayload)
	}

	c.log.DebugObj("breed catalog fetched", "catapi_result", map[string]any{
		"op":    op,
		"count": len(breeds),
	})
	return breeds, nil
}

// SearchImages fetches up to ImageLimit images for breedID with download
// progress reporting enabled.
func (c *Client) SearchImages(ctx context.Context, breedID string) ([]domain.CatImage, error) {
	const op = "search images"

	resp, err := c.http.Get(ctx, searchPath,
		httpclient.WithQuery("limit", strconv.Itoa(ImageLimit)),
		httpclient.WithQuery("breed_id", breedID),
		httpclient.WithDownloadProgress(),
	)
	if err != nil {
		return nil, c.transportError(op, err)
	}
	body, err := c.checkResponse(op, resp)
	if err != nil {
		return nil, err
	}

	var images []domain.CatImage
	if err := json.Unmarshal(body, &images); err != nil {
		return nil, &domain.FetchError{Op: op, StatusCode: resp.StatusCode(), Err: fmt.Errorf("decode images: %w", err)}
	}

	c.log.DebugObj("breed images fetched", "catapi_result", map[string]any{
		"op":       op,
		"breed_id": breedID,
		"count":    len(images),
	})
	return images, nil
}

type favouriteRequest struct {
	ImageID string `json:"image_id"`
	SubID   string `json:"sub_id,omitempty"`
}

// AddFavourite marks imageID as a favourite.
func (c *Client) AddFavourite(ctx context.Context, imageID string) error {
	const op = "add favourite"

	resp, err := c.http.Post(ctx, favouritesPath, favouriteRequest{ImageID: imageID, SubID: c.subID})
	if err != nil {
		return c.transportError(op, err)
	}
	if !isSuccess(resp.StatusCode()) {
		return c.statusError(op, resp)
	}
	return nil
}

// RemoveFavourite removes the favourite keyed by imageID.
func (c *Client) RemoveFavourite(ctx context.Context, imageID string) error {
	const op = "remove favourite"

	resp, err := c.http.Delete(ctx, favouritePath, httpclient.WithPathParam("imageId", imageID))
	if err != nil {
		return c.transportError(op, err)
	}
	if !isSuccess(resp.StatusCode()) {
		return c.statusError(op, resp)
	}
	return nil
}

// checkResponse validates status and presence of a body.
func (c *Client) checkResponse(op string, resp httpclient.Response) ([]byte, error) {
	if !isSuccess(resp.StatusCode()) {
		return nil, c.statusError(op, resp)
	}
	body := bytes.TrimSpace(resp.Body())
	if len(body) == 0 || bytes.Equal(body, []byte("null")) {
		return nil, fmt.Errorf("%s: %w", op, domain.ErrEmptyPayload)
	}
	return body, nil
}

func (c *Client) statusError(op string, resp httpclient.Response) error {
	c.log.WarnObj("cat api returned error status", "catapi_error", map[string]any{
		"op":     op,
		"status": resp.StatusCode(),
	})
	return &domain.FetchError{Op: op, StatusCode: resp.StatusCode(), Body: responseSnippet(resp.Body())}
}

func (c *Client) transportError(op string, err error) error {
	c.log.WarnObj("cat api request failed", "catapi_error", map[string]any{
		"op":    op,
		"error": err.Error(),
	})
	return &domain.FetchError{Op: op, Err: err}
}

func isSuccess(status int) bool {
	return status >= http.StatusOK && status < http.StatusMultipleChoices
}

func responseSnippet(body []byte) string {
	const maxLen = 512
	s := strings.TrimSpace(string(body))
	if len(s) > maxLen {
		return s[:maxLen] + "..."
	}
	return s
}
