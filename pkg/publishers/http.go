package publishers

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-resty/resty/v2"
	"github.com/samvad-hq/samvad-breed-browser/internal/logger"
	"github.com/samvad-hq/samvad-breed-browser/pkg/httpclient"
)

const (
	actionHeader    = "X-Favourite-Action"
	maxErrorSnippet = 512
)

// httpPublisher posts favourite events to a webhook as JSON. The action is
// repeated in a header so receivers can route without decoding the body.
type httpPublisher struct {
	sink
	hook   HTTPConfig
	client *resty.Client
}

func newHTTPPublisher(_ context.Context, cfg SinkConfig, log logger.Logger) (Publisher, error) {
	if err := cfg.HTTP.validate(); err != nil {
		return nil, err
	}
	return &httpPublisher{
		sink:   newSink(cfg, log),
		hook:   *cfg.HTTP,
		client: httpclient.NewRestyHTTPClient(cfg.HTTP.timeout()),
	}, nil
}

func (h *httpPublisher) Publish(ctx context.Context, evt Event) error {
	resp, err := h.client.R().
		SetContext(ctx).
		SetHeaders(h.hook.Headers).
		SetHeader("Content-Type", "application/json").
		SetHeader(actionHeader, evt.Action).
		SetBody(evt).
		Execute(h.hook.Method, h.hook.URL)
	if err != nil {
		h.failed(evt, err)
		return fmt.Errorf("%s %s: %w", h.hook.Method, h.hook.URL, err)
	}
	if resp.IsError() {
		err := fmt.Errorf("webhook answered %d: %s", resp.StatusCode(), snippet(resp.Body()))
		h.failed(evt, err)
		return err
	}
	h.delivered(evt, "")
	return nil
}

func snippet(body []byte) string {
	if len(body) > maxErrorSnippet {
		body = body[:maxErrorSnippet]
	}
	return strings.TrimSpace(string(body))
}
