package ui

import (
	"sync"

	"github.com/samvad-hq/samvad-breed-browser/pkg/httpclient"
)

// Indicator drives a ProgressSink from HTTP client lifecycle hooks.
// Values handed to the sink are always within [0,100]. Overlapping requests
// keep the page busy until the last of them settles.
type Indicator struct {
	mu       sync.Mutex
	sink     ProgressSink
	last     float64
	inflight int
}

// NewIndicator binds an indicator to sink.
func NewIndicator(sink ProgressSink) *Indicator {
	return &Indicator{sink: sink}
}

// Hooks returns client hooks that feed this indicator.
func (i *Indicator) Hooks() httpclient.Hooks {
	return httpclient.Hooks{
		OnRequestStart:     i.Start,
		OnResponseEnd:      i.Finish,
		OnDownloadProgress: i.Download,
	}
}

// Start resets progress to 0 and marks the page busy.
func (i *Indicator) Start() {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.inflight++
	i.set(0)
	if i.inflight == 1 {
		i.sink.SetBusy(true)
	}
}

// Finish settles one request. Progress completes and the page goes idle only
// once no other request is in flight.
func (i *Indicator) Finish() {
	i.mu.Lock()
	defer i.mu.Unlock()
	if i.inflight > 0 {
		i.inflight--
	}
	if i.inflight > 0 {
		return
	}
	i.set(100)
	i.sink.SetBusy(false)
}

// Download updates progress proportionally. An unknown total holds the last value.
func (i *Indicator) Download(p httpclient.Progress) {
	if !p.Known() {
		return
	}
	i.mu.Lock()
	defer i.mu.Unlock()
	i.set(float64(p.Received) * 100 / float64(p.Total))
}

// Value returns the last reported percentage.
func (i *Indicator) Value() float64 {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.last
}

func (i *Indicator) set(pct float64) {
	switch {
	case pct < 0:
		pct = 0
	case pct > 100:
		pct = 100
	}
	i.last = pct
	i.sink.SetProgress(pct)
}
