package browser

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/samvad-hq/samvad-breed-browser/internal/domain"
	"github.com/samvad-hq/samvad-breed-browser/internal/logger"
	"github.com/samvad-hq/samvad-breed-browser/internal/ui"
)

const (
	imageAlt          = "Cat Image"
	temperamentTitle  = "Temperament:"
	temperamentSepStr = ", "
)

// ErrSuperseded is returned when a newer selection replaced the one a result belonged to.
var ErrSuperseded = errors.New("selection superseded")

// Catalog is the subset of the cat API the browser needs.
type Catalog interface {
	ListBreeds(ctx context.Context) ([]domain.Breed, error)
	SearchImages(ctx context.Context, breedID string) ([]domain.CatImage, error)
}

// Surfaces are the rendering targets owned by the browser.
type Surfaces struct {
	Selector ui.Selector
	Carousel ui.Carousel
	Info     ui.InfoPanel
}

// Browser loads the breed catalog, keeps the selector populated and renders
// images and metadata for the selected breed. Results of a selection that has
// since been replaced are dropped.
type Browser struct {
	api      Catalog
	surfaces Surfaces
	log      logger.Logger

	mu         sync.Mutex // guards the fields below and every surface call
	breeds     []domain.Breed
	index      map[string]int
	generation uint64
	selected   string
	cancel     context.CancelFunc
	onError    func(breedID string, err error)
}

// New wires a browser to its catalog and surfaces.
func New(api Catalog, surfaces Surfaces, log logger.Logger) (*Browser, error) {
	if api == nil {
		return nil, fmt.Errorf("catalog must not be nil")
	}
	if surfaces.Selector == nil || surfaces.Carousel == nil || surfaces.Info == nil {
		return nil, fmt.Errorf("selector, carousel and info surfaces are required")
	}
	return &Browser{
		api:      api,
		surfaces: surfaces,
		log:      logger.Ensure(log),
	}, nil
}

// Initialize fetches the catalog, populates the selector and selects the
// first breed. On failure no surface is touched.
func (b *Browser) Initialize(ctx context.Context) error {
	breeds, err := b.api.ListBreeds(ctx)
	if err != nil {
		b.log.ErrorObj("breed catalog load failed", "browser_error", map[string]any{
			"error": err.Error(),
		})
		return fmt.Errorf("load breeds: %w", err)
	}
	if len(breeds) == 0 {
		b.log.ErrorObj("breed catalog load failed", "browser_error", map[string]any{
			"error": domain.ErrEmptyPayload.Error(),
		})
		return fmt.Errorf("load breeds: %w", domain.ErrEmptyPayload)
	}

	opts := make([]ui.Option, 0, len(breeds))
	idx := make(map[string]int, len(breeds))
	for i, br := range breeds {
		opts = append(opts, ui.Option{Value: br.ID, Label: br.Name})
		if _, dup := idx[br.ID]; !dup {
			idx[br.ID] = i
		}
	}

	first := breeds[0].ID

	b.mu.Lock()
	b.breeds = breeds
	b.index = idx
	b.surfaces.Selector.SetOptions(opts)
	b.surfaces.Selector.Select(first)
	b.surfaces.Selector.OnChange(func(breedID string) {
		err := b.OnBreedSelected(ctx, breedID)
		if err == nil || errors.Is(err, ErrSuperseded) {
			return
		}
		b.mu.Lock()
		report := b.onError
		b.mu.Unlock()
		if report != nil {
			report(breedID, err)
		}
	})
	b.mu.Unlock()

	b.log.InfoObj("breed catalog loaded", "browser_state", map[string]any{
		"breeds_count": len(breeds),
		"initial":      first,
	})

	if err := b.OnBreedSelected(ctx, first); err != nil {
		return fmt.Errorf("select initial breed: %w", err)
	}
	return nil
}

// OnBreedSelected clears the panels and renders images and metadata for
// breedID. It returns ErrSuperseded when another selection happened while
// the images were in flight.
func (b *Browser) OnBreedSelected(ctx context.Context, breedID string) error {
	reqCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	b.mu.Lock()
	b.generation++
	gen := b.generation
	if b.cancel != nil {
		b.cancel()
	}
	b.cancel = cancel
	b.selected = breedID
	b.surfaces.Selector.Select(breedID)
	b.surfaces.Carousel.ClearCarousel()
	b.surfaces.Info.ClearInfo()
	b.mu.Unlock()

	images, err := b.api.SearchImages(reqCtx, breedID)

	b.mu.Lock()
	defer b.mu.Unlock()

	if gen != b.generation {
		b.log.DebugObj("stale breed images discarded", "browser_stale", map[string]any{
			"breed_id":   breedID,
			"current_id": b.selected,
		})
		return ErrSuperseded
	}
	b.cancel = nil

	if err != nil {
		b.log.ErrorObj("breed images fetch failed", "browser_error", map[string]any{
			"breed_id": breedID,
			"error":    err.Error(),
		})
		return fmt.Errorf("fetch images for breed %s: %w", breedID, err)
	}

	for _, img := range images {
		b.surfaces.Carousel.Append(ui.CarouselItem{ImageID: img.ID, URL: img.URL, Alt: imageAlt})
	}

	breed, ok := b.lookupLocked(breedID)
	if !ok {
		b.log.WarnObj("selected breed missing from catalog", "browser_error", map[string]any{
			"breed_id": breedID,
		})
		return fmt.Errorf("breed %q: %w", breedID, domain.ErrNotFound)
	}
	b.renderInfoLocked(breed)

	b.log.InfoObj("breed rendered", "browser_state", map[string]any{
		"breed_id":     breedID,
		"images_count": len(images),
	})
	return nil
}

// OnError registers fn for failures of selections made through the selector.
// Superseded selections are not reported.
func (b *Browser) OnError(fn func(breedID string, err error)) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.onError = fn
}

// Breeds returns a copy of the cached catalog.
func (b *Browser) Breeds() []domain.Breed {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]domain.Breed(nil), b.breeds...)
}

// Selected returns the most recently selected breed id.
func (b *Browser) Selected() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.selected
}

func (b *Browser) lookupLocked(breedID string) (domain.Breed, bool) {
	i, ok := b.index[breedID]
	if !ok {
		return domain.Breed{}, false
	}
	return b.breeds[i], true
}

func (b *Browser) renderInfoLocked(breed domain.Breed) {
	info := b.surfaces.Info
	info.AppendTitle(breed.Name)
	info.AppendParagraph(breed.Description)
	info.AppendHeading(temperamentTitle)
	info.AppendList(splitTemperament(breed.Temperament))
}

// splitTemperament splits on ", " and drops empty phrases.
func splitTemperament(s string) []string {
	parts := strings.Split(s, temperamentSepStr)
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
