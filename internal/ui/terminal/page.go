package terminal

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/samvad-hq/samvad-breed-browser/internal/ui"
)

const progressWidth = 30

// Page renders the browser surfaces as text. Output is line oriented so it
// stays readable while the user keeps typing commands.
type Page struct {
	mu       sync.Mutex
	out      io.Writer
	progress io.Writer

	options  []ui.Option
	selected string
	handler  func(string)
	items    []ui.CarouselItem
	busy     bool

	title   *color.Color
	heading *color.Color
	dim     *color.Color
	star    *color.Color
}

// NewPage writes content to out and, when progress is non-nil, a progress bar to progress.
func NewPage(out, progress io.Writer) *Page {
	return &Page{
		out:      out,
		progress: progress,
		title:    color.New(color.FgCyan, color.Bold),
		heading:  color.New(color.Bold),
		dim:      color.New(color.Faint),
		star:     color.New(color.FgYellow),
	}
}

// SetOptions replaces the selector entries.
func (p *Page) SetOptions(opts []ui.Option) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.options = append([]ui.Option(nil), opts...)
	p.selected = ""
	fmt.Fprintf(p.out, "%d breeds loaded (type 'breeds' to list them)\n", len(opts))
}

// Select updates the selected value without notifying the change handler.
func (p *Page) Select(value string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.selected = value
}

// OnChange registers the handler fired by Choose.
func (p *Page) OnChange(fn func(string)) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.handler = fn
}

// Choose applies a user selection and fires the change handler synchronously.
func (p *Page) Choose(value string) error {
	value = strings.TrimSpace(value)

	p.mu.Lock()
	if !p.hasOption(value) {
		p.mu.Unlock()
		return fmt.Errorf("unknown breed %q", value)
	}
	p.selected = value
	handler := p.handler
	p.mu.Unlock()

	if handler != nil {
		handler(value)
	}
	return nil
}

// Options returns a copy of the selector entries.
func (p *Page) Options() []ui.Option {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]ui.Option(nil), p.options...)
}

// Selected returns the selected value.
func (p *Page) Selected() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.selected
}

// ListOptions prints the selector entries as a table, marking the selected one.
func (p *Page) ListOptions() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.options) == 0 {
		fmt.Fprintln(p.out, "no breeds loaded")
		return
	}

	t := table.NewWriter()
	t.SetOutputMirror(p.out)
	t.AppendHeader(table.Row{"", "ID", "Breed"})
	for _, opt := range p.options {
		marker := ""
		if opt.Value == p.selected {
			marker = ">"
		}
		t.AppendRow(table.Row{marker, opt.Value, opt.Label})
	}
	t.SetStyle(table.StyleRounded)
	t.Render()
}

// ImageAt resolves a 1-based carousel index.
func (p *Page) ImageAt(index int) (ui.CarouselItem, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if index < 1 || index > len(p.items) {
		return ui.CarouselItem{}, false
	}
	return p.items[index-1], true
}

func (p *Page) ClearCarousel() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.items = nil
	fmt.Fprintln(p.out, p.dim.Sprint("────────"))
}

func (p *Page) Append(item ui.CarouselItem) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.items = append(p.items, item)
	fmt.Fprintf(p.out, "  [%d] %s %s\n", len(p.items), item.URL, p.dim.Sprintf("(%s)", item.ImageID))
}

func (p *Page) ClearInfo() {}

func (p *Page) AppendTitle(text string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	fmt.Fprintln(p.out, p.title.Sprint(text))
}

func (p *Page) AppendParagraph(text string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	fmt.Fprintln(p.out, text)
}

func (p *Page) AppendHeading(text string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	fmt.Fprintln(p.out, p.heading.Sprint(text))
}

func (p *Page) AppendList(items []string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, item := range items {
		fmt.Fprintf(p.out, "  • %s\n", item)
	}
}

// SetProgress draws a bar on the progress writer.
func (p *Page) SetProgress(percent float64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.progress == nil {
		return
	}
	filled := int(percent / 100 * progressWidth)
	bar := strings.Repeat("#", filled) + strings.Repeat(" ", progressWidth-filled)
	fmt.Fprintf(p.progress, "\r[%s] %3.0f%%", bar, percent)
}

// SetBusy ends the progress line when the page becomes idle.
func (p *Page) SetBusy(busy bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.busy && !busy && p.progress != nil {
		fmt.Fprintln(p.progress)
	}
	p.busy = busy
}

func (p *Page) MarkFavourite(imageID string, favourite bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if favourite {
		fmt.Fprintf(p.out, "%s %s added to favourites\n", p.star.Sprint("★"), imageID)
		return
	}
	fmt.Fprintf(p.out, "☆ %s removed from favourites\n", imageID)
}

// Println writes a status line.
func (p *Page) Println(a ...any) {
	p.mu.Lock()
	defer p.mu.Unlock()
	fmt.Fprintln(p.out, a...)
}

func (p *Page) hasOption(value string) bool {
	for _, opt := range p.options {
		if opt.Value == value {
			return true
		}
	}
	return false
}
