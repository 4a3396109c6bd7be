package htmldoc

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/PuerkitoBio/goquery"
	"github.com/samvad-hq/samvad-breed-browser/internal/ui"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

const skeleton = `<!DOCTYPE html>
<html>
<head><meta charset="utf-8"><title>Cat Breeds</title></head>
<body style="cursor: default">
<div id="progressBar" style="width: 0%"></div>
<select id="breedSelect"></select>
<div id="carousel"></div>
<div id="infoDump"></div>
</body>
</html>`

// Document keeps the page as a DOM and applies every surface call to it.
type Document struct {
	mu      sync.Mutex
	doc     *goquery.Document
	handler func(string)
}

// New parses the page skeleton.
func New() (*Document, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(skeleton))
	if err != nil {
		return nil, fmt.Errorf("parse page skeleton: %w", err)
	}
	return &Document{doc: doc}, nil
}

func (d *Document) SetOptions(opts []ui.Option) {
	d.mu.Lock()
	defer d.mu.Unlock()
	sel := d.doc.Find("#breedSelect")
	sel.Empty()
	for _, opt := range opts {
		sel.AppendNodes(element(atom.Option, opt.Label, attr("value", opt.Value)))
	}
}

func (d *Document) Select(value string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.selectLocked(value)
}

func (d *Document) OnChange(fn func(string)) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.handler = fn
}

// Change is the document's change event: it selects value and dispatches to
// the handler registered with OnChange, as a user picking an option would.
// Embedders driving the page from outside the terminal call it directly.
func (d *Document) Change(value string) {
	d.mu.Lock()
	d.selectLocked(value)
	handler := d.handler
	d.mu.Unlock()

	if handler != nil {
		handler(value)
	}
}

func (d *Document) ClearCarousel() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.doc.Find("#carousel").Empty()
}

func (d *Document) Append(item ui.CarouselItem) {
	d.mu.Lock()
	defer d.mu.Unlock()

	img := element(atom.Img, "", attr("src", item.URL), attr("alt", item.Alt))
	div := element(atom.Div, "", attr("class", "carousel-item"), attr("data-image-id", item.ImageID))
	div.AppendChild(img)
	d.doc.Find("#carousel").AppendNodes(div)
}

func (d *Document) ClearInfo() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.doc.Find("#infoDump").Empty()
}

func (d *Document) AppendTitle(text string)     { d.appendInfo(element(atom.H2, text)) }
func (d *Document) AppendParagraph(text string) { d.appendInfo(element(atom.P, text)) }
func (d *Document) AppendHeading(text string)   { d.appendInfo(element(atom.H3, text)) }

func (d *Document) AppendList(items []string) {
	list := element(atom.Ul, "")
	for _, item := range items {
		list.AppendChild(element(atom.Li, item))
	}
	d.appendInfo(list)
}

func (d *Document) SetProgress(percent float64) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.doc.Find("#progressBar").SetAttr("style", fmt.Sprintf("width: %.0f%%", percent))
}

func (d *Document) SetBusy(busy bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	cursor := "default"
	if busy {
		cursor = "progress"
	}
	d.doc.Find("body").SetAttr("style", "cursor: "+cursor)
}

func (d *Document) MarkFavourite(imageID string, favourite bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.doc.Find("#carousel .carousel-item").Each(func(_ int, s *goquery.Selection) {
		if id, _ := s.Attr("data-image-id"); id != imageID {
			return
		}
		if favourite {
			s.SetAttr("data-favourite", "true")
		} else {
			s.RemoveAttr("data-favourite")
		}
	})
}

// HTML renders the current document.
func (d *Document) HTML() (string, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.doc.Html()
}

// WriteFile writes the rendered document to path, creating parent directories.
func (d *Document) WriteFile(path string) error {
	out, err := d.HTML()
	if err != nil {
		return fmt.Errorf("render document: %w", err)
	}
	dir := filepath.Dir(path)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create output directory: %w", err)
		}
	}
	if err := os.WriteFile(path, []byte(out), 0o644); err != nil {
		return fmt.Errorf("write document: %w", err)
	}
	return nil
}

func (d *Document) appendInfo(n *html.Node) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.doc.Find("#infoDump").AppendNodes(n)
}

func (d *Document) selectLocked(value string) {
	d.doc.Find("#breedSelect option").Each(func(_ int, s *goquery.Selection) {
		if v, _ := s.Attr("value"); v == value {
			s.SetAttr("selected", "selected")
		} else {
			s.RemoveAttr("selected")
		}
	})
}

func attr(key, val string) html.Attribute {
	return html.Attribute{Key: key, Val: val}
}

func element(a atom.Atom, text string, attrs ...html.Attribute) *html.Node {
	n := &html.Node{Type: html.ElementNode, DataAtom: a, Data: a.String(), Attr: attrs}
	if text != "" {
		n.AppendChild(&html.Node{Type: html.TextNode, Data: text})
	}
	return n
}
