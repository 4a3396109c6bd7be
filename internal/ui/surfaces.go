package ui

// Package ui defines the rendering surfaces the browser drives. The names
// follow the page ids: breedSelect, carousel, infoDump and progressBar.

// Option is one entry of the breed selector.
type Option struct {
	Value string
	Label string
}

// CarouselItem is one rendered image.
type CarouselItem struct {
	ImageID string
	URL     string
	Alt     string
}

// Selector is the breed selection control.
type Selector interface {
	SetOptions(opts []Option)
	Select(value string)
	OnChange(fn func(value string))
}

// Carousel is the appendable image list.
type Carousel interface {
	ClearCarousel()
	Append(item CarouselItem)
}

// InfoPanel is the appendable breed metadata panel.
type InfoPanel interface {
	ClearInfo()
	AppendTitle(text string)
	AppendParagraph(text string)
	AppendHeading(text string)
	AppendList(items []string)
}

// ProgressSink receives 0-100 progress values and the busy flag.
type ProgressSink interface {
	SetProgress(percent float64)
	SetBusy(busy bool)
}

// FavouriteMarker displays favourite state for a rendered image.
type FavouriteMarker interface {
	MarkFavourite(imageID string, favourite bool)
}

// Page is a complete rendering surface.
type Page interface {
	Selector
	Carousel
	InfoPanel
	ProgressSink
	FavouriteMarker
}
