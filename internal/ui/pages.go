package ui

// Pages dispatches every surface call to all pages in order.
type Pages []Page

// NewPages drops nil entries.
func NewPages(pages ...Page) Pages {
	out := make(Pages, 0, len(pages))
	for _, p := range pages {
		if p == nil {
			continue
		}
		out = append(out, p)
	}
	return out
}

func (ps Pages) SetOptions(opts []Option) {
	for _, p := range ps {
		p.SetOptions(opts)
	}
}

func (ps Pages) Select(value string) {
	for _, p := range ps {
		p.Select(value)
	}
}

func (ps Pages) OnChange(fn func(value string)) {
	for _, p := range ps {
		p.OnChange(fn)
	}
}

func (ps Pages) ClearCarousel() {
	for _, p := range ps {
		p.ClearCarousel()
	}
}

func (ps Pages) ClearInfo() {
	for _, p := range ps {
		p.ClearInfo()
	}
}

func (ps Pages) Append(item CarouselItem) {
	for _, p := range ps {
		p.Append(item)
	}
}

func (ps Pages) AppendTitle(text string) {
	for _, p := range ps {
		p.AppendTitle(text)
	}
}

func (ps Pages) AppendParagraph(text string) {
	for _, p := range ps {
		p.AppendParagraph(text)
	}
}

func (ps Pages) AppendHeading(text string) {
	for _, p := range ps {
		p.AppendHeading(text)
	}
}

func (ps Pages) AppendList(items []string) {
	for _, p := range ps {
		p.AppendList(items)
	}
}

func (ps Pages) SetProgress(percent float64) {
	for _, p := range ps {
		p.SetProgress(percent)
	}
}

func (ps Pages) SetBusy(busy bool) {
	for _, p := range ps {
		p.SetBusy(busy)
	}
}

func (ps Pages) MarkFavourite(imageID string, favourite bool) {
	for _, p := range ps {
		p.MarkFavourite(imageID, favourite)
	}
}
