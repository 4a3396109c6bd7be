package ui

import "sync"

// FavouriteMarks holds the per-image favourite flag for the current session.
type FavouriteMarks struct {
	mu    sync.RWMutex
	marks map[string]bool
}

func NewFavouriteMarks() *FavouriteMarks {
	return &FavouriteMarks{marks: make(map[string]bool)}
}

func (f *FavouriteMarks) IsFavourite(imageID string) bool {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.marks[imageID]
}

func (f *FavouriteMarks) Set(imageID string, favourite bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !favourite {
		delete(f.marks, imageID)
		return
	}
	f.marks[imageID] = true
}
