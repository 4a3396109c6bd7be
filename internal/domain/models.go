package domain

// Domain contains core models and the error taxonomy shared by the API client,
// the browser and the favourite toggle.

// Breed is a cat breed record from the catalog.
type Breed struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Temperament string `json:"temperament"`
}

// CatImage is a single image returned by an image search.
type CatImage struct {
	ID  string `json:"id"`
	URL string `json:"url"`
}
