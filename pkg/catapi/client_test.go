package catapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/samvad-hq/samvad-breed-browser/internal/domain"
	"github.com/samvad-hq/samvad-breed-browser/pkg/httpclient"
)

// stubHTTPResponse implements httpclient.Response.
type stubHTTPResponse struct {
	body       []byte
	statusCode int
}

func (s stubHTTPResponse) Body() []byte    { return s.body }
func (s stubHTTPResponse) StatusCode() int { return s.statusCode }

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return New(httpclient.NewRestyClient(httpclient.Config{
		BaseURL: srv.URL + "/v1/",
		Headers: map[string]string{"x-api-key": "test-key"},
		Timeout: 2 * time.Second,
	}), WithSubID("session-1"))
}

func TestListBreedsDecodesCatalog(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet || r.URL.Path != "/v1/breeds" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		if r.Header.Get("x-api-key") != "test-key" {
			t.Errorf("missing api key")
		}
		_, _ = w.Write([]byte(`[
			{"id":"abys","name":"Abyssinian","description":"Active cat","temperament":"Active, Energetic","origin":"Egypt"},
			{"id":"beng","name":"Bengal","description":"Spotted","temperament":"Alert"}
		]`))
	})

	breeds, err := client.ListBreeds(context.Background())
	if err != nil {
		t.Fatalf("ListBreeds: %v", err)
	}
	if len(breeds) != 2 || breeds[0].ID != "abys" || breeds[1].Name != "Bengal" {
		t.Fatalf("unexpected breeds %+v", breeds)
	}
	if breeds[0].Temperament != "Active, Energetic" {
		t.Fatalf("unexpected temperament %q", breeds[0].Temperament)
	}
}

func TestListBreedsErrorStatus(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "upstream down", http.StatusInternalServerError)
	})

	_, err := client.ListBreeds(context.Background())
	if !errors.Is(err, domain.ErrFetch) {
		t.Fatalf("expected fetch error, got %v", err)
	}
	var fe *domain.FetchError
	if !errors.As(err, &fe) || fe.StatusCode != http.StatusInternalServerError {
		t.Fatalf("expected status 500 in fetch error, got %v", err)
	}
}

func TestListBreedsEmptyPayload(t *testing.T) {
	for _, body := range []string{"", "null", "[]"} {
		client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte(body))
		})
		if _, err := client.ListBreeds(context.Background()); !errors.Is(err, domain.ErrEmptyPayload) {
			t.Fatalf("body %q: expected empty payload, got %v", body, err)
		}
	}
}

func TestListBreedsMalformedPayload(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"message":"not a list"}`))
	})
	if _, err := client.ListBreeds(context.Background()); !errors.Is(err, domain.ErrFetch) {
		t.Fatalf("expected fetch error for malformed payload, got %v", err)
	}
}

func TestSearchImagesUsesFixedLimit(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/images/search" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		q := r.URL.Query()
		if q.Get("limit") != "5" || q.Get("breed_id") != "abys" {
			t.Errorf("unexpected query %s", r.URL.RawQuery)
		}
		_, _ = w.Write([]byte(`[{"id":"i1","url":"https://cdn/1.jpg","width":10},{"id":"i2","url":"https://cdn/2.jpg"}]`))
	})

	images, err := client.SearchImages(context.Background(), "abys")
	if err != nil {
		t.Fatalf("SearchImages: %v", err)
	}
	want := []domain.CatImage{{ID: "i1", URL: "https://cdn/1.jpg"}, {ID: "i2", URL: "https://cdn/2.jpg"}}
	if len(images) != len(want) || images[0] != want[0] || images[1] != want[1] {
		t.Fatalf("unexpected images %+v", images)
	}
}

func TestSearchImagesEmptyArrayIsValid(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`[]`))
	})
	images, err := client.SearchImages(context.Background(), "abys")
	if err != nil || len(images) != 0 {
		t.Fatalf("expected zero images without error, got %v %v", images, err)
	}
}

func TestAddFavouriteCarriesImageID(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/v1/favourites" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		var body map[string]string
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("decode body: %v", err)
		}
		if body["image_id"] != "img-9" || body["sub_id"] != "session-1" {
			t.Errorf("unexpected body %v", body)
		}
		_, _ = w.Write([]byte(`{"message":"SUCCESS","id":42}`))
	})

	if err := client.AddFavourite(context.Background(), "img-9"); err != nil {
		t.Fatalf("AddFavourite: %v", err)
	}
}

func TestRemoveFavouriteKeyedByImageID(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodDelete || r.URL.Path != "/v1/favourites/img-9" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		w.WriteHeader(http.StatusOK)
	})

	if err := client.RemoveFavourite(context.Background(), "img-9"); err != nil {
		t.Fatalf("RemoveFavourite: %v", err)
	}
}

type failingHTTPClient struct{ err error }

func (f failingHTTPClient) Get(context.Context, string, ...httpclient.RequestOption) (httpclient.Response, error) {
	return nil, f.err
}

func (f failingHTTPClient) Post(context.Context, string, any, ...httpclient.RequestOption) (httpclient.Response, error) {
	return nil, f.err
}

func (f failingHTTPClient) Delete(context.Context, string, ...httpclient.RequestOption) (httpclient.Response, error) {
	return stubHTTPResponse{statusCode: http.StatusNotFound, body: []byte("no such favourite")}, nil
}

func TestTransportAndStatusErrorsAreFetchErrors(t *testing.T) {
	cause := errors.New("connection refused")
	client := New(failingHTTPClient{err: cause})

	err := client.AddFavourite(context.Background(), "x")
	if !errors.Is(err, domain.ErrFetch) || !errors.Is(err, cause) {
		t.Fatalf("expected wrapped transport error, got %v", err)
	}

	err = client.RemoveFavourite(context.Background(), "x")
	var fe *domain.FetchError
	if !errors.As(err, &fe) || fe.StatusCode != http.StatusNotFound || fe.Body != "no such favourite" {
		t.Fatalf("expected 404 fetch error, got %v", err)
	}
}
