package app

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"

	"github.com/fatih/color"
	"github.com/samvad-hq/samvad-breed-browser/internal/browser"
	"github.com/samvad-hq/samvad-breed-browser/internal/config"
	"github.com/samvad-hq/samvad-breed-browser/internal/favourites"
	"github.com/samvad-hq/samvad-breed-browser/internal/logger"
	"github.com/samvad-hq/samvad-breed-browser/internal/ui"
	"github.com/samvad-hq/samvad-breed-browser/internal/ui/htmldoc"
	"github.com/samvad-hq/samvad-breed-browser/internal/ui/terminal"
	"github.com/samvad-hq/samvad-breed-browser/pkg/catapi"
	"github.com/samvad-hq/samvad-breed-browser/pkg/httpclient"
	"github.com/samvad-hq/samvad-breed-browser/pkg/publishers"
)

const apiKeyHeader = "x-api-key"

const helpText = `commands:
  breeds              list breeds (> marks the selection)
  select <breed_id>   show images and details for a breed
  fav <image_id|n>    toggle favourite for an image id or carousel index
  help                show this help
  quit                exit`

// Streams are the writers a session renders to.
type Streams struct {
	Out      io.Writer
	Progress io.Writer
}

// Session represents the interactive browser runtime. It wires the cat API
// client, the rendering surfaces and the favourite sinks together and
// dispatches user commands.
type Session struct {
	cfg      *config.Config
	log      logger.Logger
	page     *terminal.Page
	doc      *htmldoc.Document
	pages    ui.Pages
	browser  *browser.Browser
	toggle   *favourites.Toggle
	marks    *ui.FavouriteMarks
	fanout   *publishers.Fanout
	errColor *color.Color

	pending  sync.WaitGroup
	snapshot sync.Mutex
}

// NewSession builds a session runtime from config.
func NewSession(ctx context.Context, cfg *config.Config, log logger.Logger, streams Streams) (*Session, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config must not be nil")
	}
	if log == nil {
		log = &logger.NopLogger{}
	}
	if ctx == nil {
		ctx = context.Background()
	}
	if streams.Out == nil {
		streams.Out = io.Discard
	}
	if !cfg.ShowProgress {
		streams.Progress = nil
	}

	s := &Session{
		cfg:      cfg,
		log:      log,
		page:     terminal.NewPage(streams.Out, streams.Progress),
		marks:    ui.NewFavouriteMarks(),
		errColor: color.New(color.FgRed),
	}

	pageList := []ui.Page{s.page}
	if cfg.HTMLOutput != "" {
		doc, err := htmldoc.New()
		if err != nil {
			return nil, fmt.Errorf("init html document: %w", err)
		}
		s.doc = doc
		pageList = append(pageList, doc)
	}
	s.pages = ui.NewPages(pageList...)
	indicator := ui.NewIndicator(s.pages)

	httpClient := httpclient.NewRestyClient(httpclient.Config{
		BaseURL: cfg.CatAPIBaseURL,
		Headers: map[string]string{apiKeyHeader: cfg.CatAPIKey},
		Timeout: cfg.HTTPTimeout,
		Hooks:   indicator.Hooks(),
	})
	api := catapi.New(httpClient, catapi.WithSubID(cfg.CatAPISubID), catapi.WithLogger(log))

	b, err := browser.New(api, browser.Surfaces{
		Selector: s.pages,
		Carousel: s.pages,
		Info:     s.pages,
	}, log)
	if err != nil {
		return nil, fmt.Errorf("init browser: %w", err)
	}
	b.OnError(s.reportSelectionError)
	s.browser = b

	fanout, err := buildFanout(ctx, cfg.FavouriteSinksFile, log)
	if err != nil {
		return nil, err
	}
	s.fanout = fanout

	toggle, err := favourites.NewToggle(api, log,
		favourites.WithEvents(fanout),
		favourites.WithSubID(cfg.CatAPISubID),
	)
	if err != nil {
		return nil, fmt.Errorf("init favourites: %w", err)
	}
	s.toggle = toggle

	return s, nil
}

// buildFanout loads the favourite sinks file. An empty path disables them.
func buildFanout(ctx context.Context, path string, log logger.Logger) (*publishers.Fanout, error) {
	if strings.TrimSpace(path) == "" {
		return publishers.NewFanout(nil), nil
	}

	sinks, err := publishers.LoadSinks(path)
	if err != nil {
		return nil, fmt.Errorf("load favourite sinks: %w", err)
	}
	fanout, err := publishers.Build(ctx, sinks, log)
	if err != nil {
		return nil, fmt.Errorf("build favourite sinks: %w", err)
	}

	summaries := make([]map[string]any, 0, len(sinks))
	for _, sink := range sinks {
		summaries = append(summaries, map[string]any{
			"id":      sink.ID,
			"type":    sink.Type,
			"actions": sink.Actions,
		})
	}
	log.InfoObj("favourite sinks loaded", "favourite_sinks_meta", map[string]any{
		"count": len(summaries),
		"sinks": summaries,
	})
	return fanout, nil
}

// Run loads the catalog and processes commands from in until quit, EOF or
// context cancellation.
func (s *Session) Run(ctx context.Context, in io.Reader) error {
	if ctx == nil {
		ctx = context.Background()
	}
	defer s.close()

	s.log.InfoObj("session starting", "session_meta", map[string]any{
		"base_url":    s.cfg.CatAPIBaseURL,
		"html_output": s.cfg.HTMLOutput,
		"sinks":       s.fanout.Size(),
	})

	if err := s.browser.Initialize(ctx); err != nil {
		s.printError(err)
		// Without a catalog there is nothing to browse.
		if len(s.browser.Breeds()) == 0 {
			return fmt.Errorf("initialize browser: %w", err)
		}
	}
	s.writeSnapshot()
	s.page.Println(helpText)

	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
	}()

	for {
		select {
		case <-ctx.Done():
			s.log.InfoObj("session stopping", "session_state", map[string]any{
				"reason": ctx.Err().Error(),
			})
			return nil
		case line, ok := <-lines:
			if !ok {
				return nil
			}
			if quit := s.dispatch(ctx, line); quit {
				return nil
			}
		}
	}
}

// dispatch runs one command line and reports whether the session should end.
func (s *Session) dispatch(ctx context.Context, line string) bool {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return false
	}

	cmd, args := strings.ToLower(fields[0]), fields[1:]
	switch cmd {
	case "quit", "exit":
		return true
	case "help":
		s.page.Println(helpText)
	case "breeds":
		s.page.ListOptions()
	case "select":
		if len(args) != 1 {
			s.printError(errors.New("usage: select <breed_id>"))
			return false
		}
		s.selectBreed(args[0])
	case "fav":
		if len(args) != 1 {
			s.printError(errors.New("usage: fav <image_id|n>"))
			return false
		}
		s.toggleFavourite(ctx, args[0])
	default:
		s.printError(fmt.Errorf("unknown command %q (type 'help')", cmd))
	}
	return false
}

// selectBreed changes the selection without blocking the prompt. A newer
// selection supersedes any still in flight.
func (s *Session) selectBreed(breedID string) {
	s.pending.Add(1)
	go func() {
		defer s.pending.Done()
		if err := s.page.Choose(breedID); err != nil {
			s.printError(err)
			return
		}
		s.writeSnapshot()
	}()
}

// toggleFavourite waits for in-flight selections so carousel indexes refer
// to what is on screen.
func (s *Session) toggleFavourite(ctx context.Context, ref string) {
	s.pending.Wait()

	imageID := ref
	if n, err := strconv.Atoi(ref); err == nil {
		item, ok := s.page.ImageAt(n)
		if !ok {
			s.printError(fmt.Errorf("no image at index %d", n))
			return
		}
		imageID = item.ImageID
	}

	current := s.marks.IsFavourite(imageID)
	next, err := s.toggle.Toggle(ctx, imageID, current)
	if err != nil {
		s.printError(err)
		return
	}
	s.marks.Set(imageID, next)
	s.pages.MarkFavourite(imageID, next)
	s.writeSnapshot()
}

func (s *Session) reportSelectionError(breedID string, err error) {
	s.log.WarnObj("breed selection failed", "session_error", map[string]any{
		"breed_id": breedID,
		"error":    err.Error(),
	})
	s.printError(err)
}

func (s *Session) printError(err error) {
	s.page.Println(s.errColor.Sprintf("error: %v", err))
}

func (s *Session) writeSnapshot() {
	if s.doc == nil {
		return
	}
	s.snapshot.Lock()
	defer s.snapshot.Unlock()
	if err := s.doc.WriteFile(s.cfg.HTMLOutput); err != nil {
		s.log.WarnObj("html snapshot write failed", "session_error", map[string]any{
			"path":  s.cfg.HTMLOutput,
			"error": err.Error(),
		})
	}
}

func (s *Session) close() {
	s.pending.Wait()
	s.writeSnapshot()
	if err := s.fanout.Close(); err != nil {
		s.log.WarnObj("favourite sink shutdown failed", "session_error", map[string]any{
			"error": err.Error(),
		})
	}
}
