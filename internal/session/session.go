// Package session runs the interactive command loop: one keystroke per
// command, dispatched to station filtering, search, selection and playback.
package session

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/mmcdole/iradio/internal/domain"
	"github.com/mmcdole/iradio/internal/service"
)

// Session owns all mutable state of one interactive run: the active station
// set (through the registry), the last result set and the playback target
// (through the controller). It is driven from a single goroutine.
type Session struct {
	term     domain.Terminal
	out      io.Writer
	stations *service.StationRegistry
	search   *service.SearchService
	playback *service.PlaybackController
	results  domain.ResultSet
	keys     KeyMap
	styles   styles
	logger   *slog.Logger

	// interruptible scopes one blocking request to Ctrl-C
	interruptible func(ctx context.Context) (context.Context, context.CancelFunc)
}

// New creates a session reading keystrokes from term and printing to out
func New(
	term domain.Terminal,
	out io.Writer,
	stations *service.StationRegistry,
	search *service.SearchService,
	playback *service.PlaybackController,
	logger *slog.Logger,
) *Session {
	if logger == nil {
		logger = slog.Default()
	}
	return &Session{
		term:     term,
		out:      out,
		stations: stations,
		search:   search,
		playback: playback,
		keys:     DefaultKeyMap(),
		styles:   newStyles(out),
		logger:   logger,

		interruptible: interruptOnSignal,
	}
}

func interruptOnSignal(ctx context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(ctx, os.Interrupt)
}

// Results returns the result set of the last successful search
func (s *Session) Results() domain.ResultSet { return s.results }

// Run reads and executes commands until the quit key. Recoverable errors are
// printed and the loop goes on; only a failing character source ends Run
// with an error.
func (s *Session) Run(ctx context.Context) error {
	s.logger.Info("session started", "stations", len(s.stations.Active()))
	for {
		r, _, err := s.term.ReadRune()
		if err != nil {
			return fmt.Errorf("reading command: %w", err)
		}

		quit, err := s.dispatch(ctx, r)
		if err != nil {
			return err
		}
		if quit {
			s.logger.Info("session ended")
			return nil
		}
	}
}

// dispatch runs the command bound to r. Unbound keys are ignored.
func (s *Session) dispatch(ctx context.Context, r rune) (quit bool, err error) {
	k := keyMsg(r)

	switch {
	case key.Matches(k, s.keys.Quit):
		return true, nil
	case key.Matches(k, s.keys.Pause):
		s.report(s.playback.Pause())
	case key.Matches(k, s.keys.Repeat):
		s.printResults()
	case key.Matches(k, s.keys.Help):
		s.printHelp()
	case key.Matches(k, s.keys.Stop):
		s.report(s.playback.Stop())
	case key.Matches(k, s.keys.Play):
		s.report(s.playback.Play())
	case key.Matches(k, s.keys.Stations):
		if err := s.filterStations(); err != nil {
			return false, err
		}
		s.printActiveStations()
	case key.Matches(k, s.keys.Search):
		return false, s.runSearch(ctx)
	case key.Matches(k, s.keys.Find):
		return false, s.runFind()
	case key.Matches(k, s.keys.Select):
		return false, s.selectFrom(r)
	default:
		return false, nil
	}

	s.logger.Debug("command", "key", string(r), "state", s.playback.State().String())
	return false, nil
}

// filterStations lists the catalog and toggles stations by index until the
// digit reader is cancelled
func (s *Session) filterStations() error {
	for i, st := range s.stations.Catalog() {
		fmt.Fprintf(s.out, "%s, %s, %s\n", FormatIndex(i+1), st.Name, s.status(s.stations.IsActive(i+1)))
	}

	for {
		n, ok, err := ReadIndex(s.term, s.out)
		if err != nil {
			return fmt.Errorf("reading station index: %w", err)
		}
		if !ok {
			fmt.Fprintln(s.out, "Quitting radio selection")
			return nil
		}

		st, active, err := s.stations.Toggle(n)
		if err != nil {
			s.report(err)
			continue
		}
		fmt.Fprintf(s.out, "%s %s\n", st.Name, s.status(active))
	}
}

func (s *Session) runSearch(ctx context.Context) error {
	fmt.Fprint(s.out, "Search: ")
	text, err := s.term.ReadLine()
	if err != nil {
		return fmt.Errorf("reading search text: %w", err)
	}

	// The line read leaves the tty cooked, so Ctrl-C during the request is a
	// SIGINT. It aborts this search only.
	searchCtx, stop := s.interruptible(ctx)
	results, err := s.search.Search(searchCtx, strings.TrimSpace(text), s.stations.Active())
	interrupted := searchCtx.Err() != nil && ctx.Err() == nil
	stop()

	if interrupted {
		s.logger.Info("search interrupted", "query", text)
		fmt.Fprintln(s.out, s.styles.Error.Render("Search interrupted"))
		return nil
	}
	if err != nil {
		s.report(err)
		return nil
	}

	s.results = results
	s.logger.Info("search results", "query", text, "count", results.Len())
	s.printResults()
	return nil
}

func (s *Session) runFind() error {
	fmt.Fprint(s.out, "Find: ")
	pattern, err := s.term.ReadLine()
	if err != nil {
		return fmt.Errorf("reading find text: %w", err)
	}

	matches := s.search.Find(s.results, pattern)
	if len(matches) == 0 {
		fmt.Fprintln(s.out, "No result")
		return nil
	}
	for _, m := range matches {
		fmt.Fprintf(s.out, "%s\t%s\n", FormatIndex(m.DisplayIndex), m.Broadcast.Title)
	}
	return nil
}

// selectFrom resolves the index started by digit r and loads that broadcast.
// A leading 0 asks for two more digits.
func (s *Session) selectFrom(r rune) error {
	n := int(r - '0')
	fmt.Fprint(s.out, string(r))

	if n == 0 {
		two, ok, err := ReadTwoDigits(s.term, s.out)
		if err != nil {
			return fmt.Errorf("reading selection: %w", err)
		}
		if !ok {
			return nil
		}
		n = two
	} else {
		fmt.Fprintln(s.out)
	}

	s.selectBroadcast(n)
	return nil
}

// selectBroadcast loads the broadcast at 1-based index n. An out-of-range
// index leaves the playback target untouched.
func (s *Session) selectBroadcast(n int) {
	b, err := s.results.At(n - 1)
	if err != nil {
		s.report(err)
		return
	}

	fmt.Fprintf(s.out, "index: %d\n", n)
	fmt.Fprintf(s.out, "title: %s\n", s.styles.Title.Render(b.Title))
	fmt.Fprintf(s.out, "uri: %s\n", b.URI)
	fmt.Fprintf(s.out, "desc: %s\n", b.Description)
	fmt.Fprintf(s.out, "date: %s\n", b.Date)

	s.report(s.playback.Load(b.URI))
}

func (s *Session) printResults() {
	if s.results.Empty() {
		fmt.Fprintln(s.out, "No result")
		return
	}
	for i, title := range s.results.Titles() {
		fmt.Fprintf(s.out, "%s\t%s\n", FormatIndex(i+1), title)
	}
}

func (s *Session) printActiveStations() {
	active := s.stations.Active()
	if len(active) == 0 {
		fmt.Fprintln(s.out, "Active stations: none")
		return
	}
	names := make([]string, len(active))
	for i, st := range active {
		names[i] = st.Name
	}
	fmt.Fprintf(s.out, "Active stations: %s\n", strings.Join(names, ", "))
}

func (s *Session) printHelp() {
	for _, b := range s.keys.HelpBindings() {
		h := b.Help()
		fmt.Fprintf(s.out, "%s %s\n", s.styles.Key.Render(h.Key), h.Desc)
	}
}

func (s *Session) status(active bool) string {
	if active {
		return s.styles.Active.Render("activated")
	}
	return s.styles.Inactive.Render("deactivated")
}

// report prints a recoverable error; nil is ignored
func (s *Session) report(err error) {
	if err == nil {
		return
	}

	var oor *domain.IndexOutOfRangeError
	switch {
	case errors.As(err, &oor):
		fmt.Fprintln(s.out, s.styles.Error.Render(fmt.Sprintf("Index must be at most %d", oor.Max)))
	case errors.Is(err, domain.ErrSearchTransport):
		fmt.Fprintln(s.out, s.styles.Error.Render("Search failed: "+err.Error()))
	case errors.Is(err, domain.ErrPlayback):
		fmt.Fprintln(s.out, s.styles.Error.Render("Playback error: "+err.Error()))
	default:
		fmt.Fprintln(s.out, s.styles.Error.Render(err.Error()))
	}
	s.logger.Warn("command failed", "error", err)
}
