package cmd

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/urfave/cli/v3"

	"dashsearch/internal/api"
	"dashsearch/internal/config"
	"dashsearch/internal/domain"
	"dashsearch/internal/eventbus"
	"dashsearch/internal/search"
	"dashsearch/internal/ui"
)

// TUICommand creates the tui command
func TUICommand() *cli.Command {
	return &cli.Command{
		Name:  "tui",
		Usage: "Open the dashboard with its search surface",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "open",
				Usage: "Open the search surface on start",
			},
			&cli.StringFlag{
				Name:  "scope",
				Usage: "Collections to search: all, todos or notes",
			},
		},
		Action: RunTUI,
	}
}

// RunTUI runs the dashboard until the user quits
func RunTUI(ctx context.Context, c *cli.Command) error {
	cfg, err := loadConfig(c.String("config"))
	if err != nil {
		return err
	}
	if err := applyScope(cfg, c.String("scope")); err != nil {
		return err
	}

	logger, closer := installFileLogger(cfg, c.Bool("debug"))
	defer closer.Close()
	logger.Info("starting dashsearch", "api_url", cfg.APIURL, "scope", cfg.Scope)

	token, err := cfg.ResolveToken()
	if err != nil {
		return err
	}
	tokens := api.NewTokenSource(token)
	client, err := newClient(cfg, tokens, logger)
	if err != nil {
		return err
	}

	bus := eventbus.New(logger)
	defer bus.Close()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	session := search.NewSession(search.Options{
		Debounce: cfg.Debounce.Duration,
		Context:  ctx,
		Bus:      bus,
		Logger:   logger,
	})
	model := ui.NewModel(ui.Options{
		Session:       session,
		Searcher:      client,
		ShowHelp:      cfg.UISettings.ShowHelp,
		SnippetLength: cfg.UISettings.SnippetLength,
		OpenOnStart:   c.Bool("open"),
		Logger:        logger,
	})

	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	model.SetProgram(p)

	bus.Subscribe(eventbus.EventError, func(e eventbus.DomainEvent) {
		p.Send(ui.EventMsg{Event: e})
	})
	bus.Subscribe(eventbus.EventSearchFailed, func(e eventbus.DomainEvent) {
		if event, ok := e.(domain.SearchFailedEvent); ok {
			logger.Warn("search failed", "seq", event.Seq, "reason", event.Reason, "error", event.Err)
		}
	})

	if cfg.Token == "" && cfg.TokenFile != "" {
		watcher, err := config.WatchTokenFile(cfg.TokenFile, bus, logger, reloadToken(tokens, p.Send))
		if err != nil {
			logger.Warn("token file is not watched", "path", cfg.TokenFile, "error", err)
		} else {
			defer watcher.Close()
			// covers a rewrite between the first read and the watch
			tokens.Set(watcher.Token())
		}
	}

	_, err = p.Run()
	// unblocks a watcher still sending to the stopped program
	cancel()
	if err != nil {
		return fmt.Errorf("running ui: %w", err)
	}
	logger.Info("dashsearch exited")
	return nil
}

// reloadToken swaps the token and then tells the UI. It runs on the watcher
// goroutine in file order, so a retry triggered by the message already
// carries the new token.
func reloadToken(tokens *api.TokenSource, send func(tea.Msg)) func(string) {
	return func(token string) {
		tokens.Set(token)
		send(ui.EventMsg{Event: domain.TokenChangedEvent{Token: token}})
	}
}
