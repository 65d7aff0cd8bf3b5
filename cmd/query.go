package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/google/uuid"
	"github.com/urfave/cli/v3"

	"dashsearch/internal/api"
	"dashsearch/internal/domain"
	"dashsearch/internal/search"
	"dashsearch/internal/ui/views"
)

var errShortQuery = fmt.Errorf("query must be at least %d characters", search.MinQueryLen)

// QueryCommand creates the query command
func QueryCommand() *cli.Command {
	return &cli.Command{
		Name:      "query",
		Usage:     "Search tasks and notes once and print the results",
		ArgsUsage: "<text>",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "scope",
				Usage: "Collections to search: all, todos or notes",
			},
			&cli.IntFlag{
				Name:  "snippet",
				Usage: "Maximum snippet length, 0 uses the configured value",
			},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			return runQuery(ctx, c, strings.Join(c.Args().Slice(), " "))
		},
	}
}

func runQuery(ctx context.Context, c *cli.Command, text string) error {
	query := search.Effective(text)
	if !search.Qualifies(query) {
		return errShortQuery
	}

	cfg, err := loadConfig(c.String("config"))
	if err != nil {
		return err
	}
	if err := applyScope(cfg, c.String("scope")); err != nil {
		return err
	}
	logger := newLogger(os.Stderr, "warn", c.Bool("debug"))

	token, err := cfg.ResolveToken()
	if err != nil {
		return err
	}
	client, err := newClient(cfg, api.NewTokenSource(token), logger)
	if err != nil {
		return err
	}

	body, err := client.Search(api.WithRequestID(ctx, uuid.NewString()), query)
	if err != nil {
		kind, _ := search.Classify(err)
		logger.Debug("search failed", "error", err)
		return errors.New(kind.Message())
	}

	snippet := int(c.Int("snippet"))
	if snippet <= 0 {
		snippet = cfg.UISettings.SnippetLength
	}
	printResults(os.Stdout, search.Merge(body), query, snippet)
	return nil
}

// printResults writes the merged list grouped by kind, matches highlighted
func printResults(w io.Writer, results search.List, query string, snippet int) {
	if len(results) == 0 {
		fmt.Fprintf(w, "No tasks or notes match %q.\n", query)
		return
	}

	header := color.New(color.FgCyan, color.Bold).SprintFunc()
	match := color.New(color.FgYellow, color.Bold).SprintFunc()
	dim := color.New(color.Faint).SprintFunc()
	tag := color.New(color.FgBlue).SprintFunc()

	highlight := func(text string) string {
		var b strings.Builder
		for _, seg := range search.Highlight(text, query) {
			if seg.Matched {
				b.WriteString(match(seg.Text))
			} else {
				b.WriteString(seg.Text)
			}
		}
		return b.String()
	}

	tasks, notes := results.Counts()
	var last domain.Kind
	for _, item := range results {
		if item.Kind != last {
			if last != "" {
				fmt.Fprintln(w)
			}
			count := tasks
			if item.Kind == domain.KindNote {
				count = notes
			}
			fmt.Fprintln(w, header(fmt.Sprintf("%s (%d)", item.Kind.Label(), count)))
			last = item.Kind
		}

		line := "  " + highlight(item.Title())
		if b := badge(item); b != "" {
			line += " " + dim(b)
		}
		if tags := item.TagLine(); tags != "" {
			line += " " + tag(highlight(tags))
		}
		fmt.Fprintln(w, line)
		if s := views.Snippet(item.Body(), snippet); s != "" {
			fmt.Fprintln(w, "    "+highlight(s))
		}
	}
}

func badge(item domain.ResultItem) string {
	switch {
	case item.Task != nil:
		var parts []string
		if item.Task.Completed {
			parts = append(parts, "done")
		}
		if item.Task.Priority != "" {
			parts = append(parts, item.Task.Priority)
		}
		if item.Task.DueDate != nil {
			parts = append(parts, "due "+item.Task.DueDate.Format("Jan 2"))
		}
		if len(parts) > 0 {
			return "[" + strings.Join(parts, ", ") + "]"
		}
	case item.Note != nil:
		if item.Note.Category != "" {
			return "[" + item.Note.Category + "]"
		}
	}
	return ""
}
