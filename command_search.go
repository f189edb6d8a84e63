package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/urfave/cli/v2"

	"nostr-search/internal/search"
	"nostr-search/internal/types"
)

var searchCommand = &cli.Command{
	Name:      "search",
	Usage:     "run one search and print the results",
	ArgsUsage: "[npub or hex pubkey]",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:    "mode",
			Aliases: []string{"m"},
			Usage:   "author, following or reactions",
			Value:   string(types.ModeAuthor),
		},
		&cli.StringFlag{
			Name:    "text",
			Aliases: []string{"q"},
			Usage:   "free-text search (NIP-50)",
		},
		&cli.StringFlag{
			Name:  "since",
			Usage: "earliest date, YYYY-MM-DD",
		},
		&cli.StringFlag{
			Name:  "until",
			Usage: "latest date, YYYY-MM-DD",
		},
		&cli.BoolFlag{
			Name:  "all",
			Usage: "print every result instead of the first page",
		},
	},
	Action: func(c *cli.Context) error {
		logger := newLogger(os.Stderr, c.String("log-level"))
		cfg, err := loadConfig(c, logger)
		if err != nil {
			return err
		}

		a := newApp(c.Context, cfg, logger)
		defer a.Close()

		sess := search.NewSession(a.search, cfg.PageStep)
		snap, err := sess.Submit(c.Context, search.Request{
			Identity:   c.Args().First(),
			Mode:       types.Mode(c.String("mode")),
			SearchText: c.String("text"),
			Since:      c.String("since"),
			Until:      c.String("until"),
		})
		if err != nil {
			return err
		}
		if c.Bool("all") {
			for snap.Window.HasMore() {
				snap = sess.LoadMore()
			}
		}
		return printSnapshot(c.App.Writer, snap)
	},
}

func printSnapshot(w io.Writer, snap search.Snapshot) error {
	if snap.Window.Total == 0 {
		_, err := fmt.Fprintln(w, "no events found")
		return err
	}
	for _, note := range noteViews(snap.Visible) {
		if _, err := fmt.Fprintf(w, "%s  %s\n%s\n\n", note.CreatedAt, note.NoteID, strings.TrimSpace(note.Content)); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintf(w, "showing %d of %d\n", snap.Window.Revealed, snap.Window.Total)
	return err
}
