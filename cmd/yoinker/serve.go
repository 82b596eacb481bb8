package main

import (
	"encoding/json"
	"fmt"

	"github.com/pevans/yoinker/history"
	"github.com/pevans/yoinker/logging"
)

// ServeCmd starts the HTTP API server.
type ServeCmd struct {
	Addr string `help:"Listen address (default from YOINKER_ADDR)"`
}

// Run serves the HTTP API until the server fails.
func (c *ServeCmd) Run(rt *session) error {
	addr := c.Addr
	if addr == "" {
		addr = rt.app.Config.Addr
	}

	router := rt.app.APIServer().SetupRouter()

	logging.Info("starting yoinker API server", "addr", addr)
	if err := router.Run(addr); err != nil {
		return fmt.Errorf("server failed: %w", err)
	}
	return nil
}

// HistoryCmd lists recent lookups.
type HistoryCmd struct {
	Limit int  `short:"n" default:"20" help:"Number of lookups to show"`
	JSON  bool `help:"Print as JSON"`
}

// Run prints the most recent lookups.
func (c *HistoryCmd) Run(rt *session) error {
	if rt.app.History == nil {
		return fmt.Errorf("history is disabled (YOINKER_HISTORY_DSN=%s)", rt.app.Config.HistoryDSN)
	}

	records, err := rt.app.History.List(c.Limit)
	if err != nil {
		return err
	}

	if c.JSON {
		enc := json.NewEncoder(rt.stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(records)
	}

	printHistory(rt, records)
	return nil
}

func printHistory(rt *session, records []history.Record) {
	if len(records) == 0 {
		fmt.Fprintln(rt.stdout, "No lookups yet.")
		return
	}

	fmt.Fprintf(rt.stdout, "%-16s %-6s %-30s %-12s %-8s %s\n", "WHEN", "METHOD", "PASSAGE", "VERSES", "LENGTH", "DIGEST")
	for _, rec := range records {
		verses := rec.Verses
		if verses == "" {
			verses = "All"
		}
		digest := rec.Digest
		if len(digest) > 12 {
			digest = digest[:12]
		}
		fmt.Fprintf(rt.stdout, "%-16s %-6s %-30s %-12s %-8d %s\n",
			rec.CreatedAt.Local().Format("2006-01-02 15:04"),
			rec.Method,
			rec.Reference(),
			verses,
			rec.Length,
			digest)
	}
}

// VOTDCmd prints the verse of the day.
type VOTDCmd struct {
	Version string `short:"v" default:"NIV" help:"Bible version"`
}

// Run prints the verse of the day.
func (c *VOTDCmd) Run(rt *session) error {
	verse, err := rt.app.VOTD.Fetch(rt.ctx, c.Version)
	if err != nil {
		return err
	}

	fmt.Fprintf(rt.stdout, "%s\n%s\n", verse.Reference, verse.Text)
	return nil
}
