package main

import (
	"context"
	"io"

	"sjsage522/clienreader/config"
	"sjsage522/clienreader/internal/crawler"
	"sjsage522/clienreader/internal/render"
	"sjsage522/clienreader/services/store"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx       context.Context
	Stdout    io.Writer
	Stderr    io.Writer
	Config    *config.Config
	Repo      *crawler.Repository
	Store     *store.Store
	Converter *render.Converter
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	Boards  BoardsCmd  `cmd:"" help:"List the board catalog including custom boards"`
	List    ListCmd    `cmd:"" help:"List posts of a board page"`
	Post    PostCmd    `cmd:"" help:"Show a post with its comments"`
	Preview PreviewCmd `cmd:"" help:"Show link preview metadata of an external page"`
	Visited VisitedCmd `cmd:"" help:"Show or clear visited posts"`
	Board   BoardCmd   `cmd:"" help:"Manage custom boards"`
	Watch   WatchCmd   `cmd:"" help:"Poll boards and publish new posts to Redis streams"`
}

// BoardsCmd is the "boards" subcommand.
type BoardsCmd struct {
	JSON bool `help:"Print JSON"`
}

// ListCmd is the "list" subcommand.
type ListCmd struct {
	Board string `arg:"" help:"Board path or URL, e.g. /service/board/park"`
	Page  int    `short:"p" default:"0" help:"Zero-based page number"`
	Force bool   `short:"f" help:"Bypass the cache"`
	JSON  bool   `help:"Print JSON"`
}

// PostCmd is the "post" subcommand.
type PostCmd struct {
	URL      string `arg:"" help:"Post path or URL"`
	Full     bool   `help:"Follow continuation pages"`
	MaxPages int    `default:"10" help:"Maximum pages to follow with --full"`
	Markdown bool   `short:"m" help:"Render the body as Markdown"`
	Force    bool   `short:"f" help:"Bypass the cache"`
	JSON     bool   `help:"Print JSON"`
}

// PreviewCmd is the "preview" subcommand.
type PreviewCmd struct {
	URL  string `arg:"" help:"Absolute http(s) URL"`
	JSON bool   `help:"Print JSON"`
}

// VisitedCmd groups the visited post subcommands.
type VisitedCmd struct {
	List  VisitedListCmd  `cmd:"" default:"1" help:"List recently visited posts"`
	Clear VisitedClearCmd `cmd:"" help:"Forget all visited posts"`
}

// VisitedListCmd is the "visited list" subcommand.
type VisitedListCmd struct {
	Limit int `short:"n" default:"20" help:"Number of posts to show"`
}

// VisitedClearCmd is the "visited clear" subcommand.
type VisitedClearCmd struct{}

// BoardCmd groups the custom board subcommands.
type BoardCmd struct {
	Add    BoardAddCmd    `cmd:"" help:"Add a custom board"`
	Remove BoardRemoveCmd `cmd:"" help:"Remove a custom board"`
}

// BoardAddCmd is the "board add" subcommand.
type BoardAddCmd struct {
	Title string `arg:"" help:"Board title"`
	URL   string `arg:"" help:"Board path or URL"`
}

// BoardRemoveCmd is the "board remove" subcommand.
type BoardRemoveCmd struct {
	URL string `arg:"" help:"Board path or URL"`
}

// WatchCmd is the "watch" subcommand.
type WatchCmd struct {
	Boards   []string `help:"Boards to poll (default from WATCH_BOARDS)"`
	Schedule string   `help:"Cron schedule (default from WATCH_SCHEDULE)"`
	Once     bool     `help:"Run a single round and exit"`
}
