package main

import (
	"encoding/json"
	"fmt"
	"io"

	"sjsage522/clienreader/internal/crawler"
	"sjsage522/clienreader/internal/render"
	"sjsage522/clienreader/logger"
	"sjsage522/clienreader/services/metrics"
	"sjsage522/clienreader/services/publisher"
	"sjsage522/clienreader/services/worker"
)

// Run executes the boards command.
func (c *BoardsCmd) Run(deps *Dependencies) error {
	boards := deps.Repo.FetchMenuItems(deps.Ctx)
	if c.JSON {
		return writeJSON(deps.Stdout, boards)
	}
	render.Boards(deps.Stdout, boards)
	return nil
}

// Run executes the list command.
func (c *ListCmd) Run(deps *Dependencies) error {
	posts, err := deps.Repo.FetchBoardPosts(deps.Ctx, c.Board, c.Page, c.Force)
	if err != nil {
		return err
	}

	if c.JSON {
		return writeJSON(deps.Stdout, posts)
	}
	render.Posts(deps.Stdout, posts, deps.Repo.IsVisited)
	return nil
}

// Run executes the post command.
func (c *PostCmd) Run(deps *Dependencies) error {
	var (
		detail *crawler.PostDetail
		err    error
	)
	if c.Full {
		detail, err = deps.Repo.FetchFullPost(deps.Ctx, c.URL, c.Force, c.MaxPages)
	} else {
		detail, err = deps.Repo.FetchPostDetail(deps.Ctx, c.URL, c.Force)
	}
	if err != nil {
		return err
	}

	if c.JSON {
		return writeJSON(deps.Stdout, detail)
	}

	var conv *render.Converter
	if c.Markdown {
		conv = deps.Converter
	}
	return render.Post(deps.Stdout, detail, conv)
}

// Run executes the preview command.
func (c *PreviewCmd) Run(deps *Dependencies) error {
	preview, err := deps.Repo.FetchLinkPreview(deps.Ctx, c.URL)
	if err != nil {
		return err
	}

	if c.JSON {
		return writeJSON(deps.Stdout, preview)
	}
	render.Preview(deps.Stdout, preview)
	return nil
}

// Run executes the visited list command.
func (c *VisitedListCmd) Run(deps *Dependencies) error {
	posts, err := deps.Store.VisitedPosts(c.Limit)
	if err != nil {
		return err
	}

	if len(posts) == 0 {
		fmt.Fprintln(deps.Stdout, "방문한 게시글이 없습니다.")
		return nil
	}
	for _, p := range posts {
		fmt.Fprintf(deps.Stdout, "%s  %s\n  %s\n", p.VisitedAt.Format("2006-01-02 15:04"), p.Title, p.URL)
	}
	return nil
}

// Run executes the visited clear command.
func (c *VisitedClearCmd) Run(deps *Dependencies) error {
	if err := deps.Store.ClearVisited(); err != nil {
		return err
	}
	fmt.Fprintln(deps.Stdout, "방문 기록을 삭제했습니다.")
	return nil
}

// Run executes the board add command.
func (c *BoardAddCmd) Run(deps *Dependencies) error {
	board, err := deps.Repo.AddCustomBoard(c.Title, c.URL)
	if err != nil {
		return err
	}
	fmt.Fprintf(deps.Stdout, "추가됨: %s\t%s\n", board.Title, board.URL)
	return nil
}

// Run executes the board remove command.
func (c *BoardRemoveCmd) Run(deps *Dependencies) error {
	if err := deps.Repo.RemoveCustomBoard(c.URL); err != nil {
		return err
	}
	fmt.Fprintf(deps.Stdout, "삭제됨: %s\n", c.URL)
	return nil
}

// Run executes the watch command.
func (c *WatchCmd) Run(deps *Dependencies) error {
	cfg := deps.Config
	log := logger.ForComponent("watch")

	boards := c.Boards
	if len(boards) == 0 {
		boards = cfg.WatchBoards
	}
	schedule := c.Schedule
	if schedule == "" {
		schedule = cfg.WatchSchedule
	}

	// Initialize publisher
	pub := publisher.NewRedisPublisher(
		deps.Ctx,
		cfg.RedisAddr,
		cfg.RedisDB,
		cfg.RedisStream,
		cfg.RedisStreamCount,
		cfg.RedisStreamMaxLength,
	)
	defer pub.Close()
	if err := pub.Ping(); err != nil {
		return fmt.Errorf("failed to connect to redis at %s: %w", cfg.RedisAddr, err)
	}

	logger.Info("Connected to Redis at %s (DB: %d, Stream: %s)",
		cfg.RedisAddr, cfg.RedisDB, cfg.RedisStream)

	w := worker.NewWorker(deps.Ctx, deps.Repo, pub, boards, schedule)
	if c.Once {
		w.RunOnce()
		return nil
	}

	metrics.StartServer(deps.Ctx, cfg.MetricsAddr)

	log.Info().
		Str("environment", cfg.Environment).
		Strs("boards", boards).
		Str("schedule", schedule).
		Msg("Starting board watcher")

	if err := w.Start(); err != nil {
		log.Error().Err(err).Msg("Worker exited with error")
		return err
	}

	log.Info().Msg("Shutting down gracefully...")
	return nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
