package worker

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/bits-and-blooms/bloom/v3"
	"github.com/robfig/cron/v3"

	"sjsage522/clienreader/helpers"
	"sjsage522/clienreader/internal/crawler"
	"sjsage522/clienreader/logger"
	"sjsage522/clienreader/services/metrics"
	"sjsage522/clienreader/services/publisher"
)

const (
	// MessageKey is the stream field new posts are published under
	MessageKey = "b64_post"

	seenCapacity  = 100000
	seenFalseRate = 0.001
)

// BoardSource fetches one page of a board
type BoardSource interface {
	FetchBoardPosts(ctx context.Context, boardURL string, page int, forceRefresh bool) ([]crawler.PostSummary, error)
}

// PostMessage is the payload published for a newly seen post
type PostMessage struct {
	Board string `json:"board"`
	ID    string `json:"id,omitempty"`
	crawler.PostSummary
	SeenAt time.Time `json:"seen_at"`
}

// Worker polls boards on a schedule and publishes posts it has not seen before
type Worker struct {
	ctx       context.Context
	source    BoardSource
	publisher publisher.Publisher
	boards    []string
	schedule  string
	now       func() time.Time

	mu   sync.Mutex
	seen *bloom.BloomFilter
}

// NewWorker creates a new worker
func NewWorker(
	ctx context.Context,
	source BoardSource,
	pub publisher.Publisher,
	boards []string,
	schedule string,
) *Worker {
	return &Worker{
		ctx:       ctx,
		source:    source,
		publisher: pub,
		boards:    boards,
		schedule:  schedule,
		now:       time.Now,
		seen:      bloom.NewWithEstimates(seenCapacity, seenFalseRate),
	}
}

// Start runs one round immediately, then one per schedule tick until the context is done
func (w *Worker) Start() error {
	log := logger.ForWorker()

	c := cron.New()
	if _, err := c.AddFunc(w.schedule, w.RunOnce); err != nil {
		return err
	}

	w.RunOnce()
	c.Start()
	log.Info().Str("schedule", w.schedule).Strs("boards", w.boards).Msg("watch worker started")

	<-w.ctx.Done()
	<-c.Stop().Done()
	log.Info().Msg("watch worker stopped")
	return nil
}

// RunOnce polls all boards in parallel and then trims the streams
func (w *Worker) RunOnce() {
	start := time.Now()

	var wg sync.WaitGroup
	for _, board := range w.boards {
		wg.Add(1)
		go func(board string) {
			defer wg.Done()
			w.crawlAndPublish(board)
		}(board)
	}
	wg.Wait()

	// Trim all streams after crawling
	if err := w.publisher.TrimStreams(); err != nil {
		logger.ForWorker().Error().Err(err).Msg("stream trimming failed")
	}

	if logger.IsDebugEnabled() {
		logger.ForWorker().Debug().Dur("elapsed", time.Since(start)).Msg("크롤링 소요 시간")
	}
}

// crawlAndPublish fetches the first page of a board and publishes unseen posts
func (w *Worker) crawlAndPublish(board string) {
	log := logger.ForWorker().WithField("board", board)

	posts, err := w.source.FetchBoardPosts(w.ctx, board, 0, true)
	if err != nil {
		log.Error().Err(err).Msg("board fetch failed")
		return
	}

	boardPath := helpers.BoardPath(board)
	if boardPath == "" {
		boardPath = board
	}

	published := 0
	for _, post := range posts {
		if w.isSeen(post.URL) {
			continue
		}

		msg := PostMessage{Board: boardPath, PostSummary: post, SeenAt: w.now()}
		msg.ID, _ = helpers.PostID(post.URL)

		data, err := json.Marshal(msg)
		if err != nil {
			log.Error().Err(err).Msg("post encoding failed")
			continue
		}

		if err := w.publisher.Publish(MessageKey, data); err != nil {
			log.Error().Err(err).Str("url", post.URL).Msg("publish failed")
			continue
		}
		w.markSeen(post.URL)
		published++
	}

	metrics.PublishedPosts.Add(float64(published))
	log.Debug().Int("fetched", len(posts)).Int("published", published).Msg("board polled")
}

func (w *Worker) isSeen(url string) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.seen.TestString(url)
}

// markSeen records url once it has been published
func (w *Worker) markSeen(url string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.seen.AddString(url)
}
