package crawler

import (
	"context"
	"net/url"
	"slices"
	"strings"
	"time"

	"sjsage522/clienreader/helpers"
	"sjsage522/clienreader/logger"
	"sjsage522/clienreader/pkg/errors"
	"sjsage522/clienreader/services/cache"
)

const (
	menuCacheKey = "boards"
	// DefaultMaxPages bounds how many continuation pages FetchFullPost follows
	DefaultMaxPages = 10
)

// Options configures a Repository
type Options struct {
	BaseURL              string
	SkipNotices          bool
	LegacyCommentContent bool

	MenuTTL   time.Duration
	ListTTL   time.Duration
	DetailTTL time.Duration

	// Secondary is the optional second cache tier shared across processes
	Secondary    cache.CacheService
	SecondaryTTL time.Duration

	// BlockCache holds the rate-limit block key; nil disables the block
	BlockCache cache.CacheService
	BlockTime  time.Duration

	Visited VisitedTracker
	Boards  BoardStore
	Clock   cache.Clock
}

// Repository fetches forum pages, runs the extractors and caches the results
type Repository struct {
	BaseCrawler
	list   *ListExtractor
	detail *DetailExtractor

	menuCache   *cache.Tiered[[]BoardRef]
	listCache   *cache.Tiered[[]PostSummary]
	detailCache *cache.Tiered[PostDetail]

	visited VisitedTracker
	boards  BoardStore
}

// NewRepository creates a repository on top of fetcher
func NewRepository(fetcher Fetcher, opts Options) *Repository {
	blockTime := opts.BlockTime
	if blockTime <= 0 {
		blockTime = DefaultBlockTime
	}

	return &Repository{
		BaseCrawler: BaseCrawler{
			Fetcher:   fetcher,
			BaseURL:   strings.TrimRight(opts.BaseURL, "/"),
			CacheKey:  "clien_rate_limited",
			CacheSvc:  opts.BlockCache,
			BlockTime: blockTime,
		},
		list:        NewListExtractor(opts.SkipNotices),
		detail:      NewDetailExtractor(NewCommentExtractor(opts.LegacyCommentContent)),
		menuCache:   cache.NewTiered[[]BoardRef]("menu", opts.MenuTTL, opts.Secondary, opts.SecondaryTTL, opts.Clock),
		listCache:   cache.NewTiered[[]PostSummary]("list", opts.ListTTL, opts.Secondary, opts.SecondaryTTL, opts.Clock),
		detailCache: cache.NewTiered[PostDetail]("detail", opts.DetailTTL, opts.Secondary, opts.SecondaryTTL, opts.Clock),
		visited:     opts.Visited,
		boards:      opts.Boards,
	}
}

// GetName returns the repository name for logging
func (r *Repository) GetName() string {
	return "ClienRepository"
}

// FetchMenuItems returns the static board catalog followed by the user's custom boards
func (r *Repository) FetchMenuItems(ctx context.Context) []BoardRef {
	if boards, ok := r.menuCache.Get(menuCacheKey); ok {
		return slices.Clone(boards)
	}

	boards := StaticBoards(r.BaseURL)
	if r.boards != nil {
		custom, err := r.boards.CustomBoards()
		if err != nil {
			logger.ForCrawler(r.GetName()).Warn().Err(err).Msg("사용자 게시판 목록 조회 실패")
		}
		for _, b := range custom {
			b.URL = r.ResolveURL(b.URL)
			b.Custom = true
			boards = append(boards, b)
		}
	}

	r.menuCache.Set(menuCacheKey, boards)
	return slices.Clone(boards)
}

// AddCustomBoard saves a user board and refreshes the menu
func (r *Repository) AddCustomBoard(title, boardURL string) (BoardRef, error) {
	title = strings.TrimSpace(title)
	boardURL = strings.TrimSpace(boardURL)
	if title == "" || boardURL == "" {
		return BoardRef{}, errors.NewValidation(r.GetName(), "board title and url are required")
	}
	if r.boards == nil {
		return BoardRef{}, errors.NewConfiguration("custom boards need a board store", nil)
	}

	board := BoardRef{Title: title, URL: r.ResolveURL(boardURL), Custom: true}
	if err := r.boards.AddCustomBoard(board); err != nil {
		return BoardRef{}, err
	}
	r.menuCache.Delete(menuCacheKey)
	return board, nil
}

// RemoveCustomBoard deletes a user board and refreshes the menu
func (r *Repository) RemoveCustomBoard(boardURL string) error {
	if r.boards == nil {
		return errors.NewConfiguration("custom boards need a board store", nil)
	}
	if err := r.boards.RemoveCustomBoard(r.ResolveURL(strings.TrimSpace(boardURL))); err != nil {
		return err
	}
	r.menuCache.Delete(menuCacheKey)
	return nil
}

// FetchBoardPosts returns one page of a board. On a transport failure it returns an
// empty slice together with the error.
func (r *Repository) FetchBoardPosts(ctx context.Context, boardURL string, page int, forceRefresh bool) ([]PostSummary, error) {
	if page < 0 {
		return []PostSummary{}, errors.NewValidation(r.GetName(), "page must not be negative")
	}

	log := logger.ForCrawler(r.GetName())
	pageURL := helpers.PageURL(r.ResolveURL(boardURL), page)

	if !forceRefresh {
		if posts, ok := r.listCache.Get(pageURL); ok {
			log.Debug().Str("url", pageURL).Msg("목록 캐시 사용")
			return slices.Clone(posts), nil
		}
	}

	doc, err := r.fetchWithCache(ctx, pageURL)
	if err != nil {
		log.Warn().Err(err).Str("url", pageURL).Msg("목록 요청 실패")
		return []PostSummary{}, err
	}

	posts := r.list.Extract(doc, page)
	if len(posts) > 0 {
		r.listCache.Set(pageURL, posts)
	}
	return slices.Clone(posts), nil
}

// FetchPostDetail returns one post page and marks the post visited.
// A nil detail means the post could not be fetched.
func (r *Repository) FetchPostDetail(ctx context.Context, postURL string, forceRefresh bool) (*PostDetail, error) {
	resolved := r.ResolveURL(postURL)

	detail, err := r.detailFor(ctx, resolved, forceRefresh)
	if err != nil {
		return nil, err
	}

	r.markVisited(resolved, detail.Title)
	return detail, nil
}

func (r *Repository) detailFor(ctx context.Context, postURL string, forceRefresh bool) (*PostDetail, error) {
	log := logger.ForCrawler(r.GetName())

	if !forceRefresh {
		if detail, ok := r.detailCache.Get(postURL); ok {
			log.Debug().Str("url", postURL).Msg("게시글 캐시 사용")
			return cloneDetail(&detail), nil
		}
	}

	doc, err := r.fetchWithCache(ctx, postURL)
	if err != nil {
		log.Warn().Err(err).Str("url", postURL).Msg("게시글 요청 실패")
		return nil, errors.NewNotFound(r.GetName(), "post "+postURL, err)
	}

	detail := r.detail.Extract(doc)
	r.detailCache.Set(postURL, *detail)
	return cloneDetail(detail), nil
}

// FetchFullPost fetches a post and follows its continuation pages, up to maxPages
// pages in total, appending their content, media and comments.
func (r *Repository) FetchFullPost(ctx context.Context, postURL string, forceRefresh bool, maxPages int) (*PostDetail, error) {
	if maxPages <= 0 {
		maxPages = DefaultMaxPages
	}

	first, err := r.FetchPostDetail(ctx, postURL, forceRefresh)
	if err != nil {
		return nil, err
	}

	full := first
	merger := newDetailMerger(full)
	seenPages := map[string]bool{r.ResolveURL(postURL): true}

	for pages := 1; full.NextPageURL != nil && pages < maxPages; pages++ {
		next := *full.NextPageURL
		if seenPages[next] {
			full.NextPageURL = nil
			break
		}
		seenPages[next] = true

		page, err := r.detailFor(ctx, next, forceRefresh)
		if err != nil {
			logger.ForCrawler(r.GetName()).Warn().Err(err).Str("url", next).Msg("다음 페이지 요청 실패")
			break
		}
		merger.merge(page)
	}

	return full, nil
}

// FetchLinkPreview fetches an external page and reads its preview metadata.
// YouTube links still yield a preview with the video ID when the page cannot be fetched.
func (r *Repository) FetchLinkPreview(ctx context.Context, rawURL string) (*LinkPreview, error) {
	target := strings.TrimSpace(rawURL)
	u, err := url.Parse(target)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, errors.NewValidation(r.GetName(), "preview needs an absolute http(s) url")
	}

	previewer := BaseCrawler{Fetcher: r.Fetcher, BaseURL: u.Scheme + "://" + u.Host}
	doc, err := previewer.fetchWithCache(ctx, target)
	if err != nil {
		if id := YouTubeIDFromURL(target); id != "" {
			return &LinkPreview{URL: target, SiteName: "YouTube", YouTubeVideoID: id}, nil
		}
		return nil, err
	}

	return ExtractPreview(doc, target), nil
}

// IsVisited reports whether the post was opened before
func (r *Repository) IsVisited(postURL string) bool {
	if r.visited == nil {
		return false
	}
	visited, err := r.visited.IsVisited(r.ResolveURL(postURL))
	if err != nil {
		logger.ForCrawler(r.GetName()).Warn().Err(err).Msg("방문 기록 조회 실패")
		return false
	}
	return visited
}

func (r *Repository) markVisited(postURL, title string) {
	if r.visited == nil {
		return
	}
	if err := r.visited.MarkVisited(postURL, title); err != nil {
		logger.ForCrawler(r.GetName()).Warn().Err(err).Str("url", postURL).Msg("방문 기록 저장 실패")
	}
}

// cloneDetail copies d so callers never share slices with the cache
func cloneDetail(d *PostDetail) *PostDetail {
	c := *d
	c.ImageURLs = slices.Clone(d.ImageURLs)
	c.YouTubeVideoIDs = slices.Clone(d.YouTubeVideoIDs)
	c.Comments = slices.Clone(d.Comments)
	for i := range c.Comments {
		c.Comments[i].Images = slices.Clone(c.Comments[i].Images)
	}
	if d.NextPageURL != nil {
		next := *d.NextPageURL
		c.NextPageURL = &next
	}
	return &c
}

// detailMerger appends continuation pages onto a post
type detailMerger struct {
	full     *PostDetail
	videos   map[string]bool
	comments map[string]bool
}

func newDetailMerger(full *PostDetail) *detailMerger {
	m := &detailMerger{
		full:     full,
		videos:   make(map[string]bool),
		comments: make(map[string]bool),
	}
	for _, id := range full.YouTubeVideoIDs {
		m.videos[id] = true
	}
	for _, c := range full.Comments {
		m.comments[c.Author+"|"+c.Content] = true
	}
	return m
}

func (m *detailMerger) merge(page *PostDetail) {
	if page.ContentText != "" {
		m.full.ContentText = strings.TrimSpace(m.full.ContentText + "\n\n" + page.ContentText)
	}
	if page.ContentHTML != "" {
		m.full.ContentHTML += "\n" + page.ContentHTML
	}
	m.full.ImageURLs = append(m.full.ImageURLs, page.ImageURLs...)

	for _, id := range page.YouTubeVideoIDs {
		if !m.videos[id] {
			m.videos[id] = true
			m.full.YouTubeVideoIDs = append(m.full.YouTubeVideoIDs, id)
		}
	}
	for _, c := range page.Comments {
		key := c.Author + "|" + c.Content
		if !m.comments[key] {
			m.comments[key] = true
			m.full.Comments = append(m.full.Comments, c)
		}
	}

	if m.full.SourceURL == "" {
		m.full.SourceURL = page.SourceURL
	}
	m.full.NextPageURL = page.NextPageURL
}
