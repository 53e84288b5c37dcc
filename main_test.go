package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/alecthomas/kong"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sjsage522/clienreader/config"
	"sjsage522/clienreader/internal/crawler"
	"sjsage522/clienreader/pkg/errors"
)

const boardHTML = `<html><body><div class="list_content">
<div class="list_item symph_row">
  <div class="list_title">
    <a class="list_subject" href="/service/board/park/101">
      <span data-role="list-title-text" title="첫 번째 글">첫 번째 글</span>
    </a>
  </div>
  <span class="nickname">작성자</span>
  <span class="hit">12</span>
</div>
<div class="list_item symph_row">
  <div class="list_title">
    <a class="list_subject" href="/service/board/park/102">
      <span data-role="list-title-text" title="두 번째 글">두 번째 글</span>
    </a>
  </div>
</div>
</div></body></html>`

const postHTML = `<html><body>
<h3 class="post_subject"><span>첫 번째 글</span></h3>
<div class="post_content"><article><div class="post_article"><p>본문 <strong>강조</strong></p></div></article></div>
<div class="comment">
  <div class="comment_row">
    <span class="nickname">댓글러</span>
    <div class="comment_view">반가워요</div>
  </div>
</div>
</body></html>`

// newForum serves a minimal forum with one board and one post
func newForum(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/service/board/park", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, boardHTML)
	})
	mux.HandleFunc("/service/board/park/101", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, postHTML)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func newTestMain(t *testing.T, baseURL string) *Main {
	t.Helper()
	cfg := config.LoadConfig()
	cfg.BaseURL = baseURL
	cfg.CacheBackend = config.CacheBackendSQLite
	cfg.SQLitePath = filepath.Join(t.TempDir(), "clien.db")
	cfg.FetchRPS = 100
	cfg.FetchTimeout = 5 * time.Second

	m := NewMain()
	m.Config = cfg
	return m
}

func TestCLI_HelpShowsAllCommands(t *testing.T) {
	cli := &CLI{}
	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}

	parser, err := kong.New(cli,
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}),
	)
	require.NoError(t, err)

	_, _ = parser.Parse([]string{"--help"})

	helpOutput := stdout.String()
	for _, cmd := range []string{"boards", "list", "post", "preview", "visited", "board", "watch"} {
		assert.Contains(t, helpOutput, cmd, "Help should mention %s command", cmd)
	}
}

func TestMain_Run_NoArgs(t *testing.T) {
	stdout := &bytes.Buffer{}
	err := NewMain().Run(context.Background(), nil, stdout, &bytes.Buffer{})
	assert.Error(t, err)
	assert.Contains(t, stdout.String(), "Usage")
}

func TestMain_Run_InvalidConfig(t *testing.T) {
	m := newTestMain(t, "not-a-url")
	err := m.Run(context.Background(), []string{"boards"}, &bytes.Buffer{}, &bytes.Buffer{})
	assert.Error(t, err)
}

func TestMain_Run_Boards(t *testing.T) {
	m := newTestMain(t, "https://m.clien.net")
	stdout := &bytes.Buffer{}

	err := m.Run(context.Background(), []string{"boards", "--json"}, stdout, &bytes.Buffer{})
	require.NoError(t, err)

	var boards []crawler.BoardRef
	require.NoError(t, json.Unmarshal(stdout.Bytes(), &boards))
	require.NotEmpty(t, boards)
	assert.Equal(t, "https://m.clien.net/service/board/park", boards[0].URL)
}

func TestMain_Run_ListAndPost(t *testing.T) {
	srv := newForum(t)
	m := newTestMain(t, srv.URL)

	stdout := &bytes.Buffer{}
	err := m.Run(context.Background(), []string{"list", "/service/board/park"}, stdout, &bytes.Buffer{})
	require.NoError(t, err)
	assert.Contains(t, stdout.String(), "첫 번째 글")
	assert.Contains(t, stdout.String(), srv.URL+"/service/board/park/102")

	stdout.Reset()
	err = m.Run(context.Background(), []string{"post", "/service/board/park/101", "--markdown"}, stdout, &bytes.Buffer{})
	require.NoError(t, err)
	assert.Contains(t, stdout.String(), "# 첫 번째 글")
	assert.Contains(t, stdout.String(), "**강조**")
	assert.Contains(t, stdout.String(), "댓글러: 반가워요")

	// the post is now marked visited
	stdout.Reset()
	err = m.Run(context.Background(), []string{"visited"}, stdout, &bytes.Buffer{})
	require.NoError(t, err)
	assert.Contains(t, stdout.String(), srv.URL+"/service/board/park/101")

	stdout.Reset()
	err = m.Run(context.Background(), []string{"visited", "clear"}, stdout, &bytes.Buffer{})
	require.NoError(t, err)

	stdout.Reset()
	err = m.Run(context.Background(), []string{"visited"}, stdout, &bytes.Buffer{})
	require.NoError(t, err)
	assert.Contains(t, stdout.String(), "방문한 게시글이 없습니다.")
}

func TestMain_Run_CustomBoards(t *testing.T) {
	m := newTestMain(t, "https://m.clien.net")

	stdout := &bytes.Buffer{}
	err := m.Run(context.Background(), []string{"board", "add", "굴러간당", "/service/board/cm_car"}, stdout, &bytes.Buffer{})
	require.NoError(t, err)
	assert.Contains(t, stdout.String(), "https://m.clien.net/service/board/cm_car")

	stdout.Reset()
	require.NoError(t, m.Run(context.Background(), []string{"boards"}, stdout, &bytes.Buffer{}))
	assert.Contains(t, stdout.String(), "굴러간당 *")

	stdout.Reset()
	require.NoError(t, m.Run(context.Background(), []string{"board", "remove", "/service/board/cm_car"}, stdout, &bytes.Buffer{}))

	stdout.Reset()
	require.NoError(t, m.Run(context.Background(), []string{"boards"}, stdout, &bytes.Buffer{}))
	assert.NotContains(t, stdout.String(), "굴러간당")
}

func TestMain_Run_PreviewRejectsRelativeURL(t *testing.T) {
	m := newTestMain(t, "https://m.clien.net")
	stderr := &bytes.Buffer{}

	err := m.Run(context.Background(), []string{"preview", "/relative"}, &bytes.Buffer{}, stderr)
	assert.True(t, errors.Is(err, errors.ErrorTypeValidation))
	assert.Empty(t, stderr.String(), "errors are reported once, by main")
}
