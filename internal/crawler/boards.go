package crawler

import "sjsage522/clienreader/helpers"

// staticBoards is the built-in board catalog, relative to the forum origin
var staticBoards = []BoardRef{
	{Title: "모두의공원", URL: "/service/board/park"},
	{Title: "아무거나질문", URL: "/service/board/kin"},
	{Title: "정보와자료", URL: "/service/board/lecture"},
	{Title: "새로운소식", URL: "/service/board/news"},
	{Title: "사고팔고", URL: "/service/board/sold"},
	{Title: "알뜰구매", URL: "/service/board/jirum"},
	{Title: "회원중고장터", URL: "/service/board/used"},
	{Title: "강좌/사용기", URL: "/service/board/use"},
}

// StaticBoards returns the built-in catalog with absolute URLs
func StaticBoards(baseURL string) []BoardRef {
	boards := make([]BoardRef, len(staticBoards))
	for i, b := range staticBoards {
		b.URL = helpers.ResolveURL(baseURL, b.URL)
		boards[i] = b
	}
	return boards
}
