package server

import (
	_ "embed"
	"html/template"
	"net/http"

	"github.com/evanschultz/projboard/internal/adapters/server/common"
)

//go:embed board_page.tmpl
var boardPageSource string

var boardPage = template.Must(template.New("board").Parse(boardPageSource))

// boardPageData is the template input for the browser board.
type boardPageData struct {
	Name        string
	APIEndpoint string
	Board       common.BoardSnapshot
}

// boardPageHandler renders the browser board with drag-and-drop lists.
func boardPageHandler(cfg Config, service common.BoardService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}
		if r.Method != http.MethodGet && r.Method != http.MethodHead {
			w.Header().Set("Allow", "GET, HEAD")
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		snapshot, err := service.Board(r.Context())
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		if err := boardPage.Execute(w, boardPageData{
			Name:        cfg.ServerName,
			APIEndpoint: cfg.APIEndpoint,
			Board:       snapshot,
		}); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
	}
}
