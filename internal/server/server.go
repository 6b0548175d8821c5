package server

import (
	"html/template"
	"log"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"StockLens/internal/dataset"
	"StockLens/internal/recorder"
)

// Server exposes the analytics engine over a minimal web form and a JSON
// API. It holds the current Dataset behind a lock so the reload job can
// swap in fresh data while requests read; the engine itself is pure, so
// concurrent analyses over one snapshot need no further coordination.
type Server struct {
	mu  sync.RWMutex
	ds  *dataset.Dataset
	rec recorder.Recorder

	page *template.Template
}

// New creates a Server around an initial dataset.
func New(ds *dataset.Dataset, rec recorder.Recorder) *Server {
	return &Server{
		ds:   ds,
		rec:  rec,
		page: template.Must(template.New("index").Parse(indexPage)),
	}
}

// Swap replaces the current dataset. Requests already holding the old
// snapshot finish against it.
func (s *Server) Swap(ds *dataset.Dataset) {
	s.mu.Lock()
	s.ds = ds
	s.mu.Unlock()
	log.Printf("[INFO] server dataset swapped: %d rows", ds.Len())
}

func (s *Server) current() *dataset.Dataset {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.ds
}

// Router builds the HTTP routes.
func (s *Server) Router() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Get("/", s.handleIndex)
	r.Get("/health", s.handleHealth)

	r.Route("/api", func(r chi.Router) {
		r.Get("/summary", s.handleSummary)
		r.Get("/returns", s.handleReturns)
		r.Get("/correlation", s.handleCorrelation)
		r.Get("/matrix", s.handleMatrix)
		r.Get("/best", s.handleBest)
	})

	return r
}

const indexPage = `<!DOCTYPE html>
<html>
<head><title>StockLens</title>
<style>
body { font-family: sans-serif; margin: 2em; max-width: 70em; }
fieldset { margin-bottom: 1em; }
pre { background: #f4f4f4; padding: 1em; overflow-x: auto; }
.error { color: #a00; }
</style>
</head>
<body>
<h1>StockLens</h1>
<p>Descriptive analytics over daily price history for {{.Symbols}}.</p>

<fieldset>
<legend>Top-performing stock</legend>
<form method="get" action="/">
<input type="hidden" name="analysis" value="best">
Start date: <input type="date" name="date" value="{{.Date}}">
Period: <select name="period"><option>month</option><option>year</option></select>
<button type="submit">Find best stock</button>
</form>
</fieldset>

<fieldset>
<legend>Return rates</legend>
<form method="get" action="/">
<input type="hidden" name="analysis" value="returns">
Period: <select name="period"><option>week</option><option selected>month</option><option>year</option></select>
<button type="submit">Calculate return rates</button>
</form>
</fieldset>

<fieldset>
<legend>Correlation between stocks</legend>
<form method="get" action="/">
<input type="hidden" name="analysis" value="correlation">
Symbol A: <input name="a" size="6" value="AAPL">
Symbol B: <input name="b" size="6" value="MSFT">
Field: <input name="field" size="12" value="close">
<button type="submit">Calculate correlation</button>
</form>
</fieldset>

{{if .Error}}<p class="error">{{.Error}}</p>{{end}}
{{if .Result}}<h2>{{.Title}}</h2><pre>{{.Result}}</pre>{{end}}
</body>
</html>
`
