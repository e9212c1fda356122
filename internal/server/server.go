// Package server exposes script replay over HTTP.
//
// Every request replays its script against a fresh session, so requests
// never share model state. Reports are cached by script, output format and
// configuration.
//
// # Routes
//
//	GET  /healthz            liveness probe
//	GET  /v1/config          effective configuration as TOML
//	POST /v1/replay          replay the script in the request body
//
// /v1/replay accepts the query parameters format (json, dot or svg),
// sheet (sheet to export, default the first) and snapshot (embed the model
// snapshot in json reports).
package server

import (
	"bytes"
	"encoding/json"
	stderrors "errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/netedit/pkg/cache"
	"github.com/matzehuels/netedit/pkg/config"
	"github.com/matzehuels/netedit/pkg/errors"
	"github.com/matzehuels/netedit/pkg/netgraph"
	"github.com/matzehuels/netedit/pkg/script"
)

// DefaultMaxScriptBytes limits the size of a request body.
const DefaultMaxScriptBytes = 1 << 20

// Output formats of /v1/replay.
const (
	FormatJSON = "json"
	FormatDOT  = "dot"
	FormatSVG  = "svg"
)

var contentTypes = map[string]string{
	FormatJSON: "application/json",
	FormatDOT:  "text/vnd.graphviz",
	FormatSVG:  "image/svg+xml",
}

// Options configures a Server.
type Options struct {
	Config         *config.Config
	Cache          cache.Cache   // nil disables caching
	TTL            time.Duration // lifetime of cached reports, 0 for no expiry
	Logger         *log.Logger
	MaxScriptBytes int64
}

// Server serves replay requests.
type Server struct {
	opts   Options
	parser *script.Parser
}

// New creates a server. Missing options fall back to defaults.
func New(opts Options) (*Server, error) {
	if opts.Config == nil {
		opts.Config = config.Default()
	}
	if opts.Cache == nil {
		opts.Cache = cache.NewNullCache()
	}
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}
	if opts.MaxScriptBytes <= 0 {
		opts.MaxScriptBytes = DefaultMaxScriptBytes
	}
	parser, err := script.NewParser()
	if err != nil {
		return nil, err
	}
	return &Server{opts: opts, parser: parser}, nil
}

// Handler returns the HTTP handler with all routes.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok\n"))
	})
	r.Route("/v1", func(r chi.Router) {
		r.Get("/config", s.handleConfig)
		r.Post("/replay", s.handleReplay)
	})
	return r
}

func (s *Server) handleConfig(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(s.opts.Config); err != nil {
		writeError(w, http.StatusInternalServerError, "", err.Error())
		return
	}
	w.Header().Set("Content-Type", "application/toml")
	w.Write(buf.Bytes())
}

func (s *Server) handleReplay(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	format := q.Get("format")
	if format == "" {
		format = FormatJSON
	}
	if _, ok := contentTypes[format]; !ok {
		writeError(w, http.StatusBadRequest, errors.ErrCodeInvalidInput, "unknown format "+strconv.Quote(format))
		return
	}
	sheetName := q.Get("sheet")
	withSnapshot := q.Get("snapshot") == "1" || q.Get("snapshot") == "true"

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, s.opts.MaxScriptBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if stderrors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, errors.ErrCodeInvalidInput, "script too large")
			return
		}
		writeError(w, http.StatusBadRequest, errors.ErrCodeInvalidInput, err.Error())
		return
	}

	ctx := r.Context()
	key := cache.Key("replay", string(body), format, sheetName, withSnapshot, s.opts.Config)
	if data, hit, err := s.opts.Cache.Get(ctx, key); err != nil {
		s.opts.Logger.Warn("cache read failed", "error", err)
	} else if hit {
		w.Header().Set("X-Cache", "hit")
		w.Header().Set("Content-Type", contentTypes[format])
		w.Write(data)
		return
	}

	sc, err := s.parser.Parse("request", bytes.NewReader(body))
	if err != nil {
		writeError(w, http.StatusBadRequest, errors.ErrCodeParse, err.Error())
		return
	}
	res, err := script.NewRunner(s.opts.Config, s.opts.Logger).Run(ctx, sc)
	if err != nil {
		switch {
		case ctx.Err() != nil:
			return
		case errors.Is(err, errors.ErrCodeExpectation):
			writeError(w, http.StatusUnprocessableEntity, errors.ErrCodeExpectation, err.Error())
		default:
			writeError(w, http.StatusInternalServerError, errors.GetCode(err), err.Error())
		}
		return
	}

	data, status, err := s.render(r, res, format, sheetName, withSnapshot)
	if err != nil {
		writeError(w, status, errors.GetCode(err), errors.UserMessage(err))
		return
	}
	if err := s.opts.Cache.Set(ctx, key, data, s.opts.TTL); err != nil {
		s.opts.Logger.Warn("cache write failed", "error", err)
	}
	w.Header().Set("X-Cache", "miss")
	w.Header().Set("Content-Type", contentTypes[format])
	w.Write(data)
}

func (s *Server) render(r *http.Request, res *script.Result, format, sheetName string, withSnapshot bool) ([]byte, int, error) {
	if format == FormatJSON {
		data, err := json.Marshal(script.NewReport(res, withSnapshot))
		return data, http.StatusInternalServerError, err
	}

	sheet := res.Session.Sheet(sheetName)
	if sheetName == "" {
		if sheets := res.Session.Sheets(); len(sheets) > 0 {
			sheet = sheets[0]
		}
	}
	if sheet == nil {
		return nil, http.StatusNotFound, errors.New(errors.ErrCodeInvalidInput, "no sheet %q", sheetName)
	}
	dot := netgraph.ToDOT(sheet, res.Session.Circuit, netgraph.DOTOptions{})
	if format == FormatDOT {
		return []byte(dot), 0, nil
	}
	svg, err := netgraph.RenderSVG(r.Context(), dot)
	return svg, http.StatusInternalServerError, err
}

// errorBody is the JSON body of failed requests.
type errorBody struct {
	Code    errors.Code `json:"code,omitempty"`
	Message string      `json:"message"`
}

func writeError(w http.ResponseWriter, status int, code errors.Code, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(errorBody{Code: code, Message: msg})
}

// logRequests logs every request at info level once it completes.
func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		defer func() {
			s.opts.Logger.Info("request",
				"id", middleware.GetReqID(r.Context()),
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"duration", time.Since(start).Round(time.Microsecond))
		}()
		next.ServeHTTP(ww, r)
	})
}
