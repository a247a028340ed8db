package cli

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/spf13/cobra"

	"github.com/matzehuels/lineage/pkg/buildinfo"
	"github.com/matzehuels/lineage/pkg/cache"
	perrors "github.com/matzehuels/lineage/pkg/errors"
	"github.com/matzehuels/lineage/pkg/gedcom"
	"github.com/matzehuels/lineage/pkg/graph"
	"github.com/matzehuels/lineage/pkg/observability"
	"github.com/matzehuels/lineage/pkg/pipeline"
)

const (
	headerDocumentID = "X-Document-ID"
	shutdownTimeout  = 5 * time.Second
	requestTimeout   = 30 * time.Second
	defaultCacheTTL  = 10 * time.Minute
)

// serveCommand creates the serve command, which exposes the queries over HTTP.
func (c *CLI) serveCommand() *cobra.Command {
	var addr string
	var cacheTTL time.Duration

	cmd := &cobra.Command{
		Use:   "serve <file>",
		Short: "Serve kinship queries over a JSON API",
		Long: `Serve kinship queries for one document over a JSON API.

Routes:
  GET /individuals              ?q= filters by name
  GET /individuals/{id}
  GET /families/{id}
  GET /hierarchy/{id}
  GET /hourglass/{id}           ?up=&down=
  GET /connections/{id}         ?mode=strict|permissive
  GET /tree/{id}                ?direction=ancestors|descendants&depth=
  GET /roles/{id}
  GET /graph                    ?root=&format=json|dot|svg
  GET /version

Every response carries the document id in the X-Document-ID header.
Rendered graphs are cached in memory for --cache-ttl; 0 disables caching.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("addr") {
				addr = c.Config.Serve.Addr
			}
			runner, src, err := c.load(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			var artifacts cache.Cache = cache.NewNullCache()
			if cacheTTL > 0 {
				artifacts = cache.NewMemoryCache()
			}
			defer artifacts.Close()

			srv := newServer(runner, src, c.baseOptions(), c.Logger)
			srv.cache = cache.Scoped(artifacts, src.ID)
			srv.cacheTTL = cacheTTL
			return srv.listen(cmd.Context(), addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", defaultAddr, "listen address")
	cmd.Flags().DurationVar(&cacheTTL, "cache-ttl", defaultCacheTTL, "how long rendered graphs are cached (0 disables)")

	return cmd
}

// =============================================================================
// Server
// =============================================================================

// server answers queries against one loaded document. Handlers only read the
// document, so they run concurrently without locking.
type server struct {
	runner   *pipeline.Runner
	src      *pipeline.Source
	opts     pipeline.Options
	logger   *log.Logger
	cache    cache.Cache
	cacheTTL time.Duration
}

func newServer(runner *pipeline.Runner, src *pipeline.Source, opts pipeline.Options, logger *log.Logger) *server {
	return &server{
		runner: runner,
		src:    src,
		opts:   opts,
		logger: logger,
		cache:  cache.NewNullCache(),
	}
}

// routes builds the chi router.
func (s *server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(requestTimeout))
	r.Use(s.observe)
	r.Use(s.documentHeader)

	r.Get("/version", s.handleVersion)
	r.Get("/individuals", s.handleIndividuals)
	r.Get("/individuals/{id}", s.handlePerson)
	r.Get("/families/{id}", s.handleFamily)
	r.Get("/hierarchy/{id}", s.handleHierarchy)
	r.Get("/hourglass/{id}", s.handleHourglass)
	r.Get("/connections/{id}", s.handleConnections)
	r.Get("/tree/{id}", s.handleTree)
	r.Get("/roles/{id}", s.handleRoles)
	r.Get("/graph", s.handleGraph)

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, perrors.New(perrors.ErrCodeNotFound, "no route for %s", r.URL.Path))
	})
	return r
}

// listen serves until ctx is cancelled, then shuts down gracefully.
func (s *server) listen(ctx context.Context, addr string) error {
	httpSrv := &http.Server{
		Addr:              addr,
		Handler:           s.routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		s.logger.Info("serving", "addr", addr, "document", s.src.ID, "individuals", s.src.Doc.NumIndividuals())
		errc <- httpSrv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// =============================================================================
// Middleware
// =============================================================================

// observe reports each request to the HTTP hooks.
func (s *server) observe(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hooks := observability.HTTP()
		hooks.OnRequest(r.Context(), r.Method, r.URL.Path)
		start := time.Now()

		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := r.URL.Path
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			route = rctx.RoutePattern()
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		hooks.OnResponse(r.Context(), r.Method, route, status, time.Since(start))
	})
}

// documentHeader stamps every response with the document id.
func (s *server) documentHeader(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set(headerDocumentID, s.src.ID)
		next.ServeHTTP(w, r)
	})
}

// =============================================================================
// Handlers
// =============================================================================

func (s *server) handleVersion(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, buildinfo.Get())
}

func (s *server) handleIndividuals(w http.ResponseWriter, r *http.Request) {
	q := strings.ToLower(strings.TrimSpace(r.URL.Query().Get("q")))
	people := make([]graph.PersonSummary, 0, s.src.Doc.NumIndividuals())
	for _, ind := range s.src.Doc.Individuals() {
		if q != "" && !strings.Contains(strings.ToLower(ind.DisplayName()), q) {
			continue
		}
		people = append(people, graph.Summarize(ind))
	}
	writeJSON(w, http.StatusOK, people)
}

func (s *server) handlePerson(w http.ResponseWriter, r *http.Request) {
	p, err := s.runner.Person(s.src, chi.URLParam(r, "id"))
	respond(w, p, err)
}

func (s *server) handleFamily(w http.ResponseWriter, r *http.Request) {
	f, err := s.runner.Family(s.src, chi.URLParam(r, "id"))
	respond(w, f, err)
}

func (s *server) handleHierarchy(w http.ResponseWriter, r *http.Request) {
	h, err := s.runner.Hierarchy(r.Context(), s.src, chi.URLParam(r, "id"))
	respond(w, h, err)
}

func (s *server) handleHourglass(w http.ResponseWriter, r *http.Request) {
	opts := s.opts
	var err error
	if opts.Up, err = intParam(r, "up", opts.Up); err != nil {
		writeError(w, err)
		return
	}
	if opts.Down, err = intParam(r, "down", opts.Down); err != nil {
		writeError(w, err)
		return
	}
	hg, err := s.runner.Hourglass(r.Context(), s.src, chi.URLParam(r, "id"), opts)
	respond(w, hg, err)
}

func (s *server) handleConnections(w http.ResponseWriter, r *http.Request) {
	opts := s.opts
	if mode := r.URL.Query().Get("mode"); mode != "" {
		opts.Mode = mode
	}
	conns, err := s.runner.Connections(r.Context(), s.src, chi.URLParam(r, "id"), opts)
	respond(w, conns, err)
}

func (s *server) handleTree(w http.ResponseWriter, r *http.Request) {
	direction := r.URL.Query().Get("direction")
	if direction == "" {
		direction = pipeline.DirectionDescendants
	}
	depth, err := intParam(r, "depth", 0)
	if err != nil {
		writeError(w, err)
		return
	}
	tree, err := s.runner.Tree(r.Context(), s.src, chi.URLParam(r, "id"), direction, depth)
	respond(w, tree, err)
}

func (s *server) handleRoles(w http.ResponseWriter, r *http.Request) {
	fd, err := s.runner.FamilyDiagram(r.Context(), s.src, chi.URLParam(r, "id"))
	respond(w, fd, err)
}

func (s *server) handleGraph(w http.ResponseWriter, r *http.Request) {
	format := strings.ToLower(r.URL.Query().Get("format"))
	if format == "" {
		format = pipeline.FormatJSON
	}
	if err := perrors.ValidateFormat(format, pipeline.FormatJSON, pipeline.FormatDOT, pipeline.FormatSVG); err != nil {
		writeError(w, err)
		return
	}
	root := gedcom.NormalizeID(r.URL.Query().Get("root"))

	key := cache.ArtifactKey(root, format, s.opts.Detailed)
	data, hit, err := s.cache.Get(r.Context(), key)
	if err != nil {
		s.logger.Warn("cache read failed", "err", err)
	}
	if !hit {
		if data, err = s.renderGraph(r.Context(), root, format); err != nil {
			writeError(w, err)
			return
		}
		if err := s.cache.Set(r.Context(), key, data, s.cacheTTL); err != nil {
			s.logger.Warn("cache write failed", "err", err)
		}
	}

	switch format {
	case pipeline.FormatSVG:
		w.Header().Set("Content-Type", "image/svg+xml")
	case pipeline.FormatDOT:
		w.Header().Set("Content-Type", "text/vnd.graphviz; charset=utf-8")
	default:
		w.Header().Set("Content-Type", "application/json")
	}
	w.Header().Set("ETag", `"`+cache.Hash(data)+`"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

// renderGraph lays out the person graph around root and renders one format.
func (s *server) renderGraph(ctx context.Context, root, format string) ([]byte, error) {
	g, err := s.runner.Layout(ctx, s.src, root)
	if err != nil {
		return nil, err
	}
	data, err := pipeline.RenderFormat(g, format, s.opts)
	if err != nil {
		return nil, perrors.Wrap(perrors.ErrCodeInternal, err, "render %s", format)
	}
	return data, nil
}

// =============================================================================
// Helpers
// =============================================================================

// intParam reads an optional integer query parameter.
func intParam(r *http.Request, name string, def int) (int, error) {
	v := r.URL.Query().Get(name)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, perrors.Wrap(perrors.ErrCodeInvalidLimit, err, "%s must be an integer, got %q", name, v)
	}
	return n, nil
}

// errorResponse is the JSON body of every failed request.
type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

func respond(w http.ResponseWriter, v any, err error) {
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, v)
}

func writeError(w http.ResponseWriter, err error) {
	code := perrors.GetCode(err)
	if code == "" {
		code = perrors.ErrCodeInternal
	}
	writeJSON(w, perrors.HTTPStatus(err), errorResponse{Error: string(code), Message: perrors.UserMessage(err)})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = graph.WriteJSON(v, w)
}
