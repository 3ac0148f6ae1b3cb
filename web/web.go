// Package web hosts egress-enforced handlers on a chi router.
//
// Every handler result passes through an egress.Interceptor before it is
// encoded. Rejections never reach the client as anything other than a
// generic 500 body; the rejection detail goes to the log.
package web

import (
	"errors"
	"net/http"
	"sort"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/zoobzio/egress"
	"github.com/zoobzio/egress/json"
)

// HandlerFunc produces a result for a request. A returned error bypasses
// the interceptor and is rendered as an error response.
type HandlerFunc func(r *http.Request) (*Result, error)

// Route pairs a registered pattern with its endpoint metadata.
type Route struct {
	Method   string
	Pattern  string
	Endpoint *egress.Endpoint
}

// Mux routes requests to handlers and enforces the return policy on their
// results.
type Mux struct {
	router      chi.Router
	interceptor *egress.Interceptor
	logger      *zap.Logger
	codecs      []egress.Codec
	routes      []Route
}

// Option configures a Mux.
type Option func(*Mux)

// WithLogger sets the logger. The default is a no-op logger.
func WithLogger(l *zap.Logger) Option {
	return func(m *Mux) {
		if l != nil {
			m.logger = l
		}
	}
}

// WithCodecs replaces the response codecs. The first codec is used when the
// Accept header matches none of them.
func WithCodecs(codecs ...egress.Codec) Option {
	return func(m *Mux) {
		if len(codecs) > 0 {
			m.codecs = codecs
		}
	}
}

// WithRouter mounts handlers on an existing router.
func WithRouter(r chi.Router) Option {
	return func(m *Mux) {
		if r != nil {
			m.router = r
		}
	}
}

// New creates a Mux enforcing ic.
func New(ic *egress.Interceptor, opts ...Option) *Mux {
	m := &Mux{
		router:      chi.NewRouter(),
		interceptor: ic,
		logger:      zap.NewNop(),
		codecs:      []egress.Codec{json.New()},
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Router returns the underlying chi router for middleware and mounting.
func (m *Mux) Router() chi.Router {
	return m.router
}

// ServeHTTP implements http.Handler.
func (m *Mux) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	m.router.ServeHTTP(w, r)
}

// Handle registers fn for method and pattern with ep's declarations. A nil
// ep gets an endpoint named "METHOD pattern" with nothing declared. Opt-out
// flags attach to ep, so an endpoint to exempt must be built and opted out
// before the interceptor is created.
func (m *Mux) Handle(method, pattern string, ep *egress.Endpoint, fn HandlerFunc) {
	if ep == nil {
		ep = egress.NewEndpoint(method+" "+pattern, nil, nil)
	}
	if ep.Name == "" {
		ep.Name = method + " " + pattern
	}
	m.routes = append(m.routes, Route{Method: method, Pattern: pattern, Endpoint: ep})
	m.router.Method(method, pattern, m.wrap(ep, fn))
}

// Get registers a GET handler.
func (m *Mux) Get(pattern string, ep *egress.Endpoint, fn HandlerFunc) {
	m.Handle(http.MethodGet, pattern, ep, fn)
}

// Post registers a POST handler.
func (m *Mux) Post(pattern string, ep *egress.Endpoint, fn HandlerFunc) {
	m.Handle(http.MethodPost, pattern, ep, fn)
}

// Put registers a PUT handler.
func (m *Mux) Put(pattern string, ep *egress.Endpoint, fn HandlerFunc) {
	m.Handle(http.MethodPut, pattern, ep, fn)
}

// Delete registers a DELETE handler.
func (m *Mux) Delete(pattern string, ep *egress.Endpoint, fn HandlerFunc) {
	m.Handle(http.MethodDelete, pattern, ep, fn)
}

// Routes returns the registered routes sorted by pattern then method.
func (m *Mux) Routes() []Route {
	out := make([]Route, len(m.routes))
	copy(out, m.routes)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Pattern != out[j].Pattern {
			return out[i].Pattern < out[j].Pattern
		}
		return out[i].Method < out[j].Method
	})
	return out
}

// Endpoints returns the endpoint metadata of every registered route.
func (m *Mux) Endpoints() []*egress.Endpoint {
	routes := m.Routes()
	out := make([]*egress.Endpoint, len(routes))
	for i, rt := range routes {
		out[i] = rt.Endpoint
	}
	return out
}

// SchemaHandler serves the declared response schemas of every route as
// JSON, keyed by "METHOD pattern" then status.
func (m *Mux) SchemaHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		doc := make(map[string]any, len(m.routes))
		for _, rt := range m.routes {
			doc[rt.Method+" "+rt.Pattern] = rt.Endpoint.Document()
		}
		m.write(w, r, json.New(), http.StatusOK, nil, doc)
	}
}

func (m *Mux) wrap(ep *egress.Endpoint, fn HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		res, err := fn(r)
		if err != nil {
			m.renderError(w, r, err)
			return
		}
		if res == nil {
			res = &Result{}
		}

		status := res.status()
		body, err := m.interceptor.Intercept(r.Context(), ep, status, res.Body)
		if err != nil {
			m.renderError(w, r, err)
			return
		}
		m.write(w, r, negotiate(r.Header.Get("Accept"), m.codecs), status, res.Header, body)
	}
}

func (m *Mux) write(w http.ResponseWriter, r *http.Request, codec egress.Codec, status int, header http.Header, body any) {
	for k, vs := range header {
		for _, v := range vs {
			w.Header().Add(k, v)
		}
	}

	if bodyless(status) || body == nil {
		w.WriteHeader(status)
		return
	}

	data, err := codec.Marshal(body)
	if err != nil {
		m.logger.Error("Failed to encode response.",
			zap.String("request_id", middleware.GetReqID(r.Context())),
			zap.String("content_type", codec.ContentType()),
			zap.Error(err),
		)
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(http.StatusText(http.StatusInternalServerError)))
		return
	}

	w.Header().Set("Content-Type", codec.ContentType())
	w.WriteHeader(status)
	if _, err := w.Write(data); err != nil {
		m.logger.Debug("Failed to write response.", zap.Error(err))
	}
}

// renderError writes err as an error body. Policy rejections carry only the
// configured reject message; errors without a status become a generic 500.
func (m *Mux) renderError(w http.ResponseWriter, r *http.Request, err error) {
	log := m.logger.With(zap.String("request_id", middleware.GetReqID(r.Context())))

	status := http.StatusInternalServerError
	body := errorBody{Code: ErrInternal.Code, Message: ErrInternal.Message}

	var httpErr HTTPError
	var sc statusCoder
	switch {
	case errors.Is(err, egress.ErrHandlerMetadata):
		log.Error("Response rejected.", zap.Error(err))
		body.Message = m.interceptor.Config().RejectMessage
	case errors.As(err, &httpErr):
		status = httpErr.Status
		body = errorBody{Code: httpErr.Code, Message: httpErr.Message}
	case errors.As(err, &sc):
		status = sc.StatusCode()
		body = errorBody{Code: codeFor(status), Message: http.StatusText(status)}
	default:
		log.Error("Handler failed.", zap.Error(err))
	}

	m.write(w, r, negotiate(r.Header.Get("Accept"), m.codecs), status, nil, body)
}

func codeFor(status int) string {
	switch status {
	case http.StatusBadRequest:
		return ErrBadRequest.Code
	case http.StatusUnauthorized:
		return ErrUnauthorized.Code
	case http.StatusForbidden:
		return ErrForbidden.Code
	case http.StatusNotFound:
		return ErrNotFound.Code
	case http.StatusConflict:
		return ErrConflict.Code
	default:
		return ErrInternal.Code
	}
}
