package server

import (
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/netgraph/pkg/buildinfo"
	"github.com/matzehuels/netgraph/pkg/component"
	"github.com/matzehuels/netgraph/pkg/errors"
	"github.com/matzehuels/netgraph/pkg/network"
	"github.com/matzehuels/netgraph/pkg/pipeline"
	"github.com/matzehuels/netgraph/pkg/presets"
	"github.com/matzehuels/netgraph/pkg/render/sink"
	"github.com/matzehuels/netgraph/pkg/render/styles"
)

// =============================================================================
// Health
// =============================================================================

func (s *Server) health(w http.ResponseWriter, _ *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]any{
		"status": "healthy",
		"build":  buildinfo.Get(),
		"views":  s.views.Len(),
	})
}

// =============================================================================
// Presets
// =============================================================================

// PresetResponse is a preset with its parameter summary.
type PresetResponse struct {
	presets.Preset
	Summary network.Summary `json:"summary"`
}

func (s *Server) listPresets(w http.ResponseWriter, _ *http.Request) {
	all := presets.All()
	out := make([]PresetResponse, len(all))
	for i, p := range all {
		out[i] = PresetResponse{Preset: p, Summary: network.Summarize(p.Layers)}
	}
	s.respondJSON(w, http.StatusOK, out)
}

func (s *Server) getPreset(w http.ResponseWriter, r *http.Request) {
	p, err := presets.Get(chi.URLParam(r, "name"))
	if err != nil {
		s.respondError(w, err)
		return
	}
	s.respondJSON(w, http.StatusOK, PresetResponse{Preset: p, Summary: network.Summarize(p.Layers)})
}

// =============================================================================
// Architectures
// =============================================================================

func (s *Server) listArchitectures(w http.ResponseWriter, r *http.Request) {
	all, err := s.cfg.Store.List(r.Context())
	if err != nil {
		s.respondError(w, err)
		return
	}
	if all == nil {
		all = []network.Architecture{}
	}
	s.respondJSON(w, http.StatusOK, all)
}

func (s *Server) saveArchitecture(w http.ResponseWriter, r *http.Request) {
	var a network.Architecture
	if err := decodeJSON(r, &a); err != nil {
		s.respondError(w, err)
		return
	}
	if err := s.cfg.Store.Save(r.Context(), a); err != nil {
		s.respondError(w, err)
		return
	}
	s.logger.Info("saved architecture", "name", a.Name, "layers", len(a.Layers))
	s.respondJSON(w, http.StatusCreated, a)
}

func (s *Server) getArchitecture(w http.ResponseWriter, r *http.Request) {
	a, err := s.cfg.Store.Get(r.Context(), chi.URLParam(r, "name"))
	if err != nil {
		s.respondError(w, err)
		return
	}
	s.respondJSON(w, http.StatusOK, a)
}

func (s *Server) deleteArchitecture(w http.ResponseWriter, r *http.Request) {
	if err := s.cfg.Store.Delete(r.Context(), chi.URLParam(r, "name")); err != nil {
		s.respondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// =============================================================================
// Views
// =============================================================================

// CreateViewRequest creates a view from a preset, a stored architecture or
// an explicit layer list. At most one source may be given; none selects
// the default preset.
type CreateViewRequest struct {
	Preset       string              `json:"preset,omitempty"`
	Architecture string              `json:"architecture,omitempty"`
	Layers       []network.LayerSpec `json:"layers,omitempty"`
	Zoom         float64             `json:"zoom,omitempty"`
	Width        float64             `json:"width,omitempty"`
	Height       float64             `json:"height,omitempty"`
	Style        string              `json:"style,omitempty"`
	Seed         uint64              `json:"seed,omitempty"`
	MaxNodes     int                 `json:"max_nodes,omitempty"`
}

// PatchViewRequest changes view parameters. Each present field is a
// trigger that re-renders the view.
type PatchViewRequest struct {
	Zoom   *float64 `json:"zoom,omitempty"`
	Width  *float64 `json:"width,omitempty"`
	Height *float64 `json:"height,omitempty"`
}

// ViewResponse describes a view and its last frame.
type ViewResponse struct {
	ID         string              `json:"id"`
	Source     string              `json:"source"`
	State      string              `json:"state"`
	Style      string              `json:"style"`
	Seed       uint64              `json:"seed,omitempty"`
	Zoom       float64             `json:"zoom"`
	Width      float64             `json:"width"`
	Height     float64             `json:"height"`
	Layers     []network.LayerSpec `json:"layers"`
	Nodes      int                 `json:"nodes"`
	Edges      int                 `json:"edges"`
	Generation uint64              `json:"generation"`
	CreatedAt  time.Time           `json:"created_at"`
	DrawnAt    time.Time           `json:"drawn_at,omitzero"`
}

func (s *Server) viewResponse(v *View) ViewResponse {
	w, h := v.Component.Size()
	resp := ViewResponse{
		ID:        v.ID,
		Source:    v.Source,
		State:     v.Component.State().String(),
		Style:     v.Style,
		Seed:      v.Seed,
		Zoom:      v.Component.Zoom(),
		Width:     w,
		Height:    h,
		Layers:    v.Component.Layers(),
		CreatedAt: v.CreatedAt,
	}
	if f, ok := v.Component.Frame(); ok {
		resp.Nodes = f.Topology.NodeCount()
		resp.Edges = f.Topology.EdgeCount()
		resp.Generation = f.Generation
		resp.DrawnAt = f.DrawnAt
	}
	return resp
}

func (s *Server) listViews(w http.ResponseWriter, _ *http.Request) {
	views := s.views.List()
	out := make([]ViewResponse, len(views))
	for i, v := range views {
		out[i] = s.viewResponse(v)
	}
	s.respondJSON(w, http.StatusOK, out)
}

func (s *Server) createView(w http.ResponseWriter, r *http.Request) {
	var req CreateViewRequest
	if err := decodeJSON(r, &req); err != nil {
		s.respondError(w, err)
		return
	}

	layers, source, err := s.resolveView(r, req)
	if err != nil {
		s.respondError(w, err)
		return
	}

	if req.Width == 0 {
		req.Width = s.cfg.Width
	}
	if req.Height == 0 {
		req.Height = s.cfg.Height
	}
	if err := network.ValidateSurface(req.Width, req.Height); err != nil {
		s.respondError(w, err)
		return
	}
	if req.Style == "" {
		req.Style = s.cfg.Style
	}
	style, err := styles.Lookup(req.Style)
	if err != nil {
		s.respondError(w, err)
		return
	}

	opts := []component.Option{
		component.WithLogger(s.logger),
		component.WithStyle(style),
	}
	if req.Seed != 0 {
		opts = append(opts, component.WithWeights(network.SeededWeights(req.Seed)))
	}
	if req.Zoom != 0 {
		opts = append(opts, component.WithZoom(req.Zoom))
	}
	c, err := component.New(layers, opts...)
	if err != nil {
		s.respondError(w, err)
		return
	}

	v := &View{
		Source:    source,
		Style:     style.Name,
		Seed:      req.Seed,
		Component: c,
		Surface:   component.NewRecorder(req.Width, req.Height),
	}
	if err := s.views.Add(v); err != nil {
		s.respondError(w, err)
		return
	}
	if err := c.Mount(r.Context(), v.Surface); err != nil {
		s.views.Delete(v.ID)
		s.respondError(w, err)
		return
	}

	s.trackViews()
	s.logger.Info("created view", "id", v.ID, "source", source, "zoom", c.Zoom())
	w.Header().Set("Location", "/api/v1/views/"+v.ID)
	s.respondJSON(w, http.StatusCreated, s.viewResponse(v))
}

func (s *Server) trackViews() {
	if s.cfg.Metrics != nil {
		s.cfg.Metrics.ViewsActive.Set(float64(s.views.Len()))
	}
}

func (s *Server) resolveView(r *http.Request, req CreateViewRequest) ([]network.LayerSpec, string, error) {
	sources := 0
	for _, set := range []bool{req.Preset != "", req.Architecture != "", len(req.Layers) > 0} {
		if set {
			sources++
		}
	}
	if sources > 1 {
		return nil, "", errors.New(errors.ErrCodeInvalidInput, "give at most one of preset, architecture and layers")
	}

	maxNodes := req.MaxNodes
	if maxNodes == 0 {
		maxNodes = s.cfg.MaxNodes
	}

	if req.Architecture != "" {
		a, err := s.cfg.Store.Get(r.Context(), req.Architecture)
		if err != nil {
			return nil, "", err
		}
		layers, _, err := pipeline.Resolve(pipeline.Options{Layers: a.Layers, MaxNodes: maxNodes})
		return layers, a.Name, err
	}
	return pipeline.Resolve(pipeline.Options{Preset: req.Preset, Layers: req.Layers, MaxNodes: maxNodes})
}

func (s *Server) getView(w http.ResponseWriter, r *http.Request) {
	v, err := s.views.Get(chi.URLParam(r, "id"))
	if err != nil {
		s.respondError(w, err)
		return
	}
	s.respondJSON(w, http.StatusOK, s.viewResponse(v))
}

func (s *Server) patchView(w http.ResponseWriter, r *http.Request) {
	v, err := s.views.Get(chi.URLParam(r, "id"))
	if err != nil {
		s.respondError(w, err)
		return
	}
	var req PatchViewRequest
	if err := decodeJSON(r, &req); err != nil {
		s.respondError(w, err)
		return
	}

	ctx := r.Context()
	if req.Width != nil || req.Height != nil {
		width, height := v.Component.Size()
		if req.Width != nil {
			width = *req.Width
		}
		if req.Height != nil {
			height = *req.Height
		}
		if err := v.Component.Resize(ctx, width, height); err != nil {
			s.respondError(w, err)
			return
		}
		v.Surface.SetSize(width, height)
	}
	if req.Zoom != nil {
		if err := v.Component.SetZoom(ctx, *req.Zoom); err != nil {
			s.respondError(w, err)
			return
		}
	}
	s.respondJSON(w, http.StatusOK, s.viewResponse(v))
}

func (s *Server) deleteView(w http.ResponseWriter, r *http.Request) {
	if err := s.views.Delete(chi.URLParam(r, "id")); err != nil {
		s.respondError(w, err)
		return
	}
	s.trackViews()
	w.WriteHeader(http.StatusNoContent)
}

// viewGraph serves the last frame of a view. Only formats that can be
// produced from the frame without a converter are offered.
func (s *Server) viewGraph(w http.ResponseWriter, r *http.Request) {
	v, err := s.views.Get(chi.URLParam(r, "id"))
	if err != nil {
		s.respondError(w, err)
		return
	}
	f, ok := v.Component.Frame()
	if !ok {
		s.respondError(w, errors.New(errors.ErrCodeNotFound, "view %q has not been drawn", v.ID))
		return
	}

	format := chi.URLParam(r, "format")
	var data []byte
	switch format {
	case pipeline.FormatSVG:
		data = sink.RenderSVG(f.Commands, sink.WithTitle(v.Source))
	case pipeline.FormatJSON:
		style, _ := styles.Lookup(v.Style)
		data, err = sink.RenderJSON(f.Topology,
			sink.WithJSONZoom(f.Zoom),
			sink.WithJSONStyle(style),
			sink.WithJSONSeed(v.Seed))
	case pipeline.FormatDOT:
		data = []byte(sink.ToDOT(f.Commands))
	default:
		err = errors.New(errors.ErrCodeInvalidFormat, "view graphs are available as svg, json or dot, not %q", format)
	}
	if err != nil {
		s.respondError(w, err)
		return
	}
	w.Header().Set("X-View-Generation", strconv.FormatUint(f.Generation, 10))
	s.respondArtifact(w, format, data)
}

// =============================================================================
// One-shot render
// =============================================================================

func (s *Server) render(w http.ResponseWriter, r *http.Request) {
	format := chi.URLParam(r, "format")
	if err := pipeline.ValidateFormat(format); err != nil {
		s.respondError(w, err)
		return
	}
	opts, err := s.renderOptions(r.URL.Query())
	if err != nil {
		s.respondError(w, err)
		return
	}
	opts.Formats = []string{format}

	result, err := s.cfg.Runner.Execute(r.Context(), opts)
	if err != nil {
		s.respondError(w, err)
		return
	}

	if result.CacheInfo.RenderHit {
		w.Header().Set("X-Cache", "HIT")
	} else {
		w.Header().Set("X-Cache", "MISS")
	}
	s.respondArtifact(w, format, result.Artifacts[format])
}

func (s *Server) renderOptions(q url.Values) (pipeline.Options, error) {
	opts := pipeline.Options{
		Preset:   q.Get("preset"),
		Style:    q.Get("style"),
		Title:    q.Get("title"),
		Width:    s.cfg.Width,
		Height:   s.cfg.Height,
		MaxNodes: s.cfg.MaxNodes,
		Refresh:  q.Get("refresh") == "true",
	}
	if opts.Style == "" {
		opts.Style = s.cfg.Style
	}

	floats := []struct {
		name string
		dst  *float64
	}{
		{"zoom", &opts.Zoom},
		{"width", &opts.Width},
		{"height", &opts.Height},
		{"scale", &opts.Scale},
	}
	for _, f := range floats {
		raw := q.Get(f.name)
		if raw == "" {
			continue
		}
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return opts, errors.Wrap(errors.ErrCodeInvalidInput, err, "%s must be a number, got %q", f.name, raw)
		}
		*f.dst = v
	}

	if raw := q.Get("seed"); raw != "" {
		seed, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			return opts, errors.Wrap(errors.ErrCodeInvalidInput, err, "seed must be an unsigned integer, got %q", raw)
		}
		opts.Seed = seed
	}
	if raw := q.Get("max_nodes"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return opts, errors.Wrap(errors.ErrCodeInvalidInput, err, "max_nodes must be an integer, got %q", raw)
		}
		opts.MaxNodes = n
	}
	return opts, nil
}
