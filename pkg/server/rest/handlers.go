package rest

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"lintang/tspanneal/pkg/datastructure"
	"lintang/tspanneal/pkg/engine/heuristics"
	"lintang/tspanneal/pkg/graphgen"
	"lintang/tspanneal/pkg/kv"
	"lintang/tspanneal/pkg/server"
	"lintang/tspanneal/pkg/server/rest/service"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	enTranslations "github.com/go-playground/validator/v10/translations/en"
)

type TSPService interface {
	Anneal(ctx context.Context, n int, edges []datastructure.Edge, cfg heuristics.AnnealingConfig, seed uint64) (service.AnnealOutcome, error)
	AnnealCoordinates(ctx context.Context, coords []datastructure.Coordinate, cfg heuristics.AnnealingConfig, seed uint64) (service.AnnealOutcome, error)
	RandomGraph(ctx context.Context, n int, weightRange graphgen.WeightRange, additionalEdges int, seed uint64) (*datastructure.Graph, error)
	GetRun(ctx context.Context, id string) (kv.RunRecord, error)
}

type TSPHandler struct {
	svc          TSPService
	promeMetrics *metrics
	defaults     heuristics.AnnealingConfig
}

// TSPRouter mounts the annealing endpoints under /api. defaults fills every
// schedule field a request leaves out.
func TSPRouter(r *chi.Mux, svc TSPService, m *metrics, defaults heuristics.AnnealingConfig) {
	handler := &TSPHandler{svc, m, defaults}

	r.Group(func(r chi.Router) {
		r.Route("/api", func(r chi.Router) {
			r.Post("/tsp/anneal", handler.Anneal)
			r.Post("/tsp/anneal-coordinates", handler.AnnealCoordinates)
			r.Post("/graphs/random", handler.RandomGraph)
			r.Get("/runs/{runID}", handler.GetRun)
			r.Get("/hello", handler.Hello)
		})
	})
}

// AnnealParams model info
//
//	@Description	cooling schedule, every field is optional
type AnnealParams struct {
	InitialTemperature   float64 `json:"initial_temperature" validate:"omitempty,gt=0"`
	EraLength            int     `json:"era_length" validate:"omitempty,gte=1,lte=1000000000"`
	TemperatureFloor     float64 `json:"temperature_floor" validate:"omitempty,gt=0"`
	CoolingMultiplier    float64 `json:"cooling_multiplier" validate:"omitempty,gt=0,lt=1"`
	TrackBest            bool    `json:"track_best"`
	NormalizeInitialCost bool    `json:"normalize_initial_cost"`
	PolishTwoOpt         bool    `json:"polish_two_opt"`
	MaxTracePoints       int     `json:"max_trace_points" validate:"omitempty,gte=0"`
	Seed                 uint64  `json:"seed"`
}

func (p AnnealParams) toConfig(defaults heuristics.AnnealingConfig) heuristics.AnnealingConfig {
	cfg := defaults
	if p.InitialTemperature != 0 {
		cfg.InitialTemperature = p.InitialTemperature
	}
	if p.EraLength != 0 {
		cfg.EraLength = p.EraLength
	}
	if p.TemperatureFloor != 0 {
		cfg.TemperatureFloor = p.TemperatureFloor
	}
	if p.CoolingMultiplier != 0 {
		cfg.CoolingMultiplier = p.CoolingMultiplier
	}
	if p.MaxTracePoints != 0 {
		cfg.MaxTracePoints = p.MaxTracePoints
	}
	cfg.TrackBest = cfg.TrackBest || p.TrackBest
	cfg.NormalizeInitialCost = cfg.NormalizeInitialCost || p.NormalizeInitialCost
	cfg.PolishTwoOpt = cfg.PolishTwoOpt || p.PolishTwoOpt
	return cfg
}

// EdgeReq model info
//
//	@Description	undirected weighted edge between two vertex ids (1-indexed)
type EdgeReq struct {
	From   int    `json:"from" validate:"required,gte=1"`
	To     int    `json:"to" validate:"required,gte=1"`
	Weight uint32 `json:"weight" validate:"required,gt=0"`
}

// AnnealRequest model info
//
//	@Description	request body untuk annealing di graph dari edge list. Pasangan tanpa edge dianggap biaya maksimal
type AnnealRequest struct {
	N      int          `json:"n" validate:"required,gte=2"`
	Edges  []EdgeReq    `json:"edges" validate:"required,dive"`
	Params AnnealParams `json:"params"`
}

func (s *AnnealRequest) Bind(r *http.Request) error {
	if s.N < 2 {
		return errors.New("invalid request")
	}
	return nil
}

// Coord model info
//
//	@Description	model untuk koordinat
type Coord struct {
	Lat float64 `json:"lat" validate:"lte=90,gte=-90"`
	Lon float64 `json:"lon" validate:"lte=180,gte=-180"`
}

// AnnealCoordinatesRequest model info
//
//	@Description	request body untuk annealing di complete graph jarak great-circle antar koordinat
type AnnealCoordinatesRequest struct {
	Coordinates []Coord      `json:"coordinates" validate:"required,min=2,dive"`
	Params      AnnealParams `json:"params"`
}

func (s *AnnealCoordinatesRequest) Bind(r *http.Request) error {
	if len(s.Coordinates) < 2 {
		return errors.New("invalid request")
	}
	return nil
}

// AnnealResponse model info
//
//	@Description	final tour of the run. best_* only present when track_best was requested
type AnnealResponse struct {
	RunID        string  `json:"run_id,omitempty"`
	Cost         uint64  `json:"cost"`
	Tour         []int   `json:"tour"`
	Path         string  `json:"path"`
	DurationNs   int64   `json:"duration_ns"`
	Eras         int     `json:"eras"`
	Iterations   int64   `json:"iterations"`
	Accepted     int64   `json:"accepted"`
	BestCost     *uint64 `json:"best_cost,omitempty"`
	BestTour     []int   `json:"best_tour,omitempty"`
	PolishedCost *uint64 `json:"polished_cost,omitempty"`
	PolishedTour []int   `json:"polished_tour,omitempty"`
	Polyline     string  `json:"polyline,omitempty"`
	Coordinates  []Coord `json:"coordinates,omitempty"`
}

func NewAnnealResponse(out service.AnnealOutcome) *AnnealResponse {
	resp := &AnnealResponse{
		RunID:      out.RunID,
		Cost:       uint64(out.Result.Cost),
		Tour:       out.Result.Tour,
		Path:       datastructure.RenderTour(out.Result.Tour),
		DurationNs: out.Duration.Nanoseconds(),
		Eras:       out.Result.Eras,
		Iterations: out.Result.Iterations,
		Accepted:   out.Result.Accepted,
		Polyline:   out.Polyline,
	}
	if out.Result.Best != nil {
		bc := uint64(out.Result.Best.Cost)
		resp.BestCost = &bc
		resp.BestTour = out.Result.Best.Tour
	}
	if out.Result.Polished != nil {
		pc := uint64(out.Result.Polished.Cost)
		resp.PolishedCost = &pc
		resp.PolishedTour = out.Result.Polished.Tour
	}
	for _, c := range out.Coordinates {
		resp.Coordinates = append(resp.Coordinates, Coord{Lat: c.Lat, Lon: c.Lon})
	}
	return resp
}

// Anneal
//
//	@Summary		simulated annealing TSP di graph dari edge list.
//	@Description	simulated annealing TSP di graph dari edge list. Mengembalikan tour terakhir yang diterima
//	@Tags			tsp
//	@Param			body	body	AnnealRequest	true	"request body annealing"
//	@Accept			application/json
//	@Produce		application/json
//	@Router			/tsp/anneal [post]
//	@Success		200	{object}	AnnealResponse
//	@Failure		400	{object}	ErrResponse
//	@Failure		500	{object}	ErrResponse
func (h *TSPHandler) Anneal(w http.ResponseWriter, r *http.Request) {
	data := &AnnealRequest{}
	if err := render.Bind(r, data); err != nil {
		render.Render(w, r, ErrInvalidRequest(err))
		return
	}
	if rend := validateRequest(data); rend != nil {
		render.Render(w, r, rend)
		return
	}

	edges := make([]datastructure.Edge, 0, len(data.Edges))
	for _, e := range data.Edges {
		edges = append(edges, datastructure.Edge{From: e.From, To: e.To, Weight: datastructure.Weight(e.Weight)})
	}

	h.promeMetrics.AnnealCount.WithLabelValues("edges").Inc()
	out, err := h.svc.Anneal(r.Context(), data.N, edges, data.Params.toConfig(h.defaults), data.Params.Seed)
	if err != nil {
		render.Render(w, r, ErrChi(err))
		return
	}
	h.promeMetrics.AnnealCost.WithLabelValues("edges").Set(float64(out.Result.Cost))

	render.Status(r, http.StatusOK)
	render.JSON(w, r, NewAnnealResponse(out))
}

// AnnealCoordinates
//
//	@Summary		simulated annealing TSP untuk kumpulan koordinat.
//	@Description	simulated annealing TSP untuk kumpulan koordinat, bobot edge = jarak great-circle dalam meter. Tour dikembalikan juga sebagai polyline
//	@Tags			tsp
//	@Param			body	body	AnnealCoordinatesRequest	true	"request body annealing koordinat"
//	@Accept			application/json
//	@Produce		application/json
//	@Router			/tsp/anneal-coordinates [post]
//	@Success		200	{object}	AnnealResponse
//	@Failure		400	{object}	ErrResponse
//	@Failure		500	{object}	ErrResponse
func (h *TSPHandler) AnnealCoordinates(w http.ResponseWriter, r *http.Request) {
	data := &AnnealCoordinatesRequest{}
	if err := render.Bind(r, data); err != nil {
		render.Render(w, r, ErrInvalidRequest(err))
		return
	}
	if rend := validateRequest(data); rend != nil {
		render.Render(w, r, rend)
		return
	}

	coords := make([]datastructure.Coordinate, 0, len(data.Coordinates))
	for _, c := range data.Coordinates {
		coords = append(coords, datastructure.NewCoordinate(c.Lat, c.Lon))
	}

	h.promeMetrics.AnnealCount.WithLabelValues("coordinates").Inc()
	out, err := h.svc.AnnealCoordinates(r.Context(), coords, data.Params.toConfig(h.defaults), data.Params.Seed)
	if err != nil {
		render.Render(w, r, ErrChi(err))
		return
	}
	h.promeMetrics.AnnealCost.WithLabelValues("coordinates").Set(float64(out.Result.Cost))

	render.Status(r, http.StatusOK)
	render.JSON(w, r, NewAnnealResponse(out))
}

// RandomGraphRequest model info
//
//	@Description	request body untuk generate random connected graph
type RandomGraphRequest struct {
	N               int    `json:"n" validate:"required,gte=2"`
	MinWeight       uint32 `json:"min_weight" validate:"required,gt=0"`
	MaxWeight       uint32 `json:"max_weight" validate:"required,gtfield=MinWeight"`
	AdditionalEdges int    `json:"additional_edges" validate:"gte=0"`
	Seed            uint64 `json:"seed"`
}

func (s *RandomGraphRequest) Bind(r *http.Request) error {
	if s.N < 2 {
		return errors.New("invalid request")
	}
	return nil
}

// EdgeListResponse model info
//
//	@Description	graph sebagai edge list (lower triangular)
type EdgeListResponse struct {
	N     int       `json:"n"`
	Edges []EdgeReq `json:"edges"`
}

func NewEdgeListResponse(g *datastructure.Graph) *EdgeListResponse {
	resp := &EdgeListResponse{N: g.NumberOfVertex(), Edges: []EdgeReq{}}
	for _, e := range g.Edges() {
		resp.Edges = append(resp.Edges, EdgeReq{From: e.From, To: e.To, Weight: uint32(e.Weight)})
	}
	return resp
}

// RandomGraph
//
//	@Summary		generate random connected graph (spanning tree + edge tambahan).
//	@Description	generate random connected graph (spanning tree + edge tambahan). Gagal kalau edge yang diminta melebihi n(n-1)/2
//	@Tags			graphs
//	@Param			body	body	RandomGraphRequest	true	"request body random graph"
//	@Accept			application/json
//	@Produce		application/json
//	@Router			/graphs/random [post]
//	@Success		200	{object}	EdgeListResponse
//	@Failure		400	{object}	ErrResponse
//	@Failure		500	{object}	ErrResponse
func (h *TSPHandler) RandomGraph(w http.ResponseWriter, r *http.Request) {
	data := &RandomGraphRequest{}
	if err := render.Bind(r, data); err != nil {
		render.Render(w, r, ErrInvalidRequest(err))
		return
	}
	if rend := validateRequest(data); rend != nil {
		render.Render(w, r, rend)
		return
	}

	g, err := h.svc.RandomGraph(r.Context(), data.N, graphgen.WeightRange{
		Min: datastructure.Weight(data.MinWeight),
		Max: datastructure.Weight(data.MaxWeight),
	}, data.AdditionalEdges, data.Seed)
	if err != nil {
		render.Render(w, r, ErrChi(err))
		return
	}

	render.Status(r, http.StatusOK)
	render.JSON(w, r, NewEdgeListResponse(g))
}

// TracePointRes model info
//
//	@Description	accepted state: waktu sejak run mulai (ns) dan biaya tour
type TracePointRes struct {
	ElapsedNs int64  `json:"elapsed_ns"`
	Cost      uint64 `json:"cost"`
}

// RunResponse model info
//
//	@Description	run yang tersimpan di pebble
type RunResponse struct {
	ID           string          `json:"id"`
	Input        string          `json:"input"`
	Seed         uint64          `json:"seed"`
	DurationNs   int64           `json:"duration_ns"`
	Cost         uint64          `json:"cost"`
	Tour         []int32         `json:"tour"`
	BestCost     *uint64         `json:"best_cost,omitempty"`
	BestTour     []int32         `json:"best_tour,omitempty"`
	Eras         int64           `json:"eras"`
	Iterations   int64           `json:"iterations"`
	Accepted     int64           `json:"accepted"`
	TraceDropped int64           `json:"trace_dropped"`
	Trace        []TracePointRes `json:"trace"`
}

func NewRunResponse(rec kv.RunRecord) *RunResponse {
	resp := &RunResponse{
		ID:           rec.ID,
		Input:        rec.Input,
		Seed:         rec.Seed,
		DurationNs:   rec.DurationNs,
		Cost:         rec.Cost,
		Tour:         rec.Tour,
		Eras:         rec.Eras,
		Iterations:   rec.Iterations,
		Accepted:     rec.Accepted,
		TraceDropped: rec.TraceDropped,
		Trace:        make([]TracePointRes, len(rec.Trace)),
	}
	if rec.HasBest {
		bc := rec.BestCost
		resp.BestCost = &bc
		resp.BestTour = rec.BestTour
	}
	for i, p := range rec.Trace {
		resp.Trace[i] = TracePointRes{ElapsedNs: p.ElapsedNs, Cost: p.Cost}
	}
	return resp
}

// GetRun
//
//	@Summary		ambil run yang tersimpan beserta trace-nya.
//	@Description	ambil run yang tersimpan beserta trace-nya.
//	@Tags			runs
//	@Param			runID	path	string	true	"run id"
//	@Produce		application/json
//	@Router			/runs/{runID} [get]
//	@Success		200	{object}	RunResponse
//	@Failure		404	{object}	ErrResponse
//	@Failure		500	{object}	ErrResponse
func (h *TSPHandler) GetRun(w http.ResponseWriter, r *http.Request) {
	runID := chi.URLParam(r, "runID")
	rec, err := h.svc.GetRun(r.Context(), runID)
	if err != nil {
		render.Render(w, r, ErrChi(err))
		return
	}
	render.Status(r, http.StatusOK)
	render.JSON(w, r, NewRunResponse(rec))
}

func (h *TSPHandler) Hello(w http.ResponseWriter, r *http.Request) {
	render.Status(r, http.StatusOK)
	render.JSON(w, r, "Hello, World!")
}

func validateRequest(data interface{}) render.Renderer {
	validate := validator.New()
	if err := validate.Struct(data); err != nil {
		english := en.New()
		uni := ut.New(english, english)
		trans, _ := uni.GetTranslator("en")
		_ = enTranslations.RegisterDefaultTranslations(validate, trans)
		vv := translateError(err, trans)
		return ErrValidation(err, vv)
	}
	return nil
}

// ErrResponse model info
//
//	@Description	model untuk error response
type ErrResponse struct {
	Err            error `json:"-"` // low-level runtime error
	HTTPStatusCode int   `json:"-"` // http response status code

	StatusText    string   `json:"status"`          // user-level status message
	AppCode       int64    `json:"code,omitempty"`  // application-specific error code
	ErrorText     string   `json:"error,omitempty"` // application-level error message, for debugging
	ErrValidation []string `json:"validation,omitempty"`
}

func (e *ErrResponse) Render(w http.ResponseWriter, r *http.Request) error {
	render.Status(r, e.HTTPStatusCode)
	return nil
}

func ErrValidation(err error, errV []error) render.Renderer {
	vv := []string{}
	for _, v := range errV {
		vv = append(vv, v.Error())
	}
	return &ErrResponse{
		Err:            err,
		HTTPStatusCode: 400,
		StatusText:     "Invalid request.",
		ErrorText:      err.Error(),
		ErrValidation:  vv,
	}
}

func ErrInvalidRequest(err error) render.Renderer {
	return &ErrResponse{
		Err:            err,
		HTTPStatusCode: 400,
		StatusText:     "Invalid request.",
		ErrorText:      err.Error(),
	}
}

func ErrChi(err error) render.Renderer {
	statusText := ""
	switch getStatusCode(err) {
	case http.StatusNotFound:
		statusText = "Resource not found."
	case http.StatusInternalServerError:
		statusText = "Internal server error."
	case http.StatusBadRequest:
		statusText = "Bad request."
	default:
		statusText = "Error."
	}

	return &ErrResponse{
		Err:            err,
		HTTPStatusCode: getStatusCode(err),
		StatusText:     statusText,
		ErrorText:      err.Error(),
	}
}

func getStatusCode(err error) int {
	if err == nil {
		return http.StatusOK
	}
	switch server.ErrorCode(err) {
	case server.ErrNotFound:
		return http.StatusNotFound
	case server.ErrBadParamInput, server.ErrParse, server.ErrConstruction:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func translateError(err error, trans ut.Translator) (errs []error) {
	if err == nil {
		return nil
	}
	var validatorErrs validator.ValidationErrors
	if !errors.As(err, &validatorErrs) {
		return []error{err}
	}
	for _, e := range validatorErrs {
		errs = append(errs, fmt.Errorf("%s", e.Translate(trans)))
	}
	return errs
}
