// Package api serves the engine as a JSON HTTP API for the dashboard.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sort"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/rgehrsitz/tcogo/internal/breakeven"
	"github.com/rgehrsitz/tcogo/internal/calculation"
	"github.com/rgehrsitz/tcogo/internal/catalog"
	"github.com/rgehrsitz/tcogo/internal/compare"
	"github.com/rgehrsitz/tcogo/internal/config"
	"github.com/rgehrsitz/tcogo/internal/domain"
	"github.com/rgehrsitz/tcogo/internal/logging"
	"github.com/rgehrsitz/tcogo/internal/sensitivity"
)

const maxBodyBytes = 1 << 20

type ctxKey struct{}

// Server answers engine requests against one resolved catalog
type Server struct {
	Catalog  *catalog.Dataset
	Analyzer *sensitivity.Analyzer
	Workers  int
	Logger   logging.Logger

	profiles map[string]domain.VendorCostProfile
}

// NewServer resolves every catalog vendor up front so that a broken record
// fails at startup rather than on the first request.
func NewServer(ds *catalog.Dataset) (*Server, error) {
	profiles, err := ds.Profiles(nil)
	if err != nil {
		return nil, fmt.Errorf("resolve catalog: %w", err)
	}
	return &Server{
		Catalog:  ds,
		Analyzer: sensitivity.NewAnalyzer(nil),
		Logger:   logging.NopLogger{},
		profiles: profiles,
	}, nil
}

// SetLogger sets the logger; nil installs a no-op logger.
func (s *Server) SetLogger(l logging.Logger) {
	s.Logger = logging.OrNop(l)
}

// Routes builds the router.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(s.requestID)

	r.Get("/healthz", s.handleHealth)
	r.Route("/api", func(r chi.Router) {
		r.Get("/vendors", s.handleVendors)
		r.Get("/industries", s.handleIndustries)
		r.Post("/tco", s.handleTCO)
		r.Post("/compare", s.handleCompare)
		r.Post("/roi", s.handleROI)
		r.Post("/risk", s.handleRisk)
		r.Post("/sensitivity", s.handleSensitivity)
		r.Post("/tornado", s.handleTornado)
		r.Post("/scenarios", s.handleScenarios)
		r.Post("/breakeven", s.handleBreakEven)
	})
	return r
}

func (s *Server) requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := uuid.New().String()
		w.Header().Set("X-Request-ID", id)
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), ctxKey{}, id)))
	})
}

// RequestID returns the id assigned to the request, if any.
func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(ctxKey{}).(string)
	return id
}

type envelope struct {
	RequestID string `json:"requestId"`
	Data      any    `json:"data,omitempty"`
	Error     string `json:"error,omitempty"`
}

// request is the body shared by every POST endpoint
type request struct {
	Organization domain.OrganizationConfig `json:"organization"`
	Vendors      []string                  `json:"vendors"`
	Baseline     string                    `json:"baseline"`
	Alternative  string                    `json:"alternative"`
	Factor       string                    `json:"factor"`
	Range        domain.SensitivityRange   `json:"range"`
	Sweeps       []domain.SensitivitySpec  `json:"sweeps"`
}

func (s *Server) decode(w http.ResponseWriter, r *http.Request) (*request, error) {
	req := &request{Organization: config.NewAnalysisInput().Organization}
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(req); err != nil {
		return nil, &domain.ConfigurationError{Message: "invalid request body: " + err.Error()}
	}
	req.Organization = req.Organization.Normalized()
	if err := req.Organization.Validate(); err != nil {
		return nil, err
	}
	req.Organization = s.Catalog.ApplyIndustry(req.Organization)
	return req, nil
}

func (s *Server) vendorIDs(req *request) []string {
	if len(req.Vendors) > 0 {
		return req.Vendors
	}
	ids := make([]string, 0, len(s.profiles))
	for id := range s.profiles {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

func (s *Server) profile(id string) (domain.VendorCostProfile, error) {
	p, ok := s.profiles[id]
	if !ok {
		return domain.VendorCostProfile{}, &domain.ResolutionError{VendorID: id, Message: "vendor not found"}
	}
	return p, nil
}

func (s *Server) options(req *request) compare.Options {
	return compare.Options{Baseline: req.Baseline, Workers: s.Workers}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, r, http.StatusOK, map[string]string{"status": "ok"})
}

type vendorSummary struct {
	ID           string              `json:"id"`
	Name         string              `json:"name"`
	Architecture domain.Architecture `json:"architecture"`
	PricingModel domain.PricingModel `json:"pricingModel"`
}

func (s *Server) handleVendors(w http.ResponseWriter, r *http.Request) {
	out := make([]vendorSummary, 0, len(s.profiles))
	for _, id := range s.Catalog.VendorIDs() {
		p := s.profiles[id]
		out = append(out, vendorSummary{ID: p.ID, Name: p.Name, Architecture: p.Architecture, PricingModel: p.Licensing.Model})
	}
	s.writeJSON(w, r, http.StatusOK, out)
}

func (s *Server) handleIndustries(w http.ResponseWriter, r *http.Request) {
	out := make(map[string][]domain.FrameworkID, len(s.Catalog.Industries))
	for _, name := range s.Catalog.IndustryNames() {
		out[name] = s.Catalog.FrameworksFor(name)
	}
	s.writeJSON(w, r, http.StatusOK, out)
}

func (s *Server) handleTCO(w http.ResponseWriter, r *http.Request) {
	req, err := s.decode(w, r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	calc := s.Analyzer.Engine.Calculator
	var out []domain.CostBreakdown
	for _, id := range s.vendorIDs(req) {
		p, err := s.profile(id)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		cb, err := calc.ComputeTCO(p, req.Organization)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		out = append(out, cb)
	}
	s.writeJSON(w, r, http.StatusOK, out)
}

func (s *Server) handleCompare(w http.ResponseWriter, r *http.Request) {
	req, err := s.decode(w, r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	report, err := s.Analyzer.Engine.BuildReport(r.Context(), s.vendorIDs(req), s.profiles, req.Organization, s.options(req))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, r, http.StatusOK, report)
}

func (s *Server) handleROI(w http.ResponseWriter, r *http.Request) {
	req, err := s.decode(w, r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if req.Baseline == "" || req.Alternative == "" {
		s.writeError(w, r, &domain.ConfigurationError{Field: "baseline", Message: "baseline and alternative are required"})
		return
	}

	calc := s.Analyzer.Engine.Calculator
	var totals [2]domain.CostBreakdown
	for i, id := range []string{req.Baseline, req.Alternative} {
		p, err := s.profile(id)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		if totals[i], err = calc.ComputeTCO(p, req.Organization); err != nil {
			s.writeError(w, r, err)
			return
		}
	}
	roi, err := calculation.ComputeROI(totals[0], totals[1], req.Organization)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, r, http.StatusOK, roi)
}

func (s *Server) handleRisk(w http.ResponseWriter, r *http.Request) {
	req, err := s.decode(w, r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	costs := s.Catalog.ViolationCostTable()
	var out []domain.RiskComplianceScore
	for _, id := range s.vendorIDs(req) {
		p, err := s.profile(id)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		score, err := calculation.ScoreRisk(p, req.Organization, costs)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		out = append(out, score)
	}
	s.writeJSON(w, r, http.StatusOK, out)
}

func (s *Server) handleSensitivity(w http.ResponseWriter, r *http.Request) {
	req, err := s.decode(w, r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	res, err := s.Analyzer.Analyze(r.Context(), req.Factor, req.Range, s.vendorIDs(req), s.profiles, req.Organization, s.options(req))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, r, http.StatusOK, res)
}

func (s *Server) handleTornado(w http.ResponseWriter, r *http.Request) {
	req, err := s.decode(w, r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	res, err := s.Analyzer.Tornado(r.Context(), req.Sweeps, s.vendorIDs(req), s.profiles, req.Organization, s.options(req))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, r, http.StatusOK, res)
}

func (s *Server) handleScenarios(w http.ResponseWriter, r *http.Request) {
	req, err := s.decode(w, r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	set, err := s.Analyzer.RunScenarios(r.Context(), s.vendorIDs(req), s.profiles, req.Organization, s.options(req))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, r, http.StatusOK, set)
}

func (s *Server) handleBreakEven(w http.ResponseWriter, r *http.Request) {
	req, err := s.decode(w, r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	solver := breakeven.NewDefaultSolver(s.Analyzer.Engine.Calculator)
	if req.Alternative == "" {
		profiles := make(map[string]domain.VendorCostProfile)
		for _, id := range append(s.vendorIDs(req), req.Baseline) {
			p, err := s.profile(id)
			if err != nil {
				s.writeError(w, r, err)
				return
			}
			profiles[id] = p
		}
		results, err := solver.SolveAgainstAll(r.Context(), req.Factor, req.Baseline, req.Range.Min, req.Range.Max, profiles, req.Organization)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		s.writeJSON(w, r, http.StatusOK, results)
		return
	}

	res, err := solver.Solve(r.Context(), breakeven.Request{
		Factor:        req.Factor,
		BaselineID:    req.Baseline,
		AlternativeID: req.Alternative,
		Min:           req.Range.Min,
		Max:           req.Range.Max,
	}, s.profiles, req.Organization)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, r, http.StatusOK, []breakeven.Result{*res})
}

// StatusFor maps an engine error onto an HTTP status.
func StatusFor(err error) int {
	var (
		cfgErr   *domain.ConfigurationError
		rangeErr *domain.RangeError
		resErr   *domain.ResolutionError
		calcErr  *domain.CalculationError
		beErr    *breakeven.BreakEvenError
	)
	switch {
	case errors.As(err, &calcErr):
		return http.StatusUnprocessableEntity
	case errors.As(err, &cfgErr), errors.As(err, &rangeErr), errors.As(err, &beErr):
		return http.StatusBadRequest
	case errors.As(err, &resErr):
		return http.StatusUnprocessableEntity
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := StatusFor(err)
	log := logging.OrNop(s.Logger)
	if status >= http.StatusInternalServerError {
		log.Errorf("%s %s [%s]: %v", r.Method, r.URL.Path, RequestID(r.Context()), err)
	} else {
		log.Debugf("%s %s [%s]: %v", r.Method, r.URL.Path, RequestID(r.Context()), err)
	}
	s.write(w, status, envelope{RequestID: RequestID(r.Context()), Error: err.Error()})
}

func (s *Server) writeJSON(w http.ResponseWriter, r *http.Request, status int, data any) {
	s.write(w, status, envelope{RequestID: RequestID(r.Context()), Data: data})
}

func (s *Server) write(w http.ResponseWriter, status int, body envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logging.OrNop(s.Logger).Warnf("write response: %v", err)
	}
}
