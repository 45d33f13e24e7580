package match

import (
	"context"
	"errors"
	"fmt"
	"math"
	"runtime"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"
)

const weightEpsilon = 1e-9

// Engine combines the similarity, geo and budget scorers into ranked
// compatibility results. It is stateless per call; the only shared state is
// the embedder handle, which is loaded once and reused.
type Engine struct {
	Embedder Embedder

	// ZIPCoords overrides the built-in ZIP lookup table when non-nil.
	ZIPCoords map[string]Coordinates

	// Workers caps how many candidates are scored concurrently.
	// Defaults to the number of CPUs.
	Workers int
}

// NewEngine returns an engine backed by the given embedder.
func NewEngine(embedder Embedder) *Engine {
	return &Engine{Embedder: embedder}
}

func (e *Engine) zipTable() map[string]Coordinates {
	if e.ZIPCoords != nil {
		return e.ZIPCoords
	}
	return defaultZIPCoords
}

func (e *Engine) workerCount() int {
	if e.Workers > 0 {
		return e.Workers
	}
	return runtime.NumCPU()
}

// validateRequest rejects malformed requests before any scoring work so a
// bad request never costs a partial batch.
func validateRequest(req Request, cfg Config) error {
	if strings.TrimSpace(profileText(req.Subject)) == "" {
		return fmt.Errorf("subject profile: %w", ErrEmptyText)
	}
	sum := cfg.Weights.Similarity + cfg.Weights.Geo + cfg.Weights.Budget
	if math.Abs(sum-1.0) > weightEpsilon {
		return fmt.Errorf("%w: got %v", ErrWeightSum, sum)
	}
	if req.Subject.RentBudgetMin > req.Subject.RentBudgetMax {
		return fmt.Errorf("subject profile: %w", ErrBudgetRange)
	}
	return nil
}

// Rank scores every candidate against the subject and returns the ranked
// results plus a list of candidates that could not be scored. Request-level
// failures (validation, unreachable model) return a non-nil error and no
// results; candidate-level failures never abort the batch.
//
// Candidates are scored concurrently; the final sort imposes the only
// ordering: descending overall score, ties broken by ascending candidate ID,
// so identical requests always produce identical output. The engine applies
// no timeout of its own — wrap ctx to bound the whole call.
func (e *Engine) Rank(ctx context.Context, req Request) ([]Result, []CandidateError, error) {
	cfg := req.Config.withDefaults()
	if err := validateRequest(req, cfg); err != nil {
		return nil, nil, err
	}

	subjectVec, err := e.Embedder.Embed(ctx, profileText(req.Subject))
	if err != nil {
		return nil, nil, fmt.Errorf("embedding subject: %w", err)
	}
	subjectCoords, subjectLocErr := resolveCoordinates(req.Subject, e.zipTable())

	type slot struct {
		result *Result
		cerr   *CandidateError
	}
	slots := make([]slot, len(req.Candidates))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.workerCount())
	for i := range req.Candidates {
		cand := req.Candidates[i]
		if cand.ID == req.Subject.ID {
			// Self-matching is a no-op, silently filtered.
			continue
		}
		idx := i
		g.Go(func() error {
			res, cerr, fatal := e.scoreCandidate(gctx, cfg, req.Subject, subjectVec, subjectCoords, subjectLocErr, cand)
			if fatal != nil {
				return fatal
			}
			slots[idx] = slot{result: res, cerr: cerr}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}

	var results []Result
	var cerrs []CandidateError
	for _, s := range slots {
		if s.cerr != nil {
			cerrs = append(cerrs, *s.cerr)
			continue
		}
		if s.result == nil {
			continue
		}
		if s.result.Overall < cfg.Threshold {
			continue
		}
		results = append(results, *s.result)
	}

	sort.Slice(results, func(i, j int) bool {
		if results[i].Overall != results[j].Overall {
			return results[i].Overall > results[j].Overall
		}
		return results[i].CandidateID < results[j].CandidateID
	})
	if cfg.MaxResults > 0 && len(results) > cfg.MaxResults {
		results = results[:cfg.MaxResults]
	}
	return results, cerrs, nil
}

// scoreCandidate computes one candidate's breakdown. The third return value
// is non-nil only for failures that poison the whole batch (model
// unavailable); everything else becomes a CandidateError.
func (e *Engine) scoreCandidate(ctx context.Context, cfg Config, subject Profile, subjectVec []float64, subjectCoords Coordinates, subjectLocErr error, cand Profile) (*Result, *CandidateError, error) {
	candVec, err := e.Embedder.Embed(ctx, profileText(cand))
	if err != nil {
		if errors.Is(err, ErrEmptyText) {
			return nil, &CandidateError{CandidateID: cand.ID, Err: err}, nil
		}
		return nil, nil, fmt.Errorf("embedding candidate %d: %w", cand.ID, err)
	}

	similarity, err := Similarity(subjectVec, candVec)
	if err != nil {
		return nil, &CandidateError{CandidateID: cand.ID, Err: err}, nil
	}

	if subjectLocErr != nil {
		return nil, &CandidateError{CandidateID: cand.ID, Err: subjectLocErr}, nil
	}
	candCoords, err := resolveCoordinates(cand, e.zipTable())
	if err != nil {
		return nil, &CandidateError{CandidateID: cand.ID, Err: err}, nil
	}
	distance := haversineMiles(subjectCoords, candCoords)
	geo := GeoScore(distance, cfg.MaxRadiusMiles)

	budget := BudgetScore(subject.RentBudgetMin, subject.RentBudgetMax, cand.RentBudgetMin, cand.RentBudgetMax)

	breakdown := ScoreBreakdown{
		Similarity: similarity,
		Geo:        geo,
		Budget:     budget,
	}
	breakdown.Overall = cfg.Weights.Similarity*similarity +
		cfg.Weights.Geo*geo +
		cfg.Weights.Budget*budget

	return &Result{
		CandidateID:    cand.ID,
		ScoreBreakdown: breakdown,
		DistanceMiles:  distance,
		Reasons:        matchReasons(breakdown, distance, subject, cand),
	}, nil, nil
}

// Compatibility scores a single subject/candidate pairing and returns the
// full breakdown. Unlike Rank there is no batch to protect, so candidate
// failures are returned directly.
func (e *Engine) Compatibility(ctx context.Context, subject, candidate Profile, cfg Config) (Result, error) {
	cfg = cfg.withDefaults()
	if err := validateRequest(Request{Subject: subject}, cfg); err != nil {
		return Result{}, err
	}

	subjectVec, err := e.Embedder.Embed(ctx, profileText(subject))
	if err != nil {
		return Result{}, fmt.Errorf("embedding subject: %w", err)
	}
	subjectCoords, subjectLocErr := resolveCoordinates(subject, e.zipTable())

	res, cerr, fatal := e.scoreCandidate(ctx, cfg, subject, subjectVec, subjectCoords, subjectLocErr, candidate)
	if fatal != nil {
		return Result{}, fatal
	}
	if cerr != nil {
		return Result{}, cerr.Err
	}
	return *res, nil
}

// matchReasons summarizes the factors behind a score for display.
func matchReasons(b ScoreBreakdown, distance float64, subject, cand Profile) []string {
	var reasons []string
	if b.Similarity > 0.7 {
		reasons = append(reasons, "high lifestyle compatibility")
	}
	if b.Geo > 0 {
		reasons = append(reasons, fmt.Sprintf("close proximity (%.1f miles)", distance))
	}
	if b.Budget > 0 {
		reasons = append(reasons, "budget ranges overlap")
	}
	if subject.PetPreference != "" && subject.PetPreference == cand.PetPreference {
		reasons = append(reasons, "pet preference match")
	}
	if subject.SmokingPreference != "" && subject.SmokingPreference == cand.SmokingPreference {
		reasons = append(reasons, "smoking preference match")
	}
	return reasons
}
