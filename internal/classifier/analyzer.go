// Package classifier decides, for a single parsed file, which known record
// model it most likely represents. Scoring is purely structural: only
// header presence is inspected, never row values, so analysis cost is
// independent of file size.
package classifier

import (
	"fmt"
	"sort"

	"batchlens/internal/domain"
	"batchlens/internal/registry"
)

// DefaultMinConfidence is the score below which a file is reported as
// unclassified rather than guessed.
const DefaultMinConfidence = 0.15

// Analyzer scores parsed files against every registered model profile.
type Analyzer struct {
	registry      *registry.Registry
	minConfidence float64
}

// New creates an Analyzer over the given registry. A non-positive
// minConfidence falls back to DefaultMinConfidence.
func New(reg *registry.Registry, minConfidence float64) *Analyzer {
	if minConfidence <= 0 {
		minConfidence = DefaultMinConfidence
	}
	return &Analyzer{registry: reg, minConfidence: minConfidence}
}

// MinConfidence returns the classification threshold in use.
func (a *Analyzer) MinConfidence() float64 {
	return a.minConfidence
}

// modelScore is the per-profile evaluation of one file.
type modelScore struct {
	profile      *registry.ModelProfile
	score        float64
	requiredHits int
	optionalHits int
	requiredOf   int
	optionalOf   int
}

// Analyze classifies one parsed file. It never fails: a file with no
// recognizable headers yields an empty DetectedModel and confidence 0.
func (a *Analyzer) Analyze(pf *domain.ParsedFile) domain.Analysis {
	present := make(map[string]bool, len(pf.Headers))
	for _, h := range pf.Headers {
		if n := NormalizeHeader(h); n != "" {
			present[n] = true
		}
	}

	scores := make(map[string]float64, a.registry.Len())
	evaluated := make([]modelScore, 0, a.registry.Len())
	for _, p := range a.registry.All() {
		ms := a.scoreProfile(p, present)
		scores[p.Name] = ms.score
		evaluated = append(evaluated, ms)
	}

	winner := pickWinner(evaluated)
	if winner == nil || winner.score == 0 {
		return domain.Analysis{
			FileCategory: domain.CategoryUnknown,
			Reason:       "no header matched the required fields of any known model",
			ModelScores:  scores,
		}
	}

	if winner.score < a.minConfidence {
		return domain.Analysis{
			Confidence:   winner.score,
			FileCategory: domain.CategoryUnknown,
			Reason: fmt.Sprintf("best score %.2f for %s is below threshold %.2f",
				winner.score, winner.profile.Name, a.minConfidence),
			ModelScores: scores,
		}
	}

	deps := make([]string, len(winner.profile.DependsOn))
	copy(deps, winner.profile.DependsOn)
	sort.Strings(deps)

	return domain.Analysis{
		DetectedModel: winner.profile.Name,
		Confidence:    winner.score,
		FileCategory:  winner.profile.Category,
		Reason: fmt.Sprintf("matched %d/%d required and %d/%d optional fields of %s",
			winner.requiredHits, winner.requiredOf, winner.optionalHits, winner.optionalOf, winner.profile.Name),
		ModelScores:   scores,
		MatchedFields: matchFields(pf.Headers, winner.profile),
		Dependencies:  deps,
	}
}

// scoreProfile computes the normalized score of one profile against the
// set of normalized headers. The attainable denominator counts every
// required signature but only the optional signatures actually matched,
// so full required coverage always scores 1.0 and optional matches can
// only raise a partial score. A profile with no required match scores 0.
func (a *Analyzer) scoreProfile(p registry.ModelProfile, present map[string]bool) modelScore {
	ms := modelScore{profile: mustGet(a.registry, p.Name)}

	var matchedWeight, attainable float64
	for _, f := range p.Fields {
		if f.Required {
			ms.requiredOf++
			attainable += f.Weight
		} else {
			ms.optionalOf++
		}
		if !signatureMatches(f, present) {
			continue
		}
		matchedWeight += f.Weight
		if f.Required {
			ms.requiredHits++
		} else {
			ms.optionalHits++
			attainable += f.Weight
		}
	}

	if ms.requiredHits == 0 || attainable == 0 {
		return ms
	}
	ms.score = matchedWeight / attainable
	return ms
}

// pickWinner selects the best-scoring model. Ties break toward the model
// with more matched required fields, then the lexicographically smaller
// name, so results are deterministic for identical input.
func pickWinner(evaluated []modelScore) *modelScore {
	var best *modelScore
	for i := range evaluated {
		ms := &evaluated[i]
		switch {
		case best == nil,
			ms.score > best.score,
			ms.score == best.score && ms.requiredHits > best.requiredHits,
			ms.score == best.score && ms.requiredHits == best.requiredHits &&
				ms.profile.Name < best.profile.Name:
			best = ms
		}
	}
	return best
}

// matchFields maps each header that matches a signature of the winning
// profile to that signature's canonical name, preserving header order.
func matchFields(headers []string, p *registry.ModelProfile) []domain.FieldMatch {
	canonical := make(map[string]string)
	for _, f := range p.Fields {
		canonical[NormalizeHeader(f.CanonicalName)] = f.CanonicalName
		for _, alias := range f.Aliases {
			canonical[NormalizeHeader(alias)] = f.CanonicalName
		}
	}

	var matches []domain.FieldMatch
	for _, h := range headers {
		if field, ok := canonical[NormalizeHeader(h)]; ok {
			matches = append(matches, domain.FieldMatch{Header: h, Field: field})
		}
	}
	return matches
}

func signatureMatches(f registry.FieldSignature, present map[string]bool) bool {
	if present[NormalizeHeader(f.CanonicalName)] {
		return true
	}
	for _, alias := range f.Aliases {
		if present[NormalizeHeader(alias)] {
			return true
		}
	}
	return false
}

func mustGet(reg *registry.Registry, name string) *registry.ModelProfile {
	p, ok := reg.Get(name)
	if !ok {
		panic(fmt.Sprintf("classifier: profile %q vanished from registry", name))
	}
	return p
}
