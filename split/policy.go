// Package split implements the split-search engine: the tagged policy
// variants governing every split decision, impurity scoring, CART threshold
// generation, feature selection, and the best-split search itself.
package split

import (
	"math"
	"math/rand"

	"github.com/pkg/errors"

	"github.com/fantinsib/arboria"
)

// Task tags what kind of model a policy drives. Only classification is
// implemented; Regression is reserved.
type Task interface{ isTask() }

// Classification marks a binary-classification task.
type Classification struct{}

// Regression is reserved; fit rejects it.
type Regression struct{}

func (Classification) isTask() {}
func (Regression) isTask()     {}

// Criterion selects the impurity measure used to score candidate splits.
type Criterion interface{ isCriterion() }

// Gini scores splits with Gini impurity.
type Gini struct{}

// Entropy scores splits with Shannon entropy.
type Entropy struct{}

func (Gini) isCriterion()    {}
func (Entropy) isCriterion() {}

// ThresholdRule selects how candidate thresholds are generated for a
// feature.
type ThresholdRule interface{ isThresholdRule() }

// CART generates one candidate per pair of consecutive distinct sorted
// feature values, at their midpoint.
type CART struct{}

func (CART) isThresholdRule() {}

// FeatureSelection selects which features are examined at each split.
type FeatureSelection interface{ isFeatureSelection() }

// AllFeatures examines every feature.
type AllFeatures struct{}

// RandomK examines Mtry features drawn uniformly without replacement at
// each split. Mtry may be one of the resolution sentinels below until a
// forest resolves it at fit time.
type RandomK struct {
	Mtry int
}

func (AllFeatures) isFeatureSelection() {}
func (RandomK) isFeatureSelection()     {}

// Mtry resolution sentinels. A forest substitutes its configured value for
// MtryAuto and resolves MtrySqrt and MtryLog against the number of features
// once it is known. The splitter itself accepts only resolved values.
const (
	MtryAuto = -1
	MtrySqrt = -99
	MtryLog  = -98
)

// Params bundles the algorithmic choices consulted at every split: the
// task, the impurity criterion, the threshold rule and the feature
// selection rule. A nil component is the undefined sentinel; fit rejects
// params holding one.
type Params struct {
	Task      Task
	Criterion Criterion
	Threshold ThresholdRule
	Features  FeatureSelection
}

// Undefined reports whether any component of p is unset.
func (p Params) Undefined() bool {
	return p.Task == nil || p.Criterion == nil || p.Threshold == nil || p.Features == nil
}

// Context carries the per-call randomness consumed by RandomK feature
// selection. A forest builds one context per tree so every random decision
// inside that tree shares a single stream.
type Context struct {
	Rng *rand.Rand
}

// NewContext returns a context seeded with the given value.
func NewContext(seed uint64) *Context {
	return &Context{Rng: rand.New(rand.NewSource(int64(seed)))}
}

// Stats holds the per-child class counts of a candidate classification
// split.
type Stats struct {
	LPos int
	LNeg int
	RPos int
	RNeg int
}

// Result records the best split found by the search. The zero split is
// represented by NoSplit.
type Result struct {
	Feature   int
	Threshold float32
	Score     float64
}

// NoSplit returns the "no split found" sentinel: a negative feature index
// and an infinite score.
func NoSplit() Result {
	return Result{Feature: -1, Threshold: float32(math.NaN()), Score: math.Inf(1)}
}

// HasSplit reports whether the result describes an admissible split.
func (r Result) HasSplit() bool {
	return r.Feature >= 0 && !math.IsInf(r.Score, 0) && !math.IsNaN(r.Score)
}

// Model identifies the model family the parameter builder fills defaults
// for.
type Model int

const (
	ModelDecisionTree Model = iota
	ModelRandomForest
)

// ParamOption overrides one component of the params produced by
// BuildParams.
type ParamOption func(*Params)

// WithCriterion sets the impurity criterion.
func WithCriterion(c Criterion) ParamOption {
	return func(p *Params) { p.Criterion = c }
}

// WithThreshold sets the threshold rule.
func WithThreshold(t ThresholdRule) ParamOption {
	return func(p *Params) { p.Threshold = t }
}

// WithFeatures sets the feature-selection rule.
func WithFeatures(f FeatureSelection) ParamOption {
	return func(p *Params) { p.Features = f }
}

// BuildParams is the single place split defaults live. Given a model family
// and a task it fills every unset component: criterion Gini, threshold rule
// CART, and feature selection AllFeatures for single trees or RandomK with
// an unresolved mtry for forests.
func BuildParams(model Model, task Task, opts ...ParamOption) (Params, error) {
	if task == nil {
		return Params{}, errors.Wrap(arboria.ErrInvalidArgument, "build_params: a task tag must be provided")
	}

	p := Params{Task: task}
	for _, opt := range opts {
		opt(&p)
	}

	if p.Criterion == nil {
		p.Criterion = Gini{}
	}
	if p.Threshold == nil {
		p.Threshold = CART{}
	}
	if p.Features == nil {
		switch model {
		case ModelDecisionTree:
			p.Features = AllFeatures{}
		case ModelRandomForest:
			p.Features = RandomK{Mtry: MtryAuto}
		default:
			return Params{}, errors.Wrap(arboria.ErrLogic, "build_params: model family not implemented")
		}
	}

	return p, nil
}
