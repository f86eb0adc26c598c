// Package forest implements a bagged random-forest classifier: bootstrap
// replicates of the training rows, one decision tree per replicate grown
// with RandomK feature selection, and majority-vote aggregation.
package forest

import (
	"crypto/rand"
	"encoding/binary"
	"math"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/bits-and-blooms/bitset"
	"github.com/chewxy/math32"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"gonum.org/v1/gonum/stat"

	"github.com/fantinsib/arboria"
	"github.com/fantinsib/arboria/dataset"
	"github.com/fantinsib/arboria/helpers"
	"github.com/fantinsib/arboria/sampling"
	"github.com/fantinsib/arboria/split"
	"github.com/fantinsib/arboria/tree"
)

// DefNumTrees is the number of trees grown when NumTrees is not set.
const DefNumTrees = 70

// forestTree pairs one fitted tree with the in-bag bitmap of its bootstrap:
// bit r is set iff row r was drawn at least once.
type forestTree struct {
	clf   *tree.Classifier
	inBag *bitset.BitSet
}

// Classifier is a random-forest classifier. It should be initialized with
// New and is valid for prediction only after a successful Fit.
type Classifier struct {
	nEstimators    int
	mtry           int
	mtrySet        bool
	maxDepth       int
	minSampleSplit int
	hasMaxDepth    bool
	hasMinSplit    bool
	maxSamples     float64
	nJobs          int
	seed           uint64
	seeded         bool

	log zerolog.Logger

	trees     []forestTree
	nFeatures int
	fitted    bool
}

// Option configures a Classifier at construction.
type Option func(*Classifier)

// NumTrees sets the number of trees in the forest.
func NumTrees(n int) Option {
	return func(c *Classifier) { c.nEstimators = n }
}

// Mtry sets the number of features examined at each split. The sentinels
// split.MtrySqrt and split.MtryLog resolve against the feature count at
// fit. Mtry must be supplied; the forest accepts no implicit default.
func Mtry(n int) Option {
	return func(c *Classifier) {
		c.mtry = n
		c.mtrySet = true
	}
}

// MaxDepth limits the depth of every tree; n must be at least 1.
func MaxDepth(n int) Option {
	return func(c *Classifier) {
		c.maxDepth = n
		c.hasMaxDepth = true
	}
}

// MinSampleSplit propagates the per-tree split floor; n must be at least 2.
func MinSampleSplit(n int) Option {
	return func(c *Classifier) {
		c.minSampleSplit = n
		c.hasMinSplit = true
	}
}

// MaxSamples sets the bootstrap size as a fraction in (0,1] of the training
// rows. Unset means one draw per training row.
func MaxSamples(f float64) Option {
	return func(c *Classifier) { c.maxSamples = f }
}

// NumWorkers sets the number of workers used to fit trees and predict
// samples. -1 means one worker per hardware thread, capped at the number of
// trees.
func NumWorkers(n int) Option {
	return func(c *Classifier) { c.nJobs = n }
}

// Seed fixes the master seed. Two forests trained with the same seed,
// hyperparameters and data produce identical trees regardless of the worker
// count.
func Seed(s uint64) Option {
	return func(c *Classifier) {
		c.seed = s
		c.seeded = true
	}
}

// Logger attaches a logger for fit progress events. The default discards
// everything.
func Logger(l zerolog.Logger) Option {
	return func(c *Classifier) { c.log = l }
}

// New returns a configured random-forest classifier. The master seed is
// drawn from the operating system's entropy source unless Seed is given.
func New(options ...Option) (*Classifier, error) {
	c := &Classifier{
		nEstimators: DefNumTrees,
		nJobs:       1,
		log:         zerolog.Nop(),
	}

	for _, opt := range options {
		opt(c)
	}

	if c.nEstimators < 1 {
		return nil, errors.Wrap(arboria.ErrInvalidArgument, "forest: n_estimators must be greater than or equal to 1")
	}
	if !c.mtrySet {
		return nil, errors.Wrap(arboria.ErrInvalidArgument, "forest: mtry must be supplied")
	}
	if c.mtry < 1 && c.mtry != split.MtrySqrt && c.mtry != split.MtryLog {
		return nil, errors.Wrap(arboria.ErrInvalidArgument, "forest: mtry must be positive or a resolution sentinel")
	}
	if c.hasMaxDepth && c.maxDepth < 1 {
		return nil, errors.Wrap(arboria.ErrInvalidArgument, "forest: max_depth must be greater than or equal to 1")
	}
	if c.hasMinSplit && c.minSampleSplit < 2 {
		return nil, errors.Wrap(arboria.ErrInvalidArgument, "forest: min_sample_split must be greater than or equal to 2")
	}
	if c.maxSamples != 0 && (c.maxSamples <= 0 || c.maxSamples > 1) {
		return nil, errors.Wrap(arboria.ErrInvalidArgument, "forest: max_samples must be a fraction in (0,1]")
	}
	if c.nJobs == 0 || c.nJobs < -1 {
		return nil, errors.Wrap(arboria.ErrInvalidArgument, "forest: n_jobs must be at least 1, or -1 for one worker per hardware thread")
	}

	if !c.seeded {
		var buf [8]byte
		if _, err := rand.Read(buf[:]); err != nil {
			return nil, errors.Wrap(arboria.ErrLogic, "forest: entropy source unavailable for master seed")
		}
		c.seed = binary.LittleEndian.Uint64(buf[:])
	}

	return c, nil
}

// workers resolves n_jobs against a task count: -1 means one worker per
// hardware thread, and never more workers than tasks.
func (c *Classifier) workers(tasks int) int {
	n := c.nJobs
	if n == -1 {
		n = runtime.GOMAXPROCS(0)
	}
	if n > tasks {
		n = tasks
	}
	if n < 1 {
		n = 1
	}
	return n
}

// resolveMtry substitutes the forest's configured mtry for an unresolved
// policy value and resolves the sqrt/log sentinels against the feature
// count.
func (c *Classifier) resolveMtry(m, nCols int) (int, error) {
	if m == split.MtryAuto {
		m = c.mtry
	}
	switch m {
	case split.MtrySqrt:
		m = int(math.Sqrt(float64(nCols)))
		if m < 1 {
			m = 1
		}
	case split.MtryLog:
		m = int(math.Log2(float64(nCols)))
		if m < 1 {
			m = 1
		}
	}
	if m < 1 || m > nCols {
		return 0, errors.Wrap(arboria.ErrInvalidArgument, "forest: mtry must be in [1, n_cols]")
	}
	return m, nil
}

// Fit trains the forest. Each tree is built independently from disjoint
// state by a pool of workers claiming tree indices off an atomic counter.
//
// For the claimed tree i a worker:
//
//	(1) derives the tree seed from the master seed and i, and builds a
//	    fresh splitter context from it;
//	(2) draws the bootstrap rows and records the in-bag bitmap;
//	(3) grows a fresh tree on the bootstrap with the forest's propagated
//	    hyperparameters;
//	(4) stores tree and bitmap at slot i.
//
// The seed derivation makes the fitted forest a pure function of (master
// seed, hyperparameters, data), independent of worker scheduling.
func (c *Classifier) Fit(data *dataset.DataSet, params split.Params) error {
	if data.IsEmpty() {
		return errors.Wrap(arboria.ErrInvalidArgument, "forest: fit dataset is empty")
	}
	if params.Undefined() {
		return errors.Wrap(arboria.ErrInvalidArgument, "forest: params passed to fit contain an undefined component")
	}
	if _, ok := params.Task.(split.Classification); !ok {
		return errors.Wrap(arboria.ErrLogic, "forest: only classification forests are implemented")
	}

	rk, ok := params.Features.(split.RandomK)
	if !ok {
		return errors.Wrap(arboria.ErrInvalidArgument, "forest: fit requires RandomK feature selection")
	}
	mtry, err := c.resolveMtry(rk.Mtry, data.NCols())
	if err != nil {
		return err
	}
	params.Features = split.RandomK{Mtry: mtry}

	nRows := data.NRows()
	bootSize := nRows
	if c.maxSamples != 0 {
		bootSize = int(c.maxSamples * float64(nRows))
	}
	if bootSize < 1 {
		return errors.Wrap(arboria.ErrInvalidArgument, "forest: max_samples yields an empty bootstrap")
	}

	start := time.Now()
	trees := make([]forestTree, c.nEstimators)

	var (
		next    atomic.Int64
		failed  atomic.Bool
		once    sync.Once
		wg      sync.WaitGroup
		workErr error
	)
	fail := func(err error) {
		once.Do(func() { workErr = err })
		failed.Store(true)
	}

	nWorkers := c.workers(c.nEstimators)
	for w := 0; w < nWorkers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				i := int(next.Add(1)) - 1
				if i >= c.nEstimators || failed.Load() {
					return
				}
				if err := c.fitTree(i, data, params, bootSize, trees); err != nil {
					fail(err)
					return
				}
			}
		}()
	}
	wg.Wait()

	if workErr != nil {
		return workErr
	}

	c.trees = trees
	c.mtry = mtry
	c.nFeatures = data.NCols()
	c.fitted = true

	c.log.Info().
		Int("n_estimators", c.nEstimators).
		Int("mtry", mtry).
		Int("workers", nWorkers).
		Dur("elapsed", time.Since(start)).
		Msg("forest fitted")

	return nil
}

func (c *Classifier) fitTree(i int, data *dataset.DataSet, params split.Params, bootSize int, trees []forestTree) error {
	seed := helpers.DeriveSeed(c.seed, i)
	ctx := split.NewContext(seed)

	idx, err := sampling.Bootstrap(data.NRows(), bootSize, ctx.Rng)
	if err != nil {
		return err
	}

	inBag := bitset.New(uint(data.NRows()))
	for _, r := range idx {
		inBag.Set(uint(r))
	}

	var opts []tree.Option
	if c.hasMaxDepth {
		opts = append(opts, tree.MaxDepth(c.maxDepth))
	}
	if c.hasMinSplit {
		opts = append(opts, tree.MinSampleSplit(c.minSampleSplit))
	}

	clf, err := tree.New(opts...)
	if err != nil {
		return err
	}
	if err := clf.FitInx(data, idx, params, ctx); err != nil {
		return err
	}

	trees[i] = forestTree{clf: clf, inBag: inBag}

	c.log.Debug().
		Int("tree", i).
		Uint64("seed", seed).
		Int("bootstrap", bootSize).
		Msg("tree fitted")

	return nil
}

// PredictProba returns the class-1 vote share for each row of a row-major
// sample buffer: the fraction of trees voting 1, a value in [0,1]. Samples
// are scored in parallel by workers claiming sample indices off an atomic
// counter.
func (c *Classifier) PredictProba(samples []float32) ([]float64, error) {
	if !c.fitted {
		return nil, errors.Wrap(arboria.ErrInvalidArgument, "forest: predict_proba called before fit")
	}
	if len(samples)%c.nFeatures != 0 {
		return nil, errors.Wrap(arboria.ErrInvalidArgument, "forest: passed samples do not have the correct dimension")
	}

	nSamples := len(samples) / c.nFeatures
	out := make([]float64, nSamples)

	var (
		next    atomic.Int64
		failed  atomic.Bool
		once    sync.Once
		wg      sync.WaitGroup
		workErr error
	)
	fail := func(err error) {
		once.Do(func() { workErr = err })
		failed.Store(true)
	}

	for w := 0; w < c.workers(nSamples); w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			votes := make([]float64, len(c.trees))
			for {
				s := int(next.Add(1)) - 1
				if s >= nSamples || failed.Load() {
					return
				}
				sample := samples[s*c.nFeatures : (s+1)*c.nFeatures]
				for t := range c.trees {
					v, err := c.trees[t].clf.PredictOne(sample)
					if err != nil {
						fail(err)
						return
					}
					votes[t] = float64(v)
				}
				out[s] = stat.Mean(votes, nil)
			}
		}()
	}
	wg.Wait()

	if workErr != nil {
		return nil, workErr
	}
	return out, nil
}

// Predict returns the hard class for each sample: 1 when the vote share
// reaches 0.5, else 0.
func (c *Classifier) Predict(samples []float32) ([]int, error) {
	probs, err := c.PredictProba(samples)
	if err != nil {
		return nil, err
	}

	preds := make([]int, len(probs))
	for i, p := range probs {
		if p >= 0.5 {
			preds[i] = 1
		}
	}
	return preds, nil
}

// OutOfBag returns the out-of-bag accuracy: each row is scored only by the
// trees whose bootstrap did not contain it, classified by vote share
// against 0.5, and compared with its label. Rows seen by every tree are
// skipped; a computation that skips every row is an error.
func (c *Classifier) OutOfBag(data *dataset.DataSet) (float64, error) {
	if !c.fitted {
		return 0, errors.Wrap(arboria.ErrInvalidArgument, "forest: out_of_bag called before fit")
	}
	if data.IsEmpty() {
		return 0, errors.Wrap(arboria.ErrInvalidArgument, "forest: out_of_bag dataset is empty")
	}
	if data.NCols() != c.nFeatures {
		return 0, errors.Wrap(arboria.ErrInvalidArgument, "forest: out_of_bag dataset has a different number of features than seen in training")
	}

	xs := data.X()
	ys := data.Y()

	correct, wrong := 0, 0
	votes := make([]float64, 0, len(c.trees))

	for r := 0; r < data.NRows(); r++ {
		votes = votes[:0]
		sample := xs[r*c.nFeatures : (r+1)*c.nFeatures]

		for t := range c.trees {
			if c.trees[t].inBag.Test(uint(r)) {
				continue
			}
			v, err := c.trees[t].clf.PredictOne(sample)
			if err != nil {
				return 0, err
			}
			votes = append(votes, float64(v))
		}
		if len(votes) == 0 {
			continue
		}

		pred := 0
		if stat.Mean(votes, nil) >= 0.5 {
			pred = 1
		}

		switch {
		case math32.Abs(ys[r]-1) < 1e-6:
			if pred == 1 {
				correct++
			} else {
				wrong++
			}
		case math32.Abs(ys[r]) < 1e-6:
			if pred == 0 {
				correct++
			} else {
				wrong++
			}
		default:
			return 0, errors.Wrap(arboria.ErrInvalidArgument, "forest: out_of_bag non-binary label, not in {0,1}")
		}
	}

	if correct+wrong == 0 {
		return 0, errors.Wrap(arboria.ErrLogic, "forest: every row was in-bag for every tree, no out-of-bag estimate")
	}
	return float64(correct) / float64(correct+wrong), nil
}

// IsFitted reports whether the forest has been fitted.
func (c *Classifier) IsFitted() bool { return c.fitted }

// GetEstimators returns the number of trees.
func (c *Classifier) GetEstimators() int { return c.nEstimators }

// GetMaxFeatures returns mtry: the configured value before fit, the
// resolved value after.
func (c *Classifier) GetMaxFeatures() int { return c.mtry }

// GetMaxDepth returns the propagated maximum depth, 0 when unset.
func (c *Classifier) GetMaxDepth() int { return c.maxDepth }

// GetMaxSamples returns the bootstrap fraction, 0 when unset.
func (c *Classifier) GetMaxSamples() float64 { return c.maxSamples }

// GetMinSampleSplit returns the propagated split floor, 0 when unset.
func (c *Classifier) GetMinSampleSplit() int { return c.minSampleSplit }

// Seed returns the master seed the forest trains from.
func (c *Classifier) Seed() uint64 { return c.seed }

// NumWorkers returns the configured n_jobs value.
func (c *Classifier) NumWorkers() int { return c.nJobs }
