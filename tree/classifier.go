// Package tree implements a binary decision-tree classifier grown by
// recursive partitioning of a shared index buffer.
package tree

import (
	"github.com/chewxy/math32"
	"github.com/pkg/errors"

	"github.com/fantinsib/arboria"
	"github.com/fantinsib/arboria/dataset"
	"github.com/fantinsib/arboria/helpers"
	"github.com/fantinsib/arboria/split"
)

// Classifier is a decision-tree classifier. It should be initialized with
// New and is valid for prediction only after a successful Fit.
type Classifier struct {
	root *Node

	task           split.Task
	maxDepth       int
	minSampleSplit int
	hasMaxDepth    bool
	hasMinSplit    bool

	nFeatures int
	fitted    bool
}

// Option configures a Classifier at construction.
type Option func(*Classifier)

// MaxDepth limits the depth of the fitted tree; n must be at least 1.
func MaxDepth(n int) Option {
	return func(c *Classifier) {
		c.maxDepth = n
		c.hasMaxDepth = true
	}
}

// MinSampleSplit marks nodes holding at most n samples as leaves; n must be
// at least 2.
func MinSampleSplit(n int) Option {
	return func(c *Classifier) {
		c.minSampleSplit = n
		c.hasMinSplit = true
	}
}

// WithTask sets the task tag. The default is classification, and only
// classification is implemented.
func WithTask(t split.Task) Option {
	return func(c *Classifier) { c.task = t }
}

// New returns a configured decision-tree classifier.
func New(options ...Option) (*Classifier, error) {
	c := &Classifier{task: split.Classification{}}

	for _, opt := range options {
		opt(c)
	}

	if c.hasMaxDepth && c.maxDepth < 1 {
		return nil, errors.Wrap(arboria.ErrInvalidArgument, "tree: max_depth must be greater than or equal to 1")
	}
	if c.hasMinSplit && c.minSampleSplit < 2 {
		return nil, errors.Wrap(arboria.ErrInvalidArgument, "tree: min_sample_split must be greater than or equal to 2")
	}
	if c.task == nil {
		return nil, errors.Wrap(arboria.ErrInvalidArgument, "tree: a task tag must be provided")
	}

	return c, nil
}

// Fit grows the tree on the full dataset. Every component of params must be
// defined; the identity index buffer over all rows is built internally.
func (c *Classifier) Fit(data *dataset.DataSet, params split.Params) error {
	if data.NRows() <= 1 {
		return errors.Wrap(arboria.ErrInvalidArgument, "tree: fit requires more than one sample")
	}
	if params.Undefined() {
		return errors.Wrap(arboria.ErrInvalidArgument, "tree: params passed to fit contain an undefined component")
	}

	buffer := make([]int, data.NRows())
	for i := range buffer {
		buffer[i] = i
	}

	return c.FitInx(data, buffer, params, nil)
}

// FitInx grows the tree on a caller-supplied subset of rows. The index
// buffer is partitioned in place during growth. An externally-owned
// splitter context may be supplied so RandomK decisions inside this tree
// share a single RNG stream; it is required when params select RandomK.
// FitInx is intended for meta algorithms built on bootstrap sampling, such
// as a random forest.
func (c *Classifier) FitInx(data *dataset.DataSet, idx []int, params split.Params, ctx *split.Context) error {
	if data.NRows() <= 1 {
		return errors.Wrap(arboria.ErrInvalidArgument, "tree: fit requires more than one sample")
	}
	if params.Undefined() {
		return errors.Wrap(arboria.ErrInvalidArgument, "tree: params passed to fit contain an undefined component")
	}
	if len(idx) == 0 {
		return errors.Wrap(arboria.ErrInvalidArgument, "tree: fit index buffer is empty")
	}
	if _, ok := params.Task.(split.Classification); !ok {
		return errors.Wrap(arboria.ErrLogic, "tree: only classification trees are implemented")
	}

	c.root = newNode()
	if err := c.grow(data, c.root, idx, 0, params, ctx); err != nil {
		return err
	}

	c.nFeatures = data.NCols()
	c.fitted = true
	return nil
}

// grow recursively builds the subtree rooted at node from the samples
// referenced by idx, a sub-slice of the fit buffer.
func (c *Classifier) grow(data *dataset.DataSet, node *Node, idx []int, depth int, params split.Params, ctx *split.Context) error {
	pos, neg, err := helpers.CountClassesIndex(idx, data.Y())
	if err != nil {
		return err
	}

	// majority label, ties to class 1
	leaf := func() {
		node.Leaf = true
		if pos >= neg {
			node.Value = 1
		} else {
			node.Value = 0
		}
	}

	if len(idx) <= 1 {
		leaf()
		return nil
	}
	if pos == 0 || neg == 0 {
		leaf()
		return nil
	}
	if c.hasMaxDepth && depth == c.maxDepth {
		leaf()
		return nil
	}
	if c.hasMinSplit && len(idx) <= c.minSampleSplit {
		leaf()
		return nil
	}

	res, err := split.BestSplit(idx, data, params, ctx)
	if err != nil {
		return err
	}
	if !res.HasSplit() {
		leaf()
		return nil
	}

	// partition idx in place: rows with feature value strictly below the
	// threshold move to the front
	xs := data.X()
	nCols := data.NCols()
	i, j := 0, len(idx)
	for i < j {
		if xs[idx[i]*nCols+res.Feature] < res.Threshold {
			i++
		} else {
			j--
			idx[j], idx[i] = idx[i], idx[j]
		}
	}

	left, right := idx[:i], idx[i:]
	if len(left) == 0 || len(right) == 0 {
		leaf()
		return nil
	}

	node.Feature = res.Feature
	node.Threshold = res.Threshold
	node.Leaf = false
	node.Left = newNode()
	node.Right = newNode()

	if err := c.grow(data, node.Left, left, depth+1, params, ctx); err != nil {
		return err
	}
	return c.grow(data, node.Right, right, depth+1, params, ctx)
}

// PredictOne returns the predicted class for a single sample. The sample
// must have as many features as seen at fit; a NaN feature encountered on
// the descent path is an error.
func (c *Classifier) PredictOne(sample []float32) (int, error) {
	if !c.fitted {
		return 0, errors.Wrap(arboria.ErrInvalidArgument, "tree: predict_one called before fit")
	}
	if len(sample) != c.nFeatures {
		return 0, errors.Wrap(arboria.ErrInvalidArgument, "tree: sample has a different number of features than seen in training")
	}

	n := c.root
	for !n.Leaf {
		if !n.IsValid(c.nFeatures) {
			return 0, errors.Wrap(arboria.ErrLogic, "tree: invalid node reached during predict")
		}

		v := sample[n.Feature]
		if math32.IsNaN(v) {
			return 0, errors.Wrap(arboria.ErrInvalidArgument, "tree: sample contains NaN")
		}

		if v < n.Threshold {
			n = n.Left
		} else {
			n = n.Right
		}
	}
	return n.Value, nil
}

// Predict returns the predicted class for each row of a row-major sample
// buffer whose length must be a multiple of the feature count.
func (c *Classifier) Predict(samples []float32) ([]int, error) {
	if !c.fitted || c.nFeatures == 0 {
		return nil, errors.Wrap(arboria.ErrInvalidArgument, "tree: predict called before fit")
	}
	if len(samples)%c.nFeatures != 0 {
		return nil, errors.Wrap(arboria.ErrInvalidArgument, "tree: passed samples do not have the correct dimension")
	}

	preds := make([]int, len(samples)/c.nFeatures)
	for s := range preds {
		p, err := c.PredictOne(samples[s*c.nFeatures : (s+1)*c.nFeatures])
		if err != nil {
			return nil, err
		}
		preds[s] = p
	}
	return preds, nil
}

// IsFitted reports whether the tree has been fitted.
func (c *Classifier) IsFitted() bool { return c.fitted }

// NumFeatures returns the number of features seen at fit.
func (c *Classifier) NumFeatures() int { return c.nFeatures }

// Root returns the root node of the fitted tree, nil before fit.
func (c *Classifier) Root() *Node { return c.root }

// GetMaxDepth returns the configured maximum depth, 0 when unset.
func (c *Classifier) GetMaxDepth() int { return c.maxDepth }

// GetMinSampleSplit returns the configured split floor, 0 when unset.
func (c *Classifier) GetMinSampleSplit() int { return c.minSampleSplit }
