package forest_test

import (
	"fmt"
	"log"

	"github.com/fantinsib/arboria/dataset"
	"github.com/fantinsib/arboria/forest"
	"github.com/fantinsib/arboria/split"
)

func Example() {
	x := []float32{
		0.1, 0.3, 0.2,
		0.4, 0.2, 0.5,
		0.2, 0.4, 0.1,
		0.3, 0.1, 0.4,
		9.8, 10.1, 9.9,
		10.2, 9.7, 10.3,
		9.9, 10.0, 10.1,
		10.1, 10.2, 9.8,
	}
	y := []float32{0, 0, 0, 0, 1, 1, 1, 1}

	data, err := dataset.New(x, y, 8, 3)
	if err != nil {
		log.Fatal(err)
	}

	params, err := split.BuildParams(split.ModelRandomForest, split.Classification{})
	if err != nil {
		log.Fatal(err)
	}

	clf, err := forest.New(forest.NumTrees(25), forest.Mtry(2), forest.Seed(123))
	if err != nil {
		log.Fatal(err)
	}
	if err := clf.Fit(data, params); err != nil {
		log.Fatal(err)
	}

	preds, err := clf.Predict([]float32{
		0, 0, 0,
		10, 10, 10,
	})
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println(preds)
	// Output: [0 1]
}
