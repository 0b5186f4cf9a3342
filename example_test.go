package kmeans_test

import (
	"fmt"

	kmeans "github.com/yyyoichi/kmeans_trace"
)

func Example_fit() {
	points := []kmeans.Point{{0, 0}, {0, 1}, {10, 10}, {10, 11}}

	// Start from user picked centroids so the trajectory is fixed
	r, err := kmeans.Run(points,
		kmeans.WithManualCentroids([]kmeans.Point{{0, 0}, {10, 10}}),
		kmeans.WithMaxIterations(10),
	)
	if err != nil {
		fmt.Printf("Error running k-means: %v\n", err)
		return
	}

	for i, s := range r.History {
		fmt.Println(i, s.Centroids, s.Labels)
	}
	fmt.Println(r.State)

	// Output:
	// 0 [[0 0] [10 10]] [0 0 1 1]
	// 1 [[0 0.5] [10 10.5]] [0 0 1 1]
	// converged
}

func ExampleHistory_Predict() {
	points := []kmeans.Point{{0, 0}, {0, 1}, {10, 10}, {10, 11}}
	history, err := kmeans.Fit(points,
		kmeans.WithClusters(2),
		kmeans.WithInitialization(kmeans.FarthestFirst),
		kmeans.WithSeed(1),
	)
	if err != nil {
		fmt.Printf("Error running k-means: %v\n", err)
		return
	}

	labels, _ := history.Predict([]kmeans.Point{{1, 0}, {11, 11}})
	fmt.Println(labels[0] != labels[1])

	// Output:
	// true
}
