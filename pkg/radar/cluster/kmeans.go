package cluster

import (
	"math"
	"math/rand"
)

// KMeans partitions vectors into at most k groups with k-means++ seeding from
// a fixed seed, so identical input always yields identical output. It returns
// the cluster index of every vector and the final centroids. k is reduced to
// len(vectors) when larger. Ties go to the lowest centroid index, and a
// centroid that loses all its members keeps its previous position.
func KMeans(vectors [][]float64, k int, seed int64, maxIter int) ([]int, [][]float64) {
	n := len(vectors)
	if n == 0 || k <= 0 {
		return []int{}, nil
	}
	if k > n {
		k = n
	}
	if maxIter <= 0 {
		maxIter = 100
	}

	rng := rand.New(rand.NewSource(seed))
	centroids := seedCentroids(vectors, k, rng)

	assign := make([]int, n)
	for i := range assign {
		assign[i] = -1
	}

	for iter := 0; iter < maxIter; iter++ {
		changed := false
		for i, v := range vectors {
			c := nearest(v, centroids)
			if c != assign[i] {
				assign[i] = c
				changed = true
			}
		}
		if !changed {
			break
		}
		recompute(vectors, assign, centroids)
	}

	return assign, centroids
}

func seedCentroids(vectors [][]float64, k int, rng *rand.Rand) [][]float64 {
	n := len(vectors)
	chosen := make([]bool, n)
	centroids := make([][]float64, 0, k)

	first := rng.Intn(n)
	chosen[first] = true
	centroids = append(centroids, clone(vectors[first]))

	dist := make([]float64, n)
	for len(centroids) < k {
		total := 0.0
		for i, v := range vectors {
			d := sqDist(v, centroids[nearest(v, centroids)])
			if chosen[i] {
				d = 0
			}
			dist[i] = d
			total += d
		}

		next := -1
		if total > 0 {
			r := rng.Float64() * total
			for i, d := range dist {
				if d == 0 {
					continue
				}
				r -= d
				next = i
				if r <= 0 {
					break
				}
			}
		} else {
			for i := range vectors {
				if !chosen[i] {
					next = i
					break
				}
			}
		}

		chosen[next] = true
		centroids = append(centroids, clone(vectors[next]))
	}
	return centroids
}

func recompute(vectors [][]float64, assign []int, centroids [][]float64) {
	dim := len(vectors[0])
	sums := make([][]float64, len(centroids))
	counts := make([]int, len(centroids))
	for i, v := range vectors {
		c := assign[i]
		if sums[c] == nil {
			sums[c] = make([]float64, dim)
		}
		for j, x := range v {
			sums[c][j] += x
		}
		counts[c]++
	}
	for c := range centroids {
		if counts[c] == 0 {
			continue
		}
		for j := range sums[c] {
			sums[c][j] /= float64(counts[c])
		}
		centroids[c] = sums[c]
	}
}

func nearest(v []float64, centroids [][]float64) int {
	best, bestDist := 0, math.Inf(1)
	for c, centroid := range centroids {
		if d := sqDist(v, centroid); d < bestDist {
			best, bestDist = c, d
		}
	}
	return best
}

func sqDist(a, b []float64) float64 {
	var s float64
	for i := range a {
		d := a[i] - b[i]
		s += d * d
	}
	return s
}

func clone(v []float64) []float64 {
	out := make([]float64, len(v))
	copy(out, v)
	return out
}
