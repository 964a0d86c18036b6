// Package cluster groups documents into labelled topics with TF-IDF vectors
// and seeded k-means.
package cluster

import (
	"fmt"
	"sort"
	"strings"

	"github.com/cognicore/radar/pkg/radar/ingest"
)

// Defaults for Options.
const (
	DefaultK             = 8
	DefaultMaxFeatures   = 1000
	DefaultMinDF         = 2
	DefaultMaxDF         = 0.95
	DefaultSeed          = 42
	DefaultMaxIterations = 100
	labelTerms           = 2
)

// Options configure vectorization and k-means.
type Options struct {
	K             int
	MaxFeatures   int
	MinDF         int
	MaxDF         float64
	Seed          int64
	MaxIterations int
}

// DefaultOptions returns the default clustering options.
func DefaultOptions() Options {
	return Options{
		K:             DefaultK,
		MaxFeatures:   DefaultMaxFeatures,
		MinDF:         DefaultMinDF,
		MaxDF:         DefaultMaxDF,
		Seed:          DefaultSeed,
		MaxIterations: DefaultMaxIterations,
	}
}

// Cluster is one topic: a label, its top terms, a category and the indices
// of its member documents in input order.
type Cluster struct {
	Label    string
	Terms    []string
	Category string
	Members  []int
}

// Clusterer assigns every document to exactly one topic.
type Clusterer struct {
	opts     Options
	taxonomy *ingest.Taxonomy
}

// NewClusterer creates a clusterer. A nil taxonomy puts every topic in ingest.OtherCategory.
func NewClusterer(opts Options, taxonomy *ingest.Taxonomy) *Clusterer {
	if taxonomy == nil {
		taxonomy = ingest.NewTaxonomy(nil)
	}
	return &Clusterer{opts: opts, taxonomy: taxonomy}
}

// Cluster partitions documents given their normalized tokens and raw texts
// (used for categorization); tokens and texts are parallel slices. Empty
// clusters are dropped and the rest are ordered by their first member.
func (c *Clusterer) Cluster(tokens [][]string, texts []string) []Cluster {
	if len(tokens) == 0 {
		return []Cluster{}
	}

	vec := FitVectorizer(tokens, c.opts.MaxFeatures, c.opts.MinDF, c.opts.MaxDF)
	vectors := make([][]float64, len(tokens))
	for i, toks := range tokens {
		vectors[i] = vec.Transform(toks)
	}

	assign, centroids := KMeans(vectors, c.opts.K, c.opts.Seed, c.opts.MaxIterations)

	members := make([][]int, len(centroids))
	var order []int
	for i, ci := range assign {
		if len(members[ci]) == 0 {
			order = append(order, ci)
		}
		members[ci] = append(members[ci], i)
	}

	out := make([]Cluster, 0, len(order))
	used := make(map[string]int)
	for n, ci := range order {
		terms := topTerms(centroids[ci], vec.Terms(), labelTerms)
		label := strings.Join(terms, " ")
		if label == "" {
			label = fmt.Sprintf("topic %d", n+1)
		}
		label = uniqueLabel(label, used)

		out = append(out, Cluster{
			Label:    label,
			Terms:    terms,
			Category: c.categorize(members[ci], texts),
			Members:  members[ci],
		})
	}
	return out
}

func (c *Clusterer) categorize(idx []int, texts []string) string {
	parts := make([]string, 0, len(idx))
	for _, i := range idx {
		if i < len(texts) {
			parts = append(parts, texts[i])
		}
	}
	return c.Categorize(parts)
}

// Categorize picks the category with the most keyword hits across texts.
func (c *Clusterer) Categorize(texts []string) string {
	return c.taxonomy.Assign(strings.Join(texts, "\n"))
}

func topTerms(centroid []float64, vocab []string, n int) []string {
	idx := make([]int, 0, len(centroid))
	for i, w := range centroid {
		if w > 0 {
			idx = append(idx, i)
		}
	}
	sort.Slice(idx, func(a, b int) bool {
		wa, wb := centroid[idx[a]], centroid[idx[b]]
		if wa == wb {
			return vocab[idx[a]] < vocab[idx[b]]
		}
		return wa > wb
	})
	if len(idx) > n {
		idx = idx[:n]
	}
	out := make([]string, len(idx))
	for i, j := range idx {
		out[i] = vocab[j]
	}
	return out
}

func uniqueLabel(label string, used map[string]int) string {
	used[label]++
	if used[label] == 1 {
		return label
	}
	return fmt.Sprintf("%s (%d)", label, used[label])
}
