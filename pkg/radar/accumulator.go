package radar

import (
	"sort"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/cognicore/radar/pkg/radar/cluster"
	"github.com/cognicore/radar/pkg/radar/extract"
	"github.com/cognicore/radar/pkg/radar/ingest"
)

type docEntry struct {
	index     int
	id        string
	timestamp time.Time
	text      string
}

type mentionEntry struct {
	docIndex int
	mention  extract.Mention
}

// accumulator collects everything one topic needs from the map stage.
// Partial accumulators merge by concatenation; sort makes the result
// independent of merge order.
type accumulator struct {
	docs     []docEntry
	entries  []mentionEntry
	upvotes  int
	comments int
}

func (a *accumulator) add(index int, d ingest.Document, p ingest.ProcessedDoc) {
	a.docs = append(a.docs, docEntry{index: index, id: d.ID, timestamp: d.Timestamp, text: d.Text})
	for _, m := range p.Mentions {
		a.entries = append(a.entries, mentionEntry{docIndex: index, mention: m})
	}
	a.upvotes += d.Engagement.Score
	a.comments += d.Engagement.CommentCount
}

func (a *accumulator) merge(b *accumulator) {
	if b == nil {
		return
	}
	a.docs = append(a.docs, b.docs...)
	a.entries = append(a.entries, b.entries...)
	a.upvotes += b.upvotes
	a.comments += b.comments
}

// sort orders documents by (id, input position) and mentions by
// (document id, input position, ordinal).
func (a *accumulator) sort() {
	sort.Slice(a.docs, func(i, j int) bool {
		if a.docs[i].id != a.docs[j].id {
			return a.docs[i].id < a.docs[j].id
		}
		return a.docs[i].index < a.docs[j].index
	})
	sort.Slice(a.entries, func(i, j int) bool {
		x, y := a.entries[i], a.entries[j]
		if x.mention.DocumentID != y.mention.DocumentID {
			return x.mention.DocumentID < y.mention.DocumentID
		}
		if x.docIndex != y.docIndex {
			return x.docIndex < y.docIndex
		}
		return x.mention.Ordinal < y.mention.Ordinal
	})
}

func (a *accumulator) mentions(cat extract.Category) []extract.Mention {
	var out []extract.Mention
	for _, e := range a.entries {
		if e.mention.Category == cat {
			out = append(out, e.mention)
		}
	}
	return out
}

func (a *accumulator) timestamps() []time.Time {
	out := make([]time.Time, len(a.docs))
	for i, d := range a.docs {
		out[i] = d.timestamp
	}
	return out
}

func (a *accumulator) text() string {
	var b strings.Builder
	for i, d := range a.docs {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(d.text)
	}
	return b.String()
}

// reduce folds documents into one accumulator per topic. Each worker fills
// its own shard of partials; shards are merged in shard order afterwards.
func (e *Engine) reduce(docs []ingest.Document, processed []ingest.ProcessedDoc, groups []cluster.Cluster) []*accumulator {
	topicOf := make([]int, len(docs))
	for t, g := range groups {
		for _, m := range g.Members {
			topicOf[m] = t
		}
	}

	shards := min(e.workers, len(docs))
	partials := make([][]*accumulator, shards)
	if shards > 0 {
		chunk := (len(docs) + shards - 1) / shards

		var g errgroup.Group
		for s := 0; s < shards; s++ {
			g.Go(func() error {
				part := make([]*accumulator, len(groups))
				for i := s * chunk; i < min((s+1)*chunk, len(docs)); i++ {
					t := topicOf[i]
					if part[t] == nil {
						part[t] = &accumulator{}
					}
					part[t].add(i, docs[i], processed[i])
				}
				partials[s] = part
				return nil
			})
		}
		_ = g.Wait()
	}

	accs := make([]*accumulator, len(groups))
	for t := range accs {
		accs[t] = &accumulator{}
		for s := range partials {
			accs[t].merge(partials[s][t])
		}
	}
	return accs
}
