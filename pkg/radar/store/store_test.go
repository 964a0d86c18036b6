package store

import (
	"fmt"
	"testing"

	"github.com/cognicore/radar/pkg/radar"
	"github.com/cognicore/radar/pkg/radar/insight"
	"github.com/cognicore/radar/pkg/radar/trend"
)

func TestAnalyzeLimitsAndOrder(t *testing.T) {
	var topics []Topic
	for i := 0; i < 7; i++ {
		// category c0 gets one topic, c1 two, ... so larger indexes rank first
		for j := 0; j <= i; j++ {
			topics = append(topics, Topic{Topic: radar.Topic{
				Name:     fmt.Sprintf("t%d-%d", i, j),
				Category: fmt.Sprintf("c%d", i),
				Trend:    []trend.Point{{Period: fmt.Sprintf("2023-%02d", i+j+1), Mentions: 1}},
			}})
		}
	}
	topics[0].PainPoints = []insight.Insight{{Text: "a"}, {Text: "b"}}
	topics[1].PainPoints = []insight.Insight{{Text: "c"}, {Text: "d"}}

	ma := Analyze(topics)

	if len(ma.CategoryDistribution) != AnalysisCategories {
		t.Fatalf("got %d categories, want %d", len(ma.CategoryDistribution), AnalysisCategories)
	}
	if first := ma.CategoryDistribution[0]; first.Category != "c6" || first.Count != 7 {
		t.Errorf("first category = %+v", first)
	}

	if len(ma.GrowthTrends) != AnalysisPeriods {
		t.Fatalf("got %d periods, want %d", len(ma.GrowthTrends), AnalysisPeriods)
	}
	// periods run 2023-01..2023-13 lexically; the latest six are kept oldest first
	if ma.GrowthTrends[0].Period != "2023-08" || ma.GrowthTrends[5].Period != "2023-13" {
		t.Errorf("periods = %+v", ma.GrowthTrends)
	}
	for i := 1; i < len(ma.GrowthTrends); i++ {
		if ma.GrowthTrends[i-1].Period >= ma.GrowthTrends[i].Period {
			t.Errorf("periods not ascending: %+v", ma.GrowthTrends)
		}
	}

	// tie on two pain points each, broken by category name
	want := []CategoryCount{{Category: "c0", Count: 2}, {Category: "c1", Count: 2}}
	if fmt.Sprint(ma.PainPointsByCategory) != fmt.Sprint(want) {
		t.Errorf("pain points = %+v, want %+v", ma.PainPointsByCategory, want)
	}
}

func TestAnalyzeEmpty(t *testing.T) {
	ma := Analyze(nil)
	if ma.CategoryDistribution == nil || ma.GrowthTrends == nil || ma.PainPointsByCategory == nil {
		t.Errorf("expected empty non-nil slices, got %+v", ma)
	}
}
