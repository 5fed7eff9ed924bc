package analyst

import (
	"testing"

	"github.com/edgarsift/edgarsift/pkg/models"
)

func f(v float64) *float64 { return &v }

func rating(source string, label models.BiasLabel) models.AnalystRating {
	return models.AnalystRating{Source: source, Label: label}
}

func TestAggregateEmptySet(t *testing.T) {
	bias := Aggregate(nil)
	if bias.Score != 0 {
		t.Errorf("score = %f, want 0", bias.Score)
	}
	if bias.Label != models.BiasNeutral {
		t.Errorf("label = %s, want neutral", bias.Label)
	}
	if bias.Ratings != 0 {
		t.Errorf("ratings = %d, want 0", bias.Ratings)
	}
}

func TestAggregateAllBullish(t *testing.T) {
	bias := Aggregate([]models.AnalystRating{
		rating("zacks", models.BiasBullish),
		rating("consensus", models.BiasBullish),
	})
	if bias.Score != 1 {
		t.Errorf("score = %f, want 1", bias.Score)
	}
	if bias.Label != models.BiasBullish {
		t.Errorf("label = %s, want bullish", bias.Label)
	}
	if bias.Ratings != 2 {
		t.Errorf("ratings = %d, want 2", bias.Ratings)
	}
}

func TestAggregateMixedIsNeutral(t *testing.T) {
	// +1, -1, 0 → mean 0, inside the neutral band.
	bias := Aggregate([]models.AnalystRating{
		rating("a", models.BiasBullish),
		rating("b", models.BiasBearish),
		rating("c", models.BiasNeutral),
	})
	if bias.Label != models.BiasNeutral {
		t.Errorf("label = %s, want neutral", bias.Label)
	}
	if bias.Ratings != 3 {
		t.Errorf("ratings = %d, want 3", bias.Ratings)
	}
}

func TestAggregateThresholds(t *testing.T) {
	// 1 bullish + 3 neutral → 0.25, inside the neutral band.
	bias := Aggregate([]models.AnalystRating{
		rating("a", models.BiasBullish),
		rating("b", models.BiasNeutral),
		rating("c", models.BiasNeutral),
		rating("d", models.BiasNeutral),
	})
	if bias.Label != models.BiasNeutral {
		t.Errorf("0.25 score: label = %s, want neutral", bias.Label)
	}

	// 1 bullish + 1 neutral → 0.5, above the cutoff.
	bias = Aggregate([]models.AnalystRating{
		rating("a", models.BiasBullish),
		rating("b", models.BiasNeutral),
	})
	if bias.Label != models.BiasBullish {
		t.Errorf("0.5 score: label = %s, want bullish", bias.Label)
	}

	// Symmetric on the bearish side.
	bias = Aggregate([]models.AnalystRating{
		rating("a", models.BiasBearish),
		rating("b", models.BiasNeutral),
	})
	if bias.Label != models.BiasBearish {
		t.Errorf("-0.5 score: label = %s, want bearish", bias.Label)
	}
}

func TestNormalizeLabelNumericScale(t *testing.T) {
	cases := []struct {
		raw  string
		want models.BiasLabel
	}{
		{"1", models.BiasBullish},
		{"2", models.BiasBullish},
		{"3", models.BiasNeutral},
		{"4", models.BiasBearish},
		{"5", models.BiasBearish},
		{"2.5", models.BiasBullish},
	}
	for _, c := range cases {
		if got := NormalizeLabel(c.raw); got != c.want {
			t.Errorf("NormalizeLabel(%q) = %s, want %s", c.raw, got, c.want)
		}
	}
}

func TestNormalizeLabelText(t *testing.T) {
	cases := []struct {
		raw  string
		want models.BiasLabel
	}{
		{"Buy", models.BiasBullish},
		{"STRONG BUY", models.BiasBullish},
		{"Overweight", models.BiasBullish},
		{"outperform", models.BiasBullish},
		{"Hold", models.BiasNeutral},
		{"neutral", models.BiasNeutral},
		{"Sell", models.BiasBearish},
		{"Underperform", models.BiasBearish},
		{"", models.BiasNeutral},
		{"no coverage", models.BiasNeutral},
	}
	for _, c := range cases {
		if got := NormalizeLabel(c.raw); got != c.want {
			t.Errorf("NormalizeLabel(%q) = %s, want %s", c.raw, got, c.want)
		}
	}
}

func TestTargetsPassThrough(t *testing.T) {
	ratings := []models.AnalystRating{
		{Source: "zacks", Label: models.BiasBullish, PriceTarget: f(150)},
		{Source: "consensus", Label: models.BiasNeutral},
		{Source: "jpm", Label: models.BiasBearish, PriceTarget: f(95)},
	}
	targets := Targets(ratings)
	if len(targets) != 2 {
		t.Fatalf("expected 2 targets, got %d", len(targets))
	}
	if targets[0].Source != "zacks" || targets[0].Target != 150 {
		t.Errorf("unexpected first target: %+v", targets[0])
	}
	if targets[1].Source != "jpm" || targets[1].Target != 95 {
		t.Errorf("unexpected second target: %+v", targets[1])
	}
}
