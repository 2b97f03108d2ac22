package domain

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const (
	weakThreshold     = 50
	strongThreshold   = 70
	maxSuggestions    = 3
	timePressureLimit = 3

	SkipTimePressure = "time_pressure"
)

type TopicScore struct {
	Correct int
	Total   int
}

// ResultTotals is the part of one result document the report looks at.
type ResultTotals struct {
	Total       int
	Correct     int
	Skipped     int
	SkipReasons map[string]int
}

type TopicPercent struct {
	Topic   string
	Percent int
}

type BlindSpotReport struct {
	WeakAreas    []TopicPercent
	NeedsWork    []TopicPercent
	StrongAreas  []TopicPercent
	SkipPatterns map[string]int
	Suggestions  []string
	GeneratedAt  time.Time
}

type Stats struct {
	TotalQuizzes   int
	TotalQuestions int
	TotalCorrect   int
	TotalSkipped   int
	OverallScore   int
}

// Generate buckets topics into weak (< 50%), needs-work (50-70%) and strong
// (>= 70%) bands and derives study suggestions.
func Generate(topics map[string]TopicScore, skips map[string]int, now time.Time) BlindSpotReport {
	report := BlindSpotReport{
		WeakAreas:    []TopicPercent{},
		NeedsWork:    []TopicPercent{},
		StrongAreas:  []TopicPercent{},
		SkipPatterns: map[string]int{},
		Suggestions:  []string{},
		GeneratedAt:  now,
	}
	for topic, score := range topics {
		if score.Total == 0 {
			continue
		}
		entry := TopicPercent{Topic: topic, Percent: percent(score.Correct, score.Total)}
		switch {
		case entry.Percent < weakThreshold:
			report.WeakAreas = append(report.WeakAreas, entry)
		case entry.Percent < strongThreshold:
			report.NeedsWork = append(report.NeedsWork, entry)
		default:
			report.StrongAreas = append(report.StrongAreas, entry)
		}
	}
	sortBand(report.WeakAreas, false)
	sortBand(report.NeedsWork, false)
	sortBand(report.StrongAreas, true)

	for i, weak := range report.WeakAreas {
		if i == maxSuggestions {
			break
		}
		report.Suggestions = append(report.Suggestions,
			fmt.Sprintf("Next session, pay extra attention when the assistant discusses %s.", humanize(weak.Topic)))
	}
	for reason, count := range skips {
		report.SkipPatterns[reason] = count
	}
	if skips[SkipTimePressure] >= timePressureLimit {
		report.Suggestions = append(report.Suggestions, "Consider shorter quizzes to reduce time pressure skips.")
	}
	return report
}

func sortBand(band []TopicPercent, descending bool) {
	sort.SliceStable(band, func(i, j int) bool {
		if band[i].Percent != band[j].Percent {
			if descending {
				return band[i].Percent > band[j].Percent
			}
			return band[i].Percent < band[j].Percent
		}
		return band[i].Topic < band[j].Topic
	})
}

// SkipPatterns sums skip reasons across result documents.
func SkipPatterns(results []ResultTotals) map[string]int {
	patterns := map[string]int{}
	for _, r := range results {
		for reason, count := range r.SkipReasons {
			patterns[reason] += count
		}
	}
	return patterns
}

func Aggregate(results []ResultTotals) Stats {
	stats := Stats{TotalQuizzes: len(results)}
	for _, r := range results {
		stats.TotalQuestions += r.Total
		stats.TotalCorrect += r.Correct
		stats.TotalSkipped += r.Skipped
	}
	stats.OverallScore = percent(stats.TotalCorrect, stats.TotalQuestions)
	return stats
}

func (r BlindSpotReport) Empty() bool {
	return len(r.WeakAreas) == 0 && len(r.NeedsWork) == 0 && len(r.StrongAreas) == 0
}

// Markdown renders the report body, one section per non-empty band.
func (r BlindSpotReport) Markdown() string {
	b := strings.Builder{}
	b.WriteString("# Weekly Blind Spot Report\n\n")
	writeBand(&b, "Weak areas (< 50% correct)", r.WeakAreas)
	writeBand(&b, "Needs work (50-70%)", r.NeedsWork)
	writeBand(&b, "Strong areas (>= 70%)", r.StrongAreas)
	if len(r.SkipPatterns) > 0 {
		b.WriteString("## Skip patterns\n\n")
		for _, reason := range sortedKeys(r.SkipPatterns) {
			fmt.Fprintf(&b, "- %d skips due to %q\n", r.SkipPatterns[reason], strings.ReplaceAll(reason, "_", " "))
		}
		b.WriteString("\n")
	}
	if len(r.Suggestions) > 0 {
		b.WriteString("## Suggestions\n\n")
		for _, s := range r.Suggestions {
			fmt.Fprintf(&b, "- %s\n", s)
		}
		b.WriteString("\n")
	}
	return b.String()
}

func writeBand(b *strings.Builder, heading string, band []TopicPercent) {
	if len(band) == 0 {
		return
	}
	fmt.Fprintf(b, "## %s\n\n", heading)
	for _, entry := range band {
		fmt.Fprintf(b, "- %s (%d%%)\n", cases.Title(language.English).String(humanize(entry.Topic)), entry.Percent)
	}
	b.WriteString("\n")
}

func humanize(topic string) string {
	return strings.ReplaceAll(topic, "_", " ")
}

func sortedKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func percent(part, whole int) int {
	if whole == 0 {
		return 0
	}
	return int(math.RoundToEven(float64(part) / float64(whole) * 100))
}

// History is everything the report reads from past quizzes.
type History struct {
	Results []ResultTotals
	Topics  map[string]TopicScore
}
