package out

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"

	"quizhook/internal/modules/report/domain"
	reportout "quizhook/internal/modules/report/port/out"
	"quizhook/internal/platform/atomicfile"
	"quizhook/internal/platform/markdown"
	"quizhook/internal/platform/timefmt"
)

// ReportMeta is the frontmatter of the markdown report.
type ReportMeta struct {
	Type        string `yaml:"type"`
	GeneratedAt string `yaml:"generated_at"`
	Weak        int    `yaml:"weak"`
	NeedsWork   int    `yaml:"needs_work"`
	Strong      int    `yaml:"strong"`
}

type reportFile struct {
	WeakAreas    [][2]any       `json:"weak_areas"`
	NeedsWork    [][2]any       `json:"needs_work"`
	StrongAreas  [][2]any       `json:"strong_areas"`
	SkipPatterns map[string]int `json:"skip_patterns"`
	Suggestions  []string       `json:"suggestions"`
	GeneratedAt  string         `json:"generated_at"`
}

// FileReportStore writes weekly-<date>.json and a markdown twin with YAML
// frontmatter. A second report on the same day replaces the first.
type FileReportStore struct {
	dir string
}

func NewFileReportStore(dir string) reportout.ReportStore {
	return &FileReportStore{dir: dir}
}

func (s *FileReportStore) Save(ctx context.Context, report domain.BlindSpotReport) (string, string, error) {
	if err := ctx.Err(); err != nil {
		return "", "", err
	}
	base := "weekly-" + report.GeneratedAt.Format("2006-01-02")
	jsonPath := filepath.Join(s.dir, base+".json")
	mdPath := filepath.Join(s.dir, base+".md")

	payload, err := json.MarshalIndent(reportFile{
		WeakAreas:    pairs(report.WeakAreas),
		NeedsWork:    pairs(report.NeedsWork),
		StrongAreas:  pairs(report.StrongAreas),
		SkipPatterns: report.SkipPatterns,
		Suggestions:  report.Suggestions,
		GeneratedAt:  timefmt.Format(report.GeneratedAt),
	}, "", "  ")
	if err != nil {
		return "", "", fmt.Errorf("encode report: %w", err)
	}
	if err := atomicfile.WriteFile(jsonPath, append(payload, '\n'), 0o644); err != nil {
		return "", "", fmt.Errorf("write report json: %w", err)
	}

	content, err := markdown.Render(ReportMeta{
		Type:        "blind-spot-report",
		GeneratedAt: timefmt.Format(report.GeneratedAt),
		Weak:        len(report.WeakAreas),
		NeedsWork:   len(report.NeedsWork),
		Strong:      len(report.StrongAreas),
	}, report.Markdown())
	if err != nil {
		return "", "", err
	}
	if err := atomicfile.WriteFile(mdPath, []byte(content), 0o644); err != nil {
		return "", "", fmt.Errorf("write report markdown: %w", err)
	}
	return jsonPath, mdPath, nil
}

func pairs(band []domain.TopicPercent) [][2]any {
	out := make([][2]any, 0, len(band))
	for _, entry := range band {
		out = append(out, [2]any{entry.Topic, entry.Percent})
	}
	return out
}
