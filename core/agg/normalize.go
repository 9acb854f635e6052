package agg

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/huangsam/snapcal/core/isoweek"
	"github.com/huangsam/snapcal/schema"
)

// dateLayouts are the accepted layouts for SourceRecord.Date.
var dateLayouts = []string{time.DateOnly, time.RFC3339, time.RFC3339Nano}

// Normalize flattens source records into one fact per (member, week, initiative).
// Malformed records are skipped and counted in the report; it never fails.
// Initiatives without tasks produce no fact.
func Normalize(records []schema.SourceRecord) ([]schema.RawSnapshot, schema.NormalizeReport) {
	report := schema.NormalizeReport{
		Records:         len(records),
		SkippedByReason: make(map[schema.SkipReason]int),
	}
	var facts []schema.RawSnapshot

	for _, r := range records {
		recordFacts, reason := normalizeRecord(r)
		if reason != "" {
			report.Skipped++
			report.SkippedByReason[reason]++
			continue
		}
		facts = append(facts, recordFacts...)
	}

	report.Facts = len(facts)
	return facts, report
}

// NormalizeBundle normalizes a decoded source and folds in the records
// the decoder could not read.
func NormalizeBundle(bundle *schema.SourceBundle) ([]schema.RawSnapshot, schema.NormalizeReport) {
	facts, report := Normalize(bundle.Records)
	if bundle.Malformed > 0 {
		report.Records += bundle.Malformed
		report.Skipped += bundle.Malformed
		report.SkippedByReason[schema.SkipMalformed] += bundle.Malformed
	}
	return facts, report
}

// normalizeRecord converts a single record, or returns the reason it was rejected.
func normalizeRecord(r schema.SourceRecord) ([]schema.RawSnapshot, schema.SkipReason) {
	member := schema.CleanName(r.Member)
	if member == "" {
		return nil, schema.SkipMissingMember
	}
	key, ok := resolveWeek(r)
	if !ok {
		return nil, schema.SkipMissingWeek
	}

	var facts []schema.RawSnapshot
	for _, in := range r.Initiatives {
		if len(in.Tasks) == 0 {
			continue
		}
		tasks := make([]schema.Task, 0, len(in.Tasks))
		for _, t := range in.Tasks {
			progress, ok := ParseProgress(t.Progress)
			if !ok {
				return nil, schema.SkipBadProgress
			}
			tasks = append(tasks, schema.Task{Title: strings.TrimSpace(t.Title), Progress: progress})
		}

		domain := in.Domain
		if strings.TrimSpace(domain) == "" {
			domain = r.Domain
		}
		facts = append(facts, schema.RawSnapshot{
			MemberName:    member,
			Year:          key.Year,
			WeekIndex:     key.WeekIndex,
			Domain:        schema.CleanName(domain),
			Project:       schema.CleanName(in.Project),
			Module:        schema.CleanName(in.Module),
			Feature:       schema.CleanName(in.Feature),
			PastWeekTasks: tasks,
		})
	}
	return facts, ""
}

// resolveWeek picks the week from Date when it parses, else from Year and Week when valid.
func resolveWeek(r schema.SourceRecord) (schema.WeekKey, bool) {
	if d := strings.TrimSpace(r.Date); d != "" {
		for _, layout := range dateLayouts {
			if t, err := time.Parse(layout, d); err == nil {
				return isoweek.ToWeekKey(t), true
			}
		}
	}
	key := schema.WeekKey{Year: r.Year, WeekIndex: r.Week}
	if r.Year > 0 && isoweek.Valid(key) {
		return key, true
	}
	return schema.WeekKey{}, false
}

// ParseProgress converts a loosely typed progress value into an integer in [0,100].
// Values are clamped and rounded to the nearest integer. It reports false for
// missing, non-numeric and non-finite values.
func ParseProgress(v any) (int, bool) {
	var f float64
	switch p := v.(type) {
	case int:
		f = float64(p)
	case int32:
		f = float64(p)
	case int64:
		f = float64(p)
	case uint:
		f = float64(p)
	case uint64:
		f = float64(p)
	case float32:
		f = float64(p)
	case float64:
		f = p
	case json.Number:
		parsed, err := p.Float64()
		if err != nil {
			return 0, false
		}
		f = parsed
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSuffix(strings.TrimSpace(p), "%"), 64)
		if err != nil {
			return 0, false
		}
		f = parsed
	default:
		return 0, false
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	f = math.Min(math.Max(f, schema.MinProgress), schema.MaxProgress)
	return int(math.Round(f)), true
}
