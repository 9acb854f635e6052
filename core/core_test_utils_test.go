package core

import (
	"time"

	"github.com/huangsam/snapcal/internal/contract"
	"github.com/huangsam/snapcal/schema"
)

var testNow = time.Date(2025, 2, 5, 15, 30, 0, 0, time.UTC)

// sampleBundle has two members over two weeks plus one malformed record.
func sampleBundle() *schema.SourceBundle {
	return &schema.SourceBundle{
		Path:   "team.json",
		Format: "json",
		Digest: "d1",
		Records: []schema.SourceRecord{
			{
				Member: "Kim", Date: "2025-01-08", Domain: "Platform",
				Initiatives: []schema.SourceInitiative{{
					Project: "Alpha", Module: "Core", Feature: "Login",
					Tasks: []schema.SourceTask{{Title: "a", Progress: 100}, {Title: "b", Progress: 50}},
				}},
			},
			{
				Member: "Lee", Date: "2025-01-09", Domain: "Growth",
				Initiatives: []schema.SourceInitiative{{
					Project: "Beta", Module: "Web",
					Tasks: []schema.SourceTask{{Title: "c", Progress: "100"}},
				}},
			},
			{
				Member: "kim", Year: 2025, Week: 6, Domain: "Platform",
				Initiatives: []schema.SourceInitiative{{
					Project: "alpha", Module: "Core",
					Tasks: []schema.SourceTask{{Title: "d", Progress: 0}},
				}},
			},
			{
				Date:        "2025-01-08",
				Initiatives: []schema.SourceInitiative{{Project: "Gamma", Tasks: []schema.SourceTask{{Title: "e", Progress: 10}}}},
			},
		},
	}
}

func testConfig() *contract.Config {
	return &contract.Config{
		SourcePath:   "team.json",
		Mode:         schema.ProjectDimension,
		Month:        schema.AllMonths,
		Now:          testNow,
		Workers:      2,
		Precision:    1,
		Output:       schema.JSONOut,
		CacheBackend: schema.NoneBackend,
	}
}
