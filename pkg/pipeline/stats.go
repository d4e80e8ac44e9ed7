package pipeline

import (
	"fmt"
	"time"
)

// BatchStats describes one processing run
type BatchStats struct {
	Fetched          int           `json:"fetched"`
	Enriched         int           `json:"enriched"` // annotated by the model
	Failed           int           `json:"failed"`   // got sentinel annotation
	Embedded         int           `json:"embedded"`
	Stored           int           `json:"stored"`
	StoreErrors      int           `json:"store_errors"`
	ModelUnavailable bool          `json:"model_unavailable"`
	FetchDuration    time.Duration `json:"fetch_duration"`
	EnrichDuration   time.Duration `json:"enrich_duration"`
	StoreDuration    time.Duration `json:"store_duration"`
	TotalDuration    time.Duration `json:"total_duration"`
}

// ArticlesPerSecond is the enrichment throughput
func (s BatchStats) ArticlesPerSecond() float64 {
	if s.EnrichDuration <= 0 {
		return 0
	}
	return float64(s.Enriched+s.Failed) / s.EnrichDuration.Seconds()
}

func (s BatchStats) String() string {
	return fmt.Sprintf("fetched:%d, enriched:%d, failed:%d, embedded:%d, stored:%d, store errors:%d, %.2f articles/s, total:%v",
		s.Fetched, s.Enriched, s.Failed, s.Embedded, s.Stored, s.StoreErrors, s.ArticlesPerSecond(),
		s.TotalDuration.Round(time.Millisecond))
}

// RepairStats describes one repair pass
type RepairStats struct {
	Missing  int           `json:"missing"`
	Repaired int           `json:"repaired"`
	Skipped  int           `json:"skipped"` // no text to embed
	Failed   int           `json:"failed"`
	Duration time.Duration `json:"duration"`
}

func (s RepairStats) String() string {
	return fmt.Sprintf("missing:%d, repaired:%d, skipped:%d, failed:%d, duration:%v",
		s.Missing, s.Repaired, s.Skipped, s.Failed, s.Duration.Round(time.Millisecond))
}
