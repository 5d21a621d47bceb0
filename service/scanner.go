package service

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/Kenil818282/caratbridge-secret-finder1/config"
	"github.com/Kenil818282/caratbridge-secret-finder1/model"
)

// ScanOptions parameterizes one scan cycle. Zero values fall back to the
// configured defaults.
type ScanOptions struct {
	Force       bool
	Limit       int
	WindowHours int
}

// ScanResult summarizes one scan cycle. Success means the scan ran, not
// that every tag succeeded.
type ScanResult struct {
	Success   bool           `json:"success"`
	NewLeads  int            `json:"newLeads"`
	Message   string         `json:"message,omitempty"`
	TagCounts map[string]int `json:"tagCounts,omitempty"`
}

// Scanner drives one scan cycle: resolve tags, fetch posts per tag, filter
// and extract, dedup through the store, notify the new subset.
type Scanner struct {
	store    Store
	source   PostSource
	notifier Notifier
	config   *config.ScanConfig
}

func NewScanner(store Store, source PostSource, notifier Notifier, cfg *config.ScanConfig) *Scanner {
	return &Scanner{
		store:    store,
		source:   source,
		notifier: notifier,
		config:   cfg,
	}
}

// Run executes one scan cycle. Per-tag failures are logged and contribute
// zero leads; they never abort the remaining tags.
func (s *Scanner) Run(ctx context.Context, opts ScanOptions) (ScanResult, error) {
	doc, err := s.store.Load()
	if err != nil {
		return ScanResult{}, fmt.Errorf("failed to load store: %w", err)
	}

	if !doc.IsRunning && !opts.Force {
		return ScanResult{Message: "monitoring is paused"}, nil
	}

	if !s.source.Configured() {
		return ScanResult{}, ErrSourceNotConfigured
	}

	tags := splitTags(s.config.Tags)
	if len(tags) == 0 {
		tags = doc.MonitoredTags
	}
	if len(tags) == 0 {
		return ScanResult{Message: "no tags to scan"}, nil
	}

	limit := opts.Limit
	if limit <= 0 {
		limit = s.config.DefaultLimit
	}
	window := opts.WindowHours
	if window <= 0 {
		window = s.config.WindowHours
	}
	fetchTimeout := time.Duration(s.config.FetchTimeoutSeconds) * time.Second

	type tagBatch struct {
		tag   string
		leads []model.Lead
	}

	results := make(chan tagBatch, len(tags))
	var g errgroup.Group

	for _, tag := range tags {
		tag := tag
		g.Go(func() error {
			fctx, cancel := context.WithTimeout(ctx, fetchTimeout)
			defer cancel()

			items, err := s.source.FetchPosts(fctx, tag, limit)
			if err != nil {
				slog.Error("tag fetch failed", "tag", tag, "error", err)
				return nil
			}

			sortNewestFirst(items)

			now := time.Now()
			var leads []model.Lead
			for _, item := range items {
				if lead, ok := Extract(item, tag, window, now); ok {
					leads = append(leads, lead)
				}
			}

			slog.Info("tag scanned", "tag", tag, "items", len(items), "fresh", len(leads))
			results <- tagBatch{tag: tag, leads: leads}
			return nil
		})
	}

	_ = g.Wait()
	close(results)

	res := ScanResult{Success: true, TagCounts: make(map[string]int)}
	var newLeads []model.Lead

	// Store mutations run here, after the fan-out, one batch at a time.
	// The store additionally serializes internally.
	for batch := range results {
		added, err := s.store.AddLeads(batch.leads)
		if err != nil {
			slog.Error("failed to persist leads", "tag", batch.tag, "error", err)
			continue
		}
		res.TagCounts[batch.tag] = len(added)
		newLeads = append(newLeads, added...)
	}
	res.NewLeads = len(newLeads)

	if len(newLeads) > 0 && s.notifier != nil {
		s.notifier.Notify(ctx, newLeads)
	}

	slog.Info("scan completed", "tags", len(tags), "new_leads", res.NewLeads)
	return res, nil
}

func splitTags(raw string) []string {
	var tags []string
	for _, part := range strings.Split(raw, ",") {
		if tag := NormalizeTag(part); tag != "" {
			tags = append(tags, tag)
		}
	}
	return tags
}

// sortNewestFirst orders items by timestamp descending. Items with no
// parsable timestamp sink to the end; the freshness filter drops them.
func sortNewestFirst(items []PostItem) {
	sort.SliceStable(items, func(i, j int) bool {
		ti, _ := ParseTimestamp(items[i].Timestamp)
		tj, _ := ParseTimestamp(items[j].Timestamp)
		return ti.After(tj)
	})
}
