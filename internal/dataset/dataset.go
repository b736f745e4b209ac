// Package dataset loads the historical home-run CSV files into an immutable
// in-memory snapshot. A reload builds a new snapshot and swaps the pointer;
// readers holding the previous snapshot are unaffected.
package dataset

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/albapepper/homerlab/internal/config"
)

// Row is one home run as it appears in a source file.
type Row struct {
	Title        string `json:"title"`
	VideoURL     string `json:"video"`
	ExitVelocity string `json:"exit_velocity"`
	HitDistance  string `json:"hit_distance"`
	LaunchAngle  string `json:"launch_angle"`
	Source       string `json:"source"`
}

// SourceSummary describes one loaded source file.
type SourceSummary struct {
	Label string `json:"label"`
	URL   string `json:"url"`
	Rows  int    `json:"rows"`
}

type sourceTitles struct {
	label  string
	titles map[string]struct{}
}

// Snapshot is an immutable view of every source, concatenated in source order.
type Snapshot struct {
	rows     []Row
	titles   []sourceTitles
	sources  []SourceSummary
	loadedAt time.Time
}

// Rows returns all rows in dataset order. Callers must not modify the slice.
func (s *Snapshot) Rows() []Row { return s.rows }

// Len returns the number of rows.
func (s *Snapshot) Len() int { return len(s.rows) }

// LoadedAt reports when the snapshot was built. Zero for the empty snapshot.
func (s *Snapshot) LoadedAt() time.Time { return s.loadedAt }

// Sources returns per-source row counts in priority order.
func (s *Snapshot) Sources() []SourceSummary { return s.sources }

// SeasonYear returns the label of the first source containing this exact
// title, or config.DefaultSeasonYear.
func (s *Snapshot) SeasonYear(title string) string {
	for _, st := range s.titles {
		if _, ok := st.titles[title]; ok {
			return st.label
		}
	}
	return config.DefaultSeasonYear
}

// Provider owns the current snapshot.
type Provider struct {
	sources []config.DatasetSource
	client  *http.Client
	logger  *slog.Logger

	current  atomic.Pointer[Snapshot]
	reloadMu sync.Mutex
}

// New creates a provider with an empty snapshot. Call Load to populate it.
func New(sources []config.DatasetSource, timeout time.Duration, logger *slog.Logger) *Provider {
	if logger == nil {
		logger = slog.Default()
	}
	p := &Provider{
		sources: sources,
		client:  &http.Client{Timeout: timeout},
		logger:  logger.With("component", "dataset"),
	}
	p.current.Store(&Snapshot{})
	return p
}

// Snapshot returns the current snapshot. Never nil.
func (p *Provider) Snapshot() *Snapshot {
	return p.current.Load()
}

// Load fetches every source and swaps in the new snapshot. On failure the
// previous snapshot stays in place.
func (p *Provider) Load(ctx context.Context) (*Snapshot, error) {
	start := time.Now()
	parts := make([][]Row, len(p.sources))

	g, gctx := errgroup.WithContext(ctx)
	for i, src := range p.sources {
		g.Go(func() error {
			rows, err := p.fetch(gctx, src)
			if err != nil {
				return fmt.Errorf("load %s: %w", src.URL, err)
			}
			parts[i] = rows
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	snap := build(p.sources, parts)
	p.current.Store(snap)
	p.logger.Info("Dataset loaded",
		"rows", snap.Len(),
		"sources", len(p.sources),
		"duration", time.Since(start).Round(time.Millisecond))
	return snap, nil
}

// Reload is Load with concurrent callers coalesced: a caller that waited
// while another reload finished gets that result instead of fetching again.
func (p *Provider) Reload(ctx context.Context) (*Snapshot, error) {
	before := p.current.Load()

	p.reloadMu.Lock()
	defer p.reloadMu.Unlock()

	if cur := p.current.Load(); cur != before {
		return cur, nil
	}
	return p.Load(ctx)
}

// NewSnapshot builds a snapshot from already-parsed rows; parts[i] holds the
// rows of sources[i].
func NewSnapshot(sources []config.DatasetSource, parts [][]Row) *Snapshot {
	return build(sources, parts)
}

func build(sources []config.DatasetSource, parts [][]Row) *Snapshot {
	total := 0
	for _, rows := range parts {
		total += len(rows)
	}

	snap := &Snapshot{
		rows:     make([]Row, 0, total),
		titles:   make([]sourceTitles, len(sources)),
		sources:  make([]SourceSummary, len(sources)),
		loadedAt: time.Now(),
	}
	for i, src := range sources {
		set := make(map[string]struct{}, len(parts[i]))
		for _, r := range parts[i] {
			set[r.Title] = struct{}{}
		}
		snap.titles[i] = sourceTitles{label: src.Label, titles: set}
		snap.sources[i] = SourceSummary{Label: src.Label, URL: src.URL, Rows: len(parts[i])}
		snap.rows = append(snap.rows, parts[i]...)
	}
	return snap
}

func (p *Provider) fetch(ctx context.Context, src config.DatasetSource) ([]Row, error) {
	body, err := p.open(ctx, src.URL)
	if err != nil {
		return nil, err
	}
	defer body.Close()
	return parseCSV(body, src.Label)
}

func (p *Provider) open(ctx context.Context, location string) (io.ReadCloser, error) {
	if !strings.HasPrefix(location, "http://") && !strings.HasPrefix(location, "https://") {
		return os.Open(strings.TrimPrefix(location, "file://"))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, location, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("http request: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	return resp.Body, nil
}

// Column names used by the published datasets.
const (
	colTitle        = "title"
	colVideo        = "video"
	colExitVelocity = "exitvelocity"
	colHitDistance  = "hitdistance"
	colLaunchAngle  = "launchangle"
)

var errNoTitleColumn = errors.New("missing title column")

func parseCSV(r io.Reader, label string) ([]Row, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	cr.ReuseRecord = true

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	idx := make(map[string]int, len(header))
	for i, h := range header {
		key := strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))
		idx[key] = i
	}
	if _, ok := idx[colTitle]; !ok {
		return nil, errNoTitleColumn
	}

	cell := func(rec []string, col string) string {
		i, ok := idx[col]
		if !ok || i >= len(rec) {
			return ""
		}
		return strings.TrimSpace(rec[i])
	}

	var rows []Row
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read record: %w", err)
		}
		title := cell(rec, colTitle)
		if title == "" {
			continue
		}
		rows = append(rows, Row{
			Title:        title,
			VideoURL:     cell(rec, colVideo),
			ExitVelocity: cell(rec, colExitVelocity),
			HitDistance:  cell(rec, colHitDistance),
			LaunchAngle:  cell(rec, colLaunchAngle),
			Source:       label,
		})
	}
	return rows, nil
}
