package service

import (
	"context"
	"testing"

	"dexspread/internal/domain"
	"dexspread/internal/domain/model"
	dsvc "dexspread/internal/domain/service"
)

type MockFetcher struct {
	snaps map[string]model.Snapshot
}

func NewMockFetcher() *MockFetcher {
	return &MockFetcher{snaps: make(map[string]model.Snapshot)}
}

func (m *MockFetcher) Add(snap model.Snapshot) {
	m.snaps[snap.Instrument] = snap
}

func (m *MockFetcher) Snapshot(ctx context.Context, instrument string) model.Snapshot {
	if snap, ok := m.snaps[instrument]; ok {
		return snap
	}
	return model.Snapshot{Instrument: instrument}
}

func (m *MockFetcher) SnapshotAll(ctx context.Context, instruments []string) []model.Snapshot {
	out := make([]model.Snapshot, 0, len(instruments))
	for _, instrument := range instruments {
		out = append(out, m.Snapshot(ctx, instrument))
	}
	return out
}

func quote(venue, instrument string, price float64) model.Quote {
	return model.Quote{Venue: venue, Instrument: instrument, Price: price}
}

// TestScannerPicksBestSpread 多交易对扫描取净利最高的机会
func TestScannerPicksBestSpread(t *testing.T) {
	fetcher := NewMockFetcher()
	fetcher.Add(model.Snapshot{Instrument: "BTC-USD", Quotes: []model.Quote{
		quote("extended", "BTC-USD", 100000),
		quote("nado", "BTC-USD", 100200),
	}})
	fetcher.Add(model.Snapshot{Instrument: "ETH-USD", Quotes: []model.Quote{
		quote("extended", "ETH-USD", 2500),
		quote("nado", "ETH-USD", 2512),
	}})

	calc := dsvc.NewCalculator(10000, map[string]float64{"extended": 0.00025, "nado": 0.00035})
	prefs := domain.NewPrefStore(1.0)
	scanner := NewScanner(fetcher, calc, prefs, []string{"BTC-USD", "ETH-USD"})

	// BTC: gross 20, fees 12, net 8
	// ETH: gross (10000/2500)*12 = 48, fees 12, net 36
	result := scanner.Scan(context.Background(), 1.0)
	if !result.Found() {
		t.Fatal("expected a qualifying spread")
	}
	if result.DealID() != 2 {
		t.Errorf("expected 2 qualifying spreads, got %d", result.DealID())
	}
	if result.Best.Instrument != "ETH-USD" {
		t.Errorf("best should be ETH-USD, got %s", result.Best.Instrument)
	}
	if result.Best.Net < 35.99 || result.Best.Net > 36.01 {
		t.Errorf("best net mismatch: expected ~36, got %f", result.Best.Net)
	}
	if result.Threshold != 1.0 {
		t.Errorf("result should carry the applied threshold, got %f", result.Threshold)
	}
	if len(result.Snapshots) != 2 {
		t.Errorf("expected 2 snapshots, got %d", len(result.Snapshots))
	}
}

// TestScannerThresholdBoundary 门槛为闭区间：net == 门槛时入选
func TestScannerThresholdBoundary(t *testing.T) {
	fetcher := NewMockFetcher()
	fetcher.Add(model.Snapshot{Instrument: "BTC-USD", Quotes: []model.Quote{
		quote("a", "BTC-USD", 100),
		quote("b", "BTC-USD", 101),
	}})

	// 零费率让 net == gross == 100，数值精确
	calc := dsvc.NewCalculator(10000, map[string]float64{"a": 0, "b": 0})
	prefs := domain.NewPrefStore(1.0)
	scanner := NewScanner(fetcher, calc, prefs, []string{"BTC-USD"})

	result := scanner.Scan(context.Background(), 100)
	if !result.Found() {
		t.Fatal("net equal to threshold must qualify")
	}

	result = scanner.Scan(context.Background(), 100.01)
	if result.Found() {
		t.Fatal("net below threshold must not qualify")
	}
}

// TestScannerThresholdMonotonic 提高门槛只会收缩达标集合
func TestScannerThresholdMonotonic(t *testing.T) {
	fetcher := NewMockFetcher()
	fetcher.Add(model.Snapshot{Instrument: "BTC-USD", Quotes: []model.Quote{
		quote("a", "BTC-USD", 100),
		quote("b", "BTC-USD", 101),
		quote("c", "BTC-USD", 102),
	}})

	calc := dsvc.NewCalculator(10000, map[string]float64{"a": 0, "b": 0, "c": 0})
	prefs := domain.NewPrefStore(1.0)
	scanner := NewScanner(fetcher, calc, prefs, []string{"BTC-USD"})

	low := scanner.Scan(context.Background(), 1)
	high := scanner.Scan(context.Background(), 150)

	if len(high.Spreads) > len(low.Spreads) {
		t.Errorf("raising threshold grew the set: %d -> %d", len(low.Spreads), len(high.Spreads))
	}
	for _, sp := range high.Spreads {
		if sp.Net < 150 {
			t.Errorf("spread below threshold leaked through: %+v", sp)
		}
	}
}

// TestScannerNoQualifyingSpread 没有达标机会时仍然返回快照供展示
func TestScannerNoQualifyingSpread(t *testing.T) {
	fetcher := NewMockFetcher()
	fetcher.Add(model.Snapshot{Instrument: "BTC-USD", Quotes: []model.Quote{
		quote("extended", "BTC-USD", 100000),
		quote("nado", "BTC-USD", 100002),
	}})

	calc := dsvc.NewCalculator(10000, map[string]float64{"extended": 0.00025, "nado": 0.00035})
	prefs := domain.NewPrefStore(1.0)
	scanner := NewScanner(fetcher, calc, prefs, []string{"BTC-USD"})

	// gross 0.2 远小于 12 的手续费，净利为负
	result := scanner.Scan(context.Background(), 1.0)
	if result.Found() {
		t.Fatalf("expected no qualifying spread, got %+v", result.Best)
	}
	if result.DealID() != 0 {
		t.Errorf("expected deal id 0, got %d", result.DealID())
	}
	if len(result.Snapshots) != 1 || len(result.Snapshots[0].Quotes) != 2 {
		t.Errorf("snapshots must be reported even without spreads: %+v", result.Snapshots)
	}
}

// TestScannerSingleVenue 只有一个交易所有数据时没有可比组合
func TestScannerSingleVenue(t *testing.T) {
	fetcher := NewMockFetcher()
	fetcher.Add(model.Snapshot{Instrument: "BTC-USD", Quotes: []model.Quote{
		quote("extended", "BTC-USD", 100000),
	}})

	calc := dsvc.NewCalculator(10000, map[string]float64{"extended": 0.00025})
	prefs := domain.NewPrefStore(1.0)
	scanner := NewScanner(fetcher, calc, prefs, []string{"BTC-USD"})

	result := scanner.Scan(context.Background(), 1.0)
	if result.Found() || result.DealID() != 0 {
		t.Errorf("single venue must yield no spreads: %+v", result)
	}
	if len(result.Snapshots) != 1 {
		t.Errorf("expected the lone snapshot to be reported, got %d", len(result.Snapshots))
	}
}

// TestScannerTieKeepsFirst 净利并列时保留先遇到的机会
func TestScannerTieKeepsFirst(t *testing.T) {
	fetcher := NewMockFetcher()
	fetcher.Add(model.Snapshot{Instrument: "BTC-USD", Quotes: []model.Quote{
		quote("a", "BTC-USD", 100),
		quote("b", "BTC-USD", 101),
	}})
	fetcher.Add(model.Snapshot{Instrument: "ETH-USD", Quotes: []model.Quote{
		quote("a", "ETH-USD", 100),
		quote("b", "ETH-USD", 101),
	}})

	calc := dsvc.NewCalculator(10000, map[string]float64{"a": 0, "b": 0})
	prefs := domain.NewPrefStore(1.0)
	scanner := NewScanner(fetcher, calc, prefs, []string{"BTC-USD", "ETH-USD"})

	result := scanner.Scan(context.Background(), 1)
	if !result.Found() {
		t.Fatal("expected qualifying spreads")
	}
	if result.Best.Instrument != "BTC-USD" {
		t.Errorf("tie should keep the first instrument, got %s", result.Best.Instrument)
	}
}

// TestScannerScanForUsesCallerThreshold ScanFor 使用调用者各自的门槛
func TestScannerScanForUsesCallerThreshold(t *testing.T) {
	fetcher := NewMockFetcher()
	fetcher.Add(model.Snapshot{Instrument: "ETH-USD", Quotes: []model.Quote{
		quote("extended", "ETH-USD", 2500),
		quote("nado", "ETH-USD", 2512),
	}})

	calc := dsvc.NewCalculator(10000, map[string]float64{"extended": 0.00025, "nado": 0.00035})
	prefs := domain.NewPrefStore(1.0)
	scanner := NewScanner(fetcher, calc, prefs, []string{"ETH-USD"})

	// net = 36：默认门槛 1 能看到，门槛 50 看不到
	if err := prefs.SetThreshold(42, 50); err != nil {
		t.Fatalf("SetThreshold failed: %v", err)
	}

	strict := scanner.ScanFor(context.Background(), 42)
	if strict.Found() {
		t.Errorf("caller 42 should see nothing at threshold 50, got %+v", strict.Best)
	}
	if strict.Threshold != 50 {
		t.Errorf("expected threshold 50, got %f", strict.Threshold)
	}

	relaxed := scanner.ScanFor(context.Background(), 7)
	if !relaxed.Found() {
		t.Error("caller 7 should see the spread at the default threshold")
	}
	if relaxed.Threshold != 1.0 {
		t.Errorf("expected default threshold 1.0, got %f", relaxed.Threshold)
	}
}
