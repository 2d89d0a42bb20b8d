package config

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"greengain/domain"
)

var moneyComparer = cmp.Comparer(func(a, b domain.Money) bool { return a.Equal(b.Decimal) })

func TestLoadRules_EmptyPath(t *testing.T) {
	rules, err := LoadRules("")
	require.NoError(t, err)
	if diff := cmp.Diff(domain.DefaultRuleSet(), rules, moneyComparer); diff != "" {
		t.Errorf("rules mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadRules_PartialOverride(t *testing.T) {
	path := writeFile(t, "rules.yaml", `
tax_year: 2025
bucket_caps:
  general: 1500
  heat_pump: "2500.00"
door_caps:
  single: 300
  multiple: 600
`)
	rules, err := LoadRules(path)
	require.NoError(t, err)

	assert.Equal(t, 2025, rules.TaxYear)
	assert.Equal(t, "1500", rules.BucketCaps[domain.BucketGeneral].String())
	assert.Equal(t, "2500", rules.BucketCaps[domain.BucketHeatPump].String())
	assert.Equal(t, "300", rules.DoorCaps.Single.String())
	assert.Len(t, rules.Rules, len(domain.AllItems))
	assert.Equal(t, "1000", rules.FuelCellPerKW.String())
}

func TestLoadRules_RoundTripsDefaultTable(t *testing.T) {
	var sb []byte
	sb = append(sb, "rules:\n"...)
	for _, r := range domain.DefaultRuleSet().Rules {
		sb = append(sb, "  - item: "+string(r.Item)+"\n    bucket: "+string(r.Bucket)+"\n    rate: 0.30\n"...)
		if r.Cap != nil {
			sb = append(sb, "    cap: "+r.Cap.String()+"\n"...)
		}
	}

	rules, err := LoadRules(writeFile(t, "rules.yaml", string(sb)))
	require.NoError(t, err)
	if diff := cmp.Diff(domain.DefaultRuleSet(), rules, moneyComparer); diff != "" {
		t.Errorf("rules mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadRules_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		wantErr string
	}{
		{"missing items", "rules:\n  - item: heat_pump\n    bucket: heat_pump\n    rate: 0.3\n", "missing rule"},
		{"clean energy cap", "bucket_caps:\n  clean_energy: 100\n", "clean energy"},
		{"bad amount", "fuel_cell_per_kw: lots\n", "invalid amount"},
		{"negative door cap", "door_caps:\n  single: -1\n  multiple: 500\n", "door caps"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadRules(writeFile(t, "rules.yaml", tt.yaml))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestWatchRules_Reloads(t *testing.T) {
	path := writeFile(t, "rules.yaml", "tax_year: 2024\n")

	var mu sync.Mutex
	var got []int
	onChange := func(rs domain.RuleSet) error {
		mu.Lock()
		defer mu.Unlock()
		got = append(got, rs.TaxYear)
		return nil
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- WatchRules(ctx, path, onChange, zap.NewNop()) }()

	// The watcher registers asynchronously, so keep writing until seen.
	require.Eventually(t, func() bool {
		_ = os.WriteFile(path, []byte("tax_year: 2026\n"), 0o644)
		mu.Lock()
		defer mu.Unlock()
		return len(got) > 0 && got[len(got)-1] == 2026
	}, 5*time.Second, 50*time.Millisecond)

	cancel()
	require.NoError(t, <-done)
}

func TestWatchRules_MissingFile(t *testing.T) {
	err := WatchRules(context.Background(), filepath.Join(t.TempDir(), "absent.yaml"),
		func(domain.RuleSet) error { return nil }, zap.NewNop())
	assert.Error(t, err)
}
