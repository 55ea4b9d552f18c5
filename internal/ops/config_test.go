package ops

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"main/internal/replay"
	"main/internal/schema"
)

func writeJSON(t *testing.T, dir, name string, v any) string {
	t.Helper()
	data, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("marshal %s: %+v", name, err)
	}
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write %s: %+v", name, err)
	}
	return path
}

func TestParseResolvesConfig(t *testing.T) {
	dir := t.TempDir()
	instruments := writeJSON(t, dir, "instruments.json", []schema.Instrument{
		{Symbol: "rb2401", Exchange: "SHFE", PriceTick: 1, Multiplier: 10},
	})
	fees := writeJSON(t, dir, "fees.json", schema.FeeSchedule{
		"rb2401": {Open: 0.0001, Close: 0.0001, CloseToday: 0.0002},
	})

	doc := fmt.Sprintf(`{
		"mode": "ticks",
		"save_path": %q,
		"begin_time": "2023-05-04 09:00:00",
		"end_time": "2023-05-08 15:00:00",
		"instrument_file": %q,
		"fees": %q,
		"cancel_rate": 0.3
	}`, dir, instruments, fees)

	loaded, err := Parse(doc)
	require.NoError(t, err)
	assert.Equal(t, replay.ModeTicks, loaded.Mode)
	assert.Less(t, loaded.BeginMs, loaded.EndMs)
	assert.Equal(t, 1, loaded.Registry.Count())
	assert.Equal(t, 0.3, loaded.CancelRate)

	rate, ok := loaded.Fees["rb2401"]
	require.True(t, ok)
	assert.Equal(t, 0.0002, rate.CloseToday)

	inst, ok := loaded.Registry.Instrument("rb2401")
	require.True(t, ok)
	assert.NotEmptyf(t, inst.Sections, "default sections should be applied, got %+v", inst)
}

func TestParseRejectsBadConfigs(t *testing.T) {
	dir := t.TempDir()
	instruments := writeJSON(t, dir, "instruments.json", []schema.Instrument{{Symbol: "rb2401"}})

	bad := []string{
		`{`,
		`{"save_path": "x"}`,
		fmt.Sprintf(`{"mode":"ticks","save_path":"x","begin_time":"2023-05-04 09:00:00","end_time":"2023-05-08 15:00:00","instrument_file":%q,"cancel_rate":1.5}`, instruments),
		fmt.Sprintf(`{"mode":"warp","save_path":"x","begin_time":"2023-05-04 09:00:00","end_time":"2023-05-08 15:00:00","instrument_file":%q}`, instruments),
		`{"mode":"ticks","save_path":"x","begin_time":"2023-05-04 09:00:00","end_time":"2023-05-08 15:00:00","instrument_file":"/nonexistent.json"}`,
		fmt.Sprintf(`{"mode":"ticks","save_path":"x","begin_time":"2023-05-08 15:00:00","end_time":"2023-05-04 09:00:00","instrument_file":%q}`, instruments),
		fmt.Sprintf(`{"mode":"ticks","save_path":"x","begin_time":"2023-05-04 09:00:00","end_time":"2023-05-08 15:00:00","instrument_file":%q,"fees":"/nonexistent.json"}`, instruments),
		fmt.Sprintf(`{"mode":"ticks","save_path":"x","begin_time":"2023-05-04 09:00:00","end_time":"2023-05-08 15:00:00","instrument_file":%q}`, instruments),
	}
	for i, doc := range bad {
		_, err := Parse(doc)
		assert.Errorf(t, err, "config %d accepted: %s", i, doc)
	}
}
