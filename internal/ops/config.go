// Package ops resolves the inline JSON configuration a backtest run
// starts from. Config faults are fatal before any replay begins.
package ops

import (
	"encoding/json"
	"fmt"
	"os"

	"main/internal/calendar"
	"main/internal/replay"
	"main/internal/schema"
)

// FileConfig mirrors the JSON config layout.
type FileConfig struct {
	Mode           string           `json:"mode"`
	SavePath       string           `json:"save_path"`
	BeginTime      string           `json:"begin_time"`
	EndTime        string           `json:"end_time"`
	InstrumentFile string           `json:"instrument_file"`
	Fees           string           `json:"fees"`
	CancelRate     float64          `json:"cancel_rate"`
	Timezone       string           `json:"timezone"`
	ResultDSN      string           `json:"result_dsn"`
	Profiling      *ProfilingConfig `json:"profiling"`
}

// ProfilingConfig enables continuous profiling when present.
type ProfilingConfig struct {
	ServerAddress string `json:"server_address"`
	AppName       string `json:"app_name"`
}

// Loaded is the resolved configuration ready for use.
type Loaded struct {
	Mode       replay.Mode
	SavePath   string
	BeginMs    int64
	EndMs      int64
	Registry   *schema.Registry
	Fees       schema.FeeSchedule
	CancelRate float64
	Calendar   *calendar.Calendar
	ResultDSN  string
	Profiling  *ProfilingConfig
}

// Parse resolves an inline JSON configuration document.
func Parse(doc string) (Loaded, error) {
	var cfg FileConfig
	if err := json.Unmarshal([]byte(doc), &cfg); err != nil {
		return Loaded{}, fmt.Errorf("parse config: %w", err)
	}
	return resolve(cfg)
}

func resolve(cfg FileConfig) (Loaded, error) {
	if cfg.Mode == "" {
		return Loaded{}, fmt.Errorf("config mode is empty")
	}
	mode, err := replay.ParseMode(cfg.Mode)
	if err != nil {
		return Loaded{}, err
	}
	if cfg.SavePath == "" {
		return Loaded{}, fmt.Errorf("config save_path is empty")
	}
	if cfg.BeginTime == "" || cfg.EndTime == "" {
		return Loaded{}, fmt.Errorf("config begin_time/end_time are required")
	}
	if cfg.InstrumentFile == "" {
		return Loaded{}, fmt.Errorf("config instrument_file is empty")
	}
	if cfg.Fees == "" {
		return Loaded{}, fmt.Errorf("config fees is empty")
	}
	if cfg.CancelRate < 0 || cfg.CancelRate > 1 {
		return Loaded{}, fmt.Errorf("config cancel_rate %v out of [0,1]", cfg.CancelRate)
	}

	cal, err := calendar.New(cfg.Timezone)
	if err != nil {
		return Loaded{}, err
	}
	beginMs, err := cal.ConvertExchangeTime(cfg.BeginTime)
	if err != nil {
		return Loaded{}, fmt.Errorf("config begin_time: %w", err)
	}
	endMs, err := cal.ConvertExchangeTime(cfg.EndTime)
	if err != nil {
		return Loaded{}, fmt.Errorf("config end_time: %w", err)
	}
	if endMs < beginMs {
		return Loaded{}, fmt.Errorf("config end_time before begin_time")
	}

	registry, err := loadInstruments(cfg.InstrumentFile)
	if err != nil {
		return Loaded{}, err
	}

	fees, err := loadFees(cfg.Fees)
	if err != nil {
		return Loaded{}, err
	}

	return Loaded{
		Mode:       mode,
		SavePath:   cfg.SavePath,
		BeginMs:    beginMs,
		EndMs:      endMs,
		Registry:   registry,
		Fees:       fees,
		CancelRate: cfg.CancelRate,
		Calendar:   cal,
		ResultDSN:  cfg.ResultDSN,
		Profiling:  cfg.Profiling,
	}, nil
}

func loadInstruments(path string) (*schema.Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read instrument file: %w", err)
	}
	var list []schema.Instrument
	if err := json.Unmarshal(data, &list); err != nil {
		return nil, fmt.Errorf("parse instrument file: %w", err)
	}
	return schema.NewRegistry(list)
}

func loadFees(path string) (schema.FeeSchedule, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read fee file: %w", err)
	}
	var fees schema.FeeSchedule
	if err := json.Unmarshal(data, &fees); err != nil {
		return nil, fmt.Errorf("parse fee file: %w", err)
	}
	return fees, nil
}
