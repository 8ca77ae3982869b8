package config

import (
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// WorkerDelay returns the continuation pause as a duration.
func (v Values) WorkerDelay() time.Duration {
	if v.WorkerDelaySeconds <= 0 {
		return 5 * time.Second
	}
	return time.Duration(v.WorkerDelaySeconds) * time.Second
}

// Values holds the sync tuning knobs. They come from an optional yaml file so
// operations can adjust batch sizing without a rebuild; env vars override.
type Values struct {
	// StartOffset is where an admin-triggered batch sequence begins.
	StartOffset int `yaml:"start-offset"`
	// BatchSize is the item count one scheduler invocation processes before
	// yielding control.
	BatchSize int `yaml:"batch-size"`
	// PageSize is the upstream page ceiling; the feed API rejects larger
	// limits.
	PageSize int `yaml:"page-size"`
	// WorkerDelaySeconds is the pause between a completed invocation and its
	// continuation.
	WorkerDelaySeconds int `yaml:"worker-delay-seconds"`
	// VoucherAmounts maps gift-card amounts to Colibri catalog ids (vacId).
	VoucherAmounts map[int]int `yaml:"voucher-amounts"`
	// VoucherFallbackID is used for amounts missing from the table.
	VoucherFallbackID int `yaml:"voucher-fallback-id"`
}

func defaultValues() Values {
	return Values{
		StartOffset:        0,
		BatchSize:          900,
		PageSize:           100,
		WorkerDelaySeconds: 5,
		VoucherAmounts: map[int]int{
			500:  9,
			1000: 10,
			2000: 12,
		},
		VoucherFallbackID: 1,
	}
}

func LoadValues(path string) (Values, error) {
	v := defaultValues()
	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return v, err
		}
		if err := yaml.Unmarshal(raw, &v); err != nil {
			return v, err
		}
	}

	v.StartOffset = getEnvAsInt("SYNC_START_OFFSET", v.StartOffset)
	v.BatchSize = getEnvAsInt("SYNC_BATCH_SIZE", v.BatchSize)
	v.PageSize = getEnvAsInt("SYNC_PAGE_SIZE", v.PageSize)
	if v.PageSize <= 0 {
		v.PageSize = 100
	}
	if v.BatchSize <= 0 {
		v.BatchSize = v.PageSize
	}
	return v, nil
}
