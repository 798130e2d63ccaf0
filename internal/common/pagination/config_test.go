package pagination_test

import (
	"testing"

	"github.com/evelyn-website/family-photo-sub000/internal/common/pagination"
)

func TestDefaultConfig(t *testing.T) {
	t.Parallel()

	cfg := pagination.DefaultConfig()
	if cfg.DefaultPage != 1 {
		t.Errorf("DefaultPage = %d, want 1", cfg.DefaultPage)
	}
	if cfg.DefaultPageSize != 24 {
		t.Errorf("DefaultPageSize = %d, want 24", cfg.DefaultPageSize)
	}
	if cfg.MaxPageSize != 100 {
		t.Errorf("MaxPageSize = %d, want 100", cfg.MaxPageSize)
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("PAGINATION_DEFAULT_PAGE_SIZE", "48")
	t.Setenv("PAGINATION_MAX_PAGE_SIZE", "not-a-number")

	cfg := pagination.LoadFromEnv()
	if cfg.DefaultPageSize != 48 {
		t.Errorf("DefaultPageSize = %d, want 48 from env", cfg.DefaultPageSize)
	}
	// Unparseable values fall back to defaults.
	if cfg.MaxPageSize != 100 {
		t.Errorf("MaxPageSize = %d, want default 100", cfg.MaxPageSize)
	}
	if cfg.DefaultPage != 1 {
		t.Errorf("DefaultPage = %d, want default 1", cfg.DefaultPage)
	}
}
