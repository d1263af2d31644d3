package config

import (
	"os"
	"testing"
	"time"
)

// chdirTemp moves the working directory to an empty temp dir so no local
// .postforge.yaml or .env leaks into the test.
func chdirTemp(t *testing.T) {
	t.Helper()
	orig, err := os.Getwd()
	if err != nil {
		t.Fatalf("Getwd failed: %v", err)
	}
	if err := os.Chdir(t.TempDir()); err != nil {
		t.Fatalf("Chdir failed: %v", err)
	}
	t.Cleanup(func() { _ = os.Chdir(orig) })
}

func TestLoad_Defaults(t *testing.T) {
	chdirTemp(t)
	globalConfig = nil

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.App.DataDir != ".postforge" {
		t.Errorf("data_dir = %q", cfg.App.DataDir)
	}
	if cfg.Server.Addr != ":8080" {
		t.Errorf("addr = %q", cfg.Server.Addr)
	}
	if cfg.Provider.MaxConcurrency != 5 {
		t.Errorf("max_concurrency = %d", cfg.Provider.MaxConcurrency)
	}
	if cfg.ProviderTimeout() != 60*time.Second {
		t.Errorf("provider timeout = %v", cfg.ProviderTimeout())
	}
	if cfg.ScrapeTimeout() != 30*time.Second {
		t.Errorf("scrape timeout = %v", cfg.ScrapeTimeout())
	}
	if cfg.Scrape.UserAgent == "" {
		t.Error("user agent default missing")
	}
}

func TestTimeoutParsers_MalformedInput(t *testing.T) {
	cfg := &Config{
		Provider: Provider{Timeout: "not-a-duration"},
		Scrape:   Scrape{Timeout: "-5s"},
	}

	if cfg.ProviderTimeout() != 60*time.Second {
		t.Errorf("malformed provider timeout should fall back to 60s, got %v", cfg.ProviderTimeout())
	}
	if cfg.ScrapeTimeout() != 30*time.Second {
		t.Errorf("negative scrape timeout should fall back to 30s, got %v", cfg.ScrapeTimeout())
	}
}

func TestGet_LoadsOnDemand(t *testing.T) {
	chdirTemp(t)
	globalConfig = nil

	cfg := Get()
	if cfg == nil {
		t.Fatal("Get returned nil")
	}
	if cfg != Get() {
		t.Error("Get should return the same instance")
	}
}
