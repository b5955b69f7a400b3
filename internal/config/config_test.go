package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv(configPathEnv, "")
	t.Setenv(databaseDSNEnv, "")
	t.Setenv(searchClientIDEnv, "")
	t.Setenv(llmModelEnv, "")

	cfg := Load()
	if cfg.Scheduler.CronExpression != "0 6 * * *" {
		t.Fatalf("unexpected cron default %q", cfg.Scheduler.CronExpression)
	}
	if cfg.Crawl.WindowDays != 3 || cfg.Crawl.BatchSize != 5 {
		t.Fatalf("unexpected crawl defaults %+v", cfg.Crawl)
	}
	if len(cfg.Crawl.PromoTerms) == 0 {
		t.Fatal("expected a stock promo blocklist")
	}
	if cfg.Scheduler.Location().String() != "Asia/Seoul" {
		t.Fatalf("unexpected default location %s", cfg.Scheduler.Location())
	}
}

func TestLoadMergesFileAndEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	raw := `
logging:
  level: debug
scheduler:
  cronExpression: "30 5 * * *"
search:
  pageSize: 50
llm:
  model: from-file
crawl:
  windowDays: 7
  promoTerms: ["sale"]
`
	if err := os.WriteFile(path, []byte(raw), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	t.Setenv(configPathEnv, path)
	t.Setenv(llmModelEnv, "from-env")
	t.Setenv(databaseDSNEnv, "postgres://env/dsn")
	t.Setenv(searchClientIDEnv, "")
	t.Setenv(searchClientSecretEnv, "")
	t.Setenv(llmAPIKeyEnv, "")
	t.Setenv(telegramTokenEnv, "")
	t.Setenv(telegramChatIDEnv, "")

	cfg := Load()

	if cfg.Logging.Level != "debug" {
		t.Fatalf("file override lost: %q", cfg.Logging.Level)
	}
	if cfg.Scheduler.CronExpression != "30 5 * * *" {
		t.Fatalf("file cron lost: %q", cfg.Scheduler.CronExpression)
	}
	if cfg.Search.PageSize != 50 {
		t.Fatalf("file page size lost: %d", cfg.Search.PageSize)
	}
	if cfg.Search.Endpoint == "" {
		t.Fatal("default endpoint must survive a partial file")
	}
	if cfg.LLM.Model != "from-env" {
		t.Fatalf("env must beat file, got %q", cfg.LLM.Model)
	}
	if cfg.Database.DSN != "postgres://env/dsn" {
		t.Fatalf("env DSN lost: %q", cfg.Database.DSN)
	}
	if cfg.Crawl.WindowDays != 7 {
		t.Fatalf("file window lost: %d", cfg.Crawl.WindowDays)
	}
	if len(cfg.Crawl.PromoTerms) != 1 || cfg.Crawl.PromoTerms[0] != "sale" {
		t.Fatalf("file promo terms lost: %v", cfg.Crawl.PromoTerms)
	}
}

func TestLoadUnknownTimezoneFallsBack(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	raw := "scheduler:\n  timezone: Not/AZone\n"
	if err := os.WriteFile(path, []byte(raw), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv(configPathEnv, path)

	cfg := Load()
	if cfg.Scheduler.Location().String() != "Asia/Seoul" {
		t.Fatalf("expected fallback location, got %s", cfg.Scheduler.Location())
	}
}
