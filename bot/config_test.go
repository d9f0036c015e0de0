package bot

import (
	"os"
	"path/filepath"
	"testing"
)

const sampleConfig = `
telegram:
  token: "123:abc"
  admin_id: 99
  run_mode: longpoll
  longpoll_timeout_seconds: 25

logging:
  level: debug
  format: kv

rate_limit:
  interval_ms: 200
  exclude_updates:
    - callback

database:
  host: dbhost
  port: "5433"
  user: calcbot
  name: calcbot
  sslmode: disable

broadcast:
  per_send_pause_ms: 40
`

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadConfig(t *testing.T) {
	cfg, err := LoadConfig(writeConfig(t, sampleConfig))
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}

	if cfg.Core.Telegram.Token != "123:abc" {
		t.Errorf("token = %q", cfg.Core.Telegram.Token)
	}
	if cfg.Core.Telegram.AdminID != 99 {
		t.Errorf("admin_id = %d", cfg.Core.Telegram.AdminID)
	}
	if cfg.Database.Host != "dbhost" || cfg.Database.Port != "5433" {
		t.Errorf("database = %+v", cfg.Database)
	}
	if cfg.Broadcast.PerSendPauseMS != 40 {
		t.Errorf("per_send_pause_ms = %d", cfg.Broadcast.PerSendPauseMS)
	}
	if cfg.CoreConfig() != &cfg.Core {
		t.Error("CoreConfig must expose the embedded core section")
	}
}

func TestLoadConfigRejectsMissingToken(t *testing.T) {
	if _, err := LoadConfig(writeConfig(t, "telegram:\n  run_mode: longpoll\n")); err == nil {
		t.Fatal("expected error for missing token")
	}
}

func TestLoadConfigRejectsNegativePause(t *testing.T) {
	cfgText := `
telegram:
  token: "123:abc"
broadcast:
  per_send_pause_ms: -1
`
	if _, err := LoadConfig(writeConfig(t, cfgText)); err == nil {
		t.Fatal("expected error for negative pause")
	}
}
