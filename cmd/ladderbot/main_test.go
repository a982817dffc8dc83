package main

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/codr1/Ladderbot/internal/config"
	"github.com/codr1/Ladderbot/internal/testutil"
)

func TestBuildRejectsMissingSecretInProduction(t *testing.T) {
	cfg, err := config.Parse([]byte("app:\n  name: ladderbot\n  port: 8080\n  environment: production\ndatabase:\n  driver: sqlite\n"))
	if err != nil {
		t.Fatalf("parse config: %v", err)
	}
	cfg.Database.Filename = filepath.Join(t.TempDir(), "data", "ladder.db")

	a, err := build(context.Background(), cfg)
	if err == nil || !strings.Contains(err.Error(), "APP_SECRET_KEY") {
		t.Fatalf("expected missing secret error, got %v", err)
	}
	if a != nil {
		t.Fatalf("failed build must not return an app")
	}
}

func TestReleaseClosesPartiallyBuiltApp(t *testing.T) {
	database := testutil.NewTestDB(t)
	a := &app{database: database}

	a.release()

	if err := database.Ping(); err == nil {
		t.Fatalf("expected database to be closed after release")
	}
	// A second release is a no-op.
	a.release()
}
