package database

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/noah-isme/teaching-load-api/pkg/config"
)

func TestDSN(t *testing.T) {
	cfg := config.DatabaseConfig{Host: "db", Port: 5433, User: "load", Password: "secret", Name: "teaching_load", SSLMode: "disable"}
	assert.Equal(t, "host=db port=5433 user=load password=secret dbname=teaching_load sslmode=disable application_name=teaching-load-api", DSN(cfg))

	cfg.StatementTimeout = 2500 * time.Millisecond
	assert.Contains(t, DSN(cfg), "statement_timeout=2500")
}
