package dsn

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/GoPowerDNS-Admin/idsync/internal/config"
)

func TestMySQL(t *testing.T) {
	cfg := &config.DB{
		Host:     "db",
		Port:     3306,
		User:     "idsync",
		Password: "secret",
		Name:     "idsync",
		Extras:   "parseTime=true",
	}

	assert.Equal(t, "idsync:secret@tcp(db:3306)/idsync?parseTime=true", MySQL(cfg))
}

func TestPostgres(t *testing.T) {
	cfg := &config.DB{
		Host:     "db",
		Port:     5432,
		User:     "idsync",
		Password: "secret",
		Name:     "idsync",
	}

	assert.Equal(t, "host=db port=5432 user=idsync password=secret dbname=idsync", Postgres(cfg))

	cfg.Extras = "sslmode=disable"
	assert.Equal(t, "host=db port=5432 user=idsync password=secret dbname=idsync sslmode=disable", Postgres(cfg))
}
