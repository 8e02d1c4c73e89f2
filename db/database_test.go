package db

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTursoDSN(t *testing.T) {
	assert.Equal(t, "libsql://site.turso.io", tursoDSN("libsql://site.turso.io", ""))
	assert.Equal(t, "libsql://site.turso.io?authToken=abc", tursoDSN("libsql://site.turso.io", "abc"))
	assert.Equal(t, "libsql://site.turso.io?tls=1&authToken=abc", tursoDSN("libsql://site.turso.io?tls=1", "abc"))
	assert.Equal(t, "libsql://x?authToken=old", tursoDSN("libsql://x?authToken=old", "new"))
}

type widget struct {
	ID   uint
	Name string
}

func TestInitializeLocal(t *testing.T) {
	require.NoError(t, Initialize(Options{Path: filepath.Join(t.TempDir(), "test.db"), Environment: "test"}))
	t.Cleanup(func() { _ = Close() })

	require.NoError(t, AutoMigrate(&widget{}))
	require.NoError(t, DB.Create(&widget{Name: "relay"}).Error)

	var count int64
	DB.Model(&widget{}).Count(&count)
	assert.Equal(t, int64(1), count)
}
