package db

import (
	"testing"

	"JerseyFM/config"

	"github.com/stretchr/testify/require"
)

func TestDSN(t *testing.T) {
	dsn := DSN(&config.Config{
		DBUser:     "jfm",
		DBPassword: "p@ss",
		DBHost:     "db.internal",
		DBPort:     "3306",
		DBName:     "jerseyfm",
	})

	require.Contains(t, dsn, "jfm:p@ss@tcp(db.internal:3306)/jerseyfm?")
	require.Contains(t, dsn, "parseTime=true")
	require.Contains(t, dsn, "charset=utf8mb4")
}

func TestCloseNil(t *testing.T) {
	require.NoError(t, CloseGormDB(nil))
	require.Error(t, AutoMigrateModels(nil))
}
