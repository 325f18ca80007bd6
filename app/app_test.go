package app

import (
	"context"
	"database/sql"
	"io"
	"log/slog"
	"testing"

	"github.com/Dosada05/league-system/config"
	"github.com/Dosada05/league-system/metrics"
	"github.com/Dosada05/league-system/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewUploader(t *testing.T) {
	uploader, err := newUploader(context.Background(), config.R2Config{BucketName: "only-bucket"})
	require.NoError(t, err)
	assert.Nil(t, uploader)

	uploader, err = newUploader(context.Background(), config.R2Config{
		AccountID:       "acc",
		AccessKeyID:     "key",
		SecretAccessKey: "secret",
		BucketName:      "standings",
		PublicBaseURL:   "https://cdn.example.com/league",
	})
	require.NoError(t, err)
	require.NotNil(t, uploader)
	assert.Equal(t, "https://cdn.example.com/league/a.json", uploader.GetPublicURL("a.json"))
}

func TestBuild_ExportDisabledWithoutR2(t *testing.T) {
	// sql.Open не подключается, пока не выполнен запрос
	dbConn, err := sql.Open("postgres", "postgres://localhost:1/none?sslmode=disable")
	require.NoError(t, err)
	defer dbConn.Close()

	a, err := Build(context.Background(), &config.Config{AdvancementSlots: 2}, dbConn, nil, metrics.NewMock(), testLogger())
	require.NoError(t, err)
	require.NotNil(t, a.Events)

	_, err = a.Exporter.ExportEventStandings(context.Background(), 1)
	assert.ErrorIs(t, err, services.ErrExportDisabled)
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
