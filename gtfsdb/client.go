package gtfsdb

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"time"

	"nextstop.transit.dev/internal/logging"
)

// Client is the main entry point for the library
type Client struct {
	config        Config
	DB            *sql.DB
	logger        *slog.Logger
	importRuntime time.Duration
}

// NewClient creates a new Client with the provided configuration
func NewClient(config Config) (*Client, error) {
	logger := logging.OrDefault(config.Logger).With(slog.String("component", "gtfsdb"))

	db, err := createDB(config)
	if err != nil {
		return nil, err
	}

	if config.verbose {
		logging.LogOperation(logger, "database_ready", slog.String("path", config.DBPath))
	}

	client := &Client{
		config: config,
		DB:     db,
		logger: logger,
	}
	return client, nil
}

func (c *Client) Close() error {
	return c.DB.Close()
}

// ImportRuntime reports how long the last import took.
func (c *Client) ImportRuntime() time.Duration {
	return c.importRuntime
}

// DownloadAndStore downloads GTFS data from the given URL and stores it in the database.
// It reports whether the feed was imported; an unchanged feed is skipped.
func (c *Client) DownloadAndStore(ctx context.Context, url string) (bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return false, fmt.Errorf("error building GTFS request: %w", err)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return false, fmt.Errorf("error downloading GTFS data: %w", err)
	}
	defer logging.SafeCloseWithLogging(resp.Body, c.logger, "gtfs_download_body")

	if resp.StatusCode != http.StatusOK {
		return false, fmt.Errorf("error downloading GTFS data: unexpected status %d", resp.StatusCode)
	}

	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return false, fmt.Errorf("error reading GTFS data: %w", err)
	}

	return c.ImportData(ctx, b, url)
}

// ImportFromFile imports GTFS data from a local zip file into the database
func (c *Client) ImportFromFile(ctx context.Context, path string) (bool, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return false, fmt.Errorf("error reading local GTFS file: %w", err)
	}

	return c.ImportData(ctx, data, path)
}

// ImportData imports a GTFS zip held in memory. source is recorded in the import metadata.
func (c *Client) ImportData(ctx context.Context, data []byte, source string) (bool, error) {
	return c.processAndStoreGTFSData(ctx, data, source)
}
