package cmdutil

import (
	"fmt"
	"log/slog"

	"github.com/spf13/viper"

	"github.com/lepinkainen/reelscan/internal/datastore"
)

const datastoreName = "reelscan"

// WriteToDatastore persists records to the configured scan-history store.
// The store is a local SQLite file readable with Datasette, or a remote
// Datasette instance when datasette.remote.url is set. A disabled store
// is a silent no-op so commands can call this unconditionally.
func WriteToDatastore[T any](records []T, schema, table, description string, toMap func(T) map[string]any) error {
	if !viper.GetBool("datasette.enabled") {
		return nil
	}
	if len(records) == 0 {
		return nil
	}

	store, err := openDatastore()
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	if err := store.CreateTable(schema); err != nil {
		return fmt.Errorf("failed to create %s table: %w", table, err)
	}

	rows := make([]map[string]any, 0, len(records))
	for _, record := range records {
		rows = append(rows, toMap(record))
	}

	if err := store.BatchInsert(datastoreName, table, rows); err != nil {
		return fmt.Errorf("failed to insert %s: %w", description, err)
	}

	slog.Info("Wrote records to datastore", "table", table, "count", len(rows))
	return nil
}

func openDatastore() (datastore.Store, error) {
	var store datastore.Store
	if remoteURL := viper.GetString("datasette.remote.url"); remoteURL != "" {
		store = datastore.NewDatasetteClient(remoteURL, viper.GetString("datasette.remote.token"))
	} else {
		dbFile := viper.GetString("datasette.dbfile")
		if dbFile == "" {
			dbFile = "reelscan.db"
		}
		store = datastore.NewSQLiteStore(dbFile)
	}

	if err := store.Connect(); err != nil {
		return nil, fmt.Errorf("failed to connect to datastore: %w", err)
	}
	return store, nil
}
