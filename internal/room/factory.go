package room

import (
	"fmt"
	"os"
	"strings"
)

const (
	StoreModeMemory   = "memory"
	StoreModeSQLite   = "sqlite"
	StoreModePostgres = "postgres"
)

func storeModeFromEnv() string {
	raw := strings.ToLower(strings.TrimSpace(os.Getenv("ROOM_STORE")))
	switch raw {
	case "", StoreModeMemory, "mem":
		return StoreModeMemory
	case StoreModeSQLite, "file", "local":
		return StoreModeSQLite
	case StoreModePostgres, "postgresql", "db":
		return StoreModePostgres
	default:
		return raw
	}
}

// NewStoreFromEnv picks a backend from ROOM_STORE. Memory is the default;
// sqlite and postgres read their own connection env vars.
func NewStoreFromEnv() (Store, string, error) {
	mode := storeModeFromEnv()

	switch mode {
	case StoreModeMemory:
		return NewMemoryStore(), mode, nil
	case StoreModeSQLite:
		store, err := NewSQLiteStoreFromEnv()
		if err != nil {
			return nil, mode, err
		}
		return store, mode, nil
	case StoreModePostgres:
		store, err := NewPostgresStoreFromEnv()
		if err != nil {
			return nil, mode, err
		}
		return store, mode, nil
	default:
		return nil, mode, fmt.Errorf("invalid ROOM_STORE %q (supported: %s, %s, %s)",
			mode, StoreModeMemory, StoreModeSQLite, StoreModePostgres)
	}
}
