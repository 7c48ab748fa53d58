package memorystorage

import (
	"github.com/patric-chuzhbe/suiteclient/internal/db/jsondb"
)

// MemoryStorage keeps the session only for the lifetime of the process.
type MemoryStorage struct {
	*jsondb.JSONDB
}

func New() (*MemoryStorage, error) {
	return &MemoryStorage{
		JSONDB: jsondb.NewInMemory(),
	}, nil
}

func (theStorage *MemoryStorage) Close() error {
	return nil
}
