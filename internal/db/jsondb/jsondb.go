// Package jsondb provides a key/value store kept in a JSON file on disk.
// Every mutation is written through to the file so the session survives
// process restarts the same way browser local storage survives reloads.
package jsondb

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
)

type JSONDB struct {
	fileName string
	mu       sync.RWMutex
	Cache    CacheStruct
}

type CacheStruct struct {
	Items map[string]string
}

func initDBFile(fileName string) error {
	return writeToJSONFile(fileName, CacheStruct{Items: map[string]string{}})
}

// writeToJSONFile replaces fileName atomically: the cache is written to a
// temporary file in the same directory which is then renamed over it.
func writeToJSONFile(fileName string, cache interface{}) (err error) {
	jsonData, err := json.MarshalIndent(cache, "", "\t")
	if err != nil {
		return fmt.Errorf("error marshaling JSON: %w", err)
	}

	file, err := os.CreateTemp(filepath.Dir(fileName), filepath.Base(fileName)+".*.tmp")
	if err != nil {
		return fmt.Errorf("error creating temporary file: %w", err)
	}
	defer func() {
		if err != nil {
			_ = os.Remove(file.Name())
		}
	}()

	if _, err = file.Write(jsonData); err != nil {
		_ = file.Close()
		return fmt.Errorf("error writing to file: %w", err)
	}
	if err = file.Sync(); err != nil {
		_ = file.Close()
		return fmt.Errorf("error syncing file: %w", err)
	}
	if err = file.Close(); err != nil {
		return fmt.Errorf("error closing file: %w", err)
	}
	if err = os.Chmod(file.Name(), 0600); err != nil {
		return fmt.Errorf("error setting file mode: %w", err)
	}
	if err = os.Rename(file.Name(), fileName); err != nil {
		return fmt.Errorf("error replacing file: %w", err)
	}

	return nil
}

// parseJSONFile reads the cache; an empty file is an empty cache.
func parseJSONFile(fileName string, cache *CacheStruct) error {
	file, err := os.Open(fileName)
	if err != nil {
		return err
	}
	defer file.Close()

	err = json.NewDecoder(file).Decode(cache)
	if errors.Is(err, io.EOF) {
		return nil
	}

	return err
}

// New opens the store kept in fileName, creating the file when it does not exist.
func New(fileName string) (*JSONDB, error) {
	db := JSONDB{
		fileName: fileName,
		Cache:    CacheStruct{},
	}

	err := parseJSONFile(db.fileName, &db.Cache)
	if os.IsNotExist(err) {
		err = initDBFile(fileName)
	}
	if err != nil {
		return nil, fmt.Errorf("in jsondb.New(): %w", err)
	}

	if db.Cache.Items == nil {
		db.Cache.Items = map[string]string{}
	}

	return &db, nil
}

// NewInMemory returns a store that never touches the disk.
func NewInMemory() *JSONDB {
	return &JSONDB{
		Cache: CacheStruct{Items: map[string]string{}},
	}
}

// Ping checks that the directory holding the file is still there.
func (db *JSONDB) Ping(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if db.fileName == "" {
		return nil
	}

	info, err := os.Stat(filepath.Dir(db.fileName))
	if err != nil {
		return fmt.Errorf("in jsondb.Ping(): %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("in jsondb.Ping(): %q is not a directory", filepath.Dir(db.fileName))
	}

	return nil
}

func (db *JSONDB) GetItem(ctx context.Context, key string) (value string, found bool, err error) {
	db.mu.RLock()
	defer db.mu.RUnlock()

	value, found = db.Cache.Items[key]

	return value, found, nil
}

func (db *JSONDB) SetItem(ctx context.Context, key, value string) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	db.Cache.Items[key] = value

	return db.flush()
}

func (db *JSONDB) RemoveItem(ctx context.Context, key string) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	if _, found := db.Cache.Items[key]; !found {
		return nil
	}
	delete(db.Cache.Items, key)

	return db.flush()
}

// Len reports how many keys are stored.
func (db *JSONDB) Len() int {
	db.mu.RLock()
	defer db.mu.RUnlock()

	return len(db.Cache.Items)
}

func (db *JSONDB) Close() error {
	db.mu.Lock()
	defer db.mu.Unlock()

	return db.flush()
}

func (db *JSONDB) flush() error {
	if db.fileName == "" {
		return nil
	}

	return writeToJSONFile(db.fileName, db.Cache)
}
