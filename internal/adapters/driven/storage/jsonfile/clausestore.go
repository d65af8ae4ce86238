// Package jsonfile stores extracted clause batches as JSON files.
//
// Each batch is written to <dir>/<created>-<batch id>.json. The creation
// stamp sorts lexically, so file name order is save order and the newest
// batch is the last file name.
package jsonfile

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/custodia-labs/clausefinder/internal/core/domain"
	"github.com/custodia-labs/clausefinder/internal/core/ports/driven"
)

// Ensure ClauseStore implements the interface.
var _ driven.ClauseStore = (*ClauseStore)(nil)

// DirName is the batch directory inside the index directory.
const DirName = "clauses"

const stampLayout = "20060102T150405.000000000Z"

// ClauseStore is a directory of clause batch files.
type ClauseStore struct {
	dir string
}

// NewClauseStore creates a store rooted at dir. The directory is created on first save.
func NewClauseStore(dir string) *ClauseStore {
	return &ClauseStore{dir: dir}
}

// Dir returns the batch directory.
func (s *ClauseStore) Dir() string {
	return s.dir
}

// Save writes batch, assigning a batch ID when it has none.
func (s *ClauseStore) Save(_ context.Context, batch domain.ClauseBatch) (string, error) {
	if batch.ID == "" {
		batch.ID = uuid.NewString()
	}
	if batch.Clauses == nil {
		batch.Clauses = []domain.Clause{}
	}

	data, err := json.MarshalIndent(batch, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encode clause batch: %w", err)
	}

	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return "", fmt.Errorf("create clause dir: %w", err)
	}

	name := batch.CreatedAt.UTC().Format(stampLayout) + "-" + batch.ID + ".json"
	path := filepath.Join(s.dir, name)

	tmp, err := os.CreateTemp(s.dir, ".batch-*.tmp")
	if err != nil {
		return "", fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return "", fmt.Errorf("write clause batch: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("write clause batch: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return "", fmt.Errorf("save clause batch: %w", err)
	}
	return path, nil
}

// Latest returns the newest saved batch.
func (s *ClauseStore) Latest(ctx context.Context) (domain.ClauseBatch, error) {
	names, err := s.batchNames()
	if err != nil {
		return domain.ClauseBatch{}, err
	}
	return s.Load(ctx, filepath.Join(s.dir, names[len(names)-1]))
}

// All returns every saved batch, oldest first.
func (s *ClauseStore) All(ctx context.Context) ([]domain.ClauseBatch, error) {
	names, err := s.batchNames()
	if err != nil {
		return nil, err
	}

	batches := make([]domain.ClauseBatch, 0, len(names))
	for _, name := range names {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		batch, err := s.Load(ctx, filepath.Join(s.dir, name))
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		batches = append(batches, batch)
	}
	return batches, nil
}

// batchNames lists batch file names in save order.
func (s *ClauseStore) batchNames() ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if errors.Is(err, os.ErrNotExist) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("list clause batches: %w", err)
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() || strings.HasPrefix(e.Name(), ".") || filepath.Ext(e.Name()) != ".json" {
			continue
		}
		names = append(names, e.Name())
	}
	if len(names) == 0 {
		return nil, domain.ErrNotFound
	}
	sort.Strings(names)
	return names, nil
}

// Load reads a batch file. A bare JSON array of clauses is accepted too,
// so hand-written clause lists can be indexed directly.
func (s *ClauseStore) Load(_ context.Context, path string) (domain.ClauseBatch, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return domain.ClauseBatch{}, fmt.Errorf("%w: %s", domain.ErrNotFound, path)
	}
	if err != nil {
		return domain.ClauseBatch{}, fmt.Errorf("read clause batch: %w", err)
	}
	return Decode(data)
}

// Decode parses a batch object or a bare clause array.
func Decode(data []byte) (domain.ClauseBatch, error) {
	var batch domain.ClauseBatch

	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		if err := json.Unmarshal(trimmed, &batch.Clauses); err != nil {
			return domain.ClauseBatch{}, domain.InvalidArgument("decode clause list: %v", err)
		}
	} else if err := json.Unmarshal(trimmed, &batch); err != nil {
		return domain.ClauseBatch{}, domain.InvalidArgument("decode clause batch: %v", err)
	}

	if batch.Clauses == nil {
		batch.Clauses = []domain.Clause{}
	}
	for i := range batch.Clauses {
		if batch.Clauses[i].Keywords == nil {
			batch.Clauses[i].Keywords = []string{}
		}
	}
	return batch, nil
}
