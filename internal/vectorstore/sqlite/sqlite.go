package sqlite

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sync"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"resumerag/internal/domain"
	"resumerag/internal/vectorstore"
)

// Storage keeps the indexed chunks of one collection in a SQLite file
// at <dir>/<collection>.db. Search is brute-force cosine over all rows.
// After Delete the file is recreated on next use.
type Storage struct {
	mu     sync.RWMutex
	db     *sqlx.DB
	path   string
	closed bool
}

var errClosed = errors.New("sqlite: storage closed")

type chunkRow struct {
	ID       string `db:"id"`
	Position int    `db:"position"`
	Text     string `db:"text"`
	Metadata string `db:"metadata"`
	Vector   []byte `db:"vector"`
}

// Open opens or creates the collection file under dir.
func Open(dir, collection string) (*Storage, error) {
	if collection == "" {
		return nil, domain.ConfigurationError("vector store collection name is empty")
	}
	s := &Storage{path: filepath.Join(dir, collection+".db")}
	db, err := connect(s.path)
	if err != nil {
		return nil, err
	}
	s.db = db
	return s, nil
}

func connect(path string) (*sqlx.DB, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, domain.NewError(domain.KindIndex, "create persist directory", err)
	}
	db, err := sqlx.Connect("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, domain.NewError(domain.KindIndex, "open vector store", err)
	}
	if err := initSchema(db); err != nil {
		_ = db.Close()
		return nil, domain.NewError(domain.KindIndex, "initialize schema", err)
	}
	return db, nil
}

// acquire returns an open handle, reopening the file after Delete.
// The caller must invoke release once done with the handle.
func (s *Storage) acquire() (db *sqlx.DB, release func(), err error) {
	for {
		s.mu.RLock()
		if s.closed {
			s.mu.RUnlock()
			return nil, nil, domain.NewError(domain.KindIndex, "vector store unavailable", errClosed)
		}
		if s.db != nil {
			return s.db, s.mu.RUnlock, nil
		}
		s.mu.RUnlock()

		s.mu.Lock()
		if !s.closed && s.db == nil {
			db, err := connect(s.path)
			if err != nil {
				s.mu.Unlock()
				return nil, nil, err
			}
			s.db = db
		}
		s.mu.Unlock()
	}
}

func initSchema(db *sqlx.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS chunks (
			id TEXT PRIMARY KEY,
			position INTEGER NOT NULL,
			text TEXT NOT NULL,
			metadata TEXT NOT NULL DEFAULT '{}',
			vector BLOB NOT NULL
		)`)
	return err
}

// Path returns the database file location.
func (s *Storage) Path() string { return s.path }

// Replace deletes every row and inserts chunks inside one transaction.
func (s *Storage) Replace(ctx context.Context, chunks []domain.IndexedChunk) error {
	db, release, err := s.acquire()
	if err != nil {
		return err
	}
	defer release()

	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return domain.NewError(domain.KindIndex, "begin transaction", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM chunks`); err != nil {
		return domain.NewError(domain.KindIndex, "delete previous chunks", err)
	}

	stmt, err := tx.PreparexContext(ctx, `INSERT INTO chunks (id, position, text, metadata, vector) VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return domain.NewError(domain.KindIndex, "prepare insert", err)
	}
	defer func() { _ = stmt.Close() }()

	for _, c := range chunks {
		meta, err := json.Marshal(c.Metadata)
		if err != nil {
			return domain.NewError(domain.KindIndex, fmt.Sprintf("encode metadata for %s", c.ID), err)
		}
		if _, err := stmt.ExecContext(ctx, c.ID, c.Index, c.Text, string(meta), vectorToBlob(c.Vector)); err != nil {
			return domain.NewError(domain.KindIndex, fmt.Sprintf("insert %s", c.ID), err)
		}
	}

	if err := tx.Commit(); err != nil {
		return domain.NewError(domain.KindIndex, "commit", err)
	}
	return nil
}

func (s *Storage) Search(ctx context.Context, vector []float64, topK int) ([]domain.SearchResult, error) {
	db, release, err := s.acquire()
	if err != nil {
		return nil, err
	}
	defer release()

	var rows []chunkRow
	if err := db.SelectContext(ctx, &rows, `SELECT id, position, text, metadata, vector FROM chunks ORDER BY position`); err != nil {
		return nil, domain.NewError(domain.KindIndex, "load chunks", err)
	}

	chunks := make([]domain.IndexedChunk, 0, len(rows))
	for _, r := range rows {
		c := domain.IndexedChunk{ID: r.ID, Index: r.Position, Text: r.Text, Vector: blobToVector(r.Vector)}
		if err := json.Unmarshal([]byte(r.Metadata), &c.Metadata); err != nil {
			return nil, domain.NewError(domain.KindIndex, fmt.Sprintf("decode metadata for %s", r.ID), err)
		}
		chunks = append(chunks, c)
	}
	return vectorstore.RankTopK(chunks, vector, topK), nil
}

func (s *Storage) Clear(ctx context.Context) error {
	db, release, err := s.acquire()
	if err != nil {
		return err
	}
	defer release()

	if _, err := db.ExecContext(ctx, `DELETE FROM chunks`); err != nil {
		return domain.NewError(domain.KindIndex, "clear chunks", err)
	}
	return nil
}

// Delete closes the database and removes its file with the WAL and shared-memory
// companions. Missing files are not an error.
func (s *Storage) Delete(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return domain.NewError(domain.KindIndex, "vector store unavailable", errClosed)
	}
	if s.db != nil {
		if err := s.db.Close(); err != nil {
			return domain.NewError(domain.KindIndex, "close vector store", err)
		}
		s.db = nil
	}
	for _, p := range []string{s.path, s.path + "-wal", s.path + "-shm"} {
		if err := os.Remove(p); err != nil && !errors.Is(err, os.ErrNotExist) {
			return domain.NewError(domain.KindIndex, "remove "+filepath.Base(p), err)
		}
	}
	return nil
}

func (s *Storage) Count(ctx context.Context) (int, error) {
	db, release, err := s.acquire()
	if err != nil {
		return 0, err
	}
	defer release()

	var n int
	if err := db.GetContext(ctx, &n, `SELECT COUNT(*) FROM chunks`); err != nil {
		return 0, domain.NewError(domain.KindIndex, "count chunks", err)
	}
	return n, nil
}

func (s *Storage) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}

func vectorToBlob(v []float64) []byte {
	buf := make([]byte, len(v)*8)
	for i, f := range v {
		binary.LittleEndian.PutUint64(buf[i*8:], math.Float64bits(f))
	}
	return buf
}

func blobToVector(b []byte) []float64 {
	v := make([]float64, len(b)/8)
	for i := range v {
		v[i] = math.Float64frombits(binary.LittleEndian.Uint64(b[i*8:]))
	}
	return v
}
