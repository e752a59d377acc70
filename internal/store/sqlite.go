package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/mrz1836/grove/internal/constants"
	"github.com/mrz1836/grove/internal/ctxutil"
	"github.com/mrz1836/grove/internal/domain"
	groveerrors "github.com/mrz1836/grove/internal/errors"
)

// schema creates the flat document table. Tasks are stored as JSON
// documents; the doc_type, parent_id and path_key columns are derived from
// the document on every write and exist only to serve the secondary
// indexes.
const schema = `
CREATE TABLE IF NOT EXISTS documents (
	id         TEXT PRIMARY KEY,
	doc_type   TEXT NOT NULL,
	parent_id  TEXT NOT NULL DEFAULT '',
	path_key   TEXT NOT NULL,
	created_at DATETIME NOT NULL,
	doc        TEXT NOT NULL
);
`

// Index names served by the adapter.
const (
	indexByType   = "idx_documents_type"
	indexByParent = "idx_documents_parent"
	indexByPath   = "idx_documents_path"
)

// indexDefinitions maps each index name to the exact statement that
// installs it. The statement text doubles as the expected definition when
// verifying against sqlite_master, so a changed definition here is detected
// as stale on disk and reinstalled.
//
//nolint:gochecknoglobals // Read-only definition table
var indexDefinitions = map[string]string{
	indexByType:   `CREATE INDEX ` + indexByType + ` ON documents (doc_type)`,
	indexByParent: `CREATE INDEX ` + indexByParent + ` ON documents (doc_type, parent_id)`,
	indexByPath:   `CREATE INDEX ` + indexByPath + ` ON documents (doc_type, path_key)`,
}

// taskDocFields lists every JSON field the task schema owns. On save these
// are stripped from the previously stored document before the fresh task
// document is merged on top, so cleared optional fields (due_date,
// blocked_reason) do not resurrect from the old revision while unknown
// fields written by other software survive.
//
//nolint:gochecknoglobals // Read-only field list
var taskDocFields = []string{
	"id", "text", "state", "blocked_reason", "path", "history",
	"due_date", "created_at", "updated_at", "schema_version",
}

// SQLiteStore implements Repository over an embedded SQLite database,
// treating it as a flat document store with derived secondary indexes and
// an in-process change feed.
type SQLiteStore struct {
	db   *sql.DB
	feed *feedHub

	// ensured caches which index definitions have been verified this
	// session. It is safe to recompute redundantly under concurrent
	// callers; verification is idempotent.
	ensuredMu sync.Mutex
	ensured   map[string]bool
}

// Compile-time interface check.
var _ Repository = (*SQLiteStore)(nil)

// NewSQLiteStore opens (or creates) the database at dbPath and ensures the
// document table exists. The caller is responsible for calling Close.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, groveerrors.NewStoreError("open", fmt.Errorf("open sqlite %s: %w", dbPath, err))
	}
	db.SetMaxOpenConns(1) // prevent SQLITE_BUSY
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, groveerrors.NewStoreError("open", fmt.Errorf("create schema: %w", err))
	}
	return &SQLiteStore{
		db:      db,
		feed:    newFeedHub(),
		ensured: make(map[string]bool),
	}, nil
}

// Close releases the database connection and cancels every open
// change-feed subscription.
func (s *SQLiteStore) Close() error {
	s.feed.close()
	return s.db.Close()
}

// pathKey encodes a materialized path as a single sortable key. Every
// element is terminated by "/", so the keys of an ancestor's descendants
// are exactly the keys extending the ancestor's own key.
func pathKey(p domain.Path) string {
	if len(p) == 0 {
		return ""
	}
	return strings.Join(p, "/") + "/"
}

// ensureIndexes verifies that the named index definitions exist and match,
// installing or reinstalling them when missing or stale. Creation uses
// IF NOT EXISTS so concurrent installers do not trip over each other.
func (s *SQLiteStore) ensureIndexes(ctx context.Context, names ...string) error {
	s.ensuredMu.Lock()
	defer s.ensuredMu.Unlock()

	for _, name := range names {
		if s.ensured[name] {
			continue
		}
		want, ok := indexDefinitions[name]
		if !ok {
			return groveerrors.NewStoreError("ensure-index", fmt.Errorf("unknown index %q", name))
		}

		var got sql.NullString
		err := s.db.QueryRowContext(ctx,
			`SELECT sql FROM sqlite_master WHERE type = 'index' AND name = ?`, name).Scan(&got)
		switch {
		case errors.Is(err, sql.ErrNoRows):
			// Missing; install below.
		case err != nil:
			return groveerrors.NewStoreError("ensure-index", err)
		case got.Valid && normalizeIndexSQL(got.String) == want:
			s.ensured[name] = true
			continue
		default:
			// Stale definition; drop and reinstall.
			if _, err := s.db.ExecContext(ctx, `DROP INDEX IF EXISTS `+name); err != nil {
				return groveerrors.NewStoreError("ensure-index", err)
			}
		}

		create := strings.Replace(want, "CREATE INDEX ", "CREATE INDEX IF NOT EXISTS ", 1)
		if _, err := s.db.ExecContext(ctx, create); err != nil {
			return groveerrors.NewStoreError("ensure-index", err)
		}
		s.ensured[name] = true
	}
	return nil
}

// normalizeIndexSQL maps the statement text sqlite_master keeps for an
// index back to its canonical definition. sqlite_master preserves the
// statement as issued, including any IF NOT EXISTS clause.
func normalizeIndexSQL(stmt string) string {
	return strings.Replace(stmt, "CREATE INDEX IF NOT EXISTS ", "CREATE INDEX ", 1)
}

// GetByID retrieves a task by id.
func (s *SQLiteStore) GetByID(ctx context.Context, id string) (domain.Task, error) {
	if id == "" {
		return domain.Task{}, groveerrors.Wrap(groveerrors.ErrEmptyValue, "failed to get task: id")
	}

	var doc string
	err := s.db.QueryRowContext(ctx,
		`SELECT doc FROM documents WHERE id = ? AND doc_type = ?`, id, constants.DocTypeTask).Scan(&doc)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Task{}, groveerrors.Wrapf(groveerrors.ErrTaskNotFound, "failed to get task '%s'", id)
	}
	if err != nil {
		return domain.Task{}, groveerrors.NewStoreError("get", err)
	}
	return decodeTask(doc, "get")
}

// GetAll returns every non-root task, via the document type index.
func (s *SQLiteStore) GetAll(ctx context.Context) ([]domain.Task, error) {
	if err := s.ensureIndexes(ctx, indexByType); err != nil {
		return nil, err
	}
	return s.queryTasks(ctx, "get-all",
		`SELECT doc FROM documents WHERE doc_type = ? AND id != ? ORDER BY created_at, id`,
		constants.DocTypeTask, constants.RootTaskID)
}

// GetImmediateChildren returns the tasks whose parent is parentID, ordered
// by creation time, via the parent index.
func (s *SQLiteStore) GetImmediateChildren(ctx context.Context, parentID string) ([]domain.Task, error) {
	if parentID == "" {
		return nil, groveerrors.Wrap(groveerrors.ErrEmptyValue, "failed to get children: parent id")
	}
	if err := s.ensureIndexes(ctx, indexByParent); err != nil {
		return nil, err
	}
	return s.queryTasks(ctx, "get-children",
		`SELECT doc FROM documents WHERE doc_type = ? AND parent_id = ? ORDER BY created_at, id`,
		constants.DocTypeTask, parentID)
}

// GetDescendants returns every proper descendant of the given ancestor via
// a range scan over the path index: every stored path key strictly between
// the ancestor's own key and its upper sibling bound extends the
// ancestor's path. The ancestor itself is excluded; a missing ancestor
// fails ErrTaskNotFound.
func (s *SQLiteStore) GetDescendants(ctx context.Context, ancestorID string) ([]domain.Task, error) {
	ancestor, err := s.GetByID(ctx, ancestorID)
	if err != nil {
		return nil, err
	}
	if err := s.ensureIndexes(ctx, indexByPath); err != nil {
		return nil, err
	}

	start := pathKey(ancestor.Path)
	end := start + "\xff"
	return s.queryTasks(ctx, "get-descendants",
		`SELECT doc FROM documents WHERE doc_type = ? AND path_key > ? AND path_key < ? ORDER BY path_key`,
		constants.DocTypeTask, start, end)
}

// Save upserts a single task document, merging it onto any existing stored
// document, then publishes a put event on the change feed.
func (s *SQLiteStore) Save(ctx context.Context, task domain.Task) error {
	if err := ctxutil.Canceled(ctx); err != nil {
		return err
	}
	if err := s.saveOne(ctx, s.db, task); err != nil {
		return err
	}
	s.feed.publish(Change{Type: ChangePut, ID: task.ID, Task: task})
	return nil
}

// SaveMany upserts a batch of tasks as a single request. Events are
// published only for documents confirmed written; on failure the batch may
// be partially applied and the caller must re-fetch.
func (s *SQLiteStore) SaveMany(ctx context.Context, tasks []domain.Task) error {
	if err := ctxutil.Canceled(ctx); err != nil {
		return err
	}
	if len(tasks) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return groveerrors.NewStoreError("save-many", err)
	}
	for _, task := range tasks {
		if err := s.saveOne(ctx, tx, task); err != nil {
			_ = tx.Rollback()
			return err
		}
	}
	if err := tx.Commit(); err != nil {
		return groveerrors.NewStoreError("save-many", err)
	}

	for _, task := range tasks {
		s.feed.publish(Change{Type: ChangePut, ID: task.ID, Task: task})
	}
	return nil
}

// Delete removes a task document and publishes a delete event.
func (s *SQLiteStore) Delete(ctx context.Context, id string) error {
	if err := ctxutil.Canceled(ctx); err != nil {
		return err
	}
	if id == "" {
		return groveerrors.Wrap(groveerrors.ErrEmptyValue, "failed to delete task: id")
	}

	res, err := s.db.ExecContext(ctx,
		`DELETE FROM documents WHERE id = ? AND doc_type = ?`, id, constants.DocTypeTask)
	if err != nil {
		return groveerrors.NewStoreError("delete", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return groveerrors.NewStoreError("delete", err)
	}
	if rows == 0 {
		return groveerrors.Wrapf(groveerrors.ErrTaskNotFound, "failed to delete task '%s'", id)
	}

	s.feed.publish(Change{Type: ChangeDelete, ID: id})
	return nil
}

// DeleteMany removes a batch of task documents as a single request.
// Missing ids are skipped. Events are published only for documents
// confirmed removed.
func (s *SQLiteStore) DeleteMany(ctx context.Context, ids []string) error {
	if err := ctxutil.Canceled(ctx); err != nil {
		return err
	}
	if len(ids) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return groveerrors.NewStoreError("delete-many", err)
	}

	deleted := make([]string, 0, len(ids))
	for _, id := range ids {
		res, err := tx.ExecContext(ctx,
			`DELETE FROM documents WHERE id = ? AND doc_type = ?`, id, constants.DocTypeTask)
		if err != nil {
			_ = tx.Rollback()
			return groveerrors.NewStoreError("delete-many", err)
		}
		if rows, err := res.RowsAffected(); err == nil && rows > 0 {
			deleted = append(deleted, id)
		}
	}
	if err := tx.Commit(); err != nil {
		return groveerrors.NewStoreError("delete-many", err)
	}

	for _, id := range deleted {
		s.feed.publish(Change{Type: ChangeDelete, ID: id})
	}
	return nil
}

// Watch subscribes to changes for a single task id, starting now.
func (s *SQLiteStore) Watch(_ context.Context, id string) (*Subscription, error) {
	if id == "" {
		return nil, groveerrors.Wrap(groveerrors.ErrEmptyValue, "failed to watch: id")
	}
	return s.feed.subscribe(func(c Change) bool { return c.ID == id }), nil
}

// WatchAll subscribes to changes for every task document, starting now.
func (s *SQLiteStore) WatchAll(_ context.Context) (*Subscription, error) {
	return s.feed.subscribe(nil), nil
}

// execer abstracts *sql.DB and *sql.Tx for single-document writes.
type execer interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// saveOne merges the task document onto any stored revision and upserts it
// together with its derived index columns.
func (s *SQLiteStore) saveOne(ctx context.Context, db execer, task domain.Task) error {
	if task.ID == "" {
		return groveerrors.Wrap(groveerrors.ErrEmptyValue, "failed to save task: id")
	}
	if err := task.Path.Validate(task.ID); err != nil {
		return err
	}

	fresh, err := json.Marshal(task)
	if err != nil {
		return groveerrors.NewStoreError("save", err)
	}

	var existing sql.NullString
	err = db.QueryRowContext(ctx,
		`SELECT doc FROM documents WHERE id = ?`, task.ID).Scan(&existing)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return groveerrors.NewStoreError("save", err)
	}

	doc := fresh
	if existing.Valid {
		doc, err = mergeDoc([]byte(existing.String), fresh)
		if err != nil {
			return groveerrors.NewStoreError("save", err)
		}
	}

	_, err = db.ExecContext(ctx, `
		INSERT INTO documents (id, doc_type, parent_id, path_key, created_at, doc)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			doc_type = excluded.doc_type,
			parent_id = excluded.parent_id,
			path_key = excluded.path_key,
			created_at = excluded.created_at,
			doc = excluded.doc`,
		task.ID, constants.DocTypeTask, task.ParentID(), pathKey(task.Path), task.CreatedAt, string(doc))
	if err != nil {
		return groveerrors.NewStoreError("save", err)
	}
	return nil
}

// mergeDoc overlays the fresh task document onto the previously stored
// one. Task-owned fields are replaced wholesale (including fields the
// fresh document omits, so cleared values stay cleared); every other field
// is preserved untouched.
func mergeDoc(existing, fresh []byte) ([]byte, error) {
	var base map[string]json.RawMessage
	if err := json.Unmarshal(existing, &base); err != nil {
		return nil, fmt.Errorf("parse stored document: %w", err)
	}
	var update map[string]json.RawMessage
	if err := json.Unmarshal(fresh, &update); err != nil {
		return nil, fmt.Errorf("parse task document: %w", err)
	}

	for _, field := range taskDocFields {
		delete(base, field)
	}
	for k, v := range update {
		base[k] = v
	}
	return json.Marshal(base)
}

// queryTasks runs a doc-returning query and decodes every row.
func (s *SQLiteStore) queryTasks(ctx context.Context, op, query string, args ...any) ([]domain.Task, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, groveerrors.NewStoreError(op, err)
	}
	defer func() { _ = rows.Close() }()

	tasks := make([]domain.Task, 0)
	for rows.Next() {
		var doc string
		if err := rows.Scan(&doc); err != nil {
			return nil, groveerrors.NewStoreError(op, err)
		}
		task, err := decodeTask(doc, op)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, task)
	}
	if err := rows.Err(); err != nil {
		return nil, groveerrors.NewStoreError(op, err)
	}
	return tasks, nil
}

// decodeTask parses a stored JSON document into a Task.
func decodeTask(doc, op string) (domain.Task, error) {
	var task domain.Task
	if err := json.Unmarshal([]byte(doc), &task); err != nil {
		return domain.Task{}, groveerrors.NewStoreError(op, fmt.Errorf("corrupted document: %w", err))
	}
	return task, nil
}
