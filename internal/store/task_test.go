package store

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/isdelr/taskdeck-be/internal/database"
)

func newTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := database.New(":memory:")
	if err != nil {
		t.Fatalf("open database: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	if err := database.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func insertUser(t *testing.T, db *sql.DB, id, username string) {
	t.Helper()
	_, err := db.Exec("INSERT INTO users (id, username, email, password_hash) VALUES (?, ?, ?, ?)",
		id, username, username+"@example.com", "x")
	if err != nil {
		t.Fatalf("insert user %s: %v", username, err)
	}
}

func insertTaskAt(t *testing.T, db *sql.DB, userID, title string, createdAt time.Time) {
	t.Helper()
	_, err := db.Exec("INSERT INTO tasks (title, description, completed, created_at, user_id) VALUES (?, '', 0, ?, ?)",
		title, createdAt, userID)
	if err != nil {
		t.Fatalf("insert task %s: %v", title, err)
	}
}

func TestTaskRepository_CreateAssignsMonotonicIDs(t *testing.T) {
	db := newTestDB(t)
	insertUser(t, db, "u1", "alice")
	repo := NewTaskRepository(db)
	ctx := context.Background()

	var lastID int64
	for _, title := range []string{"first", "second", "third"} {
		task, err := repo.Create(ctx, "u1", title, "")
		if err != nil {
			t.Fatalf("Create(%s): %v", title, err)
		}
		if task.ID <= lastID {
			t.Errorf("id %d not greater than previous %d", task.ID, lastID)
		}
		if task.CreatedAt.IsZero() {
			t.Error("CreatedAt not set")
		}
		if task.Completed {
			t.Error("new task should not be completed")
		}
		lastID = task.ID
	}
}

func TestTaskRepository_CreatedAtIsSQLiteParseable(t *testing.T) {
	db := newTestDB(t)
	insertUser(t, db, "u1", "alice")
	repo := NewTaskRepository(db)
	ctx := context.Background()

	task, err := repo.Create(ctx, "u1", "Hoy", "")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	// The stored text must be readable by SQLite's datetime functions,
	// otherwise the date filter silently excludes every row.
	var day sql.NullString
	if err := db.QueryRow("SELECT date(created_at) FROM tasks WHERE id = ?", task.ID).Scan(&day); err != nil {
		t.Fatalf("select date(created_at): %v", err)
	}
	if !day.Valid {
		t.Fatal("date(created_at) is NULL; stored format not parseable by sqlite")
	}
	if want := task.CreatedAt.UTC().Format("2006-01-02"); day.String != want {
		t.Errorf("date(created_at) = %q, want %q", day.String, want)
	}

	// A freshly created task must match a created_after filter for its
	// own creation date.
	tasks, err := repo.List(ctx, "u1", TaskFilter{CreatedAfter: task.CreatedAt.UTC().Format("2006-01-02")})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(tasks) != 1 {
		t.Fatalf("got %d tasks, want the task created today", len(tasks))
	}
}

func TestTaskRepository_GetByIDScopedToOwner(t *testing.T) {
	db := newTestDB(t)
	insertUser(t, db, "u1", "alice")
	insertUser(t, db, "u2", "bob")
	repo := NewTaskRepository(db)
	ctx := context.Background()

	task, err := repo.Create(ctx, "u1", "Alice task", "")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if _, err := repo.GetByID(ctx, "u1", task.ID); err != nil {
		t.Errorf("owner lookup failed: %v", err)
	}
	if _, err := repo.GetByID(ctx, "u2", task.ID); err != ErrNotFound {
		t.Errorf("cross-owner lookup: got %v, want ErrNotFound", err)
	}
	if _, err := repo.GetByID(ctx, "u1", task.ID+100); err != ErrNotFound {
		t.Errorf("missing task lookup: got %v, want ErrNotFound", err)
	}
}

func TestTaskRepository_ListNewestFirst(t *testing.T) {
	db := newTestDB(t)
	insertUser(t, db, "u1", "alice")
	repo := NewTaskRepository(db)
	ctx := context.Background()

	insertTaskAt(t, db, "u1", "older", time.Date(2025, 8, 1, 10, 0, 0, 0, time.UTC))
	insertTaskAt(t, db, "u1", "newer", time.Date(2025, 8, 8, 10, 0, 0, 0, time.UTC))

	tasks, err := repo.List(ctx, "u1", TaskFilter{})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(tasks) != 2 {
		t.Fatalf("got %d tasks, want 2", len(tasks))
	}
	if tasks[0].Title != "newer" || tasks[1].Title != "older" {
		t.Errorf("wrong order: %q, %q", tasks[0].Title, tasks[1].Title)
	}
}

func TestTaskRepository_ListFilters(t *testing.T) {
	db := newTestDB(t)
	insertUser(t, db, "u1", "alice")
	insertUser(t, db, "u2", "bob")
	repo := NewTaskRepository(db)
	ctx := context.Background()

	insertTaskAt(t, db, "u1", "Comprar pan", time.Date(2025, 8, 1, 12, 0, 0, 0, time.UTC))
	insertTaskAt(t, db, "u1", "Estudiar", time.Date(2025, 8, 8, 12, 0, 0, 0, time.UTC))
	insertTaskAt(t, db, "u2", "Bob task", time.Date(2025, 8, 8, 12, 0, 0, 0, time.UTC))

	tests := []struct {
		name   string
		filter TaskFilter
		want   []string
	}{
		{
			name:   "no filter scopes to owner",
			filter: TaskFilter{},
			want:   []string{"Estudiar", "Comprar pan"},
		},
		{
			name:   "search is case-insensitive substring",
			filter: TaskFilter{Search: "comprar"},
			want:   []string{"Comprar pan"},
		},
		{
			name:   "created_after keeps the date floor inclusive",
			filter: TaskFilter{CreatedAfter: "2025-08-05"},
			want:   []string{"Estudiar"},
		},
		{
			name:   "created_after on the exact date matches",
			filter: TaskFilter{CreatedAfter: "2025-08-01"},
			want:   []string{"Estudiar", "Comprar pan"},
		},
		{
			name:   "combined filters",
			filter: TaskFilter{Search: "estudiar", CreatedAfter: "2025-08-05"},
			want:   []string{"Estudiar"},
		},
		{
			name:   "no match yields empty result",
			filter: TaskFilter{Search: "nothing"},
			want:   nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tasks, err := repo.List(ctx, "u1", tt.filter)
			if err != nil {
				t.Fatalf("List: %v", err)
			}
			if len(tasks) != len(tt.want) {
				t.Fatalf("got %d tasks, want %d", len(tasks), len(tt.want))
			}
			for i, title := range tt.want {
				if tasks[i].Title != title {
					t.Errorf("task[%d] = %q, want %q", i, tasks[i].Title, title)
				}
			}
		})
	}
}

func TestTaskRepository_UpdatePreservesImmutableColumns(t *testing.T) {
	db := newTestDB(t)
	insertUser(t, db, "u1", "alice")
	repo := NewTaskRepository(db)
	ctx := context.Background()

	task, err := repo.Create(ctx, "u1", "Editame", "detalle")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	task.Title = "Editada"
	task.Completed = true
	if err := repo.Update(ctx, task); err != nil {
		t.Fatalf("Update: %v", err)
	}

	got, err := repo.GetByID(ctx, "u1", task.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.Title != "Editada" || !got.Completed {
		t.Errorf("update not applied: %+v", got)
	}
	if !got.CreatedAt.Equal(task.CreatedAt) {
		t.Errorf("created_at changed: %v != %v", got.CreatedAt, task.CreatedAt)
	}
	if got.UserID != "u1" {
		t.Errorf("owner changed: %q", got.UserID)
	}
}

func TestTaskRepository_Delete(t *testing.T) {
	db := newTestDB(t)
	insertUser(t, db, "u1", "alice")
	insertUser(t, db, "u2", "bob")
	repo := NewTaskRepository(db)
	ctx := context.Background()

	task, err := repo.Create(ctx, "u1", "Borrar", "")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if err := repo.Delete(ctx, "u2", task.ID); err != ErrNotFound {
		t.Errorf("cross-owner delete: got %v, want ErrNotFound", err)
	}
	if err := repo.Delete(ctx, "u1", task.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := repo.GetByID(ctx, "u1", task.ID); err != ErrNotFound {
		t.Errorf("deleted task still readable: %v", err)
	}
	if err := repo.Delete(ctx, "u1", task.ID); err != ErrNotFound {
		t.Errorf("second delete: got %v, want ErrNotFound", err)
	}
}

func TestTaskRepository_CountByCompleted(t *testing.T) {
	db := newTestDB(t)
	insertUser(t, db, "u1", "alice")
	repo := NewTaskRepository(db)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if _, err := repo.Create(ctx, "u1", "task", ""); err != nil {
			t.Fatalf("Create: %v", err)
		}
	}
	task, _ := repo.GetByID(ctx, "u1", 1)
	task.Completed = true
	if err := repo.Update(ctx, task); err != nil {
		t.Fatalf("Update: %v", err)
	}

	open, err := repo.CountByCompleted(ctx, false)
	if err != nil {
		t.Fatalf("CountByCompleted(false): %v", err)
	}
	done, err := repo.CountByCompleted(ctx, true)
	if err != nil {
		t.Fatalf("CountByCompleted(true): %v", err)
	}
	if open != 2 || done != 1 {
		t.Errorf("counts = %d open, %d done; want 2, 1", open, done)
	}
}
