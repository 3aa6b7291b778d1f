package board

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/ldi/kanban/pkg/models"
)

// StorageKey is the default key the board is persisted under.
const StorageKey = "kanban-board"

const tracerName = "github.com/ldi/kanban/internal/board"

// Store is the key-value persistence the manager reads from and writes to.
type Store interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
}

// Manager owns the board state. All mutations go through it, and once the
// manager is ready every effective mutation is written back to the store.
type Manager struct {
	store Store
	key   string
	log   logrus.FieldLogger
	now   func() time.Time
	newID func() string

	mu    sync.Mutex
	state models.BoardState
	ready bool

	onChange   func(ctx context.Context, state models.BoardState)
	onChangeMu sync.RWMutex
}

type Option func(*Manager)

// WithKey overrides the storage key.
func WithKey(key string) Option {
	return func(m *Manager) {
		if key != "" {
			m.key = key
		}
	}
}

func WithLogger(log logrus.FieldLogger) Option {
	return func(m *Manager) {
		if log != nil {
			m.log = log
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(m *Manager) {
		if now != nil {
			m.now = now
		}
	}
}

func WithIDGenerator(newID func() string) Option {
	return func(m *Manager) {
		if newID != nil {
			m.newID = newID
		}
	}
}

// NewManager creates an uninitialized manager. Call Init before exposing
// mutations to users.
func NewManager(store Store, opts ...Option) *Manager {
	m := &Manager{
		store: store,
		key:   StorageKey,
		log:   logrus.StandardLogger(),
		now:   time.Now,
		newID: NewID,
		state: models.BoardState{Tasks: []models.Task{}},
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// SetOnChange registers a hook called after every effective mutation.
func (m *Manager) SetOnChange(fn func(ctx context.Context, state models.BoardState)) {
	m.onChangeMu.Lock()
	defer m.onChangeMu.Unlock()
	m.onChange = fn
}

func (m *Manager) triggerChange(ctx context.Context, state models.BoardState) {
	m.onChangeMu.RLock()
	fn := m.onChange
	m.onChangeMu.RUnlock()

	if fn != nil {
		fn(ctx, state)
	}
}

type loadResult int

const (
	loadAbsent loadResult = iota
	loadOK
	loadFailed
)

// Init loads the persisted board, falling back to the starter board when
// nothing usable is stored, and writes the adopted state back. If the store
// could not be read the starter board is kept in memory only, so whatever is
// stored survives until the first explicit mutation. Only the first call has
// any effect.
func (m *Manager) Init(ctx context.Context) {
	ctx, span := otel.Tracer(tracerName).Start(ctx, "board.init")
	defer span.End()

	m.mu.Lock()
	if m.ready {
		m.mu.Unlock()
		return
	}

	source := "storage"
	state, result := m.load(ctx)
	if result != loadOK {
		source = "seed"
		state = DefaultState(m.now(), m.newID)
	}
	m.state = state
	m.ready = true
	snapshot := m.snapshotLocked()
	if result != loadFailed {
		m.persistLocked(ctx, snapshot)
	}
	m.mu.Unlock()

	span.SetAttributes(
		attribute.String("board.source", source),
		attribute.Int("board.tasks", len(snapshot.Tasks)),
		attribute.Bool("board.read_failed", result == loadFailed),
	)
	m.log.WithFields(logrus.Fields{
		"key":    m.key,
		"source": source,
		"tasks":  len(snapshot.Tasks),
	}).Debug("board initialized")
}

func (m *Manager) load(ctx context.Context) (models.BoardState, loadResult) {
	if m.store == nil {
		return models.BoardState{}, loadAbsent
	}
	raw, found, err := m.store.Get(ctx, m.key)
	if err != nil {
		m.log.WithError(err).WithField("key", m.key).Warn("failed to read board, using defaults without saving them")
		return models.BoardState{}, loadFailed
	}
	if !found {
		return models.BoardState{}, loadAbsent
	}
	state, ok := decode(raw, m.now)
	if !ok {
		m.log.WithField("key", m.key).Warn("stored board is unreadable, starting from defaults")
		return models.BoardState{}, loadAbsent
	}
	return state, loadOK
}

// Ready reports whether Init has completed.
func (m *Manager) Ready() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.ready
}

// Tasks returns a copy of the current task sequence.
func (m *Manager) Tasks() []models.Task {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.snapshotLocked().Tasks
}

// Lanes returns the current tasks grouped by column.
func (m *Manager) Lanes() []Lane {
	return GroupByColumn(m.Tasks())
}

// Task looks up a task by id.
func (m *Manager) Task(id string) (models.Task, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if i := m.indexLocked(id); i >= 0 {
		return m.state.Tasks[i], true
	}
	return models.Task{}, false
}

// AddTask appends a new task to the todo column. Title and description are
// trimmed; an empty title is ignored and an empty description is dropped.
func (m *Manager) AddTask(ctx context.Context, title, description string) {
	m.CreateTask(ctx, title, description)
}

// CreateTask is AddTask that also returns the task it created. It reports
// false when the title is blank and nothing was added.
func (m *Manager) CreateTask(ctx context.Context, title, description string) (models.Task, bool) {
	title = strings.TrimSpace(title)
	if title == "" {
		return models.Task{}, false
	}

	var created models.Task
	m.apply(ctx, func(tasks []models.Task) ([]models.Task, bool) {
		created = models.Task{
			ID:          m.newID(),
			Title:       title,
			Description: strings.TrimSpace(description),
			ColumnID:    models.ColumnTodo,
			CreatedAt:   models.Timestamp(m.now()),
		}
		return append(tasks, created), true
	})
	return created, true
}

// DeleteTask removes the task with the given id. Unknown ids are ignored.
func (m *Manager) DeleteTask(ctx context.Context, id string) {
	m.apply(ctx, func(tasks []models.Task) ([]models.Task, bool) {
		i := indexOf(tasks, id)
		if i < 0 {
			return tasks, false
		}
		return append(tasks[:i], tasks[i+1:]...), true
	})
}

// MoveTask puts the task into target and relocates it to the end of the
// sequence, so it lands after the tasks already in that column. Unknown ids,
// unknown columns and moves into the current column are ignored.
func (m *Manager) MoveTask(ctx context.Context, id string, target models.ColumnID) {
	if !target.Valid() {
		return
	}

	m.apply(ctx, func(tasks []models.Task) ([]models.Task, bool) {
		i := indexOf(tasks, id)
		if i < 0 || tasks[i].ColumnID == target {
			return tasks, false
		}
		moved := tasks[i]
		moved.ColumnID = target
		tasks = append(tasks[:i], tasks[i+1:]...)
		return append(tasks, moved), true
	})
}

// apply runs fn against a private copy of the task list and adopts the result
// if fn reports a change.
func (m *Manager) apply(ctx context.Context, fn func([]models.Task) ([]models.Task, bool)) {
	m.mu.Lock()
	tasks, changed := fn(m.snapshotLocked().Tasks)
	if !changed {
		m.mu.Unlock()
		return
	}
	m.state = models.BoardState{Tasks: tasks}
	snapshot := m.snapshotLocked()
	if m.ready {
		m.persistLocked(ctx, snapshot)
	}
	m.mu.Unlock()

	m.triggerChange(ctx, snapshot)
}

// persistLocked writes the board to the store. Failures are logged and
// otherwise ignored.
func (m *Manager) persistLocked(ctx context.Context, state models.BoardState) {
	if m.store == nil {
		return
	}
	ctx, span := otel.Tracer(tracerName).Start(ctx, "board.persist")
	defer span.End()
	span.SetAttributes(attribute.Int("board.tasks", len(state.Tasks)))

	raw, err := Encode(state)
	if err == nil {
		err = m.store.Set(ctx, m.key, raw)
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "persist failed")
		m.log.WithError(err).WithField("key", m.key).Error("failed to persist board")
	}
}

func (m *Manager) snapshotLocked() models.BoardState {
	tasks := make([]models.Task, len(m.state.Tasks))
	copy(tasks, m.state.Tasks)
	return models.BoardState{Tasks: tasks}
}

func (m *Manager) indexLocked(id string) int {
	return indexOf(m.state.Tasks, id)
}

func indexOf(tasks []models.Task, id string) int {
	for i, t := range tasks {
		if t.ID == id {
			return i
		}
	}
	return -1
}
