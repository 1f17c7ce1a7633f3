// Package memory is an in-process implementation of storage.Storage. The
// admin CLI uses it for dry-run imports; tests use it in place of Postgres.
package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/princekumarofficial/autohouse-service/internal/storage"
	"github.com/princekumarofficial/autohouse-service/internal/types"
	"github.com/princekumarofficial/autohouse-service/internal/types/catalog"
)

type state struct {
	makers      map[int64]catalog.Maker
	models      map[int64]catalog.Model
	trims       map[int64]catalog.Trim
	nextMakerID int64
	nextModelID int64
	nextTrimID  int64
}

func newState() *state {
	return &state{
		makers: make(map[int64]catalog.Maker),
		models: make(map[int64]catalog.Model),
		trims:  make(map[int64]catalog.Trim),
	}
}

func (s *state) clone() *state {
	c := &state{
		makers:      make(map[int64]catalog.Maker, len(s.makers)),
		models:      make(map[int64]catalog.Model, len(s.models)),
		trims:       make(map[int64]catalog.Trim, len(s.trims)),
		nextMakerID: s.nextMakerID,
		nextModelID: s.nextModelID,
		nextTrimID:  s.nextTrimID,
	}
	for k, v := range s.makers {
		c.makers[k] = v
	}
	for k, v := range s.models {
		c.models[k] = v
	}
	for k, v := range s.trims {
		c.trims[k] = v
	}
	return c
}

func (s *state) makerByName(name string) (catalog.Maker, bool) {
	for _, m := range s.makers {
		if m.Name == name {
			return m, true
		}
	}
	return catalog.Maker{}, false
}

func (s *state) modelExists(name string, makerID int64) bool {
	for _, m := range s.models {
		if m.MakerID == makerID && m.Name == name {
			return true
		}
	}
	return false
}

func (s *state) insertMaker(name string) (catalog.Maker, error) {
	if _, ok := s.makerByName(name); ok {
		return catalog.Maker{}, fmt.Errorf("maker %q: %w", name, types.ErrAlreadyExists)
	}
	s.nextMakerID++
	m := catalog.Maker{ID: s.nextMakerID, Name: name}
	s.makers[m.ID] = m
	return m, nil
}

func (s *state) insertModel(makerID int64, name string) (catalog.Model, error) {
	if _, ok := s.makers[makerID]; !ok {
		return catalog.Model{}, fmt.Errorf("maker %d: %w", makerID, types.ErrNotFound)
	}
	if s.modelExists(name, makerID) {
		return catalog.Model{}, fmt.Errorf("model %q: %w", name, types.ErrAlreadyExists)
	}
	s.nextModelID++
	m := catalog.Model{ID: s.nextModelID, Name: name, MakerID: makerID}
	s.models[m.ID] = m
	return m, nil
}

func (s *state) modelsOf(makerID int64, withTrims bool) []catalog.Model {
	var out []catalog.Model
	for _, m := range s.models {
		if m.MakerID != makerID {
			continue
		}
		if withTrims {
			m.Trims = s.trimsOf(m.ID)
		}
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (s *state) trimsOf(modelID int64) []catalog.Trim {
	var out []catalog.Trim
	for _, t := range s.trims {
		if t.ModelID == modelID {
			out = append(out, t)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Stats reports how import sessions drove the store.
type Stats struct {
	Flushes    int
	Clears     int
	MaxTracked int
}

type Store struct {
	mu    sync.RWMutex
	state *state
	stats Stats
	rec   *records
}

var (
	_ storage.Catalog        = (*Store)(nil)
	_ storage.ImportSessions = (*Store)(nil)
)

func New() *Store {
	return &Store{state: newState(), rec: newRecords()}
}

func (st *Store) Stats() Stats {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return st.stats
}

func (st *Store) TrimCount() int {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return len(st.state.trims)
}

func (st *Store) ModelCount() int {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return len(st.state.models)
}

func (st *Store) CreateMaker(_ context.Context, name string) (catalog.Maker, error) {
	st.mu.Lock()
	defer st.mu.Unlock()
	return st.state.insertMaker(name)
}

func (st *Store) MakerExistsByName(_ context.Context, name string) (bool, error) {
	st.mu.RLock()
	defer st.mu.RUnlock()
	_, ok := st.state.makerByName(name)
	return ok, nil
}

func (st *Store) GetMakerByID(_ context.Context, id int64) (catalog.Maker, error) {
	st.mu.RLock()
	defer st.mu.RUnlock()
	m, ok := st.state.makers[id]
	if !ok {
		return catalog.Maker{}, fmt.Errorf("maker %d: %w", id, types.ErrNotFound)
	}
	m.Models = st.state.modelsOf(id, false)
	return m, nil
}

func (st *Store) ListMakersWithModels(_ context.Context) ([]catalog.Maker, error) {
	st.mu.RLock()
	defer st.mu.RUnlock()
	out := make([]catalog.Maker, 0, len(st.state.makers))
	for _, m := range st.state.makers {
		m.Models = st.state.modelsOf(m.ID, false)
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (st *Store) CreateModel(_ context.Context, makerID int64, name string) (catalog.Model, error) {
	st.mu.Lock()
	defer st.mu.Unlock()
	return st.state.insertModel(makerID, name)
}

func (st *Store) ModelExistsByNameAndMaker(_ context.Context, name string, makerID int64) (bool, error) {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return st.state.modelExists(name, makerID), nil
}

func (st *Store) ListModelsWithTrims(_ context.Context, makerID int64) ([]catalog.Model, error) {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return st.state.modelsOf(makerID, true), nil
}

func (st *Store) GetModelByNames(_ context.Context, makerName, modelName string) (catalog.Model, error) {
	st.mu.RLock()
	defer st.mu.RUnlock()
	for _, maker := range st.state.makers {
		if !strings.EqualFold(maker.Name, makerName) {
			continue
		}
		for _, m := range st.state.modelsOf(maker.ID, true) {
			if strings.EqualFold(m.Name, modelName) {
				return m, nil
			}
		}
	}
	return catalog.Model{}, fmt.Errorf("model %s/%s: %w", makerName, modelName, types.ErrNotFound)
}

func (st *Store) CountMakers(_ context.Context) (int, error) {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return len(st.state.makers), nil
}

// InImportSession stages writes on a copy of the store and swaps it in only
// when fn succeeds.
func (st *Store) InImportSession(ctx context.Context, fn func(storage.ImportSession) error) error {
	st.mu.Lock()
	defer st.mu.Unlock()

	sess := &session{
		staged:  st.state.clone(),
		tracked: make(map[any]struct{}),
	}
	err := fn(sess)

	st.stats.Flushes += sess.flushes
	st.stats.Clears += sess.clears
	if sess.maxTracked > st.stats.MaxTracked {
		st.stats.MaxTracked = sess.maxTracked
	}

	if err != nil {
		return err
	}
	if len(sess.pending) > 0 {
		if err := sess.Flush(ctx); err != nil {
			return err
		}
	}
	st.state = sess.staged
	return nil
}

type session struct {
	staged     *state
	pending    []*catalog.Trim
	tracked    map[any]struct{}
	flushes    int
	clears     int
	maxTracked int
}

func (s *session) track(entity any) {
	s.tracked[entity] = struct{}{}
	if n := len(s.tracked); n > s.maxTracked {
		s.maxTracked = n
	}
}

func (s *session) PersistMaker(_ context.Context, maker *catalog.Maker) error {
	m, err := s.staged.insertMaker(maker.Name)
	if err != nil {
		return err
	}
	maker.ID = m.ID
	s.track(maker)
	return nil
}

func (s *session) PersistModel(_ context.Context, model *catalog.Model) error {
	m, err := s.staged.insertModel(model.MakerID, model.Name)
	if err != nil {
		return err
	}
	model.ID = m.ID
	s.track(model)
	return nil
}

func (s *session) AddTrim(_ context.Context, trim *catalog.Trim) error {
	if _, ok := s.staged.models[trim.ModelID]; !ok {
		return fmt.Errorf("model %d: %w", trim.ModelID, types.ErrNotFound)
	}
	s.pending = append(s.pending, trim)
	s.track(trim)
	return nil
}

func (s *session) Flush(_ context.Context) error {
	s.flushes++
	for _, t := range s.pending {
		s.staged.nextTrimID++
		t.ID = s.staged.nextTrimID
		s.staged.trims[t.ID] = *t
	}
	s.pending = s.pending[:0]
	return nil
}

// Clear forgets tracked entities; unflushed trims are discarded.
func (s *session) Clear() {
	s.clears++
	s.pending = nil
	s.tracked = make(map[any]struct{})
}

func (s *session) MakerRef(id int64) *catalog.Maker {
	ref := &catalog.Maker{ID: id}
	if m, ok := s.staged.makers[id]; ok {
		ref.Name = m.Name
	}
	s.track(ref)
	return ref
}

func (s *session) ModelRef(id int64) *catalog.Model {
	ref := &catalog.Model{ID: id}
	if m, ok := s.staged.models[id]; ok {
		ref.Name = m.Name
		ref.MakerID = m.MakerID
	}
	s.track(ref)
	return ref
}

func (s *session) CountMakers(_ context.Context) (int, error) {
	return len(s.staged.makers), nil
}
