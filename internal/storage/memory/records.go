package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/princekumarofficial/autohouse-service/internal/storage"
	"github.com/princekumarofficial/autohouse-service/internal/types"
	"github.com/princekumarofficial/autohouse-service/internal/types/media"
	"github.com/princekumarofficial/autohouse-service/internal/types/offers"
	"github.com/princekumarofficial/autohouse-service/internal/types/users"
)

var _ storage.Storage = (*Store)(nil)

// records holds everything outside the catalog.
type records struct {
	mu             sync.RWMutex
	users          map[string]users.User
	locations      map[int64]offers.Location
	nextLocationID int64
	offers         map[uuid.UUID]offers.Offer
	media          map[uuid.UUID]media.MediaFile
}

func newRecords() *records {
	return &records{
		users:     make(map[string]users.User),
		locations: make(map[int64]offers.Location),
		offers:    make(map[uuid.UUID]offers.Offer),
		media:     make(map[uuid.UUID]media.MediaFile),
	}
}

func (r *records) userByName(username string) (users.User, bool) {
	for _, u := range r.users {
		if strings.EqualFold(u.Username, username) {
			return u, true
		}
	}
	return users.User{}, false
}

func (r *records) insertUser(u *users.User) error {
	if _, ok := r.userByName(u.Username); ok {
		return fmt.Errorf("user %s: %w", u.Username, types.ErrAlreadyExists)
	}
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	if u.CreatedAt.IsZero() {
		u.CreatedAt = time.Now()
	}
	r.users[u.ID] = *u
	return nil
}

func (st *Store) CreateUser(_ context.Context, user *users.User) error {
	st.rec.mu.Lock()
	defer st.rec.mu.Unlock()
	return st.rec.insertUser(user)
}

// CreateUsers inserts the whole batch or nothing.
func (st *Store) CreateUsers(_ context.Context, batch []users.User) error {
	st.rec.mu.Lock()
	defer st.rec.mu.Unlock()
	seen := make(map[string]struct{}, len(batch))
	for _, u := range batch {
		key := strings.ToLower(u.Username)
		if _, dup := seen[key]; dup {
			return fmt.Errorf("user %s: %w", u.Username, types.ErrAlreadyExists)
		}
		if _, ok := st.rec.userByName(u.Username); ok {
			return fmt.Errorf("user %s: %w", u.Username, types.ErrAlreadyExists)
		}
		seen[key] = struct{}{}
	}
	for i := range batch {
		if err := st.rec.insertUser(&batch[i]); err != nil {
			return err
		}
	}
	return nil
}

func (st *Store) GetUserByID(_ context.Context, id string) (users.User, error) {
	st.rec.mu.RLock()
	defer st.rec.mu.RUnlock()
	u, ok := st.rec.users[id]
	if !ok {
		return users.User{}, fmt.Errorf("user %s: %w", id, types.ErrNotFound)
	}
	return u, nil
}

func (st *Store) GetUserByUsername(_ context.Context, username string) (users.User, error) {
	st.rec.mu.RLock()
	defer st.rec.mu.RUnlock()
	u, ok := st.rec.userByName(username)
	if !ok {
		return users.User{}, fmt.Errorf("user %s: %w", username, types.ErrNotFound)
	}
	return u, nil
}

func (st *Store) ExistsByUsername(_ context.Context, username string) (bool, error) {
	st.rec.mu.RLock()
	defer st.rec.mu.RUnlock()
	_, ok := st.rec.userByName(username)
	return ok, nil
}

func (st *Store) ExistingUsernames(_ context.Context, usernames []string) ([]string, error) {
	st.rec.mu.RLock()
	defer st.rec.mu.RUnlock()
	var out []string
	for _, name := range usernames {
		if u, ok := st.rec.userByName(name); ok {
			out = append(out, u.Username)
		}
	}
	return out, nil
}

func (st *Store) ListUsers(_ context.Context) ([]users.UserSummary, error) {
	st.rec.mu.RLock()
	defer st.rec.mu.RUnlock()
	out := make([]users.UserSummary, 0, len(st.rec.users))
	for _, u := range st.rec.users {
		out = append(out, users.UserSummary{ID: u.ID, Username: u.Username})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Username < out[j].Username })
	return out, nil
}

func (st *Store) CreateLocation(_ context.Context, loc *offers.Location) error {
	st.rec.mu.Lock()
	defer st.rec.mu.Unlock()
	st.rec.nextLocationID++
	loc.ID = st.rec.nextLocationID
	st.rec.locations[loc.ID] = *loc
	return nil
}

func (st *Store) GetLocation(_ context.Context, id int64) (offers.Location, error) {
	st.rec.mu.RLock()
	defer st.rec.mu.RUnlock()
	loc, ok := st.rec.locations[id]
	if !ok {
		return offers.Location{}, fmt.Errorf("location %d: %w", id, types.ErrNotFound)
	}
	return loc, nil
}

func (st *Store) ListLocations(_ context.Context) ([]offers.Location, error) {
	st.rec.mu.RLock()
	defer st.rec.mu.RUnlock()
	out := make([]offers.Location, 0, len(st.rec.locations))
	for _, loc := range st.rec.locations {
		out = append(out, loc)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (st *Store) CreateOffer(_ context.Context, offer *offers.Offer) error {
	st.rec.mu.Lock()
	defer st.rec.mu.Unlock()
	if offer.ID == uuid.Nil {
		offer.ID = uuid.New()
	}
	if offer.CreatedAt.IsZero() {
		offer.CreatedAt = time.Now()
	}
	st.rec.offers[offer.ID] = *offer
	return nil
}

func (st *Store) GetOffer(_ context.Context, id uuid.UUID) (offers.Offer, error) {
	st.rec.mu.RLock()
	defer st.rec.mu.RUnlock()
	o, ok := st.rec.offers[id]
	if !ok {
		return offers.Offer{}, fmt.Errorf("offer %s: %w", id, types.ErrNotFound)
	}
	return o, nil
}

func (st *Store) DeleteOffer(_ context.Context, id uuid.UUID) error {
	st.rec.mu.Lock()
	defer st.rec.mu.Unlock()
	if _, ok := st.rec.offers[id]; !ok {
		return fmt.Errorf("offer %s: %w", id, types.ErrNotFound)
	}
	delete(st.rec.offers, id)
	return nil
}

func (st *Store) sortedOffers(keep func(offers.Offer) bool) []offers.Offer {
	out := make([]offers.Offer, 0, len(st.rec.offers))
	for _, o := range st.rec.offers {
		if keep(o) {
			out = append(out, o)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}

func (st *Store) LatestOffers(_ context.Context, limit int) ([]offers.Offer, error) {
	st.rec.mu.RLock()
	defer st.rec.mu.RUnlock()
	out := st.sortedOffers(func(offers.Offer) bool { return true })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// SearchOffers applies the maker and model filters only; radius filtering is
// done by the caller.
func (st *Store) SearchOffers(_ context.Context, filter offers.SearchFilter) ([]offers.Offer, error) {
	st.rec.mu.RLock()
	defer st.rec.mu.RUnlock()
	out := st.sortedOffers(func(o offers.Offer) bool {
		if filter.MakerID != 0 && o.Vehicle.MakerID != filter.MakerID {
			return false
		}
		if filter.ModelID != 0 && o.Vehicle.ModelID != filter.ModelID {
			return false
		}
		return true
	})
	if filter.Limit > 0 && len(out) > filter.Limit {
		out = out[:filter.Limit]
	}
	return out, nil
}

func (r *records) mediaByKey(bucket, fileKey string) (media.MediaFile, bool) {
	for _, f := range r.media {
		if f.Bucket == bucket && f.FileKey == fileKey {
			return f, true
		}
	}
	return media.MediaFile{}, false
}

// SaveMediaFile keeps the id of an existing row for the same bucket and key.
func (st *Store) SaveMediaFile(_ context.Context, file *media.MediaFile) error {
	st.rec.mu.Lock()
	defer st.rec.mu.Unlock()
	if existing, ok := st.rec.mediaByKey(file.Bucket, file.FileKey); ok {
		file.ID = existing.ID
		file.CreatedAt = existing.CreatedAt
	}
	if file.ID == uuid.Nil {
		file.ID = uuid.New()
	}
	if file.CreatedAt.IsZero() {
		file.CreatedAt = time.Now()
	}
	st.rec.media[file.ID] = *file
	return nil
}

func (st *Store) GetMediaFile(_ context.Context, id uuid.UUID) (media.MediaFile, error) {
	st.rec.mu.RLock()
	defer st.rec.mu.RUnlock()
	f, ok := st.rec.media[id]
	if !ok {
		return media.MediaFile{}, fmt.Errorf("media file %s: %w", id, types.ErrNotFound)
	}
	return f, nil
}

func (st *Store) GetMediaFileByKey(_ context.Context, bucket, fileKey string) (media.MediaFile, error) {
	st.rec.mu.RLock()
	defer st.rec.mu.RUnlock()
	f, ok := st.rec.mediaByKey(bucket, fileKey)
	if !ok {
		return media.MediaFile{}, fmt.Errorf("media file %s/%s: %w", bucket, fileKey, types.ErrNotFound)
	}
	return f, nil
}

func (st *Store) MediaFileExists(_ context.Context, bucket, fileKey string) (bool, error) {
	st.rec.mu.RLock()
	defer st.rec.mu.RUnlock()
	_, ok := st.rec.mediaByKey(bucket, fileKey)
	return ok, nil
}

func (st *Store) ListMediaFilesByReference(_ context.Context, referenceID uuid.UUID) ([]media.MediaFile, error) {
	st.rec.mu.RLock()
	defer st.rec.mu.RUnlock()
	var out []media.MediaFile
	for _, f := range st.rec.media {
		if f.ReferenceID == referenceID {
			out = append(out, f)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].FileKey < out[j].FileKey })
	return out, nil
}

func (st *Store) DeleteMediaFile(_ context.Context, id uuid.UUID) error {
	st.rec.mu.Lock()
	defer st.rec.mu.Unlock()
	if _, ok := st.rec.media[id]; !ok {
		return fmt.Errorf("media file %s: %w", id, types.ErrNotFound)
	}
	delete(st.rec.media, id)
	return nil
}

func (st *Store) DeleteMediaFilesByReference(_ context.Context, referenceID uuid.UUID) error {
	st.rec.mu.Lock()
	defer st.rec.mu.Unlock()
	for id, f := range st.rec.media {
		if f.ReferenceID == referenceID {
			delete(st.rec.media, id)
		}
	}
	return nil
}

func (st *Store) OrphanedReferences(_ context.Context) ([]uuid.UUID, error) {
	st.rec.mu.RLock()
	defer st.rec.mu.RUnlock()
	seen := make(map[uuid.UUID]struct{})
	var out []uuid.UUID
	for _, f := range st.rec.media {
		if _, ok := seen[f.ReferenceID]; ok {
			continue
		}
		seen[f.ReferenceID] = struct{}{}
		if _, ok := st.rec.offers[f.ReferenceID]; ok {
			continue
		}
		if _, ok := st.rec.users[f.ReferenceID.String()]; ok {
			continue
		}
		out = append(out, f.ReferenceID)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].String() < out[j].String() })
	return out, nil
}
