package router

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/user/geppu/internal/handler"
	"github.com/user/geppu/internal/model"
	"github.com/user/geppu/internal/repository"
	"golang.org/x/crypto/bcrypt"
)

// memStore 内存版存储，语义与 repository 一致，供路由测试使用
type memStore struct {
	mu sync.Mutex

	users    map[int]*model.User
	releases map[int]*model.Release
	episodes map[int]*model.Episode

	favorites map[[2]int]time.Time
	lists     map[[2]int]*model.ListEntry
	history   map[[2]int]*model.WatchHistory

	seq int
}

func newMemStore() *memStore {
	return &memStore{
		users:     map[int]*model.User{},
		releases:  map[int]*model.Release{},
		episodes:  map[int]*model.Episode{},
		favorites: map[[2]int]time.Time{},
		lists:     map[[2]int]*model.ListEntry{},
		history:   map[[2]int]*model.WatchHistory{},
	}
}

func (m *memStore) stores() handler.Stores {
	return handler.Stores{
		Users:     memUsers{m},
		Releases:  memReleases{m},
		Episodes:  memEpisodes{m},
		Favorites: memFavorites{m},
		Lists:     memLists{m},
		History:   memHistory{m},
	}
}

func (m *memStore) nextID() int {
	m.seq++
	return m.seq
}

// ==================== users ====================

type memUsers struct{ *memStore }

func (s memUsers) FindByEmail(_ context.Context, email string) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (s memUsers) FindByID(_ context.Context, id int) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return nil, nil
	}
	cp := *u
	cp.PasswordHash = ""
	return &cp, nil
}

func (s memUsers) Create(_ context.Context, email, passwordHash, username string) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Email == email {
			return nil, repository.ErrDuplicateEmail
		}
	}
	u := &model.User{ID: s.nextID(), Email: email, Username: username, PasswordHash: passwordHash, CreatedAt: time.Now()}
	s.users[u.ID] = u
	cp := *u
	cp.PasswordHash = ""
	return &cp, nil
}

func (s memUsers) CheckPassword(user *model.User, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) == nil
}

func (s memUsers) UpdateProfile(ctx context.Context, userID int, username string) (*model.User, error) {
	s.mu.Lock()
	u, ok := s.users[userID]
	if ok {
		u.Username = username
	}
	s.mu.Unlock()
	if !ok {
		return nil, repository.ErrUserNotFound
	}
	return s.FindByID(ctx, userID)
}

func (s memUsers) UpdateAvatar(ctx context.Context, userID int, avatarURL string) (*model.User, error) {
	s.mu.Lock()
	u, ok := s.users[userID]
	if ok {
		u.AvatarURL = &avatarURL
	}
	s.mu.Unlock()
	if !ok {
		return nil, repository.ErrUserNotFound
	}
	return s.FindByID(ctx, userID)
}

// ==================== releases ====================

type memReleases struct{ *memStore }

func (s memReleases) sorted(keep func(*model.Release) bool) []*model.Release {
	out := []*model.Release{}
	for _, r := range s.releases {
		if keep == nil || keep(r) {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out
}

func (s memReleases) ListAll(context.Context) ([]*model.Release, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sorted(nil), nil
}

func (s memReleases) FindByID(_ context.Context, id int) (*model.Release, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.releases[id], nil
}

func (s memReleases) Create(_ context.Context, release *model.Release) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	release.ID = s.nextID()
	release.CreatedAt = time.Now()
	release.UpdatedAt = release.CreatedAt
	s.releases[release.ID] = release
	return nil
}

func (s memReleases) Update(_ context.Context, release *model.Release) (*model.Release, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	old, ok := s.releases[release.ID]
	if !ok {
		return nil, repository.ErrReleaseNotFound
	}
	release.CreatedAt = old.CreatedAt
	release.UpdatedAt = time.Now()
	s.releases[release.ID] = release
	return release, nil
}

func (s memReleases) Delete(_ context.Context, id int) (*model.Release, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rel, ok := s.releases[id]
	if !ok {
		return nil, repository.ErrReleaseNotFound
	}
	for epID, ep := range s.episodes {
		if ep.ReleaseID != id {
			continue
		}
		for key := range s.history {
			if key[1] == epID {
				delete(s.history, key)
			}
		}
		delete(s.episodes, epID)
	}
	for key := range s.favorites {
		if key[1] == id {
			delete(s.favorites, key)
		}
	}
	for key := range s.lists {
		if key[1] == id {
			delete(s.lists, key)
		}
	}
	delete(s.releases, id)
	return rel, nil
}

func (s memReleases) Search(_ context.Context, query string) ([]*model.Release, error) {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return []*model.Release{}, nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sorted(func(r *model.Release) bool {
		return strings.Contains(strings.ToLower(r.Title), q) ||
			strings.Contains(strings.ToLower(r.TitleRu), q) ||
			strings.Contains(strings.ToLower(r.Description), q)
	}), nil
}

func (s memReleases) ListByWeekday(context.Context) ([]*model.Release, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := s.sorted(func(r *model.Release) bool {
		return r.ReleaseDay != nil && r.Status == model.ReleaseOngoing
	})
	sort.SliceStable(out, func(i, j int) bool {
		if *out[i].ReleaseDay != *out[j].ReleaseDay {
			return *out[i].ReleaseDay < *out[j].ReleaseDay
		}
		return out[i].TitleRu < out[j].TitleRu
	})
	return out, nil
}

func (s memReleases) ListFeatured(_ context.Context, limit int) ([]*model.Release, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := s.sorted(func(r *model.Release) bool { return r.Featured })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s memReleases) ListByGenre(_ context.Context, genre string) ([]*model.Release, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sorted(func(r *model.Release) bool {
		for _, g := range r.Genres {
			if g == genre {
				return true
			}
		}
		return false
	}), nil
}

func (s memReleases) Random(context.Context) (*model.Release, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range s.releases {
		return r, nil
	}
	return nil, nil
}

// ==================== episodes ====================

type memEpisodes struct{ *memStore }

func (s memEpisodes) ListByRelease(_ context.Context, releaseID int) ([]*model.Episode, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []*model.Episode{}
	for _, ep := range s.episodes {
		if ep.ReleaseID == releaseID {
			out = append(out, ep)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].EpisodeNumber < out[j].EpisodeNumber })
	return out, nil
}

func (s memEpisodes) FindByID(_ context.Context, id int) (*model.Episode, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.episodes[id], nil
}

func (s memEpisodes) FindByNumber(_ context.Context, releaseID, number int) (*model.Episode, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, ep := range s.episodes {
		if ep.ReleaseID == releaseID && ep.EpisodeNumber == number {
			return ep, nil
		}
	}
	return nil, nil
}

func (s memEpisodes) conflict(ep *model.Episode) bool {
	for _, other := range s.episodes {
		if other.ID != ep.ID && other.ReleaseID == ep.ReleaseID && other.EpisodeNumber == ep.EpisodeNumber {
			return true
		}
	}
	return false
}

func (s memEpisodes) Create(_ context.Context, episode *model.Episode) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.releases[episode.ReleaseID]; !ok {
		return repository.ErrReleaseNotFound
	}
	if s.conflict(episode) {
		return repository.ErrDuplicateEpisode
	}
	episode.ID = s.nextID()
	episode.CreatedAt = time.Now()
	s.episodes[episode.ID] = episode
	return nil
}

func (s memEpisodes) Update(_ context.Context, episode *model.Episode) (*model.Episode, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	old, ok := s.episodes[episode.ID]
	if !ok {
		return nil, repository.ErrEpisodeNotFound
	}
	episode.ReleaseID = old.ReleaseID
	episode.CreatedAt = old.CreatedAt
	if s.conflict(episode) {
		return nil, repository.ErrDuplicateEpisode
	}
	s.episodes[episode.ID] = episode
	return episode, nil
}

func (s memEpisodes) Delete(_ context.Context, id int) (*model.Episode, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ep, ok := s.episodes[id]
	if !ok {
		return nil, repository.ErrEpisodeNotFound
	}
	for key := range s.history {
		if key[1] == id {
			delete(s.history, key)
		}
	}
	delete(s.episodes, id)
	return ep, nil
}

func (s memEpisodes) ListLatest(context.Context, int) ([]*model.EpisodeCard, error) {
	return []*model.EpisodeCard{}, nil
}

func (s memEpisodes) ListToday(context.Context) ([]*model.EpisodeCard, error) {
	return []*model.EpisodeCard{}, nil
}

// ==================== favorites / lists / history ====================

type memFavorites struct{ *memStore }

func (s memFavorites) Add(_ context.Context, userID, releaseID int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.releases[releaseID]; !ok {
		return repository.ErrReleaseNotFound
	}
	key := [2]int{userID, releaseID}
	if _, ok := s.favorites[key]; !ok {
		s.favorites[key] = time.Now()
	}
	return nil
}

func (s memFavorites) Remove(_ context.Context, userID, releaseID int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.favorites, [2]int{userID, releaseID})
	return nil
}

func (s memFavorites) IsFavorite(_ context.Context, userID, releaseID int) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.favorites[[2]int{userID, releaseID}]
	return ok, nil
}

func (s memFavorites) ListByUser(_ context.Context, userID int) ([]*model.Release, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []*model.Release{}
	for key := range s.favorites {
		if key[0] == userID {
			out = append(out, s.releases[key[1]])
		}
	}
	return out, nil
}

type memLists struct{ *memStore }

func (s memLists) Upsert(_ context.Context, userID, releaseID int, status string) error {
	if !model.IsValidListStatus(status) {
		return repository.ErrInvalidListStatus
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.releases[releaseID]; !ok {
		return repository.ErrReleaseNotFound
	}
	key := [2]int{userID, releaseID}
	now := time.Now()
	if entry, ok := s.lists[key]; ok {
		entry.Status = status
		entry.UpdatedAt = now
		return nil
	}
	s.lists[key] = &model.ListEntry{ID: s.nextID(), UserID: userID, ReleaseID: releaseID, Status: status, CreatedAt: now, UpdatedAt: now}
	return nil
}

func (s memLists) Remove(_ context.Context, userID, releaseID int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.lists, [2]int{userID, releaseID})
	return nil
}

func (s memLists) GetStatus(_ context.Context, userID, releaseID int) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if entry, ok := s.lists[[2]int{userID, releaseID}]; ok {
		return entry.Status, nil
	}
	return "", nil
}

func (s memLists) ListByUser(_ context.Context, userID int, status string) ([]*model.ListedRelease, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []*model.ListedRelease{}
	for key, entry := range s.lists {
		if key[0] != userID || (status != "" && entry.Status != status) {
			continue
		}
		out = append(out, &model.ListedRelease{Release: *s.releases[key[1]], ListStatus: entry.Status, ListUpdatedAt: entry.UpdatedAt})
	}
	return out, nil
}

func (s memLists) CountByStatus(_ context.Context, userID int) (map[string]int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	counts := map[string]int64{}
	for _, st := range model.ListStatuses {
		counts[st] = 0
	}
	for key, entry := range s.lists {
		if key[0] == userID {
			counts[entry.Status]++
		}
	}
	return counts, nil
}

type memHistory struct{ *memStore }

func (s memHistory) UpsertProgress(_ context.Context, userID, episodeID int, progress float64) error {
	if progress < 0 || progress > 100 {
		return repository.ErrInvalidProgress
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.episodes[episodeID]; !ok {
		return repository.ErrEpisodeNotFound
	}
	key := [2]int{userID, episodeID}
	h, ok := s.history[key]
	if !ok {
		h = &model.WatchHistory{ID: s.nextID(), UserID: userID, EpisodeID: episodeID}
		s.history[key] = h
	}
	h.Progress = progress
	h.WatchedAt = time.Now()
	return nil
}

func (s memHistory) FindProgress(_ context.Context, userID, episodeID int) (*model.WatchHistory, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.history[[2]int{userID, episodeID}], nil
}

func (s memHistory) ContinueWatching(_ context.Context, userID, limit int) ([]*model.ContinueWatchingItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	latest := map[int]*model.ContinueWatchingItem{}
	for key, h := range s.history {
		if key[0] != userID || h.Progress >= model.ContinueWatchingThreshold {
			continue
		}
		ep := s.episodes[key[1]]
		cur, ok := latest[ep.ReleaseID]
		if ok && cur.WatchedAt.After(h.WatchedAt) {
			continue
		}
		latest[ep.ReleaseID] = &model.ContinueWatchingItem{
			ID: h.ID, EpisodeID: ep.ID, ReleaseID: ep.ReleaseID, EpisodeNumber: ep.EpisodeNumber,
			Title: s.releases[ep.ReleaseID].Title, Progress: h.Progress, WatchedAt: h.WatchedAt,
		}
	}
	out := []*model.ContinueWatchingItem{}
	for _, it := range latest {
		out = append(out, it)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].WatchedAt.After(out[j].WatchedAt) })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}
