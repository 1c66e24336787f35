package application

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/teamhm/matrimony-backend/internal/domain/entity"
	"github.com/teamhm/matrimony-backend/internal/domain/repository"
)

// In-memory repository fakes. They copy on read and write so tests observe
// only what the services actually persist.

type fakeUserRepo struct {
	mu       sync.Mutex
	seq      int
	users    map[string]entity.User
	profiles *fakeProfileRepo

	failCreate error
}

func newFakeUserRepo(profiles *fakeProfileRepo) *fakeUserRepo {
	return &fakeUserRepo{users: map[string]entity.User{}, profiles: profiles}
}

func (r *fakeUserRepo) nextID() string {
	r.seq++
	return fmt.Sprintf("u%d", r.seq)
}

func (r *fakeUserRepo) CreateWithProfile(_ context.Context, u *entity.User, p *entity.Profile) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failCreate != nil {
		return r.failCreate
	}
	for _, e := range r.users {
		if e.Email == u.Email {
			return repository.ErrDuplicateEmail
		}
	}
	if r.profiles != nil {
		r.profiles.insert(p)
	}
	u.ID = r.nextID()
	u.ProfileID = p.ID
	p.UserID = u.ID
	if r.profiles != nil {
		r.profiles.store(p)
	}
	r.users[u.ID] = *u
	return nil
}

func (r *fakeUserRepo) find(match func(entity.User) bool) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if match(u) {
			cp := u
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *fakeUserRepo) GetByID(_ context.Context, id string) (*entity.User, error) {
	return r.find(func(u entity.User) bool { return u.ID == id })
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	return r.find(func(u entity.User) bool { return u.Email == email })
}

func (r *fakeUserRepo) GetByUsername(_ context.Context, username string) (*entity.User, error) {
	return r.find(func(u entity.User) bool { return u.Username == username && username != "" })
}

func (r *fakeUserRepo) GetByRefreshToken(_ context.Context, token string) (*entity.User, error) {
	return r.find(func(u entity.User) bool {
		for _, s := range u.RefreshSessions {
			if s.Token == token {
				return true
			}
		}
		return false
	})
}

func (r *fakeUserRepo) GetByResetToken(_ context.Context, token string) (*entity.User, error) {
	return r.find(func(u entity.User) bool { return u.ResetToken == token && token != "" })
}

func (r *fakeUserRepo) Update(_ context.Context, u *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[u.ID]; !ok {
		return repository.ErrNotFound
	}
	r.users[u.ID] = *u
	return nil
}

func (r *fakeUserRepo) UpdateWithProfile(ctx context.Context, u *entity.User, p *entity.Profile) error {
	if err := r.Update(ctx, u); err != nil {
		return err
	}
	if r.profiles != nil {
		return r.profiles.Update(ctx, p)
	}
	return nil
}

func (r *fakeUserRepo) get(id string) entity.User {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.users[id]
}

type fakeProfileRepo struct {
	mu       sync.Mutex
	seq      int
	profiles map[string]entity.Profile
}

func newFakeProfileRepo() *fakeProfileRepo {
	return &fakeProfileRepo{profiles: map[string]entity.Profile{}}
}

func (r *fakeProfileRepo) insert(p *entity.Profile) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	p.ID = fmt.Sprintf("p%d", r.seq)
	r.profiles[p.ID] = *p
}

func (r *fakeProfileRepo) store(p *entity.Profile) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.profiles[p.ID] = *p
}

func (r *fakeProfileRepo) GetByID(_ context.Context, id string) (*entity.Profile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.profiles[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := p
	return &cp, nil
}

func (r *fakeProfileRepo) GetByUserID(_ context.Context, userID string) (*entity.Profile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.profiles {
		if p.UserID == userID {
			cp := p
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *fakeProfileRepo) List(_ context.Context, f repository.ProfileFilter) ([]*entity.Profile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.Profile
	for _, p := range r.profiles {
		if f.Approved != nil && p.IsApproved != *f.Approved {
			continue
		}
		cp := p
		out = append(out, &cp)
	}
	return out, nil
}

func (r *fakeProfileRepo) GetByIDs(_ context.Context, ids []string) ([]*entity.Profile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.Profile
	for _, id := range ids {
		if p, ok := r.profiles[id]; ok {
			cp := p
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *fakeProfileRepo) Update(_ context.Context, p *entity.Profile) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.profiles[p.ID]; !ok {
		return repository.ErrNotFound
	}
	r.profiles[p.ID] = *p
	return nil
}

func (r *fakeProfileRepo) DeleteWithUser(_ context.Context, profileID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.profiles[profileID]; !ok {
		return repository.ErrNotFound
	}
	delete(r.profiles, profileID)
	return nil
}

var (
	_ repository.UserRepository    = (*fakeUserRepo)(nil)
	_ repository.ProfileRepository = (*fakeProfileRepo)(nil)
)

// fakePublisher records enqueued email jobs.
type fakePublisher struct {
	mu   sync.Mutex
	jobs []json.RawMessage
	fail error
}

func (p *fakePublisher) PublishJSON(_ context.Context, body any) error {
	if p.fail != nil {
		return p.fail
	}
	b, err := json.Marshal(body)
	if err != nil {
		return err
	}
	p.mu.Lock()
	p.jobs = append(p.jobs, b)
	p.mu.Unlock()
	return nil
}

func (p *fakePublisher) last() map[string]string {
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.jobs) == 0 {
		return nil
	}
	var out map[string]string
	_ = json.Unmarshal(p.jobs[len(p.jobs)-1], &out)
	return out
}
