package service

import (
	"context"
	"sort"
	"sync"

	"github.com/gofrs/uuid/v5"

	"github.com/and161185/goalplay-inventory/internal/errs"
	"github.com/and161185/goalplay-inventory/internal/model"
	"github.com/and161185/goalplay-inventory/internal/repository"
)

type fakeOwnedRepo struct {
	mu      sync.Mutex
	players map[uuid.UUID]model.OwnedPlayer
	err     error // returned by every call when set

	applyCalls int
}

var _ repository.OwnedPlayerRepository = (*fakeOwnedRepo)(nil)

func newFakeOwnedRepo(ps ...model.OwnedPlayer) *fakeOwnedRepo {
	f := &fakeOwnedRepo{players: map[uuid.UUID]model.OwnedPlayer{}}
	for _, p := range ps {
		f.players[p.ID] = p
	}
	return f
}

func (f *fakeOwnedRepo) lookup(id, userID uuid.UUID) (model.OwnedPlayer, error) {
	if f.err != nil {
		return model.OwnedPlayer{}, f.err
	}
	p, ok := f.players[id]
	if !ok || p.UserID != userID {
		return model.OwnedPlayer{}, errs.ErrNotFound
	}
	return p, nil
}

func (f *fakeOwnedRepo) ListActiveByUser(_ context.Context, userID uuid.UUID) ([]model.OwnedPlayer, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	out := []model.OwnedPlayer{}
	for _, p := range f.players {
		if p.UserID == userID && p.IsActive {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (f *fakeOwnedRepo) GetOwned(_ context.Context, id, userID uuid.UUID) (*model.OwnedPlayer, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, err := f.lookup(id, userID)
	if err != nil {
		return nil, err
	}
	p.Player = nil
	return &p, nil
}

func (f *fakeOwnedRepo) GetOwnedWithPlayer(_ context.Context, id, userID uuid.UUID) (*model.OwnedPlayer, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, err := f.lookup(id, userID)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (f *fakeOwnedRepo) ApplyProgress(
	_ context.Context, id, userID uuid.UUID, fn repository.ProgressFunc,
) (*model.OwnedPlayer, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.applyCalls++
	p, err := f.lookup(id, userID)
	if err != nil {
		return nil, err
	}
	level, xp, err := fn(p)
	if err != nil {
		return nil, err
	}
	p.CurrentLevel = max(p.CurrentLevel, level)
	p.Experience = max(p.Experience, xp)
	f.players[id] = p
	return &p, nil
}

type fakeKitRepo struct {
	mu   sync.Mutex
	kits map[uuid.UUID][]model.PlayerKit
	err  error
}

var _ repository.KitRepository = (*fakeKitRepo)(nil)

func newFakeKitRepo() *fakeKitRepo {
	return &fakeKitRepo{kits: map[uuid.UUID][]model.PlayerKit{}}
}

func (f *fakeKitRepo) EnsureActive(_ context.Context, ownedID uuid.UUID, def model.PlayerKit) (*model.PlayerKit, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	for _, k := range f.kits[ownedID] {
		if k.IsActive {
			return &k, nil
		}
	}
	return f.insert(ownedID, def), nil
}

func (f *fakeKitRepo) Swap(_ context.Context, ownedID uuid.UUID, next model.PlayerKit) (*model.PlayerKit, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	hist := f.kits[ownedID]
	for i := range hist {
		if hist[i].IsActive {
			hist[i].IsActive = false
			hist[i].UnequippedAt = next.EquippedAt
		}
	}
	return f.insert(ownedID, next), nil
}

func (f *fakeKitRepo) List(_ context.Context, ownedID uuid.UUID) ([]model.PlayerKit, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	hist := f.kits[ownedID]
	out := make([]model.PlayerKit, 0, len(hist))
	for i := len(hist) - 1; i >= 0; i-- {
		out = append(out, hist[i])
	}
	return out, nil
}

func (f *fakeKitRepo) insert(ownedID uuid.UUID, k model.PlayerKit) *model.PlayerKit {
	hist := f.kits[ownedID]
	k.OwnedPlayerID = ownedID
	k.Version = len(hist) + 1
	k.IsActive = true
	f.kits[ownedID] = append(hist, k)
	return &k
}

type fakeUserRepo struct {
	users     map[uuid.UUID]model.User
	wallets   map[string]bool
	getErr    error
	createErr error

	created []model.User
}

var _ repository.UserRepository = (*fakeUserRepo)(nil)

func newFakeUserRepo(us ...model.User) *fakeUserRepo {
	f := &fakeUserRepo{users: map[uuid.UUID]model.User{}, wallets: map[string]bool{}}
	for _, u := range us {
		f.users[u.ID] = u
		f.wallets[u.Wallet] = true
	}
	return f
}

func (f *fakeUserRepo) Create(_ context.Context, u *model.User) error {
	if f.createErr != nil {
		return f.createErr
	}
	if _, ok := f.users[u.ID]; ok || f.wallets[u.Wallet] {
		return errs.ErrAlreadyExists
	}
	f.users[u.ID] = *u
	f.wallets[u.Wallet] = true
	f.created = append(f.created, *u)
	return nil
}

func (f *fakeUserRepo) GetByID(_ context.Context, id uuid.UUID) (*model.User, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	u, ok := f.users[id]
	if !ok {
		return nil, errs.ErrNotFound
	}
	return &u, nil
}
