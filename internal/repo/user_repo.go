package repo

import (
	"cmp"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"user-directory/internal/domain"
)

// 启动时的示例数据
var seedUsers = []struct{ Name, Email, Role string }{
	{"John Doe", "john.doe@example.com", "ADMIN"},
	{"Jane Smith", "jane.smith@example.com", "USER"},
	{"Bob Johnson", "bob.johnson@example.com", "USER"},
	{"Alice Brown", "alice.brown@example.com", "MODERATOR"},
}

type Option func(*UserRepo)

// WithClock 替换创建时间来源（测试用）
func WithClock(now func() time.Time) Option {
	return func(r *UserRepo) { r.now = now }
}

// WithoutSeed 不写入示例数据
func WithoutSeed() Option {
	return func(r *UserRepo) { r.seed = false }
}

// UserRepo 内存用户表：map 受读写锁保护，ID 由独立的原子计数器分配。
// 对外只返回值拷贝，调用方拿到的数据不会被后续写操作改动。
type UserRepo struct {
	mu    sync.RWMutex
	users map[int64]*domain.User
	seq   atomic.Int64
	now   func() time.Time
	seed  bool
}

var _ domain.UserStore = (*UserRepo)(nil)

func NewUserRepo(opts ...Option) *UserRepo {
	r := &UserRepo{
		users: make(map[int64]*domain.User),
		now:   time.Now,
		seed:  true,
	}
	for _, o := range opts {
		o(r)
	}
	if r.seed {
		for _, s := range seedUsers {
			r.Create(s.Name, s.Email, s.Role)
		}
	}
	return r
}

func (r *UserRepo) Create(name, email, role string) domain.User {
	u := &domain.User{
		ID:        r.seq.Add(1),
		Name:      name,
		Email:     email,
		Role:      role,
		CreatedAt: r.now(),
	}
	r.mu.Lock()
	r.users[u.ID] = u
	r.mu.Unlock()
	return *u
}

func (r *UserRepo) Get(id int64) (domain.User, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	u, ok := r.users[id]
	if !ok {
		return domain.User{}, false
	}
	return *u, true
}

// List 返回当前快照，按 ID 升序（即插入顺序）
func (r *UserRepo) List() []domain.User {
	r.mu.RLock()
	out := make([]domain.User, 0, len(r.users))
	for _, u := range r.users {
		out = append(out, *u)
	}
	r.mu.RUnlock()

	slices.SortFunc(out, func(a, b domain.User) int { return cmp.Compare(a.ID, b.ID) })
	return out
}

// Update 只覆盖 name/email/role；ID 与 CreatedAt 不变
func (r *UserRepo) Update(id int64, name, email, role string) (domain.User, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return domain.User{}, false
	}
	u.Name = name
	u.Email = email
	u.Role = role
	return *u, true
}

func (r *UserRepo) Delete(id int64) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[id]; !ok {
		return false
	}
	delete(r.users, id)
	return true
}

func (r *UserRepo) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.users)
}
