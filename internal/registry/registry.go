package registry

import (
	"sort"
	"sync"

	"github.com/VladKovDev/bot-panel/internal/domain/bot"
	"github.com/VladKovDev/bot-panel/internal/domain/user"
	"github.com/VladKovDev/bot-panel/internal/telegram"
)

// Registry is the process-wide in-memory store: one map of bot instances
// keyed by token and one map of tracked users keyed by Telegram user ID.
// It is constructed once at startup and handed to every component that
// needs it; nothing is persisted.
//
// The mutex guards individual operations only. Multi-step flows built on
// top of it (stop = delete instance, then purge users) are deliberately not
// atomic; a concurrent ingress update may interleave between the steps.
type Registry struct {
	mu        sync.RWMutex
	instances map[string]*bot.Instance
	users     map[int64]*user.Record

	// insertion bookkeeping so username lookups keep first-inserted-wins
	// semantics without scanning the whole user map
	seq        uint64
	userSeq    map[int64]uint64
	byUsername map[string][]int64
}

func New() *Registry {
	return &Registry{
		instances:  make(map[string]*bot.Instance),
		users:      make(map[int64]*user.Record),
		userSeq:    make(map[int64]uint64),
		byUsername: make(map[string][]int64),
	}
}

// PutInstance inserts or replaces the instance for its token.
func (r *Registry) PutInstance(inst *bot.Instance) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.instances[inst.Token] = inst
}

// Instance returns a copy of the instance for token, or nil.
func (r *Registry) Instance(token string) *bot.Instance {
	r.mu.RLock()
	defer r.mu.RUnlock()
	inst, ok := r.instances[token]
	if !ok {
		return nil
	}
	cp := *inst
	return &cp
}

// HasInstance reports whether a bot is registered for token.
func (r *Registry) HasInstance(token string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.instances[token]
	return ok
}

// SetInstanceInfo caches the bot identity on an existing instance. It is a
// no-op when the instance is gone.
func (r *Registry) SetInstanceInfo(token string, info *telegram.BotInfo) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if inst, ok := r.instances[token]; ok {
		inst.Info = info
	}
}

// DeleteInstance removes the instance for token.
func (r *Registry) DeleteInstance(token string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.instances, token)
}

// Instances returns copies of every registered instance.
func (r *Registry) Instances() []bot.Instance {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]bot.Instance, 0, len(r.instances))
	for _, inst := range r.instances {
		out = append(out, *inst)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].StartedAt.Before(out[j].StartedAt)
	})
	return out
}

// UpsertUser creates or overwrites the record keyed by rec.ID. An existing
// user keeps its original insertion position.
func (r *Registry) UpsertUser(rec *user.Record) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if prev, ok := r.users[rec.ID]; ok {
		if prev.Username != rec.Username {
			r.dropFromIndex(prev.Username, rec.ID)
			r.addToIndex(rec.Username, rec.ID)
		}
	} else {
		r.seq++
		r.userSeq[rec.ID] = r.seq
		r.addToIndex(rec.Username, rec.ID)
	}

	cp := *rec
	r.users[rec.ID] = &cp
}

// UserByID returns a copy of the record for id, or nil.
func (r *Registry) UserByID(id int64) *user.Record {
	r.mu.RLock()
	defer r.mu.RUnlock()
	rec, ok := r.users[id]
	if !ok {
		return nil
	}
	cp := *rec
	return &cp
}

// FirstUserByUsername resolves a username (case-sensitive, no uniqueness
// guarantee) to the earliest-inserted matching record, or nil.
func (r *Registry) FirstUserByUsername(username string) *user.Record {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids, ok := r.byUsername[username]
	if !ok || len(ids) == 0 {
		return nil
	}

	var best *user.Record
	var bestSeq uint64
	for _, id := range ids {
		rec, ok := r.users[id]
		if !ok {
			continue
		}
		if best == nil || r.userSeq[id] < bestSeq {
			best = rec
			bestSeq = r.userSeq[id]
		}
	}
	if best == nil {
		return nil
	}
	cp := *best
	return &cp
}

// UsersByToken returns copies of every record owned by token, in insertion
// order.
func (r *Registry) UsersByToken(token string) []user.Record {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]user.Record, 0)
	for _, rec := range r.users {
		if rec.BotToken == token {
			out = append(out, *rec)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return r.userSeq[out[i].ID] < r.userSeq[out[j].ID]
	})
	return out
}

// CountUsersByToken returns how many records are owned by token.
func (r *Registry) CountUsersByToken(token string) int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	n := 0
	for _, rec := range r.users {
		if rec.BotToken == token {
			n++
		}
	}
	return n
}

// PurgeUsersByToken removes every record owned by token and returns the
// number removed. Records owned by other tokens are untouched.
func (r *Registry) PurgeUsersByToken(token string) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	var doomed []int64
	for id, rec := range r.users {
		if rec.BotToken == token {
			doomed = append(doomed, id)
		}
	}
	for _, id := range doomed {
		rec := r.users[id]
		r.dropFromIndex(rec.Username, id)
		delete(r.users, id)
		delete(r.userSeq, id)
	}
	return len(doomed)
}

func (r *Registry) addToIndex(username string, id int64) {
	if username == "" {
		return
	}
	r.byUsername[username] = append(r.byUsername[username], id)
}

func (r *Registry) dropFromIndex(username string, id int64) {
	if username == "" {
		return
	}
	ids := r.byUsername[username]
	for i, v := range ids {
		if v == id {
			r.byUsername[username] = append(ids[:i], ids[i+1:]...)
			break
		}
	}
	if len(r.byUsername[username]) == 0 {
		delete(r.byUsername, username)
	}
}
