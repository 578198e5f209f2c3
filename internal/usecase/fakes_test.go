package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"skillbridge/internal/ai/chat"
	"skillbridge/internal/ai/speech"
	"skillbridge/internal/domain/learning"
	"skillbridge/internal/domain/skill"
	"skillbridge/internal/domain/user"

	"github.com/google/uuid"
)

type fakeUsers struct {
	mu    sync.Mutex
	items map[uuid.UUID]user.User
	err   error
}

func newFakeUsers(users ...user.User) *fakeUsers {
	f := &fakeUsers{items: map[uuid.UUID]user.User{}}
	for _, u := range users {
		f.items[u.ID] = u
	}
	return f
}

func (f *fakeUsers) CreateUser(_ context.Context, u user.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, existing := range f.items {
		if existing.Email == u.Email {
			return user.ErrEmailTaken
		}
	}
	u.CreatedAt = time.Now()
	f.items[u.ID] = u
	return nil
}

func (f *fakeUsers) GetUserByID(_ context.Context, id uuid.UUID) (user.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return user.User{}, f.err
	}
	u, ok := f.items[id]
	if !ok {
		return user.User{}, user.ErrNotFound
	}
	return u, nil
}

func (f *fakeUsers) GetUserByEmail(_ context.Context, email string) (user.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.items {
		if u.Email == email {
			return u, nil
		}
	}
	return user.User{}, user.ErrNotFound
}

func (f *fakeUsers) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	_, err := f.GetUserByEmail(ctx, email)
	return err == nil, nil
}

func (f *fakeUsers) MarkOnboarded(_ context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.items[id]
	if !ok {
		return user.ErrNotFound
	}
	u.Onboarded = true
	f.items[id] = u
	return nil
}

type fakeProfiles struct {
	mu      sync.Mutex
	items   map[uuid.UUID]user.Profile
	upserts int
}

func newFakeProfiles() *fakeProfiles {
	return &fakeProfiles{items: map[uuid.UUID]user.Profile{}}
}

func (f *fakeProfiles) GetProfile(_ context.Context, userID uuid.UUID) (user.Profile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.items[userID]
	if !ok {
		return user.Profile{}, user.ErrProfileNotFound
	}
	return p, nil
}

func (f *fakeProfiles) UpsertProfile(_ context.Context, p user.Profile) (user.Profile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p.UpdatedAt = time.Now()
	f.items[p.UserID] = p
	f.upserts++
	return p, nil
}

type fakeSkills struct {
	mu    sync.Mutex
	items map[uuid.UUID]skill.Skill
}

func newFakeSkills(skills ...skill.Skill) *fakeSkills {
	f := &fakeSkills{items: map[uuid.UUID]skill.Skill{}}
	for _, s := range skills {
		f.items[s.ID] = s.Normalize()
	}
	return f
}

func (f *fakeSkills) List(_ context.Context, category string) ([]skill.Skill, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]skill.Skill, 0, len(f.items))
	for _, s := range f.items {
		if category == "" || strings.EqualFold(s.Category, category) {
			out = append(out, s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (f *fakeSkills) GetByID(_ context.Context, id uuid.UUID) (skill.Skill, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.items[id]
	if !ok {
		return skill.Skill{}, skill.ErrNotFound
	}
	return s, nil
}

func (f *fakeSkills) Create(_ context.Context, s skill.Skill) (skill.Skill, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s = s.Normalize()
	for _, existing := range f.items {
		if strings.EqualFold(existing.Name, s.Name) {
			return skill.Skill{}, skill.ErrAlreadyExists
		}
	}
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	f.items[s.ID] = s
	return s, nil
}

func (f *fakeSkills) Update(_ context.Context, s skill.Skill) (skill.Skill, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.items[s.ID]; !ok {
		return skill.Skill{}, skill.ErrNotFound
	}
	s = s.Normalize()
	f.items[s.ID] = s
	return s, nil
}

type fakeUserSkills struct {
	mu     sync.Mutex
	skills *fakeSkills
	items  map[[2]uuid.UUID]skill.UserSkill
}

func newFakeUserSkills(skills *fakeSkills) *fakeUserSkills {
	return &fakeUserSkills{skills: skills, items: map[[2]uuid.UUID]skill.UserSkill{}}
}

func (f *fakeUserSkills) FindByUserID(_ context.Context, userID uuid.UUID) ([]skill.UserSkill, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]skill.UserSkill, 0)
	for k, us := range f.items {
		if k[0] == userID {
			out = append(out, us)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SkillName < out[j].SkillName })
	return out, nil
}

func (f *fakeUserSkills) FindByUserAndSkill(_ context.Context, userID, skillID uuid.UUID) (skill.UserSkill, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	us, ok := f.items[[2]uuid.UUID{userID, skillID}]
	if !ok {
		return skill.UserSkill{}, skill.ErrNotFound
	}
	return us, nil
}

func (f *fakeUserSkills) Upsert(ctx context.Context, us skill.UserSkill) (skill.UserSkill, error) {
	s, err := f.skills.GetByID(ctx, us.SkillID)
	if err != nil {
		return skill.UserSkill{}, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	us = us.Normalize()
	if us.ID == uuid.Nil {
		us.ID = uuid.New()
	}
	us.SkillName = s.Name
	us.Category = s.Category
	us.MarketDemand = s.MarketDemand
	us.TrendingScore = s.TrendingScore
	us.AverageSalary = s.AverageSalary
	f.items[[2]uuid.UUID{us.UserID, us.SkillID}] = us
	return us, nil
}

func (f *fakeUserSkills) Delete(_ context.Context, userID, skillID uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	k := [2]uuid.UUID{userID, skillID}
	if _, ok := f.items[k]; !ok {
		return skill.ErrNotFound
	}
	delete(f.items, k)
	return nil
}

type fakeProgress struct {
	mu    sync.Mutex
	items []learning.Progress
}

func (f *fakeProgress) ListByUser(_ context.Context, userID uuid.UUID, limit int) ([]learning.Progress, error) {
	return f.filter(func(p learning.Progress) bool { return p.UserID == userID }, limit), nil
}

func (f *fakeProgress) ListByPath(_ context.Context, userID, pathID uuid.UUID, limit int) ([]learning.Progress, error) {
	return f.filter(func(p learning.Progress) bool {
		return p.UserID == userID && p.PathID != nil && *p.PathID == pathID
	}, limit), nil
}

func (f *fakeProgress) Append(_ context.Context, p learning.Progress) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.items = append(f.items, p)
	return nil
}

func (f *fakeProgress) filter(keep func(learning.Progress) bool, limit int) []learning.Progress {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]learning.Progress, 0)
	for _, p := range learning.SortByRecency(f.items) {
		if keep(p) {
			out = append(out, p)
		}
	}
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

type fakePaths struct {
	mu       sync.Mutex
	progress *fakeProgress
	items    map[uuid.UUID]learning.Path
	deleted  []uuid.UUID
}

func newFakePaths(progress *fakeProgress) *fakePaths {
	return &fakePaths{progress: progress, items: map[uuid.UUID]learning.Path{}}
}

func (f *fakePaths) withProgress(p learning.Path) learning.Path {
	f.progress.mu.Lock()
	defer f.progress.mu.Unlock()
	p.Progress = learning.LatestCompletion(f.progress.items, p.ID)
	return p
}

func (f *fakePaths) ListByUser(_ context.Context, userID uuid.UUID) ([]learning.Path, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]learning.Path, 0)
	for _, p := range f.items {
		if p.UserID == userID {
			out = append(out, f.withProgress(p))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Title < out[j].Title })
	return out, nil
}

func (f *fakePaths) GetByID(_ context.Context, userID, id uuid.UUID) (learning.Path, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.items[id]
	if !ok || p.UserID != userID {
		return learning.Path{}, learning.ErrPathNotFound
	}
	return f.withProgress(p), nil
}

func (f *fakePaths) Create(_ context.Context, p learning.Path) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.items[p.ID] = p
	return nil
}

func (f *fakePaths) UpdateDetails(_ context.Context, p learning.Path) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	cur, ok := f.items[p.ID]
	if !ok || cur.UserID != p.UserID {
		return learning.ErrPathNotFound
	}
	p.Skills, p.Resources = cur.Skills, cur.Resources
	f.items[p.ID] = p
	return nil
}

func (f *fakePaths) ReplaceSkills(_ context.Context, pathID uuid.UUID, skills []learning.PathSkill) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	p := f.items[pathID]
	p.Skills = skills
	f.items[pathID] = p
	return nil
}

func (f *fakePaths) ReplaceResources(_ context.Context, pathID uuid.UUID, resources []learning.Resource) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	p := f.items[pathID]
	p.Resources = resources
	f.items[pathID] = p
	return nil
}

func (f *fakePaths) Delete(_ context.Context, userID, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.items[id]
	if !ok || p.UserID != userID {
		return learning.ErrPathNotFound
	}
	delete(f.items, id)
	f.deleted = append(f.deleted, id)
	return nil
}

type fakeMilestones struct {
	mu    sync.Mutex
	items []learning.Milestone
}

func (f *fakeMilestones) ListByUser(_ context.Context, userID uuid.UUID) ([]learning.Milestone, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]learning.Milestone, 0)
	for _, m := range f.items {
		if m.UserID == userID {
			out = append(out, m)
		}
	}
	return out, nil
}

func (f *fakeMilestones) Create(_ context.Context, m learning.Milestone) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.items = append(f.items, m)
	return nil
}

// fakeUOW runs fn directly; calls counts invocations.
type fakeUOW struct {
	calls int
}

func (u *fakeUOW) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	u.calls++
	return fn(ctx)
}

type fakeCache struct {
	mu      sync.Mutex
	items   map[string][]byte
	deleted []string
	gets    int
}

func newFakeCache() *fakeCache {
	return &fakeCache{items: map[string][]byte{}}
}

func (c *fakeCache) GetJSON(_ context.Context, key string, out any) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gets++
	b, ok := c.items[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(b, out)
}

func (c *fakeCache) SetJSON(_ context.Context, key string, value any, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	b, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.items[key] = b
	return nil
}

func (c *fakeCache) Delete(_ context.Context, keys ...string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, k := range keys {
		delete(c.items, k)
		c.deleted = append(c.deleted, k)
	}
	return nil
}

func (c *fakeCache) has(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.items[key]
	return ok
}

type fakeHistory struct {
	mu    sync.Mutex
	lists map[string][]json.RawMessage
}

func newFakeHistory() *fakeHistory {
	return &fakeHistory{lists: map[string][]json.RawMessage{}}
}

func (h *fakeHistory) AppendJSON(_ context.Context, key string, maxLen int, _ time.Duration, values ...any) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, v := range values {
		b, err := json.Marshal(v)
		if err != nil {
			return err
		}
		h.lists[key] = append(h.lists[key], b)
	}
	if l := h.lists[key]; maxLen > 0 && len(l) > maxLen {
		h.lists[key] = l[len(l)-maxLen:]
	}
	return nil
}

func (h *fakeHistory) RangeJSON(_ context.Context, key string) ([]json.RawMessage, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]json.RawMessage(nil), h.lists[key]...), nil
}

type notification struct {
	userID    uuid.UUID
	eventType string
	payload   any
}

type fakeNotifier struct {
	mu     sync.Mutex
	events []notification
}

func (n *fakeNotifier) Notify(userID uuid.UUID, eventType string, payload any) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, notification{userID: userID, eventType: eventType, payload: payload})
}

func (n *fakeNotifier) count(eventType string) int {
	n.mu.Lock()
	defer n.mu.Unlock()
	c := 0
	for _, e := range n.events {
		if e.eventType == eventType {
			c++
		}
	}
	return c
}

type stubChat struct {
	reply string
	err   error
	got   []chat.Message
}

func (s *stubChat) Complete(_ context.Context, messages []chat.Message) (string, error) {
	s.got = append([]chat.Message(nil), messages...)
	return s.reply, s.err
}

type stubSpeech struct {
	err error
	got speech.Request
}

func (s *stubSpeech) Synthesize(_ context.Context, req speech.Request) (speech.Audio, error) {
	s.got = req
	if s.err != nil {
		return speech.Audio{}, s.err
	}
	return speech.Audio{Data: []byte("mp3"), ContentType: "audio/mpeg", Voice: speech.ResolveVoice(req.VoiceID)}, nil
}

func (s *stubSpeech) Voices() []speech.Voice { return speech.Voices() }

var errBoom = errors.New("boom")

func ptr[T any](v T) *T { return &v }
