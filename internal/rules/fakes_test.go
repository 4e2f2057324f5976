package rules

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/mooddiary-backend/internal/data/repos"
	"github.com/yungbote/mooddiary-backend/internal/domain"
	"github.com/yungbote/mooddiary-backend/internal/platform/logger"
)

// fakeStore is an in-memory stand-in for the repos so the engine tests run
// without a database. It mirrors the query semantics of the real repos for
// a single client.
type fakeStore struct {
	mu sync.Mutex

	diary         *domain.MoodDiary
	entries       []*domain.MoodDiaryEntry
	rules         map[string]*domain.Rule
	subscriptions map[string]bool
	logs          []*domain.RuleTriggeredLog
	notifications []*domain.Notification
}

func newFakeStore(clientID uuid.UUID) *fakeStore {
	return &fakeStore{
		diary:         &domain.MoodDiary{ID: uuid.New(), ClientID: clientID},
		rules:         map[string]*domain.Rule{},
		subscriptions: map[string]bool{},
	}
}

func subKey(ruleID, clientID uuid.UUID) string {
	return ruleID.String() + "/" + clientID.String()
}

// seedRule inserts a catalog row and an active subscription for the client.
func (s *fakeStore) seedRule(title string, clientID uuid.UUID) *domain.Rule {
	s.mu.Lock()
	defer s.mu.Unlock()
	row := &domain.Rule{
		ID:                uuid.New(),
		Title:             title,
		Evaluation:        domain.RuleEvaluationEventBased,
		Criterion:         domain.RuleCriterionThreshold,
		ConclusionMessage: "conclusion for " + title,
	}
	s.rules[title] = row
	s.subscriptions[subKey(row.ID, clientID)] = true
	return row
}

func (s *fakeStore) addEntry(e *domain.MoodDiaryEntry) *domain.MoodDiaryEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	e.MoodDiaryID = s.diary.ID
	s.entries = append(s.entries, e)
	return e
}

// --- DiaryRepo ---

type fakeDiaryRepo struct{ s *fakeStore }

func (r *fakeDiaryRepo) GetOrCreateDiary(ctx context.Context, tx *gorm.DB, clientID uuid.UUID) (*domain.MoodDiary, error) {
	return r.s.diary, nil
}

func (r *fakeDiaryRepo) HasEntries(ctx context.Context, tx *gorm.DB, clientID uuid.UUID) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return len(r.s.entries) > 0, nil
}

func (r *fakeDiaryRepo) LatestEntryEditedAtOrBefore(ctx context.Context, tx *gorm.DB, clientID uuid.UUID, ts time.Time) (*domain.MoodDiaryEntry, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var best *domain.MoodDiaryEntry
	for _, e := range r.s.entries {
		if e.UpdatedAt.After(ts) {
			continue
		}
		if best == nil || e.UpdatedAt.After(best.UpdatedAt) {
			best = e
		}
	}
	return best, nil
}

func (r *fakeDiaryRepo) LatestEntryEndingBefore(ctx context.Context, tx *gorm.DB, clientID uuid.UUID, ref *domain.MoodDiaryEntry) (*domain.MoodDiaryEntry, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	refEnd := ref.EndsAt()
	var best *domain.MoodDiaryEntry
	for _, e := range r.s.entries {
		if e.ID == ref.ID || e.EndsAt().After(refEnd) {
			continue
		}
		if best == nil || e.EndsAt().After(best.EndsAt()) {
			best = e
		}
	}
	return best, nil
}

func (r *fakeDiaryRepo) EntriesOnDate(ctx context.Context, tx *gorm.DB, clientID uuid.UUID, date time.Time) ([]*domain.MoodDiaryEntry, error) {
	return r.EntriesBetweenDates(ctx, tx, clientID, date, date)
}

func (r *fakeDiaryRepo) EntriesBetweenDates(ctx context.Context, tx *gorm.DB, clientID uuid.UUID, from, to time.Time) ([]*domain.MoodDiaryEntry, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*domain.MoodDiaryEntry
	for _, e := range r.s.entries {
		if e.Date.Before(from) || e.Date.After(to) {
			continue
		}
		out = append(out, e)
	}
	return out, nil
}

func (r *fakeDiaryRepo) EntriesAfterDate(ctx context.Context, tx *gorm.DB, clientID uuid.UUID, after time.Time) ([]*domain.MoodDiaryEntry, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*domain.MoodDiaryEntry
	for _, e := range r.s.entries {
		if e.Date.After(after) {
			out = append(out, e)
		}
	}
	return out, nil
}

func (r *fakeDiaryRepo) CountDistinctEntryDatesAfter(ctx context.Context, tx *gorm.DB, clientID uuid.UUID, after time.Time) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	seen := map[time.Time]bool{}
	for _, e := range r.s.entries {
		if e.Date.After(after) {
			seen[e.Date] = true
		}
	}
	return int64(len(seen)), nil
}

func (r *fakeDiaryRepo) CreateEntries(ctx context.Context, tx *gorm.DB, entries []*domain.MoodDiaryEntry) ([]*domain.MoodDiaryEntry, error) {
	for _, e := range entries {
		r.s.addEntry(e)
	}
	return entries, nil
}

func (r *fakeDiaryRepo) UpdateEntry(ctx context.Context, tx *gorm.DB, entry *domain.MoodDiaryEntry) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for i, e := range r.s.entries {
		if e.ID == entry.ID {
			r.s.entries[i] = entry
			return nil
		}
	}
	return fmt.Errorf("entry %s not found", entry.ID)
}

func (r *fakeDiaryRepo) ReleaseEntries(ctx context.Context, tx *gorm.DB, clientID uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, e := range r.s.entries {
		e.Released = true
	}
	return nil
}

// --- RuleRepo ---

type fakeRuleRepo struct{ s *fakeStore }

func (r *fakeRuleRepo) GetByTitle(ctx context.Context, tx *gorm.DB, title string) (*domain.Rule, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	row, ok := r.s.rules[title]
	if !ok {
		return nil, fmt.Errorf("%w: %q", repos.ErrRuleNotSeeded, title)
	}
	return row, nil
}

func (r *fakeRuleRepo) FirstOrCreateByTitle(ctx context.Context, tx *gorm.DB, rule *domain.Rule) (*domain.Rule, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if existing, ok := r.s.rules[rule.Title]; ok {
		return existing, nil
	}
	if rule.ID == uuid.Nil {
		rule.ID = uuid.New()
	}
	r.s.rules[rule.Title] = rule
	return rule, nil
}

func (r *fakeRuleRepo) ListAll(ctx context.Context, tx *gorm.DB) ([]*domain.Rule, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*domain.Rule
	for _, row := range r.s.rules {
		out = append(out, row)
	}
	return out, nil
}

func (r *fakeRuleRepo) SubscriptionActive(ctx context.Context, tx *gorm.DB, ruleID, clientID uuid.UUID) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.s.subscriptions[subKey(ruleID, clientID)], nil
}

func (r *fakeRuleRepo) Subscribe(ctx context.Context, tx *gorm.DB, ruleID, clientID uuid.UUID) (*domain.RuleClient, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.subscriptions[subKey(ruleID, clientID)] = true
	return &domain.RuleClient{RuleID: ruleID, ClientID: clientID, Active: true}, nil
}

func (r *fakeRuleRepo) SetSubscriptionActive(ctx context.Context, tx *gorm.DB, ruleID, clientID uuid.UUID, active bool) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.subscriptions[subKey(ruleID, clientID)] = active
	return nil
}

// --- TriggerLogRepo ---

type fakeTriggerLogRepo struct{ s *fakeStore }

func (r *fakeTriggerLogRepo) Create(ctx context.Context, tx *gorm.DB, log *domain.RuleTriggeredLog) (*domain.RuleTriggeredLog, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if log.ID == uuid.Nil {
		log.ID = uuid.New()
	}
	r.s.logs = append(r.s.logs, log)
	return log, nil
}

func (r *fakeTriggerLogRepo) TriggeredSince(ctx context.Context, tx *gorm.DB, ruleID, clientID uuid.UUID, since time.Time) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, l := range r.s.logs {
		if l.RuleID == ruleID && l.ClientID == clientID && !l.RequestedAt.Before(since) {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeTriggerLogRepo) TriggeredAfter(ctx context.Context, tx *gorm.DB, ruleID, clientID uuid.UUID, after time.Time) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, l := range r.s.logs {
		if l.RuleID == ruleID && l.ClientID == clientID && l.RequestedAt.After(after) {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeTriggerLogRepo) ListByRuleAndClient(ctx context.Context, tx *gorm.DB, ruleID, clientID uuid.UUID) ([]*domain.RuleTriggeredLog, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*domain.RuleTriggeredLog
	for _, l := range r.s.logs {
		if l.RuleID == ruleID && l.ClientID == clientID {
			out = append(out, l)
		}
	}
	return out, nil
}

// --- NotificationRepo ---

type fakeNotificationRepo struct{ s *fakeStore }

func (r *fakeNotificationRepo) Create(ctx context.Context, tx *gorm.DB, n *domain.Notification) (*domain.Notification, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if n.ID == uuid.Nil {
		n.ID = uuid.New()
	}
	r.s.notifications = append(r.s.notifications, n)
	return n, nil
}

func (r *fakeNotificationRepo) ListByClient(ctx context.Context, tx *gorm.DB, clientID uuid.UUID) ([]*domain.Notification, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*domain.Notification
	for _, n := range r.s.notifications {
		if n.ClientID == clientID {
			out = append(out, n)
		}
	}
	return out, nil
}

func (r *fakeNotificationRepo) CountUnviewed(ctx context.Context, tx *gorm.DB, clientID uuid.UUID) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var count int64
	for _, n := range r.s.notifications {
		if n.ClientID == clientID && !n.Viewed {
			count++
		}
	}
	return count, nil
}

// --- push ---

type fakePushSender struct {
	mu    sync.Mutex
	sent  []string
	fail  error
	calls int
}

func (p *fakePushSender) SendRuleTriggered(ctx context.Context, clientID uuid.UUID, title, message string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls++
	if p.fail != nil {
		return p.fail
	}
	p.sent = append(p.sent, title)
	return nil
}

// --- harness ---

type harness struct {
	store     *fakeStore
	deps      Deps
	evaluator *Evaluator
	push      *fakePushSender
	clientID  uuid.UUID
	mood      *domain.Mood
	activity  *domain.Activity
}

func newHarness(t interface {
	Helper()
	Fatalf(format string, args ...any)
}) *harness {
	t.Helper()
	log, err := logger.New("test")
	if err != nil {
		t.Fatalf("init logger: %v", err)
	}
	clientID := uuid.New()
	store := newFakeStore(clientID)
	deps := Deps{
		Diaries:     &fakeDiaryRepo{s: store},
		Rules:       &fakeRuleRepo{s: store},
		TriggerLogs: &fakeTriggerLogRepo{s: store},
		Log:         log,
	}
	push := &fakePushSender{}
	return &harness{
		store:     store,
		deps:      deps,
		evaluator: NewEvaluator(deps, &fakeNotificationRepo{s: store}, push, log),
		push:      push,
		clientID:  clientID,
		mood:      &domain.Mood{ID: uuid.New(), Value: 0, Label: "Neutral"},
		activity:  newActivity("Walking", "Other"),
	}
}

func newActivity(value, category string) *domain.Activity {
	cat := &domain.ActivityCategory{ID: uuid.New(), Value: category}
	return &domain.Activity{ID: uuid.New(), CategoryID: cat.ID, Value: value, Category: cat}
}

func newMood(value int) *domain.Mood {
	return &domain.Mood{ID: uuid.New(), Value: value}
}

// entry adds an entry on day with the given offsets, mood and activity.
func (h *harness) entry(day time.Time, start, end time.Duration, mood *domain.Mood, activity *domain.Activity, updatedAt time.Time) *domain.MoodDiaryEntry {
	if mood == nil {
		mood = h.mood
	}
	if activity == nil {
		activity = h.activity
	}
	return h.store.addEntry(&domain.MoodDiaryEntry{
		Date:       day,
		StartTime:  start,
		EndTime:    end,
		MoodID:     mood.ID,
		ActivityID: activity.ID,
		Mood:       mood,
		Activity:   activity,
		CreatedAt:  updatedAt,
		UpdatedAt:  updatedAt,
	})
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
