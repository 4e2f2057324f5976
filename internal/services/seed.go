package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/yungbote/mooddiary-backend/internal/data/repos"
	"github.com/yungbote/mooddiary-backend/internal/domain"
	"github.com/yungbote/mooddiary-backend/internal/platform/logger"
	"github.com/yungbote/mooddiary-backend/internal/rules"
	"github.com/yungbote/mooddiary-backend/internal/rules/content"
)

// moodScale is the seven-step scale clients rate entries on.
var moodScale = map[int]string{
	-3: "Very Bad",
	-2: "Bad",
	-1: "Rather Bad",
	0:  "Neutral",
	1:  "Rather Good",
	2:  "Good",
	3:  "Very Good",
}

// defaultActivities is the starter taxonomy, one activity per category.
var defaultActivities = map[string][]string{
	"Sleep":                              {"Sleeping"},
	domain.CategoryFoodValue:             {"Meal"},
	"Studies":                            {"Lecture"},
	"Work":                               {"Part-time job"},
	"Social":                             {"Meeting friends"},
	domain.CategoryPhysicalActivityValue: {"Sports"},
	domain.CategoryRelaxationValue:       {"Meditation"},
	domain.CategoryMediaUsageValue:       {"PC Gaming"},
	"Errands":                            {"Shopping"},
	"Culture and Creativity":             {"Listening to music"},
	"Problematic Behavior":               {"Ruminating"},
	"Transportation":                     {"Driving in a car"},
	"Other":                              {"Other activity"},
}

// SeedService populates the static tables: the rule catalog, the mood scale
// and the activity taxonomy. All writes are idempotent first-or-create so
// re-running the seeder is safe.
type SeedService interface {
	SeedRules(ctx context.Context) ([]*domain.Rule, error)
	SeedMoods(ctx context.Context) error
	SeedActivities(ctx context.Context) error
	SubscribeClientToAllRules(ctx context.Context, clientID uuid.UUID) error
}

type seedService struct {
	ruleRepo    repos.RuleRepo
	catalogRepo repos.CatalogRepo
	log         *logger.Logger
}

func NewSeedService(ruleRepo repos.RuleRepo, catalogRepo repos.CatalogRepo, baseLog *logger.Logger) SeedService {
	return &seedService{
		ruleRepo:    ruleRepo,
		catalogRepo: catalogRepo,
		log:         baseLog.With("service", "SeedService"),
	}
}

// SeedRules persists every catalog entry and verifies the catalog covers
// every registered rule. A registered rule missing from the catalog would
// fail at evaluation time, so it fails here instead.
func (s *seedService) SeedRules(ctx context.Context) ([]*domain.Rule, error) {
	byTitle, err := content.ByTitle()
	if err != nil {
		return nil, err
	}
	for _, title := range append(append([]string{}, rules.EventBasedTitles...), rules.TimeBasedTitles...) {
		if _, ok := byTitle[title]; !ok {
			return nil, fmt.Errorf("registered rule %q missing from catalog", title)
		}
	}

	entries, err := content.Catalog()
	if err != nil {
		return nil, err
	}
	seeded := make([]*domain.Rule, 0, len(entries))
	for _, e := range entries {
		row, err := s.ruleRepo.FirstOrCreateByTitle(ctx, nil, &domain.Rule{
			Title:                    e.Title,
			Evaluation:               e.Evaluation,
			Criterion:                e.Criterion,
			PreconditionsDescription: e.Preconditions,
			ConclusionMessage:        e.Conclusion,
		})
		if err != nil {
			return nil, fmt.Errorf("seed rule %q: %w", e.Title, err)
		}
		seeded = append(seeded, row)
	}
	s.log.Info("Rule catalog seeded", "count", len(seeded))
	return seeded, nil
}

func (s *seedService) SeedMoods(ctx context.Context) error {
	for value := -domain.MoodMaxValue; value <= domain.MoodMaxValue; value++ {
		if _, err := s.catalogRepo.FirstOrCreateMood(ctx, nil, value, moodScale[value]); err != nil {
			return fmt.Errorf("seed mood %d: %w", value, err)
		}
	}
	return nil
}

func (s *seedService) SeedActivities(ctx context.Context) error {
	for category, activities := range defaultActivities {
		for _, activity := range activities {
			if _, err := s.catalogRepo.FirstOrCreateActivity(ctx, nil, category, activity); err != nil {
				return fmt.Errorf("seed activity %q: %w", activity, err)
			}
		}
	}
	return nil
}

func (s *seedService) SubscribeClientToAllRules(ctx context.Context, clientID uuid.UUID) error {
	all, err := s.ruleRepo.ListAll(ctx, nil)
	if err != nil {
		return err
	}
	for _, rule := range all {
		if _, err := s.ruleRepo.Subscribe(ctx, nil, rule.ID, clientID); err != nil {
			return fmt.Errorf("subscribe client to %q: %w", rule.Title, err)
		}
	}
	return nil
}
