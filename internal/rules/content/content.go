package content

import (
	"embed"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/yungbote/mooddiary-backend/internal/domain"
)

// The catalog ships embedded; RULE_CATALOG_YAML points at an override file
// for experiments without a rebuild.
const ruleCatalogEnv = "RULE_CATALOG_YAML"

//go:embed rules.yaml
var ruleCatalogFS embed.FS

// Entry is one rule of the catalog as persisted into rules_rules.
type Entry struct {
	Title         string `yaml:"title"`
	Evaluation    string `yaml:"evaluation"`
	Criterion     string `yaml:"criterion"`
	Preconditions string `yaml:"preconditions"`
	Conclusion    string `yaml:"conclusion"`
}

type yamlCatalog struct {
	Catalog string  `yaml:"catalog"`
	Version int     `yaml:"version"`
	Rules   []Entry `yaml:"rules"`
}

var catalogOnce sync.Once
var catalogCache []Entry
var catalogErr error

// Catalog returns the rule catalog entries in file order.
func Catalog() ([]Entry, error) {
	catalogOnce.Do(func() {
		catalogCache, catalogErr = loadCatalog()
	})
	return catalogCache, catalogErr
}

// ByTitle returns the catalog keyed by rule title.
func ByTitle() (map[string]Entry, error) {
	entries, err := Catalog()
	if err != nil {
		return nil, err
	}
	out := make(map[string]Entry, len(entries))
	for _, e := range entries {
		out[e.Title] = e
	}
	return out, nil
}

func loadCatalog() ([]Entry, error) {
	data, err := readCatalog()
	if err != nil {
		return nil, err
	}
	var cat yamlCatalog
	if err := yaml.Unmarshal(data, &cat); err != nil {
		return nil, err
	}
	if err := validateCatalog(&cat); err != nil {
		return nil, err
	}
	return cat.Rules, nil
}

func readCatalog() ([]byte, error) {
	if path := strings.TrimSpace(os.Getenv(ruleCatalogEnv)); path != "" {
		return os.ReadFile(path)
	}
	return ruleCatalogFS.ReadFile("rules.yaml")
}

func validateCatalog(cat *yamlCatalog) error {
	if cat == nil {
		return errors.New("missing catalog")
	}
	if strings.TrimSpace(cat.Catalog) != "rules" {
		return fmt.Errorf("unexpected catalog: %s", cat.Catalog)
	}
	if len(cat.Rules) == 0 {
		return errors.New("no rules defined")
	}
	seen := map[string]bool{}
	for _, e := range cat.Rules {
		title := strings.TrimSpace(e.Title)
		if title == "" {
			return errors.New("rule title is required")
		}
		if seen[title] {
			return fmt.Errorf("duplicate rule title: %s", title)
		}
		seen[title] = true
		switch e.Evaluation {
		case domain.RuleEvaluationEventBased, domain.RuleEvaluationTimeBased:
		default:
			return fmt.Errorf("rule %s: unknown evaluation %q", title, e.Evaluation)
		}
		switch e.Criterion {
		case domain.RuleCriterionThreshold, domain.RuleCriterionChange:
		default:
			return fmt.Errorf("rule %s: unknown criterion %q", title, e.Criterion)
		}
		if strings.TrimSpace(e.Conclusion) == "" {
			return fmt.Errorf("rule %s: conclusion is empty", title)
		}
	}
	return nil
}
