package analytics

import (
	"context"
	"sort"

	"github.com/google/uuid"
)

// SkillCount is a skill ranked by how often it appears in job requirements.
type SkillCount struct {
	Skill string `json:"skill"`
	Count int    `json:"count"`
}

// skillsDemandLimit caps the skills ranking.
const skillsDemandLimit = 20

// SkillsDemand flattens skills_required across the owner's applications and
// tallies occurrences. A record listing the same skill twice counts twice.
func (s *Service) SkillsDemand(ctx context.Context, ownerID uuid.UUID) ([]SkillCount, error) {
	apps, err := s.records(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	counts := make(map[string]int)
	order := []string{}
	for _, app := range apps {
		for _, skill := range app.Requirements.SkillsRequired {
			if _, seen := counts[skill]; !seen {
				order = append(order, skill)
			}
			counts[skill]++
		}
	}

	ranked := make([]SkillCount, 0, len(order))
	for _, skill := range order {
		ranked = append(ranked, SkillCount{Skill: skill, Count: counts[skill]})
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Count > ranked[j].Count
	})

	if len(ranked) > skillsDemandLimit {
		ranked = ranked[:skillsDemandLimit]
	}
	return ranked, nil
}
