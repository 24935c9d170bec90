package scheduling

import (
	"sort"

	"ironcraft/models"
)

// The conflict resolver is pure decision logic over assignments it is
// handed. It never touches the store; the posting engine applies its
// decisions.

// DuplicateGroup holds assignments that would land on the same
// (contractor, date) after re-dating. A contractor can only work one
// place per day, so only one row of the group may survive posting.
type DuplicateGroup struct {
	ContractorID string
	Date         string
	Assignments  []models.Assignment
}

// Decision lists which assignment rows to keep and which to discard.
type Decision struct {
	Proceed  bool
	ToKeep   []string
	ToDelete []string
}

// DetectDuplicates groups candidate-to-post assignments by contractor and
// date; any group with more than one member is a duplicate-date conflict.
// Batch posting pulls in every outstanding draft regardless of its stale
// date field, so a contractor drafted on separate days ends up with
// multiple rows landing on the same target date.
func DetectDuplicates(assignments []models.Assignment) []DuplicateGroup {
	byKey := make(map[[2]string][]models.Assignment)
	var order [][2]string
	for _, a := range assignments {
		key := [2]string{a.ContractorID, a.Date}
		if _, seen := byKey[key]; !seen {
			order = append(order, key)
		}
		byKey[key] = append(byKey[key], a)
	}

	var groups []DuplicateGroup
	for _, key := range order {
		group := byKey[key]
		if len(group) < 2 {
			continue
		}
		groups = append(groups, DuplicateGroup{
			ContractorID: key[0],
			Date:         key[1],
			Assignments:  group,
		})
	}
	sort.Slice(groups, func(i, j int) bool {
		if groups[i].ContractorID != groups[j].ContractorID {
			return groups[i].ContractorID < groups[j].ContractorID
		}
		return groups[i].Date < groups[j].Date
	})
	return groups
}

// ResolveDuplicates keeps the most recently created row of each group and
// marks the rest for deletion. Ties on created_at break by id so the
// outcome is deterministic when the engine runs non-interactively.
func ResolveDuplicates(groups []DuplicateGroup) Decision {
	decision := Decision{Proceed: true}
	for _, group := range groups {
		rows := make([]models.Assignment, len(group.Assignments))
		copy(rows, group.Assignments)
		sort.Slice(rows, func(i, j int) bool {
			if !rows[i].CreatedAt.Equal(rows[j].CreatedAt) {
				return rows[i].CreatedAt.After(rows[j].CreatedAt)
			}
			return rows[i].ID > rows[j].ID
		})
		decision.ToKeep = append(decision.ToKeep, rows[0].ID)
		for _, loser := range rows[1:] {
			decision.ToDelete = append(decision.ToDelete, loser.ID)
		}
	}
	return decision
}

// DetectOverrides returns already-posted rows on the target date whose
// contractor is in the candidate set. Posting over them silently
// supersedes published schedules, so they must be confirmed first.
//
// This is the pre-flight view for the calling layer, which makes the
// override decision before invoking the engine. The engine itself aborts
// on any posted row occupying the target date; this narrows that set to
// the contractors actually being reposted when an operator wants the
// precise collision list.
func DetectOverrides(posted []models.Assignment, targetDate string, candidateContractorIDs []string) []models.Assignment {
	candidates := make(map[string]bool, len(candidateContractorIDs))
	for _, id := range candidateContractorIDs {
		candidates[id] = true
	}

	var conflicting []models.Assignment
	for _, a := range posted {
		if a.Posted && a.Date == targetDate && candidates[a.ContractorID] {
			conflicting = append(conflicting, a)
		}
	}
	return conflicting
}
