package analysis

import (
	"fmt"
	"sort"
	"strings"

	"github.com/mamadbah2/rabbitry/internal/domain/models"
)

// Band classifies how closely two rabbits are related, up to two generations.
type Band string

const (
	// BandError means the pair could not be assessed (missing rabbit, or both
	// names resolve to the same animal).
	BandError Band = "error"
	// BandDanger means parent-offspring or shared-parent (sibling) pairing.
	BandDanger Band = "danger"
	// BandWarning means a shared grandparent with no shared parent.
	BandWarning Band = "warning"
	// BandSafe means no relation was found within the checked depth.
	BandSafe Band = "safe"
)

// Assessment is the outcome of a relatedness check.
type Assessment struct {
	Band   Band
	Reason string
}

// Resolver looks up a rabbit by row ID. It returns nil for unknown or unset
// references, which simply prunes that branch of the walk.
type Resolver func(id uint) *models.Rabbit

// AssessRelatedness classifies a candidate pairing by walking the registered
// parent references two generations up. The check is exhaustive only to that
// depth; a Safe verdict says nothing about deeper ancestry.
func AssessRelatedness(a, b *models.Rabbit, byID Resolver) Assessment {
	if a == nil || b == nil {
		return Assessment{Band: BandError, Reason: "one or both rabbits not found"}
	}
	if a.ID == b.ID {
		return Assessment{Band: BandError, Reason: "same rabbit, cannot breed"}
	}

	parentsA := parentIDs(a)
	parentsB := parentIDs(b)

	if parentsB[a.ID] || parentsA[b.ID] {
		return Assessment{Band: BandDanger, Reason: "parent-offspring mating"}
	}

	if shared := intersect(parentsA, parentsB); len(shared) > 0 {
		kind := "half-siblings"
		if len(shared) == 2 {
			kind = "full siblings"
		}
		return Assessment{
			Band:   BandDanger,
			Reason: fmt.Sprintf("%s, shared parent(s): %s", kind, joinNames(shared, byID)),
		}
	}

	grandA := grandparentIDs(a, byID)
	grandB := grandparentIDs(b, byID)
	if shared := intersect(grandA, grandB); len(shared) > 0 {
		return Assessment{
			Band:   BandWarning,
			Reason: fmt.Sprintf("shared grandparent(s): %s", joinNames(shared, byID)),
		}
	}

	return Assessment{Band: BandSafe, Reason: "no close relation found up to parents and grandparents"}
}

func parentIDs(r *models.Rabbit) map[uint]bool {
	ids := make(map[uint]bool, 2)
	if r.MotherID != nil {
		ids[*r.MotherID] = true
	}
	if r.FatherID != nil {
		ids[*r.FatherID] = true
	}
	return ids
}

func grandparentIDs(r *models.Rabbit, byID Resolver) map[uint]bool {
	ids := make(map[uint]bool, 4)
	for pid := range parentIDs(r) {
		parent := byID(pid)
		if parent == nil {
			continue
		}
		for gid := range parentIDs(parent) {
			ids[gid] = true
		}
	}
	return ids
}

func intersect(a, b map[uint]bool) []uint {
	var shared []uint
	for id := range a {
		if b[id] {
			shared = append(shared, id)
		}
	}
	sort.Slice(shared, func(i, j int) bool { return shared[i] < shared[j] })
	return shared
}

func joinNames(ids []uint, byID Resolver) string {
	names := make([]string, 0, len(ids))
	for _, id := range ids {
		if r := byID(id); r != nil {
			names = append(names, r.Name)
		} else {
			names = append(names, fmt.Sprintf("#%d", id))
		}
	}
	return strings.Join(names, ", ")
}
