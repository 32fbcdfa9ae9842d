package chatbot

import (
	"sort"
	"strings"
)

// EntityType tags what a resolved name refers to.
type EntityType string

const (
	EntityEmployee EntityType = "employee"
	EntityManager  EntityType = "manager"
	EntityStack    EntityType = "stack"
	EntityPurchase EntityType = "purchase"
)

// Entity is one resolvable display name. A stack contributes two
// entities (its id and its material name) pointing at the same record.
type Entity struct {
	Type EntityType
	Name string // lowercase display name
	ID   uint
}

// Snapshot is a read-only set of entities ordered longest-name-first,
// so substring matching always prefers the most specific name
// ("Stack A" beats "A").
type Snapshot struct {
	entities []Entity
}

// NewSnapshot normalises names to lowercase and fixes the match order.
func NewSnapshot(entities []Entity) Snapshot {
	es := make([]Entity, 0, len(entities))
	for _, e := range entities {
		e.Name = strings.ToLower(strings.TrimSpace(e.Name))
		if e.Name == "" {
			continue
		}
		es = append(es, e)
	}
	sort.SliceStable(es, func(i, j int) bool {
		return len(es[i].Name) > len(es[j].Name)
	})
	return Snapshot{entities: es}
}

// Match returns every entity whose name appears in the query,
// longest name first. An empty result means nothing resolved; several
// results of equal length mean the caller must disambiguate.
func (s Snapshot) Match(query string) []Entity {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return nil
	}
	var found []Entity
	for _, e := range s.entities {
		if strings.Contains(q, e.Name) {
			found = append(found, e)
		}
	}
	return found
}

// MatchGreedy repeatedly consumes the longest remaining entity name
// from the query, so "stack a deliveries for ravi" resolves to the
// stack and the person as two separate entities.
func (s Snapshot) MatchGreedy(query string) []Entity {
	remaining := strings.ToLower(strings.TrimSpace(query))
	if remaining == "" {
		return nil
	}
	var found []Entity
	for _, e := range s.entities {
		if strings.Contains(remaining, e.Name) {
			found = append(found, e)
			remaining = strings.TrimSpace(strings.Replace(remaining, e.Name, "", 1))
		}
	}
	return found
}

// Lookup finds entities whose name contains the query, for "who is
// rav" style partial lookups.
func (s Snapshot) Lookup(partial string) []Entity {
	p := strings.ToLower(strings.TrimSpace(partial))
	if p == "" {
		return nil
	}
	var found []Entity
	for _, e := range s.entities {
		if strings.Contains(e.Name, p) {
			found = append(found, e)
		}
	}
	return found
}

// Len reports how many names the snapshot can resolve.
func (s Snapshot) Len() int { return len(s.entities) }
