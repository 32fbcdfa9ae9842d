package chatbot

import (
	"sync"

	"gorm.io/gorm"

	"cement-works/internal/models"
)

// Cache holds the entity snapshot the resolver matches against. It is
// an explicit object with a load/reset lifecycle tied to the session,
// not package-level state: handlers own one instance, call Load after
// login and Reset on logout.
type Cache struct {
	mu     sync.RWMutex
	loaded bool
	snap   Snapshot
}

func NewCache() *Cache {
	return &Cache{}
}

// Load rebuilds the snapshot from all domain collections.
func (c *Cache) Load(db *gorm.DB) error {
	var employees []models.Employee
	var managers []models.Manager
	var stacks []models.Stack
	var purchases []models.Purchase

	if err := db.Find(&employees).Error; err != nil {
		return err
	}
	if err := db.Find(&managers).Error; err != nil {
		return err
	}
	if err := db.Find(&stacks).Error; err != nil {
		return err
	}
	if err := db.Find(&purchases).Error; err != nil {
		return err
	}

	var entities []Entity
	for _, e := range employees {
		entities = append(entities, Entity{Type: EntityEmployee, Name: e.Name, ID: e.ID})
	}
	for _, m := range managers {
		entities = append(entities, Entity{Type: EntityManager, Name: m.Name, ID: m.ID})
	}
	for _, s := range stacks {
		entities = append(entities,
			Entity{Type: EntityStack, Name: s.StackID, ID: s.ID},
			Entity{Type: EntityStack, Name: s.Material, ID: s.ID})
	}
	for _, p := range purchases {
		entities = append(entities, Entity{Type: EntityPurchase, Name: p.MaterialName, ID: p.ID})
	}

	snap := NewSnapshot(entities)

	c.mu.Lock()
	c.snap = snap
	c.loaded = true
	c.mu.Unlock()
	return nil
}

// Snapshot returns the current snapshot and whether Load has run.
func (c *Cache) Snapshot() (Snapshot, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.snap, c.loaded
}

// Reset drops the snapshot, e.g. when the session ends.
func (c *Cache) Reset() {
	c.mu.Lock()
	c.snap = Snapshot{}
	c.loaded = false
	c.mu.Unlock()
}
