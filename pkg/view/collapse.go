package view

import "sync"

// CollapseState tracks which date groups are collapsed in a viewing
// session. Groups start expanded; nothing is persisted, and the state
// resets whenever the underlying record set changes.
type CollapseState struct {
	mu        sync.RWMutex
	collapsed map[string]struct{}
}

// NewCollapseState returns an all-expanded state
func NewCollapseState() *CollapseState {
	return &CollapseState{
		collapsed: make(map[string]struct{}),
	}
}

// Toggle flips the state of a single group
func (c *CollapseState) Toggle(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.collapsed[key]; ok {
		delete(c.collapsed, key)
		return
	}
	c.collapsed[key] = struct{}{}
}

// ToggleAll applies the tri-state collapse-all rule over the given
// group keys: when every group is already collapsed, expand them all;
// otherwise (including a partial state) collapse them all.
func (c *CollapseState) ToggleAll(keys []string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	collapsed := 0
	for _, key := range keys {
		if _, ok := c.collapsed[key]; ok {
			collapsed++
		}
	}

	if collapsed == len(keys) && len(keys) > 0 {
		for _, key := range keys {
			delete(c.collapsed, key)
		}
		return
	}

	for _, key := range keys {
		c.collapsed[key] = struct{}{}
	}
}

// Collapsed reports whether a group is collapsed
func (c *CollapseState) Collapsed(key string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()

	_, ok := c.collapsed[key]
	return ok
}

// Count returns the number of collapsed groups
func (c *CollapseState) Count() int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return len(c.collapsed)
}

// Reset expands every group
func (c *CollapseState) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.collapsed = make(map[string]struct{})
}
