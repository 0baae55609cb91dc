package discord

import (
	"strings"
	"sync"
)

// ComponentSeparator splits a custom ID into its prefix and arguments
const ComponentSeparator = ":"

// ComponentHandler handles a button or select interaction. args are the custom ID
// parts after the prefix.
type ComponentHandler func(ctx *CommandContext, args []string) error

// ComponentRouter dispatches component interactions by custom ID prefix
type ComponentRouter struct {
	handlers map[string]ComponentHandler
	mu       sync.RWMutex
}

// NewComponentRouter creates an empty router
func NewComponentRouter() *ComponentRouter {
	return &ComponentRouter{handlers: make(map[string]ComponentHandler)}
}

// Register adds or replaces the handler for prefix
func (r *ComponentRouter) Register(prefix string, handler ComponentHandler) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.handlers[prefix] = handler
}

// Lookup resolves a custom ID to its handler and arguments
func (r *ComponentRouter) Lookup(customID string) (ComponentHandler, []string, bool) {
	parts := strings.Split(customID, ComponentSeparator)
	r.mu.RLock()
	handler, ok := r.handlers[parts[0]]
	r.mu.RUnlock()
	if !ok {
		return nil, nil, false
	}
	return handler, parts[1:], true
}

// ComponentID joins a prefix and arguments into a custom ID
func ComponentID(prefix string, args ...string) string {
	return strings.Join(append([]string{prefix}, args...), ComponentSeparator)
}

// RegisterComponent routes custom IDs starting with prefix to handler
func (c *ExtendedClient) RegisterComponent(prefix string, handler ComponentHandler) {
	c.Components.Register(prefix, handler)
}
