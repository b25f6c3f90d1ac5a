package treemodel

import (
	"fmt"
	"sort"
)

// CommandFunc handles a command. target is the item the command concerns, as
// chosen by whoever dispatched it; Root means "no item".
type CommandFunc func(target Item) error

// Commands maps command names to handlers. Menu actions, toolbar buttons and
// remote clients dispatch through it, passing the selected item explicitly
// instead of leaving it somewhere for the handler to find.
type Commands struct {
	handlers map[string]CommandFunc
}

func NewCommands() *Commands {
	return &Commands{handlers: make(map[string]CommandFunc)}
}

// Register adds or replaces the handler for name.
func (c *Commands) Register(name string, fn CommandFunc) {
	c.handlers[name] = fn
}

// Names returns the registered command names, sorted.
func (c *Commands) Names() []string {
	names := make([]string, 0, len(c.handlers))
	for name := range c.handlers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Dispatch runs the handler for name with target.
func (c *Commands) Dispatch(name string, target Item) error {
	fn, ok := c.handlers[name]
	if !ok {
		return fmt.Errorf("%s: %w", name, ErrUnknownCommand)
	}
	return fn(target)
}
