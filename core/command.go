package core

import "sync"

// CommandHandler runs a matched command. It is responsible for its own reply.
type CommandHandler func(line *Line) error

// Command is a fixed text command
type Command struct {
	Name    string
	Handler CommandHandler
}

// CommandRegistry holds the commands the dispatcher knows about
type CommandRegistry struct {
	mu       sync.RWMutex
	commands []Command
}

// NewCommandRegistry creates an empty registry
func NewCommandRegistry() *CommandRegistry {
	return &CommandRegistry{}
}

// Register adds a command. Registering a name twice replaces the handler.
func (r *CommandRegistry) Register(name string, handler CommandHandler) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range r.commands {
		if r.commands[i].Name == name {
			r.commands[i].Handler = handler
			return
		}
	}
	r.commands = append(r.commands, Command{Name: name, Handler: handler})
}

// Lookup finds the command whose name equals the line exactly
func (r *CommandRegistry) Lookup(line *Line) (Command, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, cmd := range r.commands {
		if line.Equal(cmd.Name) {
			return cmd, true
		}
	}
	return Command{}, false
}

// Count returns the number of registered commands
func (r *CommandRegistry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.commands)
}

// Names returns the registered command names in registration order
func (r *CommandRegistry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, len(r.commands))
	for i, cmd := range r.commands {
		names[i] = cmd.Name
	}
	return names
}
