// Package commands implements the console command interpreter. A command
// may emit its output over several rounds; the console asks for the next
// round until the command reports completion.
package commands

import (
	"fmt"
	"strings"
	"sync"
)

const notRecognised = "Command not recognised.  Enter 'help' to view a list of available commands.\r\n"

// Handler writes the output of round into out. args excludes the command
// name.
type Handler func(out []byte, args []string, round int) (n int, more bool)

type Command struct {
	Name    string
	Help    string
	Handler Handler
}

// Registry is driven by the console task only; registration may happen from
// any goroutine before the console starts.
type Registry struct {
	mux   sync.Mutex
	cmds  []Command
	round int
}

// New returns a registry holding the help command.
func New() *Registry {
	r := &Registry{}
	r.Register(Command{
		Name:    "help",
		Help:    "help:\r\n Lists all the registered commands\r\n\r\n",
		Handler: r.help,
	})
	return r
}

func (r *Registry) Register(c Command) error {
	if c.Name == "" || c.Handler == nil {
		return fmt.Errorf("invalid command %q", c.Name)
	}
	r.mux.Lock()
	defer r.mux.Unlock()
	for _, v := range r.cmds {
		if v.Name == c.Name {
			return fmt.Errorf("command %q already registered", c.Name)
		}
	}
	r.cmds = append(r.cmds, c)
	return nil
}

func (r *Registry) lookup(name string) (Command, bool) {
	r.mux.Lock()
	defer r.mux.Unlock()
	for _, v := range r.cmds {
		if v.Name == name {
			return v, true
		}
	}
	return Command{}, false
}

// Process runs one round of line. An empty line produces no output.
func (r *Registry) Process(line string, out []byte) (int, bool) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		r.round = 0
		return 0, false
	}
	cmd, ok := r.lookup(fields[0])
	if !ok {
		r.round = 0
		return copy(out, notRecognised), false
	}
	n, more := cmd.Handler(out, fields[1:], r.round)
	if more {
		r.round++
	} else {
		r.round = 0
	}
	return n, more
}

func (r *Registry) help(out []byte, args []string, round int) (int, bool) {
	r.mux.Lock()
	defer r.mux.Unlock()
	if round >= len(r.cmds) {
		return 0, false
	}
	return copy(out, r.cmds[round].Help), round+1 < len(r.cmds)
}
