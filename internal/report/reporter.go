// Package report carries destruction events from the engine to whoever
// wants them: a styled terminal printer for the CLI, a collector for the
// HTTP API and tests.
package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Reporter consumes destruction events in the tick order they occur.
// Implementations must not retain the Ants slice past the call.
type Reporter interface {
	ColonyDestroyed(ev DestructionEvent)
}

// Collector accumulates events in order. Zero value is ready to use.
type Collector struct {
	events []DestructionEvent
}

func (c *Collector) ColonyDestroyed(ev DestructionEvent) {
	ants := make([]int, len(ev.Ants))
	copy(ants, ev.Ants)
	ev.Ants = ants
	c.events = append(c.events, ev)
}

// Events returns everything collected so far.
func (c *Collector) Events() []DestructionEvent {
	return c.events
}

var (
	colonyStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("9"))
	antStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
)

// Printer writes human-readable destruction lines to w, e.g.
//
//	Buzz has been destroyed by ant 0 and ant 1!
//
// With Styled set, colony and ant names are colorized with lipgloss.
type Printer struct {
	W      io.Writer
	Styled bool
}

func (p *Printer) ColonyDestroyed(ev DestructionEvent) {
	fmt.Fprintf(p.W, "%s has been destroyed by %s!\n", p.colony(ev.Colony), p.ants(ev.Ants))
}

func (p *Printer) colony(name string) string {
	if p.Styled {
		return colonyStyle.Render(name)
	}
	return name
}

func (p *Printer) ants(ids []int) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		s := fmt.Sprintf("ant %d", id)
		if p.Styled {
			s = antStyle.Render(s)
		}
		parts[i] = s
	}
	switch len(parts) {
	case 0:
		return ""
	case 1:
		return parts[0]
	default:
		return strings.Join(parts[:len(parts)-1], ", ") + " and " + parts[len(parts)-1]
	}
}

// Multi fans events out to several reporters in order.
type Multi []Reporter

func (m Multi) ColonyDestroyed(ev DestructionEvent) {
	for _, r := range m {
		r.ColonyDestroyed(ev)
	}
}
