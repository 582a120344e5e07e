//go:build linux

package power

import (
	"fmt"
	"strconv"

	"github.com/warthog618/go-gpiocdev"
)

const consumer = "ogntracker-gps"

// OpenLine requests line on chip as an output driven low. line is either a
// line name or an offset.
func OpenLine(chipPath, line string) (Line, error) {
	chip, err := gpiocdev.NewChip(chipPath)
	if err != nil {
		return nil, fmt.Errorf("power: open %s: %w", chipPath, err)
	}
	offset, err := strconv.Atoi(line)
	if err != nil {
		offset, err = chip.FindLine(line)
		if err != nil {
			_ = chip.Close()
			return nil, fmt.Errorf("power: gpio line %q not found: %w", line, err)
		}
	}
	l, err := chip.RequestLine(offset, gpiocdev.AsOutput(0), gpiocdev.WithConsumer(consumer))
	if err != nil {
		_ = chip.Close()
		return nil, fmt.Errorf("power: request line %d: %w", offset, err)
	}
	return &gpiodLine{chip: chip, line: l}, nil
}

type gpiodLine struct {
	chip *gpiocdev.Chip
	line *gpiocdev.Line
}

func (g *gpiodLine) SetValue(v int) error {
	if g.line == nil {
		return fmt.Errorf("power: gpio line closed")
	}
	return g.line.SetValue(v)
}

func (g *gpiodLine) Close() error {
	if g.line == nil {
		return nil
	}
	_ = g.line.SetValue(0)
	err := g.line.Close()
	g.line = nil
	if g.chip != nil {
		_ = g.chip.Close()
		g.chip = nil
	}
	return err
}
