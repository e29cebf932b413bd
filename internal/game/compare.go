// Package game implements per-category guess scoring and the round state
// machine built on top of it.
package game

import (
	"github.com/tkoide/isekadle/internal/catalog"
	"github.com/tkoide/isekadle/internal/match"
)

// Status is the tri-state verdict for a category cell.
type Status string

const (
	StatusHit  Status = "hit"
	StatusNear Status = "near"
	StatusMiss Status = "miss"
)

// Arrow is the directional hint for numeric categories.
type Arrow string

const (
	ArrowNone Arrow = ""
	ArrowUp   Arrow = "up"
	ArrowDown Arrow = "down"
)

// ItemVerdict scores one value of a list category independently.
type ItemVerdict struct {
	Value  string `json:"value"`
	Status Status `json:"status"`
}

// Verdict is the scored outcome of one category cell.
type Verdict struct {
	Status Status        `json:"status"`
	Arrow  Arrow         `json:"arrow,omitempty"`
	Items  []ItemVerdict `json:"items,omitempty"`
}

// Comparator scores a guess entry against the session target, category by
// category, using the configured comparison rules.
type Comparator struct {
	cfg *catalog.Config
	sim *match.Index
}

// NewComparator wires the configuration and its similarity index.
func NewComparator(cfg *catalog.Config, sim *match.Index) *Comparator {
	return &Comparator{cfg: cfg, sim: sim}
}

// Compare scores every configured category of the guess against the target.
func (c *Comparator) Compare(guess, target *catalog.Entry) map[string]Verdict {
	verdicts := make(map[string]Verdict, len(c.cfg.Categories))
	for _, cat := range c.cfg.Categories {
		switch cat.Type {
		case catalog.TypeNumber:
			verdicts[cat.Key] = c.compareNumber(cat.Key, guess, target)
		case catalog.TypeList:
			verdicts[cat.Key] = c.compareList(cat.Key, guess.List(cat.Key), target.List(cat.Key))
		default:
			verdicts[cat.Key] = Verdict{Status: c.CompareText(cat.Key, guess.Text(cat.Key), target.Text(cat.Key))}
		}
	}
	return verdicts
}

// CompareText scores a text category: hit on normalized equality, near when
// the values share a similarity group, miss otherwise. An empty value on
// either side is always a miss.
func (c *Comparator) CompareText(key, guess, target string) Status {
	if guess == "" || target == "" {
		return StatusMiss
	}
	if match.Normalize(guess) == match.Normalize(target) {
		return StatusHit
	}
	if c.sim.Similar(key, guess, target) {
		return StatusNear
	}
	return StatusMiss
}

func (c *Comparator) compareNumber(key string, guess, target *catalog.Entry) Verdict {
	gv, gok := guess.Number(key)
	tv, tok := target.Number(key)
	return c.CompareNumeric(key, gv, gok, tv, tok)
}

// CompareNumeric scores a numeric category. Exact equality is a hit; a
// configured per-category tolerance turns close values into a near, and
// without one no near state exists. The direction arrow points at the target
// (up when the guess is low) and is only emitted when arrows are enabled and
// both values are present.
func (c *Comparator) CompareNumeric(key string, guess float64, guessOK bool, target float64, targetOK bool) Verdict {
	if !guessOK || !targetOK {
		return Verdict{Status: StatusMiss}
	}
	if guess == target {
		return Verdict{Status: StatusHit}
	}
	status := StatusMiss
	if tol, ok := c.cfg.Tolerance(key); ok && abs(guess-target) <= tol {
		status = StatusNear
	}
	arrow := ArrowNone
	if c.cfg.ShowArrows {
		if guess < target {
			arrow = ArrowUp
		} else {
			arrow = ArrowDown
		}
	}
	return Verdict{Status: status, Arrow: arrow}
}

// CompareListItem scores a single guessed list value against the target's
// list: hit when any target item normalizes equal, near when any shares a
// similarity group, miss otherwise.
func (c *Comparator) CompareListItem(key, item string, targetList []string) Status {
	normalized := match.Normalize(item)
	for _, target := range targetList {
		if match.Normalize(target) == normalized {
			return StatusHit
		}
	}
	for _, target := range targetList {
		if c.sim.Similar(key, item, target) {
			return StatusNear
		}
	}
	return StatusMiss
}

// compareList scores a list cell. The aggregate is only a hit when every
// guessed item hits AND the guess covers the target list exactly; partial
// coverage with any hit or near is a near.
func (c *Comparator) compareList(key string, guessList, targetList []string) Verdict {
	if len(guessList) == 0 {
		return Verdict{Status: StatusMiss}
	}
	items := make([]ItemVerdict, 0, len(guessList))
	hits, nears := 0, 0
	for _, item := range guessList {
		status := c.CompareListItem(key, item, targetList)
		switch status {
		case StatusHit:
			hits++
		case StatusNear:
			nears++
		}
		items = append(items, ItemVerdict{Value: item, Status: status})
	}

	aggregate := StatusMiss
	switch {
	case hits == len(guessList) && hits == len(targetList):
		aggregate = StatusHit
	case hits > 0 || nears > 0:
		aggregate = StatusNear
	}
	return Verdict{Status: aggregate, Items: items}
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
