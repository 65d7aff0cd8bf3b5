package search

import "dashsearch/internal/domain"

// Key is a navigation key event from the host surface
type Key int

const (
	KeyNone Key = iota
	KeyUp
	KeyDown
	KeyEnter
	KeyEscape
)

func (k Key) String() string {
	switch k {
	case KeyUp:
		return "up"
	case KeyDown:
		return "down"
	case KeyEnter:
		return "enter"
	case KeyEscape:
		return "escape"
	default:
		return "none"
	}
}

// Selection is the navigation state over a merged list.
// The zero value is the Empty state.
type Selection struct {
	Active bool
	Index  int
}

// EffectKind is what a transition asks of the outside world
type EffectKind int

const (
	EffectNone EffectKind = iota
	EffectSelect
	EffectClose
)

// Effect is emitted by Transition; Item is set for EffectSelect
type Effect struct {
	Kind EffectKind
	Item domain.ResultItem
}

// Reset returns the selection for a freshly committed list
func Reset(list List) Selection {
	if len(list) == 0 {
		return Selection{}
	}
	return Selection{Active: true, Index: 0}
}

// Transition applies key to sel over list. It is a pure function.
func Transition(sel Selection, key Key, list List) (Selection, Effect) {
	if key == KeyEscape {
		return sel, Effect{Kind: EffectClose}
	}

	n := len(list)
	if !sel.Active || n == 0 {
		return Selection{}, Effect{}
	}
	// a selection left over from a longer list is pulled back into range
	i := ((sel.Index % n) + n) % n

	switch key {
	case KeyDown:
		return Selection{Active: true, Index: (i + 1) % n}, Effect{}
	case KeyUp:
		return Selection{Active: true, Index: (i - 1 + n) % n}, Effect{}
	case KeyEnter:
		return Selection{Active: true, Index: i}, Effect{Kind: EffectSelect, Item: list[i]}
	default:
		return Selection{Active: true, Index: i}, Effect{}
	}
}
