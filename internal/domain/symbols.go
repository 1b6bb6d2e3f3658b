package domain

// Symbol identifies one reel symbol, e.g. "CHERRY".
type Symbol string

// Strip is the visible column of one reel, top to bottom.
type Strip []Symbol

// Layout is one strip per reel in reel-index order.
type Layout []Strip

// Clone returns a deep copy of the strip.
func (s Strip) Clone() Strip {
	if s == nil {
		return nil
	}
	out := make(Strip, len(s))
	copy(out, s)
	return out
}

// Clone returns a deep copy of the layout.
func (l Layout) Clone() Layout {
	if l == nil {
		return nil
	}
	out := make(Layout, len(l))
	for i, s := range l {
		out[i] = s.Clone()
	}
	return out
}

// At returns the strip for reel i, or nil when the layout is shorter.
func (l Layout) At(i int) Strip {
	if i < 0 || i >= len(l) {
		return nil
	}
	return l[i]
}

// Position addresses one cell of a layout.
type Position struct {
	Reel int `json:"reel"`
	Row  int `json:"row"`
}
