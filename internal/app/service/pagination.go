package service

import "math"

// Page is a normalized 0-based page request.
type Page struct {
	Number uint32
	Size   uint32
}

func (p Page) Limit() int { return int(p.Size) }

func (p Page) Offset() int { return int(p.Number) * int(p.Size) }

// Pager turns raw query values into a Page bounded by the configured sizes.
type Pager struct {
	DefaultSize int
	MaxSize     int
}

func NewPager(defaultSize, maxSize int) Pager {
	if maxSize <= 0 {
		maxSize = 100
	}
	if defaultSize <= 0 || defaultSize > maxSize {
		defaultSize = min(10, maxSize)
	}
	return Pager{DefaultSize: defaultSize, MaxSize: maxSize}
}

func (p Pager) Page(number, size int) Page {
	if p.MaxSize <= 0 {
		p = NewPager(p.DefaultSize, p.MaxSize)
	}
	switch {
	case size <= 0:
		size = p.DefaultSize
	case size > p.MaxSize:
		size = p.MaxSize
	}
	// Pages past the uint32 range clamp to the last addressable one, which reads back empty.
	n := min(uint64(max(number, 0)), math.MaxUint32)
	return Page{Number: uint32(n), Size: uint32(size)}
}
