// Package banner holds the dismissible error and success messages shown above each screen.
package banner

import (
	"time"
)

const (
	ErrorTTL   = 5 * time.Second
	SuccessTTL = 3 * time.Second
)

type Kind int

const (
	KindError Kind = iota
	KindSuccess
)

func (k Kind) String() string {
	if k == KindSuccess {
		return "success"
	}
	return "error"
}

type Banner struct {
	Kind      Kind
	Message   string
	ExpiresAt time.Time
}

// Board holds at most one error and one success banner.
// Expired banners disappear on read; now is injectable for tests.
type Board struct {
	now     func() time.Time
	err     *Banner
	success *Banner
}

// NewBoard returns a Board using now as its clock, or time.Now when nil.
func NewBoard(now func() time.Time) *Board {
	if now == nil {
		now = time.Now
	}
	return &Board{now: now}
}

// Error shows msg as the error banner; an empty msg dismisses it.
func (b *Board) Error(msg string) {
	b.err = b.make(KindError, msg, ErrorTTL)
}

// Success shows msg as the success banner; an empty msg dismisses it.
func (b *Board) Success(msg string) {
	b.success = b.make(KindSuccess, msg, SuccessTTL)
}

func (b *Board) make(kind Kind, msg string, ttl time.Duration) *Banner {
	if msg == "" {
		return nil
	}
	return &Banner{Kind: kind, Message: msg, ExpiresAt: b.now().Add(ttl)}
}

func (b *Board) DismissError()   { b.err = nil }
func (b *Board) DismissSuccess() { b.success = nil }

// Clear dismisses both banners.
func (b *Board) Clear() {
	b.err, b.success = nil, nil
}

// ErrorMessage returns the live error message, if any.
func (b *Board) ErrorMessage() string {
	if bn := b.live(&b.err); bn != nil {
		return bn.Message
	}
	return ""
}

// SuccessMessage returns the live success message, if any.
func (b *Board) SuccessMessage() string {
	if bn := b.live(&b.success); bn != nil {
		return bn.Message
	}
	return ""
}

// Active lists live banners, error first.
func (b *Board) Active() []Banner {
	var out []Banner
	for _, slot := range []**Banner{&b.err, &b.success} {
		if bn := b.live(slot); bn != nil {
			out = append(out, *bn)
		}
	}
	return out
}

func (b *Board) live(slot **Banner) *Banner {
	if *slot != nil && !b.now().Before((*slot).ExpiresAt) {
		*slot = nil
	}
	return *slot
}
