package session

import "time"

// Clock supplies the engine's notion of now. Projection is a pure function
// of this input; swapping in a fake clock makes every price and every
// re-projection reproducible.
type Clock interface {
	Now() time.Time
}

type realClock struct{}

func (realClock) Now() time.Time { return time.Now() }

func RealClock() Clock { return realClock{} }
