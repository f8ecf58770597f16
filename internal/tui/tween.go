package tui

import "time"

// frameInterval paces animation ticks while any row is sliding.
const frameInterval = time.Second / 60

// tween eases one row's displayed offset toward its target.
type tween struct {
	from, to float64
	start    time.Time
	dur      time.Duration
}

func (t tween) at(now time.Time) float64 {
	if t.dur <= 0 {
		return t.to
	}
	p := float64(now.Sub(t.start)) / float64(t.dur)
	switch {
	case p <= 0:
		return t.from
	case p >= 1:
		return t.to
	}
	// ease-out cubic
	q := 1 - p
	return t.from + (t.to-t.from)*(1-q*q*q)
}

func (t tween) done(now time.Time) bool {
	return t.dur <= 0 || !now.Before(t.start.Add(t.dur))
}

// slides holds the tweens of displaced rows keyed by item id.
type slides map[string]tween

// retarget points key at to, starting from wherever it is drawn at now.
func (s slides) retarget(key string, to float64, dur time.Duration, now time.Time) {
	cur, ok := s[key]
	if ok && cur.to == to {
		return
	}
	from := 0.0
	if ok {
		from = cur.at(now)
	}
	if from == to {
		delete(s, key)
		if to != 0 {
			s[key] = tween{from: to, to: to, start: now}
		}
		return
	}
	s[key] = tween{from: from, to: to, start: now, dur: dur}
}

func (s slides) offset(key string, now time.Time) float64 {
	if t, ok := s[key]; ok {
		return t.at(now)
	}
	return 0
}

func (s slides) animating(now time.Time) bool {
	for _, t := range s {
		if !t.done(now) {
			return true
		}
	}
	return false
}

// settle drops finished tweens resting at zero.
func (s slides) settle(now time.Time) {
	for k, t := range s {
		if t.done(now) && t.to == 0 {
			delete(s, k)
		}
	}
}
