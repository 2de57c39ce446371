// scheduler.go - Discrete-event cycle scheduler: callbacks fired at a
// cycle-count offset, plus a separate list of per-cycle callbacks.
//
// Grounded on original_source/Little32/include/L32_Computer.h's
// AddInterval/RemoveInterval/CheckIntervals. repeats==0 means infinite;
// repeats==1 means "run once more then remove"; each firing decrements.

package littlevm

// Interval is a scheduled callback. Callers that want to cancel one keep
// the *Interval returned by AddInterval and pass it to RemoveInterval.
type Interval struct {
	cycleLength word
	callback    func(*Computer)
	repeats     uint64
}

// scheduler owns every registered Interval. Delayed intervals are keyed by
// the absolute cycle they next fire on; per-tick intervals (cycleLength==1)
// live in their own slice since they never move.
type scheduler struct {
	delayed map[uint64][]*Interval
	perTick []*Interval
}

func newScheduler() *scheduler {
	return &scheduler{delayed: make(map[uint64][]*Interval)}
}

// AddInterval schedules callback to run repeatedly. length==1 runs it
// every tick. length==0 schedules it for the current cycle, which only
// fires again once curCycle wraps back around to that value (see
// DESIGN.md Open Question 1). Otherwise it fires at curCycle+length.
func (c *Computer) AddInterval(length word, callback func(*Computer), repeats uint64) *Interval {
	iv := &Interval{cycleLength: length, callback: callback, repeats: repeats}

	if length == 1 {
		c.sched.perTick = append(c.sched.perTick, iv)
		return iv
	}

	key := c.curCycle + uint64(length)
	c.sched.delayed[key] = append(c.sched.delayed[key], iv)
	return iv
}

// RemoveInterval cancels a previously scheduled interval. It is an O(N)
// scan across both the per-tick list and every delayed bucket; empty
// buckets are erased so they never linger. Returns whether it was found.
func (c *Computer) RemoveInterval(iv *Interval) bool {
	s := c.sched

	for i, cur := range s.perTick {
		if cur == iv {
			s.perTick = append(s.perTick[:i], s.perTick[i+1:]...)
			return true
		}
	}

	for key, bucket := range s.delayed {
		for i, cur := range bucket {
			if cur == iv {
				bucket = append(bucket[:i], bucket[i+1:]...)
				if len(bucket) == 0 {
					delete(s.delayed, key)
				} else {
					s.delayed[key] = bucket
				}
				return true
			}
		}
	}

	return false
}

// CheckIntervals fires every callback due this tick: first the per-tick
// list, in insertion order, then any delayed callbacks whose key equals
// curCycle, also in insertion order. The bucket for curCycle is detached
// before any callback in it runs, so a callback rescheduling itself (or
// anything else) can never observe - or re-trigger - its own firing
// within this same tick.
func (c *Computer) CheckIntervals() {
	s := c.sched

	live := s.perTick[:0]
	for _, iv := range s.perTick {
		iv.callback(c)
		if iv.repeats == 1 {
			continue
		}
		if iv.repeats > 1 {
			iv.repeats--
		}
		live = append(live, iv)
	}
	s.perTick = live

	bucket, ok := s.delayed[c.curCycle]
	if !ok {
		return
	}
	delete(s.delayed, c.curCycle)

	for _, iv := range bucket {
		iv.callback(c)
		if iv.repeats == 1 {
			continue
		}
		if iv.repeats > 1 {
			iv.repeats--
		}
		key := c.curCycle + uint64(iv.cycleLength)
		s.delayed[key] = append(s.delayed[key], iv)
	}
}
