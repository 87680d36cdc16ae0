package display

type touchEvent struct {
	obj Drawable
	ev  Event
}

// sampleTouch reads one sample, stores it and dispatches the difference to
// the previous one. A busy touch lock skips the cycle.
func (d *Driver) sampleTouch() {
	if !d.touchMu.TryLock(d.cfg.TouchTimeout) {
		return
	}
	was, ox, oy := d.touched, d.tx, d.ty
	is, nx, ny := false, ox, oy
	if d.touch != nil {
		if x, y, ok := d.touch.GetXY(); ok {
			is, nx, ny = true, x, y
		}
	}
	d.touched, d.tx, d.ty = is, nx, ny
	d.touchMu.Unlock()

	d.dispatch(was, is, ox, oy, nx, ny)
}

// dispatch walks the list from the top and collects the events for one
// sample pair under the line lock, then delivers them without it so that
// handlers may change their objects.
func (d *Driver) dispatch(was, is bool, ox, oy, nx, ny int) {
	if !was && !is {
		return
	}
	evs := d.events[:0]

	d.line.Lock()
	for i := d.list.tail; i != nilNode; i = d.list.nodes[i].prev {
		obj := d.list.nodes[i].obj
		o := obj.base()
		if !o.active {
			continue
		}
		b := o.bounds
		ev := Event{X: nx, Y: ny, PrevX: ox, PrevY: oy}
		switch {
		case was && is && ox == nx && oy == ny:
			if !b.Contains(nx, ny) {
				continue
			}
			ev.Action = ActionHold
		case was && is:
			in, out := b.Contains(nx, ny), b.Contains(ox, oy)
			switch {
			case in && out:
				ev.Action = ActionMove
			case in:
				ev.Action = ActionMoveIn
			case out:
				// The object the pointer left hears about it; the search for
				// the new owner goes on.
				evs = append(evs, touchEvent{obj, Event{Action: ActionMoveOut, X: nx, Y: ny, PrevX: ox, PrevY: oy}})
				continue
			default:
				continue
			}
		case is:
			if !b.Contains(nx, ny) {
				continue
			}
			ev = Event{Action: ActionTouch, X: nx, Y: ny, PrevX: nx, PrevY: ny}
		default:
			if !b.Contains(ox, oy) {
				continue
			}
			ev = Event{Action: ActionUntouch, X: ox, Y: oy, PrevX: ox, PrevY: oy}
		}
		evs = append(evs, touchEvent{obj, ev})
		break
	}
	d.line.Unlock()

	for i, te := range evs {
		if d.cfg.DebugTouch {
			d.logf("display: %s at (%d,%d)", te.ev.Action, te.ev.X, te.ev.Y)
		}
		te.obj.OnAction(te.ev)
		evs[i] = touchEvent{}
	}
	d.events = evs[:0]
}

// GetTouchXY returns the sample the composer took last. ok is false when
// the screen was not touched, touch is disabled or the touch lock is busy.
func (d *Driver) GetTouchXY() (x, y int, ok bool) {
	if !d.touchMu.TryLock(d.cfg.TouchTimeout) {
		return 0, 0, false
	}
	defer d.touchMu.Unlock()
	if d.touch == nil || !d.touched {
		return 0, 0, false
	}
	return d.tx, d.ty, true
}

// IsTouched asks the touchscreen whether it is touched now.
func (d *Driver) IsTouched() bool {
	if !d.touchMu.TryLock(d.cfg.TouchTimeout) {
		return false
	}
	defer d.touchMu.Unlock()
	return d.touch != nil && d.touch.IsTouched()
}
