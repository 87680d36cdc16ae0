package display

import "time"

// Stats describes the composer's recent work.
type Stats struct {
	Frames    uint64        `json:"frames"`
	Rows      uint64        `json:"rows"`
	LastArea  Rect          `json:"last_area"`
	LastFrame time.Duration `json:"last_frame_ns"`
	// FPS is in tenths of a frame per second, computed from LastFrame.
	FPS uint32 `json:"fps_x10"`
}

// Stats returns a snapshot of the frame statistics.
func (d *Driver) Stats() Stats {
	d.statsMu.Lock()
	defer d.statsMu.Unlock()
	return d.stats
}

func (d *Driver) recordFrame(rows int, last Rect, took time.Duration) {
	d.statsMu.Lock()
	defer d.statsMu.Unlock()
	d.stats.Frames++
	d.stats.Rows += uint64(rows)
	d.stats.LastArea = last
	d.stats.LastFrame = took
	if ms := took.Milliseconds(); ms > 0 {
		d.stats.FPS = uint32(10 * 1000 / ms)
	} else {
		d.stats.FPS = 0
	}
}

func (d *Driver) debugInfo() {
	if !d.cfg.DebugInfo {
		return
	}
	now := time.Now()
	d.statsMu.Lock()
	if now.Sub(d.logged) < time.Second {
		d.statsMu.Unlock()
		return
	}
	d.logged = now
	s := d.stats
	d.statsMu.Unlock()

	if x, y, ok := d.GetTouchXY(); ok {
		d.logf("display: X: %4d, Y: %4d", x, y)
		return
	}
	d.logf("display: FPS: %2d.%1d, frames: %d, last: %v", s.FPS/10, s.FPS%10, s.Frames, s.LastArea)
}
