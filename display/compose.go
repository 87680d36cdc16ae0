package display

import (
	"context"
	"time"

	"tftkit/hal"
	"tftkit/kernel"
)

// FillSpan paints screen columns from..to (inclusive) of a row buffer whose
// first pixel is screen column x0, clipping to the buffer.
func FillSpan(buf []hal.Color, x0, from, to int, c hal.Color) {
	from -= x0
	to -= x0
	if from < 0 {
		from = 0
	}
	if to >= len(buf) {
		to = len(buf) - 1
	}
	for i := from; i <= to; i++ {
		buf[i] = c
	}
}

// ensureBuffers sizes both scanlines for the longest line of the panel.
// Caller holds the frame lock.
func (d *Driver) ensureBuffers() {
	n := d.cfg.MaxLine
	if n <= 0 {
		n = max(d.panel.Width(), d.panel.Height())
	}
	size := 2 * n
	if prep, ok := d.panel.(hal.DataPreparer); ok {
		size = max(size, prep.PixelDataCount(n))
	}
	for i := range d.bufs {
		if len(d.bufs[i].pix) < n {
			d.bufs[i].pix = make([]hal.Color, n)
		}
		if len(d.bufs[i].raw) < size {
			d.bufs[i].raw = make([]byte, size)
		}
	}
}

// waitTransfer yields until the panel has taken the last scanline.
func (d *Driver) waitTransfer() {
	if d.panel == nil {
		return
	}
	for !d.panel.IsTransferComplete() {
		kernel.Yield()
	}
}

// repaint sends every area that was dirty when it started. A frame lock held
// elsewhere for longer than FrameTimeout skips the repaint; the areas stay
// queued and the next cycle retries. Areas invalidated during the repaint
// also request another cycle.
func (d *Driver) repaint(ctx context.Context) {
	if d.panel == nil {
		return
	}
	fctx, err := d.frame.Lock(ctx, d.cfg.FrameTimeout)
	if err != nil {
		d.update.Give()
		return
	}
	defer d.frame.Unlock(fctx)
	defer d.retryDirty()
	d.ensureBuffers()

	d.line.Lock()
	n := d.areas.Len()
	d.line.Unlock()

	start := time.Now()
	rows := 0
	var last Rect
	for i := 0; i < n; i++ {
		d.line.Lock()
		r, ok := d.areas.TakeNext()
		d.line.Unlock()
		if !ok {
			break
		}
		if err := d.paint(r); err != nil {
			d.logf("display: paint %v: %v", r, err)
			continue
		}
		rows += r.Dy()
		last = r
	}
	if n > 0 {
		d.recordFrame(rows, last, time.Since(start))
	}
}

func (d *Driver) retryDirty() {
	d.line.Lock()
	dirty := d.areas.Dirty()
	d.line.Unlock()
	if dirty {
		d.update.Give()
	}
}

// paint streams area r, given in scan space, to the panel. Scanlines are
// rendered into one buffer while the other is on the wire.
func (d *Driver) paint(r Rect) error {
	limit := len(d.bufs[0].pix)
	for x0 := r.X0; x0 <= r.X1; x0 += limit {
		part := Rect{X0: x0, Y0: r.Y0, X1: min(x0+limit-1, r.X1), Y1: r.Y1}
		if err := d.paintPart(part); err != nil {
			return err
		}
	}
	return nil
}

func (d *Driver) paintPart(r Rect) error {
	if err := d.panel.SetAddrWindow(r.X0, r.Y0, r.X1, r.Y1); err != nil {
		return err
	}
	prep, _ := d.panel.(hal.DataPreparer)
	if prep != nil && !prep.IsDataNeedPreparation() {
		prep = nil
	}

	n := r.Dx()
	for y := r.Y0; y <= r.Y1; y++ {
		sl := &d.bufs[y&1]
		buf := sl.pix[:n]

		d.line.Lock()
		if d.mode == UpdateLeftRight {
			d.renderColumn(buf, r, y)
		} else {
			d.renderRow(buf, r.X0, y)
		}
		d.line.Unlock()
		if d.cfg.DebugArea && (y == r.Y0 || y == r.Y1) {
			FillSpan(buf, 0, 0, n-1, debugAreaColor)
		} else if d.cfg.DebugArea {
			buf[0], buf[n-1] = debugAreaColor, debugAreaColor
		}

		var size int
		if prep != nil {
			size = prep.PrepareData(sl.raw, buf)
		} else {
			size = hal.PackRGB565(sl.raw, buf)
		}

		d.waitTransfer()
		if err := d.panel.WriteDataStream(sl.raw[:size]); err != nil {
			d.waitTransfer()
			return err
		}
	}
	d.waitTransfer()
	return d.panel.StopTransfer()
}

// renderRow composes screen row y starting at column x0. Caller holds line.
func (d *Driver) renderRow(buf []hal.Color, x0, y int) {
	for i := range buf {
		buf[i] = d.bg
	}
	span := Rect{X0: x0, Y0: y, X1: x0 + len(buf) - 1, Y1: y}
	for i := d.list.head; i != nilNode; i = d.list.nodes[i].next {
		obj := d.list.nodes[i].obj
		if obj.base().bounds.Overlaps(span) {
			obj.DrawRow(buf, y, x0)
		}
	}
}

// renderColumn composes scan line y of transposed area r: screen column y,
// from the bottom of the area up. Caller holds line.
func (d *Driver) renderColumn(buf []hal.Color, r Rect, y int) {
	x := y
	ys0 := d.height - 1 - r.X1
	for i := range buf {
		buf[i] = d.bg
	}
	span := Rect{X0: x, Y0: ys0, X1: x, Y1: ys0 + len(buf) - 1}
	for i := d.list.head; i != nilNode; i = d.list.nodes[i].next {
		obj := d.list.nodes[i].obj
		b := obj.base().bounds.Intersect(span)
		if b.Empty() {
			continue
		}
		if cd, ok := obj.(ColumnDrawer); ok {
			cd.DrawColumn(buf, x, ys0)
			continue
		}
		for sy := b.Y0; sy <= b.Y1; sy++ {
			d.px[0] = buf[sy-ys0]
			obj.DrawRow(d.px[:], sy, x)
			buf[sy-ys0] = d.px[0]
		}
	}
	for i, j := 0, len(buf)-1; i < j; i, j = i+1, j-1 {
		buf[i], buf[j] = buf[j], buf[i]
	}
}
