package engine

// delayLine aligns the dry signal with the processed signal for the delta
// monitor. Capacity is fixed at construction; the read tap follows the
// current latency report, so a factor or filter switch re-aligns on the next
// block without reallocation.
type delayLine struct {
	buf []float64
	pos int
}

func newDelayLine(capacity int) *delayLine {
	return &delayLine{buf: make([]float64, capacity)}
}

// process pushes x and returns the sample delayed by the given number of
// samples. A delay of zero returns x itself. Delays beyond capacity are
// clamped; the engine sizes the line for the worst-case pipeline latency.
func (d *delayLine) process(x float64, delay int) float64 {
	if delay <= 0 {
		d.push(x)
		return x
	}
	if delay >= len(d.buf) {
		delay = len(d.buf) - 1
	}

	idx := d.pos - delay
	if idx < 0 {
		idx += len(d.buf)
	}
	out := d.buf[idx]

	d.push(x)
	return out
}

func (d *delayLine) push(x float64) {
	d.buf[d.pos] = x
	d.pos++
	if d.pos == len(d.buf) {
		d.pos = 0
	}
}

func (d *delayLine) reset() {
	clear(d.buf)
	d.pos = 0
}
