package effects

// Effector processes a mono signal one sample at a time. Implementations must
// not allocate in Process.
type Effector interface {
	Process(x float64) float64
	Reset()
}

// rateSetter is implemented by effects whose coefficients depend on the
// sample rate.
type rateSetter interface {
	SetSampleRate(sampleRate float64) error
}

// Chain applies a sequence of effects in order. An empty chain passes the
// signal through.
type Chain struct {
	effects []Effector
}

func NewChain(effects ...Effector) *Chain {
	return &Chain{effects: effects}
}

func (c *Chain) Process(x float64) float64 {
	for _, e := range c.effects {
		x = e.Process(x)
	}
	return x
}

func (c *Chain) Reset() {
	for _, e := range c.effects {
		e.Reset()
	}
}

func (c *Chain) Add(e Effector) {
	c.effects = append(c.effects, e)
}

func (c *Chain) Len() int {
	return len(c.effects)
}

// SetSampleRate forwards the rate to every effect that depends on it and
// returns the first error.
func (c *Chain) SetSampleRate(sampleRate float64) error {
	for _, e := range c.effects {
		rs, ok := e.(rateSetter)
		if !ok {
			continue
		}
		if err := rs.SetSampleRate(sampleRate); err != nil {
			return err
		}
	}
	return nil
}
