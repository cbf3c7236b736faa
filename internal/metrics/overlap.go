package metrics

import (
	"github.com/san-kum/graphsim/internal/sim"
)

// Overlap is the mean summed penetration depth between node discs.
type Overlap struct {
	name    string
	sum     float64
	samples int
	last    float64
}

func NewOverlap() *Overlap {
	return &Overlap{name: "overlap"}
}

func (o *Overlap) Name() string {
	return o.name
}

func (o *Overlap) Observe(f *sim.Frame) {
	o.last = TotalOverlap(f.Bodies)
	o.sum += o.last
	o.samples++
}

func (o *Overlap) Value() float64 {
	if o.samples == 0 {
		return 0
	}
	return o.sum / float64(o.samples)
}

// Last is the overlap in the most recent frame.
func (o *Overlap) Last() float64 { return o.last }

func (o *Overlap) Reset() {
	o.sum = 0
	o.samples = 0
	o.last = 0
}

func TotalOverlap(bodies []sim.BodyState) float64 {
	var total float64
	for i := range bodies {
		for j := i + 1; j < len(bodies); j++ {
			pen := bodies[i].Radius + bodies[j].Radius - bodies[i].Pos.Dist(bodies[j].Pos)
			if pen > 0 {
				total += pen
			}
		}
	}
	return total
}
