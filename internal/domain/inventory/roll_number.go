package inventory

import (
	"fmt"
	"math/rand"
	"sync"
	"time"
)

// RollNumberGenerator produce candidatos de número de rollo.
// wide=true pide el rango amplio (4 dígitos) usado tras una colisión.
type RollNumberGenerator interface {
	Next(wide bool) string
}

// TimeRollNumbers genera PREFIJO + YYMMDD-HHMMSS-NN a partir del reloj y un azar.
type TimeRollNumbers struct {
	Prefix string
	Now    func() time.Time

	mu  sync.Mutex
	rnd *rand.Rand
}

// NewTimeRollNumbers generador con reloj real.
func NewTimeRollNumbers(prefix string) *TimeRollNumbers {
	return &TimeRollNumbers{
		Prefix: prefix,
		Now:    time.Now,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (g *TimeRollNumbers) Next(wide bool) string {
	now := time.Now
	if g.Now != nil {
		now = g.Now
	}
	t := now()

	g.mu.Lock()
	if g.rnd == nil {
		g.rnd = rand.New(rand.NewSource(t.UnixNano()))
	}
	var suffix string
	if wide {
		suffix = fmt.Sprintf("%04d", g.rnd.Intn(10000))
	} else {
		suffix = fmt.Sprintf("%02d", g.rnd.Intn(100))
	}
	g.mu.Unlock()

	return g.Prefix + t.Format("060102-150405") + "-" + suffix
}
