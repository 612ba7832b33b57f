package numfield

import (
	"fmt"
	"strings"
	"sync"

	"github.com/lindqvist/opfactor/ball"
)

// NumberField is a simple algebraic extension of Q given by a monic
// minimal polynomial and a chosen complex embedding (identified by its
// approximate root, refined to arbitrary precision on demand by Newton
// iteration). §9's "global ring caches" note is implemented here as an
// explicit fingerprint-keyed lookup instead of a process-wide cache of
// structurally-equal-but-not-identical rings.
type NumberField struct {
	MinPoly    []Rational // monic, degree+1 entries, lowest degree first
	Degree     int
	approxRoot complex128 // seed for Newton refinement
	fp         string

	mu     sync.Mutex
	cached ball.Elem // last refined root, reused if precision suffices
}

var (
	fieldCacheMu sync.RWMutex
	fieldCache   = map[string]*NumberField{}
)

// Fingerprint identifies a number field by its minimal polynomial and
// embedding, independent of pointer identity.
func (k *NumberField) Fingerprint() string { return k.fp }

func fingerprint(minPoly []Rational, approxRoot complex128) string {
	var b strings.Builder
	for _, c := range minPoly {
		b.WriteString(c.String())
		b.WriteByte(',')
	}
	fmt.Fprintf(&b, "@%g%+gi", real(approxRoot), imag(approxRoot))
	return b.String()
}

// NewNumberField constructs (or returns the cached) number field with
// the given monic minimal polynomial and approximate embedding root.
func NewNumberField(minPoly []Rational, approxRoot complex128) *NumberField {
	if len(minPoly) < 2 || !minPoly[len(minPoly)-1].Equal(QOne) {
		panic("numfield: minimal polynomial must be monic of degree >= 1")
	}

	fp := fingerprint(minPoly, approxRoot)

	fieldCacheMu.RLock()
	if kf, ok := fieldCache[fp]; ok {
		fieldCacheMu.RUnlock()
		return kf
	}
	fieldCacheMu.RUnlock()

	kf := &NumberField{
		MinPoly:    minPoly,
		Degree:     len(minPoly) - 1,
		approxRoot: approxRoot,
		fp:         fp,
	}

	fieldCacheMu.Lock()
	defer fieldCacheMu.Unlock()
	if existing, ok := fieldCache[fp]; ok {
		return existing
	}
	fieldCache[fp] = kf
	return kf
}

// QNumberField is the (cached, degree-1) representation of Q itself,
// useful when code needs to treat Q uniformly as a NumberField.
var QNumberField = NewNumberField([]Rational{QZero, QOne}, 0)

// Root returns the chosen embedding of the generator, refined by
// Newton iteration in ball arithmetic until its customized accuracy is
// at least prec bits.
func (k *NumberField) Root(prec uint) ball.Elem {
	k.mu.Lock()
	defer k.mu.Unlock()

	if k.cached.Re != nil && k.cached.CustomizedAccuracy() >= int(prec) {
		return k.cached.Rounded(prec)
	}

	work := prec + 16
	x := ball.Exact(real(k.approxRoot), imag(k.approxRoot), work)

	for iter := 0; iter < 64; iter++ {
		f, fp := k.evalDeriv(x, work)
		if fp.IsZero() {
			break
		}
		delta := f.Div(fp)
		x = x.Sub(delta)
		if x.CustomizedAccuracy() >= int(prec) {
			break
		}
		work *= 2
		x = x.Rounded(work)
	}

	k.cached = x
	return x.Rounded(prec)
}

// evalDeriv evaluates the minimal polynomial and its derivative at x by
// Horner's method, in ball arithmetic.
func (k *NumberField) evalDeriv(x ball.Elem, prec uint) (f, fp ball.Elem) {
	f = ball.Zero(prec)
	fp = ball.Zero(prec)
	for i := len(k.MinPoly) - 1; i >= 0; i-- {
		fp = fp.Mul(x).Add(f)
		f = f.Mul(x).Add(k.MinPoly[i].Ball(prec))
	}
	return f, fp
}

// reduceModMinPoly reduces a coefficient slice (lowest degree first, of
// any length) to length Degree, using x^Degree = -sum(minpoly[i]*x^i).
func (k *NumberField) reduceModMinPoly(c []Rational) []Rational {
	out := make([]Rational, len(c))
	copy(out, c)

	lead := k.MinPoly[k.Degree] // == 1, monic
	_ = lead

	for deg := len(out) - 1; deg >= k.Degree; deg-- {
		coeff := out[deg]
		if coeff.IsZero() {
			continue
		}
		out[deg] = QZero
		for i := 0; i < k.Degree; i++ {
			out[deg-k.Degree+i] = out[deg-k.Degree+i].Sub(coeff.Mul(k.MinPoly[i]))
		}
	}

	return out[:k.Degree]
}
