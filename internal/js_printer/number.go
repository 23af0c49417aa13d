package js_printer

import (
	"math"
	"strconv"
	"strings"

	"github.com/yonasBSD/mako/internal/js_ast"
)

func (p *printer) printNumber(value float64, level js_ast.L) {
	switch {
	case math.IsNaN(value):
		p.printSpaceBeforeIdentifier()
		p.print("NaN")

	case math.IsInf(value, 1):
		p.printSpaceBeforeIdentifier()
		p.print("Infinity")

	case math.IsInf(value, -1):
		if level >= js_ast.LPrefix {
			p.print("(-Infinity)")
		} else {
			p.printSpaceBeforeOperator(js_ast.UnOpNeg)
			p.print("-Infinity")
		}

	case !math.Signbit(value):
		p.printSpaceBeforeIdentifier()
		p.print(formatNonNegativeNumber(value, p.options.MinifyWhitespace))
		p.prevNumEnd = len(p.js)

	case level >= js_ast.LPrefix:
		// Signbit is used instead of "value < 0" so that "-0" is wrapped too,
		// as in "(-0).toString()"
		p.print("(-")
		p.print(formatNonNegativeNumber(-value, p.options.MinifyWhitespace))
		p.print(")")

	default:
		p.printSpaceBeforeOperator(js_ast.UnOpNeg)
		p.print("-")
		p.print(formatNonNegativeNumber(-value, p.options.MinifyWhitespace))
		p.prevNumEnd = len(p.js)
	}
}

// formatNonNegativeNumber returns the shortest of the plain and the exponent
// spellings of a finite number, preferring the plain one on a tie:
//
//   1000    => 1e3
//   1200    => 1200
//   0.001   => 1e-3 (or .001 when minifying)
//   1.5e300 => 15e299
func formatNonNegativeNumber(value float64, minify bool) string {
	// Integers below 1000 are never shorter with an exponent
	if value < 1000 && value == math.Trunc(value) {
		return strconv.Itoa(int(value))
	}

	// Split the shortest round-tripping form into its significant digits and
	// the power of ten applied to them, so that value == digits * 10^exponent
	mantissa, exp, _ := strings.Cut(strconv.FormatFloat(value, 'e', -1, 64), "e")
	digits := strings.Replace(mantissa, ".", "", 1)
	power, _ := strconv.Atoi(exp)
	exponent := power - (len(digits) - 1)

	plain := plainNumber(digits, exponent, minify)
	if exponent == 0 {
		return plain
	}
	if scientific := digits + "e" + strconv.Itoa(exponent); len(scientific) < len(plain) {
		return scientific
	}
	return plain
}

func plainNumber(digits string, exponent int, minify bool) string {
	if exponent >= 0 {
		return digits + strings.Repeat("0", exponent)
	}
	point := len(digits) + exponent
	if point > 0 {
		return digits[:point] + "." + digits[point:]
	}
	leading := "0."
	if minify {
		leading = "."
	}
	return leading + strings.Repeat("0", -point) + digits
}
