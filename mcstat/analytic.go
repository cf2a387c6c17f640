package mcstat

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat/distuv"
)

// Chi2 computes the reduced chi-square of theoretical values fitted to
// data with the given uncertainties.
func Chi2(data, uncertainties, fit []float64, degreesOfFreedom int) (float64, error) {
	if len(data) != len(uncertainties) || len(data) != len(fit) {
		return 0, fmt.Errorf("mcstat: mismatched lengths %d/%d/%d",
			len(data), len(uncertainties), len(fit))
	}
	if degreesOfFreedom < 1 {
		return 0, fmt.Errorf("mcstat: degrees of freedom must be positive, got %d", degreesOfFreedom)
	}
	sum := 0.0
	for i := range data {
		d := data[i] - fit[i]
		sum += d * d / (uncertainties[i] * uncertainties[i])
	}
	return sum / float64(degreesOfFreedom), nil
}

// GaussianRatioPDF evaluates the analytic probability density of the
// ratio z = x/y of two independent normal variables x ~ N(muNum, sigNum)
// and y ~ N(muDenom, sigDenom). Used to validate the Monte Carlo
// propagation of division.
func GaussianRatioPDF(z, muNum, sigNum, muDenom, sigDenom float64) float64 {
	a := ratioA(z, sigNum, sigDenom)
	b := ratioB(z, muNum, sigNum, muDenom, sigDenom)
	c := muNum*muNum/(sigNum*sigNum) + muDenom*muDenom/(sigDenom*sigDenom)
	d := math.Exp((b*b - c*a*a) / (2 * a * a))

	stdNorm := distuv.UnitNormal

	return b*d/(a*a*a)*
		(1/(math.Sqrt(2*math.Pi)*sigNum*sigDenom))*
		(stdNorm.CDF(b/a)-stdNorm.CDF(-b/a)) +
		math.Exp(-c/2)/(a*a*math.Pi*sigNum*sigDenom)
}

func ratioA(z, sigNum, sigDenom float64) float64 {
	return math.Sqrt(z*z/(sigNum*sigNum) + 1/(sigDenom*sigDenom))
}

func ratioB(z, muNum, sigNum, muDenom, sigDenom float64) float64 {
	return z*muNum/(sigNum*sigNum) + muDenom/(sigDenom*sigDenom)
}
