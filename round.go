package uncertain

import "math"

// RoundPDG rounds a {mean, sigma_low, sigma_up} triple to display
// precision following the Particle Data Group recommendation: the three
// leading digits of the smallest nonzero entry pick the precision.
// 100-354 keeps two significant digits, 355-949 keeps one, 950 and above
// rounds up to two.
func RoundPDG(mean, sigmaLow, sigmaUp float64) [3]float64 {
	if sigmaLow == 0 && sigmaUp == 0 {
		return [3]float64{mean, 0, 0}
	}

	arr := [3]float64{mean, sigmaLow, sigmaUp}

	// A mean far below the uncertainty scale carries no information;
	// display it as zero.
	if arr[0] != 0 && arr[1] > 0 && arr[2] > 0 &&
		math.Abs(arr[0])/math.Min(arr[1], arr[2]) < 0.1 {
		arr[0] = 0
	}

	smallest := math.Inf(1)
	for _, v := range arr {
		if v > 0 && v < smallest {
			smallest = v
		}
	}
	if math.IsInf(smallest, 1) {
		return arr
	}

	firstDigit := math.Floor(math.Log10(smallest))
	firstThree := math.Round(smallest * math.Pow(10, -firstDigit+2))

	digits := 1.0
	if firstThree >= 355 && firstThree <= 949 {
		digits = 0
	}

	scale := math.Pow(10, -firstDigit+digits)
	for i := range arr {
		arr[i] = math.Round(arr[i]*scale) / scale
	}
	return arr
}
