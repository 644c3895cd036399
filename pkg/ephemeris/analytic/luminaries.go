package analytic

// sunLongitude is the apparent geocentric longitude of the Sun (Meeus ch. 25,
// low accuracy).
func sunLongitude(t float64) float64 {
	l0 := 280.46646 + 36000.76983*t + 0.0003032*t*t
	m := 357.52911 + 35999.05029*t - 0.0001537*t*t
	c := (1.914602-0.004817*t-0.000014*t*t)*sind(m) +
		(0.019993-0.000101*t)*sind(2*m) +
		0.000289*sind(3*m)
	omega := 125.04 - 1934.136*t
	return l0 + c - 0.00569 - 0.00478*sind(omega)
}

// meanNode is the longitude of the mean ascending lunar node (Meeus 47.7).
func meanNode(t float64) float64 {
	return 125.0445479 - 1934.1362891*t + 0.0020754*t*t + t*t*t/467441
}

type lunarTerm struct {
	d, m, mp, f float64 // multiples of D, M, M', F
	coeff       float64 // degrees
}

// Largest periodic terms of Meeus tables 47.A and 47.B.
var lunarLongitude = []lunarTerm{
	{0, 0, 1, 0, 6.288774},
	{2, 0, -1, 0, 1.274027},
	{2, 0, 0, 0, 0.658314},
	{0, 0, 2, 0, 0.213618},
	{0, 1, 0, 0, -0.185116},
	{0, 0, 0, 2, -0.114332},
	{2, 0, -2, 0, 0.058793},
	{2, -1, -1, 0, 0.057066},
	{2, 0, 1, 0, 0.053322},
	{2, -1, 0, 0, 0.045758},
	{0, 1, -1, 0, -0.040923},
	{1, 0, 0, 0, -0.034720},
	{0, 1, 1, 0, -0.030383},
	{2, 0, 0, -2, 0.015327},
	{0, 0, 1, 2, -0.012528},
	{0, 0, 1, -2, 0.010980},
	{4, 0, -1, 0, 0.010675},
	{0, 0, 3, 0, 0.010034},
	{4, 0, -2, 0, 0.008548},
	{2, 1, -1, 0, -0.007888},
	{2, 1, 0, 0, -0.006766},
	{1, 0, -1, 0, -0.005163},
	{1, 1, 0, 0, 0.004987},
	{2, -1, 1, 0, 0.004036},
}

var lunarLatitude = []lunarTerm{
	{0, 0, 0, 1, 5.128122},
	{0, 0, 1, 1, 0.280602},
	{0, 0, 1, -1, 0.277693},
	{2, 0, 0, -1, 0.173237},
	{2, 0, -1, 1, 0.055413},
	{2, 0, -1, -1, 0.046271},
	{2, 0, 0, 1, 0.032573},
	{0, 0, 2, 1, 0.017198},
	{2, 0, 1, -1, 0.009266},
	{0, 0, 2, -1, 0.008822},
}

// moon returns the geocentric longitude and latitude of the Moon.
func moon(t float64) (lon, lat float64) {
	lp := 218.3164477 + 481267.88123421*t - 0.0015786*t*t
	d := 297.8501921 + 445267.1114034*t - 0.0018819*t*t
	m := 357.5291092 + 35999.0502909*t - 0.0001536*t*t
	mp := 134.9633964 + 477198.8675055*t + 0.0087414*t*t
	f := 93.2720950 + 483202.0175233*t - 0.0036539*t*t
	e := 1 - 0.002516*t - 0.0000074*t*t

	sum := func(terms []lunarTerm) float64 {
		var s float64
		for _, k := range terms {
			arg := k.d*d + k.m*m + k.mp*mp + k.f*f
			c := k.coeff
			switch k.m {
			case 1, -1:
				c *= e
			case 2, -2:
				c *= e * e
			}
			s += c * sind(arg)
		}
		return s
	}

	// Nutation in longitude, dominant term.
	omega := 125.04452 - 1934.136261*t
	nutation := -17.20 / 3600 * sind(omega)

	return lp + sum(lunarLongitude) + nutation, sum(lunarLatitude)
}
