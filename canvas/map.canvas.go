package canvas

// Map linearly maps value from [inLo, inHi] onto [outLo, outHi].
// Values outside the input range extrapolate; inLo == inHi yields Inf or NaN.
func Map(value, inLo, inHi, outLo, outHi float32) float32 {
	return outLo + (value-inLo)/(inHi-inLo)*(outHi-outLo)
}
