package utils

import "encoding/binary"

// Float32ToInt16 clamps x to [-1, 1] and scales it to a signed 16-bit sample.
func Float32ToInt16(x float32) int16 {
	if x > 1 {
		x = 1
	} else if x < -1 {
		x = -1
	}

	return int16(x * 32767.0)
}

// Int16ToFloat32 is the inverse of Float32ToInt16.
func Int16ToFloat32(s int16) float32 {
	return float32(s) / 32767.0
}

// ConvertToInt16 converts src into dst and returns the number of samples written.
func ConvertToInt16(dst []int16, src []float32) int {
	n := min(len(dst), len(src))
	for i := range n {
		dst[i] = Float32ToInt16(src[i])
	}
	return n
}

// AppendPCM16LE appends samples to buf as little-endian 16-bit PCM.
func AppendPCM16LE(buf []byte, samples []float32) []byte {
	for _, s := range samples {
		buf = binary.LittleEndian.AppendUint16(buf, uint16(Float32ToInt16(s)))
	}
	return buf
}
