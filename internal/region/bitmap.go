package region

import "math/bits"

// blockCountOf returns the number of BLOCK_SIZE blocks needed to cover
// size bytes: ceil(size / blockSize).
func blockCountOf(size, blockSize uintptr) int {
	return int((size + blockSize - 1) / blockSize)
}

// blockMask returns a mask with b contiguous bits set starting at bit
// index i: ((1 << b) - 1) << i. Callers must ensure b+i <= wordBits.
func blockMask(b, i int) uint64 {
	return ((uint64(1) << uint(b)) - 1) << uint(i)
}

// findRun scans bitmap for the lowest bit index i such that i+b <= wordBits
// and the b bits starting at i are all zero — first-fit from the LSB. It
// alternates between counting a run of zero bits (a candidate) and, when
// that run is too short, skipping over the blocking run of one bits,
// exactly mirroring the skip-ones/count-zeros walk spec.md describes.
func findRun(bitmap uint64, b int) (int, bool) {
	if b <= 0 || b > wordBits {
		return 0, false
	}

	i := 0
	for i+b <= wordBits {
		window := bitmap >> uint(i)

		zeros := bits.TrailingZeros64(window)
		if zeros >= b {
			return i, true
		}

		ones := bits.TrailingZeros64(^(window >> uint(zeros)))
		i += zeros + ones
	}

	return 0, false
}
