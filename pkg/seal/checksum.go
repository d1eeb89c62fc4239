package seal

const (
	checksumSeed       uint32 = 17
	checksumMultiplier uint32 = 31
)

// Checksum returns the 16-bit rolling checksum of data.
func Checksum(data []byte) uint16 {
	sum := checksumSeed
	for _, b := range data {
		sum = sum*checksumMultiplier + uint32(b)
	}
	return uint16(sum)
}
