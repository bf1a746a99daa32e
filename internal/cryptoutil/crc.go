package cryptoutil

// crcTable is generated once for the cksum-style, MSB-first CRC-32 variant
// with polynomial 0x04C11DB7. This is the classic reflected-complement of
// hash/crc32.IEEE: IEEE's table processes bits LSB-first over the reflected
// polynomial 0xEDB88320, so it cannot stand in here — the protocol's CRC is
// hand-rolled the same way Chksum.h hand-rolls memcrc.
var crcTable = buildCRCTable()

const crcPolynomial uint32 = 0x04C11DB7

func buildCRCTable() [256]uint32 {
	var table [256]uint32
	for i := 0; i < 256; i++ {
		c := uint32(i) << 24
		for j := 0; j < 8; j++ {
			if c&0x80000000 != 0 {
				c = (c << 1) ^ crcPolynomial
			} else {
				c = c << 1
			}
		}
		table[i] = c
	}
	return table
}

func crcUpdate(crc uint32, b byte) uint32 {
	return (crc << 8) ^ crcTable[(byte(crc>>24)^b)&0xFF]
}

// CRC32 computes the protocol's cksum-style CRC-32 over plaintext, per
// spec §4.7: every byte of the input first, then the input's length fed
// low-octet-first until it reaches zero, then the running value is
// bit-inverted.
func CRC32(plaintext []byte) uint32 {
	var crc uint32
	for _, b := range plaintext {
		crc = crcUpdate(crc, b)
	}
	n := uint64(len(plaintext))
	for n != 0 {
		crc = crcUpdate(crc, byte(n&0xFF))
		n >>= 8
	}
	return ^crc
}
