package cpu

import "encoding/binary"

// WordsToBytes converts instruction words to the little-endian wire form
// used by binary images.
func WordsToBytes(words []uint32) []byte {
	out := make([]byte, len(words)*BytesPerWord)
	for i, w := range words {
		binary.LittleEndian.PutUint32(out[i*BytesPerWord:], w)
	}
	return out
}

// BytesToWords interprets a binary image as little-endian 32-bit words.
// A trailing partial word is padded with zeroes.
func BytesToWords(b []byte) []uint32 {
	for len(b)%BytesPerWord != 0 {
		b = append(b, 0)
	}
	out := make([]uint32, len(b)/BytesPerWord)
	for i := range out {
		out[i] = binary.LittleEndian.Uint32(b[i*BytesPerWord:])
	}
	return out
}
