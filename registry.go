package postings

// Descriptor names one codec for command-line front ends and test drivers:
// a short flag, a long flag, a human-readable name, and the codec itself.
type Descriptor struct {
	Short string
	Long  string
	Name  string
	Codec Codec
}

// codecs is the immutable process-lifetime registry, constructed once at
// program start. Simple-9 packed carries scratch state, so the shared
// instance here must not see concurrent Encode calls; callers that need
// parallel encoding construct their own with NewSimple9.
var codecs = []Descriptor{
	{"-cn", "--compress_none", "None", NewNone()},
	{"-cv", "--compress_vbyte", "Variable Byte", NewVarByte()},
	{"-cs", "--compress_stream_vbyte", "Stream VByte", NewStreamVByte()},
	{"-cg", "--compress_elias_gamma", "Elias Gamma", NewEliasGamma()},
	{"-cd", "--compress_elias_delta", "Elias Delta", NewEliasDelta()},
	{"-c9", "--compress_simple_9_packed", "Simple-9 Packed", NewSimple9()},
	{"-c6", "--compress_simple_16", "Simple-16", NewSimple16()},
	{"-c8", "--compress_simple_8b", "Simple-8b", NewSimple8b()},
	{"-cb", "--compress_bitpack_32", "Bitpack-32", mustBitPack(32)},
	{"-cB", "--compress_bitpack_256", "Bitpack-256", mustBitPack(256)},
}

func mustBitPack(wordBits int) *BitPack {
	b, err := NewBitPack(wordBits)
	if err != nil {
		panic(err)
	}
	return b
}

// Codecs returns the registry. The returned slice is shared; callers must
// treat it as read-only.
func Codecs() []Descriptor {
	return codecs
}

// Lookup resolves either flag form, or the human-readable name, to its
// registry entry.
func Lookup(flag string) (Descriptor, bool) {
	for _, d := range codecs {
		if d.Short == flag || d.Long == flag || d.Name == flag {
			return d, true
		}
	}
	return Descriptor{}, false
}
