package fund

func discriminator(t AccountType) []byte {
	return []byte{byte(t), 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00}
}

func putDiscriminator(dst []byte, v []byte, offset *int) {
	copy(dst[*offset:], v)
	*offset += 8
}

func getDiscriminator(src []byte, dst *[]byte, offset *int) {
	*dst = make([]byte, 8)
	copy(*dst, src[*offset:])
	*offset += 8
}
