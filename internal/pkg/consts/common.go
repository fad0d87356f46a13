package consts

const (
	MimePrefixImage = "image/"
)

const (
	AdTypeSale   = "sale"
	AdTypeRental = "rental"
)
