package storage

const (
	BusImages       = "bus-images"
	BusinessImages  = "business-images"
	CompanyImages   = "company-images"
	ExecutiveImages = "executive-images"
	OperatorImages  = "operator-images"
	VendorImages    = "vendor-images"
)

// AllBuckets lists every bucket the server uses, in creation order.
var AllBuckets = []string{
	BusImages,
	BusinessImages,
	CompanyImages,
	ExecutiveImages,
	OperatorImages,
	VendorImages,
}
