package constants

// Category names a bucket of extracted location entities.
type Category string

// Administrative levels, outermost first, followed by street-level buckets.
const (
	Provinsi  Category = "provinsi"
	Kabupaten Category = "kabupaten"
	Kota      Category = "kota"
	Kecamatan Category = "kecamatan"
	Kelurahan Category = "kelurahan"
	Alamat    Category = "alamat"
	Perumahan Category = "perumahan"
	RTRW      Category = "rt_rw"
)

var allCategories = []Category{
	Provinsi,
	Kabupaten,
	Kota,
	Kecamatan,
	Kelurahan,
	Alamat,
	Perumahan,
}

// AsStringSlice returns the list-valued categories in containment order.
func AsStringSlice() []string {
	result := make([]string, len(allCategories))
	for i, cat := range allCategories {
		result[i] = string(cat)
	}
	return result
}
