package utils

const pageSizeDefault = 50
const pageSizeMax = 500

// GetPaginationParams calculates the offset and limit for paginated catalogue
// listings. Nil values fall back to defaults and the limit is capped so a
// single request cannot pull the whole table.
func GetPaginationParams(offset *int, limit *int) (int, int) {
	finalOffset := 0
	finalLimit := pageSizeDefault

	if offset != nil && *offset >= 0 {
		finalOffset = *offset
	}

	if limit != nil && *limit > 0 {
		finalLimit = min(*limit, pageSizeMax)
	}

	return finalOffset, finalLimit
}
