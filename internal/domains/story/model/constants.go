package model

const (
	// Content limits
	MaxTitleLength = 200
	MaxBodyLength  = 10000

	// Cache keys
	PublicFeedCacheKey = "stories:public"
)
