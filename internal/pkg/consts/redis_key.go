package consts

const (
	TokenBlacklistKey = "auth:token:blacklist:"
	ApartmentListKey  = "apartment:list"
	AdExpiryLockKey   = "lock:job:ad-expiry"
)
