package common

// AccessTokenHeaderName is the gRPC metadata key used to carry the
// access token on outbound requests.
const AccessTokenHeaderName = "access_token"

// LocalCacheKey is the single storage key the client mirror lives under.
const LocalCacheKey = "gophfit_local_cache"

// DateLayout is the day/month/year layout used for profile birth dates.
const DateLayout = "02/01/2006"
