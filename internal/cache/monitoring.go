package cache

import (
	"net/http"

	"github.com/go-redis/redis/v8"
	"github.com/princekumarofficial/autohouse-service/internal/utils/response"
)

// CacheStats represents cache performance statistics
type CacheStats struct {
	RedisConnected bool     `json:"redis_connected"`
	CacheKeys      []string `json:"cache_keys_sample"`
	KeyCount       int      `json:"total_keys"`
}

// clearPatterns maps the ?type= values accepted by ClearCache.
var clearPatterns = map[string]string{
	"catalog":    CatalogPattern,
	"rate_limit": "rate_limit:*",
	"all":        "*",
}

func sampleKeys(r *http.Request, redisClient *redis.Client, pattern string, max int) ([]string, error) {
	var keys []string
	iter := redisClient.Scan(r.Context(), 0, pattern, 100).Iterator()
	for iter.Next(r.Context()) {
		keys = append(keys, iter.Val())
		if max > 0 && len(keys) >= max {
			break
		}
	}
	return keys, iter.Err()
}

// GetCacheStats returns cache performance statistics
// @Summary Cache statistics
// @Tags admin
// @Produce json
// @Success 200 {object} response.Response
// @Security BearerAuth
// @Router /admin/cache/stats [get]
func GetCacheStats(redisClient *redis.Client) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		stats := CacheStats{RedisConnected: true}

		if err := redisClient.Ping(ctx).Err(); err != nil {
			stats.RedisConnected = false
			response.WriteJSON(w, http.StatusOK, response.RequestOK("Cache stats retrieved", stats))
			return
		}

		if keys, err := sampleKeys(r, redisClient, CatalogPattern, 10); err == nil {
			stats.CacheKeys = keys
		}

		if size, err := redisClient.DBSize(ctx).Result(); err == nil {
			stats.KeyCount = int(size)
		}

		response.WriteJSON(w, http.StatusOK, response.RequestOK("Cache stats retrieved", stats))
	}
}

// ClearCache deletes the keys selected by ?type= (catalog, rate_limit or all)
// @Summary Clear cache
// @Tags admin
// @Produce json
// @Param type query string false "catalog, rate_limit or all"
// @Success 200 {object} response.Response
// @Security BearerAuth
// @Router /admin/cache [delete]
func ClearCache(redisClient *redis.Client) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cacheType := r.URL.Query().Get("type")
		if cacheType == "" {
			cacheType = "catalog"
		}
		pattern, ok := clearPatterns[cacheType]
		if !ok {
			response.WriteJSON(w, http.StatusBadRequest, response.GeneralError(errUnknownType(cacheType)))
			return
		}

		keys, err := sampleKeys(r, redisClient, pattern, 0)
		if err != nil {
			response.WriteJSON(w, http.StatusInternalServerError, response.GeneralError(err))
			return
		}

		var deleted int64
		if len(keys) > 0 {
			deleted, err = redisClient.Del(r.Context(), keys...).Result()
			if err != nil {
				response.WriteJSON(w, http.StatusInternalServerError, response.GeneralError(err))
				return
			}
		}

		response.WriteJSON(w, http.StatusOK, response.RequestOK("Cache cleared", map[string]interface{}{
			"pattern":      pattern,
			"deleted_keys": deleted,
		}))
	}
}

type errUnknownType string

func (e errUnknownType) Error() string {
	return "unknown cache type: " + string(e)
}
