package config

var defaults = map[string]any{
	"secret":    "",
	"log_level": "info",

	"listen_addr": ":8080",

	"session_ttl": 30, // minutes
	"nonce_store": "memory",

	"allowed_networks":     "",
	"cors_allowed_origins": "http://localhost:3000",

	"support_url": DEFAULT_SUPPORT_URL,
	"base_url":    "",

	"catalog_file": "",

	"api.base_url": "",
	"api.key":      "",
	"api.version":  "v1",
	"api.timeout":  20,

	"cache.type":           "memory",
	"cache.ttl":            30,
	"cache.redis.addr":     "localhost:6379",
	"cache.redis.password": "",
	"cache.redis.db":       0,

	"email.host":     "",
	"email.port":     25,
	"email.username": "",
	"email.password": "",
	"email.from":     "noreply@parcelpoint.co.ke",
	"email.to":       "hello@squared.co.ke",

	"storage.sqlite.path": "./data/storage.db",
}

func Defaults() map[string]any {
	values := make(map[string]any)
	for k, v := range defaults {
		values[k] = v
	}
	return values
}
