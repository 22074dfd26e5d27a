package config

import (
	"Stateforge/services/cache"
	"log"
	"os"
)

// ConnectCache connects the coherent read-cache to Redis. A failed ping is
// fatal at boot; once running, cache failures only degrade reads to misses.
func ConnectCache() (*cache.Client, error) {
	redisURI := os.Getenv("REDIS_URL")
	if redisURI == "" {
		redisURI = "localhost:6379"
	}

	cacheClient := cache.NewClient(redisURI, 0)
	if err := cacheClient.Ping(); err != nil {
		log.Printf("Error connecting to Redis: %v", err)
		return nil, err
	}
	log.Println("Redis connection established")
	return cacheClient, nil
}
