package cache

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"recomendador/internal/config"

	"github.com/redis/go-redis/v9"
)

var client *redis.Client

func InitRedis(cfg *config.Config) {
	client = redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPass,
		DB:       0,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		log.Fatalf("[redis] error conectando: %v", err)
	}

	log.Println("[redis] OK")
}

// =======================================================
//  Helpers JSON para usar desde los servicios
// =======================================================

// GetJSON lee una key de Redis, si existe deserializa el JSON en `dest`.
func GetJSON(ctx context.Context, key string, dest any) (bool, error) {
	if client == nil {
		return false, nil
	}

	val, err := client.Get(ctx, key).Result()
	if err == redis.Nil {
		// no existe la clave
		return false, nil
	}
	if err != nil {
		return false, err
	}

	if err := json.Unmarshal([]byte(val), dest); err != nil {
		return false, err
	}
	return true, nil
}

// SetJSON serializa `value` a JSON y lo guarda en Redis.
// ttlSeconds <= 0 significa sin expiración (los snapshots CF valen hasta que
// se borren o se reconstruyan explícitamente).
func SetJSON(ctx context.Context, key string, value any, ttlSeconds int) error {
	if client == nil {
		return nil
	}

	b, err := json.Marshal(value)
	if err != nil {
		return err
	}

	var ttl time.Duration
	if ttlSeconds > 0 {
		ttl = time.Duration(ttlSeconds) * time.Second
	}
	return client.Set(ctx, key, b, ttl).Err()
}

// Del borra una o más claves (invalidación explícita).
func Del(ctx context.Context, keys ...string) error {
	if client == nil || len(keys) == 0 {
		return nil
	}
	return client.Del(ctx, keys...).Err()
}

// DelByPattern borra todas las claves que matcheen el patrón (SCAN + DEL).
func DelByPattern(ctx context.Context, pattern string) (int, error) {
	if client == nil {
		return 0, nil
	}
	var deleted int
	iter := client.Scan(ctx, 0, pattern, 100).Iterator()
	for iter.Next(ctx) {
		if err := client.Del(ctx, iter.Val()).Err(); err != nil {
			return deleted, err
		}
		deleted++
	}
	return deleted, iter.Err()
}

// =======================================================
//  Adaptador BlobStore para los snapshots de recsys
// =======================================================

// Store expone los helpers como recsys.BlobStore.
type Store struct{}

func NewStore() *Store { return &Store{} }

func (s *Store) Load(ctx context.Context, key string, dest any) (bool, error) {
	return GetJSON(ctx, key, dest)
}

func (s *Store) Save(ctx context.Context, key string, value any, ttlSeconds int) error {
	return SetJSON(ctx, key, value, ttlSeconds)
}

func (s *Store) Delete(ctx context.Context, key string) error {
	return Del(ctx, key)
}
