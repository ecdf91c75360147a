package utils

import (
	"fmt"
	"os"
	"reflect"
	"strconv"
	"time"

	"github.com/experts-ly/money_backend/config"
)

func GetCacheLifespan() time.Duration {
	lifespan, err := strconv.Atoi(os.Getenv("CACHE_LIFESPAN"))
	if err != nil {
		lifespan = 1
	}
	return time.Duration(lifespan) * time.Hour
}

func GetTypeName[T any]() string {
	var v T
	typeOfT := reflect.TypeOf(v)
	return typeOfT.Name()
}

// StoreRedis caches one instance under Type:$id.
func StoreRedis[T any](obj any, id string) error {
	key := GetTypeName[T]() + ":" + fmt.Sprint(id)
	return config.SetRedisObject(key, &obj, GetCacheLifespan())
}

// RetrieveRedis returns nil when the key does not exist.
func RetrieveRedis[T any](id string) (*T, error) {
	var result *T
	key := GetTypeName[T]() + ":" + fmt.Sprint(id)
	exists, err := config.GetRedisObject(key, &result)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, nil
	}
	return result, nil
}

// RemoveRedisItem drops one cached instance, Type:$id.
func RemoveRedisItem[T any](id string) error {
	key := GetTypeName[T]() + ":" + fmt.Sprint(id)
	return config.RemoveRedisKey(key)
}
