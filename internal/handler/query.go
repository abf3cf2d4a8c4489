package handler

import (
	"fmt"
	"strconv"

	"github.com/gin-gonic/gin"
)

// queryInt читает необязательный целочисленный параметр запроса
func queryInt(c *gin.Context, name string, def int) (int, error) {
	raw := c.Query(name)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s", name)
	}
	return v, nil
}

// queryUint читает необязательный положительный идентификатор; пустое значение дает nil
func queryUint(c *gin.Context, name string) (*uint, error) {
	raw := c.Query(name)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || v == 0 {
		return nil, fmt.Errorf("invalid %s", name)
	}
	id := uint(v)
	return &id, nil
}

// queryBool читает необязательный флаг; принимает значения strconv.ParseBool
func queryBool(c *gin.Context, name string) (bool, error) {
	raw := c.Query(name)
	if raw == "" {
		return false, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false, fmt.Errorf("invalid %s", name)
	}
	return v, nil
}

// pageParams читает page и limit; нормализация диапазонов выполняется в сервисах
func pageParams(c *gin.Context) (page, limit int, err error) {
	if page, err = queryInt(c, "page", 1); err != nil {
		return 0, 0, err
	}
	if limit, err = queryInt(c, "limit", 0); err != nil {
		return 0, 0, err
	}
	return page, limit, nil
}
