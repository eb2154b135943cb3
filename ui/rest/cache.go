package rest

import (
	"github.com/gofiber/fiber/v2"

	domainMerchant "github.com/finmsg/finmsg/domains/merchant"
	domainMessage "github.com/finmsg/finmsg/domains/message"
	"github.com/finmsg/finmsg/pkg/utils"
)

type Cache struct {
	Service  domainMessage.IMessageCacheUsecase
	Profiles domainMerchant.IProfileCacheUsecase
}

func InitRestCache(app fiber.Router, service domainMessage.IMessageCacheUsecase, profiles domainMerchant.IProfileCacheUsecase) Cache {
	rest := Cache{Service: service, Profiles: profiles}
	app.Get("/cache/stats", rest.GetStats)
	app.Post("/cache/clear", rest.ClearCache)

	return rest
}

type cacheStatsResult struct {
	Messages domainMessage.CacheStats    `json:"messages"`
	Profiles domainMerchant.ProfileStats `json:"profiles"`
}

func (handler *Cache) GetStats(c *fiber.Ctx) error {
	return c.JSON(utils.ResponseData{
		Status:  200,
		Code:    "SUCCESS",
		Message: "Cache stats retrieved",
		Results: cacheStatsResult{
			Messages: handler.Service.Stats(),
			Profiles: handler.Profiles.Stats(),
		},
	})
}

func (handler *Cache) ClearCache(c *fiber.Ctx) error {
	handler.Service.Clear()

	return c.JSON(utils.ResponseData{
		Status:  200,
		Code:    "SUCCESS",
		Message: "Message cache cleared",
	})
}
