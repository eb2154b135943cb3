package rest

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/finmsg/finmsg/config"
	domainMerchant "github.com/finmsg/finmsg/domains/merchant"
	domainMessage "github.com/finmsg/finmsg/domains/message"
	pkgError "github.com/finmsg/finmsg/pkg/error"
	"github.com/finmsg/finmsg/pkg/utils"
	"github.com/finmsg/finmsg/validations"
)

type Message struct {
	Service  domainMessage.IMessageCacheUsecase
	Profiles domainMerchant.IProfileCacheUsecase
}

func InitRestMessage(app fiber.Router, service domainMessage.IMessageCacheUsecase, profiles domainMerchant.IProfileCacheUsecase) Message {
	rest := Message{Service: service, Profiles: profiles}
	app.Get("/message", rest.FetchMessage)

	return rest
}

type messageResult struct {
	Content         domainMessage.MessageContent `json:"content"`
	RequestDuration int64                        `json:"request_duration_ms"`
}

func (handler *Message) FetchMessage(c *fiber.Ctx) error {
	var request domainMessage.FetchRequest
	err := c.QueryParser(&request)
	utils.PanicIfNeeded(err)

	utils.PanicIfNeeded(validations.ValidateFetchMessage(c.UserContext(), request))

	query := request.ToQuery()

	type outcome struct {
		response *domainMessage.MessageResponse
		err      error
	}
	done := make(chan outcome, 1)

	// Profile first, then message, mirroring the orchestrator's fetch
	// path. Both layers prefer their synchronous cache-hit paths.
	handler.Profiles.ResolveHash(query.Environment, query.ClientID, query.MerchantID, func(hash *string) {
		resolved := query
		if hash != nil {
			resolved.MerchantProfileHash = *hash
		}
		handler.Service.Fetch(resolved, func(response *domainMessage.MessageResponse, err error) {
			done <- outcome{response: response, err: err}
		})
	})

	select {
	case out := <-done:
		if out.err != nil {
			status, code := 500, "INTERNAL_SERVER_ERROR"
			if typed, ok := out.err.(pkgError.GenericError); ok {
				status, code = typed.StatusCode(), typed.ErrCode()
			}
			return c.Status(status).JSON(utils.ResponseData{
				Status:  status,
				Code:    code,
				Message: out.err.Error(),
			})
		}
		return c.JSON(utils.ResponseData{
			Status:  200,
			Code:    "SUCCESS",
			Message: "Message retrieved",
			Results: messageResult{
				Content:         out.response.Content,
				RequestDuration: out.response.RequestDuration.Milliseconds(),
			},
		})
	case <-time.After(config.RequestTimeout + 5*time.Second):
		return c.Status(fiber.StatusGatewayTimeout).JSON(utils.ResponseData{
			Status:  fiber.StatusGatewayTimeout,
			Code:    "GATEWAY_TIMEOUT",
			Message: "Message fetch did not complete in time",
		})
	}
}
