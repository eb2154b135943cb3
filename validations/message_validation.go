package validations

import (
	"context"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"

	domainMessage "github.com/finmsg/finmsg/domains/message"
	pkgError "github.com/finmsg/finmsg/pkg/error"
)

func ValidateFetchMessage(ctx context.Context, request domainMessage.FetchRequest) error {
	err := validation.ValidateStructWithContext(ctx, &request,
		validation.Field(&request.ClientID, validation.Required),
		validation.Field(&request.Environment, validation.Required, validation.In("live", "production", "sandbox", "stage", "local")),
		validation.Field(&request.BuyerCountry, validation.Length(2, 2)),
		validation.Field(&request.Amount, is.Float),
	)

	if err != nil {
		return pkgError.ValidationError(err.Error())
	}

	return nil
}
