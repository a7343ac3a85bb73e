// Package request разбирает и валидирует тела запросов, общие для нескольких обработчиков.
package request

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/subscription-tracker/internal/http/response"
	"github.com/magabrotheeeer/subscription-tracker/internal/models"
)

// DecodeSubscription читает тело запроса создания или изменения подписки.
// При ошибке возвращает готовое тело ответа 400.
func DecodeSubscription(r *http.Request, validate *validator.Validate) (models.SubscriptionInput, *response.ErrorResponse, error) {
	var req models.DummyEntry
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		resp := response.Error(response.MsgInvalidBody)
		return models.SubscriptionInput{}, &resp, err
	}
	req.Name = strings.TrimSpace(req.Name)

	if err := validate.Struct(req); err != nil {
		var verrs validator.ValidationErrors
		resp := response.Error(response.MsgInvalidBody)
		if errors.As(err, &verrs) {
			resp = response.ValidationError(verrs)
		}
		return models.SubscriptionInput{}, &resp, err
	}
	return req.Input(), nil, nil
}
