// Package export реализует HTTP-обработчик выгрузки подписок в CSV.
//
// Параметр scope выбирает объём: page (текущая страница выборки, по умолчанию)
// или all (все записи, подходящие под фильтры).
package export

import (
	"bytes"
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/subscription-tracker/internal/http/middlewarectx"
	"github.com/magabrotheeeer/subscription-tracker/internal/http/response"
	"github.com/magabrotheeeer/subscription-tracker/internal/lib/csvexport"
	"github.com/magabrotheeeer/subscription-tracker/internal/lib/sl"
	"github.com/magabrotheeeer/subscription-tracker/internal/models"
	"github.com/magabrotheeeer/subscription-tracker/internal/services/query"
	subservice "github.com/magabrotheeeer/subscription-tracker/internal/services/subscription"
)

// Filename имя файла во вложении.
const Filename = "subscriptions.csv"

// Handler обрабатывает запросы выгрузки.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс подготовки строк выгрузки.
type Service interface {
	Export(ctx context.Context, userID string, q models.ListQuery, scope string) ([]models.SubscriptionWithCost, error)
}

// New создает новый Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Выгрузка подписок в CSV
// @Tags Subscriptions
// @Produce  text/csv
// @Param scope query string false "Объём выгрузки" Enums(page, all) default(page)
// @Param page query int false "Номер страницы" default(1)
// @Param limit query int false "Размер страницы (1..50)" default(5)
// @Param cycle query string false "Период" Enums(Monthly, Quarterly, Annually)
// @Param search query string false "Подстрока имени"
// @Param sort_by query string false "Ключ сортировки" Enums(cost)
// @Param order query string false "Порядок" Enums(asc, desc)
// @Success 200 {string} string "CSV"
// @Failure 400 {object} response.ErrorResponse "Неизвестный scope"
// @Failure 401 {object} response.ErrorResponse
// @Failure 500 {object} response.ErrorResponse
// @Router /subscriptions/export [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.subscription.export"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	userID, ok := middlewarectx.UserUIDFromContext(r.Context())
	if !ok {
		log.Error("user id not found in context")
		render.Status(r, http.StatusUnauthorized)
		render.JSON(w, r, response.Error(response.MsgUnauthorized))
		return
	}

	scope := r.URL.Query().Get("scope")
	switch scope {
	case "":
		scope = subservice.ExportScopePage
	case subservice.ExportScopePage, subservice.ExportScopeAll:
	default:
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error("scope must be one of: page all"))
		return
	}

	rows, err := h.service.Export(r.Context(), userID, query.FromValues(r.URL.Query()), scope)
	if err != nil {
		log.Error("failed to prepare export", sl.Err(err))
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.Error(response.MsgInternal))
		return
	}

	var buf bytes.Buffer
	if err := csvexport.Write(&buf, rows); err != nil {
		log.Error("failed to render csv", sl.Err(err))
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.Error(response.MsgInternal))
		return
	}

	log.Info("subscriptions exported", slog.String("scope", scope), slog.Int("rows", len(rows)))
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="`+Filename+`"`)
	w.WriteHeader(http.StatusOK)
	if _, err := buf.WriteTo(w); err != nil {
		log.Error("failed to write csv", sl.Err(err))
	}
}
