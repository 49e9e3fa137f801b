package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/telas-api/internal/application/dto"
	"github.com/jhoicas/telas-api/internal/application/inventory"
)

// StockHandler resumen, pendientes, alertas y umbrales.
type StockHandler struct {
	uc   *inventory.StockUseCase
	docs *inventory.DocumentsUseCase
}

// NewStockHandler construye el handler.
func NewStockHandler(uc *inventory.StockUseCase, docs *inventory.DocumentsUseCase) *StockHandler {
	return &StockHandler{uc: uc, docs: docs}
}

// Summary godoc
// @Summary      Resumen de stock por producto y color
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.ListResponse[dto.StockSummaryRow]
// @Router       /api/stock/summary [get]
func (h *StockHandler) Summary(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return unauthorized(c)
	}
	positions, err := h.uc.GetStockSummary(c.UserContext(), companyID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.NewList(dto.NewStockSummaryRows(positions)))
}

// SummaryXLSX godoc
// @Summary      Resumen de stock en Excel
// @Tags         stock
// @Security     Bearer
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Success      200  {file}  binary
// @Router       /api/stock/summary.xlsx [get]
func (h *StockHandler) SummaryXLSX(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return unauthorized(c)
	}
	doc, err := h.docs.StockSummaryXLSX(c.UserContext(), companyID)
	if err != nil {
		return writeError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="stock.xlsx"`)
	return c.Send(doc)
}

// PendingInbound godoc
// @Summary      Líneas de compra pendientes por recibir
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.ListResponse[entity.PendingLine]
// @Router       /api/stock/pending-inbound [get]
func (h *StockHandler) PendingInbound(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return unauthorized(c)
	}
	lines, err := h.uc.GetPendingInbound(c.UserContext(), companyID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.NewList(lines))
}

// PendingOutbound godoc
// @Summary      Líneas de pedido pendientes por despachar
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.ListResponse[entity.PendingLine]
// @Router       /api/stock/pending-outbound [get]
func (h *StockHandler) PendingOutbound(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return unauthorized(c)
	}
	lines, err := h.uc.GetPendingOutbound(c.UserContext(), companyID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.NewList(lines))
}

// Alerts godoc
// @Summary      Alertas de stock bajo
// @Description  Sin level devuelve warning y critical, de más a menos urgente.
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        level  query     string  false  "ok | warning | critical"
// @Success      200    {object}  dto.ListResponse[dto.AlertResponse]
// @Failure      400    {object}  dto.ErrorResponse
// @Router       /api/stock/alerts [get]
func (h *StockHandler) Alerts(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return unauthorized(c)
	}
	var q dto.AlertQuery
	if err := c.QueryParser(&q); err != nil {
		return badBody(c)
	}
	if err := validate.Struct(q); err != nil {
		return validationFailed(c, err)
	}
	alerts, err := h.uc.GetStockAlerts(c.UserContext(), companyID, q.Level)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.NewList(dto.NewAlertResponses(alerts)))
}

// ListThresholds godoc
// @Summary      Umbrales de alerta configurados
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.ListResponse[dto.ThresholdResponse]
// @Router       /api/stock/thresholds [get]
func (h *StockHandler) ListThresholds(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return unauthorized(c)
	}
	list, err := h.uc.ListThresholds(c.UserContext(), companyID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.NewList(dto.NewThresholdResponses(list)))
}

// SetThreshold godoc
// @Summary      Fijar umbral de alerta de un producto
// @Tags         stock
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        product_id  path      string                true  "producto"
// @Param        body        body      dto.ThresholdRequest  true  "kg"
// @Success      200         {object}  dto.ThresholdResponse
// @Failure      400         {object}  dto.ErrorResponse
// @Router       /api/stock/thresholds/{product_id} [put]
func (h *StockHandler) SetThreshold(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return unauthorized(c)
	}
	var req dto.ThresholdRequest
	if err := c.BodyParser(&req); err != nil {
		return badBody(c)
	}
	t, err := h.uc.SetThreshold(c.UserContext(), companyID, c.Params("product_id"), req.Quantity)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.NewThresholdResponse(*t))
}

// ClearThreshold godoc
// @Summary      Quitar umbral de alerta de un producto
// @Tags         stock
// @Security     Bearer
// @Param        product_id  path  string  true  "producto"
// @Success      204
// @Router       /api/stock/thresholds/{product_id} [delete]
func (h *StockHandler) ClearThreshold(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return unauthorized(c)
	}
	if err := h.uc.ClearThreshold(c.UserContext(), companyID, c.Params("product_id")); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
