package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/telas-api/internal/application/dto"
	"github.com/jhoicas/telas-api/internal/application/inventory"
	"github.com/jhoicas/telas-api/internal/domain/repository"
)

// RollHandler consulta de rollos.
type RollHandler struct {
	uc *inventory.StockUseCase
}

// NewRollHandler construye el handler.
func NewRollHandler(uc *inventory.StockUseCase) *RollHandler {
	return &RollHandler{uc: uc}
}

// ListAvailable godoc
// @Summary      Rollos disponibles de un producto
// @Tags         rolls
// @Security     Bearer
// @Produce      json
// @Param        product_id    query     string  true   "producto"
// @Param        color         query     string  false  "color"
// @Param        warehouse_id  query     string  false  "bodega"
// @Success      200  {object}  dto.ListResponse[dto.RollResponse]
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/rolls [get]
func (h *RollHandler) ListAvailable(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return unauthorized(c)
	}
	var q dto.RollListQuery
	if err := c.QueryParser(&q); err != nil {
		return badBody(c)
	}
	if err := validate.Struct(q); err != nil {
		return validationFailed(c, err)
	}
	rolls, err := h.uc.ListAvailableRolls(c.UserContext(), companyID, repository.RollFilter{
		ProductID:   q.ProductID,
		Color:       q.Color,
		WarehouseID: q.WarehouseID,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.NewList(dto.NewRollResponses(rolls)))
}

// GetByID godoc
// @Summary      Obtener rollo
// @Tags         rolls
// @Security     Bearer
// @Produce      json
// @Param        id   path      string  true  "ID del rollo"
// @Success      200  {object}  dto.RollResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/rolls/{id} [get]
func (h *RollHandler) GetByID(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return unauthorized(c)
	}
	roll, err := h.uc.GetRoll(c.UserContext(), companyID, c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.NewRollResponse(*roll))
}
