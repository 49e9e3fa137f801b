package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/telas-api/internal/application/dto"
	"github.com/jhoicas/telas-api/internal/application/inventory"
	"github.com/jhoicas/telas-api/internal/domain/entity"
)

// ReceiptHandler recepción de rollos contra órdenes de compra (protegido).
type ReceiptHandler struct {
	uc *inventory.ReceiveUseCase
}

// NewReceiptHandler construye el handler.
func NewReceiptHandler(uc *inventory.ReceiveUseCase) *ReceiptHandler {
	return &ReceiptHandler{uc: uc}
}

// Create godoc
// @Summary      Registrar recepción de rollos
// @Description  Crea un lote de recepción con un rollo por ítem y actualiza lo recibido de cada línea.
// @Description  Si alguna línea excede lo pendiente responde 409 OVERAGE_WARNING; reenviar con force=true.
// @Tags         receipts
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body      dto.CreateReceiptRequest  true  "orden de compra e ítems"
// @Success      201   {object}  dto.ReceiptResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Failure      503   {object}  dto.ErrorResponse
// @Router       /api/receipts [post]
func (h *ReceiptHandler) Create(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	userID := GetUserID(c)
	if companyID == "" || userID == "" {
		return unauthorized(c)
	}
	var req dto.CreateReceiptRequest
	if err := c.BodyParser(&req); err != nil {
		return badBody(c)
	}
	if err := validate.Struct(req); err != nil {
		return validationFailed(c, err)
	}

	in := inventory.ReceiptInput{
		CompanyID:       companyID,
		UserID:          userID,
		PurchaseOrderID: req.PurchaseOrderID,
		Note:            req.Note,
		Force:           req.Force,
		Items:           make([]inventory.ReceiptItemInput, 0, len(req.Items)),
	}
	arrival, err := parseDay("arrival_date", req.ArrivalDate)
	if err != nil {
		return writeError(c, err)
	}
	in.ArrivalDate = arrival
	for _, it := range req.Items {
		in.Items = append(in.Items, inventory.ReceiptItemInput{
			OrderLineID: it.OrderLineID,
			Quantity:    it.Quantity,
			Quality:     entity.Quality(it.Quality),
			WarehouseID: it.WarehouseID,
			Shelf:       it.Shelf,
		})
	}

	res, err := h.uc.CreateReceipt(c.UserContext(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.NewReceiptResponse(res.Batch, res.Rolls, res.Lines))
}

// GetByID godoc
// @Summary      Obtener recepción
// @Tags         receipts
// @Security     Bearer
// @Produce      json
// @Param        id   path      string  true  "ID del lote de recepción"
// @Success      200  {object}  dto.ReceiptResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/receipts/{id} [get]
func (h *ReceiptHandler) GetByID(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return unauthorized(c)
	}
	res, err := h.uc.GetReceipt(c.UserContext(), companyID, c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.NewReceiptResponse(res.Batch, res.Rolls, res.Lines))
}
