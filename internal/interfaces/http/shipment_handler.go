package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/telas-api/internal/application/dto"
	"github.com/jhoicas/telas-api/internal/application/inventory"
)

// ShipmentHandler despachos de rollos contra pedidos de clientes (protegido).
type ShipmentHandler struct {
	uc   *inventory.ShipmentUseCase
	docs *inventory.DocumentsUseCase
}

// NewShipmentHandler construye el handler.
func NewShipmentHandler(uc *inventory.ShipmentUseCase, docs *inventory.DocumentsUseCase) *ShipmentHandler {
	return &ShipmentHandler{uc: uc, docs: docs}
}

// Create godoc
// @Summary      Registrar despacho
// @Description  Descuenta cada par (línea, rollo, kg) válido; los pares inválidos se devuelven en rejected.
// @Description  Con política warn las líneas sobre-despachadas se listan en warnings.
// @Tags         shipments
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body      dto.CreateShipmentRequest  true  "pedido e ítems"
// @Success      201   {object}  dto.ShipmentResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Failure      503   {object}  dto.ErrorResponse
// @Router       /api/shipments [post]
func (h *ShipmentHandler) Create(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	userID := GetUserID(c)
	if companyID == "" || userID == "" {
		return unauthorized(c)
	}
	var req dto.CreateShipmentRequest
	if err := c.BodyParser(&req); err != nil {
		return badBody(c)
	}
	if err := validate.Struct(req); err != nil {
		return validationFailed(c, err)
	}

	in := inventory.ShipmentInput{
		CompanyID: companyID,
		UserID:    userID,
		OrderID:   req.OrderID,
		Note:      req.Note,
		Items:     make([]inventory.ShipmentItemInput, 0, len(req.Items)),
	}
	shipped, err := parseDay("shipment_date", req.ShipmentDate)
	if err != nil {
		return writeError(c, err)
	}
	in.ShipmentDate = shipped
	for _, it := range req.Items {
		in.Items = append(in.Items, inventory.ShipmentItemInput{
			OrderLineID: it.OrderLineID,
			RollID:      it.RollID,
			Quantity:    it.Quantity,
		})
	}

	res, err := h.uc.CreateShipment(c.UserContext(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.NewShipmentResponse(res))
}

// GetByID godoc
// @Summary      Obtener despacho
// @Tags         shipments
// @Security     Bearer
// @Produce      json
// @Param        id   path      string  true  "ID del despacho"
// @Success      200  {object}  dto.ShipmentResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/shipments/{id} [get]
func (h *ShipmentHandler) GetByID(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return unauthorized(c)
	}
	res, err := h.uc.GetShipment(c.UserContext(), companyID, c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.NewShipmentResponse(res))
}

// PackingList godoc
// @Summary      Lista de empaque en PDF
// @Tags         shipments
// @Security     Bearer
// @Produce      application/pdf
// @Param        id   path      string  true  "ID del despacho"
// @Success      200  {file}    binary
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/shipments/{id}/packing-list.pdf [get]
func (h *ShipmentHandler) PackingList(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return unauthorized(c)
	}
	doc, filename, err := h.docs.PackingListPDF(c.UserContext(), companyID, c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `inline; filename="`+filename+`"`)
	return c.Send(doc)
}
