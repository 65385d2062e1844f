package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/invoice-form/internal/application/dto"
	"github.com/jhoicas/invoice-form/internal/application/form"
)

// FormHandler expone las sesiones del formulario de factura. Cada respuesta
// devuelve el estado completo (filas, tasas y totales) tras aplicar el evento.
type FormHandler struct {
	uc *form.SessionUseCase
}

// NewFormHandler construye el handler.
func NewFormHandler(uc *form.SessionUseCase) *FormHandler {
	return &FormHandler{uc: uc}
}

// Open godoc
// @Summary      Abrir formulario
// @Description  Crea una sesión con una fila por defecto y totales en 0.00.
// @Tags         forms
// @Produce      json
// @Success      201  {object}  dto.FormResponse
// @Security     BearerAuth
// @Router       /api/forms [post]
func (h *FormHandler) Open(c *fiber.Ctx) error {
	return c.Status(fiber.StatusCreated).JSON(h.uc.Open(c.UserContext()))
}

// Get godoc
// @Summary      Estado del formulario
// @Tags         forms
// @Produce      json
// @Param        id   path  string  true  "ID de la sesión"
// @Success      200  {object}  dto.FormResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Security     BearerAuth
// @Router       /api/forms/{id} [get]
func (h *FormHandler) Get(c *fiber.Ctx) error {
	out, err := h.uc.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Discard godoc
// @Summary      Descartar formulario
// @Tags         forms
// @Param        id   path  string  true  "ID de la sesión"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Security     BearerAuth
// @Router       /api/forms/{id} [delete]
func (h *FormHandler) Discard(c *fiber.Ctx) error {
	if err := h.uc.Discard(c.UserContext(), c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// AddRow godoc
// @Summary      Agregar fila
// @Tags         forms
// @Produce      json
// @Param        id   path  string  true  "ID de la sesión"
// @Success      201  {object}  dto.FormResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Security     BearerAuth
// @Router       /api/forms/{id}/rows [post]
func (h *FormHandler) AddRow(c *fiber.Ctx) error {
	out, err := h.uc.AddRow(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// RemoveRow godoc
// @Summary      Eliminar fila
// @Description  Quita la fila y recalcula. Una fila inexistente no cambia el estado.
// @Tags         forms
// @Produce      json
// @Param        id     path  string  true  "ID de la sesión"
// @Param        rowId  path  string  true  "ID de la fila"
// @Success      200    {object}  dto.FormResponse
// @Failure      404    {object}  dto.ErrorResponse
// @Security     BearerAuth
// @Router       /api/forms/{id}/rows/{rowId} [delete]
func (h *FormHandler) RemoveRow(c *fiber.Ctx) error {
	out, err := h.uc.RemoveRow(c.UserContext(), c.Params("id"), c.Params("rowId"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Input godoc
// @Summary      Editar campo de fila
// @Description  Un evento por tecla: guarda el texto y, si es quantity o price, recalcula.
// @Tags         forms
// @Accept       json
// @Produce      json
// @Param        id     path  string                 true  "ID de la sesión"
// @Param        rowId  path  string                 true  "ID de la fila"
// @Param        body   body  dto.FieldInputRequest  true  "field, value"
// @Success      200    {object}  dto.FormResponse
// @Failure      400    {object}  dto.ErrorResponse
// @Failure      404    {object}  dto.ErrorResponse
// @Security     BearerAuth
// @Router       /api/forms/{id}/rows/{rowId} [patch]
func (h *FormHandler) Input(c *fiber.Ctx) error {
	var in dto.FieldInputRequest
	if err := bindBody(c, &in); err != nil {
		return respondError(c, err)
	}
	out, err := h.uc.Input(c.UserContext(), c.Params("id"), c.Params("rowId"), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// SetRate godoc
// @Summary      Asignar tasa de impuesto o descuento
// @Tags         forms
// @Accept       json
// @Produce      json
// @Param        id    path  string                true  "ID de la sesión"
// @Param        body  body  dto.RateInputRequest  true  "field, value"
// @Success      200   {object}  dto.FormResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Security     BearerAuth
// @Router       /api/forms/{id}/rates [patch]
func (h *FormHandler) SetRate(c *fiber.Ctx) error {
	var in dto.RateInputRequest
	if err := bindBody(c, &in); err != nil {
		return respondError(c, err)
	}
	out, err := h.uc.SetRate(c.UserContext(), c.Params("id"), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Submit godoc
// @Summary      Enviar formulario
// @Description  Guarda el formulario como factura (nueva o la que se está editando) y cierra la sesión.
// @Tags         forms
// @Accept       json
// @Produce      json
// @Param        id    path  string                 true  "ID de la sesión"
// @Param        body  body  dto.SubmitFormRequest  true  "client_name"
// @Success      200   {object}  dto.InvoiceResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Security     BearerAuth
// @Router       /api/forms/{id}/submit [post]
func (h *FormHandler) Submit(c *fiber.Ctx) error {
	var in dto.SubmitFormRequest
	if err := bindBody(c, &in); err != nil {
		return respondError(c, err)
	}
	out, err := h.uc.Submit(c.UserContext(), c.Params("id"), in.ClientName)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}
