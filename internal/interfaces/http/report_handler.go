package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/swarna-khata-api/internal/application/analytics"
)

// ReportHandler reportes de ventas y cartera.
type ReportHandler struct {
	uc *analytics.ReportsUseCase
}

// NewReportHandler construye el handler.
func NewReportHandler(uc *analytics.ReportsUseCase) *ReportHandler {
	return &ReportHandler{uc: uc}
}

// Sales godoc
// @Summary      Reporte de ventas del periodo
// @Description  Sin fechas toma el mes en curso.
// @Tags         reports
// @Security     Bearer
// @Produce      json
// @Param        from  query  string  false  "Desde (YYYY-MM-DD)"
// @Param        to    query  string  false  "Hasta inclusive (YYYY-MM-DD)"
// @Success      200  {object}  dto.SalesReport
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      402  {object}  dto.ErrorResponse
// @Router       /api/reports/sales [get]
func (h *ReportHandler) Sales(c *fiber.Ctx) error {
	from, to, err := h.uc.Period(c.Query("from"), c.Query("to"))
	if err != nil {
		return respondError(c, err)
	}
	out, err := h.uc.SalesReport(c.UserContext(), GetShopID(c), from, to)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// CustomerDues godoc
// @Summary      Saldos pendientes por cliente
// @Tags         reports
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.CustomerDuesReport
// @Failure      402  {object}  dto.ErrorResponse
// @Router       /api/reports/dues [get]
func (h *ReportHandler) CustomerDues(c *fiber.Ctx) error {
	out, err := h.uc.CustomerDues(c.UserContext(), GetShopID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}
