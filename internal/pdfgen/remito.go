// Package pdfgen renders delivery receipts (remitos) for finalized orders.
// It is a read-only consumer of the order aggregate and only ever uses the
// snapshot fields, so a remito stays correct after products or price lists
// are edited or deleted.
package pdfgen

import (
	"bytes"
	"fmt"

	"github.com/go-pdf/fpdf"

	"eltetu/internal/models"
)

var statusLabels = map[models.Status]string{
	models.StatusPendiente:     "Pendiente",
	models.StatusEnPreparacion: "En Preparación",
	models.StatusFacturado:     "Facturado",
	models.StatusEntregado:     "Entregado",
	models.StatusRechazado:     "Rechazado",
	models.StatusConfirmado:    "Confirmado",
	models.StatusCancelado:     "Cancelado",
}

// StatusLabel returns the Spanish display label for a status.
func StatusLabel(s models.Status) string {
	if label, ok := statusLabels[s]; ok {
		return label
	}
	return string(s)
}

// Remito renders the delivery receipt PDF for an order.
func Remito(order *models.Order) ([]byte, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetMargins(20, 20, 20)
	pdf.AddPage()

	// Encabezado
	pdf.SetFont("Helvetica", "B", 24)
	pdf.SetTextColor(107, 45, 139)
	pdf.CellFormat(0, 12, tr("El Tetú"), "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "B", 16)
	pdf.SetTextColor(51, 51, 51)
	pdf.CellFormat(0, 10, "REMITO DE ENTREGA", "", 1, "C", false, 0, "")
	pdf.SetDrawColor(107, 45, 139)
	pdf.Line(20, pdf.GetY()+2, 190, pdf.GetY()+2)
	pdf.Ln(8)

	// Datos del pedido
	pdf.SetFont("Helvetica", "B", 11)
	pdf.SetTextColor(107, 45, 139)
	pdf.CellFormat(0, 7, "DATOS DEL PEDIDO", "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	pdf.SetTextColor(0, 0, 0)
	pdf.CellFormat(0, 6, tr(fmt.Sprintf("Pedido N° %s", order.ID)), "", 1, "L", false, 0, "")
	if order.Customer != nil {
		pdf.CellFormat(0, 6, tr(fmt.Sprintf("Cliente: %s", order.Customer.FullName())), "", 1, "L", false, 0, "")
	}
	pdf.CellFormat(0, 6, tr(fmt.Sprintf("Estado: %s", StatusLabel(order.Status))), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 6, fmt.Sprintf("Fecha: %s", order.CreatedAt.Format("02/01/2006 15:04")), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 6, tr(fmt.Sprintf("Lista de precios: %s", order.PriceListLabel())), "", 1, "L", false, 0, "")
	pdf.Ln(4)

	// Items: name/code come from the snapshots, never from a live product.
	pdf.SetFont("Helvetica", "B", 11)
	pdf.SetTextColor(107, 45, 139)
	pdf.CellFormat(0, 7, "ITEMS", "", 1, "L", false, 0, "")

	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetTextColor(255, 255, 255)
	pdf.SetFillColor(107, 45, 139)
	pdf.CellFormat(30, 7, tr("Código"), "1", 0, "L", true, 0, "")
	pdf.CellFormat(75, 7, "Producto", "1", 0, "L", true, 0, "")
	pdf.CellFormat(20, 7, "Cant.", "1", 0, "R", true, 0, "")
	pdf.CellFormat(22, 7, "P. Unit.", "1", 0, "R", true, 0, "")
	pdf.CellFormat(23, 7, "Subtotal", "1", 1, "R", true, 0, "")

	pdf.SetFont("Helvetica", "", 9)
	pdf.SetTextColor(0, 0, 0)
	for _, item := range order.Items {
		pdf.CellFormat(30, 6, tr(item.ProductCode), "1", 0, "L", false, 0, "")
		pdf.CellFormat(75, 6, tr(item.ProductName), "1", 0, "L", false, 0, "")
		pdf.CellFormat(20, 6, fmt.Sprintf("%d", item.Quantity), "1", 0, "R", false, 0, "")
		pdf.CellFormat(22, 6, "$"+item.UnitPrice.StringFixed(2), "1", 0, "R", false, 0, "")
		pdf.CellFormat(23, 6, "$"+item.Subtotal.StringFixed(2), "1", 1, "R", false, 0, "")
	}
	pdf.Ln(4)

	// Totales
	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(0, 6, "Subtotal: $"+order.Subtotal.StringFixed(2), "", 1, "R", false, 0, "")
	pdf.CellFormat(0, 6, "Descuento: $"+order.DiscountTotal.StringFixed(2), "", 1, "R", false, 0, "")
	pdf.SetFont("Helvetica", "B", 14)
	pdf.CellFormat(0, 9, "TOTAL: $"+order.Total.StringFixed(2), "", 1, "R", false, 0, "")

	if order.Notes != "" {
		pdf.Ln(4)
		pdf.SetFont("Helvetica", "B", 11)
		pdf.SetTextColor(107, 45, 139)
		pdf.CellFormat(0, 7, "NOTAS", "", 1, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 10)
		pdf.SetTextColor(0, 0, 0)
		pdf.MultiCell(0, 6, tr(order.Notes), "", "L", false)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to render remito for order %s: %w", order.ID, err)
	}
	return buf.Bytes(), nil
}
