package documents

import (
	"github.com/jhoicas/erp-ledger/internal/application/dto"
	"github.com/jhoicas/erp-ledger/internal/domain/entity"
)

func toDocumentResponse(v *entity.DocumentView) dto.DocumentResponse {
	out := dto.DocumentResponse{
		ID:                v.ID,
		DocType:           string(v.DocType),
		DocNo:             v.DocNo,
		Status:            string(v.Status),
		WarehouseID:       v.WarehouseID,
		WarehouseName:     v.WarehouseName,
		FromWarehouseID:   v.FromWarehouseID,
		FromWarehouseName: v.FromWarehouseName,
		ToWarehouseID:     v.ToWarehouseID,
		ToWarehouseName:   v.ToWarehouseName,
		PartnerID:         v.PartnerID,
		PartnerName:       v.PartnerName,
		DocDate:           v.DocDate,
		SourceDocID:       v.SourceDocID,
		SourceDocNo:       v.SourceDocNo,
		Remark:            v.Remark,
		CreatedBy:         v.CreatedBy,
		ApprovedBy:        v.ApprovedBy,
		CreatedAt:         v.CreatedAt,
		UpdatedAt:         v.UpdatedAt,
		ApprovedAt:        v.ApprovedAt,
		Lines:             make([]dto.DocumentLineResponse, 0, len(v.Lines)),
	}
	if v.ReceiptStatus != nil {
		s := string(*v.ReceiptStatus)
		out.ReceiptStatus = &s
	}
	for _, l := range v.Lines {
		out.Lines = append(out.Lines, dto.DocumentLineResponse{
			ID:          l.ID,
			LineNo:      l.LineNo,
			ProductID:   l.ProductID,
			ProductSKU:  l.ProductSKU,
			ProductName: l.ProductName,
			Quantity:    l.Quantity,
			UOM:         l.UOM,
			UnitPrice:   l.UnitPrice,
			BatchNo:     l.BatchNo,
			ExpiryDate:  l.ExpiryDate,
			Remark:      l.Remark,
		})
	}
	return out
}
