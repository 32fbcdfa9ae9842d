package handlers

import (
	"net/http"
	"time"

	"cement-works/internal/database"
	"cement-works/internal/ledger"
	"cement-works/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func purchasePreloads(db *gorm.DB) *gorm.DB {
	return db.Preload("PurchaseOrders.Payments").Preload("PurchaseOrders.Deliveries").Preload("UsageLogs")
}

func purchaseResponse(p models.Purchase) gin.H {
	return gin.H{"purchase": p, "summary": ledger.SummarizePurchase(p)}
}

func GetPurchases(c *gin.Context) {
	var purchases []models.Purchase
	if err := purchasePreloads(database.DB).Order("updated_at desc").Find(&purchases).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch purchase records"})
		return
	}
	out := make([]gin.H, 0, len(purchases))
	for _, p := range purchases {
		out = append(out, purchaseResponse(p))
	}
	c.JSON(http.StatusOK, out)
}

func GetPurchase(c *gin.Context) {
	var purchase models.Purchase
	if err := purchasePreloads(database.DB).First(&purchase, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Purchase record not found", "kind": string(ledger.KindNotFound)})
		return
	}
	c.JSON(http.StatusOK, purchaseResponse(purchase))
}

type CreatePurchaseRequest struct {
	MaterialName      string          `json:"material_name" binding:"required"`
	SupplierName      string          `json:"supplier_name" binding:"required"`
	Unit              string          `json:"unit" binding:"required"`
	LowStockThreshold decimal.Decimal `json:"low_stock_threshold"`
}

func CreatePurchase(c *gin.Context) {
	var req CreatePurchaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var existing models.Purchase
	if err := database.DB.Where("material_name = ? AND supplier_name = ?", req.MaterialName, req.SupplierName).First(&existing).Error; err == nil {
		c.JSON(http.StatusConflict, gin.H{"error": "Purchase record already exists for this material and supplier", "kind": string(ledger.KindDuplicateKey)})
		return
	}

	threshold := req.LowStockThreshold
	if threshold.IsZero() {
		threshold = decimal.NewFromInt(10)
	}
	purchase := models.Purchase{
		MaterialName:      req.MaterialName,
		SupplierName:      req.SupplierName,
		Unit:              req.Unit,
		LowStockThreshold: threshold,
	}
	if err := database.DB.Create(&purchase).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create purchase record"})
		return
	}
	c.JSON(http.StatusCreated, purchase)
}

func DeletePurchase(c *gin.Context) {
	result := database.DB.Delete(&models.Purchase{}, c.Param("id"))
	if result.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete purchase record"})
		return
	}
	if result.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Purchase record not found", "kind": string(ledger.KindNotFound)})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Purchase record deleted successfully"})
}

type AddPurchaseOrderRequest struct {
	OrderedQty   decimal.Decimal `json:"ordered_qty" binding:"required"`
	PricePerUnit decimal.Decimal `json:"price_per_unit" binding:"required"`
	GSTRate      decimal.Decimal `json:"gst_rate"`
	AdvancePaid  decimal.Decimal `json:"advance_paid"`
}

func AddPurchaseOrder(c *gin.Context) {
	var req AddPurchaseOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.OrderedQty.LessThanOrEqual(decimal.Zero) || req.PricePerUnit.LessThanOrEqual(decimal.Zero) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ordered_qty and price_per_unit must be positive", "kind": string(ledger.KindInvalidAmount)})
		return
	}
	if req.AdvancePaid.IsNegative() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "advance_paid must not be negative", "kind": string(ledger.KindInvalidAmount)})
		return
	}

	var purchase models.Purchase
	if err := database.DB.First(&purchase, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Purchase record not found", "kind": string(ledger.KindNotFound)})
		return
	}

	order := models.PurchaseOrder{
		PurchaseRef:  purchase.ID,
		OrderedQty:   req.OrderedQty,
		PricePerUnit: req.PricePerUnit,
		GSTRate:      req.GSTRate,
		AdvancePaid:  req.AdvancePaid,
		OrderedAt:    time.Now(),
	}
	if req.AdvancePaid.IsPositive() {
		totalWithGST := ledger.SummarizePurchaseOrder(order).TotalWithGST
		if err := ledger.CheckPayment(totalWithGST, req.AdvancePaid); err != nil {
			respondLedgerError(c, err)
			return
		}
	}
	if err := database.DB.Create(&order).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create purchase order"})
		return
	}

	purchasePreloads(database.DB).First(&purchase, purchase.ID)
	c.JSON(http.StatusOK, purchaseResponse(purchase))
}

// AddPurchasePayment validates against the balance computed before the
// append, inside the same transaction as the write.
func AddPurchasePayment(c *gin.Context) {
	var req AmountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var purchase models.Purchase
	err := database.DB.Transaction(func(tx *gorm.DB) error {
		if err := purchasePreloads(lockForUpdate(tx)).First(&purchase, c.Param("id")).Error; err != nil {
			return err
		}
		order, found := findPurchaseOrder(purchase.PurchaseOrders, c.Param("orderId"))
		if !found {
			return gorm.ErrRecordNotFound
		}
		if err := ledger.CheckPayment(ledger.SummarizePurchaseOrder(*order).BalanceDue, req.Amount); err != nil {
			return err
		}
		payment := models.PurchasePayment{OrderRef: order.ID, Amount: req.Amount, PaidAt: time.Now()}
		return tx.Create(&payment).Error
	})
	if err == gorm.ErrRecordNotFound {
		c.JSON(http.StatusNotFound, gin.H{"error": "Order not found", "kind": string(ledger.KindNotFound)})
		return
	}
	if err != nil {
		respondLedgerError(c, err)
		return
	}

	purchasePreloads(database.DB).First(&purchase, purchase.ID)
	c.JSON(http.StatusOK, purchaseResponse(purchase))
}

// AddPurchaseDelivery records a received delivery. Replenishing above
// the threshold silently re-arms the low-stock latch.
func AddPurchaseDelivery(c *gin.Context) {
	var req QtyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var purchase models.Purchase
	err := database.DB.Transaction(func(tx *gorm.DB) error {
		if err := purchasePreloads(lockForUpdate(tx)).First(&purchase, c.Param("id")).Error; err != nil {
			return err
		}
		order, found := findPurchaseOrder(purchase.PurchaseOrders, c.Param("orderId"))
		if !found {
			return gorm.ErrRecordNotFound
		}
		if err := ledger.CheckDelivery(ledger.SummarizePurchaseOrder(*order).PendingQty, req.Qty); err != nil {
			return err
		}
		delivery := models.PurchaseDelivery{OrderRef: order.ID, Qty: req.Qty, DeliveredAt: time.Now()}
		if err := tx.Create(&delivery).Error; err != nil {
			return err
		}

		// Re-read with the new delivery so the monitor sees fresh stock.
		if err := purchasePreloads(tx).First(&purchase, purchase.ID).Error; err != nil {
			return err
		}
		if Monitor.AfterDelivery(&purchase) {
			return tx.Model(&models.Purchase{}).Where("id = ?", purchase.ID).
				Update("low_stock_alert_sent", purchase.LowStockAlertSent).Error
		}
		return nil
	})
	if err == gorm.ErrRecordNotFound {
		c.JSON(http.StatusNotFound, gin.H{"error": "Order not found", "kind": string(ledger.KindNotFound)})
		return
	}
	if err != nil {
		respondLedgerError(c, err)
		return
	}

	purchasePreloads(database.DB).First(&purchase, purchase.ID)
	c.JSON(http.StatusOK, purchaseResponse(purchase))
}

type UsageRequest struct {
	UsedQty decimal.Decimal `json:"used_qty" binding:"required"`
}

// AddUsage draws material from available stock. Crossing the threshold
// downward fires the one-shot low-stock notification.
func AddUsage(c *gin.Context) {
	var req UsageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var purchase models.Purchase
	err := database.DB.Transaction(func(tx *gorm.DB) error {
		if err := purchasePreloads(lockForUpdate(tx)).First(&purchase, c.Param("id")).Error; err != nil {
			return err
		}
		if err := ledger.CheckUsage(purchase, req.UsedQty); err != nil {
			return err
		}
		usage := models.UsageLog{PurchaseRef: purchase.ID, UsedQty: req.UsedQty, UsedAt: time.Now()}
		if err := tx.Create(&usage).Error; err != nil {
			return err
		}

		if err := purchasePreloads(tx).First(&purchase, purchase.ID).Error; err != nil {
			return err
		}
		if Monitor.AfterUsage(&purchase) {
			return tx.Model(&models.Purchase{}).Where("id = ?", purchase.ID).
				Update("low_stock_alert_sent", purchase.LowStockAlertSent).Error
		}
		return nil
	})
	if err == gorm.ErrRecordNotFound {
		c.JSON(http.StatusNotFound, gin.H{"error": "Purchase record not found", "kind": string(ledger.KindNotFound)})
		return
	}
	if err != nil {
		respondLedgerError(c, err)
		return
	}

	purchasePreloads(database.DB).First(&purchase, purchase.ID)
	c.JSON(http.StatusOK, purchaseResponse(purchase))
}

func DeleteUsage(c *gin.Context) {
	result := database.DB.Where("purchase_ref = ?", c.Param("id")).Delete(&models.UsageLog{}, c.Param("usageId"))
	if result.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete usage log"})
		return
	}
	if result.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Usage log not found", "kind": string(ledger.KindNotFound)})
		return
	}

	var purchase models.Purchase
	if err := purchasePreloads(database.DB).First(&purchase, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Purchase record not found", "kind": string(ledger.KindNotFound)})
		return
	}
	c.JSON(http.StatusOK, purchaseResponse(purchase))
}

func findPurchaseOrder(orders []models.PurchaseOrder, idParam string) (*models.PurchaseOrder, bool) {
	for i := range orders {
		if uintParam(idParam) == orders[i].ID {
			return &orders[i], true
		}
	}
	return nil, false
}
