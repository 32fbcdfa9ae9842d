package handlers

import (
	"net/http"
	"time"

	"cement-works/internal/database"
	"cement-works/internal/ledger"
	"cement-works/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func stackPreloads(db *gorm.DB) *gorm.DB {
	return db.Preload("Orders.Payments").Preload("Orders.Deliveries").Preload("PriceHistory")
}

// stackResponse pairs the stored document with its recomputed
// aggregates. Derived figures are never stored, so every read path
// rebuilds them from the history.
func stackResponse(s models.Stack) gin.H {
	return gin.H{"stack": s, "summary": ledger.SummarizeStack(s)}
}

func GetStacks(c *gin.Context) {
	var stacks []models.Stack
	if err := stackPreloads(database.DB).Order("updated_at desc").Find(&stacks).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch stacks"})
		return
	}
	out := make([]gin.H, 0, len(stacks))
	for _, s := range stacks {
		out = append(out, stackResponse(s))
	}
	c.JSON(http.StatusOK, out)
}

func GetStack(c *gin.Context) {
	var stack models.Stack
	if err := stackPreloads(database.DB).First(&stack, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Stack not found", "kind": string(ledger.KindNotFound)})
		return
	}
	c.JSON(http.StatusOK, stackResponse(stack))
}

// FindStackByStackID resolves a stack by its business id, used by the
// chatbot widget.
func FindStackByStackID(c *gin.Context) {
	var stack models.Stack
	if err := stackPreloads(database.DB).Where("LOWER(stack_id) = LOWER(?)", c.Param("stackId")).First(&stack).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Stack not found", "kind": string(ledger.KindNotFound)})
		return
	}
	c.JSON(http.StatusOK, stackResponse(stack))
}

type CreateStackRequest struct {
	StackID  string          `json:"stack_id" binding:"required"`
	Material string          `json:"material" binding:"required"`
	TotalQty decimal.Decimal `json:"total_qty" binding:"required"`
	Unit     string          `json:"unit" binding:"required"`
}

func CreateStack(c *gin.Context) {
	var req CreateStackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.TotalQty.LessThanOrEqual(decimal.Zero) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "total_qty must be positive", "kind": string(ledger.KindInvalidAmount)})
		return
	}

	var existing models.Stack
	if err := database.DB.Where("stack_id = ?", req.StackID).First(&existing).Error; err == nil {
		c.JSON(http.StatusConflict, gin.H{"error": "Stack already exists", "kind": string(ledger.KindDuplicateKey)})
		return
	}

	stack := models.Stack{
		StackID:  req.StackID,
		Material: req.Material,
		TotalQty: req.TotalQty,
		Unit:     req.Unit,
	}
	if err := database.DB.Create(&stack).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create stack"})
		return
	}
	c.JSON(http.StatusCreated, stack)
}

func DeleteStack(c *gin.Context) {
	result := database.DB.Delete(&models.Stack{}, c.Param("id"))
	if result.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete stack"})
		return
	}
	if result.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Stack not found", "kind": string(ledger.KindNotFound)})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Stack deleted successfully"})
}

type UpdatePriceRequest struct {
	Price   decimal.Decimal `json:"price" binding:"required"`
	GSTRate decimal.Decimal `json:"gst_rate"`
}

// UpdatePrice appends a point to the price history. Existing orders
// keep their snapshotted price; only future orders see the new one.
func UpdatePrice(c *gin.Context) {
	var req UpdatePriceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Price.LessThanOrEqual(decimal.Zero) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "price must be positive", "kind": string(ledger.KindInvalidAmount)})
		return
	}
	if req.GSTRate.IsNegative() || req.GSTRate.GreaterThan(decimal.NewFromInt(100)) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "gst_rate must be between 0 and 100", "kind": string(ledger.KindInvalidAmount)})
		return
	}

	var stack models.Stack
	if err := database.DB.First(&stack, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Stack not found", "kind": string(ledger.KindNotFound)})
		return
	}

	point := models.PricePoint{
		StackRef:   stack.ID,
		Price:      req.Price,
		GSTRate:    req.GSTRate,
		RecordedAt: time.Now(),
	}
	if err := database.DB.Create(&point).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to record price"})
		return
	}

	stackPreloads(database.DB).First(&stack, stack.ID)
	c.JSON(http.StatusOK, stackResponse(stack))
}

type AddOrderRequest struct {
	Buyer       string          `json:"buyer" binding:"required"`
	Qty         decimal.Decimal `json:"qty" binding:"required"`
	AdvancePaid decimal.Decimal `json:"advance_paid"`
}

// AddOrder carves a sales order out of the stack, snapshotting the
// latest price. Validation runs against the state read under lock,
// before anything is written.
func AddOrder(c *gin.Context) {
	var req AddOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.AdvancePaid.IsNegative() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "advance_paid must not be negative", "kind": string(ledger.KindInvalidAmount)})
		return
	}

	var stack models.Stack
	err := database.DB.Transaction(func(tx *gorm.DB) error {
		if err := stackPreloads(lockForUpdate(tx)).First(&stack, c.Param("id")).Error; err != nil {
			return err
		}
		if err := ledger.CheckOrderQty(stack, req.Qty); err != nil {
			return err
		}

		price, gstRate := ledger.LatestPrice(stack.PriceHistory)
		order := models.StackOrder{
			StackRef:     stack.ID,
			Buyer:        req.Buyer,
			Qty:          req.Qty,
			PricePerUnit: price,
			GSTRate:      gstRate,
			AdvancePaid:  req.AdvancePaid,
			OrderedAt:    time.Now(),
		}
		if req.AdvancePaid.IsPositive() {
			totalWithGST := ledger.SummarizeOrder(order).TotalWithGST
			if err := ledger.CheckPayment(totalWithGST, req.AdvancePaid); err != nil {
				return err
			}
		}
		return tx.Create(&order).Error
	})
	if err == gorm.ErrRecordNotFound {
		c.JSON(http.StatusNotFound, gin.H{"error": "Stack not found", "kind": string(ledger.KindNotFound)})
		return
	}
	if err != nil {
		respondLedgerError(c, err)
		return
	}

	stackPreloads(database.DB).First(&stack, stack.ID)
	c.JSON(http.StatusOK, stackResponse(stack))
}

type AmountRequest struct {
	Amount decimal.Decimal `json:"amount" binding:"required"`
}

// AddOrderPayment appends a payment after checking it against the
// balance due computed from the history read under lock.
func AddOrderPayment(c *gin.Context) {
	var req AmountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var stack models.Stack
	err := database.DB.Transaction(func(tx *gorm.DB) error {
		if err := stackPreloads(lockForUpdate(tx)).First(&stack, c.Param("id")).Error; err != nil {
			return err
		}
		order, found := findOrder(stack.Orders, c.Param("orderId"))
		if !found {
			return gorm.ErrRecordNotFound
		}
		if err := ledger.CheckPayment(ledger.SummarizeOrder(*order).BalanceDue, req.Amount); err != nil {
			return err
		}
		payment := models.Payment{OrderRef: order.ID, Amount: req.Amount, PaidAt: time.Now()}
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

	stackPreloads(database.DB).First(&stack, stack.ID)
	c.JSON(http.StatusOK, stackResponse(stack))
}

type QtyRequest struct {
	Qty decimal.Decimal `json:"qty" binding:"required"`
}

// AddOrderDelivery appends a partial delivery after checking it against
// the pending quantity.
func AddOrderDelivery(c *gin.Context) {
	var req QtyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var stack models.Stack
	err := database.DB.Transaction(func(tx *gorm.DB) error {
		if err := stackPreloads(lockForUpdate(tx)).First(&stack, c.Param("id")).Error; err != nil {
			return err
		}
		order, found := findOrder(stack.Orders, c.Param("orderId"))
		if !found {
			return gorm.ErrRecordNotFound
		}
		if err := ledger.CheckDelivery(ledger.SummarizeOrder(*order).PendingQty, req.Qty); err != nil {
			return err
		}
		delivery := models.Delivery{OrderRef: order.ID, Qty: req.Qty, DeliveredAt: time.Now()}
		return tx.Create(&delivery).Error
	})
	if err == gorm.ErrRecordNotFound {
		c.JSON(http.StatusNotFound, gin.H{"error": "Order not found", "kind": string(ledger.KindNotFound)})
		return
	}
	if err != nil {
		respondLedgerError(c, err)
		return
	}

	stackPreloads(database.DB).First(&stack, stack.ID)
	c.JSON(http.StatusOK, stackResponse(stack))
}

// AllBalances totals the outstanding balance across every stack.
func AllBalances(c *gin.Context) {
	overview, err := database.GetOverview(database.DB)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compute balances"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"total_balance": overview.TotalReceivable,
		"count":         overview.StackCount,
	})
}

// GetBuyerInvoice aggregates one buyer's orders in a stack into an
// invoice payload. Negative per-order balances propagate into the
// totals rather than being clamped.
func GetBuyerInvoice(c *gin.Context) {
	var stack models.Stack
	if err := stackPreloads(database.DB).First(&stack, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Stack not found", "kind": string(ledger.KindNotFound)})
		return
	}

	buyer := c.Param("buyer")
	var buyerOrders []models.StackOrder
	for _, o := range stack.Orders {
		if equalFold(o.Buyer, buyer) {
			buyerOrders = append(buyerOrders, o)
		}
	}
	if len(buyerOrders) == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "No orders found for this buyer", "kind": string(ledger.KindNotFound)})
		return
	}

	invoice := ledger.InvoiceForBuyer(buyer, buyerOrders)
	c.JSON(http.StatusOK, gin.H{
		"invoice_no":     uuid.NewString(),
		"invoice_date":   time.Now().Format("2006-01-02"),
		"material":       stack.Material,
		"unit":           stack.Unit,
		"customer_name":  stack.CustomerName,
		"state":          stack.State,
		"state_code":     stack.StateCode,
		"order_no":       stack.OrderNo,
		"dc_no":          stack.DCNo,
		"recipient_code": stack.RecipientCode,
		"invoice":        invoice,
	})
}

func findOrder(orders []models.StackOrder, idParam string) (*models.StackOrder, bool) {
	for i := range orders {
		if uintParam(idParam) == orders[i].ID {
			return &orders[i], true
		}
	}
	return nil, false
}
