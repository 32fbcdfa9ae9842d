package main

import (
	"time"

	"cement-works/internal/config"
	"cement-works/internal/database"
	"cement-works/internal/handlers"
	"cement-works/internal/ledger"
	"cement-works/internal/middleware"
	"cement-works/internal/notify"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

func main() {
	if err := godotenv.Load(); err != nil {
		logrus.Warn("No .env file found")
	}
	config.LoadConfig()

	database.Connect()

	// Low-stock alerts go out by mail once the monitor latches.
	handlers.Monitor = ledger.NewMonitor(&notify.EmailNotifier{
		Host:     config.AppConfig.Mail.SMTPHost,
		Port:     config.AppConfig.Mail.SMTPPort,
		From:     config.AppConfig.Mail.From,
		Password: config.AppConfig.Mail.Password,
		To:       config.AppConfig.Mail.AlertTo,
	})

	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{config.AppConfig.Server.CORSOrigin},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	r.GET("/health", func(c *gin.Context) { c.JSON(200, gin.H{"status": "online"}) })
	r.POST("/login", handlers.Login)

	// Only opens if we explicitly allow it in .env
	if config.AppConfig.Server.AllowRegistration {
		r.POST("/register", handlers.Register)
		logrus.Warn("Registration route is OPEN. Disable this in production!")
	} else {
		logrus.Info("Registration route is disabled")
	}

	api := r.Group("/api")
	api.Use(middleware.AuthMiddleware())
	{
		api.POST("/logout", handlers.Logout)

		// Stacks and the sales side
		api.GET("/stacks", handlers.GetStacks)
		api.GET("/stacks/:id", handlers.GetStack)
		api.GET("/stacks/by-stack-id/:stackId", handlers.FindStackByStackID)
		api.POST("/stacks/:id/orders", handlers.AddOrder)
		api.POST("/stacks/:id/orders/:orderId/payments", handlers.AddOrderPayment)
		api.POST("/stacks/:id/orders/:orderId/deliveries", handlers.AddOrderDelivery)
		api.GET("/stacks/:id/orders/export", handlers.ExportStackOrders)
		api.GET("/balances", handlers.AllBalances)
		api.GET("/stacks/:id/invoices/:buyer", handlers.GetBuyerInvoice)

		// Purchases and the supplier side
		api.GET("/purchases", handlers.GetPurchases)
		api.GET("/purchases/:id", handlers.GetPurchase)
		api.POST("/purchases/:id/orders", handlers.AddPurchaseOrder)
		api.POST("/purchases/:id/orders/:orderId/payments", handlers.AddPurchasePayment)
		api.POST("/purchases/:id/orders/:orderId/deliveries", handlers.AddPurchaseDelivery)
		api.POST("/purchases/:id/usage", handlers.AddUsage)

		// People
		api.GET("/employees", handlers.GetEmployees)
		api.GET("/employees/:id", handlers.GetEmployee)
		api.GET("/employees/shift/:shift/salaries", handlers.GetShiftSalaries)
		api.GET("/managers", handlers.GetManagers)
		api.GET("/managers/:id", handlers.GetManager)
		api.GET("/managers/:id/payroll", handlers.GetManagerPayroll)

		// Attendance
		api.POST("/attendance", handlers.MarkAttendance)
		api.POST("/attendance/bulk", handlers.MarkBulkAttendance)
		api.GET("/attendance/:personType/:id", handlers.GetMonthlyAttendance)
		api.GET("/official-leaves", handlers.GetOfficialLeaves)

		// Chatbot
		api.POST("/chatbot", handlers.ChatbotQuery)

		// ADMIN ONLY
		admin := api.Group("/")
		admin.Use(middleware.RequireRole("admin"))
		{
			admin.POST("/ask", handlers.AskAssistant)

			admin.POST("/stacks", handlers.CreateStack)
			admin.DELETE("/stacks/:id", handlers.DeleteStack)
			admin.PUT("/stacks/:id/price", handlers.UpdatePrice)

			admin.POST("/purchases", handlers.CreatePurchase)
			admin.DELETE("/purchases/:id", handlers.DeletePurchase)
			admin.DELETE("/purchases/:id/usage/:usageId", handlers.DeleteUsage)

			admin.POST("/employees", handlers.CreateEmployee)
			admin.PUT("/employees/:id", handlers.UpdateEmployee)
			admin.DELETE("/employees/:id", handlers.DeleteEmployee)
			admin.POST("/managers", handlers.CreateManager)
			admin.PUT("/managers/:id", handlers.UpdateManager)
			admin.DELETE("/managers/:id", handlers.DeleteManager)

			admin.POST("/official-leaves", handlers.CreateOfficialLeave)
			admin.DELETE("/official-leaves/:id", handlers.DeleteOfficialLeave)

			admin.GET("/overview", handlers.GetOverview)
			admin.GET("/reports/salaries/export", handlers.ExportSalaryReport)
		}
	}

	addr := ":" + config.AppConfig.Server.Port
	logrus.WithField("addr", addr).Info("Server starting")
	if err := r.Run(addr); err != nil {
		logrus.WithError(err).Fatal("Server failed to start")
	}
}
