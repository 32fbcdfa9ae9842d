package notify

import (
	"fmt"
	"net/smtp"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// EmailNotifier sends the low-stock alert mail. Delivery is
// best-effort: Notify is dispatched in a goroutine by SendAsync style
// callers and a failure is only logged upstream.
type EmailNotifier struct {
	Host     string
	Port     string
	From     string
	Password string
	To       string
}

func (n *EmailNotifier) Notify(materialName, supplierName string, availableStock decimal.Decimal, unit string, threshold decimal.Decimal) error {
	subject := fmt.Sprintf("Low Stock Alert: %s", materialName)
	body := fmt.Sprintf(
		"Stock Alert!\r\n\r\n"+
			"The stock for %s from supplier %s is running low.\r\n"+
			"Current Available Stock: %s %s\r\n"+
			"The low-stock threshold is set to %s %s.\r\n",
		materialName, supplierName,
		availableStock.StringFixed(2), unit,
		threshold, unit,
	)
	msg := []byte(fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\n\r\n%s", n.From, n.To, subject, body))

	auth := smtp.PlainAuth("", n.From, n.Password, n.Host)
	if err := smtp.SendMail(n.Host+":"+n.Port, auth, n.From, []string{n.To}, msg); err != nil {
		return err
	}
	logrus.WithFields(logrus.Fields{
		"material": materialName,
		"supplier": supplierName,
	}).Info("low stock alert mail sent")
	return nil
}
