package extract

import "github.com/txintel/txintel/internal/model"

// DefaultReceiptExamples returns the built-in few-shot example set for
// receipt-style documents.
func DefaultReceiptExamples() []model.ExampleDocument {
	return []model.ExampleDocument{
		{
			Text: `WHOLE FOODS MARKET
123 Main St, Anytown USA
Phone: (555) 123-4567

Date: 03/15/2024  Time: 2:30 PM
Transaction #: 789012

Organic Bananas       $3.49
Almond Milk 1L        $4.99
Free Range Eggs       $5.29
Sourdough Bread       $3.99

Subtotal:            $17.76
Tax (8.5%):          $1.51
Total:               $19.27

Payment: VISA ****1234
Thank you for shopping!`,
			Entities: []model.Entity{
				{Class: model.EntityMerchant, Text: "WHOLE FOODS MARKET", Attributes: map[string]string{"type": "store_name", "category": "Groceries"}},
				{Class: model.EntityAddress, Text: "123 Main St, Anytown USA", Attributes: map[string]string{"type": "store_address"}},
				{Class: model.EntityDate, Text: "03/15/2024", Attributes: map[string]string{"type": "transaction_date"}},
				{Class: model.EntityTime, Text: "2:30 PM", Attributes: map[string]string{"type": "transaction_time"}},
				{Class: model.EntityTransactionID, Text: "789012", Attributes: map[string]string{"type": "receipt_number"}},
				{Class: model.EntityItem, Text: "Organic Bananas", Attributes: map[string]string{"price": "3.49", "category": "produce"}},
				{Class: model.EntityItem, Text: "Almond Milk 1L", Attributes: map[string]string{"price": "4.99", "category": "dairy_alternative"}},
				{Class: model.EntityItem, Text: "Free Range Eggs", Attributes: map[string]string{"price": "5.29", "category": "dairy"}},
				{Class: model.EntityItem, Text: "Sourdough Bread", Attributes: map[string]string{"price": "3.99", "category": "bakery"}},
				{Class: model.EntitySubtotal, Text: "$17.76", Attributes: map[string]string{"amount": "17.76", "type": "pre_tax"}},
				{Class: model.EntityTax, Text: "$1.51", Attributes: map[string]string{"rate": "8.5%", "amount": "1.51"}},
				{Class: model.EntityTotal, Text: "$19.27", Attributes: map[string]string{"amount": "19.27", "type": "final_amount"}},
				{Class: model.EntityPaymentMethod, Text: "VISA ****1234", Attributes: map[string]string{"type": "credit_card", "last_four": "1234"}},
			},
		},
	}
}
