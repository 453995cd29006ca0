package models

// Payment status and presentation values used by installments and payment history.
const (
	PaymentStatusPaid   = "پرداخت شده"
	PaymentTypeDeposit  = "واریز"
	PaymentTypeInstall  = "قسط"
	PaymentMethodCash   = "نقدی (یکجا)"
	PaymentMethodInstal = "قسطی"
)

// Installment is one scheduled partial payment of a student's course fee.
// It counts as paid once it is linked to a transaction.
type Installment struct {
	ID              int     `json:"id"`
	StudentID       int     `json:"studentId"`
	Amount          int64   `json:"amount"`
	DueDate         string  `json:"dueDate"`
	PaymentStatus   string  `json:"paymentStatus"`
	TransactionID   *string `json:"transactionId"`
	LastContactDate string  `json:"lastContactDate"`
}

// Paid reports whether the installment is settled by a transaction.
func (i Installment) Paid() bool {
	return i.TransactionID != nil
}

// Clone returns a deep copy of the installment.
func (i Installment) Clone() Installment {
	out := i
	if i.TransactionID != nil {
		id := *i.TransactionID
		out.TransactionID = &id
	}
	return out
}

// Transaction is a payment received from a student.
type Transaction struct {
	ID        string            `json:"id"`
	StudentID int               `json:"studentId"`
	Amount    int64             `json:"amount"`
	Date      string            `json:"date"`
	Method    string            `json:"method"`
	Status    string            `json:"status"`
	Notes     []TransactionNote `json:"notes"`
}

// TransactionNote is an audit note on a transaction. Notes are kept newest first.
type TransactionNote struct {
	Author string `json:"author"`
	Date   string `json:"date"`
	Text   string `json:"text"`
}

// Clone returns a deep copy of the transaction.
func (t Transaction) Clone() Transaction {
	out := t
	out.Notes = cloneSlice(t.Notes)
	return out
}
