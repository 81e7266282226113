package model

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

// PaymentInstruction is one uploaded payroll batch, normalized from either a
// pain.001 XML document or the simplified JSON schema. Payments keep their
// input order; that order drives execution and is preserved in reports.
//
// The instruction is never mutated after parsing. Downstream stages read it
// and produce new derived structures.
type PaymentInstruction struct {
	MessageID            string              `json:"messageId"`
	CreationDateTime     string              `json:"creationDateTime"`
	NumberOfTransactions int                 `json:"numberOfTransactions"`
	ControlSum           decimal.NullDecimal `json:"controlSum"`
	Initiator            Initiator           `json:"initiator"`
	Payments             []Payment           `json:"payments"`
	FeeToken             string              `json:"feeToken"`
}

// Initiator describes the party that submitted the batch. Descriptive only,
// never validated.
type Initiator struct {
	Name string `json:"name"`
	ID   string `json:"id"`
}

// Payment is one instruction line. ID uniqueness is not enforced at parse
// time; duplicates must not break later stages. Amount stays a decimal
// string until execution converts it to minor units.
type Payment struct {
	ID       string   `json:"id"`
	Employee Employee `json:"employee"`
	Amount   string   `json:"amount"`
	Currency string   `json:"currency"`
	Token    string   `json:"token"`
	Memo     string   `json:"memo,omitempty"`
}

// Employee identifies the payment recipient. Address format is not checked
// here; the transfer boundary rejects bad addresses.
type Employee struct {
	Name       string `json:"name,omitempty"`
	Address    string `json:"address"`
	EmployeeID string `json:"employeeId"`
}

func (instruction *PaymentInstruction) ToJSON() ([]byte, error) {
	return json.Marshal(instruction)
}

// InstructionRecord is a stored instruction with its identity and upload
// metadata. The embedded instruction is the normalized document exactly as
// the parser produced it.
type InstructionRecord struct {
	InstructionID        string              `json:"instruction_id"`
	MessageID            string              `json:"message_id"`
	NumberOfTransactions int                 `json:"number_of_transactions"`
	CreatedAt            time.Time           `json:"created_at"`
	Instruction          *PaymentInstruction `json:"instruction,omitempty"`
}
