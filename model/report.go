package model

import (
	"encoding/json"
	"time"
)

const (
	StatusPending            = "PENDING"
	StatusCompleted          = "COMPLETED"
	StatusFailed             = "FAILED"
	StatusPartiallyCompleted = "PARTIALLY_COMPLETED"
)

const (
	ErrCodeTransactionFailed = "TRANSACTION_FAILED"
	ErrCodeBundleFailed      = "BUNDLE_FAILED"
)

// PaymentResult is the execution outcome for one payment. Exactly one
// terminal branch is populated: the transaction fields on success, the error
// fields on failure.
type PaymentResult struct {
	ID              string         `json:"id"`
	Status          string         `json:"status"`
	Employee        ResultEmployee `json:"employee"`
	Amount          string         `json:"amount"`
	TransactionHash string         `json:"transactionHash,omitempty"`
	BlockNumber     int64          `json:"blockNumber,omitempty"`
	Timestamp       string         `json:"timestamp,omitempty"`
	ExplorerURL     string         `json:"explorerUrl,omitempty"`
	GasUsed         string         `json:"gasUsed,omitempty"`
	ErrorCode       string         `json:"errorCode,omitempty"`
	ErrorMessage    string         `json:"errorMessage,omitempty"`
}

type ResultEmployee struct {
	Name    string `json:"name"`
	Address string `json:"address"`
}

// PaymentStatusReport aggregates all results for one instruction into a
// pain.002-shaped report. Status is a pure fold over the results: COMPLETED
// iff all succeeded, FAILED iff none did, PARTIALLY_COMPLETED otherwise.
type PaymentStatusReport struct {
	MessageID            string          `json:"messageId"`
	CreationDateTime     string          `json:"creationDateTime"`
	OriginalMessageID    string          `json:"originalMessageId"`
	Status               string          `json:"status"`
	NumberOfTransactions int             `json:"numberOfTransactions"`
	NumberOfSuccessful   int             `json:"numberOfSuccessful"`
	NumberOfFailed       int             `json:"numberOfFailed"`
	TotalAmountProcessed string          `json:"totalAmountProcessed"`
	TotalFeesPaid        string          `json:"totalFeesPaid"`
	ExecutionTime        string          `json:"executionTime"`
	Payments             []PaymentResult `json:"payments"`
}

func (report *PaymentStatusReport) ToJSON() ([]byte, error) {
	return json.Marshal(report)
}

// BatchExecutionResult is what the batch executor hands back after working
// through every payment, regardless of how many failed.
type BatchExecutionResult struct {
	Results      []PaymentResult `json:"results"`
	TotalTimeMs  int64           `json:"totalTimeMs"`
	TotalFees    string          `json:"totalFees"`
	SuccessCount int             `json:"successCount"`
	FailureCount int             `json:"failureCount"`
}

// BatchProgress is reported to the caller as execution moves through the
// batch, window by window and payment by payment.
type BatchProgress struct {
	CurrentBatch          int `json:"currentBatch"`
	TotalBatches          int `json:"totalBatches"`
	CurrentTransaction    int `json:"currentTransaction"`
	TotalTransactions     int `json:"totalTransactions"`
	CompletedTransactions int `json:"completedTransactions"`
	FailedTransactions    int `json:"failedTransactions"`
}

// PayrollRun records one execution of an instruction for the activity log.
type PayrollRun struct {
	RunID           string    `json:"run_id"`
	InstructionID   string    `json:"instruction_id"`
	MessageID       string    `json:"message_id"`
	Status          string    `json:"status"`
	SuccessCount    int       `json:"success_count"`
	FailureCount    int       `json:"failure_count"`
	TotalFees       string    `json:"total_fees"`
	ExecutionTimeMs int64     `json:"execution_time_ms"`
	ExecutedBy      string    `json:"executed_by"`
	CreatedAt       time.Time `json:"created_at"`
}
