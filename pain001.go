/*
Copyright 2025 Stablewallet Authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package payroll

import (
	"encoding/json"
	"encoding/xml"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"

	"github.com/stablewallet/payroll/config"
	"github.com/stablewallet/payroll/model"
)

// ParseError reports a malformed or structurally invalid payment instruction
// file. Both the XML and the JSON path fail with this one error type; the
// underlying cause is wrapped.
type ParseError struct {
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("failed to parse payment instruction: %v", e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

func newParseError(err error) *ParseError {
	return &ParseError{Err: err}
}

// pain.001 document shape. Fields decode as raw strings throughout: amounts
// and account identifiers are decimal/hex strings that numeric coercion
// would corrupt. The `,chardata`/`,attr` tags are the single normalization
// rule for elements that carry both text content and attributes.
type pain001Document struct {
	XMLName          xml.Name          `xml:"Document"`
	CstmrCdtTrfInitn *cstmrCdtTrfInitn `xml:"CstmrCdtTrfInitn"`
}

type cstmrCdtTrfInitn struct {
	GrpHdr *grpHdr  `xml:"GrpHdr"`
	PmtInf []pmtInf `xml:"PmtInf"`
}

type grpHdr struct {
	MsgId    string    `xml:"MsgId"`
	CreDtTm  string    `xml:"CreDtTm"`
	NbOfTxs  string    `xml:"NbOfTxs"`
	CtrlSum  string    `xml:"CtrlSum"`
	InitgPty *initgPty `xml:"InitgPty"`
}

type initgPty struct {
	Nm string `xml:"Nm"`
	Id struct {
		OrgId struct {
			Othr struct {
				Id string `xml:"Id"`
			} `xml:"Othr"`
		} `xml:"OrgId"`
	} `xml:"Id"`
}

type pmtInf struct {
	CdtTrfTxInf []cdtTrfTxInf `xml:"CdtTrfTxInf"`
}

type cdtTrfTxInf struct {
	PmtId struct {
		EndToEndId string `xml:"EndToEndId"`
	} `xml:"PmtId"`
	Amt struct {
		InstdAmt instdAmt `xml:"InstdAmt"`
	} `xml:"Amt"`
	Cdtr struct {
		Nm string `xml:"Nm"`
	} `xml:"Cdtr"`
	CdtrAcct struct {
		Id struct {
			Othr struct {
				Id string `xml:"Id"`
			} `xml:"Othr"`
		} `xml:"Id"`
	} `xml:"CdtrAcct"`
	RmtInf struct {
		Ustrd string `xml:"Ustrd"`
	} `xml:"RmtInf"`
}

// instdAmt is the instructed amount: text content is the decimal amount, the
// Ccy attribute the ISO currency code.
type instdAmt struct {
	Ccy   string `xml:"Ccy,attr"`
	Value string `xml:",chardata"`
}

// ParsePain001 parses an uploaded payment instruction file into a normalized
// PaymentInstruction. The format is detected from the content prefix:
// anything starting with an XML declaration or a Document root is treated as
// pain.001 XML, everything else as the simplified JSON schema.
//
// All parse failures, from either path, surface as a single *ParseError.
func ParsePain001(content []byte) (*model.PaymentInstruction, error) {
	trimmed := strings.TrimSpace(string(content))

	if strings.HasPrefix(trimmed, "<?xml") || strings.HasPrefix(trimmed, "<Document") {
		return parseXMLPain001([]byte(trimmed))
	}
	return parseJSONPain001([]byte(trimmed))
}

// defaultToken returns the configured primary stablecoin, falling back to
// the built-in default when no configuration is loaded (CLI one-shots).
func defaultToken() string {
	cnf, err := config.Fetch()
	if err != nil {
		return config.DEFAULT_TOKEN
	}
	return cnf.Chain.DefaultToken
}

func parseXMLPain001(content []byte) (*model.PaymentInstruction, error) {
	var doc pain001Document
	if err := xml.Unmarshal(content, &doc); err != nil {
		return nil, newParseError(errors.Wrap(err, "invalid pain.001 XML"))
	}

	if doc.CstmrCdtTrfInitn == nil {
		return nil, newParseError(errors.New("Invalid pain.001 XML format: Missing Document/CstmrCdtTrfInitn"))
	}

	header := doc.CstmrCdtTrfInitn.GrpHdr
	paymentInfos := doc.CstmrCdtTrfInitn.PmtInf
	if header == nil || len(paymentInfos) == 0 {
		return nil, newParseError(errors.New("Invalid pain.001 XML format: Missing GrpHdr or PmtInf"))
	}

	token := defaultToken()

	var payments []model.Payment
	for _, info := range paymentInfos {
		for _, txn := range info.CdtTrfTxInf {
			payments = append(payments, parseCreditTransfer(txn, len(payments), token))
		}
	}

	instruction := &model.PaymentInstruction{
		MessageID:            stringOr(header.MsgId, "UNKNOWN"),
		CreationDateTime:     stringOr(header.CreDtTm, time.Now().UTC().Format(time.RFC3339)),
		NumberOfTransactions: parseCount(header.NbOfTxs, len(payments)),
		ControlSum:           parseControlSum(header.CtrlSum),
		Initiator:            parseInitiator(header.InitgPty),
		Payments:             payments,
		FeeToken:             token,
	}
	return instruction, nil
}

// parseCreditTransfer maps one CdtTrfTxInf block to a Payment. index is the
// zero-based position across the whole instruction, used for defaulted IDs.
func parseCreditTransfer(txn cdtTrfTxInf, index int, token string) model.Payment {
	paymentID := strings.TrimSpace(txn.PmtId.EndToEndId)
	if paymentID == "" {
		paymentID = fmt.Sprintf("PAY-%d", index+1)
	}

	amount := strings.TrimSpace(txn.Amt.InstdAmt.Value)
	if amount == "" {
		amount = "0"
	}

	currency := strings.TrimSpace(txn.Amt.InstdAmt.Ccy)
	if currency == "" {
		currency = "USD"
	}

	employeeName := strings.TrimSpace(txn.Cdtr.Nm)
	if employeeName == "" {
		employeeName = fmt.Sprintf("Employee %s", paymentID)
	}

	return model.Payment{
		ID: paymentID,
		Employee: model.Employee{
			Name:       employeeName,
			Address:    strings.TrimSpace(txn.CdtrAcct.Id.Othr.Id),
			EmployeeID: paymentID,
		},
		Amount:   amount,
		Currency: currency,
		Token:    token,
		Memo:     strings.TrimSpace(txn.RmtInf.Ustrd),
	}
}

func parseInitiator(party *initgPty) model.Initiator {
	if party == nil {
		return model.Initiator{Name: "Unknown", ID: "UNKNOWN"}
	}
	return model.Initiator{
		Name: stringOr(strings.TrimSpace(party.Nm), "Unknown"),
		ID:   stringOr(strings.TrimSpace(party.Id.OrgId.Othr.Id), "UNKNOWN"),
	}
}

func parseCount(value string, fallback int) int {
	n, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return fallback
	}
	return n
}

// parseControlSum keeps the declared total as an explicit "absent" value
// when it is missing or malformed. Callers must handle the invalid state.
func parseControlSum(value string) decimal.NullDecimal {
	d, err := decimal.NewFromString(strings.TrimSpace(value))
	if err != nil {
		return decimal.NullDecimal{}
	}
	return decimal.NullDecimal{Decimal: d, Valid: true}
}

func stringOr(value, fallback string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return fallback
	}
	return value
}

func parseJSONPain001(content []byte) (*model.PaymentInstruction, error) {
	// Probe the required top-level fields first: the simplified schema only
	// promises a messageId and an array-typed payments field. Anything else
	// is taken as-is and surfaces in later stages, not here.
	var probe struct {
		MessageID string          `json:"messageId"`
		Payments  json.RawMessage `json:"payments"`
	}
	if err := json.Unmarshal(content, &probe); err != nil {
		return nil, newParseError(errors.Wrap(err, "Invalid JSON payment instruction format"))
	}
	if probe.MessageID == "" || !isJSONArray(probe.Payments) {
		return nil, newParseError(errors.New("Invalid JSON payment instruction format"))
	}

	var instruction model.PaymentInstruction
	if err := json.Unmarshal(content, &instruction); err != nil {
		return nil, newParseError(errors.Wrap(err, "Invalid JSON payment instruction format"))
	}
	return &instruction, nil
}

func isJSONArray(raw json.RawMessage) bool {
	trimmed := strings.TrimSpace(string(raw))
	return strings.HasPrefix(trimmed, "[")
}
