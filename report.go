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
	"encoding/csv"
	"encoding/json"
	"encoding/xml"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/stablewallet/payroll/model"
)

// pain.002 transaction status codes.
const (
	txStatusAccepted = "ACCP"
	txStatusPartial  = "PART"
	txStatusRejected = "RJCT"
)

// GenerateReport folds the execution results for one instruction into a
// pain.002-shaped status report. The aggregate status is derived from the
// results alone: COMPLETED iff all succeeded, FAILED iff none did,
// PARTIALLY_COMPLETED otherwise.
func GenerateReport(instruction *model.PaymentInstruction, results []model.PaymentResult, executionTimeMs int64, totalFees string) *model.PaymentStatusReport {
	numberOfSuccessful := 0
	numberOfFailed := 0
	totalAmountProcessed := decimal.Zero

	for _, result := range results {
		switch result.Status {
		case model.StatusCompleted:
			numberOfSuccessful++
			if amount, err := decimal.NewFromString(result.Amount); err == nil {
				totalAmountProcessed = totalAmountProcessed.Add(amount)
			}
		case model.StatusFailed:
			numberOfFailed++
		}
	}

	var status string
	switch {
	case numberOfSuccessful == len(results):
		status = model.StatusCompleted
	case numberOfSuccessful > 0:
		status = model.StatusPartiallyCompleted
	default:
		status = model.StatusFailed
	}

	return &model.PaymentStatusReport{
		MessageID:            fmt.Sprintf("STATUS-%s", instruction.MessageID),
		CreationDateTime:     time.Now().UTC().Format(time.RFC3339),
		OriginalMessageID:    instruction.MessageID,
		Status:               status,
		NumberOfTransactions: len(results),
		NumberOfSuccessful:   numberOfSuccessful,
		NumberOfFailed:       numberOfFailed,
		TotalAmountProcessed: totalAmountProcessed.StringFixed(2),
		TotalFeesPaid:        totalFees,
		ExecutionTime:        fmt.Sprintf("%.1fs", float64(executionTimeMs)/1000),
		Payments:             results,
	}
}

// pain.002 document shape for the XML exporter. Marshalling through structs
// gets every interpolated value escaped, so memos and names with XML
// metacharacters cannot corrupt the document.
type pain002Document struct {
	XMLName        xml.Name       `xml:"Document"`
	Xmlns          string         `xml:"xmlns,attr"`
	CstmrPmtStsRpt cstmrPmtStsRpt `xml:"CstmrPmtStsRpt"`
}

type cstmrPmtStsRpt struct {
	GrpHdr            stsGrpHdr         `xml:"GrpHdr"`
	OrgnlGrpInfAndSts orgnlGrpInfAndSts `xml:"OrgnlGrpInfAndSts"`
	OrgnlPmtInfAndSts orgnlPmtInfAndSts `xml:"OrgnlPmtInfAndSts"`
}

type stsGrpHdr struct {
	MsgId   string `xml:"MsgId"`
	CreDtTm string `xml:"CreDtTm"`
}

type orgnlGrpInfAndSts struct {
	OrgnlMsgId   string `xml:"OrgnlMsgId"`
	OrgnlMsgNmId string `xml:"OrgnlMsgNmId"`
	GrpSts       string `xml:"GrpSts"`
}

type orgnlPmtInfAndSts struct {
	OrgnlPmtInfId string          `xml:"OrgnlPmtInfId"`
	PmtInfSts     string          `xml:"PmtInfSts"`
	NbOfTxsPerSts []nbOfTxsPerSts `xml:"NbOfTxsPerSts"`
	TxInfAndSts   []txInfAndSts   `xml:"TxInfAndSts"`
}

type nbOfTxsPerSts struct {
	DtldNbOfTxs string `xml:"DtldNbOfTxs"`
	DtldSts     string `xml:"DtldSts"`
}

type txInfAndSts struct {
	OrgnlEndToEndId string     `xml:"OrgnlEndToEndId"`
	TxSts           string     `xml:"TxSts"`
	AccptncDtTm     string     `xml:"AccptncDtTm,omitempty"`
	StsRsnInf       *stsRsnInf `xml:"StsRsnInf,omitempty"`
}

type stsRsnInf struct {
	Rsn      *stsRsn  `xml:"Rsn,omitempty"`
	AddtlInf []string `xml:"AddtlInf,omitempty"`
}

type stsRsn struct {
	Cd string `xml:"Cd"`
}

// ReportToXML renders the report as a pain.002.001.03 document. The group
// status maps COMPLETED to ACCP, PARTIALLY_COMPLETED to PART and FAILED to
// RJCT; each payment renders as its own ACCP or RJCT transaction block.
func ReportToXML(report *model.PaymentStatusReport) (string, error) {
	groupStatus := txStatusRejected
	switch report.Status {
	case model.StatusCompleted:
		groupStatus = txStatusAccepted
	case model.StatusPartiallyCompleted:
		groupStatus = txStatusPartial
	}

	transactions := make([]txInfAndSts, 0, len(report.Payments))
	for _, p := range report.Payments {
		if p.Status == model.StatusCompleted {
			transactions = append(transactions, txInfAndSts{
				OrgnlEndToEndId: p.ID,
				TxSts:           txStatusAccepted,
				AccptncDtTm:     p.Timestamp,
				StsRsnInf: &stsRsnInf{
					AddtlInf: []string{
						fmt.Sprintf("Transaction Hash: %s", p.TransactionHash),
						fmt.Sprintf("Block Number: %d", p.BlockNumber),
						fmt.Sprintf("Explorer: %s", p.ExplorerURL),
					},
				},
			})
		} else {
			transactions = append(transactions, txInfAndSts{
				OrgnlEndToEndId: p.ID,
				TxSts:           txStatusRejected,
				StsRsnInf: &stsRsnInf{
					Rsn:      &stsRsn{Cd: p.ErrorCode},
					AddtlInf: []string{p.ErrorMessage},
				},
			})
		}
	}

	doc := pain002Document{
		Xmlns: "urn:iso:std:iso:20022:tech:xsd:pain.002.001.03",
		CstmrPmtStsRpt: cstmrPmtStsRpt{
			GrpHdr: stsGrpHdr{
				MsgId:   report.MessageID,
				CreDtTm: report.CreationDateTime,
			},
			OrgnlGrpInfAndSts: orgnlGrpInfAndSts{
				OrgnlMsgId:   report.OriginalMessageID,
				OrgnlMsgNmId: "pain.001.001.03",
				GrpSts:       groupStatus,
			},
			OrgnlPmtInfAndSts: orgnlPmtInfAndSts{
				OrgnlPmtInfId: report.OriginalMessageID,
				PmtInfSts:     groupStatus,
				NbOfTxsPerSts: []nbOfTxsPerSts{
					{DtldNbOfTxs: strconv.Itoa(report.NumberOfSuccessful), DtldSts: txStatusAccepted},
					{DtldNbOfTxs: strconv.Itoa(report.NumberOfFailed), DtldSts: txStatusRejected},
				},
				TxInfAndSts: transactions,
			},
		},
	}

	out, err := xml.MarshalIndent(doc, "", "  ")
	if err != nil {
		return "", err
	}
	return xml.Header + string(out), nil
}

// csvHeaders is the fixed column order of the CSV export.
var csvHeaders = []string{
	"Payment ID",
	"Employee Name",
	"Employee Address",
	"Amount",
	"Status",
	"Transaction Hash",
	"Block Number",
	"Timestamp",
	"Gas Used",
	"Error Message",
	"Explorer URL",
}

// ReportToCSV renders one row per payment result for accounting systems.
// Cells are quoted and escaped by the CSV writer, so embedded quotes and
// commas in names or error messages survive a round trip.
func ReportToCSV(report *model.PaymentStatusReport) (string, error) {
	var builder strings.Builder
	writer := csv.NewWriter(&builder)

	if err := writer.Write(csvHeaders); err != nil {
		return "", err
	}

	for _, p := range report.Payments {
		blockNumber := ""
		if p.BlockNumber != 0 {
			blockNumber = strconv.FormatInt(p.BlockNumber, 10)
		}
		row := []string{
			p.ID,
			p.Employee.Name,
			p.Employee.Address,
			p.Amount,
			p.Status,
			p.TransactionHash,
			blockNumber,
			p.Timestamp,
			p.GasUsed,
			p.ErrorMessage,
			p.ExplorerURL,
		}
		if err := writer.Write(row); err != nil {
			return "", err
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return "", err
	}
	return strings.TrimRight(builder.String(), "\n"), nil
}

// ReportToJSON serializes the report structure directly. Parsing the output
// back yields the report field-for-field.
func ReportToJSON(report *model.PaymentStatusReport) (string, error) {
	out, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return "", err
	}
	return string(out), nil
}
